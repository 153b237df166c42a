package scoring

import (
	"math"

	"naimuBack/internal/models"
)

// Weights is the immutable factor weight set of the scoring engine. The
// defaults sum to 1.0; deployments may override them through config.
type Weights struct {
	Category       float64 `yaml:"category"`
	Distance       float64 `yaml:"distance"`
	Rating         float64 `yaml:"rating"`
	Responsiveness float64 `yaml:"responsiveness"`
	Experience     float64 `yaml:"experience"`
	Verification   float64 `yaml:"verification"`
}

// DefaultWeights returns the production weight set.
func DefaultWeights() Weights {
	return Weights{
		Category:       0.25,
		Distance:       0.25,
		Rating:         0.20,
		Responsiveness: 0.15,
		Experience:     0.10,
		Verification:   0.05,
	}
}

// Sum returns the sum of all factor weights.
func (w Weights) Sum() float64 {
	return w.Category + w.Distance + w.Rating + w.Responsiveness + w.Experience + w.Verification
}

// Breakdown holds the per-factor components, each normalized to 0..100.
type Breakdown struct {
	Category       float64 `json:"category"`
	Distance       float64 `json:"distance"`
	Rating         float64 `json:"rating"`
	Responsiveness float64 `json:"responsiveness"`
	Experience     float64 `json:"experience"`
	Verification   float64 `json:"verification"`
}

// Score is the match result between one task and one professional.
type Score struct {
	Total     int       `json:"total"`
	Breakdown Breakdown `json:"breakdown"`
}

// Engine computes match scores. Pure, no I/O; safe to share across
// goroutines.
type Engine struct {
	weights Weights
}

// NewEngine builds an engine with the given weight set. Empty or negative
// sets fall back to the defaults; a positive set that does not sum to 1.0 is
// normalized, so config overrides cannot push totals past 100.
func NewEngine(w Weights) Engine {
	sum := w.Sum()
	if sum <= 0 || w.Category < 0 || w.Distance < 0 || w.Rating < 0 ||
		w.Responsiveness < 0 || w.Experience < 0 || w.Verification < 0 {
		return Engine{weights: DefaultWeights()}
	}
	// Components are 0..100, so totals stay in range only for a unit sum.
	if math.Abs(sum-1.0) > 1e-9 {
		w = Weights{
			Category:       w.Category / sum,
			Distance:       w.Distance / sum,
			Rating:         w.Rating / sum,
			Responsiveness: w.Responsiveness / sum,
			Experience:     w.Experience / sum,
			Verification:   w.Verification / sum,
		}
	}
	return Engine{weights: w}
}

// Score ranks a professional against a task. A professional without the
// task's category scores a hard zero, no partial credit.
func (e Engine) Score(task models.Task, pro models.Professional) Score {
	years, serves := pro.YearsIn(task.CategoryID)
	if !serves {
		return Score{}
	}

	b := Breakdown{
		Category:       100,
		Distance:       distanceComponent(task, pro),
		Rating:         ratingComponent(pro),
		Responsiveness: responsivenessComponent(pro),
		Experience:     experienceComponent(years),
	}
	if pro.Verified {
		b.Verification = 100
	}

	w := e.weights
	total := w.Category*b.Category +
		w.Distance*b.Distance +
		w.Rating*b.Rating +
		w.Responsiveness*b.Responsiveness +
		w.Experience*b.Experience +
		w.Verification*b.Verification

	return Score{Total: int(math.Round(total)), Breakdown: b}
}

// distanceComponent grades proximity. Inside the service radius the score
// falls linearly from 100 to 20 at the boundary; outside it the penalty
// keeps growing until it bottoms out at zero. Missing coordinates on either
// side score neutral.
func distanceComponent(task models.Task, pro models.Professional) float64 {
	if task.Latitude == nil || task.Longitude == nil || pro.Latitude == nil || pro.Longitude == nil {
		return 50
	}
	radius := pro.ServiceRadiusKM
	if radius <= 0 {
		return 50
	}
	d := DistanceKM(*task.Latitude, *task.Longitude, *pro.Latitude, *pro.Longitude)
	if d <= radius {
		return 100 - (d/radius)*80
	}
	p := 100 - (d/radius)*100
	if p < 0 {
		p = 0
	}
	return p
}

// ratingComponent discounts low review samples and stays neutral with no
// reviews at all.
func ratingComponent(pro models.Professional) float64 {
	switch {
	case pro.ReviewCount >= 3:
		return pro.Rating / 5 * 100
	case pro.ReviewCount > 0:
		return pro.Rating/5*50 + 25
	default:
		return 50
	}
}

func responsivenessComponent(pro models.Professional) float64 {
	score := pro.ResponseRate
	if score < 0 {
		score = 0
	}
	if score > 100 {
		score = 100
	}
	if pro.ResponseTimeH != nil {
		if *pro.ResponseTimeH <= 2 {
			score += 10
			if score > 100 {
				score = 100
			}
		} else if *pro.ResponseTimeH > 24 {
			score -= 20
			if score < 0 {
				score = 0
			}
		}
	}
	return score
}

func experienceComponent(years int) float64 {
	switch {
	case years >= 10:
		return 100
	case years >= 5:
		return 80
	case years >= 2:
		return 60
	case years >= 1:
		return 40
	default:
		return 20
	}
}
