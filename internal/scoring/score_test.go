package scoring

import (
	"math"
	"testing"

	"naimuBack/internal/models"
)

func floatPtr(v float64) *float64 { return &v }

func plumbingTask() models.Task {
	return models.Task{
		ID:         1,
		CategoryID: 7,
		Latitude:   floatPtr(52.37),
		Longitude:  floatPtr(4.90),
	}
}

func plumber() models.Professional {
	return models.Professional{
		ID:              10,
		Latitude:        floatPtr(52.37),
		Longitude:       floatPtr(4.90),
		ServiceRadiusKM: 20,
		Rating:          4.5,
		ReviewCount:     12,
		ResponseRate:    90,
		ResponseTimeH:   floatPtr(1),
		Verified:        true,
		Categories:      []models.CategoryExperience{{CategoryID: 7, Years: 6}},
	}
}

func TestHardCategoryFilter(t *testing.T) {
	e := NewEngine(Weights{})
	pro := plumber()
	pro.Categories = []models.CategoryExperience{{CategoryID: 99, Years: 20}}
	s := e.Score(plumbingTask(), pro)
	if s.Total != 0 {
		t.Fatalf("expected total 0 without category match, got %d", s.Total)
	}
	if s.Breakdown != (Breakdown{}) {
		t.Fatalf("expected all-zero breakdown, got %+v", s.Breakdown)
	}
}

func TestDefaultWeightsSumToOne(t *testing.T) {
	if math.Abs(DefaultWeights().Sum()-1.0) > 1e-9 {
		t.Fatalf("weights must sum to 1.0, got %f", DefaultWeights().Sum())
	}
}

func TestTotalWithinBounds(t *testing.T) {
	e := NewEngine(Weights{})
	pros := []models.Professional{
		plumber(),
		{Categories: []models.CategoryExperience{{CategoryID: 7}}},
		{
			Categories:      []models.CategoryExperience{{CategoryID: 7, Years: 15}},
			Latitude:        floatPtr(52.37),
			Longitude:       floatPtr(4.90),
			ServiceRadiusKM: 50,
			Rating:          5,
			ReviewCount:     100,
			ResponseRate:    100,
			ResponseTimeH:   floatPtr(0.5),
			Verified:        true,
		},
	}
	for _, pro := range pros {
		s := e.Score(plumbingTask(), pro)
		if s.Total < 0 || s.Total > 100 {
			t.Fatalf("total out of range: %d", s.Total)
		}
	}
}

func TestPerfectProfileScoresHundred(t *testing.T) {
	e := NewEngine(Weights{})
	pro := plumber()
	pro.Categories[0].Years = 15
	pro.Rating = 5
	pro.ResponseRate = 100
	s := e.Score(plumbingTask(), pro)
	if s.Total != 100 {
		t.Fatalf("expected 100 for a perfect profile at zero distance, got %d", s.Total)
	}
}

func TestOverweightedConfigNormalized(t *testing.T) {
	e := NewEngine(Weights{
		Category:       0.5,
		Distance:       0.5,
		Rating:         0.5,
		Responsiveness: 0.5,
		Experience:     0.5,
		Verification:   0.5,
	})
	pro := plumber()
	pro.Categories[0].Years = 15
	pro.Rating = 5
	pro.ResponseRate = 100
	s := e.Score(plumbingTask(), pro)
	if s.Total != 100 {
		t.Fatalf("expected 100 for a perfect profile under an overweighted set, got %d", s.Total)
	}

	s = e.Score(plumbingTask(), plumber())
	if s.Total < 0 || s.Total > 100 {
		t.Fatalf("total out of range under an overweighted set: %d", s.Total)
	}
}

func TestNegativeWeightsFallBackToDefaults(t *testing.T) {
	bad := NewEngine(Weights{Category: 1.5, Distance: -0.5})
	want := NewEngine(Weights{})
	pro := plumber()
	if got, def := bad.Score(plumbingTask(), pro), want.Score(plumbingTask(), pro); got != def {
		t.Fatalf("expected default scoring for a negative weight set, got %+v want %+v", got, def)
	}
}

func TestDistanceMonotoneWithinRadius(t *testing.T) {
	task := plumbingTask()
	prev := 101.0
	// Walk the professional away from the task along a meridian.
	for _, lat := range []float64{52.37, 52.40, 52.45, 52.50} {
		pro := plumber()
		pro.Latitude = floatPtr(lat)
		c := distanceComponent(task, pro)
		if c > prev {
			t.Fatalf("distance component must not increase with distance: %f after %f", c, prev)
		}
		prev = c
	}
}

func TestDistancePenaltyOutsideRadius(t *testing.T) {
	task := plumbingTask()
	pro := plumber()
	pro.ServiceRadiusKM = 10
	pro.Latitude = floatPtr(52.37 + 0.15) // ~17km, outside the 10km radius
	if c := distanceComponent(task, pro); c != 0 {
		t.Fatalf("expected penalty floored at 0 outside radius, got %f", c)
	}
	pro.Latitude = floatPtr(52.37 + 0.05) // ~5.5km, inside
	c := distanceComponent(task, pro)
	if c <= 20 || c >= 100 {
		t.Fatalf("expected partial credit inside radius, got %f", c)
	}
}

func TestDistanceNeutralWithoutCoordinates(t *testing.T) {
	task := plumbingTask()
	task.Latitude = nil
	task.Longitude = nil
	if c := distanceComponent(task, plumber()); c != 50 {
		t.Fatalf("expected neutral 50 without task coordinates, got %f", c)
	}
	pro := plumber()
	pro.Latitude = nil
	pro.Longitude = nil
	if c := distanceComponent(plumbingTask(), pro); c != 50 {
		t.Fatalf("expected neutral 50 without pro coordinates, got %f", c)
	}
}

func TestRatingComponentTiers(t *testing.T) {
	pro := plumber()
	pro.Rating = 4
	pro.ReviewCount = 5
	if c := ratingComponent(pro); c != 80 {
		t.Fatalf("expected 80 for 4.0 with enough reviews, got %f", c)
	}
	pro.ReviewCount = 2
	if c := ratingComponent(pro); c != 65 {
		t.Fatalf("expected discounted 65 for low sample, got %f", c)
	}
	pro.ReviewCount = 0
	if c := ratingComponent(pro); c != 50 {
		t.Fatalf("expected neutral 50 without reviews, got %f", c)
	}
}

func TestResponsivenessBonusAndPenalty(t *testing.T) {
	pro := plumber()
	pro.ResponseRate = 95
	pro.ResponseTimeH = floatPtr(1)
	if c := responsivenessComponent(pro); c != 100 {
		t.Fatalf("expected fast-response bonus capped at 100, got %f", c)
	}
	pro.ResponseRate = 10
	pro.ResponseTimeH = floatPtr(48)
	if c := responsivenessComponent(pro); c != 0 {
		t.Fatalf("expected slow-response penalty floored at 0, got %f", c)
	}
	pro.ResponseRate = 70
	pro.ResponseTimeH = nil
	if c := responsivenessComponent(pro); c != 70 {
		t.Fatalf("expected raw response rate without timing data, got %f", c)
	}
}

func TestExperienceSteps(t *testing.T) {
	steps := map[int]float64{0: 20, 1: 40, 2: 60, 5: 80, 10: 100, 25: 100}
	for years, want := range steps {
		if got := experienceComponent(years); got != want {
			t.Fatalf("experience %d years: expected %f, got %f", years, want, got)
		}
	}
}
