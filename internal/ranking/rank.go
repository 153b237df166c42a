package ranking

import (
	"golang.org/x/exp/slices"

	"naimuBack/internal/models"
	"naimuBack/internal/scoring"
)

// Defaults applied when the caller passes negative values. Zero limit means
// unlimited.
const (
	DefaultMinScore = 30
	DefaultLimit    = 50
)

// Entry pairs a candidate with its match score.
type Entry struct {
	Professional models.Professional `json:"professional"`
	Score        scoring.Score       `json:"score"`
	Quality      string              `json:"quality"`
}

// Rank scores every candidate against the task, drops entries below
// minScore, sorts descending by total (stable, so equal scores keep the
// candidate order) and truncates to limit.
func Rank(engine scoring.Engine, task models.Task, pros []models.Professional, minScore, limit int) []Entry {
	if minScore < 0 {
		minScore = DefaultMinScore
	}
	if limit < 0 {
		limit = DefaultLimit
	}

	entries := make([]Entry, 0, len(pros))
	for _, pro := range pros {
		s := engine.Score(task, pro)
		if s.Total < minScore {
			continue
		}
		entries = append(entries, Entry{Professional: pro, Score: s, Quality: QualityLabel(s.Total)})
	}

	slices.SortStableFunc(entries, func(a, b Entry) int {
		return b.Score.Total - a.Score.Total
	})

	if limit > 0 && len(entries) > limit {
		entries = entries[:limit]
	}
	return entries
}

// QualityLabel maps a total score onto a presentation bucket.
func QualityLabel(total int) string {
	switch {
	case total >= 80:
		return "excellent"
	case total >= 60:
		return "good"
	case total >= 40:
		return "fair"
	case total >= 20:
		return "weak"
	default:
		return "low"
	}
}
