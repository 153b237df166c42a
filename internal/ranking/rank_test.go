package ranking

import (
	"testing"

	"naimuBack/internal/models"
	"naimuBack/internal/scoring"
)

func floatPtr(v float64) *float64 { return &v }

// candidate builds a pro whose score against task category 7 is dominated by
// the rating factor, so tests can steer totals through it.
func candidate(id int, rating float64) models.Professional {
	return models.Professional{
		ID:          id,
		Rating:      rating,
		ReviewCount: 10,
		Categories:  []models.CategoryExperience{{CategoryID: 7, Years: 3}},
	}
}

func TestRankFiltersSortsAndLimits(t *testing.T) {
	engine := scoring.NewEngine(scoring.Weights{})
	task := models.Task{CategoryID: 7}

	pros := []models.Professional{
		candidate(1, 1.0),
		candidate(2, 5.0),
		candidate(3, 3.0),
		{ID: 4, Categories: []models.CategoryExperience{{CategoryID: 99}}}, // wrong category
	}

	got := Rank(engine, task, pros, 30, 0)
	if len(got) != 3 {
		t.Fatalf("expected 3 entries above threshold, got %d", len(got))
	}
	if got[0].Professional.ID != 2 || got[1].Professional.ID != 3 || got[2].Professional.ID != 1 {
		t.Fatalf("unexpected order: %d, %d, %d", got[0].Professional.ID, got[1].Professional.ID, got[2].Professional.ID)
	}
	for i := 1; i < len(got); i++ {
		if got[i].Score.Total > got[i-1].Score.Total {
			t.Fatal("entries must be sorted descending by total")
		}
	}

	got = Rank(engine, task, pros, 30, 2)
	if len(got) != 2 {
		t.Fatalf("expected limit to cap results at 2, got %d", len(got))
	}
}

func TestRankMinScoreDropsLowCandidates(t *testing.T) {
	engine := scoring.NewEngine(scoring.Weights{})
	task := models.Task{CategoryID: 7}
	pros := []models.Professional{candidate(1, 5.0)}

	if got := Rank(engine, task, pros, 101, 0); len(got) != 0 {
		t.Fatalf("expected empty result with unreachable threshold, got %d entries", len(got))
	}
	// A non-serving candidate scores 0 and is dropped by any positive threshold.
	none := []models.Professional{{ID: 9}}
	if got := Rank(engine, task, none, 1, 0); len(got) != 0 {
		t.Fatal("candidate without the category must never rank")
	}
}

func TestRankStableOnTies(t *testing.T) {
	engine := scoring.NewEngine(scoring.Weights{})
	task := models.Task{CategoryID: 7}
	pros := []models.Professional{candidate(5, 4.0), candidate(6, 4.0), candidate(7, 4.0)}

	got := Rank(engine, task, pros, 0, 0)
	if len(got) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(got))
	}
	if got[0].Professional.ID != 5 || got[1].Professional.ID != 6 || got[2].Professional.ID != 7 {
		t.Fatal("tied candidates must keep their original order")
	}
}

func TestQualityLabels(t *testing.T) {
	labels := map[int]string{95: "excellent", 80: "excellent", 60: "good", 40: "fair", 20: "weak", 19: "low", 0: "low"}
	for total, want := range labels {
		if got := QualityLabel(total); got != want {
			t.Fatalf("label for %d: expected %s, got %s", total, want, got)
		}
	}
}
