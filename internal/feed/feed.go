package feed

import (
	"sort"
	"time"

	"naimuBack/internal/models"
	"naimuBack/internal/scoring"
)

// Item is one feed row: a task annotated for a specific professional.
type Item struct {
	Task          models.Task `json:"task"`
	DistanceKM    *float64    `json:"distance_km,omitempty"`
	InterestCount int         `json:"interest_count"`
	TopTier       int         `json:"top_tier,omitempty"`
}

var urgencyRank = map[string]int{
	models.UrgencyUrgent:    0,
	models.UrgencyThisWeek:  1,
	models.UrgencyThisMonth: 2,
	models.UrgencyNextMonth: 3,
	models.UrgencyFlexible:  4,
}

// Assemble builds a professional's task feed from pre-fetched candidates:
// category and geographic filters, per-task distance, then ordering by
// sponsorship tier, urgency and recency. Scoring is not involved here.
func Assemble(pro models.Professional, candidates []models.FeedCandidate, req models.FeedRequest, now time.Time) []Item {
	wantCategory := make(map[int]struct{}, len(req.CategoryIDs))
	for _, id := range req.CategoryIDs {
		wantCategory[id] = struct{}{}
	}

	items := make([]Item, 0, len(candidates))
	for _, cand := range candidates {
		task := cand.Task
		if len(wantCategory) > 0 {
			if _, ok := wantCategory[task.CategoryID]; !ok {
				continue
			}
		} else if _, serves := pro.YearsIn(task.CategoryID); !serves {
			continue
		}
		if req.City != "" && task.City != req.City {
			continue
		}

		item := Item{
			Task:          task,
			InterestCount: cand.InterestCount,
			TopTier:       task.TopActiveTier(now),
		}
		if pro.Latitude != nil && pro.Longitude != nil && task.Latitude != nil && task.Longitude != nil {
			d := scoring.DistanceKM(*pro.Latitude, *pro.Longitude, *task.Latitude, *task.Longitude)
			if req.MaxDistanceKM > 0 && d > req.MaxDistanceKM {
				continue
			}
			item.DistanceKM = &d
		}
		items = append(items, item)
	}

	sort.SliceStable(items, func(i, j int) bool {
		if items[i].TopTier != items[j].TopTier {
			return items[i].TopTier > items[j].TopTier
		}
		ui, uj := urgencyOf(items[i].Task), urgencyOf(items[j].Task)
		if ui != uj {
			return ui < uj
		}
		return publishedAt(items[i].Task).After(publishedAt(items[j].Task))
	})

	if req.Limit > 0 && len(items) > req.Limit {
		items = items[:req.Limit]
	}
	return items
}

func urgencyOf(t models.Task) int {
	if rank, ok := urgencyRank[t.Urgency]; ok {
		return rank
	}
	return urgencyRank[models.UrgencyFlexible]
}

func publishedAt(t models.Task) time.Time {
	if t.PublishedAt != nil {
		return *t.PublishedAt
	}
	return t.CreatedAt
}
