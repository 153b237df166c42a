package services

import (
	"context"

	"naimuBack/internal/geo"
	"naimuBack/internal/models"
	"naimuBack/internal/ranking"
	"naimuBack/internal/repositories"
	"naimuBack/internal/scoring"
)

const (
	candidateRadiusKM = 100
	candidateLimit    = 200
)

// RankingService produces the scored professional list for a task.
type RankingService struct {
	TaskRepo *repositories.TaskRepository
	ProRepo  *repositories.ProfessionalRepository
	Locator  *geo.ProLocator
	Engine   scoring.Engine
}

// RankForTask scores and orders candidate professionals for the owner's
// task. When the task has coordinates the geo index narrows the candidate
// set first; otherwise candidates come from the category roster.
func (s *RankingService) RankForTask(ctx context.Context, taskID, actorID, minScore, limit int) ([]ranking.Entry, error) {
	task, err := s.TaskRepo.GetTaskByID(ctx, taskID)
	if err != nil {
		return nil, err
	}
	if task.UserID != actorID {
		return nil, models.ErrForbidden
	}

	pros, err := s.candidates(ctx, task)
	if err != nil {
		return nil, err
	}
	return ranking.Rank(s.Engine, task, pros, minScore, limit), nil
}

func (s *RankingService) candidates(ctx context.Context, task models.Task) ([]models.Professional, error) {
	if s.Locator != nil && task.Latitude != nil && task.Longitude != nil && task.City != "" {
		nearby, err := s.Locator.Nearby(ctx, *task.Longitude, *task.Latitude, candidateRadiusKM, candidateLimit, task.City)
		if err == nil && len(nearby) > 0 {
			ids := make([]int, 0, len(nearby))
			for _, n := range nearby {
				ids = append(ids, n.ID)
			}
			return s.ProRepo.GetProsByIDs(ctx, ids)
		}
		// Index miss or error falls back to the category roster.
	}
	return s.ProRepo.GetProsByCategory(ctx, task.CategoryID)
}
