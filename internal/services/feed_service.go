package services

import (
	"context"
	"time"

	"naimuBack/internal/feed"
	"naimuBack/internal/models"
	"naimuBack/internal/repositories"
)

// FeedService assembles the personalised task feed for a professional.
type FeedService struct {
	TaskRepo *repositories.TaskRepository
	ProRepo  *repositories.ProfessionalRepository
}

func (s *FeedService) BuildFeed(ctx context.Context, req models.FeedRequest) ([]feed.Item, error) {
	pro, err := s.ProRepo.GetProByID(ctx, req.ProID)
	if err != nil {
		return nil, err
	}
	candidates, err := s.TaskRepo.FeedCandidates(ctx, req.CategoryIDs, req.City)
	if err != nil {
		return nil, err
	}
	return feed.Assemble(pro, candidates, req, time.Now()), nil
}
