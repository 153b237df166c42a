package services

import (
	"context"
	"strings"

	"naimuBack/internal/fsm"
	"naimuBack/internal/models"
	"naimuBack/internal/repositories"
)

// TaskService covers the task lifecycle up to the acceptance handoff.
type TaskService struct {
	TaskRepo *repositories.TaskRepository
}

func (s *TaskService) CreateTask(ctx context.Context, task models.Task) (models.Task, error) {
	return s.TaskRepo.CreateTask(ctx, task)
}

func (s *TaskService) GetTaskByID(ctx context.Context, id int) (models.Task, error) {
	return s.TaskRepo.GetTaskByID(ctx, id)
}

func (s *TaskService) GetTasksByUserID(ctx context.Context, userID int) ([]models.Task, error) {
	return s.TaskRepo.GetTasksByUserID(ctx, userID)
}

// PublishTask makes a draft visible in the feed. Drafts missing a title,
// description or category stay drafts.
func (s *TaskService) PublishTask(ctx context.Context, id, actorID int) (models.Task, error) {
	task, err := s.TaskRepo.GetTaskByID(ctx, id)
	if err != nil {
		return models.Task{}, err
	}
	if task.UserID != actorID {
		return models.Task{}, models.ErrForbidden
	}
	if !fsm.TaskCanTransition(task.Status, models.TaskStatusPublished) {
		return models.Task{}, models.ErrInvalidState
	}
	if strings.TrimSpace(task.Title) == "" || strings.TrimSpace(task.Description) == "" || task.CategoryID == 0 {
		return models.Task{}, models.ErrIncompleteTask
	}
	publishedAt, err := s.TaskRepo.Publish(ctx, id)
	if err != nil {
		return models.Task{}, err
	}
	task.Status = models.TaskStatusPublished
	task.PublishedAt = &publishedAt
	return task, nil
}

// CancelTask removes a task: hard delete if no offer ever arrived, soft
// cancel otherwise. Returns whether the row was deleted.
func (s *TaskService) CancelTask(ctx context.Context, id, actorID int) (bool, error) {
	task, err := s.TaskRepo.GetTaskByID(ctx, id)
	if err != nil {
		return false, err
	}
	if task.UserID != actorID {
		return false, models.ErrForbidden
	}
	return s.TaskRepo.CancelOrDelete(ctx, id)
}
