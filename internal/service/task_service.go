package service

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"todo-planner/internal/aiparse"
	"todo-planner/internal/model"
	"todo-planner/internal/recurrence"
)

// TaskStore is the slice of the task repository the service needs.
type TaskStore interface {
	Create(ctx context.Context, task *model.Task) error
	FindByID(ctx context.Context, userID, taskID uint) (*model.Task, error)
	ListActive(ctx context.Context, userID uint) ([]model.Task, error)
	MarkCompleted(ctx context.Context, task *model.Task, completedAt time.Time) error
	Delete(ctx context.Context, userID, taskID uint) error
}

// TagStore resolves tag names to rows.
type TagStore interface {
	GetOrCreate(ctx context.Context, userID uint, name string) (*model.Tag, error)
}

// Generator expands a freshly created template forward in time.
type Generator interface {
	GenerateUpcoming(ctx context.Context, template *model.Task, now time.Time, windowDays int) ([]model.Task, error)
}

// TextParser is the parse chain: AI adapter with deterministic fallback.
type TextParser interface {
	Parse(ctx context.Context, text string, now time.Time) aiparse.Result
}

// TaskInput represents data required to create a task.
type TaskInput struct {
	Title       string
	Description string
	DueDate     *time.Time
	DueTime     *time.Time
	Priority    model.Priority
	Tags        []string
	Rule        *recurrence.Rule
}

// TaskService wraps task-related business logic: creation from structured
// input or raw text, completion and deletion.
type TaskService struct {
	tasks      TaskStore
	tags       TagStore
	generator  Generator
	parse      TextParser
	windowDays int
}

func NewTaskService(tasks TaskStore, tags TagStore, generator Generator, parse TextParser, windowDays int) *TaskService {
	return &TaskService{tasks: tasks, tags: tags, generator: generator, parse: parse, windowDays: windowDays}
}

// CreateTask creates a task from structured input. A rule on the input makes
// it a recurring template and expands it forward immediately; expansion
// failures are logged, not surfaced, since the periodic trigger will retry.
func (s *TaskService) CreateTask(ctx context.Context, user *model.User, input TaskInput, now time.Time) (*model.Task, error) {
	if input.Title == "" {
		return nil, fmt.Errorf("title is required")
	}

	task := model.Task{
		UserID:      user.ID,
		Title:       input.Title,
		Description: input.Description,
		DueDate:     input.DueDate,
		DueTime:     input.DueTime,
		Priority:    input.Priority,
	}

	if input.Rule != nil {
		encoded, err := recurrence.Marshal(*input.Rule)
		if err != nil {
			return nil, fmt.Errorf("recurrence rule: %w", err)
		}
		task.IsRecurring = true
		task.RecurringRule = encoded
	}

	for _, name := range input.Tags {
		tag, err := s.tags.GetOrCreate(ctx, user.ID, name)
		if err != nil {
			return nil, err
		}
		if tag != nil {
			task.Tags = append(task.Tags, *tag)
		}
	}

	if err := s.tasks.Create(ctx, &task); err != nil {
		return nil, err
	}

	if task.IsRecurring {
		if _, err := s.generator.GenerateUpcoming(ctx, &task, now, s.windowDays); err != nil {
			log.Error().Err(err).Uint("template_id", task.ID).Msg("initial expansion failed")
		}
	}

	return &task, nil
}

// CreateFromText parses raw user text and creates the task it describes.
// The returned result carries the provenance flag transports use to decide
// whether to ask the user for confirmation.
func (s *TaskService) CreateFromText(ctx context.Context, user *model.User, text string, now time.Time) (*model.Task, aiparse.Result, error) {
	result := s.parse.Parse(ctx, text, now)
	if result.Task.Title == "" {
		return nil, result, fmt.Errorf("empty input")
	}

	input := TaskInput{
		Title:       result.Task.Title,
		Description: result.Task.Description,
		DueDate:     result.Task.DueDate,
		DueTime:     result.Task.DueTime,
		Priority:    result.Task.Priority,
		Tags:        result.Task.Tags,
		Rule:        result.Task.Rule,
	}
	task, err := s.CreateTask(ctx, user, input, now)
	if err != nil {
		return nil, result, err
	}
	return task, result, nil
}

func (s *TaskService) ListActive(ctx context.Context, user *model.User) ([]model.Task, error) {
	return s.tasks.ListActive(ctx, user.ID)
}

func (s *TaskService) GetTask(ctx context.Context, user *model.User, taskID uint) (*model.Task, error) {
	return s.tasks.FindByID(ctx, user.ID, taskID)
}

// CompleteTask marks a task as done. Completing a generated instance never
// touches its template; completing a template stops future generation.
func (s *TaskService) CompleteTask(ctx context.Context, user *model.User, taskID uint, completedAt time.Time) (*model.Task, error) {
	task, err := s.tasks.FindByID(ctx, user.ID, taskID)
	if err != nil {
		return nil, err
	}
	if err := s.tasks.MarkCompleted(ctx, task, completedAt); err != nil {
		return nil, err
	}
	return task, nil
}

// DeleteTask removes a task completely. Instances generated from a deleted
// template stay; the back-reference is intentionally weak.
func (s *TaskService) DeleteTask(ctx context.Context, user *model.User, taskID uint) error {
	return s.tasks.Delete(ctx, user.ID, taskID)
}
