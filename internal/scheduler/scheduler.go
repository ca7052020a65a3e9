// Package scheduler materializes recurring templates into concrete task
// instances ahead of time and prunes stale generated instances.
package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"todo-planner/internal/model"
	"todo-planner/internal/recurrence"
)

// Store is the persistence contract generation relies on. CreateInstance
// must be backed by a uniqueness constraint on (original task, due date): the
// constraint, not a lock, is what makes concurrent generation runs for the
// same template harmless.
type Store interface {
	ActiveTemplatesByUser(ctx context.Context, userID uint) ([]model.Task, error)
	ActiveTemplates(ctx context.Context) ([]model.Task, error)
	InstanceExists(ctx context.Context, templateID uint, dueDate time.Time) (bool, error)
	CreateInstance(ctx context.Context, task *model.Task) error
	DeleteExpiredInstances(ctx context.Context, before time.Time) (int64, error)
	Stats(ctx context.Context, userID uint, now time.Time) (Stats, error)
}

// Stats is a per-user snapshot of recurring state.
type Stats struct {
	Templates int64
	Instances int64
	Upcoming  int64
	Overdue   int64
}

// Service expands recurrence rules into task instances.
type Service struct {
	store    Store
	expander recurrence.Expander
}

func New(store Store) *Service {
	return &Service{store: store}
}

// GenerateUpcoming creates one instance for every occurrence of the
// template's rule within windowDays of now that is not already represented.
// Calling it twice with overlapping windows creates nothing the second time:
// the existence check plus the store's uniqueness constraint make the
// operation idempotent per (template, occurrence date).
//
// A failed write for one occurrence is logged and skipped; the remaining
// occurrences are still processed.
func (s *Service) GenerateUpcoming(ctx context.Context, template *model.Task, now time.Time, windowDays int) ([]model.Task, error) {
	if !template.IsRecurring || template.RecurringRule == "" {
		return nil, nil
	}
	rule, err := recurrence.Unmarshal(template.RecurringRule)
	if err != nil {
		return nil, fmt.Errorf("template %d rule: %w", template.ID, err)
	}

	anchor := template.CreatedAt
	if template.DueDate != nil {
		anchor = *template.DueDate
	}
	limit := recurrence.Limit{MaxDate: dateOnly(now).AddDate(0, 0, windowDays)}

	var created []model.Task
	for occurrence := range s.expander.Occurrences(rule, anchor, now, limit) {
		exists, err := s.store.InstanceExists(ctx, template.ID, occurrence)
		if err != nil {
			log.Error().Err(err).Uint("template_id", template.ID).Time("due", occurrence).
				Msg("instance existence check failed")
			continue
		}
		if exists {
			continue
		}
		instance := newInstance(template, occurrence)
		if err := s.store.CreateInstance(ctx, &instance); err != nil {
			// A unique-constraint violation here just means another trigger
			// won the race for this occurrence.
			log.Warn().Err(err).Uint("template_id", template.ID).Time("due", occurrence).
				Msg("instance write skipped")
			continue
		}
		created = append(created, instance)
	}
	return created, nil
}

// GenerateForUser expands every active recurring template the user owns and
// returns the number of instances created. Failures on one template do not
// abort the rest; the aggregate count is best-effort by design.
func (s *Service) GenerateForUser(ctx context.Context, userID uint, now time.Time, windowDays int) (int, error) {
	templates, err := s.store.ActiveTemplatesByUser(ctx, userID)
	if err != nil {
		return 0, fmt.Errorf("list templates for user %d: %w", userID, err)
	}
	return s.generate(ctx, templates, now, windowDays, uuid.NewString()), nil
}

// GenerateAll is the system-wide variant used by the periodic trigger.
func (s *Service) GenerateAll(ctx context.Context, now time.Time, windowDays int) (int, error) {
	templates, err := s.store.ActiveTemplates(ctx)
	if err != nil {
		return 0, fmt.Errorf("list templates: %w", err)
	}
	return s.generate(ctx, templates, now, windowDays, uuid.NewString()), nil
}

func (s *Service) generate(ctx context.Context, templates []model.Task, now time.Time, windowDays int, runID string) int {
	total := 0
	for i := range templates {
		created, err := s.GenerateUpcoming(ctx, &templates[i], now, windowDays)
		if err != nil {
			log.Error().Err(err).Str("run_id", runID).Uint("template_id", templates[i].ID).
				Msg("template generation failed")
			continue
		}
		total += len(created)
	}
	log.Info().Str("run_id", runID).Int("templates", len(templates)).Int("created", total).
		Msg("generation run finished")
	return total
}

// CleanupExpired deletes generated instances past due by more than
// daysPastDue and still incomplete. Completed instances are kept as history,
// and templates are never touched.
func (s *Service) CleanupExpired(ctx context.Context, now time.Time, daysPastDue int) (int64, error) {
	cutoff := dateOnly(now).AddDate(0, 0, -daysPastDue)
	deleted, err := s.store.DeleteExpiredInstances(ctx, cutoff)
	if err != nil {
		return 0, fmt.Errorf("cleanup expired instances: %w", err)
	}
	if deleted > 0 {
		log.Info().Int64("deleted", deleted).Time("cutoff", cutoff).Msg("expired instances removed")
	}
	return deleted, nil
}

// StatsForUser is a pure read of the user's recurring state.
func (s *Service) StatsForUser(ctx context.Context, userID uint, now time.Time) (Stats, error) {
	return s.store.Stats(ctx, userID, now)
}

// newInstance copies the template's content onto one occurrence date. The
// time of day comes verbatim from the template's DueTime; only the date part
// changes.
func newInstance(template *model.Task, occurrence time.Time) model.Task {
	templateID := template.ID
	instance := model.Task{
		UserID:         template.UserID,
		OriginalTaskID: &templateID,
		Title:          template.Title,
		Description:    template.Description,
		Priority:       template.Priority,
		Tags:           template.Tags,
		DueDate:        &occurrence,
	}
	if template.DueTime != nil {
		year, month, day := occurrence.Date()
		t := template.DueTime
		at := time.Date(year, month, day, t.Hour(), t.Minute(), t.Second(), 0, occurrence.Location())
		instance.DueTime = &at
	}
	return instance
}

func dateOnly(t time.Time) time.Time {
	year, month, day := t.Date()
	return time.Date(year, month, day, 0, 0, 0, 0, t.Location())
}
