// Package parser turns free-form Chinese/English task text into structured
// fields without any network call. It is the fallback behind the model-backed
// parser and the authority on recurring-pattern recognition.
package parser

import (
	"strings"
	"time"

	"todo-planner/internal/model"
	"todo-planner/internal/recurrence"
)

// ParsedTask is the structured result of parsing one input line. Title is the
// only field guaranteed to be set.
type ParsedTask struct {
	Title       string
	Description string
	DueDate     *time.Time // calendar date, midnight in now's location
	DueTime     *time.Time // today's date with the extracted hour:minute
	Priority    model.Priority
	Tags        []string
	IsRecurring bool
	Rule        *recurrence.Rule
}

// Parse extracts task fields from raw text. Stages run in a fixed order
// (recurrence, priority, tags, date, time) and each stage strips what it
// matched from a working copy of the title, so later stages never re-match
// earlier-claimed text. When a recurrence keyword matches, the date and time
// stages are skipped: a template's schedule comes from its rule, and the
// time words stay in the title ("每周一下午3点开会" keeps "下午3点开会").
//
// Parse is pure: the reference date is the explicit now argument, never the
// wall clock. It does not fail; unrecognizable input comes back as a task
// with only the title set.
func Parse(input string, now time.Time) ParsedTask {
	original := strings.TrimSpace(input)
	task := ParsedTask{Title: original}
	if original == "" {
		return task
	}

	text := original
	text, task.Rule = extractRecurrence(text)
	task.IsRecurring = task.Rule != nil
	text, task.Priority = extractPriority(text)
	text, task.Tags = extractTags(text)
	if !task.IsRecurring {
		text, task.DueDate = extractDate(text, now)
		text, task.DueTime = extractTime(text, now)
	}

	if title := collapseSpaces(text); title != "" {
		task.Title = title
	}
	// else: every stage stripped its keyword and nothing was left, e.g. a
	// bare "明天"; fall back to the trimmed original so the title is never
	// empty.
	return task
}

func collapseSpaces(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
