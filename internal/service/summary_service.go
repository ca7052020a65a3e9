package service

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"todo-planner/internal/aiparse"
	"todo-planner/internal/model"
	"todo-planner/internal/recurrence"
	"todo-planner/internal/scheduler"
)

// StatsProvider is the scheduler's read side.
type StatsProvider interface {
	StatsForUser(ctx context.Context, userID uint, now time.Time) (scheduler.Stats, error)
}

// SummaryService renders Chinese confirmations and status reports. Transports
// (web API, chat bot) show these verbatim, so rule semantics never leak into
// transport code.
type SummaryService struct {
	tasks TaskStore
	stats StatsProvider
}

func NewSummaryService(tasks TaskStore, stats StatsProvider) *SummaryService {
	return &SummaryService{tasks: tasks, stats: stats}
}

var priorityNames = map[model.Priority]string{
	model.PriorityLow:    "低",
	model.PriorityMedium: "中",
	model.PriorityHigh:   "高",
	model.PriorityUrgent: "紧急",
}

// ConfirmCreation describes a just-created task back to the user. A fallback
// provenance adds a confirmation hint, since the deterministic parser is
// trusted less than the model.
func (s *SummaryService) ConfirmCreation(task *model.Task, result aiparse.Result) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("✅ 已创建任务：%s\n", task.Title))

	if task.IsRecurring {
		if rule, err := recurrence.Unmarshal(task.RecurringRule); err == nil {
			b.WriteString(fmt.Sprintf("🔁 %s\n", rule.Describe()))
		}
	} else if task.DueDate != nil {
		b.WriteString(fmt.Sprintf("📅 %s\n", task.DueDate.Format("2006-01-02")))
	}
	if task.DueTime != nil {
		b.WriteString(fmt.Sprintf("⏰ %s\n", task.DueTime.Format("15:04")))
	}
	if task.Priority != "" {
		b.WriteString(fmt.Sprintf("❗ 优先级：%s\n", priorityNames[task.Priority]))
	}
	if len(task.Tags) > 0 {
		names := make([]string, len(task.Tags))
		for i, tag := range task.Tags {
			names[i] = tag.Name
		}
		b.WriteString(fmt.Sprintf("🏷 %s\n", strings.Join(names, "、")))
	}
	if result.Provenance == aiparse.ProvenanceFallback {
		b.WriteString("（本次使用本地解析，请确认内容是否正确）\n")
	}
	return strings.TrimSpace(b.String())
}

// DailySummary lists the user's open tasks ordered by deadline and appends
// the recurring-task counters.
func (s *SummaryService) DailySummary(ctx context.Context, user model.User, now time.Time) (string, error) {
	tasks, err := s.tasks.ListActive(ctx, user.ID)
	if err != nil {
		return "", err
	}

	var pending []model.Task
	var templates []model.Task
	for _, task := range tasks {
		if task.IsRecurring {
			templates = append(templates, task)
			continue
		}
		pending = append(pending, task)
	}

	sort.SliceStable(pending, func(i, j int) bool {
		switch {
		case pending[i].DueDate == nil && pending[j].DueDate == nil:
			return pending[i].CreatedAt.After(pending[j].CreatedAt)
		case pending[i].DueDate == nil:
			return false
		case pending[j].DueDate == nil:
			return true
		default:
			return pending[i].DueDate.Before(*pending[j].DueDate)
		}
	})

	var b strings.Builder
	b.WriteString("📋 任务清单\n")
	b.WriteString(fmt.Sprintf("🗓 %s\n\n", now.Format("2006-01-02")))

	if len(pending) == 0 {
		b.WriteString("— 暂无待办任务\n")
	} else {
		for _, task := range pending {
			b.WriteString(formatTask(task, now))
		}
	}

	if len(templates) > 0 {
		b.WriteString("\n♻️ 重复任务\n")
		for _, task := range templates {
			b.WriteString(formatTemplate(task))
		}
	}

	stats, err := s.stats.StatsForUser(ctx, user.ID, now)
	if err != nil {
		return "", err
	}
	b.WriteString(fmt.Sprintf("\n📊 重复任务 %d 个，已生成 %d 条，待办 %d，逾期 %d\n",
		stats.Templates, stats.Instances, stats.Upcoming, stats.Overdue))

	return strings.TrimSpace(b.String()), nil
}

func formatTask(task model.Task, now time.Time) string {
	var b strings.Builder

	icon := "🟢"
	if task.DueDate != nil {
		due := task.DueDate.In(now.Location())
		switch {
		case now.After(due.AddDate(0, 0, 1)):
			icon = "⚠️"
		case due.Sub(now) <= 48*time.Hour:
			icon = "⏳"
		}
	}

	b.WriteString(fmt.Sprintf("%s %s", icon, strings.TrimSpace(task.Title)))
	if task.DueDate != nil {
		b.WriteString(fmt.Sprintf("（%s", task.DueDate.Format("01-02")))
		if task.DueTime != nil {
			b.WriteString(" " + task.DueTime.Format("15:04"))
		}
		b.WriteString("）")
	}
	if task.Priority != "" {
		b.WriteString(fmt.Sprintf(" [%s]", priorityNames[task.Priority]))
	}
	if task.IsInstance() {
		b.WriteString(" ♻️")
	}
	b.WriteByte('\n')
	return b.String()
}

func formatTemplate(task model.Task) string {
	desc := ""
	if rule, err := recurrence.Unmarshal(task.RecurringRule); err == nil {
		desc = "：" + rule.Describe()
	}
	return fmt.Sprintf("♻️ %s%s\n", strings.TrimSpace(task.Title), desc)
}
