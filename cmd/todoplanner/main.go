package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"todo-planner/internal/aiparse"
	"todo-planner/internal/config"
	"todo-planner/internal/repository"
	"todo-planner/internal/scheduler"
	"todo-planner/internal/service"
)

// localUserID identifies the stdin session; real transports bring their own
// external identities.
const localUserID = "local"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("config")
	}

	zerolog.TimeFieldFormat = time.RFC3339
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	if level, err := zerolog.ParseLevel(cfg.LogLevel); err == nil {
		zerolog.SetGlobalLevel(level)
	}

	db, err := repository.NewDB(cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("db")
	}
	sqlDB, err := db.DB()
	if err == nil {
		defer sqlDB.Close()
	}

	taskRepo := repository.NewTaskRepository(db)
	tagRepo := repository.NewTagRepository(db)
	userRepo := repository.NewUserRepository(db)

	schedulerSvc := scheduler.New(taskRepo)
	// No AI adapter is wired here; transports that carry one plug it into the
	// chain and the timeout still applies.
	parseChain := aiparse.Chain{Timeout: cfg.AIParseTimeout}
	taskSvc := service.NewTaskService(taskRepo, tagRepo, schedulerSvc, parseChain, cfg.GenerateWindowDays)
	summarySvc := service.NewSummaryService(taskRepo, schedulerSvc)

	cronSvc := service.NewCronService(time.Local)
	if _, err := cronSvc.ScheduleInterval(cfg.GenerateInterval, func() {
		jobCtx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
		defer cancel()
		if _, err := schedulerSvc.GenerateAll(jobCtx, time.Now(), cfg.GenerateWindowDays); err != nil {
			log.Error().Err(err).Msg("generation run")
		}
	}); err != nil {
		log.Fatal().Err(err).Msg("schedule generation")
	}
	if _, err := cronSvc.ScheduleDaily(cfg.CleanupTime, func() {
		jobCtx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
		defer cancel()
		if _, err := schedulerSvc.CleanupExpired(jobCtx, time.Now(), cfg.CleanupGraceDays); err != nil {
			log.Error().Err(err).Msg("cleanup run")
		}
	}); err != nil {
		log.Fatal().Err(err).Msg("schedule cleanup")
	}
	if _, err := cronSvc.ScheduleDaily(cfg.SummaryTime, func() {
		jobCtx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
		defer cancel()
		logSummaries(jobCtx, userRepo, summarySvc)
	}); err != nil {
		log.Fatal().Err(err).Msg("schedule summary")
	}

	cronSvc.Start()
	defer cronSvc.Stop()

	log.Info().
		Int("window_days", cfg.GenerateWindowDays).
		Dur("generate_interval", cfg.GenerateInterval).
		Str("cleanup_time", cfg.CleanupTime).
		Str("summary_time", cfg.SummaryTime).
		Msg("todo planner started")

	go readLines(ctx, userRepo, taskSvc, summarySvc)

	<-ctx.Done()
	log.Info().Msg("shutdown complete")
}

// readLines turns stdin into a minimal local transport: each line becomes a
// task, "list" prints the daily summary. Closing stdin leaves the scheduled
// jobs running.
func readLines(ctx context.Context, users *repository.UserRepository, tasks *service.TaskService, summaries *service.SummaryService) {
	user, err := users.Upsert(ctx, localUserID, "本地用户")
	if err != nil {
		log.Error().Err(err).Msg("local user")
		return
	}

	scanner := bufio.NewScanner(os.Stdin)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if line == "list" {
			summary, err := summaries.DailySummary(ctx, *user, time.Now())
			if err != nil {
				log.Error().Err(err).Msg("summary")
				continue
			}
			fmt.Println(summary)
			continue
		}

		task, result, err := tasks.CreateFromText(ctx, user, line, time.Now())
		if err != nil {
			log.Error().Err(err).Str("input", line).Msg("create task")
			continue
		}
		fmt.Println(summaries.ConfirmCreation(task, result))
	}
	if err := scanner.Err(); err != nil {
		log.Error().Err(err).Msg("stdin")
	}
}

func logSummaries(ctx context.Context, users *repository.UserRepository, summaries *service.SummaryService) {
	all, err := users.ListAll(ctx)
	if err != nil {
		log.Error().Err(err).Msg("list users")
		return
	}
	for _, user := range all {
		summary, err := summaries.DailySummary(ctx, user, time.Now())
		if err != nil {
			log.Error().Err(err).Uint("user_id", user.ID).Msg("daily summary")
			continue
		}
		log.Info().Uint("user_id", user.ID).Msg(summary)
	}
}
