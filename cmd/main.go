package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"lunch/backend/foundation/web"
	"lunch/backend/internal/auth"
	"lunch/backend/internal/commands"
	"lunch/backend/internal/pkg/config"
	"lunch/backend/internal/pkg/repository/postgresql"
	"lunch/backend/internal/repository/postgres/attendance"
	"lunch/backend/internal/repository/postgres/notification"
	"lunch/backend/internal/repository/postgres/report"
	"lunch/backend/internal/repository/postgres/user"
	"lunch/backend/internal/router"
	"lunch/backend/internal/service/mailer"
	"lunch/backend/internal/service/scheduler"
	"lunch/backend/pkg/logger"

	"github.com/ardanlabs/conf"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.NewConfig(os.Args[1:])
	if err != nil {
		if err == conf.ErrHelpWanted {
			return
		}
		log.Fatalln("config error:", err)
	}

	logg := logger.New(cfg.Runtime.LogFile)
	defer func() { _ = logg.Sync() }()

	location, err := cfg.Runtime.Location()
	if err != nil {
		log.Fatalln("timezone error:", err)
	}
	cutoffHour, cutoffMinute, err := cfg.Runtime.CutoffClock()
	if err != nil {
		log.Fatalln("cutoff error:", err)
	}

	postgresDB := postgresql.NewDatabase(
		cfg.DBUsername,
		cfg.DBPassword,
		cfg.DBHost,
		cfg.DBPort,
		cfg.DBName,
		cfg.DisableTLS,
	)
	commands.MigrateUP(postgresDB)

	redisDB := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})

	a := auth.New(cfg.JWTKey)

	rules := attendance.Rules{
		Location:      location,
		CutoffHour:    cutoffHour,
		CutoffMinute:  cutoffMinute,
		DefaultStatus: cfg.Runtime.DefaultStatus,
		Now:           time.Now,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	sched := scheduler.New(
		report.NewRepository(postgresDB, redisDB, cfg.Runtime.CacheTTL, location),
		user.NewRepository(postgresDB),
		notification.NewRepository(postgresDB),
		mailer.New(mailer.Config{
			APIKey:      cfg.BrevoAPIKey,
			SenderName:  cfg.SenderName,
			SenderEmail: cfg.SenderEmail,
			Timeout:     cfg.Runtime.SendTimeout,
		}),
		logg,
		scheduler.Config{
			CutoffHour:     cutoffHour,
			CutoffMinute:   cutoffMinute,
			Location:       location,
			Tick:           cfg.Runtime.SchedulerTick,
			CatchUpOnStart: cfg.Runtime.CatchUpOnStart,
		},
	)
	sched.Start(ctx)

	r := router.NewRouter(
		web.NewApp(),
		postgresDB,
		redisDB,
		cfg.Runtime.HTTPPort,
		a,
		cfg.JWTKey,
		rules,
		cfg.Runtime.CacheTTL,
	)
	if err := r.Init(); err != nil {
		logg.Fatalw("server stopped", "err", err)
	}
}
