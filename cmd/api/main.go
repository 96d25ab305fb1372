package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/cmlabs-hris/hris-attendance-go/internal/config"
	appHTTP "github.com/cmlabs-hris/hris-attendance-go/internal/handler/http"
	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/clock"
	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/cron"
	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/database"
	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/jwt"
	"github.com/cmlabs-hris/hris-attendance-go/internal/repository/cache"
	"github.com/cmlabs-hris/hris-attendance-go/internal/repository/postgresql"
	attendanceService "github.com/cmlabs-hris/hris-attendance-go/internal/service/attendance"
	"golang.org/x/time/rate"
)

func main() {
	if err := run(); err != nil {
		slog.Error("Server stopped with error", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("error loading config: %w", err)
	}

	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: parseLogLevel(cfg.App.LogLevel),
	})))

	policyCfg, err := config.LoadPolicy(cfg.Attendance.PolicyFile)
	if err != nil {
		return err
	}

	trustedClock, err := clock.NewSystemClockIn(cfg.Attendance.Timezone)
	if err != nil {
		return err
	}

	db, err := database.NewPostgreSQLDB(cfg.DatabaseURL())
	if err != nil {
		return fmt.Errorf("error connecting to database: %w", err)
	}
	defer db.Close()

	punchLogRepo := postgresql.NewPunchLogRepository(db)
	adjustmentRepo := postgresql.NewAdjustmentRequestRepository(db)
	scheduleRepo := cache.NewScheduleCache(postgresql.NewShiftScheduleRepository(db), cfg.Attendance.ScheduleCacheTTL)

	engine := attendanceService.NewEngine(attendanceService.Policy{
		GracePeriodMinutes:      policyCfg.GracePeriodMinutes,
		BreakInExtensionMinutes: policyCfg.BreakInExtensionMinutes,
		ClockDriftThreshold:     policyCfg.ClockDriftThreshold,
	})
	policy := engine.Policy()
	slog.Info("Attendance policy loaded",
		"timezone", cfg.Attendance.Timezone,
		"grace_period_minutes", policy.GracePeriodMinutes,
		"break_in_extension_minutes", policy.BreakInExtensionMinutes,
		"clock_drift_threshold", policy.ClockDriftThreshold,
	)

	attendanceSvc := attendanceService.NewAttendanceService(
		db,
		punchLogRepo,
		adjustmentRepo,
		scheduleRepo,
		engine,
		trustedClock,
	)

	JWTService := jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.AccessExpiration)
	attendanceHandler := appHTTP.NewAttendanceHandler(attendanceSvc)

	router := appHTTP.NewRouter(JWTService, appHTTP.RouterOptions{
		Env:            cfg.App.Env,
		AllowedOrigins: cfg.App.AllowedOrigins,
		PunchRateLimit: rate.Limit(cfg.Attendance.PunchRateLimit),
		PunchRateBurst: cfg.Attendance.PunchRateBurst,
	}, attendanceHandler)

	scheduler := cron.NewScheduler()
	cron.NewAttendanceJobs(attendanceSvc, trustedClock).RegisterJobs(scheduler, cfg.Attendance.CreditRecomputeInterval)
	scheduler.Start()
	defer scheduler.Stop()

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.App.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	serverErr := make(chan error, 1)
	go func() {
		slog.Info("Server running", "addr", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	select {
	case err := <-serverErr:
		return err
	case <-ctx.Done():
	}

	slog.Info("Shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}
	return nil
}

func parseLogLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
