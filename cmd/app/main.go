package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"presensi-service/internal/config"
	attendanceCumulative "presensi-service/internal/http-server/handlers/attendance/cumulative"
	attendanceMark "presensi-service/internal/http-server/handlers/attendance/mark"
	attendanceUpdate "presensi-service/internal/http-server/handlers/attendance/update"
	scheduleBooked "presensi-service/internal/http-server/handlers/schedules/booked"
	scheduleCheck "presensi-service/internal/http-server/handlers/schedules/check"
	scheduleCreate "presensi-service/internal/http-server/handlers/schedules/create"
	scheduleDelete "presensi-service/internal/http-server/handlers/schedules/delete"
	scheduleGet "presensi-service/internal/http-server/handlers/schedules/get"
	scheduleUpdate "presensi-service/internal/http-server/handlers/schedules/update"
	sessionExtend "presensi-service/internal/http-server/handlers/sessions/extend"
	sessionGenerate "presensi-service/internal/http-server/handlers/sessions/generate"
	sessionToken "presensi-service/internal/http-server/handlers/sessions/token"
	slotGet "presensi-service/internal/http-server/handlers/slots/get"
	"presensi-service/internal/lock"
	svc "presensi-service/internal/service"
	"presensi-service/internal/storage/postgres"
	"presensi-service/internal/timeslot"
	slogpretty "presensi-service/pkg/handlers/slogPretty"
	"presensi-service/pkg/middleware/mwLogger"
	"presensi-service/pkg/sl"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const (
	envLocal = "local"
	envDev   = "dev"
	envProd  = "prod"
)

func CORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		w.Header().Set("Content-Type", "application/json; charset=utf-8")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func main() {

	cfg := config.MustLoad()

	log := setupLogger(cfg.Env)

	log.Info("Starting API", slog.String("env", cfg.Env))
	log.Debug("Debug messages are enabled")

	storage, err := postgres.New(cfg.StoragePath)
	if err != nil {
		log.Error("Failed to init storage", sl.Err(err))
		os.Exit(1)
	}

	locker, err := lock.NewRedisLock(cfg.RedisAddr)
	if err != nil {
		log.Error("Failed to init redis lock", sl.Err(err))
		os.Exit(1)
	}

	slotCfg := timeslot.DefaultConfig()
	if cfg.Attendance.DayStart != "" {
		slotCfg.DayStart = cfg.Attendance.DayStart
	}
	if cfg.Attendance.DayEnd != "" {
		slotCfg.DayEnd = cfg.Attendance.DayEnd
	}
	if cfg.Attendance.SlotMinutes > 0 {
		slotCfg.StepMinutes = cfg.Attendance.SlotMinutes
	}

	service := svc.NewService(storage, locker, slotCfg)
	service.SetDefaultTolerance(cfg.Attendance.ToleranceMinutes)

	router := chi.NewRouter()

	router.Use(middleware.RequestID)
	router.Use(mwLogger.New(log))
	router.Use(middleware.Recoverer)
	router.Use(middleware.URLFormat)
	router.Use(CORS)

	// Slots
	router.Get("/slots", slotGet.New(log, service))

	// Schedules
	router.Post("/schedules", scheduleCreate.New(log, service))
	router.Get("/schedules/booked", scheduleBooked.New(log, service))
	router.Post("/schedules/check", scheduleCheck.New(log, service))
	router.Get("/schedules/{id}", scheduleGet.New(log, service))
	router.Put("/schedules/{id}", scheduleUpdate.New(log, service))
	router.Delete("/schedules/{id}", scheduleDelete.New(log, service))

	// Sessions
	router.Post("/sessions", sessionGenerate.New(log, service))
	router.Post("/sessions/{id}/extend", sessionExtend.New(log, service))
	router.Get("/sessions/token/{token}", sessionToken.New(log, service))

	// Attendance
	router.Post("/attendance/mark", attendanceMark.New(log, service))
	router.Put("/attendance", attendanceUpdate.New(log, service))
	router.Get("/attendance/cumulative", attendanceCumulative.New(log, service))

	router.Handle("/metrics", promhttp.Handler())
	router.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		if !storage.Healthy(r.Context()) || !locker.Healthy(r.Context()) {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
	})

	serv := &http.Server{
		Addr:         cfg.Address,
		Handler:      router,
		ReadTimeout:  cfg.HTTPServer.Timeout,
		WriteTimeout: cfg.HTTPServer.Timeout,
		IdleTimeout:  cfg.HTTPServer.IdleTimeout,
	}

	serverErrCh := make(chan error, 1)

	go func() {
		log.Info("Starting HTTP server", slog.String("addr", cfg.Address))
		if err := serv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErrCh <- err
		} else {
			serverErrCh <- nil
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		log.Info("Received shutdown signal", slog.String("signal", sig.String()))
	case err := <-serverErrCh:
		if err != nil {
			log.Error("HTTP server stopped unexpectedly", sl.Err(err))
		} else {
			log.Info("HTTP server stopped gracefully")
		}
	}

	shutdownTimeout := cfg.HTTPServer.ShutdownTimeout

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	log.Info("Shutting down HTTP server", slog.String("timeout", shutdownTimeout.String()))

	if err := serv.Shutdown(ctx); err != nil {
		log.Error("Server shutdown failed", sl.Err(err))
	} else {
		log.Info("Server shutdown complete")
	}

	if storage != nil {
		if err := storage.Close(); err != nil {
			log.Error("Failed to close storage", sl.Err(err))
		} else {
			log.Info("Storage closed")
		}
	} else {
		log.Debug("Storage is nil, nothing to close")
	}

	if locker != nil {
		if err := locker.Close(); err != nil {
			log.Error("Failed to close locker", sl.Err(err))
		} else {
			log.Info("Locker closed")
		}
	}

	log.Info("Shutdown finished, server stopped")

}

func setupLogger(env string) *slog.Logger {
	var log *slog.Logger
	switch env {
	case envLocal:
		log = setupPrettySlog()
	case envDev:
		log = slog.New(
			slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}),
		)
	case envProd:
		log = slog.New(
			slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}),
		)
	}

	return log
}

func setupPrettySlog() *slog.Logger {
	opts := slogpretty.PrettyHandlerOptions{
		SlogOpts: &slog.HandlerOptions{
			Level: slog.LevelDebug,
		},
	}

	handler := opts.NewPrettyHandler(os.Stdout)

	return slog.New(handler)
}
