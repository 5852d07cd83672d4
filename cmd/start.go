package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"opsboard/core/loader"
	"opsboard/core/logger"
	"opsboard/core/middleware/auth"
	"opsboard/core/middleware/rayid"
	"opsboard/feature/checklist"
	"opsboard/feature/departures"
	"opsboard/feature/history"

	"github.com/gofiber/fiber/v2"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// @title Opsboard API
// @version 1.0
// @description Operations checklist, route departures and checklist history.
// @host localhost:8080
// @BasePath /

// startCmd represents the start command
var startCmd = &cobra.Command{
	Use:   "start",
	Short: "Start the dashboard server",
	Long:  `Starts the HTTP server, the scheduled checklist jobs and all enabled features.`,
	RunE:  runStart,
}

func init() {
	RootCmd.AddCommand(startCmd)
}

func runStart(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	a, err := newApp(ctx)
	if err != nil {
		return err
	}
	defer a.close()
	logg := a.logger
	zap.ReplaceGlobals(logg)

	a.warm(ctx)

	srv := fiber.New(fiber.Config{
		DisableStartupMessage: true,
	})

	mgr := loader.NewManager(logg)
	mgr.Register(checklist.NewFeature(a.checklist))
	mgr.Register(history.NewFeature(a.history))
	mgr.Register(departures.NewFeature(a.departures))

	// RayID must be first to trace everything.
	srv.Use(rayid.New())
	srv.Use(logger.Requests(logg))
	srv.Use(auth.New(auth.Config{ApiKey: a.cfg.Server.ApiKey}))

	if err := mgr.LoadAll(srv); err != nil {
		return err
	}

	var sched *checklist.Scheduler
	if a.cfg.Checklist.SchedulerEnabled {
		sched = checklist.NewScheduler(a.checklist, a.history, a.cfg.Checklist, a.loc, logg.Named("scheduler"))
		if err := sched.Start(); err != nil {
			return fmt.Errorf("failed to start scheduler: %w", err)
		}
	}

	errCh := make(chan error, 1)
	go func() {
		logg.Info("Starting server", zap.String("port", a.cfg.Server.Port))
		errCh <- srv.Listen(":" + a.cfg.Server.Port)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	select {
	case err = <-errCh:
		err = fmt.Errorf("server failed: %w", err)
	case <-quit:
		logg.Info("Shutting down server...")
	}

	if sched != nil {
		sched.Stop()
	}
	if shutdownErr := srv.Shutdown(); shutdownErr != nil {
		logg.Warn("Server shutdown failed", zap.Error(shutdownErr))
	}
	return err
}
