package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	configloader "github.com/foxseedlab/mensetsukan/external/config"
	"github.com/foxseedlab/mensetsukan/external/httpapi"
	llmimpl "github.com/foxseedlab/mensetsukan/external/llm"
	"github.com/foxseedlab/mensetsukan/external/questionbank"
	repositoryimpl "github.com/foxseedlab/mensetsukan/external/repository"
	synthesizerimpl "github.com/foxseedlab/mensetsukan/external/synthesizer"
	transcriberimpl "github.com/foxseedlab/mensetsukan/external/transcriber"
	videoimpl "github.com/foxseedlab/mensetsukan/external/video"
	webhookimpl "github.com/foxseedlab/mensetsukan/external/webhook"
	"github.com/foxseedlab/mensetsukan/internal/config"
	"github.com/foxseedlab/mensetsukan/internal/feedback"
	"github.com/foxseedlab/mensetsukan/internal/interviewer"
	"github.com/foxseedlab/mensetsukan/internal/session"
	"github.com/samber/do/v2"
)

func main() {
	slog.Info("startup: loading configuration")
	cfg := mustLoadConfig()
	initLogger(cfg)
	slog.Info("startup: configuration loaded", "env", cfg.Env)

	slog.Info("startup: building dependency graph")
	injector := setupDI(cfg)

	slog.Info("startup: launching http servers")
	runServers(cfg, injector)
}

func mustLoadConfig() *config.Config {
	cfg, err := configloader.Load()
	if err != nil {
		slog.Error("config validation failed", "error", err)
		os.Exit(1)
	}
	return cfg
}

func initLogger(cfg *config.Config) {
	logLevel := slog.LevelInfo
	if cfg.IsDevelopment() {
		logLevel = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: logLevel})))
}

func setupDI(cfg *config.Config) do.Injector {
	injector := do.New()

	do.ProvideValue(injector, cfg)
	repositoryimpl.RegisterDI(injector)
	questionbank.RegisterDI(injector)
	transcriberimpl.RegisterDI(injector)
	synthesizerimpl.RegisterDI(injector)
	llmimpl.RegisterDI(injector)
	interviewer.RegisterDI(injector)
	feedback.RegisterDI(injector)
	videoimpl.RegisterDI(injector)
	webhookimpl.RegisterDI(injector)
	session.RegisterDI(injector)
	httpapi.RegisterDI(injector)

	return injector
}

func runServers(cfg *config.Config, injector do.Injector) {
	servers, err := do.Invoke[*httpapi.Servers](injector)
	if err != nil {
		slog.Error("failed to resolve http servers", "error", err)
		os.Exit(1)
	}
	manager, err := do.Invoke[*session.Manager](injector)
	if err != nil {
		slog.Error("failed to resolve session manager", "error", err)
		os.Exit(1)
	}

	failed := make(chan error, 2)
	for _, srv := range []*httpapi.Server{servers.Candidate, servers.Evaluator} {
		go func() {
			if err := srv.ListenAndServe(); err != nil {
				slog.Error("http server stopped", "server", srv.Name(), "addr", srv.Addr(), "error", err)
				failed <- err
			}
		}()
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	exitCode := 0
	select {
	case <-sigCh:
		slog.Info("shutting down")
	case <-failed:
		exitCode = 1
	}

	shutdown(cfg, injector, servers, manager)
	if exitCode != 0 {
		os.Exit(exitCode)
	}
}

func shutdown(cfg *config.Config, injector do.Injector, servers *httpapi.Servers, manager *session.Manager) {
	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	for _, srv := range []*httpapi.Server{servers.Candidate, servers.Evaluator} {
		if err := srv.Shutdown(ctx); err != nil {
			slog.Error("http server shutdown failed", "server", srv.Name(), "error", err)
		}
	}
	manager.Wait()
	if report := injector.Shutdown(); report != nil && !report.Succeed {
		slog.Error("dependency shutdown reported errors", "error", report.Error())
	}
}
