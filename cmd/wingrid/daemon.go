package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/exec"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/1broseidon/wingrid/internal/config"
	"github.com/1broseidon/wingrid/internal/engine"
	"github.com/1broseidon/wingrid/internal/hotkeys"
	"github.com/1broseidon/wingrid/internal/ipc"
	"github.com/1broseidon/wingrid/internal/logging"
	"github.com/1broseidon/wingrid/internal/metrics"
	"github.com/1broseidon/wingrid/internal/x11"
)

func runDaemon(args []string) int {
	fs := newFlagSet("daemon", "Usage: wingrid daemon [--config PATH]")
	configPath := fs.String("config", "", "Config file path (default: ~/.config/wingrid/config.yaml)")
	if code := parseFlags(fs, args, 0, 0); code >= 0 {
		return code
	}

	res, err := loadConfig(*configPath)
	if err != nil {
		return fail(fmt.Errorf("failed to load configuration: %w", err))
	}
	cfg := res.Config

	logger, err := logging.New(logging.DefaultConfig(cfg.LogLevel))
	if err != nil {
		return fail(err)
	}
	defer logger.Sync()

	logger.Info("configuration loaded",
		zap.String("path", res.Path),
		zap.Bool("found", res.Found),
		zap.Strings("env", res.Env),
		zap.String("hotkey", cfg.ArrangeHotkey),
		zap.String("palette_hotkey", cfg.PaletteHotkey),
		zap.Int("gap", cfg.GapSize),
	)

	m := metrics.New()
	newEngine := func(cfg *config.Config) *engine.Engine {
		return engine.New(cfg, engine.Deps{Logger: logger, Metrics: m})
	}

	socketPath, err := ipc.SocketPath()
	if err != nil {
		return fail(fmt.Errorf("failed to resolve IPC socket path: %w", err))
	}
	if err := ipc.NewClientAt(socketPath).WithTimeout(500 * time.Millisecond).Ping(); err == nil {
		return fail(fmt.Errorf("a wingrid daemon is already listening on %s", socketPath))
	}

	server := ipc.NewServer(socketPath, newEngine(cfg), logger.Named("ipc"))
	if err := server.Start(); err != nil {
		return fail(err)
	}
	defer server.Stop()

	metricsSrv := startMetrics(cfg.MetricsAddr, m, logger)

	conn := startHotkeys(cfg, *configPath, server, logger)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM, syscall.SIGHUP)
	done := make(chan struct{})

	go func() {
		for sig := range sigCh {
			if sig != syscall.SIGHUP {
				logger.Info("shutting down", zap.String("signal", sig.String()))
				close(done)
				if conn != nil {
					conn.Quit()
				}
				return
			}

			logger.Info("received SIGHUP, reloading config")
			res, err := loadConfig(*configPath)
			if err != nil {
				logger.Error("config reload failed", zap.Error(err))
				continue
			}
			server.SetService(newEngine(res.Config))
			if res.Config.ArrangeHotkey != cfg.ArrangeHotkey || res.Config.PaletteHotkey != cfg.PaletteHotkey || res.Config.MetricsAddr != cfg.MetricsAddr {
				logger.Warn("hotkey and metrics_addr changes apply after a restart")
			}
			logger.Info("config reloaded")
		}
	}()

	logger.Info("wingrid daemon started", zap.String("socket", socketPath))
	if conn != nil {
		conn.EventLoop()
		conn.Close()
	}
	<-done

	if metricsSrv != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = metricsSrv.Shutdown(ctx)
	}
	return 0
}

// startHotkeys binds the arrange and palette hotkeys. It returns nil
// when nothing could be bound; the daemon then serves IPC only.
func startHotkeys(cfg *config.Config, configPath string, server *ipc.Server, logger *zap.Logger) *x11.Connection {
	if cfg.ArrangeHotkey == "" && cfg.PaletteHotkey == "" {
		return nil
	}
	conn, err := x11.NewConnection()
	if err != nil {
		logger.Warn("hotkeys disabled", zap.Error(err))
		return nil
	}

	handler := hotkeys.NewHandler(conn, logger.Named("hotkeys"))
	bound := 0
	if cfg.ArrangeHotkey != "" {
		err := handler.Register(cfg.ArrangeHotkey, func() {
			server.Arrange(ipc.SourceHotkey, nil, engine.Options{})
		})
		if err != nil {
			logger.Warn("arrange hotkey disabled", zap.Error(err))
		} else {
			bound++
			logger.Info("arrange hotkey registered", zap.String("keys", cfg.ArrangeHotkey))
		}
	}
	if cfg.PaletteHotkey != "" {
		if err := handler.Register(cfg.PaletteHotkey, func() { launchMenu(configPath, logger) }); err != nil {
			logger.Warn("palette hotkey disabled", zap.Error(err))
		} else {
			bound++
			logger.Info("palette hotkey registered", zap.String("keys", cfg.PaletteHotkey))
		}
	}

	if bound == 0 {
		conn.Close()
		return nil
	}
	return conn
}

// launchMenu runs "wingrid menu" as a child so the palette talks to this
// daemon over IPC like any other client. The child reads the daemon's
// config file.
func launchMenu(configPath string, logger *zap.Logger) {
	exe, err := os.Executable()
	if err != nil {
		logger.Error("palette: failed to find executable", zap.Error(err))
		return
	}
	cmd := exec.Command(exe, menuArgs(configPath)...)
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		logger.Warn("palette exited with error", zap.Error(err))
	}
}

func menuArgs(configPath string) []string {
	args := []string{"menu"}
	if configPath != "" {
		if abs, err := filepath.Abs(configPath); err == nil {
			configPath = abs
		}
		args = append(args, "--config", configPath)
	}
	return args
}

func startMetrics(addr string, m *metrics.Metrics, logger *zap.Logger) *http.Server {
	if addr == "" {
		return nil
	}
	mux := http.NewServeMux()
	mux.Handle("/metrics", m.Handler())
	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("metrics server failed", zap.Error(err))
		}
	}()
	logger.Info("metrics listening", zap.String("addr", addr))
	return srv
}
