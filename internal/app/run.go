package app

import (
	"context"
	"os/signal"
	"syscall"
	"time"

	"github.com/coreos/go-systemd/v22/daemon"
	"golang.org/x/sync/errgroup"

	"terrateam-setup/internal/config"
	"terrateam-setup/pkg/logging"
)

// runServer starts the session sweeper and the HTTP server and blocks until
// either fails or the process is asked to stop.
//
// Signal Handling:
//   - SIGINT (Ctrl+C): Triggers graceful shutdown
//   - SIGTERM: Triggers graceful shutdown (common in container environments)
func runServer(ctx context.Context, cfg *config.SetupConfig, services *Services) error {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := services.Server.Listen(); err != nil {
		logging.Error("Bootstrap", err, "Failed to bind %s", cfg.Addr())
		return err
	}

	logWelcome(cfg, services.Server.Addr(), services.Store.MaxAge())
	notify(daemon.SdNotifyReady)

	// The first member to fail cancels the other.
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return services.Store.Run(gctx)
	})
	g.Go(func() error {
		return services.Server.Serve(gctx)
	})

	err := g.Wait()
	notify(daemon.SdNotifyStopping)
	logging.Info("Bootstrap", "Shutting down (%d active sessions discarded)", services.Store.Len())
	return err
}

// notify reports state to systemd when running under it.
func notify(state string) {
	sent, err := daemon.SdNotify(false, state)
	if err != nil {
		logging.Debug("Bootstrap", "sd_notify %q failed: %v", state, err)
		return
	}
	if sent {
		logging.Debug("Bootstrap", "sd_notify %q sent", state)
	}
}

func logWelcome(cfg *config.SetupConfig, addr string, maxAge time.Duration) {
	logging.Info("Bootstrap", "Terrateam setup wizard available at http://%s/probot", addr)
	if cfg.DevMode {
		logging.Info("Bootstrap", "Development mode is enabled: OAuth exchanges return mock credentials")
		logging.Info("Bootstrap", "Development helpers at http://%s/probot/dev", addr)
	}
	if !cfg.Tunnel.Enabled {
		logging.Info("Bootstrap", "Tunnel exchange runs only for requests that ask for it")
	}
	logging.Info("Bootstrap", "Sessions expire %s after the OAuth exchange", maxAge)
	logging.Info("Bootstrap", "Credentials will be written to %s on finalize", cfg.EnvFile)
}
