package system

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/julianstephens/valweek/internal/cli"
	"github.com/julianstephens/valweek/internal/kv"
	"github.com/julianstephens/valweek/internal/logger"
	"github.com/julianstephens/valweek/internal/metrics"
	"github.com/julianstephens/valweek/internal/server"
)

const poolStatsInterval = 15 * time.Second

type ServeCmd struct {
	Addr string `help:"Listen address. Overrides server.addr from the config."`
}

func (c *ServeCmd) Run(ctx *cli.Context) error {
	addr := c.Addr
	if addr == "" {
		addr = ctx.Config.Server.Addr
	}

	appCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Partner sessions are per viewer; without Redis they live in memory.
	var sessions kv.Store = kv.NewMemory()
	global := ctx.Global
	if ctx.Config.Redis.Addr != "" {
		if err := ctx.ConnectRedis(appCtx); err != nil {
			return fmt.Errorf("failed to connect to redis: %w", err)
		}
		sessions = ctx.Sessions
		global = ctx.Global
	}
	defer sessions.Close()

	ctx.PerformAutomaticBackup()

	m := metrics.NewMetrics()
	if h, ok := ctx.Store.(dbHandle); ok && h.GetDB() != nil {
		go reportPoolStats(appCtx, m, h.GetDB())
	}

	srv := server.NewServer(server.Config{Addr: addr}, server.Deps{
		Store:    ctx.Store,
		Resolver: ctx.Resolver,
		Sessions: sessions,
		Global:   global,
		Metrics:  m,
	})

	fmt.Printf("Serving partner API on %s (share links: %s)\n", addr, ctx.Config.Server.ShareBaseURL)
	if err := srv.Run(appCtx); err != nil {
		return fmt.Errorf("server stopped: %w", err)
	}
	logger.Info("Server shut down")
	return nil
}

func reportPoolStats(ctx context.Context, m *metrics.Metrics, db *sql.DB) {
	ticker := time.NewTicker(poolStatsInterval)
	defer ticker.Stop()
	for {
		m.RecordDBPoolStats(db.Stats())
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}
