package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/humanloop/hitl-mcp/internal/config"
	"github.com/humanloop/hitl-mcp/internal/dialog"
	"github.com/humanloop/hitl-mcp/internal/history"
	"github.com/humanloop/hitl-mcp/internal/logging"
	"github.com/humanloop/hitl-mcp/internal/server"
	"github.com/humanloop/hitl-mcp/internal/webdialog"
)

func runServe(args []string) int {
	cfg, err := config.Load(args)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		return 1
	}

	log, err := logging.New(&cfg.Logging)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to set up logging: %v\n", err)
		return 1
	}
	defer log.Sync()

	hist, err := history.Open(&cfg.History)
	if err != nil {
		log.Error("opening history backend failed", zap.Error(err))
		return 1
	}
	defer hist.Close()

	srv := server.New(cfg, log, hist)

	// Channel order is the auto-mode fallback order: the client's own UI
	// first, then a native dialog, then the web page.
	srv.AddRenderer(server.NewElicitRenderer(srv.MCP(), log))
	srv.AddRenderer(dialog.NewNative(log))

	if cfg.Web.Enabled {
		web := webdialog.New(&cfg.Web, log)
		if err := web.Start(); err != nil {
			log.Error("starting web dialog server failed", zap.Error(err))
			return 1
		}
		defer func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			web.Shutdown(ctx)
		}()
		srv.AddRenderer(web)
		log.Info("web dialog page ready", zap.String("url", web.URL()))
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := srv.Serve(ctx); err != nil {
		log.Error("server error", zap.Error(err))
		return 1
	}
	return 0
}
