package cmd

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/gsivak487/emrgent-labs/internal/render"
	"github.com/gsivak487/emrgent-labs/internal/server"
	"github.com/gsivak487/emrgent-labs/internal/view"
)

var (
	serverPort int
	watch      bool
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serves the portfolio page",
	Long: `The serve command renders the portfolio page on every request from the
configured backend (or a --content file) and relays contact form submissions
to the backend. With --watch, edits to the layouts directory are picked up
without a restart.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := appConfig

		client, err := newBackend(cfg)
		if err != nil {
			return err
		}
		src, err := newSource(client)
		if err != nil {
			return err
		}
		var sender view.Sender
		if client != nil {
			sender = client
		} else {
			logger.Warn("no backend configured, contact submissions will fail")
		}

		r, err := render.New(cfg.Site.LayoutsDir)
		if err != nil {
			return err
		}
		srv, err := server.New(server.Options{
			Source:       src,
			Sender:       sender,
			Renderer:     r,
			Site:         cfg.Site.Data(),
			StaticDir:    cfg.Site.StaticDir,
			MaxFormBytes: server.DefaultMaxFormBytes,
			Logger:       logger,
		})
		if err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		if watch {
			startWatcher(ctx, r)
		}

		addr := cfg.Server.Addr
		if serverPort > 0 {
			addr = fmt.Sprintf(":%d", serverPort)
		}
		return srv.ListenAndServe(ctx, addr, cfg.Server.ShutdownTimeout)
	},
}

func startWatcher(ctx context.Context, r *render.Renderer) {
	dir := r.LayoutsDir()
	if dir == "" {
		logger.Warn("--watch given but site.layouts_dir is not set, nothing to watch")
		return
	}
	go func() {
		if err := server.Watch(ctx, []string{dir}, server.ReloadDebounce, r.Reload, logger); err != nil {
			logger.Error("watcher stopped", "error", err)
		}
	}()
}

func init() {
	serveCmd.Flags().IntVarP(&serverPort, "port", "p", 0, "port to serve on (overrides server.addr)")
	serveCmd.Flags().BoolVarP(&watch, "watch", "w", false, "reload layouts when files in site.layouts_dir change")
	rootCmd.AddCommand(serveCmd)
}
