package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/ukaji3/lumina-go/internal/config"
	"github.com/ukaji3/lumina-go/internal/server"
	"github.com/ukaji3/lumina-go/internal/webhook"
	"github.com/ukaji3/lumina-go/pkg/lumina"
	"go.uber.org/zap"
)

func newServeCmd() *cobra.Command {
	var (
		addr  string
		watch bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the chat, normalize and spreadsheet HTTP API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if addr != "" {
				cfg.Server.Addr = addr
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			svc := lumina.NewService(cfg.ServiceOptions(), logger.Named("service"))
			defer svc.Close()

			var chat server.Chatter
			if cfg.Webhook.URL != "" {
				chat = webhook.New(cfg.Webhook.URL, cfg.GetWebhookTimeout(), logger.Named("webhook"))
			} else {
				logger.Warn("no chat webhook configured, /api/chat is disabled")
			}

			if watch {
				go watchConfig(ctx, svc)
			}

			srv := server.New(svc, chat, logger.Named("http"))
			return srv.ListenAndServe(ctx, server.Options{
				Addr:            cfg.Server.Addr,
				ReadTimeout:     cfg.GetReadTimeout(),
				WriteTimeout:    cfg.GetWriteTimeout(),
				ShutdownTimeout: cfg.GetShutdownTimeout(),
			})
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "Listen address (overrides config)")
	cmd.Flags().BoolVar(&watch, "watch", true, "Reload normalization and sheet options when the config file changes")
	return cmd
}

// watchConfig applies config file changes to the running service. Server
// and webhook settings need a restart.
func watchConfig(ctx context.Context, svc *lumina.Service) {
	err := config.Watch(ctx, configPath, logger.Named("config"), func(next *config.Config) {
		svc.Reload(next.ServiceOptions())
	})
	if err != nil {
		logger.Warn("config watch stopped", zap.Error(err))
	}
}
