package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/hmasuda/sitework/internal/config"
	"github.com/hmasuda/sitework/internal/logging"
	"github.com/hmasuda/sitework/internal/notify"
	"github.com/hmasuda/sitework/internal/pdfgw"
	"github.com/hmasuda/sitework/internal/server"
	"github.com/hmasuda/sitework/internal/watch"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

func newServeCmd() *cobra.Command {
	var (
		configPath string
		port       int
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the Sitework API server",
		Long:  "Launches the JSON API server plus the background watcher for PDF-service health and delay digests.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd, configPath, port)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", defaultConfigPath, "path to Sitework config file")
	cmd.Flags().IntVarP(&port, "port", "p", 0, "port to listen on (overrides config)")
	return cmd
}

func runServe(cmd *cobra.Command, configPath string, port int) error {
	cfg, gormDB, err := connectFromConfig(configPath)
	if err != nil {
		return err
	}

	log, err := logging.Setup(cfg.Log)
	if err != nil {
		return err
	}

	gw := pdfgw.New(cfg.PDFService.BaseURL, cfg.PDFService.Timeout)
	dispatcher, err := buildDispatcher(cfg, log)
	if err != nil {
		return err
	}

	if port <= 0 {
		port = cfg.Server.Port
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		fmt.Fprintf(cmd.OutOrStdout(), "\nReceived %s, shutting down...\n", sig)
		cancel()
	}()

	if cfg.Watch.Enabled {
		watcher := watch.New(gormDB, gw, dispatcher, log)
		go func() {
			if err := watcher.Start(ctx, cfg.Watch); err != nil {
				log.WithError(err).Error("watcher stopped")
			}
		}()
	}

	return server.Start(ctx, server.StartOpts{
		DB:         gormDB,
		Gateway:    gw,
		Dispatcher: dispatcher,
		Log:        log,
		Port:       port,
	})
}

// buildDispatcher assembles notifiers from config. Unconfigured channels are
// simply skipped.
func buildDispatcher(cfg *config.Config, log *logrus.Logger) (*notify.Dispatcher, error) {
	var notifiers []notify.Notifier

	if cfg.Notify.Slack.BotToken != "" {
		s, err := notify.NewSlack(cfg.Notify.Slack.BotToken, cfg.Notify.Slack.ChannelID)
		if err != nil {
			return nil, err
		}
		notifiers = append(notifiers, s)
	}
	if cfg.Notify.Discord.BotToken != "" {
		d, err := notify.NewDiscord(cfg.Notify.Discord.BotToken, cfg.Notify.Discord.ChannelID)
		if err != nil {
			return nil, err
		}
		notifiers = append(notifiers, d)
	}

	return notify.NewDispatcher(log, notifiers...), nil
}
