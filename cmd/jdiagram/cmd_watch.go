package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/dhamidi/jdiagram/config"
	"github.com/dhamidi/jdiagram/java/codebase"
)

func newWatchCmd() *cobra.Command {
	var (
		flags    diagramFlags
		interval time.Duration
	)

	cmd := &cobra.Command{
		Use:   "watch [paths...]",
		Short: "Regenerate the diagrams whenever class files change",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			logger := loggerFromContext(ctx)

			cfg, err := flags.resolve(cmd)
			if err != nil {
				return err
			}
			cb, err := loadCodebase(ctx, cfg, inputs(args, cfg))
			if err != nil {
				return err
			}
			if err := regenerate(ctx, cfg, cb); err != nil {
				return err
			}

			watcher := codebase.NewFileWatcher(cb, interval)
			watcher.Prime()
			watcher.OnChange = func(changed []string) {
				logger.Info("class files changed", "count", len(changed))
				for _, path := range changed {
					logger.Debug("changed", "path", path)
				}
				if err := regenerate(ctx, cfg, cb); err != nil {
					logger.Error("regenerate diagrams", "err", err)
				}
			}
			watcher.Start()
			logger.Info("watching for changes", "roots", cb.Roots(), "interval", interval)

			<-ctx.Done()
			watcher.Stop()
			logger.Info("stopped watching")
			return nil
		},
	}

	flags.bind(cmd)
	cmd.Flags().DurationVar(&interval, "interval", time.Second, "how often the inputs are polled for changes")

	return cmd
}

func regenerate(ctx context.Context, cfg config.Config, cb *codebase.Codebase) error {
	p := newProgress(loggerFromContext(ctx))
	docs, err := newGenerator(ctx, cfg, cb, sinkFor(&cfg, false, nil)).Generate(ctx)
	if err != nil {
		return err
	}
	p.done("generated diagrams", "documents", len(docs), "output", cfg.Output)
	return nil
}
