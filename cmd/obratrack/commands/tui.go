package commands

import (
	"context"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/nhle/obra-tracker/cmd/obratrack/internal/clierr"
	"github.com/nhle/obra-tracker/internal/app"
	"github.com/nhle/obra-tracker/internal/ingest"
	"github.com/nhle/obra-tracker/internal/model"
	appsync "github.com/nhle/obra-tracker/internal/sync"
)

func newTUICmd() *cobra.Command {
	var segment string
	cmd := &cobra.Command{
		Use:   "tui",
		Short: "Open the interactive schedule dashboard",
		Args:  usageArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runTUI(cmd, model.Segment(segment))
		},
	}
	cmd.Flags().StringVar(&segment, "segment", "", "open this segment directly")
	return cmd
}

func runTUI(cmd *cobra.Command, segment model.Segment) error {
	e, err := openEnv(cmd)
	if err != nil {
		return err
	}
	defer e.Close()

	opts := app.Options{
		Store:    e.store,
		Reloader: appsync.NewReloader(ingest.NewLoader(e.cfg.Sources, nil, e.log)),
		Log:      e.log,
		Segment:  segment,
	}

	if e.cfg.Sources.Watch {
		w, err := appsync.NewWatcher(localSources(e.cfg.Sources), appsync.DefaultDebounce, e.log)
		if err != nil {
			e.log.Warn("file watching disabled", zap.Error(err))
		} else {
			ctx, cancel := context.WithCancel(cmd.Context())
			defer cancel()
			w.Start(ctx)
			defer w.Stop()
			opts.Watcher = w
		}
	}

	e.log.Info("starting dashboard", zap.String("segment", string(segment)))
	p := tea.NewProgram(app.New(opts), tea.WithAltScreen(), tea.WithContext(cmd.Context()))
	if _, err := p.Run(); err != nil {
		return clierr.Wrap(clierr.CodeRuntime, "running dashboard", err)
	}
	return nil
}

// localSources returns the workbook paths that can be watched.
func localSources(cfg model.SourcesConfig) []string {
	var out []string
	for _, s := range []model.SourceConfig{cfg.Material, cfg.ERM} {
		if s.Location != "" && !s.IsRemote() {
			out = append(out, filepath.Clean(s.Location))
		}
	}
	return out
}
