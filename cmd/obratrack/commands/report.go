package commands

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/nhle/obra-tracker/cmd/obratrack/internal/clierr"
	"github.com/nhle/obra-tracker/internal/ingest"
	"github.com/nhle/obra-tracker/internal/model"
	"github.com/nhle/obra-tracker/internal/report"
	"github.com/nhle/obra-tracker/internal/schedule"
)

func newReportCmd() *cobra.Command {
	var (
		segment string
		format  string
		today   string
	)
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Print a segment's schedule, progress and impacts",
		Args:  usageArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, _ []string) error {
			if segment == "" {
				return clierr.Usagef("--segment is required")
			}
			f, err := report.ParseFormat(format)
			if err != nil {
				return clierr.Usage(err)
			}
			var clock model.Clock
			if today != "" {
				d, err := model.ParseDate(today)
				if err != nil {
					return clierr.Usage(fmt.Errorf("--today: %w", err))
				}
				clock = model.FixedClock(d)
			}

			e, err := openEnv(cmd)
			if err != nil {
				return err
			}
			defer e.Close()

			engine := schedule.NewEngine(loadDataset(cmd, e), e.store, clock)
			doc, err := report.Build(cmd.Context(), engine, model.Segment(segment))
			if errors.Is(err, schedule.ErrUnknownSegment) {
				return clierr.Usage(err)
			}
			if err != nil {
				return clierr.Wrap(clierr.CodeRuntime, "building report", err)
			}
			return report.Write(cmd.OutOrStdout(), doc, f)
		},
	}
	cmd.Flags().StringVar(&segment, "segment", "", "segment to report on (required)")
	cmd.Flags().StringVar(&format, "format", "text", "output format: text, json or yaml")
	cmd.Flags().StringVar(&today, "today", "", "evaluate the schedule as of this date")
	return cmd
}

// loadDataset runs one ingestion pass and prints source warnings to stderr.
func loadDataset(cmd *cobra.Command, e *env) *ingest.Dataset {
	ds, warnings := ingest.NewLoader(e.cfg.Sources, nil, e.log).Load(cmd.Context())
	for _, w := range ingest.Describe(warnings) {
		fmt.Fprintln(cmd.ErrOrStderr(), "warning:", w)
	}
	if ds.Fallback {
		fmt.Fprintln(cmd.ErrOrStderr(), "warning: no material workbook data, showing placeholder segments")
	}
	return ds
}
