package commands

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/nhle/obra-tracker/cmd/obratrack/internal/clierr"
	"github.com/nhle/obra-tracker/internal/model"
	"github.com/nhle/obra-tracker/internal/store"
)

// keyFlags are the flags identifying one override.
type keyFlags struct {
	segment string
	project string
	stage   string
	actual  bool
}

func (f *keyFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.segment, "segment", "", "segment name (required)")
	cmd.Flags().StringVar(&f.project, "project", "", "project name (required)")
	cmd.Flags().StringVar(&f.stage, "stage", "", "stage name, e.g. \"EXECUTIVO\" (required)")
	cmd.Flags().BoolVar(&f.actual, "actual", false, "address the actual date instead of the planned one")
}

func (f *keyFlags) key() (model.OverrideKey, error) {
	if f.segment == "" || f.project == "" || f.stage == "" {
		return model.OverrideKey{}, clierr.Usagef("--segment, --project and --stage are required")
	}
	stage, err := model.ParseStage(f.stage)
	if err != nil {
		return model.OverrideKey{}, clierr.Usage(err)
	}
	k := model.OverrideKey{
		Segment: model.Segment(strings.TrimSpace(f.segment)),
		Project: strings.TrimSpace(f.project),
		Stage:   stage,
		Kind:    model.KindPlanned,
	}
	if f.actual {
		k.Kind = model.KindActual
	}
	if err := k.Validate(); err != nil {
		return model.OverrideKey{}, clierr.Usage(err)
	}
	return k, nil
}

func newOverrideCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "override",
		Short: "Read and edit user-entered planned and actual dates",
	}
	cmd.AddCommand(newOverrideSetCmd())
	cmd.AddCommand(newOverrideGetCmd())
	cmd.AddCommand(newOverrideClearCmd())
	cmd.AddCommand(newOverrideHistoryCmd())
	cmd.AddCommand(newOverrideListCmd())
	return cmd
}

func newOverrideSetCmd() *cobra.Command {
	var kf keyFlags
	cmd := &cobra.Command{
		Use:   "set DATE",
		Short: "Set a planned (or --actual) date; an empty DATE clears it",
		Args:  usageArgs(cobra.ExactArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			key, err := kf.key()
			if err != nil {
				return err
			}
			e, err := openEnv(cmd)
			if err != nil {
				return err
			}
			defer e.Close()

			err = e.store.Set(cmd.Context(), key, args[0])
			if errors.Is(err, model.ErrInvalidDate) {
				return clierr.Usage(err)
			}
			if err != nil {
				return clierr.Wrap(clierr.CodeRuntime, "saving override", err)
			}
			d, _, _ := e.store.Get(cmd.Context(), key)
			fmt.Fprintf(cmd.OutOrStdout(), "%s = %s\n", key, valueOrNone(d))
			return nil
		},
	}
	kf.register(cmd)
	return cmd
}

func newOverrideGetCmd() *cobra.Command {
	var kf keyFlags
	cmd := &cobra.Command{
		Use:   "get",
		Short: "Print a stored date",
		Args:  usageArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, _ []string) error {
			key, err := kf.key()
			if err != nil {
				return err
			}
			e, err := openEnv(cmd)
			if err != nil {
				return err
			}
			defer e.Close()

			d, ok, err := e.store.Get(cmd.Context(), key)
			if err != nil {
				return clierr.Wrap(clierr.CodeRuntime, "reading override", err)
			}
			if !ok {
				return clierr.New(clierr.CodeRuntime, fmt.Sprintf("no override for %s", key))
			}
			fmt.Fprintln(cmd.OutOrStdout(), d)
			return nil
		},
	}
	kf.register(cmd)
	return cmd
}

func newOverrideClearCmd() *cobra.Command {
	var kf keyFlags
	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Remove a stored date",
		Args:  usageArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, _ []string) error {
			key, err := kf.key()
			if err != nil {
				return err
			}
			e, err := openEnv(cmd)
			if err != nil {
				return err
			}
			defer e.Close()

			if err := e.store.Delete(cmd.Context(), key); err != nil {
				return clierr.Wrap(clierr.CodeRuntime, "clearing override", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s cleared\n", key)
			return nil
		},
	}
	kf.register(cmd)
	return cmd
}

func newOverrideHistoryCmd() *cobra.Command {
	var kf keyFlags
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show every recorded change to a date (sqlite backend)",
		Args:  usageArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, _ []string) error {
			key, err := kf.key()
			if err != nil {
				return err
			}
			e, err := openEnv(cmd)
			if err != nil {
				return err
			}
			defer e.Close()

			hr, ok := e.store.(store.HistoryReader)
			if !ok {
				return clierr.Wrap(clierr.CodeUsage, e.cfg.Store.Backend, store.ErrHistoryUnsupported)
			}
			entries, err := hr.History(cmd.Context(), key)
			if err != nil {
				return clierr.Wrap(clierr.CodeRuntime, "reading history", err)
			}
			out := cmd.OutOrStdout()
			for _, h := range entries {
				fmt.Fprintf(out, "%s\t%s -> %s\n",
					h.ChangedAt.Local().Format("2006-01-02 15:04:05"),
					valueOrNone(mustDate(h.OldValue)), valueOrNone(mustDate(h.NewValue)))
			}
			return nil
		},
	}
	kf.register(cmd)
	return cmd
}

func newOverrideListCmd() *cobra.Command {
	var segment string
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List stored dates, optionally for one segment",
		Args:  usageArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, _ []string) error {
			e, err := openEnv(cmd)
			if err != nil {
				return err
			}
			defer e.Close()

			all, err := e.store.All(cmd.Context())
			if err != nil {
				return clierr.Wrap(clierr.CodeRuntime, "listing overrides", err)
			}
			for _, k := range store.SortedKeys(all) {
				if segment != "" && string(k.Segment) != segment {
					continue
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\t%s\t%s\t%s\n",
					k.Segment, k.Project, k.Stage, k.Kind, all[k])
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&segment, "segment", "", "only this segment")
	return cmd
}

func valueOrNone(d model.Date) string {
	if d.IsZero() {
		return "(none)"
	}
	return d.Display()
}

func mustDate(s string) model.Date {
	d, _ := model.ParseDate(s)
	return d
}

func newImportLegacyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "import-legacy FILE",
		Short: "Import dates exported from the browser dashboard",
		Long:  "Reads a JSON object mapping \"segment-project-stage[-real]\" keys to dates. Segment and project names are resolved against the current workbooks.",
		Args:  usageArgs(cobra.ExactArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			blob, err := os.ReadFile(args[0])
			if err != nil {
				return clierr.Wrap(clierr.CodeUsage, "reading legacy file", err)
			}
			e, err := openEnv(cmd)
			if err != nil {
				return err
			}
			defer e.Close()

			ds := loadDataset(cmd, e)
			res, err := store.ImportLegacy(cmd.Context(), e.store, blob, ds)
			if err != nil {
				return clierr.Usage(err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "imported %d, skipped %d\n", res.Imported, len(res.Skipped))
			for _, s := range res.Skipped {
				fmt.Fprintf(cmd.ErrOrStderr(), "skipped %q: %s\n", s.Key, s.Reason)
			}
			return nil
		},
	}
}

func newExportLegacyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "export-legacy",
		Short: "Print every stored date in the browser dashboard format",
		Args:  usageArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, _ []string) error {
			e, err := openEnv(cmd)
			if err != nil {
				return err
			}
			defer e.Close()

			data, err := store.ExportLegacy(cmd.Context(), e.store)
			if err != nil {
				return clierr.Wrap(clierr.CodeRuntime, "exporting overrides", err)
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), string(data))
			return err
		},
	}
}
