package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"readplan/internal/bootstrap"
	"readplan/internal/platform/config"
	apperrors "readplan/internal/platform/errors"
	"readplan/internal/platform/logging"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

type rootOptions struct {
	vaultPath string
	logLevel  string
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	root := &cobra.Command{
		Use:           "readplan",
		Short:         "Reading plan progress and pacing for a Markdown vault",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&opts.vaultPath, "vault", ".", "Obsidian vault path")
	root.PersistentFlags().StringVar(&opts.logLevel, "log-level", "", "debug|info|warn|error (default from settings)")

	root.AddCommand(newTodayCmd(opts))
	root.AddCommand(newFinalizeCmd(opts))
	root.AddCommand(newStatusCmd(opts))
	root.AddCommand(newPlanCmd(opts))
	root.AddCommand(newRepairCmd(opts))
	root.AddCommand(newReindexCmd(opts))
	root.AddCommand(newDashboardCmd(opts))
	root.AddCommand(newScaffoldCmd(opts))
	root.AddCommand(newConfigCmd(opts))
	root.AddCommand(newTUICmd(opts))
	return root
}

func loadApp(opts *rootOptions) (*bootstrap.App, error) {
	cfg, err := config.New(opts.vaultPath)
	if err != nil {
		return nil, err
	}
	level := cfg.Settings.LogLevel
	if opts.logLevel != "" {
		level = opts.logLevel
	}
	return bootstrap.New(cfg, logging.New(os.Stderr, level))
}

func newTodayCmd(opts *rootOptions) *cobra.Command {
	var noWrite bool
	cmd := &cobra.Command{
		Use:   "today",
		Short: "Render today's checklist into the target note",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := loadApp(opts)
			if err != nil {
				return err
			}
			out, err := app.ProgressCLI.Today(context.Background(), !noWrite)
			if err != nil {
				return err
			}
			if noWrite {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), strings.Join(out.Lines, "\n"))
				return nil
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "today: %d items from idx %d note=%s\n", out.TodayCount, out.FirstUnread, out.NotePath)
			return nil
		},
	}
	cmd.Flags().BoolVar(&noWrite, "no-write", false, "print the checklist instead of writing the target note")
	return cmd
}

func newFinalizeCmd(opts *rootOptions) *cobra.Command {
	var file string
	cmd := &cobra.Command{
		Use:   "finalize",
		Short: "Record checked items from the target note (or --file)",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := loadApp(opts)
			if err != nil {
				return err
			}
			text := ""
			if file != "" {
				raw, err := os.ReadFile(file)
				if err != nil {
					return fmt.Errorf("read checklist: %w", err)
				}
				text = string(raw)
				if strings.TrimSpace(text) == "" {
					_, _ = fmt.Fprintln(cmd.OutOrStdout(), "nothing to finalize")
					return nil
				}
			}
			out, err := app.ProgressCLI.Finalize(context.Background(), text)
			if errors.Is(err, apperrors.ErrNothingToFinalize) {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), "nothing to finalize")
				return nil
			}
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "finalized %d items (%s .. %s), %d new, %d read, next idx %d\n",
				out.Completed, out.StartRef, out.EndRef, out.Appended, out.UniqueRead, out.FirstUnread)
			if out.Scaffolded > 0 {
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "scaffolded %d notes\n", out.Scaffolded)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&file, "file", "", "checklist file to read instead of the target note")
	return cmd
}

func newStatusCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show progress and pacing",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := loadApp(opts)
			if err != nil {
				return err
			}
			s, err := app.ProgressCLI.Status(context.Background())
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			next := s.NextRef
			if next == "" {
				next = "plan complete"
			}
			_, _ = fmt.Fprintf(w, "read %d/%d (%.1f%%) next=%s idx=%d\n", s.VersesRead, s.TotalVerses, s.Percent, next, s.LastOrder)
			_, _ = fmt.Fprintf(w, "day %d of %d since %s expected=%d pace=%d/day catchup=%d today=%d\n",
				s.Pacing.DaysElapsed, s.TargetDays, s.StartDate.Format("2006-01-02"),
				s.Pacing.Expected, s.Pacing.Pace, s.Pacing.Catchup, s.Pacing.RecommendedToday)
			return nil
		},
	}
}

func newPlanCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "plan",
		Short: "Summarize the loaded reading plan",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := loadApp(opts)
			if err != nil {
				return err
			}
			out, err := app.PlanCLI.Summary(context.Background())
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s: %d items (%s .. %s)\n", out.Path, out.Count, out.First, out.Last)
			return nil
		},
	}
}

func newRepairCmd(opts *rootOptions) *cobra.Command {
	repair := &cobra.Command{Use: "repair", Short: "Rebuild derived reading state"}

	var force bool
	seedCmd := &cobra.Command{
		Use:   "seed",
		Short: "Seed the read map from the snapshot's verses_read",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := loadApp(opts)
			if err != nil {
				return err
			}
			out, err := app.ProgressCLI.Seed(context.Background(), force)
			if errors.Is(err, apperrors.ErrMapNotEmpty) {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), "read map is not empty; pass --force to overwrite")
				return nil
			}
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "seeded %d entries, next idx %d\n", out.Entries, out.LastOrder)
			return nil
		},
	}
	seedCmd.Flags().BoolVar(&force, "force", false, "overwrite a non-empty read map")

	rebuildCmd := &cobra.Command{
		Use:   "rebuild",
		Short: "Rebuild the read map from the event ledger",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := loadApp(opts)
			if err != nil {
				return err
			}
			out, err := app.ProgressCLI.Rebuild(context.Background())
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "rebuilt %d entries, %d read, next idx %d\n", out.Entries, out.VersesRead, out.LastOrder)
			return nil
		},
	}

	recomputeCmd := &cobra.Command{
		Use:   "recompute",
		Short: "Recompute the progress snapshot from the read map",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := loadApp(opts)
			if err != nil {
				return err
			}
			out, err := app.ProgressCLI.Recompute(context.Background())
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "last_order=%d verses_read=%d\n", out.LastOrder, out.VersesRead)
			return nil
		},
	}

	repair.AddCommand(seedCmd, rebuildCmd, recomputeCmd)
	return repair
}

func newReindexCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "reindex",
		Short: "Rebuild the SQLite reading projection",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := loadApp(opts)
			if err != nil {
				return err
			}
			out, err := app.ProgressCLI.Reindex(context.Background())
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "reindexed %d reads, %d sessions\n", out.Reads, out.Sessions)
			return nil
		},
	}
}

func newDashboardCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "dashboard",
		Short: "Regenerate the dashboard note",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := loadApp(opts)
			if err != nil {
				return err
			}
			out, err := app.ProgressCLI.Dashboard(context.Background())
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "dashboard=%s\n", out.Path)
			return nil
		},
	}
}

func newScaffoldCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "scaffold",
		Short: "Create chapter notes and anchors for today's items",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := loadApp(opts)
			if err != nil {
				return err
			}
			out, err := app.ProgressCLI.Scaffold(context.Background())
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "checked %d items, updated %d notes\n", out.Checked, out.Created)
			return nil
		},
	}
}

func newConfigCmd(opts *rootOptions) *cobra.Command {
	cfgCmd := &cobra.Command{Use: "config", Short: "Settings commands"}
	cfgCmd.AddCommand(&cobra.Command{
		Use:   "init",
		Short: "Write default settings to .readplan/settings.json",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.New(opts.vaultPath)
			if err != nil {
				return err
			}
			created, err := config.WriteDefaults(cfg)
			if err != nil {
				return err
			}
			if !created {
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "settings already exist at %s\n", cfg.SettingsPath)
				return nil
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", cfg.SettingsPath)
			return nil
		},
	})
	return cfgCmd
}

func newTUICmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "tui",
		Short: "Run the interactive checklist",
		RunE: func(_ *cobra.Command, _ []string) error {
			app, err := loadApp(opts)
			if err != nil {
				return err
			}
			return bootstrap.RunTUI(opts.vaultPath, app)
		},
	}
}
