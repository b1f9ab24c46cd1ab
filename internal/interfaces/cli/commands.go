package cli

import (
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/riskibarqy/hoopstats/internal/domain/milestone"
	"github.com/riskibarqy/hoopstats/internal/domain/stats"
	"github.com/riskibarqy/hoopstats/internal/usecase"
)

func newRunCommand(opts *RootOptions) *cobra.Command {
	var once, dryRun bool

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Poll the league and announce leaders, records and milestones",
		Long: `Run the poll loop until SIGINT or SIGTERM. Each cycle computes season
leaders, milestone crossings and (on their own interval) single-game records,
saves state once and announces what changed.

Example:
  hoopstats run
  hoopstats run --once --dry-run`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			a, err := opts.build(ctx, cmd.OutOrStdout(), dryRun)
			if err != nil {
				return err
			}
			defer a.Close()

			if once {
				report, err := a.Poll.RunCycle(ctx)
				if err != nil {
					return err
				}
				return writeJSON(cmd.OutOrStdout(), report)
			}
			return a.Poll.Run(ctx)
		},
	}

	cmd.Flags().BoolVar(&once, "once", false, "run a single cycle and print its report")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "keep state in memory only")
	return cmd
}

func newLeadersCommand(opts *RootOptions) *cobra.Command {
	var (
		scope string
		topN  int
	)

	cmd := &cobra.Command{
		Use:   "leaders",
		Short: "Print statistical leaders",
		Long: `Print the top players per statistic for the current season, across all
configured seasons (career) or from the all-time statistics list.

Example:
  hoopstats leaders
  hoopstats leaders --scope career -n 5`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			parsed, ok := stats.ParseScope(scope)
			if !ok {
				return fmt.Errorf("%w: invalid scope %q: must be season, career or all-time", usecase.ErrInvalidInput, scope)
			}
			if topN < 0 {
				return fmt.Errorf("%w: -n must be >= 0", usecase.ErrInvalidInput)
			}

			a, err := opts.build(cmd.Context(), nil, true)
			if err != nil {
				return err
			}
			defer a.Close()

			result := a.Leaders.Leaders(cmd.Context(), parsed, topN)
			return printResult(cmd, result)
		},
	}

	cmd.Flags().StringVar(&scope, "scope", string(stats.ScopeSeason), "season, career or all-time")
	cmd.Flags().IntVarP(&topN, "top", "n", 0, "entries per statistic (0 uses LEADERS_TOP_N)")
	return cmd
}

func newRecordsCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "records",
		Short: "Scan every event and print single-game records",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := opts.build(cmd.Context(), nil, true)
			if err != nil {
				return err
			}
			defer a.Close()

			return printResult(cmd, a.Records.ComputeRecords(cmd.Context()))
		},
	}
}

func newMilestonesCommand(opts *RootOptions) *cobra.Command {
	var dryRun bool

	cmd := &cobra.Command{
		Use:   "milestones",
		Short: "Detect newly crossed career milestones",
		Long: `Compare current-season totals with the saved baseline, print the
milestones crossed since the last run and save the new baseline.

Example:
  hoopstats milestones --dry-run`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := opts.build(cmd.Context(), nil, dryRun)
			if err != nil {
				return err
			}
			defer a.Close()

			result := a.Milestones.DetectMilestones(cmd.Context(), dryRun)
			messages := make([]string, 0, len(result.Value))
			for _, n := range result.Value {
				messages = append(messages, usecase.RenderMilestone(n))
			}
			return printResult(cmd, usecase.Result[milestoneView]{
				Value:  milestoneView{DryRun: dryRun, Notifications: result.Value, Messages: messages},
				Status: result.Status,
				Reason: result.Reason,
				Err:    result.Err,
			})
		},
	}

	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "detect without saving state")
	return cmd
}

type milestoneView struct {
	DryRun        bool                     `json:"dry_run"`
	Notifications []milestone.Notification `json:"notifications"`
	Messages      []string                 `json:"messages"`
}

// printResult writes result as JSON and turns a failed stage into an error.
func printResult[T any](cmd *cobra.Command, result usecase.Result[T]) error {
	if err := writeJSON(cmd.OutOrStdout(), result); err != nil {
		return err
	}
	if result.Status != usecase.StatusFailed {
		return nil
	}
	if result.Err != nil {
		return fmt.Errorf("%s failed: %w", cmd.Name(), result.Err)
	}
	return fmt.Errorf("%s failed: %s", cmd.Name(), result.Reason)
}
