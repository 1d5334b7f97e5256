package cmd

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/oshokin/temp-monitor/internal/config"
	"github.com/oshokin/temp-monitor/internal/repository/readings"
)

var (
	// statusWindowSeconds is the averaging window for the status report.
	statusWindowSeconds int

	// statusCmd prints the current state of the readings database.
	statusCmd = &cobra.Command{
		Use:   "status <db-path>",
		Short: "Print the latest reading, windowed average and last alert.",
		Long: `Inspect the readings database without evaluating or sending anything:
the most recent sensor sample, the average temperature over the trailing
window, and the timestamp of the last recorded alert.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
			defer stop()

			repo, err := readings.Open(ctx, args[0])
			if err != nil {
				return err
			}

			defer func() {
				_ = repo.Close()
			}()

			now := time.Now()
			out := cmd.OutOrStdout()

			latest, err := repo.LatestReading(ctx)
			if err != nil {
				return err
			}

			if latest == nil {
				_, _ = fmt.Fprintln(out, "Latest reading : none")
			} else {
				_, _ = fmt.Fprintf(out, "Latest reading : %.2f°C at %s\n",
					latest.Temperature, latest.Timestamp.Format(time.RFC3339))

				if latest.Humidity != nil {
					_, _ = fmt.Fprintf(out, "Humidity       : %.1f%%\n", *latest.Humidity)
				}
			}

			window := time.Duration(statusWindowSeconds) * time.Second

			avg, err := repo.AverageTemperature(ctx, window, now)
			if err != nil {
				return err
			}

			if avg == nil {
				_, _ = fmt.Fprintf(out, "Average (%s)  : no readings in window\n", window)
			} else {
				_, _ = fmt.Fprintf(out, "Average (%s)  : %.2f°C\n", window, *avg)
			}

			last, err := repo.LastAlertAt(ctx)
			if err != nil {
				return err
			}

			if last == nil {
				_, _ = fmt.Fprintln(out, "Last alert     : never")
			} else {
				_, _ = fmt.Fprintf(out, "Last alert     : %s (%s ago)\n",
					last.Format(time.RFC3339), now.Sub(*last).Round(time.Second))
			}

			return nil
		},
	}
)

//nolint:gochecknoinits // Required by Cobra CLI framework architecture.
func init() {
	statusCmd.Flags().IntVarP(&statusWindowSeconds, "window", "w",
		config.DefaultWindowSeconds, "averaging window in seconds")

	rootCmd.AddCommand(statusCmd)
}
