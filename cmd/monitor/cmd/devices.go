package cmd

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/oshokin/temp-monitor/internal/broadcast"
	"github.com/oshokin/temp-monitor/internal/config"
)

var (
	// deviceScanTimeoutSeconds bounds discovery for the devices subcommand.
	deviceScanTimeoutSeconds int

	// devicesCmd lists Chromecast devices visible on the local network.
	devicesCmd = &cobra.Command{
		Use:   "devices",
		Short: "Discover and list Chromecast devices on the local network.",
		Long: `Discover Chromecast and Google Home devices via mDNS and print their
friendly names, identifiers and addresses. Useful for filling the --devices
flag of the monitor command.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
			defer stop()

			caster := broadcast.NewChromecast(
				broadcast.WithDiscoveryTimeout(time.Duration(deviceScanTimeoutSeconds) * time.Second),
			)

			found, err := caster.Discover(ctx)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if len(found) == 0 {
				_, _ = fmt.Fprintln(out, "No Chromecast devices found.")

				return nil
			}

			for _, device := range found {
				_, _ = fmt.Fprintf(out, "Name : %s\n", device.Name)
				_, _ = fmt.Fprintf(out, "UUID : %s\n", device.UUID)
				_, _ = fmt.Fprintf(out, "Model: %s\n", device.Model)
				_, _ = fmt.Fprintf(out, "Host : %s:%d\n", device.Addr, device.Port)
				_, _ = fmt.Fprintln(out, "----------------------------------------")
			}

			return nil
		},
	}
)

//nolint:gochecknoinits // Required by Cobra CLI framework architecture.
func init() {
	devicesCmd.Flags().IntVarP(&deviceScanTimeoutSeconds, "discovery-timeout", "t",
		config.DefaultDiscoveryTimeoutSeconds, "device discovery timeout in seconds")

	rootCmd.AddCommand(devicesCmd)
}
