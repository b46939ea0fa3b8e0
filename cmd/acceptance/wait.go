package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/aretw0/acceptance"
	"github.com/aretw0/acceptance/pkg/domain"
	"github.com/spf13/cobra"
)

type waitFunc func(h *acceptance.Harness, ctx context.Context, host string, timeout time.Duration) (domain.HostState, error)

func newWaitCmd(use, short string, wait waitFunc) *cobra.Command {
	cmd := &cobra.Command{
		Use:   use + " HOST",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			h, err := loadHarness(cmd)
			if err != nil {
				return err
			}
			defer h.Close()

			timeout, _ := cmd.Flags().GetDuration("timeout")
			if timeout == 0 {
				timeout = h.RebootTimeout()
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			state, err := wait(h, ctx, args[0], timeout)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s: %s\n", args[0], state)
			return nil
		},
	}
	cmd.Flags().Duration("timeout", 0, "Overall bound (default: reboot_timeout from the config)")
	return cmd
}

var waitShutdownCmd = newWaitCmd("wait-shutdown", "Wait until a node stops answering ping",
	func(h *acceptance.Harness, ctx context.Context, host string, timeout time.Duration) (domain.HostState, error) {
		return h.WaitForShutdown(ctx, host, timeout)
	})

var waitRestartCmd = newWaitCmd("wait-restart", "Wait until a node answers ping and accepts ssh commands",
	func(h *acceptance.Harness, ctx context.Context, host string, timeout time.Duration) (domain.HostState, error) {
		return h.WaitForRestart(ctx, host, timeout)
	})

var rebootCmd = &cobra.Command{
	Use:   "reboot HOST",
	Short: "Reboot a node over ssh and wait for it to come back",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		h, err := loadHarness(cmd)
		if err != nil {
			return err
		}
		defer h.Close()

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		state, err := h.Reboot(ctx, args[0])
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s: %s\n", args[0], state)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(waitShutdownCmd, waitRestartCmd, rebootCmd)
}
