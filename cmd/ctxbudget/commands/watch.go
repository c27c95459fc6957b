package commands

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	coreerrors "github.com/mdresch/requirements-gathering-agent-sub002/pkg/core/errors"
	"github.com/mdresch/requirements-gathering-agent-sub002/pkg/scanner"
)

// newWatchCmd 创建 `ctxbudget watch` 命令
func newWatchCmd() *cobra.Command {
	var (
		flags    injectionFlags
		debounce time.Duration
	)

	cmd := &cobra.Command{
		Use:   "watch <core-file> <root>",
		Short: "Re-inject whenever markdown files under root change",
		Long: `Run an injection pass, then watch <root> for markdown changes. Each batch
of changes rescans <root> and replaces the injected context; a failed rescan
keeps the previous context. The utilization report is printed after every
pass. Stop with Ctrl+C.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd)
			if err != nil {
				return err
			}
			defer a.close()

			root := args[1]
			mgr, err := runInjection(cmd, a, flags, args[0], root)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprint(out, mgr.GetContextUtilizationReport())

			wcfg := scanner.DefaultWatchConfig()
			wcfg.Debounce = a.cfg.Scanner.WatchDebounce
			if cmd.Flags().Changed("debounce") {
				wcfg.Debounce = debounce
			}

			w, err := scanner.NewWatcher(root, wcfg, a.logger)
			if err != nil {
				return err
			}
			defer w.Stop()

			ctx := cmd.Context()
			if err := w.Start(ctx); err != nil {
				return err
			}

			threshold, maxFiles := flags.resolve(cmd, a.cfg)
			for batch := range w.Batches() {
				a.logger.Info("markdown changed, re-injecting", "files", len(batch))

				if _, err := mgr.RefreshInjectedContext(ctx, root, threshold, maxFiles); err != nil {
					if ctx.Err() != nil {
						break
					}
					if coreerrors.IsFatal(err) {
						return err
					}
					a.logger.Error("re-injection failed", "error", err, "retryable", coreerrors.IsRetryable(err))
					continue
				}
				fmt.Fprint(out, mgr.GetContextUtilizationReport())
			}

			a.logger.Info("watch stopped", "session", mgr.SessionID())
			return nil
		},
	}

	bindInjectionFlags(cmd, &flags)
	cmd.Flags().DurationVar(&debounce, "debounce", 0, "change batching interval (default: scanner.watch_debounce)")
	return cmd
}
