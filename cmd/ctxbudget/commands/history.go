package commands

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"
)

// newHistoryCmd 创建 `ctxbudget history` 命令
func newHistoryCmd() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recorded injection, clear and removal events",
		Long: `List journal events newest first. Only a sqlite journal outlives the
process, so configure journal.type: sqlite to keep history between runs.

Examples:
  ctxbudget history
  ctxbudget history --session 3f1c... --limit 5`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := newApp(cmd)
			if err != nil {
				return err
			}
			defer a.close()

			session, _ := cmd.Root().PersistentFlags().GetString("session")
			events, err := a.journal.List(cmd.Context(), session, limit)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if len(events) == 0 {
				fmt.Fprintln(out, "No events recorded.")
				return nil
			}

			fmt.Fprintf(out, "%-20s  %-36s  %-9s  %8s  %8s  %s\n", "TIME", "SESSION", "KIND", "INJECTED", "TOKENS", "KEYS")
			for _, e := range events {
				fmt.Fprintf(out, "%-20s  %-36s  %-9s  %8d  %8d  %s\n",
					e.CreatedAt.Local().Format(time.DateTime),
					e.SessionID,
					e.Kind,
					e.Injected,
					e.TokensInjected,
					strings.Join(e.Keys, ","),
				)
			}
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "maximum number of events (0 = all)")
	return cmd
}
