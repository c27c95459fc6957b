package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	agentctx "github.com/mdresch/requirements-gathering-agent-sub002/pkg/context"
)

// newInjectCmd 创建 `ctxbudget inject` 命令
func newInjectCmd() *cobra.Command {
	var flags injectionFlags

	cmd := &cobra.Command{
		Use:   "inject <core-file> <root>",
		Short: "Inject relevant markdown files and print the composed context",
		Long: `Load the core context from <core-file>, scan <root> for markdown files,
inject the highest-relevance files that fit the budget and print the composed
context to stdout.

Examples:
  ctxbudget inject README.md ./docs
  ctxbudget inject README.md ./docs --threshold 80 --max-files 2 --doc-type risk-register`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd)
			if err != nil {
				return err
			}
			defer a.close()

			mgr, err := runInjection(cmd, a, flags, args[0], args[1])
			if err != nil {
				return err
			}

			composed, err := mgr.BuildContextForDocument(flags.docType)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), composed)
			return nil
		},
	}

	bindInjectionFlags(cmd, &flags)
	return cmd
}

// newReportCmd 创建 `ctxbudget report` 命令
func newReportCmd() *cobra.Command {
	var flags injectionFlags

	cmd := &cobra.Command{
		Use:   "report <core-file> <root>",
		Short: "Run an injection pass and print the utilization report",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd)
			if err != nil {
				return err
			}
			defer a.close()

			mgr, err := runInjection(cmd, a, flags, args[0], args[1])
			if err != nil {
				return err
			}

			fmt.Fprint(cmd.OutOrStdout(), mgr.GetContextUtilizationReport())
			return nil
		},
	}

	bindInjectionFlags(cmd, &flags)
	return cmd
}

// runInjection 创建管理器并执行一次注入
func runInjection(cmd *cobra.Command, a *app, flags injectionFlags, coreFile, root string) (*agentctx.Manager, error) {
	mgr, err := a.newManager(cmd, coreFile)
	if err != nil {
		return nil, err
	}

	threshold, maxFiles := flags.resolve(cmd, a.cfg)
	n, err := mgr.InjectHighRelevanceMarkdownFiles(cmd.Context(), root, threshold, maxFiles)
	if err != nil {
		return nil, err
	}

	stats := mgr.GetInjectionStatistics()
	a.logger.Info("injection finished",
		"session", mgr.SessionID(),
		"injected", n,
		"tokens", stats.TotalTokensInjected,
		"remaining", stats.RemainingTokenBudget,
	)
	return mgr, nil
}
