// Package commands 使用 cobra 实现 ctxbudget 的子命令。
package commands

import (
	"github.com/spf13/cobra"
)

// NewRootCmd 创建根命令并注册所有子命令
func NewRootCmd(version string) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "ctxbudget",
		Short: "Token-budgeted context assembly for document generation",
		Long: `ctxbudget builds the context handed to a document generator: a core
project context plus the most relevant markdown files that fit the token budget.

Examples:
  ctxbudget inject README.md ./docs --threshold 70 --max-files 3
  ctxbudget report README.md ./docs
  ctxbudget watch README.md ./docs
  ctxbudget history --limit 20`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(
		newInjectCmd(),
		newReportCmd(),
		newWatchCmd(),
		newHistoryCmd(),
	)

	// 全局参数
	rootCmd.PersistentFlags().StringP("config", "c", "", "path to the YAML config file")
	rootCmd.PersistentFlags().String("env-file", "", "path to a .env file (default: ./.env if present)")
	rootCmd.PersistentFlags().String("log-level", "", "log level override (debug, info, warn, error)")
	rootCmd.PersistentFlags().String("session", "", "session ID (default: random)")

	return rootCmd
}
