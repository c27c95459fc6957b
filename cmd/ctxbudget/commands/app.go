package commands

import (
	"context"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/mdresch/requirements-gathering-agent-sub002/pkg/core/config"
	coreerrors "github.com/mdresch/requirements-gathering-agent-sub002/pkg/core/errors"
	agentctx "github.com/mdresch/requirements-gathering-agent-sub002/pkg/context"
	"github.com/mdresch/requirements-gathering-agent-sub002/pkg/journal"
	"github.com/mdresch/requirements-gathering-agent-sub002/pkg/otel"
	"github.com/mdresch/requirements-gathering-agent-sub002/pkg/scanner"
)

// app 一次命令执行所需的依赖
type app struct {
	cfg      *config.Config
	provider *otel.Provider
	journal  journal.Journal
	logger   otel.Logger
}

// newApp 加载 .env 和配置，并创建可观测性提供者与审计日志
func newApp(cmd *cobra.Command) (*app, error) {
	flags := cmd.Root().PersistentFlags()

	envFile, _ := flags.GetString("env-file")
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil {
			return nil, coreerrors.WrapError(err, "load env file")
		}
	} else {
		// godotenv.Load 不覆盖已有的环境变量
		_ = godotenv.Load()
	}

	configPath, _ := flags.GetString("config")
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, coreerrors.WrapError(err, "load config")
	}

	if level, _ := flags.GetString("log-level"); level != "" {
		cfg.Observability.Logging.Level = level
	}

	provider, err := otel.NewProvider(cfg.Observability, otel.WithLogWriter(cmd.ErrOrStderr()))
	if err != nil {
		return nil, coreerrors.WrapError(err, "init observability")
	}

	j, err := journal.New(cfg.Journal)
	if err != nil {
		_ = provider.Shutdown(context.Background())
		return nil, coreerrors.WrapError(err, "open journal")
	}

	return &app{
		cfg:      cfg,
		provider: provider,
		journal:  j,
		logger:   provider.Logger(),
	}, nil
}

// newScanner 按配置创建带追踪的 Markdown 扫描器
func (a *app) newScanner() (agentctx.RelevanceScanner, error) {
	sc := a.cfg.Scanner
	s, err := scanner.NewMarkdownScanner(
		scanner.WithInclude(sc.Include...),
		scanner.WithExclude(sc.Exclude...),
		scanner.WithMaxFileBytes(sc.MaxFileBytes),
		scanner.WithKeywords(sc.Keywords...),
		scanner.WithQuery(sc.Query),
		scanner.WithLogger(a.logger),
	)
	if err != nil {
		return nil, err
	}
	return scanner.NewTracedScanner(s, a.provider.Tracer(), a.provider.Metrics()), nil
}

// newManager 创建上下文管理器并加载核心上下文文件
func (a *app) newManager(cmd *cobra.Command, coreFile string) (*agentctx.Manager, error) {
	s, err := a.newScanner()
	if err != nil {
		return nil, err
	}

	ctxCfg, err := a.cfg.Budget.ContextConfig()
	if err != nil {
		return nil, coreerrors.WrapError(err, "token counter")
	}

	opts := []agentctx.ManagerOption{
		agentctx.WithConfig(ctxCfg),
		agentctx.WithLogger(a.logger),
		agentctx.WithTracer(a.provider.Tracer()),
		agentctx.WithMetrics(a.provider.Metrics()),
		agentctx.WithJournal(a.journal),
	}
	if session, _ := cmd.Root().PersistentFlags().GetString("session"); session != "" {
		opts = append(opts, agentctx.WithSessionID(session))
	}

	mgr, err := agentctx.NewManager(s, opts...)
	if err != nil {
		return nil, err
	}

	core, err := os.ReadFile(coreFile)
	if err != nil {
		return nil, coreerrors.WrapError(err, "read core context")
	}
	if err := mgr.CreateCoreContext(string(core)); err != nil {
		return nil, err
	}
	return mgr, nil
}

// close 关闭审计日志并刷新遥测数据
func (a *app) close() {
	if err := a.journal.Close(); err != nil {
		a.logger.Warn("failed to close journal", "error", err)
	}
	if err := a.provider.Shutdown(context.Background()); err != nil {
		a.logger.Warn("failed to shut down observability", "error", err)
	}
}

// injectionFlags 注入相关的命令参数
type injectionFlags struct {
	threshold float64
	maxFiles  int
	docType   string
}

// bindInjectionFlags 注册 --threshold、--max-files 和 --doc-type
func bindInjectionFlags(cmd *cobra.Command, f *injectionFlags) {
	cmd.Flags().Float64Var(&f.threshold, "threshold", 0, "minimum relevance score in [0,100] (default: budget.relevance_threshold)")
	cmd.Flags().IntVar(&f.maxFiles, "max-files", 0, "maximum files injected per pass (default: budget.max_files)")
	cmd.Flags().StringVar(&f.docType, "doc-type", "document", "document type label for the composed context")
}

// resolve 用配置默认值补全命令行未指定的参数
func (f injectionFlags) resolve(cmd *cobra.Command, cfg *config.Config) (float64, int) {
	threshold, maxFiles := cfg.Budget.RelevanceThreshold, cfg.Budget.MaxFiles
	if cmd.Flags().Changed("threshold") {
		threshold = f.threshold
	}
	if cmd.Flags().Changed("max-files") {
		maxFiles = f.maxFiles
	}
	return threshold, maxFiles
}
