package scanner

import (
	"context"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/mdresch/requirements-gathering-agent-sub002/pkg/otel"
)

const (
	// DefaultDebounce 默认去抖间隔
	DefaultDebounce = 500 * time.Millisecond

	batchChannelBuffer = 16
)

// WatchConfig 文件监听配置
type WatchConfig struct {
	// Debounce 收集变更的间隔
	Debounce time.Duration
	// Extensions 监听的文件扩展名
	Extensions []string
	// ExcludeDirs 跳过的目录名
	ExcludeDirs []string
}

// DefaultWatchConfig 返回默认监听配置
func DefaultWatchConfig() WatchConfig {
	return WatchConfig{
		Debounce:    DefaultDebounce,
		Extensions:  []string{".md"},
		ExcludeDirs: []string{".git", "node_modules", "vendor"},
	}
}

// Watcher 监听目录下的 Markdown 变更
//
// 变更在去抖间隔内合并为一批，批内路径相对根目录、正斜杠、有序。
type Watcher struct {
	root       string
	debounce   time.Duration
	watcher    *fsnotify.Watcher
	logger     otel.Logger
	extensions map[string]bool
	excludes   map[string]bool

	pendingMu sync.Mutex
	pending   map[string]struct{}

	batches chan []string
}

// NewWatcher 创建监听器
func NewWatcher(root string, cfg WatchConfig, logger otel.Logger) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	if logger == nil {
		logger = otel.NewNoopLogger()
	}
	if cfg.Debounce <= 0 {
		cfg.Debounce = DefaultDebounce
	}

	defaults := DefaultWatchConfig()
	if len(cfg.Extensions) == 0 {
		cfg.Extensions = defaults.Extensions
	}
	if len(cfg.ExcludeDirs) == 0 {
		cfg.ExcludeDirs = defaults.ExcludeDirs
	}

	extensions := make(map[string]bool)
	for _, ext := range cfg.Extensions {
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		extensions[strings.ToLower(ext)] = true
	}

	excludes := make(map[string]bool)
	for _, dir := range cfg.ExcludeDirs {
		excludes[dir] = true
	}

	return &Watcher{
		root:       root,
		debounce:   cfg.Debounce,
		watcher:    fsw,
		logger:     logger,
		extensions: extensions,
		excludes:   excludes,
		pending:    make(map[string]struct{}),
		batches:    make(chan []string, batchChannelBuffer),
	}, nil
}

// Batches 返回变更批次通道，监听结束后关闭
func (w *Watcher) Batches() <-chan []string {
	return w.batches
}

// Start 开始监听，ctx 取消或 Stop 后退出
func (w *Watcher) Start(ctx context.Context) error {
	if err := w.addRecursive(w.root); err != nil {
		return err
	}

	go w.run(ctx)

	w.logger.Info("watcher started", "root", w.root, "debounce", w.debounce)
	return nil
}

// Stop 停止监听
func (w *Watcher) Stop() error {
	return w.watcher.Close()
}

// addRecursive 为所有未排除的目录添加监听
func (w *Watcher) addRecursive(root string) error {
	return filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if path != root && w.skipDir(filepath.Base(path)) {
			return filepath.SkipDir
		}
		if err := w.watcher.Add(path); err != nil {
			w.logger.Warn("failed to watch directory", "path", path, "error", err)
		}
		return nil
	})
}

func (w *Watcher) skipDir(base string) bool {
	return w.excludes[base] || strings.HasPrefix(base, ".")
}

// run 处理 fsnotify 事件并按间隔刷新
func (w *Watcher) run(ctx context.Context) {
	defer close(w.batches)
	ticker := time.NewTicker(w.debounce)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return

		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			w.handle(event)

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Error("watcher error", "error", err)

		case <-ticker.C:
			w.flush(ctx)
		}
	}
}

// handle 记录单个事件
func (w *Watcher) handle(event fsnotify.Event) {
	path := event.Name

	if !w.extensions[strings.ToLower(filepath.Ext(path))] {
		if event.Has(fsnotify.Create) {
			if info, err := os.Stat(path); err == nil && info.IsDir() && !w.skipDir(filepath.Base(path)) {
				if err := w.addRecursive(path); err != nil {
					w.logger.Warn("failed to watch new directory", "path", path, "error", err)
				}
			}
		}
		return
	}

	rel, err := filepath.Rel(w.root, path)
	if err != nil {
		return
	}
	rel = filepath.ToSlash(rel)
	for _, part := range strings.Split(rel, "/") {
		if w.excludes[part] {
			return
		}
	}

	w.pendingMu.Lock()
	w.pending[rel] = struct{}{}
	w.pendingMu.Unlock()

	w.logger.Debug("markdown change detected", "path", rel, "op", event.Op.String())
}

// flush 发送累积的变更
func (w *Watcher) flush(ctx context.Context) {
	w.pendingMu.Lock()
	if len(w.pending) == 0 {
		w.pendingMu.Unlock()
		return
	}
	batch := make([]string, 0, len(w.pending))
	for p := range w.pending {
		batch = append(batch, p)
	}
	w.pending = make(map[string]struct{})
	w.pendingMu.Unlock()

	sort.Strings(batch)

	select {
	case w.batches <- batch:
	case <-ctx.Done():
	default:
		// 消费者未就绪时放回待发送集合，与后续变更合并到下一批
		w.pendingMu.Lock()
		for _, p := range batch {
			w.pending[p] = struct{}{}
		}
		w.pendingMu.Unlock()
		w.logger.Debug("consumer busy, deferring change batch", "files", len(batch))
	}
}
