package context_test

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"testing"

	agentctx "github.com/mdresch/requirements-gathering-agent-sub002/pkg/context"
	coreerrors "github.com/mdresch/requirements-gathering-agent-sub002/pkg/core/errors"
	"github.com/mdresch/requirements-gathering-agent-sub002/pkg/journal"
	"github.com/mdresch/requirements-gathering-agent-sub002/pkg/otel"
)

func staticScanner(docs ...agentctx.CandidateDocument) agentctx.RelevanceScanner {
	return agentctx.ScannerFunc(func(ctx context.Context, rootPath string) ([]agentctx.CandidateDocument, error) {
		return docs, nil
	})
}

func exampleCandidates() []agentctx.CandidateDocument {
	return []agentctx.CandidateDocument{
		{Path: "a.md", Text: "short text", RelevanceScore: 95},
		{Path: "b.md", Text: "a much longer piece of markdown content here", RelevanceScore: 40},
		{Path: "c.md", Text: "medium length content block", RelevanceScore: 70},
	}
}

func newManager(t *testing.T, scanner agentctx.RelevanceScanner, opts ...agentctx.ManagerOption) *agentctx.Manager {
	t.Helper()
	mgr, err := agentctx.NewManager(scanner, opts...)
	if err != nil {
		t.Fatalf("NewManager() error = %v", err)
	}
	return mgr
}

func TestManager_WorkedExample(t *testing.T) {
	mgr := newManager(t, staticScanner(exampleCandidates()...))

	if err := mgr.CreateCoreContext("Project X overview"); err != nil {
		t.Fatalf("CreateCoreContext() error = %v", err)
	}

	n, err := mgr.InjectHighRelevanceMarkdownFiles(context.Background(), "docs", 60, 5)
	if err != nil {
		t.Fatalf("InjectHighRelevanceMarkdownFiles() error = %v", err)
	}
	if n != 2 {
		t.Errorf("injected = %d, want 2", n)
	}

	stats := mgr.GetInjectionStatistics()
	if fmt.Sprint(stats.InjectedKeys) != "[a.md c.md]" {
		t.Errorf("InjectedKeys = %v, want [a.md c.md]", stats.InjectedKeys)
	}
	if stats.TotalInjected != 2 {
		t.Errorf("TotalInjected = %d, want 2", stats.TotalInjected)
	}
	if stats.TotalTokensInjected != 11 {
		t.Errorf("TotalTokensInjected = %d, want 11", stats.TotalTokensInjected)
	}
	if stats.RemainingTokenBudget != 40000-11 {
		t.Errorf("RemainingTokenBudget = %d, want %d", stats.RemainingTokenBudget, 40000-11)
	}

	built, err := mgr.BuildContextForDocument("project-charter")
	if err != nil {
		t.Fatalf("BuildContextForDocument() error = %v", err)
	}
	for _, want := range []string{"Project X overview", "short text", "medium length content block"} {
		if !strings.Contains(built, want) {
			t.Errorf("built context missing %q", want)
		}
	}
	if strings.Contains(built, "much longer piece of markdown") {
		t.Error("built context should not contain b.md")
	}

	metrics := mgr.GetMetrics()
	if metrics.CoreContextTokens != 6 {
		t.Errorf("CoreContextTokens = %d, want 6", metrics.CoreContextTokens)
	}
	if metrics.MaxTokens != 128000 {
		t.Errorf("MaxTokens = %d, want 128000", metrics.MaxTokens)
	}
}

func TestManager_NotInitialized(t *testing.T) {
	mgr := newManager(t, staticScanner(exampleCandidates()...))

	if _, err := mgr.InjectHighRelevanceMarkdownFiles(context.Background(), "docs", 60, 5); !errors.Is(err, agentctx.ErrNotInitialized) {
		t.Errorf("Inject error = %v, want ErrNotInitialized", err)
	}
	if _, err := mgr.BuildContextForDocument("charter"); !errors.Is(err, agentctx.ErrNotInitialized) {
		t.Errorf("Build error = %v, want ErrNotInitialized", err)
	}
}

func TestManager_InvalidArguments(t *testing.T) {
	tests := []struct {
		name      string
		threshold float64
		maxFiles  int
	}{
		{"negative threshold", -1, 5},
		{"threshold above 100", 100.5, 5},
		{"NaN threshold", math.NaN(), 5},
		{"zero max files", 50, 0},
		{"negative max files", 50, -3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mgr := newManager(t, staticScanner(exampleCandidates()...))
			_ = mgr.CreateCoreContext("core")

			_, err := mgr.InjectHighRelevanceMarkdownFiles(context.Background(), "docs", tt.threshold, tt.maxFiles)
			if !errors.Is(err, agentctx.ErrInvalidArgument) {
				t.Errorf("error = %v, want ErrInvalidArgument", err)
			}
			if mgr.GetInjectionStatistics().TotalInjected != 0 {
				t.Error("ledger should be untouched")
			}
		})
	}
}

func TestManager_BoundaryThresholds(t *testing.T) {
	mgr := newManager(t, staticScanner(
		agentctx.CandidateDocument{Path: "zero.md", Text: "zero", RelevanceScore: 0},
		agentctx.CandidateDocument{Path: "full.md", Text: "full", RelevanceScore: 100},
	))
	_ = mgr.CreateCoreContext("core")

	n, err := mgr.InjectHighRelevanceMarkdownFiles(context.Background(), "docs", 100, 5)
	if err != nil {
		t.Fatalf("error = %v", err)
	}
	if n != 1 {
		t.Errorf("threshold 100: injected = %d, want 1", n)
	}

	n, err = mgr.InjectHighRelevanceMarkdownFiles(context.Background(), "docs", 0, 5)
	if err != nil {
		t.Fatalf("error = %v", err)
	}
	if n != 1 {
		t.Errorf("threshold 0: injected = %d, want 1 (full.md already present)", n)
	}
}

func TestManager_EmptyCandidates(t *testing.T) {
	mgr := newManager(t, staticScanner())
	_ = mgr.CreateCoreContext("core")

	n, err := mgr.InjectHighRelevanceMarkdownFiles(context.Background(), "docs", 50, 5)
	if err != nil {
		t.Fatalf("error = %v", err)
	}
	if n != 0 {
		t.Errorf("injected = %d, want 0", n)
	}

	built, _ := mgr.BuildContextForDocument("charter")
	if built != "core" {
		t.Errorf("built = %q, want core context only", built)
	}
}

func TestManager_ScanErrorLeavesLedgerUntouched(t *testing.T) {
	cause := errors.New("permission denied")
	fail := false
	scanner := agentctx.ScannerFunc(func(ctx context.Context, rootPath string) ([]agentctx.CandidateDocument, error) {
		if fail {
			return exampleCandidates(), cause
		}
		return []agentctx.CandidateDocument{{Path: "first.md", Text: "first", RelevanceScore: 80}}, nil
	})

	mgr := newManager(t, scanner)
	_ = mgr.CreateCoreContext("core")
	if _, err := mgr.InjectHighRelevanceMarkdownFiles(context.Background(), "docs", 50, 5); err != nil {
		t.Fatalf("first pass error = %v", err)
	}
	before := mgr.GetInjectionStatistics()

	fail = true
	n, err := mgr.InjectHighRelevanceMarkdownFiles(context.Background(), "docs", 50, 5)
	if n != 0 {
		t.Errorf("injected = %d, want 0", n)
	}

	var scanErr *agentctx.ScanError
	if !errors.As(err, &scanErr) {
		t.Fatalf("error = %v, want *ScanError", err)
	}
	if scanErr.Root != "docs" {
		t.Errorf("Root = %q, want docs", scanErr.Root)
	}
	if !errors.Is(err, agentctx.ErrScanFailed) {
		t.Error("errors.Is(err, ErrScanFailed) = false")
	}
	if !errors.Is(err, cause) {
		t.Error("errors.Is(err, cause) = false")
	}

	after := mgr.GetInjectionStatistics()
	if fmt.Sprint(after) != fmt.Sprint(before) {
		t.Errorf("statistics changed after failed scan: %+v -> %+v", before, after)
	}
}

func TestManager_CanceledDuringScan(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	scanner := agentctx.ScannerFunc(func(ctx context.Context, rootPath string) ([]agentctx.CandidateDocument, error) {
		cancel()
		return exampleCandidates(), nil
	})

	mgr := newManager(t, scanner)
	_ = mgr.CreateCoreContext("core")

	_, err := mgr.InjectHighRelevanceMarkdownFiles(ctx, "docs", 0, 5)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("error = %v, want context.Canceled", err)
	}
	if mgr.GetInjectionStatistics().TotalInjected != 0 {
		t.Error("no admissions should occur after cancellation")
	}
}

func TestManager_InvalidCandidateRejectsPass(t *testing.T) {
	mgr := newManager(t, staticScanner(
		agentctx.CandidateDocument{Path: "ok.md", Text: "fine", RelevanceScore: 90},
		agentctx.CandidateDocument{Path: "bad.md", Text: "bad", RelevanceScore: 140},
	))
	_ = mgr.CreateCoreContext("core")

	_, err := mgr.InjectHighRelevanceMarkdownFiles(context.Background(), "docs", 50, 5)
	if !errors.Is(err, agentctx.ErrInvalidCandidate) {
		t.Errorf("error = %v, want ErrInvalidCandidate", err)
	}
	if mgr.GetInjectionStatistics().TotalInjected != 0 {
		t.Error("ledger should be untouched")
	}
}

func TestManager_OrderingLaw(t *testing.T) {
	mgr := newManager(t, staticScanner(
		agentctx.CandidateDocument{Path: "thirty.md", Text: "thirty", RelevanceScore: 30},
		agentctx.CandidateDocument{Path: "ninety.md", Text: "ninety", RelevanceScore: 90},
		agentctx.CandidateDocument{Path: "sixty.md", Text: "sixty", RelevanceScore: 60},
	))
	_ = mgr.CreateCoreContext("core")

	if _, err := mgr.InjectHighRelevanceMarkdownFiles(context.Background(), "docs", 50, 5); err != nil {
		t.Fatalf("error = %v", err)
	}

	keys := mgr.GetInjectionStatistics().InjectedKeys
	if fmt.Sprint(keys) != "[ninety.md sixty.md]" {
		t.Errorf("InjectedKeys = %v, want [ninety.md sixty.md]", keys)
	}
}

func TestManager_TiesKeepScanOrder(t *testing.T) {
	mgr := newManager(t, staticScanner(
		agentctx.CandidateDocument{Path: "z.md", Text: "z", RelevanceScore: 70},
		agentctx.CandidateDocument{Path: "a.md", Text: "a", RelevanceScore: 70},
		agentctx.CandidateDocument{Path: "m.md", Text: "m", RelevanceScore: 80},
	))
	_ = mgr.CreateCoreContext("core")

	_, _ = mgr.InjectHighRelevanceMarkdownFiles(context.Background(), "docs", 0, 5)

	keys := mgr.GetInjectionStatistics().InjectedKeys
	if fmt.Sprint(keys) != "[m.md z.md a.md]" {
		t.Errorf("InjectedKeys = %v, want [m.md z.md a.md]", keys)
	}
}

func TestManager_MaxFilesCap(t *testing.T) {
	mgr := newManager(t, staticScanner(
		agentctx.CandidateDocument{Path: "1.md", Text: "one", RelevanceScore: 90},
		agentctx.CandidateDocument{Path: "2.md", Text: "two", RelevanceScore: 80},
		agentctx.CandidateDocument{Path: "3.md", Text: "three", RelevanceScore: 70},
	))
	_ = mgr.CreateCoreContext("core")

	n, _ := mgr.InjectHighRelevanceMarkdownFiles(context.Background(), "docs", 0, 2)
	if n != 2 {
		t.Errorf("injected = %d, want 2", n)
	}
	if keys := mgr.GetInjectionStatistics().InjectedKeys; fmt.Sprint(keys) != "[1.md 2.md]" {
		t.Errorf("InjectedKeys = %v, want [1.md 2.md]", keys)
	}
}

func TestManager_SkipsOversizedCandidate(t *testing.T) {
	cfg := agentctx.NewConfig(agentctx.WithInjectionBudget(5))
	mgr := newManager(t, staticScanner(
		agentctx.CandidateDocument{Path: "big.md", Text: strings.Repeat("x", 40), RelevanceScore: 95},
		agentctx.CandidateDocument{Path: "small.md", Text: "short text", RelevanceScore: 80},
	), agentctx.WithConfig(cfg))
	_ = mgr.CreateCoreContext("core")

	n, err := mgr.InjectHighRelevanceMarkdownFiles(context.Background(), "docs", 0, 5)
	if err != nil {
		t.Fatalf("error = %v", err)
	}
	if n != 1 {
		t.Errorf("injected = %d, want 1", n)
	}

	stats := mgr.GetInjectionStatistics()
	if fmt.Sprint(stats.InjectedKeys) != "[small.md]" {
		t.Errorf("InjectedKeys = %v, want [small.md]", stats.InjectedKeys)
	}
	if stats.TotalTokensInjected > 5 {
		t.Errorf("TotalTokensInjected = %d exceeds budget 5", stats.TotalTokensInjected)
	}
}

func TestManager_ReinjectionIsNoop(t *testing.T) {
	mgr := newManager(t, staticScanner(exampleCandidates()...))
	_ = mgr.CreateCoreContext("core")

	first, _ := mgr.InjectHighRelevanceMarkdownFiles(context.Background(), "docs", 60, 5)
	before := mgr.GetInjectionStatistics()

	second, err := mgr.InjectHighRelevanceMarkdownFiles(context.Background(), "docs", 60, 5)
	if err != nil {
		t.Fatalf("error = %v", err)
	}
	if first != 2 || second != 0 {
		t.Errorf("injected = %d then %d, want 2 then 0", first, second)
	}
	if fmt.Sprint(mgr.GetInjectionStatistics()) != fmt.Sprint(before) {
		t.Error("statistics changed on re-injection")
	}
}

func TestManager_ClearInjectedContext(t *testing.T) {
	mgr := newManager(t, staticScanner(exampleCandidates()...))
	_ = mgr.CreateCoreContext("Project X overview")
	_, _ = mgr.InjectHighRelevanceMarkdownFiles(context.Background(), "docs", 60, 5)

	mgr.ClearInjectedContext()
	once := mgr.GetInjectionStatistics()
	mgr.ClearInjectedContext()
	twice := mgr.GetInjectionStatistics()

	if fmt.Sprint(once) != fmt.Sprint(twice) {
		t.Errorf("clear not idempotent: %+v vs %+v", once, twice)
	}
	if twice.TotalInjected != 0 || twice.TotalTokensInjected != 0 {
		t.Errorf("after clear: %+v", twice)
	}
	if twice.RemainingTokenBudget != 40000 {
		t.Errorf("RemainingTokenBudget = %d, want 40000", twice.RemainingTokenBudget)
	}

	built, err := mgr.BuildContextForDocument("charter")
	if err != nil {
		t.Fatalf("BuildContextForDocument() error = %v", err)
	}
	if built != "Project X overview" {
		t.Errorf("built = %q, want core context only", built)
	}
	if mgr.GetMetrics().CoreContextTokens != 6 {
		t.Error("core context should be unaffected by clear")
	}
}

func TestManager_CompositionCompleteness(t *testing.T) {
	mgr := newManager(t, staticScanner(
		agentctx.CandidateDocument{Path: "docs/a.md", Text: "# A\n\nalpha body\n", RelevanceScore: 90},
		agentctx.CandidateDocument{Path: "docs/b.md", Text: "beta body", RelevanceScore: 85},
		agentctx.CandidateDocument{Path: "docs/c.md", Text: "gamma body", RelevanceScore: 80},
	))
	_ = mgr.CreateCoreContext("core text")
	_, _ = mgr.InjectHighRelevanceMarkdownFiles(context.Background(), "docs", 0, 5)

	first, _ := mgr.BuildContextForDocument("requirements")
	second, _ := mgr.BuildContextForDocument("requirements")
	if first != second {
		t.Error("BuildContextForDocument should be pure")
	}

	if !strings.HasPrefix(first, "core text") {
		t.Error("built context should start with the core context")
	}

	last := 0
	for _, key := range mgr.GetInjectionStatistics().InjectedKeys {
		begin := strings.Index(first, agentctx.BeginMarker(key))
		if begin < 0 {
			t.Fatalf("missing begin marker for %s", key)
		}
		if begin < last {
			t.Errorf("entry %s out of ledger order", key)
		}
		last = begin
		if !strings.Contains(first, agentctx.EndMarker(key)) {
			t.Errorf("missing end marker for %s", key)
		}
	}
	for _, text := range []string{"# A\n\nalpha body\n", "beta body", "gamma body"} {
		if !strings.Contains(first, text) {
			t.Errorf("built context missing %q", text)
		}
	}
}

func TestManager_DocumentTypeDoesNotFilter(t *testing.T) {
	mgr := newManager(t, staticScanner(exampleCandidates()...))
	_ = mgr.CreateCoreContext("core")
	_, _ = mgr.InjectHighRelevanceMarkdownFiles(context.Background(), "docs", 60, 5)

	for _, docType := range []string{"project-charter", "risk-register", ""} {
		built, _ := mgr.BuildContextForDocument(docType)
		for _, key := range []string{"a.md", "c.md"} {
			if !strings.Contains(built, agentctx.BeginMarker(key)) {
				t.Errorf("docType %q: missing %s", docType, key)
			}
		}
	}
}

func TestManager_RemoveInjectedDocument(t *testing.T) {
	mgr := newManager(t, staticScanner(exampleCandidates()...))
	_ = mgr.CreateCoreContext("core")
	_, _ = mgr.InjectHighRelevanceMarkdownFiles(context.Background(), "docs", 60, 5)

	if !mgr.RemoveInjectedDocument("./a.md") {
		t.Fatal("RemoveInjectedDocument(./a.md) = false, want true")
	}
	if mgr.RemoveInjectedDocument("a.md") {
		t.Error("second removal should return false")
	}

	stats := mgr.GetInjectionStatistics()
	if fmt.Sprint(stats.InjectedKeys) != "[c.md]" {
		t.Errorf("InjectedKeys = %v, want [c.md]", stats.InjectedKeys)
	}
	if stats.TotalTokensInjected != 8 {
		t.Errorf("TotalTokensInjected = %d, want 8", stats.TotalTokensInjected)
	}
}

func TestManager_MetricsAndJournal(t *testing.T) {
	metrics := otel.NewInMemoryMetrics()
	j := journal.NewMemoryJournal()
	mgr := newManager(t, staticScanner(exampleCandidates()...),
		agentctx.WithMetrics(metrics),
		agentctx.WithJournal(j),
		agentctx.WithSessionID("session-1"),
	)
	_ = mgr.CreateCoreContext("core")
	_, _ = mgr.InjectHighRelevanceMarkdownFiles(context.Background(), "docs", 60, 5)
	_, _ = mgr.BuildContextForDocument("charter")
	mgr.ClearInjectedContext()

	if got := metrics.GetCounterValue(otel.MetricInjectionPasses); got != 1 {
		t.Errorf("%s = %d, want 1", otel.MetricInjectionPasses, got)
	}
	if got := metrics.GetCounterValue(otel.MetricInjections); got != 2 {
		t.Errorf("%s = %d, want 2", otel.MetricInjections, got)
	}
	if got := metrics.GetCounterValue(otel.MetricCandidatesFiltered); got != 1 {
		t.Errorf("%s = %d, want 1", otel.MetricCandidatesFiltered, got)
	}
	if got := metrics.GetCounterValue(otel.MetricContextBuilds); got != 1 {
		t.Errorf("%s = %d, want 1", otel.MetricContextBuilds, got)
	}
	if got := metrics.GetGaugeValue(otel.MetricBudgetRemaining); got != 40000 {
		t.Errorf("%s = %v, want 40000 after clear", otel.MetricBudgetRemaining, got)
	}

	events, err := j.List(context.Background(), "session-1", 0)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(events) != 2 {
		t.Fatalf("len(events) = %d, want 2", len(events))
	}
	if events[0].Kind != journal.KindClear || events[0].Injected != 2 {
		t.Errorf("events[0] = %+v, want clear of 2 entries", events[0])
	}
	if events[1].Kind != journal.KindInjection || fmt.Sprint(events[1].Keys) != "[a.md c.md]" {
		t.Errorf("events[1] = %+v, want injection of [a.md c.md]", events[1])
	}
	if events[1].TokensInjected != 11 {
		t.Errorf("TokensInjected = %d, want 11", events[1].TokensInjected)
	}
}

func TestNewManager_Errors(t *testing.T) {
	if _, err := agentctx.NewManager(nil); !errors.Is(err, agentctx.ErrInvalidArgument) {
		t.Errorf("nil scanner error = %v, want ErrInvalidArgument", err)
	}

	cfg := agentctx.NewConfig(agentctx.WithMaxFiles(0))
	if _, err := agentctx.NewManager(staticScanner(), agentctx.WithConfig(cfg)); !errors.Is(err, coreerrors.ErrInvalidConfig) {
		t.Errorf("invalid config error = %v, want ErrInvalidConfig", err)
	}
}

func TestManager_SessionID(t *testing.T) {
	a := newManager(t, staticScanner())
	b := newManager(t, staticScanner())
	if a.SessionID() == "" || a.SessionID() == b.SessionID() {
		t.Errorf("session IDs should be unique and non-empty: %q %q", a.SessionID(), b.SessionID())
	}

	c := newManager(t, staticScanner(), agentctx.WithSessionID("fixed"))
	if c.SessionID() != "fixed" {
		t.Errorf("SessionID() = %q, want fixed", c.SessionID())
	}
}

func TestManager_SkipsBlankCandidates(t *testing.T) {
	candidates := []agentctx.CandidateDocument{
		{Path: "empty.md", Text: "", RelevanceScore: 99},
		{Path: "blank.md", Text: "  \n\t", RelevanceScore: 98},
		{Path: "a.md", Text: "short text", RelevanceScore: 90},
	}

	mgr := newManager(t, staticScanner(candidates...))
	_ = mgr.CreateCoreContext("core")

	n, err := mgr.InjectHighRelevanceMarkdownFiles(context.Background(), "docs", 50, 1)
	if err != nil {
		t.Fatalf("InjectHighRelevanceMarkdownFiles() error = %v", err)
	}
	if n != 1 {
		t.Errorf("injected = %d, want 1", n)
	}
	if keys := mgr.GetInjectionStatistics().InjectedKeys; fmt.Sprint(keys) != "[a.md]" {
		t.Errorf("InjectedKeys = %v, want [a.md]", keys)
	}

	built, _ := mgr.BuildContextForDocument("charter")
	for _, key := range []string{"empty.md", "blank.md"} {
		if strings.Contains(built, agentctx.BeginMarker(key)) {
			t.Errorf("built context contains marker for %s", key)
		}
	}

	zero := newManager(t, staticScanner(candidates...),
		agentctx.WithConfig(agentctx.NewConfig(agentctx.WithInjectionBudget(0))))
	_ = zero.CreateCoreContext("core")
	n, err = zero.InjectHighRelevanceMarkdownFiles(context.Background(), "docs", 50, 5)
	if err != nil || n != 0 {
		t.Errorf("zero budget: injected = %d, error = %v, want 0, nil", n, err)
	}
}

func TestManager_RefreshInjectedContext(t *testing.T) {
	cause := errors.New("read failed")
	var (
		docs []agentctx.CandidateDocument
		fail bool
	)
	scanner := agentctx.ScannerFunc(func(ctx context.Context, rootPath string) ([]agentctx.CandidateDocument, error) {
		if fail {
			return nil, cause
		}
		return docs, nil
	})

	events := journal.NewMemoryJournal()
	mgr := newManager(t, scanner, agentctx.WithJournal(events))
	_ = mgr.CreateCoreContext("core")

	docs = []agentctx.CandidateDocument{{Path: "old.md", Text: "old content", RelevanceScore: 90}}
	if _, err := mgr.InjectHighRelevanceMarkdownFiles(context.Background(), "docs", 50, 5); err != nil {
		t.Fatalf("first pass error = %v", err)
	}

	docs = []agentctx.CandidateDocument{{Path: "new.md", Text: "new content", RelevanceScore: 80}}
	n, err := mgr.RefreshInjectedContext(context.Background(), "docs", 50, 5)
	if err != nil {
		t.Fatalf("RefreshInjectedContext() error = %v", err)
	}
	if n != 1 {
		t.Errorf("injected = %d, want 1", n)
	}
	if keys := mgr.GetInjectionStatistics().InjectedKeys; fmt.Sprint(keys) != "[new.md]" {
		t.Errorf("InjectedKeys = %v, want [new.md]", keys)
	}

	// 扫描失败时保留上一次的注入内容
	fail = true
	if _, err := mgr.RefreshInjectedContext(context.Background(), "docs", 50, 5); !errors.Is(err, cause) {
		t.Fatalf("RefreshInjectedContext() error = %v, want %v", err, cause)
	}
	stats := mgr.GetInjectionStatistics()
	if fmt.Sprint(stats.InjectedKeys) != "[new.md]" {
		t.Errorf("InjectedKeys after failed refresh = %v, want [new.md]", stats.InjectedKeys)
	}
	if stats.TotalTokensInjected != 4 {
		t.Errorf("TotalTokensInjected = %d, want 4", stats.TotalTokensInjected)
	}

	list, err := events.List(context.Background(), mgr.SessionID(), 0)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	var kinds []string
	for _, e := range list {
		kinds = append(kinds, string(e.Kind))
	}
	if fmt.Sprint(kinds) != "[injection clear injection]" {
		t.Errorf("journal kinds = %v, want [injection clear injection]", kinds)
	}
}
