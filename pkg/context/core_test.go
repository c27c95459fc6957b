package context_test

import (
	"errors"
	"testing"

	agentctx "github.com/mdresch/requirements-gathering-agent-sub002/pkg/context"
)

func TestCoreContextStore_Initialize(t *testing.T) {
	store := agentctx.NewCoreContextStore(nil)

	if store.Initialized() {
		t.Fatal("new store should not be initialized")
	}
	if store.TokenCount() != 0 {
		t.Errorf("TokenCount() = %d, want 0", store.TokenCount())
	}

	if err := store.Initialize("Project X overview"); err != nil {
		t.Fatalf("Initialize() error = %v", err)
	}

	core, ok := store.Get()
	if !ok {
		t.Fatal("Get() should report initialized")
	}
	if core.Text != "Project X overview" {
		t.Errorf("Text = %q, want %q", core.Text, "Project X overview")
	}
	if core.TokenCount != 6 {
		t.Errorf("TokenCount = %d, want 6", core.TokenCount)
	}
}

func TestCoreContextStore_InvalidInput(t *testing.T) {
	store := agentctx.NewCoreContextStore(nil)
	if err := store.Initialize("original"); err != nil {
		t.Fatalf("Initialize() error = %v", err)
	}

	err := store.Initialize("")
	if !errors.Is(err, agentctx.ErrInvalidInput) {
		t.Errorf("Initialize(\"\") error = %v, want ErrInvalidInput", err)
	}

	if store.Text() != "original" {
		t.Errorf("Text() = %q, want previous content preserved", store.Text())
	}
}

func TestCoreContextStore_WhitespaceIsContent(t *testing.T) {
	store := agentctx.NewCoreContextStore(nil)

	if err := store.Initialize("   "); err != nil {
		t.Fatalf("Initialize(%q) error = %v", "   ", err)
	}
	if store.Text() != "   " {
		t.Errorf("Text() = %q, want %q", store.Text(), "   ")
	}
	if store.TokenCount() != 1 {
		t.Errorf("TokenCount() = %d, want 1", store.TokenCount())
	}
}

func TestCoreContextStore_Replace(t *testing.T) {
	store := agentctx.NewCoreContextStore(nil)
	_ = store.Initialize("first")
	_ = store.Initialize("second version")

	if store.Text() != "second version" {
		t.Errorf("Text() = %q, want %q", store.Text(), "second version")
	}
	if store.TokenCount() != 4 {
		t.Errorf("TokenCount() = %d, want 4", store.TokenCount())
	}
}
