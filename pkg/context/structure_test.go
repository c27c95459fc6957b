package context_test

import (
	"testing"

	agentctx "github.com/mdresch/requirements-gathering-agent-sub002/pkg/context"
)

func TestDefaultStructurer_Structure(t *testing.T) {
	s := agentctx.NewDefaultStructurer()

	tests := []struct {
		name     string
		core     string
		entries  []agentctx.InjectedEntry
		docType  string
		expected string
	}{
		{
			name:     "no entries",
			core:     "core",
			docType:  "charter",
			expected: "core",
		},
		{
			name:    "single entry",
			core:    "core",
			entries: []agentctx.InjectedEntry{{Key: "a.md", Text: "alpha"}},
			docType: "charter",
			expected: "core\n\n---\n\n## Injected Context (charter)\n" +
				"\n<!-- BEGIN INJECTED: a.md -->\nalpha\n<!-- END INJECTED: a.md -->\n",
		},
		{
			name: "trailing newline kept and no label",
			core: "core",
			entries: []agentctx.InjectedEntry{
				{Key: "a.md", Text: "alpha\n"},
				{Key: "b.md", Text: "beta"},
			},
			expected: "core\n\n---\n\n## Injected Context\n" +
				"\n<!-- BEGIN INJECTED: a.md -->\nalpha\n<!-- END INJECTED: a.md -->\n" +
				"\n<!-- BEGIN INJECTED: b.md -->\nbeta\n<!-- END INJECTED: b.md -->\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := s.Structure(tt.core, tt.entries, tt.docType)
			if result != tt.expected {
				t.Errorf("Structure() =\n%q\nwant\n%q", result, tt.expected)
			}
		})
	}
}

func TestMarkers(t *testing.T) {
	if got := agentctx.BeginMarker("docs/a.md"); got != "<!-- BEGIN INJECTED: docs/a.md -->" {
		t.Errorf("BeginMarker() = %q", got)
	}
	if got := agentctx.EndMarker("docs/a.md"); got != "<!-- END INJECTED: docs/a.md -->" {
		t.Errorf("EndMarker() = %q", got)
	}
}
