package context_test

import (
	"testing"

	agentctx "github.com/mdresch/requirements-gathering-agent-sub002/pkg/context"
)

func TestEstimatedCounter_Count(t *testing.T) {
	counter := agentctx.NewEstimatedCounter()

	tests := []struct {
		name     string
		text     string
		expected int
	}{
		{
			name:     "empty string",
			text:     "",
			expected: 0,
		},
		{
			name:     "single char",
			text:     "a",
			expected: 1, // ceil(1 / 3.5)
		},
		{
			name:     "exact multiple",
			text:     "abcdefg",
			expected: 2, // 7 / 3.5
		},
		{
			name:     "core context",
			text:     "Project X overview",
			expected: 6, // ceil(18 / 3.5)
		},
		{
			name:     "multibyte runes",
			text:     "上下文预算",
			expected: 2, // ceil(5 / 3.5)
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := counter.Count(tt.text)
			if result != tt.expected {
				t.Errorf("Count(%q) = %d, want %d", tt.text, result, tt.expected)
			}
		})
	}
}

func TestEstimatedCounter_ZeroDivisor(t *testing.T) {
	counter := &agentctx.EstimatedCounter{}

	if got := counter.Count("abcdefg"); got != 2 {
		t.Errorf("Count with zero divisor = %d, want 2", got)
	}
}

func TestEstimatedCounter_Monotonic(t *testing.T) {
	counter := agentctx.NewEstimatedCounter()

	prev := 0
	text := ""
	for i := 0; i < 50; i++ {
		text += "x"
		got := counter.Count(text)
		if got < prev {
			t.Fatalf("Count decreased from %d to %d at length %d", prev, got, len(text))
		}
		prev = got
	}
}

func TestNewTokenCounter_Default(t *testing.T) {
	for _, name := range []string{"", agentctx.CounterEstimate, "unknown"} {
		counter, err := agentctx.NewTokenCounter(name, "")
		if err != nil {
			t.Fatalf("NewTokenCounter(%q) error = %v", name, err)
		}
		if _, ok := counter.(*agentctx.EstimatedCounter); !ok {
			t.Errorf("NewTokenCounter(%q) = %T, want *EstimatedCounter", name, counter)
		}
	}
}

func TestDefaultTokenCounter(t *testing.T) {
	counter := agentctx.DefaultTokenCounter()
	if got := counter.Count("short text"); got != 3 {
		t.Errorf("Count(%q) = %d, want 3", "short text", got)
	}
}
