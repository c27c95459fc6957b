package scanner

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWatcher_FlushDefersWhenConsumerBusy(t *testing.T) {
	w, err := NewWatcher(t.TempDir(), DefaultWatchConfig(), nil)
	require.NoError(t, err)
	defer w.Stop()

	ctx := context.Background()
	for i := 0; i < batchChannelBuffer; i++ {
		w.pending["filler.md"] = struct{}{}
		w.flush(ctx)
	}
	require.Len(t, w.batches, batchChannelBuffer)

	// 通道已满，本批应保留到下一次刷新
	w.pending["late.md"] = struct{}{}
	w.flush(ctx)
	assert.Contains(t, w.pending, "late.md")

	<-w.batches
	w.pending["later.md"] = struct{}{}
	w.flush(ctx)
	assert.Empty(t, w.pending)

	var last []string
	for len(w.batches) > 0 {
		last = <-w.batches
	}
	assert.Equal(t, []string{"late.md", "later.md"}, last)
}
