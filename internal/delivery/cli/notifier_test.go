package cli

import (
	"bytes"
	"strings"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"volunteermap/internal/domain"
)

// overlapWriter records whether two Write calls ever ran at the same time.
type overlapWriter struct {
	active  atomic.Int32
	overlap atomic.Bool
	buf     bytes.Buffer
}

func (w *overlapWriter) Write(p []byte) (int, error) {
	if w.active.Add(1) > 1 {
		w.overlap.Store(true)
	}
	defer w.active.Add(-1)
	for _, b := range p {
		w.buf.WriteByte(b)
	}
	return len(p), nil
}

func TestNewSyncWriter_Idempotent(t *testing.T) {
	var buf bytes.Buffer
	out := NewSyncWriter(&buf)
	assert.Same(t, out, NewSyncWriter(out))
}

func TestApp_SharesWriterWithNotifier(t *testing.T) {
	raw := &overlapWriter{}
	out := NewSyncWriter(raw)
	notifier := NewConsoleNotifier(out)
	app := NewApp(Deps{API: &memoryAPI{}, Notifier: notifier}, out)

	require.Same(t, out, notifier.out)
	require.Same(t, out, app.out)

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			notifier.Notify(domain.Notification{Title: "Image Upload", Message: "done"})
		}()
		go func() {
			defer wg.Done()
			app.help()
		}()
	}
	wg.Wait()

	assert.False(t, raw.overlap.Load())
	assert.Equal(t, 50, strings.Count(raw.buf.String(), "[Image Upload] done\n"))
}
