package cli

import (
	"fmt"
	"io"
	"sync"

	"volunteermap/internal/domain"
)

// syncWriter serialises writes from the command loop and background uploads.
type syncWriter struct {
	mu sync.Mutex
	w  io.Writer
}

func (s *syncWriter) Write(p []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.w.Write(p)
}

// NewSyncWriter wraps w so concurrent writers share one lock. Wrapping a writer
// returned by NewSyncWriter returns it unchanged, so pass the same value to NewApp
// and NewConsoleNotifier.
func NewSyncWriter(w io.Writer) io.Writer {
	if sw, ok := w.(*syncWriter); ok {
		return sw
	}
	return &syncWriter{w: w}
}

// ConsoleNotifier prints alerts as single lines.
type ConsoleNotifier struct {
	out io.Writer
}

// NewConsoleNotifier returns a notifier writing to out.
func NewConsoleNotifier(out io.Writer) *ConsoleNotifier {
	return &ConsoleNotifier{out: NewSyncWriter(out)}
}

func (n *ConsoleNotifier) Notify(note domain.Notification) {
	fmt.Fprintf(n.out, "[%s] %s\n", note.Title, note.Message)
}
