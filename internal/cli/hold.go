package cli

import (
	"bytes"
	"io"
	"sync"

	"github.com/Makepad-fr/todogui/internal/ui"
)

// heldWriter buffers writes while held and passes them through after
// release.
type heldWriter struct {
	mu   sync.Mutex
	w    io.Writer
	buf  bytes.Buffer
	held bool
}

func (h *heldWriter) Write(p []byte) (int, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.held {
		return h.buf.Write(p)
	}
	return h.w.Write(p)
}

// release flushes what was buffered. Safe to call more than once.
func (h *heldWriter) release() {
	h.mu.Lock()
	defer h.mu.Unlock()
	if !h.held {
		return
	}
	h.held = false
	_, _ = h.w.Write(h.buf.Bytes())
	h.buf.Reset()
}

// holdConsole wraps con so nothing reaches it until release, when hold is
// set. Stdout and stderr are held separately.
func holdConsole(con ui.Console, hold bool) (ui.Console, func()) {
	out := &heldWriter{w: con.Out, held: hold}
	errw := &heldWriter{w: con.Err, held: hold}
	return ui.Console{Out: out, Err: errw}, func() {
		out.release()
		errw.release()
	}
}
