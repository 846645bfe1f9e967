package dashboard

import (
	"fmt"
	"io"
	"log/slog"
	"sync"
)

// Notifier is the fire-and-forget toast surface for mutation outcomes.
type Notifier interface {
	Success(message string)
	Error(message string)
}

// WriterNotifier prints one line per notification.
type WriterNotifier struct {
	mu sync.Mutex
	w  io.Writer
}

func NewWriterNotifier(w io.Writer) *WriterNotifier {
	return &WriterNotifier{w: w}
}

func (n *WriterNotifier) Success(message string) {
	n.write("ok", message)
}

func (n *WriterNotifier) Error(message string) {
	n.write("error", message)
}

func (n *WriterNotifier) write(level, message string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	fmt.Fprintf(n.w, "[%s] %s\n", level, message)
}

// LogNotifier forwards notifications to a structured logger.
type LogNotifier struct {
	Logger *slog.Logger
}

func (n LogNotifier) Success(message string) {
	n.Logger.Info(message, "notification", "success")
}

func (n LogNotifier) Error(message string) {
	n.Logger.Warn(message, "notification", "error")
}
