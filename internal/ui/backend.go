// Package ui defines the capability set every windowing backend provides
// and the console helpers shared by the CLI.
package ui

import "errors"

var (
	// ErrUnavailable means the backend's toolkit cannot run here
	// (no terminal, no display).
	ErrUnavailable = errors.New("ui: toolkit unavailable")
	// ErrLoopClosed is returned by Post once the loop has exited.
	ErrLoopClosed = errors.New("ui: loop closed")
)

// Input is what a backend reports user intent to. All methods are called
// on the UI loop.
type Input interface {
	RequestAdd()
	RequestEdit(index int)
	RequestDelete(index int)
	RequestQuit()
}

// Dialog asks the user for a todo's text and due date.
type Dialog struct {
	Title string
	Text  string
	Date  int64 // ms since epoch
	// RequireText keeps the dialog open while the text field is blank.
	RequireText bool
	// Submit is called on the UI loop when the user confirms.
	Submit func(text string, date int64)
}

// Backend is one platform front end. Apart from Init, Post and Quit, every
// method must be called on the UI loop, i.e. from within RunLoop.
type Backend interface {
	// Name identifies the backend in logs and config.
	Name() string
	// Init checks the toolkit can start. It runs before the UI goroutine
	// exists; a failure leaves nothing to clean up.
	Init() error
	// CreateWindow builds the main window and binds its input to in.
	CreateWindow(title string, in Input) error
	AddListRow(label string)
	UpdateListRow(index int, label string)
	RemoveListRow(index int)
	ShowDialog(d Dialog)
	// RunLoop blocks until Quit is called or the user closes the window.
	RunLoop() error
	// Post queues fn to run on the loop. Safe from any goroutine.
	Post(fn func()) error
	// Quit asks the loop to exit. Safe from any goroutine, idempotent.
	Quit()
	// Restartable reports whether Init/CreateWindow/RunLoop may run again
	// after RunLoop has returned.
	Restartable() bool
}
