// Package bridge carries change notifications from the UI goroutine to
// host callbacks.
//
// The UI side calls Publish, which serializes the payload on the calling
// goroutine and appends it to a mailbox. A single delivery goroutine
// drains the mailbox in FIFO order, looks up the handler registered for the
// notification's kind, and runs it through an Executor:
//
//   - WorkerExecutor runs the handler on the delivery goroutine itself.
//   - LoopExecutor posts the handler back onto the UI loop. A slow handler
//     then delays subsequent UI work, since the loop is single-threaded.
//
// Delivery is best-effort. A missing handler, a panicking handler, or a
// bridge stopped mid-flight drops the notification without retry.
package bridge
