package bridge

// Executor runs a delivery on whichever context the host needs.
type Executor interface {
	Execute(fn func()) error
}

// WorkerExecutor runs deliveries on the bridge's delivery goroutine.
type WorkerExecutor struct{}

func (WorkerExecutor) Execute(fn func()) error {
	fn()
	return nil
}

// LoopExecutor re-enters the UI loop through Post. Handlers then run on
// the UI goroutine and a slow handler stalls the UI.
type LoopExecutor struct {
	Post func(fn func()) error
}

func (e LoopExecutor) Execute(fn func()) error {
	return e.Post(fn)
}
