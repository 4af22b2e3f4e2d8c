package outbound

// TaskDispatcher runs a task on a worker. *ants.Pool satisfies it.
type TaskDispatcher interface {
	Submit(task func()) error
}
