package input

// QueueBuilderOption is a functional option for configuring a Queue.
type QueueBuilderOption func(q *queue)

// WithCoalescing merges adjacent pending events of the same kind: resizes keep the latest
// size, drags and wheels sum their deltas. Disabled by default.
//
// Parameters:
//   - enabled: true to merge adjacent events
//
// Returns:
//   - QueueBuilderOption: option function to apply
func WithCoalescing(enabled bool) QueueBuilderOption {
	return func(q *queue) {
		q.coalesce = enabled
	}
}
