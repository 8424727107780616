package domain

// OrderStatus is the lifecycle state of an order
type OrderStatus string

const (
	StatusPending   OrderStatus = "pending"
	StatusConfirmed OrderStatus = "confirmed"
	StatusPreparing OrderStatus = "preparing"
	StatusReady     OrderStatus = "ready"
	StatusDelivered OrderStatus = "delivered"
	StatusCancelled OrderStatus = "cancelled"
)

// lifecycle is the forward order of non-cancel states
var lifecycle = []OrderStatus{
	StatusPending,
	StatusConfirmed,
	StatusPreparing,
	StatusReady,
	StatusDelivered,
}

// transitions lists the statuses reachable from each status.
// Forward moves may skip stages; cancelled is reachable from every non-terminal state.
var transitions = buildTransitions()

func buildTransitions() map[OrderStatus]map[OrderStatus]bool {
	table := make(map[OrderStatus]map[OrderStatus]bool)
	for i, from := range lifecycle {
		next := make(map[OrderStatus]bool)
		if !from.IsTerminal() {
			for _, to := range lifecycle[i+1:] {
				next[to] = true
			}
			next[StatusCancelled] = true
		}
		table[from] = next
	}
	table[StatusCancelled] = map[OrderStatus]bool{}
	return table
}

// Valid reports whether s is a known status
func (s OrderStatus) Valid() bool {
	_, ok := transitions[s]
	return ok
}

// IsTerminal reports whether no further transition is possible
func (s OrderStatus) IsTerminal() bool {
	return s == StatusDelivered || s == StatusCancelled
}

// CanTransitionTo reports whether the strict lifecycle allows s -> to.
// Re-setting the current status is allowed and is a no-op.
func (s OrderStatus) CanTransitionTo(to OrderStatus) bool {
	if s == to {
		return s.Valid()
	}
	return transitions[s][to]
}

// Step returns the position of s in the lifecycle, or -1 for cancelled/unknown
func (s OrderStatus) Step() int {
	for i, st := range lifecycle {
		if st == s {
			return i
		}
	}
	return -1
}
