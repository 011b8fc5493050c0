package entity

type OrderStatus string

const (
	StatusBacklog        OrderStatus = `BACKLOG`
	StatusInProgress     OrderStatus = `ANDAMENTO`
	StatusOutForDelivery OrderStatus = `ENTREGA`
	StatusDone           OrderStatus = `CONCLUIDO`
	StatusCancelled      OrderStatus = `CANCELADO`
)

var OrderStatuses = []OrderStatus{
	StatusBacklog,
	StatusInProgress,
	StatusOutForDelivery,
	StatusDone,
	StatusCancelled,
}

var FinishedStatuses = []OrderStatus{
	StatusDone,
	StatusCancelled,
}

// allowedTransitions lists the forward moves of an order. Cancellation is
// reachable from every non terminal status.
var allowedTransitions = map[OrderStatus][]OrderStatus{
	StatusBacklog:        {StatusInProgress, StatusCancelled},
	StatusInProgress:     {StatusOutForDelivery, StatusCancelled},
	StatusOutForDelivery: {StatusDone, StatusCancelled},
}

func (s OrderStatus) String() string {
	return string(s)
}

func (s OrderStatus) Valid() bool {
	for _, status := range OrderStatuses {
		if s == status {
			return true
		}
	}

	return false
}

func (s OrderStatus) Finished() bool {
	return s == StatusDone || s == StatusCancelled
}

// CanTransitionTo reports whether an order in status s may move to next.
// Setting the current status again is accepted as a no-op.
func (s OrderStatus) CanTransitionTo(next OrderStatus) bool {
	if !s.Valid() || !next.Valid() {
		return false
	}

	if s == next {
		return true
	}

	for _, allowed := range allowedTransitions[s] {
		if allowed == next {
			return true
		}
	}

	return false
}

// StatusBucket selects a subset of a team orders by status.
type StatusBucket int

const (
	BucketAll StatusBucket = iota
	BucketUnfinished
	BucketFinished
)
