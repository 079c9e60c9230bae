package order

// Side is the venue-side numeric order side.
type Side int

const (
	Buy  Side = 1
	Sell Side = 2
)

func (s Side) String() string {
	switch s {
	case Buy:
		return "BUY"
	case Sell:
		return "SELL"
	default:
		return "UNKNOWN"
	}
}

// Type is the venue order type code.
type Type int

const (
	Market    Type = 1
	Limit     Type = 2
	Stop      Type = 3
	StopLimit Type = 4
	PostOnly  Type = 19
	IOC       Type = 20
	LimitIOC  Type = 21
	FOK       Type = 22
)

// Status is the venue-reported order lifecycle stage. Codes follow the
// FIX OrdStatus numbering the venue uses on exec reports.
type Status int

const (
	StatusNew                Status = 0
	StatusPartiallyFilled    Status = 1
	StatusFilled             Status = 2
	StatusDoneForToday       Status = 3
	StatusCancelled          Status = 4
	StatusReplaced           Status = 5
	StatusPendingCancel      Status = 6
	StatusStopped            Status = 7
	StatusRejected           Status = 8
	StatusSuspended          Status = 9
	StatusPendingNew         Status = 10
	StatusCalculated         Status = 11
	StatusExpired            Status = 12
	StatusAcceptedForBidding Status = 13
	StatusPendingReplace     Status = 14
)

func (s Status) String() string {
	switch s {
	case StatusNew:
		return "NEW"
	case StatusPartiallyFilled:
		return "PARTIALLY_FILLED"
	case StatusFilled:
		return "FILLED"
	case StatusDoneForToday:
		return "DONE_FOR_TODAY"
	case StatusCancelled:
		return "CANCELLED"
	case StatusReplaced:
		return "REPLACED"
	case StatusPendingCancel:
		return "PENDING_CANCEL"
	case StatusStopped:
		return "STOPPED"
	case StatusRejected:
		return "REJECTED"
	case StatusSuspended:
		return "SUSPENDED"
	case StatusPendingNew:
		return "PENDING_NEW"
	case StatusCalculated:
		return "CALCULATED"
	case StatusExpired:
		return "EXPIRED"
	case StatusAcceptedForBidding:
		return "ACCEPTED_FOR_BIDDING"
	case StatusPendingReplace:
		return "PENDING_REPLACE"
	default:
		return "UNKNOWN"
	}
}

// closedStatuses is the single source of truth for statuses after which
// an order no longer participates in matching.
var closedStatuses = map[Status]struct{}{
	StatusDoneForToday: {},
	StatusCancelled:    {},
	StatusReplaced:     {},
	StatusStopped:      {},
	StatusRejected:     {},
	StatusSuspended:    {},
	StatusExpired:      {},
}

// IsClosed reports whether the order has left the venue's book for good.
// Note Filled is deliberately not in the set; the venue reports a closed
// status on a later query once the order is done.
func IsClosed(s Status) bool {
	_, ok := closedStatuses[s]
	return ok
}

// IsActive reports whether a placement ack with this status leaves the
// order resting on the venue's book.
func IsActive(s Status) bool {
	switch s {
	case StatusNew, StatusPartiallyFilled, StatusCalculated, StatusAcceptedForBidding:
		return true
	default:
		return false
	}
}
