package booking

type Status string

const (
	StatusPending  Status = "pending"
	StatusPaid     Status = "paid"
	StatusExpired  Status = "expired"
	StatusCanceled Status = "canceled"
)

func (s Status) String() string {
	return string(s)
}

func (s Status) IsValid() bool {
	switch s {
	case StatusPending, StatusPaid, StatusExpired, StatusCanceled:
		return true
	default:
		return false
	}
}

// Terminal statuses never transition again on their own; canceled holds can
// still be reopened by an operator.
func (s Status) IsTerminal() bool {
	return s == StatusPaid || s == StatusExpired
}

func (s Status) Label() string {
	switch s {
	case StatusPending:
		return "Awaiting payment"
	case StatusPaid:
		return "Confirmed"
	case StatusExpired:
		return "Expired"
	case StatusCanceled:
		return "Canceled"
	default:
		return "Unknown"
	}
}
