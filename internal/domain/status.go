package domain

// Status lifecycle status reported by the venue for orders and balance actions.
type Status string

const (
	StatusOpen      Status = "open"
	StatusPending   Status = "pending"
	StatusConfirmed Status = "confirmed"
	StatusDone      Status = "done"
	StatusCanceled  Status = "canceled"
	StatusFailed    Status = "failed"
	StatusReplaced  Status = "replaced"
	StatusSettled   Status = "settled"
	StatusSlashed   Status = "slashed"
)

// String returns the string representation.
func (s Status) String() string {
	return string(s)
}
