package domain

type Status string

const (
	StatusPending        Status = "pending"
	StatusAccepted       Status = "accepted"
	StatusRejected       Status = "rejected"
	StatusProcessing     Status = "processing"
	StatusReadyForPickup Status = "ready_for_pickup"
	StatusInTransit      Status = "in_transit"
	StatusDelivered      Status = "delivered"
	StatusCancelled      Status = "cancelled"
)

// Status enum di sistem asalnya flat: farmer/admin boleh lompat ke status
// mana saja (pending -> delivered juga sah). Yang dikunci cuma dua hal:
// status terminal tidak bisa keluar lagi, dan cancelled hanya lewat Cancel
// (supaya kompensasi stoknya jalan), bukan lewat update status biasa.
var validNext = map[Status]map[Status]bool{
	StatusPending:        nonTerminalTargets,
	StatusAccepted:       nonTerminalTargets,
	StatusRejected:       nonTerminalTargets,
	StatusProcessing:     nonTerminalTargets,
	StatusReadyForPickup: nonTerminalTargets,
	StatusInTransit:      nonTerminalTargets,
	StatusDelivered:      {},
	StatusCancelled:      {},
}

var nonTerminalTargets = map[Status]bool{
	StatusPending:        true,
	StatusAccepted:       true,
	StatusRejected:       true,
	StatusProcessing:     true,
	StatusReadyForPickup: true,
	StatusInTransit:      true,
	StatusDelivered:      true,
}

func (s Status) Valid() bool {
	_, ok := validNext[s]
	return ok
}

func (s Status) Terminal() bool {
	return s == StatusDelivered || s == StatusCancelled
}

func CanTransition(from, to Status) bool {
	return validNext[from][to]
}

type PaymentStatus string

const (
	PaymentPending   PaymentStatus = "pending"
	PaymentCompleted PaymentStatus = "completed"
	PaymentFailed    PaymentStatus = "failed"
)

func (p PaymentStatus) Valid() bool {
	switch p {
	case PaymentPending, PaymentCompleted, PaymentFailed:
		return true
	}
	return false
}
