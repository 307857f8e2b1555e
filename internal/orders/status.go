package orders

type Status string

const (
	StatusPending   Status = "pending"
	StatusPreparing Status = "preparing"
	StatusReady     Status = "ready"
	StatusDelivered Status = "delivered"
	StatusCancelled Status = "cancelled"
)

// Forward-only: an order can skip steps but never move back, and the two
// terminal states accept nothing.
var validNext = map[Status]map[Status]bool{
	StatusPending:   {StatusPreparing: true, StatusReady: true, StatusDelivered: true, StatusCancelled: true},
	StatusPreparing: {StatusReady: true, StatusDelivered: true, StatusCancelled: true},
	StatusReady:     {StatusDelivered: true, StatusCancelled: true},
	StatusDelivered: {},
	StatusCancelled: {},
}

func CanTransition(from, to Status) bool {
	return validNext[from][to]
}

func ValidStatus(s Status) bool {
	_, ok := validNext[s]
	return ok
}

type PaymentStatus string

const (
	PaymentPending PaymentStatus = "pending"
	PaymentPaid    PaymentStatus = "paid"
	PaymentFailed  PaymentStatus = "failed"
)

func ValidPaymentStatus(s PaymentStatus) bool {
	switch s {
	case PaymentPending, PaymentPaid, PaymentFailed:
		return true
	}
	return false
}

type PaymentMethod string

const (
	PayCash          PaymentMethod = "cash"
	PayCreditCard    PaymentMethod = "credit_card"
	PayDebitCard     PaymentMethod = "debit_card"
	PayOnlinePayment PaymentMethod = "online_payment"
)

func ValidPaymentMethod(m PaymentMethod) bool {
	switch m {
	case PayCash, PayCreditCard, PayDebitCard, PayOnlinePayment:
		return true
	}
	return false
}
