package dto

// Payment provider callback. The provider's own wire format is out of
// scope; the gateway adapter posts this normalized envelope.
type PaymentWebhook struct {
	APIVersion string       `json:"api_version"`
	Event      PaymentEvent `json:"event"`
}

const (
	PaymentEventSucceeded = "payment.succeeded"
	PaymentEventFailed    = "payment.failed"
	PaymentEventRefunded  = "payment.refunded"
)

// Side distinguishes teacher subscriptions from student subscriptions.
const (
	PaymentSideTeacher = "teacher"
	PaymentSideStudent = "student"
)

type PaymentEvent struct {
	Type           string  `json:"type"`
	ID             string  `json:"id"`
	SubscriptionID string  `json:"subscription_id"`
	Side           string  `json:"side"`
	Amount         float64 `json:"amount"`
	Currency       string  `json:"currency"`
	PaidAtMs       int64   `json:"paid_at_ms"`
	Method         string  `json:"method"`
	Reference      string  `json:"reference"`
}
