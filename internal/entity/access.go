package entity

import "time"

// UxHintState mirrors the paid flag for the browser UI. It is never used to authorize anything.
type UxHintState struct {
	Paid      bool  `json:"paid"`
	Timestamp int64 `json:"timestamp"`
}

func NewUxHint(paid bool, now time.Time) UxHintState {
	return UxHintState{Paid: paid, Timestamp: now.UnixMilli()}
}

type CheckoutSession struct {
	ID            string
	URL           string
	PaymentStatus string
	ProductType   string
}

const (
	PaymentStatusPaid       = "paid"
	ProductTypeGitHubAccess = "github_access"
)

func (s *CheckoutSession) IsPaid() bool { return s != nil && s.PaymentStatus == PaymentStatusPaid }

type WebhookEvent struct {
	Provider      string
	EventID       string
	EventType     string
	SessionID     string
	PaymentStatus string
	ProductType   string
	ProcessedAt   time.Time
}

// GrantsAccess reports whether the event is a completed, paid checkout for the access product.
func (e *WebhookEvent) GrantsAccess() bool {
	return e.EventType == "checkout.session.completed" &&
		e.PaymentStatus == PaymentStatusPaid &&
		e.ProductType == ProductTypeGitHubAccess
}
