package orders

import (
	"time"

	"github.com/pmdelacruz/artifact-market/internal/cart"
	"github.com/pmdelacruz/artifact-market/internal/shipping"
)

// Order is a frozen snapshot taken at payment confirmation. Items, total,
// shipping and the delivery estimate are computed once at placement and
// never recomputed; later cart mutation cannot reach them.
type Order struct {
	OrderID           string           `json:"orderId"`
	SessionID         string           `json:"-"`
	Items             []cart.Line      `json:"items"`
	Total             int64            `json:"total"`
	Shipping          shipping.Address `json:"shipping"`
	Timestamp         time.Time        `json:"timestamp"`
	PaymentMethod     string           `json:"paymentMethod"`
	EstimatedDelivery string           `json:"estimatedDelivery"`

	// Seq is the ledger insertion sequence, used only to keep listing
	// stable for orders placed in the same instant.
	Seq int64 `json:"-"`
}

// CancellationPreview is the first half of the two-phase cancel: it
// surfaces what would be refunded without touching the ledger.
type CancellationPreview struct {
	OrderID      string      `json:"orderId"`
	RefundAmount int64       `json:"refundAmount"`
	PlacedAt     time.Time   `json:"placedAt"`
	Items        []cart.Line `json:"items"`
}

// CancellationReceipt is returned to the caller on confirm and is not
// persisted anywhere; the cancelled order itself is gone.
type CancellationReceipt struct {
	OrderID      string    `json:"orderId"`
	RefundAmount int64     `json:"refundAmount"`
	CancelledAt  time.Time `json:"cancelledAt"`
}
