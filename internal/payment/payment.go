package payment

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Method is the fixed set of accepted payment methods.
type Method string

const (
	MethodGCash          Method = "GCash"
	MethodMaya           Method = "Maya"
	MethodCashOnDelivery Method = "Cash on Delivery"
)

func ValidMethod(m string) bool {
	switch Method(m) {
	case MethodGCash, MethodMaya, MethodCashOnDelivery:
		return true
	}
	return false
}

// Processor stands between order placement and a real gateway, so one
// can be substituted without touching the placement state machine.
type Processor interface {
	Charge(ctx context.Context, method Method, amount int64) (txnID string, err error)
}

// Simulated always authorizes after a fixed delay.
type Simulated struct {
	Delay time.Duration
}

func (s Simulated) Charge(ctx context.Context, _ Method, _ int64) (string, error) {
	if s.Delay > 0 {
		select {
		case <-time.After(s.Delay):
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}
	return fmt.Sprintf("TXN-%s", uuid.NewString()), nil
}
