package payment

import (
	"context"
	"math/rand/v2"

	"github.com/iliyamo/showtime-booking/internal/model"
)

// Decider simulates the payment gateway.  It returns true when the charge
// is approved.  It is called with the booking lock held and must not call
// back into the booking manager.
type Decider func(ctx context.Context, b model.Booking, method string) bool

// AlwaysSucceed approves every payment.
func AlwaysSucceed() Decider {
	return func(context.Context, model.Booking, string) bool { return true }
}

// AlwaysFail declines every payment.
func AlwaysFail() Decider {
	return func(context.Context, model.Booking, string) bool { return false }
}

// RandomFailure declines a payment with probability rate.  A rate <= 0
// behaves like AlwaysSucceed and a rate >= 1 like AlwaysFail.
func RandomFailure(rate float64) Decider {
	switch {
	case rate <= 0:
		return AlwaysSucceed()
	case rate >= 1:
		return AlwaysFail()
	}
	return func(context.Context, model.Booking, string) bool {
		return rand.Float64() >= rate
	}
}
