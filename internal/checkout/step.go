package checkout

import (
	"github.com/pmdelacruz/artifact-market/internal/cart"
	"github.com/pmdelacruz/artifact-market/internal/shipping"
)

type Step string

const (
	StepCart      Step = "cart"
	StepShipping  Step = "shipping"
	StepPayment   Step = "payment"
	StepConfirmed Step = "confirmed"
)

var validNext = map[Step]map[Step]bool{
	StepCart:      {StepShipping: true},
	StepShipping:  {StepPayment: true, StepCart: true},
	StepPayment:   {StepConfirmed: true, StepShipping: true, StepCart: true},
	StepConfirmed: {},
}

func CanAdvance(from, to Step) bool {
	return validNext[from][to]
}

// CurrentStep derives the session's step from what it has persisted;
// the step itself is never stored, so a reload lands where the data says.
func CurrentStep(lines []cart.Line, addr *shipping.Address) Step {
	if len(lines) == 0 {
		return StepCart
	}
	if addr == nil || !shipping.IsComplete(*addr) {
		return StepShipping
	}
	return StepPayment
}
