package strategy

// DefaultInsuranceThreshold is the true count at which CountInsurance insures
const DefaultInsuranceThreshold = 3.0

// Insurer decides whether to take insurance against a dealer ace
type Insurer interface {
	TakeInsurance(trueCount float64) bool
}

// CountInsurance insures once the true count reaches Threshold
type CountInsurance struct {
	Threshold float64
}

// TakeInsurance implements Insurer
func (c CountInsurance) TakeInsurance(trueCount float64) bool {
	return trueCount >= c.Threshold
}

// NeverInsure declines every insurance offer
type NeverInsure struct{}

// TakeInsurance implements Insurer
func (NeverInsure) TakeInsurance(float64) bool {
	return false
}
