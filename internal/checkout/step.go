package checkout

import "fmt"

//go:generate go tool stringer -type=Step -linecomment

// Step is a position in the linear checkout flow.
type Step int

const (
	StepShipping Step = iota // shipping
	StepPayment              // payment
	StepReview               // review
	StepComplete             // complete
)

func ParseStep(s string) (Step, error) {
	for step := StepShipping; step <= StepComplete; step++ {
		if step.String() == s {
			return step, nil
		}
	}
	return 0, fmt.Errorf("unknown checkout step %q", s)
}

func (s Step) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

func (s *Step) UnmarshalText(text []byte) error {
	parsed, err := ParseStep(string(text))
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}
