package auth

import "courtfind/internal/domain"

const minPasswordLength = 8

type strengthScorer struct{}

// NewStrengthScorer returns the password scorer used by sign-up: one point each for length,
// upper case, lower case, digit and any other character.
func NewStrengthScorer() domain.PasswordScorer {
	return strengthScorer{}
}

func (strengthScorer) Score(password string) domain.PasswordStrength {
	var upper, lower, digit, other bool
	for _, r := range password {
		switch {
		case r >= 'A' && r <= 'Z':
			upper = true
		case r >= 'a' && r <= 'z':
			lower = true
		case r >= '0' && r <= '9':
			digit = true
		default:
			other = true
		}
	}
	score := 0
	for _, ok := range []bool{len(password) >= minPasswordLength, upper, lower, digit, other} {
		if ok {
			score++
		}
	}
	switch {
	case score <= 2:
		return domain.PasswordStrength{Score: score, Label: domain.StrengthWeak, Variant: "danger", Percent: 33}
	case score <= 4:
		return domain.PasswordStrength{Score: score, Label: domain.StrengthModerate, Variant: "warning", Percent: 66}
	default:
		return domain.PasswordStrength{Score: score, Label: domain.StrengthStrong, Variant: "success", Percent: 100}
	}
}
