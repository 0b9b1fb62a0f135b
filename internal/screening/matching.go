package screening

import "strings"

// Identity is the subset of candidate fields used for duplicate matching.
type Identity struct {
	Email    string
	Phone    string
	FullName string
}

// MatchRule names a deterministic duplicate rule.
type MatchRule string

const (
	// RuleEmail fires on case-insensitive email equality.
	RuleEmail MatchRule = "email"
	// RulePhone fires on exact phone equality.
	RulePhone MatchRule = "phone"
	// RuleName fires when NameSimilarity reaches NameMatchThreshold.
	RuleName MatchRule = "name"
)

// Factor returns the human readable label reported for the rule.
func (r MatchRule) Factor() string {
	switch r {
	case RuleEmail:
		return "Email match"
	case RulePhone:
		return "Phone match"
	case RuleName:
		return "Similar name"
	default:
		return string(r)
	}
}

// MatchIdentity reports which rules fire between two identities, in email, phone, name order.
// Blank fields never match.
func MatchIdentity(a, b Identity) []MatchRule {
	var rules []MatchRule
	if emailA, emailB := strings.TrimSpace(a.Email), strings.TrimSpace(b.Email); emailA != "" && strings.EqualFold(emailA, emailB) {
		rules = append(rules, RuleEmail)
	}
	if phoneA, phoneB := strings.TrimSpace(a.Phone), strings.TrimSpace(b.Phone); phoneA != "" && phoneA == phoneB {
		rules = append(rules, RulePhone)
	}
	if NameSimilarity(a.FullName, b.FullName) >= NameMatchThreshold {
		rules = append(rules, RuleName)
	}
	return rules
}

// MatchingFactors folds the rules fired across all matched applications into the ordered
// factor list. Exact-field factors win; the name factor is reported only when nothing exact fired.
func MatchingFactors(fired [][]MatchRule) []string {
	var email, phone, name bool
	for _, rules := range fired {
		for _, rule := range rules {
			switch rule {
			case RuleEmail:
				email = true
			case RulePhone:
				phone = true
			case RuleName:
				name = true
			}
		}
	}

	factors := make([]string, 0, 2)
	if email {
		factors = append(factors, RuleEmail.Factor())
	}
	if phone {
		factors = append(factors, RulePhone.Factor())
	}
	if len(factors) == 0 && name {
		factors = append(factors, RuleName.Factor())
	}
	return factors
}
