package domain

// RuleMatchType is the pattern kind of a categorization rule.
// MERCHANT_CONTAINS is the only implemented kind: a case-insensitive
// substring match against the transaction's merchant name.
type RuleMatchType string

const (
	RuleMerchantContains RuleMatchType = "MERCHANT_CONTAINS"
)
