package provider

import (
	"strings"

	"github.com/ledgerlens/ledgerlens/pkg/domain"
)

// subtypeTable maps provider account types to ledger account types when
// no credit/debit hint is present in the subtype.
var subtypeTable = map[string]domain.AccountType{
	"depository": domain.AccountChecking,
	"credit":     domain.AccountCredit,
	"loan":       domain.AccountCredit,
	"other":      domain.AccountDebit,
}

// InferAccountType maps a provider subtype (falling back to its type
// string) to a ledger account type. Substring hints win over the fixed
// table; unknown values default to CHECKING.
func InferAccountType(subtype, accountType string) domain.AccountType {
	s := subtype
	if s == "" {
		s = accountType
	}
	if s == "" {
		return domain.AccountChecking
	}
	lower := strings.ToLower(s)
	if strings.Contains(lower, "credit") {
		return domain.AccountCredit
	}
	if strings.Contains(lower, "debit") {
		return domain.AccountDebit
	}
	if t, ok := subtypeTable[lower]; ok {
		return t
	}
	return domain.AccountChecking
}
