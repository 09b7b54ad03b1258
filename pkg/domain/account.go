package domain

// AccountType classifies a connected account. It drives the mock
// generator's merchant catalog and is inferred from provider metadata
// for externally-linked accounts.
type AccountType string

const (
	AccountChecking AccountType = "CHECKING"
	AccountCredit   AccountType = "CREDIT"
	AccountDebit    AccountType = "DEBIT"
)
