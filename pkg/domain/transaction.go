package domain

// TransactionStatus is the lifecycle state of a transaction. A pending
// transaction's amount, merchant and provider id may still change before
// it posts.
type TransactionStatus string

const (
	// TransactionPending marks a transaction that has not settled yet.
	TransactionPending TransactionStatus = "PENDING"
	// TransactionPosted marks a settled transaction.
	TransactionPosted TransactionStatus = "POSTED"
)

// Provider tags the source system a transaction or account came from.
type Provider string

const (
	// ProviderMock is the deterministic mock generator.
	ProviderMock Provider = "MOCK"
	// ProviderPlaid is the external account-aggregation service.
	ProviderPlaid Provider = "PLAID"
)
