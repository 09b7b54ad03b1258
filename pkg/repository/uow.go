package repository

import "context"

// UnitOfWork scopes repository access to one database session and runs
// transactional work. Repositories obtained inside Do share the same
// transaction, so a sync cycle's bulk insert, per-row updates and cursor
// advance commit or roll back as one atomic unit.
type UnitOfWork interface {
	// Do executes fn within a transaction boundary. If fn returns an error
	// the transaction is rolled back and prior committed state is unchanged.
	Do(ctx context.Context, fn func(uow UnitOfWork) error) error

	TransactionRepository() Transaction
	AccountRepository() Account
	ItemRepository() Item
	RuleRepository() Rule
}
