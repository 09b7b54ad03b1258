// Package infrarepo provides the gorm-backed unit of work binding all
// repositories to one database session.
package infrarepo

import (
	"context"

	"gorm.io/gorm"

	accountrepo "github.com/ledgerlens/ledgerlens/infra/repository/account"
	itemrepo "github.com/ledgerlens/ledgerlens/infra/repository/item"
	rulerepo "github.com/ledgerlens/ledgerlens/infra/repository/rule"
	txrepo "github.com/ledgerlens/ledgerlens/infra/repository/transaction"
	"github.com/ledgerlens/ledgerlens/pkg/repository"
)

// UoW implements repository.UnitOfWork on a gorm session. Outside Do the
// repositories run on the shared pool; inside Do they share one database
// transaction.
type UoW struct {
	db *gorm.DB
}

// NewUoW creates a unit of work over the given connection.
func NewUoW(db *gorm.DB) *UoW {
	return &UoW{db: db}
}

// Do runs fn inside a database transaction. The UnitOfWork passed to fn
// hands out repositories bound to that transaction; any error rolls the
// whole transaction back.
func (u *UoW) Do(ctx context.Context, fn func(uow repository.UnitOfWork) error) error {
	return u.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&UoW{db: tx})
	})
}

func (u *UoW) TransactionRepository() repository.Transaction {
	return txrepo.New(u.db)
}

func (u *UoW) AccountRepository() repository.Account {
	return accountrepo.New(u.db)
}

func (u *UoW) ItemRepository() repository.Item {
	return itemrepo.New(u.db)
}

func (u *UoW) RuleRepository() repository.Rule {
	return rulerepo.New(u.db)
}
