// Package mockfinancial generates deterministic pseudo-random transaction
// facts. The generator is seeded from a stable hash of the user id, not
// wall-clock state, so repeated syncs over the same window reproduce the
// same stream and naturally deduplicate through reconciliation.
package mockfinancial

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/google/uuid"

	"github.com/ledgerlens/ledgerlens/pkg/domain"
	"github.com/ledgerlens/ledgerlens/pkg/dto"
	"github.com/ledgerlens/ledgerlens/pkg/provider"
)

const payrollMerchant = "Payroll Inc."

var merchantsByType = map[domain.AccountType][]string{
	domain.AccountChecking: {"Whole Foods", "Trader Joe's", payrollMerchant, "Electric Co", "Gas Co", "Target"},
	domain.AccountDebit:    {"Starbucks", "Uber", "Lyft", "Costco", "Amazon"},
	domain.AccountCredit:   {"Netflix", "Spotify", "Uber", "Target", "Amazon"},
}

// Provider implements provider.FinancialData with generated data.
type Provider struct {
	logger *slog.Logger
}

// New creates a mock financial data provider.
func New(logger *slog.Logger) *Provider {
	if logger == nil {
		logger = slog.Default()
	}
	return &Provider{logger: logger.With("provider", "mock")}
}

// Sync generates 1-3 transactions per account per day over the window.
// Income goes to the payroll merchant; the pending/posted split is
// concentrated in the most recent few days; provider ids are derived from
// (account, date, sequence) so re-generation is idempotent downstream.
func (p *Provider) Sync(
	ctx context.Context,
	userID uuid.UUID,
	accounts []dto.AccountRead,
	window provider.Window,
) ([]provider.Transaction, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	until := window.Until
	if until.IsZero() {
		until = time.Now()
	}
	since := window.Since
	if since.IsZero() {
		since = until.Add(-90 * 24 * time.Hour)
	}
	days := int(math.Ceil(until.Sub(since).Hours()/24)) + 1

	rng := newRNG(hashUserID(userID))
	var transactions []provider.Transaction

	for _, account := range accounts {
		merchants, ok := merchantsByType[account.Type]
		if !ok {
			merchants = merchantsByType[domain.AccountChecking]
		}
		for i := 0; i < days; i++ {
			day := until.AddDate(0, 0, -i)
			if day.Before(since) {
				continue
			}

			count := 1 + int(rng.next()*3)
			for j := 0; j < count; j++ {
				merchant := merchants[int(rng.next()*float64(len(merchants)))]
				amount := int64(rng.next()*20000) + 500
				signed := -amount
				if merchant == payrollMerchant {
					signed = amount
				}
				status := domain.TransactionPosted
				if i <= 2 && rng.next() < 0.6 {
					status = domain.TransactionPending
				}
				effective := time.Date(
					day.Year(), day.Month(), day.Day(),
					int(rng.next()*23), int(rng.next()*59), 0, 0, time.UTC,
				)

				baseID := fmt.Sprintf("%s_%s_%d", account.ID, effective.Format("2006-01-02"), j)
				merchantName := merchant
				if status == domain.TransactionPending && rng.next() < 0.2 {
					merchantName = merchant + " PENDING"
				}

				tx := provider.Transaction{
					AccountID:     account.ID,
					AmountCents:   signed,
					Currency:      "USD",
					EffectiveDate: effective,
					MerchantName:  merchantName,
					Description:   merchant + " transaction",
					Status:        status,
					Provider:      domain.ProviderMock,
				}
				if status == domain.TransactionPending {
					authorized := effective
					tx.AuthorizedAt = &authorized
					tx.ProviderPendingID = "P_" + baseID
				} else {
					posted := effective
					tx.PostedAt = &posted
					tx.ProviderTransactionID = "T_" + baseID
				}
				transactions = append(transactions, tx)
			}
		}
	}

	p.logger.Info("generated mock transactions",
		"user_id", userID,
		"accounts", len(accounts),
		"count", len(transactions),
	)
	return transactions, nil
}

// rng is a linear congruential generator. It is local state passed
// explicitly, never a process-global source, so tests can assert exact
// sequences.
type rng struct {
	state uint32
}

func newRNG(seed uint32) *rng {
	return &rng{state: seed}
}

// next returns a value in [0, 1).
func (r *rng) next() float64 {
	r.state = r.state*1664525 + 1013904223
	return float64(r.state) / float64(math.MaxUint32+1)
}

// hashUserID folds the user id string into a stable 32-bit seed.
func hashUserID(userID uuid.UUID) uint32 {
	var h int32
	for _, c := range userID.String() {
		h = h<<5 - h + int32(c)
	}
	if h == 0 {
		h = 1
	}
	return uint32(h)
}
