// Package reconcile merges a batch of incoming provider transaction facts
// against the persisted ledger for one user. It is a pure function of its
// two inputs: calling it again with the same inputs yields the same result,
// and all persistence happens in the caller.
package reconcile

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/ledgerlens/ledgerlens/pkg/domain"
	"github.com/ledgerlens/ledgerlens/pkg/provider"
)

// fuzzyWindow is how far apart effective dates may be for two records to
// still describe the same transaction (a pending entry often posts a day
// or two later).
const fuzzyWindow = 3 * 24 * time.Hour

// Existing is the slice of a persisted transaction the matcher needs.
// Provider ids are empty strings when absent.
type Existing struct {
	ID                    uuid.UUID
	AccountID             uuid.UUID
	AmountCents           int64
	EffectiveDate         time.Time
	MerchantName          string
	Status                domain.TransactionStatus
	ProviderTransactionID string
	ProviderPendingID     string
}

// Update carries only the fields that actually changed for one matched
// transaction. Nil fields are untouched.
type Update struct {
	ID                    uuid.UUID
	Status                *domain.TransactionStatus
	ProviderTransactionID *string
	MerchantName          *string
}

// Result is the outcome of one reconciliation pass.
type Result struct {
	ToCreate []provider.Transaction
	ToUpdate []Update
}

// Reconcile matches incoming facts against the existing ledger. Matching
// order per incoming record: exact provider_transaction_id, exact
// provider_pending_id, then fuzzy (same account, same signed amount,
// normalized merchant equal, effective dates within three days). Each
// existing row is consumed at most once per pass; ties go to the first
// unused candidate in incoming order. Unmatched records are created;
// matched records yield an update only if something actually changed.
func Reconcile(existing []Existing, incoming []provider.Transaction) Result {
	byProviderID := make(map[string]*Existing, len(existing)*2)
	for i := range existing {
		e := &existing[i]
		if e.ProviderTransactionID != "" {
			byProviderID[e.ProviderTransactionID] = e
		}
		if e.ProviderPendingID != "" {
			byProviderID[e.ProviderPendingID] = e
		}
	}

	used := make(map[uuid.UUID]bool)
	var result Result

	for _, inc := range incoming {
		var match *Existing
		if inc.ProviderTransactionID != "" {
			if e, ok := byProviderID[inc.ProviderTransactionID]; ok && !used[e.ID] {
				match = e
			}
		}
		if match == nil && inc.ProviderPendingID != "" {
			if e, ok := byProviderID[inc.ProviderPendingID]; ok && !used[e.ID] {
				match = e
			}
		}
		if match == nil {
			match = fuzzyMatch(existing, used, inc)
		}

		if match == nil {
			result.ToCreate = append(result.ToCreate, inc)
			continue
		}

		used[match.ID] = true
		up := Update{ID: match.ID}
		changed := false
		if inc.Status != match.Status {
			status := inc.Status
			up.Status = &status
			changed = true
		}
		if inc.ProviderTransactionID != "" && match.ProviderTransactionID == "" {
			pid := inc.ProviderTransactionID
			up.ProviderTransactionID = &pid
			changed = true
		}
		if inc.MerchantName != match.MerchantName {
			name := inc.MerchantName
			up.MerchantName = &name
			changed = true
		}
		// An update that carries nothing beyond the id is not worth writing.
		if changed {
			result.ToUpdate = append(result.ToUpdate, up)
		}
	}

	return result
}

func fuzzyMatch(existing []Existing, used map[uuid.UUID]bool, inc provider.Transaction) *Existing {
	incNorm := normalizeMerchant(inc.MerchantName)
	for i := range existing {
		e := &existing[i]
		if used[e.ID] {
			continue
		}
		if e.AccountID != inc.AccountID {
			continue
		}
		if e.AmountCents != inc.AmountCents {
			continue
		}
		delta := e.EffectiveDate.Sub(inc.EffectiveDate)
		if delta < 0 {
			delta = -delta
		}
		if delta > fuzzyWindow {
			continue
		}
		if normalizeMerchant(e.MerchantName) != incNorm {
			continue
		}
		return e
	}
	return nil
}

// normalizeMerchant case-folds, collapses whitespace, and strips the
// literal word PENDING so "STARBUCKS PENDING" matches "Starbucks".
func normalizeMerchant(name string) string {
	fields := strings.Fields(strings.ToUpper(name))
	kept := fields[:0]
	for _, f := range fields {
		if f == "PENDING" {
			continue
		}
		kept = append(kept, f)
	}
	return strings.Join(kept, " ")
}
