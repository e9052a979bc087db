package ledger

import (
	"context"
	"fmt"

	"github.com/akhilapnuri/FinancialTrackerApp/internal/domain"
	"github.com/akhilapnuri/FinancialTrackerApp/internal/validate"
)

// Commit stores tx after the blocking input checks pass. A record whose id
// is already stored is replaced; anything else is appended. Nothing is
// applied when the checks fail.
func (s *Store) Commit(ctx context.Context, tx domain.Transaction) (domain.Transaction, error) {
	if err := validate.CheckCommit(tx); err != nil {
		return domain.Transaction{}, fmt.Errorf("ledger.Commit: %w", err)
	}

	var stored domain.Transaction
	err := s.Mutate(ctx, func(m *Tx) error {
		if m.Update(tx) {
			stored, _ = m.Find(tx.ID)
			return nil
		}
		stored = m.Create(tx)
		return nil
	})
	if err != nil {
		return domain.Transaction{}, err
	}
	return stored, nil
}
