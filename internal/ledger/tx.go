package ledger

import (
	"time"

	"github.com/google/uuid"

	"github.com/akhilapnuri/FinancialTrackerApp/internal/domain"
)

// Tx is the mutable view handed to Mutate callbacks. It must not be
// retained after the callback returns.
type Tx struct {
	records []domain.Transaction
	loc     *time.Location
	dirty   bool
	copied  bool
}

// Records returns a copy of the current records, including any created
// earlier in the same callback.
func (m *Tx) Records() []domain.Transaction {
	return cloneAll(m.records)
}

// Find returns the record with id.
func (m *Tx) Find(id uuid.UUID) (domain.Transaction, bool) {
	if i := indexOf(m.records, id); i >= 0 {
		return m.records[i].Clone(), true
	}
	return domain.Transaction{}, false
}

// Create appends tx and returns the stored value.
func (m *Tx) Create(tx domain.Transaction) domain.Transaction {
	tx = m.normalize(tx)
	if tx.ID == uuid.Nil {
		tx.ID = uuid.New()
	}
	m.writable()
	m.records = append(m.records, tx)
	return tx.Clone()
}

// Update replaces the record with tx.ID, reporting whether it existed.
func (m *Tx) Update(tx domain.Transaction) bool {
	i := indexOf(m.records, tx.ID)
	if i < 0 {
		return false
	}
	m.writable()
	m.records[i] = m.normalize(tx)
	return true
}

// Delete removes the first record with id, reporting whether it existed.
func (m *Tx) Delete(id uuid.UUID) bool {
	i := indexOf(m.records, id)
	if i < 0 {
		return false
	}
	m.writable()
	m.records = append(m.records[:i], m.records[i+1:]...)
	return true
}

// writable copies the backing slice on first write so an aborted callback
// leaves the store untouched.
func (m *Tx) writable() {
	m.dirty = true
	if m.copied {
		return
	}
	m.records = cloneAll(m.records)
	m.copied = true
}

func (m *Tx) normalize(tx domain.Transaction) domain.Transaction {
	tx = tx.Clone()
	tx.Date = domain.StartOfDay(tx.Date, m.loc)
	if tx.RecurrenceEndDate != nil {
		end := domain.StartOfDay(*tx.RecurrenceEndDate, m.loc)
		tx.RecurrenceEndDate = &end
	}
	return tx
}
