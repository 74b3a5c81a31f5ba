package numbering

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// Store is the counter backend. NextValue must be a single atomic
// read-modify-write: two callers can never observe the same value for the same
// key, and an unseen key is created starting from start with no window where
// two creators both begin at the first value.
type Store interface {
	NextValue(ctx context.Context, key string, start int64) (int64, error)
	EnsureFloor(ctx context.Context, key string, minimum int64) error
}

// Sequence describes one named counter and how its numbers render.
type Sequence struct {
	// Key identifies the counter row, e.g. "quotationNumber" or
	// "invoice-24-25". PerFiscalYear appends the fiscal-year key.
	Key           string
	PerFiscalYear bool
	// Template is passed to Format, e.g. "QTN/{FY}/{SEQ4}".
	Template string
	// Start is the implied value of a counter created on first allocation;
	// the first issued number is Start+1.
	Start int64
}

// Allocator owns the counter store and is the only component allowed to
// mutate counters.
type Allocator struct {
	store Store
}

// NewAllocator returns an Allocator backed by the given store.
func NewAllocator(store Store) *Allocator {
	return &Allocator{store: store}
}

// ErrStoreNotConfigured indicates the allocator was built without a store.
var ErrStoreNotConfigured = errors.New("numbering: store not configured")

// Allocate atomically increments the counter behind seq and returns the new
// value. Values are issued exactly once; a crash between allocation and use
// leaves a gap, never a duplicate.
func (a *Allocator) Allocate(ctx context.Context, seq Sequence, at time.Time) (int64, error) {
	if a == nil || a.store == nil {
		return 0, ErrStoreNotConfigured
	}
	key := seq.Key
	if seq.PerFiscalYear {
		key = fmt.Sprintf("%s-%s", seq.Key, FiscalYearKey(at))
	}
	n, err := a.store.NextValue(ctx, key, seq.Start)
	if err != nil {
		return 0, fmt.Errorf("numbering: allocate %s: %w", key, err)
	}
	return n, nil
}

// EnsureFloor raises the counter to minimum when it is below it, otherwise
// does nothing. Idempotent and safe to interleave with Allocate.
func (a *Allocator) EnsureFloor(ctx context.Context, seq Sequence, minimum int64) error {
	if a == nil || a.store == nil {
		return ErrStoreNotConfigured
	}
	if err := a.store.EnsureFloor(ctx, seq.Key, minimum); err != nil {
		return fmt.Errorf("numbering: ensure floor %s: %w", seq.Key, err)
	}
	return nil
}

// Mint allocates the next value for seq and renders the final document
// number. The fiscal-period key is resolved from at in IST.
func (a *Allocator) Mint(ctx context.Context, seq Sequence, at time.Time) (string, int64, error) {
	n, err := a.Allocate(ctx, seq, at)
	if err != nil {
		return "", 0, err
	}
	return Format(seq.Template, FiscalYearKey(at), n), n, nil
}
