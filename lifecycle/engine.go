package lifecycle

import (
	"context"
	"time"

	"Gin_postgres_redis_library/models"

	"github.com/google/uuid"
)

// Actor is the authenticated identity a request carries. It is passed into
// every operation instead of being read from ambient session state.
type Actor struct {
	ID      string
	Name    string
	IsAdmin bool
}

// TxFilter narrows transaction listings. Zero values match everything.
type TxFilter struct {
	UserID string
	BookID string
	Status models.TransactionStatus
	Type   models.TransactionType
	Page   int
	Limit  int
}

// Store is the persistence the engine runs on. Implementations must make the
// mutate callbacks atomic with respect to the rows they receive: the
// transaction and its book are locked for the duration of the callback, and
// either both rows persist or neither does.
type Store interface {
	GetMember(ctx context.Context, id string) (*models.Member, error)

	// CreateTransaction inserts t after running mutateBook against the
	// row-locked book t.BookID refers to. A nil mutateBook still verifies
	// the book exists.
	CreateTransaction(ctx context.Context, t *models.Transaction, mutateBook func(b *models.Book) error) error

	// UpdateTransaction loads and locks the transaction and its book, runs
	// fn, and persists both rows iff fn returns nil.
	UpdateTransaction(ctx context.Context, id string, fn func(t *models.Transaction, b *models.Book) error) (*models.Transaction, error)

	ListTransactions(ctx context.Context, f TxFilter) ([]models.Transaction, int64, error)
}

// Engine enforces the borrowing lifecycle:
// Pending -> Active -> Completed, with Rejected/Cancelled terminating a
// Pending record, and inventory moving only on Issued approve/return.
type Engine struct {
	store     Store
	dailyFine int64
	now       func() time.Time
}

type Option func(*Engine)

func WithDailyFine(rate int64) Option {
	return func(e *Engine) { e.dailyFine = rate }
}

// WithClock overrides the engine clock, used by tests.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

func New(store Store, opts ...Option) *Engine {
	e := &Engine{store: store, dailyFine: DefaultDailyFine, now: time.Now}
	for _, o := range opts {
		o(e)
	}
	return e
}

// RequestBook creates a Pending request for a member. Admins are redirected
// to CreateDirect; no inventory is touched, so requests are allowed even when
// the book is out of stock (waitlist behavior).
func (e *Engine) RequestBook(ctx context.Context, actor Actor, bookID string, from, to time.Time) (*models.Transaction, error) {
	if actor.IsAdmin {
		return nil, E(KindRole, "admins cannot request books; use issue/reserve instead")
	}
	if err := ValidateWindow(from, to); err != nil {
		return nil, err
	}
	member, err := e.store.GetMember(ctx, actor.ID)
	if err != nil {
		return nil, err
	}

	t := &models.Transaction{
		ID:                uuid.NewString(),
		BookID:            bookID,
		UserID:            member.ID,
		BorrowerID:        member.Code(),
		BorrowerName:      member.UserFullName,
		TransactionType:   models.TypeIssued,
		TransactionStatus: models.StatusPending,
		FromDate:          from,
		ToDate:            to,
	}
	err = e.store.CreateTransaction(ctx, t, func(b *models.Book) error {
		t.BookName = b.BookName
		return nil
	})
	if err != nil {
		return nil, err
	}
	return t, nil
}

// CreateDirect is the admin path that skips Pending: the record is born
// Active. An Issued transaction consumes a copy immediately; Reserved does
// not, so reservations can be taken against an out-of-stock book.
func (e *Engine) CreateDirect(ctx context.Context, actor Actor, bookID, userID string, txType models.TransactionType, from, to time.Time) (*models.Transaction, error) {
	if !actor.IsAdmin {
		return nil, E(KindRole, "only admins can create transactions directly")
	}
	if txType != models.TypeIssued && txType != models.TypeReserved {
		return nil, E(KindValidation, "transactionType must be Issued or Reserved")
	}
	if from.IsZero() || to.IsZero() {
		return nil, E(KindValidation, "both fromDate and toDate are required")
	}
	if !to.After(from) {
		return nil, E(KindValidation, "toDate must be after fromDate")
	}
	member, err := e.store.GetMember(ctx, userID)
	if err != nil {
		return nil, err
	}

	t := &models.Transaction{
		ID:                uuid.NewString(),
		BookID:            bookID,
		UserID:            member.ID,
		BorrowerID:        member.Code(),
		BorrowerName:      member.UserFullName,
		TransactionType:   txType,
		TransactionStatus: models.StatusActive,
		FromDate:          from,
		ToDate:            to,
	}
	err = e.store.CreateTransaction(ctx, t, func(b *models.Book) error {
		t.BookName = b.BookName
		if txType == models.TypeIssued {
			if b.BookCountAvailable <= 0 {
				return E(KindOutOfStock, "no copies available for issue")
			}
			b.BookCountAvailable--
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return t, nil
}

// Approve moves a Pending record to Active. For Issued transactions a copy is
// consumed under the same lock that flips the status, so two concurrent
// approvals can only decrement once.
func (e *Engine) Approve(ctx context.Context, actor Actor, txID string) (*models.Transaction, error) {
	if !actor.IsAdmin {
		return nil, E(KindRole, "only admins can approve requests")
	}
	return e.store.UpdateTransaction(ctx, txID, func(t *models.Transaction, b *models.Book) error {
		if t.TransactionStatus != models.StatusPending {
			return E(KindNotPending, "transaction is not pending")
		}
		if t.TransactionType == models.TypeIssued {
			if b.BookCountAvailable <= 0 {
				return E(KindOutOfStock, "no copies available for issue")
			}
			b.BookCountAvailable--
		}
		t.TransactionStatus = models.StatusActive
		return nil
	})
}

// Reject terminates a Pending record. No inventory change.
func (e *Engine) Reject(ctx context.Context, actor Actor, txID string) (*models.Transaction, error) {
	if !actor.IsAdmin {
		return nil, E(KindRole, "only admins can reject requests")
	}
	return e.store.UpdateTransaction(ctx, txID, func(t *models.Transaction, b *models.Book) error {
		if t.TransactionStatus != models.StatusPending {
			return E(KindNotPending, "transaction is not pending")
		}
		t.TransactionStatus = models.StatusRejected
		return nil
	})
}

// Cancel terminates a Pending record on behalf of its requester, or of an
// admin acting for them. Same semantics as Reject, different actor.
func (e *Engine) Cancel(ctx context.Context, actor Actor, txID string) (*models.Transaction, error) {
	return e.store.UpdateTransaction(ctx, txID, func(t *models.Transaction, b *models.Book) error {
		if !actor.IsAdmin && t.UserID != actor.ID {
			return E(KindNotOwner, "only the requester or an admin can cancel")
		}
		if t.TransactionStatus != models.StatusPending {
			return E(KindNotPending, "transaction is not pending")
		}
		t.TransactionStatus = models.StatusCancelled
		return nil
	})
}

// Return closes an Active record: stamps the return date, computes any
// overdue fine, and puts the copy back for Issued transactions, capped at the
// book's configured total.
func (e *Engine) Return(ctx context.Context, actor Actor, txID string) (*models.Transaction, error) {
	if !actor.IsAdmin {
		return nil, E(KindRole, "only admins can process returns")
	}
	now := e.now()
	return e.store.UpdateTransaction(ctx, txID, func(t *models.Transaction, b *models.Book) error {
		if t.TransactionStatus != models.StatusActive {
			return E(KindNotActive, "transaction is not active")
		}
		t.TransactionStatus = models.StatusCompleted
		t.ReturnDate = &now
		t.Fine = Fine(t.ToDate, now, e.dailyFine)
		if t.TransactionType == models.TypeIssued && b.BookCountAvailable < b.BookCountTotal {
			b.BookCountAvailable++
		}
		return nil
	})
}

// ListPending is the admin approval queue.
func (e *Engine) ListPending(ctx context.Context, actor Actor, page, limit int) ([]models.Transaction, int64, error) {
	if !actor.IsAdmin {
		return nil, 0, E(KindRole, "only admins can list pending requests")
	}
	return e.store.ListTransactions(ctx, TxFilter{Status: models.StatusPending, Page: page, Limit: limit})
}

// ListActive feeds the return workflow.
func (e *Engine) ListActive(ctx context.Context, actor Actor, page, limit int) ([]models.Transaction, int64, error) {
	if !actor.IsAdmin {
		return nil, 0, E(KindRole, "only admins can list active transactions")
	}
	return e.store.ListTransactions(ctx, TxFilter{Status: models.StatusActive, Page: page, Limit: limit})
}

// DailyFine exposes the configured rate for display callers.
func (e *Engine) DailyFine() int64 { return e.dailyFine }
