package lifecycle_test

import (
	"context"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"Gin_postgres_redis_library/lifecycle"
	"Gin_postgres_redis_library/models"
)

// memStore is an in-memory lifecycle.Store. A single mutex serializes every
// mutate callback, mirroring the row locks the Postgres repo takes, which is
// what makes the concurrent-approve test meaningful.
type memStore struct {
	mu      sync.Mutex
	members map[string]models.Member
	books   map[string]models.Book
	txs     map[string]models.Transaction
	seq     int
}

func newMemStore() *memStore {
	return &memStore{
		members: map[string]models.Member{},
		books:   map[string]models.Book{},
		txs:     map[string]models.Transaction{},
	}
}

func (s *memStore) GetMember(_ context.Context, id string) (*models.Member, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	m, ok := s.members[id]
	if !ok {
		return nil, lifecycle.E(lifecycle.KindNotFound, "member not found")
	}
	return &m, nil
}

func (s *memStore) CreateTransaction(_ context.Context, t *models.Transaction, mutateBook func(b *models.Book) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.books[t.BookID]
	if !ok {
		return lifecycle.E(lifecycle.KindNotFound, "book not found")
	}
	if mutateBook != nil {
		if err := mutateBook(&b); err != nil {
			return err
		}
	}
	s.seq++
	t.CreatedAt = time.Unix(int64(s.seq), 0)
	s.books[t.BookID] = b
	s.txs[t.ID] = *t
	return nil
}

func (s *memStore) UpdateTransaction(_ context.Context, id string, fn func(t *models.Transaction, b *models.Book) error) (*models.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.txs[id]
	if !ok {
		return nil, lifecycle.E(lifecycle.KindNotFound, "transaction not found")
	}
	b, ok := s.books[t.BookID]
	if !ok {
		return nil, lifecycle.E(lifecycle.KindNotFound, "book not found")
	}
	if err := fn(&t, &b); err != nil {
		return nil, err
	}
	s.txs[id] = t
	s.books[t.BookID] = b
	return &t, nil
}

func (s *memStore) ListTransactions(_ context.Context, f lifecycle.TxFilter) ([]models.Transaction, int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.Transaction
	for _, t := range s.txs {
		if f.UserID != "" && t.UserID != f.UserID {
			continue
		}
		if f.BookID != "" && t.BookID != f.BookID {
			continue
		}
		if f.Status != "" && t.TransactionStatus != f.Status {
			continue
		}
		if f.Type != "" && t.TransactionType != f.Type {
			continue
		}
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	total := int64(len(out))
	if f.Limit > 0 {
		page := f.Page
		if page <= 0 {
			page = 1
		}
		start := (page - 1) * f.Limit
		if start > len(out) {
			start = len(out)
		}
		end := start + f.Limit
		if end > len(out) {
			end = len(out)
		}
		out = out[start:end]
	}
	return out, total, nil
}

func (s *memStore) book(id string) models.Book {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.books[id]
}

const (
	memberID = "00000000-0000-0000-0000-000000000001"
	adminID  = "00000000-0000-0000-0000-000000000002"
	otherID  = "00000000-0000-0000-0000-000000000003"
	bookID   = "00000000-0000-0000-0000-0000000000b1"
	book2ID  = "00000000-0000-0000-0000-0000000000b2"
)

var (
	member = lifecycle.Actor{ID: memberID, Name: "Maya Member"}
	admin  = lifecycle.Actor{ID: adminID, Name: "Ada Admin", IsAdmin: true}
	other  = lifecycle.Actor{ID: otherID, Name: "Omar Other"}
)

func newEngine(t *testing.T, opts ...lifecycle.Option) (*lifecycle.Engine, *memStore) {
	t.Helper()
	st := newMemStore()
	st.members[memberID] = models.Member{ID: memberID, UserFullName: "Maya Member", Email: "maya@example.com", MemberID: "M-001"}
	st.members[adminID] = models.Member{ID: adminID, UserFullName: "Ada Admin", Email: "ada@example.com", IsAdmin: true}
	st.members[otherID] = models.Member{ID: otherID, UserFullName: "Omar Other", Email: "omar@example.com"}
	st.books[bookID] = models.Book{ID: bookID, BookName: "The Go Programming Language", Author: "Donovan", BookCountAvailable: 1, BookCountTotal: 1}
	st.books[book2ID] = models.Book{ID: book2ID, BookName: "The Practice of Programming", Author: "Kernighan", BookCountAvailable: 2, BookCountTotal: 2}
	return lifecycle.New(st, opts...), st
}

func pending(t *testing.T, e *lifecycle.Engine) *models.Transaction {
	t.Helper()
	tx, err := e.RequestBook(context.Background(), member, bookID, date(2024, 1, 1), date(2024, 1, 15))
	require.NoError(t, err)
	return tx
}

func Test_RequestBook(t *testing.T) {
	e, st := newEngine(t)
	ctx := context.Background()

	tx, err := e.RequestBook(ctx, member, bookID, date(2024, 1, 1), date(2024, 1, 15))
	require.NoError(t, err)
	assert.Equal(t, models.StatusPending, tx.TransactionStatus)
	assert.Equal(t, models.TypeIssued, tx.TransactionType)
	assert.Equal(t, "The Go Programming Language", tx.BookName)
	assert.Equal(t, "Maya Member", tx.BorrowerName)
	assert.Equal(t, "M-001", tx.BorrowerID)

	// No inventory movement on request.
	assert.Equal(t, 1, st.book(bookID).BookCountAvailable)
}

func Test_RequestBook_Guards(t *testing.T) {
	e, _ := newEngine(t)
	ctx := context.Background()

	tests := []struct {
		name  string
		actor lifecycle.Actor
		book  string
		from  time.Time
		to    time.Time
		kind  lifecycle.Kind
	}{
		{
			name:  "admin_cannot_request",
			actor: admin,
			book:  bookID,
			from:  date(2024, 1, 1),
			to:    date(2024, 1, 15),
			kind:  lifecycle.KindRole,
		},
		{
			name:  "window_too_long",
			actor: member,
			book:  bookID,
			from:  date(2024, 1, 1),
			to:    date(2024, 1, 1).AddDate(0, 0, 91),
			kind:  lifecycle.KindValidation,
		},
		{
			name:  "inverted_window",
			actor: member,
			book:  bookID,
			from:  date(2024, 1, 15),
			to:    date(2024, 1, 1),
			kind:  lifecycle.KindValidation,
		},
		{
			name:  "unknown_book",
			actor: member,
			book:  "00000000-0000-0000-0000-0000000000ff",
			from:  date(2024, 1, 1),
			to:    date(2024, 1, 15),
			kind:  lifecycle.KindNotFound,
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := e.RequestBook(ctx, tc.actor, tc.book, tc.from, tc.to)
			require.Error(t, err)
			assert.Equal(t, tc.kind, lifecycle.KindOf(err))
		})
	}
}

func Test_RequestBook_AllowedWhenOutOfStock(t *testing.T) {
	e, st := newEngine(t)
	ctx := context.Background()

	first := pending(t, e)
	_, err := e.Approve(ctx, admin, first.ID)
	require.NoError(t, err)
	require.Equal(t, 0, st.book(bookID).BookCountAvailable)

	// Waitlist: a second member may still request the now-exhausted book.
	tx, err := e.RequestBook(ctx, other, bookID, date(2024, 2, 1), date(2024, 2, 15))
	require.NoError(t, err)
	assert.Equal(t, models.StatusPending, tx.TransactionStatus)

	// But a direct admin issue fails.
	_, err = e.CreateDirect(ctx, admin, bookID, otherID, models.TypeIssued, date(2024, 2, 1), date(2024, 2, 15))
	require.Error(t, err)
	assert.Equal(t, lifecycle.KindOutOfStock, lifecycle.KindOf(err))
}

func Test_Approve(t *testing.T) {
	e, st := newEngine(t)
	ctx := context.Background()
	tx := pending(t, e)

	got, err := e.Approve(ctx, admin, tx.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusActive, got.TransactionStatus)
	assert.Equal(t, 0, st.book(bookID).BookCountAvailable)

	// Second resolution attempt fails and moves no inventory.
	_, err = e.Approve(ctx, admin, tx.ID)
	require.Error(t, err)
	assert.Equal(t, lifecycle.KindNotPending, lifecycle.KindOf(err))
	assert.Equal(t, 0, st.book(bookID).BookCountAvailable)
}

func Test_Approve_Guards(t *testing.T) {
	e, st := newEngine(t)
	ctx := context.Background()

	_, err := e.Approve(ctx, member, "whatever")
	assert.Equal(t, lifecycle.KindRole, lifecycle.KindOf(err))

	// Exhaust the single copy, then approve another pending request.
	first := pending(t, e)
	_, err = e.Approve(ctx, admin, first.ID)
	require.NoError(t, err)

	second, err := e.RequestBook(ctx, other, bookID, date(2024, 1, 1), date(2024, 1, 15))
	require.NoError(t, err)
	_, err = e.Approve(ctx, admin, second.ID)
	require.Error(t, err)
	assert.Equal(t, lifecycle.KindOutOfStock, lifecycle.KindOf(err))

	// The failed approval left the request pending and the stock untouched.
	view, err := e.GetMemberView(ctx, admin, otherID)
	require.NoError(t, err)
	require.Len(t, view.PendingTransactions, 1)
	assert.Equal(t, 0, st.book(bookID).BookCountAvailable)
}

func Test_RejectAndCancel(t *testing.T) {
	e, st := newEngine(t)
	ctx := context.Background()

	t.Run("reject_leaves_inventory", func(t *testing.T) {
		tx := pending(t, e)
		got, err := e.Reject(ctx, admin, tx.ID)
		require.NoError(t, err)
		assert.Equal(t, models.StatusRejected, got.TransactionStatus)
		assert.Equal(t, 1, st.book(bookID).BookCountAvailable)

		_, err = e.Reject(ctx, admin, tx.ID)
		assert.Equal(t, lifecycle.KindNotPending, lifecycle.KindOf(err))
	})

	t.Run("owner_cancels", func(t *testing.T) {
		tx := pending(t, e)
		got, err := e.Cancel(ctx, member, tx.ID)
		require.NoError(t, err)
		assert.Equal(t, models.StatusCancelled, got.TransactionStatus)
		assert.Equal(t, 1, st.book(bookID).BookCountAvailable)
	})

	t.Run("stranger_cannot_cancel", func(t *testing.T) {
		tx := pending(t, e)
		_, err := e.Cancel(ctx, other, tx.ID)
		assert.Equal(t, lifecycle.KindNotOwner, lifecycle.KindOf(err))

		// Admin can cancel on the requester's behalf.
		_, err = e.Cancel(ctx, admin, tx.ID)
		require.NoError(t, err)
	})

	t.Run("reject_requires_admin", func(t *testing.T) {
		tx := pending(t, e)
		_, err := e.Reject(ctx, member, tx.ID)
		assert.Equal(t, lifecycle.KindRole, lifecycle.KindOf(err))
		_, err = e.Cancel(ctx, member, tx.ID)
		require.NoError(t, err)
	})
}

func Test_Return(t *testing.T) {
	now := date(2024, 1, 20)
	e, st := newEngine(t, lifecycle.WithClock(func() time.Time { return now }))
	ctx := context.Background()

	tx := pending(t, e)
	_, err := e.Approve(ctx, admin, tx.ID)
	require.NoError(t, err)
	require.Equal(t, 0, st.book(bookID).BookCountAvailable)

	got, err := e.Return(ctx, admin, tx.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusCompleted, got.TransactionStatus)
	require.NotNil(t, got.ReturnDate)
	assert.Equal(t, now, *got.ReturnDate)
	// Due 2024-01-15, returned 2024-01-20: 5 days x 10.
	assert.Equal(t, int64(50), got.Fine)
	assert.Equal(t, 1, st.book(bookID).BookCountAvailable)

	// A completed record cannot be returned again, and the copy count stays
	// capped at the total.
	_, err = e.Return(ctx, admin, tx.ID)
	assert.Equal(t, lifecycle.KindNotActive, lifecycle.KindOf(err))
	assert.Equal(t, 1, st.book(bookID).BookCountAvailable)
}

func Test_Return_OnTimeNoFine(t *testing.T) {
	e, _ := newEngine(t, lifecycle.WithClock(func() time.Time { return date(2024, 1, 10) }))
	ctx := context.Background()

	tx := pending(t, e)
	_, err := e.Approve(ctx, admin, tx.ID)
	require.NoError(t, err)

	got, err := e.Return(ctx, admin, tx.ID)
	require.NoError(t, err)
	assert.Zero(t, got.Fine)
}

func Test_Return_Guards(t *testing.T) {
	e, _ := newEngine(t)
	ctx := context.Background()

	tx := pending(t, e)
	_, err := e.Return(ctx, member, tx.ID)
	assert.Equal(t, lifecycle.KindRole, lifecycle.KindOf(err))

	_, err = e.Return(ctx, admin, tx.ID)
	assert.Equal(t, lifecycle.KindNotActive, lifecycle.KindOf(err))
}

func Test_ReservedTransaction_NeverTouchesInventory(t *testing.T) {
	e, st := newEngine(t)
	ctx := context.Background()

	tx, err := e.CreateDirect(ctx, admin, bookID, memberID, models.TypeReserved, date(2024, 1, 1), date(2024, 1, 15))
	require.NoError(t, err)
	assert.Equal(t, models.StatusActive, tx.TransactionStatus)
	assert.Equal(t, 1, st.book(bookID).BookCountAvailable)

	got, err := e.Return(ctx, admin, tx.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusCompleted, got.TransactionStatus)
	assert.Equal(t, 1, st.book(bookID).BookCountAvailable)
}

func Test_CreateDirect_Guards(t *testing.T) {
	e, _ := newEngine(t)
	ctx := context.Background()

	_, err := e.CreateDirect(ctx, member, bookID, memberID, models.TypeIssued, date(2024, 1, 1), date(2024, 1, 15))
	assert.Equal(t, lifecycle.KindRole, lifecycle.KindOf(err))

	_, err = e.CreateDirect(ctx, admin, bookID, memberID, "Loaned", date(2024, 1, 1), date(2024, 1, 15))
	assert.Equal(t, lifecycle.KindValidation, lifecycle.KindOf(err))

	_, err = e.CreateDirect(ctx, admin, bookID, memberID, models.TypeIssued, date(2024, 1, 15), date(2024, 1, 1))
	assert.Equal(t, lifecycle.KindValidation, lifecycle.KindOf(err))
}

func Test_ConcurrentApprove_SingleWinner(t *testing.T) {
	e, st := newEngine(t)
	ctx := context.Background()
	tx := pending(t, e)

	const attempts = 8
	var wg sync.WaitGroup
	errs := make([]error, attempts)
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = e.Approve(ctx, admin, tx.ID)
		}(i)
	}
	wg.Wait()

	wins := 0
	for _, err := range errs {
		if err == nil {
			wins++
		} else {
			assert.Equal(t, lifecycle.KindNotPending, lifecycle.KindOf(err))
		}
	}
	assert.Equal(t, 1, wins)
	assert.Equal(t, 0, st.book(bookID).BookCountAvailable)
}

func Test_GetMemberView(t *testing.T) {
	now := date(2024, 1, 18)
	e, _ := newEngine(t, lifecycle.WithClock(func() time.Time { return now }))
	ctx := context.Background()

	// One active overdue loan, one pending request, one completed loan.
	loan := pending(t, e) // due 2024-01-15
	_, err := e.Approve(ctx, admin, loan.ID)
	require.NoError(t, err)

	done, err := e.CreateDirect(ctx, admin, book2ID, memberID, models.TypeReserved, date(2024, 1, 1), date(2024, 1, 20))
	require.NoError(t, err)
	_, err = e.Return(ctx, admin, done.ID)
	require.NoError(t, err)

	req, err := e.RequestBook(ctx, member, book2ID, date(2024, 2, 1), date(2024, 2, 10))
	require.NoError(t, err)

	view, err := e.GetMemberView(ctx, member, memberID)
	require.NoError(t, err)

	require.Len(t, view.PendingTransactions, 1)
	assert.Equal(t, req.ID, view.PendingTransactions[0].ID)

	require.Len(t, view.ActiveTransactions, 1)
	assert.Equal(t, loan.ID, view.ActiveTransactions[0].ID)
	assert.Equal(t, int64(30), view.ActiveTransactions[0].CurrentFine) // 3 days x 10

	require.Len(t, view.PrevTransactions, 1)
	assert.Equal(t, done.ID, view.PrevTransactions[0].ID)

	assert.Equal(t, 1, view.IssuedCount)
	assert.Equal(t, 0, view.ReservedCount)
}

func Test_GetMemberView_RoleGuard(t *testing.T) {
	e, _ := newEngine(t)
	ctx := context.Background()

	_, err := e.GetMemberView(ctx, other, memberID)
	assert.Equal(t, lifecycle.KindRole, lifecycle.KindOf(err))

	_, err = e.GetMemberView(ctx, member, memberID)
	assert.NoError(t, err)
	_, err = e.GetMemberView(ctx, admin, memberID)
	assert.NoError(t, err)
}

func Test_ListPendingAndActive(t *testing.T) {
	e, _ := newEngine(t)
	ctx := context.Background()

	first := pending(t, e)
	_, err := e.Approve(ctx, admin, first.ID)
	require.NoError(t, err)
	_, err = e.RequestBook(ctx, other, bookID, date(2024, 1, 1), date(2024, 1, 15))
	require.NoError(t, err)

	pend, total, err := e.ListPending(ctx, admin, 1, 20)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, pend, 1)
	assert.Equal(t, models.StatusPending, pend[0].TransactionStatus)

	act, total, err := e.ListActive(ctx, admin, 1, 20)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, act, 1)
	assert.Equal(t, first.ID, act[0].ID)

	_, _, err = e.ListPending(ctx, member, 1, 20)
	assert.Equal(t, lifecycle.KindRole, lifecycle.KindOf(err))
	_, _, err = e.ListActive(ctx, member, 1, 20)
	assert.Equal(t, lifecycle.KindRole, lifecycle.KindOf(err))
}
