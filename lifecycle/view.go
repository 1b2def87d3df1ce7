package lifecycle

import (
	"context"

	"Gin_postgres_redis_library/models"
)

// ActiveTransaction decorates an active record with the fine it would incur
// if returned right now.
type ActiveTransaction struct {
	models.Transaction
	CurrentFine int64 `json:"currentFine"`
}

// MemberView is the dashboard aggregation for one member: pending requests,
// active loans with running fines, and the terminal history
// (Completed/Rejected/Cancelled — the front end filters what it shows).
type MemberView struct {
	Member              *models.Member       `json:"member"`
	PendingTransactions []models.Transaction `json:"pendingTransactions"`
	ActiveTransactions  []ActiveTransaction  `json:"activeTransactions"`
	PrevTransactions    []models.Transaction `json:"prevTransactions"`
	IssuedCount         int                  `json:"issuedCount"`
	ReservedCount       int                  `json:"reservedCount"`
	Points              int64                `json:"points"`
}

// GetMemberView partitions a member's transactions for the dashboard.
// Members may only view themselves; admins may view anyone.
func (e *Engine) GetMemberView(ctx context.Context, actor Actor, memberID string) (*MemberView, error) {
	if !actor.IsAdmin && actor.ID != memberID {
		return nil, E(KindRole, "cannot view another member's account")
	}
	member, err := e.store.GetMember(ctx, memberID)
	if err != nil {
		return nil, err
	}
	txs, _, err := e.store.ListTransactions(ctx, TxFilter{UserID: memberID})
	if err != nil {
		return nil, err
	}

	now := e.now()
	view := &MemberView{
		Member:              member,
		PendingTransactions: []models.Transaction{},
		ActiveTransactions:  []ActiveTransaction{},
		PrevTransactions:    []models.Transaction{},
		Points:              member.Points,
	}
	for _, t := range txs {
		switch t.TransactionStatus {
		case models.StatusPending:
			view.PendingTransactions = append(view.PendingTransactions, t)
		case models.StatusActive:
			view.ActiveTransactions = append(view.ActiveTransactions, ActiveTransaction{
				Transaction: t,
				CurrentFine: Fine(t.ToDate, now, e.dailyFine),
			})
			if t.TransactionType == models.TypeIssued {
				view.IssuedCount++
			} else {
				view.ReservedCount++
			}
		default:
			view.PrevTransactions = append(view.PrevTransactions, t)
		}
	}
	return view, nil
}
