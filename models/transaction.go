package models

import "time"

const TransactionTable = "lib_transactions"

type TransactionType string

const (
	TypeIssued   TransactionType = "Issued"
	TypeReserved TransactionType = "Reserved"
)

type TransactionStatus string

const (
	StatusPending   TransactionStatus = "Pending"
	StatusActive    TransactionStatus = "Active"
	StatusCompleted TransactionStatus = "Completed"
	StatusRejected  TransactionStatus = "Rejected"
	StatusCancelled TransactionStatus = "Cancelled"
)

// Terminal reports whether no further transition is allowed from s.
func (s TransactionStatus) Terminal() bool {
	return s == StatusCompleted || s == StatusRejected || s == StatusCancelled
}

// Transaction is one borrowing lifecycle instance. BookName / BorrowerName
// are denormalized for list displays so the front end never joins.
type Transaction struct {
	ID     string `gorm:"type:uuid;primaryKey" json:"id"`
	BookID string `gorm:"type:uuid;index;not null" json:"bookId"`
	UserID string `gorm:"type:uuid;index;not null" json:"userId"`

	BookName     string `gorm:"size:255;not null" json:"bookName"`
	BorrowerID   string `gorm:"size:120;not null" json:"borrowerId"`
	BorrowerName string `gorm:"size:255;not null" json:"borrowerName"`

	TransactionType   TransactionType   `gorm:"size:20;not null" json:"transactionType"`
	TransactionStatus TransactionStatus `gorm:"size:20;not null;index" json:"transactionStatus"`

	FromDate   time.Time  `gorm:"not null" json:"fromDate"`
	ToDate     time.Time  `gorm:"not null" json:"toDate"`
	ReturnDate *time.Time `json:"returnDate,omitempty"`
	Fine       int64      `gorm:"not null;default:0" json:"fine"`

	CreatedAt time.Time `gorm:"index" json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (Transaction) TableName() string { return TransactionTable }
