package models

import "time"

const (
	BookTable     = "lib_books"
	CategoryTable = "lib_categories"
	BookCatTable  = "lib_book_categories"
)

type Book struct {
	ID             string `gorm:"type:uuid;primaryKey" json:"id"`
	BookName       string `gorm:"size:255;not null;index" json:"bookName"`
	AlternateTitle string `gorm:"size:255" json:"alternateTitle,omitempty"`
	Author         string `gorm:"size:255;not null;index" json:"author"`
	Language       string `gorm:"size:60" json:"language,omitempty"`
	Publisher      string `gorm:"size:255" json:"publisher,omitempty"`
	CoverURL       string `gorm:"size:512" json:"coverUrl,omitempty"`

	// BookCountAvailable is mutated only by the borrowing lifecycle;
	// BookCountTotal is the cap re-applied on returns.
	BookCountAvailable int `gorm:"not null;default:0" json:"bookCountAvailable"`
	BookCountTotal     int `gorm:"not null;default:0" json:"bookCountTotal"`

	Categories []Category `gorm:"many2many:lib_book_categories" json:"categories,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type Category struct {
	ID        string    `gorm:"type:uuid;primaryKey" json:"id"`
	Name      string    `gorm:"uniqueIndex;size:120;not null" json:"name"`
	Books     []Book    `gorm:"many2many:lib_book_categories" json:"books,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (Book) TableName() string     { return BookTable }
func (Category) TableName() string { return CategoryTable }
