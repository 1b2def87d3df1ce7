package controllers

import (
	"net/http"

	"Gin_postgres_redis_library/app"
	"Gin_postgres_redis_library/db"
	"Gin_postgres_redis_library/models"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type BookController struct{ *Srv }

func NewBookController(s *Srv) *BookController { return &BookController{Srv: s} }

type addBookReq struct {
	BookName           string   `json:"bookName" binding:"required"`
	AlternateTitle     string   `json:"alternateTitle"`
	Author             string   `json:"author" binding:"required"`
	Language           string   `json:"language"`
	Publisher          string   `json:"publisher"`
	CoverURL           string   `json:"coverUrl"`
	BookCountAvailable *int     `json:"bookCountAvailable" binding:"required"`
	Categories         []string `json:"categories"`
}

func (bc *BookController) AddBook(c *gin.Context) {
	var in addBookReq
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, app.H{"error": "validation", "message": err.Error()})
		return
	}
	if *in.BookCountAvailable < 0 {
		c.JSON(http.StatusBadRequest, app.H{"error": "validation", "message": "bookCountAvailable cannot be negative"})
		return
	}

	b := &models.Book{
		ID:                 uuid.NewString(),
		BookName:           in.BookName,
		AlternateTitle:     in.AlternateTitle,
		Author:             in.Author,
		Language:           in.Language,
		Publisher:          in.Publisher,
		CoverURL:           in.CoverURL,
		BookCountAvailable: *in.BookCountAvailable,
		BookCountTotal:     *in.BookCountAvailable,
	}
	if err := bc.Repo.CreateBook(c.Request.Context(), b, in.Categories); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, b)
}

func (bc *BookController) ListBooks(c *gin.Context) {
	page, limit := pageParams(c)
	books, total, err := bc.Repo.ListBooks(c.Request.Context(), c.Query("q"), c.Query("categoryId"), page, limit)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, listPayload(books, page, limit, total))
}

func (bc *BookController) GetBook(c *gin.Context) {
	b, err := bc.Repo.FindBookByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, b)
}

type updateBookReq struct {
	BookName       *string  `json:"bookName"`
	AlternateTitle *string  `json:"alternateTitle"`
	Author         *string  `json:"author"`
	Language       *string  `json:"language"`
	Publisher      *string  `json:"publisher"`
	CoverURL       *string  `json:"coverUrl"`
	BookCountTotal *int     `json:"bookCountTotal"`
	Categories     []string `json:"categories"`
}

func (bc *BookController) UpdateBook(c *gin.Context) {
	var in updateBookReq
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, app.H{"error": "validation", "message": err.Error()})
		return
	}

	b, err := bc.Repo.UpdateBook(c.Request.Context(), c.Param("id"), db.BookUpdate{
		BookName:       in.BookName,
		AlternateTitle: in.AlternateTitle,
		Author:         in.Author,
		Language:       in.Language,
		Publisher:      in.Publisher,
		CoverURL:       in.CoverURL,
		BookCountTotal: in.BookCountTotal,
		CategoryIDs:    in.Categories,
	})
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, b)
}

func (bc *BookController) RemoveBook(c *gin.Context) {
	if err := bc.Repo.DeleteBookByID(c.Request.Context(), c.Param("id")); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, app.H{"ok": true})
}
