package controllers

import (
	"net/http"

	"Gin_postgres_redis_library/app"
	"Gin_postgres_redis_library/lifecycle"
	"Gin_postgres_redis_library/metrics"
	"Gin_postgres_redis_library/models"

	"github.com/gin-gonic/gin"
)

type TransactionController struct{ *Srv }

func NewTransactionController(s *Srv) *TransactionController {
	return &TransactionController{Srv: s}
}

type requestBookReq struct {
	BookID   string `json:"bookId" binding:"required"`
	FromDate string `json:"fromDate" binding:"required"`
	ToDate   string `json:"toDate" binding:"required"`
}

// RequestBook creates a Pending request for the signed-in member.
func (tc *TransactionController) RequestBook(c *gin.Context) {
	actor, _ := app.ActorFrom(c)

	var in requestBookReq
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, app.H{"error": "validation", "message": err.Error()})
		return
	}
	from, err1 := parseDate(in.FromDate)
	to, err2 := parseDate(in.ToDate)
	if err1 != nil || err2 != nil {
		c.JSON(http.StatusBadRequest, app.H{"error": "validation", "message": "dates must be YYYY-MM-DD"})
		return
	}

	t, err := tc.Engine.RequestBook(c.Request.Context(), actor, in.BookID, from, to)
	metrics.ObserveTransition("request", err)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, app.H{"transaction": t, "message": "Book request submitted successfully"})
}

type addTransactionReq struct {
	BookID          string `json:"bookId" binding:"required"`
	UserID          string `json:"userId" binding:"required"`
	TransactionType string `json:"transactionType" binding:"required"`
	FromDate        string `json:"fromDate" binding:"required"`
	ToDate          string `json:"toDate" binding:"required"`
}

// AddTransaction is the admin path that creates an Active record directly
// (issue over the counter, or a reservation).
func (tc *TransactionController) AddTransaction(c *gin.Context) {
	actor, _ := app.ActorFrom(c)

	var in addTransactionReq
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, app.H{"error": "validation", "message": err.Error()})
		return
	}
	from, err1 := parseDate(in.FromDate)
	to, err2 := parseDate(in.ToDate)
	if err1 != nil || err2 != nil {
		c.JSON(http.StatusBadRequest, app.H{"error": "validation", "message": "dates must be YYYY-MM-DD"})
		return
	}

	t, err := tc.Engine.CreateDirect(c.Request.Context(), actor, in.BookID, in.UserID,
		models.TransactionType(in.TransactionType), from, to)
	metrics.ObserveTransition("create_direct", err)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, t)
}

func (tc *TransactionController) Approve(c *gin.Context) {
	actor, _ := app.ActorFrom(c)
	t, err := tc.Engine.Approve(c.Request.Context(), actor, c.Param("id"))
	metrics.ObserveTransition("approve", err)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, t)
}

func (tc *TransactionController) Reject(c *gin.Context) {
	actor, _ := app.ActorFrom(c)
	t, err := tc.Engine.Reject(c.Request.Context(), actor, c.Param("id"))
	metrics.ObserveTransition("reject", err)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, t)
}

func (tc *TransactionController) Cancel(c *gin.Context) {
	actor, _ := app.ActorFrom(c)
	t, err := tc.Engine.Cancel(c.Request.Context(), actor, c.Param("id"))
	metrics.ObserveTransition("cancel", err)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, t)
}

// Return closes an active loan and reports the fine charged.
func (tc *TransactionController) Return(c *gin.Context) {
	actor, _ := app.ActorFrom(c)
	t, err := tc.Engine.Return(c.Request.Context(), actor, c.Param("id"))
	metrics.ObserveTransition("return", err)
	if err != nil {
		fail(c, err)
		return
	}
	metrics.ObserveFine(t.Fine)
	c.JSON(http.StatusOK, app.H{"transaction": t, "fine": t.Fine})
}

// ListAll is the admin transaction browser with status/type/member/book
// filters.
func (tc *TransactionController) ListAll(c *gin.Context) {
	page, limit := pageParams(c)
	ts, total, err := tc.Repo.ListTransactions(c.Request.Context(), lifecycle.TxFilter{
		UserID: c.Query("userId"),
		BookID: c.Query("bookId"),
		Status: models.TransactionStatus(c.Query("status")),
		Type:   models.TransactionType(c.Query("type")),
		Page:   page,
		Limit:  limit,
	})
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, listPayload(ts, page, limit, total))
}

func (tc *TransactionController) ListPending(c *gin.Context) {
	actor, _ := app.ActorFrom(c)
	page, limit := pageParams(c)
	ts, total, err := tc.Engine.ListPending(c.Request.Context(), actor, page, limit)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, listPayload(ts, page, limit, total))
}

func (tc *TransactionController) ListActive(c *gin.Context) {
	actor, _ := app.ActorFrom(c)
	page, limit := pageParams(c)
	ts, total, err := tc.Engine.ListActive(c.Request.Context(), actor, page, limit)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, listPayload(ts, page, limit, total))
}
