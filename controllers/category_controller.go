package controllers

import (
	"net/http"

	"Gin_postgres_redis_library/app"
	"Gin_postgres_redis_library/models"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type CategoryController struct{ *Srv }

func NewCategoryController(s *Srv) *CategoryController { return &CategoryController{Srv: s} }

func (cc *CategoryController) AddCategory(c *gin.Context) {
	var in struct {
		Name string `json:"name" binding:"required"`
	}
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, app.H{"error": "validation", "message": err.Error()})
		return
	}

	cat := &models.Category{ID: uuid.NewString(), Name: in.Name}
	if err := cc.Repo.CreateCategory(c.Request.Context(), cat); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, cat)
}

func (cc *CategoryController) ListCategories(c *gin.Context) {
	cats, err := cc.Repo.ListCategories(c.Request.Context())
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, listPayload(cats, 1, len(cats), int64(len(cats))))
}
