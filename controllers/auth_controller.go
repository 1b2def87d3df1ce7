package controllers

import (
	"net/http"
	"strings"

	"Gin_postgres_redis_library/app"
	"Gin_postgres_redis_library/lifecycle"
	"Gin_postgres_redis_library/models"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

type AuthController struct{ *Srv }

func NewAuthController(s *Srv) *AuthController { return &AuthController{Srv: s} }

type signupReq struct {
	UserFullName string `json:"userFullName" binding:"required"`
	Email        string `json:"email" binding:"required,email"`
	Password     string `json:"password" binding:"required,min=8"`
	MobileNumber string `json:"mobileNumber"`
	MemberID     string `json:"memberId"`
	AdmissionID  string `json:"admissionId"`
	EmployeeID   string `json:"employeeId"`
	IsAdmin      bool   `json:"isAdmin"`
}

// signupIsAdmin decides whether a new account is born admin: configured
// admin emails always are, and the request's isAdmin flag counts only when
// the caller already holds an admin session.
func signupIsAdmin(cfg app.Config, email string, requested bool, actor lifecycle.Actor, authed bool) bool {
	if cfg.IsAdminEmail(email) {
		return true
	}
	return requested && authed && actor.IsAdmin
}

func (ac *AuthController) Signup(c *gin.Context) {
	var in signupReq
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, app.H{"error": "validation", "message": err.Error()})
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		c.JSON(http.StatusInternalServerError, app.H{"error": "internal", "message": "could not hash password"})
		return
	}

	actor, authed := app.ActorFrom(c)
	email := strings.ToLower(strings.TrimSpace(in.Email))
	m := &models.Member{
		ID:           uuid.NewString(),
		UserFullName: in.UserFullName,
		Email:        email,
		MobileNumber: in.MobileNumber,
		MemberID:     in.MemberID,
		AdmissionID:  in.AdmissionID,
		EmployeeID:   in.EmployeeID,
		IsAdmin:      signupIsAdmin(ac.Cfg, email, in.IsAdmin, actor, authed),
		PasswordHash: string(hash),
	}
	if err := ac.Repo.CreateMember(c.Request.Context(), m); err != nil {
		fail(c, err)
		return
	}

	// An authenticated caller is an admin registering someone else
	// (add-member flow); keep their own session cookie intact.
	if !authed {
		if err := ac.issueSession(c.Request.Context(), c.Writer, m.ID); err != nil {
			c.JSON(http.StatusInternalServerError, app.H{"error": "internal", "message": "could not create session"})
			return
		}
	}
	c.JSON(http.StatusCreated, m)
}

type loginReq struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

func (ac *AuthController) Login(c *gin.Context) {
	var in loginReq
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, app.H{"error": "validation", "message": err.Error()})
		return
	}

	m, err := ac.Repo.FindMemberByEmail(c.Request.Context(), in.Email)
	if err != nil {
		// Same response for unknown email and bad password.
		c.JSON(http.StatusUnauthorized, app.H{"error": "unauthorized", "message": "invalid email or password"})
		return
	}
	if bcrypt.CompareHashAndPassword([]byte(m.PasswordHash), []byte(in.Password)) != nil {
		c.JSON(http.StatusUnauthorized, app.H{"error": "unauthorized", "message": "invalid email or password"})
		return
	}

	if err := ac.issueSession(c.Request.Context(), c.Writer, m.ID); err != nil {
		c.JSON(http.StatusInternalServerError, app.H{"error": "internal", "message": "could not create session"})
		return
	}
	c.JSON(http.StatusOK, m)
}

func (ac *AuthController) Logout(c *gin.Context) {
	if ck, err := c.Request.Cookie(app.AppSessionCookie); err == nil && ck.Value != "" {
		_ = ac.AppSess.Delete(c.Request.Context(), ck.Value)
	}
	http.SetCookie(c.Writer, &http.Cookie{
		Name:     app.AppSessionCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Secure:   strings.HasPrefix(ac.WebOrigin, "https://"),
	})
	c.JSON(http.StatusOK, app.H{"ok": true})
}

func (ac *AuthController) WhoAmI(c *gin.Context) {
	actor, ok := app.ActorFrom(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, app.H{"error": "unauthorized", "message": "sign in required"})
		return
	}
	m, err := ac.Repo.FindMemberByID(c.Request.Context(), actor.ID)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, m)
}
