// controllers/srv.go
package controllers

import (
	"context"
	"net/http"
	"strconv"
	"strings"
	"time"

	"Gin_postgres_redis_library/app"
	"Gin_postgres_redis_library/db"
	"Gin_postgres_redis_library/lifecycle"
	"Gin_postgres_redis_library/session"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type Srv struct {
	Repo      *db.Repo
	Engine    *lifecycle.Engine
	AppSess   *session.AppSessionStore
	WebOrigin string
	Cfg       app.Config
}

func GetSrv(a *app.App) *Srv {
	repo := db.NewRepo(a.DB)
	return &Srv{
		Repo:      repo,
		Engine:    lifecycle.New(repo, lifecycle.WithDailyFine(a.Config.FinePerDay)),
		AppSess:   a.AppSessions(),
		WebOrigin: a.Config.WebOrigin,
		Cfg:       a.Config,
	}
}

// --- helpers ---

func (s *Srv) setAppCookie(w http.ResponseWriter, sessionID string, maxAge time.Duration) {
	secure := strings.HasPrefix(s.WebOrigin, "https://")
	http.SetCookie(w, &http.Cookie{
		Name:     app.AppSessionCookie,
		Value:    sessionID,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Secure:   secure,
		MaxAge:   int(maxAge / time.Second),
	})
}

func (s *Srv) issueSession(ctx context.Context, w http.ResponseWriter, memberID string) error {
	_ = s.Repo.TouchMemberLogin(ctx, memberID) // best effort
	id := uuid.NewString()
	if err := s.AppSess.Create(ctx, id, memberID); err != nil {
		return err
	}
	s.setAppCookie(w, id, s.Cfg.SessionTTL)
	return nil
}

// fail maps a lifecycle error kind to a status code and the contract's
// {error, message} body.
func fail(c *gin.Context, err error) {
	kind := lifecycle.KindOf(err)
	status := http.StatusInternalServerError
	switch kind {
	case lifecycle.KindValidation:
		status = http.StatusBadRequest
	case lifecycle.KindRole, lifecycle.KindNotOwner:
		status = http.StatusForbidden
	case lifecycle.KindNotFound:
		status = http.StatusNotFound
	case lifecycle.KindNotPending, lifecycle.KindNotActive,
		lifecycle.KindOutOfStock, lifecycle.KindConflict:
		status = http.StatusConflict
	default:
		kind = "internal"
	}
	c.JSON(status, app.H{"error": string(kind), "message": err.Error()})
}

// pageParams clamps to the same bounds the repos apply, so the echoed
// page/limit always match the query that ran.
func pageParams(c *gin.Context) (int, int) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	if page <= 0 {
		page = 1
	}
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	return page, limit
}

// listPayload is the one list shape every endpoint returns; no bare arrays.
func listPayload(items any, page, limit int, total int64) app.H {
	return app.H{"items": items, "page": page, "limit": limit, "total": total}
}

// parseDate accepts the date-only form the front end posts, or full RFC 3339.
func parseDate(s string) (time.Time, error) {
	if t, err := time.Parse("2006-01-02", s); err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339, s)
}
