package app

import (
	"net/http"

	"Gin_postgres_redis_library/db"
	"Gin_postgres_redis_library/lifecycle"
	"Gin_postgres_redis_library/session"

	"github.com/gin-gonic/gin"
)

const AppSessionCookie = "app_session"

// AuthRequired resolves the session cookie to a member and puts the actor
// into the request context. The member is confirmed to still exist so stale
// sessions of deleted accounts bounce.
func AuthRequired(appSess *session.AppSessionStore, repo *db.Repo) gin.HandlerFunc {
	return func(c *gin.Context) {
		ck, err := c.Request.Cookie(AppSessionCookie)
		if err != nil || ck.Value == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, H{"error": "unauthorized", "message": "sign in required"})
			return
		}
		as, err := appSess.Get(c.Request.Context(), ck.Value)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, H{"error": "unauthorized", "message": "invalid session"})
			return
		}

		m, err := repo.FindMemberByID(c.Request.Context(), as.MemberID)
		if err != nil {
			_ = appSess.Delete(c.Request.Context(), ck.Value)
			c.AbortWithStatusJSON(http.StatusUnauthorized, H{"error": "unauthorized", "message": "account no longer exists"})
			return
		}

		c.Set("actor", lifecycle.Actor{ID: m.ID, Name: m.UserFullName, IsAdmin: m.IsAdmin})
		c.Next()
	}
}

// OptionalAuth resolves the session cookie like AuthRequired but lets the
// request through without one. Used on signup, where an admin session turns
// the call into the add-member flow.
func OptionalAuth(appSess *session.AppSessionStore, repo *db.Repo) gin.HandlerFunc {
	return func(c *gin.Context) {
		ck, err := c.Request.Cookie(AppSessionCookie)
		if err != nil || ck.Value == "" {
			c.Next()
			return
		}
		as, err := appSess.Get(c.Request.Context(), ck.Value)
		if err != nil {
			c.Next()
			return
		}
		if m, err := repo.FindMemberByID(c.Request.Context(), as.MemberID); err == nil {
			c.Set("actor", lifecycle.Actor{ID: m.ID, Name: m.UserFullName, IsAdmin: m.IsAdmin})
		}
		c.Next()
	}
}

// ActorFrom reads the actor AuthRequired stored; ok is false on
// unauthenticated routes.
func ActorFrom(c *gin.Context) (lifecycle.Actor, bool) {
	v, ok := c.Get("actor")
	if !ok {
		return lifecycle.Actor{}, false
	}
	actor, ok := v.(lifecycle.Actor)
	return actor, ok
}

func AdminOnly() gin.HandlerFunc {
	return func(c *gin.Context) {
		actor, ok := ActorFrom(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, H{"error": "unauthorized", "message": "sign in required"})
			return
		}
		if !actor.IsAdmin {
			c.AbortWithStatusJSON(http.StatusForbidden, H{"error": "role", "message": "admin only"})
			return
		}
		c.Next()
	}
}
