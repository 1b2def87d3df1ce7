package controllers

import (
	"net/http"

	"Gin_postgres_redis_library/app"

	"github.com/gin-gonic/gin"
)

type MemberController struct{ *Srv }

func NewMemberController(s *Srv) *MemberController { return &MemberController{Srv: s} }

// ListMembers pages non-admin members for the admin dashboard; ?q= matches
// name, email, or identifying code.
func (mc *MemberController) ListMembers(c *gin.Context) {
	page, limit := pageParams(c)
	members, total, err := mc.Repo.ListMembers(c.Request.Context(), c.Query("q"), page, limit)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, listPayload(members, page, limit, total))
}

// GetMember returns the dashboard view: the member plus their pending /
// active / previous transactions with running fines. Members can fetch
// themselves; admins can fetch anyone — the engine enforces that.
func (mc *MemberController) GetMember(c *gin.Context) {
	actor, ok := app.ActorFrom(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, app.H{"error": "unauthorized", "message": "sign in required"})
		return
	}
	view, err := mc.Engine.GetMemberView(c.Request.Context(), actor, c.Param("id"))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

// RemoveMember deletes the account and revokes every session it holds.
func (mc *MemberController) RemoveMember(c *gin.Context) {
	id := c.Param("id")
	if err := mc.Repo.DeleteMemberByID(c.Request.Context(), id); err != nil {
		fail(c, err)
		return
	}
	_ = mc.AppSess.RevokeAllForMember(c.Request.Context(), id)
	c.JSON(http.StatusOK, app.H{"ok": true})
}
