package controllers

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"Gin_postgres_redis_library/app"
	"Gin_postgres_redis_library/lifecycle"
)

func Test_signupIsAdmin(t *testing.T) {
	cfg := app.Config{AdminEmails: []string{"root@example.com"}}

	tests := []struct {
		name      string
		email     string
		requested bool
		actor     lifecycle.Actor
		authed    bool
		want      bool
	}{
		{
			name:  "plain_signup",
			email: "maya@example.com",
		},
		{
			// Self-granting admin on an anonymous signup must be ignored.
			name:      "anonymous_requests_admin",
			email:     "maya@example.com",
			requested: true,
		},
		{
			name:      "member_requests_admin_for_new_account",
			email:     "maya@example.com",
			requested: true,
			actor:     lifecycle.Actor{ID: "u1"},
			authed:    true,
		},
		{
			name:      "admin_creates_admin",
			email:     "maya@example.com",
			requested: true,
			actor:     lifecycle.Actor{ID: "u2", IsAdmin: true},
			authed:    true,
			want:      true,
		},
		{
			// An admin session alone does not promote the account.
			name:   "admin_creates_regular_member",
			email:  "maya@example.com",
			actor:  lifecycle.Actor{ID: "u2", IsAdmin: true},
			authed: true,
		},
		{
			name:  "bootstrap_email_always_admin",
			email: "root@example.com",
			want:  true,
		},
		{
			name:  "bootstrap_email_case_insensitive",
			email: "Root@Example.com",
			want:  true,
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := signupIsAdmin(cfg, tc.email, tc.requested, tc.actor, tc.authed)
			assert.Equal(t, tc.want, got)
		})
	}
}
