// app/bootstrap.go
package app

import (
	"context"
	"log"

	"Gin_postgres_redis_library/db"
	"Gin_postgres_redis_library/models"
)

// BootstrapFirstAdmin promotes already-registered accounts whose email is in
// ADMIN_EMAILS. Run at startup so the first librarian can be minted by env
// var instead of by hand in the database.
func BootstrapFirstAdmin(ctx context.Context, cfg Config, repo *db.Repo) {
	if len(cfg.AdminEmails) == 0 {
		return
	}
	for _, email := range cfg.AdminEmails {
		m, err := repo.FindMemberByEmail(ctx, email)
		if err != nil {
			continue // not signed up yet; signup will mint them as admin
		}
		if m.IsAdmin {
			continue
		}
		if err := repo.DB.WithContext(ctx).Model(&models.Member{}).
			Where("id = ?", m.ID).
			Update("is_admin", true).Error; err != nil {
			log.Printf("bootstrap admin %s: %v", email, err)
			continue
		}
		log.Printf("[BOOTSTRAP] promoted %s to admin", email)
	}
}
