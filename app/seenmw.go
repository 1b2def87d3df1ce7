package app

import (
	"time"

	"Gin_postgres_redis_library/db"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

// TouchLastSeen stamps the member's last-seen time at most once per throttle
// window, gated by a Redis SetNX so hot members don't hammer the DB.
func TouchLastSeen(repo *db.Repo, rdb *redis.Client, throttle time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		actor, ok := ActorFrom(c)
		if !ok || actor.ID == "" {
			c.Next()
			return
		}

		key := "lib:lastseen:" + actor.ID
		if ok, _ := rdb.SetNX(c, key, "1", throttle).Result(); ok {
			_ = repo.TouchMemberSeen(c, actor.ID) // best effort, never blocks the request
		}
		c.Next()
	}
}
