package app

import (
	"context"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"Gin_postgres_redis_library/db"
	"Gin_postgres_redis_library/lifecycle"
	"Gin_postgres_redis_library/session"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Aliases so handlers stay short.
type Ctx = gin.Context
type H = gin.H

// App aggregates the service dependencies.
type App struct {
	Router *gin.Engine
	DB     *gorm.DB
	RDB    *redis.Client
	Config Config

	appSess *session.AppSessionStore
}

// Config is read from the environment.
type Config struct {
	RedisAddr   string
	RedisPwd    string
	WebOrigin   string
	SessionTTL  time.Duration
	AdminEmails []string
	FinePerDay  int64
}

func (a *App) AppSessions() *session.AppSessionStore { return a.appSess }

func MustNew() *App {
	cfg := loadConfig()

	dbConn := db.ConnectDB()

	rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr, Password: cfg.RedisPwd, DB: 0})
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		log.Fatalf("redis: %v", err)
	}

	r := gin.Default()
	useCORS(r, cfg.WebOrigin)

	return &App{
		Router: r, DB: dbConn, RDB: rdb, Config: cfg,
		appSess: session.NewAppSessionStore(rdb, cfg.SessionTTL),
	}
}

func (a *App) Close() { _ = a.RDB.Close() }

func loadConfig() Config {
	get := func(k, def string) string {
		v := os.Getenv(k)
		if v == "" {
			return def
		}
		return v
	}

	ttl := 24 * time.Hour
	if s := os.Getenv("SESSION_TTL_SECONDS"); s != "" {
		if d, err := time.ParseDuration(s + "s"); err == nil {
			ttl = d
		}
	}

	fine := lifecycle.DefaultDailyFine
	if s := os.Getenv("FINE_PER_DAY"); s != "" {
		if n, err := strconv.ParseInt(s, 10, 64); err == nil && n >= 0 {
			fine = n
		}
	}

	// ADMIN_EMAILS, e.g. "librarian@ex.com,ops@ex.com": signups with these
	// addresses become admins.
	var admins []string
	for _, s := range strings.Split(os.Getenv("ADMIN_EMAILS"), ",") {
		if t := strings.TrimSpace(s); t != "" {
			admins = append(admins, strings.ToLower(t))
		}
	}

	return Config{
		RedisAddr:   get("REDIS_ADDR", "127.0.0.1:6379"),
		RedisPwd:    os.Getenv("REDIS_PASSWORD"),
		WebOrigin:   get("WEB_ORIGIN", "http://localhost:3000"),
		SessionTTL:  ttl,
		AdminEmails: admins,
		FinePerDay:  fine,
	}
}

// IsAdminEmail reports whether the address is configured as an admin.
func (c Config) IsAdminEmail(email string) bool {
	email = strings.ToLower(email)
	for _, a := range c.AdminEmails {
		if a == email {
			return true
		}
	}
	return false
}
