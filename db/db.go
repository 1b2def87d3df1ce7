package db

import (
	"fmt"
	"log"
	"os"

	"Gin_postgres_redis_library/models"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var DB *gorm.DB

func ConnectDB() *gorm.DB {
	dsn := fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%s sslmode=disable",
		os.Getenv("DB_HOST"),
		os.Getenv("DB_USER"),
		os.Getenv("DB_PASSWORD"),
		os.Getenv("DB_NAME"),
		os.Getenv("DB_PORT"),
	)

	var err error
	DB, err = gorm.Open(postgres.Open(dsn), &gorm.Config{TranslateError: true})
	if err != nil {
		log.Fatal("Failed to connect to database: ", err)
	}

	if err := Migrate(DB); err != nil {
		log.Fatal("Failed to migrate models: ", err)
	}
	log.Println("Database connected")
	return DB
}

func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&models.Member{},
		&models.Category{},
		&models.Book{},
		&models.Transaction{},
	); err != nil {
		return err
	}

	// A member holds at most one open (Pending or Active) record per book,
	// so a double-submitted request cannot pile up duplicates.
	if err := db.Exec(fmt.Sprintf(`
	  CREATE UNIQUE INDEX IF NOT EXISTS %s_one_open_per_member_book
	  ON %s (user_id, book_id)
	  WHERE transaction_status IN ('Pending', 'Active');
	`, models.TransactionTable, models.TransactionTable)).Error; err != nil {
		return err
	}

	// Approval queue and return workflow scan by status + age.
	if err := db.Exec(fmt.Sprintf(`
	  CREATE INDEX IF NOT EXISTS %s_status_createdat
	  ON %s (transaction_status, created_at);
	`, models.TransactionTable, models.TransactionTable)).Error; err != nil {
		return err
	}

	return nil
}
