package db

import (
	"database/sql"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// SeedData populates the database with the initial faculty accounts
func SeedData(db *sql.DB) error {
	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("error starting transaction: %w", err)
	}

	faculty := []struct {
		ID        string
		FirstName string
		Email     string
		Password  string
	}{
		{"FAC-101", "Alice", "alice.smith@university.edu", "changeme1"},
		{"FAC-102", "John", "john.doe@university.edu", "changeme2"},
	}

	for _, f := range faculty {
		hash, err := bcrypt.GenerateFromPassword([]byte(f.Password), bcrypt.DefaultCost)
		if err != nil {
			tx.Rollback()
			return fmt.Errorf("error hashing seed password: %w", err)
		}
		_, err = tx.Exec(
			`INSERT INTO faculty (id, first_name, email, password_hash)
			 VALUES ($1, $2, $3, $4) ON CONFLICT DO NOTHING`,
			f.ID, f.FirstName, f.Email, string(hash),
		)
		if err != nil {
			tx.Rollback()
			return fmt.Errorf("error seeding faculty: %w", err)
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("error committing transaction: %w", err)
	}

	return nil
}
