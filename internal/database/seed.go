// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package database

import (
	"database/sql"
	"fmt"
	"log/slog"

	"golang.org/x/crypto/bcrypt"
)

// Seed credentials for the development author.
const (
	SeedEmail    = "demo@conduit.local"
	SeedUsername = "demo"
	seedPassword = "demo"
)

// Seed populates the database with initial development data: one author
// and a two-level category pair. It does nothing if any user exists.
func Seed(db *sql.DB) error {
	var count int
	if err := db.QueryRow("SELECT COUNT(*) FROM users").Scan(&count); err != nil {
		return fmt.Errorf("seed check users: %w", err)
	}

	if count > 0 {
		slog.Info("database already seeded, skipping")
		return nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(seedPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("seed bcrypt: %w", err)
	}

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("seed begin: %w", err)
	}
	defer tx.Rollback()

	var userID string
	if err := tx.QueryRow(`
		INSERT INTO users (email, password_hash) VALUES ($1, $2) RETURNING id
	`, SeedEmail, string(hash)).Scan(&userID); err != nil {
		return fmt.Errorf("seed insert user: %w", err)
	}

	if _, err := tx.Exec(`
		INSERT INTO profiles (user_id, username) VALUES ($1, $2)
	`, userID, SeedUsername); err != nil {
		return fmt.Errorf("seed insert profile: %w", err)
	}

	// Categories are only seeded when the table is empty so an existing
	// "news" category is never clobbered.
	if _, err := tx.Exec(`
		WITH root AS (
			INSERT INTO categories (name, slug)
			SELECT 'News', 'news'
			WHERE NOT EXISTS (SELECT 1 FROM categories)
			RETURNING id
		)
		INSERT INTO categories (name, slug, supercategory_id)
		SELECT 'Sports', 'news-sports', id FROM root
	`); err != nil {
		return fmt.Errorf("seed insert categories: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("seed commit: %w", err)
	}

	slog.Info("database seeded with demo author",
		"email", SeedEmail,
		"password", seedPassword,
	)
	return nil
}
