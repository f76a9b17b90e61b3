package db

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/yatube/yatube-services/models"
)

// GetUserByUsername retrieves a single user.
func (db *BlogDB) GetUserByUsername(username string) (*models.User, error) {
	var u models.User
	err := db.DB.QueryRow(`SELECT id, username FROM users WHERE username = $1`, username).
		Scan(&u.ID, &u.Username)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("user %q: %w", username, ErrUserNotFound)
		}
		return nil, fmt.Errorf("error scanning user: %w", err)
	}
	return &u, nil
}

// EnsureUser returns the user with the given username, creating it on
// first sight. Identities are issued elsewhere, so the username from a
// verified token is enough to materialise an author.
func (db *BlogDB) EnsureUser(username string) (*models.User, error) {
	tx, err := db.DB.Begin()
	if err != nil {
		return nil, fmt.Errorf("error starting transaction: %w", err)
	}

	err = db.execQuery(tx, `
		INSERT INTO users (username)
		VALUES ($1)
		ON CONFLICT (username) DO NOTHING`,
		username)
	if err != nil {
		tx.Rollback()
		return nil, err
	}

	var u models.User
	if err := tx.QueryRow(`SELECT id, username FROM users WHERE username = $1`, username).
		Scan(&u.ID, &u.Username); err != nil {
		tx.Rollback()
		return nil, fmt.Errorf("error scanning user: %w", err)
	}

	if err := db.CommitTransaction(tx); err != nil {
		return nil, err
	}
	return &u, nil
}
