// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package points

import (
	"database/sql"
	"fmt"
)

// Execer is satisfied by both *sql.DB and *sql.Tx so a credit can run
// inside the submit transaction.
type Execer interface {
	Exec(query string, args ...any) (sql.Result, error)
}

// Credit adds one point to the user's balance.
func Credit(db Execer, email string) error {
	_, err := db.Exec(`UPDATE users SET point = point + 1 WHERE email = $1`, email)
	if err != nil {
		return fmt.Errorf("failed to credit point: %w", err)
	}
	return nil
}

// Debit removes one point from the user's balance. A zero balance is
// left untouched; the no-op is not an error.
func Debit(db Execer, email string) error {
	_, err := db.Exec(`UPDATE users SET point = point - 1 WHERE email = $1 AND point > 0`, email)
	if err != nil {
		return fmt.Errorf("failed to debit point: %w", err)
	}
	return nil
}

// Balance returns the user's current point balance.
func Balance(db *sql.DB, email string) (int, error) {
	var point int
	err := db.QueryRow(`SELECT point FROM users WHERE email = $1`, email).Scan(&point)
	if err != nil {
		return 0, fmt.Errorf("failed to read point balance: %w", err)
	}
	return point, nil
}
