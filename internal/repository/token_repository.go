package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"
)

var ErrTokenNotFound = errors.New("refresh token not found")

// TokenRepo stores refresh tokens. Only the SHA-256 hash of a token is
// persisted; the raw value goes back to the client once and is never kept.
type TokenRepo struct{ DB *sql.DB }

func NewTokenRepo(db *sql.DB) *TokenRepo { return &TokenRepo{DB: db} }

// StoreRefresh saves a hashed refresh token for a user.
func (r *TokenRepo) StoreRefresh(ctx context.Context, userID uint64, hash string, exp time.Time) error {
	const q = `INSERT INTO refresh_tokens (user_id, token_hash, expires_at) VALUES (?, ?, ?)`
	_, err := r.DB.ExecContext(ctx, q, userID, hash, exp.UTC())
	return err
}

// FindValid returns the owning user ID for an unexpired, unrevoked token
// hash, or ErrTokenNotFound.
func (r *TokenRepo) FindValid(ctx context.Context, hash string) (uint64, error) {
	const q = `SELECT user_id FROM refresh_tokens
	           WHERE token_hash = ? AND revoked_at IS NULL AND expires_at > UTC_TIMESTAMP()`
	var userID uint64
	err := r.DB.QueryRowContext(ctx, q, hash).Scan(&userID)
	if err == sql.ErrNoRows {
		return 0, ErrTokenNotFound
	}
	if err != nil {
		return 0, err
	}
	return userID, nil
}

// Revoke marks a single token hash revoked. Revoking an unknown or already
// revoked hash affects no rows and returns ErrTokenNotFound.
func (r *TokenRepo) Revoke(ctx context.Context, hash string) error {
	const q = `UPDATE refresh_tokens SET revoked_at = UTC_TIMESTAMP()
	           WHERE token_hash = ? AND revoked_at IS NULL`
	res, err := r.DB.ExecContext(ctx, q, hash)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrTokenNotFound
	}
	return nil
}
