package postgresql

import (
	"context"
	"crypto/sha256"
	"encoding/base64"
	"time"

	"github.com/attendly/attendly-backend-go/internal/domain/auth"
	"github.com/attendly/attendly-backend-go/internal/pkg/database"
)

// JWTRepository persists refresh tokens. Only a SHA-256 digest of the
// token ever reaches the database; callers pass the raw token string.
type JWTRepository interface {
	CreateRefreshToken(ctx context.Context, userID string, token string, expiresAt int64, sessionReq auth.SessionTrackingRequest) error
	IsRefreshTokenRevoked(ctx context.Context, token string) (bool, error)
	RevokeRefreshToken(ctx context.Context, token string) error
}

type jwtRepositoryImpl struct {
	db *database.DB
}

func NewJWTRepository(db *database.DB) JWTRepository {
	return &jwtRepositoryImpl{db: db}
}

// hashRefreshToken digests a raw refresh token into the stored form.
func hashRefreshToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return base64.RawURLEncoding.EncodeToString(sum[:])
}

// CreateRefreshToken implements JWTRepository. Session metadata is kept
// alongside the token so operators can audit where a session came from.
func (j *jwtRepositoryImpl) CreateRefreshToken(ctx context.Context, userID string, token string, expiresAt int64, sessionReq auth.SessionTrackingRequest) error {
	q := GetQuerier(ctx, j.db)

	query := `
		INSERT INTO refresh_tokens (user_id, token_hash, expires_at, ip_address, user_agent)
		VALUES ($1, $2, $3, $4, $5)
	`

	_, err := q.Exec(ctx, query,
		userID,
		hashRefreshToken(token),
		time.Unix(expiresAt, 0).UTC(),
		sessionReq.IPAddress,
		sessionReq.UserAgent,
	)
	return err
}

// IsRefreshTokenRevoked implements JWTRepository. A token counts as
// revoked once revoked_at is set or its expiry has passed; the check
// lives in SQL so the row never crosses the wire. Unknown tokens surface
// as pgx.ErrNoRows for the caller to translate.
func (j *jwtRepositoryImpl) IsRefreshTokenRevoked(ctx context.Context, token string) (bool, error) {
	q := GetQuerier(ctx, j.db)

	query := `
		SELECT revoked_at IS NOT NULL OR expires_at <= NOW()
		FROM refresh_tokens
		WHERE token_hash = $1
	`

	var revoked bool
	if err := q.QueryRow(ctx, query, hashRefreshToken(token)).Scan(&revoked); err != nil {
		return false, err
	}
	return revoked, nil
}

// RevokeRefreshToken implements JWTRepository.
func (j *jwtRepositoryImpl) RevokeRefreshToken(ctx context.Context, token string) error {
	q := GetQuerier(ctx, j.db)

	query := `
		UPDATE refresh_tokens
		SET revoked_at = NOW()
		WHERE token_hash = $1 AND revoked_at IS NULL
	`

	_, err := q.Exec(ctx, query, hashRefreshToken(token))
	return err
}
