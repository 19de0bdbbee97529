package postgresql

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/attendly/attendly-backend-go/internal/domain/auth"
	"github.com/attendly/attendly-backend-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
	pgxmock "github.com/pashagolub/pgxmock/v4"
)

func newMockJWTRepo(t *testing.T) (pgxmock.PgxPoolIface, JWTRepository) {
	t.Helper()

	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("failed to create mock pool: %v", err)
	}
	t.Cleanup(mock.Close)

	return mock, NewJWTRepository(database.NewDB(mock))
}

func TestJWTRepository_CreateRefreshToken_StoresHash(t *testing.T) {
	t.Parallel()

	mock, repo := newMockJWTRepo(t)

	expiresAt := time.Date(2026, 7, 21, 9, 0, 0, 0, time.UTC)
	mock.ExpectExec(`INSERT INTO refresh_tokens`).
		WithArgs("user-1", hashRefreshToken("raw-token"), pgxmock.AnyArg(), "10.0.0.1", "cli-test").
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	err := repo.CreateRefreshToken(context.Background(), "user-1", "raw-token", expiresAt.Unix(), auth.SessionTrackingRequest{
		IPAddress: "10.0.0.1",
		UserAgent: "cli-test",
	})
	if err != nil {
		t.Fatalf("CreateRefreshToken returned error: %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestJWTRepository_IsRefreshTokenRevoked(t *testing.T) {
	t.Parallel()

	mock, repo := newMockJWTRepo(t)

	mock.ExpectQuery(`SELECT revoked_at IS NOT NULL OR expires_at <= NOW\(\)`).
		WithArgs(hashRefreshToken("live-token")).
		WillReturnRows(pgxmock.NewRows([]string{"revoked"}).AddRow(false))

	revoked, err := repo.IsRefreshTokenRevoked(context.Background(), "live-token")
	if err != nil {
		t.Fatalf("IsRefreshTokenRevoked returned error: %v", err)
	}
	if revoked {
		t.Fatal("expected live token")
	}

	mock.ExpectQuery(`SELECT revoked_at IS NOT NULL OR expires_at <= NOW\(\)`).
		WithArgs(hashRefreshToken("dead-token")).
		WillReturnRows(pgxmock.NewRows([]string{"revoked"}).AddRow(true))

	revoked, err = repo.IsRefreshTokenRevoked(context.Background(), "dead-token")
	if err != nil {
		t.Fatalf("IsRefreshTokenRevoked returned error: %v", err)
	}
	if !revoked {
		t.Fatal("expected revoked token")
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestJWTRepository_IsRefreshTokenRevoked_UnknownToken(t *testing.T) {
	t.Parallel()

	mock, repo := newMockJWTRepo(t)

	mock.ExpectQuery(`SELECT revoked_at IS NOT NULL`).
		WithArgs(hashRefreshToken("unknown")).
		WillReturnError(pgx.ErrNoRows)

	_, err := repo.IsRefreshTokenRevoked(context.Background(), "unknown")
	if !errors.Is(err, pgx.ErrNoRows) {
		t.Fatalf("expected pgx.ErrNoRows, got %v", err)
	}
}

func TestJWTRepository_RevokeRefreshToken(t *testing.T) {
	t.Parallel()

	mock, repo := newMockJWTRepo(t)

	mock.ExpectExec(`UPDATE refresh_tokens`).
		WithArgs(hashRefreshToken("raw-token")).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	if err := repo.RevokeRefreshToken(context.Background(), "raw-token"); err != nil {
		t.Fatalf("RevokeRefreshToken returned error: %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}
