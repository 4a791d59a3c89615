package pgstore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrymomot/mfakit/modules/mfa"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Schema creates the mfa_settings table. The unique index on
// (user_id, method) enforces the one-row-per-pair invariant at the database
// level rather than in application logic.
const Schema = `
CREATE TABLE IF NOT EXISTS mfa_settings (
	id              UUID PRIMARY KEY,
	user_id         TEXT NOT NULL,
	method          TEXT NOT NULL,
	status          TEXT NOT NULL,
	secret          TEXT,
	phone_number    TEXT,
	email_address   TEXT,
	backup_codes    TEXT[],
	failed_attempts INT NOT NULL DEFAULT 0,
	locked_until    TIMESTAMPTZ,
	last_used       TIMESTAMPTZ,
	created_at      TIMESTAMPTZ NOT NULL,
	updated_at      TIMESTAMPTZ NOT NULL,
	UNIQUE (user_id, method)
);`

const settingColumns = `id, user_id, method, status, secret, phone_number, email_address,
	backup_codes, failed_attempts, locked_until, last_used, created_at, updated_at`

// Store is a PostgreSQL-backed mfa.Store. Counter updates run as single
// conditional UPDATE statements, so concurrent wrong-code attempts cannot
// race past the lockout threshold through lost updates.
type Store struct {
	db *pgxpool.Pool
}

// New creates a Store on top of an existing connection pool.
func New(db *pgxpool.Pool) *Store {
	if db == nil {
		panic("pgstore: db cannot be nil")
	}
	return &Store{db: db}
}

// CreateSchema applies the table definition. Intended for tests and small
// deployments; larger ones run their own migrations.
func (s *Store) CreateSchema(ctx context.Context) error {
	_, err := s.db.Exec(ctx, Schema)
	return err
}

func (s *Store) FindOne(ctx context.Context, userID string, method mfa.Method) (*mfa.Setting, error) {
	row := s.db.QueryRow(ctx,
		`SELECT `+settingColumns+` FROM mfa_settings WHERE user_id = $1 AND method = $2`,
		userID, string(method),
	)
	return scanSetting(row)
}

func (s *Store) FindByUser(ctx context.Context, userID string) ([]*mfa.Setting, error) {
	rows, err := s.db.Query(ctx,
		`SELECT `+settingColumns+` FROM mfa_settings WHERE user_id = $1`,
		userID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var settings []*mfa.Setting
	for rows.Next() {
		setting, err := scanSetting(rows)
		if err != nil {
			return nil, err
		}
		settings = append(settings, setting)
	}
	return settings, rows.Err()
}

func (s *Store) Upsert(ctx context.Context, setting *mfa.Setting) error {
	secret, phone, email, backupCodes, err := factorColumns(setting)
	if err != nil {
		return err
	}

	_, err = s.db.Exec(ctx, `
		INSERT INTO mfa_settings (`+settingColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		ON CONFLICT (user_id, method) DO UPDATE SET
			status = EXCLUDED.status,
			secret = EXCLUDED.secret,
			phone_number = EXCLUDED.phone_number,
			email_address = EXCLUDED.email_address,
			backup_codes = EXCLUDED.backup_codes,
			failed_attempts = EXCLUDED.failed_attempts,
			locked_until = EXCLUDED.locked_until,
			last_used = EXCLUDED.last_used,
			updated_at = EXCLUDED.updated_at`,
		setting.ID, setting.UserID, string(setting.Method), string(setting.Status),
		secret, phone, email, backupCodes,
		setting.FailedAttempts, setting.LockedUntil, setting.LastUsed,
		setting.CreatedAt, setting.UpdatedAt,
	)
	return err
}

func (s *Store) RecordFailure(ctx context.Context, userID string, method mfa.Method, maxAttempts int, lockedUntil time.Time) (*mfa.Setting, error) {
	row := s.db.QueryRow(ctx, `
		UPDATE mfa_settings SET
			failed_attempts = failed_attempts + 1,
			locked_until = CASE WHEN failed_attempts + 1 >= $3 THEN $4 ELSE locked_until END,
			updated_at = now()
		WHERE user_id = $1 AND method = $2
		RETURNING `+settingColumns,
		userID, string(method), maxAttempts, lockedUntil,
	)
	return scanSetting(row)
}

func (s *Store) RecordSuccess(ctx context.Context, userID string, method mfa.Method, usedAt time.Time) (*mfa.Setting, error) {
	row := s.db.QueryRow(ctx, `
		UPDATE mfa_settings SET
			failed_attempts = 0,
			locked_until = NULL,
			last_used = $3,
			updated_at = $3
		WHERE user_id = $1 AND method = $2
		RETURNING `+settingColumns,
		userID, string(method), usedAt,
	)
	return scanSetting(row)
}

// factorColumns flattens the method-specific variant into the nullable
// columns of the row.
func factorColumns(setting *mfa.Setting) (secret, phone, email *string, backupCodes []string, err error) {
	switch factor := setting.Factor.(type) {
	case mfa.TOTPFactor:
		secret = &factor.Secret
	case mfa.SMSFactor:
		phone = &factor.Phone
	case mfa.EmailFactor:
		email = &factor.Address
	case mfa.BackupCodesFactor:
		backupCodes = factor.Codes
	default:
		err = fmt.Errorf("%w: %q", mfa.ErrUnsupportedMethod, setting.Method)
	}
	return
}

func scanSetting(row pgx.Row) (*mfa.Setting, error) {
	var (
		setting     mfa.Setting
		method      string
		status      string
		secret      *string
		phone       *string
		email       *string
		backupCodes []string
	)
	err := row.Scan(
		&setting.ID, &setting.UserID, &method, &status,
		&secret, &phone, &email, &backupCodes,
		&setting.FailedAttempts, &setting.LockedUntil, &setting.LastUsed,
		&setting.CreatedAt, &setting.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, mfa.ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	setting.Method = mfa.Method(method)
	setting.Status = mfa.Status(status)

	switch setting.Method {
	case mfa.MethodTOTP:
		if secret != nil {
			setting.Factor = mfa.TOTPFactor{Secret: *secret}
		}
	case mfa.MethodSMS:
		if phone != nil {
			setting.Factor = mfa.SMSFactor{Phone: *phone}
		}
	case mfa.MethodEmail:
		if email != nil {
			setting.Factor = mfa.EmailFactor{Address: *email}
		}
	case mfa.MethodBackupCode:
		setting.Factor = mfa.BackupCodesFactor{Codes: backupCodes}
	}

	return &setting, nil
}
