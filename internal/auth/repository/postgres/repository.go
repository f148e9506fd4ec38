package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/Mollylil16/developpement-farm-sub012/internal/auth/domain"
)

// Querier is the subset of pgxpool.Pool the repository needs; pgxmock
// satisfies it in tests.
type Querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Begin(ctx context.Context) (pgx.Tx, error)
}

type PostgresRepository struct {
	db Querier
}

func NewPostgresRepository(db Querier) *PostgresRepository {
	return &PostgresRepository{db: db}
}

const userColumns = `id, COALESCE(email, ''), COALESCE(telephone, ''), COALESCE(prenom, ''),
		COALESCE(nom, ''), COALESCE(password_hash, ''), COALESCE(provider, ''),
		COALESCE(provider_id, ''), roles, last_connection, created_at, updated_at`

func (r *PostgresRepository) FindByEmail(ctx context.Context, email string, includeSecret bool) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE email = $1 LIMIT 1`
	return r.scanUser(r.db.QueryRow(ctx, query, email), includeSecret)
}

func (r *PostgresRepository) FindByTelephone(ctx context.Context, telephone string, includeSecret bool) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE telephone = $1 LIMIT 1`
	return r.scanUser(r.db.QueryRow(ctx, query, telephone), includeSecret)
}

func (r *PostgresRepository) FindByID(ctx context.Context, id string) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1 LIMIT 1`
	return r.scanUser(r.db.QueryRow(ctx, query, id), false)
}

func (r *PostgresRepository) scanUser(row pgx.Row, includeSecret bool) (*domain.User, error) {
	var user domain.User
	err := row.Scan(&user.ID, &user.Email, &user.Telephone, &user.FirstName, &user.LastName,
		&user.PasswordHash, &user.Provider, &user.ProviderID, &user.Roles,
		&user.LastConnection, &user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to scan user: %w", err)
	}

	if !includeSecret {
		user.PasswordHash = ""
	}

	return &user, nil
}

func (r *PostgresRepository) Create(ctx context.Context, user *domain.User) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO users (id, email, telephone, prenom, nom, password_hash, provider, provider_id, roles, created_at, updated_at)
		VALUES ($1, NULLIF($2, ''), NULLIF($3, ''), NULLIF($4, ''), NULLIF($5, ''), NULLIF($6, ''), $7, NULLIF($8, ''), $9, $10, $11)
	`, user.ID, user.Email, user.Telephone, user.FirstName, user.LastName,
		user.PasswordHash, user.Provider, user.ProviderID, user.Roles, user.CreatedAt, user.UpdatedAt)

	return err
}

func (r *PostgresRepository) UpdatePassword(ctx context.Context, id, passwordHash string) error {
	_, err := r.db.Exec(ctx, `
		UPDATE users SET password_hash = $2, updated_at = now() WHERE id = $1
	`, id, passwordHash)

	return err
}

func (r *PostgresRepository) UpdateLastConnection(ctx context.Context, id string) error {
	_, err := r.db.Exec(ctx, `
		UPDATE users SET last_connection = now() WHERE id = $1
	`, id)

	return err
}

// Delete removes the user inside one transaction. Projects and dependent
// records are declared ON DELETE CASCADE, so the row delete is the whole
// operation.
func (r *PostgresRepository) Delete(ctx context.Context, id string) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM users WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete user: %w", err)
	}

	return tx.Commit(ctx)
}

func (r *PostgresRepository) Store(ctx context.Context, rt *domain.RefreshToken) error {
	query := `INSERT INTO refresh_tokens (id, user_id, token_hash, ip_address, user_agent, expires_at, created_at, revoked)
	          VALUES ($1, $2, $3, NULLIF($4, ''), NULLIF($5, ''), $6, $7, $8)`
	_, err := r.db.Exec(ctx, query,
		rt.ID, rt.UserID, rt.TokenHash, rt.IPAddress, rt.UserAgent,
		rt.ExpiresAt, rt.CreatedAt, rt.Revoked)

	return err
}

func (r *PostgresRepository) ListActive(ctx context.Context, now time.Time) ([]*domain.RefreshToken, error) {
	query := `
		SELECT id, user_id, token_hash, COALESCE(ip_address, ''), COALESCE(user_agent, ''),
		       expires_at, last_used_at, created_at, revoked
		FROM refresh_tokens
		WHERE revoked = false AND expires_at > $1
	`

	rows, err := r.db.Query(ctx, query, now)
	if err != nil {
		return nil, fmt.Errorf("failed to list refresh tokens: %w", err)
	}
	defer rows.Close()

	var tokens []*domain.RefreshToken
	for rows.Next() {
		var rt domain.RefreshToken
		if err := rows.Scan(&rt.ID, &rt.UserID, &rt.TokenHash, &rt.IPAddress, &rt.UserAgent,
			&rt.ExpiresAt, &rt.LastUsedAt, &rt.CreatedAt, &rt.Revoked); err != nil {
			return nil, fmt.Errorf("failed to scan refresh token: %w", err)
		}
		tokens = append(tokens, &rt)
	}

	return tokens, rows.Err()
}

func (r *PostgresRepository) Revoke(ctx context.Context, id string) error {
	_, err := r.db.Exec(ctx, `UPDATE refresh_tokens SET revoked = true WHERE id = $1`, id)
	return err
}

func (r *PostgresRepository) TouchUsage(ctx context.Context, id, ipAddress string) error {
	_, err := r.db.Exec(ctx, `
		UPDATE refresh_tokens
		SET last_used_at = now(), ip_address = COALESCE(NULLIF($2, ''), ip_address)
		WHERE id = $1
	`, id, ipAddress)

	return err
}

func (r *PostgresRepository) Insert(ctx context.Context, record *domain.OtpRecord) error {
	query := `INSERT INTO otp_records (id, identifier, channel, purpose, code_hash, code_salt,
	              ip_address, user_agent, expires_at, attempt_count, max_attempts, created_at)
	          VALUES ($1, $2, $3, $4, $5, $6, NULLIF($7, ''), NULLIF($8, ''), $9, $10, $11, $12)`
	_, err := r.db.Exec(ctx, query,
		record.ID, record.Identifier, record.Channel, record.Purpose, record.CodeHash,
		record.CodeSalt, record.IPAddress, record.UserAgent, record.ExpiresAt,
		record.AttemptCount, record.MaxAttempts, record.CreatedAt)

	return err
}

// FindLatestActive tolerates duplicate records from retried requests by
// always picking the most recent unconsumed one.
func (r *PostgresRepository) FindLatestActive(ctx context.Context, identifier, purpose string) (*domain.OtpRecord, error) {
	query := `
		SELECT id, identifier, channel, purpose, code_hash, code_salt,
		       COALESCE(ip_address, ''), COALESCE(user_agent, ''),
		       expires_at, consumed_at, attempt_count, max_attempts, created_at
		FROM otp_records
		WHERE identifier = $1 AND purpose = $2 AND consumed_at IS NULL
		ORDER BY created_at DESC
		LIMIT 1
	`

	var record domain.OtpRecord
	err := r.db.QueryRow(ctx, query, identifier, purpose).Scan(
		&record.ID, &record.Identifier, &record.Channel, &record.Purpose,
		&record.CodeHash, &record.CodeSalt, &record.IPAddress, &record.UserAgent,
		&record.ExpiresAt, &record.ConsumedAt, &record.AttemptCount, &record.MaxAttempts,
		&record.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find otp record: %w", err)
	}

	return &record, nil
}

// IncrementAttempts charges one attempt in a single conditional statement so
// concurrent guesses cannot push the counter past the budget.
func (r *PostgresRepository) IncrementAttempts(ctx context.Context, id string) (int, error) {
	query := `
		UPDATE otp_records
		SET attempt_count = attempt_count + 1
		WHERE id = $1 AND attempt_count < max_attempts
		RETURNING attempt_count
	`

	var count int
	err := r.db.QueryRow(ctx, query, id).Scan(&count)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			// Budget already exhausted; leave the counter where it is.
			return 0, nil
		}
		return 0, fmt.Errorf("failed to increment otp attempts: %w", err)
	}

	return count, nil
}

func (r *PostgresRepository) Consume(ctx context.Context, id string, at time.Time) (bool, error) {
	tag, err := r.db.Exec(ctx, `
		UPDATE otp_records SET consumed_at = $2 WHERE id = $1 AND consumed_at IS NULL
	`, id, at)
	if err != nil {
		return false, err
	}

	return tag.RowsAffected() > 0, nil
}

func (r *PostgresRepository) Save(ctx context.Context, record *domain.PasswordResetOtp) error {
	query := `INSERT INTO password_reset_otps (id, user_id, telephone, otp, type, expires_at, created_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7)`
	_, err := r.db.Exec(ctx, query,
		record.ID, record.UserID, record.Telephone, record.Otp, record.Type,
		record.ExpiresAt, record.CreatedAt)

	return err
}

func (r *PostgresRepository) FindLatest(ctx context.Context, telephone string) (*domain.PasswordResetOtp, error) {
	query := `
		SELECT id, user_id, telephone, otp, type, expires_at, created_at
		FROM password_reset_otps
		WHERE telephone = $1
		ORDER BY created_at DESC
		LIMIT 1
	`

	var record domain.PasswordResetOtp
	err := r.db.QueryRow(ctx, query, telephone).Scan(
		&record.ID, &record.UserID, &record.Telephone, &record.Otp, &record.Type,
		&record.ExpiresAt, &record.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find reset otp: %w", err)
	}

	return &record, nil
}

func (r *PostgresRepository) Remove(ctx context.Context, id string) error {
	_, err := r.db.Exec(ctx, `DELETE FROM password_reset_otps WHERE id = $1`, id)
	return err
}

func (r *PostgresRepository) RecordLoginAttempt(ctx context.Context, identifier, ipAddress string, successful bool) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO login_attempts (id, identifier, ip_address, attempt_time, successful)
		VALUES (gen_random_uuid(), $1, $2, now(), $3)
	`, identifier, ipAddress, successful)

	return err
}
