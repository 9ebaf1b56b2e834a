package data

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/target/sharednav/internal/core"
	"github.com/target/sharednav/internal/data/pgxutil"
	"github.com/target/sharednav/internal/domain/model"
	apperrors "github.com/target/sharednav/internal/errors"
)

// DefaultUserProfileTable is the profile table created by the bundled migrations.
const DefaultUserProfileTable = "user_profiles"

const userProfileColumns = `id, object_id, email, display_name,
	COALESCE(department, ''), COALESCE(plant, ''),
	created_at, updated_at, is_active, last_sign_in_at`

var _ core.UserRepository = (*UserRepo)(nil)

// UserRepo persists user profiles. Lookups only see active profiles.
type UserRepo struct {
	DB           *sql.DB
	table        string
	timeProvider TimeProvider
}

// UserRepoOptions groups dependencies for NewUserRepo.
type UserRepoOptions struct {
	Table        string
	TimeProvider TimeProvider
}

// NewUserRepo creates a UserRepo; zero options fall back to the default table and real time.
func NewUserRepo(db *sql.DB, opts UserRepoOptions) *UserRepo {
	if opts.Table == "" {
		opts.Table = DefaultUserProfileTable
	}
	if opts.TimeProvider == nil {
		opts.TimeProvider = &RealTimeProvider{}
	}
	return &UserRepo{DB: db, table: opts.Table, timeProvider: opts.TimeProvider}
}

// GetByObjectID returns the active profile for objectID or core.ErrUserProfileNotFound.
func (r *UserRepo) GetByObjectID(ctx context.Context, objectID string) (*model.UserProfile, error) {
	return r.getOne(ctx, "object_id", objectID)
}

// GetByEmail returns the active profile for email (case-insensitive) or core.ErrUserProfileNotFound.
func (r *UserRepo) GetByEmail(ctx context.Context, email string) (*model.UserProfile, error) {
	return r.getOne(ctx, "lower(email)", strings.ToLower(strings.TrimSpace(email)))
}

func (r *UserRepo) getOne(ctx context.Context, column, value string) (*model.UserProfile, error) {
	if r.DB == nil {
		return nil, apperrors.DataSource(ErrNoDatabase, "get user profile")
	}
	var out *model.UserProfile
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		var qerr error
		out, qerr = selectProfile(ctx, conn, r.table, column, value)
		return qerr
	})
	if err != nil {
		return nil, r.mapErr(err, "get user profile")
	}
	return out, nil
}

// Create inserts p as a new active profile with a fresh id and sign-in timestamp.
func (r *UserRepo) Create(ctx context.Context, p *model.UserProfile) (*model.UserProfile, error) {
	if p == nil {
		return nil, apperrors.Validation("user profile is required")
	}
	if r.DB == nil {
		return nil, apperrors.DataSource(ErrNoDatabase, "create user profile")
	}
	now := r.timeProvider.Now().UTC()
	row := *p
	row.ID = uuid.New()
	row.IsActive = true
	row.CreatedAt = now
	row.LastSignInAt = &now
	row.UpdatedAt = nil

	var out *model.UserProfile
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		var qerr error
		out, qerr = insertProfile(ctx, conn, r.table, &row)
		return qerr
	})
	if err != nil {
		return nil, r.mapErr(err, "create user profile")
	}
	return out, nil
}

// Update rewrites the mutable fields of the profile identified by p.ID and
// stamps updated_at and last_sign_in_at.
func (r *UserRepo) Update(ctx context.Context, p *model.UserProfile) (*model.UserProfile, error) {
	if p == nil || p.ID == uuid.Nil {
		return nil, apperrors.Validation("user profile id is required")
	}
	if r.DB == nil {
		return nil, apperrors.DataSource(ErrNoDatabase, "update user profile")
	}
	now := r.timeProvider.Now().UTC()

	var out *model.UserProfile
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		var qerr error
		out, qerr = updateProfile(ctx, conn, r.table, p, now)
		return qerr
	})
	if err != nil {
		return nil, r.mapErr(err, "update user profile")
	}
	return out, nil
}

// Exists reports whether an active profile exists for objectID.
func (r *UserRepo) Exists(ctx context.Context, objectID string) (bool, error) {
	if r.DB == nil {
		return false, apperrors.DataSource(ErrNoDatabase, "check user profile")
	}
	var exists bool
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		var qerr error
		exists, qerr = profileExists(ctx, conn, r.table, objectID)
		return qerr
	})
	if err != nil {
		return false, r.mapErr(err, "check user profile")
	}
	return exists, nil
}

func (r *UserRepo) mapErr(err error, op string) error {
	if errors.Is(err, core.ErrUserProfileNotFound) {
		return err
	}
	mapped := apperrors.MapDBError(err)
	switch apperrors.GetCode(mapped) {
	case apperrors.ErrCodeConflict, apperrors.ErrCodeValidation, apperrors.ErrCodeTimeout, apperrors.ErrCodeCanceled:
		return fmt.Errorf("%s: %w", op, mapped)
	default:
		return apperrors.DataSource(mapped, op)
	}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanProfile(row rowScanner) (*model.UserProfile, error) {
	var p model.UserProfile
	if err := row.Scan(
		&p.ID, &p.ObjectID, &p.Email, &p.DisplayName,
		&p.Department, &p.Plant,
		&p.CreatedAt, &p.UpdatedAt, &p.IsActive, &p.LastSignInAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, core.ErrUserProfileNotFound
		}
		return nil, err
	}
	return &p, nil
}

func selectProfile(ctx context.Context, q querier, table, column, value string) (*model.UserProfile, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE %s = $1 AND is_active = TRUE LIMIT 1`,
		userProfileColumns, quoteTable(table), column)
	return scanProfile(q.QueryRow(ctx, query, value))
}

func insertProfile(ctx context.Context, q querier, table string, p *model.UserProfile) (*model.UserProfile, error) {
	query := fmt.Sprintf(`
		INSERT INTO %s (
			id, object_id, email, display_name, department, plant, created_at, is_active, last_sign_in_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING %s`, quoteTable(table), userProfileColumns)
	return scanProfile(q.QueryRow(ctx, query,
		p.ID, p.ObjectID, p.Email, p.DisplayName, p.Department, p.Plant,
		p.CreatedAt, p.IsActive, p.LastSignInAt,
	))
}

func updateProfile(
	ctx context.Context,
	q querier,
	table string,
	p *model.UserProfile,
	now time.Time,
) (*model.UserProfile, error) {
	query := fmt.Sprintf(`
		UPDATE %s SET
			email = $2, display_name = $3, department = $4, plant = $5,
			updated_at = $6, last_sign_in_at = $6
		WHERE id = $1
		RETURNING %s`, quoteTable(table), userProfileColumns)
	return scanProfile(q.QueryRow(ctx, query,
		p.ID, p.Email, p.DisplayName, p.Department, p.Plant, now,
	))
}

func profileExists(ctx context.Context, q querier, table, objectID string) (bool, error) {
	query := fmt.Sprintf(`SELECT EXISTS(SELECT 1 FROM %s WHERE object_id = $1 AND is_active = TRUE)`, quoteTable(table))
	var exists bool
	if err := q.QueryRow(ctx, query, objectID).Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}
