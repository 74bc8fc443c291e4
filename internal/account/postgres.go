package account

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	_ "github.com/jackc/pgx/v5/stdlib"

	"accountd.org/internal/ids"
)

// PostgresStore implements Store using PostgreSQL. The unique index on
// accounts.email is the authoritative uniqueness enforcement point; a
// violation surfacing from the write itself maps to ErrEmailTaken.
type PostgresStore struct {
	db *sql.DB
}

var _ Store = (*PostgresStore)(nil)

// OpenPostgres connects to PostgreSQL with tuned pool defaults.
func OpenPostgres(dsn string) (*PostgresStore, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(50)
	db.SetMaxIdleConns(25)
	db.SetConnMaxLifetime(15 * time.Minute)
	db.SetConnMaxIdleTime(5 * time.Minute)
	return &PostgresStore{db: db}, nil
}

// NewPostgresStore wraps an existing database handle.
func NewPostgresStore(db *sql.DB) *PostgresStore { return &PostgresStore{db: db} }

func (s *PostgresStore) Close() error { return s.db.Close() }

func (s *PostgresStore) DB() *sql.DB { return s.db }

const accountColumns = `id, email, first_name, last_name, password_digest, created_at, updated_at`

func (s *PostgresStore) Create(ctx context.Context, acc *Account) error {
	if acc.ID == "" {
		acc.ID = ids.New()
	}
	_, err := s.db.ExecContext(ctx,
		`insert into accounts(id, email, first_name, last_name, password_digest, created_at, updated_at)
		 values($1,$2,$3,$4,$5,$6,$7)`,
		acc.ID, acc.Email, acc.FirstName, acc.LastName, acc.PasswordDigest, acc.CreatedAt, acc.UpdatedAt,
	)
	if isUniqueViolation(err) {
		return fmt.Errorf("%w: %s", ErrEmailTaken, acc.Email)
	}
	return err
}

func (s *PostgresStore) FindByID(ctx context.Context, id string) (*Account, error) {
	row := s.db.QueryRowContext(ctx,
		`select `+accountColumns+` from accounts where id=$1`, id)
	return scanAccount(row)
}

func (s *PostgresStore) FindByEmail(ctx context.Context, email string) (*Account, error) {
	row := s.db.QueryRowContext(ctx,
		`select `+accountColumns+` from accounts where email=$1`, email)
	return scanAccount(row)
}

func (s *PostgresStore) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	var exists bool
	err := s.db.QueryRowContext(ctx,
		`select exists(select 1 from accounts where email=$1)`, email).Scan(&exists)
	return exists, err
}

func (s *PostgresStore) List(ctx context.Context, opts ListOptions) ([]*Account, int, error) {
	var total int
	if err := s.db.QueryRowContext(ctx, `select count(*) from accounts`).Scan(&total); err != nil {
		return nil, 0, err
	}

	// Sort keys are a fixed whitelist, never caller text, so building the
	// order clause by concatenation is safe here.
	orderBy := "created_at asc, id asc"
	if opts.Sort != "" {
		direction := "asc"
		if opts.Desc {
			direction = "desc"
		}
		orderBy = string(opts.Sort) + " " + direction + ", id asc"
	}
	query := `select ` + accountColumns + ` from accounts order by ` + orderBy
	args := []any{}
	if opts.Limit > 0 {
		args = append(args, opts.Limit)
		query += fmt.Sprintf(" limit $%d", len(args))
	}
	if opts.Offset > 0 {
		args = append(args, opts.Offset)
		query += fmt.Sprintf(" offset $%d", len(args))
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var accounts []*Account
	for rows.Next() {
		var acc Account
		if err := rows.Scan(&acc.ID, &acc.Email, &acc.FirstName, &acc.LastName,
			&acc.PasswordDigest, &acc.CreatedAt, &acc.UpdatedAt); err != nil {
			return nil, 0, err
		}
		accounts = append(accounts, &acc)
	}
	return accounts, total, rows.Err()
}

func (s *PostgresStore) Update(ctx context.Context, acc *Account) error {
	res, err := s.db.ExecContext(ctx,
		`update accounts set email=$2, first_name=$3, last_name=$4, password_digest=$5, updated_at=$6
		 where id=$1`,
		acc.ID, acc.Email, acc.FirstName, acc.LastName, acc.PasswordDigest, acc.UpdatedAt,
	)
	if isUniqueViolation(err) {
		return fmt.Errorf("%w: %s", ErrEmailTaken, acc.Email)
	}
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *PostgresStore) Delete(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `delete from accounts where id=$1`, id)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanAccount(row rowScanner) (*Account, error) {
	var acc Account
	err := row.Scan(&acc.ID, &acc.Email, &acc.FirstName, &acc.LastName,
		&acc.PasswordDigest, &acc.CreatedAt, &acc.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &acc, nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation
}
