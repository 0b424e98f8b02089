package suppliers

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

var (
	// ErrNotFound indicates the supplier does not exist.
	ErrNotFound = errors.New("suppliers: supplier not found")
	// ErrReferenced indicates the supplier still has products attached.
	ErrReferenced = errors.New("suppliers: supplier has products and cannot be deleted")
	// ErrDuplicateCNPJ indicates another supplier already uses the CNPJ.
	ErrDuplicateCNPJ = errors.New("suppliers: cnpj already registered")
)

// Repository persists suppliers.
type Repository interface {
	List(ctx context.Context, search string) ([]Supplier, error)
	Get(ctx context.Context, id int64) (Supplier, error)
	Create(ctx context.Context, s Supplier) (Supplier, error)
	Update(ctx context.Context, id int64, s Supplier) error
	Delete(ctx context.Context, id int64) error
}

type repository struct {
	db *pgxpool.Pool
}

// NewRepository constructs Repository.
func NewRepository(db *pgxpool.Pool) Repository {
	return &repository{db: db}
}

const supplierColumns = `id, trade_name, legal_name, cnpj, email, phone, city, state, created_at, updated_at`

func (r *repository) List(ctx context.Context, search string) ([]Supplier, error) {
	query := `SELECT ` + supplierColumns + ` FROM suppliers`
	args := []interface{}{}
	if search != "" {
		query += ` WHERE trade_name ILIKE $1 OR legal_name ILIKE $1 OR cnpj ILIKE $1`
		args = append(args, "%"+search+"%")
	}
	query += ` ORDER BY trade_name`

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var list []Supplier
	for rows.Next() {
		s, err := scanSupplier(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, s)
	}
	return list, rows.Err()
}

func (r *repository) Get(ctx context.Context, id int64) (Supplier, error) {
	row := r.db.QueryRow(ctx, `SELECT `+supplierColumns+` FROM suppliers WHERE id = $1`, id)
	s, err := scanSupplier(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Supplier{}, ErrNotFound
		}
		return Supplier{}, err
	}
	return s, nil
}

func (r *repository) Create(ctx context.Context, s Supplier) (Supplier, error) {
	now := time.Now()
	err := r.db.QueryRow(ctx, `
		INSERT INTO suppliers (trade_name, legal_name, cnpj, email, phone, city, state, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id`,
		s.TradeName, s.LegalName, s.CNPJ, s.Email, s.Phone, s.City, s.State, now, now).
		Scan(&s.ID)
	if err != nil {
		return Supplier{}, mapPgError(err)
	}
	s.CreatedAt = now
	s.UpdatedAt = now
	return s, nil
}

func (r *repository) Update(ctx context.Context, id int64, s Supplier) error {
	tag, err := r.db.Exec(ctx, `
		UPDATE suppliers SET
			trade_name = $1, legal_name = $2, cnpj = $3, email = $4,
			phone = $5, city = $6, state = $7, updated_at = $8
		WHERE id = $9`,
		s.TradeName, s.LegalName, s.CNPJ, s.Email, s.Phone, s.City, s.State, time.Now(), id)
	if err != nil {
		return mapPgError(err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *repository) Delete(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM suppliers WHERE id = $1`, id)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23503" {
			return ErrReferenced
		}
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func mapPgError(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return ErrDuplicateCNPJ
	}
	return err
}

func scanSupplier(row pgx.Row) (Supplier, error) {
	var s Supplier
	err := row.Scan(&s.ID, &s.TradeName, &s.LegalName, &s.CNPJ, &s.Email, &s.Phone,
		&s.City, &s.State, &s.CreatedAt, &s.UpdatedAt)
	return s, err
}
