package repository

import (
	"context"

	"github.com/Cheertaboi/coupon-ledger/internal/models"
	"github.com/Cheertaboi/coupon-ledger/pkg/db"
)

const issuedColumns = `id, date, worker, content, amount, issuer, created_at`

type IssuedRepo struct{}

func NewIssuedRepo() *IssuedRepo {
	return &IssuedRepo{}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanIssued(row rowScanner) (*models.IssuedCoupon, error) {
	var c models.IssuedCoupon
	err := row.Scan(&c.ID, &c.Date, &c.Worker, &c.Content, &c.Amount, &c.Issuer, &c.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *IssuedRepo) List(ctx context.Context, q db.DBTX) ([]models.IssuedCoupon, error) {
	rows, err := q.QueryContext(ctx, `SELECT `+issuedColumns+` FROM issued_coupons ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	coupons := []models.IssuedCoupon{}
	for rows.Next() {
		c, err := scanIssued(rows)
		if err != nil {
			return nil, err
		}
		coupons = append(coupons, *c)
	}
	return coupons, rows.Err()
}

func (r *IssuedRepo) Get(ctx context.Context, q db.DBTX, id int64) (*models.IssuedCoupon, error) {
	row := q.QueryRowContext(ctx, `SELECT `+issuedColumns+` FROM issued_coupons WHERE id = $1`, id)
	c, err := scanIssued(row)
	if err != nil {
		return nil, mapError(err)
	}
	return c, nil
}

// LockForUpdate takes an exclusive row lock on the issued coupon until the
// surrounding transaction ends.
func (r *IssuedRepo) LockForUpdate(ctx context.Context, q db.DBTX, id int64) error {
	var got int64
	err := q.QueryRowContext(ctx, `SELECT id FROM issued_coupons WHERE id = $1 FOR UPDATE`, id).Scan(&got)
	return mapError(err)
}

// LockForShare blocks concurrent deletion of the issued coupon until the
// surrounding transaction ends.
func (r *IssuedRepo) LockForShare(ctx context.Context, q db.DBTX, id int64) error {
	var got int64
	err := q.QueryRowContext(ctx, `SELECT id FROM issued_coupons WHERE id = $1 FOR SHARE`, id).Scan(&got)
	return mapError(err)
}

func (r *IssuedRepo) Create(ctx context.Context, q db.DBTX, in models.IssuedInput) (*models.IssuedCoupon, error) {
	query := `
		INSERT INTO issued_coupons (date, worker, content, amount, issuer)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING ` + issuedColumns

	row := q.QueryRowContext(ctx, query, in.Date, in.Worker, in.Content, in.Amount, in.Issuer)
	c, err := scanIssued(row)
	if err != nil {
		return nil, mapError(err)
	}
	return c, nil
}

func (r *IssuedRepo) Update(ctx context.Context, q db.DBTX, id int64, in models.IssuedInput) (*models.IssuedCoupon, error) {
	query := `
		UPDATE issued_coupons
		SET date = $1, worker = $2, content = $3, amount = $4, issuer = $5
		WHERE id = $6
		RETURNING ` + issuedColumns

	row := q.QueryRowContext(ctx, query, in.Date, in.Worker, in.Content, in.Amount, in.Issuer, id)
	c, err := scanIssued(row)
	if err != nil {
		return nil, mapError(err)
	}
	return c, nil
}

func (r *IssuedRepo) Delete(ctx context.Context, q db.DBTX, id int64) error {
	res, err := q.ExecContext(ctx, `DELETE FROM issued_coupons WHERE id = $1`, id)
	if err != nil {
		return mapError(err)
	}
	return expectAffected(res)
}

func (r *IssuedRepo) Count(ctx context.Context, q db.DBTX) (int64, error) {
	var n int64
	err := q.QueryRowContext(ctx, `SELECT COUNT(*) FROM issued_coupons`).Scan(&n)
	return n, err
}
