package repository

import (
	"context"

	"github.com/Cheertaboi/coupon-ledger/internal/models"
	"github.com/Cheertaboi/coupon-ledger/pkg/db"
)

const completedColumns = `id, issued_id, date, performer, content, amount, photo, created_at`

type CompletedRepo struct{}

func NewCompletedRepo() *CompletedRepo {
	return &CompletedRepo{}
}

func scanCompleted(row rowScanner) (*models.CompletedCoupon, error) {
	var c models.CompletedCoupon
	err := row.Scan(&c.ID, &c.IssuedID, &c.Date, &c.Performer, &c.Content, &c.Amount, &c.Photo, &c.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *CompletedRepo) list(ctx context.Context, q db.DBTX, query string, args ...any) ([]models.CompletedCoupon, error) {
	rows, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	coupons := []models.CompletedCoupon{}
	for rows.Next() {
		c, err := scanCompleted(rows)
		if err != nil {
			return nil, err
		}
		coupons = append(coupons, *c)
	}
	return coupons, rows.Err()
}

func (r *CompletedRepo) List(ctx context.Context, q db.DBTX) ([]models.CompletedCoupon, error) {
	return r.list(ctx, q, `SELECT `+completedColumns+` FROM completed_coupons ORDER BY id`)
}

func (r *CompletedRepo) ListByIssued(ctx context.Context, q db.DBTX, issuedID int64) ([]models.CompletedCoupon, error) {
	return r.list(ctx, q, `SELECT `+completedColumns+` FROM completed_coupons WHERE issued_id = $1 ORDER BY id`, issuedID)
}

func (r *CompletedRepo) Get(ctx context.Context, q db.DBTX, id int64) (*models.CompletedCoupon, error) {
	row := q.QueryRowContext(ctx, `SELECT `+completedColumns+` FROM completed_coupons WHERE id = $1`, id)
	c, err := scanCompleted(row)
	if err != nil {
		return nil, mapError(err)
	}
	return c, nil
}

// GetForUpdate reads the completion and locks its row for the rest of the transaction.
func (r *CompletedRepo) GetForUpdate(ctx context.Context, q db.DBTX, id int64) (*models.CompletedCoupon, error) {
	row := q.QueryRowContext(ctx, `SELECT `+completedColumns+` FROM completed_coupons WHERE id = $1 FOR UPDATE`, id)
	c, err := scanCompleted(row)
	if err != nil {
		return nil, mapError(err)
	}
	return c, nil
}

// CountByIssued counts the completions that reference issuedID.
func (r *CompletedRepo) CountByIssued(ctx context.Context, q db.DBTX, issuedID int64) (int64, error) {
	var n int64
	err := q.QueryRowContext(ctx, `SELECT COUNT(*) FROM completed_coupons WHERE issued_id = $1`, issuedID).Scan(&n)
	return n, err
}

func (r *CompletedRepo) Create(ctx context.Context, q db.DBTX, in models.CompletedInput) (*models.CompletedCoupon, error) {
	query := `
		INSERT INTO completed_coupons (issued_id, date, performer, content, amount, photo)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING ` + completedColumns

	row := q.QueryRowContext(ctx, query, in.IssuedID, in.Date, in.Performer, in.Content, in.Amount, in.Photo)
	c, err := scanCompleted(row)
	if err != nil {
		return nil, mapError(err)
	}
	return c, nil
}

func (r *CompletedRepo) Update(ctx context.Context, q db.DBTX, id int64, in models.CompletedInput) (*models.CompletedCoupon, error) {
	query := `
		UPDATE completed_coupons
		SET issued_id = $1, date = $2, performer = $3, content = $4, amount = $5, photo = $6
		WHERE id = $7
		RETURNING ` + completedColumns

	row := q.QueryRowContext(ctx, query, in.IssuedID, in.Date, in.Performer, in.Content, in.Amount, in.Photo, id)
	c, err := scanCompleted(row)
	if err != nil {
		return nil, mapError(err)
	}
	return c, nil
}

func (r *CompletedRepo) Delete(ctx context.Context, q db.DBTX, id int64) error {
	res, err := q.ExecContext(ctx, `DELETE FROM completed_coupons WHERE id = $1`, id)
	if err != nil {
		return mapError(err)
	}
	return expectAffected(res)
}

func (r *CompletedRepo) Count(ctx context.Context, q db.DBTX) (int64, error) {
	var n int64
	err := q.QueryRowContext(ctx, `SELECT COUNT(*) FROM completed_coupons`).Scan(&n)
	return n, err
}
