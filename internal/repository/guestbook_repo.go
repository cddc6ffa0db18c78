package repository

import (
	"context"
	"strings"

	"github.com/Cheertaboi/coupon-ledger/internal/models"
	"github.com/Cheertaboi/coupon-ledger/pkg/db"
)

type GuestbookRepo struct{}

func NewGuestbookRepo() *GuestbookRepo {
	return &GuestbookRepo{}
}

func (r *GuestbookRepo) List(ctx context.Context, q db.DBTX) ([]models.GuestbookEntry, error) {
	rows, err := q.QueryContext(ctx, `SELECT id, message, created_at FROM guestbook ORDER BY created_at, id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	entries := []models.GuestbookEntry{}
	for rows.Next() {
		var e models.GuestbookEntry
		if err := rows.Scan(&e.ID, &e.Message, &e.CreatedAt); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

func (r *GuestbookRepo) Insert(ctx context.Context, q db.DBTX, message string) (*models.GuestbookEntry, error) {
	e := models.GuestbookEntry{Message: message}
	err := q.QueryRowContext(ctx,
		`INSERT INTO guestbook (message) VALUES ($1) RETURNING id, created_at`, message,
	).Scan(&e.ID, &e.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &e, nil
}

func (r *GuestbookRepo) DeleteAll(ctx context.Context, q db.DBTX) (int64, error) {
	res, err := q.ExecContext(ctx, `DELETE FROM guestbook`)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// DeleteByPrefix removes messages starting with prefix, matched literally.
func (r *GuestbookRepo) DeleteByPrefix(ctx context.Context, q db.DBTX, prefix string) (int64, error) {
	res, err := q.ExecContext(ctx, `DELETE FROM guestbook WHERE message LIKE $1 ESCAPE '\'`, likePrefix(prefix))
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func likePrefix(prefix string) string {
	return likeEscaper.Replace(prefix) + "%"
}
