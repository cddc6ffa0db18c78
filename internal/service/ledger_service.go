package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/Cheertaboi/coupon-ledger/internal/concurrency"
	"github.com/Cheertaboi/coupon-ledger/internal/models"
	"github.com/Cheertaboi/coupon-ledger/pkg/db"
)

// Transactor hands out the connection pool and runs transactions.
type Transactor interface {
	DB() db.DBTX
	WithTx(ctx context.Context, fn func(q db.DBTX) error) error
}

// Repos required by the service (interfaces so they can be faked in tests)

type IssuedRepo interface {
	List(ctx context.Context, q db.DBTX) ([]models.IssuedCoupon, error)
	Get(ctx context.Context, q db.DBTX, id int64) (*models.IssuedCoupon, error)
	LockForUpdate(ctx context.Context, q db.DBTX, id int64) error
	LockForShare(ctx context.Context, q db.DBTX, id int64) error
	Create(ctx context.Context, q db.DBTX, in models.IssuedInput) (*models.IssuedCoupon, error)
	Update(ctx context.Context, q db.DBTX, id int64, in models.IssuedInput) (*models.IssuedCoupon, error)
	Delete(ctx context.Context, q db.DBTX, id int64) error
	Count(ctx context.Context, q db.DBTX) (int64, error)
}

type CompletedRepo interface {
	List(ctx context.Context, q db.DBTX) ([]models.CompletedCoupon, error)
	ListByIssued(ctx context.Context, q db.DBTX, issuedID int64) ([]models.CompletedCoupon, error)
	Get(ctx context.Context, q db.DBTX, id int64) (*models.CompletedCoupon, error)
	GetForUpdate(ctx context.Context, q db.DBTX, id int64) (*models.CompletedCoupon, error)
	CountByIssued(ctx context.Context, q db.DBTX, issuedID int64) (int64, error)
	Create(ctx context.Context, q db.DBTX, in models.CompletedInput) (*models.CompletedCoupon, error)
	Update(ctx context.Context, q db.DBTX, id int64, in models.CompletedInput) (*models.CompletedCoupon, error)
	Delete(ctx context.Context, q db.DBTX, id int64) error
	Count(ctx context.Context, q db.DBTX) (int64, error)
}

const deletedMessage = "coupon deleted"

// LedgerService owns issued and completed coupons. Display order is
// computed on every read and never stored.
type LedgerService struct {
	tx        Transactor
	issued    IssuedRepo
	completed CompletedRepo
	locks     *concurrency.KeyedMutex
	logger    *zap.Logger
}

func NewLedgerService(tx Transactor, issued IssuedRepo, completed CompletedRepo, logger *zap.Logger) *LedgerService {
	return &LedgerService{
		tx:        tx,
		issued:    issued,
		completed: completed,
		locks:     concurrency.NewKeyedMutex(),
		logger:    logger,
	}
}

func (s *LedgerService) ListIssued(ctx context.Context) ([]models.RankedIssued, error) {
	coupons, err := s.issued.List(ctx, s.tx.DB())
	if err != nil {
		return nil, translate("list issued coupons", err)
	}
	return models.RankIssued(coupons), nil
}

func (s *LedgerService) ListCompleted(ctx context.Context) ([]models.RankedCompleted, error) {
	coupons, err := s.completed.List(ctx, s.tx.DB())
	if err != nil {
		return nil, translate("list completed coupons", err)
	}
	return models.RankCompleted(coupons), nil
}

// ListCompletedForIssued returns the completions grouped under one issued
// coupon, ranked within the group.
func (s *LedgerService) ListCompletedForIssued(ctx context.Context, issuedID int64) ([]models.RankedCompleted, error) {
	q := s.tx.DB()
	if _, err := s.issued.Get(ctx, q, issuedID); err != nil {
		return nil, translate(issuedOp(issuedID), err)
	}
	coupons, err := s.completed.ListByIssued(ctx, q, issuedID)
	if err != nil {
		return nil, translate("list completions of "+issuedOp(issuedID), err)
	}
	return models.RankCompleted(coupons), nil
}

func (s *LedgerService) GetIssued(ctx context.Context, id int64) (*models.IssuedCoupon, error) {
	c, err := s.issued.Get(ctx, s.tx.DB(), id)
	if err != nil {
		return nil, translate(issuedOp(id), err)
	}
	return c, nil
}

func (s *LedgerService) GetCompleted(ctx context.Context, id int64) (*models.CompletedCoupon, error) {
	c, err := s.completed.Get(ctx, s.tx.DB(), id)
	if err != nil {
		return nil, translate(completedOp(id), err)
	}
	return c, nil
}

func (s *LedgerService) CreateIssued(ctx context.Context, in models.IssuedInput) (*models.IssuedCoupon, error) {
	if err := validation(in.MissingFields()); err != nil {
		return nil, err
	}
	c, err := s.issued.Create(ctx, s.tx.DB(), in.Normalize())
	if err != nil {
		return nil, translate("create issued coupon", err)
	}
	s.logger.Info("issued coupon created", zap.Int64("id", c.ID))
	return c, nil
}

// CreateCompleted records a completion against an existing issued coupon.
// The issued row is share-locked so a concurrent cascade cannot remove it
// between the check and the insert.
func (s *LedgerService) CreateCompleted(ctx context.Context, in models.CompletedInput) (*models.CompletedCoupon, error) {
	in = in.Normalize()
	if err := validation(in.MissingFields(true)); err != nil {
		return nil, err
	}
	issuedID := *in.IssuedID

	unlock := s.locks.Lock(issuedID)
	defer unlock()

	var created *models.CompletedCoupon
	err := s.tx.WithTx(ctx, func(q db.DBTX) error {
		if err := s.issued.LockForShare(ctx, q, issuedID); err != nil {
			return translate(issuedOp(issuedID), err)
		}
		c, err := s.completed.Create(ctx, q, in)
		if err != nil {
			return translate("create completed coupon", err)
		}
		created = c
		return nil
	})
	if err != nil {
		return nil, translate("create completed coupon", err)
	}

	s.logger.Info("completed coupon created", zap.Int64("id", created.ID), zap.Int64("issued_id", issuedID))
	return created, nil
}

func (s *LedgerService) UpdateIssued(ctx context.Context, id int64, in models.IssuedInput) (*models.IssuedCoupon, error) {
	if err := validation(in.MissingFields()); err != nil {
		return nil, err
	}
	c, err := s.issued.Update(ctx, s.tx.DB(), id, in.Normalize())
	if err != nil {
		return nil, translate(issuedOp(id), err)
	}
	return c, nil
}

// UpdateCompleted replaces every field of the completion. Omitted optional
// fields are cleared; carrying them over is up to the caller.
func (s *LedgerService) UpdateCompleted(ctx context.Context, id int64, in models.CompletedInput) (*models.CompletedCoupon, error) {
	in = in.Normalize()
	if err := validation(in.MissingFields(false)); err != nil {
		return nil, err
	}

	if in.IssuedID != nil {
		unlock := s.locks.Lock(*in.IssuedID)
		defer unlock()
	}

	var updated *models.CompletedCoupon
	err := s.tx.WithTx(ctx, func(q db.DBTX) error {
		if in.IssuedID != nil {
			if err := s.issued.LockForShare(ctx, q, *in.IssuedID); err != nil {
				return translate(issuedOp(*in.IssuedID), err)
			}
		}
		c, err := s.completed.Update(ctx, q, id, in)
		if err != nil {
			return translate(completedOp(id), err)
		}
		updated = c
		return nil
	})
	if err != nil {
		return nil, translate(completedOp(id), err)
	}
	return updated, nil
}

// DeleteIssued removes an issued coupon. Its completions are kept; the
// store clears their reference.
func (s *LedgerService) DeleteIssued(ctx context.Context, id int64) error {
	unlock := s.locks.Lock(id)
	defer unlock()

	if err := s.issued.Delete(ctx, s.tx.DB(), id); err != nil {
		return translate(issuedOp(id), err)
	}
	s.logger.Info("issued coupon deleted", zap.Int64("id", id))
	return nil
}

// DeleteCompleted removes a completion. When it was the only completion of
// its issued coupon, the issued coupon is removed in the same transaction.
//
// The completion row and then its issued row are locked FOR UPDATE before
// counting, so concurrent deletes and inserts under the same issued coupon
// observe each other's committed effects.
func (s *LedgerService) DeleteCompleted(ctx context.Context, id int64) (*models.DeleteResult, error) {
	current, err := s.completed.Get(ctx, s.tx.DB(), id)
	if err != nil {
		return nil, translate(completedOp(id), err)
	}
	if current.IssuedID != nil {
		unlock := s.locks.Lock(*current.IssuedID)
		defer unlock()
	}

	result := &models.DeleteResult{Message: deletedMessage}
	err = s.tx.WithTx(ctx, func(q db.DBTX) error {
		c, err := s.completed.GetForUpdate(ctx, q, id)
		if err != nil {
			return translate(completedOp(id), err)
		}

		if c.IssuedID == nil {
			return translate(completedOp(id), s.completed.Delete(ctx, q, id))
		}
		issuedID := *c.IssuedID

		if err := s.issued.LockForUpdate(ctx, q, issuedID); err != nil {
			return translate(issuedOp(issuedID), err)
		}

		count, err := s.completed.CountByIssued(ctx, q, issuedID)
		if err != nil {
			return translate("count completions of "+issuedOp(issuedID), err)
		}

		if err := s.completed.Delete(ctx, q, id); err != nil {
			return translate(completedOp(id), err)
		}

		if count == 1 {
			if err := s.issued.Delete(ctx, q, issuedID); err != nil {
				return translate(issuedOp(issuedID), err)
			}
			result.Cascaded = true
			result.DeletedIssuedID = &issuedID
		}
		return nil
	})
	if err != nil {
		return nil, translate(completedOp(id), err)
	}

	fields := []zap.Field{zap.Int64("id", id), zap.Bool("cascaded", result.Cascaded)}
	if result.DeletedIssuedID != nil {
		fields = append(fields, zap.Int64("deleted_issued_id", *result.DeletedIssuedID))
	}
	s.logger.Info("completed coupon deleted", fields...)
	return result, nil
}

func issuedOp(id int64) string {
	return fmt.Sprintf("issued coupon %d", id)
}

func completedOp(id int64) string {
	return fmt.Sprintf("completed coupon %d", id)
}
