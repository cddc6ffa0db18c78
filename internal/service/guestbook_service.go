package service

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/Cheertaboi/coupon-ledger/internal/models"
	"github.com/Cheertaboi/coupon-ledger/pkg/db"
)

type GuestbookRepo interface {
	List(ctx context.Context, q db.DBTX) ([]models.GuestbookEntry, error)
	Insert(ctx context.Context, q db.DBTX, message string) (*models.GuestbookEntry, error)
	DeleteAll(ctx context.Context, q db.DBTX) (int64, error)
	DeleteByPrefix(ctx context.Context, q db.DBTX, prefix string) (int64, error)
}

// GuestbookService is an append-only message log with bulk cleanup.
type GuestbookService struct {
	tx         Transactor
	repo       GuestbookRepo
	testPrefix string
	logger     *zap.Logger
}

// NewGuestbookService builds the service. testPrefix marks messages left
// behind by manual testing; see DeleteTestEntries.
func NewGuestbookService(tx Transactor, repo GuestbookRepo, testPrefix string, logger *zap.Logger) *GuestbookService {
	return &GuestbookService{
		tx:         tx,
		repo:       repo,
		testPrefix: testPrefix,
		logger:     logger,
	}
}

func (s *GuestbookService) List(ctx context.Context) ([]models.GuestbookEntry, error) {
	entries, err := s.repo.List(ctx, s.tx.DB())
	if err != nil {
		return nil, translate("list guestbook", err)
	}
	return entries, nil
}

// Append stores message with surrounding whitespace removed.
func (s *GuestbookService) Append(ctx context.Context, message string) (*models.GuestbookEntry, error) {
	message = strings.TrimSpace(message)
	if message == "" {
		return nil, validation([]string{"message"})
	}
	e, err := s.repo.Insert(ctx, s.tx.DB(), message)
	if err != nil {
		return nil, translate("append guestbook", err)
	}
	s.logger.Info("guestbook entry added", zap.Int64("id", e.ID))
	return e, nil
}

func (s *GuestbookService) DeleteAll(ctx context.Context) (int64, error) {
	n, err := s.repo.DeleteAll(ctx, s.tx.DB())
	if err != nil {
		return 0, translate("delete guestbook", err)
	}
	s.logger.Info("guestbook cleared", zap.Int64("deleted", n))
	return n, nil
}

// DeleteByPrefix removes every message that starts with prefix. An empty
// prefix is rejected rather than treated as "everything".
func (s *GuestbookService) DeleteByPrefix(ctx context.Context, prefix string) (int64, error) {
	if prefix == "" {
		return 0, validation([]string{"prefix"})
	}
	n, err := s.repo.DeleteByPrefix(ctx, s.tx.DB(), prefix)
	if err != nil {
		return 0, translate("delete guestbook by prefix", err)
	}
	s.logger.Info("guestbook entries deleted", zap.String("prefix", prefix), zap.Int64("deleted", n))
	return n, nil
}

// DeleteTestEntries removes messages starting with prefix, or with the
// configured test prefix when prefix is empty.
func (s *GuestbookService) DeleteTestEntries(ctx context.Context, prefix string) (int64, error) {
	if prefix == "" {
		prefix = s.testPrefix
	}
	return s.DeleteByPrefix(ctx, prefix)
}
