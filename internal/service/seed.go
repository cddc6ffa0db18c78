package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/Cheertaboi/coupon-ledger/internal/models"
	"github.com/Cheertaboi/coupon-ledger/pkg/db"
)

func strPtr(s string) *string { return &s }

var seedIssued = []models.IssuedInput{
	{Date: "25.11.15.", Worker: "유다연", Content: "웹디자인", Amount: "3시금(1시간 30분)", Issuer: strPtr("박중현")},
	{Date: "25.11.07.", Worker: "이동식", Content: "퍼포먼스촬영", Amount: "5시금", Issuer: strPtr("타이")},
}

var seedCompleted = models.CompletedInput{
	Date: "25.12.10.", Performer: strPtr("정지윤"), Content: "카레만들기", Amount: "3시금(1시간 30분)",
}

// SeedIfEmpty fills an empty ledger with sample coupons. It reports whether
// anything was written.
func (s *LedgerService) SeedIfEmpty(ctx context.Context) (bool, error) {
	seeded := false
	err := s.tx.WithTx(ctx, func(q db.DBTX) error {
		issuedCount, err := s.issued.Count(ctx, q)
		if err != nil {
			return err
		}
		completedCount, err := s.completed.Count(ctx, q)
		if err != nil {
			return err
		}
		if issuedCount > 0 || completedCount > 0 {
			return nil
		}

		var first *models.IssuedCoupon
		for _, in := range seedIssued {
			c, err := s.issued.Create(ctx, q, in)
			if err != nil {
				return err
			}
			if first == nil {
				first = c
			}
		}

		completion := seedCompleted
		completion.IssuedID = &first.ID
		if _, err := s.completed.Create(ctx, q, completion); err != nil {
			return err
		}
		seeded = true
		return nil
	})
	if err != nil {
		return false, translate("seed ledger", err)
	}
	if seeded {
		s.logger.Info("ledger seeded", zap.Int("issued", len(seedIssued)), zap.Int("completed", 1))
	}
	return seeded, nil
}
