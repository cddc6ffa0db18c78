package handlers

import (
	"context"
	"net/http"

	"go.uber.org/zap"

	"github.com/Cheertaboi/coupon-ledger/internal/models"
)

// LedgerService is what the coupon endpoints need from the service layer.
type LedgerService interface {
	ListIssued(ctx context.Context) ([]models.RankedIssued, error)
	ListCompleted(ctx context.Context) ([]models.RankedCompleted, error)
	ListCompletedForIssued(ctx context.Context, issuedID int64) ([]models.RankedCompleted, error)
	GetIssued(ctx context.Context, id int64) (*models.IssuedCoupon, error)
	GetCompleted(ctx context.Context, id int64) (*models.CompletedCoupon, error)
	CreateIssued(ctx context.Context, in models.IssuedInput) (*models.IssuedCoupon, error)
	CreateCompleted(ctx context.Context, in models.CompletedInput) (*models.CompletedCoupon, error)
	UpdateIssued(ctx context.Context, id int64, in models.IssuedInput) (*models.IssuedCoupon, error)
	UpdateCompleted(ctx context.Context, id int64, in models.CompletedInput) (*models.CompletedCoupon, error)
	DeleteIssued(ctx context.Context, id int64) error
	DeleteCompleted(ctx context.Context, id int64) (*models.DeleteResult, error)
}

type CouponHandler struct {
	service      LedgerService
	logger       *zap.Logger
	maxBodyBytes int64
}

func NewCouponHandler(svc LedgerService, logger *zap.Logger, maxBodyBytes int64) *CouponHandler {
	return &CouponHandler{
		service:      svc,
		logger:       logger,
		maxBodyBytes: maxBodyBytes,
	}
}

// ListIssued handles GET /coupons/issued
func (h *CouponHandler) ListIssued(w http.ResponseWriter, r *http.Request) {
	list, err := h.service.ListIssued(r.Context())
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

// ListCompleted handles GET /coupons/completed
func (h *CouponHandler) ListCompleted(w http.ResponseWriter, r *http.Request) {
	list, err := h.service.ListCompleted(r.Context())
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

// ListCompletedForIssued handles GET /coupons/issued/{id}/completed
func (h *CouponHandler) ListCompletedForIssued(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		writeMessage(w, http.StatusBadRequest, err.Error())
		return
	}
	list, err := h.service.ListCompletedForIssued(r.Context(), id)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

// GetIssued handles GET /coupons/issued/{id}
func (h *CouponHandler) GetIssued(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		writeMessage(w, http.StatusBadRequest, err.Error())
		return
	}
	c, err := h.service.GetIssued(r.Context(), id)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, c)
}

// GetCompleted handles GET /coupons/completed/{id}
func (h *CouponHandler) GetCompleted(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		writeMessage(w, http.StatusBadRequest, err.Error())
		return
	}
	c, err := h.service.GetCompleted(r.Context(), id)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, c)
}

// CreateIssued handles POST /coupons/issued
func (h *CouponHandler) CreateIssued(w http.ResponseWriter, r *http.Request) {
	var req models.IssuedInput
	if err := decodeBody(w, r, h.maxBodyBytes, &req); err != nil {
		writeMessage(w, http.StatusBadRequest, err.Error())
		return
	}
	c, err := h.service.CreateIssued(r.Context(), req)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusCreated, c)
}

// CreateCompleted handles POST /coupons/completed
func (h *CouponHandler) CreateCompleted(w http.ResponseWriter, r *http.Request) {
	var req models.CompletedInput
	if err := decodeBody(w, r, h.maxBodyBytes, &req); err != nil {
		writeMessage(w, http.StatusBadRequest, err.Error())
		return
	}
	c, err := h.service.CreateCompleted(r.Context(), req)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusCreated, c)
}

// UpdateIssued handles PUT /coupons/issued/{id}
func (h *CouponHandler) UpdateIssued(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		writeMessage(w, http.StatusBadRequest, err.Error())
		return
	}
	var req models.IssuedInput
	if err := decodeBody(w, r, h.maxBodyBytes, &req); err != nil {
		writeMessage(w, http.StatusBadRequest, err.Error())
		return
	}
	c, err := h.service.UpdateIssued(r.Context(), id, req)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, c)
}

// UpdateCompleted handles PUT /coupons/completed/{id}
// every field is replaced; the client resends issued_id and photo to keep them
func (h *CouponHandler) UpdateCompleted(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		writeMessage(w, http.StatusBadRequest, err.Error())
		return
	}
	var req models.CompletedInput
	if err := decodeBody(w, r, h.maxBodyBytes, &req); err != nil {
		writeMessage(w, http.StatusBadRequest, err.Error())
		return
	}
	c, err := h.service.UpdateCompleted(r.Context(), id, req)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, c)
}

// DeleteIssued handles DELETE /coupons/issued/{id}
func (h *CouponHandler) DeleteIssued(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		writeMessage(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := h.service.DeleteIssued(r.Context(), id); err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "coupon deleted"})
}

// DeleteCompleted handles DELETE /coupons/completed/{id}
// reorder=true tells the client the parent issued coupon went away too
func (h *CouponHandler) DeleteCompleted(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		writeMessage(w, http.StatusBadRequest, err.Error())
		return
	}
	res, err := h.service.DeleteCompleted(r.Context(), id)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}
