package handlers

import (
	"context"
	"net/http"

	"go.uber.org/zap"

	"github.com/Cheertaboi/coupon-ledger/internal/models"
)

type GuestbookService interface {
	List(ctx context.Context) ([]models.GuestbookEntry, error)
	Append(ctx context.Context, message string) (*models.GuestbookEntry, error)
	DeleteAll(ctx context.Context) (int64, error)
	DeleteTestEntries(ctx context.Context, prefix string) (int64, error)
}

type AppendMessageRequest struct {
	Message string `json:"message"`
}

type BulkDeleteResponse struct {
	Message string `json:"message"`
	Deleted int64  `json:"deleted"`
}

type GuestbookHandler struct {
	service      GuestbookService
	logger       *zap.Logger
	maxBodyBytes int64
}

func NewGuestbookHandler(svc GuestbookService, logger *zap.Logger, maxBodyBytes int64) *GuestbookHandler {
	return &GuestbookHandler{
		service:      svc,
		logger:       logger,
		maxBodyBytes: maxBodyBytes,
	}
}

// List handles GET /guestbook
func (h *GuestbookHandler) List(w http.ResponseWriter, r *http.Request) {
	entries, err := h.service.List(r.Context())
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, entries)
}

// Append handles POST /guestbook
func (h *GuestbookHandler) Append(w http.ResponseWriter, r *http.Request) {
	var req AppendMessageRequest
	if err := decodeBody(w, r, h.maxBodyBytes, &req); err != nil {
		writeMessage(w, http.StatusBadRequest, err.Error())
		return
	}
	e, err := h.service.Append(r.Context(), req.Message)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusCreated, e)
}

// DeleteAll handles DELETE /guestbook/all
func (h *GuestbookHandler) DeleteAll(w http.ResponseWriter, r *http.Request) {
	n, err := h.service.DeleteAll(r.Context())
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, BulkDeleteResponse{Message: "all guestbook entries deleted", Deleted: n})
}

// DeleteTestEntries handles DELETE /guestbook/test
// ?prefix= overrides the configured test prefix
func (h *GuestbookHandler) DeleteTestEntries(w http.ResponseWriter, r *http.Request) {
	n, err := h.service.DeleteTestEntries(r.Context(), r.URL.Query().Get("prefix"))
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, BulkDeleteResponse{Message: "test entries deleted", Deleted: n})
}
