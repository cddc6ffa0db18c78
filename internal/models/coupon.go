package models

import "time"

// IssuedCoupon is work that has been authorized and credited to a worker.
// Its display position is not stored; see RankIssued.
type IssuedCoupon struct {
	ID        int64     `json:"id"`
	Date      string    `json:"date"`
	Worker    string    `json:"worker"`
	Content   string    `json:"content"`
	Amount    string    `json:"amount"`
	Issuer    *string   `json:"issuer"`
	CreatedAt time.Time `json:"created_at"`
}

// CompletedCoupon records work actually performed against an issued coupon.
type CompletedCoupon struct {
	ID        int64     `json:"id"`
	IssuedID  *int64    `json:"issued_id"`
	Date      string    `json:"date"`
	Performer *string   `json:"performer"`
	Content   string    `json:"content"`
	Amount    string    `json:"amount"`
	Photo     *string   `json:"photo"`
	CreatedAt time.Time `json:"created_at"`
}

// Ranked views carry the 1-based display order computed at read time.

type RankedIssued struct {
	IssuedCoupon
	Order int `json:"order"`
}

type RankedCompleted struct {
	CompletedCoupon
	Order int `json:"order"`
}

// DeleteResult describes the outcome of removing a completed coupon.
type DeleteResult struct {
	Message         string `json:"message"`
	Cascaded        bool   `json:"reorder"`
	DeletedIssuedID *int64 `json:"deletedIssuedId,omitempty"`
}
