package models

import "strings"

// IssuedInput is the full set of writable issued coupon fields.
type IssuedInput struct {
	Date    string  `json:"date"`
	Worker  string  `json:"worker"`
	Content string  `json:"content"`
	Amount  string  `json:"amount"`
	Issuer  *string `json:"issuer"`
}

// CompletedInput is the full set of writable completed coupon fields.
type CompletedInput struct {
	IssuedID  *int64  `json:"issued_id"`
	Date      string  `json:"date"`
	Performer *string `json:"performer"`
	Content   string  `json:"content"`
	Amount    string  `json:"amount"`
	Photo     *string `json:"photo"`
}

// MissingFields returns the names of required fields that are empty.
func (in IssuedInput) MissingFields() []string {
	var missing []string
	for _, f := range []struct {
		name, value string
	}{
		{"date", in.Date},
		{"worker", in.Worker},
		{"content", in.Content},
		{"amount", in.Amount},
	} {
		if blank(f.value) {
			missing = append(missing, f.name)
		}
	}
	return missing
}

// Normalize drops an empty issuer so it is stored as null.
func (in IssuedInput) Normalize() IssuedInput {
	in.Issuer = optional(in.Issuer)
	return in
}

// MissingFields returns the names of required fields that are empty.
// requireIssued is false for updates, where the reference may be cleared.
func (in CompletedInput) MissingFields(requireIssued bool) []string {
	var missing []string
	if blank(in.Date) {
		missing = append(missing, "date")
	}
	if blank(in.Content) {
		missing = append(missing, "content")
	}
	if blank(in.Amount) {
		missing = append(missing, "amount")
	}
	if requireIssued && (in.IssuedID == nil || *in.IssuedID <= 0) {
		missing = append(missing, "issued_id")
	}
	return missing
}

// Normalize turns empty optional fields into nulls.
func (in CompletedInput) Normalize() CompletedInput {
	if in.IssuedID != nil && *in.IssuedID <= 0 {
		in.IssuedID = nil
	}
	in.Performer = optional(in.Performer)
	in.Photo = optional(in.Photo)
	return in
}

func blank(s string) bool {
	return strings.TrimSpace(s) == ""
}

func optional(s *string) *string {
	if s == nil || blank(*s) {
		return nil
	}
	return s
}
