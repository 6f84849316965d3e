package dto

import "github.com/SscSPs/general_ledger/internal/core/domain"

// ErrorResponse is the body of every non-2xx reply.
type ErrorResponse struct {
	Error     string            `json:"error"`
	Retryable bool              `json:"retryable,omitempty"`
	Detail    *ValidationDetail `json:"detail,omitempty"`
}

// ValidationDetail surfaces the offending part of a rejected entry.
type ValidationDetail struct {
	Kind        string `json:"kind"`
	LineIndex   *int   `json:"lineIndex,omitempty"`
	AccountID   string `json:"accountID,omitempty"`
	TotalDebit  string `json:"totalDebit,omitempty"`
	TotalCredit string `json:"totalCredit,omitempty"`
}

// ToValidationDetail keeps amounts at full precision so the caller sees the
// exact figures that failed to balance.
func ToValidationDetail(v *domain.ValidationError) *ValidationDetail {
	d := &ValidationDetail{
		Kind:      string(v.Kind),
		LineIndex: v.LineIndex,
		AccountID: v.AccountID,
	}
	if v.TotalDebit != nil {
		d.TotalDebit = v.TotalDebit.String()
	}
	if v.TotalCredit != nil {
		d.TotalCredit = v.TotalCredit.String()
	}
	return d
}
