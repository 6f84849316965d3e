package dto

import "github.com/SscSPs/general_ledger/internal/core/domain"

// AccountResponse is a chart-of-accounts entry as returned to callers.
type AccountResponse struct {
	AccountID       string  `json:"accountID"`
	Code            string  `json:"code"`
	Name            string  `json:"name"`
	AccountType     string  `json:"accountType"`
	NormalBalance   string  `json:"normalBalance"`
	ParentAccountID *string `json:"parentAccountID,omitempty"`
	IsActive        bool    `json:"isActive"`
}

func ToAccountResponse(a domain.Account) AccountResponse {
	return AccountResponse{
		AccountID:       a.AccountID,
		Code:            a.Code,
		Name:            a.Name,
		AccountType:     string(a.AccountType),
		NormalBalance:   string(a.NormalBalance),
		ParentAccountID: a.ParentAccountID,
		IsActive:        a.IsActive,
	}
}

func ToAccountResponses(accounts []domain.Account) []AccountResponse {
	out := make([]AccountResponse, len(accounts))
	for i, a := range accounts {
		out[i] = ToAccountResponse(a)
	}
	return out
}
