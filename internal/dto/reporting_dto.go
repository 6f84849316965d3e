package dto

import "github.com/SscSPs/general_ledger/internal/core/domain"

// AccountBalanceResponse is the balance of one account on its normal side.
type AccountBalanceResponse struct {
	AccountID     string `json:"accountID"`
	Code          string `json:"code"`
	NormalBalance string `json:"normalBalance"`
	TotalDebit    string `json:"totalDebit"`
	TotalCredit   string `json:"totalCredit"`
	Balance       string `json:"balance"`
	AsOf          string `json:"asOf,omitempty"`
}

// TrialBalanceRowResponse represents a row in the trial balance report response
type TrialBalanceRowResponse struct {
	AccountID   string `json:"accountID"`
	Code        string `json:"code"`
	AccountName string `json:"accountName"`
	AccountType string `json:"accountType"`
	IsActive    bool   `json:"isActive"`
	TotalDebit  string `json:"totalDebit"`
	TotalCredit string `json:"totalCredit"`
	Balance     string `json:"balance"`
}

// TrialBalanceResponse represents the trial balance report response
type TrialBalanceResponse struct {
	StartDate string                    `json:"startDate"`
	EndDate   string                    `json:"endDate"`
	Rows      []TrialBalanceRowResponse `json:"rows"`
	Totals    struct {
		Debit  string `json:"debit"`
		Credit string `json:"credit"`
	} `json:"totals"`
	IsBalanced bool `json:"isBalanced"`
}

func ToAccountBalanceResponse(b *domain.AccountBalance, scale int32) AccountBalanceResponse {
	resp := AccountBalanceResponse{
		AccountID:     b.AccountID,
		Code:          b.Code,
		NormalBalance: string(b.NormalBalance),
		TotalDebit:    b.TotalDebit.StringFixed(scale),
		TotalCredit:   b.TotalCredit.StringFixed(scale),
		Balance:       b.Balance.StringFixed(scale),
	}
	if b.AsOf != nil {
		resp.AsOf = b.AsOf.Format(DateLayout)
	}
	return resp
}

// ToTrialBalanceResponse rounds each figure independently. Totals are rounded
// from the exact sums, not summed from rounded rows.
func ToTrialBalanceResponse(tb *domain.TrialBalance, scale int32) TrialBalanceResponse {
	resp := TrialBalanceResponse{
		StartDate:  tb.StartDate.Format(DateLayout),
		EndDate:    tb.EndDate.Format(DateLayout),
		Rows:       make([]TrialBalanceRowResponse, len(tb.Rows)),
		IsBalanced: tb.IsBalanced,
	}
	for i, r := range tb.Rows {
		resp.Rows[i] = TrialBalanceRowResponse{
			AccountID:   r.AccountID,
			Code:        r.Code,
			AccountName: r.Name,
			AccountType: string(r.AccountType),
			IsActive:    r.IsActive,
			TotalDebit:  r.TotalDebit.StringFixed(scale),
			TotalCredit: r.TotalCredit.StringFixed(scale),
			Balance:     r.Balance.StringFixed(scale),
		}
	}
	resp.Totals.Debit = tb.TotalDebit.StringFixed(scale)
	resp.Totals.Credit = tb.TotalCredit.StringFixed(scale)
	return resp
}
