package domain

import "time"

// AccountBalance is the balance of a single account on its normal side.
type AccountBalance struct {
	AccountID     string        `json:"accountID"`
	Code          string        `json:"code"`
	NormalBalance NormalBalance `json:"normalBalance"`
	TotalDebit    Money         `json:"totalDebit"`
	TotalCredit   Money         `json:"totalCredit"`
	Balance       Money         `json:"balance"`
	AsOf          *time.Time    `json:"asOf,omitempty"`
}

// TrialBalanceRow is one account line of a trial balance.
// Balance is always TotalDebit - TotalCredit regardless of the normal side.
type TrialBalanceRow struct {
	AccountID   string      `json:"accountID"`
	Code        string      `json:"code"`
	Name        string      `json:"name"`
	AccountType AccountType `json:"accountType"`
	IsActive    bool        `json:"isActive"`
	TotalDebit  Money       `json:"totalDebit"`
	TotalCredit Money       `json:"totalCredit"`
	Balance     Money       `json:"balance"`
}

// TrialBalance is the ordered set of rows plus grand totals for a period.
type TrialBalance struct {
	TenantID    string            `json:"tenantID"`
	StartDate   time.Time         `json:"startDate"`
	EndDate     time.Time         `json:"endDate"`
	Rows        []TrialBalanceRow `json:"rows"`
	TotalDebit  Money             `json:"totalDebit"`
	TotalCredit Money             `json:"totalCredit"`
	IsBalanced  bool              `json:"isBalanced"`
}
