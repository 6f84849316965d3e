package domain

// AccountType defines the fundamental accounting type of an account.
type AccountType string

const (
	Asset           AccountType = "ASSET"
	Liability       AccountType = "LIABILITY"
	Equity          AccountType = "EQUITY"
	Revenue         AccountType = "REVENUE"
	Expense         AccountType = "EXPENSE"
	ContraAsset     AccountType = "CONTRA_ASSET"
	ContraLiability AccountType = "CONTRA_LIABILITY"
)

// NormalBalance is the side on which an account naturally increases.
type NormalBalance string

const (
	NormalDebit  NormalBalance = "DEBIT"
	NormalCredit NormalBalance = "CREDIT"
)

// IsValid reports whether t is a known account type.
func (t AccountType) IsValid() bool {
	switch t {
	case Asset, Liability, Equity, Revenue, Expense, ContraAsset, ContraLiability:
		return true
	}
	return false
}

// DefaultNormalBalance derives the conventional normal side for an account type.
func DefaultNormalBalance(t AccountType) NormalBalance {
	switch t {
	case Asset, Expense, ContraLiability:
		return NormalDebit
	default:
		return NormalCredit
	}
}

// Account is a ledger account in a tenant's chart of accounts. The chart is
// administered elsewhere; the ledger only reads it.
type Account struct {
	AccountID       string        `json:"accountID"`
	TenantID        string        `json:"tenantID"`
	Code            string        `json:"code"`
	Name            string        `json:"name"`
	AccountType     AccountType   `json:"accountType"`
	NormalBalance   NormalBalance `json:"normalBalance"` // stored explicitly so it can be overridden
	ParentAccountID *string       `json:"parentAccountID,omitempty"`
	IsActive        bool          `json:"isActive"`
	AuditFields
}

// SignedBalance converts debit and credit totals into a balance on the
// account's normal side.
func (a Account) SignedBalance(totalDebit, totalCredit Money) Money {
	if a.NormalBalance == NormalDebit {
		return totalDebit.Sub(totalCredit)
	}
	return totalCredit.Sub(totalDebit)
}
