package models

import "database/sql"

// LedgerAccount is a row of ledger_accounts.
type LedgerAccount struct {
	TenantID        string         `db:"tenant_id"`
	AccountID       string         `db:"account_id"`
	Code            string         `db:"code"`
	Name            string         `db:"name"`
	AccountType     string         `db:"account_type"`
	NormalBalance   string         `db:"normal_balance"`
	ParentAccountID sql.NullString `db:"parent_account_id"`
	IsActive        bool           `db:"is_active"`
	AuditFields
}
