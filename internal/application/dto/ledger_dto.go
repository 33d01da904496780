package dto

import "github.com/shopspring/decimal"

// AccountBalanceResponse is the balance of one account head as of a date.
type AccountBalanceResponse struct {
	AccountHead string          `json:"account_head"`
	AsOf        string          `json:"as_of"`
	Balance     decimal.Decimal `json:"balance"`
}

// TrialBalanceRowResponse is one row of the trial balance.
type TrialBalanceRowResponse struct {
	AccountHead string          `json:"account_head"`
	Debit       decimal.Decimal `json:"debit"`
	Credit      decimal.Decimal `json:"credit"`
	Balance     decimal.Decimal `json:"balance"`
}

// TrialBalanceResponse is the grouped trial balance for a period.
type TrialBalanceResponse struct {
	From  string                    `json:"from"`
	To    string                    `json:"to"`
	Rows  []TrialBalanceRowResponse `json:"rows"`
	Total decimal.Decimal           `json:"total"`
}
