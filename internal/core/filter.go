package core

import "strings"

// All matches every type in TransactionFilter and category listings.
const All = "all"

// TransactionFilter narrows a transaction list. Zero values match everything.
type TransactionFilter struct {
	Search     string
	Type       string // "all", "income", "expense" or empty
	CategoryID *int64
}

// FilterTransactions keeps the transactions matching every criterion of f,
// preserving order.
func FilterTransactions(txs []Transaction, f TransactionFilter) []Transaction {
	search := strings.ToLower(strings.TrimSpace(f.Search))
	out := make([]Transaction, 0, len(txs))
	for _, tx := range txs {
		if search != "" && !strings.Contains(strings.ToLower(tx.Description), search) {
			continue
		}
		if f.Type != "" && f.Type != All && string(tx.Type) != f.Type {
			continue
		}
		if f.CategoryID != nil && (tx.Category == nil || *tx.Category != *f.CategoryID) {
			continue
		}
		out = append(out, tx)
	}
	return out
}

// FilterCategories keeps categories of the requested type ("all" or empty
// keeps everything; unknown types behave like "all").
func FilterCategories(cats []Category, typ string) []Category {
	if typ != string(Income) && typ != string(Expense) {
		return append([]Category(nil), cats...)
	}
	out := make([]Category, 0, len(cats))
	for _, c := range cats {
		if string(c.Type) == typ {
			out = append(out, c)
		}
	}
	return out
}
