package reports

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// Statement is one calendar month of activity with totals and the
// per-category breakdown.
type Statement struct {
	Month      string          `json:"month"`
	From       string          `json:"from"`
	To         string          `json:"to"`
	Income     decimal.Decimal `json:"income"`
	Expense    decimal.Decimal `json:"expense"`
	Deposit    decimal.Decimal `json:"deposit"`
	Net        decimal.Decimal `json:"net"`
	Items      []Item          `json:"items"`
	Categories []CategoryTotal `json:"categories"`
}

func buildStatement(ctx context.Context, store *Store, userID string, from time.Time) (Statement, error) {
	to := from.AddDate(0, 1, 0)

	items, err := store.StatementRows(ctx, userID, from, to)
	if err != nil {
		return Statement{}, err
	}
	cats, err := store.CategoryTotals(ctx, userID, from, to)
	if err != nil {
		return Statement{}, err
	}

	st := Statement{
		Month:      from.Format("2006-01"),
		From:       from.Format("2006-01-02"),
		To:         to.AddDate(0, 0, -1).Format("2006-01-02"),
		Income:     decimal.Zero,
		Expense:    decimal.Zero,
		Deposit:    decimal.Zero,
		Items:      items,
		Categories: cats,
	}
	for _, it := range items {
		switch it.Type {
		case "income":
			st.Income = st.Income.Add(it.Amount)
		case "expense":
			st.Expense = st.Expense.Add(it.Amount)
		case "deposit":
			st.Deposit = st.Deposit.Add(it.Amount)
		}
	}
	st.Net = st.Income.Sub(st.Expense).Sub(st.Deposit)
	return st, nil
}
