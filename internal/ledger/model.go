package ledger

import (
	"time"

	"github.com/shopspring/decimal"
)

// Type identifies a transaction's effect on the spendable balance.
type Type int

const (
	TypeExpense Type = 1
	TypeIncome  Type = 2
	TypeDeposit Type = 3
)

var (
	minusOne = decimal.NewFromInt(-1)
	plusOne  = decimal.NewFromInt(1)
)

func (t Type) Valid() bool {
	return t == TypeExpense || t == TypeIncome || t == TypeDeposit
}

// Sign is the balance multiplier for the type. Deposits move money out of
// the spendable balance into pet points, so they subtract like expenses.
func (t Type) Sign() decimal.Decimal {
	if t == TypeIncome {
		return plusOne
	}
	return minusOne
}

// ParseType maps the wire name onto a Type.
func ParseType(s string) (Type, bool) {
	switch s {
	case "expense":
		return TypeExpense, true
	case "income":
		return TypeIncome, true
	case "deposit":
		return TypeDeposit, true
	default:
		return 0, false
	}
}

func (t Type) String() string {
	switch t {
	case TypeExpense:
		return "expense"
	case TypeIncome:
		return "income"
	case TypeDeposit:
		return "deposit"
	default:
		return "unknown"
	}
}

type Transaction struct {
	ID         string          `json:"id"`
	UserID     string          `json:"user_id"`
	Amount     decimal.Decimal `json:"amount"`
	TypeID     Type            `json:"type_id"`
	CategoryID int64           `json:"category_id"`
	Date       time.Time       `json:"date"`
	Note       string          `json:"note,omitempty"`
	CreatedAt  time.Time       `json:"created_at"`
	UpdatedAt  time.Time       `json:"updated_at"`
}

// BalanceContribution is the transaction's signed effect on the balance.
func (t Transaction) BalanceContribution() decimal.Decimal {
	return t.TypeID.Sign().Mul(t.Amount)
}

// Category rows with a nil UserID are system defaults seeded by
// migrations; user rows are custom categories.
type Category struct {
	ID     int64   `json:"id"`
	UserID *string `json:"user_id,omitempty"`
	Name   string  `json:"name"`
	TypeID Type    `json:"type_id"`
}

type Totals struct {
	Income  decimal.Decimal `json:"income"`
	Expense decimal.Decimal `json:"expense"`
	Deposit decimal.Decimal `json:"deposit"`
	Balance decimal.Decimal `json:"balance"`
}
