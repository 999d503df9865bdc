package contract

import (
	"context"

	"github.com/ggpera/expense-tracker/model"
)

// ExpenseRepo is the data access layer for the expenses table.
// Find* methods return raw rows; mutating methods return the insert id or
// the number of affected rows and leave interpretation to the caller.
type ExpenseRepo interface {
	FindAll(ctx context.Context) ([]model.Expense, error)
	FindByID(ctx context.Context, id int64) ([]model.Expense, error)
	FindByMonth(ctx context.Context, month int) ([]model.Expense, error)
	FindByCategory(ctx context.Context, name string) ([]model.Expense, error)
	Save(ctx context.Context, expense *model.Expense) (int64, error)
	UpdateByID(ctx context.Context, expense *model.Expense) (int64, error)
	DeleteByID(ctx context.Context, id int64) (int64, error)
	Ping(ctx context.Context) error
}
