package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/ggpera/expense-tracker/model"

	// Register the mysql driver
	_ "github.com/go-sql-driver/mysql"
)

// dateLayout renders stored dates the way JSON clients expect them:
// ISO-8601 in UTC with milliseconds.
const dateLayout = "2006-01-02T15:04:05.000Z07:00"

type ExpenseRepoMysql struct {
	db *sql.DB
}

func NewExpenseRepoMysql(db *sql.DB) *ExpenseRepoMysql {
	return &ExpenseRepoMysql{db: db}
}

func (e *ExpenseRepoMysql) FindAll(ctx context.Context) ([]model.Expense, error) {
	statement := `SELECT id, date, amount, category, shop FROM expenses`
	return e.query(ctx, "find all", statement)
}

func (e *ExpenseRepoMysql) FindByID(ctx context.Context, id int64) ([]model.Expense, error) {
	statement := `SELECT id, date, amount, category, shop FROM expenses WHERE id = ?`
	return e.query(ctx, "find by id", statement, id)
}

func (e *ExpenseRepoMysql) FindByMonth(ctx context.Context, month int) ([]model.Expense, error) {
	statement := `SELECT id, date, amount, category, shop FROM expenses WHERE MONTH(date) = ?`
	return e.query(ctx, "find by month", statement, month)
}

func (e *ExpenseRepoMysql) FindByCategory(ctx context.Context, name string) ([]model.Expense, error) {
	statement := `SELECT id, date, amount, category, shop FROM expenses WHERE category = ?`
	return e.query(ctx, "find by category", statement, name)
}

func (e *ExpenseRepoMysql) Save(ctx context.Context, expense *model.Expense) (int64, error) {
	statement := "INSERT INTO expenses(date, amount, category, shop) VALUES(?, ?, ?, ?)"
	result, err := e.db.ExecContext(ctx, statement, expense.Date, expense.Amount, expense.Category, expense.Shop)
	if err != nil {
		return 0, &model.StorageError{Op: "save", Err: err}
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, &model.StorageError{Op: "save", Err: err}
	}
	return id, nil
}

// UpdateByID replaces every mutable field of the row. The returned count is
// the number of matched rows when the connection sets clientFoundRows.
func (e *ExpenseRepoMysql) UpdateByID(ctx context.Context, expense *model.Expense) (int64, error) {
	statement := "UPDATE expenses SET date = ?, amount = ?, category = ?, shop = ? WHERE id = ?"
	result, err := e.db.ExecContext(ctx, statement, expense.Date, expense.Amount, expense.Category, expense.Shop, expense.ID)
	if err != nil {
		return 0, &model.StorageError{Op: "update", Err: err}
	}
	return affected(result, "update")
}

func (e *ExpenseRepoMysql) DeleteByID(ctx context.Context, id int64) (int64, error) {
	statement := "DELETE FROM expenses WHERE id = ?"
	result, err := e.db.ExecContext(ctx, statement, id)
	if err != nil {
		return 0, &model.StorageError{Op: "delete", Err: err}
	}
	return affected(result, "delete")
}

func (e *ExpenseRepoMysql) Ping(ctx context.Context) error {
	if err := e.db.PingContext(ctx); err != nil {
		return &model.StorageError{Op: "ping", Err: err}
	}
	return nil
}

func (e *ExpenseRepoMysql) Close() error {
	return e.db.Close()
}

func (e *ExpenseRepoMysql) query(ctx context.Context, op, statement string, args ...interface{}) ([]model.Expense, error) {
	rows, err := e.db.QueryContext(ctx, statement, args...)
	if err != nil {
		return nil, &model.StorageError{Op: op, Err: err}
	}
	defer rows.Close()

	expenses := []model.Expense{}
	for rows.Next() {
		var expense model.Expense
		var date time.Time
		if err := rows.Scan(&expense.ID, &date, &expense.Amount, &expense.Category, &expense.Shop); err != nil {
			return nil, &model.StorageError{Op: op, Err: err}
		}
		expense.Date = date.UTC().Format(dateLayout)
		expenses = append(expenses, expense)
	}
	if err := rows.Err(); err != nil {
		return nil, &model.StorageError{Op: op, Err: err}
	}
	return expenses, nil
}

func affected(result sql.Result, op string) (int64, error) {
	numRows, err := result.RowsAffected()
	if err != nil {
		return 0, &model.StorageError{Op: op, Err: err}
	}
	return numRows, nil
}
