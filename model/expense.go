package model

// Expense is a single row of the expenses table.
type Expense struct {
	ID       int64   `json:"id"`
	Date     string  `json:"date"`
	Amount   float64 `json:"amount"`
	Category string  `json:"category"`
	Shop     string  `json:"shop"`
}

// ExpensePayload is the loosely typed body of a create or update request.
// Fields stay untyped until the validator has checked them.
type ExpensePayload struct {
	ID       interface{} `json:"id" validate:"present,isnumber,safenumber,isinteger"`
	Date     interface{} `json:"date" validate:"present,isstring,notempty"`
	Amount   interface{} `json:"amount" validate:"present,filled,isnumber,safenumber,atleast=1"`
	Category interface{} `json:"category" validate:"present,isstring,notempty"`
	Shop     interface{} `json:"shop" validate:"present,isstring,notempty"`
}

// NewExpense is ExpensePayload without the id, used for create.
type NewExpense struct {
	Date     interface{} `json:"date" validate:"present,isstring,notempty"`
	Amount   interface{} `json:"amount" validate:"present,filled,isnumber,safenumber,atleast=1"`
	Category interface{} `json:"category" validate:"present,isstring,notempty"`
	Shop     interface{} `json:"shop" validate:"present,isstring,notempty"`
}

// Submission is a validated request body. ID and Amount hold the values as
// the client sent them, a JSON number or a numeric string.
type Submission struct {
	Expense Expense
	ID      interface{}
	Amount  interface{}
}

// Echo renders the submission back with the client's own values. Without a
// submitted id the stored one is used.
func (s Submission) Echo() ExpenseEcho {
	var id interface{} = s.Expense.ID
	if s.ID != nil {
		id = s.ID
	}
	var amount interface{} = s.Expense.Amount
	if s.Amount != nil {
		amount = s.Amount
	}
	return ExpenseEcho{
		ID:       id,
		Date:     s.Expense.Date,
		Amount:   amount,
		Category: s.Expense.Category,
		Shop:     s.Expense.Shop,
	}
}

// ExpenseEcho is the response body of create and update.
type ExpenseEcho struct {
	ID       interface{} `json:"id"`
	Date     string      `json:"date"`
	Amount   interface{} `json:"amount"`
	Category string      `json:"category"`
	Shop     string      `json:"shop"`
}
