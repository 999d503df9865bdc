package rest

import (
	"context"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/ggpera/expense-tracker/logger"
	"github.com/ggpera/expense-tracker/model"
)

const readyTimeout = 2 * time.Second

func (a *App) health(w http.ResponseWriter, r *http.Request) {
	respondWithText(w, http.StatusOK, "OK")
}

func (a *App) ready(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), readyTimeout)
	defer cancel()

	if err := a.Expenses.Ping(ctx); err != nil {
		logger.FromContext(r.Context()).Warn("database not ready", logger.FieldError, err)
		respondWithError(w, http.StatusServiceUnavailable, http.StatusText(http.StatusServiceUnavailable))
		return
	}
	respondWithText(w, http.StatusOK, "OK")
}

func (a *App) getExpenses(w http.ResponseWriter, r *http.Request) {
	expenses, err := a.Expenses.FindAll(r.Context())
	if err != nil {
		respondWithServerError(w, r, "list", err)
		return
	}
	respondWithJSON(w, http.StatusOK, orEmpty(expenses))
}

func (a *App) getExpense(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(mux.Vars(r)["id"])
	if !ok {
		respondWithJSON(w, http.StatusNotFound, model.ErrNotFound.Error())
		return
	}

	expenses, err := a.Expenses.FindByID(r.Context(), id)
	if err != nil {
		respondWithServerError(w, r, "get", err)
		return
	}
	if len(expenses) != 1 {
		respondWithJSON(w, http.StatusNotFound, model.ErrNotFound.Error())
		return
	}
	respondWithJSON(w, http.StatusOK, expenses[0])
}

func (a *App) getExpensesByMonth(w http.ResponseWriter, r *http.Request) {
	month, ok := parseID(mux.Vars(r)["i"])
	if !ok {
		// MONTH(date) never equals a non-number
		respondWithJSON(w, http.StatusOK, []model.Expense{})
		return
	}

	expenses, err := a.Expenses.FindByMonth(r.Context(), int(month))
	if err != nil {
		respondWithServerError(w, r, "list by month", err)
		return
	}
	respondWithJSON(w, http.StatusOK, orEmpty(expenses))
}

func (a *App) getExpensesByCategory(w http.ResponseWriter, r *http.Request) {
	values, present := r.URL.Query()["category"]
	if !present {
		respondWithJSON(w, http.StatusOK, []model.Expense{})
		return
	}

	expenses, err := a.Expenses.FindByCategory(r.Context(), values[0])
	if err != nil {
		respondWithServerError(w, r, "list by category", err)
		return
	}
	respondWithJSON(w, http.StatusOK, orEmpty(expenses))
}

func (a *App) createExpense(w http.ResponseWriter, r *http.Request) {
	body, ok := readBody(w, r)
	if !ok {
		return
	}

	submission, err := a.Validator.Create(body)
	if err != nil {
		a.respondWithValidationError(w, r, err)
		return
	}

	id, err := a.Expenses.Save(r.Context(), &submission.Expense)
	if err != nil {
		respondWithServerError(w, r, "create", err)
		return
	}
	submission.Expense.ID = id

	logger.FromContext(r.Context()).Info("expense created", "id", id)
	respondWithJSON(w, http.StatusCreated, submission.Echo())
}

func (a *App) updateExpense(w http.ResponseWriter, r *http.Request) {
	body, ok := readBody(w, r)
	if !ok {
		return
	}

	submission, err := a.Validator.Update(body)
	if err != nil {
		a.respondWithValidationError(w, r, err)
		return
	}

	matched, err := a.Expenses.UpdateByID(r.Context(), &submission.Expense)
	if err != nil {
		respondWithServerError(w, r, "update", err)
		return
	}
	if matched == 0 {
		respondWithJSON(w, http.StatusNotFound, model.ErrNotFound.Error())
		return
	}
	respondWithJSON(w, http.StatusOK, submission.Echo())
}

func (a *App) deleteExpense(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(mux.Vars(r)["id"])
	if !ok {
		respondWithError(w, http.StatusNotFound, model.ErrNotFound.Error())
		return
	}

	existing, err := a.Expenses.FindByID(r.Context(), id)
	if err != nil {
		respondWithServerError(w, r, "delete", err)
		return
	}
	if len(existing) == 0 {
		respondWithError(w, http.StatusNotFound, model.ErrNotFound.Error())
		return
	}

	affected, err := a.Expenses.DeleteByID(r.Context(), id)
	if err != nil {
		respondWithServerError(w, r, "delete", err)
		return
	}

	switch affected {
	case 1:
		logger.FromContext(r.Context()).Info("expense deleted", "id", id)
		respondWithText(w, http.StatusOK, "Expense deleted")
	case 0:
		// removed by a concurrent request after the lookup
		respondWithError(w, http.StatusNotFound, model.ErrNotFound.Error())
	default:
		respondWithServerError(w, r, "delete", errors.New("unexpected number of deleted rows"))
	}
}

func (a *App) respondWithValidationError(w http.ResponseWriter, r *http.Request, err error) {
	var vErr *model.ValidationError
	if errors.As(err, &vErr) {
		logger.FromContext(r.Context()).Debug("invalid payload", "field", vErr.Field, "rule", vErr.Rule)
		respondWithError(w, http.StatusBadRequest, vErr.Message)
		return
	}
	respondWithServerError(w, r, "validate", err)
}

func readBody(w http.ResponseWriter, r *http.Request) ([]byte, bool) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			respondWithError(w, http.StatusRequestEntityTooLarge, http.StatusText(http.StatusRequestEntityTooLarge))
			return nil, false
		}
		respondWithError(w, http.StatusBadRequest, "Invalid request payload")
		return nil, false
	}
	return body, true
}

func orEmpty(expenses []model.Expense) []model.Expense {
	if expenses == nil {
		return []model.Expense{}
	}
	return expenses
}
