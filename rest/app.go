package rest

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/ggpera/expense-tracker/contract"
	"github.com/ggpera/expense-tracker/validation"
	"github.com/ggpera/expense-tracker/web"
)

// maxBodyBytes caps request bodies.
const maxBodyBytes = 1 << 20

type App struct {
	Router   *mux.Router
	Expenses contract.ExpenseRepo

	Validator *validation.Validator
	Logger    *slog.Logger
}

func (a *App) Init(expenses contract.ExpenseRepo, v *validation.Validator, logger *slog.Logger) {
	a.Expenses = expenses
	a.Validator = v
	a.Logger = logger
	if a.Logger == nil {
		a.Logger = slog.Default()
	}

	a.Router = mux.NewRouter()
	a.initializeRoutes()
}

// Server returns an http.Server serving the router on addr.
func (a *App) Server(addr string) *http.Server {
	return &http.Server{
		Addr:              addr,
		Handler:           a.Router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
}

func (a *App) initializeRoutes() {
	a.Router.Use(requestID(a.Logger), accessLog, recoverPanic, allowAnyOrigin, limitBody(maxBodyBytes))

	a.Router.HandleFunc("/health", a.health).Methods(http.MethodGet)
	a.Router.HandleFunc("/ready", a.ready).Methods(http.MethodGet)

	s := a.Router.PathPrefix("/api/expenses").Subrouter()
	s.Use(mux.CORSMethodMiddleware(s), preflight)
	s.MethodNotAllowedHandler = http.HandlerFunc(notFound)
	for _, root := range []string{"", "/"} {
		s.HandleFunc(root, a.getExpenses).Methods(http.MethodGet, http.MethodOptions)
		s.HandleFunc(root, a.createExpense).Methods(http.MethodPost)
		s.HandleFunc(root, a.updateExpense).Methods(http.MethodPut)
	}
	// /filter must be registered before /{id}
	s.HandleFunc("/filter", a.getExpensesByCategory).Methods(http.MethodGet, http.MethodOptions)
	s.HandleFunc("/month/{i}", a.getExpensesByMonth).Methods(http.MethodGet, http.MethodOptions)
	s.HandleFunc("/{id}", a.getExpense).Methods(http.MethodGet, http.MethodOptions)
	s.HandleFunc("/{id}", a.deleteExpense).Methods(http.MethodDelete)

	a.Router.PathPrefix("/api/").HandlerFunc(notFound)
	a.Router.PathPrefix("/").Handler(web.Handler())
}
