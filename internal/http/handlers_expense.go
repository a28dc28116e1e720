package http

import (
	"errors"
	"net/http"
	"time"

	"studioops/internal/core"
)

// ExpenseInput is the write payload for a company expense. Amount
// arrives as a string like the project cost fields.
type ExpenseInput struct {
	Name      string `json:"name"`
	Amount    string `json:"amount"`
	Client    string `json:"client"`
	Type      string `json:"type"`
	Date      string `json:"date"`
	Frequency string `json:"frequency"`
	Status    string `json:"status"`
	UsedFor   string `json:"used_for"`
}

type ExpenseView struct {
	ID        int64              `json:"id"`
	Name      string             `json:"name"`
	Amount    core.Money         `json:"amount"`
	Client    string             `json:"client"`
	Type      string             `json:"type"`
	Date      string             `json:"date"`
	Frequency core.Frequency     `json:"frequency"`
	Status    core.ExpenseStatus `json:"status"`
	UsedFor   string             `json:"used_for"`
}

func expenseView(e core.Expense) ExpenseView {
	return ExpenseView{
		ID:        e.ID,
		Name:      e.Name,
		Amount:    e.Amount,
		Client:    e.Client,
		Type:      e.Type,
		Date:      viewDate(e.Date),
		Frequency: e.Frequency,
		Status:    e.Status,
		UsedFor:   e.UsedFor,
	}
}

func buildExpense(input ExpenseInput) (core.Expense, error) {
	date := core.Date{}
	if input.Date != "" {
		parsed, err := time.Parse("2006-01-02", input.Date)
		if err != nil {
			return core.Expense{}, errors.New("invalid date, expected YYYY-MM-DD")
		}
		date = core.Date{Time: parsed}
	}

	status := core.ExpenseStatus(input.Status)
	if input.Status == "" {
		status = core.ExpenseKeep
	}

	expense := core.Expense{
		Name:      input.Name,
		Amount:    core.Money{Cents: core.CoerceCents(input.Amount)},
		Client:    input.Client,
		Type:      input.Type,
		Date:      date,
		Frequency: core.Frequency(input.Frequency),
		Status:    status,
		UsedFor:   input.UsedFor,
	}
	if err := expense.Validate(); err != nil {
		return core.Expense{}, err
	}
	return expense, nil
}

func (s *Server) handleListExpenses(w http.ResponseWriter, r *http.Request) {
	expenses, err := s.repo.ListExpenses(r.Context())
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	views := make([]ExpenseView, 0, len(expenses))
	for _, e := range expenses {
		views = append(views, expenseView(e))
	}
	writeJSON(w, http.StatusOK, views)
}

func (s *Server) handleCreateExpense(w http.ResponseWriter, r *http.Request) {
	var input ExpenseInput
	if err := decodeJSON(w, r, &input); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	expense, err := buildExpense(input)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	id, err := s.repo.CreateExpense(r.Context(), expense)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	expense.ID = id

	writeJSON(w, http.StatusCreated, expenseView(expense))
}

func (s *Server) handleUpdateExpense(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid expense id")
		return
	}

	var input ExpenseInput
	if err := decodeJSON(w, r, &input); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	expense, err := buildExpense(input)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	expense.ID = id

	if err := s.repo.UpdateExpense(r.Context(), expense); err != nil {
		writeDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, expenseView(expense))
}

func (s *Server) handleDeleteExpense(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid expense id")
		return
	}

	if err := s.repo.DeleteExpense(r.Context(), id); err != nil {
		writeDomainError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleExpenseSummary(w http.ResponseWriter, r *http.Request) {
	expenses, err := s.repo.ListExpenses(r.Context())
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, core.SummarizeExpenses(expenses, time.Now()))
}
