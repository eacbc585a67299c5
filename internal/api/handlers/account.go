package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/kuowesley/securebank-technical-challenge/internal/api/middleware"
	"github.com/kuowesley/securebank-technical-challenge/internal/domain"
	"github.com/kuowesley/securebank-technical-challenge/internal/service"
	"github.com/shopspring/decimal"
)

type AccountHandler struct {
	accountService *service.AccountService
}

func NewAccountHandler(accountService *service.AccountService) *AccountHandler {
	return &AccountHandler{accountService: accountService}
}

type CreateAccountRequest struct {
	AccountType string `json:"accountType"`
}

func (h *AccountHandler) Create(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var req CreateAccountRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	account, err := h.accountService.CreateAccount(r.Context(), user.ID, domain.AccountType(req.AccountType))
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, account)
}

func (h *AccountHandler) List(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	accounts, err := h.accountService.GetAccounts(r.Context(), user.ID)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, accounts)
}

type FundRequest struct {
	// json.Number keeps the amount in decimal form; going through float64
	// could corrupt the cents before validation sees them.
	Amount        json.Number        `json:"amount"`
	FundingSource FundingSourceInput `json:"fundingSource"`
}

type FundingSourceInput struct {
	Type          string `json:"type"`
	AccountNumber string `json:"accountNumber"`
	RoutingNumber string `json:"routingNumber"`
}

type FundResponse struct {
	Transaction *domain.Transaction `json:"transaction"`
	NewBalance  decimal.Decimal     `json:"newBalance"`
}

func (h *AccountHandler) Fund(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	accountID, err := parseID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid account id")
		return
	}

	var req FundRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	amount, err := decimal.NewFromString(req.Amount.String())
	if err != nil {
		writeError(w, http.StatusBadRequest, "Amount must be a valid number")
		return
	}

	txn, newBalance, err := h.accountService.FundAccount(r.Context(), user.ID, accountID, service.FundInput{
		Amount: amount,
		Source: service.FundingSource{
			Type:          service.FundingSourceType(req.FundingSource.Type),
			AccountNumber: req.FundingSource.AccountNumber,
			RoutingNumber: req.FundingSource.RoutingNumber,
		},
	})
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, FundResponse{Transaction: txn, NewBalance: newBalance})
}

type TransactionsResponse struct {
	Items      []service.TransactionItem `json:"items"`
	NextCursor *uint                     `json:"nextCursor"`
}

func (h *AccountHandler) Transactions(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	accountID, err := parseID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid account id")
		return
	}

	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		limit, err = strconv.Atoi(raw)
		if err != nil || limit < 1 {
			writeError(w, http.StatusBadRequest, "Invalid limit")
			return
		}
	}

	var cursor uint
	if raw := r.URL.Query().Get("cursor"); raw != "" {
		parsed, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			writeError(w, http.StatusBadRequest, "Invalid cursor")
			return
		}
		cursor = uint(parsed)
	}

	page, err := h.accountService.GetTransactions(r.Context(), user.ID, accountID, limit, cursor)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, TransactionsResponse{Items: page.Items, NextCursor: page.NextCursor})
}

func parseID(r *http.Request) (uint, error) {
	id, err := strconv.ParseUint(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		return 0, err
	}
	return uint(id), nil
}
