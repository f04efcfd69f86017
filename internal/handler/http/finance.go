package http

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/cmlabs-hris/payroll-engine-go/internal/domain/finance"
	"github.com/cmlabs-hris/payroll-engine-go/internal/handler/http/response"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/jwtauth/v5"
)

type FinanceHandler interface {
	Create(w http.ResponseWriter, r *http.Request)
	List(w http.ResponseWriter, r *http.Request)
	GetByID(w http.ResponseWriter, r *http.Request)
	Approve(w http.ResponseWriter, r *http.Request)
	Reject(w http.ResponseWriter, r *http.Request)
	Disburse(w http.ResponseWriter, r *http.Request)
}

type FinanceHandlerImpl struct {
	ledgerService finance.LedgerService
}

func NewFinanceHandler(ledgerService finance.LedgerService) FinanceHandler {
	return &FinanceHandlerImpl{ledgerService: ledgerService}
}

// Create implements FinanceHandler.
func (h *FinanceHandlerImpl) Create(w http.ResponseWriter, r *http.Request) {
	var req finance.CreateRequestRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("Create financial request decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	request, err := h.ledgerService.Submit(r.Context(), req)
	if err != nil {
		slog.Error("Failed to create financial request", "error", err)
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Financial request submitted", request)
}

// List implements FinanceHandler.
func (h *FinanceHandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	filter := finance.RequestFilter{
		EmployeeID: queryPtr(r, "employee_id"),
		Status:     queryPtr(r, "status"),
		Page:       queryInt(r, "page", 1),
		Limit:      queryInt(r, "limit", 20),
	}

	result, err := h.ledgerService.List(r.Context(), filter)
	if err != nil {
		slog.Error("Failed to list financial requests", "error", err)
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMeta(w, result.Data, &response.Meta{
		Page:       result.Page,
		Limit:      result.Limit,
		TotalItems: result.TotalCount,
		TotalPages: totalPages(result.TotalCount, result.Limit),
	})
}

// GetByID implements FinanceHandler.
func (h *FinanceHandlerImpl) GetByID(w http.ResponseWriter, r *http.Request) {
	request, err := h.ledgerService.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, request)
}

// Approve implements FinanceHandler.
func (h *FinanceHandlerImpl) Approve(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	// The approver identity comes from the verified access token.
	_, claims, err := jwtauth.FromContext(r.Context())
	if err != nil {
		response.Unauthorized(w, "Invalid access token")
		return
	}
	approver, _ := claims["user_id"].(string)
	if approver == "" {
		response.Unauthorized(w, "Access token has no user identity")
		return
	}

	request, err := h.ledgerService.Approve(r.Context(), id, approver)
	if err != nil {
		slog.Error("Failed to approve financial request", "request_id", id, "error", err)
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Financial request approved", request)
}

// Reject implements FinanceHandler.
func (h *FinanceHandlerImpl) Reject(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	request, err := h.ledgerService.Reject(r.Context(), id)
	if err != nil {
		slog.Error("Failed to reject financial request", "request_id", id, "error", err)
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Financial request rejected", request)
}

// Disburse implements FinanceHandler.
func (h *FinanceHandlerImpl) Disburse(w http.ResponseWriter, r *http.Request) {
	var req finance.DisburseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("Disburse financial request decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}
	req.ID = chi.URLParam(r, "id")

	request, err := h.ledgerService.Disburse(r.Context(), req)
	if err != nil {
		slog.Error("Failed to disburse financial request", "request_id", req.ID, "error", err)
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Financial request disbursed", request)
}
