package http

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/cmlabs-hris/payroll-engine-go/internal/domain/payroll"
	"github.com/cmlabs-hris/payroll-engine-go/internal/handler/http/response"
	"github.com/go-chi/chi/v5"
)

type PayrollHandler interface {
	Generate(w http.ResponseWriter, r *http.Request)
	List(w http.ResponseWriter, r *http.Request)
	GetByID(w http.ResponseWriter, r *http.Request)
	UpdateStatus(w http.ResponseWriter, r *http.Request)
	MarkReconciled(w http.ResponseWriter, r *http.Request)
	Delete(w http.ResponseWriter, r *http.Request)
	Summary(w http.ResponseWriter, r *http.Request)
	Payslip(w http.ResponseWriter, r *http.Request)
}

type PayrollHandlerImpl struct {
	payrollService payroll.PayrollService
}

func NewPayrollHandler(payrollService payroll.PayrollService) PayrollHandler {
	return &PayrollHandlerImpl{payrollService: payrollService}
}

// Generate implements PayrollHandler.
func (h *PayrollHandlerImpl) Generate(w http.ResponseWriter, r *http.Request) {
	var req payroll.GeneratePayrollRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("Generate payroll decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	records, err := h.payrollService.GeneratePayroll(r.Context(), req)
	if err != nil {
		slog.Error("Failed to generate payroll", "error", err)
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Payroll generated successfully", records)
}

// List implements PayrollHandler.
func (h *PayrollHandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	filter := payroll.PayrollFilter{
		EmployeeID:  queryPtr(r, "employee_id"),
		Status:      queryPtr(r, "status"),
		PeriodStart: queryPtr(r, "period_start"),
		Page:        queryInt(r, "page", 1),
		Limit:       queryInt(r, "limit", 20),
		SortBy:      r.URL.Query().Get("sort_by"),
		SortOrder:   r.URL.Query().Get("sort_order"),
	}

	result, err := h.payrollService.ListRecords(r.Context(), filter)
	if err != nil {
		slog.Error("Failed to list payroll records", "error", err)
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

// GetByID implements PayrollHandler.
func (h *PayrollHandlerImpl) GetByID(w http.ResponseWriter, r *http.Request) {
	record, err := h.payrollService.GetRecord(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, record)
}

// UpdateStatus implements PayrollHandler.
func (h *PayrollHandlerImpl) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	var req payroll.UpdatePaymentStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("Update payment status decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}
	req.ID = chi.URLParam(r, "id")

	record, err := h.payrollService.UpdateStatus(r.Context(), req)
	if err != nil {
		slog.Error("Failed to update payment status", "record_id", req.ID, "error", err)
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Payment status updated", record)
}

// MarkReconciled implements PayrollHandler.
func (h *PayrollHandlerImpl) MarkReconciled(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if err := h.payrollService.MarkReconciled(r.Context(), id); err != nil {
		slog.Error("Failed to mark payroll record reconciled", "record_id", id, "error", err)
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Payroll record marked as reconciled", nil)
}

// Delete implements PayrollHandler.
func (h *PayrollHandlerImpl) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if err := h.payrollService.DeleteRecord(r.Context(), id); err != nil {
		slog.Error("Failed to delete payroll record", "record_id", id, "error", err)
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Payroll record deleted", nil)
}

// Summary implements PayrollHandler.
func (h *PayrollHandlerImpl) Summary(w http.ResponseWriter, r *http.Request) {
	periodStart := r.URL.Query().Get("period_start")
	if periodStart == "" {
		response.BadRequest(w, "Query parameter 'period_start' is required", nil)
		return
	}

	summary, err := h.payrollService.GetSummary(r.Context(), periodStart)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, summary)
}

// Payslip implements PayrollHandler.
func (h *PayrollHandlerImpl) Payslip(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	data, filename, err := h.payrollService.RenderPayslip(r.Context(), id)
	if err != nil {
		slog.Error("Failed to render payslip", "record_id", id, "error", err)
		response.HandleError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

// ========== QUERY HELPERS ==========

func queryPtr(r *http.Request, key string) *string {
	if v := r.URL.Query().Get(key); v != "" {
		return &v
	}
	return nil
}

func queryInt(r *http.Request, key string, fallback int) int {
	v := r.URL.Query().Get(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		return fallback
	}
	return n
}

func totalPages(totalItems int64, limit int) int {
	if limit <= 0 {
		return 0
	}
	return int((totalItems + int64(limit) - 1) / int64(limit))
}
