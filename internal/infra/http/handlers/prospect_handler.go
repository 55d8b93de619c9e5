package handlers

import (
	"net/http"

	"github.com/xavierca1/prospect-intake/internal/entity"
	"github.com/xavierca1/prospect-intake/internal/infra/http/middleware"
	"github.com/xavierca1/prospect-intake/internal/usecase"
)

type ProspectHandler struct {
	SubmitUseCase *usecase.SubmitProspectUseCase
	rateLimiter   *RateLimiter
}

func NewProspectHandler(uc *usecase.SubmitProspectUseCase, limiter *RateLimiter) *ProspectHandler {
	return &ProspectHandler{
		SubmitUseCase: uc,
		rateLimiter:   limiter,
	}
}

// Submit (POST /prospects)
func (h *ProspectHandler) Submit(w http.ResponseWriter, r *http.Request) {
	if !h.rateLimiter.Allow(getClientIP(r)) {
		writeErrorResponse(w, http.StatusTooManyRequests, CodeRateLimited, "Too many requests. Please try again later.")
		return
	}

	var input entity.ProspectSubmission
	if err := decodeJSON(w, r, &input); err != nil {
		writeErrorResponse(w, http.StatusBadRequest, CodeInvalidJSON, "invalid JSON: "+err.Error())
		return
	}

	output, err := h.SubmitUseCase.Execute(r.Context(), input)
	if err != nil {
		middleware.RecordProspectSubmitted(budgetLabel(input.BudgetRange), "failed")
		writeUseCaseError(w, err)
		return
	}

	middleware.RecordProspectSubmitted(budgetLabel(input.BudgetRange), "success")
	writeJSON(w, http.StatusCreated, output)
}

// budgetLabel keeps the metric label set closed.
func budgetLabel(b entity.BudgetRange) string {
	if !b.Valid() {
		return "invalid"
	}
	return string(b)
}
