package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/xavierca1/prospect-intake/internal/entity"
	"github.com/xavierca1/prospect-intake/internal/infra/http/middleware"
	"github.com/xavierca1/prospect-intake/internal/usecase"
)

type EmailRecipientHandler struct {
	UseCase *usecase.EmailRecipientUseCase
}

func NewEmailRecipientHandler(uc *usecase.EmailRecipientUseCase) *EmailRecipientHandler {
	return &EmailRecipientHandler{UseCase: uc}
}

// Routes mounts the handler under /email-recipients.
func (h *EmailRecipientHandler) Routes(r chi.Router) {
	r.Get("/", h.List)
	r.Post("/", h.Create)
	r.Get("/{id}", h.Get)
	r.Put("/{id}", h.Update)
	r.Delete("/{id}", h.Delete)
}

// List (GET /email-recipients?search=)
func (h *EmailRecipientHandler) List(w http.ResponseWriter, r *http.Request) {
	recipients, err := h.UseCase.List(r.Context(), r.URL.Query().Get("search"))
	if err != nil {
		writeUseCaseError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, recipients)
}

func (h *EmailRecipientHandler) Get(w http.ResponseWriter, r *http.Request) {
	recipient, err := h.UseCase.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeUseCaseError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, recipient)
}

func (h *EmailRecipientHandler) Create(w http.ResponseWriter, r *http.Request) {
	var input entity.CreateEmailRecipientInput
	if err := decodeJSON(w, r, &input); err != nil {
		writeErrorResponse(w, http.StatusBadRequest, CodeInvalidJSON, "invalid JSON: "+err.Error())
		return
	}

	recipient, err := h.UseCase.Create(r.Context(), input)
	if err != nil {
		middleware.RecordRecipientMutation("create", "failed")
		writeUseCaseError(w, err)
		return
	}

	middleware.RecordRecipientMutation("create", "success")
	writeJSON(w, http.StatusCreated, recipient)
}

// Update (PUT /email-recipients/{id}) applies only the fields present in the body.
func (h *EmailRecipientHandler) Update(w http.ResponseWriter, r *http.Request) {
	var input entity.UpdateEmailRecipientInput
	if err := decodeJSON(w, r, &input); err != nil {
		writeErrorResponse(w, http.StatusBadRequest, CodeInvalidJSON, "invalid JSON: "+err.Error())
		return
	}

	recipient, err := h.UseCase.Update(r.Context(), chi.URLParam(r, "id"), input)
	if err != nil {
		middleware.RecordRecipientMutation("update", "failed")
		writeUseCaseError(w, err)
		return
	}

	middleware.RecordRecipientMutation("update", "success")
	writeJSON(w, http.StatusOK, recipient)
}

func (h *EmailRecipientHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.UseCase.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		middleware.RecordRecipientMutation("delete", "failed")
		writeUseCaseError(w, err)
		return
	}

	middleware.RecordRecipientMutation("delete", "success")
	w.WriteHeader(http.StatusNoContent)
}
