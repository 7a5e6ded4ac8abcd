package handler

import (
	"net/http"

	"patient-portal/internal/delivery/dto"
	"patient-portal/internal/usecase"
	"patient-portal/pkg/response"
	"patient-portal/pkg/validator"

	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/gorilla/mux"
)

type FAQHandler struct {
	faqUsecase usecase.FAQUsecase
	validator  *validator.CustomValidator
}

func NewFAQHandler(faqUsecase usecase.FAQUsecase, validator *validator.CustomValidator) *FAQHandler {
	return &FAQHandler{
		faqUsecase: faqUsecase,
		validator:  validator,
	}
}

func (h *FAQHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateFAQRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	faq, err := h.faqUsecase.Create(r.Context(), &req)
	if err != nil {
		response.InternalServerError(w, "Failed to create FAQ")
		return
	}

	response.Success(w, http.StatusCreated, "FAQ created successfully", faq)
}

// GetPublished is the public listing; only published entries are returned
func (h *FAQHandler) GetPublished(w http.ResponseWriter, r *http.Request) {
	h.list(w, r, true)
}

// GetAll is the admin listing, including drafts
func (h *FAQHandler) GetAll(w http.ResponseWriter, r *http.Request) {
	h.list(w, r, false)
}

func (h *FAQHandler) list(w http.ResponseWriter, r *http.Request, publishedOnly bool) {
	page, limit := pageParams(r)

	faqs, total, err := h.faqUsecase.GetAll(r.Context(), publishedOnly, page, limit)
	if err != nil {
		response.InternalServerError(w, "Failed to get FAQs")
		return
	}

	response.SuccessWithMeta(w, http.StatusOK, "FAQs retrieved successfully", faqs, response.NewMeta(page, limit, total))
}

func (h *FAQHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	id, err := uuid.Parse(vars["id"])
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid FAQ ID", nil)
		return
	}

	faq, err := h.faqUsecase.GetByID(r.Context(), id)
	if err != nil {
		if err == usecase.ErrFAQNotFound {
			response.NotFound(w, "FAQ not found")
			return
		}
		response.InternalServerError(w, "Failed to get FAQ")
		return
	}

	response.Success(w, http.StatusOK, "FAQ retrieved successfully", faq)
}

func (h *FAQHandler) Update(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	id, err := uuid.Parse(vars["id"])
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid FAQ ID", nil)
		return
	}

	var req dto.UpdateFAQRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	faq, err := h.faqUsecase.Update(r.Context(), id, &req)
	if err != nil {
		if err == usecase.ErrFAQNotFound {
			response.NotFound(w, "FAQ not found")
			return
		}
		response.InternalServerError(w, "Failed to update FAQ")
		return
	}

	response.Success(w, http.StatusOK, "FAQ updated successfully", faq)
}

func (h *FAQHandler) Delete(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	id, err := uuid.Parse(vars["id"])
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid FAQ ID", nil)
		return
	}

	if err := h.faqUsecase.Delete(r.Context(), id); err != nil {
		if err == usecase.ErrFAQNotFound {
			response.NotFound(w, "FAQ not found")
			return
		}
		response.InternalServerError(w, "Failed to delete FAQ")
		return
	}

	response.Success(w, http.StatusOK, "FAQ deleted successfully", nil)
}
