package handler

import (
	"errors"
	"net/http"

	"patient-portal/internal/delivery/dto"
	"patient-portal/internal/usecase"
	"patient-portal/pkg/response"
	"patient-portal/pkg/validator"

	"github.com/goccy/go-json"
	"github.com/sirupsen/logrus"
)

type RegistrationHandler struct {
	registrationUsecase usecase.RegistrationUsecase
	validator           *validator.CustomValidator
	log                 *logrus.Logger
}

func NewRegistrationHandler(registrationUsecase usecase.RegistrationUsecase, validator *validator.CustomValidator, log *logrus.Logger) *RegistrationHandler {
	return &RegistrationHandler{
		registrationUsecase: registrationUsecase,
		validator:           validator,
		log:                 log,
	}
}

// Register handles the public registration form. The body of a 200 is the
// flat registration contract, not the usual envelope.
func (h *RegistrationHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req dto.RegistrationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	result, err := h.registrationUsecase.Register(r.Context(), &req)
	if err != nil {
		switch {
		case errors.Is(err, usecase.ErrDuplicateRegistration):
			response.Conflict(w, err.Error())
		case errors.Is(err, usecase.ErrInvalidBirthDate),
			errors.Is(err, usecase.ErrInvalidVisitDate),
			errors.Is(err, usecase.ErrVisitDatePast):
			response.Error(w, http.StatusBadRequest, err.Error(), nil)
		default:
			h.log.Errorf("Registration failed: %+v", err)
			response.InternalServerError(w, "Failed to register patient")
		}
		return
	}

	response.JSON(w, http.StatusOK, result)
}
