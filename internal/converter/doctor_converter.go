package converter

import (
	"patient-portal/internal/delivery/dto"
	"patient-portal/internal/domain/entity"
)

// DoctorToResponse converts a Doctor entity to DoctorResponse DTO
func DoctorToResponse(doctor *entity.Doctor) *dto.DoctorResponse {
	if doctor == nil {
		return nil
	}

	return &dto.DoctorResponse{
		ID:             doctor.ID,
		Slug:           doctor.Slug,
		Name:           doctor.Name,
		ClinicSlug:     doctor.ClinicSlug,
		Specialization: doctor.Specialization,
		KhanzaCode:     doctor.KhanzaCode,
		Biography:      doctor.Biography,
	}
}

// DoctorsToResponses converts a slice of Doctor entities to slice of DoctorResponse DTOs
func DoctorsToResponses(doctors []entity.Doctor) []dto.DoctorResponse {
	responses := make([]dto.DoctorResponse, len(doctors))
	for i := range doctors {
		responses[i] = *DoctorToResponse(&doctors[i])
	}
	return responses
}
