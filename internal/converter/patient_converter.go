package converter

import (
	"patient-portal/internal/delivery/dto"
	"patient-portal/internal/domain/entity"
)

const dateLayout = "2006-01-02"

// PatientToResponse converts a Patient entity to PatientResponse DTO
func PatientToResponse(patient *entity.Patient) *dto.PatientResponse {
	if patient == nil {
		return nil
	}

	return &dto.PatientResponse{
		ID:                  patient.ID,
		NIK:                 patient.NIK,
		Name:                patient.Name,
		Gender:              patient.Gender,
		BirthDate:           patient.BirthDate.Format(dateLayout),
		Address:             patient.Address,
		Phone:               patient.Phone,
		MedicalRecordNumber: patient.MedicalRecordNumber,
		PatientType:         string(patient.PatientType),
		CreatedAt:           patient.CreatedAt,
		UpdatedAt:           patient.UpdatedAt,
	}
}

// PatientToRegistered converts a Patient entity to the registration contract shape
func PatientToRegistered(patient *entity.Patient) dto.RegisteredPatient {
	return dto.RegisteredPatient{
		ID:                  patient.ID,
		NIK:                 patient.NIK,
		Name:                patient.Name,
		Gender:              patient.Gender,
		BirthDate:           patient.BirthDate.Format(dateLayout),
		Address:             patient.Address,
		Phone:               patient.Phone,
		MedicalRecordNumber: patient.MedicalRecordNumber,
		PatientType:         string(patient.PatientType),
	}
}
