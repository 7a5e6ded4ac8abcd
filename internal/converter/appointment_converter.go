package converter

import (
	"patient-portal/internal/delivery/dto"
	"patient-portal/internal/domain/entity"

	"github.com/google/uuid"
)

// AppointmentToResponse converts an Appointment entity to AppointmentResponse DTO
func AppointmentToResponse(appointment *entity.Appointment) *dto.AppointmentResponse {
	if appointment == nil {
		return nil
	}

	resp := &dto.AppointmentResponse{
		ID:                       appointment.ID,
		PatientID:                appointment.PatientID,
		ClinicSlug:               appointment.ClinicSlug,
		DoctorSlug:               appointment.DoctorSlug,
		VisitDate:                appointment.VisitDate.Format(dateLayout),
		QueueNumber:              appointment.QueueNumber,
		Status:                   string(appointment.Status),
		KhanzaSyncStatus:         string(appointment.KhanzaSyncStatus),
		SyncMethod:               appointment.SyncMethod,
		KhanzaRegistrationNumber: appointment.KhanzaRegistrationNumber,
		CreatedAt:                appointment.CreatedAt,
		UpdatedAt:                appointment.UpdatedAt,
	}
	if appointment.Patient.ID != uuid.Nil {
		resp.Patient = PatientToResponse(&appointment.Patient)
	}
	return resp
}

// AppointmentsToResponses converts a slice of Appointment entities to slice of AppointmentResponse DTOs
func AppointmentsToResponses(appointments []entity.Appointment) []dto.AppointmentResponse {
	responses := make([]dto.AppointmentResponse, len(appointments))
	for i := range appointments {
		responses[i] = *AppointmentToResponse(&appointments[i])
	}
	return responses
}

// AppointmentToRegistered converts an Appointment entity to the registration contract shape
func AppointmentToRegistered(appointment *entity.Appointment) dto.RegisteredAppointment {
	return dto.RegisteredAppointment{
		ID:          appointment.ID,
		PatientID:   appointment.PatientID,
		Polyclinic:  appointment.ClinicSlug,
		Doctor:      appointment.DoctorSlug,
		VisitDate:   appointment.VisitDate.Format(dateLayout),
		QueueNumber: appointment.QueueNumber,
		Status:      string(appointment.Status),
		CreatedAt:   appointment.CreatedAt,
	}
}
