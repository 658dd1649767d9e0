package converter

import (
	"doctor-booking/internal/delivery/dto"
	"doctor-booking/internal/domain/entity"
)

// AppointmentToResponse converts an Appointment entity to AppointmentResponse DTO
func AppointmentToResponse(appointment *entity.Appointment) *dto.AppointmentResponse {
	if appointment == nil {
		return nil
	}

	return &dto.AppointmentResponse{
		ID:             appointment.ID,
		DoctorID:       appointment.DoctorID,
		UserID:         appointment.UserID,
		Weekday:        string(appointment.Weekday),
		VisitTime:      appointment.VisitTime,
		VisitTimestamp: appointment.VisitTimestamp,
		VisitAt:        appointment.VisitAt,
		Price:          appointment.Price,
		Status:         string(appointment.Status),
		Paid:           appointment.Paid,
		PaymentAt:      appointment.PaymentAt,
		CreatedAt:      appointment.CreatedAt,
		UpdatedAt:      appointment.UpdatedAt,
	}
}

// AppointmentsToListResponse converts a slice of Appointment entities to AppointmentListResponse DTO
func AppointmentsToListResponse(appointments []entity.Appointment) *dto.AppointmentListResponse {
	responses := make([]dto.AppointmentResponse, len(appointments))
	for i := range appointments {
		responses[i] = *AppointmentToResponse(&appointments[i])
	}
	return &dto.AppointmentListResponse{
		Appointments: responses,
		Total:        len(responses),
	}
}
