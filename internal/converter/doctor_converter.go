package converter

import (
	"doctor-booking/internal/delivery/dto"
	"doctor-booking/internal/domain/entity"
)

// DoctorToResponse converts a Doctor entity to DoctorResponse DTO
func DoctorToResponse(doctor *entity.Doctor) *dto.DoctorResponse {
	if doctor == nil {
		return nil
	}

	return &dto.DoctorResponse{
		ID:              doctor.ID,
		FullName:        doctor.FullName,
		Specialization:  doctor.Specialization,
		Status:          string(doctor.Status),
		Available:       doctor.Available,
		Active:          doctor.CanReceiveAppointments(),
		Reason:          doctor.Reason,
		StatusCheckedAt: doctor.StatusCheckedAt,
	}
}
