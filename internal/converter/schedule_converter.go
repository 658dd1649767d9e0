package converter

import (
	"doctor-booking/internal/delivery/dto"
	"doctor-booking/internal/domain/entity"

	"github.com/google/uuid"
)

// SlotToResponse converts a Slot to SlotResponse DTO
func SlotToResponse(slot entity.Slot) dto.SlotResponse {
	return dto.SlotResponse{
		VisitTime: slot.VisitTime,
		Price:     slot.Price,
	}
}

// SchedulesToResponse renders a doctor's buckets, skipping empty ones.
// Buckets are expected in business-week order.
func SchedulesToResponse(doctorID uuid.UUID, schedules []entity.DoctorSchedule) *dto.DoctorScheduleResponse {
	days := make([]dto.WeekdayScheduleResponse, 0, len(schedules))
	for _, schedule := range schedules {
		if len(schedule.Slots) == 0 {
			continue
		}
		details := make([]dto.SlotResponse, len(schedule.Slots))
		for i, slot := range schedule.Slots {
			details[i] = SlotToResponse(slot)
		}
		days = append(days, dto.WeekdayScheduleResponse{
			Weekday: string(schedule.Weekday),
			Details: details,
		})
	}

	return &dto.DoctorScheduleResponse{
		DoctorID: doctorID,
		Days:     days,
	}
}
