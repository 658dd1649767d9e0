package database

import (
	"fmt"

	"doctor-booking/internal/domain/entity"

	"gorm.io/gorm"
)

const activeSlotIndexName = "idx_appointments_active_slot"

// activeSlotIndex keeps at most one Reserved or Done appointment per doctor
// and concrete visit instant. Partial indexes work on PostgreSQL and SQLite.
var activeSlotIndex = fmt.Sprintf(`CREATE UNIQUE INDEX IF NOT EXISTS %s
ON appointments (doctor_id, visit_timestamp)
WHERE status IN ('%s', '%s')`, activeSlotIndexName, entity.AppointmentStatusReserved, entity.AppointmentStatusDone)

// AutoMigrate creates the schema from the entities. Used in development and
// tests; production runs the embedded SQL migrations.
func AutoMigrate(db *gorm.DB) error {
	err := db.AutoMigrate(
		&entity.User{},
		&entity.Doctor{},
		&entity.DoctorSchedule{},
		&entity.Appointment{},
		&entity.AuditLog{},
	)
	if err != nil {
		return fmt.Errorf("failed to auto migrate: %w", err)
	}

	if err := db.Exec(activeSlotIndex).Error; err != nil {
		return fmt.Errorf("failed to create active slot index: %w", err)
	}
	return nil
}
