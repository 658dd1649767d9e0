package entity

import (
	"database/sql/driver"
	"fmt"
	"time"

	"github.com/goccy/go-json"
	"github.com/google/uuid"
)

// Slot is one bookable (time of day, price) offering inside a weekday bucket.
type Slot struct {
	VisitTime string `json:"visit_time"`
	Price     int64  `json:"price"`
}

// SlotList is the ordered slot sequence of a bucket, stored as a single JSON
// column so times and prices can never drift apart.
type SlotList []Slot

// Value implements driver.Valuer.
func (l SlotList) Value() (driver.Value, error) {
	if l == nil {
		l = SlotList{}
	}
	return json.Marshal(l)
}

// Scan implements sql.Scanner.
func (l *SlotList) Scan(value interface{}) error {
	if value == nil {
		*l = SlotList{}
		return nil
	}
	var bytes []byte
	switch v := value.(type) {
	case []byte:
		bytes = v
	case string:
		bytes = []byte(v)
	default:
		return fmt.Errorf("failed to unmarshal slot list value: %v", value)
	}

	result := SlotList{}
	if err := json.Unmarshal(bytes, &result); err != nil {
		return err
	}
	*l = result
	return nil
}

// IndexOf returns the position of the slot at visitTime, or -1.
func (l SlotList) IndexOf(visitTime string) int {
	for i, s := range l {
		if s.VisitTime == visitTime {
			return i
		}
	}
	return -1
}

func (l SlotList) Clone() SlotList {
	out := make(SlotList, len(l))
	copy(out, l)
	return out
}

// Without returns a copy of l with the slot at index i removed.
func (l SlotList) Without(i int) SlotList {
	out := make(SlotList, 0, len(l))
	out = append(out, l[:i]...)
	return append(out, l[i+1:]...)
}

// TooClose reports whether candidate lies within gap of any slot whose hour is
// equal or adjacent to the candidate's hour.
func (l SlotList) TooClose(candidate TimeOfDay, gap time.Duration) bool {
	for _, s := range l {
		existing, err := ParseTimeOfDay(s.VisitTime)
		if err != nil {
			continue
		}
		hourDiff := existing.Hour - candidate.Hour
		if hourDiff < -1 || hourDiff > 1 {
			continue
		}
		minutes := existing.Minutes() - candidate.Minutes()
		if minutes < 0 {
			minutes = -minutes
		}
		if time.Duration(minutes)*time.Minute < gap {
			return true
		}
	}
	return false
}

// DoctorSchedule is the slot bucket of one doctor for one weekday.
// Version guards read-validate-write cycles against concurrent writers.
type DoctorSchedule struct {
	ID        int       `gorm:"primaryKey;autoIncrement" json:"id"`
	DoctorID  uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_doctor_schedules_doctor_weekday" json:"doctor_id"`
	Weekday   Weekday   `gorm:"type:varchar(10);not null;uniqueIndex:idx_doctor_schedules_doctor_weekday" json:"weekday"`
	Slots     SlotList  `gorm:"type:jsonb;not null" json:"slots"`
	Version   int       `gorm:"not null;default:1" json:"version"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`

	// Relationships
	Doctor Doctor `gorm:"foreignKey:DoctorID" json:"doctor,omitempty"`
}

func (DoctorSchedule) TableName() string {
	return "doctor_schedules"
}
