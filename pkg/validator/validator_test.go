package validator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type slotInput struct {
	Weekday   string `validate:"required,weekday"`
	VisitTime string `validate:"required,hhmm"`
	Price     int64  `validate:"required,gt=0"`
}

func TestCustomValidator(t *testing.T) {
	v := NewValidator()

	assert.NoError(t, v.Validate(slotInput{Weekday: "saturday", VisitTime: "09:30", Price: 30000}))

	err := v.Validate(slotInput{Weekday: "someday", VisitTime: "9:30", Price: -1})
	require.Error(t, err)

	errs := v.FormatValidationErrors(err)
	assert.Equal(t, "Weekday must be a weekday name such as saturday", errs["Weekday"])
	assert.Equal(t, "VisitTime must be a time of day as HH:MM", errs["VisitTime"])
	assert.Equal(t, "Price must be greater than 0", errs["Price"])
}
