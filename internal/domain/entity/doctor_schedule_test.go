package entity

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSlotList_TooClose(t *testing.T) {
	slots := SlotList{{VisitTime: "09:00", Price: 50000}, {VisitTime: "10:55", Price: 40000}}
	gap := 10 * time.Minute

	cases := []struct {
		name      string
		candidate TimeOfDay
		want      bool
	}{
		{"same hour inside gap", TimeOfDay{Hour: 9, Minute: 5}, true},
		{"same hour exactly gap", TimeOfDay{Hour: 9, Minute: 10}, false},
		{"previous hour inside gap", TimeOfDay{Hour: 8, Minute: 55}, true},
		{"next hour across boundary", TimeOfDay{Hour: 11, Minute: 2}, true},
		{"far away", TimeOfDay{Hour: 14, Minute: 0}, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, slots.TooClose(tc.candidate, gap))
		})
	}
}

func TestSlotList_WithoutKeepsPairs(t *testing.T) {
	slots := SlotList{
		{VisitTime: "09:00", Price: 1},
		{VisitTime: "10:00", Price: 2},
		{VisitTime: "11:00", Price: 3},
	}

	rest := slots.Without(1)

	assert.Equal(t, SlotList{{VisitTime: "09:00", Price: 1}, {VisitTime: "11:00", Price: 3}}, rest)
	assert.Len(t, slots, 3, "original list must be untouched")
	assert.Equal(t, 2, slots.IndexOf("11:00"))
	assert.Equal(t, -1, rest.IndexOf("10:00"))
}

func TestSlotList_ValueScan(t *testing.T) {
	slots := SlotList{{VisitTime: "09:00", Price: 50000}, {VisitTime: "09:30", Price: 45000}}

	raw, err := slots.Value()
	require.NoError(t, err)

	var decoded SlotList
	require.NoError(t, decoded.Scan(raw))
	assert.Equal(t, slots, decoded)

	require.NoError(t, decoded.Scan(`[]`))
	assert.Empty(t, decoded)

	assert.Error(t, decoded.Scan(42))
}
