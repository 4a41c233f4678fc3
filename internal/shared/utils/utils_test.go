package utils

import (
	"testing"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsValidTimeOfDay(t *testing.T) {
	valid := []string{"00:00", "9:30", "09:30", "23:59", "12:05"}
	for _, s := range valid {
		assert.True(t, IsValidTimeOfDay(s), s)
	}

	invalid := []string{"", "24:00", "12:60", "1230", "12:3", "noon", "12:30:00"}
	for _, s := range invalid {
		assert.False(t, IsValidTimeOfDay(s), s)
	}
}

func TestTimeOfDayMinutes(t *testing.T) {
	m, err := TimeOfDayMinutes("00:00")
	require.NoError(t, err)
	assert.Equal(t, 0, m)

	m, err = TimeOfDayMinutes("10:30")
	require.NoError(t, err)
	assert.Equal(t, 630, m)

	m, err = TimeOfDayMinutes("23:59")
	require.NoError(t, err)
	assert.Equal(t, 1439, m)

	_, err = TimeOfDayMinutes("25:00")
	assert.Error(t, err)
}

func TestParseStringToUUID(t *testing.T) {
	id := uuid.New()
	assert.Equal(t, id, ParseStringToUUID(id.String()))
	assert.Equal(t, uuid.Nil, ParseStringToUUID(""))
	assert.Equal(t, uuid.Nil, ParseStringToUUID("not-a-uuid"))
}

func TestUnmarshalTask(t *testing.T) {
	type payload struct {
		Days int `json:"days"`
	}

	task := asynq.NewTask("notification:cleanup_old", []byte(`{"days": 30}`))
	var p payload
	require.NoError(t, UnmarshalTask(task, &p))
	assert.Equal(t, 30, p.Days)

	// Empty payload leaves dest untouched
	empty := asynq.NewTask("schedule:reminder", nil)
	p = payload{Days: 7}
	require.NoError(t, UnmarshalTask(empty, &p))
	assert.Equal(t, 7, p.Days)

	bad := asynq.NewTask("notification:cleanup_old", []byte(`{"days":`))
	assert.Error(t, UnmarshalTask(bad, &p))
}
