package library

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseStatus(t *testing.T) {
	tests := []struct {
		in      string
		want    Status
		wantErr bool
	}{
		{in: "Reading", want: StatusReading},
		{in: "reading", want: StatusReading},
		{in: "COMPLETED", want: StatusCompleted},
		{in: "plan-to-read", want: StatusPlanToRead},
		{in: "Plan to read", want: StatusPlanToRead},
		{in: " Plan-to-read ", want: StatusPlanToRead},
		{in: "Dropped", wantErr: true},
		{in: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseStatus(tt.in)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidStatus)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestStatus_Valid(t *testing.T) {
	assert.True(t, StatusReading.Valid())
	assert.True(t, StatusPlanToRead.Valid())
	assert.False(t, Status("reading").Valid())
	assert.False(t, Status("").Valid())
}

func TestValidateRating(t *testing.T) {
	one, ten, zero, eleven := 1, 10, 0, 11
	assert.NoError(t, ValidateRating(nil))
	assert.NoError(t, ValidateRating(&one))
	assert.NoError(t, ValidateRating(&ten))
	assert.ErrorIs(t, ValidateRating(&zero), ErrInvalidRating)
	assert.ErrorIs(t, ValidateRating(&eleven), ErrInvalidRating)
}
