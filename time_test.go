package custody

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/callora/custody/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUnixTimeFromJSON(t *testing.T) {
	settled := time.Date(2024, 5, 1, 9, 30, 0, 0, time.UTC)

	cases := map[string]struct {
		raw     string
		want    UnixTime
		wantErr *errors.Error
	}{
		"seconds":            {raw: "1714555800", want: AsUnixTime(settled)},
		"epoch":              {raw: "0", want: 0},
		"rfc3339 utc":        {raw: `"2024-05-01T09:30:00Z"`, want: AsUnixTime(settled)},
		"rfc3339 with zone":  {raw: `"2024-05-01T11:30:00.25+02:00"`, want: AsUnixTime(settled)},
		"negative seconds":   {raw: "-5", wantErr: errors.ErrInvalidArgument},
		"before epoch":       {raw: `"1969-12-31T23:00:00Z"`, wantErr: errors.ErrInvalidArgument},
		"not a time":         {raw: `"yesterday"`, wantErr: errors.ErrInvalidArgument},
		"object is rejected": {raw: `{"seconds": 1}`, wantErr: errors.ErrInvalidArgument},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			var got UnixTime
			err := json.Unmarshal([]byte(tc.raw), &got)
			if tc.wantErr != nil {
				assert.True(t, tc.wantErr.Is(err), "got %v", err)
				assert.True(t, got.IsZero())
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestUnixTimeArithmetic(t *testing.T) {
	start := time.Date(2024, 5, 1, 9, 30, 0, 0, time.UTC)
	ts := AsUnixTime(start)

	assert.Equal(t, AsUnixTime(start.Add(90*time.Minute)), ts.Add(90*time.Minute))
	assert.Equal(t, ts, ts.Add(999*time.Millisecond))
	assert.True(t, start.Equal(ts.Time()))
	assert.Equal(t, "2024-05-01T09:30:00Z", ts.String())

	assert.NoError(t, ts.Validate())
	assert.True(t, errors.ErrInvalidState.Is(UnixTime(-1).Validate()))
}
