package custody

import (
	"encoding/json"
	"time"

	"github.com/callora/custody/errors"
)

// UnixTime is a second precision timestamp. Settlement records store it
// instead of time.Time so their encoding does not depend on the location
// or the monotonic clock reading.
type UnixTime int64

// AsUnixTime truncates t to seconds.
func AsUnixTime(t time.Time) UnixTime {
	return UnixTime(t.Unix())
}

func (t UnixTime) Time() time.Time {
	return time.Unix(int64(t), 0).UTC()
}

func (t UnixTime) IsZero() bool {
	return t == 0
}

// Add shifts the timestamp by d, dropping anything below a second.
func (t UnixTime) Add(d time.Duration) UnixTime {
	return t + UnixTime(d/time.Second)
}

func (t UnixTime) Validate() error {
	if t < 0 {
		return errors.Wrapf(errors.ErrInvalidState, "timestamp %d before epoch", int64(t))
	}
	return nil
}

func (t UnixTime) String() string {
	return t.Time().Format(time.RFC3339)
}

// UnmarshalJSON accepts either seconds since epoch or an RFC 3339 string,
// the latter being easier to write by hand in a genesis file.
func (t *UnixTime) UnmarshalJSON(raw []byte) error {
	var parsed UnixTime
	var seconds int64
	var stamp time.Time
	switch {
	case json.Unmarshal(raw, &seconds) == nil:
		parsed = UnixTime(seconds)
	case json.Unmarshal(raw, &stamp) == nil:
		parsed = AsUnixTime(stamp)
	default:
		return errors.Wrapf(errors.ErrInvalidArgument, "time %s", raw)
	}
	if parsed < 0 {
		return errors.Wrapf(errors.ErrInvalidArgument, "time %s before epoch", raw)
	}
	*t = parsed
	return nil
}
