package chrono

import (
	"time"
	_ "time/tzdata"
)

// TimeAPI is the interface that anything depending on the system clock should use.
type TimeAPI interface {
	Now() time.Time
}

// StandardTime is the standard implementation of TimeAPI using the standard library,
// times are returned in the given location (Europe/Rome by default, where the portal lives).
type StandardTime struct {
	location *time.Location
}

// NewStandardTime is the constructor of StandardTime.
func NewStandardTime() (StandardTime, error) {
	location, err := time.LoadLocation("Europe/Rome")
	if err != nil {
		return StandardTime{}, err
	}
	return StandardTime{location: location}, nil
}

func (s StandardTime) Now() time.Time {
	if s.location == nil {
		return time.Now()
	}
	return time.Now().In(s.location)
}

// FixedTime always returns the same instant, used in tests.
type FixedTime struct {
	Time time.Time
}

func (f FixedTime) Now() time.Time {
	return f.Time
}
