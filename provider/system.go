package provider

import (
	"context"
	"fmt"
	"time"

	"github.com/hupe1980/dialogmesh/core"
)

// Well-known state names describing the caller.
const (
	StateDateTime     = "date_time"
	StatePersonGender = "input_person_gender"
	StatePersonAge    = "input_person_age"
	StatePersonName   = "input_person_name"
)

// SystemStateProvider reports the local date and time and the caller
// classification carried by the session.
type SystemStateProvider struct {
	now func() time.Time
}

// NewSystemStateProvider creates a SystemStateProvider. A nil clock uses time.Now.
func NewSystemStateProvider(now func() time.Time) *SystemStateProvider {
	if now == nil {
		now = time.Now
	}
	return &SystemStateProvider{now: now}
}

// Name implements core.StateProvider.
func (p *SystemStateProvider) Name() string { return "system" }

// State implements core.StateProvider.
func (p *SystemStateProvider) State(_ context.Context, sess core.SessionContext) (core.State, error) {
	return core.State{
		StateDateTime: {
			Description: "current time and date in DD-MM-YYYY HH:MM:SS format",
			Value:       formatDateTime(p.now()),
		},
		StatePersonGender: {
			Description: "gender of person who talked to you",
			Value:       orUnknown(sess.Biometry.GenderClass),
		},
		StatePersonAge: {
			Description: "age of person who talked to you",
			Value:       orUnknown(sess.Biometry.AgeClass),
		},
	}, nil
}

func formatDateTime(t time.Time) string {
	return fmt.Sprintf("%02d-%02d-%04d %02d:%02d:%02d", t.Day(), int(t.Month()), t.Year(), t.Hour(), t.Minute(), t.Second())
}

func orUnknown(s string) string {
	if s == "" {
		return "unknown"
	}
	return s
}
