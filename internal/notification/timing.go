package notification

import (
	"fmt"
	"math"

	"github.com/stayfix/stayfix/internal"
)

type TimingType string

const (
	TimingBefore TimingType = "before"
	TimingOn     TimingType = "on"
	TimingAfter  TimingType = "after"
)

var ErrPositiveDays = internal.NewValidationError("Bitte eine positive Anzahl an Tagen angeben.", internal.ErrCodeInvalidOffsetDays)

func (t TimingType) Valid() bool {
	switch t {
	case TimingBefore, TimingOn, TimingAfter:
		return true
	}
	return false
}

// PhaseInput is one timing point as the editor submits it.
type PhaseInput struct {
	TimingType       TimingType `json:"timingType"`
	Days             *float64   `json:"days"`
	NotifyEmployee   bool       `json:"notifyEmployee"`
	NotifySupervisor bool       `json:"notifySupervisor"`
	OrgUnitIDs       []string   `json:"orgUnitIds"`
}

// OffsetFromPhase encodes the phase as signed days relative to expiry:
// +days before, 0 on the day, -days after. Days is ignored for "on".
func OffsetFromPhase(p PhaseInput) (int, error) {
	if p.TimingType == TimingOn {
		return 0, nil
	}
	if !p.TimingType.Valid() {
		return 0, internal.NewValidationError(
			fmt.Sprintf("Ungültiger Zeitpunkt: %q.", string(p.TimingType)),
			internal.ErrCodeInvalidTimingType,
		)
	}
	if p.Days == nil {
		return 0, ErrPositiveDays
	}
	d := *p.Days
	if math.IsNaN(d) || math.IsInf(d, 0) || d <= 0 || d != math.Trunc(d) || d > math.MaxInt32 {
		return 0, ErrPositiveDays
	}
	if p.TimingType == TimingBefore {
		return int(d), nil
	}
	return -int(d), nil
}

// TimingFromOffset is the inverse of OffsetFromPhase.
func TimingFromOffset(offset int) (TimingType, int) {
	switch {
	case offset == 0:
		return TimingOn, 0
	case offset > 0:
		return TimingBefore, offset
	default:
		return TimingAfter, -offset
	}
}

func TimingLabel(offset int) string {
	switch timing, days := TimingFromOffset(offset); timing {
	case TimingOn:
		return "Am Tag des Ablaufs"
	case TimingBefore:
		return fmt.Sprintf("%d Tage vor Ablauf", days)
	default:
		return fmt.Sprintf("%d Tage nach Ablauf", days)
	}
}

// ShortLabel is the compact form used in overview chips.
func ShortLabel(offset int) string {
	switch timing, days := TimingFromOffset(offset); timing {
	case TimingOn:
		return "Ablauf"
	case TimingBefore:
		return fmt.Sprintf("-%d Tage", days)
	default:
		return fmt.Sprintf("+%d Tage", days)
	}
}
