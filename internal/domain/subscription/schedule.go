package subscription

import (
	"encoding/json"
	"fmt"
)

type ScheduleKind string

const (
	// ScheduleFixed fires at a fixed local time of day, quarter-hour aligned.
	ScheduleFixed ScheduleKind = "fixed"
	// ScheduleRelative fires some seconds before an event start. Accepted by
	// validation, but the due engine has no implemented path for it yet.
	ScheduleRelative ScheduleKind = "relative"
)

const (
	secondsPerDay       = 86400
	fixedGranularitySec = 900
)

// Schedule is a tagged union; exactly one variant is active, selected by
// Kind. Fixed uses SendAtSecondsLocal, relative uses TimeOffsetSeconds.
type Schedule struct {
	Kind               ScheduleKind
	SendAtSecondsLocal int
	TimeOffsetSeconds  int
}

func FixedSchedule(sendAtSecondsLocal int) Schedule {
	return Schedule{Kind: ScheduleFixed, SendAtSecondsLocal: sendAtSecondsLocal}
}

func RelativeSchedule(timeOffsetSeconds int) Schedule {
	return Schedule{Kind: ScheduleRelative, TimeOffsetSeconds: timeOffsetSeconds}
}

func (s Schedule) Validate() error {
	switch s.Kind {
	case ScheduleFixed:
		if s.SendAtSecondsLocal < 0 || s.SendAtSecondsLocal >= secondsPerDay {
			return fmt.Errorf("schedule.send_at_seconds_local: %d outside [0, %d)", s.SendAtSecondsLocal, secondsPerDay)
		}
		if s.SendAtSecondsLocal%fixedGranularitySec != 0 {
			return fmt.Errorf("schedule.send_at_seconds_local: %d is not a multiple of %d", s.SendAtSecondsLocal, fixedGranularitySec)
		}
		return nil
	case ScheduleRelative:
		if s.TimeOffsetSeconds > 0 {
			return fmt.Errorf("schedule.time_offset_seconds: %d must be <= 0", s.TimeOffsetSeconds)
		}
		return nil
	default:
		return fmt.Errorf("schedule.type: unknown variant %q", s.Kind)
	}
}

type fixedJSON struct {
	Type               ScheduleKind `json:"type"`
	SendAtSecondsLocal int          `json:"send_at_seconds_local"`
}

type relativeJSON struct {
	Type              ScheduleKind `json:"type"`
	TimeOffsetSeconds int          `json:"time_offset_seconds"`
}

func (s Schedule) MarshalJSON() ([]byte, error) {
	switch s.Kind {
	case ScheduleFixed:
		return json.Marshal(fixedJSON{Type: ScheduleFixed, SendAtSecondsLocal: s.SendAtSecondsLocal})
	case ScheduleRelative:
		return json.Marshal(relativeJSON{Type: ScheduleRelative, TimeOffsetSeconds: s.TimeOffsetSeconds})
	default:
		return nil, fmt.Errorf("schedule.type: unknown variant %q", s.Kind)
	}
}

func (s *Schedule) UnmarshalJSON(data []byte) error {
	var tag struct {
		Type ScheduleKind `json:"type"`
	}
	if err := json.Unmarshal(data, &tag); err != nil {
		return err
	}
	switch tag.Type {
	case ScheduleFixed:
		var raw fixedJSON
		if err := json.Unmarshal(data, &raw); err != nil {
			return err
		}
		*s = FixedSchedule(raw.SendAtSecondsLocal)
	case ScheduleRelative:
		var raw relativeJSON
		if err := json.Unmarshal(data, &raw); err != nil {
			return err
		}
		*s = RelativeSchedule(raw.TimeOffsetSeconds)
	default:
		return fmt.Errorf("schedule.type: unknown variant %q", tag.Type)
	}
	return nil
}
