package model

// Role is the coarse musical function of a track, inferred from its
// average pitch.
type Role string

const (
	RoleMelody  Role = "melody"
	RoleBass    Role = "bass"
	RoleHarmony Role = "harmony"

	// RoleUnknown is a placeholder before classification runs.
	RoleUnknown Role = "unknown"
)

// Note is a single pitched event. Times are wall-clock seconds derived
// from the source file's tempo map; the tick values ride along so the
// emitter can write output without re-quantizing. Notes are passed by
// value everywhere, so the source performance is never mutated.
type Note struct {
	Pitch         uint8
	Start         float64
	Duration      float64
	Velocity      uint8
	Ticks         int64
	DurationTicks int64
}

func (n Note) End() float64 {
	return n.Start + n.Duration
}

// NoteKey identifies a note for de-duplication when slices are merged.
type NoteKey struct {
	Start float64
	Pitch uint8
}

func (n Note) Key() NoteKey {
	return NoteKey{Start: n.Start, Pitch: n.Pitch}
}

type Track struct {
	Index    int
	Name     string
	Channel  uint8
	Role     Role
	Notes    []Note
	AvgPitch float64
}

// TimeSlice is a minimal interval between two consecutive note
// boundary events. Derived per run, never persisted.
type TimeSlice struct {
	Start float64
	End   float64
}

func (s TimeSlice) Duration() float64 {
	return s.End - s.Start
}

// Arrangement is the final two-hand output.
type Arrangement struct {
	Right []Note
	Left  []Note
}

// TotalDuration is the end time of the latest note across both hands.
func (a Arrangement) TotalDuration() float64 {
	var end float64
	for _, n := range a.Right {
		if n.End() > end {
			end = n.End()
		}
	}
	for _, n := range a.Left {
		if n.End() > end {
			end = n.End()
		}
	}
	return end
}
