package classify

import (
	"github.com/jsphweid/handex/constants"
	"github.com/jsphweid/handex/model"
)

// Average-pitch boundaries for the role labels. Tracks sitting mostly
// above the staff read as melody, tracks below the bass clef midpoint
// read as bass.
const (
	melodyPitchAbove = 65
	bassPitchBelow   = 52
)

// Classify labels every playable track with a role and drops the rest.
// A track with no notes, or parked on the percussion channel, never
// reaches later stages. Relative track order is preserved.
func Classify(tracks []model.Track) []model.Track {
	var res []model.Track
	for _, t := range tracks {
		if len(t.Notes) == 0 || t.Channel == constants.PercussionChannel {
			continue
		}
		t.AvgPitch = averagePitch(t.Notes)
		t.Role = roleFor(t.AvgPitch)
		res = append(res, t)
	}
	return res
}

func averagePitch(notes []model.Note) float64 {
	var sum int
	for _, n := range notes {
		sum += int(n.Pitch)
	}
	return float64(sum) / float64(len(notes))
}

func roleFor(avgPitch float64) model.Role {
	switch {
	case avgPitch > melodyPitchAbove:
		return model.RoleMelody
	case avgPitch < bassPitchBelow:
		return model.RoleBass
	default:
		return model.RoleHarmony
	}
}
