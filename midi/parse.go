package midi

import (
	"sort"

	"github.com/jsphweid/handex/model"
	"github.com/jsphweid/handex/util"
	"gitlab.com/gomidi/midi/v2/smf"
)

type openNote struct {
	tick     int64
	velocity uint8
}

// Tracks converts a parsed MIDI file into the arranger's track model.
// Note times are seconds derived from the file's tempo map; the raw
// tick values ride along so the emitter can write output without
// re-quantizing. Within a track, notes appear in the order their
// note-off events occur, which is source order for our purposes.
func Tracks(s *smf.SMF) []model.Track {
	var res []model.Track
	for i, events := range s.Tracks {
		t := model.Track{Index: i, Role: model.RoleUnknown}
		channelSet := false

		var absTicks int64
		open := make(map[uint8][]openNote)
		for _, ev := range events {
			absTicks += int64(ev.Delta)
			var text string
			var ch, key, vel uint8
			switch {
			case ev.Message.GetMetaTrackName(&text):
				t.Name = text
			case ev.Message.GetNoteStart(&ch, &key, &vel):
				if !channelSet {
					t.Channel = ch
					channelSet = true
				}
				open[key] = append(open[key], openNote{tick: absTicks, velocity: vel})
			case ev.Message.GetNoteEnd(&ch, &key):
				stack := open[key]
				if len(stack) == 0 {
					continue
				}
				open[key] = stack[1:]
				t.Notes = append(t.Notes, makeNote(s, key, stack[0], absTicks))
			}
		}

		// notes still sounding at end of track close there, in pitch
		// order so conversion stays deterministic
		keys := util.GetKeys(open)
		sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
		for _, key := range keys {
			for _, on := range open[key] {
				if on.tick == absTicks {
					continue
				}
				t.Notes = append(t.Notes, makeNote(s, key, on, absTicks))
			}
		}

		res = append(res, t)
	}
	return res
}

func makeNote(s *smf.SMF, key uint8, on openNote, endTicks int64) model.Note {
	start := float64(s.TimeAt(on.tick)) / 1e6
	end := float64(s.TimeAt(endTicks)) / 1e6
	return model.Note{
		Pitch:         key,
		Start:         start,
		Duration:      end - start,
		Velocity:      on.velocity,
		Ticks:         on.tick,
		DurationTicks: endTicks - on.tick,
	}
}
