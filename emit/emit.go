package emit

import (
	"fmt"
	"log"
	"sort"

	"github.com/jsphweid/handex/constants"
	"github.com/jsphweid/handex/model"
	"gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/smf"
)

const (
	rightHandTrackName = "Right Hand"
	leftHandTrackName  = "Left Hand"
)

// Render builds the two-track output file from an arrangement. The
// conductor track copies the source file's tempo, time-signature and
// key-signature maps plus free-text metadata verbatim; both hand
// tracks carry an acoustic grand piano voice. A note that cannot be
// written is logged and skipped so a partial arrangement still comes
// out; both hand tracks ending up empty despite a non-empty
// arrangement is logged as an anomaly, not an error.
func Render(src *smf.SMF, arr model.Arrangement) *smf.SMF {
	out := smf.NewSMF1()
	if src != nil {
		out.TimeFormat = src.TimeFormat
	}

	rightTrack, rightWritten := handTrack(rightHandTrackName, 0, arr.Right)
	leftTrack, leftWritten := handTrack(leftHandTrackName, 1, arr.Left)

	out.Add(conductorTrack(src))
	out.Add(rightTrack)
	out.Add(leftTrack)

	if rightWritten+leftWritten == 0 && len(arr.Right)+len(arr.Left) > 0 {
		log.Printf("warning: no notes survived emission for either hand")
	}
	return out
}

type metaEvent struct {
	tick int64
	msg  smf.Message
}

func conductorTrack(src *smf.SMF) smf.Track {
	var events []metaEvent
	if src != nil {
		for i, tr := range src.Tracks {
			var absTicks int64
			for _, ev := range tr {
				absTicks += int64(ev.Delta)
				if keepMeta(ev.Message, i == 0) {
					events = append(events, metaEvent{tick: absTicks, msg: ev.Message})
				}
			}
		}
	}
	sort.SliceStable(events, func(i, j int) bool {
		return events[i].tick < events[j].tick
	})

	var track smf.Track
	var lastTick int64
	for _, e := range events {
		track = append(track, smf.Event{Delta: uint32(e.tick - lastTick), Message: e.msg})
		lastTick = e.tick
	}
	track.Close(0)
	return track
}

// keepMeta picks the header events worth carrying over. The track name
// only survives from the first track so the conductor does not collect
// a name per source track.
func keepMeta(msg smf.Message, firstTrack bool) bool {
	if msg.Is(smf.MetaTrackNameMsg) {
		return firstTrack
	}
	return msg.Is(smf.MetaTempoMsg) ||
		msg.Is(smf.MetaTimeSigMsg) ||
		msg.Is(smf.MetaKeySigMsg) ||
		msg.Is(smf.MetaTextMsg) ||
		msg.Is(smf.MetaCopyrightMsg) ||
		msg.Is(smf.MetaMarkerMsg)
}

type noteEvent struct {
	tick int64
	off  bool
	key  uint8
	vel  uint8
}

func handTrack(name string, channel uint8, notes []model.Note) (smf.Track, int) {
	var track smf.Track
	track = append(track, smf.Event{Message: smf.MetaTrackSequenceName(name)})
	track.Add(0, midi.ProgramChange(channel, constants.PianoProgram))

	var written int
	var events []noteEvent
	for _, n := range notes {
		if err := validate(n); err != nil {
			log.Printf("skipping note on %v track: %v", name, err)
			continue
		}
		written++
		vel := n.Velocity
		if vel == 0 {
			vel = constants.DefaultVelocity
		}
		events = append(events, noteEvent{tick: n.Ticks, key: n.Pitch, vel: vel})
		events = append(events, noteEvent{tick: n.Ticks + n.DurationTicks, off: true, key: n.Pitch})
	}

	// note-offs first on equal ticks so a re-struck pitch is not
	// silenced by the previous note's release
	sort.SliceStable(events, func(i, j int) bool {
		if events[i].tick != events[j].tick {
			return events[i].tick < events[j].tick
		}
		return events[i].off && !events[j].off
	})

	var lastTick int64
	for _, e := range events {
		delta := uint32(e.tick - lastTick)
		if e.off {
			track.Add(delta, midi.NoteOff(channel, e.key))
		} else {
			track.Add(delta, midi.NoteOn(channel, e.key, e.vel))
		}
		lastTick = e.tick
	}
	track.Close(0)
	return track, written
}

func validate(n model.Note) error {
	if n.Pitch > 127 {
		return fmt.Errorf("pitch %v out of range", n.Pitch)
	}
	if n.Start < 0 || n.Ticks < 0 {
		return fmt.Errorf("negative start time for pitch %v", n.Pitch)
	}
	if n.Duration <= 0 || n.DurationTicks <= 0 {
		return fmt.Errorf("non-positive duration for pitch %v", n.Pitch)
	}
	return nil
}
