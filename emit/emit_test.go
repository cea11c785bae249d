package emit

import (
	"bytes"
	"log"
	"testing"

	"github.com/jsphweid/handex/model"
	"github.com/stretchr/testify/assert"
	"gitlab.com/gomidi/midi/v2/smf"
)

type renderedNote struct {
	key uint8
	vel uint8
}

func trackName(tr smf.Track) string {
	var name string
	for _, ev := range tr {
		if ev.Message.GetMetaTrackName(&name) {
			return name
		}
	}
	return ""
}

func noteStarts(tr smf.Track) []renderedNote {
	var res []renderedNote
	for _, ev := range tr {
		var ch, key, vel uint8
		if ev.Message.GetNoteStart(&ch, &key, &vel) {
			res = append(res, renderedNote{key: key, vel: vel})
		}
	}
	return res
}

func playableNote(pitch uint8, vel uint8) model.Note {
	return model.Note{
		Pitch: pitch, Start: 0, Duration: 0.5,
		Velocity: vel, Ticks: 0, DurationTicks: 960,
	}
}

func TestRenderProducesTwoNamedHandTracks(t *testing.T) {
	arr := model.Arrangement{
		Right: []model.Note{playableNote(72, 100)},
		Left:  []model.Note{playableNote(40, 90)},
	}
	out := Render(nil, arr)

	assert := assert.New(t)
	assert.Len(out.Tracks, 3)
	assert.Equal("Right Hand", trackName(out.Tracks[1]))
	assert.Equal("Left Hand", trackName(out.Tracks[2]))
	assert.Equal([]renderedNote{{key: 72, vel: 100}}, noteStarts(out.Tracks[1]))
	assert.Equal([]renderedNote{{key: 40, vel: 90}}, noteStarts(out.Tracks[2]))
}

func TestRenderSetsPianoProgram(t *testing.T) {
	out := Render(nil, model.Arrangement{})

	found := false
	for _, ev := range out.Tracks[1] {
		var ch, program uint8
		if ev.Message.GetProgramChange(&ch, &program) {
			found = true

			assert.Equal(t, uint8(0), program)
		}
	}
	assert.True(t, found)
}

func TestMissingVelocityDefaultsTo64(t *testing.T) {
	arr := model.Arrangement{Right: []model.Note{playableNote(72, 0)}}
	out := Render(nil, arr)

	assert := assert.New(t)
	assert.Equal([]renderedNote{{key: 72, vel: 64}}, noteStarts(out.Tracks[1]))
}

func TestMalformedNotesAreSkippedNotFatal(t *testing.T) {
	broken := model.Note{Pitch: 75, Start: 0, Duration: 0, Ticks: 0, DurationTicks: 0}
	arr := model.Arrangement{Right: []model.Note{broken, playableNote(72, 100)}}
	out := Render(nil, arr)

	assert := assert.New(t)
	assert.Equal([]renderedNote{{key: 72, vel: 100}}, noteStarts(out.Tracks[1]))
}

func TestWarnsWhenNoNotesSurviveEmission(t *testing.T) {
	var buf bytes.Buffer
	prev := log.Writer()
	log.SetOutput(&buf)
	defer log.SetOutput(prev)

	broken := model.Note{Pitch: 75, Start: 0, Duration: 0, Ticks: 0, DurationTicks: 0}
	out := Render(nil, model.Arrangement{Right: []model.Note{broken}})

	assert := assert.New(t)
	assert.Len(out.Tracks, 3)
	assert.Empty(noteStarts(out.Tracks[1]))
	assert.Empty(noteStarts(out.Tracks[2]))
	assert.Contains(buf.String(), "no notes survived emission")
}

func TestEmptyArrangementDoesNotWarn(t *testing.T) {
	var buf bytes.Buffer
	prev := log.Writer()
	log.SetOutput(&buf)
	defer log.SetOutput(prev)

	Render(nil, model.Arrangement{})

	assert := assert.New(t)
	assert.NotContains(buf.String(), "no notes survived emission")
}

func TestConductorCopiesSourceMeta(t *testing.T) {
	src := smf.NewSMF1()
	var tr smf.Track
	tr = append(tr, smf.Event{Delta: 0, Message: smf.MetaTempo(90)})
	tr.Close(0)
	src.Add(tr)

	out := Render(src, model.Arrangement{})

	found := false
	for _, ev := range out.Tracks[0] {
		if ev.Message.Is(smf.MetaTempoMsg) {
			found = true
		}
	}

	assert := assert.New(t)
	assert.True(found)
	assert.Equal(src.TimeFormat, out.TimeFormat)
}

func TestNoteOffBeforeRestrikeAtSameTick(t *testing.T) {
	first := model.Note{Pitch: 72, Start: 0, Duration: 0.5, Ticks: 0, DurationTicks: 960}
	second := model.Note{Pitch: 72, Start: 0.5, Duration: 0.5, Ticks: 960, DurationTicks: 960}
	out := Render(nil, model.Arrangement{Right: []model.Note{first, second}})

	var order []bool // true = note end
	for _, ev := range out.Tracks[1] {
		var ch, key, vel uint8
		if ev.Message.GetNoteStart(&ch, &key, &vel) {
			order = append(order, false)
		} else if ev.Message.GetNoteEnd(&ch, &key) {
			order = append(order, true)
		}
	}

	assert := assert.New(t)
	assert.Equal([]bool{false, true, false, true}, order)
}
