package constants

import "os"

func GetStagingDir() string {
	path := os.Getenv("STAGING_PATH")
	if path != "" {
		return path
	}
	return "./staging"
}

// Channel 9 (0-indexed) is reserved for percussion in General MIDI.
const PercussionChannel = 9

// DefaultSplitPoint is middle C. Non-melody notes below it default to
// the left hand.
const DefaultSplitPoint = 60

// Library defaults for the polyphony ceilings. Entry points layer
// tighter defaults on top.
const (
	DefaultMaxRightHandNotes = 12
	DefaultMaxLeftHandNotes  = 10
)

const DefaultVelocity = 64

// General MIDI program 0 is acoustic grand piano.
const PianoProgram = 0
