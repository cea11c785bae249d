package model

type ArrangeResponse struct {
	Id             string        `json:"id"`
	TrackCount     int           `json:"track_count"`
	RightHandNotes int           `json:"right_hand_notes"`
	LeftHandNotes  int           `json:"left_hand_notes"`
	Duration       float64       `json:"duration"`
	Metadata       *MidiMetadata `json:"metadata,omitempty"`
}

type ErrorResponse struct {
	Error string `json:"detail"`
}
