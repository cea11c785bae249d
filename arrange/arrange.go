package arrange

import (
	"log"
	"sort"

	"github.com/jsphweid/handex/balance"
	"github.com/jsphweid/handex/classify"
	"github.com/jsphweid/handex/config"
	"github.com/jsphweid/handex/model"
	"github.com/jsphweid/handex/timeslice"
)

// Prioritize orders classified tracks for flattening: melody tracks
// first, then bass tracks, then everything else by descending note
// count. The sort is stable so equal-sized tracks keep their original
// order.
func Prioritize(tracks []model.Track) []model.Track {
	var melody, bass, rest []model.Track
	for _, t := range tracks {
		switch t.Role {
		case model.RoleMelody:
			melody = append(melody, t)
		case model.RoleBass:
			bass = append(bass, t)
		default:
			rest = append(rest, t)
		}
	}
	sort.SliceStable(rest, func(i, j int) bool {
		return len(rest[i].Notes) > len(rest[j].Notes)
	})

	res := make([]model.Track, 0, len(tracks))
	res = append(res, melody...)
	res = append(res, bass...)
	return append(res, rest...)
}

// Distribute flattens the prioritized tracks into two note sequences.
// A note lands on the right hand when its track carries the melody or
// its pitch reaches the split point; everything else goes left. The
// decision is static per note and ignores how loaded either hand
// already is. Notes are not time-sorted here; within a track they stay
// in source order.
func Distribute(tracks []model.Track, splitPoint uint8) (right []model.Note, left []model.Note) {
	for _, t := range Prioritize(tracks) {
		for _, n := range t.Notes {
			if t.Role == model.RoleMelody || n.Pitch >= splitPoint {
				right = append(right, n)
			} else {
				left = append(left, n)
			}
		}
	}
	return right, left
}

// Run executes the whole pipeline on raw tracks: classify, distribute,
// slice, rebalance. Deterministic for identical input and options.
func Run(tracks []model.Track, opts config.Options) model.Arrangement {
	classified := classify.Classify(tracks)
	right, left := Distribute(classified, opts.SplitPoint)
	slices := timeslice.Build(right, left)
	res := balance.Rebalance(slices, right, left, opts.MaxRightHandNotes, opts.MaxLeftHandNotes)

	if len(res.Right) == 0 && len(res.Left) == 0 && len(right)+len(left) > 0 {
		log.Printf("warning: arrangement came out empty for both hands despite %v input notes", len(right)+len(left))
	}
	return res
}
