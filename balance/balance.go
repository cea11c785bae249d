package balance

import (
	"github.com/jsphweid/handex/model"
)

// Covers reports whether the note spans the whole slice. Simultaneity
// analysis uses containment, not overlap: a note that ends partway
// through a slice is not held during it.
func Covers(n model.Note, s model.TimeSlice) bool {
	return n.Start <= s.Start && n.End() >= s.End
}

// Rebalance enforces the per-hand polyphony ceilings slice by slice.
// All notes live in one arena; each hand is a bucket of arena indices
// and a move is an index transfer between buckets, so iteration never
// chases reassigned notes.
//
// Per slice, two passes run once each: right-hand overflow sheds its
// lowest-pitched active notes to the left, then left-hand overflow
// sheds its highest back to the right. The second pass can push the
// right hand over its ceiling again; that is not re-checked. Surviving
// active notes merge into the per-hand result, de-duplicated by
// (start, pitch). Inputs are never mutated.
func Rebalance(slices []model.TimeSlice, right []model.Note, left []model.Note, maxRight int, maxLeft int) model.Arrangement {
	if len(slices) == 0 {
		return model.Arrangement{
			Right: append([]model.Note(nil), right...),
			Left:  append([]model.Note(nil), left...),
		}
	}

	arena := make([]model.Note, 0, len(right)+len(left))
	rightBucket := make([]int, 0, len(right))
	leftBucket := make([]int, 0, len(left))
	for _, n := range right {
		arena = append(arena, n)
		rightBucket = append(rightBucket, len(arena)-1)
	}
	for _, n := range left {
		arena = append(arena, n)
		leftBucket = append(leftBucket, len(arena)-1)
	}

	var optRight, optLeft []model.Note
	seenRight := make(map[model.NoteKey]bool)
	seenLeft := make(map[model.NoteKey]bool)

	for _, s := range slices {
		activeRight := activeIn(arena, rightBucket, s)
		activeLeft := activeIn(arena, leftBucket, s)

		for len(activeRight) > maxRight && len(activeRight) > 0 {
			pos := lowestPos(arena, activeRight)
			idx := activeRight[pos]
			activeRight = append(activeRight[:pos], activeRight[pos+1:]...)
			rightBucket = removeIndex(rightBucket, idx)
			leftBucket = append(leftBucket, idx)
			activeLeft = append(activeLeft, idx)
		}

		for len(activeLeft) > maxLeft && len(activeLeft) > 0 {
			pos := highestPos(arena, activeLeft)
			idx := activeLeft[pos]
			activeLeft = append(activeLeft[:pos], activeLeft[pos+1:]...)
			leftBucket = removeIndex(leftBucket, idx)
			rightBucket = append(rightBucket, idx)
			activeRight = append(activeRight, idx)
		}

		for _, idx := range activeRight {
			n := arena[idx]
			if !seenRight[n.Key()] {
				seenRight[n.Key()] = true
				optRight = append(optRight, n)
			}
		}
		for _, idx := range activeLeft {
			n := arena[idx]
			if !seenLeft[n.Key()] {
				seenLeft[n.Key()] = true
				optLeft = append(optLeft, n)
			}
		}
	}

	return model.Arrangement{Right: optRight, Left: optLeft}
}

func activeIn(arena []model.Note, bucket []int, s model.TimeSlice) []int {
	var res []int
	for _, idx := range bucket {
		if Covers(arena[idx], s) {
			res = append(res, idx)
		}
	}
	return res
}

// lowestPos returns the position of the lowest-pitched note, keeping
// the first one found on ties.
func lowestPos(arena []model.Note, active []int) int {
	pos := 0
	for p := 1; p < len(active); p++ {
		if arena[active[p]].Pitch < arena[active[pos]].Pitch {
			pos = p
		}
	}
	return pos
}

func highestPos(arena []model.Note, active []int) int {
	pos := 0
	for p := 1; p < len(active); p++ {
		if arena[active[p]].Pitch > arena[active[pos]].Pitch {
			pos = p
		}
	}
	return pos
}

func removeIndex(bucket []int, idx int) []int {
	for p, v := range bucket {
		if v == idx {
			return append(bucket[:p], bucket[p+1:]...)
		}
	}
	return bucket
}
