package timeslice

import (
	"sort"

	"github.com/jsphweid/handex/model"
	"github.com/jsphweid/handex/util"
)

// Build partitions the timeline into minimal intervals bounded by note
// start and end events across both hands. Fewer than two distinct
// timepoints yields no slices, which makes downstream balancing a
// no-op.
func Build(right []model.Note, left []model.Note) []model.TimeSlice {
	points := make(map[float64]bool)
	for _, n := range right {
		points[n.Start] = true
		points[n.End()] = true
	}
	for _, n := range left {
		points[n.Start] = true
		points[n.End()] = true
	}

	times := util.GetKeys(points)
	sort.Float64s(times)

	if len(times) < 2 {
		return nil
	}

	res := make([]model.TimeSlice, 0, len(times)-1)
	for i := 0; i < len(times)-1; i++ {
		res = append(res, model.TimeSlice{Start: times[i], End: times[i+1]})
	}
	return res
}
