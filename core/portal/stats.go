package portal

import (
	"strconv"
)

type (
	// Tally is what the loaders last brought in.
	Tally struct {
		Assignments int
		Submissions int
		Totals      *Totals // from the student profile, nil until loaded
	}

	Totals struct {
		Total     int
		Completed int
	}

	Stat struct {
		Key   string
		Label string
		Value int
	}

	Stats []Stat
)

// Get returns the value of the stat with the key.
func (s Stats) Get(key string) (int, bool) {
	for _, st := range s {
		if st.Key == key {
			return st.Value, true
		}
	}
	return 0, false
}

func (st Stat) String() string {
	return st.Label + ": " + strconv.Itoa(st.Value)
}

// TeacherStats counts the loaded assignments and submissions.
func TeacherStats(t Tally) Stats {
	return Stats{
		{Key: "assignments", Label: "Assignments", Value: t.Assignments},
		{Key: "submissions", Label: "Submissions", Value: t.Submissions},
	}
}

// StudentStats uses the profile's totals; pending = total - completed.
func StudentStats(t Tally) Stats {
	var tot Totals
	if t.Totals != nil {
		tot = *t.Totals
	}
	return Stats{
		{Key: "total", Label: "Total", Value: tot.Total},
		{Key: "completed", Label: "Completed", Value: tot.Completed},
		{Key: "pending", Label: "Pending", Value: tot.Total - tot.Completed},
	}
}
