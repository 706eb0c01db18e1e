package models

// Months are the labels used by prototypes/monthly_submissions/.
var Months = []string{"Jan", "Feb", "Mar", "Apr", "May", "Jun", "Jul", "Aug", "Sep", "Oct", "Nov", "Dec"}

// Counts is the body of prototypes/count/. Older deployments answer with a
// single "count" field only.
type Counts struct {
	Count     int `json:"count"`
	Yours     int `json:"your_count"`
	Available int `json:"available_count"`
}

// Total returns the best available overall count.
func (c Counts) Total() int {
	if c.Available != 0 {
		return c.Available
	}
	return c.Count
}

// MonthlySubmissions maps month labels to submission counts.
type MonthlySubmissions map[string]int

// Series returns twelve values in calendar order, zero-filling months the
// backend left out.
func (m MonthlySubmissions) Series() []int {
	out := make([]int, len(Months))
	for i, label := range Months {
		out[i] = m[label]
	}
	return out
}

// Stats is the dashboard summary.
type Stats struct {
	Year             int
	Counts           Counts
	Monthly          []int
	StorageLocations []string
}
