package domain

// Task is an operator-assigned unit of recurring work identified by a short
// code. Re-creating a task under the same ID silently overwrites it.
type Task struct {
	ID      string `json:"-"`
	URL     string `json:"url"`
	Created string `json:"created"`
}
