package model

import "strings"

// Task is a backend-owned background job
type Task struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Status    string `json:"status"`
	StartTime string `json:"startTime"`
}

// IsCompleted reports whether the task status is "completed" in any case
func (t Task) IsCompleted() bool {
	return strings.EqualFold(strings.TrimSpace(t.Status), "completed")
}
