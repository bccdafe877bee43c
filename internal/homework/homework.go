// Package homework manages course notes and assignments posted on a
// timetable slot.
package homework

import "time"

// Homework is a note or assignment a lecturer attaches to a slot. DueDate is
// nil for undated notes.
type Homework struct {
	ID          string     `json:"id"`
	SlotID      string     `json:"timetableId"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	DueDate     *time.Time `json:"dueDate"`
	CreatedAt   time.Time  `json:"createdAt"`
}

// Input is the user-supplied part of a homework.
type Input struct {
	SlotID      string     `json:"timetableId" binding:"required"`
	Title       string     `json:"title" binding:"required"`
	Description string     `json:"description"`
	DueDate     *time.Time `json:"dueDate"`
}
