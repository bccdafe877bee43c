package attendance

import "time"

// Record is a single immutable attendance fact: this student was present at
// this slot on this calendar day. Day is midnight-truncated.
type Record struct {
	ID        string    `json:"id"`
	StudentID string    `json:"studentId"`
	SlotID    string    `json:"timetableId"`
	Day       time.Time `json:"date"`
	CreatedAt time.Time `json:"createdAt"`
}

// SubjectCount is an aggregation row for the analytics dashboard.
type SubjectCount struct {
	Subject string `json:"subject"`
	Count   int    `json:"count"`
}
