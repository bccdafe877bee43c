package timetable

import (
	"time"

	"classtrack/internal/apperror"
	"classtrack/internal/clock"
)

// PlaceholderTBA fills location/lecturer fields the source document left
// unknown.
const PlaceholderTBA = "TBA"

// Slot is a recurring weekly class in a user's personal schedule.
type Slot struct {
	ID        string    `json:"id"`
	UserID    string    `json:"userId"`
	Day       string    `json:"day"`
	Time      string    `json:"time"`
	Subject   string    `json:"subject"`
	Location  string    `json:"location"`
	Lecturer  string    `json:"lecturer"`
	CreatedAt time.Time `json:"createdAt"`
}

// Candidate is an extracted schedule row awaiting review. It is not
// persisted until imported.
type Candidate struct {
	Subject  string `json:"subject"`
	Day      string `json:"day"`
	Time     string `json:"time"`
	Location string `json:"location"`
	Lecturer string `json:"lecturer"`
}

// SlotInput is the user-supplied part of a slot.
type SlotInput struct {
	Day      string `json:"day" binding:"required"`
	Time     string `json:"time" binding:"required"`
	Subject  string `json:"subject" binding:"required"`
	Location string `json:"location" binding:"required"`
	Lecturer string `json:"lecturer" binding:"required"`
}

// Validate enforces the slot invariants: a real weekday name and a 24-hour
// HH:MM time.
func (in SlotInput) Validate() error {
	if in.Subject == "" || in.Location == "" || in.Lecturer == "" {
		return apperror.Invalid("subject, location and lecturer are required")
	}
	if !clock.IsWeekday(in.Day) {
		return apperror.Invalid("day must be a weekday name (Monday..Sunday)")
	}
	if !clock.ValidHHMM(in.Time) {
		return apperror.Invalid("time must be 24-hour HH:MM")
	}
	return nil
}
