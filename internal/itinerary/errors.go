package itinerary

import (
	"fmt"

	"trip-planner/internal/models"
)

// ErrInvalidDayCount is returned when a schedule is requested for fewer than one day
type ErrInvalidDayCount struct {
	Days int
}

func (e *ErrInvalidDayCount) Error() string {
	return fmt.Sprintf("invalid day count %d: must be at least 1", e.Days)
}

// ErrEmptyCategory is returned when a pool category has no activities to schedule
type ErrEmptyCategory struct {
	Category models.TimeOfDay
}

func (e *ErrEmptyCategory) Error() string {
	return fmt.Sprintf("no %s activities available to build an itinerary", e.Category)
}

// ErrNoReplacementAvailable reports a disliked slot that was left unchanged
// because every pool activity is already scheduled.
type ErrNoReplacementAvailable struct {
	Day     int
	Slot    models.TimeOfDay
	Current models.Activity
}

func (e *ErrNoReplacementAvailable) Error() string {
	return fmt.Sprintf("no unused activity left to replace %s on day %d (%s)", e.Current.Name, e.Day, e.Slot)
}

// ErrInvalidFeedback is returned when a rating references a missing slot or
// falls outside the rating scale.
type ErrInvalidFeedback struct {
	Entry  models.SlotRating
	Reason string
}

func (e *ErrInvalidFeedback) Error() string {
	return fmt.Sprintf("invalid feedback for day %d %s: %s", e.Entry.Day, e.Entry.Slot, e.Reason)
}

// ErrScheduleMismatch is returned by Reconcile when a schedule and its pool disagree
type ErrScheduleMismatch struct {
	ActivityID string
	Reason     string
}

func (e *ErrScheduleMismatch) Error() string {
	return fmt.Sprintf("schedule does not match pool at %q: %s", e.ActivityID, e.Reason)
}
