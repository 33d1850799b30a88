package itinerary

import (
	"fmt"

	"trip-planner/internal/models"
)

// DislikeThreshold is the highest rating that triggers a replacement
const DislikeThreshold = 2

// Replacement records one slot swapped by Adjust
type Replacement struct {
	Day  int
	Slot models.TimeOfDay
	Old  models.Activity
	New  models.Activity
}

// AdjustResult carries the adjusted schedule and what happened to each disliked slot
type AdjustResult struct {
	Schedule     *models.Schedule
	Replacements []Replacement
	Unavailable  []*ErrNoReplacementAvailable
}

// Unused returns the pool activities that do not appear anywhere in the
// schedule, in flattened pool order.
func Unused(schedule *models.Schedule, pool models.ActivityPool) []models.Activity {
	scheduled := make(map[string]bool)
	for _, a := range schedule.Activities() {
		scheduled[a.ExternalID] = true
	}

	var unused []models.Activity
	for _, a := range pool.Flatten() {
		if !scheduled[a.ExternalID] {
			unused = append(unused, a)
		}
	}
	return unused
}

// Adjust swaps every slot rated at or below DislikeThreshold for the next
// unused pool activity, walking feedback in order. Slots that cannot be
// replaced are reported in Unavailable and keep their activity. The input
// schedule and pool are not modified.
func Adjust(schedule *models.Schedule, feedback []models.SlotRating, pool models.ActivityPool) (*AdjustResult, error) {
	feedback, err := validateFeedback(schedule, feedback)
	if err != nil {
		return nil, err
	}

	result := &AdjustResult{Schedule: schedule.Clone()}
	unused := Unused(schedule, pool)

	for _, fb := range feedback {
		if fb.Rating > DislikeThreshold {
			continue
		}

		day := result.Schedule.Day(fb.Day)
		current := day.Slots[fb.Slot]
		if len(unused) == 0 {
			result.Unavailable = append(result.Unavailable, &ErrNoReplacementAvailable{
				Day:     fb.Day,
				Slot:    fb.Slot,
				Current: current,
			})
			continue
		}

		next := unused[0]
		unused = unused[1:]
		day.Slots[fb.Slot] = next
		result.Replacements = append(result.Replacements, Replacement{
			Day:  fb.Day,
			Slot: fb.Slot,
			Old:  current,
			New:  next,
		})
	}

	return result, nil
}

// validateFeedback checks every entry and returns a copy with slot names in
// their canonical form, so "Evening" and "evening" address the same slot.
func validateFeedback(schedule *models.Schedule, feedback []models.SlotRating) ([]models.SlotRating, error) {
	out := make([]models.SlotRating, len(feedback))
	for i, fb := range feedback {
		if fb.Rating < models.MinRating || fb.Rating > models.MaxRating {
			return nil, &ErrInvalidFeedback{
				Entry:  fb,
				Reason: fmt.Sprintf("rating must be between %d and %d", models.MinRating, models.MaxRating),
			}
		}
		slot, ok := models.ParseTimeOfDay(string(fb.Slot))
		if !ok {
			return nil, &ErrInvalidFeedback{Entry: fb, Reason: "unknown slot"}
		}
		day := schedule.Day(fb.Day)
		if day == nil {
			return nil, &ErrInvalidFeedback{Entry: fb, Reason: "no such day"}
		}
		if _, ok := day.Slots[slot]; !ok {
			return nil, &ErrInvalidFeedback{Entry: fb, Reason: "no such slot"}
		}
		out[i] = models.SlotRating{Day: fb.Day, Slot: slot, Rating: fb.Rating}
	}
	return out, nil
}

// Reconcile checks that every scheduled activity comes from the pool and that
// the unused and scheduled activities together account for the pool exactly once.
func Reconcile(schedule *models.Schedule, pool models.ActivityPool) error {
	inPool := make(map[string]bool)
	for _, a := range pool.Flatten() {
		if inPool[a.ExternalID] {
			return &ErrScheduleMismatch{ActivityID: a.ExternalID, Reason: "duplicate activity in pool"}
		}
		inPool[a.ExternalID] = true
	}

	scheduled := make(map[string]bool)
	for _, a := range schedule.Activities() {
		if !inPool[a.ExternalID] {
			return &ErrScheduleMismatch{ActivityID: a.ExternalID, Reason: "scheduled activity is not in the pool"}
		}
		scheduled[a.ExternalID] = true
	}

	unused := Unused(schedule, pool)
	for _, a := range unused {
		if scheduled[a.ExternalID] {
			return &ErrScheduleMismatch{ActivityID: a.ExternalID, Reason: "activity is both scheduled and unused"}
		}
	}
	if len(unused)+len(scheduled) != len(inPool) {
		return &ErrScheduleMismatch{
			Reason: fmt.Sprintf("%d unused + %d scheduled does not cover %d pool activities", len(unused), len(scheduled), len(inPool)),
		}
	}
	return nil
}
