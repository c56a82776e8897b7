package progress

import "fmt"

// Milestones are derived by threshold comparison at read time; no earned
// flags are ever stored.
var (
	completionThresholds = []int{25, 50, 75, 100}
	streakThresholds     = []int{3, 7, 14, 30}
)

// Milestones returns every milestone met by the given overall completion
// percentage and current streak, in a fixed order.
func Milestones(percentComplete, currentStreak int) []string {
	earned := []string{}
	for _, th := range completionThresholds {
		if percentComplete >= th {
			earned = append(earned, fmt.Sprintf("completion_%d", th))
		}
	}
	for _, th := range streakThresholds {
		if currentStreak >= th {
			earned = append(earned, fmt.Sprintf("streak_%d", th))
		}
	}
	return earned
}

// NewlyEarned returns milestones met now that were not met before. A
// milestone is newly earned only when the previous values sat below the
// threshold and the new ones meet or exceed it.
func NewlyEarned(prevPercent, prevStreak, percent, streak int) []string {
	var earned []string
	for _, th := range completionThresholds {
		if prevPercent < th && percent >= th {
			earned = append(earned, fmt.Sprintf("completion_%d", th))
		}
	}
	for _, th := range streakThresholds {
		if prevStreak < th && streak >= th {
			earned = append(earned, fmt.Sprintf("streak_%d", th))
		}
	}
	return earned
}
