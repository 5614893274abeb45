package trainer

import (
	"fmt"
	"time"
)

// BuildPlan builds an ordered interval plan from the configured durations.
// It never fails: out-of-range inputs are clamped to the nearest valid value.
// The result always contains at least one high intensity interval, with a
// rest interval between each pair of work intervals and an optional leading
// warmup when warmup > 0.
func BuildPlan(warmup, highIntensity, rest time.Duration, repeatCount int) IntervalPlan {
	if repeatCount < 1 {
		repeatCount = 1
	}
	if warmup < 0 {
		warmup = 0
	}
	if rest < 0 {
		rest = 0
	}
	if highIntensity < MinHighIntensityDuration {
		highIntensity = MinHighIntensityDuration
	}

	plan := make(IntervalPlan, 0, 2*repeatCount)
	if warmup > 0 {
		plan = append(plan, Interval{
			Name:     "Warmup",
			Duration: warmup,
			Kind:     IntervalKindWarmup,
		})
	}
	for i := 0; i < repeatCount; i++ {
		plan = append(plan, Interval{
			Name:     fmt.Sprintf("High Intensity %d/%d", i+1, repeatCount),
			Duration: highIntensity,
			Kind:     IntervalKindHighIntensity,
		})
		if i < repeatCount-1 {
			plan = append(plan, Interval{
				Name:     fmt.Sprintf("Rest %d/%d", i+1, repeatCount-1),
				Duration: rest,
				Kind:     IntervalKindRest,
			})
		}
	}
	return plan
}
