package arrivals

import (
	"fmt"
	"math"
	"time"
)

// Display labels for time-relative arrival state.
const (
	LabelDeparted = "departed"
	LabelArriving = "arriving"
	LabelLeaveNow = "leave now"
)

const (
	// catchableBufferSec is the safety margin on top of walk time.
	catchableBufferSec = 30
	// departedBeforeSec: more than this far in the past means the bus is gone.
	departedBeforeSec = -60
	// arrivingWithinSec: closer than this means leave-time math is moot.
	arrivingWithinSec = 30
	// groupGraceSec is the looser window for direction-group retention, so
	// a group doesn't vanish the instant its soonest arrival flips to
	// "departed".
	groupGraceSec = 120
)

// Classification is the display-ready state of one arrival relative to a
// rider's walk time.
type Classification struct {
	Label     string `json:"label"`
	Catchable bool   `json:"catchable"`
}

// Catchable reports whether a rider can still make this arrival: strictly
// more time until the bus than walk time plus the safety buffer. Exactly at
// the boundary is not catchable.
func Catchable(effectiveSec int64, walkTimeSec float64, now time.Time) bool {
	diff := float64(effectiveSec - now.Unix())
	return diff > walkTimeSec+catchableBufferSec
}

// LeaveInLabel answers "when do I need to leave?" instead of "when does the
// bus arrive?".
func LeaveInLabel(effectiveSec int64, walkTimeSec float64, now time.Time) string {
	diff := float64(effectiveSec - now.Unix())
	if diff < departedBeforeSec {
		return LabelDeparted
	}
	if diff < arrivingWithinSec {
		return LabelArriving
	}
	leaveInSecs := diff - walkTimeSec
	if leaveInSecs < 60 {
		return LabelLeaveNow
	}
	return fmt.Sprintf("leave in %d min", int(math.Floor(leaveInSecs/60)))
}

// ArriveLabel is the simpler "bus arrives in N min" label, rounded to the
// nearest minute, sharing the departed/arriving thresholds with LeaveInLabel.
func ArriveLabel(effectiveSec int64, now time.Time) string {
	diff := float64(effectiveSec - now.Unix())
	if diff < departedBeforeSec {
		return LabelDeparted
	}
	if diff < arrivingWithinSec {
		return LabelArriving
	}
	return fmt.Sprintf("%d min", int(math.Round(diff/60)))
}

// Classify combines the leave-in label and catchability for one arrival.
func Classify(effectiveSec int64, walkTimeSec float64, now time.Time) Classification {
	return Classification{
		Label:     LeaveInLabel(effectiveSec, walkTimeSec, now),
		Catchable: Catchable(effectiveSec, walkTimeSec, now),
	}
}
