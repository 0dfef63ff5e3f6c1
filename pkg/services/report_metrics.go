package services

import "math"

// Thresholds and weights of the revenue loss estimate.
const (
	lcpThresholdSeconds = 2.5
	lcpWeight           = 7.0 // % conversion lost per second over threshold
	tbtThresholdMillis  = 200.0
	tbtWeight           = 3.0 // % lost per 100ms over threshold
	clsWeight           = 10.0
)

// RevenueLossPercent estimates the conversion loss caused by page performance:
//
//	((LCP - 2.5) * 7) + (((TBT - 200) / 100) * 3) + (CLS * 10)
//
// with LCP in seconds and TBT in milliseconds. The result is not clamped; a
// negative value means the page beats the thresholds. ok is false if any input is nil.
func RevenueLossPercent(lcp, tbt, cls *float64) (loss float64, ok bool) {
	if lcp == nil || tbt == nil || cls == nil {
		return 0, false
	}
	return (*lcp-lcpThresholdSeconds)*lcpWeight +
		((*tbt-tbtThresholdMillis)/100)*tbtWeight +
		*cls*clsWeight, true
}

// roundTo rounds v to the given number of decimal places.
func roundTo(v float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(v*p) / p
}
