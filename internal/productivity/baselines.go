package productivity

// Field-study baselines used by the fixed-example strategy and the
// calibration probes. The 2025 METR developer study measured a 19%
// slowdown on experienced developers while the same group self-reported
// a 20% speedup; the net-hours baseline is the 2.5h credited minus 3.1h
// of review overhead observed per week.
const (
	BaselineActualProductivity    = -0.19
	BaselinePerceivedProductivity = 0.20
	BaselineNetTimeSavedHours     = 2.5 - 3.1
)

// ActualProductivityBaseline returns the measured productivity change
// baseline for calibration/demo mode.
func ActualProductivityBaseline() float64 {
	return BaselineActualProductivity
}

// PerceivedProductivityBaseline returns the self-reported productivity
// change baseline for calibration/demo mode.
func PerceivedProductivityBaseline() float64 {
	return BaselinePerceivedProductivity
}

// NetTimeSavedBaseline returns the net weekly hours baseline for
// calibration/demo mode.
func NetTimeSavedBaseline() float64 {
	return BaselineNetTimeSavedHours
}
