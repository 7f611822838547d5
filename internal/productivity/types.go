package productivity

// TaskCompletion captures delivery-speed effects of AI assistance.
// VelocityChange is a fractional gain (0.13 = 13% faster).
type TaskCompletion struct {
	VelocityChange float64 `json:"velocityChange"`
	CycleTimeDays  float64 `json:"cycleTime"`
	ReworkRate     float64 `json:"reworkRate"`
}

// FlowEfficiency captures focus-time effects. Durations are minutes.
type FlowEfficiency struct {
	FocusTimeMinutes float64 `json:"focusTime"`
	ContextSwitches  int     `json:"contextSwitches"`
	WaitTimeMinutes  float64 `json:"waitTime"`
}

// ValueDelivery captures shipped-value proxies. FeaturesShipped is a
// coarse proxy derived from suggestion volume, not a real delivery count.
type ValueDelivery struct {
	FeaturesShipped int     `json:"featuresShipped"`
	BugRate         float64 `json:"bugRate"`
	CustomerImpact  float64 `json:"customerImpact"`
}

// Metrics is the full productivity snapshot. All hour-denominated fields
// are explicit in the name; NetTimeSavedHours is signed and goes negative
// when review and fix overhead exceed the time credited to accepted
// suggestions.
type Metrics struct {
	TaskCompletion TaskCompletion `json:"taskCompletion"`
	Flow           FlowEfficiency `json:"flowEfficiency"`
	ValueDelivery  ValueDelivery  `json:"valueDelivery"`

	ActualGain    float64 `json:"actualGain"`
	PerceivedGain float64 `json:"perceivedGain"`

	TimeSavedHours    float64 `json:"timeSavedHours"`
	ReviewTimeHours   float64 `json:"reviewTimeHours"`
	FixTimeHours      float64 `json:"fixTimeHours"`
	NetTimeSavedHours float64 `json:"netTimeSaved"`
}
