package quality

// ChurnTrend classifies churn direction against the configured baseline.
type ChurnTrend string

const (
	TrendIncreasing ChurnTrend = "increasing"
	TrendStable     ChurnTrend = "stable"
	TrendDecreasing ChurnTrend = "decreasing"
)

// CodeChurn captures rewrite behavior shortly after authoring.
type CodeChurn struct {
	Rate      float64    `json:"rate"`
	Trend     ChurnTrend `json:"trend"`
	AIVsHuman float64    `json:"aiVsHuman"`
}

// Duplication captures clone growth. CloneRate stays in [0,1].
type Duplication struct {
	CloneRate      float64 `json:"cloneRate"`
	CopyPasteRatio float64 `json:"copyPasteRatio"`
	BeforeAI       float64 `json:"beforeAI"`
	AfterAI        float64 `json:"afterAI"`
}

// Complexity captures structural load. CognitiveLoad stays in [0,10].
type Complexity struct {
	Cyclomatic            float64 `json:"cyclomaticComplexity"`
	CognitiveLoad         float64 `json:"cognitiveLoad"`
	NestingDepth          float64 `json:"nestingDepth"`
	AIGeneratedComplexity float64 `json:"aiGeneratedComplexity"`
}

// Refactoring captures cleanup activity. Both rates stay in [0,1].
type Refactoring struct {
	Rate             float64 `json:"rate"`
	AICodeRefactored float64 `json:"aiCodeRefactored"`
}

// Metrics is the full quality snapshot. OverallScore stays in [0,1].
type Metrics struct {
	Churn       CodeChurn   `json:"codeChurn"`
	Duplication Duplication `json:"duplication"`
	Complexity  Complexity  `json:"complexity"`
	Refactoring Refactoring `json:"refactoring"`

	OverallScore float64 `json:"overallScore"`
}
