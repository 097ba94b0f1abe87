// REST wire types for the scorecard dashboard API.
package rest

// Error Модель ошибок
type Error struct {
	// Code Код ошибки
	Code ErrorCode `json:"code"`

	// Message Сообщение об ошибке (для отображения в UI в будущем)
	Message string `json:"message"`
}

// ErrorCode Код ошибки
type ErrorCode string

// ScoreRequest asks for a single prediction. Exactly one of PD or Features
// must be set: PD scores a known probability directly, Features runs the
// model first.
type ScoreRequest struct {
	PD       *float64           `json:"pd,omitempty" validate:"omitempty,gte=0,lte=1"`
	Features map[string]float64 `json:"features,omitempty"`
}

type ScoreResponse struct {
	PD            float64 `json:"pd"`
	BehaviorScore float64 `json:"behaviorScore"`
	RiskCategory  string  `json:"riskCategory"`
}

type ScorecardInfo struct {
	ScoreRef        float64 `json:"scoreRef"`
	PDO             float64 `json:"pdo"`
	OddsRef         float64 `json:"oddsRef"`
	Offset          float64 `json:"offset"`
	Factor          float64 `json:"factor"`
	MediumThreshold float64 `json:"mediumThreshold"`
	LowThreshold    float64 `json:"lowThreshold"`
}

type DatasetCreated struct {
	ID      string  `json:"id"`
	Summary Summary `json:"summary"`
}

type Summary struct {
	Rows           int            `json:"rows"`
	AvgPD          float64        `json:"avgPd"`
	AvgScore       float64        `json:"avgScore"`
	HighRisk       int            `json:"highRisk"`
	Categories     map[string]int `json:"categories"`
	PDHistogram    []HistogramBin `json:"pdHistogram"`
	ScoreHistogram []HistogramBin `json:"scoreHistogram"`
}

type HistogramBin struct {
	From  float64 `json:"from"`
	To    float64 `json:"to"`
	Count int     `json:"count"`
}

type Record struct {
	CustomerID    string            `json:"customerId"`
	Features      map[string]string `json:"features,omitempty"`
	PD            float64           `json:"pd"`
	BehaviorScore float64           `json:"behaviorScore"`
	RiskCategory  string            `json:"riskCategory"`
}

type RecordsPage struct {
	Records []Record `json:"records"`
	Total   int      `json:"total"`
	Limit   int      `json:"limit"`
	Offset  int      `json:"offset"`
}

type Run struct {
	ID         string         `json:"id"`
	Source     string         `json:"source"`
	Rows       int            `json:"rows"`
	AvgPD      float64        `json:"avgPd"`
	AvgScore   float64        `json:"avgScore"`
	Categories map[string]int `json:"categories"`
	CreatedAt  string         `json:"createdAt"`
}
