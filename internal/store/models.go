package store

import (
	"encoding/json"
	"strings"
	"time"
)

// Assessment is the persisted outcome of one completed analysis request.
// Rows are write-once: a request never updates a prior assessment.
type Assessment struct {
	ID                  uint   `gorm:"primaryKey"`
	PatientID           string `gorm:"size:64;index"`
	OverallRisk         int
	RiskCategory        string `gorm:"size:32;index"`
	CognitiveRisk       int
	SpeechRisk          *int
	SpeechAnalyzed      bool
	Confidence          float64
	RecommendationsJSON string `gorm:"type:text"`
	InsightsJSON        string `gorm:"type:text"`
	ReportText          string `gorm:"type:text"`
	ProcessingTimeMs    int64
	CreatedAt           time.Time `gorm:"autoCreateTime"`
}

// SetRecommendations persists the recommendation list as JSON.
func (a *Assessment) SetRecommendations(recommendations []string) {
	if recommendations == nil {
		a.RecommendationsJSON = "[]"
		return
	}
	payload, _ := json.Marshal(recommendations)
	a.RecommendationsJSON = string(payload)
}

// Recommendations returns the decoded recommendation list.
func (a *Assessment) Recommendations() []string {
	if strings.TrimSpace(a.RecommendationsJSON) == "" {
		return nil
	}
	var out []string
	if err := json.Unmarshal([]byte(a.RecommendationsJSON), &out); err != nil {
		return nil
	}
	return out
}

// SetInsights persists the structured insights record as JSON.
func (a *Assessment) SetInsights(insights any) {
	payload, err := json.Marshal(insights)
	if err != nil {
		a.InsightsJSON = "{}"
		return
	}
	a.InsightsJSON = string(payload)
}
