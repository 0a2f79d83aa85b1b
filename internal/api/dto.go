package api

import (
	"encoding/json"
	"time"

	"cognitive-screen/backend/internal/scoring"
	"cognitive-screen/backend/internal/store"
)

// AnalyzeResponse is the wire contract for a completed assessment. The
// risk_score field carries the fused overall risk; the wire names are kept
// stable for existing clients.
type AnalyzeResponse struct {
	RiskScore       int              `json:"risk_score"`
	RiskCategory    string           `json:"risk_category"`
	CognitiveRisk   int              `json:"cognitive_risk"`
	SpeechRisk      *int             `json:"speech_risk"`
	SpeechAnalyzed  bool             `json:"speech_analyzed"`
	ConfidenceScore float64          `json:"confidence_score"`
	Recommendations []string         `json:"recommendations"`
	Insights        scoring.Insights `json:"insights"`
}

// AssessmentDTO is the API representation of a persisted assessment.
type AssessmentDTO struct {
	ID               uint            `json:"id"`
	PatientID        string          `json:"patient_id"`
	RiskScore        int             `json:"risk_score"`
	RiskCategory     string          `json:"risk_category"`
	CognitiveRisk    int             `json:"cognitive_risk"`
	SpeechRisk       *int            `json:"speech_risk"`
	SpeechAnalyzed   bool            `json:"speech_analyzed"`
	ConfidenceScore  float64         `json:"confidence_score"`
	Recommendations  []string        `json:"recommendations"`
	Insights         json.RawMessage `json:"insights,omitempty"`
	ProcessingTimeMs int64           `json:"processing_time_ms"`
	CreatedAt        time.Time       `json:"created_at"`
}

// AssessmentsResponse is the paginated history payload.
type AssessmentsResponse struct {
	Items []AssessmentDTO `json:"items"`
	Total int64           `json:"total"`
}

// FromModel converts a store.Assessment into the DTO representation.
func FromModel(a store.Assessment) AssessmentDTO {
	dto := AssessmentDTO{
		ID:               a.ID,
		PatientID:        a.PatientID,
		RiskScore:        a.OverallRisk,
		RiskCategory:     a.RiskCategory,
		CognitiveRisk:    a.CognitiveRisk,
		SpeechRisk:       a.SpeechRisk,
		SpeechAnalyzed:   a.SpeechAnalyzed,
		ConfidenceScore:  a.Confidence,
		Recommendations:  a.Recommendations(),
		ProcessingTimeMs: a.ProcessingTimeMs,
		CreatedAt:        a.CreatedAt,
	}
	if a.InsightsJSON != "" {
		dto.Insights = json.RawMessage(a.InsightsJSON)
	}
	return dto
}
