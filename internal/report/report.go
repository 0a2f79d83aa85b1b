// Package report renders completed assessments as plain-text screening
// reports suitable for export or archival alongside the persisted row.
package report

import (
	"fmt"
	"strings"
	"time"

	"cognitive-screen/backend/internal/scoring"
)

// Data collects everything rendered into the screening report.
type Data struct {
	PatientID       string
	GeneratedAt     time.Time
	OverallRisk     int
	Category        scoring.Category
	CognitiveRisk   int
	SpeechRisk      *int
	SpeechAnalyzed  bool
	Confidence      float64
	Recommendations []string
	Insights        scoring.Insights
}

// Format renders the report text. The output is append-only archival text;
// it never feeds back into scoring.
func Format(d Data) string {
	var b strings.Builder

	patient := d.PatientID
	if patient == "" {
		patient = "anonymous"
	}

	b.WriteString("========================================\n")
	b.WriteString("COGNITIVE RISK SCREENING REPORT\n")
	b.WriteString("========================================\n\n")
	fmt.Fprintf(&b, "Generated:  %s\n", d.GeneratedAt.UTC().Format("2006-01-02 15:04:05"))
	fmt.Fprintf(&b, "Patient ID: %s\n\n", patient)

	fmt.Fprintf(&b, "Overall Risk Score: %d/100\n", d.OverallRisk)
	fmt.Fprintf(&b, "Risk Category:      %s\n", d.Category)
	fmt.Fprintf(&b, "Severity Level:     %s\n", d.Insights.SeverityLevel)
	fmt.Fprintf(&b, "Confidence:         %.1f%% (%s)\n\n", d.Confidence*100, confidenceLevel(d.Confidence*100))

	b.WriteString("COMPONENT SCORES:\n")
	fmt.Fprintf(&b, "  - Cognitive Assessment: %d/100\n", d.CognitiveRisk)
	if d.SpeechAnalyzed && d.SpeechRisk != nil {
		fmt.Fprintf(&b, "  - Speech Analysis:      %d/100\n", *d.SpeechRisk)
	} else {
		b.WriteString("  - Speech Analysis:      not performed\n")
	}
	b.WriteString("\n")

	b.WriteString("RISK CALCULATION:\n")
	if d.SpeechAnalyzed && d.SpeechRisk != nil {
		b.WriteString("  Weighted combination of cognitive and speech components.\n")
		b.WriteString("  Cognitive tests are the primary indicator; speech analysis\n")
		b.WriteString("  supports with communication pattern signals.\n\n")
	} else {
		b.WriteString("  Based solely on cognitive tests; no speech sample provided.\n\n")
	}

	b.WriteString("ASSESSMENT SUMMARY:\n")
	fmt.Fprintf(&b, "  %s\n\n", d.Insights.OverallAssessment)
	b.WriteString("COGNITIVE EVALUATION:\n")
	fmt.Fprintf(&b, "  %s\n\n", d.Insights.CognitiveAssessment)
	b.WriteString("SPEECH EVALUATION:\n")
	fmt.Fprintf(&b, "  %s\n\n", d.Insights.SpeechAssessment)

	if len(d.Insights.KeyConcerns) > 0 {
		b.WriteString("KEY CONCERNS:\n")
		for _, concern := range d.Insights.KeyConcerns {
			fmt.Fprintf(&b, "  - %s\n", concern)
		}
		b.WriteString("\n")
	}
	if len(d.Insights.PositiveIndicators) > 0 {
		b.WriteString("POSITIVE INDICATORS:\n")
		for _, indicator := range d.Insights.PositiveIndicators {
			fmt.Fprintf(&b, "  - %s\n", indicator)
		}
		b.WriteString("\n")
	}

	b.WriteString("RECOMMENDATIONS:\n")
	for i, recommendation := range d.Recommendations {
		fmt.Fprintf(&b, "  %d. %s\n", i+1, recommendation)
	}
	b.WriteString("\n")

	b.WriteString("NEXT STEPS:\n")
	for _, step := range d.Insights.NextSteps {
		fmt.Fprintf(&b, "  - %s\n", step)
	}
	b.WriteString("\n")

	b.WriteString("CONFIDENCE INTERPRETATION:\n")
	fmt.Fprintf(&b, "  %s\n\n", interpretConfidence(d.Confidence*100))

	b.WriteString("========================================\n")
	b.WriteString("DISCLAIMER: This is a screening tool only and does not constitute\n")
	b.WriteString("a medical diagnosis. Consult with a qualified healthcare professional\n")
	b.WriteString("for proper evaluation and diagnosis.\n")
	b.WriteString("========================================\n")

	return b.String()
}

func confidenceLevel(percentage float64) string {
	switch {
	case percentage >= 90:
		return "Very High"
	case percentage >= 75:
		return "High"
	case percentage >= 60:
		return "Moderate"
	case percentage >= 40:
		return "Low"
	default:
		return "Very Low"
	}
}

func interpretConfidence(percentage float64) string {
	switch {
	case percentage >= 85:
		return "The model has high confidence in this prediction. Results are considered reliable."
	case percentage >= 70:
		return "The model has moderate confidence in this prediction. Results should be interpreted with clinical judgment."
	default:
		return "The model has low confidence in this prediction. Consider retaking the assessment or seeking professional evaluation."
	}
}
