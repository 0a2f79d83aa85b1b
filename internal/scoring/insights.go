package scoring

// Insights carries the structured interpretation attached to an
// assessment: free-text explanations per component plus accumulating
// concern/indicator lists and recommended next steps.
type Insights struct {
	OverallAssessment   string   `json:"overall_assessment"`
	CognitiveAssessment string   `json:"cognitive_assessment"`
	SpeechAssessment    string   `json:"speech_assessment"`
	KeyConcerns         []string `json:"key_concerns"`
	PositiveIndicators  []string `json:"positive_indicators"`
	SeverityLevel       string   `json:"severity_level"`
	NextSteps           []string `json:"next_steps"`
}

// memoryConcernThreshold marks the point inside the moderate band where
// memory performance is called out explicitly.
const memoryConcernThreshold = 45

// BuildInsights selects the assessment text and concern/indicator lists by
// the same three-band thresholds used by Categorize. speechRisk is nil
// when speech was not analyzed.
func BuildInsights(overallRisk, cognitiveRisk int, speechRisk *int) Insights {
	insights := Insights{
		KeyConcerns:        []string{},
		PositiveIndicators: []string{},
	}

	switch {
	case overallRisk < moderateThreshold:
		insights.OverallAssessment = "Your assessment indicates low risk for cognitive impairment. " +
			"Cognitive function appears to be within normal range for your demographic."
		insights.SeverityLevel = "Minimal"
	case overallRisk < highThreshold:
		insights.OverallAssessment = "Your assessment indicates moderate risk for cognitive changes. " +
			"Some cognitive variations detected that warrant monitoring and follow-up."
		insights.SeverityLevel = "Moderate"
	default:
		insights.OverallAssessment = "Your assessment indicates elevated risk for cognitive impairment. " +
			"Professional medical evaluation is strongly recommended."
		insights.SeverityLevel = "Elevated"
	}

	switch {
	case cognitiveRisk < moderateThreshold:
		insights.CognitiveAssessment = "Cognitive test performance is strong across memory, processing speed, " +
			"and pattern recognition tasks."
		insights.PositiveIndicators = append(insights.PositiveIndicators,
			"Strong cognitive test performance",
			"Good memory retention",
			"Normal reaction time",
		)
	case cognitiveRisk < highThreshold:
		insights.CognitiveAssessment = "Cognitive test results show some areas that may benefit from " +
			"attention and continued monitoring over time."
		insights.KeyConcerns = append(insights.KeyConcerns, "Moderate cognitive test scores requiring monitoring")
		if cognitiveRisk > memoryConcernThreshold {
			insights.KeyConcerns = append(insights.KeyConcerns, "Memory performance below optimal range")
		}
	default:
		insights.CognitiveAssessment = "Cognitive test results indicate areas of concern that should be " +
			"evaluated by a qualified healthcare professional."
		insights.KeyConcerns = append(insights.KeyConcerns,
			"Cognitive test scores indicating need for professional evaluation",
			"Memory and processing speed concerns",
		)
	}

	if speechRisk == nil {
		insights.SpeechAssessment = "Speech analysis was not performed in this assessment."
	} else {
		switch {
		case *speechRisk < moderateThreshold:
			insights.SpeechAssessment = "Speech patterns show normal characteristics with clear articulation, " +
				"appropriate pace, and typical acoustic features."
			insights.PositiveIndicators = append(insights.PositiveIndicators, "Normal speech patterns and fluency")
		case *speechRisk < highThreshold:
			insights.SpeechAssessment = "Speech analysis detected some patterns that may warrant " +
				"further monitoring or evaluation."
			insights.KeyConcerns = append(insights.KeyConcerns, "Speech pattern variations noted")
		default:
			insights.SpeechAssessment = "Speech analysis indicates patterns that should be evaluated " +
				"by a speech-language pathologist or healthcare professional."
			insights.KeyConcerns = append(insights.KeyConcerns,
				"Speech patterns requiring professional assessment",
				"Possible communication difficulties",
			)
		}
	}

	insights.NextSteps = nextSteps(overallRisk)
	return insights
}

func nextSteps(overallRisk int) []string {
	switch {
	case overallRisk < moderateThreshold:
		return []string{
			"Continue current healthy lifestyle practices",
			"Repeat screening annually for ongoing monitoring",
			"Stay informed about cognitive health",
		}
	case overallRisk < highThreshold:
		return []string{
			"Schedule appointment with primary care physician",
			"Repeat assessment in 3-6 months",
			"Implement lifestyle modifications",
			"Track cognitive changes over time",
		}
	default:
		return []string{
			"Schedule immediate consultation with neurologist",
			"Undergo comprehensive medical evaluation",
			"Discuss diagnostic testing options",
			"Develop care plan with healthcare team",
			"Inform family members and caregivers",
		}
	}
}
