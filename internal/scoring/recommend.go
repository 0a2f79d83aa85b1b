package scoring

// Per-category recommendation lists. Static configuration data, kept in
// severity order; conditional lines are inserted by Recommendations.
var lowRiskRecommendations = []string{
	"Continue maintaining a healthy lifestyle with regular physical exercise",
	"Engage in mentally stimulating activities such as puzzles, reading, and learning new skills",
	"Maintain strong social connections and stay engaged with your community",
	"Consider annual cognitive health check-ups as a preventive measure",
	"Keep a balanced diet rich in omega-3 fatty acids, antioxidants, and whole foods",
	"Ensure adequate sleep (7-9 hours) and manage stress through relaxation techniques",
}

var moderateRiskRecommendations = []string{
	"Schedule a consultation with your healthcare provider for a comprehensive cognitive evaluation",
	"Increase frequency of cognitive exercises and brain training activities",
	"Monitor changes in memory, attention, or cognitive function over the next 3-6 months",
	"Consider lifestyle modifications including improved diet, regular exercise, and quality sleep",
	"Discuss these results with family members or caregivers for support",
	"Reduce stress and practice mindfulness, meditation, or other relaxation techniques",
	"Limit alcohol consumption and avoid smoking",
}

var highRiskRecommendations = []string{
	"Seek immediate consultation with a neurologist or cognitive health specialist",
	"Schedule a comprehensive neuropsychological assessment and medical evaluation",
	"Discuss diagnostic testing options (MRI, cognitive assessments) with your healthcare provider",
	"Explore treatment options, medications, and therapeutic interventions",
	"Consider joining support groups for patients and caregivers",
	"Implement safety measures at home and create an advance care plan with family",
	"Explore clinical trials and research opportunities if appropriate",
	"Arrange regular follow-up appointments to monitor cognitive changes",
}

const (
	memoryFocusRecommendation      = "Focus on memory exercises and cognitive rehabilitation programs"
	speechTherapyRecommendation    = "Consider speech therapy consultation if communication difficulties are noticed"
	speechPathologyRecommendation  = "Speech pathology evaluation strongly recommended for communication support"
	elevatedCognitiveRiskThreshold = 50
)

// Recommendations returns the ordered, category-specific recommendation
// list with conditional insertions for elevated cognitive risk and for
// assessments that included speech analysis. The returned slice is a fresh
// copy on every call.
func Recommendations(category Category, score, cognitiveRisk int, speechAnalyzed bool) []string {
	switch category {
	case CategoryLow:
		return copyStrings(lowRiskRecommendations)

	case CategoryModerate:
		recommendations := copyStrings(moderateRiskRecommendations)
		if cognitiveRisk > elevatedCognitiveRiskThreshold {
			recommendations = insertAt(recommendations, 2, memoryFocusRecommendation)
		}
		if speechAnalyzed {
			recommendations = append(recommendations, speechTherapyRecommendation)
		}
		return recommendations

	default:
		recommendations := copyStrings(highRiskRecommendations)
		if speechAnalyzed {
			recommendations = insertAt(recommendations, 3, speechPathologyRecommendation)
		}
		return recommendations
	}
}

func copyStrings(in []string) []string {
	out := make([]string, len(in))
	copy(out, in)
	return out
}

func insertAt(list []string, index int, value string) []string {
	if index < 0 || index > len(list) {
		return append(list, value)
	}
	list = append(list, "")
	copy(list[index+1:], list[index:])
	list[index] = value
	return list
}
