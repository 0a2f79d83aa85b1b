package scoring

import (
	"fmt"
	"math"

	"cognitive-screen/backend/internal/model"
)

// RiskEstimate pairs a bounded risk score with the estimator's
// self-reported confidence. The two are independent: confidence
// communicates trust in the score, not its magnitude.
type RiskEstimate struct {
	Score      int     `json:"score"`      // 0-100
	Confidence float64 `json:"confidence"` // 0-1
}

// predictEstimate runs the loaded classifier over an engineered feature
// vector. Probabilistic artifacts score from the moderate/high class
// probabilities; point artifacts score from the raw prediction with the
// supplied fixed confidence.
func predictEstimate(clf model.Classifier, features []float64, pointConfidence float64) (RiskEstimate, error) {
	switch m := clf.(type) {
	case model.ProbabilisticClassifier:
		proba, err := m.PredictProba(features)
		if err != nil {
			return RiskEstimate{}, err
		}
		if len(proba) != model.RiskClasses {
			return RiskEstimate{}, fmt.Errorf("expected %d class probabilities, got %d", model.RiskClasses, len(proba))
		}
		score := int(math.Round(proba[1]*50 + proba[2]*100))
		return RiskEstimate{Score: clampScore(score), Confidence: maxFloat(proba)}, nil
	case model.PointClassifier:
		prediction, err := m.Predict(features)
		if err != nil {
			return RiskEstimate{}, err
		}
		score := int(math.Round(prediction * 100))
		return RiskEstimate{Score: clampScore(score), Confidence: pointConfidence}, nil
	default:
		return RiskEstimate{}, fmt.Errorf("unsupported classifier kind %q", clf.Kind())
	}
}

func clampScore(score int) int {
	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}

func clampFloat(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func maxFloat(values []float64) float64 {
	max := values[0]
	for _, v := range values[1:] {
		if v > max {
			max = v
		}
	}
	return max
}
