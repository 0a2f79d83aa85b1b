package scoring

import (
	"math"

	"github.com/sirupsen/logrus"

	"cognitive-screen/backend/internal/features"
	"cognitive-screen/backend/internal/model"
)

// Weights of the rule-based cognitive components. Memory carries the most
// signal for cognitive decline.
const (
	fallbackWordWeight     = 0.25
	fallbackMemoryWeight   = 0.50
	fallbackReactionWeight = 0.25
)

// Rule-based confidence window: internally-inconsistent test patterns are
// reported with lower confidence, independent of the risk score.
const (
	fallbackConfidenceFloor   = 0.45
	fallbackConfidenceCeiling = 0.85
)

// cognitivePointConfidence is the fixed confidence reported by artifacts
// without probability output.
const cognitivePointConfidence = 0.85

// CognitiveEstimator produces a bounded risk estimate from the three
// cognitive test signals, via the loaded classifier when one is available
// and the rule-based fallback otherwise.
type CognitiveEstimator struct {
	clf    model.Classifier
	scaler *model.Scaler
}

// NewCognitiveEstimator constructs an estimator over the loaded artifacts.
// Both may be nil; the estimator then always scores rule-based.
func NewCognitiveEstimator(clf model.Classifier, scaler *model.Scaler) *CognitiveEstimator {
	return &CognitiveEstimator{clf: clf, scaler: scaler}
}

// Estimate scores the sample. Model inference failures are logged and
// transparently retried with the rule-based fallback; they are never
// surfaced to the caller.
func (e *CognitiveEstimator) Estimate(sample features.CognitiveSample) RiskEstimate {
	if e == nil || e.clf == nil {
		return fallbackCognitive(sample)
	}
	estimate, err := e.predict(sample)
	if err != nil {
		logrus.WithError(err).Warn("cognitive model inference failed, using rule-based fallback")
		return fallbackCognitive(sample)
	}
	return estimate
}

func (e *CognitiveEstimator) predict(sample features.CognitiveSample) (RiskEstimate, error) {
	feats := cognitiveFeatures(sample)
	if e.scaler != nil {
		scaled, err := e.scaler.Transform(feats)
		if err != nil {
			return RiskEstimate{}, err
		}
		feats = scaled
	}
	return predictEstimate(e.clf, feats, cognitivePointConfidence)
}

// cognitiveFeatures derives the engineered feature vector the offline
// training pipeline fits against: raw values, reaction time in seconds,
// normalized memory and word scores, and a discrete reaction-speed bucket.
func cognitiveFeatures(sample features.CognitiveSample) []float64 {
	return []float64{
		sample.WordScore,
		sample.MemoryScore,
		sample.ReactionTimeMs,
		sample.ReactionTimeMs / 1000,
		sample.MemoryScore / 9,
		sample.WordScore / 100,
		reactionBucket(sample.ReactionTimeMs),
	}
}

func reactionBucket(reactionMs float64) float64 {
	switch {
	case reactionMs < 300:
		return 1
	case reactionMs < 500:
		return 2
	default:
		return 3
	}
}

// fallbackCognitive is the deterministic rule-based strategy. It is always
// available and needs no artifacts.
func fallbackCognitive(sample features.CognitiveSample) RiskEstimate {
	wordRisk := 100 - sample.WordScore
	memoryRisk := 100 - sample.MemoryScore*11.11
	reactionRisk := reactionRiskStep(sample.ReactionTimeMs)

	overall := int(wordRisk*fallbackWordWeight +
		memoryRisk*fallbackMemoryWeight +
		reactionRisk*fallbackReactionWeight)

	wordNorm := sample.WordScore / 100
	memoryNorm := sample.MemoryScore / 9
	reactionNorm := math.Min(sample.ReactionTimeMs/1500, 1)
	variance := math.Abs(wordNorm-memoryNorm) + math.Abs(memoryNorm-reactionNorm)
	confidence := round2(clampFloat(1-variance/2, fallbackConfidenceFloor, fallbackConfidenceCeiling))

	return RiskEstimate{Score: clampScore(overall), Confidence: confidence}
}

// reactionRiskStep maps reaction time onto a stepped risk value.
func reactionRiskStep(reactionMs float64) float64 {
	switch {
	case reactionMs < 300:
		return 10
	case reactionMs < 500:
		return 30
	case reactionMs < 700:
		return 50
	case reactionMs < 900:
		return 70
	default:
		return 90
	}
}
