package scoring

import (
	"github.com/sirupsen/logrus"

	"cognitive-screen/backend/internal/features"
	"cognitive-screen/backend/internal/model"
)

// speechPointConfidence is the fixed confidence reported by speech
// artifacts without probability output.
const speechPointConfidence = 0.80

// The indeterminate fallback: midpoint of the moderate band with fixed low
// confidence. There is no principled rule-based acoustic heuristic, so the
// fallback signals "unknown, assume moderate" instead of fabricating
// precision from missing data.
const (
	speechFallbackScore      = 45
	speechFallbackConfidence = 0.50
)

// SpeechEstimator produces a bounded risk estimate from a precomputed
// acoustic feature vector.
type SpeechEstimator struct {
	clf    model.Classifier
	scaler *model.Scaler
}

// NewSpeechEstimator constructs an estimator over the loaded artifacts.
func NewSpeechEstimator(clf model.Classifier, scaler *model.Scaler) *SpeechEstimator {
	return &SpeechEstimator{clf: clf, scaler: scaler}
}

// Estimate scores the feature vector. The all-default sentinel vector is
// never scored as a confident signal, and inference failures fall back to
// the indeterminate estimate.
func (e *SpeechEstimator) Estimate(vec features.AcousticVector) RiskEstimate {
	if vec.IsDefault() {
		return fallbackSpeech()
	}
	if e == nil || e.clf == nil {
		return fallbackSpeech()
	}

	feats := vec.Values()
	if e.scaler != nil {
		scaled, err := e.scaler.Transform(feats)
		if err != nil {
			logrus.WithError(err).Warn("speech feature scaling failed, using indeterminate fallback")
			return fallbackSpeech()
		}
		feats = scaled
	}

	estimate, err := predictEstimate(e.clf, feats, speechPointConfidence)
	if err != nil {
		logrus.WithError(err).Warn("speech model inference failed, using indeterminate fallback")
		return fallbackSpeech()
	}
	return estimate
}

func fallbackSpeech() RiskEstimate {
	return RiskEstimate{Score: speechFallbackScore, Confidence: speechFallbackConfidence}
}
