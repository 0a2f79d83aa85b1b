package scoring

import (
	"errors"
	"testing"

	"cognitive-screen/backend/internal/features"
	"cognitive-screen/backend/internal/model"
)

func speechVector() features.AcousticVector {
	var v features.AcousticVector
	v[features.PitchMean] = 180
	v[features.ZCRMean] = 0.08
	v[features.RMSMean] = 0.2
	v[features.Duration] = 4.5
	return v
}

func TestSpeechFallbackIsIndeterminate(t *testing.T) {
	tests := []struct {
		name      string
		estimator *SpeechEstimator
		vector    features.AcousticVector
	}{
		{"no model", NewSpeechEstimator(nil, nil), speechVector()},
		{"sentinel vector", NewSpeechEstimator(&stubPoint{prediction: 0.9}, nil), features.DefaultVector()},
		{"inference failure", NewSpeechEstimator(&stubProbabilistic{err: errors.New("bad artifact")}, nil), speechVector()},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			estimate := tc.estimator.Estimate(tc.vector)
			if estimate.Score < 30 || estimate.Score > 60 {
				t.Fatalf("fallback score %d outside moderate band [30,60]", estimate.Score)
			}
			if estimate.Confidence != 0.50 {
				t.Fatalf("fallback confidence must be 0.50, got %g", estimate.Confidence)
			}
		})
	}
}

func TestSpeechModelScoring(t *testing.T) {
	t.Run("probabilistic", func(t *testing.T) {
		estimator := NewSpeechEstimator(&stubProbabilistic{proba: []float64{0.1, 0.2, 0.7}}, nil)
		estimate := estimator.Estimate(speechVector())
		if estimate.Score != 80 {
			t.Fatalf("expected score 80 got %d", estimate.Score)
		}
		if estimate.Confidence != 0.7 {
			t.Fatalf("expected confidence 0.7 got %g", estimate.Confidence)
		}
	})

	t.Run("point prediction uses fixed confidence", func(t *testing.T) {
		estimator := NewSpeechEstimator(&stubPoint{prediction: 0.35}, nil)
		estimate := estimator.Estimate(speechVector())
		if estimate.Score != 35 {
			t.Fatalf("expected score 35 got %d", estimate.Score)
		}
		if estimate.Confidence != 0.80 {
			t.Fatalf("expected confidence 0.80 got %g", estimate.Confidence)
		}
	})
}

func TestSpeechScalerFailureFallsBack(t *testing.T) {
	// A scaler fitted for the wrong feature width must not break scoring.
	scaler := &model.Scaler{Mean: []float64{0, 0}, Scale: []float64{1, 1}}
	estimator := NewSpeechEstimator(&stubPoint{prediction: 0.9}, scaler)

	estimate := estimator.Estimate(speechVector())
	if estimate.Score != speechFallbackScore || estimate.Confidence != speechFallbackConfidence {
		t.Fatalf("expected indeterminate fallback, got %+v", estimate)
	}
}
