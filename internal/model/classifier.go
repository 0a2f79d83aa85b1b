package model

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
)

// Classifier is a loaded inference artifact. Exactly one of the two
// concrete kinds backs it, resolved once at load time.
type Classifier interface {
	Kind() string
}

// ProbabilisticClassifier yields per-class probabilities for the three
// ordered risk classes (low, moderate, high).
type ProbabilisticClassifier interface {
	Classifier
	PredictProba(features []float64) ([]float64, error)
}

// PointClassifier yields a single point prediction in [0,1].
type PointClassifier interface {
	Classifier
	Predict(features []float64) (float64, error)
}

// RiskClasses is the number of ordered risk classes emitted by
// probabilistic artifacts.
const RiskClasses = 3

type artifactFile struct {
	Kind       string      `json:"kind"`
	Coef       [][]float64 `json:"coef,omitempty"`
	Intercepts []float64   `json:"intercepts,omitempty"`
	Weights    []float64   `json:"weights,omitempty"`
	Intercept  float64     `json:"intercept,omitempty"`
}

// SoftmaxClassifier is a multinomial logistic regression artifact exposing
// class probabilities.
type SoftmaxClassifier struct {
	coef       [][]float64
	intercepts []float64
}

// Kind identifies the artifact variant.
func (s *SoftmaxClassifier) Kind() string { return "softmax" }

// PredictProba computes softmax class probabilities for the feature vector.
func (s *SoftmaxClassifier) PredictProba(features []float64) ([]float64, error) {
	if s == nil {
		return nil, errors.New("softmax classifier is nil")
	}
	logits := make([]float64, len(s.coef))
	for class, weights := range s.coef {
		if len(weights) != len(features) {
			return nil, fmt.Errorf("feature length mismatch: artifact expects %d, got %d", len(weights), len(features))
		}
		sum := s.intercepts[class]
		for i, w := range weights {
			sum += w * features[i]
		}
		logits[class] = sum
	}

	// Shift by the max logit for numerical stability.
	maxLogit := logits[0]
	for _, l := range logits[1:] {
		if l > maxLogit {
			maxLogit = l
		}
	}
	var total float64
	proba := make([]float64, len(logits))
	for i, l := range logits {
		proba[i] = math.Exp(l - maxLogit)
		total += proba[i]
	}
	for i := range proba {
		proba[i] /= total
	}
	return proba, nil
}

// LinearModel is a point-prediction artifact without probability output.
type LinearModel struct {
	weights   []float64
	intercept float64
}

// Kind identifies the artifact variant.
func (l *LinearModel) Kind() string { return "linear" }

// Predict computes the linear point prediction for the feature vector.
func (l *LinearModel) Predict(features []float64) (float64, error) {
	if l == nil {
		return 0, errors.New("linear model is nil")
	}
	if len(l.weights) != len(features) {
		return 0, fmt.Errorf("feature length mismatch: artifact expects %d, got %d", len(l.weights), len(features))
	}
	sum := l.intercept
	for i, w := range l.weights {
		sum += w * features[i]
	}
	return sum, nil
}

// LoadClassifier reads a classifier artifact from the provided path. An
// absent file is not an error: it returns (nil, nil) so callers can select
// the rule-based fallback strategy.
func LoadClassifier(path string) (Classifier, error) {
	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("read classifier artifact: %w", err)
	}
	var artifact artifactFile
	if err := json.Unmarshal(data, &artifact); err != nil {
		return nil, fmt.Errorf("unmarshal classifier artifact: %w", err)
	}

	switch artifact.Kind {
	case "softmax":
		if len(artifact.Coef) != RiskClasses || len(artifact.Intercepts) != RiskClasses {
			return nil, fmt.Errorf("softmax artifact requires %d coefficient rows and intercepts", RiskClasses)
		}
		width := len(artifact.Coef[0])
		for _, row := range artifact.Coef {
			if len(row) == 0 || len(row) != width {
				return nil, errors.New("softmax artifact has ragged coefficient rows")
			}
		}
		return &SoftmaxClassifier{coef: artifact.Coef, intercepts: artifact.Intercepts}, nil
	case "linear":
		if len(artifact.Weights) == 0 {
			return nil, errors.New("linear artifact has no weights")
		}
		return &LinearModel{weights: artifact.Weights, intercept: artifact.Intercept}, nil
	default:
		return nil, fmt.Errorf("unknown classifier kind %q", artifact.Kind)
	}
}
