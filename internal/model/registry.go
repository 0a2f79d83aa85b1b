package model

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"
)

// Artifact file names expected inside the model directory.
const (
	CognitiveModelFile  = "cognitive_model.json"
	CognitiveScalerFile = "cognitive_scaler.json"
	SpeechModelFile     = "speech_model.json"
	SpeechScalerFile    = "speech_scaler.json"
)

// Scaler standardizes a feature vector using fitted per-feature mean and
// scale, the same transform applied during offline training.
type Scaler struct {
	Mean  []float64 `json:"mean"`
	Scale []float64 `json:"scale"`
}

// Transform standardizes the features and returns a fresh slice.
func (s *Scaler) Transform(features []float64) ([]float64, error) {
	if s == nil {
		return nil, errors.New("scaler is nil")
	}
	if len(s.Mean) != len(features) || len(s.Scale) != len(features) {
		return nil, fmt.Errorf("feature length mismatch: scaler expects %d, got %d", len(s.Mean), len(features))
	}
	out := make([]float64, len(features))
	for i, value := range features {
		scale := s.Scale[i]
		if scale == 0 {
			scale = 1
		}
		out[i] = (value - s.Mean[i]) / scale
	}
	return out, nil
}

// LoadScaler reads a fitted scaler artifact. An absent file returns
// (nil, nil), meaning features are used unscaled.
func LoadScaler(path string) (*Scaler, error) {
	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("read scaler artifact: %w", err)
	}
	var scaler Scaler
	if err := json.Unmarshal(data, &scaler); err != nil {
		return nil, fmt.Errorf("unmarshal scaler artifact: %w", err)
	}
	if len(scaler.Mean) == 0 || len(scaler.Mean) != len(scaler.Scale) {
		return nil, errors.New("scaler artifact has mismatched mean/scale lengths")
	}
	return &scaler, nil
}

// Registry holds the trained artifacts loaded once at process start.
// It is immutable after construction and safe for concurrent reads.
type Registry struct {
	Cognitive       Classifier
	CognitiveScaler *Scaler
	Speech          Classifier
	SpeechScaler    *Scaler
}

// Info summarizes the registry load state for health endpoints.
type Info struct {
	CognitiveModel  bool   `json:"cognitive_model"`
	SpeechModel     bool   `json:"speech_model"`
	ScalerAvailable bool   `json:"scaler_available"`
	PredictionMode  string `json:"prediction_mode"`
}

// LoadRegistry loads every artifact present under dir. Missing artifacts
// are logged and left nil; estimators fall back to rule-based scoring.
func LoadRegistry(dir string) (*Registry, error) {
	registry := &Registry{}

	cognitive, err := LoadClassifier(filepath.Join(dir, CognitiveModelFile))
	if err != nil {
		return nil, fmt.Errorf("cognitive model: %w", err)
	}
	registry.Cognitive = cognitive

	cognitiveScaler, err := LoadScaler(filepath.Join(dir, CognitiveScalerFile))
	if err != nil {
		return nil, fmt.Errorf("cognitive scaler: %w", err)
	}
	registry.CognitiveScaler = cognitiveScaler

	speech, err := LoadClassifier(filepath.Join(dir, SpeechModelFile))
	if err != nil {
		return nil, fmt.Errorf("speech model: %w", err)
	}
	registry.Speech = speech

	speechScaler, err := LoadScaler(filepath.Join(dir, SpeechScalerFile))
	if err != nil {
		return nil, fmt.Errorf("speech scaler: %w", err)
	}
	registry.SpeechScaler = speechScaler

	logrus.WithFields(logrus.Fields{
		"model_dir":       dir,
		"cognitive_model": registry.Cognitive != nil,
		"speech_model":    registry.Speech != nil,
		"prediction_mode": registry.Info().PredictionMode,
	}).Info("model registry loaded")

	return registry, nil
}

// Info reports which artifacts are loaded.
func (r *Registry) Info() Info {
	if r == nil {
		return Info{PredictionMode: "rule-based"}
	}
	info := Info{
		CognitiveModel:  r.Cognitive != nil,
		SpeechModel:     r.Speech != nil,
		ScalerAvailable: r.CognitiveScaler != nil,
		PredictionMode:  "rule-based",
	}
	if info.CognitiveModel {
		info.PredictionMode = "model-backed"
	}
	return info
}

// ensure the concrete kinds satisfy their declared capability sets
var (
	_ ProbabilisticClassifier = (*SoftmaxClassifier)(nil)
	_ PointClassifier         = (*LinearModel)(nil)
)
