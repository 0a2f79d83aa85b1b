package scoring

import (
	"errors"
	"fmt"
	"math"
)

// WeightPreset fixes the cognitive/speech split applied when both signals
// are present. Weights are pre-normalized constants per present-signal
// combination, never runtime-normalized.
type WeightPreset struct {
	Cognitive float64
	Speech    float64
}

var (
	// AnalysisWeights is the default split used by the analysis pipeline.
	AnalysisWeights = WeightPreset{Cognitive: 0.7, Speech: 0.3}

	// StandaloneWeights is the alternative split used by the standalone
	// risk-score preset. Both presets are valid configurations.
	StandaloneWeights = WeightPreset{Cognitive: 0.6, Speech: 0.4}
)

// Fixed weights when all three signals are present.
const (
	trioCognitiveWeight  = 0.5
	trioSpeechWeight     = 0.3
	trioBehavioralWeight = 0.2
)

var (
	// ErrMandatorySignal flags a fusion call without the cognitive
	// estimate. Cognitive is the mandatory signal; speech and behavioral
	// are never scored standalone.
	ErrMandatorySignal = errors.New("cognitive estimate is mandatory for fusion")

	// ErrInvalidSignalSet flags a behavioral estimate supplied without a
	// speech estimate; only the declared signal combinations are valid.
	ErrInvalidSignalSet = errors.New("behavioral estimate requires a speech estimate")

	// ErrInvalidWeights flags a preset whose weights do not sum to 1.
	ErrInvalidWeights = errors.New("weight preset must sum to 1")
)

// FusedRisk is the combined outcome of the present risk signals.
type FusedRisk struct {
	Score      int     `json:"score"`      // 0-100
	Confidence float64 `json:"confidence"` // 0-1
}

// NewWeightPreset builds a two-signal preset from the speech weight.
func NewWeightPreset(speechWeight float64) (WeightPreset, error) {
	if speechWeight <= 0 || speechWeight >= 1 {
		return WeightPreset{}, fmt.Errorf("%w: speech weight %g outside (0,1)", ErrInvalidWeights, speechWeight)
	}
	return WeightPreset{Cognitive: 1 - speechWeight, Speech: speechWeight}, nil
}

// Fuse combines the present risk signals into one overall score. A present
// signal is never ignored and a missing signal never contributes. The
// fused confidence is the arithmetic mean of present confidences, not
// weighted by the risk weights.
func Fuse(cognitive, speech, behavioral *RiskEstimate, preset WeightPreset) (FusedRisk, error) {
	if cognitive == nil {
		return FusedRisk{}, ErrMandatorySignal
	}
	if behavioral != nil && speech == nil {
		return FusedRisk{}, ErrInvalidSignalSet
	}
	if math.Abs(preset.Cognitive+preset.Speech-1) > 1e-9 {
		return FusedRisk{}, fmt.Errorf("%w: cognitive %g + speech %g", ErrInvalidWeights, preset.Cognitive, preset.Speech)
	}

	var weighted float64
	confidences := []float64{cognitive.Confidence}

	switch {
	case speech == nil:
		weighted = float64(cognitive.Score)
	case behavioral == nil:
		weighted = float64(cognitive.Score)*preset.Cognitive + float64(speech.Score)*preset.Speech
		confidences = append(confidences, speech.Confidence)
	default:
		weighted = float64(cognitive.Score)*trioCognitiveWeight +
			float64(speech.Score)*trioSpeechWeight +
			float64(behavioral.Score)*trioBehavioralWeight
		confidences = append(confidences, speech.Confidence, behavioral.Confidence)
	}

	var total float64
	for _, c := range confidences {
		total += c
	}

	return FusedRisk{
		Score:      clampScore(int(math.Round(weighted))),
		Confidence: round2(total / float64(len(confidences))),
	}, nil
}
