package scoring

import (
	"errors"
	"testing"
)

func TestFuseSignalCombinations(t *testing.T) {
	cognitive := &RiskEstimate{Score: 48, Confidence: 0.7}
	speech := &RiskEstimate{Score: 35, Confidence: 0.6}
	behavioral := &RiskEstimate{Score: 30, Confidence: 0.7}

	tests := []struct {
		name             string
		speech           *RiskEstimate
		behavioral       *RiskEstimate
		preset           WeightPreset
		expectScore      int
		expectConfidence float64
	}{
		{"cognitive only", nil, nil, AnalysisWeights, 48, 0.7},
		{"cognitive and speech analysis preset", speech, nil, AnalysisWeights, 44, 0.65},
		{"cognitive and speech standalone preset", speech, nil, StandaloneWeights, 43, 0.65},
		{"all three signals", speech, behavioral, AnalysisWeights, 41, 0.67},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			fused, err := Fuse(cognitive, tc.speech, tc.behavioral, tc.preset)
			if err != nil {
				t.Fatalf("fuse: %v", err)
			}
			if fused.Score != tc.expectScore {
				t.Fatalf("expected score %d got %d", tc.expectScore, fused.Score)
			}
			if fused.Confidence != tc.expectConfidence {
				t.Fatalf("expected confidence %g got %g", tc.expectConfidence, fused.Confidence)
			}
		})
	}
}

func TestFuseContractViolations(t *testing.T) {
	cognitive := &RiskEstimate{Score: 50, Confidence: 0.7}
	speech := &RiskEstimate{Score: 40, Confidence: 0.6}
	behavioral := &RiskEstimate{Score: 30, Confidence: 0.5}

	tests := []struct {
		name       string
		cognitive  *RiskEstimate
		speech     *RiskEstimate
		behavioral *RiskEstimate
		preset     WeightPreset
		expect     error
	}{
		{"missing cognitive", nil, speech, nil, AnalysisWeights, ErrMandatorySignal},
		{"behavioral without speech", cognitive, nil, behavioral, AnalysisWeights, ErrInvalidSignalSet},
		{"unnormalized preset", cognitive, speech, nil, WeightPreset{Cognitive: 0.7, Speech: 0.7}, ErrInvalidWeights},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := Fuse(tc.cognitive, tc.speech, tc.behavioral, tc.preset); !errors.Is(err, tc.expect) {
				t.Fatalf("expected %v got %v", tc.expect, err)
			}
		})
	}
}

func TestFuseBounds(t *testing.T) {
	for _, cognitive := range []int{0, 50, 100} {
		for _, speech := range []int{0, 50, 100} {
			for _, behavioral := range []int{0, 50, 100} {
				fused, err := Fuse(
					&RiskEstimate{Score: cognitive, Confidence: 0.8},
					&RiskEstimate{Score: speech, Confidence: 0.6},
					&RiskEstimate{Score: behavioral, Confidence: 0.5},
					AnalysisWeights,
				)
				if err != nil {
					t.Fatalf("fuse: %v", err)
				}
				if fused.Score < 0 || fused.Score > 100 {
					t.Fatalf("fused score %d out of bounds", fused.Score)
				}
			}
		}
	}
}

func TestNewWeightPreset(t *testing.T) {
	preset, err := NewWeightPreset(0.4)
	if err != nil {
		t.Fatalf("new preset: %v", err)
	}
	if preset != StandaloneWeights {
		t.Fatalf("expected standalone preset, got %+v", preset)
	}

	for _, invalid := range []float64{0, 1, -0.2, 1.5} {
		if _, err := NewWeightPreset(invalid); !errors.Is(err, ErrInvalidWeights) {
			t.Fatalf("expected ErrInvalidWeights for %g, got %v", invalid, err)
		}
	}
}
