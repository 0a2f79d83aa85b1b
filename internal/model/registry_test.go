package model

import (
	"math"
	"os"
	"path/filepath"
	"testing"
)

func writeArtifact(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write artifact: %v", err)
	}
	return path
}

const softmaxArtifact = `{
	"kind": "softmax",
	"coef": [[0.5, -0.2], [-0.1, 0.3], [0.2, 0.1]],
	"intercepts": [0.1, -0.2, 0.05]
}`

const linearArtifact = `{
	"kind": "linear",
	"weights": [0.4, 0.2],
	"intercept": 0.1
}`

func TestLoadClassifierAbsentFile(t *testing.T) {
	clf, err := LoadClassifier(filepath.Join(t.TempDir(), "missing.json"))
	if err != nil {
		t.Fatalf("absent artifact must not error: %v", err)
	}
	if clf != nil {
		t.Fatal("absent artifact must yield a nil classifier")
	}
}

func TestLoadClassifierSoftmax(t *testing.T) {
	path := writeArtifact(t, t.TempDir(), "model.json", softmaxArtifact)
	clf, err := LoadClassifier(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	probabilistic, ok := clf.(ProbabilisticClassifier)
	if !ok {
		t.Fatalf("expected probabilistic classifier, got %T", clf)
	}
	proba, err := probabilistic.PredictProba([]float64{1.0, 2.0})
	if err != nil {
		t.Fatalf("predict proba: %v", err)
	}
	if len(proba) != RiskClasses {
		t.Fatalf("expected %d class probabilities got %d", RiskClasses, len(proba))
	}
	var total float64
	for _, p := range proba {
		if p < 0 || p > 1 {
			t.Fatalf("probability %g out of range", p)
		}
		total += p
	}
	if math.Abs(total-1) > 1e-9 {
		t.Fatalf("probabilities must sum to 1, got %g", total)
	}
}

func TestLoadClassifierLinear(t *testing.T) {
	path := writeArtifact(t, t.TempDir(), "model.json", linearArtifact)
	clf, err := LoadClassifier(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	point, ok := clf.(PointClassifier)
	if !ok {
		t.Fatalf("expected point classifier, got %T", clf)
	}
	prediction, err := point.Predict([]float64{1.0, 0.5})
	if err != nil {
		t.Fatalf("predict: %v", err)
	}
	// 0.4*1.0 + 0.2*0.5 + 0.1
	if math.Abs(prediction-0.6) > 1e-9 {
		t.Fatalf("expected prediction 0.6 got %g", prediction)
	}
}

func TestLoadClassifierRejectsBadArtifacts(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"unknown kind", `{"kind": "forest"}`},
		{"not json", `weights=1`},
		{"softmax missing rows", `{"kind": "softmax", "coef": [[0.1]], "intercepts": [0.1]}`},
		{"softmax ragged rows", `{"kind": "softmax", "coef": [[0.1, 0.2], [0.1], [0.3, 0.4]], "intercepts": [0, 0, 0]}`},
		{"linear without weights", `{"kind": "linear", "intercept": 0.5}`},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			path := writeArtifact(t, t.TempDir(), "model.json", tc.content)
			if _, err := LoadClassifier(path); err == nil {
				t.Fatal("expected load error")
			}
		})
	}
}

func TestClassifierFeatureWidthMismatch(t *testing.T) {
	path := writeArtifact(t, t.TempDir(), "model.json", softmaxArtifact)
	clf, err := LoadClassifier(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if _, err := clf.(ProbabilisticClassifier).PredictProba([]float64{1.0}); err == nil {
		t.Fatal("expected feature width mismatch error")
	}
}

func TestScalerTransform(t *testing.T) {
	scaler := &Scaler{Mean: []float64{10, 0}, Scale: []float64{2, 0}}

	out, err := scaler.Transform([]float64{14, 3})
	if err != nil {
		t.Fatalf("transform: %v", err)
	}
	if out[0] != 2 {
		t.Fatalf("expected standardized 2 got %g", out[0])
	}
	// Zero scale is treated as identity to avoid dividing by zero.
	if out[1] != 3 {
		t.Fatalf("expected zero-scale passthrough 3 got %g", out[1])
	}

	if _, err := scaler.Transform([]float64{1}); err == nil {
		t.Fatal("expected length mismatch error")
	}
}

func TestLoadScaler(t *testing.T) {
	dir := t.TempDir()

	scaler, err := LoadScaler(filepath.Join(dir, "missing.json"))
	if err != nil || scaler != nil {
		t.Fatalf("absent scaler must yield (nil, nil), got (%v, %v)", scaler, err)
	}

	path := writeArtifact(t, dir, "scaler.json", `{"mean": [1, 2], "scale": [1, 1]}`)
	scaler, err = LoadScaler(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(scaler.Mean) != 2 {
		t.Fatalf("expected 2 fitted features got %d", len(scaler.Mean))
	}

	bad := writeArtifact(t, dir, "bad.json", `{"mean": [1, 2], "scale": [1]}`)
	if _, err := LoadScaler(bad); err == nil {
		t.Fatal("expected mismatched mean/scale error")
	}
}

func TestLoadRegistryInfo(t *testing.T) {
	t.Run("empty directory is rule-based", func(t *testing.T) {
		registry, err := LoadRegistry(t.TempDir())
		if err != nil {
			t.Fatalf("load registry: %v", err)
		}
		info := registry.Info()
		if info.CognitiveModel || info.SpeechModel || info.ScalerAvailable {
			t.Fatalf("empty registry must report no artifacts, got %+v", info)
		}
		if info.PredictionMode != "rule-based" {
			t.Fatalf("expected rule-based mode got %s", info.PredictionMode)
		}
	})

	t.Run("cognitive artifact switches to model-backed", func(t *testing.T) {
		dir := t.TempDir()
		writeArtifact(t, dir, CognitiveModelFile, softmaxArtifact)
		writeArtifact(t, dir, CognitiveScalerFile, `{"mean": [0, 0], "scale": [1, 1]}`)

		registry, err := LoadRegistry(dir)
		if err != nil {
			t.Fatalf("load registry: %v", err)
		}
		info := registry.Info()
		if !info.CognitiveModel || !info.ScalerAvailable {
			t.Fatalf("expected cognitive artifacts loaded, got %+v", info)
		}
		if info.PredictionMode != "model-backed" {
			t.Fatalf("expected model-backed mode got %s", info.PredictionMode)
		}
	})

	t.Run("corrupt artifact fails the load", func(t *testing.T) {
		dir := t.TempDir()
		writeArtifact(t, dir, SpeechModelFile, `{"kind": "forest"}`)
		if _, err := LoadRegistry(dir); err == nil {
			t.Fatal("expected load error for corrupt artifact")
		}
	})

	t.Run("nil registry is rule-based", func(t *testing.T) {
		var registry *Registry
		if registry.Info().PredictionMode != "rule-based" {
			t.Fatal("nil registry must report rule-based mode")
		}
	})
}
