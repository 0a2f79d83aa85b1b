package features

import (
	"errors"
	"fmt"
	"math"
)

// Memory scale indicators callers may supply to disambiguate the two
// historically-used memory score scales.
const (
	MemoryScaleRaw     = "raw"     // native 0-9 scale
	MemoryScalePercent = "percent" // 0-100 scale, rescaled to 0-9
)

var (
	// ErrEmptySample rejects submissions where every cognitive field is
	// absent or zero. A caller that legitimately scored zero on one test
	// still has a non-zero reaction time.
	ErrEmptySample = errors.New("all cognitive fields are empty or zero")

	// ErrOutOfRange rejects values outside the documented input ranges.
	ErrOutOfRange = errors.New("input out of range")
)

// CognitiveSample holds the canonical cognitive test measurements.
// Immutable once constructed; one sample per assessment request.
type CognitiveSample struct {
	WordScore      float64 // word unscrambling test, 0-100
	MemoryScore    float64 // memory pattern test, 0-9
	ReactionTimeMs float64 // average reaction time, >= 0
}

// RawSample carries the field-name aliases accepted on the wire. Pointer
// fields distinguish "absent" from a legitimate zero.
type RawSample struct {
	WordScore     *float64 // word_score
	WordScoreAlt  *float64 // wordScore
	WordTestScore *float64 // word_test_score

	MemoryScore     *float64 // memory_score
	MemoryScoreAlt  *float64 // memoryScore
	MemoryTestScore *float64 // memory_test_score

	ReactionTime    *float64 // reaction_time
	ReactionTimeMs  *float64 // reaction_time_ms
	ReactionTimeAlt *float64 // reactionTime

	// MemoryScale optionally names the memory score scale explicitly.
	// When empty, values above 9 are assumed to be on the percent scale.
	MemoryScale string
}

// Normalize resolves field aliases, rescales the memory score, and
// validates ranges. Pure transform, no side effects.
func Normalize(raw RawSample) (CognitiveSample, error) {
	word := firstValue(raw.WordScore, raw.WordScoreAlt, raw.WordTestScore)
	memory := firstValue(raw.MemoryScore, raw.MemoryScoreAlt, raw.MemoryTestScore)
	reaction := firstValue(raw.ReactionTime, raw.ReactionTimeMs, raw.ReactionTimeAlt)

	if word == 0 && memory == 0 && reaction == 0 {
		return CognitiveSample{}, ErrEmptySample
	}

	if word < 0 || word > 100 {
		return CognitiveSample{}, fmt.Errorf("%w: word_score must be between 0 and 100, got %g", ErrOutOfRange, word)
	}
	if memory < 0 {
		return CognitiveSample{}, fmt.Errorf("%w: memory_score must be non-negative, got %g", ErrOutOfRange, memory)
	}
	if reaction < 0 {
		return CognitiveSample{}, fmt.Errorf("%w: reaction_time must be non-negative, got %g", ErrOutOfRange, reaction)
	}

	rescaled, err := rescaleMemory(memory, raw.MemoryScale)
	if err != nil {
		return CognitiveSample{}, err
	}

	return CognitiveSample{
		WordScore:      word,
		MemoryScore:    rescaled,
		ReactionTimeMs: reaction,
	}, nil
}

func rescaleMemory(value float64, scale string) (float64, error) {
	switch scale {
	case MemoryScaleRaw:
		if value > 9 {
			return 0, fmt.Errorf("%w: memory_score must be between 0 and 9 on the raw scale, got %g", ErrOutOfRange, value)
		}
		return value, nil
	case MemoryScalePercent:
		if value > 100 {
			return 0, fmt.Errorf("%w: memory_score must be between 0 and 100 on the percent scale, got %g", ErrOutOfRange, value)
		}
		return math.Round(value / 100 * 9), nil
	case "":
		// No scale indicator carried; values above the native 0-9 range
		// are assumed to be expressed as a percentage.
		if value > 100 {
			return 0, fmt.Errorf("%w: memory_score must be between 0 and 100, got %g", ErrOutOfRange, value)
		}
		if value > 9 {
			return math.Round(value / 100 * 9), nil
		}
		return value, nil
	default:
		return 0, fmt.Errorf("%w: memory_scale must be %q or %q, got %q", ErrOutOfRange, MemoryScaleRaw, MemoryScalePercent, scale)
	}
}

func firstValue(candidates ...*float64) float64 {
	for _, candidate := range candidates {
		if candidate != nil {
			return *candidate
		}
	}
	return 0
}
