package features

// Indices into AcousticVector, matching the extractor's canonical feature
// order. The layout is shared with the offline training pipeline and must
// not be reordered.
const (
	MFCCMeanAvg = iota
	MFCCStdAvg
	PitchMean
	PitchStd
	PitchRange
	ZCRMean
	ZCRStd
	SpectralCentroidMean
	SpectralCentroidStd
	SpectralRolloffMean
	SpectralBandwidthMean
	RMSMean
	RMSStd
	Tempo
	Duration
	TrimmedDuration
	PauseRatio
	ChromaMean
	ChromaStd
	ContrastMean
	ContrastStd

	// VectorLen is the fixed acoustic feature vector length.
	VectorLen
)

// AcousticVector is the fixed-length acoustic feature vector produced by
// the audio extractor. The scoring core treats it as opaque numeric input
// and never mutates it.
type AcousticVector [VectorLen]float64

// DefaultVector returns the all-default sentinel substituted when feature
// extraction fails or detects no usable signal.
func DefaultVector() AcousticVector {
	return AcousticVector{}
}

// IsDefault reports whether the vector is the all-default sentinel. A
// sentinel vector must never be scored as a confident speech signal.
func (v AcousticVector) IsDefault() bool {
	for _, value := range v {
		if value != 0 {
			return false
		}
	}
	return true
}

// Values copies the vector into a fresh slice for model input.
func (v AcousticVector) Values() []float64 {
	out := make([]float64, VectorLen)
	copy(out, v[:])
	return out
}
