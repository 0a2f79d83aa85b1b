package audio

import (
	"math"
	"math/cmplx"

	"github.com/sirupsen/logrus"

	"cognitive-screen/backend/internal/features"
)

// Frame geometry for the framed time/frequency analysis.
const (
	frameSize = 2048
	hopSize   = 512
)

// Pitch search band in Hz.
const (
	pitchMinHz = 50
	pitchMaxHz = 500
)

// trimThresholdRatio trims leading/trailing samples quieter than this
// fraction of the peak amplitude (about 20 dB below peak).
const trimThresholdRatio = 0.1

// rolloffFraction is the cumulative-energy cutoff for spectral rolloff.
const rolloffFraction = 0.85

// Extract converts a WAV byte stream into the fixed-length acoustic
// feature vector. It never returns an error: on any decode or analysis
// failure it returns the all-default sentinel vector, which downstream
// scoring refuses to treat as a confident signal.
//
// The tempo, chroma, and contrast slots are reserved in the vector layout
// and not populated by this extractor.
func Extract(data []byte) features.AcousticVector {
	samples, sampleRate, err := decodeWAV(data)
	if err != nil {
		logrus.WithError(err).Warn("audio feature extraction failed, substituting default vector")
		return features.DefaultVector()
	}

	trimmed := trimSilence(samples)
	if len(trimmed) < frameSize {
		logrus.WithFields(logrus.Fields{
			"samples": len(samples),
			"trimmed": len(trimmed),
		}).Warn("audio too short after silence trim, substituting default vector")
		return features.DefaultVector()
	}

	var v features.AcousticVector

	zcrs := framedValues(trimmed, zeroCrossingRate)
	v[features.ZCRMean], v[features.ZCRStd] = meanStd(zcrs)

	rmss := framedValues(trimmed, rootMeanSquare)
	v[features.RMSMean], v[features.RMSStd] = meanStd(rmss)

	pitches := framedPitches(trimmed, sampleRate)
	if len(pitches) > 0 {
		mean, std := meanStd(pitches)
		v[features.PitchMean] = mean
		v[features.PitchStd] = std
		v[features.PitchRange] = maxOf(pitches) - minOf(pitches)
	}

	centroids, rolloffs, bandwidths, logSpectra := framedSpectral(trimmed, sampleRate)
	v[features.SpectralCentroidMean], v[features.SpectralCentroidStd] = meanStd(centroids)
	v[features.SpectralRolloffMean], _ = meanStd(rolloffs)
	v[features.SpectralBandwidthMean], _ = meanStd(bandwidths)
	v[features.MFCCMeanAvg], v[features.MFCCStdAvg] = meanStd(logSpectra)

	v[features.Duration] = float64(len(samples)) / float64(sampleRate)
	v[features.TrimmedDuration] = float64(len(trimmed)) / float64(sampleRate)
	v[features.PauseRatio] = 1 - float64(len(trimmed))/float64(len(samples))

	return v
}

func trimSilence(samples []float64) []float64 {
	var peak float64
	for _, s := range samples {
		if a := math.Abs(s); a > peak {
			peak = a
		}
	}
	if peak == 0 {
		return nil
	}
	threshold := peak * trimThresholdRatio

	start, end := 0, len(samples)
	for start < end && math.Abs(samples[start]) < threshold {
		start++
	}
	for end > start && math.Abs(samples[end-1]) < threshold {
		end--
	}
	return samples[start:end]
}

func framedValues(samples []float64, fn func([]float64) float64) []float64 {
	var out []float64
	for offset := 0; offset+frameSize <= len(samples); offset += hopSize {
		out = append(out, fn(samples[offset:offset+frameSize]))
	}
	return out
}

func zeroCrossingRate(frame []float64) float64 {
	var crossings int
	for i := 1; i < len(frame); i++ {
		if (frame[i-1] >= 0) != (frame[i] >= 0) {
			crossings++
		}
	}
	return float64(crossings) / float64(len(frame))
}

func rootMeanSquare(frame []float64) float64 {
	var sum float64
	for _, s := range frame {
		sum += s * s
	}
	return math.Sqrt(sum / float64(len(frame)))
}

// framedPitches estimates a fundamental frequency per frame via
// autocorrelation inside the plausible voice band. Unvoiced frames (no
// clear autocorrelation peak) contribute no pitch value.
func framedPitches(samples []float64, sampleRate int) []float64 {
	minLag := sampleRate / pitchMaxHz
	maxLag := sampleRate / pitchMinHz
	if minLag < 1 || maxLag >= frameSize {
		return nil
	}

	var pitches []float64
	for offset := 0; offset+frameSize <= len(samples); offset += hopSize {
		frame := samples[offset : offset+frameSize]
		if pitch := autocorrelationPitch(frame, sampleRate, minLag, maxLag); pitch > 0 {
			pitches = append(pitches, pitch)
		}
	}
	return pitches
}

func autocorrelationPitch(frame []float64, sampleRate, minLag, maxLag int) float64 {
	var energy float64
	for _, s := range frame {
		energy += s * s
	}
	if energy == 0 {
		return 0
	}

	bestLag, bestCorr := 0, 0.0
	for lag := minLag; lag <= maxLag; lag++ {
		var corr float64
		for i := 0; i+lag < len(frame); i++ {
			corr += frame[i] * frame[i+lag]
		}
		if corr > bestCorr {
			bestCorr = corr
			bestLag = lag
		}
	}

	// Require a reasonably periodic frame before reporting a pitch.
	if bestLag == 0 || bestCorr/energy < 0.3 {
		return 0
	}
	return float64(sampleRate) / float64(bestLag)
}

// framedSpectral computes per-frame spectral centroid, rolloff, bandwidth,
// and mean log magnitude from an FFT of each Hann-windowed frame.
func framedSpectral(samples []float64, sampleRate int) (centroids, rolloffs, bandwidths, logSpectra []float64) {
	window := hannWindow(frameSize)
	binHz := float64(sampleRate) / frameSize

	for offset := 0; offset+frameSize <= len(samples); offset += hopSize {
		frame := make([]complex128, frameSize)
		for i := 0; i < frameSize; i++ {
			frame[i] = complex(samples[offset+i]*window[i], 0)
		}
		fft(frame)

		bins := frameSize / 2
		magnitudes := make([]float64, bins)
		var total float64
		for i := 0; i < bins; i++ {
			magnitudes[i] = cmplx.Abs(frame[i])
			total += magnitudes[i]
		}
		if total == 0 {
			continue
		}

		var centroid float64
		for i, m := range magnitudes {
			centroid += float64(i) * binHz * m
		}
		centroid /= total
		centroids = append(centroids, centroid)

		var cumulative float64
		rolloff := float64(bins-1) * binHz
		for i, m := range magnitudes {
			cumulative += m
			if cumulative >= rolloffFraction*total {
				rolloff = float64(i) * binHz
				break
			}
		}
		rolloffs = append(rolloffs, rolloff)

		var bandwidth float64
		for i, m := range magnitudes {
			diff := float64(i)*binHz - centroid
			bandwidth += diff * diff * m
		}
		bandwidths = append(bandwidths, math.Sqrt(bandwidth/total))

		var logSum float64
		for _, m := range magnitudes {
			logSum += math.Log(m + 1e-10)
		}
		logSpectra = append(logSpectra, logSum/float64(bins))
	}
	return centroids, rolloffs, bandwidths, logSpectra
}

func hannWindow(size int) []float64 {
	window := make([]float64, size)
	for i := range window {
		window[i] = 0.5 * (1 - math.Cos(2*math.Pi*float64(i)/float64(size-1)))
	}
	return window
}

// fft is an in-place iterative radix-2 Cooley-Tukey transform. The input
// length must be a power of two.
func fft(buf []complex128) {
	n := len(buf)
	if n <= 1 {
		return
	}

	// Bit-reversal permutation.
	for i, j := 1, 0; i < n; i++ {
		bit := n >> 1
		for ; j&bit != 0; bit >>= 1 {
			j ^= bit
		}
		j ^= bit
		if i < j {
			buf[i], buf[j] = buf[j], buf[i]
		}
	}

	for length := 2; length <= n; length <<= 1 {
		angle := -2 * math.Pi / float64(length)
		wBase := cmplx.Exp(complex(0, angle))
		for start := 0; start < n; start += length {
			w := complex(1, 0)
			for k := 0; k < length/2; k++ {
				even := buf[start+k]
				odd := buf[start+k+length/2] * w
				buf[start+k] = even + odd
				buf[start+k+length/2] = even - odd
				w *= wBase
			}
		}
	}
}

func meanStd(values []float64) (float64, float64) {
	if len(values) == 0 {
		return 0, 0
	}
	var sum float64
	for _, v := range values {
		sum += v
	}
	mean := sum / float64(len(values))

	var variance float64
	for _, v := range values {
		diff := v - mean
		variance += diff * diff
	}
	return mean, math.Sqrt(variance / float64(len(values)))
}

func minOf(values []float64) float64 {
	min := values[0]
	for _, v := range values[1:] {
		if v < min {
			min = v
		}
	}
	return min
}

func maxOf(values []float64) float64 {
	max := values[0]
	for _, v := range values[1:] {
		if v > max {
			max = v
		}
	}
	return max
}
