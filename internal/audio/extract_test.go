package audio

import (
	"bytes"
	"encoding/binary"
	"math"
	"testing"

	"cognitive-screen/backend/internal/features"
)

// buildWAV assembles a minimal mono PCM16 WAV container around the samples.
func buildWAV(t *testing.T, samples []int16, sampleRate int) []byte {
	t.Helper()
	var pcm bytes.Buffer
	for _, s := range samples {
		if err := binary.Write(&pcm, binary.LittleEndian, s); err != nil {
			t.Fatalf("encode pcm: %v", err)
		}
	}

	var buf bytes.Buffer
	buf.WriteString("RIFF")
	binary.Write(&buf, binary.LittleEndian, uint32(36+pcm.Len()))
	buf.WriteString("WAVE")

	buf.WriteString("fmt ")
	binary.Write(&buf, binary.LittleEndian, uint32(16))
	binary.Write(&buf, binary.LittleEndian, uint16(1)) // PCM
	binary.Write(&buf, binary.LittleEndian, uint16(1)) // mono
	binary.Write(&buf, binary.LittleEndian, uint32(sampleRate))
	binary.Write(&buf, binary.LittleEndian, uint32(sampleRate*2))
	binary.Write(&buf, binary.LittleEndian, uint16(2))
	binary.Write(&buf, binary.LittleEndian, uint16(16))

	buf.WriteString("data")
	binary.Write(&buf, binary.LittleEndian, uint32(pcm.Len()))
	buf.Write(pcm.Bytes())
	return buf.Bytes()
}

func sineWAV(t *testing.T, freq float64, seconds float64, sampleRate int) []byte {
	t.Helper()
	count := int(seconds * float64(sampleRate))
	samples := make([]int16, count)
	for i := range samples {
		samples[i] = int16(0.8 * 32767 * math.Sin(2*math.Pi*freq*float64(i)/float64(sampleRate)))
	}
	return buildWAV(t, samples, sampleRate)
}

func TestExtractRejectsUnusableInput(t *testing.T) {
	tests := []struct {
		name string
		data []byte
	}{
		{"empty", nil},
		{"garbage", []byte("definitely not audio")},
		{"truncated header", []byte("RIFF\x00\x00")},
		{"too short after trim", sineWAV(t, 440, 0.05, 22050)},
		{"digital silence", buildWAV(t, make([]int16, 22050), 22050)},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if v := Extract(tc.data); !v.IsDefault() {
				t.Fatalf("expected sentinel vector, got %v", v)
			}
		})
	}
}

func TestExtractSineWave(t *testing.T) {
	v := Extract(sineWAV(t, 440, 1.0, 22050))
	if v.IsDefault() {
		t.Fatal("valid audio must not yield the sentinel vector")
	}

	pitch := v[features.PitchMean]
	if pitch < 420 || pitch > 460 {
		t.Fatalf("expected pitch near 440 Hz, got %g", pitch)
	}

	duration := v[features.Duration]
	if math.Abs(duration-1.0) > 0.01 {
		t.Fatalf("expected duration near 1s, got %g", duration)
	}

	pause := v[features.PauseRatio]
	if pause < 0 || pause >= 1 {
		t.Fatalf("pause ratio %g outside [0,1)", pause)
	}

	rms := v[features.RMSMean]
	// RMS of a 0.8 amplitude sine is 0.8/sqrt(2).
	if math.Abs(rms-0.8/math.Sqrt2) > 0.05 {
		t.Fatalf("expected rms near %.3f, got %g", 0.8/math.Sqrt2, rms)
	}
}

func TestExtractStereoAveragesToMono(t *testing.T) {
	sampleRate := 22050
	count := sampleRate
	samples := make([]int16, 0, count*2)
	for i := 0; i < count; i++ {
		s := int16(0.5 * 32767 * math.Sin(2*math.Pi*220*float64(i)/float64(sampleRate)))
		samples = append(samples, s, s)
	}

	var pcm bytes.Buffer
	for _, s := range samples {
		binary.Write(&pcm, binary.LittleEndian, s)
	}

	var buf bytes.Buffer
	buf.WriteString("RIFF")
	binary.Write(&buf, binary.LittleEndian, uint32(36+pcm.Len()))
	buf.WriteString("WAVE")
	buf.WriteString("fmt ")
	binary.Write(&buf, binary.LittleEndian, uint32(16))
	binary.Write(&buf, binary.LittleEndian, uint16(1))
	binary.Write(&buf, binary.LittleEndian, uint16(2)) // stereo
	binary.Write(&buf, binary.LittleEndian, uint32(sampleRate))
	binary.Write(&buf, binary.LittleEndian, uint32(sampleRate*4))
	binary.Write(&buf, binary.LittleEndian, uint16(4))
	binary.Write(&buf, binary.LittleEndian, uint16(16))
	buf.WriteString("data")
	binary.Write(&buf, binary.LittleEndian, uint32(pcm.Len()))
	buf.Write(pcm.Bytes())

	v := Extract(buf.Bytes())
	if v.IsDefault() {
		t.Fatal("stereo audio must decode and extract")
	}
	pitch := v[features.PitchMean]
	if pitch < 200 || pitch > 240 {
		t.Fatalf("expected pitch near 220 Hz, got %g", pitch)
	}
}

func TestDecodeWAVRejectsNonPCM(t *testing.T) {
	data := sineWAV(t, 440, 0.5, 22050)
	// Flip the format tag to IEEE float.
	data[20] = 3

	if _, _, err := decodeWAV(data); err == nil {
		t.Fatal("expected unsupported encoding error")
	}
}
