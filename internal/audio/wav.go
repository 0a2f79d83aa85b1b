package audio

import (
	"encoding/binary"
	"errors"
	"fmt"
)

var (
	errNotWAV       = errors.New("not a RIFF/WAVE container")
	errNoData       = errors.New("no audio samples")
	errUnsupported  = errors.New("unsupported WAV encoding")
	errTruncatedWAV = errors.New("truncated WAV chunk")
)

// decodeWAV parses a PCM WAV container and returns mono float64 samples in
// [-1,1] plus the sample rate. Multi-channel input is averaged down to one
// channel.
func decodeWAV(data []byte) ([]float64, int, error) {
	if len(data) < 12 || string(data[0:4]) != "RIFF" || string(data[8:12]) != "WAVE" {
		return nil, 0, errNotWAV
	}

	var (
		sampleRate    int
		channels      int
		bitsPerSample int
		audioFormat   int
		pcm           []byte
	)

	offset := 12
	for offset+8 <= len(data) {
		chunkID := string(data[offset : offset+4])
		chunkSize := int(binary.LittleEndian.Uint32(data[offset+4 : offset+8]))
		body := offset + 8
		if body+chunkSize > len(data) {
			return nil, 0, errTruncatedWAV
		}

		switch chunkID {
		case "fmt ":
			if chunkSize < 16 {
				return nil, 0, errTruncatedWAV
			}
			audioFormat = int(binary.LittleEndian.Uint16(data[body : body+2]))
			channels = int(binary.LittleEndian.Uint16(data[body+2 : body+4]))
			sampleRate = int(binary.LittleEndian.Uint32(data[body+4 : body+8]))
			bitsPerSample = int(binary.LittleEndian.Uint16(data[body+14 : body+16]))
		case "data":
			pcm = data[body : body+chunkSize]
		}

		// Chunks are word-aligned.
		offset = body + chunkSize
		if chunkSize%2 == 1 {
			offset++
		}
	}

	if sampleRate <= 0 || channels <= 0 {
		return nil, 0, errNotWAV
	}
	if audioFormat != 1 || bitsPerSample != 16 {
		return nil, 0, fmt.Errorf("%w: format %d, %d bits", errUnsupported, audioFormat, bitsPerSample)
	}
	if len(pcm) < 2 {
		return nil, 0, errNoData
	}

	frameCount := len(pcm) / (2 * channels)
	if frameCount == 0 {
		return nil, 0, errNoData
	}

	samples := make([]float64, frameCount)
	for frame := 0; frame < frameCount; frame++ {
		var sum float64
		for ch := 0; ch < channels; ch++ {
			idx := (frame*channels + ch) * 2
			raw := int16(binary.LittleEndian.Uint16(pcm[idx : idx+2]))
			sum += float64(raw) / 32768
		}
		samples[frame] = sum / float64(channels)
	}
	return samples, sampleRate, nil
}
