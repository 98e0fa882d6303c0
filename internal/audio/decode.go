package audio

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	goaudio "github.com/go-audio/audio"
	"github.com/go-audio/wav"
	"github.com/hajimehoshi/go-mp3"

	"github.com/ben-hayes/audio-fingerprinter/fileformat"
)

// ErrUnsupportedFormat is returned by DecodeFile when neither a native
// decoder nor the ffmpeg fallback can read path.
var ErrUnsupportedFormat = errors.New("audio: unsupported file format")

// DecodeFile loads path and returns mono float64 samples in [-1, 1] plus
// the sample rate. Stereo input is downmixed by channel averaging (same
// policy as the teacher's StereoToMono, generalized beyond two channels).
// Extensions other than .wav/.mp3 are transcoded to WAV via ffmpeg first
// (fileformat.ReformatToWav) rather than rejected outright.
func DecodeFile(path string) ([]float64, int, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".wav":
		return decodeWav(path)
	case ".mp3":
		return decodeMP3(path)
	default:
		reformatted, err := fileformat.ReformatToWav(path, 1)
		if err != nil {
			return nil, 0, fmt.Errorf("%w: %s (%v)", ErrUnsupportedFormat, path, err)
		}
		defer os.Remove(reformatted)
		return decodeWav(reformatted)
	}
}

func decodeWav(path string) ([]float64, int, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, 0, fmt.Errorf("audio: open wav: %w", err)
	}
	defer f.Close()

	decoder := wav.NewDecoder(f)
	if !decoder.IsValidFile() {
		return nil, 0, fmt.Errorf("audio: invalid wav file: %s", path)
	}

	format := decoder.Format()
	sampleRate := int(format.SampleRate)
	maxAmplitude := float64(int(1) << (decoder.BitDepth - 1))

	const bufferSize = 8192
	buf := &goaudio.IntBuffer{Data: make([]int, bufferSize), Format: format}

	var samples []int
	for {
		n, err := decoder.PCMBuffer(buf)
		if err != nil {
			if err == io.EOF {
				break
			}
			return nil, 0, fmt.Errorf("audio: read wav pcm: %w", err)
		}
		samples = append(samples, buf.Data[:n]...)
		if n < bufferSize {
			break
		}
	}

	mono := downmixInt(samples, int(format.NumChannels))
	return intsToFloat64(mono, maxAmplitude), sampleRate, nil
}

func decodeMP3(path string) ([]float64, int, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, 0, fmt.Errorf("audio: open mp3: %w", err)
	}
	defer f.Close()

	decoder, err := mp3.NewDecoder(f)
	if err != nil {
		return nil, 0, fmt.Errorf("audio: decode mp3: %w", err)
	}
	sampleRate := decoder.SampleRate()

	const bufferSize = 8192
	buf := make([]byte, bufferSize)
	var samples []int

	for {
		n, err := decoder.Read(buf)
		if err != nil {
			if err == io.EOF {
				break
			}
			return nil, 0, fmt.Errorf("audio: read mp3: %w", err)
		}
		for i := 0; i+1 < n; i += 2 {
			v := int16(uint16(buf[i]) | uint16(buf[i+1])<<8)
			samples = append(samples, int(v))
		}
	}

	// go-mp3 always decodes to interleaved stereo PCM.
	mono := downmixInt(samples, 2)
	return intsToFloat64(mono, 32768), sampleRate, nil
}

func downmixInt(samples []int, channels int) []int {
	if channels <= 1 {
		return samples
	}
	if rem := len(samples) % channels; rem != 0 {
		samples = samples[:len(samples)-rem]
	}

	mono := make([]int, len(samples)/channels)
	for i := range mono {
		var sum int
		for c := 0; c < channels; c++ {
			sum += samples[i*channels+c]
		}
		mono[i] = sum / channels
	}
	return mono
}

func intsToFloat64(samples []int, maxAmplitude float64) []float64 {
	out := make([]float64, len(samples))
	for i, s := range samples {
		out[i] = float64(s) / maxAmplitude
	}
	return out
}
