//go:build !js && !wasm

// Package capture records a fixed-duration mono clip from the default
// input device, for the CLI's `record` subcommand. Its build tag only
// excludes js/wasm targets. Nothing outside this package imports
// portaudio, so the other internal packages build without cgo; the
// fingerprinter command links this package through `record` and needs it.
package capture

import (
	"encoding/binary"
	"fmt"
	"time"

	"github.com/gordonklaus/portaudio"

	"github.com/ben-hayes/audio-fingerprinter/fileformat"
	"github.com/ben-hayes/audio-fingerprinter/internal/status"
)

const (
	framesPerBuffer  = 2048
	minSampleRate    = 44100
	bitsPerSample    = 16
	recordingChannel = 1
)

// Result is one completed recording.
type Result struct {
	Samples    []int16
	SampleRate int
	Duration   time.Duration
}

// Record captures duration worth of mono audio from the default input
// device and reports progress through reporter (§9: an explicit reporter
// threaded through the call, never a package-level status global).
func Record(duration time.Duration, reporter status.Reporter) (Result, error) {
	if reporter == nil {
		reporter = status.NoOp{}
	}

	if err := portaudio.Initialize(); err != nil {
		return Result{}, fmt.Errorf("capture: initializing portaudio: %w", err)
	}
	defer portaudio.Terminate()

	device, err := portaudio.DefaultInputDevice()
	if err != nil {
		return Result{}, fmt.Errorf("capture: getting default input device: %w", err)
	}

	sampleRate := device.DefaultSampleRate
	if sampleRate < minSampleRate {
		sampleRate = minSampleRate
	}

	parameters := portaudio.HighLatencyParameters(device, nil)
	parameters.Input.Channels = recordingChannel
	parameters.SampleRate = sampleRate
	parameters.FramesPerBuffer = framesPerBuffer

	buffer := make([]int16, framesPerBuffer)
	stream, err := portaudio.OpenStream(parameters, buffer)
	if err != nil {
		return Result{}, fmt.Errorf("capture: opening stream: %w", err)
	}
	defer stream.Close()

	if err := stream.Start(); err != nil {
		return Result{}, fmt.Errorf("capture: starting stream: %w", err)
	}

	reporter.Track("capture.started", map[string]any{"duration_s": duration.Seconds(), "device": device.Name})

	var samples []int16
	start := time.Now()
	for time.Since(start) < duration {
		if err := stream.Read(); err != nil {
			return Result{}, fmt.Errorf("capture: reading stream: %w", err)
		}
		samples = append(samples, buffer...)
	}

	if err := stream.Stop(); err != nil {
		return Result{}, fmt.Errorf("capture: stopping stream: %w", err)
	}

	actualRate := int(stream.Info().SampleRate)
	result := Result{
		Samples:    samples,
		SampleRate: actualRate,
		Duration:   time.Duration(float64(len(samples)) / float64(actualRate) * float64(time.Second)),
	}

	reporter.Track("capture.finished", map[string]any{
		"samples":     len(samples),
		"sample_rate": actualRate,
	})

	return result, nil
}

// WriteWav writes a capture Result to path as a 16-bit mono PCM WAV file.
func WriteWav(path string, r Result) error {
	data := make([]byte, len(r.Samples)*2)
	for i, s := range r.Samples {
		binary.LittleEndian.PutUint16(data[i*2:], uint16(s))
	}
	return fileformat.WriteWavFile(path, data, r.SampleRate, recordingChannel, bitsPerSample)
}
