package fileformat

import (
	"fmt"
	"os/exec"
	"path/filepath"
	"strings"
)

// ReformatToWav shells out to ffmpeg to transcode filePath into a 16-bit
// PCM WAV file at 44100Hz, clamping channels to mono/stereo. It is the
// fallback path for any input format internal/audio can't decode natively.
func ReformatToWav(filePath string, channels int) (string, error) {
	if channels < 1 || channels > 2 {
		channels = 1
	}

	outputFile := strings.TrimSuffix(filePath, filepath.Ext(filePath)) + ".rfm.wav"

	cmd := exec.Command(
		"ffmpeg",
		"-y",
		"-i", filePath,
		"-c", "pcm_s16le",
		"-ar", "44100",
		"-ac", fmt.Sprint(channels),
		outputFile,
	)

	output, err := cmd.CombinedOutput()
	if err != nil {
		return "", fmt.Errorf("fileformat: reformatting %s to wav: %w (output: %s)", filePath, err, output)
	}

	return outputFile, nil
}
