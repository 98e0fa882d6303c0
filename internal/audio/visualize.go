package audio

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"math"
	"os"
)

// WriteSpectrogramPNG renders a freq-major magnitude spectrogram (as
// produced by Spectrogram) to a grayscale PNG at outputPath: one column
// per time frame, one row per frequency bin with the lowest frequency at
// the bottom and the highest at the top, intensity scaled linearly against the spectrogram's peak
// magnitude. It's a debugging aid, not part of the identification
// pipeline.
func WriteSpectrogramPNG(spectrogram [][]float64, outputPath string) error {
	freqBins := len(spectrogram)
	if freqBins == 0 {
		return fmt.Errorf("audio: empty spectrogram")
	}
	timeBins := len(spectrogram[0])

	img := image.NewGray(image.Rect(0, 0, timeBins, freqBins))

	maxMagnitude := 0.0
	for _, row := range spectrogram {
		for _, magnitude := range row {
			if magnitude > maxMagnitude {
				maxMagnitude = magnitude
			}
		}
	}
	if maxMagnitude == 0 {
		maxMagnitude = 1
	}

	for f, row := range spectrogram {
		y := freqBins - 1 - f // low frequency at the bottom
		for t, magnitude := range row {
			intensity := uint8(math.Floor(255 * (magnitude / maxMagnitude)))
			img.SetGray(t, y, color.Gray{Y: intensity})
		}
	}

	file, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("audio: creating %s: %w", outputPath, err)
	}
	defer file.Close()

	if err := png.Encode(file, img); err != nil {
		return fmt.Errorf("audio: encoding png to %s: %w", outputPath, err)
	}
	return nil
}
