package status_test

import (
	"testing"

	"github.com/ben-hayes/audio-fingerprinter/internal/status"
)

func TestNoOp_DiscardsEvents(t *testing.T) {
	var r status.Reporter = status.NoOp{}
	r.Track("anything", map[string]any{"k": "v"})
}

func TestTerminalReporter_ImplementsReporter(t *testing.T) {
	var r status.Reporter = status.NewTerminalReporter()
	r.Track("pipeline.started", map[string]any{"tracks": 3})
}
