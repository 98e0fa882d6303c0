package main

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"

	"github.com/ben-hayes/audio-fingerprinter/internal/search"
)

// config holds everything the driver reads from the environment. godotenv
// loads a .env file if present (teacher main/main.go); a missing file is
// not an error, since every field here has a usable default.
type config struct {
	dbDSN  string
	params search.Params
}

func loadConfig() config {
	_ = godotenv.Load()

	defaults := search.DefaultParameterSpace()
	return config{
		dbDSN: envString("FP_DB_DSN", "fingerprinter.sqlite"),
		params: search.Params{
			Kappa:            envInt("FP_KAPPA", defaults.Kappa.Min),
			Tau:              envInt("FP_TAU", defaults.Tau.Min),
			HopKappa:         envInt("FP_HOP_KAPPA", defaults.HopKappa.Min),
			HopTau:           envInt("FP_HOP_TAU", defaults.HopTau.Min),
			TargetTimeOffset: envInt("FP_TARGET_TIME_OFFSET", defaults.TargetTimeOffset.Min),
			TargetTimeWidth:  envInt("FP_TARGET_TIME_WIDTH", defaults.TargetTimeWidth.Min),
			TargetFreqHeight: envInt("FP_TARGET_FREQ_HEIGHT", defaults.TargetFreqHeight.Min),
		},
	}
}

func envString(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}
