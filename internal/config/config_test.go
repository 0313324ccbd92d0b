package config

import (
	"os"
	"testing"
)

func TestDefaultMatchesNormativeConstants(t *testing.T) {
	cfg := Default()
	if cfg.SimTickRate != 10 || cfg.PositionUpdateRate != 30 || cfg.PerceptionBroadcastRate != 4 {
		t.Fatalf("scheduler rates drifted from the normative contract: %+v", cfg)
	}
	if cfg.TileSize != 32 || cfg.WalkSpeed != 60 || cfg.RunSpeed != 120 {
		t.Fatalf("spatial constants drifted: %+v", cfg)
	}
	if cfg.TrainInterval != 900 {
		t.Fatalf("expected TRAIN_INTERVAL=900, got %v", cfg.TrainInterval)
	}
}

func TestFromEnvOverridesUBIAmount(t *testing.T) {
	os.Setenv("CITY_UBI_AMOUNT", "42")
	defer os.Unsetenv("CITY_UBI_AMOUNT")

	cfg := FromEnv()
	if cfg.UBIAmount != 42 {
		t.Fatalf("expected UBIAmount=42, got %d", cfg.UBIAmount)
	}
}

func TestFromEnvIgnoresMalformedOverride(t *testing.T) {
	os.Setenv("CITY_TIME_SCALE", "not-a-number")
	defer os.Unsetenv("CITY_TIME_SCALE")

	cfg := FromEnv()
	if cfg.TimeScale != Default().TimeScale {
		t.Fatalf("malformed override should be ignored, got %v", cfg.TimeScale)
	}
}
