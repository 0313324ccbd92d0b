// Package config centralizes the normative numeric contract for the City
// simulation (see design doc Section 6). Every tunable lives here so the
// engine, economy, and session layers never hardcode a magic number.
package config

import (
	"os"
	"strconv"
	"time"
)

// Config holds every runtime-tunable constant for one running City.
type Config struct {
	// Tick Scheduler rates (Hz).
	SimTickRate               float64
	PositionUpdateRate        float64
	PerceptionBroadcastRate   float64
	MaxAccumulatedDelta       time.Duration
	SchedulerStallMultiplier  float64
	SchedulerStallConsecutive int

	// Spatial.
	TileSize       int
	WalkSpeed      float64 // pixels/sec
	RunSpeed       float64 // pixels/sec
	ResidentHitbox float64 // diameter, pixels (collision probes use half of it)

	// Clock.
	TimeScale float64 // game-seconds per real second

	// Needs decay (units per real second, scaled by TimeScale where applied
	// to game-time; these are expressed as the full-scale-per-game-second
	// rate matching spec §4.3/§6).
	HungerDecayPerGameSecond  float64
	ThirstDecayPerGameSecond  float64
	BladderFillPerGameSecond  float64
	EnergyDecayPerGameSecond  float64
	HealthDrainHungerPerSec   float64
	HealthDrainThirstPerSec   float64
	HealthRecoverPerSec       float64
	SleepEnergyRecoverPerSec  float64
	SleepBagEnergyRecoverRate float64

	// Perception.
	AmbientRange     float64
	FOVRange         float64
	FOVAngleDegrees  float64
	WallSoundFactor  float64
	WhisperRange     float64
	NormalRange      float64
	ShoutRange       float64

	// Economy.
	UBICooldown    time.Duration
	UBIAmount      int
	ShopMaxBuyQty  int
	TrainInterval  float64 // game-seconds between train arrivals
	PetitionMaxAgeGameHours float64
	LoiterThresholdGameHours float64
	ArrestRange    float64

	// Session.
	ReconnectGraceWindow time.Duration
	OutboundQueueBound   int
	OutboundStallTimeout time.Duration

	// Token authority.
	TokenSecret    string
	TokenTTL       time.Duration
	PassportPrefix string
	AllowHumanRegistration bool

	// Persistence.
	CheckpointInterval time.Duration
	EventRetention      time.Duration
}

// Default returns the normative defaults from the design doc.
func Default() Config {
	return Config{
		SimTickRate:               10,
		PositionUpdateRate:        30,
		PerceptionBroadcastRate:   4,
		MaxAccumulatedDelta:       500 * time.Millisecond,
		SchedulerStallMultiplier:  5,
		SchedulerStallConsecutive: 3,

		TileSize:       32,
		WalkSpeed:      60,
		RunSpeed:       120,
		ResidentHitbox: 16,

		TimeScale: 3,

		HungerDecayPerGameSecond: 100.0 / 57600.0,
		ThirstDecayPerGameSecond: 100.0 / 28800.0,
		BladderFillPerGameSecond: 100.0 / 28800.0,
		EnergyDecayPerGameSecond: 2.0 / 3600.0,
		HealthDrainHungerPerSec:  5.0 / 3600.0,
		HealthDrainThirstPerSec:  8.0 / 3600.0,
		HealthRecoverPerSec:      2.0 / 3600.0,
		SleepEnergyRecoverPerSec:  40.0 / 3600.0,
		SleepBagEnergyRecoverRate: 60.0 / 3600.0,

		AmbientRange:    5 * 32, // ~5 tiles
		FOVRange:        10 * 32,
		FOVAngleDegrees: 90,
		WallSoundFactor: 0.35,
		WhisperRange:    30,
		NormalRange:     300,
		ShoutRange:      900,

		UBICooldown:              24 * time.Hour,
		UBIAmount:                20,
		ShopMaxBuyQty:            10,
		TrainInterval:            900,
		PetitionMaxAgeGameHours:  24,
		LoiterThresholdGameHours: 1,
		ArrestRange:              64,

		ReconnectGraceWindow: 30 * time.Second,
		OutboundQueueBound:   64,
		OutboundStallTimeout: 5 * time.Second,

		TokenSecret:            "city-dev-secret-change-me",
		TokenTTL:               30 * 24 * time.Hour,
		PassportPrefix:         "CTZ",
		AllowHumanRegistration: true,

		CheckpointInterval: 30 * time.Second,
		EventRetention:      7 * 24 * time.Hour,
	}
}

// FromEnv overlays environment variable overrides onto Default().
// Mirrors the teacher's habit of reading os.Getenv directly at startup
// (cmd/worldsim/main.go), but centralized so every caller sees the same
// resolved configuration.
func FromEnv() Config {
	cfg := Default()

	if v := os.Getenv("CITY_UBI_AMOUNT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.UBIAmount = n
		}
	}
	if v := os.Getenv("CITY_TIME_SCALE"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			cfg.TimeScale = f
		}
	}
	if v := os.Getenv("CITY_TOKEN_SECRET"); v != "" {
		cfg.TokenSecret = v
	}
	if v := os.Getenv("CITY_ALLOW_HUMAN_REGISTRATION"); v != "" {
		cfg.AllowHumanRegistration = v == "1" || v == "true"
	}
	if v := os.Getenv("CITY_PASSPORT_PREFIX"); v != "" {
		cfg.PassportPrefix = v
	}

	return cfg
}
