// Package tuning loads the simulation tuning knobs from tuning.yaml.
// Values here change balance, never semantics; a zero-value Tuning is
// normalized to playable defaults so tests can run without config files.
package tuning

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

type Tuning struct {
	TickRateHz    int `yaml:"tick_rate_hz"`
	SlowTickEvery int `yaml:"slow_tick_every"`

	StartTreasury float64 `yaml:"start_treasury"`
	DefaultTax    float64 `yaml:"default_tax_rate"`

	Energy  Energy  `yaml:"energy"`
	Water   Water   `yaml:"water"`
	Citizen Citizen `yaml:"citizen"`
	Economy Economy `yaml:"economy"`

	AutosaveEveryMin int `yaml:"autosave_every_min"`
}

type Energy struct {
	BasePriceKWh    float64 `yaml:"base_price_kwh"`
	BlackoutHPLoss  float64 `yaml:"blackout_hospital_loss"` // fraction per game day
	RotationTicks   int     `yaml:"rotation_slow_ticks"`
	ExtendedDays    int     `yaml:"extended_blackout_days"`
	BillingCycleDay int     `yaml:"billing_cycle_days"`
}

type Water struct {
	LitersPerOccupant float64 `yaml:"liters_per_occupant"`
	SewageFactor      float64 `yaml:"sewage_factor"`
}

type Citizen struct {
	MaxPenaltiesPerTick int     `yaml:"max_penalties_per_tick"`
	SpawnChance         float64 `yaml:"spawn_chance"`
	WalkSpeed           float64 `yaml:"walk_speed"` // world px per fast tick
}

type Economy struct {
	CollectionPeriodDays int     `yaml:"collection_period_days"`
	RoadMaintPerCell     float64 `yaml:"road_maint_per_cell"`
	LoanAnnualRate       float64 `yaml:"loan_annual_rate"`
	BulldozeRefund       float64 `yaml:"bulldoze_refund"`
}

// Load reads tuning.yaml. The result is always normalized.
func Load(path string) (Tuning, error) {
	var t Tuning
	raw, err := os.ReadFile(path)
	if err != nil {
		return t, err
	}
	if err := yaml.Unmarshal(raw, &t); err != nil {
		return t, fmt.Errorf("tuning.yaml: %w", err)
	}
	t.Normalize()
	return t, nil
}

// Default returns the built-in tuning used when no config file is given.
func Default() Tuning {
	var t Tuning
	t.Normalize()
	return t
}

func (t *Tuning) Normalize() {
	if t.TickRateHz <= 0 {
		t.TickRateHz = 20
	}
	if t.SlowTickEvery <= 0 {
		t.SlowTickEvery = 100
	}
	if t.StartTreasury == 0 {
		t.StartTreasury = 50000
	}
	if t.DefaultTax <= 0 || t.DefaultTax > 0.25 {
		t.DefaultTax = 0.09
	}
	if t.Energy.BasePriceKWh <= 0 {
		t.Energy.BasePriceKWh = 0.15
	}
	if t.Energy.BlackoutHPLoss <= 0 {
		t.Energy.BlackoutHPLoss = 0.05
	}
	if t.Energy.RotationTicks <= 0 {
		t.Energy.RotationTicks = 4
	}
	if t.Energy.ExtendedDays <= 0 {
		t.Energy.ExtendedDays = 3
	}
	if t.Energy.BillingCycleDay <= 0 {
		t.Energy.BillingCycleDay = 30
	}
	if t.Water.LitersPerOccupant <= 0 {
		t.Water.LitersPerOccupant = 150
	}
	if t.Water.SewageFactor <= 0 {
		t.Water.SewageFactor = 0.8
	}
	if t.Citizen.MaxPenaltiesPerTick <= 0 {
		t.Citizen.MaxPenaltiesPerTick = 5000
	}
	if t.Citizen.SpawnChance <= 0 {
		t.Citizen.SpawnChance = 0.35
	}
	if t.Citizen.WalkSpeed <= 0 {
		t.Citizen.WalkSpeed = 2.0
	}
	if t.Economy.CollectionPeriodDays <= 0 {
		t.Economy.CollectionPeriodDays = 30
	}
	if t.Economy.RoadMaintPerCell <= 0 {
		t.Economy.RoadMaintPerCell = 0.4
	}
	if t.Economy.LoanAnnualRate <= 0 {
		t.Economy.LoanAnnualRate = 0.06
	}
	if t.Economy.BulldozeRefund <= 0 {
		t.Economy.BulldozeRefund = 0.5
	}
	if t.AutosaveEveryMin < 0 {
		t.AutosaveEveryMin = 0
	}
}
