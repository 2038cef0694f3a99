// Package catalogs holds the static definition tables the simulation is
// parameterized by: zone classes, road kinds, service building types, and
// utility/power producer types. Catalogs are loaded once at startup from
// YAML and are immutable afterwards; a digest over the canonical encoding
// identifies the catalog version in snapshots and journals.
package catalogs

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

type Catalogs struct {
	Zones    ZoneCatalog
	Roads    RoadCatalog
	Services ServiceCatalog
	Power    PowerCatalog
	Water    WaterCatalog

	Digest string
}

// ZoneDef describes one zone class. Capacity and demand scale linearly with
// building level on top of these bases.
type ZoneDef struct {
	ID             string  `yaml:"id" json:"id"`
	BaseCapacity   int     `yaml:"base_capacity" json:"base_capacity"`
	EnergyMWhBase  float64 `yaml:"energy_mwh_base" json:"energy_mwh_base"`
	Jobs           bool    `yaml:"jobs" json:"jobs"`
	PollutionBase  uint8   `yaml:"pollution_base" json:"pollution_base"`
	NoiseBase      uint8   `yaml:"noise_base" json:"noise_base"`
	PowerPriority  string  `yaml:"power_priority" json:"power_priority"` // LOW/NORMAL/HIGH/CRITICAL
	ConstructTicks int     `yaml:"construct_slow_ticks" json:"construct_slow_ticks"`
}

type ZoneCatalog struct {
	Defs []ZoneDef `yaml:"zones"`

	byID map[string]*ZoneDef
}

func (c *ZoneCatalog) Get(id string) (*ZoneDef, bool) {
	d, ok := c.byID[id]
	return d, ok
}

// RoadDef describes one road kind.
type RoadDef struct {
	ID           string  `yaml:"id" json:"id"`
	SpeedFactor  float64 `yaml:"speed_factor" json:"speed_factor"`
	Capacity     int     `yaml:"capacity" json:"capacity"` // trips/slow tick before LOS degrades
	CostPerCell  float64 `yaml:"cost_per_cell" json:"cost_per_cell"`
	MaintPerCell float64 `yaml:"maint_per_cell" json:"maint_per_cell"`
	Walkable     bool    `yaml:"walkable" json:"walkable"`
	Drivable     bool    `yaml:"drivable" json:"drivable"`
}

type RoadCatalog struct {
	Defs []RoadDef `yaml:"roads"`

	byID map[string]*RoadDef
}

func (c *RoadCatalog) Get(id string) (*RoadDef, bool) {
	d, ok := c.byID[id]
	return d, ok
}

// ServiceDef describes one service building type (one tier of one category).
type ServiceDef struct {
	ID          string  `yaml:"id" json:"id"`
	Category    string  `yaml:"category" json:"category"` // POLICE/FIRE/HEALTH/EDUCATION/PARKS/SANITATION/TRANSIT/SOCIAL/UTILITIES/CULTURAL
	Tier        int     `yaml:"tier" json:"tier"`
	Cost        float64 `yaml:"cost" json:"cost"`
	Maintenance float64 `yaml:"maintenance" json:"maintenance"` // monthly
	Radius      int     `yaml:"radius" json:"radius"`           // coverage radius in cells (Euclidean)
	Staff       int     `yaml:"staff" json:"staff"`
	Capacity    int     `yaml:"capacity" json:"capacity"` // patients, students, vehicles...
	Footprint   int     `yaml:"footprint" json:"footprint"`
	Vehicles    int     `yaml:"vehicles" json:"vehicles"` // dispatch fleet size, 0 = coverage only
}

type ServiceCatalog struct {
	Defs []ServiceDef `yaml:"services"`

	byID map[string]*ServiceDef
}

func (c *ServiceCatalog) Get(id string) (*ServiceDef, bool) {
	d, ok := c.byID[id]
	return d, ok
}

// ByCategory returns defs of one category ordered by tier.
func (c *ServiceCatalog) ByCategory(cat string) []*ServiceDef {
	var out []*ServiceDef
	for i := range c.Defs {
		if c.Defs[i].Category == cat {
			out = append(out, &c.Defs[i])
		}
	}
	return out
}

// PowerDef describes one producer type. Defs are listed in merit order:
// dispatch walks the list front to back.
type PowerDef struct {
	ID          string  `yaml:"id" json:"id"`
	CapacityMWh float64 `yaml:"capacity_mwh" json:"capacity_mwh"` // per fast tick at full availability
	GenCostMWh  float64 `yaml:"gen_cost_mwh" json:"gen_cost_mwh"`
	Cost        float64 `yaml:"cost" json:"cost"`
	Maintenance float64 `yaml:"maintenance" json:"maintenance"`
	Range       int     `yaml:"range" json:"range"`
	Weather     string  `yaml:"weather" json:"weather"` // SOLAR/WIND/STEADY availability model
}

type PowerCatalog struct {
	Defs []PowerDef `yaml:"power"`

	byID map[string]*PowerDef
}

func (c *PowerCatalog) Get(id string) (*PowerDef, bool) {
	d, ok := c.byID[id]
	return d, ok
}

// MeritIndex returns the dispatch position of a producer type.
func (c *PowerCatalog) MeritIndex(id string) int {
	for i := range c.Defs {
		if c.Defs[i].ID == id {
			return i
		}
	}
	return len(c.Defs)
}

// WaterDef describes one water source or treatment type.
type WaterDef struct {
	ID          string  `yaml:"id" json:"id"`
	CapacityKL  float64 `yaml:"capacity_kl" json:"capacity_kl"` // kiloliters per slow tick
	Cost        float64 `yaml:"cost" json:"cost"`
	Maintenance float64 `yaml:"maintenance" json:"maintenance"`
	Radius      int     `yaml:"radius" json:"radius"` // Manhattan service radius
	Treats      bool    `yaml:"treats" json:"treats"` // sewage treatment rather than supply
}

type WaterCatalog struct {
	Defs []WaterDef `yaml:"water"`

	byID map[string]*WaterDef
}

func (c *WaterCatalog) Get(id string) (*WaterDef, bool) {
	d, ok := c.byID[id]
	return d, ok
}

// Load reads the catalog YAML files from dir. Missing files fall back to the
// built-in defaults so a bare checkout still runs.
func Load(dir string) (*Catalogs, error) {
	c := Default()

	if err := loadYAML(filepath.Join(dir, "zones.yaml"), &c.Zones); err != nil {
		return nil, err
	}
	if err := loadYAML(filepath.Join(dir, "roads.yaml"), &c.Roads); err != nil {
		return nil, err
	}
	if err := loadYAML(filepath.Join(dir, "services.yaml"), &c.Services); err != nil {
		return nil, err
	}
	if err := loadYAML(filepath.Join(dir, "power.yaml"), &c.Power); err != nil {
		return nil, err
	}
	if err := loadYAML(filepath.Join(dir, "water.yaml"), &c.Water); err != nil {
		return nil, err
	}

	if err := c.finalize(); err != nil {
		return nil, err
	}
	return c, nil
}

func loadYAML(path string, into any) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	if err := yaml.Unmarshal(raw, into); err != nil {
		return fmt.Errorf("%s: %w", filepath.Base(path), err)
	}
	return nil
}

func (c *Catalogs) finalize() error {
	c.Zones.byID = map[string]*ZoneDef{}
	for i := range c.Zones.Defs {
		d := &c.Zones.Defs[i]
		if _, dup := c.Zones.byID[d.ID]; dup {
			return fmt.Errorf("zones: duplicate id %q", d.ID)
		}
		c.Zones.byID[d.ID] = d
	}
	c.Roads.byID = map[string]*RoadDef{}
	for i := range c.Roads.Defs {
		d := &c.Roads.Defs[i]
		if _, dup := c.Roads.byID[d.ID]; dup {
			return fmt.Errorf("roads: duplicate id %q", d.ID)
		}
		c.Roads.byID[d.ID] = d
	}
	c.Services.byID = map[string]*ServiceDef{}
	for i := range c.Services.Defs {
		d := &c.Services.Defs[i]
		if _, dup := c.Services.byID[d.ID]; dup {
			return fmt.Errorf("services: duplicate id %q", d.ID)
		}
		c.Services.byID[d.ID] = d
	}
	c.Power.byID = map[string]*PowerDef{}
	for i := range c.Power.Defs {
		d := &c.Power.Defs[i]
		if _, dup := c.Power.byID[d.ID]; dup {
			return fmt.Errorf("power: duplicate id %q", d.ID)
		}
		c.Power.byID[d.ID] = d
	}
	c.Water.byID = map[string]*WaterDef{}
	for i := range c.Water.Defs {
		d := &c.Water.Defs[i]
		if _, dup := c.Water.byID[d.ID]; dup {
			return fmt.Errorf("water: duplicate id %q", d.ID)
		}
		c.Water.byID[d.ID] = d
	}

	// Digest over the canonical JSON of every table, in fixed order.
	h := sha256.New()
	for _, v := range []any{c.Zones.Defs, c.Roads.Defs, c.Services.Defs, c.Power.Defs, c.Water.Defs} {
		b, err := json.Marshal(v)
		if err != nil {
			return err
		}
		h.Write(b)
	}
	c.Digest = hex.EncodeToString(h.Sum(nil))[:16]
	return nil
}
