package protocol

// ViewSnapshot is the read-only view published at each tick boundary.
// Consumers may hold the pointer; the simulation never mutates a published
// snapshot.
type ViewSnapshot struct {
	Tick   uint64 `json:"tick"`
	Day    int    `json:"day"`
	Hour   int    `json:"hour"`
	Minute int    `json:"minute"`
	Speed  int    `json:"speed"`
	Paused bool   `json:"paused"`

	Width  int `json:"width"`
	Height int `json:"height"`

	// Per-cell layers, row-major width*height.
	CellTypes  []uint8 `json:"cell_types"`
	Zones      []uint8 `json:"zones"`
	RoadTypes  []uint8 `json:"road_types"`
	Pollution  []uint8 `json:"pollution"`
	Noise      []uint8 `json:"noise"`
	LandValue  []uint8 `json:"land_value"`
	Crime      []uint8 `json:"crime"`
	Traffic    []uint8 `json:"traffic"`
	TrafficLOS []uint8 `json:"traffic_los"`
	HasPower   []bool  `json:"has_power"`
	HasWater   []bool  `json:"has_water"`

	Buildings []BuildingView `json:"buildings"`
	Citizens  []CitizenView  `json:"citizens"`
	Services  []ServiceView  `json:"services"`
	Utilities []UtilityView  `json:"utilities"`
	Vehicles  []VehicleView  `json:"vehicles"`

	Budget  BudgetView  `json:"budget"`
	Weather WeatherView `json:"weather"`
	Stats   StatsView   `json:"stats"`
	Meters  MetersView  `json:"meters"`
	Charts  ChartsView  `json:"charts"`

	Events []Event `json:"events,omitempty"`
}

type BuildingView struct {
	ID        uint32 `json:"id"`
	X         int    `json:"x"`
	Y         int    `json:"y"`
	Zone      string `json:"zone"`
	Level     int    `json:"level"`
	Capacity  int    `json:"capacity"`
	Occupants int    `json:"occupants"`
	Status    string `json:"status"`
}

type CitizenView struct {
	ID    uint32  `json:"id"`
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
	State string  `json:"state"`
	Mode  string  `json:"mode"`
}

type ServiceView struct {
	ID       uint32  `json:"id"`
	Type     string  `json:"type"`
	Category string  `json:"category"`
	X        int     `json:"x"`
	Y        int     `json:"y"`
	Radius   int     `json:"radius"`
	Staffing float64 `json:"staffing"`
}

type UtilityView struct {
	ID       uint32 `json:"id"`
	Type     string `json:"type"`
	X        int    `json:"x"`
	Y        int    `json:"y"`
	Range    int    `json:"range"`
	IsPower  bool   `json:"is_power"`
	IsWater  bool   `json:"is_water"`
}

type VehicleView struct {
	Kind      string  `json:"kind"`
	X         float64 `json:"x"`
	Y         float64 `json:"y"`
	Returning bool    `json:"returning"`
}

type BudgetView struct {
	Treasury        float64            `json:"treasury"`
	TaxRate         float64            `json:"tax_rate"`
	MonthlyIncome   float64            `json:"monthly_income"`
	MonthlyExpenses float64            `json:"monthly_expenses"`
	ZoneTaxRates    map[string]float64 `json:"zone_tax_rates,omitempty"`
	IncomeBreakdown map[string]float64 `json:"income_breakdown,omitempty"`
	ExpenseBreakdown map[string]float64 `json:"expense_breakdown,omitempty"`
	Loans           []LoanView         `json:"loans,omitempty"`
}

type LoanView struct {
	ID        uint32  `json:"id"`
	Principal float64 `json:"principal"`
	Remaining float64 `json:"remaining"`
	TermMonths int    `json:"term_months"`
	MonthlyPayment float64 `json:"monthly_payment"`
}

type WeatherView struct {
	Event       string  `json:"event"`
	Season      string  `json:"season"`
	Temperature float64 `json:"temperature"`
	WindX       float64 `json:"wind_x"`
	WindY       float64 `json:"wind_y"`
	Raining     bool    `json:"raining"`
}

type StatsView struct {
	Population   int     `json:"population"`
	Employed     int     `json:"employed"`
	Unemployment float64 `json:"unemployment"`
	AvgHappiness float64 `json:"avg_happiness"`
	AvgHealth    float64 `json:"avg_health"`
	AvgLandValue float64 `json:"avg_land_value"`
	BuildingCount int    `json:"building_count"`
	RoadCells    int     `json:"road_cells"`
	SegmentCount int     `json:"segment_count"`
}

// MetersView carries the supply/demand gauges for the dashboard.
type MetersView struct {
	EnergyDemandMWh  float64 `json:"energy_demand_mwh"`
	EnergySupplyMWh  float64 `json:"energy_supply_mwh"`
	ReserveMargin    float64 `json:"reserve_margin"`
	ElectricityPrice float64 `json:"electricity_price"`
	WaterDemandKL    float64 `json:"water_demand_kl"`
	WaterSupplyKL    float64 `json:"water_supply_kl"`
	SewageOverflowKL float64 `json:"sewage_overflow_kl"`
	ServiceCoverage  map[string]float64 `json:"service_coverage,omitempty"`
	DemandRes        float64 `json:"demand_res"`
	DemandCom        float64 `json:"demand_com"`
	DemandInd        float64 `json:"demand_ind"`
	DemandOffice     float64 `json:"demand_office"`
}

// ChartsView exposes the daily ring-buffered series.
type ChartsView struct {
	Days       []int     `json:"days,omitempty"`
	Population []int     `json:"population,omitempty"`
	Treasury   []float64 `json:"treasury,omitempty"`
	PollutionAvg []float64 `json:"pollution_avg,omitempty"`
}
