package world

import "github.com/dzautner/megacity-sub002/internal/protocol"

// Stats is the aggregate snapshot recomputed each slow tick.
type Stats struct {
	Population   int
	Employed     int
	Unemployed   int
	Homeless     int
	AvgHappiness float64
	AvgHealth    float64
	AvgEducation float64
	AvgLandValue float64
	AvgPollution float64
	CrimeRate    float64
	TrafficLOS   string // city-wide level of service, A..F

	PowerDemandMWh float64
	PowerSupplyMWh float64
	WaterDemandKL  float64
	WaterSupplyKL  float64

	Milestone int // highest reached population milestone index
}

// populationMilestones unlock at these thresholds.
var populationMilestones = []int{100, 500, 1000, 2500, 5000, 10000, 25000, 50000}

func NewStats() *Stats { return &Stats{TrafficLOS: "A"} }

// Charts keeps ring-buffered daily series for the chart view.
type Charts struct {
	Cap        int
	Population []int
	Treasury   []float64
	Happiness  []float64
	Pollution  []float64
	Demand     []float64 // residential channel
}

func NewCharts(cap int) *Charts {
	if cap <= 0 {
		cap = 360
	}
	return &Charts{Cap: cap}
}

func (c *Charts) push(pop int, treasury, happy, poll, demand float64) {
	c.Population = appendCapInt(c.Population, pop, c.Cap)
	c.Treasury = appendCapF(c.Treasury, treasury, c.Cap)
	c.Happiness = appendCapF(c.Happiness, happy, c.Cap)
	c.Pollution = appendCapF(c.Pollution, poll, c.Cap)
	c.Demand = appendCapF(c.Demand, demand, c.Cap)
}

func appendCapInt(s []int, v, cap int) []int {
	s = append(s, v)
	if len(s) > cap {
		s = s[len(s)-cap:]
	}
	return s
}

func appendCapF(s []float64, v float64, cap int) []float64 {
	s = append(s, v)
	if len(s) > cap {
		s = s[len(s)-cap:]
	}
	return s
}

// systemStats recomputes the aggregates and fires milestone events. Slow
// tick, ordered after every field-producing system.
func systemStats(w *World) {
	st := w.Stats
	st.Population = w.Citizens.Len()

	employed, homeless := 0, 0
	var happy, health, edu float64
	w.Citizens.Each(func(_ Handle, c *Citizen) {
		if !c.Work.IsNone() {
			employed++
		}
		if c.Home.IsNone() {
			homeless++
		}
		happy += c.Details.Happiness
		health += c.Details.Health
		edu += float64(c.Details.Education)
	})
	st.Employed = employed
	st.Unemployed = st.Population - employed
	st.Homeless = homeless
	if st.Population > 0 {
		n := float64(st.Population)
		st.AvgHappiness = happy / n
		st.AvgHealth = health / n
		st.AvgEducation = edu / n
	}

	var lv, poll float64
	var crimeSum int
	for i := 0; i < GridArea; i++ {
		lv += float64(w.Grids.LandValue[i])
		poll += float64(w.Grids.Pollution[i])
		crimeSum += int(w.Grids.Crime[i])
	}
	st.AvgLandValue = lv / GridArea
	st.AvgPollution = poll / GridArea
	if st.Population > 0 {
		st.CrimeRate = float64(crimeSum) / float64(st.Population)
	}

	for st.Milestone < len(populationMilestones) && st.Population >= populationMilestones[st.Milestone] {
		w.emitEventf(protocol.EvMilestone, protocol.SevInfo, -1, -1, "population reached %d", populationMilestones[st.Milestone])
		st.Milestone++
	}

	// one chart sample per simulated day
	if w.Clock.Tick%TicksPerDay < uint64(w.slowEvery) {
		w.Charts.push(st.Population, w.Budget.Treasury, st.AvgHappiness, st.AvgPollution, w.Demand.Residential)
	}
}
