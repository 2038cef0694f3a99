package world

// Demand is the RCI demand model. Values are in [-1,1]: positive demand
// drives construction and level-ups, negative demand feeds abandonment.
type Demand struct {
	Residential float64
	Commercial  float64
	Industrial  float64
	Office      float64
}

func NewDemand() *Demand {
	return &Demand{Residential: 0.5, Commercial: 0.2, Industrial: 0.3, Office: 0.1}
}

// ForZone maps a zone to its demand channel.
func (d *Demand) ForZone(z ZoneType) float64 {
	switch z {
	case ZoneResLow, ZoneResMed, ZoneResHigh:
		return d.Residential
	case ZoneComLow, ZoneComHigh:
		return d.Commercial
	case ZoneIndustrial:
		return d.Industrial
	case ZoneOffice:
		return d.Office
	case ZoneMixedUse:
		return (d.Residential + d.Commercial) / 2
	}
	return 0
}

// systemDemand recomputes RCI from population, job balance, tax pressure
// and citizen happiness. Slow tick.
func systemDemand(w *World) {
	st := w.Stats
	pop := float64(st.Population)

	var resCap, resOcc, jobCap, jobOcc float64
	w.Buildings.Each(func(_ Handle, b *Building) {
		if b.Status != StatusActive {
			return
		}
		if b.Zone.IsResidential() {
			resCap += float64(b.Capacity)
			resOcc += float64(b.Occupants)
		}
		if b.Zone.HasJobs() {
			jobCap += float64(b.Capacity)
			jobOcc += float64(b.Occupants)
		}
	})

	taxPenalty := (w.Budget.TaxRate - 0.09) * 6
	happyBoost := (st.AvgHappiness - 50) / 100

	// residential wants spare jobs and low vacancy
	resVacancy := 0.0
	if resCap > 0 {
		resVacancy = 1 - resOcc/resCap
	}
	jobSurplus := 0.0
	if pop > 0 {
		jobSurplus = (jobCap - pop*0.55) / (pop*0.55 + 1)
	}

	target := clampF(0.4+0.5*clampF(jobSurplus, -1, 1)-0.8*resVacancy-taxPenalty+happyBoost, -1, 1)
	w.Demand.Residential += (target - w.Demand.Residential) * 0.2

	// commercial follows population and disposable happiness
	comTarget := clampF(pop/4000-0.3*resVacancy-taxPenalty+happyBoost/2, -1, 1)
	w.Demand.Commercial += (comTarget - w.Demand.Commercial) * 0.2

	// industry wants labor and tolerates taxes less
	indTarget := clampF(0.3+pop/6000-taxPenalty*1.4, -1, 1)
	if w.Budget.PolicyOn("INDUSTRIAL_FILTERS") {
		indTarget -= 0.05
	}
	w.Demand.Industrial += (indTarget - w.Demand.Industrial) * 0.2

	// offices need an educated workforce
	offTarget := clampF(pop/8000+st.AvgEducation/4-0.5-taxPenalty, -1, 1)
	w.Demand.Office += (offTarget - w.Demand.Office) * 0.2
}
