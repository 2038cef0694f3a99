package world

// chpPlants are the power plant types whose waste heat feeds district
// heating loops.
var chpPlants = map[string]bool{
	"GEOTHERMAL_PLANT": true,
	"BIOMASS_PLANT":    true,
	"GAS_PLANT":        true,
}

// systemHeating marks district-heating reach. Outside cold snaps the grid
// is cleared; buildings heat electrically and the energy model prices it.
func systemHeating(w *World) {
	for i := range w.Grids.HeatingOK {
		w.Grids.HeatingOK[i] = false
	}
	if w.Weather.TempC > 2 {
		return
	}
	w.Utilities.Each(func(_ Handle, u *UtilitySource) {
		if u.IsPower && chpPlants[u.Type] {
			// heat loops reach about half the electric range
			markRange(w.Grids.HeatingOK, u.X, u.Y, u.Range/2)
		}
	})
}

// systemTelecom marks telecom coverage from masts and transit hubs.
func systemTelecom(w *World) {
	for i := range w.Grids.TelecomOK {
		w.Grids.TelecomOK[i] = false
	}
	w.Services.Each(func(_ Handle, s *ServiceBuilding) {
		if s.Type == "TELECOM_MAST" || s.Type == "TRANSIT_HUB" {
			markRange(w.Grids.TelecomOK, s.X, s.Y, s.Radius)
		}
	})
}
