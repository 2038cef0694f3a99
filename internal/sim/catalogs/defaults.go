package catalogs

// Default returns the built-in catalog tables. configs/*.yaml overrides them
// wholesale per table when present.
func Default() *Catalogs {
	c := &Catalogs{}

	c.Zones.Defs = []ZoneDef{
		{ID: "RES_LOW", BaseCapacity: 4, EnergyMWhBase: 0.002, PollutionBase: 2, NoiseBase: 4, PowerPriority: "NORMAL", ConstructTicks: 3},
		{ID: "RES_MED", BaseCapacity: 10, EnergyMWhBase: 0.004, PollutionBase: 3, NoiseBase: 6, PowerPriority: "NORMAL", ConstructTicks: 4},
		{ID: "RES_HIGH", BaseCapacity: 24, EnergyMWhBase: 0.008, PollutionBase: 4, NoiseBase: 9, PowerPriority: "NORMAL", ConstructTicks: 5},
		{ID: "COM_LOW", BaseCapacity: 6, EnergyMWhBase: 0.005, Jobs: true, PollutionBase: 4, NoiseBase: 10, PowerPriority: "HIGH", ConstructTicks: 3},
		{ID: "COM_HIGH", BaseCapacity: 18, EnergyMWhBase: 0.012, Jobs: true, PollutionBase: 6, NoiseBase: 14, PowerPriority: "HIGH", ConstructTicks: 5},
		{ID: "INDUSTRIAL", BaseCapacity: 12, EnergyMWhBase: 0.020, Jobs: true, PollutionBase: 22, NoiseBase: 20, PowerPriority: "LOW", ConstructTicks: 4},
		{ID: "OFFICE", BaseCapacity: 16, EnergyMWhBase: 0.010, Jobs: true, PollutionBase: 2, NoiseBase: 6, PowerPriority: "HIGH", ConstructTicks: 4},
		{ID: "MIXED_USE", BaseCapacity: 12, EnergyMWhBase: 0.007, Jobs: true, PollutionBase: 3, NoiseBase: 8, PowerPriority: "NORMAL", ConstructTicks: 4},
	}

	c.Roads.Defs = []RoadDef{
		{ID: "LOCAL", SpeedFactor: 1.0, Capacity: 60, CostPerCell: 10, MaintPerCell: 0.4, Walkable: true, Drivable: true},
		{ID: "AVENUE", SpeedFactor: 1.4, Capacity: 140, CostPerCell: 25, MaintPerCell: 0.9, Walkable: true, Drivable: true},
		{ID: "BOULEVARD", SpeedFactor: 1.6, Capacity: 220, CostPerCell: 45, MaintPerCell: 1.5, Walkable: true, Drivable: true},
		{ID: "HIGHWAY", SpeedFactor: 2.4, Capacity: 400, CostPerCell: 80, MaintPerCell: 2.5, Walkable: false, Drivable: true},
		{ID: "ONE_WAY", SpeedFactor: 1.3, Capacity: 120, CostPerCell: 20, MaintPerCell: 0.7, Walkable: true, Drivable: true},
		{ID: "PATH", SpeedFactor: 0.8, Capacity: 500, CostPerCell: 4, MaintPerCell: 0.1, Walkable: true, Drivable: false},
	}

	c.Services.Defs = []ServiceDef{
		// Police: 3 tiers.
		{ID: "POLICE_KIOSK", Category: "POLICE", Tier: 1, Cost: 800, Maintenance: 60, Radius: 10, Staff: 4, Capacity: 20, Footprint: 1, Vehicles: 0},
		{ID: "POLICE_STATION", Category: "POLICE", Tier: 2, Cost: 3500, Maintenance: 220, Radius: 22, Staff: 18, Capacity: 80, Footprint: 2, Vehicles: 2},
		{ID: "POLICE_HQ", Category: "POLICE", Tier: 3, Cost: 12000, Maintenance: 700, Radius: 40, Staff: 60, Capacity: 250, Footprint: 3, Vehicles: 5},
		// Fire: 3 tiers.
		{ID: "FIRE_POST", Category: "FIRE", Tier: 1, Cost: 900, Maintenance: 70, Radius: 10, Staff: 5, Capacity: 10, Footprint: 1, Vehicles: 1},
		{ID: "FIRE_STATION", Category: "FIRE", Tier: 2, Cost: 4000, Maintenance: 260, Radius: 24, Staff: 22, Capacity: 40, Footprint: 2, Vehicles: 3},
		{ID: "FIRE_HQ", Category: "FIRE", Tier: 3, Cost: 13000, Maintenance: 800, Radius: 42, Staff: 70, Capacity: 120, Footprint: 3, Vehicles: 6},
		// Health: 3 tiers.
		{ID: "CLINIC", Category: "HEALTH", Tier: 1, Cost: 1200, Maintenance: 90, Radius: 12, Staff: 8, Capacity: 40, Footprint: 1, Vehicles: 0},
		{ID: "HOSPITAL", Category: "HEALTH", Tier: 2, Cost: 7000, Maintenance: 450, Radius: 28, Staff: 40, Capacity: 200, Footprint: 3, Vehicles: 2},
		{ID: "MEDICAL_CENTER", Category: "HEALTH", Tier: 3, Cost: 20000, Maintenance: 1200, Radius: 48, Staff: 120, Capacity: 600, Footprint: 4, Vehicles: 4},
		// Education: 5 types.
		{ID: "KINDERGARTEN", Category: "EDUCATION", Tier: 1, Cost: 800, Maintenance: 55, Radius: 10, Staff: 6, Capacity: 60, Footprint: 1},
		{ID: "ELEMENTARY", Category: "EDUCATION", Tier: 2, Cost: 2500, Maintenance: 160, Radius: 18, Staff: 20, Capacity: 300, Footprint: 2},
		{ID: "HIGH_SCHOOL", Category: "EDUCATION", Tier: 3, Cost: 5000, Maintenance: 320, Radius: 26, Staff: 40, Capacity: 600, Footprint: 2},
		{ID: "COLLEGE", Category: "EDUCATION", Tier: 4, Cost: 11000, Maintenance: 650, Radius: 40, Staff: 80, Capacity: 1200, Footprint: 3},
		{ID: "UNIVERSITY", Category: "EDUCATION", Tier: 5, Cost: 25000, Maintenance: 1400, Radius: 60, Staff: 200, Capacity: 3000, Footprint: 4},
		// Parks: 6 types.
		{ID: "POCKET_PARK", Category: "PARKS", Tier: 1, Cost: 200, Maintenance: 10, Radius: 5, Staff: 1, Footprint: 1},
		{ID: "PLAYGROUND", Category: "PARKS", Tier: 2, Cost: 450, Maintenance: 22, Radius: 7, Staff: 1, Footprint: 1},
		{ID: "NEIGHBORHOOD_PARK", Category: "PARKS", Tier: 3, Cost: 900, Maintenance: 40, Radius: 10, Staff: 2, Footprint: 2},
		{ID: "SPORTS_FIELD", Category: "PARKS", Tier: 4, Cost: 1800, Maintenance: 85, Radius: 14, Staff: 4, Footprint: 2},
		{ID: "CITY_PARK", Category: "PARKS", Tier: 5, Cost: 4200, Maintenance: 180, Radius: 20, Staff: 8, Footprint: 3},
		{ID: "BOTANICAL_GARDEN", Category: "PARKS", Tier: 6, Cost: 9000, Maintenance: 380, Radius: 28, Staff: 16, Footprint: 4},
		// Sanitation: 6 types.
		{ID: "RECYCLING_POINT", Category: "SANITATION", Tier: 1, Cost: 400, Maintenance: 25, Radius: 8, Staff: 2, Footprint: 1},
		{ID: "GARBAGE_DEPOT", Category: "SANITATION", Tier: 2, Cost: 1600, Maintenance: 110, Radius: 20, Staff: 10, Capacity: 80, Footprint: 2, Vehicles: 2},
		{ID: "RECYCLING_CENTER", Category: "SANITATION", Tier: 3, Cost: 3800, Maintenance: 240, Radius: 28, Staff: 24, Capacity: 160, Footprint: 2, Vehicles: 3},
		{ID: "LANDFILL", Category: "SANITATION", Tier: 4, Cost: 2400, Maintenance: 120, Radius: 34, Staff: 12, Capacity: 1000, Footprint: 4},
		{ID: "INCINERATOR", Category: "SANITATION", Tier: 5, Cost: 9500, Maintenance: 520, Radius: 40, Staff: 35, Capacity: 400, Footprint: 3, Vehicles: 4},
		{ID: "WASTE_TRANSFER", Category: "SANITATION", Tier: 6, Cost: 5200, Maintenance: 300, Radius: 36, Staff: 18, Capacity: 240, Footprint: 2, Vehicles: 4},
		// Transit: 9 types.
		{ID: "BUS_STOP", Category: "TRANSIT", Tier: 1, Cost: 100, Maintenance: 6, Radius: 6, Staff: 0, Footprint: 1},
		{ID: "BUS_DEPOT", Category: "TRANSIT", Tier: 2, Cost: 2800, Maintenance: 190, Radius: 30, Staff: 20, Capacity: 12, Footprint: 2},
		{ID: "TRAM_STOP", Category: "TRANSIT", Tier: 3, Cost: 350, Maintenance: 16, Radius: 7, Staff: 0, Footprint: 1},
		{ID: "TRAM_DEPOT", Category: "TRANSIT", Tier: 4, Cost: 5200, Maintenance: 330, Radius: 36, Staff: 28, Capacity: 10, Footprint: 3},
		{ID: "METRO_STATION", Category: "TRANSIT", Tier: 5, Cost: 9000, Maintenance: 600, Radius: 14, Staff: 16, Capacity: 400, Footprint: 2},
		{ID: "METRO_DEPOT", Category: "TRANSIT", Tier: 6, Cost: 16000, Maintenance: 950, Radius: 50, Staff: 45, Capacity: 8, Footprint: 4},
		{ID: "TRAIN_STATION", Category: "TRANSIT", Tier: 7, Cost: 14000, Maintenance: 800, Radius: 40, Staff: 35, Capacity: 600, Footprint: 3},
		{ID: "FERRY_PIER", Category: "TRANSIT", Tier: 8, Cost: 3600, Maintenance: 210, Radius: 18, Staff: 8, Capacity: 150, Footprint: 2},
		{ID: "TRANSIT_HUB", Category: "TRANSIT", Tier: 9, Cost: 30000, Maintenance: 1800, Radius: 60, Staff: 90, Capacity: 2000, Footprint: 4},
		// Social: 6 types.
		{ID: "COMMUNITY_CENTER", Category: "SOCIAL", Tier: 1, Cost: 1100, Maintenance: 75, Radius: 14, Staff: 8, Capacity: 80, Footprint: 1},
		{ID: "DAYCARE", Category: "SOCIAL", Tier: 2, Cost: 900, Maintenance: 65, Radius: 10, Staff: 8, Capacity: 40, Footprint: 1},
		{ID: "ELDERCARE", Category: "SOCIAL", Tier: 3, Cost: 2600, Maintenance: 170, Radius: 16, Staff: 18, Capacity: 60, Footprint: 2},
		{ID: "SHELTER", Category: "SOCIAL", Tier: 4, Cost: 1400, Maintenance: 95, Radius: 18, Staff: 10, Capacity: 50, Footprint: 1},
		{ID: "WELFARE_OFFICE", Category: "SOCIAL", Tier: 5, Cost: 2000, Maintenance: 130, Radius: 24, Staff: 14, Capacity: 120, Footprint: 1},
		{ID: "JOB_CENTER", Category: "SOCIAL", Tier: 6, Cost: 2400, Maintenance: 150, Radius: 26, Staff: 16, Capacity: 160, Footprint: 1},
		// Utilities (service-side): 3 types.
		{ID: "POWER_SUBSTATION", Category: "UTILITIES", Tier: 1, Cost: 1800, Maintenance: 110, Radius: 24, Staff: 4, Footprint: 1},
		{ID: "WATER_PUMPHOUSE", Category: "UTILITIES", Tier: 2, Cost: 1500, Maintenance: 95, Radius: 20, Staff: 4, Footprint: 1},
		{ID: "TELECOM_MAST", Category: "UTILITIES", Tier: 3, Cost: 1200, Maintenance: 80, Radius: 32, Staff: 2, Footprint: 1},
		// Cultural: 3 types.
		{ID: "LIBRARY", Category: "CULTURAL", Tier: 1, Cost: 1600, Maintenance: 100, Radius: 18, Staff: 10, Capacity: 200, Footprint: 1},
		{ID: "MUSEUM", Category: "CULTURAL", Tier: 2, Cost: 6500, Maintenance: 380, Radius: 30, Staff: 30, Capacity: 500, Footprint: 2},
		{ID: "OPERA_HOUSE", Category: "CULTURAL", Tier: 3, Cost: 18000, Maintenance: 1000, Radius: 44, Staff: 70, Capacity: 1500, Footprint: 3},
	}

	// Merit order: cheapest marginal cost first. Dispatch walks this list.
	c.Power.Defs = []PowerDef{
		{ID: "SOLAR_FARM", CapacityMWh: 0.8, GenCostMWh: 2, Cost: 4500, Maintenance: 120, Range: 40, Weather: "SOLAR"},
		{ID: "WIND_TURBINE", CapacityMWh: 0.6, GenCostMWh: 3, Cost: 3200, Maintenance: 90, Range: 40, Weather: "WIND"},
		{ID: "HYDRO_DAM", CapacityMWh: 2.5, GenCostMWh: 5, Cost: 22000, Maintenance: 600, Range: 60, Weather: "STEADY"},
		{ID: "NUCLEAR_PLANT", CapacityMWh: 8.0, GenCostMWh: 12, Cost: 60000, Maintenance: 2500, Range: 80, Weather: "STEADY"},
		{ID: "GEOTHERMAL_PLANT", CapacityMWh: 1.8, GenCostMWh: 14, Cost: 15000, Maintenance: 450, Range: 50, Weather: "STEADY"},
		{ID: "BIOMASS_PLANT", CapacityMWh: 1.2, GenCostMWh: 28, Cost: 8000, Maintenance: 320, Range: 45, Weather: "STEADY"},
		{ID: "GAS_PLANT", CapacityMWh: 3.5, GenCostMWh: 45, Cost: 12000, Maintenance: 500, Range: 60, Weather: "STEADY"},
		{ID: "COAL_PLANT", CapacityMWh: 4.0, GenCostMWh: 55, Cost: 10000, Maintenance: 550, Range: 60, Weather: "STEADY"},
		{ID: "OIL_PLANT", CapacityMWh: 2.8, GenCostMWh: 75, Cost: 9000, Maintenance: 480, Range: 55, Weather: "STEADY"},
		{ID: "WTE_PLANT", CapacityMWh: 1.0, GenCostMWh: 85, Cost: 11000, Maintenance: 420, Range: 45, Weather: "STEADY"},
		{ID: "BATTERY_BANK", CapacityMWh: 0.5, GenCostMWh: 95, Cost: 6000, Maintenance: 150, Range: 35, Weather: "STEADY"},
	}

	c.Water.Defs = []WaterDef{
		{ID: "WATER_TOWER", CapacityKL: 400, Cost: 1200, Maintenance: 60, Radius: 18},
		{ID: "WELL_FIELD", CapacityKL: 900, Cost: 3000, Maintenance: 140, Radius: 26},
		{ID: "SURFACE_INTAKE", CapacityKL: 2200, Cost: 6500, Maintenance: 280, Radius: 34},
		{ID: "RESERVOIR", CapacityKL: 5000, Cost: 16000, Maintenance: 550, Radius: 48},
		{ID: "DESALINATION_PLANT", CapacityKL: 3500, Cost: 24000, Maintenance: 950, Radius: 40},
		{ID: "TREATMENT_PLANT", CapacityKL: 2600, Cost: 7500, Maintenance: 340, Radius: 30, Treats: true},
		{ID: "SEWAGE_OUTFALL", CapacityKL: 1400, Cost: 2200, Maintenance: 110, Radius: 22, Treats: true},
	}

	if err := c.finalize(); err != nil {
		// Defaults are compiled in; a failure here is a programming error.
		panic(err)
	}
	return c
}
