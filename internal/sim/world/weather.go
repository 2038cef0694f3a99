package world

type WeatherKind uint8

const (
	WeatherClear WeatherKind = iota
	WeatherCloudy
	WeatherRain
	WeatherStorm
	WeatherSnow
	WeatherHeatwave
	WeatherColdSnap
)

func (k WeatherKind) String() string {
	switch k {
	case WeatherClear:
		return "CLEAR"
	case WeatherCloudy:
		return "CLOUDY"
	case WeatherRain:
		return "RAIN"
	case WeatherStorm:
		return "STORM"
	case WeatherSnow:
		return "SNOW"
	case WeatherHeatwave:
		return "HEATWAVE"
	case WeatherColdSnap:
		return "COLD_SNAP"
	}
	return "UNKNOWN"
}

// Weather is the city-wide weather state, re-rolled on slow ticks.
type Weather struct {
	Kind     WeatherKind
	TempC    float64
	RainMM   float64 // per slow tick
	CloudPct float64 // 0..1, attenuates solar

	// ticks the current condition persists, in slow ticks
	holdLeft int
}

func NewWeather() *Weather {
	return &Weather{Kind: WeatherClear, TempC: 18, CloudPct: 0.1}
}

// seasonBaseTemp is the seasonal midline temperature.
func seasonBaseTemp(season int) float64 {
	switch season {
	case 0:
		return 4
	case 1:
		return 14
	case 2:
		return 27
	}
	return 15
}

// SolarFactor is the current solar generation multiplier in [0,1].
func (w *Weather) SolarFactor(c *Clock) float64 {
	h := c.Hour()
	if h < 6 || h >= 20 {
		return 0
	}
	// triangular day curve peaking at 13:00
	day := 1 - clampF(absF(float64(h)-13)/7, 0, 1)
	return day * (1 - 0.8*w.CloudPct)
}

// WindFactor is the wind generation multiplier.
func (w *Weather) WindFactor() float64 {
	switch w.Kind {
	case WeatherStorm:
		return 1.0
	case WeatherRain, WeatherCloudy:
		return 0.7
	case WeatherColdSnap:
		return 0.5
	}
	return 0.4
}

func absF(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}

// systemWeather re-rolls conditions and drifts temperature and wind. Runs
// on the slow tick.
func systemWeather(w *World) {
	wx := w.Weather
	season := w.Clock.Season()
	base := seasonBaseTemp(season)

	// diurnal swing of about 8 degrees around the seasonal midline
	diurnal := -4 + 8*clampF(float64(w.Clock.Hour())-6, 0, 12)/12
	target := base + diurnal
	switch wx.Kind {
	case WeatherHeatwave:
		target += 9
	case WeatherColdSnap:
		target -= 10
	case WeatherRain, WeatherStorm:
		target -= 3
	}
	wx.TempC += (target - wx.TempC) * 0.3

	if wx.holdLeft > 0 {
		wx.holdLeft--
	} else {
		roll := w.Rng.Float64()
		switch {
		case roll < 0.45:
			wx.Kind = WeatherClear
		case roll < 0.65:
			wx.Kind = WeatherCloudy
		case roll < 0.80:
			wx.Kind = WeatherRain
		case roll < 0.85:
			wx.Kind = WeatherStorm
		case roll < 0.90 && season == 0:
			wx.Kind = WeatherSnow
		case roll < 0.95 && season == 2:
			wx.Kind = WeatherHeatwave
		case roll < 0.95 && season == 0:
			wx.Kind = WeatherColdSnap
		default:
			wx.Kind = WeatherClear
		}
		wx.holdLeft = 2 + w.Rng.IntN(10)
	}

	switch wx.Kind {
	case WeatherClear:
		wx.CloudPct = 0.05 + 0.1*w.Rng.Float64()
		wx.RainMM = 0
	case WeatherCloudy:
		wx.CloudPct = 0.5 + 0.3*w.Rng.Float64()
		wx.RainMM = 0
	case WeatherRain:
		wx.CloudPct = 0.85
		wx.RainMM = 2 + 4*w.Rng.Float64()
	case WeatherStorm:
		wx.CloudPct = 0.95
		wx.RainMM = 8 + 10*w.Rng.Float64()
	case WeatherSnow:
		wx.CloudPct = 0.9
		wx.RainMM = 0
	default:
		wx.CloudPct = 0.15
		wx.RainMM = 0
	}

	// wind drifts slowly; keep magnitude near 1
	w.Grids.WindX += (w.Rng.Float64() - 0.5) * 0.4
	w.Grids.WindY += (w.Rng.Float64() - 0.5) * 0.4
	mag := absF(w.Grids.WindX) + absF(w.Grids.WindY)
	if mag < 0.2 {
		w.Grids.WindX = 1
		w.Grids.WindY = 0
	} else if mag > 2 {
		w.Grids.WindX /= mag
		w.Grids.WindY /= mag
	}
}
