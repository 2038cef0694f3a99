package world

// Clock tracks simulated time. One fast tick is one simulated minute; the
// calendar is twelve 30-day months.
type Clock struct {
	Tick uint64

	Paused bool
	Speed  int // 1, 2, 5 or 10 ticks per real tick interval
}

func NewClock() *Clock { return &Clock{Speed: 1} }

func (c *Clock) MinuteOfDay() int { return int(c.Tick % TicksPerDay) }
func (c *Clock) Hour() int        { return c.MinuteOfDay() / 60 }
func (c *Clock) Minute() int      { return c.MinuteOfDay() % 60 }

// Day is the 0-based absolute day count.
func (c *Clock) Day() int { return int(c.Tick / TicksPerDay) }

// DayOfMonth is 1-based within a 30-day month.
func (c *Clock) DayOfMonth() int { return c.Day()%30 + 1 }

// Month is 0-based, 0..11, wrapping yearly.
func (c *Clock) Month() int { return (c.Day() / 30) % 12 }

func (c *Clock) Year() int { return c.Day() / 360 }

// IsNight reports the 22:00..06:00 window.
func (c *Clock) IsNight() bool {
	h := c.Hour()
	return h >= 22 || h < 6
}

// Season maps month to 0 winter, 1 spring, 2 summer, 3 autumn.
func (c *Clock) Season() int {
	switch c.Month() {
	case 11, 0, 1:
		return 0
	case 2, 3, 4:
		return 1
	case 5, 6, 7:
		return 2
	}
	return 3
}
