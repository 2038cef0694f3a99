package protocol

// Event types appended to the simulation event stream.
const (
	EvPollutionAlert = "POLLUTION_ALERT"
	EvFlood          = "FLOOD"
	EvBlackout       = "BLACKOUT"
	EvWaterShortage  = "WATER_SHORTAGE"
	EvFire           = "FIRE"
	EvFireOut        = "FIRE_OUT"
	EvFireLoss       = "FIRE_LOSS"
	EvGridlock       = "GRIDLOCK"
	EvCollection     = "COLLECTION"
	EvBankruptcyRisk = "BANKRUPTCY_RISK"
	EvAbandonment    = "ABANDONMENT"
	EvBirth          = "BIRTH"
	EvMilestone      = "MILESTONE"
)

// Severity levels.
const (
	SevInfo     = "INFO"
	SevWarn     = "WARN"
	SevCritical = "CRITICAL"
)

// Event is one entry of the append-only stream published at tick boundaries.
type Event struct {
	Tick     uint64 `json:"tick"`
	Type     string `json:"type"`
	Severity string `json:"severity"`
	X        int    `json:"x,omitempty"`
	Y        int    `json:"y,omitempty"`
	Message  string `json:"message,omitempty"`
	Code     string `json:"code,omitempty"`
}
