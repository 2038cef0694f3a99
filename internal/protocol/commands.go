// Package protocol defines everything that crosses the simulation boundary:
// typed commands in, read-only view snapshots and event streams out. The
// simulation core never imports transport or persistence packages; both sides
// speak only these types.
package protocol

import (
	"encoding/json"
	"fmt"
)

// Command types.
const (
	CmdPlaceRoadSegment  = "PLACE_ROAD_SEGMENT"
	CmdBulldozeCell      = "BULLDOZE_CELL"
	CmdBulldozeBuilding  = "BULLDOZE_BUILDING"
	CmdZoneRect          = "ZONE_RECT"
	CmdPlaceService      = "PLACE_SERVICE"
	CmdPlaceUtility      = "PLACE_UTILITY"
	CmdSetTaxRate        = "SET_TAX_RATE"
	CmdSetServiceBudget  = "SET_SERVICE_BUDGET"
	CmdSetSpeed          = "SET_SPEED"
	CmdPause             = "PAUSE"
	CmdResume            = "RESUME"
	CmdToggleOneWay      = "TOGGLE_ONE_WAY"
	CmdTakeLoan          = "TAKE_LOAN"
	CmdRepayLoan         = "REPAY_LOAN"
	CmdSetPolicy         = "SET_POLICY"
	CmdSetDistrictPolicy = "SET_DISTRICT_POLICY"
	CmdSaveTo            = "SAVE_TO"
	CmdLoadFrom          = "LOAD_FROM"
	CmdNewGame           = "NEW_GAME"
)

// Command is the flat envelope for every boundary command. Unused fields are
// zero; Type selects which ones are read. Keeping one struct (rather than an
// interface hierarchy) makes journaling and schema validation trivial.
type Command struct {
	Type string `json:"type"`

	// Cell / rect coordinates.
	X  int `json:"x,omitempty"`
	Y  int `json:"y,omitempty"`
	X2 int `json:"x2,omitempty"`
	Y2 int `json:"y2,omitempty"`

	// Road placement.
	RoadKind string `json:"road_kind,omitempty"`
	Curved   bool   `json:"curved,omitempty"`
	// Control points for curved segments, world-grid cell coords.
	CX1 int `json:"cx1,omitempty"`
	CY1 int `json:"cy1,omitempty"`
	CX2 int `json:"cx2,omitempty"`
	CY2 int `json:"cy2,omitempty"`

	Zone string `json:"zone,omitempty"`

	ServiceType string `json:"service_type,omitempty"`
	UtilityType string `json:"utility_type,omitempty"`

	BuildingID uint32 `json:"building_id,omitempty"`
	SegmentID  uint32 `json:"segment_id,omitempty"`

	Rate  float64 `json:"rate,omitempty"`
	Dept  string  `json:"dept,omitempty"`
	Level int     `json:"level,omitempty"`

	Speed int `json:"speed,omitempty"`

	Amount float64 `json:"amount,omitempty"`
	Term   int     `json:"term,omitempty"`
	LoanID uint32  `json:"loan_id,omitempty"`

	PolicyID string `json:"policy_id,omitempty"`
	Enabled  bool   `json:"enabled,omitempty"`
	District string `json:"district,omitempty"`

	Slot string `json:"slot,omitempty"`
	Seed uint64 `json:"seed,omitempty"`
}

// Result reports whether a command was applied. Rejected commands produce no
// state change.
type Result struct {
	Accepted bool   `json:"accepted"`
	Code     string `json:"code,omitempty"`
	Reason   string `json:"reason,omitempty"`
}

func Accept() Result { return Result{Accepted: true} }

func Reject(code, format string, args ...any) Result {
	return Result{Accepted: false, Code: code, Reason: fmt.Sprintf(format, args...)}
}

// DecodeCommand parses a single command envelope.
func DecodeCommand(b []byte) (Command, error) {
	var c Command
	if err := json.Unmarshal(b, &c); err != nil {
		return c, fmt.Errorf("command: %w", err)
	}
	if c.Type == "" {
		return c, fmt.Errorf("command: missing type")
	}
	return c, nil
}
