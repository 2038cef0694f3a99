package protocol

import "testing"

func TestValidateCommand_Samples(t *testing.T) {
	samples := []string{
		`{"type":"PLACE_ROAD_SEGMENT","x":10,"y":10,"x2":30,"y2":10,"road_kind":"LOCAL"}`,
		`{"type":"ZONE_RECT","x":12,"y":11,"x2":12,"y2":11,"zone":"RES_LOW"}`,
		`{"type":"PLACE_SERVICE","service_type":"FIRE_STATION","x":40,"y":40}`,
		`{"type":"SET_TAX_RATE","zone":"RES_LOW","rate":0.12}`,
		`{"type":"SET_SPEED","speed":5}`,
		`{"type":"PAUSE"}`,
		`{"type":"TOGGLE_ONE_WAY","segment_id":3}`,
		`{"type":"TAKE_LOAN","amount":10000,"term":24}`,
		`{"type":"SAVE_TO","slot":"slot-1"}`,
		`{"type":"NEW_GAME","seed":1337}`,
	}
	for _, s := range samples {
		cmd, err := ValidateCommand([]byte(s))
		if err != nil {
			t.Fatalf("valid sample rejected: %s: %v", s, err)
		}
		if cmd.Type == "" {
			t.Fatalf("decoded empty type from %s", s)
		}
	}
}

func TestValidateCommand_Rejects(t *testing.T) {
	bad := []string{
		`{}`,                                     // missing type
		`{"type":"FLY_TO_MOON"}`,                 // unknown type
		`{"type":"SET_SPEED","speed":3}`,         // speed not in {1,2,5,10}
		`{"type":"SET_TAX_RATE","rate":0.9}`,     // rate above cap
		`{"type":"ZONE_RECT","x":999,"y":0}`,     // out of grid
		`{"type":"SAVE_TO","slot":"../etc"}`,     // slot pattern
		`not json at all`,                        // malformed
	}
	for _, s := range bad {
		if _, err := ValidateCommand([]byte(s)); err == nil {
			t.Fatalf("invalid sample accepted: %s", s)
		}
	}
}

func TestIsKnownCode(t *testing.T) {
	if !IsKnownCode(ErrNoRoute) || !IsKnownCode("") {
		t.Fatalf("known codes misclassified")
	}
	if IsKnownCode("E_SOMETHING_ELSE") {
		t.Fatalf("unknown code accepted")
	}
}

func TestRejectFormatting(t *testing.T) {
	r := Reject(ErrInsufficientFunds, "need %.0f", 1500.0)
	if r.Accepted || r.Code != ErrInsufficientFunds || r.Reason != "need 1500" {
		t.Fatalf("unexpected result: %+v", r)
	}
}
