package api

import (
	"encoding/json"
	"testing"

	"github.com/yourusername/bgserver/pkg/engine"
)

func TestWireEndpointMarshalsBarAndOff(t *testing.T) {
	if got, _ := json.Marshal(WireEndpoint(engine.EndBar)); string(got) != `"bar"` {
		t.Errorf("bar marshaled as %s, want \"bar\"", got)
	}
	if got, _ := json.Marshal(WireEndpoint(engine.EndOff)); string(got) != `"off"` {
		t.Errorf("off marshaled as %s, want \"off\"", got)
	}
	if got, _ := json.Marshal(WireEndpoint(engine.Pt(5))); string(got) != `5` {
		t.Errorf("point 5 marshaled as %s, want 5", got)
	}
}

func TestWireEndpointUnmarshalsBarOffAndIndex(t *testing.T) {
	var e WireEndpoint
	if err := json.Unmarshal([]byte(`"bar"`), &e); err != nil || engine.Endpoint(e) != engine.EndBar {
		t.Errorf("unmarshal bar: e=%v err=%v", e, err)
	}
	if err := json.Unmarshal([]byte(`"off"`), &e); err != nil || engine.Endpoint(e) != engine.EndOff {
		t.Errorf("unmarshal off: e=%v err=%v", e, err)
	}
	if err := json.Unmarshal([]byte(`7`), &e); err != nil || engine.Endpoint(e) != engine.Pt(7) {
		t.Errorf("unmarshal 7: e=%v err=%v", e, err)
	}
}

func TestToWireGameStateLeavesEmptyPointsNilOwner(t *testing.T) {
	gs := engine.NewGame(0)
	w := toWireGameState(gs)
	if w.Board[3].Owner != nil {
		t.Error("point 3 is empty in the starting position, expected nil owner on the wire")
	}
	if w.Board[0].Owner == nil || *w.Board[0].Owner != engine.Gold || w.Board[0].Count != 2 {
		t.Errorf("point 0 = %+v, want Gold count 2", w.Board[0])
	}
}
