package room

import (
	"testing"

	"github.com/google/uuid"
)

func TestNewRoomStartsWithGoldFilledAndRedEmpty(t *testing.T) {
	creator := PlayerConnection{SocketID: "s1", PlayerID: uuid.New(), DisplayName: "Alice"}
	r := New("ABCDE", creator)
	defer r.Close()

	if r.Gold == nil || r.Gold.SocketID != "s1" {
		t.Fatal("expected Gold to be filled by the creator")
	}
	if r.Red != nil {
		t.Fatal("expected Red to start empty")
	}
	if r.IsFull() {
		t.Error("IsFull should be false with only Gold seated")
	}
}

func TestSubmitSerializesMutation(t *testing.T) {
	r := New("ABCDE", PlayerConnection{SocketID: "s1", PlayerID: uuid.New()})
	defer r.Close()

	r.Submit(func(rm *Room) {
		rm.Red = &PlayerConnection{SocketID: "s2", PlayerID: uuid.New(), DisplayName: "Bob"}
	})

	if r.Red == nil || r.Red.DisplayName != "Bob" {
		t.Fatal("mutation inside Submit was not observed after it returned")
	}
	if !r.IsFull() {
		t.Error("expected IsFull once both slots are seated")
	}
}

func TestSlotForAndRoleOfPlayer(t *testing.T) {
	goldID, redID := uuid.New(), uuid.New()
	r := New("ABCDE", PlayerConnection{SocketID: "gold-sock", PlayerID: goldID})
	defer r.Close()
	r.Submit(func(rm *Room) {
		rm.Red = &PlayerConnection{SocketID: "red-sock", PlayerID: redID}
	})

	if _, role := r.SlotFor("gold-sock"); role != RoleGold {
		t.Errorf("SlotFor(gold-sock) role = %v, want RoleGold", role)
	}
	if _, role := r.SlotFor("red-sock"); role != RoleRed {
		t.Errorf("SlotFor(red-sock) role = %v, want RoleRed", role)
	}
	if _, role := r.SlotFor("nobody"); role != RoleNone {
		t.Errorf("SlotFor(nobody) role = %v, want RoleNone", role)
	}
	if r.RoleOfPlayer(redID) != RoleRed {
		t.Error("RoleOfPlayer(redID) should be RoleRed")
	}
}

func TestRoleSideConversion(t *testing.T) {
	if RoleGold.Side().String() != "gold" {
		t.Error("RoleGold.Side() should be the gold side")
	}
	if RoleRed.Side().String() != "red" {
		t.Error("RoleRed.Side() should be the red side")
	}
}
