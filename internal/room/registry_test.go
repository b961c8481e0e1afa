package room

import (
	"testing"

	"github.com/google/uuid"
)

func TestRegistryCreateThenGet(t *testing.T) {
	reg := NewRegistry()
	r, err := reg.Create(PlayerConnection{SocketID: "s1", PlayerID: uuid.New()})
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}
	got, ok := reg.Get(r.Code)
	if !ok || got != r {
		t.Fatal("Get did not return the room just created")
	}
}

func TestRegistryJoinFillsRedAndRejectsThirdPlayer(t *testing.T) {
	reg := NewRegistry()
	r, _ := reg.Create(PlayerConnection{SocketID: "s1", PlayerID: uuid.New()})

	if _, err := reg.Join(r.Code, PlayerConnection{SocketID: "s2", PlayerID: uuid.New()}); err != nil {
		t.Fatalf("Join returned error: %v", err)
	}
	if _, err := reg.Join(r.Code, PlayerConnection{SocketID: "s3", PlayerID: uuid.New()}); err != ErrRoomFull {
		t.Errorf("second Join err = %v, want ErrRoomFull", err)
	}
}

func TestRegistryJoinUnknownCode(t *testing.T) {
	reg := NewRegistry()
	if _, err := reg.Join("ZZZZZ", PlayerConnection{SocketID: "s1", PlayerID: uuid.New()}); err != ErrRoomNotFound {
		t.Errorf("err = %v, want ErrRoomNotFound", err)
	}
}

func TestRegistryFindBySocketID(t *testing.T) {
	reg := NewRegistry()
	r, _ := reg.Create(PlayerConnection{SocketID: "s1", PlayerID: uuid.New()})

	found, ok := reg.FindBySocketID("s1")
	if !ok || found != r {
		t.Fatal("FindBySocketID did not resolve the room the socket belongs to")
	}
	if _, ok := reg.FindBySocketID("unknown"); ok {
		t.Error("expected FindBySocketID to fail for an unbound socket")
	}
}

func TestRegistryLeaveRemovesEmptyRoom(t *testing.T) {
	reg := NewRegistry()
	r, _ := reg.Create(PlayerConnection{SocketID: "s1", PlayerID: uuid.New()})

	_, deleted := reg.Leave("s1")
	if !deleted {
		t.Fatal("expected the room to be deleted once its only slot empties")
	}
	if _, ok := reg.Get(r.Code); ok {
		t.Error("room should no longer be retrievable after it is deleted")
	}
}

func TestRegistryLeaveKeepsRoomWithRemainingPlayer(t *testing.T) {
	reg := NewRegistry()
	r, _ := reg.Create(PlayerConnection{SocketID: "s1", PlayerID: uuid.New()})
	reg.Join(r.Code, PlayerConnection{SocketID: "s2", PlayerID: uuid.New()})

	_, deleted := reg.Leave("s1")
	if deleted {
		t.Fatal("room should survive while Red is still seated")
	}
	if _, ok := reg.Get(r.Code); !ok {
		t.Error("room should still be retrievable")
	}
}

func TestRegistryRebindUpdatesSocketWithoutChangingRole(t *testing.T) {
	reg := NewRegistry()
	goldID := uuid.New()
	r, _ := reg.Create(PlayerConnection{SocketID: "s1", PlayerID: goldID})

	rebound, err := reg.Rebind(r.Code, goldID, "s1-new")
	if err != nil {
		t.Fatalf("Rebind returned error: %v", err)
	}
	if rebound.RoleOfPlayer(goldID) != RoleGold {
		t.Error("role should be unchanged after rebind")
	}
	if _, ok := reg.FindBySocketID("s1"); ok {
		t.Error("the old socket should no longer resolve to the room")
	}
	if found, ok := reg.FindBySocketID("s1-new"); !ok || found != r {
		t.Error("the new socket should resolve to the room")
	}
}

func TestRegistryRebindRejectsNonMember(t *testing.T) {
	reg := NewRegistry()
	r, _ := reg.Create(PlayerConnection{SocketID: "s1", PlayerID: uuid.New()})

	if _, err := reg.Rebind(r.Code, uuid.New(), "s9"); err != ErrNotAMember {
		t.Errorf("err = %v, want ErrNotAMember", err)
	}
}

func TestRegistryWaitingRoomsListsOnlyHalfFullRooms(t *testing.T) {
	reg := NewRegistry()
	waiting, _ := reg.Create(PlayerConnection{SocketID: "s1", PlayerID: uuid.New()})
	full, _ := reg.Create(PlayerConnection{SocketID: "s2", PlayerID: uuid.New()})
	reg.Join(full.Code, PlayerConnection{SocketID: "s3", PlayerID: uuid.New()})

	rooms := reg.WaitingRooms()
	if len(rooms) != 1 || rooms[0].Code != waiting.Code {
		t.Errorf("WaitingRooms = %v, want exactly the half-filled room", rooms)
	}
}
