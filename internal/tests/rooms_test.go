package tests

import (
	"context"
	"testing"

	"github.com/Steerify/Suretruqs-sub000/internal/domain"
	"github.com/Steerify/Suretruqs-sub000/internal/push"
)

// ──────────────────────────────────────────────
// 3. ROOM MEMBERSHIP
// ──────────────────────────────────────────────

func joinedShipments(ch *MockChannel) map[string]bool {
	joined := make(map[string]bool)
	for _, e := range ch.EmittedOf(push.EventJoinShipmentChat) {
		p := e.Payload.(push.JoinShipmentChatPayload)
		joined[p.ShipmentID] = true
	}
	return joined
}

func TestRooms_ShipperJoinsOwnShipmentsOnly(t *testing.T) {
	t.Parallel()

	f := newFixture()
	f.channel.SetState(push.StateConnected)
	user := f.withUser(domain.RoleShipper)

	f.shipments.AddShipment(&domain.Shipment{ID: "shp-mine", ShipperID: user.ID, Status: domain.StatusScheduled})
	f.shipments.AddShipment(&domain.Shipment{ID: "shp-other", ShipperID: "someone-else", Status: domain.StatusScheduled})
	f.reconciler.LoadShipments(context.Background())

	joined := joinedShipments(f.channel)
	if !joined["shp-mine"] {
		t.Error("own shipment room not joined")
	}
	if joined["shp-other"] {
		t.Error("joined a room for another shipper's shipment")
	}
	if len(f.channel.EmittedOf(push.EventJoinAdminTracking)) != 0 {
		t.Error("non-admin must not join the global tracking room")
	}
}

func TestRooms_DriverJoinsAssignedShipments(t *testing.T) {
	t.Parallel()

	f := newFixture()
	f.channel.SetState(push.StateConnected)
	user := f.withUser(domain.RoleDriver)

	f.shipments.AddShipment(&domain.Shipment{
		ID: "shp-job", ShipperID: "shipper-1", DriverID: user.ID,
		Status: domain.StatusAssigned, AssignmentStatus: domain.AssignmentPending,
	})
	f.reconciler.LoadShipments(context.Background())

	if !joinedShipments(f.channel)["shp-job"] {
		t.Error("assigned shipment room not joined")
	}
}

func TestRooms_AdminJoinsGlobalTracking(t *testing.T) {
	t.Parallel()

	f := newFixture()
	f.channel.SetState(push.StateConnected)
	f.withUser(domain.RoleAdmin)

	if len(f.channel.EmittedOf(push.EventJoinAdminTracking)) == 0 {
		t.Error("admin should join the global tracking room")
	}
}

func TestRooms_RejoinOnReconnect(t *testing.T) {
	t.Parallel()

	f := newFixture()
	f.channel.SetState(push.StateConnected)
	user := f.withUser(domain.RoleShipper)

	f.shipments.AddShipment(&domain.Shipment{ID: "shp-1", ShipperID: user.ID, Status: domain.StatusScheduled})
	f.reconciler.LoadShipments(context.Background())
	f.channel.ClearEmitted()

	// Drop and reconnect: membership is re-asserted, not tracked.
	f.channel.SetState(push.StateDisconnected)
	f.channel.SetState(push.StateConnected)

	if !joinedShipments(f.channel)["shp-1"] {
		t.Error("rooms not rejoined after reconnect")
	}
}

func TestRooms_NewAssignmentTriggersJoin(t *testing.T) {
	t.Parallel()

	f := newFixture()
	f.channel.SetState(push.StateConnected)
	f.withUser(domain.RoleAdmin)

	f.shipments.AddShipment(&domain.Shipment{ID: "shp-1", ShipperID: "user-1", Status: domain.StatusScheduled})
	f.reconciler.LoadShipments(context.Background())
	f.channel.ClearEmitted()

	// Admin is also the shipper here, so the applied representation
	// changes membership.
	if _, err := f.reconciler.AssignDriver(context.Background(), "shp-1", "drv-1", "fragile load"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !joinedShipments(f.channel)["shp-1"] {
		t.Error("room join should re-run after a shipment mutation")
	}
}

func TestRooms_NoJoinsWhileDisconnected(t *testing.T) {
	t.Parallel()

	f := newFixture()
	user := f.withUser(domain.RoleShipper)

	f.shipments.AddShipment(&domain.Shipment{ID: "shp-1", ShipperID: user.ID, Status: domain.StatusScheduled})
	f.reconciler.LoadShipments(context.Background())

	if len(f.channel.Emitted()) != 0 {
		t.Error("no join emits expected while the channel is down")
	}
}
