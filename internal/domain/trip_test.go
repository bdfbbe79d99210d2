package domain

import "testing"

func sampleTrip() *Trip {
	return &Trip{
		ID:    "trip-1",
		Seats: 1,
		Passengers: []Reservation{
			{RiderID: "rider-a", Stops: []string{"X", "Y"}},
			{RiderID: "rider-b", Stops: []string{"Z"}},
		},
	}
}

func TestReservedSeats(t *testing.T) {
	if got := sampleTrip().ReservedSeats(); got != 3 {
		t.Errorf("expected 3 reserved seats, got %d", got)
	}
}

func TestRemoveReservation(t *testing.T) {
	trip := sampleTrip()

	released, ok := trip.RemoveReservation("rider-a")
	if !ok || released != 2 {
		t.Fatalf("expected to release 2 seats, got %d (ok=%v)", released, ok)
	}
	if trip.HasReservation("rider-a") {
		t.Error("reservation still present after removal")
	}
	if len(trip.Passengers) != 1 || trip.Passengers[0].RiderID != "rider-b" {
		t.Errorf("unexpected passenger list: %+v", trip.Passengers)
	}

	if _, ok := trip.RemoveReservation("rider-a"); ok {
		t.Error("removing an absent reservation reported success")
	}
}

func TestReplaceStops_PreservesPosition(t *testing.T) {
	trip := sampleTrip()

	updated, ok := trip.ReplaceStops("rider-a", []string{"P", "Q", "R"})
	if !ok {
		t.Fatal("expected replacement to succeed")
	}
	if updated.Seats() != 3 {
		t.Errorf("expected 3 seats after replacement, got %d", updated.Seats())
	}
	if trip.Passengers[0].RiderID != "rider-a" {
		t.Error("reservation moved from its position")
	}

	if _, ok := trip.ReplaceStops("ghost", []string{"P"}); ok {
		t.Error("replacing stops for an absent rider reported success")
	}
}
