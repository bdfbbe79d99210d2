package domain

import "time"

// Reservation is a rider's claim on seats within a trip. Each stop
// corresponds to one seat, so the length of Stops is the canonical
// number of seats the rider holds.
type Reservation struct {
	RiderID string   `json:"riderId"`
	Stops   []string `json:"stops"`
}

// Seats returns the number of seats held by this reservation.
func (r Reservation) Seats() int {
	return len(r.Stops)
}

// Trip represents a driver-published carpool offer with a fixed seat
// capacity. Seats tracks the remaining unreserved capacity; the seats
// handed out live in Passengers as per-rider stop lists.
type Trip struct {
	ID           string
	InitialPoint string
	FinalPoint   string
	Route        string
	Hour         string
	Seats        int
	Price        float64
	DriverID     string
	Passengers   []Reservation
	Version      int64
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// ReservedSeats returns the total number of seats held across all
// passengers of the trip.
func (t *Trip) ReservedSeats() int {
	total := 0
	for _, p := range t.Passengers {
		total += p.Seats()
	}
	return total
}

// ReservationFor returns the reservation held by the given rider,
// or false if the rider has none.
func (t *Trip) ReservationFor(riderID string) (Reservation, bool) {
	for _, p := range t.Passengers {
		if p.RiderID == riderID {
			return p, true
		}
	}
	return Reservation{}, false
}

// HasReservation reports whether the given rider holds a reservation.
func (t *Trip) HasReservation(riderID string) bool {
	_, ok := t.ReservationFor(riderID)
	return ok
}

// AddReservation appends a reservation for the rider. At most one
// reservation per rider may exist; callers check HasReservation first.
func (t *Trip) AddReservation(riderID string, stops []string) {
	t.Passengers = append(t.Passengers, Reservation{RiderID: riderID, Stops: stops})
}

// RemoveReservation deletes the rider's reservation and returns the
// number of seats it held. Returns 0, false if the rider has none.
func (t *Trip) RemoveReservation(riderID string) (int, bool) {
	for i, p := range t.Passengers {
		if p.RiderID == riderID {
			released := p.Seats()
			t.Passengers = append(t.Passengers[:i], t.Passengers[i+1:]...)
			return released, true
		}
	}
	return 0, false
}

// ReplaceStops swaps the stop list of the rider's reservation in
// place, preserving its position among the passengers. Returns the
// updated reservation, or false if the rider has none.
func (t *Trip) ReplaceStops(riderID string, stops []string) (Reservation, bool) {
	for i := range t.Passengers {
		if t.Passengers[i].RiderID == riderID {
			t.Passengers[i].Stops = stops
			return t.Passengers[i], true
		}
	}
	return Reservation{}, false
}
