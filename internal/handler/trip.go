package handler

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"carpool/internal/domain"
	"carpool/internal/middleware"
	"carpool/internal/service"
)

// TripHandler handles HTTP requests for trips and reservations.
type TripHandler struct {
	tripService *service.TripService
}

// NewTripHandler creates a new TripHandler.
func NewTripHandler(tripService *service.TripService) *TripHandler {
	return &TripHandler{tripService: tripService}
}

// CreateTripRequest is the HTTP request body for publishing a trip.
type CreateTripRequest struct {
	InitialPoint string  `json:"initialPoint"`
	FinalPoint   string  `json:"finalPoint"`
	Route        string  `json:"route"`
	Hour         string  `json:"hour"`
	Seats        int     `json:"seats"`
	Price        float64 `json:"price"`
}

// AvailableTripResponse is one entry of the trip listing.
type AvailableTripResponse struct {
	TripID         string  `json:"tripId"`
	InitialPoint   string  `json:"initialPoint"`
	FinalPoint     string  `json:"finalPoint"`
	Route          string  `json:"route"`
	Hour           string  `json:"hour"`
	SeatsAvailable int     `json:"seatsAvailable"`
	Price          float64 `json:"price"`
}

// Create handles POST /v1/trips
func (h *TripHandler) Create(c *gin.Context) {
	var req CreateTripRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, service.ErrMissingTripFields)
		return
	}

	trip, err := h.tripService.Create(c.Request.Context(), service.CreateTripRequest{
		DriverID:     middleware.CallerID(c),
		InitialPoint: req.InitialPoint,
		FinalPoint:   req.FinalPoint,
		Route:        req.Route,
		Hour:         req.Hour,
		Seats:        req.Seats,
		Price:        req.Price,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusCreated, gin.H{
		"message": "Trip registered successfully.",
		"tripId":  trip.ID,
	})
}

// ListAvailable handles GET /v1/trips
func (h *TripHandler) ListAvailable(c *gin.Context) {
	trips, err := h.tripService.ListAvailable(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	response := make([]AvailableTripResponse, 0, len(trips))
	for _, trip := range trips {
		response = append(response, AvailableTripResponse{
			TripID:         trip.ID,
			InitialPoint:   trip.InitialPoint,
			FinalPoint:     trip.FinalPoint,
			Route:          trip.Route,
			Hour:           trip.Hour,
			SeatsAvailable: trip.Seats,
			Price:          trip.Price,
		})
	}

	respondJSON(c, http.StatusOK, gin.H{"trips": response})
}

// GetDetails handles GET /v1/trips/:id
func (h *TripHandler) GetDetails(c *gin.Context) {
	details, err := h.tripService.GetDetails(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, gin.H{
		"tripId":         details.TripID,
		"initialPoint":   details.InitialPoint,
		"finalPoint":     details.FinalPoint,
		"route":          details.Route,
		"hour":           details.Hour,
		"seatsAvailable": details.SeatsAvailable,
		"price":          details.Price,
		"carPlate":       details.CarPlate,
		"carPicture":     details.CarPicture,
	})
}

// EditTripRequest is the sparse patch body for editing a trip.
// Omitted fields stay untouched; supplied fields are set, zero
// values included.
type EditTripRequest struct {
	InitialPoint *string  `json:"initialPoint"`
	FinalPoint   *string  `json:"finalPoint"`
	Route        *string  `json:"route"`
	Hour         *string  `json:"hour"`
	Seats        *int     `json:"seats"`
	Price        *float64 `json:"price"`
}

// Edit handles PUT /v1/trips/:id
func (h *TripHandler) Edit(c *gin.Context) {
	var req EditTripRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, service.ErrMissingTripFields)
		return
	}

	trip, err := h.tripService.Edit(c.Request.Context(), c.Param("id"), middleware.CallerID(c), service.EditTripPatch{
		InitialPoint: req.InitialPoint,
		FinalPoint:   req.FinalPoint,
		Route:        req.Route,
		Hour:         req.Hour,
		Seats:        req.Seats,
		Price:        req.Price,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, gin.H{
		"message": "Trip updated successfully.",
		"updatedTrip": gin.H{
			"tripId":       trip.ID,
			"initialPoint": trip.InitialPoint,
			"finalPoint":   trip.FinalPoint,
			"route":        trip.Route,
			"hour":         trip.Hour,
			"seats":        trip.Seats,
			"price":        trip.Price,
			"passengers":   trip.Passengers,
			"driverId":     trip.DriverID,
		},
	})
}

// Delete handles DELETE /v1/trips/:id
func (h *TripHandler) Delete(c *gin.Context) {
	err := h.tripService.Delete(c.Request.Context(), c.Param("id"), middleware.CallerID(c))
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, gin.H{"message": "Trip deleted successfully."})
}

// DriverTripResponse is one entry of the driver's trip listing.
type DriverTripResponse struct {
	TripID       string  `json:"tripId"`
	InitialPoint string  `json:"initialPoint"`
	FinalPoint   string  `json:"finalPoint"`
	Route        string  `json:"route"`
	Seats        int     `json:"seats"`
	Price        float64 `json:"price"`
	Reservations int     `json:"reservations"`
}

// ListByDriver handles GET /v1/trips/driver
func (h *TripHandler) ListByDriver(c *gin.Context) {
	trips, err := h.tripService.ListByDriver(c.Request.Context(), middleware.CallerID(c))
	if err != nil {
		respondError(c, err)
		return
	}

	if len(trips) == 0 {
		respondJSON(c, http.StatusOK, gin.H{"message": "You have no registered trips."})
		return
	}

	response := make([]DriverTripResponse, 0, len(trips))
	for _, trip := range trips {
		response = append(response, DriverTripResponse{
			TripID:       trip.ID,
			InitialPoint: trip.InitialPoint,
			FinalPoint:   trip.FinalPoint,
			Route:        trip.Route,
			Seats:        trip.Seats,
			Price:        trip.Price,
			Reservations: trip.ReservedSeats(),
		})
	}

	respondJSON(c, http.StatusOK, gin.H{"trips": response})
}

// RiderReservationResponse is one entry of the rider's reservation
// listing.
type RiderReservationResponse struct {
	TripID        string  `json:"tripId"`
	InitialPoint  string  `json:"initialPoint"`
	FinalPoint    string  `json:"finalPoint"`
	Route         string  `json:"route"`
	SeatsReserved int     `json:"seatsReserved"`
	Price         float64 `json:"price"`
}

// ListReservations handles GET /v1/trips/reservations
func (h *TripHandler) ListReservations(c *gin.Context) {
	riderID := middleware.CallerID(c)

	trips, err := h.tripService.ListByRider(c.Request.Context(), riderID)
	if err != nil {
		respondError(c, err)
		return
	}

	if len(trips) == 0 {
		respondJSON(c, http.StatusOK, gin.H{"message": "You have no reserved trips."})
		return
	}

	response := make([]RiderReservationResponse, 0, len(trips))
	for _, trip := range trips {
		reservation, _ := trip.ReservationFor(riderID)
		response = append(response, RiderReservationResponse{
			TripID:        trip.ID,
			InitialPoint:  trip.InitialPoint,
			FinalPoint:    trip.FinalPoint,
			Route:         trip.Route,
			SeatsReserved: reservation.Seats(),
			Price:         trip.Price,
		})
	}

	respondJSON(c, http.StatusOK, gin.H{"reservations": response})
}

// ReservationRequest is the HTTP request body for reserving or
// amending seats.
type ReservationRequest struct {
	SeatsReserved int      `json:"seatsReserved"`
	Stops         []string `json:"stops"`
}

// Reserve handles POST /v1/trips/:id/reservations
func (h *TripHandler) Reserve(c *gin.Context) {
	var req ReservationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, service.ErrMissingReservationFields)
		return
	}

	seatsRemaining, err := h.tripService.Reserve(c.Request.Context(), c.Param("id"), middleware.CallerID(c), req.SeatsReserved, req.Stops)
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, gin.H{
		"message":        fmt.Sprintf("You have reserved %d seats successfully: stopping at %s.", req.SeatsReserved, strings.Join(req.Stops, " and ")),
		"seatsRemaining": seatsRemaining,
	})
}

// Cancel handles DELETE /v1/trips/:id/reservations
func (h *TripHandler) Cancel(c *gin.Context) {
	seatsRemaining, seatsReleased, err := h.tripService.Cancel(c.Request.Context(), c.Param("id"), middleware.CallerID(c))
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, gin.H{
		"message":        fmt.Sprintf("Reservation cancelled successfully. %d seats have been released.", seatsReleased),
		"seatsRemaining": seatsRemaining,
	})
}

// Amend handles PUT /v1/trips/:id/reservations
func (h *TripHandler) Amend(c *gin.Context) {
	var req ReservationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, service.ErrMissingReservationFields)
		return
	}

	updated, seatsRemaining, err := h.tripService.Amend(c.Request.Context(), c.Param("id"), middleware.CallerID(c), req.SeatsReserved, req.Stops)
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, gin.H{
		"message":            "Reservation updated successfully.",
		"updatedReservation": domain.Reservation{RiderID: updated.RiderID, Stops: updated.Stops},
		"seatsRemaining":     seatsRemaining,
	})
}
