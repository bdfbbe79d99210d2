package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"carpool/internal/domain"
	"carpool/internal/middleware"
	"carpool/internal/repository"
)

// VehicleHandler handles the vehicle record attached to a user.
// Registering a vehicle is what grants the driver role.
type VehicleHandler struct {
	userRepo repository.UserRepository
}

// NewVehicleHandler creates a new VehicleHandler.
func NewVehicleHandler(userRepo repository.UserRepository) *VehicleHandler {
	return &VehicleHandler{userRepo: userRepo}
}

// AddVehicleRequest is the HTTP request body for registering a vehicle.
type AddVehicleRequest struct {
	Brand    string `json:"brand"`
	Model    string `json:"model"`
	CarPlate string `json:"carPlate"`
	Capacity int    `json:"capacity"`
	Color    string `json:"color"`
	Picture  string `json:"picture"`
	Soat     string `json:"soat"`
}

// Add handles POST /v1/vehicles
func (h *VehicleHandler) Add(c *gin.Context) {
	var req AddVehicleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid vehicle information")
		return
	}

	if req.Brand == "" || req.Model == "" || req.CarPlate == "" || req.Color == "" ||
		req.Picture == "" || req.Soat == "" {
		badRequest(c, "invalid vehicle information")
		return
	}
	if req.Capacity <= 0 {
		badRequest(c, "invalid capacity")
		return
	}

	userID := middleware.CallerID(c)

	user, err := h.userRepo.GetByID(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}

	if user.Vehicle != nil && user.Vehicle.CarPlate != "" {
		badRequest(c, "user already has a registered vehicle")
		return
	}

	vehicle := &domain.Vehicle{
		Brand:    req.Brand,
		Model:    req.Model,
		CarPlate: req.CarPlate,
		Capacity: req.Capacity,
		Color:    req.Color,
		Picture:  req.Picture,
		Soat:     req.Soat,
	}

	if err := h.userRepo.SetVehicle(c.Request.Context(), userID, vehicle); err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusCreated, gin.H{
		"message": "Vehicle added successfully. The driver role has been activated.",
	})
}

// Get handles GET /v1/vehicles
func (h *VehicleHandler) Get(c *gin.Context) {
	user, err := h.userRepo.GetByID(c.Request.Context(), middleware.CallerID(c))
	if err != nil {
		respondError(c, err)
		return
	}

	if user.Vehicle == nil || user.Vehicle.CarPlate == "" {
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "no registered vehicle", Code: http.StatusNotFound})
		return
	}

	respondJSON(c, http.StatusOK, gin.H{
		"vehicle": gin.H{
			"brand":    user.Vehicle.Brand,
			"model":    user.Vehicle.Model,
			"carPlate": user.Vehicle.CarPlate,
			"capacity": user.Vehicle.Capacity,
			"color":    user.Vehicle.Color,
			"picture":  user.Vehicle.Picture,
			"soat":     user.Vehicle.Soat,
		},
	})
}
