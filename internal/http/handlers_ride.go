package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"unipool/internal/modules/booking"
	"unipool/internal/modules/profile"
	"unipool/internal/modules/ride"
	"unipool/internal/types"
)

type createRideReq struct {
	DriverID        string  `json:"driver_id" binding:"required"`
	OriginLat       float64 `json:"origin_lat" binding:"required"`
	OriginLng       float64 `json:"origin_lng" binding:"required"`
	OriginName      string  `json:"origin_name"`
	DestLat         float64 `json:"dest_lat" binding:"required"`
	DestLng         float64 `json:"dest_lng" binding:"required"`
	DestName        string  `json:"dest_name"`
	ScheduledAt     string  `json:"scheduled_at" binding:"required"`
	SeatsTotal      int     `json:"seats_total" binding:"required"`
	PricePerSeatSen int64   `json:"price_per_seat_sen"`
	DriverPref      string  `json:"driver_pref"`
}

func (s *Server) handleCreateRide(c *gin.Context) {
	var req createRideReq
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid json: "+err.Error())
		return
	}
	scheduledAt, err := time.Parse(time.RFC3339, req.ScheduledAt)
	if err != nil {
		writeError(c, http.StatusBadRequest, "scheduled_at must be RFC3339")
		return
	}

	r, err := s.rides.Create(c.Request.Context(), ride.CreateCommand{
		DriverID:        types.ID(req.DriverID),
		Origin:          types.Place{Point: types.Point{Lat: req.OriginLat, Lng: req.OriginLng}, Name: req.OriginName},
		Dest:            types.Place{Point: types.Point{Lat: req.DestLat, Lng: req.DestLng}, Name: req.DestName},
		ScheduledAt:     scheduledAt,
		SeatsTotal:      req.SeatsTotal,
		PricePerSeatSen: req.PricePerSeatSen,
		DriverPref:      profile.DriverPref(req.DriverPref),
	})
	if err != nil {
		writeDomainError(c, err)
		return
	}
	c.JSON(http.StatusCreated, rideView(r))
}

func (s *Server) handleGetRide(c *gin.Context) {
	r, err := s.rides.Get(c.Request.Context(), types.ID(c.Param("id")))
	if err != nil {
		writeDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, rideView(r))
}

type actorReq struct {
	DriverID string `json:"driver_id" binding:"required"`
}

func (s *Server) handleStartRide(c *gin.Context) {
	var req actorReq
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid json: "+err.Error())
		return
	}
	err := s.rides.Start(c.Request.Context(), ride.StartCommand{
		RideID:   types.ID(c.Param("id")),
		DriverID: types.ID(req.DriverID),
	})
	if err != nil {
		writeDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": ride.StatusActive})
}

func (s *Server) handleCompleteRide(c *gin.Context) {
	var req actorReq
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid json: "+err.Error())
		return
	}
	err := s.ledger.CompleteRide(c.Request.Context(), booking.CompleteRideCommand{
		RideID:   types.ID(c.Param("id")),
		DriverID: types.ID(req.DriverID),
	})
	if err != nil {
		writeDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": ride.StatusCompleted})
}

func (s *Server) handleDeleteRide(c *gin.Context) {
	var req actorReq
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid json: "+err.Error())
		return
	}
	err := s.ledger.DeleteRide(c.Request.Context(), booking.DeleteRideCommand{
		RideID:   types.ID(c.Param("id")),
		DriverID: types.ID(req.DriverID),
	})
	if err != nil {
		writeDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": ride.StatusCancelled})
}

func rideView(r *ride.Ride) gin.H {
	return gin.H{
		"ride_id":         r.ID,
		"driver_id":       r.DriverID,
		"origin":          r.Origin,
		"dest":            r.Dest,
		"scheduled_at":    r.ScheduledAt.Format(time.RFC3339),
		"seats_total":     r.SeatsTotal,
		"seats_remaining": r.SeatsRemaining,
		"price_per_seat":  r.PricePerSeat,
		"status":          r.Status,
		"driver_pref":     r.DriverPref,
	}
}
