package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"unipool/internal/modules/booking"
	"unipool/internal/types"
)

type requestBookingReq struct {
	PassengerID string `json:"passenger_id" binding:"required"`
	Seats       int    `json:"seats" binding:"required"`
}

func (s *Server) handleRequestBooking(c *gin.Context) {
	var req requestBookingReq
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid json: "+err.Error())
		return
	}
	b, err := s.ledger.Request(c.Request.Context(), booking.RequestCommand{
		RideID:      types.ID(c.Param("id")),
		PassengerID: types.ID(req.PassengerID),
		Seats:       req.Seats,
	})
	if err != nil {
		writeDomainError(c, err)
		return
	}
	c.JSON(http.StatusCreated, bookingView(b))
}

func (s *Server) handleGetBooking(c *gin.Context) {
	b, err := s.ledger.Get(c.Request.Context(), types.ID(c.Param("id")))
	if err != nil {
		writeDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, bookingView(b))
}

type driverActionReq struct {
	DriverID string `json:"driver_id" binding:"required"`
	Reason   string `json:"reason"`
}

func (s *Server) handleAcceptBooking(c *gin.Context) {
	var req driverActionReq
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid json: "+err.Error())
		return
	}
	err := s.ledger.Accept(c.Request.Context(), booking.AcceptCommand{
		BookingID: types.ID(c.Param("id")),
		DriverID:  types.ID(req.DriverID),
	})
	if err != nil {
		writeDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": booking.StatusAccepted})
}

func (s *Server) handleRejectBooking(c *gin.Context) {
	var req driverActionReq
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid json: "+err.Error())
		return
	}
	err := s.ledger.Reject(c.Request.Context(), booking.RejectCommand{
		BookingID: types.ID(c.Param("id")),
		DriverID:  types.ID(req.DriverID),
		Reason:    req.Reason,
	})
	if err != nil {
		writeDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": booking.StatusRejected})
}

type cancelBookingReq struct {
	PassengerID string `json:"passenger_id" binding:"required"`
}

func (s *Server) handleCancelBooking(c *gin.Context) {
	var req cancelBookingReq
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid json: "+err.Error())
		return
	}
	err := s.ledger.Cancel(c.Request.Context(), booking.CancelCommand{
		BookingID:   types.ID(c.Param("id")),
		PassengerID: types.ID(req.PassengerID),
	})
	if err != nil {
		writeDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": booking.StatusCancelled})
}

func (s *Server) handleListRideBookings(c *gin.Context) {
	list, err := s.ledger.ListForRide(c.Request.Context(), types.ID(c.Param("id")))
	if err != nil {
		writeDomainError(c, err)
		return
	}
	out := make([]gin.H, len(list))
	for i := range list {
		out[i] = bookingView(&list[i])
	}
	c.JSON(http.StatusOK, gin.H{"bookings": out})
}

func bookingView(b *booking.Booking) gin.H {
	v := gin.H{
		"booking_id":     b.ID,
		"ride_id":        b.RideID,
		"passenger_id":   b.PassengerID,
		"seats":          b.Seats,
		"fare_per_seat":  b.FarePerSeat,
		"status":         b.Status,
		"payment_status": b.PaymentStatus,
	}
	if b.RejectReason != nil {
		v["reject_reason"] = *b.RejectReason
	}
	return v
}
