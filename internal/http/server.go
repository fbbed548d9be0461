package http

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"unipool/internal/http/middleware"
	"unipool/internal/modules/booking"
	"unipool/internal/modules/fare"
	"unipool/internal/modules/matching"
	"unipool/internal/modules/ride"
)

type ServerDeps struct {
	Rides   *ride.Service
	Ledger  *booking.Service
	Matcher *matching.Service
	Fares   *fare.Service
	Log     *slog.Logger
}

type Server struct {
	rides   *ride.Service
	ledger  *booking.Service
	matcher *matching.Service
	fares   *fare.Service
	log     *slog.Logger
}

func NewServer(deps ServerDeps) *Server {
	return &Server{
		rides:   deps.Rides,
		ledger:  deps.Ledger,
		matcher: deps.Matcher,
		fares:   deps.Fares,
		log:     deps.Log,
	}
}

func (s *Server) Routes() http.Handler {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(middleware.Recovery(s.log), middleware.Logging(s.log))

	api := r.Group("/api")

	api.POST("/rides", s.handleCreateRide)
	api.GET("/rides/:id", s.handleGetRide)
	api.POST("/rides/:id/start", s.handleStartRide)
	api.POST("/rides/:id/complete", s.handleCompleteRide)
	api.DELETE("/rides/:id", s.handleDeleteRide)

	api.POST("/rides/:id/bookings", s.handleRequestBooking)
	api.GET("/rides/:id/bookings", s.handleListRideBookings)
	api.GET("/bookings/:id", s.handleGetBooking)
	api.POST("/bookings/:id/accept", s.handleAcceptBooking)
	api.POST("/bookings/:id/reject", s.handleRejectBooking)
	api.POST("/bookings/:id/cancel", s.handleCancelBooking)

	api.GET("/matches", s.handleFindMatches)
	api.GET("/fare/quote", s.handleFareQuote)

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return r
}
