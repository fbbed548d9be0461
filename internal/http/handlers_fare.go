package http

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
)

// handleFareQuote prices a trip without creating anything. Callers pass a
// known distance, or origin and destination coordinates to have the distance
// derived.
func (s *Server) handleFareQuote(c *gin.Context) {
	departure := time.Now().UTC()
	if v := c.Query("departure"); v != "" {
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			writeError(c, http.StatusBadRequest, "departure must be RFC3339")
			return
		}
		departure = t.UTC()
	}

	if v := c.Query("distance_km"); v != "" {
		km, err := strconv.ParseFloat(v, 64)
		if err != nil {
			writeError(c, http.StatusBadRequest, "distance_km must be a number")
			return
		}
		total, err := s.fares.Quote(km, departure)
		if err != nil {
			writeDomainError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"fare": total, "distance_km": km})
		return
	}

	origin, err := parsePoint(c, "origin_lat", "origin_lng")
	if err != nil {
		writeError(c, http.StatusBadRequest, err.Error())
		return
	}
	dest, err := parsePoint(c, "dest_lat", "dest_lng")
	if err != nil {
		writeError(c, http.StatusBadRequest, err.Error())
		return
	}
	total, err := s.fares.QuoteForRoute(c.Request.Context(), origin, dest, departure)
	if err != nil {
		writeDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"fare": total})
}
