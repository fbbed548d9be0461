package http

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"unipool/internal/modules/matching"
	"unipool/internal/types"
)

func (s *Server) handleFindMatches(c *gin.Context) {
	req, err := parseTripRequest(c)
	if err != nil {
		writeError(c, http.StatusBadRequest, err.Error())
		return
	}
	matches, err := s.matcher.FindMatches(c.Request.Context(), req)
	if err != nil {
		writeDomainError(c, err)
		return
	}
	out := make([]gin.H, len(matches))
	for i, m := range matches {
		out[i] = gin.H{
			"ride":      rideView(&matches[i].Ride),
			"score":     m.Score,
			"tier":      m.Tier,
			"origin_km": m.OriginKm,
			"dest_km":   m.DestKm,
		}
	}
	c.JSON(http.StatusOK, gin.H{"matches": out})
}

func parseTripRequest(c *gin.Context) (matching.TripRequest, error) {
	var req matching.TripRequest

	req.PassengerID = types.ID(c.Query("passenger_id"))

	var err error
	if req.Origin, err = parsePoint(c, "origin_lat", "origin_lng"); err != nil {
		return req, err
	}
	if req.Dest, err = parsePoint(c, "dest_lat", "dest_lng"); err != nil {
		return req, err
	}

	seats := c.DefaultQuery("seats", "1")
	if req.SeatsNeeded, err = strconv.Atoi(seats); err != nil {
		return req, errBadQuery("seats")
	}

	req.DepartAfter = time.Now().UTC()
	if v := c.Query("depart_after"); v != "" {
		if req.DepartAfter, err = time.Parse(time.RFC3339, v); err != nil {
			return req, errBadQuery("depart_after")
		}
	}
	return req, nil
}

func parsePoint(c *gin.Context, latKey, lngKey string) (types.Point, error) {
	lat, err := strconv.ParseFloat(c.Query(latKey), 64)
	if err != nil {
		return types.Point{}, errBadQuery(latKey)
	}
	lng, err := strconv.ParseFloat(c.Query(lngKey), 64)
	if err != nil {
		return types.Point{}, errBadQuery(lngKey)
	}
	return types.Point{Lat: lat, Lng: lng}, nil
}
