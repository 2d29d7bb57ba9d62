package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/peerpath/journey-backend-go/internal/apperr"
	"github.com/peerpath/journey-backend-go/internal/mapview"
	"github.com/peerpath/journey-backend-go/internal/middleware"
	"github.com/peerpath/journey-backend-go/internal/models"
	"github.com/peerpath/journey-backend-go/internal/service"
	"github.com/peerpath/journey-backend-go/pkg/response"
)

// Radius bounds offered by the planning UI. Enforced here at the
// binding layer, not in the data model.
const (
	minRadiusMeters = 50
	maxRadiusMeters = 1000
)

// JourneyHandler handles HTTP requests for the journey tracker
type JourneyHandler struct {
	sessions *service.SessionManager
}

// NewJourneyHandler creates a new journey handler
func NewJourneyHandler(sessions *service.SessionManager) *JourneyHandler {
	return &JourneyHandler{sessions: sessions}
}

func (h *JourneyHandler) session(c *gin.Context) (*service.Session, bool) {
	sess, err := h.sessions.Session(c.Request.Context(), middleware.Subject(c))
	if err != nil {
		response.InternalError(c, "Failed to open journey session", err)
		return nil, false
	}
	return sess, true
}

func fail(c *gin.Context, err error) {
	response.Error(c, apperr.HTTPStatus(err), err.Error(), nil)
}

// GetJourney handles GET /api/v1/journey
func (h *JourneyHandler) GetJourney(c *gin.Context) {
	sess, ok := h.session(c)
	if !ok {
		return
	}
	response.Success(c, sess.Journey.Snapshot())
}

// GetMap handles GET /api/v1/journey/map. It returns the full layer set
// plus the reconciliation ops against what this session was last served,
// so an incremental renderer can apply just the diff.
func (h *JourneyHandler) GetMap(c *gin.Context) {
	sess, ok := h.session(c)
	if !ok {
		return
	}

	if c.Query("reset") == "true" {
		sess.View.Reset()
	}

	set, ops := sess.View.Sync(mapview.Build(sess.Journey.Snapshot()))
	response.Success(c, gin.H{
		"layers":    set.Layers,
		"fitBounds": set.FitBounds,
		"ops":       ops,
	})
}

// GetHistory handles GET /api/v1/journey/history
func (h *JourneyHandler) GetHistory(c *gin.Context) {
	sess, ok := h.session(c)
	if !ok {
		return
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	archived, err := sess.Journey.History(limit)
	if err != nil {
		response.InternalError(c, "Failed to list journey history", err)
		return
	}
	response.Success(c, archived)
}

// Start handles POST /api/v1/journey/start
func (h *JourneyHandler) Start(c *gin.Context) {
	sess, ok := h.session(c)
	if !ok {
		return
	}

	snap, err := sess.Journey.Start(c.Request.Context())
	if err != nil {
		fail(c, err)
		return
	}
	response.Success(c, snap)
}

// Complete handles POST /api/v1/journey/complete
func (h *JourneyHandler) Complete(c *gin.Context) {
	sess, ok := h.session(c)
	if !ok {
		return
	}

	snap, err := sess.Journey.Complete()
	if err != nil {
		fail(c, err)
		return
	}
	response.Success(c, snap)
}

// Reset handles POST /api/v1/journey/reset
func (h *JourneyHandler) Reset(c *gin.Context) {
	sess, ok := h.session(c)
	if !ok {
		return
	}
	response.Success(c, sess.Journey.Reset())
}

type positionRequest struct {
	Lat *float64 `json:"lat" binding:"required"`
	Lng *float64 `json:"lng" binding:"required"`
}

// ReportPosition handles POST /api/v1/journey/position
func (h *JourneyHandler) ReportPosition(c *gin.Context) {
	sess, ok := h.session(c)
	if !ok {
		return
	}

	var req positionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid position payload", err)
		return
	}

	snap := sess.Journey.ReportPosition(models.LatLng{Lat: *req.Lat, Lng: *req.Lng})
	response.Success(c, snap)
}

type verifyRequest struct {
	WaypointID string `json:"waypointId"`
	Code       string `json:"code" binding:"required"`
}

// Verify handles POST /api/v1/journey/verify
func (h *JourneyHandler) Verify(c *gin.Context) {
	sess, ok := h.session(c)
	if !ok {
		return
	}

	var req verifyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid verification payload", err)
		return
	}

	snap, err := sess.Journey.Verify(c.Request.Context(), req.WaypointID, req.Code)
	if err != nil {
		fail(c, err)
		return
	}
	response.Success(c, snap)
}

type midpointRequest struct {
	Address string   `json:"address" binding:"required"`
	Lat     *float64 `json:"lat" binding:"required"`
	Lng     *float64 `json:"lng" binding:"required"`
	Label   string   `json:"label"`
}

// AddMidpoint handles POST /api/v1/journey/waypoints
func (h *JourneyHandler) AddMidpoint(c *gin.Context) {
	sess, ok := h.session(c)
	if !ok {
		return
	}

	var req midpointRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid midpoint payload", err)
		return
	}

	sel := models.LocationSelection{Address: req.Address, Lat: *req.Lat, Lng: *req.Lng}
	snap, err := sess.Journey.AddMidpoint(sel, req.Label)
	if err != nil {
		fail(c, err)
		return
	}
	response.Success(c, snap)
}

type targetRequest struct {
	Address string   `json:"address" binding:"required"`
	Lat     *float64 `json:"lat" binding:"required"`
	Lng     *float64 `json:"lng" binding:"required"`
}

// SetTarget handles PUT /api/v1/journey/waypoints/:id/target
func (h *JourneyHandler) SetTarget(c *gin.Context) {
	sess, ok := h.session(c)
	if !ok {
		return
	}

	var req targetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid target payload", err)
		return
	}

	sel := models.LocationSelection{Address: req.Address, Lat: *req.Lat, Lng: *req.Lng}
	snap, err := sess.Journey.SetTarget(c.Param("id"), sel)
	if err != nil {
		fail(c, err)
		return
	}
	response.Success(c, snap)
}

type radiusRequest struct {
	RadiusMeters *float64 `json:"radiusMeters" binding:"required"`
}

// UpdateRadius handles PUT /api/v1/journey/waypoints/:id/radius
func (h *JourneyHandler) UpdateRadius(c *gin.Context) {
	sess, ok := h.session(c)
	if !ok {
		return
	}

	var req radiusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid radius payload", err)
		return
	}
	radius := *req.RadiusMeters
	if radius < minRadiusMeters || radius > maxRadiusMeters {
		response.Error(c, http.StatusBadRequest, "Radius must be between 50 and 1000 meters", nil)
		return
	}

	snap, err := sess.Journey.UpdateRadius(c.Param("id"), radius)
	if err != nil {
		fail(c, err)
		return
	}
	response.Success(c, snap)
}

// CaptureTarget handles POST /api/v1/journey/waypoints/:id/capture
func (h *JourneyHandler) CaptureTarget(c *gin.Context) {
	sess, ok := h.session(c)
	if !ok {
		return
	}

	snap, err := sess.Journey.CaptureCurrentAsTarget(c.Request.Context(), c.Param("id"))
	if err != nil {
		fail(c, err)
		return
	}
	response.Success(c, snap)
}

// TriggerOTP handles POST /api/v1/journey/waypoints/:id/otp
func (h *JourneyHandler) TriggerOTP(c *gin.Context) {
	sess, ok := h.session(c)
	if !ok {
		return
	}

	snap, err := sess.Journey.TriggerOTP(c.Param("id"))
	if err != nil {
		fail(c, err)
		return
	}
	response.Success(c, snap)
}
