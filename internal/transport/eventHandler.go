package transport

import (
	"net/http"
	"strconv"

	"github.com/Ansh-Mishra04/project/internal/entity"
	"github.com/Ansh-Mishra04/project/internal/service"

	"github.com/gin-gonic/gin"
)

type EventHandler struct {
	eventService service.EventService
}

func NewEventHandler(eventService service.EventService) *EventHandler {
	return &EventHandler{eventService: eventService}
}

// GetEvents returns the listing for one time window, upcoming by default
func (h *EventHandler) GetEvents(c *gin.Context) {
	window, err := entity.ParseEventWindow(c.DefaultQuery("window", string(entity.WindowUpcoming)))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid window, expected upcoming, current or ended"})
		return
	}

	listings, err := h.eventService.GetEventsByWindow(window)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"window": window,
		"events": listings,
	})
}

func (h *EventHandler) GetEvent(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid event id"})
		return
	}

	details, err := h.eventService.GetEventDetails(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, details)
}

// ReloadEvents refreshes the catalog snapshot on demand. One attempt:
// when it fails the snapshot that was served before keeps being served.
func (h *EventHandler) ReloadEvents(c *gin.Context) {
	if err := h.eventService.ReloadEvents(c.Request.Context()); err != nil {
		c.JSON(http.StatusBadGateway, gin.H{
			"error":    "events could not be reloaded",
			"snapshot": h.eventService.SnapshotInfo(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":   "reloaded",
		"snapshot": h.eventService.SnapshotInfo(),
	})
}

func (h *EventHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":   "ok",
		"snapshot": h.eventService.SnapshotInfo(),
	})
}
