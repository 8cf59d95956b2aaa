package transport

import (
	"errors"
	"net/http"

	"github.com/Ansh-Mishra04/project/internal/entity"
	"github.com/Ansh-Mishra04/project/internal/transport/middleware"

	"github.com/gin-gonic/gin"
)

func InitRoutes(eventHandler *EventHandler, registrationHandler *RegistrationHandler) *gin.Engine {

	router := gin.New()

	// Middleware
	router.Use(gin.Recovery())
	router.Use(middleware.CORS())
	router.Use(middleware.Logger())
	router.Use(middleware.Timeout(30))

	// API routes
	api := router.Group("/api/v1")
	{
		// Event routes
		events := api.Group("/events")
		{
			events.GET("", eventHandler.GetEvents)
			events.GET("/:id", eventHandler.GetEvent)
			events.POST("/:id/register", registrationHandler.Register)
		}

		// Payment routes
		payments := api.Group("/payments")
		{
			payments.POST("/callback", registrationHandler.PaymentCallback)
		}

		// Admin routes
		admin := api.Group("/admin")
		{
			admin.POST("/events/reload", eventHandler.ReloadEvents)
			admin.GET("/payments/unrecorded", registrationHandler.UnrecordedPayments)
		}
	}

	// Web interface routes
	router.Static("/static", "./web/static")
	router.LoadHTMLGlob("web/templates/*")

	router.GET("/", func(c *gin.Context) {
		c.HTML(http.StatusOK, "index.html", nil)
	})

	// Health check
	router.GET("/health", eventHandler.Health)

	return router
}

// respondError maps workflow errors onto HTTP statuses. Unknown errors
// stay opaque for the client.
func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, entity.ErrEventsUnavailable):
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "events are temporarily unavailable"})
	case errors.Is(err, entity.ErrEventNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "event not found"})
	case errors.Is(err, entity.ErrRegistrationClosed):
		c.JSON(http.StatusConflict, gin.H{"error": "registration is open only for upcoming events"})
	case errors.Is(err, entity.ErrInvalidPrice):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "event price is misconfigured, checkout was not opened"})
	case errors.Is(err, entity.ErrCheckoutUnavailable):
		c.JSON(http.StatusBadGateway, gin.H{"error": "payment checkout could not be opened"})
	case errors.Is(err, entity.ErrSessionNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "checkout session not found"})
	case errors.Is(err, entity.ErrInvalidSignature):
		c.JSON(http.StatusBadRequest, gin.H{"error": "payment could not be verified"})
	case errors.Is(err, entity.ErrRegistrationNotRecorded):
		c.JSON(http.StatusInternalServerError, gin.H{"error": entity.ErrRegistrationNotRecorded.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}
