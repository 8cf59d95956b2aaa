package transport

import (
	"net/http"
	"strconv"

	"github.com/Ansh-Mishra04/project/internal/service"

	"github.com/gin-gonic/gin"
)

type RegistrationHandler struct {
	registrationService service.RegistrationService
}

func NewRegistrationHandler(registrationService service.RegistrationService) *RegistrationHandler {
	return &RegistrationHandler{registrationService: registrationService}
}

// Register opens payment checkout for an upcoming event. The response
// carries everything the browser widget needs to present the payment form.
func (h *RegistrationHandler) Register(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid event id"})
		return
	}

	var req service.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	order, err := h.registrationService.BeginCheckout(c.Request.Context(), id, &req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, order)
}

// PaymentCallback records the registration for a payment the provider
// confirmed. Everything before the row exists is verified here; a payment
// that cannot be recorded is reported, never silently dropped.
func (h *RegistrationHandler) PaymentCallback(c *gin.Context) {
	var req service.PaymentCallbackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	registration, err := h.registrationService.CompleteRegistration(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"status":       "registration recorded",
		"registration": registration,
	})
}

// UnrecordedPayments reports confirmed payments still missing their
// registration row
func (h *RegistrationHandler) UnrecordedPayments(c *gin.Context) {
	report, err := h.registrationService.ReconcileUnrecorded(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, report)
}
