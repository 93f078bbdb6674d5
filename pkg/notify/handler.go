package notify

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"assetdeck/pkg/response"
	"assetdeck/pkg/session"
)

type ReminderHandler struct {
	service ReminderService
}

func NewReminderHandler(service ReminderService) *ReminderHandler {
	return &ReminderHandler{service: service}
}

func (h *ReminderHandler) RegisterRoutes(router gin.IRouter) {
	router.POST("/reminders/expiring", h.sendExpiring)
}

// @Summary      Send expiration digest
// @Description  Emails the signed-in account the assets expiring soon or already expired. Nothing is sent when the list is empty.
// @Tags         reminders
// @Produce      json
// @Success      200  {object}  response.APIResponse{data=Digest}
// @Failure      401  {object}  response.APIResponse
// @Failure      502  {object}  response.APIResponse
// @Router       /reminders/expiring [post]
func (h *ReminderHandler) sendExpiring(c *gin.Context) {
	d, err := h.service.SendExpiringDigest(c.Request.Context())
	if err != nil {
		switch {
		case errors.Is(err, session.ErrNotAuthenticated):
			response.SendAPIResponse(c, http.StatusUnauthorized, false, "sign in required", nil)
		case errors.Is(err, ErrDeliveryFailed):
			response.SendAPIResponse(c, http.StatusBadGateway, false, ErrDeliveryFailed.Error(), d)
		default:
			response.SendAPIResponse(c, http.StatusInternalServerError, false, err.Error(), nil)
		}
		return
	}

	msg := "nothing expiring"
	if d.Sent {
		msg = "digest sent"
	}
	response.SendAPIResponse(c, http.StatusOK, true, msg, d)
}
