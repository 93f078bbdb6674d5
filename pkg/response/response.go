package response

import (
	"time"

	"github.com/gin-gonic/gin"
)

// APIResponse is the envelope of every JSON reply. Errors maps a field name to the
// message to show next to it when a request fails validation.
type APIResponse struct {
	Success   bool              `json:"success"`
	Message   string            `json:"message"`
	Data      any               `json:"data,omitempty"`
	Errors    map[string]string `json:"errors,omitempty"`
	CreatedAt time.Time         `json:"created_at,omitempty"`
}

func SendAPIResponse(c *gin.Context, code int, success bool, message string, data any) {
	c.JSON(code, APIResponse{
		Success:   success,
		Message:   message,
		Data:      data,
		CreatedAt: time.Now(),
	})
}

// SendFieldErrors replies with per-field messages, typically 400.
func SendFieldErrors(c *gin.Context, code int, message string, fields map[string]string) {
	c.JSON(code, APIResponse{
		Success:   false,
		Message:   message,
		Errors:    fields,
		CreatedAt: time.Now(),
	})
}
