package response

import "github.com/gin-gonic/gin"

// RespondJSON writes the shared response envelope. Every handler in the
// API goes through this so clients see one shape for success and errors.
func RespondJSON(c *gin.Context, status string, code int, message string, data interface{}, errors interface{}) {
	c.JSON(code, StandardApiResponse{
		Status:     status,
		StatusCode: code,
		Message:    message,
		Data:       data,
		Errors:     errors,
	})
}
