package apperr

import "github.com/gin-gonic/gin"

// Respond writes err as the JSON error body {"error", "details"?}.
func Respond(c *gin.Context, err error, fallback string) {
	body := gin.H{"error": Message(err, fallback)}
	if details := Details(err); details != "" {
		body["details"] = details
	}
	c.JSON(HTTPStatus(err), body)
}
