package video

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"bookfinder/be/internal/apperr"
)

type Controller struct {
	extractor *Extractor
}

func NewController(extractor *Extractor) *Controller {
	return &Controller{extractor: extractor}
}

// Extract handles POST /api/tiktok.
func (c *Controller) Extract(ctx *gin.Context) {
	var req ExtractRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		apperr.Respond(ctx, apperr.Validation("TikTok URL is required"), "")
		return
	}

	res, err := c.extractor.Extract(req.URL)
	if err != nil {
		apperr.Respond(ctx, err, "Failed to parse TikTok")
		return
	}
	ctx.JSON(http.StatusOK, res)
}

func (c *Controller) RegisterRoutes(router *gin.Engine) {
	router.POST("/api/tiktok", c.Extract)
}
