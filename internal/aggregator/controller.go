package aggregator

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"bookfinder/be/internal/apperr"
	"bookfinder/be/internal/search"
)

type Controller struct {
	service *Service
}

func NewController(service *Service) *Controller {
	return &Controller{service: service}
}

// MultiSearch handles GET /api/multi-search.
func (c *Controller) MultiSearch(ctx *gin.Context) {
	req := Request{
		Query:   ctx.Query("q"),
		Limit:   search.PositiveInt(ctx.Query("limit"), DefaultLimit),
		Offset:  search.NonNegativeInt(ctx.Query("offset"), 0),
		Sources: ParseSources(ctx.Query("sources")),
	}

	resp, err := c.service.MultiSearch(ctx.Request.Context(), req)
	if err != nil {
		if apperr.KindOf(err) != apperr.KindValidation {
			slog.Error("multi-source search failed", "query", req.Query, "error", err)
		}
		apperr.Respond(ctx, err, "Multi-source search failed")
		return
	}
	ctx.JSON(http.StatusOK, resp)
}

func (c *Controller) RegisterRoutes(router *gin.Engine) {
	router.GET("/api/multi-search", c.MultiSearch)
}
