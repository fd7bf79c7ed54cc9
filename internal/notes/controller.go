package notes

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"bookfinder/be/internal/apperr"
)

type Controller struct {
	exporter *Exporter
}

func NewController(exporter *Exporter) *Controller {
	return &Controller{exporter: exporter}
}

// AddBook handles POST /api/add-book.
func (c *Controller) AddBook(ctx *gin.Context) {
	var req AddBookRequest
	if err := ctx.ShouldBindJSON(&req); err != nil || req.Book == nil {
		apperr.Respond(ctx, apperr.Validation("Book data is required"), "")
		return
	}

	pageID, err := c.exporter.Export(ctx.Request.Context(), *req.Book)
	if err != nil {
		slog.Error("notion export failed", "title", req.Book.Title, "error", err)
		apperr.Respond(ctx, err, "Failed to add book to Notion")
		return
	}

	ctx.JSON(http.StatusOK, AddBookResponse{
		Success: true,
		Message: successMessage,
		PageID:  pageID,
	})
}

func (c *Controller) RegisterRoutes(router *gin.Engine) {
	router.POST("/api/add-book", c.AddBook)
}
