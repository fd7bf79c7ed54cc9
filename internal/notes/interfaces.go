package notes

import (
	"context"

	"github.com/jomei/notionapi"

	"bookfinder/be/internal/book"
)

const (
	StatusToRead   = "To Read"
	successMessage = "Book added to your catalog successfully! 🔥"
)

// PageCreator is the slice of the Notion page API the exporter needs.
// *notionapi.Client's Page service satisfies it.
type PageCreator interface {
	Create(ctx context.Context, request *notionapi.PageCreateRequest) (*notionapi.Page, error)
}

type AddBookRequest struct {
	Book *book.Record `json:"book"`
}

type AddBookResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	PageID  string `json:"pageId"`
}
