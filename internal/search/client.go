package search

import (
	"context"
	"io"
	"net/http"
	"strings"

	"bookfinder/be/internal/book"
)

const maxErrorBody = 512

// fetch issues a GET and returns the body of a 200 response.
func fetch(ctx context.Context, client *http.Client, source book.Source, rawURL, userAgent string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, &AdapterError{Source: source, Kind: ErrKindOther, Message: "create request: " + err.Error(), Err: err}
	}
	req.Header.Set("Accept", "application/json")
	if userAgent != "" {
		req.Header.Set("User-Agent", userAgent)
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, transportError(source, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return nil, statusError(source, resp.StatusCode, strings.TrimSpace(string(body)))
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, transportError(source, err)
	}
	return body, nil
}
