// Package ocr calls the Mistral OCR API to recognize a document by URL and
// assembles the per-page output into document-level markdown.
package ocr

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/pagemarkhq/pagemark/internal/document"
)

// UpstreamError carries the OCR provider's status and response body. The
// service surfaces it as-is and never retries; retry policy belongs to the
// caller.
type UpstreamError struct {
	StatusCode int
	Body       string
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("ocr provider returned status %d: %s", e.StatusCode, e.Body)
}

// Client communicates with the Mistral OCR HTTP API.
type Client struct {
	endpoint   string
	apiKey     string
	model      string
	httpClient *http.Client
}

func NewClient(endpoint, apiKey, model string, timeout time.Duration) *Client {
	return &Client{
		endpoint: endpoint,
		apiKey:   apiKey,
		model:    model,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

type ocrDocument struct {
	Type        string `json:"type"`
	DocumentURL string `json:"document_url"`
}

type ocrRequest struct {
	Model              string      `json:"model"`
	Document           ocrDocument `json:"document"`
	IncludeImageBase64 bool        `json:"include_image_base64"`
}

type ocrResponse struct {
	Pages []struct {
		Index    int    `json:"index"`
		Markdown string `json:"markdown"`
		Images   []struct {
			ID          string `json:"id"`
			ImageBase64 string `json:"image_base64"`
		} `json:"images"`
	} `json:"pages"`
}

// Recognize submits a document URL for OCR and returns the raw per-page
// result. A non-success status comes back as an *UpstreamError with the
// provider's body attached.
func (c *Client) Recognize(ctx context.Context, documentURL string) ([]document.Page, error) {
	reqBody := ocrRequest{
		Model: c.model,
		Document: ocrDocument{
			Type:        "document_url",
			DocumentURL: documentURL,
		},
		IncludeImageBase64: true,
	}
	body, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("ocr request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, &UpstreamError{
			StatusCode: resp.StatusCode,
			Body:       string(respBody),
		}
	}

	var parsed ocrResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}

	pages := make([]document.Page, 0, len(parsed.Pages))
	for _, p := range parsed.Pages {
		page := document.Page{
			Index:    p.Index,
			Markdown: p.Markdown,
		}
		for _, img := range p.Images {
			page.Images = append(page.Images, document.Image{
				ID:     img.ID,
				Base64: img.ImageBase64,
			})
		}
		pages = append(pages, page)
	}
	return pages, nil
}

// Close releases idle connections.
func (c *Client) Close() {
	c.httpClient.CloseIdleConnections()
}
