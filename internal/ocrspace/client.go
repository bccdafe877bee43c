package ocrspace

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"strings"
	"time"

	"classtrack/internal/apperror"
)

// DefaultURL is the public OCR.space parse endpoint.
const DefaultURL = "https://api.ocr.space/parse/image"

// Client calls the OCR.space document recognition API.
type Client struct {
	APIKey  string
	BaseURL string
	HTTP    *http.Client
}

// New creates a client. OCR on large scans routinely takes tens of seconds,
// so the timeout is generous.
func New(apiKey, baseURL string) *Client {
	if baseURL == "" {
		baseURL = DefaultURL
	}
	return &Client{
		APIKey:  apiKey,
		BaseURL: baseURL,
		HTTP:    &http.Client{Timeout: 45 * time.Second},
	}
}

// flexibleStrings tolerates the API returning ErrorMessage as either a
// string or an array of strings.
type flexibleStrings []string

func (f *flexibleStrings) UnmarshalJSON(data []byte) error {
	var many []string
	if err := json.Unmarshal(data, &many); err == nil {
		*f = many
		return nil
	}
	var one string
	if err := json.Unmarshal(data, &one); err != nil {
		return err
	}
	*f = []string{one}
	return nil
}

type parseResponse struct {
	IsErroredOnProcessing bool            `json:"IsErroredOnProcessing"`
	ErrorMessage          flexibleStrings `json:"ErrorMessage"`
	ParsedResults         []struct {
		ParsedText string `json:"ParsedText"`
	} `json:"ParsedResults"`
}

// ParseDocument submits a binary payload (image or scanned PDF) and returns
// the concatenated parsed text of all recognized regions. Options: English,
// table-optimized engine 2, orientation auto-detect, upscaling.
func (c *Client) ParseDocument(ctx context.Context, data []byte, mimeType string) (string, error) {
	if c.APIKey == "" {
		return "", apperror.NotConfigured("OCR_SPACE_API_KEY")
	}

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	_ = w.WriteField("language", "eng")
	_ = w.WriteField("isOverlayRequired", "false")
	_ = w.WriteField("detectOrientation", "true")
	_ = w.WriteField("scale", "true")
	_ = w.WriteField("OCREngine", "2") // engine 2 handles tables better

	// The file part needs an explicit content type so scanned PDFs are
	// routed to the right decoder upstream.
	header := textproto.MIMEHeader{}
	header.Set("Content-Disposition", `form-data; name="file"; filename="upload"`)
	header.Set("Content-Type", mimeType)
	part, err := w.CreatePart(header)
	if err != nil {
		return "", fmt.Errorf("ocrspace: create form file failed: %w", err)
	}
	if _, err := io.Copy(part, bytes.NewReader(data)); err != nil {
		return "", fmt.Errorf("ocrspace: write file failed: %w", err)
	}
	w.Close()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL, &buf)
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", w.FormDataContentType())
	req.Header.Set("apikey", c.APIKey)

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return "", apperror.ExtractionFailed(err, "OCR service unreachable")
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		body, _ := io.ReadAll(resp.Body)
		return "", apperror.ExtractionFailed(
			fmt.Errorf("ocrspace: status %s: %s", resp.Status, string(body)),
			fmt.Sprintf("OCR request failed: %d", resp.StatusCode))
	}

	var out parseResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", apperror.ExtractionFailed(err, "OCR response was not valid JSON")
	}
	if out.IsErroredOnProcessing {
		msg := "OCR failed"
		if len(out.ErrorMessage) > 0 && out.ErrorMessage[0] != "" {
			msg = out.ErrorMessage[0]
		}
		return "", apperror.ExtractionFailed(fmt.Errorf("ocrspace: %s", msg), msg)
	}

	texts := make([]string, 0, len(out.ParsedResults))
	for _, r := range out.ParsedResults {
		texts = append(texts, r.ParsedText)
	}
	return strings.Join(texts, "\n"), nil
}
