package OCR

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"time"

	"Crane/Config"
)

// Receipts below this confidence get flagged for manual review.
const reviewThreshold = 0.6

// ScanResult is what we keep from an OCR pass over a receipt image.
type ScanResult struct {
	Merchant    string  `json:"merchant"`
	Total       float64 `json:"total"`
	TaxAmount   float64 `json:"tax_amount"`
	Date        string  `json:"date"` // YYYY-MM-DD
	Confidence  float64 `json:"confidence"`
	NeedsReview bool    `json:"needs_review"`
}

// taggunResponse mirrors the fields we read from the verbose receipt API.
type taggunResponse struct {
	TotalAmount struct {
		Data             float64 `json:"data"`
		ConfidenceLevel  float64 `json:"confidenceLevel"`
	} `json:"totalAmount"`
	TaxAmount struct {
		Data            float64 `json:"data"`
		ConfidenceLevel float64 `json:"confidenceLevel"`
	} `json:"taxAmount"`
	Date struct {
		Data            string  `json:"data"`
		ConfidenceLevel float64 `json:"confidenceLevel"`
	} `json:"date"`
	MerchantName struct {
		Data            string  `json:"data"`
		ConfidenceLevel float64 `json:"confidenceLevel"`
	} `json:"merchantName"`
	ConfidenceLevel float64 `json:"confidenceLevel"`
}

// Client posts receipt images to a Taggun-style OCR endpoint.
type Client struct {
	APIKey     string
	URL        string
	HTTPClient *http.Client
}

func NewClient() *Client {
	return &Client{
		APIKey:     Config.AppConfig.OCRAPIKey,
		URL:        Config.AppConfig.OCRURL,
		HTTPClient: &http.Client{Timeout: 60 * time.Second},
	}
}

func (c *Client) Enabled() bool { return c.APIKey != "" }

// ScanReceipt uploads the image and extracts merchant, total, tax and date.
func (c *Client) ScanReceipt(filename string, image []byte) (*ScanResult, error) {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	part, err := writer.CreateFormFile("file", filename)
	if err != nil {
		return nil, err
	}
	if _, err := part.Write(image); err != nil {
		return nil, err
	}
	if err := writer.WriteField("extractLineItems", "false"); err != nil {
		return nil, err
	}
	if err := writer.Close(); err != nil {
		return nil, err
	}

	req, err := http.NewRequest("POST", c.URL, &buf)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())
	req.Header.Set("apikey", c.APIKey)

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("OCR request failed: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode >= 400 {
		return nil, fmt.Errorf("OCR error (%d): %s", resp.StatusCode, string(data))
	}

	var parsed taggunResponse
	if err := json.Unmarshal(data, &parsed); err != nil {
		return nil, fmt.Errorf("failed to decode OCR response: %w", err)
	}

	result := &ScanResult{
		Merchant:   parsed.MerchantName.Data,
		Total:      parsed.TotalAmount.Data,
		TaxAmount:  parsed.TaxAmount.Data,
		Confidence: parsed.ConfidenceLevel,
	}

	// Taggun dates come back RFC3339; the rest of the app keys on days.
	if parsed.Date.Data != "" {
		if t, err := time.Parse(time.RFC3339, parsed.Date.Data); err == nil {
			result.Date = t.Format("2006-01-02")
		}
	}

	result.NeedsReview = result.Confidence < reviewThreshold || result.Total == 0
	return result, nil
}
