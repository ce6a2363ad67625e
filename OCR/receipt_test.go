package OCR

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testClient(url string) *Client {
	return &Client{
		APIKey:     "test-key",
		URL:        url,
		HTTPClient: &http.Client{Timeout: 5 * time.Second},
	}
}

const goodReceipt = `{
	"totalAmount": {"data": 482.50, "confidenceLevel": 0.93},
	"taxAmount": {"data": 62.50, "confidenceLevel": 0.88},
	"date": {"data": "2026-08-20T14:32:00.000Z", "confidenceLevel": 0.91},
	"merchantName": {"data": "BuildMart Supply", "confidenceLevel": 0.95},
	"confidenceLevel": 0.92
}`

func TestScanReceipt(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "test-key", r.Header.Get("apikey"))
		require.NoError(t, r.ParseMultipartForm(10<<20))

		file, header, err := r.FormFile("file")
		require.NoError(t, err)
		defer file.Close()
		assert.Equal(t, "receipt.jpg", header.Filename)
		assert.Equal(t, "false", r.FormValue("extractLineItems"))

		w.Write([]byte(goodReceipt))
	}))
	defer server.Close()

	result, err := testClient(server.URL).ScanReceipt("receipt.jpg", []byte("fake image bytes"))
	require.NoError(t, err)

	assert.Equal(t, "BuildMart Supply", result.Merchant)
	assert.Equal(t, 482.50, result.Total)
	assert.Equal(t, 62.50, result.TaxAmount)
	assert.Equal(t, "2026-08-20", result.Date)
	assert.InDelta(t, 0.92, result.Confidence, 0.001)
	assert.False(t, result.NeedsReview)
}

func TestScanReceiptLowConfidenceNeedsReview(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"totalAmount":{"data":100},"merchantName":{"data":"Blurry"},"confidenceLevel":0.4}`))
	}))
	defer server.Close()

	result, err := testClient(server.URL).ScanReceipt("blurry.jpg", []byte("x"))
	require.NoError(t, err)
	assert.True(t, result.NeedsReview)
}

func TestScanReceiptMissingTotalNeedsReview(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"merchantName":{"data":"No total"},"confidenceLevel":0.9}`))
	}))
	defer server.Close()

	result, err := testClient(server.URL).ScanReceipt("r.jpg", []byte("x"))
	require.NoError(t, err)
	assert.True(t, result.NeedsReview)
	assert.Zero(t, result.Total)
}

func TestScanReceiptServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"bad image"}`, http.StatusUnprocessableEntity)
	}))
	defer server.Close()

	_, err := testClient(server.URL).ScanReceipt("r.jpg", []byte("x"))
	assert.ErrorContains(t, err, "OCR error (422)")
}

func TestClientEnabled(t *testing.T) {
	assert.True(t, testClient("http://x").Enabled())
	assert.False(t, (&Client{}).Enabled())
}
