package LeadAgent

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"Crane/Models"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCleanResultURL(t *testing.T) {
	wrapped := "https://duckduckgo.com/l/?uddg=https%3A%2F%2Fexample.com%2Fpermits&rut=abc"
	assert.Equal(t, "https://example.com/permits", cleanResultURL(wrapped))

	// Direct links pass through
	assert.Equal(t, "https://example.com", cleanResultURL("https://example.com"))
	assert.Equal(t, "::bad::", cleanResultURL("::bad::"))
}

const searchPage = `<html><body>
<div class="result">
  <a class="result__a" href="https://duckduckgo.com/l/?uddg=https%3A%2F%2Fcity.gov%2Fpermits">Permit requirements</a>
  <a class="result__snippet">How to get a building permit.</a>
</div>
<div class="result">
  <a class="result__a" href="https://builder.example.com/pricing">Builder pricing</a>
  <a class="result__snippet">Average remodel costs.</a>
</div>
<div class="result">
  <a class="result__a" href=""></a>
</div>
</body></html>`

func TestWebSearchToolRun(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "building permits", r.URL.Query().Get("q"))
		w.Header().Set("Content-Type", "text/html")
		w.Write([]byte(searchPage))
	}))
	defer server.Close()

	tool := &WebSearchTool{SearchURL: server.URL, MaxResults: 5}

	out, err := tool.Run(`{"query":"building permits"}`)
	require.NoError(t, err)

	var results []searchResult
	require.NoError(t, json.Unmarshal([]byte(out), &results))
	require.Len(t, results, 2)
	assert.Equal(t, "Permit requirements", results[0].Title)
	assert.Equal(t, "https://city.gov/permits", results[0].URL)
	assert.Equal(t, "How to get a building permit.", results[0].Snippet)
	assert.Equal(t, "https://builder.example.com/pricing", results[1].URL)
}

func TestWebSearchToolRejectsBadArguments(t *testing.T) {
	tool := NewWebSearchTool()

	_, err := tool.Run(`{`)
	assert.Error(t, err)

	_, err = tool.Run(`{"query":""}`)
	assert.Error(t, err)
}

func TestWebSearchToolMaxResults(t *testing.T) {
	var page strings.Builder
	page.WriteString("<html><body>")
	for i := 0; i < 10; i++ {
		page.WriteString(`<div class="result"><a class="result__a" href="https://example.com">Result</a></div>`)
	}
	page.WriteString("</body></html>")

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		w.Write([]byte(page.String()))
	}))
	defer server.Close()

	tool := &WebSearchTool{SearchURL: server.URL, MaxResults: 3}
	results, err := tool.search("anything")
	require.NoError(t, err)
	assert.Len(t, results, 3)
}

func TestExtractPageText(t *testing.T) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(
		`<html><body><script>var x=1;</script><nav>menu</nav><p>Useful   content here.</p><footer>foot</footer></body></html>`))
	require.NoError(t, err)

	text := ExtractPageText(doc, 100)
	assert.Equal(t, "Useful content here.", text)

	text = ExtractPageText(doc, 6)
	assert.Equal(t, "Useful", text)
}

func TestLeadLookupTool(t *testing.T) {
	db := setupTestDB(t)

	lead := Models.Lead{Name: "Sam", Email: "sam@example.com", Source: "website", Notes: "wants a deck"}
	require.NoError(t, db.Create(&lead).Error)

	tool := &LeadLookupTool{DB: db, LeadID: lead.ID}
	out, err := tool.Run("{}")
	require.NoError(t, err)

	var got map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Equal(t, "Sam", got["name"])
	assert.Equal(t, "new", got["status"])
	assert.Equal(t, "wants a deck", got["notes"])

	missing := &LeadLookupTool{DB: db, LeadID: 9999}
	_, err = missing.Run("{}")
	assert.Error(t, err)
}
