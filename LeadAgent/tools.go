package LeadAgent

import (
	"encoding/json"
	"fmt"
	"net/url"
	"strings"

	"Crane/Models"

	"github.com/PuerkitoBio/goquery"
	"github.com/gocolly/colly"
	"gorm.io/gorm"
)

// Tool is one callable the agent can invoke mid-conversation.
type Tool interface {
	Spec() ToolSpec
	Run(arguments string) (string, error)
}

// WebSearchTool scrapes a DuckDuckGo-style HTML results page for titles,
// links and snippets. The agent uses it to answer questions about local
// building codes, permits and competitor pricing.
type WebSearchTool struct {
	SearchURL  string // defaults to the DuckDuckGo HTML endpoint
	MaxResults int
}

type searchResult struct {
	Title   string `json:"title"`
	URL     string `json:"url"`
	Snippet string `json:"snippet"`
}

func NewWebSearchTool() *WebSearchTool {
	return &WebSearchTool{
		SearchURL:  "https://html.duckduckgo.com/html/",
		MaxResults: 5,
	}
}

func (t *WebSearchTool) Spec() ToolSpec {
	return NewToolSpec("web_search",
		"Search the web. Use for building codes, permit requirements, market pricing and other current information.",
		map[string]interface{}{
			"type": "object",
			"properties": map[string]interface{}{
				"query": map[string]interface{}{
					"type":        "string",
					"description": "The search query",
				},
			},
			"required": []string{"query"},
		})
}

func (t *WebSearchTool) Run(arguments string) (string, error) {
	var args struct {
		Query string `json:"query"`
	}
	if err := json.Unmarshal([]byte(arguments), &args); err != nil {
		return "", fmt.Errorf("invalid web_search arguments: %w", err)
	}
	if args.Query == "" {
		return "", fmt.Errorf("web_search requires a query")
	}

	results, err := t.search(args.Query)
	if err != nil {
		return "", err
	}
	if len(results) == 0 {
		return "No results found.", nil
	}

	out, err := json.Marshal(results)
	if err != nil {
		return "", err
	}
	return string(out), nil
}

func (t *WebSearchTool) search(query string) ([]searchResult, error) {
	var results []searchResult
	var scrapeErr error

	c := colly.NewCollector()
	c.OnHTML("div.result", func(e *colly.HTMLElement) {
		if len(results) >= t.MaxResults {
			return
		}
		title := strings.TrimSpace(e.ChildText("a.result__a"))
		link := e.ChildAttr("a.result__a", "href")
		snippet := strings.TrimSpace(e.ChildText("a.result__snippet"))
		if title == "" || link == "" {
			return
		}
		results = append(results, searchResult{
			Title:   title,
			URL:     cleanResultURL(link),
			Snippet: snippet,
		})
	})
	c.OnError(func(_ *colly.Response, err error) {
		scrapeErr = err
	})

	searchURL := t.SearchURL + "?q=" + url.QueryEscape(query)
	if err := c.Visit(searchURL); err != nil {
		return nil, fmt.Errorf("search failed: %w", err)
	}
	if scrapeErr != nil && len(results) == 0 {
		return nil, fmt.Errorf("search failed: %w", scrapeErr)
	}
	return results, nil
}

// cleanResultURL unwraps DuckDuckGo's redirect links (/l/?uddg=<target>).
func cleanResultURL(raw string) string {
	parsed, err := url.Parse(raw)
	if err != nil {
		return raw
	}
	if target := parsed.Query().Get("uddg"); target != "" {
		if decoded, err := url.QueryUnescape(target); err == nil {
			return decoded
		}
	}
	return raw
}

// ExtractPageText fetches a result page and returns its readable text,
// capped to keep prompts bounded. Used when a snippet is not enough.
func ExtractPageText(doc *goquery.Document, maxLen int) string {
	doc.Find("script, style, nav, footer").Remove()
	text := strings.Join(strings.Fields(doc.Find("body").Text()), " ")
	if len(text) > maxLen {
		text = text[:maxLen]
	}
	return text
}

// LeadLookupTool lets the agent pull what we already know about the lead.
type LeadLookupTool struct {
	DB     *gorm.DB
	LeadID uint
}

func (t *LeadLookupTool) Spec() ToolSpec {
	return NewToolSpec("lead_lookup",
		"Look up the current lead's saved profile, status and notes.",
		map[string]interface{}{
			"type":       "object",
			"properties": map[string]interface{}{},
		})
}

func (t *LeadLookupTool) Run(arguments string) (string, error) {
	var lead Models.Lead
	if err := t.DB.First(&lead, t.LeadID).Error; err != nil {
		return "", fmt.Errorf("lead not found: %w", err)
	}
	out, err := json.Marshal(map[string]interface{}{
		"name":   lead.Name,
		"email":  lead.Email,
		"phone":  lead.Phone,
		"source": lead.Source,
		"status": lead.Status,
		"notes":  lead.Notes,
	})
	if err != nil {
		return "", err
	}
	return string(out), nil
}
