package LeadAgent

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"Crane/Models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// echoTool records its invocations and returns a canned result.
type echoTool struct {
	name   string
	result string
	calls  []string
}

func (t *echoTool) Spec() ToolSpec {
	return NewToolSpec(t.name, "test tool", map[string]interface{}{"type": "object"})
}

func (t *echoTool) Run(arguments string) (string, error) {
	t.calls = append(t.calls, arguments)
	return t.result, nil
}

// scriptedLLM serves a fixed sequence of chat responses and trivial
// embeddings for the fact extraction that runs after the turn.
func scriptedLLM(t *testing.T, responses []string) (*LLMClient, *httptest.Server) {
	t.Helper()
	var call int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/chat/completions":
			if call >= len(responses) {
				// Fact extraction lands here after the scripted turn.
				w.Write([]byte(`{"choices":[{"message":{"role":"assistant","content":"NONE"}}]}`))
				return
			}
			w.Write([]byte(responses[call]))
			call++
		case "/embeddings":
			var req struct {
				Input []string `json:"input"`
			}
			json.NewDecoder(r.Body).Decode(&req)
			resp := map[string]interface{}{"data": []map[string]interface{}{}}
			data := resp["data"].([]map[string]interface{})
			for range req.Input {
				data = append(data, map[string]interface{}{"embedding": []float64{1, 0}})
			}
			resp["data"] = data
			json.NewEncoder(w).Encode(resp)
		default:
			http.NotFound(w, r)
		}
	}))

	return &LLMClient{
		APIKey:     "test",
		BaseURL:    server.URL,
		Model:      "test-model",
		HTTPClient: &http.Client{Timeout: 5 * time.Second},
	}, server
}

func newTestAgent(db *gorm.DB, llm *LLMClient, tools ...Tool) *Agent {
	return &Agent{DB: db, LLM: llm, Tools: tools}
}

func TestConversePlainReply(t *testing.T) {
	db := setupTestDB(t)
	lead := Models.Lead{Name: "Ava"}
	require.NoError(t, db.Create(&lead).Error)

	llm, server := scriptedLLM(t, []string{
		`{"choices":[{"message":{"role":"assistant","content":"We build decks. What is your budget?"}}]}`,
	})
	defer server.Close()

	agent := newTestAgent(db, llm, &echoTool{name: "noop"})

	reply, err := agent.Converse(lead.ID, "Do you build decks?")
	require.NoError(t, err)
	assert.Equal(t, "We build decks. What is your budget?", reply)

	// Both turns persisted
	var messages []Models.LeadMessage
	require.NoError(t, db.Where("lead_id = ?", lead.ID).Order("id").Find(&messages).Error)
	require.Len(t, messages, 2)
	assert.Equal(t, "user", messages[0].Role)
	assert.Equal(t, "assistant", messages[1].Role)

	// First contact advances the pipeline
	var got Models.Lead
	require.NoError(t, db.First(&got, lead.ID).Error)
	assert.Equal(t, "contacted", got.Status)
}

func TestConverseRunsToolLoop(t *testing.T) {
	db := setupTestDB(t)
	lead := Models.Lead{Name: "Ben", Status: "contacted"}
	require.NoError(t, db.Create(&lead).Error)

	toolCall := `{"choices":[{"message":{"role":"assistant","content":"","tool_calls":[{"id":"call_1","type":"function","function":{"name":"permit_check","arguments":"{\"city\":\"Austin\"}"}}]}}]}`
	final := `{"choices":[{"message":{"role":"assistant","content":"Austin requires a permit for decks over 200 sq ft."}}]}`

	llm, server := scriptedLLM(t, []string{toolCall, final})
	defer server.Close()

	tool := &echoTool{name: "permit_check", result: "permit required over 200 sqft"}
	agent := newTestAgent(db, llm, tool)

	reply, err := agent.Converse(lead.ID, "Do I need a permit in Austin?")
	require.NoError(t, err)
	assert.Contains(t, reply, "permit")
	require.Len(t, tool.calls, 1)
	assert.JSONEq(t, `{"city":"Austin"}`, tool.calls[0])
}

func TestConverseStopsRunawayToolLoop(t *testing.T) {
	db := setupTestDB(t)
	lead := Models.Lead{Name: "Loop"}
	require.NoError(t, db.Create(&lead).Error)

	toolCall := `{"choices":[{"message":{"role":"assistant","content":"","tool_calls":[{"id":"c","type":"function","function":{"name":"spin","arguments":"{}"}}]}}]}`
	llm, server := scriptedLLM(t, []string{toolCall, toolCall, toolCall, toolCall, toolCall, toolCall})
	defer server.Close()

	agent := newTestAgent(db, llm, &echoTool{name: "spin", result: "again"})

	_, err := agent.Converse(lead.ID, "loop forever")
	assert.ErrorContains(t, err, "tool rounds")
}

func TestConverseUnknownLead(t *testing.T) {
	db := setupTestDB(t)
	llm, server := scriptedLLM(t, nil)
	defer server.Close()

	agent := newTestAgent(db, llm)
	_, err := agent.Converse(999, "hello")
	assert.ErrorContains(t, err, "lead not found")
}

func TestHistoryOrderAndLimit(t *testing.T) {
	db := setupTestDB(t)
	lead := Models.Lead{Name: "Chris"}
	require.NoError(t, db.Create(&lead).Error)

	for i := 0; i < 6; i++ {
		role := "user"
		if i%2 == 1 {
			role = "assistant"
		}
		require.NoError(t, db.Create(&Models.LeadMessage{
			LeadID: lead.ID, Role: role, Content: string(rune('a' + i)),
		}).Error)
	}
	require.NoError(t, db.Create(&Models.LeadMessage{LeadID: lead.ID, Role: "tool", Content: "ignored"}).Error)

	agent := &Agent{DB: db}
	history := agent.history(lead.ID, 4)
	require.Len(t, history, 4)
	assert.Equal(t, "c", history[0].Content)
	assert.Equal(t, "f", history[3].Content)
	for _, m := range history {
		assert.NotEqual(t, "tool", m.Role)
	}
}
