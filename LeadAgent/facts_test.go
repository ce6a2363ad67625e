package LeadAgent

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"Crane/Models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "test.db")), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, Models.Migrate(db))
	return db
}

func TestCosineSimilarity(t *testing.T) {
	assert.InDelta(t, 1.0, CosineSimilarity([]float64{1, 2, 3}, []float64{1, 2, 3}), 1e-9)
	assert.InDelta(t, 0.0, CosineSimilarity([]float64{1, 0}, []float64{0, 1}), 1e-9)
	assert.InDelta(t, -1.0, CosineSimilarity([]float64{1, 0}, []float64{-1, 0}), 1e-9)

	// Degenerate inputs
	assert.Zero(t, CosineSimilarity(nil, nil))
	assert.Zero(t, CosineSimilarity([]float64{1, 2}, []float64{1}))
	assert.Zero(t, CosineSimilarity([]float64{0, 0}, []float64{1, 2}))
}

// fakeEmbedServer returns a fixed vector per input based on a lookup table.
func fakeEmbedServer(t *testing.T, vectors map[string][]float64) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/embeddings", r.URL.Path)

		var req struct {
			Input []string `json:"input"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))

		type datum struct {
			Embedding []float64 `json:"embedding"`
		}
		resp := struct {
			Data []datum `json:"data"`
		}{}
		for _, input := range req.Input {
			vec, ok := vectors[input]
			if !ok {
				vec = []float64{0, 0, 1}
			}
			resp.Data = append(resp.Data, datum{Embedding: vec})
		}
		json.NewEncoder(w).Encode(resp)
	}))
}

func TestRetrieveFacts(t *testing.T) {
	db := setupTestDB(t)

	lead := Models.Lead{Name: "Dana"}
	require.NoError(t, db.Create(&lead).Error)

	store := func(fact string, vec []float64) {
		raw, err := json.Marshal(vec)
		require.NoError(t, err)
		require.NoError(t, db.Create(&Models.LeadFact{
			LeadID: lead.ID, Fact: fact, Embedding: datatypes.JSON(raw),
		}).Error)
	}
	store("Budget around 200k", []float64{1, 0, 0})
	store("Wants a kitchen remodel", []float64{0.9, 0.1, 0})
	store("Has two dogs", []float64{0, 1, 0})

	server := fakeEmbedServer(t, map[string][]float64{
		"what is their budget": {1, 0, 0},
	})
	defer server.Close()

	llm := &LLMClient{
		APIKey:     "test",
		BaseURL:    server.URL,
		HTTPClient: &http.Client{Timeout: 5 * time.Second},
	}

	facts, err := RetrieveFacts(db, llm, lead.ID, "what is their budget", 2)
	require.NoError(t, err)
	require.Len(t, facts, 2)
	assert.Equal(t, "Budget around 200k", facts[0])
	assert.Equal(t, "Wants a kitchen remodel", facts[1])
}

func TestRetrieveFactsNoFacts(t *testing.T) {
	db := setupTestDB(t)

	lead := Models.Lead{Name: "Empty"}
	require.NoError(t, db.Create(&lead).Error)

	// No stored facts means no embedding call at all.
	llm := &LLMClient{BaseURL: "http://127.0.0.1:0", HTTPClient: &http.Client{Timeout: time.Second}}
	facts, err := RetrieveFacts(db, llm, lead.ID, "anything", 3)
	require.NoError(t, err)
	assert.Empty(t, facts)
}
