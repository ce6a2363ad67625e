package LeadAgent

import (
	"encoding/json"
	"log"
	"math"
	"sort"
	"strings"

	"Crane/Models"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// CosineSimilarity between two equal-length vectors. Zero when either
// vector is empty or all zeros.
func CosineSimilarity(a, b []float64) float64 {
	if len(a) == 0 || len(a) != len(b) {
		return 0
	}
	var dot, normA, normB float64
	for i := range a {
		dot += a[i] * b[i]
		normA += a[i] * a[i]
		normB += b[i] * b[i]
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}

// RetrieveFacts returns the topK stored facts for a lead ranked by cosine
// similarity against the query embedding.
func RetrieveFacts(db *gorm.DB, llm *LLMClient, leadID uint, query string, topK int) ([]string, error) {
	var facts []Models.LeadFact
	if err := db.Where("lead_id = ?", leadID).Find(&facts).Error; err != nil {
		return nil, err
	}
	if len(facts) == 0 {
		return nil, nil
	}

	vectors, err := llm.Embed([]string{query})
	if err != nil {
		return nil, err
	}
	queryVec := vectors[0]

	type scored struct {
		fact  string
		score float64
	}
	ranked := make([]scored, 0, len(facts))
	for _, f := range facts {
		var vec []float64
		if err := json.Unmarshal(f.Embedding, &vec); err != nil {
			continue
		}
		ranked = append(ranked, scored{fact: f.Fact, score: CosineSimilarity(queryVec, vec)})
	}

	sort.Slice(ranked, func(i, j int) bool { return ranked[i].score > ranked[j].score })
	if len(ranked) > topK {
		ranked = ranked[:topK]
	}

	out := make([]string, len(ranked))
	for i, r := range ranked {
		out[i] = r.fact
	}
	return out, nil
}

const extractPrompt = `Extract durable facts about this prospective construction client from the conversation below. Facts are things worth remembering across conversations: budget, timeline, property details, preferences, decision makers. Return one fact per line, no numbering. Return NONE if there is nothing worth keeping.`

// ExtractAndStoreFacts asks the model for durable facts in the latest
// exchange, embeds them and stores them. Failures are logged, not fatal;
// the conversation already succeeded.
func ExtractAndStoreFacts(db *gorm.DB, llm *LLMClient, leadID uint, userMsg, assistantMsg string) {
	messages := []Message{
		{Role: "system", Content: extractPrompt},
		{Role: "user", Content: "Prospect: " + userMsg + "\n\nAgent: " + assistantMsg},
	}

	reply, err := llm.Chat(messages, nil)
	if err != nil {
		log.Printf("Fact extraction failed for lead %d: %v", leadID, err)
		return
	}

	var facts []string
	for _, line := range strings.Split(reply.Content, "\n") {
		line = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(line), "-"))
		if line == "" || strings.EqualFold(line, "NONE") {
			continue
		}
		facts = append(facts, line)
	}
	if len(facts) == 0 {
		return
	}

	vectors, err := llm.Embed(facts)
	if err != nil {
		log.Printf("Fact embedding failed for lead %d: %v", leadID, err)
		return
	}

	for i, fact := range facts {
		raw, err := json.Marshal(vectors[i])
		if err != nil {
			continue
		}
		record := Models.LeadFact{
			LeadID:    leadID,
			Fact:      fact,
			Embedding: datatypes.JSON(raw),
		}
		if err := db.Create(&record).Error; err != nil {
			log.Printf("Failed to store fact for lead %d: %v", leadID, err)
		}
	}
}
