package LeadAgent

import (
	"fmt"
	"log"

	"Crane/Models"

	"gorm.io/gorm"
)

const systemPrompt = `You are the sales assistant for a construction company. You answer questions about our services, qualify prospective clients and collect project details (scope, budget, timeline, property). Be concrete and brief. Use web_search when asked about codes, permits or market rates. Use lead_lookup to recall what we know about this prospect. Never invent prices; offer to prepare a quote instead.`

// The conversation runs as a small node graph:
//
//	recall -> converse -> (tools)* -> extract -> end
//
// recall loads top-k facts for the incoming message, converse loops the
// model with tools until it stops calling them, extract persists new facts.
const maxToolRounds = 4

// Agent orchestrates one lead conversation turn.
type Agent struct {
	DB    *gorm.DB
	LLM   *LLMClient
	Tools []Tool
}

func NewAgent(db *gorm.DB) *Agent {
	return &Agent{
		DB:  db,
		LLM: NewLLMClient(),
	}
}

// toolset builds the per-lead tool list. The web search tool is shared;
// lead lookup is bound to the lead.
func (a *Agent) toolset(leadID uint) []Tool {
	if a.Tools != nil {
		return a.Tools
	}
	return []Tool{
		NewWebSearchTool(),
		&LeadLookupTool{DB: a.DB, LeadID: leadID},
	}
}

// Converse handles one user message for a lead and returns the reply.
// Both sides of the exchange are persisted as LeadMessages.
func (a *Agent) Converse(leadID uint, userMessage string) (string, error) {
	var lead Models.Lead
	if err := a.DB.First(&lead, leadID).Error; err != nil {
		return "", fmt.Errorf("lead not found: %w", err)
	}

	// recall node
	facts, err := RetrieveFacts(a.DB, a.LLM, leadID, userMessage, 5)
	if err != nil {
		// Retrieval is best effort; the turn still works without memory.
		log.Printf("Fact retrieval failed for lead %d: %v", leadID, err)
	}

	messages := []Message{{Role: "system", Content: systemPrompt}}
	if len(facts) > 0 {
		memo := "Known facts about this prospect:\n"
		for _, f := range facts {
			memo += "- " + f + "\n"
		}
		messages = append(messages, Message{Role: "system", Content: memo})
	}
	messages = append(messages, a.history(leadID, 10)...)
	messages = append(messages, Message{Role: "user", Content: userMessage})

	tools := a.toolset(leadID)
	specs := make([]ToolSpec, len(tools))
	byName := make(map[string]Tool, len(tools))
	for i, t := range tools {
		specs[i] = t.Spec()
		byName[t.Spec().Function.Name] = t
	}

	// converse node: loop while the model keeps calling tools
	var reply *Message
	for round := 0; ; round++ {
		reply, err = a.LLM.Chat(messages, specs)
		if err != nil {
			return "", err
		}
		if len(reply.ToolCalls) == 0 {
			break
		}
		if round >= maxToolRounds {
			return "", fmt.Errorf("agent exceeded %d tool rounds", maxToolRounds)
		}

		messages = append(messages, *reply)
		for _, call := range reply.ToolCalls {
			tool, ok := byName[call.Function.Name]
			var result string
			if !ok {
				result = fmt.Sprintf("unknown tool %q", call.Function.Name)
			} else if result, err = tool.Run(call.Function.Arguments); err != nil {
				log.Printf("Tool %s failed for lead %d: %v", call.Function.Name, leadID, err)
				result = "tool error: " + err.Error()
			}
			messages = append(messages, Message{
				Role:       "tool",
				Content:    result,
				ToolCallID: call.ID,
			})
		}
	}

	a.DB.Create(&Models.LeadMessage{LeadID: leadID, Role: "user", Content: userMessage})
	a.DB.Create(&Models.LeadMessage{LeadID: leadID, Role: "assistant", Content: reply.Content})

	// First agent contact moves a fresh lead along the pipeline.
	if lead.Status == "new" {
		a.DB.Model(&lead).Update("status", "contacted")
	}

	// extract node, off the request path
	go ExtractAndStoreFacts(a.DB, a.LLM, leadID, userMessage, reply.Content)

	return reply.Content, nil
}

// history returns the last n stored messages in chronological order,
// skipping tool output.
func (a *Agent) history(leadID uint, n int) []Message {
	var records []Models.LeadMessage
	if err := a.DB.Where("lead_id = ? AND role IN ?", leadID, []string{"user", "assistant"}).
		Order("id DESC").Limit(n).Find(&records).Error; err != nil {
		return nil
	}
	out := make([]Message, len(records))
	for i, r := range records {
		out[len(records)-1-i] = Message{Role: r.Role, Content: r.Content}
	}
	return out
}
