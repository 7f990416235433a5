package app

import (
	"fmt"
	"strings"

	"github.com/autumninthecloud/AIBillBrief/internal/model"
)

// NoInformationAnswer is what the orchestrator returns when retrieval comes
// back empty; the model is never consulted without context.
const NoInformationAnswer = "I don't have information about that in my current bill database. " +
	"Try asking about a specific bill (for example SB1 or HB1001), a sponsor, or recent filings."

const promptTemplate = `[INST]
You are a helpful AI assistant specifically focused on Arkansas legislative bills filed for the 2025 session. Your purpose is to help users understand and navigate these bills.

Current Bill Statistics:
- Total Bills Filed: %d
- Latest Filing Date: %s

IMPORTANT RESPONSE GUIDELINES:
1. ONLY answer questions about Arkansas legislative bills for the 2025 session
2. If a user asks about bills from other states, federal legislation, past Arkansas sessions, or non-legislative topics, say that topic is outside your scope
3. For valid questions, use the context provided between <context> tags and chat history between <chat_history> tags
4. Never say "according to the provided context" or similar phrases
5. For questions about bill counts or statistics, use the Current Bill Statistics provided above
6. If you can't find information about a specific bill in the context, say "I don't have information about that specific bill in my current database."
7. When referring to bills, use the markdown link format provided in the context. For example: [SB1](URL)

<chat_history>
%s
</chat_history>
<context>
%s
</context>
<question>
%s
</question>
[/INST]
Answer:
`

// BuildPrompt assembles the completion prompt from corpus statistics, the
// bounded chat-history window, the rendered retrieval context and the user
// question.
func BuildPrompt(stats *model.BillStats, history []model.Message, context, question string) string {
	total := int64(0)
	latest := "unknown"
	if stats != nil {
		total = stats.TotalBills
		if stats.LatestFileDate != nil {
			latest = stats.LatestFileDate.Format("2006-01-02")
		}
	}
	return fmt.Sprintf(promptTemplate, total, latest, renderHistory(history), context, question)
}

func renderHistory(history []model.Message) string {
	if len(history) == 0 {
		return ""
	}
	lines := make([]string, 0, len(history))
	for _, m := range history {
		lines = append(lines, m.Role+": "+m.Content)
	}
	return strings.Join(lines, "\n")
}
