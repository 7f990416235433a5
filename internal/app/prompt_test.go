package app

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/autumninthecloud/AIBillBrief/internal/model"
)

func TestBuildPromptCarriesAllSections(t *testing.T) {
	latest := time.Date(2025, 2, 14, 0, 0, 0, 0, time.UTC)
	stats := &model.BillStats{TotalBills: 312, LatestFileDate: &latest}
	history := []model.Message{
		{Role: "user", Content: "what is SB8?"},
		{Role: "assistant", Content: "SB8 amends school safety law."},
	}

	prompt := BuildPrompt(stats, history, "From [SB8](url)\n\nchunk text", "who sponsors it?")

	assert.True(t, strings.HasPrefix(prompt, "[INST]"))
	assert.Contains(t, prompt, "Total Bills Filed: 312")
	assert.Contains(t, prompt, "Latest Filing Date: 2025-02-14")
	assert.Contains(t, prompt, "<chat_history>\nuser: what is SB8?\nassistant: SB8 amends school safety law.\n</chat_history>")
	assert.Contains(t, prompt, "<context>\nFrom [SB8](url)\n\nchunk text\n</context>")
	assert.Contains(t, prompt, "<question>\nwho sponsors it?\n</question>")
	assert.Contains(t, prompt, "[/INST]")
}

func TestBuildPromptNilStats(t *testing.T) {
	prompt := BuildPrompt(nil, nil, "", "anything filed recently?")
	assert.Contains(t, prompt, "Total Bills Filed: 0")
	assert.Contains(t, prompt, "Latest Filing Date: unknown")
	assert.Contains(t, prompt, "<chat_history>\n\n</chat_history>")
}

func TestBuildPromptStatsWithoutLatestDate(t *testing.T) {
	prompt := BuildPrompt(&model.BillStats{TotalBills: 7}, nil, "", "q")
	assert.Contains(t, prompt, "Total Bills Filed: 7")
	assert.Contains(t, prompt, "Latest Filing Date: unknown")
}
