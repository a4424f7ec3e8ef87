package aireview

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"testing"

	"github.com/hashicorp/go-hclog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scan-io-git/revio/internal/findings"
	"github.com/scan-io-git/revio/internal/llm"
	"github.com/scan-io-git/revio/internal/vcs"
	"github.com/scan-io-git/revio/pkg/shared/config"
	reviewerrors "github.com/scan-io-git/revio/pkg/shared/errors"
)

type recordingModel struct {
	requests []llm.Request
	answer   llm.Completion
}

func (m *recordingModel) Complete(_ context.Context, req llm.Request) llm.Completion {
	m.requests = append(m.requests, req)
	return m.answer
}

func makeFindings(t *testing.T, n int) []findings.Finding {
	t.Helper()
	out := make([]findings.Finding, 0, n)
	for i := 0; i < n; i++ {
		f, err := findings.New(findings.ToolRuff, "app.py", i+1, findings.SeverityMedium, fmt.Sprintf("issue %d", i))
		require.NoError(t, err)
		out = append(out, f)
	}
	return out
}

func TestLimitsFromConfig(t *testing.T) {
	assert.Equal(t, Limits{SummaryFindings: 60, SummaryFiles: 20, ChatFindings: 80}, LimitsFromConfig(config.Review{}))
	assert.Equal(t, Limits{SummaryFindings: 5, SummaryFiles: 20, ChatFindings: 80}, LimitsFromConfig(config.Review{MaxSummaryFindings: 5}))
}

func TestGenerateReviewCapsPayload(t *testing.T) {
	model := &recordingModel{answer: llm.Completion{Text: "- looks fine"}}
	r := New(hclog.NewNullLogger(), model, LimitsFromConfig(config.Review{}))

	changed := make([]vcs.ChangedFile, 25)
	for i := range changed {
		changed[i] = vcs.ChangedFile{Filename: fmt.Sprintf("f%d.py", i), Status: "modified"}
	}

	got := r.GenerateReview(context.Background(), makeFindings(t, 70), changed)
	assert.Equal(t, "- looks fine", got.String())

	require.Len(t, model.requests, 1)
	req := model.requests[0]
	assert.Contains(t, req.SystemPrompt, "senior staff engineer")

	var payload struct {
		Summary      string            `json:"summary"`
		Findings     []json.RawMessage `json:"findings"`
		ChangedFiles []json.RawMessage `json:"changed_files"`
	}
	require.NoError(t, json.Unmarshal([]byte(req.UserPrompt), &payload))
	assert.True(t, strings.HasPrefix(payload.Summary, "Review the static findings and changed files."))
	assert.Len(t, payload.Findings, 60)
	assert.Len(t, payload.ChangedFiles, 20)
}

func TestGenerateReviewEmptyLists(t *testing.T) {
	model := &recordingModel{answer: llm.Unavailable("offline")}
	r := New(hclog.NewNullLogger(), model, LimitsFromConfig(config.Review{}))

	got := r.GenerateReview(context.Background(), nil, nil)
	assert.Equal(t, "AI summary unavailable: offline", got.String())
	assert.Contains(t, model.requests[0].UserPrompt, `"findings":[]`)
	assert.Contains(t, model.requests[0].UserPrompt, `"changed_files":[]`)
}

func TestAskReviewBot(t *testing.T) {
	model := &recordingModel{answer: llm.Completion{Text: "Start with the eval call."}}
	r := New(hclog.NewNullLogger(), model, Limits{ChatFindings: 2})

	report := findings.NewReport("in-memory snippet (snippet.py)")
	require.NoError(t, report.AddFindings(makeFindings(t, 3)))
	require.NoError(t, report.SetMetadata("source", "pasted_code"))
	report.Seal()

	got, err := r.AskReviewBot(context.Background(), report, "  what first?  ")
	require.NoError(t, err)
	assert.Equal(t, "Start with the eval call.", got.Text)

	prompt := model.requests[0].UserPrompt
	require.True(t, strings.HasPrefix(prompt, "Code review context:\n"))
	assert.True(t, strings.HasSuffix(prompt, "\n\nDeveloper question: what first?"))

	raw := strings.TrimSuffix(strings.TrimPrefix(prompt, "Code review context:\n"), "\n\nDeveloper question: what first?")
	var cc struct {
		Target        string                 `json:"target"`
		TotalFindings int                    `json:"total_findings"`
		Findings      []findings.Finding     `json:"findings"`
		AISummary     *string                `json:"ai_summary"`
		Metadata      map[string]interface{} `json:"metadata"`
	}
	require.NoError(t, json.Unmarshal([]byte(raw), &cc))
	assert.Equal(t, 3, cc.TotalFindings)
	assert.Len(t, cc.Findings, 2)
	assert.Nil(t, cc.AISummary)
	assert.Equal(t, "pasted_code", cc.Metadata["source"])
}

func TestAskReviewBotRejectsEmptyQuestion(t *testing.T) {
	model := &recordingModel{}
	r := New(hclog.NewNullLogger(), model, LimitsFromConfig(config.Review{}))

	_, err := r.AskReviewBot(context.Background(), findings.NewReport("x"), " \n")
	var validationErr *reviewerrors.ValidationError
	require.ErrorAs(t, err, &validationErr)
	assert.Empty(t, model.requests)
}
