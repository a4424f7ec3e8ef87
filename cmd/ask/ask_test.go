package ask

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/hashicorp/go-hclog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scan-io-git/revio/internal/aireview"
	"github.com/scan-io-git/revio/internal/findings"
	"github.com/scan-io-git/revio/internal/llm"
	"github.com/scan-io-git/revio/internal/render"
)

type stubCompleter struct {
	requests []llm.Request
	reply    llm.Completion
}

func (s *stubCompleter) Complete(_ context.Context, req llm.Request) llm.Completion {
	s.requests = append(s.requests, req)
	return s.reply
}

func writeReport(t *testing.T) string {
	t.Helper()
	f, err := findings.New("heuristic", "app.py", 3, findings.SeverityHigh, "Use of eval() detected.")
	require.NoError(t, err)
	report := findings.NewReport("/srv/app")
	require.NoError(t, report.AddFindings([]findings.Finding{f}))

	data, err := render.JSON(report.Seal())
	require.NoError(t, err)
	path := filepath.Join(t.TempDir(), "review.json")
	require.NoError(t, os.WriteFile(path, data, 0o644))
	return path
}

func TestValidateAskArgs(t *testing.T) {
	reportPath := writeReport(t)

	tests := []struct {
		name         string
		options      RunOptionsAsk
		args         []string
		wantQuestion string
		wantErr      string
	}{
		{
			// valid: revio ask -r review.json -q "why?"
			name:         "Flags",
			options:      RunOptionsAsk{ReportPath: reportPath, Question: "why?"},
			wantQuestion: "why?",
		},
		{
			// valid: revio ask -r review.json "why?"
			name:         "Positional question",
			options:      RunOptionsAsk{ReportPath: reportPath},
			args:         []string{"why?"},
			wantQuestion: "why?",
		},
		{
			name:    "Flag and positional question",
			options: RunOptionsAsk{ReportPath: reportPath, Question: "a"},
			args:    []string{"b"},
			wantErr: "invalid question: you cannot use a 'question' flag and a positional question at the same time",
		},
		{
			name:    "Blank question",
			options: RunOptionsAsk{ReportPath: reportPath, Question: "   "},
			wantErr: "invalid question: question is empty",
		},
		{
			name:    "Missing report",
			options: RunOptionsAsk{Question: "why?"},
			wantErr: "invalid report: 'report' flag must be specified",
		},
		{
			name:    "Report does not exist",
			options: RunOptionsAsk{ReportPath: filepath.Join(t.TempDir(), "missing.json"), Question: "why?"},
			wantErr: "invalid report: path stat error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateAskArgs(&tt.options, tt.args)
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantQuestion, tt.options.Question)
		})
	}
}

func TestAnswer(t *testing.T) {
	model := &stubCompleter{reply: llm.Completion{Text: "Fix the eval call first."}}
	bot := aireview.New(hclog.NewNullLogger(), model, aireview.Limits{ChatFindings: 80})

	var buf bytes.Buffer
	require.NoError(t, answer(context.Background(), &buf, bot, writeReport(t), "What first?"))

	assert.Equal(t, "Fix the eval call first.\n", buf.String())
	require.Len(t, model.requests, 1)
	assert.Contains(t, model.requests[0].UserPrompt, `"target":"/srv/app"`)
	assert.Contains(t, model.requests[0].UserPrompt, "Developer question: What first?")
}

func TestAnswerUnavailableModel(t *testing.T) {
	model := &stubCompleter{reply: llm.Unavailable("no provider configured")}
	bot := aireview.New(hclog.NewNullLogger(), model, aireview.Limits{})

	var buf bytes.Buffer
	require.NoError(t, answer(context.Background(), &buf, bot, writeReport(t), "What first?"))
	assert.Equal(t, "AI summary unavailable: no provider configured\n", buf.String())
}

func TestAnswerRejectsInvalidReport(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))

	model := &stubCompleter{}
	bot := aireview.New(hclog.NewNullLogger(), model, aireview.Limits{})
	err := answer(context.Background(), &bytes.Buffer{}, bot, path, "What first?")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to decode report")
	assert.Empty(t, model.requests)
}
