package aireview

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/hashicorp/go-hclog"

	"github.com/scan-io-git/revio/internal/findings"
	"github.com/scan-io-git/revio/internal/llm"
	"github.com/scan-io-git/revio/internal/vcs"
	"github.com/scan-io-git/revio/pkg/shared/config"
	reviewerrors "github.com/scan-io-git/revio/pkg/shared/errors"
)

const (
	reviewSystemPrompt = "You are a senior staff engineer performing code review. " +
		"Focus on correctness, maintainability, performance, and security. " +
		"Respond with concise markdown bullet points and concrete fixes."

	reviewInstruction = "Review the static findings and changed files. " +
		"Prioritize high-impact issues and suggest concrete code-level fixes."

	chatSystemPrompt = "You are an expert code review assistant. Use the provided report context to answer " +
		"developer questions with practical, code-focused recommendations. Keep answers concise."
)

// Completer is the language model surface used here.
type Completer interface {
	Complete(ctx context.Context, req llm.Request) llm.Completion
}

// Limits caps how much of a report is sent to the model.
type Limits struct {
	SummaryFindings int
	SummaryFiles    int
	ChatFindings    int
}

// LimitsFromConfig reads the payload caps from the review section.
func LimitsFromConfig(cfg config.Review) Limits {
	return Limits{
		SummaryFindings: config.SetThen(cfg.MaxSummaryFindings, 60),
		SummaryFiles:    config.SetThen(cfg.MaxSummaryFiles, 20),
		ChatFindings:    config.SetThen(cfg.MaxChatFindings, 80),
	}
}

// Reviewer builds review prompts and asks the model.
type Reviewer struct {
	logger hclog.Logger
	model  Completer
	limits Limits
}

// New creates a Reviewer.
func New(logger hclog.Logger, model Completer, limits Limits) *Reviewer {
	return &Reviewer{logger: logger, model: model, limits: limits}
}

type reviewPayload struct {
	Summary      string             `json:"summary"`
	Findings     []findings.Finding `json:"findings"`
	ChangedFiles []vcs.ChangedFile  `json:"changed_files"`
}

type chatContext struct {
	Target        string                 `json:"target"`
	TotalFindings int                    `json:"total_findings"`
	Findings      []findings.Finding     `json:"findings"`
	AISummary     *string                `json:"ai_summary"`
	Metadata      map[string]interface{} `json:"metadata"`
}

// GenerateReview asks for a narrative over static findings and, for pull requests, the changed files.
// The result is never an error; model problems come back as an Unavailable completion.
func (r *Reviewer) GenerateReview(ctx context.Context, fs []findings.Finding, changed []vcs.ChangedFile) llm.Completion {
	payload := reviewPayload{
		Summary:      reviewInstruction,
		Findings:     head(fs, r.limits.SummaryFindings),
		ChangedFiles: head(changed, r.limits.SummaryFiles),
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return llm.Unavailable(fmt.Sprintf("failed to encode review payload: %v", err))
	}

	r.logger.Debug("requesting ai review", "findings", len(payload.Findings), "changed_files", len(payload.ChangedFiles))
	return r.model.Complete(ctx, llm.Request{
		SystemPrompt: reviewSystemPrompt,
		UserPrompt:   string(body),
	})
}

// AskReviewBot answers a developer question with the report as context.
func (r *Reviewer) AskReviewBot(ctx context.Context, report *findings.ReviewReport, question string) (llm.Completion, error) {
	question = strings.TrimSpace(question)
	if question == "" {
		return llm.Completion{}, reviewerrors.NewValidationError("question", "question is empty")
	}
	if report == nil {
		return llm.Completion{}, reviewerrors.NewValidationError("report", "report is required")
	}

	cc := chatContext{
		Target:        report.Target(),
		TotalFindings: report.Total(),
		Findings:      head(report.Findings(), r.limits.ChatFindings),
		Metadata:      report.Metadata(),
	}
	if summary, ok := report.AISummary(); ok {
		cc.AISummary = &summary
	}

	body, err := json.Marshal(cc)
	if err != nil {
		return llm.Completion{}, fmt.Errorf("failed to encode report context: %w", err)
	}

	return r.model.Complete(ctx, llm.Request{
		SystemPrompt: chatSystemPrompt,
		UserPrompt:   fmt.Sprintf("Code review context:\n%s\n\nDeveloper question: %s", body, question),
	}), nil
}

// head returns at most n leading items, never nil so the payload encodes as [].
func head[T any](items []T, n int) []T {
	if n < 0 || len(items) < n {
		n = len(items)
	}
	out := make([]T, n)
	copy(out, items[:n])
	return out
}
