package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"unicode/utf8"

	"github.com/justsurfingit/job-portal/internal/apperr"
	"github.com/justsurfingit/job-portal/internal/dtos"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/googleai"
)

// maxPostingChars bounds how much of a pasted posting goes into the prompt.
const maxPostingChars = 20000

type LLMService struct {
	// Client is nil when no API key is configured.
	Client llms.Model
}

// NewLLMService connects to Gemini. An empty apiKey gives a service whose
// extraction answers with an unavailable error.
func NewLLMService(ctx context.Context, apiKey, model string) (*LLMService, error) {
	if apiKey == "" {
		slog.Warn("job extraction disabled: GEMINI_API_KEY is not set")
		return &LLMService{}, nil
	}
	llm, err := googleai.New(ctx,
		googleai.WithAPIKey(apiKey),
		googleai.WithDefaultModel(model),
	)
	if err != nil {
		return nil, fmt.Errorf("create gemini client: %w", err)
	}
	return &LLMService{Client: llm}, nil
}

func (s *LLMService) Enabled() bool { return s != nil && s.Client != nil }

const jobExtractionPrompt = `
You are a recruiting assistant. Read the raw HTML or text of a job posting and draft a job opening from it.

### INSTRUCTIONS:
1. Ignore navigation menus, footers, "similar jobs" lists and advertisements.
2. Answer with valid JSON only. Do not wrap it in markdown code blocks.
3. If a value is missing, leave it out. Do not guess.

### OUTPUT SCHEMA:
{
    "title": "Job title, e.g. Senior Backend Engineer",
    "company": "Hiring company",
    "location": "City or 'Remote'",
    "job_type": "One of Full-Time, Part-Time, Contract, Internship, Freelance, Remote",
    "level": "Seniority, e.g. Junior, Mid, Senior",
    "description": "Clean summary of responsibilities without HTML tags",
    "about": "Short description of the company",
    "requirements": ["requirement", "..."],
    "tools": ["technology", "..."],
    "competency": ["soft skill", "..."],
    "salary_min": 0,
    "salary_max": 0,
    "candidates_needed": 1
}

### RAW CONTENT:
%s
`

// ExtractJobDraft asks the model to turn a pasted posting into a job draft
// the admin reviews before creating the job.
func (s *LLMService) ExtractJobDraft(ctx context.Context, req *dtos.JobExtractionRequest) (*dtos.JobCreationRequest, error) {
	if !s.Enabled() {
		return nil, apperr.New(apperr.CodeUnavailable, "job extraction is not configured")
	}
	raw := truncate(req.RawHTML, maxPostingChars)

	resp, err := llms.GenerateFromSinglePrompt(ctx, s.Client, fmt.Sprintf(jobExtractionPrompt, raw))
	if err != nil {
		return nil, apperr.Wrap(apperr.CodeNetworkFailure, "job extraction failed", err)
	}

	var draft dtos.JobCreationRequest
	if err := json.Unmarshal([]byte(stripCodeFence(resp)), &draft); err != nil {
		slog.Warn("job extraction returned invalid JSON", "err", err, "url", req.URL)
		return nil, apperr.Wrap(apperr.CodeNetworkFailure, "job extraction returned an unreadable draft", err)
	}
	if draft.CandidatesNeeded < 1 {
		draft.CandidatesNeeded = 1
	}
	if draft.SalaryMax < draft.SalaryMin {
		draft.SalaryMax = draft.SalaryMin
	}
	return &draft, nil
}

// truncate cuts s to at most n bytes without splitting a rune.
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n]
}

// stripCodeFence removes a ```json fence models add despite instructions.
func stripCodeFence(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}
