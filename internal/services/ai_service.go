package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/tbouchet/plume/internal/core"
	"github.com/tbouchet/plume/internal/models"
)

// AIService proxies summarize and extract-actions calls to the model
// server. Every attempted call, successful or not, appends exactly one
// audit trace; no retry is ever performed.
type AIService struct {
	store core.Store
	gen   core.Generator
	model string
	log   zerolog.Logger
}

func NewAIService(store core.Store, gen core.Generator, model string, log zerolog.Logger) *AIService {
	return &AIService{store: store, gen: gen, model: model, log: log}
}

// SummarizeResult is the outcome of one summarize call.
type SummarizeResult struct {
	Summary         string `json:"summary"`
	TokensUsed      int    `json:"tokens_used"`
	ExecutionTimeMS int    `json:"execution_time_ms"`
	TraceID         string `json:"trace_id"`
}

// ExtractActionsResult is the outcome of one extract-actions call.
type ExtractActionsResult struct {
	Actions         []string `json:"actions"`
	TokensUsed      int      `json:"tokens_used"`
	ExecutionTimeMS int      `json:"execution_time_ms"`
	TraceID         string   `json:"trace_id"`
}

func (s *AIService) Summarize(ctx context.Context, userID, content string, pageID, taskID *string) (*SummarizeResult, error) {
	if strings.TrimSpace(content) == "" {
		return nil, fmt.Errorf("%w: content is required", core.ErrValidation)
	}

	prompt := fmt.Sprintf("Summarize the following text in 2-3 sentences:\n\n%s\n\nSummary:", content)
	text, tokens, elapsedMS, genErr := s.generate(ctx, prompt)

	traceID := s.writeTrace(ctx, &models.AITrace{
		UserID:           userID,
		PageID:           pageID,
		TaskID:           taskID,
		AnalysisType:     models.AnalysisSummarize,
		GeneratedContent: text,
		TokensUsed:       tokens,
		ExecutionTimeMS:  elapsedMS,
	}, genErr)

	if genErr != nil {
		return nil, fmt.Errorf("%w: %v", core.ErrAIUnavailable, genErr)
	}
	return &SummarizeResult{
		Summary:         text,
		TokensUsed:      tokens,
		ExecutionTimeMS: elapsedMS,
		TraceID:         traceID,
	}, nil
}

func (s *AIService) ExtractActions(ctx context.Context, userID, content string, pageID, taskID *string) (*ExtractActionsResult, error) {
	if strings.TrimSpace(content) == "" {
		return nil, fmt.Errorf("%w: content is required", core.ErrValidation)
	}

	prompt := fmt.Sprintf("Extract the action items from the following text, one per line:\n\n%s\n\nActions:", content)
	text, tokens, elapsedMS, genErr := s.generate(ctx, prompt)

	actions := parseActionLines(text)

	traceID := s.writeTrace(ctx, &models.AITrace{
		UserID:           userID,
		PageID:           pageID,
		TaskID:           taskID,
		AnalysisType:     models.AnalysisExtractActions,
		GeneratedContent: strings.Join(actions, "\n"),
		TokensUsed:       tokens,
		ExecutionTimeMS:  elapsedMS,
	}, genErr)

	if genErr != nil {
		return nil, fmt.Errorf("%w: %v", core.ErrAIUnavailable, genErr)
	}
	return &ExtractActionsResult{
		Actions:         actions,
		TokensUsed:      tokens,
		ExecutionTimeMS: elapsedMS,
		TraceID:         traceID,
	}, nil
}

// Heartbeat reports whether the model server is reachable.
func (s *AIService) Heartbeat(ctx context.Context) error {
	return s.gen.Heartbeat(ctx)
}

// Traces returns the caller's audit rows, newest first.
func (s *AIService) Traces(ctx context.Context, userID string) ([]models.AITrace, error) {
	return s.store.ListTraces(ctx, userID)
}

func (s *AIService) Trace(ctx context.Context, userID, id string) (*models.AITrace, error) {
	return s.store.GetTraceByID(ctx, userID, id)
}

func (s *AIService) TracesByPage(ctx context.Context, userID, pageID string) ([]models.AITrace, error) {
	return s.store.ListTracesByPage(ctx, userID, pageID)
}

func (s *AIService) generate(ctx context.Context, prompt string) (text string, tokens, elapsedMS int, err error) {
	start := time.Now()
	text, tokens, err = s.gen.Generate(ctx, s.model, prompt)
	elapsedMS = int(time.Since(start).Milliseconds())
	return text, tokens, elapsedMS, err
}

// writeTrace appends the audit row for one attempted call. A failed
// trace write must not mask the call's outcome, so it is logged and the
// returned trace id is empty.
func (s *AIService) writeTrace(ctx context.Context, trace *models.AITrace, genErr error) string {
	trace.ID = uuid.NewString()
	trace.ModelUsed = s.model
	trace.Success = genErr == nil
	trace.CreatedAt = time.Now().UTC()
	if genErr != nil {
		msg := genErr.Error()
		trace.ErrorMessage = &msg
		trace.GeneratedContent = ""
		trace.TokensUsed = 0
	}

	if err := s.store.CreateTrace(ctx, trace); err != nil {
		s.log.Error().Err(err).
			Str("analysis_type", trace.AnalysisType).
			Str("user_id", trace.UserID).
			Msg("ai trace write failed")
		return ""
	}
	return trace.ID
}

// parseActionLines normalizes the model's free-text reply into discrete
// action strings: one per line, bullets and numbering stripped, blanks
// dropped. The upstream model guarantees no structure, so this is best
// effort.
func parseActionLines(text string) []string {
	var actions []string
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		line = strings.TrimLeft(line, "-*•")
		if i := strings.IndexAny(line, ".)"); i > 0 && i <= 3 && isDigits(line[:i]) {
			line = line[i+1:]
		}
		line = strings.TrimSpace(line)
		if line != "" {
			actions = append(actions, line)
		}
	}
	return actions
}

func isDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return len(s) > 0
}
