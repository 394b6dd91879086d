package services

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/tbouchet/plume/internal/core"
	db "github.com/tbouchet/plume/internal/core/database"
)

type stubGenerator struct {
	text   string
	tokens int
	err    error
}

func (g *stubGenerator) Generate(ctx context.Context, model, prompt string) (string, int, error) {
	if g.err != nil {
		return "", 0, g.err
	}
	return g.text, g.tokens, nil
}

func (g *stubGenerator) Heartbeat(ctx context.Context) error {
	return g.err
}

func TestSummarizeWritesSuccessTrace(t *testing.T) {
	store := db.NewMemoryClient()
	gen := &stubGenerator{text: "A short summary.", tokens: 42}
	svc := NewAIService(store, gen, "mistral:7b", zerolog.Nop())

	res, err := svc.Summarize(context.Background(), "u1", "long note content", nil, nil)
	require.NoError(t, err)
	require.Equal(t, "A short summary.", res.Summary)
	require.Equal(t, 42, res.TokensUsed)
	require.NotEmpty(t, res.TraceID)

	trace, err := store.GetTraceByID(context.Background(), "u1", res.TraceID)
	require.NoError(t, err)
	require.True(t, trace.Success)
	require.Equal(t, "summarize", trace.AnalysisType)
	require.Equal(t, "A short summary.", trace.GeneratedContent)
	require.Equal(t, "mistral:7b", trace.ModelUsed)
	require.Equal(t, 42, trace.TokensUsed)
	require.Nil(t, trace.ErrorMessage)
}

func TestSummarizeWritesFailureTrace(t *testing.T) {
	store := db.NewMemoryClient()
	gen := &stubGenerator{err: errors.New("connection refused")}
	svc := NewAIService(store, gen, "mistral:7b", zerolog.Nop())

	_, err := svc.Summarize(context.Background(), "u1", "some content", nil, nil)
	require.ErrorIs(t, err, core.ErrAIUnavailable)

	traces, err := store.ListTraces(context.Background(), "u1")
	require.NoError(t, err)
	require.Len(t, traces, 1)
	require.False(t, traces[0].Success)
	require.NotNil(t, traces[0].ErrorMessage)
	require.Contains(t, *traces[0].ErrorMessage, "connection refused")
	require.Empty(t, traces[0].GeneratedContent)
	require.Zero(t, traces[0].TokensUsed)
}

func TestSummarizeRejectsEmptyContent(t *testing.T) {
	store := db.NewMemoryClient()
	svc := NewAIService(store, &stubGenerator{}, "mistral:7b", zerolog.Nop())

	_, err := svc.Summarize(context.Background(), "u1", "   ", nil, nil)
	require.ErrorIs(t, err, core.ErrValidation)

	traces, err := store.ListTraces(context.Background(), "u1")
	require.NoError(t, err)
	require.Empty(t, traces)
}

func TestExtractActionsParsesBulletsAndNumbering(t *testing.T) {
	store := db.NewMemoryClient()
	gen := &stubGenerator{
		text:   "- Buy milk\n* Call the dentist\n1. Send the report\n2) Review the draft\n\n• Water the plants\n",
		tokens: 10,
	}
	svc := NewAIService(store, gen, "mistral:7b", zerolog.Nop())

	res, err := svc.ExtractActions(context.Background(), "u1", "meeting notes", nil, nil)
	require.NoError(t, err)
	require.Equal(t, []string{
		"Buy milk",
		"Call the dentist",
		"Send the report",
		"Review the draft",
		"Water the plants",
	}, res.Actions)

	trace, err := store.GetTraceByID(context.Background(), "u1", res.TraceID)
	require.NoError(t, err)
	require.Equal(t, "extract_actions", trace.AnalysisType)
	require.True(t, trace.Success)
}

func TestExtractActionsFailureStillTraces(t *testing.T) {
	store := db.NewMemoryClient()
	gen := &stubGenerator{err: errors.New("model not loaded")}
	svc := NewAIService(store, gen, "mistral:7b", zerolog.Nop())

	_, err := svc.ExtractActions(context.Background(), "u1", "notes", nil, nil)
	require.ErrorIs(t, err, core.ErrAIUnavailable)

	traces, err := store.ListTraces(context.Background(), "u1")
	require.NoError(t, err)
	require.Len(t, traces, 1)
	require.Equal(t, "extract_actions", traces[0].AnalysisType)
	require.False(t, traces[0].Success)
}

func TestTracesAreScopedToUser(t *testing.T) {
	store := db.NewMemoryClient()
	svc := NewAIService(store, &stubGenerator{text: "ok", tokens: 1}, "mistral:7b", zerolog.Nop())

	res, err := svc.Summarize(context.Background(), "u1", "content", nil, nil)
	require.NoError(t, err)

	_, err = store.GetTraceByID(context.Background(), "u2", res.TraceID)
	require.ErrorIs(t, err, core.ErrNotFound)
}
