package rag

import (
	"context"
	stderrors "errors"
	"fmt"
	"log/slog"
	"net"

	"github.com/cafeops/cortado/internal/errors"
	"github.com/cafeops/cortado/internal/llm"
)

// summaryPromptFormat embeds the user query and retrieved context
// verbatim. The task line constrains length and asks for the
// identifying details the context carries.
const summaryPromptFormat = `You are a helpful assistant for ZUS Coffee internal operations.
User Request: %s

Here are the top relevant entries from our database:
%s

Task: Provide a concise, clear, and helpful summary to the user. Include the names, prices (if available), and addresses or links where applicable. Keep it under 4 sentences.`

// Summarizer turns a query plus retrieved context into a short answer.
type Summarizer struct {
	generator llm.Generator
	logger    *slog.Logger
}

// NewSummarizer creates a summarizer over the given generator.
func NewSummarizer(generator llm.Generator, logger *slog.Logger) *Summarizer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Summarizer{
		generator: generator,
		logger:    logger,
	}
}

// Summarize invokes the generator exactly once and normalizes whatever
// response shape comes back. Collaborator failures are logged with
// detail but surface as an opaque internal error.
func (s *Summarizer) Summarize(ctx context.Context, query, contextBlock string) (string, error) {
	prompt := fmt.Sprintf(summaryPromptFormat, query, contextBlock)

	resp, err := s.generator.Invoke(ctx, prompt)
	if err != nil {
		s.logger.Error("summary generation failed", "model", s.generator.ModelName(), "error", err)
		if isTimeout(err) {
			return "", errors.New(errors.ErrCodeTimeout, "language model timed out; try again", err)
		}
		return "", errors.New(errors.ErrCodeGenerationFailed, "internal error processing the query", err)
	}

	return llm.ExtractText(resp), nil
}

// isTimeout reports whether err is a deadline or net-level timeout.
func isTimeout(err error) bool {
	if stderrors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return stderrors.As(err, &netErr) && netErr.Timeout()
}
