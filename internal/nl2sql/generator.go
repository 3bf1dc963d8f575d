// Package nl2sql turns natural-language questions into read-only SQL via an
// external text-completion model, and guards what comes back.
package nl2sql

//go:generate mockgen -source=generator.go -destination=mocks/mock_generator.go -package=mock_nl2sql

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"govis/internal/core"
)

// ErrEmptyQuestion is returned for a blank question.
var ErrEmptyQuestion = errors.New("question is empty")

// Generator completes a prompt into raw model text.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// Answer is one generated statement.
type Answer struct {
	SQL         string `json:"sql"`
	Explanation string `json:"explanation,omitempty"`
	RawResponse string `json:"rawResponse"`
}

// Assistant builds prompts from the schema catalog and validates the
// generated SQL before anyone runs it.
type Assistant struct {
	gen        Generator
	dialect    string
	schemaText string
	allowed    map[string]bool
}

// NewAssistant wires a generator to a schema description. gen may be nil,
// in which case only prompts can be produced.
func NewAssistant(gen Generator, dialect, schemaText string, allowed map[string]bool) *Assistant {
	return &Assistant{gen: gen, dialect: dialect, schemaText: schemaText, allowed: allowed}
}

// Available reports whether a generator is configured.
func (a *Assistant) Available() bool {
	return a.gen != nil
}

// Prompt returns the prompt for question, usable with any external model.
func (a *Assistant) Prompt(question string) (string, error) {
	if strings.TrimSpace(question) == "" {
		return "", ErrEmptyQuestion
	}
	return BuildPrompt(a.dialect, a.schemaText, question), nil
}

// Generate asks the model for SQL answering question. The statement has
// already passed ValidateReadOnly when err is nil; a rejected statement
// returns the answer together with a core.QueryRejectedError.
func (a *Assistant) Generate(ctx context.Context, question string) (Answer, error) {
	if a.gen == nil {
		return Answer{}, core.ErrGeneratorUnavailable
	}
	prompt, err := a.Prompt(question)
	if err != nil {
		return Answer{}, err
	}

	raw, err := a.gen.Generate(ctx, prompt)
	if err != nil {
		return Answer{}, fmt.Errorf("generate sql: %w", err)
	}

	ans := Answer{SQL: ExtractSQL(raw), Explanation: Explanation(raw), RawResponse: raw}
	stmt, err := ValidateReadOnly(ans.SQL, a.allowed)
	if err != nil {
		return ans, err
	}
	ans.SQL = stmt
	return ans, nil
}
