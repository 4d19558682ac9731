package llm

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"google.golang.org/adk/agent"
	"google.golang.org/adk/agent/llmagent"
	"google.golang.org/adk/model"
	"google.golang.org/adk/model/gemini"
	"google.golang.org/adk/runner"
	"google.golang.org/adk/session"
	"google.golang.org/genai"
)

const (
	GeminiName = "gemini"

	DefaultGeminiModel = "gemini-2.5-pro"
	geminiAppName      = "career coach"
)

// Gemini runs a single-turn agent per call: the system prompt becomes the
// agent instruction and a throwaway in-memory session holds the exchange.
type Gemini struct {
	apiKey    string
	modelName string

	once     sync.Once
	model    model.LLM
	modelErr error
	sessions session.Service
}

func NewGemini(apiKey, modelName string) *Gemini {
	if modelName == "" {
		modelName = DefaultGeminiModel
	}
	return &Gemini{apiKey: apiKey, modelName: modelName, sessions: session.InMemoryService()}
}

func (g *Gemini) Name() string { return GeminiName }

func (g *Gemini) loadModel(ctx context.Context) (model.LLM, error) {
	g.once.Do(func() {
		g.model, g.modelErr = gemini.NewModel(ctx, g.modelName, &genai.ClientConfig{
			APIKey: g.apiKey,
		})
	})
	return g.model, g.modelErr
}

func (g *Gemini) Generate(ctx context.Context, system, user string) (string, error) {
	if g.apiKey == "" {
		return "", &ConfigurationError{Backend: GeminiName, Reason: "GOOGLE_API_KEY is empty"}
	}
	m, err := g.loadModel(ctx)
	if err != nil {
		return "", serviceErr(GeminiName, "failed to create model: %w", err)
	}

	coach, err := llmagent.New(llmagent.Config{
		Name:        "upskilling_coach",
		Model:       m,
		Description: "Write personalized upskilling plans",
		Instruction: system,
	})
	if err != nil {
		return "", serviceErr(GeminiName, "failed to create agent: %w", err)
	}
	r, err := runner.New(runner.Config{
		AppName:        geminiAppName,
		Agent:          coach,
		SessionService: g.sessions,
	})
	if err != nil {
		return "", serviceErr(GeminiName, "failed to create runner: %w", err)
	}

	created, err := g.sessions.Create(ctx, &session.CreateRequest{
		AppName:   geminiAppName,
		UserID:    "mentee",
		SessionID: uuid.NewString(),
	})
	if err != nil {
		return "", serviceErr(GeminiName, "failed to create session: %w", err)
	}
	sess := created.Session
	defer g.sessions.Delete(context.WithoutCancel(ctx), &session.DeleteRequest{
		AppName:   sess.AppName(),
		UserID:    sess.UserID(),
		SessionID: sess.ID(),
	})

	stream := r.Run(ctx, sess.UserID(), sess.ID(), &genai.Content{
		Role:  "user",
		Parts: []*genai.Part{{Text: user}},
	}, agent.RunConfig{})

	var output string
	for event, err := range stream {
		if err != nil {
			return "", serviceErr(GeminiName, "agent stream: %w", err)
		}
		if event != nil && event.IsFinalResponse() && event.Content != nil && len(event.Content.Parts) > 0 {
			output = event.Content.Parts[0].Text
		}
	}
	if output == "" {
		return "", &ServiceError{Backend: GeminiName, Err: fmt.Errorf("empty agent response")}
	}
	return output, nil
}
