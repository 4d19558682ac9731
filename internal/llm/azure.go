package llm

import (
	"context"

	"github.com/sashabaranov/go-openai"
)

const (
	AzureName = "azure-openai"

	DefaultAzureDeployment = "gpt-4-turbo"
	DefaultAzureAPIVersion = "2024-10-01-preview"
)

type AzureConfig struct {
	Endpoint   string
	APIKey     string
	Deployment string
	APIVersion string
}

// Azure calls an Azure OpenAI chat deployment.
type Azure struct {
	client     *openai.Client
	deployment string
	reason     string
}

func NewAzure(cfg AzureConfig) *Azure {
	if cfg.Endpoint == "" || cfg.APIKey == "" {
		return &Azure{reason: "AZURE_ENDPOINT and AZURE_API_KEY must both be set"}
	}
	if cfg.Deployment == "" {
		cfg.Deployment = DefaultAzureDeployment
	}
	oc := openai.DefaultAzureConfig(cfg.APIKey, cfg.Endpoint)
	if cfg.APIVersion != "" {
		oc.APIVersion = cfg.APIVersion
	} else {
		oc.APIVersion = DefaultAzureAPIVersion
	}
	deployment := cfg.Deployment
	oc.AzureModelMapperFunc = func(string) string { return deployment }
	return &Azure{client: openai.NewClientWithConfig(oc), deployment: deployment}
}

func (a *Azure) Name() string { return AzureName }

func (a *Azure) Generate(ctx context.Context, system, user string) (string, error) {
	if a.client == nil {
		return "", &ConfigurationError{Backend: AzureName, Reason: a.reason}
	}
	resp, err := a.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: a.deployment,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: system},
			{Role: openai.ChatMessageRoleUser, Content: user},
		},
		MaxTokens:   maxTokens,
		Temperature: temperature,
	})
	if err != nil {
		return "", serviceErr(AzureName, "chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", serviceErr(AzureName, "no choices returned")
	}
	return resp.Choices[0].Message.Content, nil
}
