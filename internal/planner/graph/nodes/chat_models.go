package nodes

import (
	"context"
	"fmt"

	"github.com/cloudwego/eino-ext/components/model/gemini"
	"github.com/cloudwego/eino/schema"
	"google.golang.org/genai"

	"github.com/wayplan-core/server/internal/planner/model"
	logx "github.com/wayplan-core/server/pkg/logger"
)

// ChatModelConfig holds the configuration for chat model creation
type ChatModelConfig struct {
	APIKey        string
	BaseURL       string
	PlannerConfig *model.PlannerModelConfig
	TextConfig    *model.TextModelConfig
}

// ChatModels holds the tool-calling planner model and the plain text model
// used for itinerary synthesis and the LLM-backed tools.
type ChatModels struct {
	Planner          *gemini.ChatModel
	Text             *gemini.ChatModel
	PlannerModelName string
	TextModelName    string
}

// NewChatModels creates both chat models with the given configuration
func NewChatModels(ctx context.Context, config ChatModelConfig) (*ChatModels, error) {
	clientCfg := &genai.ClientConfig{
		APIKey:  config.APIKey,
		Backend: genai.BackendGeminiAPI,
	}
	if config.BaseURL != "" {
		clientCfg.HTTPOptions.BaseURL = config.BaseURL
	}

	client, err := genai.NewClient(ctx, clientCfg)
	if err != nil {
		logx.Error().Err(err).Msg("Error creating Gemini client")
		return nil, fmt.Errorf("error creating Gemini client: %w", err)
	}

	planner, err := gemini.NewChatModel(ctx, &gemini.Config{
		Client:      client,
		Model:       config.PlannerConfig.Model,
		Temperature: &config.PlannerConfig.Temperature,
		MaxTokens:   &config.PlannerConfig.MaxTokens,
	})
	if err != nil {
		logx.Error().Err(err).Msg("Error creating planner model")
		return nil, fmt.Errorf("error creating planner model: %w", err)
	}

	text, err := gemini.NewChatModel(ctx, &gemini.Config{
		Client:      client,
		Model:       config.TextConfig.Model,
		Temperature: &config.TextConfig.Temperature,
		MaxTokens:   &config.TextConfig.MaxTokens,
	})
	if err != nil {
		logx.Error().Err(err).Msg("Error creating text model")
		return nil, fmt.Errorf("error creating text model: %w", err)
	}

	return &ChatModels{
		Planner:          planner,
		Text:             text,
		PlannerModelName: config.PlannerConfig.Model,
		TextModelName:    config.TextConfig.Model,
	}, nil
}

// BindToolsToPlannerModel binds the registry's declared tools to the planner model
func (cm *ChatModels) BindToolsToPlannerModel(ctx context.Context, tools []*schema.ToolInfo) error {
	if err := cm.Planner.BindTools(tools); err != nil {
		logx.Error().Err(err).Msg("Failed to bind tools")
		return fmt.Errorf("failed to bind tools: %w", err)
	}

	logx.Debug().Int("tool_count", len(tools)).Msg("Successfully bound tools to planner model")
	return nil
}
