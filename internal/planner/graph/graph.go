package graph

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/cloudwego/eino/compose"
	"github.com/google/uuid"

	errx "github.com/wayplan-core/server/internal/core/error"
	"github.com/wayplan-core/server/internal/planner/graph/nodes"
	"github.com/wayplan-core/server/internal/planner/graph/observers"
	"github.com/wayplan-core/server/internal/planner/graph/results"
	"github.com/wayplan-core/server/internal/planner/graph/tools"
	"github.com/wayplan-core/server/internal/planner/model"
	logx "github.com/wayplan-core/server/pkg/logger"
)

// Planner executes one complete trip-planning run per call. Each run owns its
// own conversation and trip state; concurrent calls never interfere.
type Planner interface {
	PlanTrip(ctx context.Context, req model.TripRequest) (*model.TripState, error)
}

// Config holds everything needed to compose the trip-planning graph
// end-to-end. This is a convenience layer over GraphConfig that also
// constructs ChatModels and the tool registry.
type Config struct {
	APIKey  string
	BaseURL string

	PlannerModel model.PlannerModelConfig
	TextModel    model.TextModelConfig
	Workflow     model.WorkflowConfig
	Weather      model.WeatherConfig
	Currency     model.CurrencyConfig

	Store model.TripStore
}

// GraphConfig holds all configuration needed to build the graph
type GraphConfig struct {
	ChatModels    *nodes.ChatModels
	Registry      *tools.Registry
	MaxToolCycles int
}

// GraphBuilder handles the construction of the trip-planning graph
type GraphBuilder struct {
	config *GraphConfig
	graph  *compose.Graph[model.PlanInput, *model.TripState]
}

type tripPlanner struct {
	runnable compose.Runnable[model.PlanInput, *model.TripState]
	registry *tools.Registry
	store    model.TripStore
}

func (p *tripPlanner) PlanTrip(ctx context.Context, req model.TripRequest) (*model.TripState, error) {
	tripID := uuid.NewString()

	out, err := p.runnable.Invoke(ctx, model.PlanInput{
		TripID:  tripID,
		Request: req,
	}, compose.WithCallbacks(observers.NewAllCallbacks()))
	if err != nil {
		logx.Error().Err(err).Str("trip_id", tripID).Msg("Trip planning run failed")
		return nil, errx.New(err, http.StatusBadGateway, errx.ModelErrorMessage)
	}
	if out == nil {
		return nil, errx.New(fmt.Errorf("graph returned no state"), http.StatusInternalServerError, errx.SystemErrorMessage)
	}

	if p.store != nil {
		if err := p.store.Save(ctx, out); err != nil {
			logx.Error().Err(err).Str("trip_id", tripID).Msg("Failed to persist trip plan")
			return nil, fmt.Errorf("store trip plan: %w", err)
		}
	}

	logx.Info().Str("trip_id", tripID).
		Str("from", req.FromCity).Str("to", req.ToCity).
		Msg("Trip plan completed")
	return out, nil
}

// InvokeTool runs a single registered tool directly, bypassing the workflow,
// for the direct tool endpoints.
func (p *tripPlanner) InvokeTool(ctx context.Context, name, argumentsJSON string) (string, error) {
	return p.registry.Invoke(ctx, name, argumentsJSON)
}

// BuildTripPlanner composes ChatModels and the tool registry, builds the
// graph, and returns a Planner.
func BuildTripPlanner(ctx context.Context, cfg Config) (*tripPlanner, error) {
	cms, err := nodes.NewChatModels(ctx, nodes.ChatModelConfig{
		APIKey:        cfg.APIKey,
		BaseURL:       cfg.BaseURL,
		PlannerConfig: &cfg.PlannerModel,
		TextConfig:    &cfg.TextModel,
	})
	if err != nil {
		return nil, err
	}

	registry := tools.NewRegistry(tools.Deps{
		Text:     cms.Text,
		Weather:  cfg.Weather,
		Currency: cfg.Currency,
	})

	runnable, err := BuildGraph(ctx, &GraphConfig{
		ChatModels:    cms,
		Registry:      registry,
		MaxToolCycles: cfg.Workflow.MaxToolCycles,
	})
	if err != nil {
		return nil, err
	}

	logx.Debug().Msg("Trip-planning graph built successfully")
	return &tripPlanner{runnable: runnable, registry: registry, store: cfg.Store}, nil
}

// BuildGraph constructs and returns the compiled trip-planning graph
func BuildGraph(ctx context.Context, config *GraphConfig) (compose.Runnable[model.PlanInput, *model.TripState], error) {
	// Basic config validation
	if config == nil {
		return nil, fmt.Errorf("graph config is nil")
	}
	if config.ChatModels == nil || config.ChatModels.Planner == nil || config.ChatModels.Text == nil {
		return nil, fmt.Errorf("chat models are not properly initialized")
	}
	if config.Registry == nil {
		return nil, fmt.Errorf("tool registry is nil")
	}

	builder := &GraphBuilder{
		config: config,
		graph: compose.NewGraph[model.PlanInput, *model.TripState](
			compose.WithGenLocalState(func(ctx context.Context) *model.PlanState {
				return &model.PlanState{}
			}),
		),
	}

	if err := builder.setupTools(ctx); err != nil {
		return nil, err
	}

	builder.addNodes()
	builder.addEdges()

	if err := builder.addBranches(); err != nil {
		return nil, err
	}

	return builder.compile(ctx)
}

// setupTools binds the registry's declared tools to the planner model and
// adds the tool executor node. Calls within one dispatch turn may run
// concurrently; the node returns only once all of them completed.
func (b *GraphBuilder) setupTools(ctx context.Context) error {
	toolInfos, err := b.config.Registry.Infos(ctx)
	if err != nil {
		logx.Error().Err(err).Msg("Failed to get tool infos")
		return fmt.Errorf("failed to get tool infos: %w", err)
	}

	if err := b.config.ChatModels.BindToolsToPlannerModel(ctx, toolInfos); err != nil {
		logx.Error().Err(err).Msg("Failed to bind tools to planner model")
		return fmt.Errorf("failed to bind tools to planner model: %w", err)
	}

	toolsNode, err := compose.NewToolNode(ctx, &compose.ToolsNodeConfig{
		Tools: b.config.Registry.Tools(),
		UnknownToolsHandler: func(ctx context.Context, name, input string) (string, error) {
			// A name outside the registry means the model and the declared
			// capabilities disagree. That is a configuration defect, not a
			// lookup failure, so the run aborts loudly.
			logx.Error().
				Str("tool_name", name).
				Str("arguments", input).
				Msg("Unknown tool requested - aborting run")
			return "", fmt.Errorf("unknown tool %q requested by model", name)
		},
		ToolArgumentsHandler: func(ctx context.Context, name, arguments string) (string, error) {
			// Best-effort sanitize; never fail hard here
			var m map[string]any
			if err := json.Unmarshal([]byte(arguments), &m); err != nil {
				// keep original if not JSON
				return arguments, nil
			}

			for _, key := range []string{"city", "from_city", "to_city", "date"} {
				if v, ok := m[key]; ok {
					switch vv := v.(type) {
					case string:
						m[key] = strings.TrimSpace(vv)
					default:
						m[key] = strings.TrimSpace(fmt.Sprint(v))
					}
				}
			}
			for _, key := range []string{"num_days", "num_adults", "num_kids"} {
				if v, ok := m[key]; ok {
					switch vv := v.(type) {
					case float64:
						// JSON numbers decode as float64
						m[key] = int(vv)
					case string:
						trimmed := strings.TrimSpace(vv)
						var n int
						if _, err := fmt.Sscanf(trimmed, "%d", &n); err == nil {
							m[key] = n
						} else {
							delete(m, key)
						}
					default:
						delete(m, key)
					}
				}
			}

			b, err := json.Marshal(m)
			if err != nil {
				// fallback to original
				return arguments, nil
			}
			return string(b), nil
		},
	})
	if err != nil {
		logx.Error().Err(err).Msg("Failed to create tools node")
		return fmt.Errorf("failed to create tools node: %w", err)
	}

	b.graph.AddToolsNode(nodes.NodeToolExecutor, toolsNode,
		compose.WithStatePreHandler(nodes.NewToolExecutorPreHandler(b.config.MaxToolCycles)),
	)

	return nil
}

// addNodes adds all processing nodes to the graph
func (b *GraphBuilder) addNodes() {
	b.graph.AddLambdaNode(nodes.NodeTripSeeder,
		nodes.NewTripSeederNode(),
		compose.WithStatePreHandler(nodes.NewTripSeederPreHandler()),
	)

	b.graph.AddChatModelNode(nodes.NodePlannerModel,
		b.config.ChatModels.Planner,
		compose.WithStatePreHandler(nodes.NewPlannerModelPreHandler(b.config.MaxToolCycles)),
		compose.WithStatePostHandler(nodes.NewPlannerModelPostHandler(b.config.ChatModels.PlannerModelName)),
	)

	b.graph.AddLambdaNode(nodes.NodeClassifier,
		nodes.NewClassifierNode(results.NewClassifier(b.config.Registry)),
	)

	b.graph.AddLambdaNode(nodes.NodeItinerary,
		nodes.NewItineraryNode(b.config.ChatModels.Text, b.config.ChatModels.TextModelName),
	)

	b.graph.AddLambdaNode(nodes.NodeExpenses,
		nodes.NewExpenseNode(),
	)
}

// addEdges creates the main flow connections between nodes
func (b *GraphBuilder) addEdges() {
	edges := [][2]string{
		{compose.START, nodes.NodeTripSeeder},
		{nodes.NodeTripSeeder, nodes.NodePlannerModel},
		{nodes.NodeToolExecutor, nodes.NodePlannerModel},
		{nodes.NodeClassifier, nodes.NodeItinerary},
		{nodes.NodeItinerary, nodes.NodeExpenses},
		{nodes.NodeExpenses, compose.END},
	}

	for _, edge := range edges {
		b.graph.AddEdge(edge[0], edge[1])
	}
}

// addBranches creates the conditional routing out of the planner model
func (b *GraphBuilder) addBranches() error {
	dispatchBranch := compose.NewGraphBranch(
		nodes.NewToolRouterCondition(),
		map[string]bool{
			nodes.NodeToolExecutor: true,
			nodes.NodeClassifier:   true,
		},
	)
	if err := b.graph.AddBranch(nodes.NodePlannerModel, dispatchBranch); err != nil {
		logx.Error().Err(err).Msg("Error adding tool dispatch branch")
		return fmt.Errorf("error adding tool dispatch branch: %w", err)
	}

	return nil
}

// compile finalizes and compiles the graph
func (b *GraphBuilder) compile(ctx context.Context) (compose.Runnable[model.PlanInput, *model.TripState], error) {
	// Limit total run steps to bound the loop even against a misbehaving model
	maxCycles := b.config.MaxToolCycles
	if maxCycles <= 0 {
		maxCycles = nodes.DefaultMaxToolCycles
	}
	maxSteps := 8 + maxCycles*2
	if maxSteps < 20 {
		maxSteps = 20
	}

	runnable, err := b.graph.Compile(ctx, compose.WithMaxRunSteps(maxSteps))
	if err != nil {
		logx.Error().Err(err).Msg("Error compiling graph")
		return nil, fmt.Errorf("error compiling graph: %w", err)
	}

	logx.Debug().Msg("Graph compiled successfully")
	return runnable, nil
}
