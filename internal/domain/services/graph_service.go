package services

import (
	"context"
	"encoding/base64"
	"fmt"
	"strings"

	"github.com/drujensen/wearables/internal/domain/interfaces"

	"go.uber.org/zap"
)

// PlaceholderGraph is served while the orchestrator is not initialized.
const PlaceholderGraph = "graph TD\n  A[Agent Not Initialized]"

type Transition struct {
	From  OrchestratorState
	To    OrchestratorState
	Label string
}

// StateGraph describes the orchestrator's control flow.
type StateGraph struct {
	Entry       OrchestratorState
	Terminal    OrchestratorState
	States      []OrchestratorState
	Transitions []Transition
}

func orchestratorGraph() *StateGraph {
	return &StateGraph{
		Entry:    StateAwaitingModel,
		Terminal: StateDone,
		States:   []OrchestratorState{StateAwaitingModel, StateExecutingTools, StateDone},
		Transitions: []Transition{
			{From: StateAwaitingModel, To: StateExecutingTools, Label: "tool calls"},
			{From: StateExecutingTools, To: StateAwaitingModel, Label: "tool results"},
			{From: StateAwaitingModel, To: StateDone, Label: "final answer"},
		},
	}
}

// Mermaid renders the graph as a mermaid flowchart.
func (g *StateGraph) Mermaid() string {
	var b strings.Builder
	b.WriteString("graph TD\n")
	b.WriteString("  __start__([start])\n")
	for _, state := range g.States {
		fmt.Fprintf(&b, "  %s[%s]\n", state, state)
	}
	b.WriteString("  __end__([end])\n")
	fmt.Fprintf(&b, "  __start__ --> %s\n", g.Entry)
	for _, t := range g.Transitions {
		fmt.Fprintf(&b, "  %s -->|%s| %s\n", t.From, t.Label, t.To)
	}
	fmt.Fprintf(&b, "  %s --> __end__\n", g.Terminal)
	return b.String()
}

type GraphResponse struct {
	Mermaid   string  `json:"mermaid"`
	PNGBase64 *string `json:"png_base64"`
}

type GraphService interface {
	GetGraph(ctx context.Context) *GraphResponse
}

type graphService struct {
	orchestrator Orchestrator
	renderer     interfaces.GraphRenderer
	logger       *zap.Logger
}

// NewGraphService accepts a nil orchestrator or renderer.
func NewGraphService(orchestrator Orchestrator, renderer interfaces.GraphRenderer, logger *zap.Logger) *graphService {
	return &graphService{
		orchestrator: orchestrator,
		renderer:     renderer,
		logger:       logger,
	}
}

func (s *graphService) GetGraph(ctx context.Context) *GraphResponse {
	if s.orchestrator == nil {
		return &GraphResponse{Mermaid: PlaceholderGraph}
	}

	resp := &GraphResponse{Mermaid: s.orchestrator.Graph().Mermaid()}
	if s.renderer == nil {
		return resp
	}

	png, err := s.renderer.RenderPNG(ctx, resp.Mermaid)
	if err != nil {
		s.logger.Warn("Failed to render graph image", zap.Error(err))
		return resp
	}
	if len(png) > 0 {
		encoded := base64.StdEncoding.EncodeToString(png)
		resp.PNGBase64 = &encoded
	}
	return resp
}
