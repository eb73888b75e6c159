package interfaces

import (
	"context"

	"github.com/drujensen/wearables/internal/domain/entities"
)

// ToolExecutor exposes the static tool set to the orchestrator.
type ToolExecutor interface {
	Specs() []*entities.ToolSpec
	// Execute runs the named tool. An unknown name yields a *errors.NotFoundError.
	Execute(ctx context.Context, name string, arguments map[string]any) (string, error)
}
