package interfaces

import "context"

type GraphRenderer interface {
	RenderPNG(ctx context.Context, mermaid string) ([]byte, error)
}
