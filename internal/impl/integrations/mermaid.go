package integrations

import (
	"context"
	"encoding/base64"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/drujensen/wearables/internal/domain/interfaces"

	"go.uber.org/zap"
)

const DefaultMermaidURL = "https://mermaid.ink"

// MermaidInkRenderer renders mermaid diagrams to PNG through mermaid.ink.
type MermaidInkRenderer struct {
	baseURL    string
	httpClient *http.Client
	logger     *zap.Logger
}

func NewMermaidInkRenderer(baseURL string, logger *zap.Logger) *MermaidInkRenderer {
	if baseURL == "" {
		baseURL = DefaultMermaidURL
	}
	return &MermaidInkRenderer{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 10 * time.Second},
		logger:     logger,
	}
}

func (r *MermaidInkRenderer) RenderPNG(ctx context.Context, mermaid string) ([]byte, error) {
	encoded := base64.URLEncoding.EncodeToString([]byte(mermaid))
	url := fmt.Sprintf("%s/img/%s?type=png", r.baseURL, encoded)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("error creating request: %v", err)
	}

	resp, err := r.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("error rendering graph: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d from renderer", resp.StatusCode)
	}

	png, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("error reading png: %v", err)
	}
	r.logger.Debug("Rendered graph", zap.Int("bytes", len(png)))
	return png, nil
}

var _ interfaces.GraphRenderer = (*MermaidInkRenderer)(nil)
