package integrations

import (
	"context"
	"encoding/base64"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestMermaidInkRenderer_RenderPNG(t *testing.T) {
	diagram := "graph TD\n  A --> B"
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "png", r.URL.Query().Get("type"))
		encoded := strings.TrimPrefix(r.URL.Path, "/img/")
		decoded, err := base64.URLEncoding.DecodeString(encoded)
		require.NoError(t, err)
		assert.Equal(t, diagram, string(decoded))
		_, _ = w.Write([]byte("\x89PNG"))
	}))
	defer server.Close()

	renderer := NewMermaidInkRenderer(server.URL, zap.NewNop())
	png, err := renderer.RenderPNG(context.Background(), diagram)

	require.NoError(t, err)
	assert.Equal(t, []byte("\x89PNG"), png)
}

func TestMermaidInkRenderer_Failure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	renderer := NewMermaidInkRenderer(server.URL, zap.NewNop())
	_, err := renderer.RenderPNG(context.Background(), "graph TD")

	assert.EqualError(t, err, "unexpected status 502 from renderer")
}

func TestNewMermaidInkRenderer_DefaultURL(t *testing.T) {
	renderer := NewMermaidInkRenderer("", zap.NewNop())
	assert.Equal(t, DefaultMermaidURL, renderer.baseURL)
}
