package integrations

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTokenCounter_Fallback(t *testing.T) {
	counter := &TokenCounter{}
	assert.Equal(t, 2, counter.Count("12345678"))
	assert.Equal(t, 0, counter.Count(""))
}
