package integrations

import (
	"github.com/pkoukk/tiktoken-go"
	"go.uber.org/zap"
)

// TokenCounter estimates prompt sizes with the cl100k tokenizer.
type TokenCounter struct {
	encoding *tiktoken.Tiktoken
}

func NewTokenCounter(logger *zap.Logger) *TokenCounter {
	encoding, err := tiktoken.EncodingForModel("gpt-4")
	if err != nil {
		logger.Warn("Tokenizer unavailable, estimating by length", zap.Error(err))
		return &TokenCounter{}
	}
	return &TokenCounter{encoding: encoding}
}

// Count returns the token count of text, or len/4 without a tokenizer.
func (c *TokenCounter) Count(text string) int {
	if c.encoding == nil {
		return len(text) / 4
	}
	return len(c.encoding.Encode(text, nil, nil))
}
