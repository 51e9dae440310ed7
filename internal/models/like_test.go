package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseLikeKind(t *testing.T) {
	for _, raw := range []string{"video", "comment", "tweet"} {
		kind, ok := ParseLikeKind(raw)
		assert.True(t, ok)
		assert.Equal(t, LikeKind(raw), kind)
	}

	for _, raw := range []string{"", "post", "Video", "videos"} {
		_, ok := ParseLikeKind(raw)
		assert.False(t, ok, raw)
	}
}
