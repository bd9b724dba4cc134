package services

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
)

func TestTruncate(t *testing.T) {
	t.Run("short input unchanged", func(t *testing.T) {
		assert.Equal(t, "short", truncate("short", 120))
	})

	t.Run("exact length unchanged", func(t *testing.T) {
		s := strings.Repeat("x", 120)
		assert.Equal(t, s, truncate(s, 120))
	})

	t.Run("caps with ellipsis", func(t *testing.T) {
		got := truncate(strings.Repeat("x", 150), 120)
		assert.Len(t, got, 120)
		assert.True(t, strings.HasSuffix(got, "..."))
	})

	t.Run("never splits a multi-byte rune", func(t *testing.T) {
		// Offset by one ASCII byte so the cap lands mid-rune.
		s := "a" + strings.Repeat("ドキュメント", 20)
		got := truncate(s, 120)
		assert.True(t, utf8.ValidString(got))
		assert.LessOrEqual(t, len(got), 120)
		assert.True(t, strings.HasSuffix(got, "..."))
	})

	t.Run("japanese preview stays valid", func(t *testing.T) {
		line := strings.Repeat("検索対象の日本語ドキュメント。", 10)
		got := capPreview(line)
		assert.True(t, utf8.ValidString(got))
		assert.LessOrEqual(t, len(got), previewLength)
	})

	t.Run("japanese description stays valid", func(t *testing.T) {
		heading := strings.Repeat("はじめに読むガイド", 5)
		got := capDescription(heading)
		assert.True(t, utf8.ValidString(got))
		assert.LessOrEqual(t, len(got), maxDescriptionLength)
	})
}
