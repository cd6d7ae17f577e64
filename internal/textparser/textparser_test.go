package textparser

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zgsm-ai/response-parser/internal/types"
)

func TestParser_PlainProse(t *testing.T) {
	tree := New().Parse("Just a sentence about nothing in particular.")

	assert.Equal(t, "text", tree.Provider)
	assert.True(t, tree.Metadata.IsComplete)
	require.Len(t, tree.Children, 1)

	text, ok := tree.Children[0].(*types.TextNode)
	require.True(t, ok)
	assert.Equal(t, FormatMarkdown, text.Format)
	assert.Equal(t, "Just a sentence about nothing in particular.", text.Content)
}

func TestParser_SplitsCodeBlocks(t *testing.T) {
	input := "Here is an example:\n\n```go\nfmt.Println(\"hi\")\n```\n\nAnd some closing words."

	tree := New().Parse(input)

	require.Len(t, tree.Children, 3)

	first := tree.Children[0].(*types.TextNode)
	assert.Equal(t, FormatMarkdown, first.Format)
	assert.Contains(t, first.Content, "Here is an example")

	code := tree.Children[1].(*types.TextNode)
	assert.Equal(t, FormatCode, code.Format)
	assert.Equal(t, "fmt.Println(\"hi\")", code.Content)

	last := tree.Children[2].(*types.TextNode)
	assert.Equal(t, FormatMarkdown, last.Format)
	assert.Contains(t, last.Content, "closing words")
}

func TestParser_ListItemsKeepBoundaries(t *testing.T) {
	tree := New().Parse("- alpha\n- beta\n- gamma\n")

	require.Len(t, tree.Children, 1)
	text := tree.Children[0].(*types.TextNode)
	assert.Equal(t, "alpha\nbeta\ngamma", text.Content)
}

func TestParser_EmptyInput(t *testing.T) {
	tree := New().Parse("   \n ")

	assert.Empty(t, tree.Children)
	assert.True(t, tree.Metadata.IsComplete)
}

func TestParser_ParseStream(t *testing.T) {
	chunks := make(chan string, 3)
	chunks <- "part one "
	chunks <- "part two "
	chunks <- "part three"
	close(chunks)

	tree := New().ParseStream(context.Background(), chunks)

	require.Len(t, tree.Children, 1)
	text := tree.Children[0].(*types.TextNode)
	assert.Equal(t, "part one part two part three", text.Content)
}

func TestParser_ParseStreamCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	chunks := make(chan string, 1)
	chunks <- "buffered before cancel"
	cancel()

	// The buffered chunk may or may not be drained before the cancellation
	// is observed; either way the call must return a tree.
	tree := New().ParseStream(ctx, chunks)
	assert.NotNil(t, tree)
}
