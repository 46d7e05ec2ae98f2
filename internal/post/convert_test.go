package post

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ptrkvsky/mdx-to-sanity/internal/domain"
)

func TestConvert_ParsesBlockContent(t *testing.T) {
	t.Parallel()

	response := "```json\n" + `[
		{"_type":"block","_key":"b1","style":"h2","children":[{"_type":"span","text":"Title"}]},
		{"_type":"code","code":"x := 1","language":"go"}
	]` + "\n```"
	c := NewConverter(&scriptedCompleter{response: response})

	body, err := c.Convert(context.Background(), "## Title")
	require.NoError(t, err)
	require.Len(t, body, 2)

	block := body[0].(domain.Block)
	require.Equal(t, "b1", block.Key, "existing keys are kept")

	code := body[1].(domain.CodeBlock)
	require.NotEmpty(t, code.Key, "missing keys are generated")
	require.Len(t, code.Key, 8)
}

func TestConvert_LLMFailureIsFatal(t *testing.T) {
	t.Parallel()

	c := NewConverter(&scriptedCompleter{err: errors.New("down")})
	_, err := c.Convert(context.Background(), "text")
	require.Error(t, err)
	require.Contains(t, err.Error(), "openai conversion failed")
}

func TestConvert_MalformedJSONIsFatal(t *testing.T) {
	t.Parallel()

	c := NewConverter(&scriptedCompleter{response: "sorry, here is some prose"})
	_, err := c.Convert(context.Background(), "text")
	require.Error(t, err)
	require.Contains(t, err.Error(), "openai conversion failed")
}
