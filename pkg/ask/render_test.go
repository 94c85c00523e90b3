package ask

import (
	"bytes"
	"testing"

	"github.com/germanamz/mpipe/pkg/config"
	"github.com/germanamz/mpipe/pkg/providers/provider"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func intp(v int) *int { return &v }

func TestUsageOf(t *testing.T) {
	assert.Nil(t, usageOf(nil))
	assert.Nil(t, usageOf(&provider.Usage{}), "all-absent usage collapses to nothing")

	u := usageOf(&provider.Usage{TotalTokens: intp(9)})
	require.NotNil(t, u)
	assert.Nil(t, u.PromptTokens)
	assert.Equal(t, 9, *u.TotalTokens)
}

func TestRenderLive_TextIsRawContent(t *testing.T) {
	req := config.Request{Provider: provider.OpenAI, Model: "m", Output: config.Text}

	out, err := renderLive(req, provider.AskResponse{Content: "# heading\n"}, 42)
	require.NoError(t, err)
	assert.Equal(t, "# heading\n", out)
}

func TestPrintUsage_Full(t *testing.T) {
	var buf bytes.Buffer
	printUsage(&buf, &provider.Usage{
		PromptTokens:     intp(12),
		CompletionTokens: intp(3),
		TotalTokens:      intp(15),
	}, 280)

	assert.Equal(t, "usage: prompt_tokens=12 completion_tokens=3 total_tokens=15 latency_ms=280\n", buf.String())
}

func TestPrintUsage_PartialFieldsShowNA(t *testing.T) {
	var buf bytes.Buffer
	printUsage(&buf, &provider.Usage{TotalTokens: intp(9)}, 100)

	assert.Equal(t, "usage: prompt_tokens=n/a completion_tokens=n/a total_tokens=9 latency_ms=100\n", buf.String())
}

func TestPrintUsage_Unavailable(t *testing.T) {
	var buf bytes.Buffer
	printUsage(&buf, nil, 57)

	assert.Equal(t, "usage: unavailable latency_ms=57\n", buf.String())
}
