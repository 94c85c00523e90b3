package ask_test

import (
	"testing"

	"github.com/germanamz/mpipe/pkg/ask"
	"github.com/germanamz/mpipe/pkg/chats/role"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComposePrompt(t *testing.T) {
	assert.Equal(t, "main", ask.ComposePrompt("", "main", ""))
	assert.Equal(t, "pre\n\nmain", ask.ComposePrompt("pre", "main", ""))
	assert.Equal(t, "main\n\npost", ask.ComposePrompt("", "main", "post"))
	assert.Equal(t, "pre\n\nmain\n\npost", ask.ComposePrompt("pre", "main", "post"))
}

func TestComposePrompt_SkipsBlankSegments(t *testing.T) {
	assert.Equal(t, "main", ask.ComposePrompt("   ", "main", "\n\t"))
}

func TestBuildMessages_SystemPrecedesUser(t *testing.T) {
	msgs := ask.BuildMessages("be terse", "2+2?")

	require.Len(t, msgs, 2)
	assert.Equal(t, role.System, msgs[0].Role)
	assert.Equal(t, "be terse", msgs[0].Content)
	assert.Equal(t, role.User, msgs[1].Role)
	assert.Equal(t, "2+2?", msgs[1].Content)
}

func TestBuildMessages_NoSystem(t *testing.T) {
	msgs := ask.BuildMessages("  ", "2+2?")

	require.Len(t, msgs, 1)
	assert.Equal(t, role.User, msgs[0].Role)
}
