// ABOUTME: Tests reading stored topics back through @topic resource URIs
// ABOUTME: Covers topic names with reserved and non-ASCII characters
package research

import (
	"context"
	"strings"
	"testing"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/harper/paperchat/internal/chat"
	"github.com/harper/paperchat/internal/host"
	"github.com/harper/paperchat/internal/logging"
)

func TestTopicURIsRoundTrip(t *testing.T) {
	ctx := context.Background()
	cs := connect(t, NewStore(t.TempDir()), &fakeSearcher{})

	catalog := host.NewCatalog(logging.Discard())
	catalog.Register(ctx, "research", host.NewSession(cs))

	topics := []string{"C++", "Machine Learning (ML)", "café au lait", "quantum"}
	for _, topic := range topics {
		t.Run(topic, func(t *testing.T) {
			_, isErr := callText(t, cs, "search_papers", map[string]any{"topic": topic, "max_results": 1})
			require.False(t, isErr)

			folders, err := catalog.ReadResource(ctx, "papers://folders")
			require.NoError(t, err)
			assert.Contains(t, folders, "- "+TopicDir(topic)+"\n")

			uri := chat.ParseCommand("@" + TopicDir(topic)).URI
			page, err := catalog.ReadResource(ctx, uri)
			require.NoError(t, err, uri)
			assert.True(t, strings.HasPrefix(page, "# Papers on "), page)
			assert.Contains(t, page, "Total papers: 1\n")
		})
	}

	t.Run("missing topic with reserved characters", func(t *testing.T) {
		uri := chat.ParseCommand("@f#").URI
		page, err := catalog.ReadResource(ctx, uri)
		require.NoError(t, err, uri)
		assert.Equal(t, "# No papers found for topic: f#\n\nTry searching for papers on this topic first.", page)
	})
}

func TestTopicURIOverMCP(t *testing.T) {
	cs := connect(t, NewStore(t.TempDir()), &fakeSearcher{})
	res, err := cs.ReadResource(context.Background(), &mcp.ReadResourceParams{URI: chat.ResourceURI("c++")})
	require.NoError(t, err)
	require.Len(t, res.Contents, 1)
	assert.Equal(t, "# No papers found for topic: c++\n\nTry searching for papers on this topic first.", res.Contents[0].Text)
}
