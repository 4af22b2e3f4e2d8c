package bootstrap

import (
	"context"
	"net/http"
	"testing"

	"github.com/jamieforrest/speakyer-proc/application/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setOfflineEnv(t *testing.T) {
	t.Setenv("STORE_BACKEND", "memory")
	t.Setenv("MOCK_MODE", "true")
	t.Setenv("MOCK_AUDIO_FILE", "")
	t.Setenv("OUTPUT_S3_BUCKET", "out")
	t.Setenv("DYNAMO_TABLE_NAME", "")
	t.Setenv("LOG_LEVEL", "error")
}

func TestNew_OfflinePipeline(t *testing.T) {
	setOfflineEnv(t)
	t.Setenv("WHITELIST", "")

	app, err := New(Options{Pipeline: true, Filter: true, OptionalFilter: true})
	require.NoError(t, err)
	defer app.Close()

	assert.Nil(t, app.Filter)
	require.NotNil(t, app.Pipeline)

	ctx := context.Background()
	require.NoError(t, app.Store.WriteText(ctx, "in", "raw/msg1.eml", "Hello World"))

	response := services.HandleProcessing(ctx, app.Pipeline, app.Metrics, "in", "raw/msg1.eml")
	assert.Equal(t, http.StatusOK, response.StatusCode)

	items, err := app.Feed.Rebuild(ctx, "out")
	require.NoError(t, err)
	assert.Equal(t, 1, items)
}

func TestNew_RequiredFilterMissing(t *testing.T) {
	setOfflineEnv(t)
	t.Setenv("WHITELIST", "")

	_, err := New(Options{Filter: true})
	require.EqualError(t, err, "WHITELIST must be set")
}

func TestNew_FilterOnly(t *testing.T) {
	setOfflineEnv(t)
	t.Setenv("OUTPUT_S3_BUCKET", "")
	t.Setenv("WHITELIST", "jamie@example.com")
	t.Setenv("S3_BUCKET", "inbound")

	app, err := New(Options{Filter: true})
	require.NoError(t, err)
	defer app.Close()

	assert.NotNil(t, app.Filter)
	assert.Nil(t, app.Pipeline)
}
