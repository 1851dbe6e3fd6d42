package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/citelink/citelink/pkg/models"
)

func TestKey_IsStableAndDistinguishesOptionsFingerprint(t *testing.T) {
	a := Key("some text", "fp1")
	b := Key("some text", "fp1")
	c := Key("some text", "fp2")

	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c)
}

func TestResultCache_PutThenGetRoundTripsCitations(t *testing.T) {
	rc := NewResultCache(NewMemoryCache(nil), time.Minute)
	ctx := context.Background()
	key := Key("text", "fp")

	citations := []models.Citation{{Type: models.TypeSupremeCourt, Volume: "347", Reporter: "U.S.", Page: "483"}}
	require.NoError(t, rc.Put(ctx, key, citations))

	got, err := rc.Get(ctx, key)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, models.TypeSupremeCourt, got[0].Type)
}

func TestResultCache_GetMissReturnsError(t *testing.T) {
	rc := NewResultCache(NewMemoryCache(nil), time.Minute)
	_, err := rc.Get(context.Background(), Key("missing", "fp"))
	assert.Error(t, err)
}
