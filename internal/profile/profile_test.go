package profile

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFromEnvDefaults(t *testing.T) {
	p := &Profile{}
	p.FromEnv()

	require.Equal(t, 100, p.SearchDailyQuota)
	require.InDelta(t, 0.18, p.ScoreFloor, 1e-9)
	require.InDelta(t, 0.15, p.ScoreOffset, 1e-9)
	require.InDelta(t, 450.0, p.ScoreScale, 1e-9)
	require.InDelta(t, 0.05, p.PortraitBonus, 1e-9)
	require.Equal(t, 5, p.FetchConcurrency)
	require.Equal(t, 250, p.MinImageSide)
}

func TestFromEnvOverrides(t *testing.T) {
	t.Setenv("MODIFY_SEARCH_DAILY_QUOTA", "20")
	t.Setenv("MODIFY_SCORE_FLOOR", "0.25")
	t.Setenv("MODIFY_FETCH_CONCURRENCY", "3")

	p := &Profile{}
	p.FromEnv()

	require.Equal(t, 20, p.SearchDailyQuota)
	require.InDelta(t, 0.25, p.ScoreFloor, 1e-9)
	require.Equal(t, 3, p.FetchConcurrency)
}

func TestValidateNormalizesMode(t *testing.T) {
	p := &Profile{Mode: "staging", FetchConcurrency: -1}
	require.NoError(t, p.Validate())
	require.Equal(t, "demo", p.Mode)
	require.Equal(t, 5, p.FetchConcurrency)
}

func TestIsExternalSearchEnabled(t *testing.T) {
	p := &Profile{}
	require.False(t, p.IsExternalSearchEnabled())
	p.SearchAPIKey = "key"
	require.False(t, p.IsExternalSearchEnabled())
	p.SearchEngineID = "cx"
	require.True(t, p.IsExternalSearchEnabled())
}
