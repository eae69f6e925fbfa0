package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromEnvReadsVariables(t *testing.T) {
	environ := []string{
		"CJDK_VENDOR=zulu",
		"CJDK_CACHE_DIR=/tmp/cache",
		"CJDK_INDEX_TTL=2h",
		"CJDK_HIDE_PROGRESS_BARS=true",
		"UNRELATED=ignored",
	}
	opts := FromEnv(environ)
	assert.Equal(t, "zulu", opts.Vendor)
	assert.Equal(t, "/tmp/cache", opts.CacheDir)
	require.NotNil(t, opts.IndexTTL)
	assert.Equal(t, 2*time.Hour, *opts.IndexTTL)
	assert.True(t, opts.HideProgressBars)
}

func TestResolveCLITakesPrecedenceOverEnv(t *testing.T) {
	cli := Options{Vendor: "temurin"}
	env := Options{Vendor: "zulu"}
	resolved, err := Resolve(cli, env)
	require.NoError(t, err)
	assert.Equal(t, "temurin", resolved.Vendor)
}

func TestResolveAppliesDefaults(t *testing.T) {
	resolved, err := Resolve(Options{}, Options{})
	require.NoError(t, err)
	assert.Equal(t, DefaultIndexURL, resolved.IndexURL)
	require.NotNil(t, resolved.IndexTTL)
	assert.Equal(t, DefaultIndexTTL, *resolved.IndexTTL)
	assert.NotEmpty(t, resolved.OS)
	assert.NotEmpty(t, resolved.Arch)
	assert.NotEmpty(t, resolved.CacheDir)
}

func TestResolveRejectsNegativeTTL(t *testing.T) {
	negative := -time.Hour
	_, err := Resolve(Options{IndexTTL: &negative}, Options{})
	assert.Error(t, err)
}

func TestResolveExplicitZeroTTLSurvives(t *testing.T) {
	zero := time.Duration(0)
	resolved, err := Resolve(Options{IndexTTL: &zero}, Options{})
	require.NoError(t, err)
	require.NotNil(t, resolved.IndexTTL)
	assert.Equal(t, time.Duration(0), *resolved.IndexTTL, "an explicit --index-ttl 0 must mean always refetch, not fall back to the default")
}

func TestResolveUnsetTTLFallsBackToDefault(t *testing.T) {
	resolved, err := Resolve(Options{IndexTTL: nil}, Options{IndexTTL: nil})
	require.NoError(t, err)
	require.NotNil(t, resolved.IndexTTL)
	assert.Equal(t, DefaultIndexTTL, *resolved.IndexTTL)
}

func TestResolveSplitsJDKShorthand(t *testing.T) {
	resolved, err := Resolve(Options{JDK: "zulu:17"}, Options{})
	require.NoError(t, err)
	assert.Equal(t, "zulu", resolved.Vendor)
	assert.Equal(t, "17", resolved.Version)
}

func TestResolveRejectsJDKWithVendor(t *testing.T) {
	_, err := Resolve(Options{JDK: "zulu:17", Vendor: "adoptium"}, Options{})
	assert.Error(t, err)
}

func TestResolveRejectsJDKWithoutColon(t *testing.T) {
	_, err := Resolve(Options{JDK: "zulu"}, Options{})
	assert.Error(t, err)
}

func TestResolveIndexURLFallbackNeverEmpty(t *testing.T) {
	// Empty CLI/env values are treated as unset and fall through to
	// DefaultIndexURL, so Resolve must never publish an empty IndexURL; the
	// only way to hit its error path is if every source including
	// DefaultIndexURL were blank, which can't occur here, so this documents
	// that the fallback chain always wins.
	resolved, err := Resolve(Options{}, Options{})
	require.NoError(t, err)
	assert.NotEmpty(t, resolved.IndexURL)
}
