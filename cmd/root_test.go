package cmd

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func resetFlags() {
	flagVendor = ""
	flagVersion = ""
	flagJDK = ""
	flagCacheDir = ""
	flagIndexURL = ""
	flagIndexTTL = nil
	flagOS = ""
	flagArch = ""
	flagNoProgress = false
}

func TestResolveOptionsJDKShorthand(t *testing.T) {
	resetFlags()
	defer resetFlags()

	flagJDK = "zulu:17"
	opts, err := resolveOptions()
	require.NoError(t, err)
	assert.Equal(t, "zulu", opts.Vendor)
	assert.Equal(t, "17", opts.Version)
}

func TestResolveOptionsJDKConflictsWithVendor(t *testing.T) {
	resetFlags()
	defer resetFlags()

	flagJDK = "zulu:17"
	flagVendor = "adoptium"
	_, err := resolveOptions()
	assert.Error(t, err)
}

func TestResolveOptionsJDKRequiresColon(t *testing.T) {
	resetFlags()
	defer resetFlags()

	flagJDK = "zulu"
	_, err := resolveOptions()
	assert.Error(t, err)
}

func TestResolveOptionsPlainVendorVersion(t *testing.T) {
	resetFlags()
	defer resetFlags()

	flagVendor = "adoptium"
	flagVersion = "21"
	opts, err := resolveOptions()
	require.NoError(t, err)
	assert.Equal(t, "adoptium", opts.Vendor)
	assert.Equal(t, "21", opts.Version)
}

func TestResolveOptionsExplicitZeroIndexTTLSurvives(t *testing.T) {
	resetFlags()
	defer resetFlags()

	zero := time.Duration(0)
	flagIndexTTL = &zero
	opts, err := resolveOptions()
	require.NoError(t, err)
	require.NotNil(t, opts.IndexTTL)
	assert.Equal(t, time.Duration(0), *opts.IndexTTL, "--index-ttl 0 must reach Options as a real zero, not the default")
}
