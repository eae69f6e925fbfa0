package cache

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestVendorShapeChangedMissingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "vendors.jks")
	assert.True(t, VendorShapeChanged(path, []string{"temurin", "zulu"}))
}

func TestVendorShapeUnchangedAfterSave(t *testing.T) {
	path := filepath.Join(t.TempDir(), "vendors.jks")
	vendors := []string{"temurin", "zulu", "graalvm-java17"}

	SaveVendorMetadata(path, vendors)
	assert.False(t, VendorShapeChanged(path, vendors), "same vendor set should report unchanged")
}

func TestVendorShapeChangedWhenVendorAdded(t *testing.T) {
	path := filepath.Join(t.TempDir(), "vendors.jks")
	SaveVendorMetadata(path, []string{"temurin", "zulu"})

	assert.True(t, VendorShapeChanged(path, []string{"temurin", "zulu", "corretto"}))
}

func TestVendorShapeChangedWhenVendorRemoved(t *testing.T) {
	path := filepath.Join(t.TempDir(), "vendors.jks")
	SaveVendorMetadata(path, []string{"temurin", "zulu"})

	assert.True(t, VendorShapeChanged(path, []string{"temurin"}))
}
