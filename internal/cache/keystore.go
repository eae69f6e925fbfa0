package cache

import (
	"crypto/sha1"
	"encoding/hex"
	"os"
	"sort"
	"time"

	keystore "github.com/pavlo-v-chernykh/keystore-go/v4"

	"cjdkgo/internal/logging"
)

// vendorsJKSPassword protects the vendors.jks bookkeeping file. It isn't a
// secret — the file holds no sensitive material, only a per-vendor
// fingerprint used to detect that the index's vendor shape changed since
// the last fetch — but keystore-go requires a password to encode entries.
var vendorsJKSPassword = []byte("cjdkgo-vendors-metadata")

// fingerprint hashes a sorted vendor list, so any addition, removal, or
// suffix-merge-rule change to the canonical vendor set for an index
// produces a different fingerprint.
func fingerprint(vendors []string) []byte {
	sorted := append([]string(nil), vendors...)
	sort.Strings(sorted)
	h := sha1.New()
	for _, v := range sorted {
		h.Write([]byte(v))
		h.Write([]byte{0})
	}
	sum := h.Sum(nil)
	return sum
}

// SaveVendorMetadata writes one SecretKeyEntry per vendor to the JKS
// keystore at path, keyed by vendor name, whose payload is the SHA-1
// fingerprint of the full canonical vendor set at this fetch. This is
// additive bookkeeping: a failure here is logged, never returned as a
// fatal error, since index.json remains authoritative for resolution.
func SaveVendorMetadata(path string, vendors []string) {
	fp := fingerprint(vendors)
	ks := keystore.New()
	for _, vendor := range vendors {
		entry := keystore.SecretKeyEntry{
			CreationTime: time.Now(),
			Content:      fp,
		}
		if err := ks.SetSecretKeyEntry(vendor, entry, vendorsJKSPassword); err != nil {
			logging.LogDebug("failed to set vendor metadata entry for %s: %v", vendor, err)
		}
	}

	f, err := os.Create(path)
	if err != nil {
		logging.LogDebug("failed to create vendors.jks: %v", err)
		return
	}
	defer f.Close()
	if err := ks.Store(f, vendorsJKSPassword); err != nil {
		logging.LogDebug("failed to write vendors.jks: %v", err)
	}
}

// VendorShapeChanged reports whether the canonical vendor set implied by
// vendors differs from what's recorded in the vendors.jks keystore at path.
// A missing or unreadable keystore counts as "changed", never as an error;
// the keystore itself is only rewritten by SaveVendorMetadata.
func VendorShapeChanged(path string, vendors []string) bool {
	f, err := os.Open(path)
	if err != nil {
		return true
	}
	defer f.Close()

	ks := keystore.New()
	if err := ks.Load(f, vendorsJKSPassword); err != nil {
		logging.LogDebug("failed to load vendors.jks, treating as changed: %v", err)
		return true
	}

	fp := fingerprint(vendors)
	aliases := ks.Aliases()
	if len(aliases) != len(vendors) {
		return true
	}
	for _, vendor := range vendors {
		entry, err := ks.GetSecretKeyEntry(vendor, vendorsJKSPassword)
		if err != nil {
			return true
		}
		if hex.EncodeToString(entry.Content) != hex.EncodeToString(fp) {
			return true
		}
	}
	return false
}
