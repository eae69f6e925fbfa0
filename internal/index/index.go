// Package index builds the in-memory (os, arch, vendor) -> versions model
// described in spec.md §3/§4.2 from the raw index JSON document, applying
// vendor suffix-merging, dedup, and per-vendor sorting via the version
// algebra.
//
// The dedup-by-preferring-greatest-original-vendor-name idiom and the
// seenVersions-style bookkeeping are grounded on repository/nexus.go's
// GetAvailableVersions, which deduplicates assets by version the same way
// while walking a paginated asset list.
package index

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"cjdkgo/internal/version"
)

// ArchiveType is one of the archive formats cjdkgo knows how to unpack.
type ArchiveType string

const (
	Tgz  ArchiveType = "tgz"
	Tbz2 ArchiveType = "tbz2"
	Txz  ArchiveType = "txz"
	Zip  ArchiveType = "zip"
	Tar  ArchiveType = "tar"
)

// ParseArchiveType infers the archive type from a URL's suffix.
func ParseArchiveType(url string) (ArchiveType, error) {
	lower := strings.ToLower(url)
	switch {
	case strings.HasSuffix(lower, ".tar.gz"), strings.HasSuffix(lower, ".tgz"):
		return Tgz, nil
	case strings.HasSuffix(lower, ".tar.bz2"), strings.HasSuffix(lower, ".tbz2"):
		return Tbz2, nil
	case strings.HasSuffix(lower, ".tar.xz"), strings.HasSuffix(lower, ".txz"):
		return Txz, nil
	case strings.HasSuffix(lower, ".zip"):
		return Zip, nil
	case strings.HasSuffix(lower, ".tar"):
		return Tar, nil
	default:
		return "", fmt.Errorf("unknown archive type for url %q", url)
	}
}

// splitTypePrefix splits a "<type>+<url>" encoded URL into its forced
// archive type (if any) and the bare URL.
func splitTypePrefix(raw string) (ArchiveType, string, bool) {
	for _, t := range []ArchiveType{Tgz, Tbz2, Txz, Zip, Tar} {
		prefix := string(t) + "+"
		if strings.HasPrefix(raw, prefix) {
			return t, strings.TrimPrefix(raw, prefix), true
		}
	}
	return "", raw, false
}

// ArchiveDescriptor is the index-derived record identifying one downloadable
// distribution (spec.md §3).
type ArchiveDescriptor struct {
	Vendor       string
	Version      string
	OS           string
	Arch         string
	URL          string
	ArchiveType  ArchiveType
	SHA1         string
}

// ParseURL splits a possibly "<type>+"-prefixed URL into its archive type
// and bare URL, inferring the type from the suffix when no prefix is
// present.
func ParseURL(raw string) (ArchiveType, string, error) {
	if t, bare, ok := splitTypePrefix(raw); ok {
		return t, bare, nil
	}
	t, err := ParseArchiveType(raw)
	if err != nil {
		return "", raw, err
	}
	return t, raw, nil
}

// VendorMergeRule rewrites a variant vendor name into its canonical prefix
// plus a version suffix, per spec.md §3's "ibm-semeru-openj9-javaN" example.
type VendorMergeRule struct {
	// Prefix is matched against the raw vendor name; MatchAndSplit returns
	// the canonical vendor and the suffix to append to the version.
	Prefix string
}

// MatchAndSplit reports whether vendor is a variant of this rule's prefix
// and, if so, returns the canonical vendor name and the suffix to append
// to the version as a trailing dashed component.
func (r VendorMergeRule) MatchAndSplit(vendor string) (canonical, suffix string, ok bool) {
	base := strings.TrimSuffix(r.Prefix, "*")
	if !strings.HasPrefix(vendor, base) {
		return "", "", false
	}
	rest := strings.TrimPrefix(vendor, base)
	if rest == "" {
		return "", "", false
	}
	// The canonical vendor is the prefix up to its last dash; the suffix is
	// the rest of the raw name after that dash (e.g. "java17").
	cut := strings.LastIndex(base, "-")
	if cut < 0 {
		return base, rest, true
	}
	return base[:cut], vendor[cut+1:], true
}

// DefaultMergeRules is the minimum rule set spec.md §4.2 requires.
var DefaultMergeRules = []VendorMergeRule{
	{Prefix: "ibm-semeru-openj9-java*"},
}

type rawDocument map[string]map[string]map[string]map[string]string // os -> arch -> vendor -> version -> url

// entry is an intermediate (vendor, version) -> descriptor record used
// while merging and deduping, keyed before the final per-vendor sort.
type entry struct {
	originalVendor string
	descriptor     ArchiveDescriptor
}

// Index is the resolved (os, arch, vendor) -> ordered versions model.
type Index struct {
	// byOSArchVendor maps "os/arch/vendor" to its versions, sorted
	// ascending by the version algebra.
	byOSArchVendor map[string][]ArchiveDescriptor
	vendorsByOSArch map[string][]string
}

func key(os, arch, vendor string) string {
	return os + "/" + arch + "/" + vendor
}

// Build parses raw index JSON and applies the transforms of spec.md §4.2:
// suffix-merge, dedup-by-greatest-original-vendor-name, and per-vendor
// ascending sort.
func Build(jsonBytes []byte, rules []VendorMergeRule) (*Index, error) {
	var doc rawDocument
	if err := json.Unmarshal(jsonBytes, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse index document: %w", err)
	}
	if rules == nil {
		rules = DefaultMergeRules
	}

	idx := &Index{
		byOSArchVendor:  make(map[string][]ArchiveDescriptor),
		vendorsByOSArch: make(map[string][]string),
	}

	for osName, archMap := range doc {
		for archName, vendorMap := range archMap {
			// canonicalVendor -> canonicalVersion -> best entry seen so far
			merged := make(map[string]map[string]entry)

			for rawVendor, versionMap := range vendorMap {
				canonicalVendor := rawVendor
				versionSuffix := ""
				for _, rule := range rules {
					if cv, suf, ok := rule.MatchAndSplit(rawVendor); ok {
						canonicalVendor = cv
						versionSuffix = suf
						break
					}
				}

				for rawVersion, rawURL := range versionMap {
					archiveType, bareURL, err := ParseURL(rawURL)
					if err != nil {
						continue // unrecognized archive types are skipped, not fatal
					}

					canonicalVersion := rawVersion
					if versionSuffix != "" {
						canonicalVersion = rawVersion + "-" + versionSuffix
					}

					desc := ArchiveDescriptor{
						Vendor:      canonicalVendor,
						Version:     canonicalVersion,
						OS:          osName,
						Arch:        archName,
						URL:         bareURL,
						ArchiveType: archiveType,
					}

					if merged[canonicalVendor] == nil {
						merged[canonicalVendor] = make(map[string]entry)
					}
					existing, seen := merged[canonicalVendor][canonicalVersion]
					if !seen || rawVendor > existing.originalVendor {
						merged[canonicalVendor][canonicalVersion] = entry{originalVendor: rawVendor, descriptor: desc}
					}
				}
			}

			for vendor, versions := range merged {
				descs := make([]ArchiveDescriptor, 0, len(versions))
				for _, e := range versions {
					descs = append(descs, e.descriptor)
				}
				sort.Slice(descs, func(i, j int) bool {
					return version.Compare(version.Parse(descs[i].Version), version.Parse(descs[j].Version), vendor) == version.Less
				})
				idx.byOSArchVendor[key(osName, archName, vendor)] = descs
				idx.vendorsByOSArch[osName+"/"+archName] = append(idx.vendorsByOSArch[osName+"/"+archName], vendor)
			}
		}
	}

	for k, vendors := range idx.vendorsByOSArch {
		sort.Strings(vendors)
		idx.vendorsByOSArch[k] = vendors
	}

	return idx, nil
}

// Vendors returns the sorted unique vendor list for (os, arch).
func (idx *Index) Vendors(os, arch string) []string {
	return idx.vendorsByOSArch[os+"/"+arch]
}

// Versions returns the ascending-sorted version list for (os, arch, vendor).
func (idx *Index) Versions(os, arch, vendor string) []ArchiveDescriptor {
	return idx.byOSArchVendor[key(os, arch, vendor)]
}

// HasVendor reports whether vendor is present for (os, arch).
func (idx *Index) HasVendor(os, arch, vendor string) bool {
	_, ok := idx.byOSArchVendor[key(os, arch, vendor)]
	return ok
}

// OSArch identifies one (os, arch) pair present in the index.
type OSArch struct {
	OS, Arch string
}

// AllVendors returns the deduped canonical vendor list across every
// (os, arch) pair in the index, used by internal/cache's vendors.jks
// shape-change bookkeeping.
func (idx *Index) AllVendors() []string {
	seen := make(map[string]bool)
	var vendors []string
	for _, pair := range idx.OSArchPairs() {
		for _, v := range idx.Vendors(pair.OS, pair.Arch) {
			if !seen[v] {
				seen[v] = true
				vendors = append(vendors, v)
			}
		}
	}
	return vendors
}

// OSArchPairs returns every (os, arch) pair the index has vendors for.
func (idx *Index) OSArchPairs() []OSArch {
	pairs := make([]OSArch, 0, len(idx.vendorsByOSArch))
	for k := range idx.vendorsByOSArch {
		osName, archName, ok := strings.Cut(k, "/")
		if !ok {
			continue
		}
		pairs = append(pairs, OSArch{OS: osName, Arch: archName})
	}
	return pairs
}
