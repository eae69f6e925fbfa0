// Package resolver picks the ArchiveDescriptor matching a vendor/version
// expression out of an Index, grounded on repository/fetcher.go's
// dispatch-and-wrap-error idiom: resolve configuration into a concrete
// target, log what was found, return a structured error otherwise.
package resolver

import (
	"cjdkgo/internal/cjdkerr"
	"cjdkgo/internal/index"
	"cjdkgo/internal/logging"
	"cjdkgo/internal/version"
)

// DefaultVendor is used when the caller doesn't specify one, per spec.md §6.
const DefaultVendor = "adoptium"

// Resolve picks the greatest version of vendor (or DefaultVendor) under
// (os, arch) that satisfies expr, per spec.md §4.4. Returns a
// JdkNotFoundError if the vendor is absent or no version matches.
func Resolve(idx *index.Index, vendor, os, arch, expr string) (index.ArchiveDescriptor, error) {
	if vendor == "" {
		vendor = DefaultVendor
	}

	if !idx.HasVendor(os, arch, vendor) {
		logging.LogDebug("vendor %s not found for os=%s arch=%s", vendor, os, arch)
		return index.ArchiveDescriptor{}, &cjdkerr.JdkNotFoundError{Vendor: vendor, Expr: expr, OS: os, Arch: arch}
	}

	candidates := idx.Versions(os, arch, vendor)
	parsedExpr := version.ParseExpression(expr)

	var best *index.ArchiveDescriptor
	for i := range candidates {
		c := candidates[i]
		if !version.Matches(parsedExpr, c.Version, vendor) {
			continue
		}
		if best == nil || version.Compare(version.Parse(c.Version), version.Parse(best.Version), vendor) == version.Greater {
			best = &candidates[i]
		}
	}

	if best == nil {
		logging.LogDebug("no version of %s satisfies %q for os=%s arch=%s", vendor, expr, os, arch)
		return index.ArchiveDescriptor{}, &cjdkerr.JdkNotFoundError{Vendor: vendor, Expr: expr, OS: os, Arch: arch}
	}

	logging.LogInfo("resolved %s:%s -> %s", vendor, expr, best.Version)
	return *best, nil
}

// Vendors returns the vendor list available for (os, arch), for ls-vendors.
func Vendors(idx *index.Index, os, arch string) []string {
	return idx.Vendors(os, arch)
}
