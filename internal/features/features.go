// Package features defines the capability flags attached to streams and
// required by sources, and the admission check against an enabled set.
package features

import (
	"fmt"
	"strings"

	"github.com/samber/lo"
)

// Flag is a capability tag carried by a stream or declared by a source.
type Flag string

const (
	// CORSAllowed marks a stream that can be fetched cross-origin.
	CORSAllowed Flag = "cors-allowed"
	// IPLocked marks a stream bound to the IP address that requested it.
	IPLocked Flag = "ip-locked"
)

// Known lists every flag this build understands.
var Known = []Flag{CORSAllowed, IPLocked}

// Target names a playback environment with a preset feature set.
type Target string

const (
	Browser          Target = "browser"
	BrowserExtension Target = "browser-extension"
	Native           Target = "native"
	Any              Target = "any"
)

// Set is an enabled feature configuration.
type Set []Flag

// ForTarget returns the feature set enabled for a playback target.
// A browser cannot replay IP-locked streams through a proxy, so it only
// admits cors-allowed ones.
func ForTarget(t Target) (Set, error) {
	switch t {
	case Browser:
		return Set{CORSAllowed}, nil
	case BrowserExtension, Native, Any:
		return Set{CORSAllowed, IPLocked}, nil
	default:
		return nil, fmt.Errorf("unknown target %q (valid: browser, browser-extension, native, any)", t)
	}
}

// Parse converts flag names into a Set. Unknown names are rejected.
func Parse(names []string) (Set, error) {
	set := make(Set, 0, len(names))
	for _, n := range names {
		f := Flag(strings.ToLower(strings.TrimSpace(n)))
		if !lo.Contains(Known, f) {
			return nil, fmt.Errorf("unknown feature flag %q", n)
		}
		set = append(set, f)
	}
	return lo.Uniq(set), nil
}

// Has reports whether f is enabled.
func (s Set) Has(f Flag) bool {
	return lo.Contains(s, f)
}

// Allowed reports whether every flag is present in the enabled set.
// An empty flag list always passes; a flag outside the set fails.
func Allowed(enabled Set, flags []Flag) bool {
	return lo.EveryBy(flags, enabled.Has)
}
