package decision

import "github.com/dmitrymomot/flagkit/pkg/cmab"

// Options is a per-call bitset of decision flags.
type Options uint8

const (
	// IncludeReasons collects the informational evaluation trail in the
	// returned reasons, not only faults.
	IncludeReasons Options = 1 << iota
	// IgnoreUserProfileService skips sticky bucketing for this call.
	IgnoreUserProfileService
	// IgnoreCMABCache skips the CMAB cache read path but still writes.
	IgnoreCMABCache
	// InvalidateUserCMABCache drops this user+experiment CMAB cache entry.
	InvalidateUserCMABCache
	// ResetCMABCache clears the whole CMAB cache instance.
	ResetCMABCache
)

// Has reports whether all bits of flag are set.
func (o Options) Has(flag Options) bool {
	return o&flag == flag
}

// cmabOptions projects the CMAB-related flags into the cmab package's
// option struct.
func (o Options) cmabOptions() cmab.Options {
	return cmab.Options{
		IgnoreCache:         o.Has(IgnoreCMABCache),
		InvalidateUserCache: o.Has(InvalidateUserCMABCache),
		ResetCache:          o.Has(ResetCMABCache),
	}
}
