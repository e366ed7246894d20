package decision

import "fmt"

// Reasons accumulates the human-readable trail of one decision call. Error
// entries are always recorded; info entries only when the accumulator was
// created with includeInfo, so reason formatting stays off the hot path
// unless a caller asked for it. A Reasons value lives for a single decision
// and is not safe for concurrent use.
type Reasons struct {
	errors      []string
	infos       []string
	includeInfo bool
}

// NewReasons creates an accumulator. includeInfo corresponds to the
// IncludeReasons decision option.
func NewReasons(includeInfo bool) *Reasons {
	return &Reasons{includeInfo: includeInfo}
}

// Error records a fault entry and returns the formatted message so callers
// can reuse it in logs or wrapped errors.
func (r *Reasons) Error(format string, args ...any) string {
	msg := fmt.Sprintf(format, args...)
	r.errors = append(r.errors, msg)
	return msg
}

// Info records an informational entry when reason collection is on. It also
// satisfies the targeting recorder contract.
func (r *Reasons) Info(format string, args ...any) {
	if !r.includeInfo {
		return
	}
	r.infos = append(r.infos, fmt.Sprintf(format, args...))
}

// Messages returns the accumulated trail, faults first, in recording order.
func (r *Reasons) Messages() []string {
	if len(r.errors) == 0 && len(r.infos) == 0 {
		return nil
	}
	out := make([]string, 0, len(r.errors)+len(r.infos))
	out = append(out, r.errors...)
	out = append(out, r.infos...)
	return out
}
