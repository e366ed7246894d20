package targeting

// Result is the three-valued outcome of a condition evaluation.
type Result int8

const (
	// Unknown means the condition could not be decided from the available
	// data. It is the zero value on purpose.
	Unknown Result = iota
	False
	True
)

// String implements fmt.Stringer for logs and reasons.
func (r Result) String() string {
	switch r {
	case True:
		return "true"
	case False:
		return "false"
	default:
		return "unknown"
	}
}

// Bool collapses the result for callers that treat Unknown as a miss. The
// second return is false when the result is Unknown.
func (r Result) Bool() (value, known bool) {
	switch r {
	case True:
		return true, true
	case False:
		return false, true
	default:
		return false, false
	}
}

// Of lifts a definite boolean into a Result.
func Of(b bool) Result {
	if b {
		return True
	}
	return False
}

// Negate maps Unknown to Unknown and flips definite values.
func (r Result) Negate() Result {
	switch r {
	case True:
		return False
	case False:
		return True
	default:
		return Unknown
	}
}
