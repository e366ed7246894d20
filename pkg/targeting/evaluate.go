package targeting

import (
	"log/slog"

	"github.com/dmitrymomot/flagkit/pkg/datafile"
)

// Recorder collects the human-readable evaluation trail. The decision layer
// passes its reasons accumulator; nil is accepted and ignored.
type Recorder interface {
	Info(format string, args ...any)
}

// Evaluator walks condition trees. It is stateless apart from its logger and
// safe for concurrent use.
type Evaluator struct {
	log *slog.Logger
}

// Option configures an Evaluator.
type Option func(*Evaluator)

// WithLogger sets the logger used for targeting warnings.
func WithLogger(l *slog.Logger) Option {
	return func(e *Evaluator) {
		if l != nil {
			e.log = l
		}
	}
}

// NewEvaluator creates a condition tree evaluator.
func NewEvaluator(opts ...Option) *Evaluator {
	e := &Evaluator{log: slog.Default()}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Evaluate resolves a condition tree to a ternary result. A nil node is
// undecidable and yields Unknown; callers that treat "no conditions" as a
// pass must check for nil before calling.
func (e *Evaluator) Evaluate(cfg datafile.ProjectConfig, node *datafile.ConditionNode, user datafile.User, rec Recorder) Result {
	if rec == nil {
		rec = nopRecorder{}
	}
	return e.evaluateNode(cfg, node, user, rec)
}

func (e *Evaluator) evaluateNode(cfg datafile.ProjectConfig, node *datafile.ConditionNode, user datafile.User, rec Recorder) Result {
	if node == nil {
		return Unknown
	}

	switch {
	case node.Op != "":
		return e.evaluateOp(cfg, node, user, rec)
	case node.AudienceID != "":
		return e.evaluateAudience(cfg, node.AudienceID, user, rec)
	case node.Match != nil:
		return e.evaluateLeaf(node.Match, user)
	default:
		e.log.Warn("empty condition node, treating as unknown")
		return Unknown
	}
}

func (e *Evaluator) evaluateOp(cfg datafile.ProjectConfig, node *datafile.ConditionNode, user datafile.User, rec Recorder) Result {
	switch node.Op {
	case datafile.OpAnd:
		sawUnknown := false
		for _, child := range node.Children {
			switch e.evaluateNode(cfg, child, user, rec) {
			case False:
				return False
			case Unknown:
				sawUnknown = true
			}
		}
		if sawUnknown {
			return Unknown
		}
		return True

	case datafile.OpOr:
		sawUnknown := false
		for _, child := range node.Children {
			switch e.evaluateNode(cfg, child, user, rec) {
			case True:
				return True
			case Unknown:
				sawUnknown = true
			}
		}
		if sawUnknown {
			return Unknown
		}
		return False

	case datafile.OpNot:
		if len(node.Children) == 0 || node.Children[0] == nil {
			return Unknown
		}
		return e.evaluateNode(cfg, node.Children[0], user, rec).Negate()

	default:
		e.log.Warn("unknown condition operator, treating as unknown", slog.String("op", string(node.Op)))
		return Unknown
	}
}

// evaluateAudience resolves the audience by ID against the live config at
// evaluation time. Resolution results are never cached on the node, so the
// same tree may serve concurrent evaluations against different snapshots.
func (e *Evaluator) evaluateAudience(cfg datafile.ProjectConfig, audienceID string, user datafile.User, rec Recorder) Result {
	audience, ok := cfg.AudienceByID(audienceID)
	if !ok {
		e.log.Warn("audience not found in config", slog.String("audience_id", audienceID))
		return Unknown
	}
	res := e.evaluateNode(cfg, audience.Conditions, user, rec)
	rec.Info("audience %q (%s) evaluated to %s for user %q", audience.Name, audience.ID, res, user.ID)
	return res
}

// evaluateLeaf runs the match comparator for an attribute leaf. Faults of
// any kind, including panics from malformed condition values, degrade to
// Unknown: targeting must never crash a decision.
func (e *Evaluator) evaluateLeaf(cond *datafile.MatchCondition, user datafile.User) (res Result) {
	defer func() {
		if r := recover(); r != nil {
			e.log.Warn("panic during condition evaluation, treating as unknown",
				slog.String("attribute", cond.Name), slog.Any("panic", r))
			res = Unknown
		}
	}()

	if cond.Type != datafile.ConditionTypeCustomAttribute && cond.Type != datafile.ConditionTypeThirdPartyDimens {
		// An unrecognized condition type usually means the datafile was
		// produced for a newer SDK.
		e.log.Warn("unrecognized condition type, treating as unknown",
			slog.String("type", cond.Type), slog.String("attribute", cond.Name))
		return Unknown
	}

	match, err := matcherFor(cond.Match)
	if err != nil {
		e.log.Warn("unsupported match type, treating as unknown",
			slog.String("match", cond.Match), slog.String("attribute", cond.Name))
		return Unknown
	}

	res, err = match(cond, user)
	if err != nil {
		if isMissingAttribute(err) {
			e.log.Debug("attribute missing for condition",
				slog.String("attribute", cond.Name))
		} else {
			e.log.Warn("condition could not be decided",
				slog.String("attribute", cond.Name), slog.Any("error", err))
		}
		return Unknown
	}
	return res
}

type nopRecorder struct{}

func (nopRecorder) Info(string, ...any) {}
