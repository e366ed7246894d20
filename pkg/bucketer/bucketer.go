package bucketer

import (
	"errors"
	"log/slog"
	"math"

	"github.com/twmb/murmur3"

	"github.com/dmitrymomot/flagkit/pkg/datafile"
)

const (
	// hashSeed is the fixed MurmurHash3 seed shared by every SDK. Changing
	// it would silently re-bucket the entire user population.
	hashSeed = 1

	// MaxTrafficValue is the exclusive upper bound of the bucket space.
	MaxTrafficValue = 10000

	// BucketingIDAttribute is the reserved attribute key that overrides the
	// user ID as the hashing subject when present and a string.
	BucketingIDAttribute = "$opt_bucketing_id"
)

// ErrEmptyBucketingID is returned when both the user ID and the bucketing ID
// attribute are empty; there is nothing deterministic to hash.
var ErrEmptyBucketingID = errors.New("bucketing id is empty")

// Outcome explains a nil variation result.
type Outcome int8

const (
	// Bucketed means a variation was assigned.
	Bucketed Outcome = iota
	// Holdback means the bucket value fell into unallocated traffic space.
	Holdback
	// NotInGroup means the group's allocation picked a different experiment
	// (or none) for this user.
	NotInGroup
)

// Bucketer maps users onto traffic allocations. Stateless and safe for
// concurrent use.
type Bucketer struct {
	log *slog.Logger
}

// Option configures a Bucketer.
type Option func(*Bucketer)

// WithLogger sets the logger used for bucketing debug output.
func WithLogger(l *slog.Logger) Option {
	return func(b *Bucketer) {
		if l != nil {
			b.log = l
		}
	}
}

// New creates a Bucketer.
func New(opts ...Option) *Bucketer {
	b := &Bucketer{log: slog.Default()}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// BucketingID resolves the hashing subject for a user: the reserved
// bucketing ID attribute when present and a string, the user ID otherwise.
func (b *Bucketer) BucketingID(user datafile.User) string {
	v, ok := user.Attribute(BucketingIDAttribute)
	if !ok {
		return user.ID
	}
	s, ok := v.(string)
	if !ok {
		b.log.Warn("bucketing id attribute is not a string, falling back to user id",
			slog.String("user_id", user.ID))
		return user.ID
	}
	if s == "" {
		return user.ID
	}
	return s
}

// BucketValue hashes bucketingID+entityID into [0, MaxTrafficValue).
func (b *Bucketer) BucketValue(bucketingID, entityID string) int {
	hash := murmur3.SeedSum32(hashSeed, []byte(bucketingID+entityID))
	ratio := float64(hash) / float64(math.MaxUint32+1)
	return int(ratio * MaxTrafficValue)
}

// Bucket assigns the user to a variation of the experiment, or to none. The
// returned Outcome distinguishes a holdback from a group exclusion when the
// variation is nil.
func (b *Bucketer) Bucket(cfg datafile.ProjectConfig, exp *datafile.Experiment, bucketingID string) (*datafile.Variation, Outcome, error) {
	if bucketingID == "" {
		return nil, Holdback, ErrEmptyBucketingID
	}

	if exp.GroupID != "" {
		group, ok := cfg.GroupByID(exp.GroupID)
		if ok && group.Policy == datafile.GroupPolicyRandom {
			picked := b.allocate(bucketingID, group.ID, group.TrafficAllocation)
			if picked != exp.ID {
				b.log.Debug("user not bucketed into experiment within group",
					slog.String("experiment", exp.Key), slog.String("group_id", group.ID))
				return nil, NotInGroup, nil
			}
		}
	}

	variationID := b.allocate(bucketingID, exp.ID, exp.TrafficAllocation)
	if variationID == "" {
		return nil, Holdback, nil
	}
	variation, ok := exp.VariationByID(variationID)
	if !ok {
		b.log.Warn("traffic allocation references unknown variation",
			slog.String("experiment", exp.Key), slog.String("variation_id", variationID))
		return nil, Holdback, nil
	}
	return variation, Bucketed, nil
}

// allocate hashes the subject and finds the entity owning the bucket value.
func (b *Bucketer) allocate(bucketingID, entityID string, ranges []datafile.TrafficAllocation) string {
	value := b.BucketValue(bucketingID, entityID)
	b.log.Debug("computed bucket value",
		slog.String("bucketing_id", bucketingID), slog.String("entity_id", entityID), slog.Int("value", value))
	return allocateValue(value, ranges)
}

// allocateValue finds the entity owning the bucket value: the first range
// whose exclusive upper bound exceeds it. Ranges are cumulative and sorted,
// so a linear scan stops at the first hit. Returns "" on holdback.
func allocateValue(value int, ranges []datafile.TrafficAllocation) string {
	for _, r := range ranges {
		if value < r.EndOfRange {
			return r.EntityID
		}
	}
	return ""
}
