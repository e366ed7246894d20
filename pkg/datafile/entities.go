package datafile

// ExperimentStatus is the lifecycle state declared for an experiment in the
// datafile. Only running experiments participate in bucketing.
type ExperimentStatus string

const (
	StatusRunning   ExperimentStatus = "Running"
	StatusLaunched  ExperimentStatus = "Launched"
	StatusPaused    ExperimentStatus = "Paused"
	StatusNotReady  ExperimentStatus = "Not started"
	StatusArchived  ExperimentStatus = "Archived"
)

// Experiment is a single A/B test or rollout rule. Immutable after load.
type Experiment struct {
	ID                 string
	Key                string
	Status             ExperimentStatus
	LayerID            string
	Variations         []Variation
	TrafficAllocation  []TrafficAllocation
	AudienceConditions *ConditionNode
	// Whitelist maps user IDs to variation keys declared in the datafile.
	Whitelist map[string]string
	GroupID   string
	Cmab      *CmabConfig
}

// IsRunning reports whether the experiment participates in decisions.
func (e *Experiment) IsRunning() bool {
	return e.Status == StatusRunning
}

// VariationByID returns the variation with the given ID, if any.
func (e *Experiment) VariationByID(id string) (*Variation, bool) {
	for i := range e.Variations {
		if e.Variations[i].ID == id {
			return &e.Variations[i], true
		}
	}
	return nil, false
}

// VariationByKey returns the variation with the given key, if any.
func (e *Experiment) VariationByKey(key string) (*Variation, bool) {
	for i := range e.Variations {
		if e.Variations[i].Key == key {
			return &e.Variations[i], true
		}
	}
	return nil, false
}

// Variation is one arm of an experiment. Immutable after load.
type Variation struct {
	ID             string
	Key            string
	FeatureEnabled bool
	Variables      map[string]string
}

// TrafficAllocation assigns a slice of the [0, 10000) bucket space to an
// entity (variation or, inside a group, an experiment). EndOfRange is the
// exclusive cumulative upper bound; the range starts at the previous entry's
// bound. Entries are sorted ascending and non-overlapping.
type TrafficAllocation struct {
	EntityID   string
	EndOfRange int
}

// Audience is a named targeting rule owned by the project config and
// referenced from experiments by ID.
type Audience struct {
	ID         string
	Name       string
	Conditions *ConditionNode
}

// GroupPolicyRandom marks mutually exclusive experiment groups: a user is
// first bucketed into at most one experiment of the group.
const GroupPolicyRandom = "random"

// Group is a set of experiments sharing one traffic allocation.
type Group struct {
	ID                string
	Policy            string
	TrafficAllocation []TrafficAllocation
	ExperimentIDs     []string
}

// Rollout is an ordered list of audience-gated delivery rules for a feature.
// By convention the last rule carries an everyone-audience catch-all.
type Rollout struct {
	ID          string
	Experiments []Experiment
}

// FeatureFlag binds a flag key to its A/B experiments and rollout.
type FeatureFlag struct {
	ID            string
	Key           string
	RolloutID     string
	ExperimentIDs []string
}

// Attribute is a project-registered user attribute.
type Attribute struct {
	ID  string
	Key string
}

// CmabConfig marks an experiment as decided by the remote contextual bandit
// service instead of hash bucketing. AttributeIDs lists the attributes the
// service is allowed to see.
type CmabConfig struct {
	AttributeIDs []string
}
