package datafile

// ProjectConfig is the read-only snapshot of a parsed datafile consumed by
// the decision engine. Implementations must be safe for concurrent readers;
// flagkit never mutates a config after receiving it.
type ProjectConfig interface {
	AudienceByID(id string) (*Audience, bool)
	ExperimentByID(id string) (*Experiment, bool)
	ExperimentByKey(key string) (*Experiment, bool)
	FeatureByKey(key string) (*FeatureFlag, bool)
	RolloutByID(id string) (*Rollout, bool)
	GroupByID(id string) (*Group, bool)
	AttributeByID(id string) (*Attribute, bool)
	AttributeByKey(key string) (*Attribute, bool)
}

// StaticConfigInput carries the entity slices a StaticConfig is built from.
type StaticConfigInput struct {
	Experiments []Experiment
	Audiences   []Audience
	Groups      []Group
	Rollouts    []Rollout
	Features    []FeatureFlag
	Attributes  []Attribute
}

// StaticConfig is an immutable ProjectConfig backed by maps indexed at
// construction time. It is the implementation used in tests and by hosts
// that parse datafiles themselves.
type StaticConfig struct {
	audiencesByID    map[string]*Audience
	experimentsByID  map[string]*Experiment
	experimentsByKey map[string]*Experiment
	featuresByKey    map[string]*FeatureFlag
	rolloutsByID     map[string]*Rollout
	groupsByID       map[string]*Group
	attributesByID   map[string]*Attribute
	attributesByKey  map[string]*Attribute
}

// NewStaticConfig indexes the given entities into a StaticConfig. The input
// slices are referenced, not copied; callers must not mutate them afterwards.
func NewStaticConfig(in StaticConfigInput) *StaticConfig {
	c := &StaticConfig{
		audiencesByID:    make(map[string]*Audience, len(in.Audiences)),
		experimentsByID:  make(map[string]*Experiment, len(in.Experiments)),
		experimentsByKey: make(map[string]*Experiment, len(in.Experiments)),
		featuresByKey:    make(map[string]*FeatureFlag, len(in.Features)),
		rolloutsByID:     make(map[string]*Rollout, len(in.Rollouts)),
		groupsByID:       make(map[string]*Group, len(in.Groups)),
		attributesByID:   make(map[string]*Attribute, len(in.Attributes)),
		attributesByKey:  make(map[string]*Attribute, len(in.Attributes)),
	}
	for i := range in.Audiences {
		a := &in.Audiences[i]
		c.audiencesByID[a.ID] = a
	}
	for i := range in.Experiments {
		e := &in.Experiments[i]
		c.experimentsByID[e.ID] = e
		c.experimentsByKey[e.Key] = e
	}
	for i := range in.Features {
		f := &in.Features[i]
		c.featuresByKey[f.Key] = f
	}
	for i := range in.Rollouts {
		r := &in.Rollouts[i]
		c.rolloutsByID[r.ID] = r
		// Rollout rules are experiments too; index them by ID so sticky
		// bucketing profiles can resolve them.
		for j := range r.Experiments {
			e := &r.Experiments[j]
			if _, taken := c.experimentsByID[e.ID]; !taken {
				c.experimentsByID[e.ID] = e
			}
		}
	}
	for i := range in.Groups {
		g := &in.Groups[i]
		c.groupsByID[g.ID] = g
	}
	for i := range in.Attributes {
		a := &in.Attributes[i]
		c.attributesByID[a.ID] = a
		c.attributesByKey[a.Key] = a
	}
	return c
}

func (c *StaticConfig) AudienceByID(id string) (*Audience, bool) {
	a, ok := c.audiencesByID[id]
	return a, ok
}

func (c *StaticConfig) ExperimentByID(id string) (*Experiment, bool) {
	e, ok := c.experimentsByID[id]
	return e, ok
}

func (c *StaticConfig) ExperimentByKey(key string) (*Experiment, bool) {
	e, ok := c.experimentsByKey[key]
	return e, ok
}

func (c *StaticConfig) FeatureByKey(key string) (*FeatureFlag, bool) {
	f, ok := c.featuresByKey[key]
	return f, ok
}

func (c *StaticConfig) RolloutByID(id string) (*Rollout, bool) {
	r, ok := c.rolloutsByID[id]
	return r, ok
}

func (c *StaticConfig) GroupByID(id string) (*Group, bool) {
	g, ok := c.groupsByID[id]
	return g, ok
}

func (c *StaticConfig) AttributeByID(id string) (*Attribute, bool) {
	a, ok := c.attributesByID[id]
	return a, ok
}

func (c *StaticConfig) AttributeByKey(key string) (*Attribute, bool) {
	a, ok := c.attributesByKey[key]
	return a, ok
}
