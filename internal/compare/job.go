package compare

import (
	"os"
	"slices"
	"sort"
	"strings"

	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"
)

// Measure names a household-level indicator column in a CSV file with Year
// and ID columns.
type Measure struct {
	Source string `yaml:"source"`
	Value  string `yaml:"value"`
}

// Job declares one comparison file: which standardized table column holds
// the reference series, and how to derive the household indicator.
type Job struct {
	Table  string `yaml:"table"`
	Column string `yaml:"column"`

	Measure `yaml:",inline"`

	// AnyOf flags a household when any of these columns is true or nonzero.
	AnyOf []string `yaml:"any_of,omitempty"`
	// Equals flags a household whose value equals this number.
	Equals *float64 `yaml:"equals,omitempty"`
	// AtLeast flags a household whose value is at least this number.
	AtLeast *float64 `yaml:"at_least,omitempty"`
	// Is flags a household whose value is exactly this text, e.g. an
	// activity status.
	Is string `yaml:"is,omitempty"`
	// Percent multiplies the aggregates by 100.
	Percent bool `yaml:"percent,omitempty"`
	// ShareOf divides the aggregates by those of another measure, as a percentage.
	ShareOf *Measure `yaml:"share_of,omitempty"`
}

// Key is "<table>/<column>".
func (j Job) Key() string {
	return j.Table + "/" + j.Column
}

// Validate checks that the job is complete and unambiguous.
func (j Job) Validate() error {
	switch {
	case j.Table == "" || j.Column == "":
		return eris.Errorf("compare: job %q needs table and column", j.Key())
	case j.Source == "":
		return eris.Errorf("compare: job %q needs a source", j.Key())
	case j.Value == "" && len(j.AnyOf) == 0:
		return eris.Errorf("compare: job %q needs value or any_of", j.Key())
	case j.Value != "" && len(j.AnyOf) > 0:
		return eris.Errorf("compare: job %q sets both value and any_of", j.Key())
	case j.flagRules() > 1:
		return eris.Errorf("compare: job %q sets more than one of equals, at_least, is", j.Key())
	case j.Is != "" && len(j.AnyOf) > 0:
		return eris.Errorf("compare: job %q cannot combine is with any_of", j.Key())
	case j.ShareOf != nil && (j.ShareOf.Source == "" || j.ShareOf.Value == ""):
		return eris.Errorf("compare: job %q share_of needs source and value", j.Key())
	}
	return nil
}

func (j Job) flagRules() int {
	n := 0
	if j.Equals != nil {
		n++
	}
	if j.AtLeast != nil {
		n++
	}
	if j.Is != "" {
		n++
	}
	return n
}

// Registry holds comparison jobs in declaration order.
type Registry struct {
	jobs  map[string]Job
	order []string
}

// NewRegistry creates a registry from jobs. Duplicate keys are an error.
func NewRegistry(jobs []Job) (*Registry, error) {
	r := &Registry{jobs: make(map[string]Job, len(jobs))}
	for _, j := range jobs {
		if err := j.Validate(); err != nil {
			return nil, err
		}
		if _, dup := r.jobs[j.Key()]; dup {
			return nil, eris.Errorf("compare: duplicate job %q", j.Key())
		}
		r.jobs[j.Key()] = j
		r.order = append(r.order, j.Key())
	}
	return r, nil
}

// LoadJobs reads a comparisons YAML file with a top-level "comparisons" list.
func LoadJobs(path string) (*Registry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrapf(err, "compare: read jobs %s", path)
	}

	var wrapper struct {
		Comparisons []Job `yaml:"comparisons"`
	}
	if err := yaml.Unmarshal(data, &wrapper); err != nil {
		return nil, eris.Wrap(err, "compare: parse jobs")
	}
	return NewRegistry(wrapper.Comparisons)
}

// Get returns a job by key.
func (r *Registry) Get(key string) (Job, error) {
	j, ok := r.jobs[key]
	if !ok {
		return Job{}, eris.Errorf("compare: unknown job %q", key)
	}
	return j, nil
}

// All returns every job in declaration order.
func (r *Registry) All() []Job {
	out := make([]Job, 0, len(r.order))
	for _, k := range r.order {
		out = append(out, r.jobs[k])
	}
	return out
}

// Select returns the named jobs, or all jobs when keys is empty. A key that
// names only a table ("household_size") selects all of its columns.
func (r *Registry) Select(keys []string) ([]Job, error) {
	if len(keys) == 0 {
		return r.All(), nil
	}

	var out []Job
	seen := make(map[string]bool)
	for _, key := range keys {
		if strings.Contains(key, "/") {
			j, err := r.Get(key)
			if err != nil {
				return nil, err
			}
			if !seen[j.Key()] {
				seen[j.Key()] = true
				out = append(out, j)
			}
			continue
		}
		tables := r.Tables()
		if !slices.Contains(tables, key) {
			return nil, eris.Errorf("compare: no jobs for table %q (known: %s)", key, strings.Join(tables, ", "))
		}
		for _, j := range r.All() {
			if j.Table == key && !seen[j.Key()] {
				seen[j.Key()] = true
				out = append(out, j)
			}
		}
	}
	return out, nil
}

// Tables returns the distinct table names, sorted.
func (r *Registry) Tables() []string {
	seen := make(map[string]bool)
	var out []string
	for _, j := range r.jobs {
		if !seen[j.Table] {
			seen[j.Table] = true
			out = append(out, j.Table)
		}
	}
	sort.Strings(out)
	return out
}
