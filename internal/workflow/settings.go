package workflow

import (
	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// RunSettings are the pipeline parameters written to nf_params.json. Keys keep the
// order they were first set in; setting a key again replaces its value in place.
type RunSettings struct {
	m *orderedmap.OrderedMap[string, any]
}

func NewRunSettings() *RunSettings {
	return &RunSettings{m: orderedmap.New[string, any]()}
}

func (r *RunSettings) Set(key string, value any) {
	r.m.Set(key, value)
}

func (r *RunSettings) Get(key string) (any, bool) {
	return r.m.Get(key)
}

func (r *RunSettings) Len() int {
	return r.m.Len()
}

// Keys returns the keys in insertion order.
func (r *RunSettings) Keys() []string {
	keys := make([]string, 0, r.m.Len())
	for pair := r.m.Oldest(); pair != nil; pair = pair.Next() {
		keys = append(keys, pair.Key)
	}
	return keys
}

func (r *RunSettings) MarshalJSON() ([]byte, error) {
	return r.m.MarshalJSON()
}
