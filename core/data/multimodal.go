package data

import (
	"sort"

	"github.com/yursur/FEDOT/pkg/errors"
)

// MultiModal maps named data-source keys to containers, used when a pipeline
// has several input branches. All members must share the sample count so
// that a split keeps the sources aligned.
type MultiModal map[string]*InputData

// Sources returns the source keys in deterministic order.
func (m MultiModal) Sources() []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Len returns the shared sample count, or an error when the members
// disagree.
func (m MultiModal) Len() (int, error) {
	n := -1
	for _, key := range m.Sources() {
		l := m[key].Len()
		if n == -1 {
			n = l
			continue
		}
		if l != n {
			return 0, errors.NewDimensionError("MultiModal.Len", n, l, 0)
		}
	}
	if n == -1 {
		return 0, errors.Wrap(errors.ErrEmptyData, "MultiModal.Len")
	}
	return n, nil
}
