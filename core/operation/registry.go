package operation

import (
	"sort"
	"strings"
	"sync"

	"github.com/yursur/FEDOT/pkg/errors"
)

// Factory builds an operation from free-form parameters. Factories validate
// their parameters and fail fast at construction time.
type Factory func(params Params) (Operation, error)

var (
	registryMu sync.RWMutex
	registry   = map[string]Factory{}
)

// Register makes an operation constructor available under the given name.
// Concrete operation packages call this from init.
func Register(name string, factory Factory) {
	registryMu.Lock()
	defer registryMu.Unlock()
	registry[name] = factory
}

// New constructs a registered operation by name. An unknown name is a
// construction-time error enumerating the known operations.
func New(name string, params Params) (Operation, error) {
	registryMu.RLock()
	factory, ok := registry[name]
	registryMu.RUnlock()

	if !ok {
		return nil, errors.NewValueError("operation.New",
			"unknown operation '"+name+"'. Known operations: "+strings.Join(Known(), ", "))
	}
	return factory(params)
}

// Known returns the registered operation names in sorted order.
func Known() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()

	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
