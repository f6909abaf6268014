package analysis

import (
	"fmt"
	"sort"

	"gonum.org/v1/gonum/mat"
)

// UnknownOperationError reports a dispatch against an operation name that is
// not present in the registry.
type UnknownOperationError struct {
	// Name is the requested operation.
	Name string

	// Known lists the registered operation names, sorted.
	Known []string
}

func (e *UnknownOperationError) Error() string {
	return fmt.Sprintf("unknown analysis operation %q (registered: %v)", e.Name, e.Known)
}

// Registry maps operation names to routines. It is populated once at
// construction time and read-only afterwards, so concurrent dispatch against
// independent sample matrices is safe.
type Registry struct {
	routines map[string]Routine
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{routines: make(map[string]Routine)}
}

// Default returns a registry populated with the built-in routines:
// "pca", "kmeans", "gaussian_mixture" and "ucls".
func Default() *Registry {
	r := NewRegistry()
	for _, rt := range []Routine{
		&PCA{},
		&KMeans{},
		&GaussianMixture{},
		&UCLS{},
	} {
		// Built-in names are distinct, Register cannot fail here.
		if err := r.Register(rt); err != nil {
			panic(err)
		}
	}
	return r
}

// Register adds a routine under its name. Registering a second routine with
// the same name is an error.
func (r *Registry) Register(rt Routine) error {
	name := rt.Name()
	if _, ok := r.routines[name]; ok {
		return fmt.Errorf("analysis operation %q already registered", name)
	}
	r.routines[name] = rt
	return nil
}

// Lookup returns the routine registered under name, or an
// *UnknownOperationError.
func (r *Registry) Lookup(name string) (Routine, error) {
	rt, ok := r.routines[name]
	if !ok {
		return nil, &UnknownOperationError{Name: name, Known: r.Names()}
	}
	return rt, nil
}

// Dispatch looks up the named routine and runs it on the sample matrix,
// forwarding the options unchanged and returning the routine's result
// unmodified. Dispatch performs no algorithmic work itself.
func (r *Registry) Dispatch(name string, samples mat.Matrix, opts Options) (*Result, error) {
	rt, err := r.Lookup(name)
	if err != nil {
		return nil, err
	}
	return rt.Run(samples, opts)
}

// Names returns the registered operation names in sorted order.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.routines))
	for name := range r.routines {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ByCategory returns the sorted names of the routines in the given category.
func (r *Registry) ByCategory(c Category) []string {
	var names []string
	for name, rt := range r.routines {
		if rt.Category() == c {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names
}
