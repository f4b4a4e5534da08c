package fragments

import (
	"github.com/cespare/xxhash/v2"
	"github.com/jensneuse/abstractlogger"
	"github.com/pkg/errors"
	"github.com/wundergraph/graphql-go-tools/v2/pkg/ast"
)

type registryOptions struct {
	logger           abstractlogger.Logger
	failOnDuplicates bool
}

type RegistryOption func(options *registryOptions)

func WithLogger(logger abstractlogger.Logger) RegistryOption {
	return func(options *registryOptions) {
		options.logger = logger
	}
}

// WithFailOnDuplicates makes AddDocument fail with a DuplicateFragmentError when two
// fragments with the same name but different bodies are registered.
func WithFailOnDuplicates() RegistryOption {
	return func(options *registryOptions) {
		options.failOnDuplicates = true
	}
}

var fingerprint = xxhash.Sum64String

type entry struct {
	definition  Definition
	printed     string
	fingerprint uint64
}

func (e entry) identical(other entry) bool {
	return e.fingerprint == other.fingerprint && e.printed == other.printed
}

// Registry maps fragment names to their definitions across all documents of one generation run.
// A Registry is safe for concurrent reads once all documents are added.
type Registry struct {
	options registryOptions
	entries map[string]entry
	names   []string
}

func NewRegistry(options ...RegistryOption) *Registry {
	r := &Registry{
		options: registryOptions{
			logger: abstractlogger.NoopLogger,
		},
		entries: map[string]entry{},
	}
	for _, option := range options {
		option(&r.options)
	}
	return r
}

// AddDocument registers every fragment definition of document.
// Later definitions of a name overwrite earlier ones unless the registry is strict.
func (r *Registry) AddDocument(source string, document *ast.Document) error {
	for _, node := range document.RootNodes {
		if node.Kind != ast.NodeKindFragmentDefinition {
			continue
		}
		if err := r.Add(FragmentDefinition(source, document, node.Ref)); err != nil {
			return err
		}
	}
	return nil
}

// Add registers a single fragment definition.
func (r *Registry) Add(definition Definition) error {
	if definition.Kind != ast.NodeKindFragmentDefinition {
		return errors.Errorf("fragments: cannot register definition of kind %v", definition.Kind)
	}

	printed, err := definition.Print()
	if err != nil {
		return errors.Wrapf(err, "printing fragment %s", definition.Name())
	}

	name := definition.Name()
	added := entry{
		definition:  definition,
		printed:     printed,
		fingerprint: fingerprint(printed),
	}

	existing, exists := r.entries[name]
	if !exists {
		r.entries[name] = added
		r.names = append(r.names, name)
		return nil
	}

	if existing.identical(added) {
		r.options.logger.Debug("fragments: identical fragment registered twice",
			abstractlogger.String("fragment", name),
			abstractlogger.String("first", existing.definition.Source),
			abstractlogger.String("second", definition.Source),
		)
		r.entries[name] = added
		return nil
	}

	if r.options.failOnDuplicates {
		return &DuplicateFragmentError{
			Name:   name,
			First:  existing.definition.Source,
			Second: definition.Source,
		}
	}

	r.options.logger.Warn("fragments: conflicting fragment definition overwrites previous one",
		abstractlogger.String("fragment", name),
		abstractlogger.String("previous", existing.definition.Source),
		abstractlogger.String("source", definition.Source),
	)
	r.entries[name] = added
	return nil
}

func (r *Registry) Lookup(name string) (Definition, bool) {
	e, ok := r.entries[name]
	return e.definition, ok
}

func (r *Registry) Len() int {
	return len(r.entries)
}

// Names returns the registered fragment names in order of first registration.
func (r *Registry) Names() []string {
	return append([]string(nil), r.names...)
}
