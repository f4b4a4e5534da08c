package queryid

import (
	"context"

	"github.com/jensneuse/abstractlogger"
	"github.com/pkg/errors"
	"github.com/wundergraph/graphql-go-tools/v2/pkg/ast"
	"go.uber.org/atomic"
	"golang.org/x/sync/errgroup"

	"github.com/wundergraph/persisted-query-ids/pkg/fragments"
	"github.com/wundergraph/persisted-query-ids/pkg/typenameinjector"
)

var ErrMissingOperationName = errors.New("operation definition is missing a name")

type options struct {
	addTypeName              bool
	algorithm                string
	failOnDuplicateFragments bool
	concurrency              int
	logger                   abstractlogger.Logger
}

type Option func(options *options)

// WithAddTypeName controls whether __typename is added to nested selection sets. Enabled by default.
func WithAddTypeName(addTypeName bool) Option {
	return func(options *options) {
		options.addTypeName = addTypeName
	}
}

func WithAlgorithm(algorithm string) Option {
	return func(options *options) {
		options.algorithm = algorithm
	}
}

// WithFailOnDuplicateFragments rejects fragments that share a name but differ in their body.
func WithFailOnDuplicateFragments(fail bool) Option {
	return func(options *options) {
		options.failOnDuplicateFragments = fail
	}
}

// WithConcurrency sets the number of goroutines resolving operations. Values below 1 are treated as 1.
func WithConcurrency(concurrency int) Option {
	return func(options *options) {
		options.concurrency = concurrency
	}
}

func WithLogger(logger abstractlogger.Logger) Option {
	return func(options *options) {
		options.logger = logger
	}
}

// Generator computes a Record for every operation of a set of sources.
type Generator struct {
	options options
	hasher  *Hasher
}

func NewGenerator(opts ...Option) (*Generator, error) {
	g := &Generator{
		options: options{
			addTypeName: true,
			algorithm:   DefaultAlgorithm,
			concurrency: 1,
			logger:      abstractlogger.NoopLogger,
		},
	}
	for _, opt := range opts {
		opt(&g.options)
	}
	if g.options.concurrency < 1 {
		g.options.concurrency = 1
	}
	if g.options.logger == nil {
		g.options.logger = abstractlogger.NoopLogger
	}

	hasher, err := NewHasher(g.options.algorithm)
	if err != nil {
		return nil, err
	}
	g.hasher = hasher

	return g, nil
}

type job struct {
	operation fragments.Definition
}

// Generate runs the whole pass over sources. Either every operation gets a Record or an error is returned.
func (g *Generator) Generate(ctx context.Context, sources []Source) (*Result, error) {
	documents, err := g.prepare(sources)
	if err != nil {
		return nil, err
	}

	registryOptions := []fragments.RegistryOption{fragments.WithLogger(g.options.logger)}
	if g.options.failOnDuplicateFragments {
		registryOptions = append(registryOptions, fragments.WithFailOnDuplicates())
	}
	registry := fragments.NewRegistry(registryOptions...)
	for i := range documents {
		if err := registry.AddDocument(documents[i].Name, documents[i].Document); err != nil {
			return nil, errors.Wrapf(err, "registering fragments of %s", documents[i].Name)
		}
	}

	jobs, err := g.jobs(documents)
	if err != nil {
		return nil, err
	}

	g.options.logger.Debug("queryid: generating",
		abstractlogger.Int("documents", len(documents)),
		abstractlogger.Int("fragments", registry.Len()),
		abstractlogger.Int("operations", len(jobs)),
	)

	records := make([]Record, len(jobs))
	var resolved atomic.Int64

	workers := min(g.options.concurrency, len(jobs))
	if workers <= 1 {
		resolver := fragments.NewResolver(registry)
		for i := range jobs {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			if records[i], err = g.record(resolver, jobs[i]); err != nil {
				return nil, err
			}
			resolved.Inc()
		}
	} else {
		group, groupCtx := errgroup.WithContext(ctx)
		for w := 0; w < workers; w++ {
			w := w // per-iteration copy; go.mod targets go 1.21 (pre-1.22 loop semantics)
			group.Go(func() error {
				resolver := fragments.NewResolver(registry)
				for i := w; i < len(jobs); i += workers {
					if err := groupCtx.Err(); err != nil {
						return err
					}
					record, err := g.record(resolver, jobs[i])
					if err != nil {
						return err
					}
					records[i] = record
					resolved.Inc()
				}
				return nil
			})
		}
		if err := group.Wait(); err != nil {
			return nil, err
		}
	}

	result := NewResult(records)
	if overwritten := len(records) - result.Len(); overwritten > 0 {
		g.options.logger.Debug("queryid: operations with duplicate names were overwritten",
			abstractlogger.Int("overwritten", overwritten),
		)
	}

	g.options.logger.Debug("queryid: generated",
		abstractlogger.Int("resolved", int(resolved.Load())),
		abstractlogger.Int("records", result.Len()),
	)

	return result, nil
}

func (g *Generator) prepare(sources []Source) ([]Source, error) {
	if !g.options.addTypeName {
		return sources, nil
	}

	injector := typenameinjector.NewInjector()
	out := make([]Source, len(sources))
	for i := range sources {
		document, err := injector.Inject(sources[i].Document)
		if err != nil {
			return nil, errors.Wrapf(err, "adding __typename to %s", sources[i].Name)
		}
		out[i] = Source{
			Name:     sources[i].Name,
			Document: document,
		}
	}
	return out, nil
}

func (g *Generator) jobs(sources []Source) ([]job, error) {
	var jobs []job
	for i := range sources {
		document := sources[i].Document
		for _, node := range document.RootNodes {
			if node.Kind != ast.NodeKindOperationDefinition {
				continue
			}
			if document.OperationDefinitions[node.Ref].Name.Length() == 0 {
				location := operationLocation(sources[i].Name, document, node.Ref)
				return nil, errors.Wrapf(ErrMissingOperationName, "%s:%d:%d", location.Source, location.Line, location.Column)
			}
			jobs = append(jobs, job{
				operation: fragments.OperationDefinition(sources[i].Name, document, node.Ref),
			})
		}
	}
	return jobs, nil
}

func (g *Generator) record(resolver *fragments.Resolver, j job) (Record, error) {
	name := j.operation.Name()

	closure, err := resolver.Resolve(j.operation)
	if err != nil {
		return Record{}, errors.Wrapf(err, "resolving fragments of operation %s in %s", name, j.operation.Source)
	}

	query, err := Canonicalize(j.operation, closure)
	if err != nil {
		return Record{}, err
	}

	document := j.operation.Document
	operation := document.OperationDefinitions[j.operation.Ref]

	return Record{
		Name:          name,
		OperationType: operation.OperationType.Name(),
		Query:         query,
		Hash:          g.hasher.Hash(query),
		UsesVariables: operation.HasVariableDefinitions && len(operation.VariableDefinitions.Refs) > 0,
		Fragments:     closure.Names(),
		Location:      operationLocation(j.operation.Source, document, j.operation.Ref),
	}, nil
}

func operationLocation(source string, document *ast.Document, ref int) Location {
	operation := document.OperationDefinitions[ref]
	position := operation.OperationTypeLiteral
	if position.LineStart == 0 {
		position = document.SelectionSets[operation.SelectionSet].LBrace
	}
	return Location{
		Source: source,
		Line:   int(position.LineStart),
		Column: int(position.CharStart),
	}
}
