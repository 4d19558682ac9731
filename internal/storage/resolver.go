package storage

import (
	"context"
	"errors"
	"sync"

	"github.com/muhammadolammi/skillbridge/internal/database"
	"github.com/rs/zerolog"
)

// SchemaProber is what the resolver needs from the structured store.
// *database.Queries implements it.
type SchemaProber interface {
	Dialect() database.Dialect
	Qualify(ns database.Namespace, kind database.RecordKind) string
	CurrentNamespace(ctx context.Context) (database.Namespace, error)
	CreateSchema(ctx context.Context, ns database.Namespace) error
	CreateTable(ctx context.Context, location string, kind database.RecordKind) error
	ProbeTable(ctx context.Context, location string) error
}

// Binding is the resolved storage decision for one record kind.
type Binding struct {
	Kind     database.RecordKind `json:"kind"`
	Usable   bool                `json:"usable"`
	Location string              `json:"location,omitempty"`
}

type ResolverConfig struct {
	// Target overrides the ambient namespace part by part.
	Target database.Namespace
	// AllowCreate permits CREATE SCHEMA / CREATE TABLE attempts.
	AllowCreate bool
}

// Resolver decides where records of each kind live in the structured store.
type Resolver struct {
	prober SchemaProber
	cfg    ResolverConfig
}

// NewResolver returns a resolver; a nil prober resolves every kind as unusable.
func NewResolver(prober SchemaProber, cfg ResolverConfig) *Resolver {
	return &Resolver{prober: prober, cfg: cfg}
}

// Resolve runs the probing strategies in order and stops at the first one that
// yields a usable location. Every step failure is kept; the joined faults are
// returned only when no strategy worked.
func (r *Resolver) Resolve(ctx context.Context, kind database.RecordKind) (Binding, error) {
	unusable := Binding{Kind: kind}
	if r.prober == nil {
		return unusable, fault(FaultUnavailable, kind, "resolve", errors.New("structured store not configured"))
	}

	var faults []error
	ns := r.cfg.Target
	if ns.Catalog == "" || ns.Schema == "" {
		ambient, err := r.prober.CurrentNamespace(ctx)
		if err != nil {
			faults = append(faults, fault(FaultPermission, kind, "current namespace", err))
		}
		if ns.Catalog == "" {
			ns.Catalog = ambient.Catalog
		}
		if ns.Schema == "" {
			ns.Schema = ambient.Schema
		}
	}

	if r.prober.Dialect().Complete(ns) {
		loc := r.prober.Qualify(ns, kind)
		if !r.cfg.AllowCreate {
			if err := r.prober.ProbeTable(ctx, loc); err != nil {
				faults = append(faults, fault(FaultPermission, kind, "probe", err))
				return unusable, errors.Join(faults...)
			}
			return Binding{Kind: kind, Usable: true, Location: loc}, nil
		}

		if err := r.prober.CreateSchema(ctx, ns); err != nil {
			faults = append(faults, fault(FaultPermission, kind, "create schema", err))
		}
		if err := r.prober.CreateTable(ctx, loc, kind); err != nil {
			faults = append(faults, fault(FaultPermission, kind, "create table", err))
		} else {
			return Binding{Kind: kind, Usable: true, Location: loc}, nil
		}
	}

	if !r.cfg.AllowCreate {
		faults = append(faults, fault(FaultUnavailable, kind, "resolve", errors.New("no namespace and no create permission")))
		return unusable, errors.Join(faults...)
	}

	for _, fallback := range []database.Namespace{{}, {Schema: "default"}} {
		loc := r.prober.Qualify(fallback, kind)
		if err := r.prober.CreateTable(ctx, loc, kind); err != nil {
			faults = append(faults, fault(FaultPermission, kind, "create table", err))
			continue
		}
		return Binding{Kind: kind, Usable: true, Location: loc}, nil
	}
	return unusable, errors.Join(faults...)
}

type bindingEntry struct {
	binding Binding
	err     error
}

// Bindings memoizes one resolution per record kind for the lifetime of the value.
// Nothing invalidates an entry; a permission change needs a new Bindings.
type Bindings struct {
	resolver *Resolver
	log      zerolog.Logger

	mu      sync.Mutex
	entries map[database.RecordKind]bindingEntry
}

func NewBindings(resolver *Resolver, log zerolog.Logger) *Bindings {
	return &Bindings{
		resolver: resolver,
		log:      log,
		entries:  make(map[database.RecordKind]bindingEntry),
	}
}

// Get returns the cached binding for kind, resolving it on first use.
func (b *Bindings) Get(ctx context.Context, kind database.RecordKind) (Binding, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if e, ok := b.entries[kind]; ok {
		return e.binding, e.err
	}

	binding, err := b.resolver.Resolve(ctx, kind)
	if ctx.Err() != nil {
		// cancelled lookups are not cached
		return binding, err
	}
	if err != nil {
		b.log.Warn().Err(err).Str("kind", string(kind)).Msg("structured store unusable, records go to flat files")
	} else {
		b.log.Info().Str("kind", string(kind)).Str("location", binding.Location).Msg("structured store bound")
	}
	b.entries[kind] = bindingEntry{binding: binding, err: err}
	return binding, err
}
