package storage

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/muhammadolammi/skillbridge/internal/database"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeProber struct {
	ambient      database.Namespace
	ambientErr   error
	schemaErr    error
	probeErr     error
	createFailOn map[string]bool

	mu      sync.Mutex
	calls   []string
	created []string
}

func (f *fakeProber) record(call string) {
	f.mu.Lock()
	f.calls = append(f.calls, call)
	f.mu.Unlock()
}

func (f *fakeProber) Dialect() database.Dialect { return database.Databricks }

func (f *fakeProber) Qualify(ns database.Namespace, kind database.RecordKind) string {
	return database.Databricks.Qualify(ns, kind.Table())
}

func (f *fakeProber) CurrentNamespace(ctx context.Context) (database.Namespace, error) {
	f.record("current")
	if err := ctx.Err(); err != nil {
		return database.Namespace{}, err
	}
	return f.ambient, f.ambientErr
}

func (f *fakeProber) CreateSchema(context.Context, database.Namespace) error {
	f.record("schema")
	return f.schemaErr
}

func (f *fakeProber) CreateTable(_ context.Context, location string, _ database.RecordKind) error {
	f.record("create " + location)
	if f.createFailOn[location] {
		return errors.New("PERMISSION_DENIED")
	}
	f.mu.Lock()
	f.created = append(f.created, location)
	f.mu.Unlock()
	return nil
}

func (f *fakeProber) ProbeTable(_ context.Context, location string) error {
	f.record("probe " + location)
	return f.probeErr
}

func TestResolveUsesConfiguredNamespace(t *testing.T) {
	p := &fakeProber{}
	r := NewResolver(p, ResolverConfig{Target: database.Namespace{Catalog: "hackathon", Schema: "career"}, AllowCreate: true})

	b, err := r.Resolve(context.Background(), database.KindPlans)
	require.NoError(t, err)
	assert.True(t, b.Usable)
	assert.Equal(t, "`hackathon`.`career`.`upskilling_plans`", b.Location)
	assert.NotContains(t, p.calls, "current", "ambient lookup skipped when both parts are configured")
}

func TestResolveFillsMissingPartFromAmbient(t *testing.T) {
	p := &fakeProber{ambient: database.Namespace{Catalog: "workspace", Schema: "default"}}
	r := NewResolver(p, ResolverConfig{Target: database.Namespace{Schema: "career"}, AllowCreate: true})

	b, err := r.Resolve(context.Background(), database.KindNotifications)
	require.NoError(t, err)
	assert.Equal(t, "`workspace`.`career`.`notifications`", b.Location)
}

func TestResolveSchemaFailureStillTriesTable(t *testing.T) {
	p := &fakeProber{
		ambient:   database.Namespace{Catalog: "workspace", Schema: "default"},
		schemaErr: errors.New("no CREATE SCHEMA privilege"),
	}
	r := NewResolver(p, ResolverConfig{AllowCreate: true})

	b, err := r.Resolve(context.Background(), database.KindPlans)
	require.NoError(t, err)
	assert.True(t, b.Usable)
	assert.Equal(t, "`workspace`.`default`.`upskilling_plans`", b.Location)
}

func TestResolveProbeWithoutCreatePermission(t *testing.T) {
	p := &fakeProber{ambient: database.Namespace{Catalog: "workspace", Schema: "default"}}
	r := NewResolver(p, ResolverConfig{})

	b, err := r.Resolve(context.Background(), database.KindMentorRequests)
	require.NoError(t, err)
	assert.True(t, b.Usable)
	assert.Empty(t, p.created, "read-only resolution never creates objects")
	assert.Contains(t, p.calls, "probe `workspace`.`default`.`mentor_requests`")

	p.probeErr = errors.New("TABLE_OR_VIEW_NOT_FOUND")
	b, err = r.Resolve(context.Background(), database.KindMentorRequests)
	assert.False(t, b.Usable)
	assert.True(t, IsFault(err, FaultPermission))
}

func TestResolveFallsBackToUnqualifiedThenDefault(t *testing.T) {
	p := &fakeProber{
		ambientErr: errors.New("current_catalog not supported"),
		createFailOn: map[string]bool{
			"`upskilling_plans`": true,
		},
	}
	r := NewResolver(p, ResolverConfig{AllowCreate: true})

	b, err := r.Resolve(context.Background(), database.KindPlans)
	require.NoError(t, err)
	assert.True(t, b.Usable)
	assert.Equal(t, "`default`.`upskilling_plans`", b.Location)
	assert.Equal(t, []string{"current", "create `upskilling_plans`", "create `default`.`upskilling_plans`"}, p.calls)
}

func TestResolveExhaustionKeepsEveryFault(t *testing.T) {
	p := &fakeProber{
		ambient: database.Namespace{Catalog: "workspace", Schema: "default"},
		createFailOn: map[string]bool{
			"`workspace`.`default`.`notifications`": true,
			"`notifications`":                       true,
			"`default`.`notifications`":             true,
		},
	}
	r := NewResolver(p, ResolverConfig{AllowCreate: true})

	b, err := r.Resolve(context.Background(), database.KindNotifications)
	require.Error(t, err)
	assert.False(t, b.Usable)
	assert.Empty(t, b.Location)
	assert.Contains(t, err.Error(), "PERMISSION_DENIED")
	assert.True(t, IsFault(err, FaultPermission))
}

func TestResolveWithoutWarehouse(t *testing.T) {
	r := NewResolver(nil, ResolverConfig{AllowCreate: true})
	b, err := r.Resolve(context.Background(), database.KindPlans)
	assert.False(t, b.Usable)
	assert.True(t, IsFault(err, FaultUnavailable))
}

func TestBindingsProbeOncePerKind(t *testing.T) {
	p := &fakeProber{ambient: database.Namespace{Catalog: "workspace", Schema: "default"}}
	bindings := NewBindings(NewResolver(p, ResolverConfig{}), zerolog.Nop())
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = bindings.Get(ctx, database.KindPlans)
		}()
	}
	wg.Wait()
	_, _ = bindings.Get(ctx, database.KindNotifications)

	probes := 0
	for _, c := range p.calls {
		if c == "current" {
			probes++
		}
	}
	assert.Equal(t, 2, probes)
}

func TestBindingsDoNotCacheCancelledLookups(t *testing.T) {
	p := &fakeProber{ambient: database.Namespace{Catalog: "workspace", Schema: "default"}}
	bindings := NewBindings(NewResolver(p, ResolverConfig{}), zerolog.Nop())

	cancelled, cancel := context.WithCancel(context.Background())
	cancel()
	b, err := bindings.Get(cancelled, database.KindPlans)
	require.Error(t, err)
	assert.False(t, b.Usable)

	b, err = bindings.Get(context.Background(), database.KindPlans)
	require.NoError(t, err)
	assert.True(t, b.Usable)
	assert.Equal(t, "`workspace`.`default`.`upskilling_plans`", b.Location)

	_, _ = bindings.Get(context.Background(), database.KindPlans)
	probes := 0
	for _, c := range p.calls {
		if c == "current" {
			probes++
		}
	}
	assert.Equal(t, 2, probes, "the successful lookup is cached")
}
