package testsupport

import (
	"context"
	"sync"

	"github.com/goliatone/go-basemodel/entity"
)

// Call is one recorded store or cache invocation.
type Call struct {
	// Source is "entity" or "cache".
	Source string
	Method string
	Query  *entity.Query
	Data   entity.Row
	Tables []string
}

// String returns "source.method".
func (c Call) String() string {
	return c.Source + "." + c.Method
}

// Journal collects calls from several recorders in order, so tests can
// assert on the interleaving of cache and store activity.
type Journal struct {
	mu    sync.Mutex
	calls []Call
}

// NewJournal returns an empty journal.
func NewJournal() *Journal {
	return &Journal{}
}

func (j *Journal) record(c Call) {
	j.mu.Lock()
	j.calls = append(j.calls, c)
	j.mu.Unlock()
}

// Calls returns a copy of the recorded calls.
func (j *Journal) Calls() []Call {
	j.mu.Lock()
	defer j.mu.Unlock()
	return append([]Call(nil), j.calls...)
}

// Labels returns Call.String for every recorded call.
func (j *Journal) Labels() []string {
	calls := j.Calls()
	out := make([]string, len(calls))
	for i, c := range calls {
		out[i] = c.String()
	}
	return out
}

// Last returns the most recent call from source, if any.
func (j *Journal) Last(source string) (Call, bool) {
	j.mu.Lock()
	defer j.mu.Unlock()
	for i := len(j.calls) - 1; i >= 0; i-- {
		if j.calls[i].Source == source {
			return j.calls[i], true
		}
	}
	return Call{}, false
}

// Reset drops every recorded call.
func (j *Journal) Reset() {
	j.mu.Lock()
	j.calls = nil
	j.mu.Unlock()
}

var _ entity.Entity = (*RecordingEntity)(nil)

// RecordingEntity is an in-memory entity.Entity that records every call and
// answers with the canned results below. Err, when set, is returned by every
// method after the call is recorded.
type RecordingEntity struct {
	Journal *Journal

	CountResult int
	Rows        []entity.Row
	One         entity.Row
	Affected    int64
	Err         error

	name  string
	table string
}

// NewRecordingEntity returns a recorder for the model name stored in table.
// A nil journal gets a fresh one.
func NewRecordingEntity(name, table string, journal *Journal) *RecordingEntity {
	if journal == nil {
		journal = NewJournal()
	}
	return &RecordingEntity{Journal: journal, name: name, table: table}
}

// Name implements entity.TableNamer.
func (e *RecordingEntity) Name() string { return e.name }

// TableName implements entity.TableNamer.
func (e *RecordingEntity) TableName() string { return e.table }

// LastQuery returns the query of the most recent store call.
func (e *RecordingEntity) LastQuery() *entity.Query {
	c, _ := e.Journal.Last("entity")
	return c.Query
}

// LastData returns the data row of the most recent store call.
func (e *RecordingEntity) LastData() entity.Row {
	c, _ := e.Journal.Last("entity")
	return c.Data
}

func (e *RecordingEntity) record(method string, q *entity.Query, data entity.Row) {
	e.Journal.record(Call{Source: "entity", Method: method, Query: q, Data: data, Tables: []string{e.table}})
}

// Count implements entity.Entity.
func (e *RecordingEntity) Count(_ context.Context, q *entity.Query) (int, error) {
	e.record(entity.MethodCount, q, nil)
	if e.Err != nil {
		return 0, e.Err
	}
	return e.CountResult, nil
}

// FindAll implements entity.Entity.
func (e *RecordingEntity) FindAll(_ context.Context, q *entity.Query) ([]entity.Row, error) {
	e.record(entity.MethodFindAll, q, nil)
	if e.Err != nil {
		return nil, e.Err
	}
	return e.Rows, nil
}

// FindOne implements entity.Entity.
func (e *RecordingEntity) FindOne(_ context.Context, q *entity.Query) (entity.Row, error) {
	e.record(entity.MethodFindOne, q, nil)
	if e.Err != nil {
		return nil, e.Err
	}
	return e.One, nil
}

// FindAndCountAll implements entity.Entity.
func (e *RecordingEntity) FindAndCountAll(_ context.Context, q *entity.Query) (entity.PageResult, error) {
	e.record(entity.MethodFindAndCountAll, q, nil)
	if e.Err != nil {
		return entity.PageResult{}, e.Err
	}
	return entity.PageResult{Count: e.CountResult, Rows: e.Rows}, nil
}

// Create implements entity.Entity. It echoes a copy of data.
func (e *RecordingEntity) Create(_ context.Context, data entity.Row) (entity.Row, error) {
	e.record(entity.MethodCreate, nil, data)
	if e.Err != nil {
		return nil, e.Err
	}
	return data.Clone(), nil
}

// Update implements entity.Entity.
func (e *RecordingEntity) Update(_ context.Context, data entity.Row, q *entity.Query) (int64, error) {
	e.record(entity.MethodUpdate, q, data)
	if e.Err != nil {
		return 0, e.Err
	}
	return e.Affected, nil
}

// Destroy implements entity.Entity.
func (e *RecordingEntity) Destroy(_ context.Context, q *entity.Query) (int64, error) {
	e.record(entity.MethodDestroy, q, nil)
	if e.Err != nil {
		return 0, e.Err
	}
	return e.Affected, nil
}

var _ entity.Cacher = (*RecordingCacher)(nil)

// RecordingCacher is an entity.Cacher that records every call and always
// runs the fetch function. ClearErr is returned from BatchClearCache.
type RecordingCacher struct {
	Journal  *Journal
	Find     []string
	Update   []string
	ClearErr error
}

// NewRecordingCacher returns a recorder declaring the standard read and
// write methods. A nil journal gets a fresh one.
func NewRecordingCacher(journal *Journal) *RecordingCacher {
	if journal == nil {
		journal = NewJournal()
	}
	return &RecordingCacher{
		Journal: journal,
		Find: []string{
			entity.MethodCount,
			entity.MethodFindAll,
			entity.MethodFindOne,
			entity.MethodFindAndCountAll,
		},
		Update: []string{
			entity.MethodCreate,
			entity.MethodUpdate,
			entity.MethodDestroy,
		},
	}
}

// FindMethods implements entity.Cacher.
func (c *RecordingCacher) FindMethods() []string { return c.Find }

// UpdateMethods implements entity.Cacher.
func (c *RecordingCacher) UpdateMethods() []string { return c.Update }

// Run implements entity.Cacher. The call is recorded under the store method
// name, "cache.findAll" for example.
func (c *RecordingCacher) Run(ctx context.Context, method string, tables []string, fetch entity.FetchFunc, args ...any) (any, error) {
	call := Call{Source: "cache", Method: method, Tables: append([]string(nil), tables...)}
	for _, arg := range args {
		if q, ok := arg.(*entity.Query); ok {
			call.Query = q
		}
	}
	c.Journal.record(call)
	return fetch(ctx)
}

// BatchClearCache implements entity.Cacher.
func (c *RecordingCacher) BatchClearCache(_ context.Context, tables []string) error {
	c.Journal.record(Call{Source: "cache", Method: "BatchClearCache", Tables: append([]string(nil), tables...)})
	return c.ClearErr
}
