package di

import (
	"context"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"

	"github.com/goliatone/go-basemodel/entity"
	"github.com/goliatone/go-basemodel/model"
	"github.com/goliatone/go-basemodel/repositorycache"
)

var _ bun.QueryHook = (*queryCounter)(nil)

// queryCounter counts statements reaching the database.
type queryCounter struct {
	n atomic.Int64
}

func (c *queryCounter) BeforeQuery(ctx context.Context, _ *bun.QueryEvent) context.Context {
	return ctx
}

func (c *queryCounter) AfterQuery(context.Context, *bun.QueryEvent) {
	c.n.Add(1)
}

func (c *queryCounter) Reset() int64 {
	return c.n.Swap(0)
}

type fixture struct {
	container *Container
	counter   *queryCounter
	users     *model.Model
	groups    *model.Model
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctx := context.Background()

	config := DefaultConfig()
	config.Store.DSN = ":memory:"
	container, err := NewContainer(config)
	require.NoError(t, err)
	t.Cleanup(func() { _ = container.Close() })

	db, err := container.DB()
	require.NoError(t, err)

	for _, ddl := range []string{
		`CREATE TABLE "groups" (id INTEGER PRIMARY KEY AUTOINCREMENT, title TEXT, invalid TEXT NOT NULL DEFAULT 'N')`,
		`CREATE TABLE "users" (id INTEGER PRIMARY KEY AUTOINCREMENT, nick_name TEXT, group_id INTEGER, invalid TEXT NOT NULL DEFAULT 'N')`,
	} {
		_, err := db.ExecContext(ctx, ddl)
		require.NoError(t, err)
	}

	counter := &queryCounter{}
	db.AddQueryHook(counter)

	users, err := container.StoreModel("User", nil)
	require.NoError(t, err)
	groups, err := container.StoreModel("Group", nil)
	require.NoError(t, err)

	for _, title := range []string{"admins", "guests"} {
		_, err := groups.Create(ctx, entity.Row{"title": title})
		require.NoError(t, err)
	}
	for _, row := range []entity.Row{
		{"nick_name": "ann", "group_id": 1},
		{"nick_name": "bob", "group_id": 2},
		{"nick_name": "cid", "group_id": 1},
	} {
		_, err := users.Create(ctx, row)
		require.NoError(t, err)
	}
	counter.Reset()

	return &fixture{container: container, counter: counter, users: users, groups: groups}
}

func (f *fixture) groupRelation() entity.Relation {
	return entity.Relation{
		Target:     f.groups.Entity(),
		Attributes: []string{"title"},
	}
}

func TestIntegration_ReadsAreCached(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	for i := 0; i < 3; i++ {
		rows, err := f.users.GetList(ctx, model.Where(nil), model.Fields{"id", "nick_name"}, model.Asc("id"))
		require.NoError(t, err)
		require.Len(t, rows, 3)
		assert.Equal(t, "ann", rows[0]["nick_name"])
	}
	assert.EqualValues(t, 1, f.counter.Reset(), "repeated reads should hit the database once")

	_, err := f.users.GetList(ctx, model.Where(map[string]any{"group_id": 1}), nil)
	require.NoError(t, err)
	assert.EqualValues(t, 1, f.counter.Reset(), "a different filter is a different cache entry")
}

func TestIntegration_WritesInvalidateOwnTable(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	n, err := f.users.Count(ctx, model.Filter{})
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	removed, err := f.users.Delete(ctx, model.Where(map[string]any{"nick_name": "bob"}))
	require.NoError(t, err)
	assert.EqualValues(t, 1, removed)

	n, err = f.users.Count(ctx, model.Filter{})
	require.NoError(t, err)
	assert.Equal(t, 2, n, "soft-deleted rows drop out of the active count")

	all, err := f.users.Count(ctx, model.Filter{BypassSoftDelete: true})
	require.NoError(t, err)
	assert.Equal(t, 3, all)
}

func TestIntegration_JoinedReadsInvalidateOnRelatedWrite(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	page, err := f.users.GetPageListContact(ctx,
		[]entity.Relation{f.groupRelation()},
		1, 2,
		model.Where(nil),
		model.Fields{"id", "nick_name"},
		model.Asc("id"),
	)
	require.NoError(t, err)
	assert.Equal(t, 3, page.Count)
	require.Len(t, page.Rows, 2)
	assert.Equal(t, "admins", page.Rows[0]["title"], "joined columns come back flattened")
	assert.NotContains(t, page.Rows[0], "Group.title")

	tracked := f.container.TableCache().TrackedKeys("groups")
	assert.Len(t, tracked, 1, "a joined read is tagged with the related table")

	_, err = f.groups.Update(ctx, model.Where(map[string]any{"id": 1}), entity.Row{"title": "owners"})
	require.NoError(t, err)
	assert.Empty(t, f.container.TableCache().TrackedKeys("groups"))

	f.counter.Reset()
	page, err = f.users.GetPageListContact(ctx,
		[]entity.Relation{f.groupRelation()},
		1, 2,
		model.Where(nil),
		model.Fields{"id", "nick_name"},
		model.Asc("id"),
	)
	require.NoError(t, err)
	assert.Equal(t, "owners", page.Rows[0]["title"])
	assert.EqualValues(t, 2, f.counter.Reset(), "count and select are re-run after invalidation")
}

func TestIntegration_CacheTagsFromContext(t *testing.T) {
	ctx := repositorycache.WithCacheTags(context.Background(), "reports")
	f := newFixture(t)

	read := func() {
		row, err := f.users.GetData(ctx, model.Where(map[string]any{"id": 1}), model.Fields{"nick_name"})
		require.NoError(t, err)
		assert.Equal(t, "ann", row["nick_name"])
	}

	read()
	assert.Len(t, f.container.TableCache().TrackedKeys("reports"), 1)
	assert.EqualValues(t, 1, f.counter.Reset())

	read()
	assert.EqualValues(t, 0, f.counter.Reset())

	require.NoError(t, f.container.TableCache().BatchClearCache(ctx, []string{"reports"}))
	assert.Empty(t, f.container.TableCache().TrackedKeys("reports"))

	read()
	assert.EqualValues(t, 1, f.counter.Reset(), "clearing a context tag evicts the entry")
}

func TestIntegration_MissingRowIsNil(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	row, err := f.users.GetData(ctx, model.Where(map[string]any{"id": 99}), nil)
	require.NoError(t, err)
	assert.Nil(t, row)
}

func TestIntegration_NullAndStringNilFiltersAreDistinct(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	_, err := f.users.Update(ctx, model.Where(map[string]any{"id": 1}), entity.Row{"nick_name": nil})
	require.NoError(t, err)
	_, err = f.users.Update(ctx, model.Where(map[string]any{"id": 2}), entity.Row{"nick_name": "nil"})
	require.NoError(t, err)

	null, err := f.users.GetList(ctx, model.Where(map[string]any{"nick_name": nil}), model.Fields{"id"})
	require.NoError(t, err)
	require.Len(t, null, 1)
	assert.EqualValues(t, 1, null[0]["id"])

	literal, err := f.users.GetList(ctx, model.Where(map[string]any{"nick_name": "nil"}), model.Fields{"id"})
	require.NoError(t, err)
	require.Len(t, literal, 1)
	assert.EqualValues(t, 2, literal[0]["id"])
}

func TestIntegration_CallerMutationsDoNotReachCache(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	where := model.Where(map[string]any{"id": 1})

	rows, err := f.users.GetList(ctx, where, model.Fields{"id"})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	rows[0]["id"] = 42
	rows[0] = entity.Row{"id": 99}

	again, err := f.users.GetList(ctx, where, model.Fields{"id"})
	require.NoError(t, err)
	require.Len(t, again, 1)
	assert.EqualValues(t, 1, again[0]["id"])

	row, err := f.users.GetData(ctx, where, model.Fields{"id"})
	require.NoError(t, err)
	row["id"] = 99
	row, err = f.users.GetData(ctx, where, model.Fields{"id"})
	require.NoError(t, err)
	assert.EqualValues(t, 1, row["id"])

	page, err := f.users.GetPageList(ctx, 1, 10, model.Where(nil), model.Fields{"id"}, model.Asc("id"))
	require.NoError(t, err)
	page.Rows[0]["id"] = 99
	page, err = f.users.GetPageList(ctx, 1, 10, model.Where(nil), model.Fields{"id"}, model.Asc("id"))
	require.NoError(t, err)
	assert.EqualValues(t, 1, page.Rows[0]["id"])
	assert.EqualValues(t, 4, f.counter.Reset(), "repeated reads are served from cache")
}
