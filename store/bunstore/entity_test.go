package bunstore

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"

	"github.com/goliatone/go-basemodel/entity"
)

func openTestDB(t *testing.T) *bun.DB {
	t.Helper()

	db, err := Open(Config{Driver: DriverSQLite, DSN: ":memory:", MaxOpenConns: 1}, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	ctx := context.Background()
	_, err = db.ExecContext(ctx, `CREATE TABLE "groups" (id INTEGER PRIMARY KEY AUTOINCREMENT, title TEXT, status TEXT)`)
	require.NoError(t, err)
	_, err = db.ExecContext(ctx, `CREATE TABLE "users" (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		nick_name TEXT,
		status TEXT,
		group_id INTEGER,
		deleted_at TEXT
	)`)
	require.NoError(t, err)
	return db
}

func seed(t *testing.T, users, groups *Entity) {
	t.Helper()
	ctx := context.Background()

	for _, title := range []string{"admins", "guests"} {
		_, err := groups.Create(ctx, entity.Row{"title": title, "status": "Y"})
		require.NoError(t, err)
	}
	for _, row := range []entity.Row{
		{"nick_name": "ann", "status": "Y", "group_id": 1},
		{"nick_name": "bob", "status": "Y", "group_id": 2},
		{"nick_name": "cid", "status": "N", "group_id": 1},
		{"nick_name": "dee", "status": "Y", "group_id": nil},
	} {
		_, err := users.Create(ctx, row)
		require.NoError(t, err)
	}
}

func TestEntity_Naming(t *testing.T) {
	db := openTestDB(t)

	users := New(db, "User")
	assert.Equal(t, "User", users.Name())
	assert.Equal(t, "users", users.TableName())

	custom := New(db, "Account", WithTable("users"), WithPrimaryKey("uid"))
	assert.Equal(t, "users", custom.TableName())
}

func TestEntity_CreateAndFindOne(t *testing.T) {
	ctx := context.Background()
	db := openTestDB(t)
	users := New(db, "User")

	data := entity.Row{"nick_name": "ann", "status": "Y"}
	created, err := users.Create(ctx, data)
	require.NoError(t, err)
	assert.EqualValues(t, 1, created["id"])
	assert.NotContains(t, data, "id", "input row must not be mutated")

	row, err := users.FindOne(ctx, &entity.Query{Where: map[string]any{"id": 1}})
	require.NoError(t, err)
	require.NotNil(t, row)
	assert.Equal(t, "ann", row["nick_name"])

	missing, err := users.FindOne(ctx, &entity.Query{Where: map[string]any{"id": 42}})
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestEntity_FindAll(t *testing.T) {
	ctx := context.Background()
	db := openTestDB(t)
	users, groups := New(db, "User"), New(db, "Group")
	seed(t, users, groups)

	t.Run("equality and order", func(t *testing.T) {
		rows, err := users.FindAll(ctx, &entity.Query{
			Where: map[string]any{"status": "Y"},
			Order: []entity.OrderTerm{{Field: "nick_name", Direction: "asc"}},
		})
		require.NoError(t, err)
		require.Len(t, rows, 3)
		assert.Equal(t, "ann", rows[0]["nick_name"])
		assert.Equal(t, "dee", rows[2]["nick_name"])
	})

	t.Run("in list", func(t *testing.T) {
		rows, err := users.FindAll(ctx, &entity.Query{
			Where: map[string]any{"nick_name": []string{"bob", "cid"}},
		})
		require.NoError(t, err)
		assert.Len(t, rows, 2)
	})

	t.Run("is null", func(t *testing.T) {
		rows, err := users.FindAll(ctx, &entity.Query{
			Where: map[string]any{"group_id": nil},
		})
		require.NoError(t, err)
		require.Len(t, rows, 1)
		assert.Equal(t, "dee", rows[0]["nick_name"])
	})

	t.Run("projection and page", func(t *testing.T) {
		rows, err := users.FindAll(ctx, &entity.Query{
			Attributes: []string{"nick_name"},
			Order:      []entity.OrderTerm{{Field: "id", Direction: "desc"}},
			Page:       &entity.Page{Offset: 1, Limit: 2},
		})
		require.NoError(t, err)
		require.Len(t, rows, 2)
		assert.Equal(t, entity.Row{"nick_name": "cid"}, rows[0])
		assert.Equal(t, entity.Row{"nick_name": "bob"}, rows[1])
	})

	t.Run("nil query", func(t *testing.T) {
		rows, err := users.FindAll(ctx, nil)
		require.NoError(t, err)
		assert.Len(t, rows, 4)
	})
}

func TestEntity_Include(t *testing.T) {
	ctx := context.Background()
	db := openTestDB(t)
	users, groups := New(db, "User"), New(db, "Group")
	seed(t, users, groups)

	rows, err := users.FindAll(ctx, &entity.Query{
		Attributes: []string{"nick_name"},
		Include: []entity.Relation{{
			Target:     groups,
			Attributes: []string{"title"},
		}},
		Order: []entity.OrderTerm{{Field: "nick_name", Direction: "asc"}},
	})
	require.NoError(t, err)
	require.Len(t, rows, 4)
	assert.Equal(t, "admins", rows[0]["Group.title"])
	assert.Equal(t, "guests", rows[1]["Group.title"])
	assert.Nil(t, rows[3]["Group.title"], "left join keeps users without a group")

	required, err := users.FindAll(ctx, &entity.Query{
		Include: []entity.Relation{{
			Target:     groups,
			As:         "Team",
			Where:      map[string]any{"title": "admins"},
			Attributes: []string{"title"},
			Required:   true,
		}},
	})
	require.NoError(t, err)
	require.Len(t, required, 2)
	for _, row := range required {
		assert.Equal(t, "admins", row["Team.title"])
	}
}

func TestEntity_CountAndFindAndCountAll(t *testing.T) {
	ctx := context.Background()
	db := openTestDB(t)
	users, groups := New(db, "User"), New(db, "Group")
	seed(t, users, groups)

	n, err := users.Count(ctx, &entity.Query{Where: map[string]any{"status": "Y"}})
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	page, err := users.FindAndCountAll(ctx, &entity.Query{
		Where: map[string]any{"status": "Y"},
		Page:  &entity.Page{Offset: 0, Limit: 2},
	})
	require.NoError(t, err)
	assert.Equal(t, 3, page.Count)
	assert.Len(t, page.Rows, 2)
}

func TestEntity_UpdateAndDestroy(t *testing.T) {
	ctx := context.Background()
	db := openTestDB(t)
	users, groups := New(db, "User"), New(db, "Group")
	seed(t, users, groups)

	affected, err := users.Update(ctx, entity.Row{"status": "N"}, &entity.Query{
		Where: map[string]any{"group_id": 1},
	})
	require.NoError(t, err)
	assert.EqualValues(t, 2, affected)

	n, err := users.Count(ctx, &entity.Query{Where: map[string]any{"status": "N"}})
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	removed, err := users.Destroy(ctx, &entity.Query{Where: map[string]any{"status": "N"}})
	require.NoError(t, err)
	assert.EqualValues(t, 2, removed)

	n, err = users.Count(ctx, nil)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}
