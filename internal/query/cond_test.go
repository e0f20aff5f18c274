package query

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestContains(t *testing.T) {
	t.Run("empty or blank term contributes nothing", func(t *testing.T) {
		assert.Nil(t, Contains([]string{"p.title"}, ""))
		assert.Nil(t, Contains([]string{"p.title"}, "   \t"))
	})

	t.Run("no columns contributes nothing", func(t *testing.T) {
		assert.Nil(t, Contains(nil, "go"))
	})

	t.Run("single column has no parentheses", func(t *testing.T) {
		c := Contains([]string{"p.title"}, "  FOO ")
		require.NotNil(t, c)
		assert.Equal(t, `lower(p.title) LIKE ? ESCAPE '\'`, c.SQL)
		assert.Equal(t, []any{"%foo%"}, c.Args)
	})

	t.Run("multiple columns are OR-ed", func(t *testing.T) {
		c := Contains([]string{"p.title", "p.slug", "p.excerpt"}, "Go")
		require.NotNil(t, c)
		assert.Equal(t,
			`(lower(p.title) LIKE ? ESCAPE '\' OR lower(p.slug) LIKE ? ESCAPE '\' OR lower(p.excerpt) LIKE ? ESCAPE '\')`,
			c.SQL)
		assert.Equal(t, []any{"%go%", "%go%", "%go%"}, c.Args)
	})

	t.Run("metacharacters are escaped", func(t *testing.T) {
		c := Contains([]string{"p.title"}, `50%_off\`)
		require.NotNil(t, c)
		assert.Equal(t, []any{`%50\%\_off\\%`}, c.Args)
	})
}

func TestAndOr(t *testing.T) {
	assert.Nil(t, And())
	assert.Nil(t, And(nil, nil))

	single := And(nil, IsNull("p.published_at"))
	require.NotNil(t, single)
	assert.Equal(t, "p.published_at IS NULL", single.SQL)

	c := And(Eq("t.locale", "ja"), nil, IsNotNull("p.published_at"))
	require.NotNil(t, c)
	assert.Equal(t, "(t.locale = ? AND p.published_at IS NOT NULL)", c.SQL)
	assert.Equal(t, []any{"ja"}, c.Args)

	nested := And(Contains([]string{"a", "b"}, "x"), Eq("c", 1))
	require.NotNil(t, nested)
	assert.Equal(t, `((lower(a) LIKE ? ESCAPE '\' OR lower(b) LIKE ? ESCAPE '\') AND c = ?)`, nested.SQL)
	assert.Equal(t, []any{"%x%", "%x%", 1}, nested.Args)
}

func TestWhere(t *testing.T) {
	sql, args := Where(nil)
	assert.Empty(t, sql)
	assert.Nil(t, args)

	sql, args = Where(Eq("id", 7))
	assert.Equal(t, " WHERE id = ?", sql)
	assert.Equal(t, []any{7}, args)
}

func TestRebind(t *testing.T) {
	tests := []struct {
		name    string
		dialect Dialect
		in      string
		want    string
	}{
		{"postgres numbers placeholders", Postgres, "a = ? AND b = ?", "a = $1 AND b = $2"},
		{"postgres ignores quoted question marks", Postgres, "a = '?' AND b = ?", "a = '?' AND b = $1"},
		{"postgres keeps escape literal", Postgres, `lower(x) LIKE ? ESCAPE '\'`, `lower(x) LIKE $1 ESCAPE '\'`},
		{"postgres without placeholders", Postgres, "SELECT 1", "SELECT 1"},
		{"sqlite unchanged", SQLite, "a = ? AND b = ?", "a = ? AND b = ?"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.dialect.Rebind(tt.in))
		})
	}
}

func TestParseDialect(t *testing.T) {
	assert.Equal(t, SQLite, ParseDialect("sqlite"))
	assert.Equal(t, SQLite, ParseDialect("SQLite3"))
	assert.Equal(t, Postgres, ParseDialect("postgres"))
	assert.Equal(t, Postgres, ParseDialect(""))
	assert.Equal(t, "sqlite3", SQLite.String())
	assert.Equal(t, "postgres", Postgres.String())
}

func TestTimestamp(t *testing.T) {
	ref := time.Date(2026, 3, 4, 5, 6, 7, 800, time.UTC)

	t.Run("round trips the sqlite layout", func(t *testing.T) {
		var ts Timestamp
		require.NoError(t, ts.Scan(SQLite.Time(ref)))
		assert.True(t, ts.Valid)
		assert.True(t, ts.Time.Equal(ref))
	})

	t.Run("accepts time values", func(t *testing.T) {
		var ts Timestamp
		require.NoError(t, ts.Scan(ref.In(time.FixedZone("x", 3600))))
		assert.True(t, ts.Time.Equal(ref))
		assert.Equal(t, time.UTC, ts.Time.Location())
	})

	t.Run("accepts unix milliseconds", func(t *testing.T) {
		var ts Timestamp
		require.NoError(t, ts.Scan(int64(1700000000000)))
		assert.Equal(t, int64(1700000000000), ts.Time.UnixMilli())
	})

	t.Run("accepts bytes", func(t *testing.T) {
		var ts Timestamp
		require.NoError(t, ts.Scan([]byte("2026-03-04T05:06:07Z")))
		assert.Equal(t, 2026, ts.Time.Year())
	})

	t.Run("null is invalid", func(t *testing.T) {
		ts := Timestamp{Valid: true}
		require.NoError(t, ts.Scan(nil))
		assert.False(t, ts.Valid)
		assert.Nil(t, ts.Ptr())
	})

	t.Run("garbage errors", func(t *testing.T) {
		var ts Timestamp
		assert.Error(t, ts.Scan("yesterday"))
		assert.Error(t, ts.Scan(3.5))
	})

	t.Run("fixed width keeps lexical order", func(t *testing.T) {
		whole := SQLite.Time(ref.Truncate(time.Second)).(string)
		frac := SQLite.Time(ref).(string)
		assert.Less(t, whole, frac)
	})
}
