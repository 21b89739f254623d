package frame

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_RejectsBadShapes(t *testing.T) {
	_, err := New([]string{"a", "a"}, []float64{1, 2})
	assert.ErrorIs(t, err, ErrShapeMismatch)

	_, err = New([]string{"a", "b"}, []float64{1})
	assert.ErrorIs(t, err, ErrShapeMismatch)
}

func TestNew_CopiesInput(t *testing.T) {
	columns := []string{"a", "b"}
	row := []float64{1, 2}
	f, err := New(columns, row)
	require.NoError(t, err)

	columns[0] = "z"
	row[0] = 99

	assert.Equal(t, []string{"a", "b"}, f.Columns())
	assert.Equal(t, []float64{1, 2}, f.Row(0))
}

func TestSelect_ReordersAndDrops(t *testing.T) {
	f, err := New([]string{"a", "b", "c"}, []float64{1, 2, 3}, []float64{4, 5, 6})
	require.NoError(t, err)

	sub, err := f.Select([]string{"c", "a"})
	require.NoError(t, err)

	assert.Equal(t, []string{"c", "a"}, sub.Columns())
	assert.Equal(t, []float64{3, 1}, sub.Row(0))
	assert.Equal(t, []float64{6, 4}, sub.Row(1))
	assert.False(t, sub.Has("b"))
}

func TestSelect_MissingColumn(t *testing.T) {
	f, err := New([]string{"a"}, []float64{1})
	require.NoError(t, err)

	_, err = f.Select([]string{"a", "b", "c"})
	require.ErrorIs(t, err, ErrShapeMismatch)
	assert.Contains(t, err.Error(), "[b c]")
}

func TestWithColumn(t *testing.T) {
	f, err := New([]string{"a"}, []float64{1}, []float64{2})
	require.NoError(t, err)

	g, err := f.WithColumn("m", []float64{10, 20})
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "m"}, g.Columns())
	assert.Equal(t, []float64{2, 20}, g.Row(1))
	assert.Equal(t, 1, f.NumColumns(), "原表不应被修改")

	_, err = f.WithColumn("m", []float64{1})
	assert.ErrorIs(t, err, ErrShapeMismatch)

	_, err = f.WithColumn("a", []float64{1, 2})
	assert.ErrorIs(t, err, ErrShapeMismatch)
}

func TestValueAndMap(t *testing.T) {
	f, err := New([]string{"a", "b"}, []float64{1, 2})
	require.NoError(t, err)

	doubled := f.Map(func(column string, v float64) float64 {
		if column == "b" {
			return v * 2
		}
		return v
	})

	v, ok := doubled.Value(0, "b")
	assert.True(t, ok)
	assert.Equal(t, 4.0, v)

	v, ok = f.Value(0, "b")
	assert.True(t, ok)
	assert.Equal(t, 2.0, v)

	_, ok = f.Value(0, "missing")
	assert.False(t, ok)
	_, ok = f.Value(3, "a")
	assert.False(t, ok)
}
