package table_test

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wsp-sag/network-wrangler-sub001/table"
)

type widgetRow struct {
	ID    int
	Name  string
	Price float64
}

func widgetSchema() table.Schema[widgetRow] {
	return table.Schema[widgetRow]{
		Validate: func(r widgetRow) error {
			if r.Price < 0 {
				return fmt.Errorf("price must be >= 0, got %f", r.Price)
			}
			return nil
		},
		Key: func(r widgetRow) string { return fmt.Sprintf("%d", r.ID) },
		HashBytes: func(r widgetRow) []byte {
			return []byte(fmt.Sprintf("%d|%s|%f", r.ID, r.Name, r.Price))
		},
	}
}

func TestAssignRejectsDuplicatePrimaryKeys(t *testing.T) {
	tb := table.New("widgets", widgetSchema())
	err := tb.Assign([]widgetRow{{ID: 1, Name: "a"}, {ID: 1, Name: "b"}})
	assert.Error(t, err)
}

func TestAssignRunsCoercerOnValidationFailure(t *testing.T) {
	schema := widgetSchema()
	schema.Coerce = func(r widgetRow) (widgetRow, error) {
		r.Price = 0
		return r, nil
	}
	tb := table.New("widgets", schema)
	err := tb.Assign([]widgetRow{{ID: 1, Name: "a", Price: -5}})
	require.NoError(t, err)
	row, ok := tb.Get("1")
	require.True(t, ok)
	assert.Equal(t, 0.0, row.Price)
}

func TestContentHashStable(t *testing.T) {
	tb1 := table.New("widgets", widgetSchema())
	tb2 := table.New("widgets", widgetSchema())
	rows := []widgetRow{{ID: 1, Name: "a", Price: 1.5}, {ID: 2, Name: "b", Price: 2.5}}
	require.NoError(t, tb1.Assign(rows))
	require.NoError(t, tb2.Assign(append([]widgetRow(nil), rows...)))
	assert.Equal(t, tb1.Hash(), tb2.Hash())
}

func TestContentHashChangesWithRowOrder(t *testing.T) {
	tb1 := table.New("widgets", widgetSchema())
	tb2 := table.New("widgets", widgetSchema())
	require.NoError(t, tb1.Assign([]widgetRow{{ID: 1}, {ID: 2}}))
	require.NoError(t, tb2.Assign([]widgetRow{{ID: 2}, {ID: 1}}))
	assert.NotEqual(t, tb1.Hash(), tb2.Hash())
}

func TestDeepCopyIsIndependent(t *testing.T) {
	tb := table.New("widgets", widgetSchema())
	require.NoError(t, tb.Assign([]widgetRow{{ID: 1, Name: "a"}}))
	cp := tb.DeepCopy()
	require.NoError(t, cp.Replace("1", widgetRow{ID: 1, Name: "changed"}))

	orig, _ := tb.Get("1")
	assert.Equal(t, "a", orig.Name)
}

func TestCheckForeignKeySkipsWhenTargetAbsent(t *testing.T) {
	warning, err := table.CheckForeignKey("links", "shape_id", []string{"s1"}, nil, false)
	require.NoError(t, err)
	assert.Contains(t, warning, "skipping check")
}

func TestCheckForeignKeyFailsOnMissingValue(t *testing.T) {
	target := table.KeySet([]string{"s1", "s2"})
	_, err := table.CheckForeignKey("links", "shape_id", []string{"s1", "s3"}, target, true)
	assert.Error(t, err)
}

func TestCheckReverseForeignKey(t *testing.T) {
	current := table.KeySet([]string{"n1", "n2"})
	err := table.CheckReverseForeignKey("nodes", []string{"n1", "n2"}, current)
	assert.NoError(t, err)

	err = table.CheckReverseForeignKey("nodes", []string{"n1", "n3"}, current)
	assert.Error(t, err)
}

func TestCombineHashesDeterministic(t *testing.T) {
	h1 := table.CombineHashes([]uint64{1, 2, 3})
	h2 := table.CombineHashes([]uint64{1, 2, 3})
	h3 := table.CombineHashes([]uint64{3, 2, 1})
	assert.Equal(t, h1, h2)
	assert.NotEqual(t, h1, h3)
}
