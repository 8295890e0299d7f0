package mindtree

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"drawboard/internal/geom"
)

func TestTree_Levels(t *testing.T) {
	root := NewRoot("root")
	a := root.AddChild("a")
	b := a.AddChild("b")

	assert.Equal(t, 0, root.Level)
	assert.Equal(t, 1, a.Level)
	assert.Equal(t, 2, b.Level)
	assert.Same(t, a, b.Parent())
	assert.NoError(t, Validate(root))
}

func TestTree_RootRules(t *testing.T) {
	root := Default()
	require.Len(t, root.Children, 3)

	_, err := root.AddSibling("x")
	assert.ErrorIs(t, err, ErrRootSibling)
	assert.ErrorIs(t, root.Delete(), ErrRootDelete)

	sib, err := root.Children[0].AddSibling("Topic 4")
	require.NoError(t, err)
	assert.Equal(t, 1, sib.Level)
	assert.Len(t, root.Children, 4)
}

func TestTree_DeleteRemovesSubtree(t *testing.T) {
	root := NewRoot("root")
	a := root.AddChild("a")
	a.AddChild("a1").AddChild("a11")
	root.AddChild("b")
	require.Equal(t, 5, root.Size())

	require.NoError(t, a.Delete())
	assert.Equal(t, 2, root.Size())
	assert.Nil(t, root.Find(a.ID))
	assert.ErrorIs(t, a.Delete(), ErrRootDelete)
}

func TestTree_SerializeRoundTrip(t *testing.T) {
	root := NewRoot("root")
	a := root.AddChild("a")
	a.AddChild("a1")
	root.AddChild("b")

	data, err := json.Marshal(Serialize(root))
	require.NoError(t, err)

	var rec Record
	require.NoError(t, json.Unmarshal(data, &rec))
	back := Deserialize(&rec)

	assert.Equal(t, Serialize(root), Serialize(back))
	require.NoError(t, Validate(back))
	a1 := back.Find(a.Children[0].ID)
	require.NotNil(t, a1)
	assert.Equal(t, 2, a1.Level)
	assert.Equal(t, a.ID, a1.Parent().ID)
	assert.Same(t, back, a1.Parent().Parent())
}

func TestTree_DeserializeKeepsStoredLevels(t *testing.T) {
	rec := &Record{ID: "r", Level: 0, Children: []Record{{ID: "c", Level: 3}}}
	root := Deserialize(rec)
	assert.Equal(t, 3, root.Children[0].Level)
	assert.Error(t, Validate(root))
	assert.Nil(t, Deserialize(nil))
}

func TestLayout_ChildrenRightOfParent(t *testing.T) {
	size := func(string) geom.Size { return geom.Size{W: 10, H: 3} }
	root := NewRoot("root")
	a := root.AddChild("a")
	b := root.AddChild("b")

	pos := Layout(root, geom.Pt(0, 0), size)

	assert.Equal(t, geom.Pt(0, 0), pos[root.ID])
	assert.Equal(t, 14.0, pos[a.ID].X)
	assert.Equal(t, 14.0, pos[b.ID].X)
	// two 3-high children with a gap of 1, centered on the root's middle
	assert.Equal(t, -2.0, pos[a.ID].Y)
	assert.Equal(t, 2.0, pos[b.ID].Y)
}
