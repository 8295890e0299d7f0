package mindtree

import "fmt"

// Record is the persisted, nested form of a tree.
type Record struct {
	ID       string   `json:"id"`
	Text     string   `json:"text"`
	Level    int      `json:"level"`
	Children []Record `json:"children"`
}

func Serialize(root *Node) *Record {
	if root == nil {
		return nil
	}
	rec := &Record{ID: root.ID, Text: root.Text, Level: root.Level, Children: make([]Record, 0, len(root.Children))}
	for _, c := range root.Children {
		rec.Children = append(rec.Children, *Serialize(c))
	}
	return rec
}

// Deserialize rebuilds a tree from rec, restoring parent links. Stored levels
// are kept as they are; use Validate to check them.
func Deserialize(rec *Record) *Node {
	if rec == nil {
		return nil
	}
	return deserialize(rec, nil)
}

func deserialize(rec *Record, parent *Node) *Node {
	n := &Node{ID: rec.ID, Text: rec.Text, Level: rec.Level, parent: parent}
	for i := range rec.Children {
		n.Children = append(n.Children, deserialize(&rec.Children[i], n))
	}
	return n
}

// Validate checks that root has level 0 and every other node sits one level
// below its parent.
func Validate(root *Node) error {
	if root.Level != 0 {
		return fmt.Errorf("root %s has level %d", root.ID, root.Level)
	}
	var err error
	root.Walk(func(n *Node) bool {
		for _, c := range n.Children {
			if c.Level != n.Level+1 {
				err = fmt.Errorf("node %s has level %d under level %d", c.ID, c.Level, n.Level)
				return false
			}
		}
		return true
	})
	return err
}
