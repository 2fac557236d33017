package ports

// Tree is a derivation tree: either an internal *Node or a terminal Leaf.
// The interface is sealed; walks switch on exactly these two cases.
type Tree interface {
	isTree()
}

// Node is an internal derivation node labelled with a nonterminal name.
// Children are ordered left to right as they appear in the production.
type Node struct {
	Label    string
	Children []Tree
}

// Leaf is a terminal token consumed from the input.
type Leaf struct {
	Token string
}

func (*Node) isTree() {}
func (Leaf) isTree()  {}

// Yield returns the concatenation of the tree's leaves, left to right.
func Yield(t Tree) string {
	var buf []byte
	var walk func(Tree)
	walk = func(t Tree) {
		switch n := t.(type) {
		case *Node:
			if n == nil {
				return
			}
			for _, c := range n.Children {
				walk(c)
			}
		case Leaf:
			buf = append(buf, n.Token...)
		}
	}
	if t != nil {
		walk(t)
	}
	return string(buf)
}

// Count returns the number of internal nodes and leaves in a tree.
func Count(t Tree) (internal, leaves int) {
	switch n := t.(type) {
	case *Node:
		if n == nil {
			return 0, 0
		}
		internal = 1
		for _, c := range n.Children {
			i, l := Count(c)
			internal += i
			leaves += l
		}
	case Leaf:
		leaves = 1
	}
	return internal, leaves
}
