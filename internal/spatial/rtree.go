package spatial

const (
	maxEntries = 8
	minEntries = 3
)

// rtreeEntry is a leaf payload: an entity id plus its bounding box.
type rtreeEntry struct {
	box      BoundingBox
	entityID string
}

// rtreeNode is either an internal node (children populated, entry empty) or
// a leaf node (entries populated, children empty).
type rtreeNode struct {
	box      BoundingBox
	leaf     bool
	children []*rtreeNode
	entries  []rtreeEntry
}

func newLeaf() *rtreeNode { return &rtreeNode{leaf: true} }

// RTree is a hand-rolled R-tree over entity bounding boxes. No suitable
// third-party R-tree implementation surfaced in the reference corpus, so
// this uses Guttman's least-enlargement leaf choice on insert and, instead
// of a node split, rebuilds the whole tree when a leaf overflows.
type RTree struct {
	root *rtreeNode
	size int
}

// NewRTree returns an empty R-tree.
func NewRTree() *RTree {
	return &RTree{root: newLeaf()}
}

// Len returns the number of indexed entities.
func (t *RTree) Len() int { return t.size }

// Insert adds an entity's bounding box to the index.
func (t *RTree) Insert(entityID string, box BoundingBox) {
	entry := rtreeEntry{box: box, entityID: entityID}
	leaf := t.chooseLeaf(t.root, box)
	leaf.entries = append(leaf.entries, entry)
	leaf.box = unionAll(leaf)
	t.size++

	if len(leaf.entries) > maxEntries {
		t.split(leaf)
	} else {
		t.adjustAncestors()
	}
}

// chooseLeaf descends the tree picking the child needing least enlargement.
func (t *RTree) chooseLeaf(n *rtreeNode, box BoundingBox) *rtreeNode {
	if n.leaf {
		return n
	}
	best := n.children[0]
	bestCost := best.box.enlargement(box)
	for _, c := range n.children[1:] {
		cost := c.box.enlargement(box)
		if cost < bestCost {
			best, bestCost = c, cost
		}
	}
	return t.chooseLeaf(best, box)
}

// split handles an overfull leaf by bulk-rebuilding the whole tree from all
// entries. The tree is small enough in practice (single building's worth of
// entities) that a full rebuild on split is acceptable.
func (t *RTree) split(leaf *rtreeNode) {
	// Simplification: rebuild the whole tree via bulk reinsertion. Building
	// models rarely exceed a few thousand entities, so this stays fast and
	// keeps the split logic simple and correct.
	all := t.allEntries()
	t.root = bulkBuild(all)
}

// adjustAncestors recomputes every internal node's box bottom-up, so an
// entry added to a leaf below the root's children stays reachable by Query.
func (t *RTree) adjustAncestors() {
	refreshBoxes(t.root)
}

func refreshBoxes(n *rtreeNode) {
	if !n.leaf {
		for _, c := range n.children {
			refreshBoxes(c)
		}
	}
	n.box = computeBox(n)
}

func computeBox(n *rtreeNode) BoundingBox {
	if n.leaf {
		return unionAll(n)
	}
	box := n.children[0].box
	for _, c := range n.children[1:] {
		box = box.Union(c.box)
	}
	return box
}

func unionAll(n *rtreeNode) BoundingBox {
	if len(n.entries) == 0 {
		return BoundingBox{}
	}
	box := n.entries[0].box
	for _, e := range n.entries[1:] {
		box = box.Union(e.box)
	}
	return box
}

func (t *RTree) allEntries() []rtreeEntry {
	var out []rtreeEntry
	var walk func(n *rtreeNode)
	walk = func(n *rtreeNode) {
		if n.leaf {
			out = append(out, n.entries...)
			return
		}
		for _, c := range n.children {
			walk(c)
		}
	}
	walk(t.root)
	return out
}

// bulkBuild groups entries into leaves of at most maxEntries and builds
// parent levels bottom-up until a single root remains.
func bulkBuild(entries []rtreeEntry) *rtreeNode {
	if len(entries) == 0 {
		return newLeaf()
	}
	var leaves []*rtreeNode
	for i := 0; i < len(entries); i += maxEntries {
		end := i + maxEntries
		if end > len(entries) {
			end = len(entries)
		}
		leaf := newLeaf()
		leaf.entries = append(leaf.entries, entries[i:end]...)
		leaf.box = unionAll(leaf)
		leaves = append(leaves, leaf)
	}

	level := leaves
	for len(level) > 1 {
		var parents []*rtreeNode
		for i := 0; i < len(level); i += maxEntries {
			end := i + maxEntries
			if end > len(level) {
				end = len(level)
			}
			parent := &rtreeNode{children: append([]*rtreeNode{}, level[i:end]...)}
			parent.box = computeBox(parent)
			parents = append(parents, parent)
		}
		level = parents
	}
	return level[0]
}

// Query returns the ids of every entity whose box intersects box.
func (t *RTree) Query(box BoundingBox) []string {
	var out []string
	var walk func(n *rtreeNode)
	walk = func(n *rtreeNode) {
		if n.leaf {
			for _, e := range n.entries {
				if e.box.Intersects(box) {
					out = append(out, e.entityID)
				}
			}
			return
		}
		for _, c := range n.children {
			if c.box.Intersects(box) {
				walk(c)
			}
		}
	}
	walk(t.root)
	return out
}

// All returns every indexed (entityID, box) pair, used for nearest-neighbor
// and clustering scans that must consider every entity.
func (t *RTree) All() []rtreeEntry {
	return t.allEntries()
}
