package sqlite

import "errors"

// defaultMaxTraversalNodes bounds a single tree's walk even when the file
// claims an implausible page count, per §4.9.5's min(page_count, 1e6) rule.
const defaultMaxTraversalNodes = 1_000_000

// LinkType tags an edge in a B-tree's node graph.
type LinkType string

const (
	LinkChild    LinkType = "child"
	LinkOverflow LinkType = "overflow"
)

// NodeDesc is one page visited during a single B-tree's traversal. Error is
// set only on the synthetic marker node appended when the walk's node
// budget is exhausted; it is empty for every ordinary node.
type NodeDesc struct {
	ID         int      `json:"id"`
	PageNumber int      `json:"page_number"`
	PageType   PageType `json:"page_type"`
	CellCount  int      `json:"cell_count"`
	Depth      int      `json:"depth"`
	Children   []int    `json:"children"`
	Error      string   `json:"error,omitempty"`
}

// Link is one edge of a B-tree's node graph. Target is the node id of the
// edge's destination node, except when the destination page reference is
// out of range (invariant 1): then Target is the negated, otherwise
// unresolvable page number, recording the bad reference without inventing
// a node for it.
type Link struct {
	Source   int      `json:"source"`
	Target   int      `json:"target"`
	LinkType LinkType `json:"link_type"`
}

// BTree is one traversed B-tree: a schema table or index root plus the
// graph the walker built from it.
type BTree struct {
	Name     string     `json:"name"`
	TreeType string     `json:"tree_type"`
	RootPage int        `json:"root_page"`
	Nodes    []NodeDesc `json:"nodes"`
	Links    []Link     `json:"links"`
}

var errBudgetHit = errors.New("sqlite: traversal budget hit")

type treeWalker struct {
	pager          *Pager
	enc            TextEncoding
	maxNodes       int
	idOf           map[int]int
	overflowIDOf   map[int]int
	nodes          []NodeDesc
	links          []Link
	pageOrder      []int
	budgetExceeded bool
}

// BuildBTree walks the tree rooted at rootPage depth-first (cell order,
// then right-most pointer, per §4.9.3) and returns the assembled BTree
// along with the ordinary page numbers it visited — overflow pages are
// represented as nodes within the tree but are not part of the
// collect_all_pages page set (they carry no page header of their own).
func BuildBTree(pager *Pager, name, treeType string, rootPage int, enc TextEncoding) (*BTree, []int, error) {
	bt := &BTree{Name: name, TreeType: treeType, RootPage: rootPage, Nodes: []NodeDesc{}, Links: []Link{}}
	if rootPage < 1 || rootPage > pager.PageCount() {
		return bt, nil, nil
	}

	w := &treeWalker{
		pager:        pager,
		enc:          enc,
		maxNodes:     minInt(pager.PageCount(), defaultMaxTraversalNodes),
		idOf:         make(map[int]int),
		overflowIDOf: make(map[int]int),
		nodes:        []NodeDesc{},
		links:        []Link{},
	}
	_, err := w.visit(rootPage, 0)
	if err != nil && err != errBudgetHit {
		return nil, nil, err
	}
	if w.budgetExceeded {
		w.nodes = append(w.nodes, NodeDesc{
			ID:       len(w.nodes),
			Depth:    -1,
			Children: []int{},
			Error:    MarkTraversalBudgetExceeded,
		})
	}

	bt.Nodes = w.nodes
	bt.Links = w.links
	return bt, w.pageOrder, nil
}

func (w *treeWalker) visit(pageNumber, depth int) (int, error) {
	if id, ok := w.idOf[pageNumber]; ok {
		return id, nil
	}
	if len(w.nodes) >= w.maxNodes {
		w.budgetExceeded = true
		return -1, errBudgetHit
	}

	pd, err := decodePage(w.pager, pageNumber, w.enc)
	if err != nil {
		return -1, err
	}

	id := len(w.nodes)
	w.idOf[pageNumber] = id
	w.pageOrder = append(w.pageOrder, pageNumber)
	w.nodes = append(w.nodes, NodeDesc{
		ID:         id,
		PageNumber: pageNumber,
		PageType:   pd.PageType,
		CellCount:  pd.CellCount,
		Depth:      depth,
	})

	children := pd.childPages()
	for _, child := range children {
		if child < 1 || child > w.pager.PageCount() {
			w.links = append(w.links, Link{Source: id, Target: -child, LinkType: LinkChild})
			continue
		}
		childID, err := w.visit(child, depth+1)
		if err != nil {
			if err == errBudgetHit {
				continue
			}
			return -1, err
		}
		w.links = append(w.links, Link{Source: id, Target: childID, LinkType: LinkChild})
	}
	w.nodes[id].Children = children

	if pd.PageType == PageLeafTable || pd.PageType == PageLeafIndex {
		for _, c := range pd.Cells {
			if !c.HasOverflow || c.OverflowPage == nil {
				continue
			}
			op := *c.OverflowPage
			if op < 1 || op > w.pager.PageCount() {
				w.links = append(w.links, Link{Source: id, Target: -op, LinkType: LinkOverflow})
				continue
			}
			ovID, ok := w.overflowIDOf[op]
			if !ok {
				ovID = len(w.nodes)
				w.overflowIDOf[op] = ovID
				w.nodes = append(w.nodes, NodeDesc{
					ID:         ovID,
					PageNumber: op,
					PageType:   PageOverflow,
					Depth:      depth + 1,
					Children:   []int{},
				})
			}
			w.links = append(w.links, Link{Source: id, Target: ovID, LinkType: LinkOverflow})
		}
	}

	return id, nil
}
