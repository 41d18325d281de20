package psd

// Node types
const (
	NodeTypeRoot  = "root"
	NodeTypeGroup = "group"
	NodeTypeLayer = "layer"
)

// Node is one node of the layer hierarchy derived from section dividers.
type Node struct {
	Type      string
	Name      string
	Layer     *Layer
	Parent    *Node
	Children  []*Node
	Visible   bool
	Opacity   uint8
	BlendMode string
	Rect      Rect
}

// buildTree derives the group hierarchy. Records sit bottom-to-top in the
// stream, so iteration runs in reverse: a group opens with its folder
// divider and closes at the hidden bounding divider.
func buildTree(header *Header, layers []*Layer) *Node {
	root := &Node{
		Type:    NodeTypeRoot,
		Name:    "Root",
		Rect:    Rect{Bottom: header.Height(), Right: header.Width()},
		Visible: true,
		Opacity: 255,
	}

	stack := []*Node{root}

	for i := len(layers) - 1; i >= 0; i-- {
		layer := layers[i]

		if layer.IsFolder() {
			if layer.IsFolderEnd() {
				if len(stack) > 1 {
					group := stack[len(stack)-1]
					stack = stack[:len(stack)-1]
					parent := stack[len(stack)-1]
					parent.Children = append(parent.Children, group)
				}
				continue
			}
			group := newNode(NodeTypeGroup, layer)
			group.Parent = stack[len(stack)-1]
			stack = append(stack, group)
			continue
		}

		node := newNode(NodeTypeLayer, layer)
		parent := stack[len(stack)-1]
		node.Parent = parent
		parent.Children = append(parent.Children, node)
	}

	root.updateDimensions()
	return root
}

func newNode(nodeType string, layer *Layer) *Node {
	return &Node{
		Type:      nodeType,
		Name:      layer.UnicodeName(),
		Layer:     layer,
		Visible:   layer.Visible(),
		Opacity:   layer.Opacity,
		BlendMode: layer.blendModeString(),
		Rect:      layer.Rect,
	}
}

// Root returns the root node of the tree.
func (n *Node) Root() *Node {
	current := n
	for current.Parent != nil {
		current = current.Parent
	}
	return current
}

// IsRoot returns whether this is the root node.
func (n *Node) IsRoot() bool {
	return n.Type == NodeTypeRoot
}

// HasChildren returns whether this node has children.
func (n *Node) HasChildren() bool {
	return len(n.Children) > 0
}

// Descendants returns all descendant nodes, not including this node.
func (n *Node) Descendants() []*Node {
	var result []*Node
	for _, child := range n.Children {
		result = append(result, child)
		result = append(result, child.Descendants()...)
	}
	return result
}

// DescendantLayers returns all descendant layer nodes.
func (n *Node) DescendantLayers() []*Node {
	var result []*Node
	for _, node := range n.Descendants() {
		if node.Type == NodeTypeLayer {
			result = append(result, node)
		}
	}
	return result
}

// DescendantGroups returns all descendant group nodes.
func (n *Node) DescendantGroups() []*Node {
	var result []*Node
	for _, node := range n.Descendants() {
		if node.Type == NodeTypeGroup {
			result = append(result, node)
		}
	}
	return result
}

// Depth returns the depth of this node in the tree; the root is 0.
func (n *Node) Depth() int {
	depth := 0
	for current := n; current.Parent != nil; current = current.Parent {
		depth++
	}
	return depth
}

// Width returns the width of the node.
func (n *Node) Width() uint32 {
	return n.Rect.Width()
}

// Height returns the height of the node.
func (n *Node) Height() uint32 {
	return n.Rect.Height()
}

// IsEmpty returns whether this node covers no pixels.
func (n *Node) IsEmpty() bool {
	return n.Width() == 0 || n.Height() == 0
}

// updateDimensions recomputes group bounds as the bounding box of their
// non-empty children. Root bounds stay at the document size.
func (n *Node) updateDimensions() {
	if n.Type == NodeTypeLayer {
		return
	}
	for _, child := range n.Children {
		child.updateDimensions()
	}
	if n.Type == NodeTypeRoot {
		return
	}

	var box Rect
	first := true
	for _, child := range n.Children {
		if child.IsEmpty() {
			continue
		}
		if first {
			box = child.Rect
			first = false
			continue
		}
		if child.Rect.Top < box.Top {
			box.Top = child.Rect.Top
		}
		if child.Rect.Left < box.Left {
			box.Left = child.Rect.Left
		}
		if child.Rect.Bottom > box.Bottom {
			box.Bottom = child.Rect.Bottom
		}
		if child.Rect.Right > box.Right {
			box.Right = child.Rect.Right
		}
	}
	n.Rect = box
}
