package remote

import (
	"net/url"

	"github.com/vango-dev/trellis/pkg/memdom"
	"github.com/vango-dev/trellis/pkg/patch"
	"github.com/vango-dev/trellis/pkg/protocol"
)

// toPatch converts an applied operation on a session document into its
// wire form. Operations on foreign nodes are dropped.
func toPatch(op patch.Op) (protocol.Patch, bool) {
	node := asNode(op.Node)
	if node == nil {
		return protocol.Patch{}, false
	}
	p := protocol.Patch{
		Op:     protocol.PatchOp(op.Kind),
		Node:   nodeID(node),
		Parent: nodeID(asNode(op.Parent)),
		Ref:    nodeID(asNode(op.Ref)),
		Key:    op.Key,
	}
	switch op.Kind {
	case patch.OpCreate:
		switch node.Type {
		case memdom.ElementNode:
			p.Kind = protocol.NodeElement
			p.Tag = node.Tag
			p.NS = node.NS
		case memdom.TextNode:
			p.Kind = protocol.NodeText
			p.Value = node.Text
		default:
			p.Kind = protocol.NodeComment
			p.Value = node.Text
		}
	case patch.OpSetText, patch.OpSetAttr, patch.OpSetProp, patch.OpSetStyle:
		p.Value = patch.ValueString(op.Value)
	}
	return p, true
}

func asNode(v any) *memdom.Node {
	n, _ := v.(*memdom.Node)
	return n
}

func nodeID(n *memdom.Node) uint32 {
	if n == nil {
		return 0
	}
	return uint32(n.ID)
}

// parseOrigin returns the host of an Origin header value.
func parseOrigin(origin string) (string, error) {
	u, err := url.Parse(origin)
	if err != nil {
		return "", err
	}
	return u.Host, nil
}
