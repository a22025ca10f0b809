package protocol

import "fmt"

// PatchOp is the type of a streamed operation. Values match patch.OpKind.
type PatchOp uint8

const (
	OpCreate         PatchOp = 0x01 // Create a detached node
	OpInsert         PatchOp = 0x02 // Insert a created node
	OpMove           PatchOp = 0x03 // Move an attached node
	OpRemove         PatchOp = 0x04 // Remove a node from its parent
	OpReplace        PatchOp = 0x05 // Root replaced; Node replaces Ref
	OpSetText        PatchOp = 0x06 // Set text content
	OpSetAttr        PatchOp = 0x07 // Set attribute
	OpRemoveAttr     PatchOp = 0x08 // Remove attribute
	OpSetProp        PatchOp = 0x09 // Set DOM property
	OpSetStyle       PatchOp = 0x0A // Set style declaration
	OpRemoveStyle    PatchOp = 0x0B // Remove style declaration
	OpAddListener    PatchOp = 0x0C // Forward an event type to the server
	OpRemoveListener PatchOp = 0x0D // Stop forwarding an event type
)

// String returns the string representation of the operation.
func (op PatchOp) String() string {
	switch op {
	case OpCreate:
		return "Create"
	case OpInsert:
		return "Insert"
	case OpMove:
		return "Move"
	case OpRemove:
		return "Remove"
	case OpReplace:
		return "Replace"
	case OpSetText:
		return "SetText"
	case OpSetAttr:
		return "SetAttr"
	case OpRemoveAttr:
		return "RemoveAttr"
	case OpSetProp:
		return "SetProp"
	case OpSetStyle:
		return "SetStyle"
	case OpRemoveStyle:
		return "RemoveStyle"
	case OpAddListener:
		return "AddListener"
	case OpRemoveListener:
		return "RemoveListener"
	default:
		return "Unknown"
	}
}

// NodeKind is the kind of node an OpCreate makes.
type NodeKind uint8

const (
	NodeElement NodeKind = iota
	NodeText
	NodeComment
)

// Patch is one operation. Node ids are positive; 0 means none.
type Patch struct {
	Op     PatchOp
	Node   uint32
	Parent uint32   // Insert, Move, Remove
	Ref    uint32   // Insert, Move: the sibling to insert before; Replace: the old node
	Kind   NodeKind // Create
	Tag    string   // Create (element)
	NS     string   // Create (element)
	Key    string   // Attribute, property, style or event name
	Value  string   // Text, attribute, property or style value
}

// PatchesFrame is a batch of operations produced by one flush.
type PatchesFrame struct {
	Seq     uint64
	Patches []Patch
}

// EncodePatches encodes a patches frame payload.
func EncodePatches(pf *PatchesFrame) []byte {
	e := NewEncoder()
	EncodePatchesTo(e, pf)
	return e.Bytes()
}

// EncodePatchesTo encodes a patches frame payload into e.
func EncodePatchesTo(e *Encoder, pf *PatchesFrame) {
	e.WriteUvarint(pf.Seq)
	e.WriteUvarint(uint64(len(pf.Patches)))
	for i := range pf.Patches {
		encodePatch(e, &pf.Patches[i])
	}
}

func encodePatch(e *Encoder, p *Patch) {
	e.WriteByte(byte(p.Op))
	e.WriteUvarint(uint64(p.Node))
	switch p.Op {
	case OpCreate:
		e.WriteByte(byte(p.Kind))
		if p.Kind == NodeElement {
			e.WriteString(p.Tag)
			e.WriteString(p.NS)
		} else {
			e.WriteString(p.Value)
		}
	case OpInsert, OpMove:
		e.WriteUvarint(uint64(p.Parent))
		e.WriteUvarint(uint64(p.Ref))
	case OpRemove:
		e.WriteUvarint(uint64(p.Parent))
	case OpReplace:
		e.WriteUvarint(uint64(p.Ref))
	case OpSetText:
		e.WriteString(p.Value)
	case OpSetAttr, OpSetProp, OpSetStyle:
		e.WriteString(p.Key)
		e.WriteString(p.Value)
	case OpRemoveAttr, OpRemoveStyle, OpAddListener, OpRemoveListener:
		e.WriteString(p.Key)
	}
}

// DecodePatches decodes a patches frame payload.
func DecodePatches(data []byte) (*PatchesFrame, error) {
	d := NewDecoder(data)
	seq, err := d.ReadUvarint()
	if err != nil {
		return nil, err
	}
	n, err := d.ReadCount()
	if err != nil {
		return nil, err
	}
	pf := &PatchesFrame{Seq: seq, Patches: make([]Patch, n)}
	for i := range pf.Patches {
		if err := decodePatch(d, &pf.Patches[i]); err != nil {
			return nil, fmt.Errorf("patch %d: %w", i, err)
		}
	}
	return pf, nil
}

func decodePatch(d *Decoder, p *Patch) error {
	op, err := d.ReadByte()
	if err != nil {
		return err
	}
	p.Op = PatchOp(op)
	if p.Node, err = readID(d); err != nil {
		return err
	}

	switch p.Op {
	case OpCreate:
		kind, err := d.ReadByte()
		if err != nil {
			return err
		}
		p.Kind = NodeKind(kind)
		if p.Kind == NodeElement {
			if p.Tag, err = d.ReadString(); err != nil {
				return err
			}
			p.NS, err = d.ReadString()
			return err
		}
		p.Value, err = d.ReadString()
		return err
	case OpInsert, OpMove:
		if p.Parent, err = readID(d); err != nil {
			return err
		}
		p.Ref, err = readID(d)
		return err
	case OpRemove:
		p.Parent, err = readID(d)
		return err
	case OpReplace:
		p.Ref, err = readID(d)
		return err
	case OpSetText:
		p.Value, err = d.ReadString()
		return err
	case OpSetAttr, OpSetProp, OpSetStyle:
		if p.Key, err = d.ReadString(); err != nil {
			return err
		}
		p.Value, err = d.ReadString()
		return err
	case OpRemoveAttr, OpRemoveStyle, OpAddListener, OpRemoveListener:
		p.Key, err = d.ReadString()
		return err
	default:
		return fmt.Errorf("protocol: unknown patch op 0x%02x", op)
	}
}

func readID(d *Decoder) (uint32, error) {
	v, err := d.ReadUvarint()
	if err != nil {
		return 0, err
	}
	if v > 1<<32-1 {
		return 0, ErrVarintOverflow
	}
	return uint32(v), nil
}
