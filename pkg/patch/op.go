package patch

// OpKind is the type of an applied operation.
type OpKind uint8

const (
	OpCreate         OpKind = 0x01 // Create a platform node
	OpInsert         OpKind = 0x02 // Insert a new node
	OpMove           OpKind = 0x03 // Move an existing node
	OpRemove         OpKind = 0x04 // Remove node
	OpReplace        OpKind = 0x05 // Replace the root node entirely
	OpSetText        OpKind = 0x06 // Update text content
	OpSetAttr        OpKind = 0x07 // Set/update attribute
	OpRemoveAttr     OpKind = 0x08 // Remove attribute
	OpSetProp        OpKind = 0x09 // Set platform property
	OpSetStyle       OpKind = 0x0A // Set style declaration
	OpRemoveStyle    OpKind = 0x0B // Remove style declaration
	OpAddListener    OpKind = 0x0C // Attach listener
	OpRemoveListener OpKind = 0x0D // Detach listener
)

// String returns the string representation of the OpKind.
func (k OpKind) String() string {
	switch k {
	case OpCreate:
		return "create"
	case OpInsert:
		return "insert"
	case OpMove:
		return "move"
	case OpRemove:
		return "remove"
	case OpReplace:
		return "replace"
	case OpSetText:
		return "set-text"
	case OpSetAttr:
		return "set-attr"
	case OpRemoveAttr:
		return "remove-attr"
	case OpSetProp:
		return "set-prop"
	case OpSetStyle:
		return "set-style"
	case OpRemoveStyle:
		return "remove-style"
	case OpAddListener:
		return "add-listener"
	case OpRemoveListener:
		return "remove-listener"
	default:
		return "unknown"
	}
}

// Op is a single operation applied to the platform.
type Op struct {
	Kind   OpKind // Operation type
	Node   any    // Target node
	Parent any    // Parent for Insert/Move/Remove
	Ref    any    // Insert position: the node inserted before, or nil to append
	Key    string // Attribute, property, style or event name
	Value  any    // New value
	Tag    string // Tag for Create
}

// Recorder receives every applied operation.
type Recorder func(Op)
