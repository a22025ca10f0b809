package protocol

import "fmt"

// ProtocolVersion represents a protocol version as major.minor.
type ProtocolVersion struct {
	Major uint8
	Minor uint8
}

// String returns "major.minor".
func (v ProtocolVersion) String() string {
	return fmt.Sprintf("%d.%d", v.Major, v.Minor)
}

// CurrentVersion is the current protocol version.
var CurrentVersion = ProtocolVersion{Major: 1, Minor: 0}

// ServerHello opens a session. The client binds Root to its mount element
// and Mount to a placeholder node inside it, which the first patches replace.
type ServerHello struct {
	Version   ProtocolVersion
	SessionID string
	Root      uint32
	Mount     uint32
}

// EncodeServerHello encodes a hello frame payload.
func EncodeServerHello(h *ServerHello) []byte {
	e := NewEncoder()
	e.WriteByte(h.Version.Major)
	e.WriteByte(h.Version.Minor)
	e.WriteString(h.SessionID)
	e.WriteUvarint(uint64(h.Root))
	e.WriteUvarint(uint64(h.Mount))
	return e.Bytes()
}

// DecodeServerHello decodes a hello frame payload.
func DecodeServerHello(data []byte) (*ServerHello, error) {
	d := NewDecoder(data)
	var h ServerHello
	var err error
	if h.Version.Major, err = d.ReadByte(); err != nil {
		return nil, err
	}
	if h.Version.Minor, err = d.ReadByte(); err != nil {
		return nil, err
	}
	if h.SessionID, err = d.ReadString(); err != nil {
		return nil, err
	}
	if h.Root, err = readID(d); err != nil {
		return nil, err
	}
	if h.Mount, err = readID(d); err != nil {
		return nil, err
	}
	return &h, nil
}
