package protocol

import (
	"errors"
	"io"
)

// MaxPayloadSize is the largest accepted frame payload.
const MaxPayloadSize = 8 * 1024 * 1024

// FrameType identifies the type of frame.
type FrameType uint8

const (
	FrameHello   FrameType = 0x00 // Server → Client session setup
	FrameEvent   FrameType = 0x01 // Client → Server events
	FramePatches FrameType = 0x02 // Server → Client operations
	FrameError   FrameType = 0x05 // Server → Client diagnostic
)

var frameNames = map[FrameType]string{
	FrameHello:   "Hello",
	FrameEvent:   "Event",
	FramePatches: "Patches",
	FrameError:   "Error",
}

func (ft FrameType) String() string {
	if name, ok := frameNames[ft]; ok {
		return name
	}
	return "Unknown"
}

// Valid reports whether ft is a known frame type.
func (ft FrameType) Valid() bool {
	_, ok := frameNames[ft]
	return ok
}

// FrameFlags is a bit set carried in the second header byte.
type FrameFlags uint8

// FlagFinal marks the last frame a session sends.
const FlagFinal FrameFlags = 1 << 2

func (ff FrameFlags) Has(flag FrameFlags) bool { return ff&flag == flag }

// Frame errors.
var (
	ErrFrameTooLarge    = errors.New("protocol: frame payload too large")
	ErrInvalidFrameType = errors.New("protocol: invalid frame type")
)

// Frame is a typed payload. Its header is the type byte, the flags byte
// and the payload length as a uvarint.
type Frame struct {
	Type    FrameType
	Flags   FrameFlags
	Payload []byte
}

// NewFrame creates a frame without flags.
func NewFrame(ft FrameType, payload []byte) *Frame {
	return &Frame{Type: ft, Payload: payload}
}

// Encode encodes the frame including its header.
func (f *Frame) Encode() []byte {
	e := &Encoder{buf: make([]byte, 0, len(f.Payload)+6)}
	e.WriteByte(byte(f.Type))
	e.WriteByte(byte(f.Flags))
	e.WriteUvarint(uint64(len(f.Payload)))
	e.buf = append(e.buf, f.Payload...)
	return e.buf
}

// DecodeFrame decodes a frame. data must hold the whole frame.
func DecodeFrame(data []byte) (*Frame, error) {
	d := NewDecoder(data)
	ft, err := d.ReadByte()
	if err != nil {
		return nil, err
	}
	if !FrameType(ft).Valid() {
		return nil, ErrInvalidFrameType
	}
	flags, err := d.ReadByte()
	if err != nil {
		return nil, err
	}
	length, err := d.ReadUvarint()
	if err != nil {
		return nil, err
	}
	if length > MaxPayloadSize {
		return nil, ErrFrameTooLarge
	}
	if length > uint64(d.Remaining()) {
		return nil, io.ErrUnexpectedEOF
	}
	payload := make([]byte, length)
	copy(payload, data[d.pos:])
	return &Frame{Type: FrameType(ft), Flags: FrameFlags(flags), Payload: payload}, nil
}
