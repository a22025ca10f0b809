package protocol

import "fmt"

// ErrorCode classifies an error frame.
type ErrorCode uint16

const (
	ErrUnknown         ErrorCode = 0x0000
	ErrInvalidFrame    ErrorCode = 0x0001 // frame could not be decoded
	ErrInvalidEvent    ErrorCode = 0x0002 // event payload could not be decoded
	ErrHandlerNotFound ErrorCode = 0x0003 // addressed node has no such listener
	ErrServerError     ErrorCode = 0x0100 // session could not be served
)

var errorCodeNames = map[ErrorCode]string{
	ErrInvalidFrame:    "InvalidFrame",
	ErrInvalidEvent:    "InvalidEvent",
	ErrHandlerNotFound: "HandlerNotFound",
	ErrServerError:     "ServerError",
}

func (ec ErrorCode) String() string {
	if name, ok := errorCodeNames[ec]; ok {
		return name
	}
	return "Unknown"
}

// ErrorMessage is the payload of FrameError. A fatal error is the last
// frame of a connection.
type ErrorMessage struct {
	Code    ErrorCode
	Message string
	Fatal   bool
}

// Error implements error.
func (em *ErrorMessage) Error() string {
	return fmt.Sprintf("%s: %s", em.Code, em.Message)
}

// EncodeErrorMessage encodes an error frame payload.
func EncodeErrorMessage(em *ErrorMessage) []byte {
	e := NewEncoder()
	e.WriteUvarint(uint64(em.Code))
	e.WriteString(em.Message)
	e.WriteBool(em.Fatal)
	return e.Bytes()
}

// DecodeErrorMessage decodes an error frame payload.
func DecodeErrorMessage(data []byte) (*ErrorMessage, error) {
	d := NewDecoder(data)
	code, err := d.ReadUvarint()
	if err != nil {
		return nil, err
	}
	em := &ErrorMessage{Code: ErrorCode(code)}
	if em.Message, err = d.ReadString(); err != nil {
		return nil, err
	}
	if em.Fatal, err = d.ReadBool(); err != nil {
		return nil, err
	}
	return em, nil
}

// Frame wraps em in an error frame. Fatal errors carry FlagFinal.
func (em *ErrorMessage) Frame() *Frame {
	f := NewFrame(FrameError, EncodeErrorMessage(em))
	if em.Fatal {
		f.Flags |= FlagFinal
	}
	return f
}
