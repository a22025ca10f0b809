// Package protocol implements the binary wire format between a remote
// render session and its browser client.
//
// The server streams the operations the reconciler applied to the session's
// document; the client replays them on real DOM nodes and sends events
// back. Nodes are addressed by their document id.
//
// # Wire Format
//
// Every websocket message is one frame:
//
//	┌─────────────┬──────────────┬───────────────────────────────┐
//	│ Frame Type  │ Flags        │ Payload Length                │
//	│ (1 byte)    │ (1 byte)     │ (uvarint)                     │
//	└─────────────┴──────────────┴───────────────────────────────┘
//
// Integers are protobuf-style varints, strings are length-prefixed UTF-8.
//
// # Frame Types
//
//   - FrameHello (0x00): server → client, session id and mount points
//   - FrameEvent (0x01): client → server, a DOM event on a node
//   - FramePatches (0x02): server → client, a batch of operations
//   - FrameError (0x05): server → client, a diagnostic
//
// # Usage Example
//
//	pf := &PatchesFrame{
//	    Seq: 1,
//	    Patches: []Patch{
//	        {Op: OpCreate, Node: 7, Kind: NodeElement, Tag: "li"},
//	        {Op: OpInsert, Node: 7, Parent: 3},
//	    },
//	}
//	data := NewFrame(FramePatches, EncodePatches(pf)).Encode()
package protocol
