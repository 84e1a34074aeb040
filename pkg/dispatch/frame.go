// Package dispatch converts a chosen action into either a real servo
// controller command or a simulated trace record.
//
// The wire format is owned by the servo board and must be treated as fixed:
// one 9-byte frame per action, A9 9A 03 41 <seq> <checksum> ED 0A 0D, where
// the checksum is (seq + 0x44) & 0xFF.
package dispatch

// Frame layout constants for the servo controller protocol.
const (
	frameHeader0 = 0xA9
	frameHeader1 = 0x9A
	frameLength  = 0x03
	frameOpcode  = 0x41
	frameTail    = 0xED

	checksumBias = 0x44

	// FrameSize is the total encoded frame length in bytes.
	FrameSize = 9
)

// EncodeFrame builds the command frame for a hardware action seq.
func EncodeFrame(seq uint8) []byte {
	return []byte{
		frameHeader0, frameHeader1, frameLength, frameOpcode,
		seq, Checksum(seq), frameTail, '\n', '\r',
	}
}

// Checksum computes the frame checksum for a seq.
func Checksum(seq uint8) uint8 {
	return seq + checksumBias // wraps mod 256 by uint8 arithmetic
}
