package dispatch

import (
	"bytes"
	"testing"
)

func TestEncodeFrame(t *testing.T) {
	got := EncodeFrame(2)
	want := []byte{0xA9, 0x9A, 0x03, 0x41, 0x02, 0x46, 0xED, 0x0A, 0x0D}
	if !bytes.Equal(got, want) {
		t.Errorf("EncodeFrame(2) = % X, want % X", got, want)
	}
	if len(got) != FrameSize {
		t.Errorf("frame length = %d, want %d", len(got), FrameSize)
	}
}

func TestChecksum(t *testing.T) {
	tests := []struct {
		seq  uint8
		want uint8
	}{
		{0, 0x44},
		{1, 0x45},
		{2, 0x46},
		{200, 0x0C},  // wraps past 0xFF
		{0xFF, 0x43}, // wraps
	}
	for _, tt := range tests {
		if got := Checksum(tt.seq); got != tt.want {
			t.Errorf("Checksum(%d) = %#02x, want %#02x", tt.seq, got, tt.want)
		}
	}
}

func TestFrameEmbedsSeqAndChecksum(t *testing.T) {
	for _, seq := range []uint8{0, 7, 42, 200, 255} {
		frame := EncodeFrame(seq)
		if frame[4] != seq {
			t.Errorf("seq byte = %#02x, want %#02x", frame[4], seq)
		}
		if frame[5] != Checksum(seq) {
			t.Errorf("checksum byte = %#02x, want %#02x", frame[5], Checksum(seq))
		}
	}
}
