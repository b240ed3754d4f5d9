package synscan

import "testing"

// TestIPv4HeaderChecksumReferenceVector uses a widely used worked-example
// IPv4 header (192.168.0.1 -> 192.168.0.199, UDP, checksum field zeroed) to
// pin the one's-complement sum implementation against a known-good value.
func TestIPv4HeaderChecksumReferenceVector(t *testing.T) {
	header := []byte{
		0x45, 0x00, 0x00, 0x73, 0x00, 0x00, 0x40, 0x00,
		0x40, 0x11, 0x00, 0x00, 0xc0, 0xa8, 0x00, 0x01,
		0xc0, 0xa8, 0x00, 0xc7,
	}

	got := IPv4HeaderChecksum(header)
	const want = 0xb861
	if got != want {
		t.Fatalf("IPv4HeaderChecksum = 0x%x, want 0x%x", got, want)
	}
}

func TestChecksumOddLengthTail(t *testing.T) {
	// An odd-length buffer exercises the one-byte tail path.
	data := []byte{0xFF, 0x00, 0x01}
	got := Checksum(data)
	// sum = 0xFF00 + 0x0100 (tail byte shifted into the high octet) = 0x10000
	// folded: 0x0000 + 1 = 0x0001, complemented = 0xFFFE
	if got != 0xFFFE {
		t.Fatalf("Checksum = 0x%x, want 0xFFFE", got)
	}
}
