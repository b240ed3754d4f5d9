package synscan

import (
	"encoding/binary"
	"net"
)

// Checksum computes the standard 16-bit one's-complement sum with
// end-around carry over data, per RFC 1071. Grounded on
// netraw.Checksum; reimplemented here rather than imported so the core
// package has no dependency on the host-side netraw helpers, which build
// a different (options-aware) TCP header shape than this scanner needs.
func Checksum(data []byte) uint16 {
	var sum uint32

	length := len(data)
	i := 0
	for length > 1 {
		sum += uint32(binary.BigEndian.Uint16(data[i:]))
		i += 2
		length -= 2
	}
	if length > 0 {
		sum += uint32(data[i]) << 8
	}

	for sum>>16 > 0 {
		sum = (sum & 0xffff) + (sum >> 16)
	}

	return uint16(^sum)
}

// IPv4HeaderChecksum computes the header checksum of a 20-byte IPv4
// header with the checksum field itself zeroed.
func IPv4HeaderChecksum(header []byte) uint16 {
	return Checksum(header)
}

// tcpPseudoHeader builds the 12-byte IPv4 pseudo-header {src, dst, 0,
// protocol, tcp-length} the TCP checksum is computed over.
func tcpPseudoHeader(src, dst net.IP, tcpLength uint16) []byte {
	ph := make([]byte, 12)
	copy(ph[0:4], src.To4())
	copy(ph[4:8], dst.To4())
	ph[8] = 0
	ph[9] = tcpProtocol
	binary.BigEndian.PutUint16(ph[10:12], tcpLength)
	return ph
}

// TCPChecksum computes the TCP checksum over the IPv4 pseudo-header
// followed by the TCP segment. Not used for IPv6: there the kernel fills
// the checksum via IPV6_CHECKSUM at the socket layer.
func TCPChecksum(src, dst net.IP, segment []byte) uint16 {
	ph := tcpPseudoHeader(src, dst, uint16(len(segment)))
	buf := make([]byte, 0, len(ph)+len(segment))
	buf = append(buf, ph...)
	buf = append(buf, segment...)
	return Checksum(buf)
}
