package synscan

import (
	"encoding/binary"
	"fmt"
	"math/rand"
	"net"
)

// TCP flag bits, packed into the single flags byte at TCP header offset 13.
const (
	flagFIN = 0x01
	flagSYN = 0x02
	flagRST = 0x04
	flagACK = 0x10
)

const (
	tcpProtocol = 6 // IPPROTO_TCP

	ipv4HeaderLen = 20
	tcpHeaderLen  = 20

	ipv4WindowSize = 4096
	ipv6WindowSize = 5760
)

// BuildIPv4SYN assembles a 40-byte IPv4+TCP SYN segment: a 20-byte IPv4
// header (IHL=5, TOS=0, TTL=64, protocol=TCP) followed by a 20-byte TCP
// header with the given sentAt packed into the sequence field. Each call
// returns a freshly allocated buffer — no aliasing across calls, unlike
// the static-buffer convention of the routine this is modeled on (see
// DESIGN.md).
func BuildIPv4SYN(src, dst net.IP, srcPort, dstPort uint16, sentAt uint32) ([]byte, error) {
	return buildIPv4(src, dst, srcPort, dstPort, sentAt, 0, flagSYN, ipv4WindowSize)
}

// BuildIPv4RST assembles the RST used to tear down a half-open connection
// after a SYN/ACK has been observed. seq is the peer's acked sequence
// number plus one, continuing the same sequence space the SYN started.
func BuildIPv4RST(src, dst net.IP, srcPort, dstPort uint16, seq uint32) ([]byte, error) {
	return buildIPv4(src, dst, srcPort, dstPort, seq, 0, flagRST, ipv4WindowSize)
}

func buildIPv4(src, dst net.IP, srcPort, dstPort uint16, seq, ack uint32, flags uint8, window uint16) ([]byte, error) {
	src4, dst4 := src.To4(), dst.To4()
	if src4 == nil || dst4 == nil {
		return nil, fmt.Errorf("synscan: BuildIPv4SYN requires IPv4 addresses")
	}

	tcp := buildTCPHeader(srcPort, dstPort, seq, ack, flags, window)
	tcp[16], tcp[17] = 0, 0
	sum := TCPChecksum(src4, dst4, tcp)
	binary.BigEndian.PutUint16(tcp[16:18], sum)

	ip := make([]byte, ipv4HeaderLen)
	ip[0] = (4 << 4) | 5 // version=4, IHL=5
	ip[1] = 0            // TOS
	binary.BigEndian.PutUint16(ip[2:4], uint16(ipv4HeaderLen+tcpHeaderLen))
	binary.BigEndian.PutUint16(ip[4:6], uint16(rand.Intn(1<<16)))
	binary.BigEndian.PutUint16(ip[6:8], 0) // flags/frag offset
	ip[8] = 64                             // TTL
	ip[9] = tcpProtocol
	ip[10], ip[11] = 0, 0 // checksum, filled below
	copy(ip[12:16], src4)
	copy(ip[16:20], dst4)
	binary.BigEndian.PutUint16(ip[10:12], IPv4HeaderChecksum(ip))

	packet := make([]byte, 0, ipv4HeaderLen+tcpHeaderLen)
	packet = append(packet, ip...)
	packet = append(packet, tcp...)
	return packet, nil
}

// BuildIPv6SYN assembles only the 20-byte TCP header; the kernel prepends
// the IPv6 header and computes the checksum via IPV6_CHECKSUM (see
// socket.go). ack is random per the reference's IPv6 SYN convention.
func BuildIPv6SYN(srcPort, dstPort uint16, sentAt uint32) []byte {
	ack := rand.Uint32()
	return buildTCPHeader(srcPort, dstPort, sentAt, ack, flagSYN, ipv6WindowSize)
}

// BuildIPv6RST assembles the IPv6 RST teardown segment.
func BuildIPv6RST(srcPort, dstPort uint16, seq uint32) []byte {
	return buildTCPHeader(srcPort, dstPort, seq, 0, flagRST, ipv6WindowSize)
}

// buildTCPHeader writes the common 20-byte TCP header shape (no options)
// shared by IPv4 and IPv6 SYN/RST segments. Checksum bytes are left zero;
// callers fill them in (IPv4: via TCPChecksum; IPv6: left to the kernel).
func buildTCPHeader(srcPort, dstPort uint16, seq, ack uint32, flags uint8, window uint16) []byte {
	h := make([]byte, tcpHeaderLen)
	binary.BigEndian.PutUint16(h[0:2], srcPort)
	binary.BigEndian.PutUint16(h[2:4], dstPort)
	binary.BigEndian.PutUint32(h[4:8], seq)
	binary.BigEndian.PutUint32(h[8:12], ack)
	h[12] = (5 << 4) // data offset = 5 (no options), reserved+NS = 0
	h[13] = flags
	binary.BigEndian.PutUint16(h[14:16], window)
	// h[16:18] checksum, filled by caller
	binary.BigEndian.PutUint16(h[18:20], 0) // urgent pointer
	return h
}
