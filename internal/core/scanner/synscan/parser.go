package synscan

import "encoding/binary"

// ParseIPv4 locates source port, ACK, and SYN/ACK classification inside a
// captured IPv4 frame whose datalink header has already been stripped, so
// frame[0] is the start of the IPv4 header. Returns ok=false for any frame
// too short to safely contain a TCP header at the offset the IHL implies —
// the caller must drop such frames without treating it as an error.
func ParseIPv4(frame []byte) (srcPort uint16, ack uint32, isSynAck bool, ok bool) {
	if len(frame) < 1 {
		return 0, 0, false, false
	}
	ihl := int(frame[0]&0x0F) * 4
	if ihl < ipv4HeaderLen || ihl+tcpHeaderLen > len(frame) {
		return 0, 0, false, false
	}
	tcp := frame[ihl : ihl+tcpHeaderLen]
	return parseTCP(tcp)
}

// ParseIPv6 locates the TCP header at the fixed offset 40. It does not walk
// IPv6 extension headers; a target that inserts one before TCP will not
// parse correctly. Extension headers are rare enough in practice for
// scanned hosts that the added traversal logic isn't worth carrying.
func ParseIPv6(frame []byte) (srcPort uint16, ack uint32, isSynAck bool, ok bool) {
	const ipv6HeaderLen = 40
	if len(frame) < ipv6HeaderLen+tcpHeaderLen {
		return 0, 0, false, false
	}
	tcp := frame[ipv6HeaderLen : ipv6HeaderLen+tcpHeaderLen]
	return parseTCP(tcp)
}

func parseTCP(tcp []byte) (srcPort uint16, ack uint32, isSynAck bool, ok bool) {
	srcPort = binary.BigEndian.Uint16(tcp[0:2])
	ackField := binary.BigEndian.Uint32(tcp[8:12])
	flags := tcp[13]

	// ack(frame) recovers the sent_at the peer echoed via seq+1: we embedded
	// S in our SYN's sequence number, the peer's SYN/ACK carries ack=S+1.
	ack = ackField - 1
	isSynAck = flags == (flagSYN | flagACK)
	return srcPort, ack, isSynAck, true
}
