package synscan

import (
	"net"
	"time"
)

// Family selects the address family a scan operates over.
type Family int

const (
	FamilyIPv4 Family = 4
	FamilyIPv6 Family = 6
)

// RawSender transmits fully-formed IPv4/IPv6+TCP segments. Implementations
// for IPv4 open a raw socket with IP_HDRINCL (the caller supplies the IP
// header); for IPv6 the kernel prepends the header and fills the checksum
// via IPV6_CHECKSUM at TCP-header byte offset 16.
type RawSender interface {
	Send(dst net.IP, segment []byte) error
	Close() error
}

// CaptureReader is the BPF/pcap façade the driver pulls reply frames from.
// Frames are returned with the datalink header already stripped.
type CaptureReader interface {
	// Next blocks for at most deadline waiting for the next frame matching
	// the capture filter. ok is false on timeout (not an error).
	Next(deadline time.Duration) (frame []byte, ok bool)
	Close() error
}

// OpenCapture is implemented per-platform (capture_linux.go) and returns a
// CaptureReader whose filter is "tcp and src host <dst> and dst port
// <magicPort>", plus the source address routing chose for dst.
type OpenCaptureFunc func(dst net.IP, magicPort uint16) (CaptureReader, net.IP, error)

// OpenRawFunc is implemented per-platform (raw_linux.go) and opens a raw
// socket for the given family.
type OpenRawFunc func(family Family) (RawSender, error)
