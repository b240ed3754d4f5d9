//go:build linux
// +build linux

package synscan

import (
	"fmt"
	"net"
	"syscall"
)

// rawSocket is the Linux raw-socket implementation of RawSender, adapted
// from netraw.RawSocket: IPv4 sets IP_HDRINCL so the caller's IP header in
// the segment is transmitted verbatim; IPv6 instead sets IPV6_CHECKSUM at
// TCP-header byte offset 16 (the checksum field) so the kernel computes and
// patches the TCP checksum after prepending its own IPv6 header.
type rawSocket struct {
	fd     int
	family Family
}

// OpenRaw implements OpenRawFunc for Linux.
func OpenRaw(family Family) (RawSender, error) {
	domain := syscall.AF_INET
	if family == FamilyIPv6 {
		domain = syscall.AF_INET6
	}

	fd, err := syscall.Socket(domain, syscall.SOCK_RAW, syscall.IPPROTO_TCP)
	if err != nil {
		return nil, fmt.Errorf("synscan: raw socket open failed: %w", err)
	}

	if family == FamilyIPv4 {
		if err := syscall.SetsockoptInt(fd, syscall.IPPROTO_IP, syscall.IP_HDRINCL, 1); err != nil {
			syscall.Close(fd)
			return nil, fmt.Errorf("synscan: IP_HDRINCL failed: %w", err)
		}
	} else {
		const tcpChecksumOffset = 16
		if err := syscall.SetsockoptInt(fd, syscall.IPPROTO_IPV6, syscall.IPV6_CHECKSUM, tcpChecksumOffset); err != nil {
			syscall.Close(fd)
			return nil, fmt.Errorf("synscan: IPV6_CHECKSUM failed: %w", err)
		}
	}

	return &rawSocket{fd: fd, family: family}, nil
}

func (s *rawSocket) Send(dst net.IP, segment []byte) error {
	if s.family == FamilyIPv4 {
		dst4 := dst.To4()
		if dst4 == nil {
			return fmt.Errorf("synscan: destination is not IPv4")
		}
		addr := &syscall.SockaddrInet4{}
		copy(addr.Addr[:], dst4)
		if err := syscall.Sendto(s.fd, segment, 0, addr); err != nil {
			return fmt.Errorf("synscan: sendto failed: %w", err)
		}
		return nil
	}

	dst16 := dst.To16()
	if dst16 == nil {
		return fmt.Errorf("synscan: destination is not IPv6")
	}
	addr := &syscall.SockaddrInet6{}
	copy(addr.Addr[:], dst16)
	if err := syscall.Sendto(s.fd, segment, 0, addr); err != nil {
		return fmt.Errorf("synscan: sendto failed: %w", err)
	}
	return nil
}

func (s *rawSocket) Close() error {
	return syscall.Close(s.fd)
}
