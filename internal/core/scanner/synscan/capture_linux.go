//go:build linux
// +build linux

package synscan

import (
	"fmt"
	"net"
	"time"

	"github.com/google/gopacket"
	"github.com/google/gopacket/layers"
	"github.com/google/gopacket/pcap"
)

const (
	pcapSnapLen    = 1600
	pcapBufTimeout = 50 * time.Millisecond
)

// pcapCapture is the gopacket/pcap-backed CaptureReader: the concrete
// component-H implementation of the BPF façade the driver depends on.
// Grounded on the gopacket/layers/pcapgo idiom already present in the
// example pack's ETL pipeline; here the capture is live rather than
// file-backed, which is the standard gopacket/pcap live-capture idiom.
type pcapCapture struct {
	handle        *pcap.Handle
	source        *gopacket.PacketSource
	datalinkBytes int
}

// OpenCapture implements OpenCaptureFunc for Linux: it determines the
// outbound interface and source address routing would choose for dst (via
// a connected UDP socket, same trick used in the example pack's SYN
// scanner), opens a live pcap handle on that interface, and installs the
// filter "tcp and src host <dst> and dst port <magicPort>".
func OpenCapture(dst net.IP, magicPort uint16) (CaptureReader, net.IP, error) {
	iface, src, err := routeInterface(dst)
	if err != nil {
		return nil, nil, fmt.Errorf("synscan: route lookup failed: %w", err)
	}

	handle, err := pcap.OpenLive(iface, pcapSnapLen, true, pcapBufTimeout)
	if err != nil {
		return nil, nil, fmt.Errorf("synscan: pcap open failed on %s: %w", iface, err)
	}

	filter := fmt.Sprintf("tcp and src host %s and dst port %d", dst.String(), magicPort)
	if err := handle.SetBPFFilter(filter); err != nil {
		handle.Close()
		return nil, nil, fmt.Errorf("synscan: BPF filter rejected: %w", err)
	}

	datalinkLen := 14 // Ethernet
	if handle.LinkType() == layers.LinkTypeLinuxSLL {
		datalinkLen = 16
	}

	c := &pcapCapture{
		handle:        handle,
		source:        gopacket.NewPacketSource(handle, handle.LinkType()),
		datalinkBytes: datalinkLen,
	}
	return c, src, nil
}

func (c *pcapCapture) Next(deadline time.Duration) ([]byte, bool) {
	if err := c.handle.SetReadDeadline(time.Now().Add(deadline)); err != nil {
		return nil, false
	}

	data, _, err := c.handle.ReadPacketData()
	if err != nil {
		return nil, false
	}
	if len(data) <= c.datalinkBytes {
		return nil, false
	}
	return data[c.datalinkBytes:], true
}

func (c *pcapCapture) Close() error {
	c.handle.Close()
	return nil
}

// routeInterface finds the local interface and source address that
// routing would use to reach dst, by opening a connected UDP socket to it
// (no packets are sent — connecting a UDP socket only consults the
// routing table) and matching the chosen local address against the
// system's interfaces.
func routeInterface(dst net.IP) (ifaceName string, src net.IP, err error) {
	network := "udp4"
	dialAddr := net.JoinHostPort(dst.String(), "0")
	if dst.To4() == nil {
		network = "udp6"
	}

	conn, err := net.Dial(network, dialAddr)
	if err != nil {
		return "", nil, err
	}
	defer conn.Close()

	local := conn.LocalAddr().(*net.UDPAddr).IP

	ifaces, err := net.Interfaces()
	if err != nil {
		return "", nil, err
	}
	for _, ifc := range ifaces {
		addrs, err := ifc.Addrs()
		if err != nil {
			continue
		}
		for _, a := range addrs {
			ipnet, ok := a.(*net.IPNet)
			if !ok {
				continue
			}
			if ipnet.IP.Equal(local) {
				return ifc.Name, local, nil
			}
		}
	}
	return "", nil, fmt.Errorf("no interface found for source address %s", local)
}
