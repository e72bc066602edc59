package internal

import (
	"log"
	"net"
)

var loopbackIpNet = net.IPNet{IP: net.IPv4(127, 0, 0, 1), Mask: net.CIDRMask(32, 32)}

// ServerIpNet finds the first non-loopback IPv4 network of this
// host. Analytics rows are keyed by it. Falls back to loopback
// when the host has no such interface (containers, CI).
func ServerIpNet() net.IPNet {
	ifaces, err := net.Interfaces()
	if err != nil {
		log.Printf("failed to list network interfaces: %v", err)
		return loopbackIpNet
	}

	for _, iface := range ifaces {
		// If the flag is down
		if iface.Flags&net.FlagUp == 0 {
			continue
		}

		if iface.Flags&net.FlagLoopback != 0 {
			continue
		}

		addrs, err := iface.Addrs()
		if err != nil {
			log.Printf("failed to fetch addrs of %s: %v", iface.Name, err)
			continue
		}

		for _, addr := range addrs {
			ipnet, ok := addr.(*net.IPNet)
			if !ok {
				continue
			}

			if ip := ipnet.IP.To4(); ip != nil && !ip.IsLoopback() {
				return net.IPNet{IP: ip, Mask: ipnet.Mask}
			}
		}
	}

	log.Println("no non-loopback ipv4 found, using 127.0.0.1/32")
	return loopbackIpNet
}
