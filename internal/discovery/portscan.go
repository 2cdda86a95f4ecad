package discovery

import (
	"context"
	"encoding/binary"
	"fmt"
	"net"
	"sync"
	"time"

	"golang.org/x/sync/semaphore"

	"github.com/kepler-fts/facetrackd/internal/models"
)

// portScan probes every host in subnet across ports with at most fanout
// concurrent dials, bounded by a weighted semaphore rather than an
// unbounded goroutine-per-dial fanout.
func portScan(ctx context.Context, subnet string, ports []int, fanout int, perDial time.Duration) ([]models.DiscoveredCamera, error) {
	hosts, err := hostsInCIDR(subnet)
	if err != nil {
		return nil, err
	}

	sem := semaphore.NewWeighted(int64(fanout))
	var mu sync.Mutex
	var found []models.DiscoveredCamera
	var wg sync.WaitGroup

	for _, host := range hosts {
		for _, port := range ports {
			if err := sem.Acquire(ctx, 1); err != nil {
				wg.Wait()
				return found, ctx.Err()
			}
			wg.Add(1)
			go func(host string, port int) {
				defer wg.Done()
				defer sem.Release(1)
				if probeTCP(host, port, perDial) {
					mu.Lock()
					found = append(found, models.DiscoveredCamera{
						ID:        fmt.Sprintf("rtsp-%s-%d", host, port),
						Kind:      models.SourceRTSP,
						Locator:   fmt.Sprintf("rtsp://%s:%d", host, port),
						Reachable: true,
					})
					mu.Unlock()
				}
			}(host, port)
		}
	}
	wg.Wait()
	return found, nil
}

func probeTCP(host string, port int, timeout time.Duration) bool {
	addr := net.JoinHostPort(host, fmt.Sprintf("%d", port))
	conn, err := net.DialTimeout("tcp", addr, timeout)
	if err != nil {
		return false
	}
	conn.Close()
	return true
}

// hostsInCIDR enumerates every usable host address in a CIDR block.
func hostsInCIDR(cidr string) ([]string, error) {
	ip, ipnet, err := net.ParseCIDR(cidr)
	if err != nil {
		return nil, fmt.Errorf("discovery: invalid subnet %q: %w", cidr, err)
	}
	ip4 := ip.To4()
	if ip4 == nil {
		return nil, fmt.Errorf("discovery: subnet %q is not IPv4", cidr)
	}

	ones, bits := ipnet.Mask.Size()
	if bits-ones > 16 {
		return nil, fmt.Errorf("discovery: subnet %q too large to scan (limit /16)", cidr)
	}

	start := binary.BigEndian.Uint32(ipnet.IP.To4())
	count := uint32(1) << uint(bits-ones)

	var hosts []string
	for i := uint32(1); i < count-1; i++ {
		addr := make(net.IP, 4)
		binary.BigEndian.PutUint32(addr, start+i)
		hosts = append(hosts, addr.String())
	}
	return hosts, nil
}

// primarySubnet derives a /24 CIDR from the first non-loopback IPv4
// interface address, used when cfg.DiscoverSubnet is left empty.
func primarySubnet() (string, error) {
	addrs, err := net.InterfaceAddrs()
	if err != nil {
		return "", err
	}
	for _, a := range addrs {
		ipnet, ok := a.(*net.IPNet)
		if !ok || ipnet.IP.IsLoopback() {
			continue
		}
		ip4 := ipnet.IP.To4()
		if ip4 == nil {
			continue
		}
		return fmt.Sprintf("%d.%d.%d.0/24", ip4[0], ip4[1], ip4[2]), nil
	}
	return "", fmt.Errorf("discovery: no usable IPv4 interface found")
}
