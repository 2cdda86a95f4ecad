package discovery

import (
	"testing"

	"github.com/kepler-fts/facetrackd/internal/models"
)

func TestDedupeByKindAndLocator(t *testing.T) {
	in := []models.DiscoveredCamera{
		{Kind: models.SourceRTSP, Locator: "rtsp://10.0.0.5:554"},
		{Kind: models.SourceRTSP, Locator: "rtsp://10.0.0.5:554"},
		{Kind: models.SourceONVIF, Locator: "rtsp://10.0.0.5:554"},
	}
	out := dedupe(in)
	if len(out) != 2 {
		t.Fatalf("expected 2 deduped entries (same locator, different kind kept), got %d", len(out))
	}
}

func TestHostsInCIDREnumeratesUsableRange(t *testing.T) {
	hosts, err := hostsInCIDR("192.168.1.0/29")
	if err != nil {
		t.Fatalf("hostsInCIDR: %v", err)
	}
	// /29 has 8 addresses; network + broadcast excluded leaves 6 usable hosts.
	if len(hosts) != 6 {
		t.Fatalf("expected 6 usable hosts, got %d: %v", len(hosts), hosts)
	}
	if hosts[0] != "192.168.1.1" {
		t.Fatalf("expected first usable host 192.168.1.1, got %s", hosts[0])
	}
}

func TestHostsInCIDRRejectsOversizedSubnet(t *testing.T) {
	if _, err := hostsInCIDR("10.0.0.0/8"); err == nil {
		t.Fatalf("expected oversized subnet to be rejected")
	}
}
