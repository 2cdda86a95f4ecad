// Package discovery implements CameraDiscovery and CapabilityProbe: network
// enumeration of candidate cameras and verification that a located source
// actually opens and yields frames. Combines an ONVIF WS-Discovery probe
// with a bounded RTSP port scan, each in idiomatic Go rather than any
// literal translation of another language's constructs.
package discovery

import (
	"context"
	"encoding/xml"
	"fmt"
	"net"
	"strings"
	"time"

	"github.com/kepler-fts/facetrackd/internal/models"
)

const onvifProbeMessage = `<?xml version="1.0" encoding="UTF-8"?>
<soap:Envelope xmlns:soap="http://www.w3.org/2003/05/soap-envelope"
               xmlns:wsa="http://schemas.xmlsoap.org/ws/2004/08/addressing"
               xmlns:tns="http://schemas.xmlsoap.org/ws/2005/04/discovery">
  <soap:Header>
    <wsa:Action>http://schemas.xmlsoap.org/ws/2005/04/discovery/Probe</wsa:Action>
    <wsa:MessageID>uuid:fts-discovery-probe</wsa:MessageID>
    <wsa:To>urn:schemas-xmlsoap-org:ws:2005:04:discovery</wsa:To>
  </soap:Header>
  <soap:Body>
    <tns:Probe>
      <tns:Types>tns:NetworkVideoTransmitter</tns:Types>
    </tns:Probe>
  </soap:Body>
</soap:Envelope>`

type probeMatch struct {
	XMLName xml.Name `xml:"Envelope"`
	Body    struct {
		ProbeMatches struct {
			ProbeMatch []struct {
				XAddrs string `xml:"XAddrs"`
			} `xml:"ProbeMatch"`
		} `xml:"ProbeMatches"`
	} `xml:"Body"`
}

// probeONVIF sends one WS-Discovery probe to the standard multicast address
// and collects responses until ctx is cancelled or its own timeout elapses.
func probeONVIF(ctx context.Context, timeout time.Duration) ([]models.DiscoveredCamera, error) {
	conn, err := net.ListenPacket("udp4", ":0")
	if err != nil {
		return nil, fmt.Errorf("discovery: open onvif socket: %w", err)
	}
	defer conn.Close()

	dst, err := net.ResolveUDPAddr("udp4", "239.255.255.250:3702")
	if err != nil {
		return nil, fmt.Errorf("discovery: resolve ws-discovery address: %w", err)
	}
	if _, err := conn.WriteTo([]byte(onvifProbeMessage), dst); err != nil {
		return nil, fmt.Errorf("discovery: send ws-discovery probe: %w", err)
	}

	var found []models.DiscoveredCamera
	deadline := time.Now().Add(timeout)
	buf := make([]byte, 8192)

	for {
		select {
		case <-ctx.Done():
			return found, ctx.Err()
		default:
		}
		remaining := time.Until(deadline)
		if remaining <= 0 {
			break
		}
		conn.SetReadDeadline(time.Now().Add(remaining))
		n, addr, err := conn.ReadFrom(buf)
		if err != nil {
			break // timeout or socket closed; stop listening
		}
		cam, ok := parseProbeResponse(buf[:n], addr.String())
		if ok {
			found = append(found, cam)
		}
	}
	return found, nil
}

func parseProbeResponse(data []byte, fromAddr string) (models.DiscoveredCamera, bool) {
	var resp probeMatch
	if err := xml.Unmarshal(data, &resp); err != nil {
		return models.DiscoveredCamera{}, false
	}
	if len(resp.Body.ProbeMatches.ProbeMatch) == 0 {
		return models.DiscoveredCamera{}, false
	}
	xaddr := strings.Fields(resp.Body.ProbeMatches.ProbeMatch[0].XAddrs)
	locator := fromAddr
	if len(xaddr) > 0 {
		locator = xaddr[0]
	}
	host, _, _ := net.SplitHostPort(fromAddr)
	if host == "" {
		host = fromAddr
	}
	return models.DiscoveredCamera{
		ID:        fmt.Sprintf("onvif-%s", host),
		Kind:      models.SourceONVIF,
		Locator:   locator,
		Reachable: true,
	}, true
}
