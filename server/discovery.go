package server

import (
	"fmt"
	"os"

	"github.com/hashicorp/mdns"
)

const serviceType = "_shape-editor._tcp"

// Advertise announces the editor on the local network over mDNS so
// browsers on other machines can find it without knowing the address.
// The caller shuts the returned server down on exit.
func Advertise(port int) (*mdns.Server, error) {
	host, err := os.Hostname()
	if err != nil {
		return nil, fmt.Errorf("could not get hostname: %w", err)
	}

	service, err := mdns.NewMDNSService(host, serviceType, "", "", port, nil, []string{"shape editor"})
	if err != nil {
		return nil, fmt.Errorf("failed to create mDNS service: %w", err)
	}

	server, err := mdns.NewServer(&mdns.Config{Zone: service})
	if err != nil {
		return nil, fmt.Errorf("failed to start mDNS server: %w", err)
	}
	return server, nil
}
