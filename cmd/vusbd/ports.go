package main

import (
	"fmt"
	"log/slog"
	"os"

	"golang.org/x/term"

	"github.com/virtualusb/vusb/vhci"
)

// PortsCommand lists vhci_hcd's ports and whether each is free or attached,
// for diagnosing "no free port"/attach failures without reading sysfs by
// hand.
type PortsCommand struct{}

func (c *PortsCommand) Run(logger *slog.Logger) error {
	adapter, err := vhci.Open()
	if err != nil {
		return fmt.Errorf("opening vhci_hcd: %w", err)
	}
	ports, err := adapter.Ports()
	if err != nil {
		return fmt.Errorf("reading ports: %w", err)
	}

	width := 80
	if w, _, err := term.GetSize(int(os.Stdout.Fd())); err == nil && w > 0 {
		width = w
	}

	header := fmt.Sprintf("%-4s %-8s %-6s %-10s %-8s %s", "PORT", "STATUS", "SPEED", "DEVICE", "SOCKFD", "BUSID")
	if len(header) > width {
		header = header[:width]
	}
	fmt.Println(header)
	for _, p := range ports {
		status := "free"
		if !p.Free() {
			status = "attached"
		}
		line := fmt.Sprintf("%-4d %-8s %-6d %-10d %-8d %s", p.Port, status, p.Speed, p.Device, p.SockFD, p.LocalBusID)
		if len(line) > width {
			line = line[:width]
		}
		fmt.Println(line)
	}
	logger.Debug("listed vhci_hcd ports", "count", len(ports))
	return nil
}
