// Package vhci talks to the Linux kernel's vhci_hcd (Virtual Host Controller
// Interface) driver through its sysfs attribute surface: it enumerates
// ports, finds a free one, and attaches a socket fd to it so the kernel
// believes a real USB device just showed up on that port.
package vhci

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// defaultSysfsRoot is the sysfs directory exposing vhci_hcd's attributes.
// Open uses it; tests point an Adapter at a fixture directory through
// openAt instead.
const defaultSysfsRoot = "/sys/devices/platform/vhci_hcd.0"

// Port is one row of the vhci_hcd "status" attribute.
type Port struct {
	Hub         string
	Port        uint8
	Status      uint8
	Speed       uint8
	Device      uint32
	SockFD      uint32
	LocalBusID  string
}

// Free reports whether this port is unused (status == 4, the kernel
// sentinel for "available").
func (p Port) Free() bool {
	return p.Status == 4
}

// Adapter is a handle onto one vhci_hcd controller's sysfs surface.
type Adapter struct {
	root   string
	nports int
}

// Open verifies the vhci_hcd sysfs node exists and reads its port count.
// It returns ErrNoVHCI if the node is missing, which on Linux normally
// means the vhci-hcd kernel module has not been loaded (see EnsureLoaded).
func Open() (*Adapter, error) {
	return openAt(defaultSysfsRoot)
}

func openAt(root string) (*Adapter, error) {
	if _, err := os.Stat(root); err != nil {
		return nil, ErrNoVHCI
	}
	a := &Adapter{root: root}
	n, err := a.readNPorts()
	if err != nil {
		return nil, err
	}
	a.nports = n
	return a, nil
}

func (a *Adapter) readNPorts() (int, error) {
	data, err := os.ReadFile(filepath.Join(a.root, "nports"))
	if err != nil {
		return 0, ErrNoVHCI
	}
	n, err := strconv.Atoi(strings.TrimSpace(string(data)))
	if err != nil {
		return 0, fmt.Errorf("vhci: parsing nports: %w", err)
	}
	return n, nil
}

// NumPorts returns the number of ports the controller exposes, as read at
// Open time.
func (a *Adapter) NumPorts() int {
	return a.nports
}

// Ports reads and parses every row of the "status" attribute.
func (a *Adapter) Ports() ([]Port, error) {
	f, err := os.Open(filepath.Join(a.root, "status"))
	if err != nil {
		return nil, ErrNoVHCI
	}
	defer f.Close()

	var ports []Port
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := scanner.Text()
		if strings.HasPrefix(strings.TrimSpace(line), "hub") {
			continue
		}
		p, ok := parsePortLine(line)
		if !ok {
			continue
		}
		ports = append(ports, p)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("vhci: reading status: %w", err)
	}
	return ports, nil
}

// parsePortLine parses one data row of the status file:
//
//	hub port sta spd dev      sockfd local_busid
//	hs  0000 004 000 00000000 000000 0-0
func parsePortLine(line string) (Port, bool) {
	fields := strings.Fields(line)
	if len(fields) < 7 {
		return Port{}, false
	}
	port, err := strconv.ParseUint(fields[1], 10, 8)
	if err != nil {
		return Port{}, false
	}
	status, err := strconv.ParseUint(fields[2], 10, 8)
	if err != nil {
		return Port{}, false
	}
	speed, err := strconv.ParseUint(fields[3], 10, 8)
	if err != nil {
		return Port{}, false
	}
	device, err := strconv.ParseUint(fields[4], 16, 32)
	if err != nil {
		return Port{}, false
	}
	sockfd, err := strconv.ParseUint(fields[5], 10, 32)
	if err != nil {
		return Port{}, false
	}
	return Port{
		Hub:        fields[0],
		Port:       uint8(port),
		Status:     uint8(status),
		Speed:      uint8(speed),
		Device:     uint32(device),
		SockFD:     uint32(sockfd),
		LocalBusID: fields[6],
	}, true
}

// NextFreePort returns the first port whose status is free, or
// ErrNoFreePort if none are available.
func (a *Adapter) NextFreePort() (Port, error) {
	ports, err := a.Ports()
	if err != nil {
		return Port{}, err
	}
	for _, p := range ports {
		if p.Free() {
			return p, nil
		}
	}
	return Port{}, ErrNoFreePort
}

// Attach writes the port/fd/devid/speed tuple to the attach attribute,
// handing fd over to the kernel as the port's USB/IP transport. The
// adapter does not retain or close fd; the caller owns its lifetime.
func (a *Adapter) Attach(port Port, fd int, devid uint32, speed uint32) error {
	payload := fmt.Sprintf("%d %d %d %d", port.Port, fd, devid, speed)
	f, err := os.OpenFile(filepath.Join(a.root, "attach"), os.O_WRONLY, 0)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrAttachFailed, err)
	}
	defer f.Close()
	if _, err := f.WriteString(payload); err != nil {
		return fmt.Errorf("%w: %v", ErrAttachFailed, err)
	}
	return nil
}
