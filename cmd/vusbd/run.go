package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/virtualusb/vusb/device"
	"github.com/virtualusb/vusb/internal/log"
	"github.com/virtualusb/vusb/usb"
	"github.com/virtualusb/vusb/vhci"
)

// bootMouseReportDescriptor is the standard 3-button boot mouse report
// descriptor: X/Y as signed 8-bit relative values, 3 buttons, 5 padding
// bits. It exists so vusbd has a working device to attach without asking
// the operator to author a report descriptor first.
var bootMouseReportDescriptor = []byte{
	0x05, 0x01, 0x09, 0x02, 0xa1, 0x01, 0x09, 0x01, 0xa1, 0x00,
	0x05, 0x09, 0x19, 0x01, 0x29, 0x03, 0x15, 0x00, 0x25, 0x01,
	0x95, 0x03, 0x75, 0x01, 0x81, 0x02, 0x95, 0x01, 0x75, 0x05,
	0x81, 0x03, 0x05, 0x01, 0x09, 0x30, 0x09, 0x31,
	0x15, 0x81, 0x25, 0x7f, 0x75, 0x08, 0x95, 0x02, 0x81, 0x06,
	0xc0, 0xc0,
}

// RunCommand attaches a demo virtual mouse to vhci_hcd and runs until
// interrupted, auto-acknowledging every URB with no-op reports. It exists
// to exercise the builder and engine APIs end to end, not as a usable
// input device.
type RunCommand struct {
	DevID        uint32 `help:"USB/IP device id reported to the kernel" default:"1"`
	Vendor       uint16 `help:"Vendor ID" default:"4617"`
	Product      uint16 `help:"Product ID" default:"1"`
	Manufacturer string `help:"iManufacturer string" default:"vusb"`
	ProductName  string `name:"product-name" help:"iProduct string" default:"Virtual Mouse"`
}

func (r *RunCommand) Run(logger *slog.Logger, raw log.RawLogger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := vhci.EnsureLoaded(ctx); err != nil {
		return fmt.Errorf("loading vhci-hcd: %w", err)
	}
	adapter, err := vhci.Open()
	if err != nil {
		return fmt.Errorf("opening vhci_hcd: %w", err)
	}

	ep := usb.NewEndpointBuilder(1, usb.DirectionIn, usb.TransferTypeInterrupt).
		WithMaxPacketSize(4).
		WithInterval(10).
		Build()
	iface := usb.NewHidInterfaceBuilder(0, 0, 0x0110, 0, bootMouseReportDescriptor).
		AddEndpoint(ep).
		Build()
	cfg := usb.NewConfigurationBuilder(1).
		WithAttributes(usb.ConfigAttrSelfPowered).
		WithMaxPower(50).
		AddInterface(iface).
		Build()

	builder := device.NewBuilder(r.Vendor, r.Product).
		WithClass(usb.DeviceClassUseInterface, 0, 0).
		Manufacturer(r.Manufacturer).
		Product(r.ProductName).
		Serial(usb.DeriveSerial(r.Vendor, r.Product, r.Manufacturer)).
		AddConfiguration(cfg)

	dev := device.New(builder.Build(), r.DevID, logger, raw)
	if err := dev.Start(adapter); err != nil {
		return fmt.Errorf("starting device: %w", err)
	}
	defer dev.Stop()

	logger.Info("virtual mouse attached, waiting for URBs", "devid", r.DevID)

	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			xfer, err := dev.BlockingRead()
			if err != nil {
				logger.Info("device session ended", "error", err)
				return
			}
			switch {
			case xfer.Direction == usb.DirectionIn:
				// A host read (the interrupt IN endpoint, or a class IN
				// request on endpoint 0): report no movement and no
				// buttons pressed.
				_ = dev.Write(device.NewReply(xfer, []byte{0x00, 0x00, 0x00}))
			case xfer.Endpoint == 0:
				// A class OUT request on endpoint 0 (such as HID
				// SET_IDLE): acknowledge it.
				_ = dev.Write(device.NewReply(xfer, nil))
			}
		}
	}()

	select {
	case <-ctx.Done():
		logger.Info("shutting down")
	case <-done:
	}
	return nil
}
