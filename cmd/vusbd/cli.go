package main

// CLI is the root command set parsed by kong. Each subcommand gets its own
// Run method, bound the logger and raw packet logger kong.Bind attaches in
// main.
type CLI struct {
	Log LogConfig `embed:"" prefix:"log."`

	Run    RunCommand    `cmd:"" help:"Attach a demo HID device to vhci_hcd and serve it until interrupted."`
	Ports  PortsCommand  `cmd:"" help:"List vhci_hcd ports and their attachment status."`
	Config ConfigCommand `cmd:"" help:"Generate a configuration template."`
}

// LogConfig controls where and how verbosely vusbd logs.
type LogConfig struct {
	Level   string `help:"Log level (trace, debug, info, warn, error)" default:"info" env:"VUSB_LOG_LEVEL"`
	File    string `help:"Write logs to this file instead of stdout/stderr" env:"VUSB_LOG_FILE"`
	RawFile string `help:"Write a hex dump of every URB exchanged with vhci_hcd to this file" env:"VUSB_RAW_LOG_FILE"`
}
