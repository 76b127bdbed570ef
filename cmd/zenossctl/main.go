// zenossctl drives a Zenoss server through its JSON router API.
//
// It exposes the device, event, trigger, notification and property
// operations of pkg/zenoss as subcommands, keeps a local audit trail of
// every change it makes, and can run as an event relay that forwards Zenoss
// events to MQTT and InfluxDB.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
)

// Version information - set at build time via ldflags
// Example: go build -ldflags "-X main.version=1.0.0 -X main.commit=abc123"
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

// Default configuration file path
const defaultConfigPath = "configs/config.yaml"

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// run executes one zenossctl command line.
//
// Parameters:
//   - ctx: Context for cancellation and shutdown signals
//   - args: Command line without the program name
//   - stdout: Command output
//   - stderr: Usage and cobra diagnostics
//
// Returns:
//   - error: nil on success, or error describing failure
func run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	a := &app{stdout: stdout}
	defer a.close()

	root := newRootCmd(a)
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)

	return root.ExecuteContext(ctx)
}
