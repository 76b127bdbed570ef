// Package zenoss is a client for the Zenoss JSON router API.
//
// A Session logs in once (cookie form login) or attaches HTTP Basic
// credentials to every request, then a Client issues stateless router calls:
//
//	client, err := zenoss.Connect(ctx, zenoss.Config{
//	    URL:      "https://zenoss.example.com",
//	    Username: "admin",
//	    Password: os.Getenv("ZENOSS_PASSWORD"),
//	})
//	if err != nil {
//	    return err
//	}
//
//	devices, err := client.GetDevices(ctx, zenoss.DefaultDeviceClass)
//
// Every router call is posted as a one-element JSON array holding the
// envelope {action, method, data, type: "rpc", tid}. Only the result field of
// the reply is returned; the convenience methods decode it into typed values.
//
// # Consistency
//
// Mutations addressed by device name (MoveDevice, RemoveDevice,
// SetProductionState, ...) resolve the device uid and hashcheck with one
// getDevices call and act with a second. The two calls are not atomic. A
// device changed by someone else between them is rejected or accepted by the
// server according to its own hashcheck rules; the client does not lock.
//
// # Error Handling
//
// Failures are reported with sentinel errors checked via errors.Is:
// ErrUnknownRouter, ErrAuthentication, ErrTransport, ErrValidation,
// ErrNotFound and ErrRemote. Nothing is retried.
package zenoss
