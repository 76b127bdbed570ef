package zenoss

import (
	"context"
	"fmt"
)

// resolveLimit is the page size used when a device must be found by name.
// It is large enough to return every device in one page.
const resolveLimit = 500000000

// Device is one entry of a device listing.
type Device struct {
	UID             string `json:"uid"`
	Name            string `json:"name"`
	IPAddress       string `json:"ipAddressString,omitempty"`
	ProductionState int    `json:"productionState,omitempty"`
	Collector       string `json:"collector,omitempty"`
	Location        *Label `json:"location,omitempty"`
}

// DeviceList is the result of getDevices.
type DeviceList struct {
	Success    bool      `json:"success"`
	Devices    []Device  `json:"devices"`
	TotalCount int       `json:"totalCount"`
	Hash       Hashcheck `json:"hash"`
}

// DeviceRef identifies a device for a mutating call: its uid and the
// hashcheck of the listing it was found in.
type DeviceRef struct {
	UID       string
	Name      string
	Hashcheck Hashcheck
}

// DeviceQuery selects devices for ListDevices.
type DeviceQuery struct {
	// UID is the organizer to list. Default: DefaultDeviceClass.
	UID string

	// Params are server-side filters, e.g. {"name": "web"}.
	Params map[string]any

	Start int
	Limit int
	Sort  string
	Dir   string
}

// GetDevices lists the devices below a device class.
//
// Parameters:
//   - ctx: Context for cancellation
//   - deviceClass: Organizer uid; empty means DefaultDeviceClass
//
// Returns:
//   - *DeviceList: Devices plus the hashcheck needed by mutating calls
//   - error: Any Invoke error
func (c *Client) GetDevices(ctx context.Context, deviceClass string) (*DeviceList, error) {
	return c.ListDevices(ctx, DeviceQuery{UID: deviceClass})
}

// ListDevices lists devices with paging and server-side filters.
func (c *Client) ListDevices(ctx context.Context, q DeviceQuery) (*DeviceList, error) {
	data := map[string]any{
		"uid":    q.UID,
		"params": q.Params,
	}
	if q.UID == "" {
		data["uid"] = DefaultDeviceClass
	}
	if q.Params == nil {
		data["params"] = map[string]any{}
	}
	if q.Limit > 0 {
		data["start"] = q.Start
		data["limit"] = q.Limit
	}
	if q.Sort != "" {
		data["sort"] = q.Sort
	}
	if q.Dir != "" {
		data["dir"] = q.Dir
	}

	var list DeviceList
	if err := c.call(ctx, DeviceRouter, "getDevices", &list, data); err != nil {
		return nil, err
	}
	return &list, nil
}

// FindDevice returns the device whose name matches exactly.
//
// Returns:
//   - *Device: The matching device
//   - error: ErrNotFound when no device has that name
func (c *Client) FindDevice(ctx context.Context, name string) (*Device, error) {
	_, device, err := c.lookupDevice(ctx, name)
	if err != nil {
		return nil, err
	}
	return device, nil
}

// ResolveDevice finds a device by name and returns its uid together with
// the listing's hashcheck.
//
// The listing and any later mutation are separate calls; see the package
// documentation on consistency.
func (c *Client) ResolveDevice(ctx context.Context, name string) (DeviceRef, error) {
	ref, _, err := c.lookupDevice(ctx, name)
	return ref, err
}

func (c *Client) lookupDevice(ctx context.Context, name string) (DeviceRef, *Device, error) {
	list, err := c.ListDevices(ctx, DeviceQuery{UID: DefaultDeviceClass, Limit: resolveLimit})
	if err != nil {
		return DeviceRef{}, nil, err
	}

	for i := range list.Devices {
		if list.Devices[i].Name == name {
			d := list.Devices[i]
			return DeviceRef{UID: d.UID, Name: d.Name, Hashcheck: list.Hash}, &d, nil
		}
	}

	return DeviceRef{}, nil, fmt.Errorf("%w: device %q", ErrNotFound, name)
}

// GetDeviceInfo returns the info record of a device uid.
func (c *Client) GetDeviceInfo(ctx context.Context, uid string) (map[string]any, error) {
	var res struct {
		Data map[string]any `json:"data"`
	}
	if err := c.call(ctx, DeviceRouter, "getInfo", &res, map[string]any{"uid": uid}); err != nil {
		return nil, err
	}
	if res.Data == nil {
		return nil, fmt.Errorf("%w: device info for %q", ErrNotFound, uid)
	}
	return res.Data, nil
}

// Component is one monitored component of a device.
type Component struct {
	UID      string `json:"uid"`
	Name     string `json:"name"`
	MetaType string `json:"meta_type,omitempty"`
	Monitor  bool   `json:"monitor"`
	Status   Label  `json:"status"`
}

// GetComponents lists a device's components. The call is made against the
// device's own router endpoint rather than the global one.
func (c *Client) GetComponents(ctx context.Context, device Device) ([]Component, error) {
	path, _ := RouterPath(DeviceRouter)
	raw, err := c.InvokeAt(ctx, device.UID+"/"+endpointName(path), DeviceRouter, "getComponents",
		map[string]any{"uid": device.UID})
	if err != nil {
		return nil, err
	}

	var res struct {
		Data []Component `json:"data"`
	}
	if err := decodeResult(raw, DeviceRouter, "getComponents", &res); err != nil {
		return nil, err
	}
	return res.Data, nil
}

// AddDevice schedules discovery of a new device in a device class.
func (c *Client) AddDevice(ctx context.Context, name, deviceClass string) (*Result, error) {
	return c.mutate(ctx, DeviceRouter, "addDevice", map[string]any{
		"deviceName":  name,
		"deviceClass": deviceClass,
	})
}

// RemoveDevice deletes a device by name.
func (c *Client) RemoveDevice(ctx context.Context, name string) (*Result, error) {
	ref, err := c.ResolveDevice(ctx, name)
	if err != nil {
		return nil, err
	}
	return c.mutate(ctx, DeviceRouter, "removeDevices", map[string]any{
		"uids":      []string{ref.UID},
		"hashcheck": ref.Hashcheck,
		"action":    "delete",
	})
}

// DetachDevice removes a device from a group, system or location organizer
// without deleting it.
func (c *Client) DetachDevice(ctx context.Context, name, organizerUID string) (*Result, error) {
	ref, err := c.ResolveDevice(ctx, name)
	if err != nil {
		return nil, err
	}
	return c.mutate(ctx, DeviceRouter, "removeDevices", map[string]any{
		"uids":      []string{ref.UID},
		"hashcheck": ref.Hashcheck,
		"action":    "remove",
		"uid":       organizerUID,
	})
}

// MoveDevice moves a device to another device class.
func (c *Client) MoveDevice(ctx context.Context, name, target string) (*Result, error) {
	ref, err := c.ResolveDevice(ctx, name)
	if err != nil {
		return nil, err
	}
	return c.mutate(ctx, DeviceRouter, "moveDevices", map[string]any{
		"uids":      []string{ref.UID},
		"hashcheck": ref.Hashcheck,
		"target":    target,
	})
}

// SetProductionState sets a device's production state, e.g. ProdStateMaintenance.
func (c *Client) SetProductionState(ctx context.Context, name string, state int) (*Result, error) {
	ref, err := c.ResolveDevice(ctx, name)
	if err != nil {
		return nil, err
	}
	return c.mutate(ctx, DeviceRouter, "setProductionState", map[string]any{
		"uids":      []string{ref.UID},
		"prodState": state,
		"hashcheck": ref.Hashcheck,
	})
}

// SetMaintenance puts a device into maintenance to suppress alerting.
func (c *Client) SetMaintenance(ctx context.Context, name string) (*Result, error) {
	return c.SetProductionState(ctx, name, ProdStateMaintenance)
}

// SetProduction puts a device back into production.
func (c *Client) SetProduction(ctx context.Context, name string) (*Result, error) {
	return c.SetProductionState(ctx, name, ProdStateProduction)
}

// RenameDevice changes a device's id.
func (c *Client) RenameDevice(ctx context.Context, name, newName string) (*Result, error) {
	ref, err := c.ResolveDevice(ctx, name)
	if err != nil {
		return nil, err
	}
	return c.mutate(ctx, DeviceRouter, "renameDevice", map[string]any{
		"uid":   ref.UID,
		"newId": newName,
	})
}

// LockOptions selects what a device lock prevents.
type LockOptions struct {
	Updates   bool
	Deletion  bool
	SendEvent bool
}

// LockDevice locks a device against updates and/or deletion.
func (c *Client) LockDevice(ctx context.Context, name string, opts LockOptions) (*Result, error) {
	ref, err := c.ResolveDevice(ctx, name)
	if err != nil {
		return nil, err
	}
	return c.mutate(ctx, DeviceRouter, "lockDevices", map[string]any{
		"uids":      []string{ref.UID},
		"hashcheck": ref.Hashcheck,
		"updates":   opts.Updates,
		"deletion":  opts.Deletion,
		"sendEvent": opts.SendEvent,
	})
}
