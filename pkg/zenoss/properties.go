package zenoss

import (
	"context"
	"encoding/json"
)

// ZenProperty is a configuration property of an object.
type ZenProperty struct {
	ID    string          `json:"id"`
	Type  string          `json:"type,omitempty"`
	Path  string          `json:"path,omitempty"`
	Value json.RawMessage `json:"value"`
}

// GetZenProperties lists the properties defined on or inherited by an object.
func (c *Client) GetZenProperties(ctx context.Context, uid string) ([]ZenProperty, error) {
	var res struct {
		Data []ZenProperty `json:"data"`
	}
	if err := c.call(ctx, PropertiesRouter, "getZenProperties", &res, map[string]any{"uid": uid}); err != nil {
		return nil, err
	}
	return res.Data, nil
}

// SetZenProperty sets a property on an object.
func (c *Client) SetZenProperty(ctx context.Context, uid, name string, value any) (*Result, error) {
	return c.mutate(ctx, PropertiesRouter, "setZenProperty", map[string]any{
		"uid":       uid,
		"zProperty": name,
		"value":     value,
	})
}

// Manufacturer is a hardware or software vendor known to the server.
type Manufacturer struct {
	ID   string `json:"id"`
	Path string `json:"path,omitempty"`
}

// GetManufacturers lists the manufacturers.
func (c *Client) GetManufacturers(ctx context.Context) ([]Manufacturer, error) {
	var res struct {
		Data []Manufacturer `json:"data"`
	}
	if err := c.call(ctx, ManufacturersRouter, "getManufacturerList", &res); err != nil {
		return nil, err
	}
	return res.Data, nil
}
