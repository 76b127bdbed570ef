package zenoss

import "context"

// Organizer is a location, group or system node.
type Organizer struct {
	Name string `json:"name"`
	UID  string `json:"uid,omitempty"`
}

// GetLocations lists the location organizers.
func (c *Client) GetLocations(ctx context.Context) ([]Organizer, error) {
	var res struct {
		Locations []Organizer `json:"locations"`
	}
	if err := c.call(ctx, DeviceRouter, "getLocations", &res); err != nil {
		return nil, err
	}
	return res.Locations, nil
}

// GetGroups lists the group organizers.
func (c *Client) GetGroups(ctx context.Context) ([]Organizer, error) {
	var res struct {
		Groups []Organizer `json:"groups"`
	}
	if err := c.call(ctx, DeviceRouter, "getGroups", &res); err != nil {
		return nil, err
	}
	return res.Groups, nil
}

// AddLocation creates a location organizer below LocationsRoot.
func (c *Client) AddLocation(ctx context.Context, name string) (*Result, error) {
	return c.addOrganizer(ctx, LocationsRoot, name)
}

// AddGroup creates a group organizer below GroupsRoot.
func (c *Client) AddGroup(ctx context.Context, name string) (*Result, error) {
	return c.addOrganizer(ctx, GroupsRoot, name)
}

func (c *Client) addOrganizer(ctx context.Context, contextUID, name string) (*Result, error) {
	return c.mutate(ctx, DeviceRouter, "addNode", map[string]any{
		"type":       "organizer",
		"contextUid": contextUID,
		"id":         name,
	})
}

// DeleteOrganizer deletes an organizer node by uid.
func (c *Client) DeleteOrganizer(ctx context.Context, uid string) (*Result, error) {
	return c.mutate(ctx, DeviceRouter, "deleteNode", map[string]any{"uid": uid})
}
