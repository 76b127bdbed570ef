package zenoss

import (
	"context"
	"fmt"
)

// defaultNotificationAction is the delivery action of new notifications.
const defaultNotificationAction = "email"

// Trigger is an event trigger rule.
type Trigger struct {
	UUID    string `json:"uuid"`
	Name    string `json:"name"`
	Enabled bool   `json:"enabled"`
}

// Notification delivers events matched by triggers.
type Notification struct {
	UID     string `json:"uid"`
	ID      string `json:"id"`
	Action  string `json:"action"`
	Enabled bool   `json:"enabled"`
}

// GetTriggers lists the trigger rules.
func (c *Client) GetTriggers(ctx context.Context) ([]Trigger, error) {
	var res struct {
		Data []Trigger `json:"data"`
	}
	if err := c.call(ctx, TriggersRouter, "getTriggers", &res); err != nil {
		return nil, err
	}
	return res.Data, nil
}

// FindTrigger returns the trigger with the given name, or ErrNotFound.
func (c *Client) FindTrigger(ctx context.Context, name string) (*Trigger, error) {
	triggers, err := c.GetTriggers(ctx)
	if err != nil {
		return nil, err
	}
	for i := range triggers {
		if triggers[i].Name == name {
			return &triggers[i], nil
		}
	}
	return nil, fmt.Errorf("%w: trigger %q", ErrNotFound, name)
}

// AddTrigger creates an empty trigger rule.
func (c *Client) AddTrigger(ctx context.Context, name string) (*Result, error) {
	return c.mutate(ctx, TriggersRouter, "addTrigger", map[string]any{"newId": name})
}

// RemoveTrigger deletes a trigger rule by name.
func (c *Client) RemoveTrigger(ctx context.Context, name string) (*Result, error) {
	trigger, err := c.FindTrigger(ctx, name)
	if err != nil {
		return nil, err
	}
	return c.mutate(ctx, TriggersRouter, "removeTrigger", map[string]any{"uuid": trigger.UUID})
}

// GetNotifications lists the notifications.
func (c *Client) GetNotifications(ctx context.Context) ([]Notification, error) {
	var res struct {
		Data []Notification `json:"data"`
	}
	if err := c.call(ctx, TriggersRouter, "getNotifications", &res); err != nil {
		return nil, err
	}
	return res.Data, nil
}

// FindNotification returns the notification with the given id, or ErrNotFound.
func (c *Client) FindNotification(ctx context.Context, id string) (*Notification, error) {
	notifications, err := c.GetNotifications(ctx)
	if err != nil {
		return nil, err
	}
	for i := range notifications {
		if notifications[i].ID == id {
			return &notifications[i], nil
		}
	}
	return nil, fmt.Errorf("%w: notification %q", ErrNotFound, id)
}

// AddNotification creates a notification. An empty action means "email".
func (c *Client) AddNotification(ctx context.Context, id, action string) (*Result, error) {
	if action == "" {
		action = defaultNotificationAction
	}
	return c.mutate(ctx, TriggersRouter, "addNotification", map[string]any{
		"newId":  id,
		"action": action,
	})
}

// RemoveNotification deletes a notification by id.
func (c *Client) RemoveNotification(ctx context.Context, id string) (*Result, error) {
	notification, err := c.FindNotification(ctx, id)
	if err != nil {
		return nil, err
	}
	return c.mutate(ctx, TriggersRouter, "removeNotification", map[string]any{"uid": notification.UID})
}
