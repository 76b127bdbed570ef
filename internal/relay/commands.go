package relay

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/nerrad567/zenoss-client/internal/audit"
	"github.com/nerrad567/zenoss-client/pkg/zenoss"
)

// HandleCommand applies an event command received on an event command topic.
// It has the mqtt.MessageHandler signature.
//
// Returns:
//   - error: zenoss.ErrValidation for a malformed topic, payload or action,
//     otherwise the error from ChangeEventState
func (r *Relay) HandleCommand(topic string, payload []byte) error {
	evid, ok := r.cfg.Topics.ParseEventCommand(topic)
	if !ok {
		return fmt.Errorf("%w: not an event command topic: %q", zenoss.ErrValidation, topic)
	}

	var cmd CommandMessage
	if err := json.Unmarshal(payload, &cmd); err != nil {
		r.commandHandled("invalid", err)
		return fmt.Errorf("%w: command payload: %w", zenoss.ErrValidation, err)
	}
	action := zenoss.EventAction(cmd.Action)
	if !action.Valid() {
		err := fmt.Errorf("%w: event action %q", zenoss.ErrValidation, cmd.Action)
		r.commandHandled("invalid", err)
		return err
	}

	ctx, cancel := context.WithTimeout(r.ctx, commandTimeout)
	defer cancel()

	_, err := r.cfg.Source.ChangeEventState(ctx, evid, action)
	r.commandHandled(string(action), err)
	if err != nil {
		return fmt.Errorf("event %s %s: %w", evid, action, err)
	}

	if logger := r.getLogger(); logger != nil {
		logger.Info("event command applied", "evid", evid, "action", action)
	}
	r.audit(ctx, evid, action)
	if r.cfg.Broadcaster != nil {
		r.cfg.Broadcaster.Broadcast(ChannelEventCommand, map[string]string{
			"evid":   evid,
			"action": string(action),
		})
	}
	return nil
}

func (r *Relay) commandHandled(action string, err error) {
	if r.cfg.Metrics != nil {
		r.cfg.Metrics.CommandHandled(action, err)
	}
}

func (r *Relay) audit(ctx context.Context, evid string, action zenoss.EventAction) {
	if r.cfg.Auditor == nil {
		return
	}
	entry := &audit.Entry{
		Action:   "event." + string(action),
		Router:   zenoss.EventsRouter,
		Method:   string(action),
		Target:   evid,
		Username: r.cfg.Username,
		Server:   r.cfg.Server,
		Details:  map[string]any{"source": "mqtt"},
	}
	if err := r.cfg.Auditor.Create(ctx, entry); err != nil {
		if logger := r.getLogger(); logger != nil {
			logger.Warn("audit record failed", "evid", evid, "error", err)
		}
	}
}
