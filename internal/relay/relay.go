package relay

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/nerrad567/zenoss-client/internal/audit"
	"github.com/nerrad567/zenoss-client/internal/infrastructure/influxdb"
	"github.com/nerrad567/zenoss-client/internal/infrastructure/mqtt"
	"github.com/nerrad567/zenoss-client/pkg/zenoss"
)

// Defaults applied by New.
const (
	DefaultInterval = 30 * time.Second
	DefaultLimit    = 100

	// commandTimeout bounds one event command round trip.
	commandTimeout = 30 * time.Second
)

// Source is the part of zenoss.Client the relay uses.
type Source interface {
	GetEvents(ctx context.Context, q zenoss.EventQuery) (*zenoss.EventList, error)
	ListDevices(ctx context.Context, q zenoss.DeviceQuery) (*zenoss.DeviceList, error)
	ChangeEventState(ctx context.Context, evid string, action zenoss.EventAction) (*zenoss.Result, error)
}

// Publisher sends relayed events. Implemented by *mqtt.Client.
type Publisher interface {
	PublishJSON(topic string, v any, retained bool) error
}

// Subscriber receives event commands. Implemented by *mqtt.Client.
type Subscriber interface {
	Subscribe(topic string, qos byte, handler mqtt.MessageHandler) error
}

// Recorder stores measurements. Implemented by *influxdb.Client.
type Recorder interface {
	WriteEvent(ev influxdb.EventSample)
	WriteEventSummary(counts map[string]int, at time.Time)
	WriteDeviceCount(total int, at time.Time)
}

// Metrics counts relay activity. Implemented by *metrics.Metrics.
type Metrics interface {
	PollCompleted(err error)
	EventsRelayed(n int)
	SetOpenEvents(counts map[string]int)
	CommandHandled(action string, err error)
}

// Broadcaster pushes messages to live stream clients. Implemented by *api.Hub.
type Broadcaster interface {
	Broadcast(channel string, payload any)
}

// Stream channels.
const (
	ChannelEventRelayed = "event.relayed"
	ChannelEventCommand = "event.command"
	ChannelOpenEvents   = "events.open"
)

// Auditor records event commands. Implemented by audit.Repository.
type Auditor interface {
	Create(ctx context.Context, entry *audit.Entry) error
}

// Logger interface for optional logging support.
// Compatible with logging.Logger and slog.Logger.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

// Config wires a Relay. Only Source is required; every other collaborator
// is skipped when nil.
type Config struct {
	Source Source

	Publisher  Publisher
	Subscriber Subscriber
	Topics     mqtt.Topics
	QoS        byte

	Recorder    Recorder
	Metrics     Metrics
	Auditor     Auditor
	Broadcaster Broadcaster

	// Interval between polls. Default: 30 seconds.
	Interval time.Duration

	// Limit is the events page size per poll. Default: 100.
	Limit int

	// SeenCapacity bounds the remembered evids. Default: 10000.
	SeenCapacity int

	// Username and Server are copied into audit entries and messages.
	Username string
	Server   string
}

// Relay polls Zenoss for events and fans them out.
//
// Thread Safety:
//   - PollOnce and HandleCommand may be called concurrently.
//   - Start and Stop must each be called at most once.
type Relay struct {
	cfg  Config
	seen *seenSet

	// ctx is the Start context; commands run under it.
	ctx    context.Context
	cancel context.CancelFunc

	wg       sync.WaitGroup
	stopOnce sync.Once

	logger   Logger
	loggerMu sync.RWMutex
}

// New creates a relay. Call Start to begin polling.
//
// Returns:
//   - *Relay: Ready to start
//   - error: If cfg.Source is nil
func New(cfg Config) (*Relay, error) {
	if cfg.Source == nil {
		return nil, errors.New("relay: source is required")
	}
	if cfg.Interval <= 0 {
		cfg.Interval = DefaultInterval
	}
	if cfg.Limit <= 0 {
		cfg.Limit = DefaultLimit
	}
	if cfg.Topics.Prefix() == "" {
		cfg.Topics = mqtt.NewTopics("")
	}

	ctx, cancel := context.WithCancel(context.Background())
	return &Relay{
		cfg:    cfg,
		seen:   newSeenSet(cfg.SeenCapacity),
		ctx:    ctx,
		cancel: cancel,
	}, nil
}

// SetLogger sets the logger for this relay.
func (r *Relay) SetLogger(logger Logger) {
	r.loggerMu.Lock()
	r.logger = logger
	r.loggerMu.Unlock()
}

func (r *Relay) getLogger() Logger {
	r.loggerMu.RLock()
	defer r.loggerMu.RUnlock()
	return r.logger
}

// Start subscribes to event commands and begins polling.
// The first poll runs immediately.
//
// Returns:
//   - error: If the command subscription fails
func (r *Relay) Start(ctx context.Context) error {
	if r.cfg.Subscriber != nil {
		if err := r.cfg.Subscriber.Subscribe(r.cfg.Topics.AllEventCommands(), r.cfg.QoS, r.HandleCommand); err != nil {
			return fmt.Errorf("subscribing to event commands: %w", err)
		}
	}

	// Polls run until either ctx or Stop cancels them.
	loopCtx, cancel := context.WithCancel(ctx)
	stopAfter := context.AfterFunc(r.ctx, cancel)

	r.wg.Add(1)
	go func() {
		defer cancel()
		defer stopAfter()
		r.pollLoop(loopCtx)
	}()
	return nil
}

// Stop ends polling and cancels in-flight polls and commands.
// Safe to call multiple times.
func (r *Relay) Stop() {
	r.stopOnce.Do(func() {
		r.cancel()
		r.wg.Wait()
	})
}

func (r *Relay) pollLoop(ctx context.Context) {
	defer r.wg.Done()

	ticker := time.NewTicker(r.cfg.Interval)
	defer ticker.Stop()

	r.poll(ctx)

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			r.poll(ctx)
		}
	}
}

func (r *Relay) poll(ctx context.Context) {
	n, err := r.PollOnce(ctx)
	if err != nil {
		if logger := r.getLogger(); logger != nil {
			logger.Warn("relay poll failed", "error", err)
		}
		return
	}
	if n > 0 {
		if logger := r.getLogger(); logger != nil {
			logger.Info("relayed events", "count", n)
		}
	}
}

// PollOnce queries open events once and forwards the unseen ones.
//
// Returns:
//   - int: Number of events forwarded
//   - error: If the events query fails; publish and device count failures
//     are logged but not returned. An event whose publish failed is not
//     remembered, so the next poll forwards it again.
func (r *Relay) PollOnce(ctx context.Context) (int, error) {
	now := time.Now()

	list, err := r.cfg.Source.GetEvents(ctx, zenoss.EventQuery{Limit: r.cfg.Limit})
	if err != nil {
		r.pollCompleted(err)
		return 0, fmt.Errorf("querying events: %w", err)
	}

	counts := make(map[string]int)
	relayed := 0
	for _, ev := range list.Events {
		counts[string(zenoss.SeverityName(ev.Severity))]++

		if ev.EvID == "" || r.seen.contains(ev.EvID) {
			continue
		}
		if err := r.forward(ev); err != nil {
			if logger := r.getLogger(); logger != nil {
				logger.Warn("publishing event failed", "evid", ev.EvID, "error", err)
			}
			continue
		}
		r.seen.add(ev.EvID)
		relayed++
	}

	if r.cfg.Recorder != nil {
		r.cfg.Recorder.WriteEventSummary(counts, now)
		r.recordDeviceCount(ctx, now)
	}
	if r.cfg.Metrics != nil {
		r.cfg.Metrics.SetOpenEvents(counts)
		r.cfg.Metrics.EventsRelayed(relayed)
	}
	if r.cfg.Broadcaster != nil {
		r.cfg.Broadcaster.Broadcast(ChannelOpenEvents, counts)
	}
	r.pollCompleted(nil)

	return relayed, nil
}

func (r *Relay) pollCompleted(err error) {
	if r.cfg.Metrics != nil {
		r.cfg.Metrics.PollCompleted(err)
	}
}

// forward publishes one new event and records it. Nothing is broadcast or
// recorded when the publish fails.
func (r *Relay) forward(ev zenoss.Event) error {
	msg := newEventMessage(ev, r.cfg.Server)

	if r.cfg.Publisher != nil {
		topic := r.cfg.Topics.Event(msg.Device, msg.EvID)
		if err := r.cfg.Publisher.PublishJSON(topic, msg, false); err != nil {
			return fmt.Errorf("publishing to %s: %w", topic, err)
		}
	}

	if r.cfg.Broadcaster != nil {
		r.cfg.Broadcaster.Broadcast(ChannelEventRelayed, msg)
	}

	if r.cfg.Recorder != nil {
		r.cfg.Recorder.WriteEvent(influxdb.EventSample{
			EvID:       msg.EvID,
			Device:     msg.Device,
			Component:  msg.Component,
			EventClass: msg.EventClass,
			Severity:   msg.Severity,
			Count:      msg.Count,
			Summary:    msg.Summary,
		})
	}
	return nil
}

func (r *Relay) recordDeviceCount(ctx context.Context, at time.Time) {
	devices, err := r.cfg.Source.ListDevices(ctx, zenoss.DeviceQuery{Limit: 1})
	if err != nil {
		if logger := r.getLogger(); logger != nil {
			logger.Warn("counting devices failed", "error", err)
		}
		return
	}
	r.cfg.Recorder.WriteDeviceCount(devices.TotalCount, at)
}

// Seen returns the number of evids currently remembered.
func (r *Relay) Seen() int {
	return r.seen.len()
}
