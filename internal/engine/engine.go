// Package engine runs the single cooperative main loop that owns the modem
// connection: one goroutine turns the transport byte stream into a channel
// of chunks, and everything else - frame decoding, the command queue and
// handshake supervisor, the device dispatcher, and every timer (command
// timeout, liveness probe, learn-mode expiry, simulated button release) -
// happens synchronously inside Run's select loop. This mirrors the
// internal/modem state machines, which are themselves lock-free and expect
// a single caller driving them.
package engine

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/evdc-project/enocean-vdc/internal/config"
	"github.com/evdc-project/enocean-vdc/internal/db"
	"github.com/evdc-project/enocean-vdc/internal/db/models"
	"github.com/evdc-project/enocean-vdc/internal/devicecache"
	"github.com/evdc-project/enocean-vdc/internal/devices"
	"github.com/evdc-project/enocean-vdc/internal/dsuid"
	"github.com/evdc-project/enocean-vdc/internal/esp3"
	"github.com/evdc-project/enocean-vdc/internal/events"
	"github.com/evdc-project/enocean-vdc/internal/metrics"
	"github.com/evdc-project/enocean-vdc/internal/modem"
	"github.com/evdc-project/enocean-vdc/internal/tracelog"
	"github.com/evdc-project/enocean-vdc/internal/transport"
	"gorm.io/gorm"
)

// reconnectDelay is how long Run waits before redialing the modem after a
// connection is lost.
const reconnectDelay = 5 * time.Second

// maintenanceInterval drives every periodic check the engine performs:
// command timeout expiry, liveness probing, learn-mode bookkeeping, and
// pending button-release telegrams. A single ticker is enough here since
// none of these need sub-100ms precision.
const maintenanceInterval = 100 * time.Millisecond

// buttonHoldDuration is how long a simulated rocker press is held before
// the automatic release telegram is sent, matching a real button's hold
// time (see internal/eep/remotecontrol.BuildRelayAction).
const buttonHoldDuration = 200 * time.Millisecond

// readChunkSize is the read buffer size for the transport reader goroutine.
const readChunkSize = 256

// reqKind labels what the single outstanding common command currently in
// the queue is for, so handleCommandResult knows how to interpret its
// response.
type reqKind int

const (
	reqNone reqKind = iota
	reqVersion
	reqIDBase
	reqLiveness
)

// triggerRequest asks the main loop to build and send the next outgoing
// telegram for one device, off of whatever goroutine calls TriggerOutgoing.
type triggerRequest struct {
	key    devices.Key
	result chan<- error
}

// Engine owns the modem connection and every piece of runtime state that
// must only be touched from its own goroutine: the command queue, the
// handshake supervisor, and pending button releases. The device registry,
// by contrast, is safe to read concurrently (see devices.Registry) so the
// status HTTP surface can read it directly.
type Engine struct {
	cfg    *config.Config
	log    *slog.Logger
	dialer transport.Dialer
	gdb    *gorm.DB
	cache  devicecache.Store
	bus    *events.Bus
	mx     *metrics.Metrics
	trace  *tracelog.Logger

	Registry   *devices.Registry
	dispatcher *devices.Dispatcher
	Learn      *devices.LearnController

	supervisor *modem.Supervisor
	queue      modem.Queue
	respCh     chan modem.Result
	reqKind    reqKind

	conn       transport.Conn
	senderBase esp3.Address
	ctx        context.Context //nolint:containedctx // scoped to the lifetime of one connection, see runConnection

	pendingRelease map[devices.Key]time.Time
	triggerCh      chan triggerRequest
}

// New builds an Engine ready for Run. cache and trace may be nil/zero
// according to their own package conventions (a nil *tracelog.Logger is a
// no-op; devicecache.New always returns a usable Store).
func New(cfg *config.Config, log *slog.Logger, dialer transport.Dialer, database *gorm.DB, cache devicecache.Store, bus *events.Bus, mx *metrics.Metrics, trace *tracelog.Logger) *Engine {
	e := &Engine{
		cfg:    cfg,
		log:    log,
		dialer: dialer,
		gdb:    database,
		cache:  cache,
		bus:    bus,
		mx:     mx,
		trace:  trace,

		Registry: devices.NewRegistry(),
		Learn:    &devices.LearnController{MinLearnDBm: cfg.LearnMode.MinLearnDBm},

		respCh:    make(chan modem.Result, 1),
		triggerCh: make(chan triggerRequest),
	}
	e.dispatcher = &devices.Dispatcher{
		Registry:  e.Registry,
		Learn:     e.Learn,
		Factory:   devices.BuildChannels,
		OnLearned: e.onLearned,
		OnChanged: e.onChanged,
	}
	return e
}

// onLearned persists a newly taught-in device and publishes its learned
// event. Wired as the Dispatcher's OnLearned hook.
func (e *Engine) onLearned(d *devices.Device) {
	d.DSUID = dsuid.ForEnoceanDevice(uint32(d.Address), d.SubDevice)
	row := models.KnownDevice{
		EnoceanAddress: uint32(d.Address),
		SubDevice:      d.SubDevice,
		EEProfile:      uint32(d.Profile),
		EEManufacturer: uint16(d.Manufacturer),
	}
	if err := db.SaveKnownDevice(e.gdb, row); err != nil {
		e.log.Error("persist learned device", slog.String("error", err.Error()))
	}
	e.mx.SetKnownDevicesTotal(float64(e.Registry.Len()))
	if err := e.bus.PublishLearned(d, time.Now()); err != nil {
		e.log.Warn("publish device-learned event", slog.String("error", err.Error()))
	}
	e.log.Info("learned new device",
		slog.String("address", fmt.Sprintf("%08X", uint32(d.Address))),
		slog.String("profile", d.Profile.String()))
}

// onChanged publishes a property-changed event for a device whose channel
// state was actually updated by the telegram it just received. Wired as
// the Dispatcher's OnChanged hook.
func (e *Engine) onChanged(d *devices.Device) {
	desc := ""
	if len(d.Channels) > 0 {
		desc = d.Channels[0].Handler.ShortDesc()
	}
	payload, err := json.Marshal(events.PropertyChangedPayload{ChannelIndex: 0, Description: desc})
	if err != nil {
		e.log.Warn("marshal property-changed payload", slog.String("error", err.Error()))
		return
	}
	if err := e.bus.Publish(events.Event{
		Kind: events.KindPropertyChanged, Address: uint32(d.Address), SubDevice: d.SubDevice,
		At: time.Now(), Payload: payload,
	}); err != nil {
		e.log.Warn("publish property-changed event", slog.String("error", err.Error()))
	}
}

// rehydrate loads every previously learned device from persistence into
// the registry at startup, so a restart does not require waiting for every
// device to be taught in again.
func (e *Engine) rehydrate() error {
	rows, err := db.LoadKnownDevices(e.gdb)
	if err != nil {
		return err
	}
	for _, row := range rows {
		profile := esp3.Profile(row.EEProfile)
		manufacturer := esp3.Manufacturer(row.EEManufacturer)
		channels, _ := devices.BuildChannels(profile, manufacturer, row.SubDevice)
		if channels == nil {
			e.log.Warn("skipping persisted device with unrecognized profile",
				slog.String("profile", profile.String()))
			continue
		}
		d := &devices.Device{
			Address:      esp3.Address(row.EnoceanAddress),
			SubDevice:    row.SubDevice,
			Profile:      profile,
			Manufacturer: manufacturer,
			DSUID:        dsuid.ForEnoceanDevice(row.EnoceanAddress, row.SubDevice),
			Channels:     channels,
		}
		e.Registry.Put(d)
	}
	e.mx.SetKnownDevicesTotal(float64(e.Registry.Len()))
	db.LogOpenResult(e.log, rows)
	return nil
}

// Run rehydrates the device registry and then dials the modem repeatedly
// until ctx is cancelled, reconnecting after reconnectDelay whenever the
// connection is lost.
func (e *Engine) Run(ctx context.Context) error {
	if err := e.rehydrate(); err != nil {
		e.log.Error("rehydrate known devices", slog.String("error", err.Error()))
	}
	for {
		if ctx.Err() != nil {
			return nil
		}
		if err := e.runConnection(ctx); err != nil {
			e.log.Error("modem connection ended", slog.String("error", err.Error()))
		}
		select {
		case <-ctx.Done():
			return nil
		case <-time.After(reconnectDelay):
		}
	}
}

// TriggerOutgoing asks the engine to build and send the next outgoing
// telegram for the device identified by key, via Device.Aggregate, and
// schedules its automatic release telegram if the device's actuator
// channel is a devices.Releaser. It is safe to call from any goroutine;
// the actual work happens on the main loop. Nothing in this core's
// read-only status HTTP surface calls this today - it exists so the
// command-assembly and press/release wiring is fully exercised end to end,
// ready for a future operator-facing control surface.
func (e *Engine) TriggerOutgoing(ctx context.Context, key devices.Key) error {
	result := make(chan error, 1)
	select {
	case e.triggerCh <- triggerRequest{key: key, result: result}:
	case <-ctx.Done():
		return fmt.Errorf("engine: trigger outgoing: %w", ctx.Err())
	}
	select {
	case err := <-result:
		return err
	case <-ctx.Done():
		return fmt.Errorf("engine: trigger outgoing: %w", ctx.Err())
	}
}

// runConnection dials the modem once, runs the handshake, and then
// services the main select loop until the connection fails or ctx is
// cancelled.
func (e *Engine) runConnection(ctx context.Context) error {
	conn, err := e.dialer.Dial(ctx, e.cfg.Modem.Device)
	if err != nil {
		return fmt.Errorf("engine: dial modem: %w", err)
	}
	defer conn.Close()

	e.ctx = ctx
	e.conn = conn
	e.queue.Reset()
	e.supervisor = modem.NewSupervisor(e.cfg.Modem.ResetPin != "")
	e.pendingRelease = make(map[devices.Key]time.Time)

	rxCh, errCh := e.startReader(ctx, conn)

	e.sendCommand(e.supervisor.Start(), reqVersion)

	ticker := time.NewTicker(maintenanceInterval)
	defer ticker.Stop()

	var buf []byte
	for {
		select {
		case <-ctx.Done():
			return nil
		case err := <-errCh:
			return err
		case chunk := <-rxCh:
			buf = append(buf, chunk...)
			buf = e.consumeFrames(buf)
		case res := <-e.respCh:
			if e.handleCommandResult(res); e.supervisor.NeedsReset() {
				return fmt.Errorf("engine: %w", modem.ErrHandshakeFailed)
			}
		case now := <-ticker.C:
			e.onTick(now)
			if e.supervisor.NeedsReset() {
				return fmt.Errorf("engine: %w", modem.ErrHandshakeFailed)
			}
		case req := <-e.triggerCh:
			req.result <- e.doTriggerOutgoing(req.key)
		}
	}
}

// startReader launches the single goroutine allowed to call conn.Read,
// forwarding chunks (and the terminal read error) over channels so the
// main loop never blocks on I/O itself.
func (e *Engine) startReader(ctx context.Context, conn transport.Conn) (<-chan []byte, <-chan error) {
	out := make(chan []byte, 16)
	errc := make(chan error, 1)
	go func() {
		buf := make([]byte, readChunkSize)
		for {
			n, err := conn.Read(buf)
			if n > 0 {
				chunk := make([]byte, n)
				copy(chunk, buf[:n])
				select {
				case out <- chunk:
				case <-ctx.Done():
					return
				}
			}
			if err != nil {
				select {
				case errc <- fmt.Errorf("engine: read modem: %w", err):
				default:
				}
				return
			}
		}
	}()
	return out, errc
}

// consumeFrames decodes as many complete frames as buf holds, dispatching
// each one, and returns the undecoded remainder.
func (e *Engine) consumeFrames(buf []byte) []byte {
	for {
		f, n, err := esp3.Decode(buf)
		switch {
		case errors.Is(err, esp3.ErrShortFrame):
			if n == 0 {
				return buf
			}
			buf = buf[n:] // skipped leading garbage before the sync byte
		case errors.Is(err, esp3.ErrCRC8Header), errors.Is(err, esp3.ErrCRC8Data):
			e.trace.Frame(tracelog.DirectionRX, buf[:n])
			e.mx.RecordDecodeError()
			buf = buf[n:]
		case err != nil:
			return buf
		default:
			e.trace.Frame(tracelog.DirectionRX, buf[:n])
			buf = buf[n:]
			e.handleFrame(f)
		}
	}
}

// handleFrame routes one decoded frame to the command queue (responses) or
// the device dispatcher (radio telegrams).
func (e *Engine) handleFrame(f esp3.Frame) {
	switch f.Type {
	case esp3.PacketTypeResponse:
		e.queue.Complete(f)
	case esp3.PacketTypeRadio, esp3.PacketTypeRadioSubTel:
		e.handleRadio(f)
	default:
		// Events, smart ack, and remote management frames are not part of
		// this core's scope; ignored rather than logged to avoid noise on
		// a shared bus with other applications driving the same modem.
	}
}

// handleRadio decodes f as a radio telegram, dispatches it, refreshes the
// device's cached runtime state, and re-aggregates an outgoing telegram for
// devices that need one resent on every receive (the A5-20-01 valve).
func (e *Engine) handleRadio(f esp3.Frame) {
	t, err := esp3.AsRadioTelegram(f)
	if err != nil {
		e.mx.RecordDecodeError()
		return
	}
	e.mx.RecordReceived(t.RORG().String())

	d := e.dispatcher.Dispatch(t)
	if d == nil {
		return
	}
	if err := devicecache.Touch(e.ctx, e.cache, d.KeyOf(), t.DBm(), time.Now()); err != nil {
		e.log.Warn("update device runtime cache", slog.String("error", err.Error()))
	}
	if d.WantsAggregateAfterReceive() {
		if frame, ok := d.Aggregate(e.senderBase); ok {
			e.sendRadio(frame)
		}
	}
}

// doTriggerOutgoing is the main-loop-local implementation backing
// TriggerOutgoing.
func (e *Engine) doTriggerOutgoing(key devices.Key) error {
	d, ok := e.Registry.Get(key)
	if !ok {
		return fmt.Errorf("engine: unknown device %08X/%d", uint32(key.Address), key.SubDevice)
	}
	frame, ok := d.Aggregate(e.senderBase)
	if !ok {
		return fmt.Errorf("engine: device %08X/%d has no actuator channel", uint32(key.Address), key.SubDevice)
	}
	e.sendRadio(frame)
	if d.NeedsRelease() {
		e.pendingRelease[key] = time.Now().Add(buttonHoldDuration)
	}
	return nil
}

// sendRadio writes a pre-built outgoing radio frame to the modem and
// records it in the sent-telegram metric.
func (e *Engine) sendRadio(f esp3.Frame) {
	e.writeFrame(f)
	if len(f.Data) > 0 {
		e.mx.RecordSent(esp3.RORG(f.Data[0]).String())
	}
}

// writeFrame serializes and writes f to the modem connection, tracing it
// first so a write failure still leaves a record of what was attempted.
func (e *Engine) writeFrame(f esp3.Frame) {
	raw := f.Encode()
	e.trace.Frame(tracelog.DirectionTX, raw)
	if _, err := e.conn.Write(raw); err != nil {
		e.log.Error("write to modem", slog.String("error", err.Error()))
	}
}

// sendCommand pushes a common-command frame onto the queue, tags it with
// kind so handleCommandResult knows how to interpret the response, and
// writes it immediately since the queue is always empty before a new
// command is pushed (the engine never has more than one common command in
// flight).
func (e *Engine) sendCommand(f esp3.Frame, kind reqKind) {
	e.reqKind = kind
	e.queue.Push(&modem.Command{Frame: f, Done: e.respCh})
	if out := e.queue.Outstanding(time.Now()); out != nil {
		e.writeFrame(out.Frame)
	}
}

// handleCommandResult interprets one completed (or timed-out) common
// command result according to what it was sent for, advancing the
// handshake supervisor or the liveness probe.
func (e *Engine) handleCommandResult(res modem.Result) {
	switch e.reqKind {
	case reqVersion:
		next, ok, retry := e.supervisor.VersionResponse(res.Response, res.Err)
		switch {
		case ok:
			e.sendCommand(next, reqIDBase)
		case retry:
			e.sendCommand(next, reqVersion)
		}
	case reqIDBase:
		next, ok, retry := e.supervisor.IDBaseResponse(res.Response, res.Err)
		switch {
		case ok:
			e.onModemReady()
		case retry:
			e.sendCommand(next, reqVersion)
		}
	case reqLiveness:
		if res.Err != nil {
			e.supervisor.LivenessProbeFailed()
		}
	case reqNone:
	}
}

// onModemReady records the modem's announced (or overridden) base address,
// used as the sender address for every outgoing telegram this core builds.
func (e *Engine) onModemReady() {
	e.senderBase = e.supervisor.Identity().IDBase
	if e.cfg.Modem.IDBaseOverride != 0 {
		e.senderBase = esp3.Address(e.cfg.Modem.IDBaseOverride)
	}
	e.log.Info("modem ready", slog.String("idBase", fmt.Sprintf("%08X", uint32(e.senderBase))))
}

// onTick runs every maintenanceInterval: it expires a timed-out common
// command, issues a liveness probe if one is due, reports the learn-mode
// gauge, and fires any due button-release telegrams.
func (e *Engine) onTick(now time.Time) {
	e.queue.ExpireTimeouts(now)

	if e.supervisor.State() == modem.StateReady && e.queue.Len() == 0 && e.supervisor.DueForLivenessProbe(now) {
		e.sendCommand(esp3.Frame{Type: esp3.PacketTypeCommonCommand, Data: []byte{byte(esp3.CoRdVersion)}}, reqLiveness)
	}

	e.mx.SetLearnModeActive(e.Learn.Active())
	e.processReleases(now)
}

// processReleases sends the release telegram for any pending simulated
// button press whose hold time has elapsed.
func (e *Engine) processReleases(now time.Time) {
	for key, deadline := range e.pendingRelease {
		if now.Before(deadline) {
			continue
		}
		delete(e.pendingRelease, key)
		d, ok := e.Registry.Get(key)
		if !ok {
			continue
		}
		if frame, ok := d.Release(e.senderBase); ok {
			e.sendRadio(frame)
		}
	}
}
