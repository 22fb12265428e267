package orchestrator

import (
	"context"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

var log = logrus.WithField("package", "orchestrator")

// Hooks are invoked on the lifecycle transitions that have side effects
// outside the state machine itself. Implementations must not block.
type Hooks interface {
	// FlushForPeer is called on entering READY to release any outbox
	// entries queued for this peer.
	FlushForPeer(peer string)
	// StartQueueSync is called on entering READY to kick off the queue
	// reconciliation exchange.
	StartQueueSync(peer string)
	// ReplayBuffered is called on entering READY to re-process any
	// inbound messages buffered while the handshake was in flight.
	ReplayBuffered(peer string)
	// Disconnected is called once cleanup after DISCONNECTING completes.
	Disconnected(peer string, cause error)
}

// Orchestrator drives one link's connection lifecycle. It is not safe to
// reuse after Stop; create a new Orchestrator for a new connection
// attempt against the same peer.
type Orchestrator struct {
	peer    string
	passive bool
	hooks   Hooks

	mu      sync.Mutex
	state   State
	running bool

	events chan Event
	cancel context.CancelFunc
	done   chan struct{}
}

// New creates an Orchestrator for peer, starting in DISCONNECTED.
// passive selects ADVERTISING over SCANNING on Start, for links where
// this node waits to be discovered rather than discovering actively.
func New(peer string, passive bool, hooks Hooks) *Orchestrator {
	return &Orchestrator{
		peer:    peer,
		passive: passive,
		hooks:   hooks,
		state:   StateDisconnected,
		events:  make(chan Event, 8),
	}
}

// State returns the current state.
func (o *Orchestrator) State() State {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.state
}

// Start begins driving the state machine in a background goroutine.
func (o *Orchestrator) Start(ctx context.Context) error {
	o.mu.Lock()
	if o.running {
		o.mu.Unlock()
		return ErrAlreadyRunning
	}
	o.running = true
	runCtx, cancel := context.WithCancel(ctx)
	o.cancel = cancel
	o.done = make(chan struct{})
	o.mu.Unlock()

	go o.run(runCtx)
	o.Send(Event{Kind: EventStart})
	return nil
}

// Stop cancels the driving goroutine and waits for it to exit.
func (o *Orchestrator) Stop() {
	o.mu.Lock()
	cancel := o.cancel
	done := o.done
	o.mu.Unlock()
	if cancel != nil {
		cancel()
	}
	if done != nil {
		<-done
	}
}

// Send delivers an event to the state machine. It never blocks
// indefinitely: a full event buffer drops the event and logs, since
// EventError/EventTimeout are also reachable via the per-state timer
// and cleanup will still occur.
func (o *Orchestrator) Send(ev Event) {
	select {
	case o.events <- ev:
	default:
		log.WithFields(logrus.Fields{"peer": o.peer, "event": ev.Kind}).Warn("orchestrator event buffer full, dropping")
	}
}

func (o *Orchestrator) run(ctx context.Context) {
	defer close(o.done)
	var timer *time.Timer
	var timerC <-chan time.Time

	armTimer := func(s State) {
		if timer != nil {
			timer.Stop()
			timer = nil
			timerC = nil
		}
		if d := timeoutFor(s); d > 0 {
			timer = time.NewTimer(d)
			timerC = timer.C
		}
	}

	for {
		select {
		case <-ctx.Done():
			o.settleDisconnect(ctx.Err())
			return

		case <-timerC:
			o.applyLocked(EventTimeout, ErrStateTimeout, armTimer)
			if o.State() == StateDisconnected {
				return
			}

		case ev, ok := <-o.events:
			if !ok {
				return
			}
			o.applyLocked(ev.Kind, ev.Err, armTimer)
			if o.State() == StateDisconnected && ev.Kind != EventStart {
				return
			}
		}
	}
}

// applyLocked validates and performs one transition, arming the next
// state's timer and firing any entry hooks.
func (o *Orchestrator) applyLocked(kind EventKind, cause error, armTimer func(State)) {
	o.mu.Lock()
	cur := o.state

	if cur == StateDisconnected && kind == EventStart {
		target := StateScanning
		if o.passive {
			target = StateAdvertising
		}
		o.state = target
		o.mu.Unlock()
		armTimer(target)
		log.WithFields(logrus.Fields{"peer": o.peer, "state": target}).Debug("orchestrator entered state")
		return
	}

	nextState, ok := next(cur, kind)
	if !ok {
		o.mu.Unlock()
		log.WithFields(logrus.Fields{"peer": o.peer, "state": cur, "event": kind}).Debug("orchestrator rejected invalid transition")
		return
	}
	o.state = nextState
	o.mu.Unlock()

	armTimer(nextState)
	log.WithFields(logrus.Fields{"peer": o.peer, "state": nextState}).Debug("orchestrator entered state")

	switch nextState {
	case StateReady:
		if o.hooks != nil {
			o.hooks.FlushForPeer(o.peer)
			o.hooks.StartQueueSync(o.peer)
			o.hooks.ReplayBuffered(o.peer)
		}
	case StateDisconnecting:
		o.settleDisconnect(cause)
	}
}

// settleDisconnect moves DISCONNECTING to DISCONNECTED and fires the
// Disconnected hook. Safe to call more than once; only the first call
// after leaving DISCONNECTED has an effect.
func (o *Orchestrator) settleDisconnect(cause error) {
	o.mu.Lock()
	if o.state == StateDisconnected {
		o.mu.Unlock()
		return
	}
	o.state = StateDisconnected
	o.mu.Unlock()

	log.WithFields(logrus.Fields{"peer": o.peer, "cause": cause}).Info("orchestrator link disconnected")
	if o.hooks != nil {
		o.hooks.Disconnected(o.peer, cause)
	}
}
