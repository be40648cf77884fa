// Package fm implements the Fault Manager: severity-bounded event
// queueing (owned by pkg/itcom) plus the staged, interruptible per-tick
// processor described in spec §4.2 that increments counters, fires
// notifications, writes the rotating event log, and retires processed
// events.
package fm

import (
	"io"
	"time"

	"github.com/pion/logging"
	"github.com/vsi-core/interlock/pkg/faultids"
	"github.com/vsi-core/interlock/pkg/itcom"
)

// StageBudget is the wall-clock ceiling for running every stage of one
// event to completion (spec §4.2, §5: "5-second wall-clock ceiling").
// Exceeding it leaves processingStage at whatever was reached; the next
// Tick resumes there.
const StageBudget = 5 * time.Second

// NotifyFunc delivers Stage1's notification side effect. FM only knows
// the tagged variant (spec §9: NotifySM / NotifyExternalSystem / None);
// actually reaching the state machine or the VAM connection is the
// caller's wiring (fm intentionally doesn't import icm, to keep the
// dependency direction ICM/FM -> itcom only).
type NotifyFunc func(ev itcom.ErrorEvent, notification faultids.Notification)

// Config configures a new FM.
type Config struct {
	State  *itcom.ITCOM
	Log    logging.LeveledLogger
	Notify NotifyFunc

	// PersistPath is where the processing-flag/current-event record is
	// written between stages (spec §4.2 "Persistence"). Empty disables
	// persistence (tests that don't care about crash recovery).
	PersistPath string

	// EventLog receives every formatted log line Stage2 produces. Pass a
	// *Rotator for the real rotating-file behavior (spec §4.2, §6); any
	// io.Writer works for tests.
	EventLog io.Writer

	// Now overrides the clock source; nil uses time.Now.
	Now func() time.Time
}

// FM is the Fault Manager's staged per-tick event processor.
type FM struct {
	state  *itcom.ITCOM
	log    logging.LeveledLogger
	notify NotifyFunc

	persistPath string
	eventLog    io.Writer
	now         func() time.Time

	stage         ProcessingStage
	current       itcom.ErrorEvent
	stageDeadline time.Time
	yield         chan struct{}
}

// New constructs an FM and, if cfg.PersistPath names an existing
// persistence record, restores the facade's processing state from it
// (spec §4.2 "Persistence": "on startup it is read; if the flag is set,
// the queue is cleared, counters reset, and the persisted event is
// re-enqueued so Stage0 can start fresh for it").
func New(cfg Config) (*FM, error) {
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	if cfg.Log == nil {
		cfg.Log = logging.NewDefaultLoggerFactory().NewLogger("fm")
	}
	m := &FM{
		state: cfg.State, log: cfg.Log, notify: cfg.Notify,
		persistPath: cfg.PersistPath, eventLog: cfg.EventLog, now: cfg.Now,
		stage: StageIdle, yield: make(chan struct{}, 1),
	}

	if m.persistPath != "" {
		rec, err := itcom.ReadRecordFile(m.persistPath)
		if err != nil {
			return nil, err
		}
		m.state.RestoreFromPersistence(rec)
	}
	return m, nil
}

// SignalYield requests that the in-flight Tick (or the next one) return
// as soon as it finishes its current stage, preserving processingStage
// for the following tick (spec §5 "thread-level yield").
func (m *FM) SignalYield() {
	select {
	case m.yield <- struct{}{}:
	default:
	}
}

// Stage reports the FM's current processing-stage position, for tests
// and diagnostics.
func (m *FM) Stage() ProcessingStage {
	return m.stage
}

func (m *FM) persist() {
	if m.persistPath == "" {
		return
	}
	rec := m.state.PersistenceSnapshot()
	if err := itcom.WriteRecordFile(m.persistPath, rec); err != nil {
		m.log.Errorf("fm: persist event_data.bin: %v", err)
	}
}

func (m *FM) writeLog(line string) {
	if m.eventLog == nil {
		return
	}
	if _, err := io.WriteString(m.eventLog, line); err != nil {
		m.log.Errorf("fm: event log write: %v", err)
	}
}

// Tick runs one FM scheduler iteration (spec §4.2 "Per-tick processing").
// If idle, it picks up the head event (if any) and begins processing;
// otherwise it resumes from the stage left by a prior yield or budget
// timeout. It runs stages until the event finishes, a yield signal
// arrives, or the 5-second wall-clock budget for this event is
// exhausted, persisting the current event after every stage so an
// interruption is always resumable.
func (m *FM) Tick() {
	if m.stage == StageIdle {
		ev, ok := m.state.PeekHeadEvent()
		if !ok {
			return
		}
		m.current = ev
		m.state.BeginProcessing(ev)
		m.stageDeadline = m.now().Add(StageBudget)
		m.persist()
		m.log.Infof("%s", specialEventLine(m.now(), "START PROCESSING EVENT"))
		m.stage = Stage0IncrementCounter
	}

	for m.stage != StageIdle {
		if m.now().After(m.stageDeadline) {
			m.log.Warnf("fm: processing budget exceeded at %s, resuming next tick", m.stage)
			m.stageDeadline = m.now().Add(StageBudget)
			return
		}

		m.runStage()
		m.state.UpdateCurrentEvent(m.current)
		m.persist()

		select {
		case <-m.yield:
			return
		default:
		}
	}
}

func (m *FM) runStage() {
	switch m.stage {
	case Stage0IncrementCounter:
		m.current.Counter = m.state.EventCounter(m.current.EventID)
		m.stage = Stage1InvokeNotification

	case Stage1InvokeNotification:
		if m.notify != nil {
			desc, _ := faultids.Lookup(m.current.EventID)
			m.notify(m.current, desc.Notification)
		}
		m.stage = Stage2LogEvent

	case Stage2LogEvent:
		m.writeLog(eventLoggedLine(m.now(), m.current))
		m.stage = Stage3DequeueProcessed

	case Stage3DequeueProcessed:
		m.state.DequeueHeadEvent()
		m.state.FinishProcessing()
		m.log.Infof("%s", specialEventLine(m.now(), "FINISH PROCESSING EVENT"))
		m.log.Infof("fm: %d event(s) remaining in queue", m.state.EventQueueLen())
		m.stage = StageIdle
	}
}

// Shutdown drains every unprocessed event from the queue, logging each
// as SKIPPED EVENT (spec §4.2 "Shutdown behavior"), and clears the
// persisted processing state since nothing is left to resume.
func (m *FM) Shutdown() {
	for _, ev := range m.state.DrainEventQueue() {
		m.writeLog(skippedEventLine(m.now(), ev))
	}
	m.state.FinishProcessing()
	m.stage = StageIdle
	m.persist()
}
