// Command interlock-core runs the Safety Interlock core: the Interface
// Communication Manager, the Fault Manager, and the shared ITCOM facade
// they share, wired against two already-established byte-stream
// connections (VAM and CM) per spec §1's external-collaborator
// boundary. Dialing the sockets is a thin convenience this binary owns
// so the module has a real runnable edge (spec §1).
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"net"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/pion/logging"
	"github.com/vsi-core/interlock/pkg/config"
	"github.com/vsi-core/interlock/pkg/dictionary"
	"github.com/vsi-core/interlock/pkg/faultids"
	"github.com/vsi-core/interlock/pkg/fm"
	"github.com/vsi-core/interlock/pkg/icm"
	"github.com/vsi-core/interlock/pkg/itcom"
	"github.com/vsi-core/interlock/pkg/logutil"
	"github.com/vsi-core/interlock/pkg/selftest"
)

func parseFlags() config.Config {
	var cfg config.Config

	flag.StringVar(&cfg.VAMAddr, "vam-addr", "", "VAM byte-stream dial address (host:port)")
	flag.StringVar(&cfg.CMAddr, "cm-addr", "", "CM byte-stream dial address (host:port)")
	flag.DurationVar(&cfg.TickPeriod, "tick-period", config.DefaultTickPeriod, "tick worker period")
	flag.StringVar(&cfg.EventLogPath, "event-log", "", "rotating fault-event log path")
	flag.StringVar(&cfg.PersistPath, "persist-path", "", "event_data.bin crash-recovery record path")

	flag.Func("rc-error-limit", "per-enum rolling-counter error limit before FAULT_ROLL_COUNT", func(s string) error {
		var v uint64
		if _, err := fmt.Sscanf(s, "%d", &v); err != nil {
			return err
		}
		if v == 0 || v > 255 {
			return fmt.Errorf("rc-error-limit must be 1-255, got %d", v)
		}
		cfg.RollingCounterErrorLimit = uint8(v)
		return nil
	})

	flag.IntVar(&cfg.TrackerCapacity, "tracker-capacity", 0, "tracker ring-buffer capacity (0 = default)")
	flag.IntVar(&cfg.QueueCapacity, "queue-capacity", 0, "action-queue capacity (0 = default)")
	flag.IntVar(&cfg.VAMAllowedMessages, "vam-rate-limit", 0, "VAM transmit rate limit, messages per window (0 = default)")
	flag.IntVar(&cfg.VAMWindowMs, "vam-rate-window-ms", 0, "VAM rate limiter window, ms (0 = default)")
	flag.IntVar(&cfg.CMAllowedMessages, "cm-rate-limit", 0, "CM transmit rate limit, messages per window (0 = default)")
	flag.IntVar(&cfg.CMWindowMs, "cm-rate-window-ms", 0, "CM rate limiter window, ms (0 = default)")
	flag.IntVar(&cfg.SelfTestRAMWords, "selftest-ram-words", 0, "word count of the startup self-test RAM buffer (0 = default)")

	flag.Parse()
	return cfg
}

func main() {
	cfg := parseFlags()
	if err := cfg.Normalize(); err != nil {
		fmt.Fprintln(os.Stderr, "interlock-core:", err)
		os.Exit(1)
	}

	loggerFactory := logging.NewDefaultLoggerFactory()
	log := logutil.New(loggerFactory, "interlock-core")

	selftestBuf := make([]uint32, cfg.SelfTestRAMWords)

	dict := dictionary.New()
	itcomCfg := cfg.ITCOMConfig()
	itcomCfg.Dictionary = dict
	state := itcom.New(itcomCfg)

	if res := selftest.RunRAMTest(selftestBuf); !res.Passed {
		admitted, desc := state.RaiseEvent(faultids.FaultStartupMemError)
		log.Errorf("startup RAM self-test failed at phase %q index %d (admitted=%v, severity=%v)",
			res.FailedPhase, res.FailedIndex, admitted, desc.Severity)
	}

	conns := icm.NewConnectionManager()
	if err := dialRole(conns, dictionary.RoleVAM, cfg.VAMAddr, log); err != nil {
		log.Errorf("dial VAM: %v", err)
	}
	if err := dialRole(conns, dictionary.RoleCM, cfg.CMAddr, log); err != nil {
		log.Errorf("dial CM: %v", err)
	}

	manager := icm.New(dict, state, conns, logutil.New(loggerFactory, "icm"))

	// eventLog stays a nil io.Writer (not a typed-nil *fm.Rotator) when no
	// path is configured, so fm.FM's "eventLog == nil" skip check holds.
	var eventLog io.Writer
	if cfg.EventLogPath != "" {
		rotator, err := fm.NewRotator(cfg.EventLogPath)
		if err != nil {
			log.Errorf("fm.NewRotator: %v", err)
			os.Exit(1)
		}
		defer rotator.Close()
		eventLog = rotator
	}

	faultManager, err := fm.New(fm.Config{
		State:       state,
		Log:         logutil.New(loggerFactory, "fm"),
		PersistPath: cfg.PersistPath,
		EventLog:    eventLog,
		Notify: func(ev itcom.ErrorEvent, n faultids.Notification) {
			if n != faultids.NotifyExternalSystem {
				return
			}
			manager.NotifyVAM(ev)
		},
	})
	if err != nil {
		log.Errorf("fm.New: %v", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	runTickLoop(ctx, cfg.TickPeriod, conns, manager, faultManager, log)
	faultManager.Shutdown()
	log.Info("interlock-core: shutdown complete")
}

func dialRole(conns *icm.ConnectionManager, role dictionary.Role, addr string, log logging.LeveledLogger) error {
	if addr == "" {
		return nil
	}
	c, err := net.Dial("tcp", addr)
	if err != nil {
		return err
	}
	conns.Set(role, icm.NewConnection(role, c, log))
	return nil
}

// runTickLoop drives the ICM receive/transmit/cycle-count work and the
// FM stage processor at the configured period, per spec §5's
// "periodic threads" scheduling model, until ctx is canceled.
func runTickLoop(ctx context.Context, period time.Duration, conns *icm.ConnectionManager, manager *icm.ICM, faultManager *fm.FM, log logging.LeveledLogger) {
	ticker := time.NewTicker(period)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			for _, role := range conns.Roles() {
				if err := manager.ReceiveTick(role); err != nil {
					log.Debugf("ReceiveTick(%v): %v", role, err)
				}
			}
			if err := manager.TransmitTick(); err != nil {
				log.Debugf("TransmitTick: %v", err)
			}
			manager.CycleCountTick()
			faultManager.Tick()
		}
	}
}
