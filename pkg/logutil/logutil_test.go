package logutil

import (
	"testing"

	"github.com/pion/logging"
)

func TestNewFallsBackToDefaultFactory(t *testing.T) {
	log := New(nil, "interlock")
	if log == nil {
		t.Fatal("expected a non-nil logger")
	}
	// Should not panic even with no factory supplied.
	log.Info("test")
}

func TestNewUsesSuppliedFactory(t *testing.T) {
	factory := logging.NewDefaultLoggerFactory()
	log := New(factory, "interlock")
	if log == nil {
		t.Fatal("expected a non-nil logger")
	}
}
