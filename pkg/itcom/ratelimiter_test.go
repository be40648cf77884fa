package itcom

import (
	"testing"

	"github.com/vsi-core/interlock/pkg/dictionary"
)

func TestRateLimitDropOnEleventhMessage(t *testing.T) {
	c := newTestFacade(t)
	c.rateLimiters[dictionary.RoleCM] = NewRateLimiter(10, 100)

	var sent, dropped int
	for i := 0; i < 11; i++ {
		if c.AllowTransmit(dictionary.RoleCM) {
			sent++
		} else {
			dropped++
		}
	}
	if sent != 10 {
		t.Fatalf("sent = %d, want 10", sent)
	}
	if dropped != 1 {
		t.Fatalf("dropped = %d, want 1", dropped)
	}
}

func TestRateLimiterUnknownRoleAllowsByDefault(t *testing.T) {
	c := newTestFacade(t)
	delete(c.rateLimiters, dictionary.RoleVAM)
	if !c.AllowTransmit(dictionary.RoleVAM) {
		t.Fatal("missing limiter should not block transmission")
	}
}
