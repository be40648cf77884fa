package itcom

import (
	"testing"

	"github.com/vsi-core/interlock/pkg/dictionary"
)

func newTestFacade(t *testing.T) *ITCOM {
	t.Helper()
	return New(Config{Dictionary: dictionary.New()})
}
