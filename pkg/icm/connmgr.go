package icm

import (
	"sync"

	"github.com/vsi-core/interlock/pkg/dictionary"
)

// ConnectionManager is a small role-keyed connection registry, standing
// in for the socket-accept/connect machinery the core explicitly treats
// as an external collaborator (spec §1). The receive and transmit paths
// look connections up by role rather than holding direct references, so
// a connection can be replaced (e.g. after a reconnect performed by
// whatever sets up the stream) without restarting the tick workers.
type ConnectionManager struct {
	mu    sync.RWMutex
	byRole map[dictionary.Role]*Connection
}

// NewConnectionManager returns an empty registry.
func NewConnectionManager() *ConnectionManager {
	return &ConnectionManager{byRole: make(map[dictionary.Role]*Connection)}
}

// Set registers (or replaces) the connection for role.
func (m *ConnectionManager) Set(role dictionary.Role, c *Connection) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.byRole[role] = c
}

// Get returns the connection registered for role, if any.
func (m *ConnectionManager) Get(role dictionary.Role) (*Connection, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	c, ok := m.byRole[role]
	return c, ok
}

// Remove unregisters the connection for role.
func (m *ConnectionManager) Remove(role dictionary.Role) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.byRole, role)
}

// Roles returns every role currently registered.
func (m *ConnectionManager) Roles() []dictionary.Role {
	m.mu.RLock()
	defer m.mu.RUnlock()
	roles := make([]dictionary.Role, 0, len(m.byRole))
	for r := range m.byRole {
		roles = append(roles, r)
	}
	return roles
}
