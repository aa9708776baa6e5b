package verification

import (
	"sync"
	"time"

	"github.com/chirper-app/gatekit/pkg/otp"
)

// State is the position of one (identity, purpose) flow instance.
type State int

const (
	// StateIdle: no flow in progress. Also reported for abandoned flows
	// whose grant or code has expired.
	StateIdle State = iota

	// StateCodeRequested: a code has been issued and not yet consumed.
	StateCodeRequested

	// StateVerified: the code was consumed; the guarded action is unlocked.
	StateVerified

	// StateConsumed: the guarded action succeeded and spent the grant.
	StateConsumed
)

func (s State) String() string {
	switch s {
	case StateCodeRequested:
		return "code_requested"
	case StateVerified:
		return "verified"
	case StateConsumed:
		return "consumed"
	default:
		return "idle"
	}
}

type flowKey struct {
	identity string
	purpose  otp.Purpose
}

type flowEntry struct {
	state          State
	grantExpiresAt time.Time
}

// flowStore tracks flow state in memory. Expiry is checked at read time;
// there is no background reaper. Flow state is ephemeral: a restart abandons
// in-flight flows and callers re-verify.
type flowStore struct {
	mutex sync.Mutex
	flows map[flowKey]flowEntry
}

func newFlowStore() *flowStore {
	return &flowStore{flows: make(map[flowKey]flowEntry)}
}

func (fs *flowStore) noteRequested(identity string, purpose otp.Purpose) {
	fs.mutex.Lock()
	defer fs.mutex.Unlock()
	fs.flows[flowKey{identity, purpose}] = flowEntry{state: StateCodeRequested}
}

func (fs *flowStore) grant(identity string, purpose otp.Purpose, expiresAt time.Time) {
	fs.mutex.Lock()
	defer fs.mutex.Unlock()
	fs.flows[flowKey{identity, purpose}] = flowEntry{
		state:          StateVerified,
		grantExpiresAt: expiresAt,
	}
}

// hasGrant reports whether a live grant exists. A grant expired at exactly
// now is dead, matching the code-expiry boundary rule.
func (fs *flowStore) hasGrant(identity string, purpose otp.Purpose, now time.Time) bool {
	fs.mutex.Lock()
	defer fs.mutex.Unlock()

	entry, ok := fs.flows[flowKey{identity, purpose}]
	return ok && entry.state == StateVerified && entry.grantExpiresAt.After(now)
}

func (fs *flowStore) consume(identity string, purpose otp.Purpose) {
	fs.mutex.Lock()
	defer fs.mutex.Unlock()

	key := flowKey{identity, purpose}
	if entry, ok := fs.flows[key]; ok && entry.state == StateVerified {
		entry.state = StateConsumed
		fs.flows[key] = entry
	}
}

func (fs *flowStore) stateOf(identity string, purpose otp.Purpose, now time.Time) State {
	fs.mutex.Lock()
	defer fs.mutex.Unlock()

	entry, ok := fs.flows[flowKey{identity, purpose}]
	if !ok {
		return StateIdle
	}
	if entry.state == StateVerified && !entry.grantExpiresAt.After(now) {
		// Abandoned: verified but never acted on in time.
		return StateIdle
	}
	return entry.state
}
