package state

import (
	"maps"
	"sort"
	"sync"
	"time"
)

// ConnectionState tracks the transport lifecycle.
type ConnectionState int

const (
	Disconnected ConnectionState = iota
	Connecting
	Connected
)

func (c ConnectionState) String() string {
	switch c {
	case Disconnected:
		return "disconnected"
	case Connecting:
		return "connecting"
	case Connected:
		return "connected"
	default:
		return "unknown"
	}
}

// Category names a group of state the feedback layer re-evaluates together.
type Category string

const (
	CategoryConnected   Category = "connected"
	CategoryActiveCue   Category = "active_cue"
	CategoryPendingCue  Category = "pending_cue"
	CategoryPreviousCue Category = "previous_cue"
	CategoryWheels      Category = "wheels"
	CategoryLabels      Category = "labels"
)

// CueCategory returns the change category of a cue slot.
func CueCategory(slot CueSlot) Category {
	switch slot {
	case CueActive:
		return CategoryActiveCue
	case CuePending:
		return CategoryPendingCue
	default:
		return CategoryPreviousCue
	}
}

// Snapshot is an immutable copy of the store.
type Snapshot struct {
	Connection  ConnectionState
	Values      map[string]string
	LastUpdated time.Time
}

// Get returns the value of key, or "" when unset.
func (s Snapshot) Get(key string) string {
	return s.Values[key]
}

// CueReference is the view of one cue slot.
type CueReference struct {
	List         string
	Number       string
	Label        string
	Duration     string
	Intensity    string
	HasIntensity bool
}

// Cue assembles the reference stored for slot.
func (s Snapshot) Cue(slot CueSlot) CueReference {
	intensity, ok := s.Values[CueKey(slot, FieldIntensity)]
	return CueReference{
		List:         s.Values[CueKey(slot, FieldList)],
		Number:       s.Values[CueKey(slot, FieldNumber)],
		Label:        s.Values[CueKey(slot, FieldLabel)],
		Duration:     s.Values[CueKey(slot, FieldDuration)],
		Intensity:    intensity,
		HasIntensity: ok,
	}
}

// Keys returns the set keys in sorted order.
func (s Snapshot) Keys() []string {
	keys := make([]string, 0, len(s.Values))
	for k := range s.Values {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Store holds the named console state. The zero value is ready to use.
//
// OnChange and OnVariables must be set before the store is shared; they are
// called outside the lock, on the goroutine that wrote the value. For a
// store owned by an eos.Session that is the session loop, so callbacks must
// not block on it.
type Store struct {
	// OnChange receives the categories passed to NotifyChanged.
	OnChange func(categories ...Category)
	// OnVariables receives every value written with publish set, and "" for
	// every key removed by a clear.
	OnVariables func(values map[string]string)

	mu          sync.RWMutex
	values      map[string]string
	conn        ConnectionState
	lastUpdated time.Time
}

// SetMany writes values. When publish is true the values are also forwarded to
// OnVariables.
func (s *Store) SetMany(values map[string]string, publish bool) {
	if len(values) == 0 {
		return
	}
	s.mu.Lock()
	if s.values == nil {
		s.values = make(map[string]string, len(values))
	}
	maps.Copy(s.values, values)
	s.lastUpdated = time.Now()
	s.mu.Unlock()

	if publish {
		s.publish(maps.Clone(values))
	}
}

// Get returns the value of key and whether it is set.
func (s *Store) Get(key string) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.values[key]
	return v, ok
}

// SetConnection records the connection state and reports whether it changed.
func (s *Store) SetConnection(c ConnectionState) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	changed := s.conn != c
	s.conn = c
	s.lastUpdated = time.Now()
	return changed
}

// Connection returns the current connection state.
func (s *Store) Connection() ConnectionState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.conn
}

// ClearAllExceptConnection drops every value. The connection state survives.
func (s *Store) ClearAllExceptConnection() {
	s.ClearWhere(func(string) bool { return true })
}

// ClearWhere drops every key matching pred and returns how many were removed.
func (s *Store) ClearWhere(pred func(key string) bool) int {
	s.mu.Lock()
	cleared := make(map[string]string)
	for k := range s.values {
		if pred(k) {
			cleared[k] = ""
			delete(s.values, k)
		}
	}
	if len(cleared) > 0 {
		s.lastUpdated = time.Now()
	}
	s.mu.Unlock()

	if len(cleared) > 0 {
		s.publish(cleared)
	}
	return len(cleared)
}

// NotifyChanged forwards categories to OnChange.
func (s *Store) NotifyChanged(categories ...Category) {
	if s.OnChange == nil || len(categories) == 0 {
		return
	}
	s.OnChange(categories...)
}

// Snapshot returns a copy of the current state.
func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	values := maps.Clone(s.values)
	if values == nil {
		values = map[string]string{}
	}
	return Snapshot{
		Connection:  s.conn,
		Values:      values,
		LastUpdated: s.lastUpdated,
	}
}

func (s *Store) publish(values map[string]string) {
	if s.OnVariables != nil {
		s.OnVariables(values)
	}
}
