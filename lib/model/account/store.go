package account

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Activity is the open/close window of a fully qualified account. A zero
// ClosedAt means the account has not been closed.
type Activity struct {
	OpenedAt time.Time
	ClosedAt time.Time
}

func (a Activity) validAt(date time.Time) bool {
	if a.OpenedAt.After(date) {
		return false
	}
	return a.ClosedAt.IsZero() || a.ClosedAt.After(date)
}

// Store interns account path segments and tracks per-account validity
// windows. Segment indices are shared across all account kinds: the same
// segment string receives the same index wherever it appears. Only Open
// interns new segments; every other operation is a pure lookup.
type Store struct {
	segments   []string
	index      map[string]int
	activities map[Type]map[string]*Activity
}

// NewStore creates an empty account store.
func NewStore() *Store {
	activities := make(map[Type]map[string]*Activity, len(Types))
	for _, t := range Types {
		activities[t] = make(map[string]*Activity)
	}
	return &Store{
		index:      make(map[string]int),
		activities: activities,
	}
}

func (s *Store) intern(segments []string) []int {
	idxs := make([]int, 0, len(segments))
	for _, segment := range segments {
		idx, ok := s.index[segment]
		if !ok {
			idx = len(s.segments)
			s.segments = append(s.segments, segment)
			s.index[segment] = idx
		}
		idxs = append(idxs, idx)
	}
	return idxs
}

func (s *Store) lookup(segments []string) ([]int, bool) {
	idxs := make([]int, 0, len(segments))
	for _, segment := range segments {
		idx, ok := s.index[segment]
		if !ok {
			return nil, false
		}
		idxs = append(idxs, idx)
	}
	return idxs, true
}

// key encodes a segment-index vector as a map key.
func key(idxs []int) string {
	var b strings.Builder
	for i, idx := range idxs {
		if i > 0 {
			b.WriteByte(':')
		}
		b.WriteString(strconv.Itoa(idx))
	}
	return b.String()
}

// Open interns the account's segments and starts a new validity window at
// the given date. Reopening replaces the account's current window.
func (s *Store) Open(acc Account, openedAt time.Time) error {
	idxs := s.intern(acc.Segments)
	s.activities[acc.Type][key(idxs)] = &Activity{OpenedAt: openedAt}
	return nil
}

// Close ends the account's current validity window at the given date. The
// account must be open at that date.
func (s *Store) Close(acc Account, at time.Time) error {
	txn, err := s.Resolve(acc, at)
	if err != nil {
		return err
	}
	activity, ok := s.activities[acc.Type][key(txn.Segments)]
	if !ok {
		return fmt.Errorf("account %s has no open record", acc)
	}
	activity.ClosedAt = at
	return nil
}

// Resolve maps a parsed account to its index-vector form, provided the
// account is valid at the given date.
func (s *Store) Resolve(acc Account, date time.Time) (TxnAccount, error) {
	idxs, ok := s.lookup(acc.Segments)
	if ok {
		if activity, ok := s.activities[acc.Type][key(idxs)]; ok && activity.validAt(date) {
			return TxnAccount{Type: acc.Type, Segments: idxs}, nil
		}
	}
	return TxnAccount{}, fmt.Errorf("account %s is not open at %s", acc, date.Format("2006-01-02"))
}

// Unresolve maps a resolved account back to its segment strings.
func (s *Store) Unresolve(txn TxnAccount) (Account, error) {
	segments := make([]string, 0, len(txn.Segments))
	for _, idx := range txn.Segments {
		if idx < 0 || idx >= len(s.segments) {
			return Account{}, fmt.Errorf("undefined account segment index %d", idx)
		}
		segments = append(segments, s.segments[idx])
	}
	return Account{Type: txn.Type, Segments: segments}, nil
}
