// Package featureflags evaluates runtime toggles configured through FEATURE_FLAGS.
package featureflags

import (
	"hash/fnv"
	"sort"
	"strconv"
	"strings"
)

// Known flags.
const (
	// EnforceOTPExpiry rejects OTP codes older than the configured TTL.
	EnforceOTPExpiry = "enforce_otp_expiry"
	// LiveNotifications enables the notification WebSocket stream.
	LiveNotifications = "live_notifications"
)

// Known lists the flags the application reads. They evaluate to off until
// configured.
var Known = []string{EnforceOTPExpiry, LiveNotifications}

// rollout is the share of users (0-100) a flag is enabled for.
type rollout int

const (
	off rollout = 0
	on  rollout = 100
)

// Manager holds parsed flag rules. The zero value and nil both report every
// flag as off.
//
// Syntax: "enforce_otp_expiry=on,live_notifications=25%". Values are
// on/true/1, off/false/0, or N% for a deterministic per-user rollout.
type Manager struct {
	rules   map[string]rollout
	ignored []string
}

// NewManager parses a comma-separated flag list. Malformed entries are
// skipped and reported by Ignored.
func NewManager(raw string) *Manager {
	m := &Manager{rules: make(map[string]rollout, len(Known))}
	for _, name := range Known {
		m.rules[name] = off
	}

	for _, entry := range strings.Split(raw, ",") {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}
		key, value, found := strings.Cut(entry, "=")
		key = normalize(key)
		r, ok := parseRollout(normalize(value))
		if !found || key == "" || !ok {
			m.ignored = append(m.ignored, entry)
			continue
		}
		m.rules[key] = r
	}
	return m
}

func parseRollout(value string) (rollout, bool) {
	switch value {
	case "on", "true", "1":
		return on, true
	case "off", "false", "0":
		return off, true
	}
	pct, found := strings.CutSuffix(value, "%")
	if !found {
		return off, false
	}
	n, err := strconv.Atoi(pct)
	if err != nil || n < 0 {
		return off, false
	}
	return rollout(min(n, 100)), true
}

// Ignored returns the entries NewManager could not parse.
func (m *Manager) Ignored() []string {
	if m == nil {
		return nil
	}
	return m.ignored
}

// Enabled reports whether a flag is on for userID. Partial rollouts are off
// for anonymous callers (userID 0).
func (m *Manager) Enabled(name string, userID uint) bool {
	if m == nil {
		return false
	}
	name = normalize(name)
	switch r := m.rules[name]; {
	case r >= on:
		return true
	case r <= off, userID == 0:
		return false
	default:
		return bucket(name, userID) < int(r)
	}
}

// On reports a flag that is globally enabled, independent of any user.
func (m *Manager) On(name string) bool {
	return m.Enabled(name, 0)
}

// Names returns every configured or known flag, sorted.
func (m *Manager) Names() []string {
	if m == nil {
		return nil
	}
	names := make([]string, 0, len(m.rules))
	for name := range m.rules {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Snapshot evaluates every flag for one user.
func (m *Manager) Snapshot(userID uint) map[string]bool {
	out := make(map[string]bool)
	for _, name := range m.Names() {
		out[name] = m.Enabled(name, userID)
	}
	return out
}

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

func bucket(name string, userID uint) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(name))
	_, _ = h.Write([]byte{':'})
	_, _ = h.Write([]byte(strconv.FormatUint(uint64(userID), 10)))
	return int(h.Sum32() % 100)
}
