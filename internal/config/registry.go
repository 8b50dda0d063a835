package config

import (
	"sort"
	"strings"

	"github.com/dodorz/contline/internal/hotkey"
)

// KeybindRegistry maps normalized key strings to actions.
type KeybindRegistry struct {
	leader string

	hotkeys    map[string]string   // key -> action
	prefix     map[string]string   // key -> action
	hotkeyKeys map[string][]string // action -> keys, config order
	prefixKeys map[string][]string // action -> keys, config order
}

// NewKeybindRegistry builds a registry from cfg. Unknown actions and keys
// already claimed by another action are skipped; ValidateConfig reports them.
func NewKeybindRegistry(cfg *UserConfig) *KeybindRegistry {
	if cfg == nil {
		cfg = DefaultConfig()
	}

	r := &KeybindRegistry{
		leader:     hotkey.Normalize(cfg.Keybindings.LeaderKey),
		hotkeys:    make(map[string]string),
		prefix:     make(map[string]string),
		hotkeyKeys: make(map[string][]string),
		prefixKeys: make(map[string][]string),
	}
	if r.leader == "" {
		r.leader = hotkey.Normalize(DefaultConfig().Keybindings.LeaderKey)
	}

	register(r.hotkeys, r.hotkeyKeys, cfg.Keybindings.Hotkeys, knownHotkeyActions(), r.leader)
	register(r.prefix, r.prefixKeys, cfg.Keybindings.PrefixMode, knownPrefixActions(), "")
	return r
}

func register(byKey map[string]string, byAction map[string][]string, binds map[string][]string, known map[string]bool, leader string) {
	actions := make([]string, 0, len(binds))
	for action := range binds {
		actions = append(actions, action)
	}
	sort.Strings(actions)

	for _, action := range actions {
		if !known[action] {
			continue
		}
		for _, key := range hotkey.NormalizeAll(binds[action]) {
			if key == leader {
				continue
			}
			if _, taken := byKey[key]; taken {
				continue
			}
			byKey[key] = action
			byAction[action] = append(byAction[action], key)
		}
	}
}

// Leader returns the normalized leader key.
func (r *KeybindRegistry) Leader() string { return r.leader }

// LeaderDisplay returns the leader key formatted for help text.
func (r *KeybindRegistry) LeaderDisplay() string { return hotkey.Display(r.leader) }

// IsLeader reports whether key is the leader key.
func (r *KeybindRegistry) IsLeader(key string) bool {
	return r.leader != "" && hotkey.Normalize(key) == r.leader
}

// MatchHotkey returns the direct hotkey action bound to key, if any.
func (r *KeybindRegistry) MatchHotkey(key string) (string, bool) {
	action, ok := r.hotkeys[hotkey.Normalize(key)]
	return action, ok
}

// MatchPrefix returns the prefix-mode action bound to key, if any.
func (r *KeybindRegistry) MatchPrefix(key string) (string, bool) {
	action, ok := r.prefix[hotkey.Normalize(key)]
	return action, ok
}

// KeysFor returns the normalized keys bound to a direct hotkey action.
func (r *KeybindRegistry) KeysFor(action string) []string {
	return append([]string(nil), r.hotkeyKeys[action]...)
}

// GetKeysForDisplay returns the keys bound to a hotkey action, formatted
// for help text, or "" when the action is unbound.
func (r *KeybindRegistry) GetKeysForDisplay(action string) string {
	return displayKeys(r.hotkeyKeys[action])
}

// GetPrefixKeysForDisplay is GetKeysForDisplay for prefix-mode actions.
func (r *KeybindRegistry) GetPrefixKeysForDisplay(action string) string {
	return displayKeys(r.prefixKeys[action])
}

func displayKeys(keys []string) string {
	out := make([]string, len(keys))
	for i, k := range keys {
		out[i] = hotkey.Display(k)
	}
	return strings.Join(out, ", ")
}
