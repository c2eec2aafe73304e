package flags

import (
	"errors"
	"fmt"
	"io"
	"sort"
	"strconv"

	"github.com/rs/zerolog/log"
	"golang.org/x/xerrors"
)

// DefaultHelp is the token that triggers help display unless SetHelp is used.
const DefaultHelp = "--help"

var (
	// ErrHelp is returned by Parse when the help sentinel token is seen.
	// The caller renders help and chooses the exit status.
	ErrHelp = errors.New("help requested")

	// ErrUnmatched is returned when a key token interrupts a fixed arity
	// option that has not yet consumed all of its values.
	ErrUnmatched = errors.New("unmatched parameters")
)

// option is a single registered option: its storage slot plus bookkeeping.
type option struct {
	slot     int
	kind     valueKind
	desc     string
	supplied bool
	arity    int
}

// Flag is the option registry. Callers register options with default values,
// keep the returned handles, call Parse once over the raw argument list and
// read the handles afterwards.
type Flag struct {
	help    string
	store   *slotStore
	keys    map[string]*option
	warning bool
}

func New() *Flag {
	return &Flag{
		help:    DefaultHelp,
		store:   &slotStore{},
		keys:    map[string]*option{},
		warning: true,
	}
}

// register stores a new option seeded from cells. Re-registering a key
// replaces the previous registration; the earlier handle keeps reading its
// original slot and no longer tracks the canonical storage.
func (f *Flag) register(key string, cells []string, kind valueKind, desc string, arity int) *Value {
	if _, ok := f.keys[key]; ok {
		f.warn(fmt.Sprintf("key %s registered twice, previous registration replaced", key))
	}

	id := f.store.alloc(cells)
	f.keys[key] = &option{
		slot:  id,
		kind:  kind,
		desc:  desc,
		arity: arity,
	}

	return &Value{store: f.store, slot: id, kind: kind}
}

// String registers a scalar string option under key.
func (f *Flag) String(key, def, desc string) *Value {
	return f.register(key, []string{def}, scalarValue, desc, 1)
}

// Uint32 registers a scalar numeric option under key. The default is stored
// in its text form; conversion back happens at read time via As.
func (f *Flag) Uint32(key string, def uint32, desc string) *Value {
	return f.register(key, []string{strconv.FormatUint(uint64(def), 10)}, scalarValue, desc, 1)
}

// FixedStrings registers a vector option that consumes exactly len(def)
// values. Unfilled trailing positions keep their defaults.
func (f *Flag) FixedStrings(key string, def []string, desc string) *Value {
	cells := make([]string, len(def))
	copy(cells, def)
	return f.register(key, cells, vectorValue, desc, len(cells))
}

// Strings registers an open ended vector option: it consumes values until the
// next key token or the end of input, growing past len(def) if needed.
func (f *Flag) Strings(key string, def []string, desc string) *Value {
	cells := make([]string, len(def))
	copy(cells, def)
	return f.register(key, cells, vectorValue, desc, -1)
}

// Has reports whether key was matched at least once during parsing.
func (f *Flag) Has(key string) bool {
	opt, ok := f.keys[key]
	if !ok {
		return false
	}
	return opt.supplied
}

// SetHelp changes the sentinel token that triggers help display.
func (f *Flag) SetHelp(token string) {
	f.help = token
}

// SetWarning toggles the diagnostic channel. When enabled, duplicate key
// registration and dropped tokens are reported; parsing semantics never
// depend on it.
func (f *Flag) SetWarning(on bool) {
	f.warning = on
}

func (f *Flag) warn(msg string) {
	if !f.warning {
		return
	}
	log.Warn().Msg(msg)
}

// Parse walks the raw argument list exactly once, matching key tokens against
// the registry and feeding the values that follow them into the matched
// option's storage. args is the full argument list; args[0] is conventionally
// the program path, matches no key and is absorbed by the discard rule.
func (f *Flag) Parse(args []string) error {
	var rd *reader

	for i, arg := range args {
		if arg == f.help {
			return ErrHelp
		}

		if opt, ok := f.keys[arg]; ok {
			if rd != nil && rd.nextKey() == processing {
				return xerrors.Errorf("the parameters before the %s parameter are not matched: %w", arg, ErrUnmatched)
			}
			opt.supplied = true
			rd = newReader(f.store.at(opt.slot), opt.kind, opt.arity)
			continue
		}

		if rd == nil {
			if i != 0 {
				f.warn(fmt.Sprintf("token %s matches no key and no option is consuming values, dropped", arg))
			}
			continue
		}

		if rd.process(arg) == finished {
			rd = nil
		}
	}

	return nil
}

// PrintHelp renders each key, its current (default) value and its
// description. Keys are sorted for stable output.
func (f *Flag) PrintHelp(w io.Writer) {
	fmt.Fprintln(w, "help:")

	keys := make([]string, 0, len(f.keys))
	for key := range f.keys {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	for _, key := range keys {
		opt := f.keys[key]
		val := &Value{store: f.store, slot: opt.slot, kind: opt.kind}
		fmt.Fprintf(w, "\t%s\n\t\tdefault: %s\n\t\tdesc: %s\n", key, val, opt.desc)
	}
}
