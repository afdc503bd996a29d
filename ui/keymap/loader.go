package keymap

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/charmbracelet/bubbles/key"
	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/tmc/shellroute/action"
	"github.com/tmc/shellroute/input"
)

// File is the on-disk form of user keybindings.
//
//	bindings:
//	  - action: tab-focus
//	    keys: [alt+1, alt+2, alt+3]
//	  - action: find-close
//	    keys: [esc]
//	  - action: tab-close
//	    when: primary && code == "w"
//	    help: close pane
type File struct {
	Bindings []BindingSpec `yaml:"bindings"`
}

// BindingSpec describes one rule. A rule matches when any chord in Keys
// matches and the When expression, if present, evaluates to true.
type BindingSpec struct {
	Action string   `yaml:"action"`
	Keys   []string `yaml:"keys"`
	When   string   `yaml:"when"`
	Help   string   `yaml:"help"`
}

type loadConfig struct {
	log *zap.SugaredLogger
}

// LoadOption configures Load and LoadFile.
type LoadOption func(*loadConfig)

// WithLogger sets the logger that reports when expressions failing at
// match time.
func WithLogger(log *zap.SugaredLogger) LoadOption {
	return func(c *loadConfig) {
		if log != nil {
			c.log = log
		}
	}
}

// LoadFile reads user keybindings from path.
func LoadFile(path string, opts ...LoadOption) ([]Rule, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open keybindings: %w", err)
	}
	defer f.Close()
	rules, err := Load(f, opts...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return rules, nil
}

// Load parses user keybindings. Rules are returned in file order.
func Load(r io.Reader, opts ...LoadOption) ([]Rule, error) {
	cfg := loadConfig{log: zap.NewNop().Sugar()}
	for _, opt := range opts {
		opt(&cfg)
	}
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	var f File
	if err := dec.Decode(&f); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil
		}
		return nil, fmt.Errorf("decode keybindings: %w", err)
	}

	rules := make([]Rule, 0, len(f.Bindings))
	for i, spec := range f.Bindings {
		rule, err := spec.rule(cfg.log)
		if err != nil {
			return nil, fmt.Errorf("binding %d: %w", i, err)
		}
		rules = append(rules, rule)
	}
	return rules, nil
}

// Rule compiles the spec.
func (s BindingSpec) Rule() (Rule, error) { return s.rule(zap.NewNop().Sugar()) }

func (s BindingSpec) rule(log *zap.SugaredLogger) (Rule, error) {
	a, err := action.Parse(s.Action)
	if err != nil {
		return Rule{}, err
	}
	if len(s.Keys) == 0 && s.When == "" {
		return Rule{}, fmt.Errorf("%s: needs keys or when", a)
	}

	var preds []Predicate
	if len(s.Keys) > 0 {
		chords := make([]Predicate, 0, len(s.Keys))
		for _, k := range s.Keys {
			ev, err := input.Parse(k)
			if err != nil {
				return Rule{}, fmt.Errorf("%s: %w", a, err)
			}
			chords = append(chords, Chord(ev.Mod, ev.Code))
		}
		preds = append(preds, Any(chords...))
	}
	if s.When != "" {
		p, err := compileWhen(s.When, log.With("action", a.String()))
		if err != nil {
			return Rule{}, fmt.Errorf("%s: %w", a, err)
		}
		preds = append(preds, p)
	}

	desc := s.Help
	if desc == "" {
		desc = strings.ReplaceAll(a.String(), "-", " ")
	}
	label := strings.Join(s.Keys, "/")
	if label == "" {
		label = s.When
	}
	help := key.NewBinding(key.WithKeys(s.Keys...), key.WithHelp(label, desc))
	if len(s.Keys) == 0 {
		help = key.NewBinding(key.WithKeys(label), key.WithHelp(label, desc))
	}

	return Rule{Action: a, When: All(preds...), Help: help}, nil
}

// whenEnv is the environment a when expression sees.
func whenEnv(e input.KeyEvent) map[string]any {
	r := ""
	if e.Rune != 0 {
		r = string(e.Rune)
	}
	return map[string]any{
		"code":    e.Code.String(),
		"char":    r,
		"ctrl":    e.Ctrl(),
		"alt":     e.Alt(),
		"meta":    e.Meta(),
		"shift":   e.Shift(),
		"primary": e.Primary(),
	}
}

func compileWhen(src string, log *zap.SugaredLogger) (Predicate, error) {
	program, err := expr.Compile(src, expr.Env(whenEnv(input.KeyEvent{})), expr.AsBool())
	if err != nil {
		return nil, fmt.Errorf("compile when %q: %w", src, err)
	}
	return whenPredicate(program, src, log), nil
}

// whenPredicate treats an evaluation error as no match. The first error is
// logged as a warning, later ones at debug level.
func whenPredicate(program *vm.Program, src string, log *zap.SugaredLogger) Predicate {
	var once sync.Once
	return func(e input.KeyEvent) bool {
		out, err := expr.Run(program, whenEnv(e))
		if err != nil {
			warned := false
			once.Do(func() {
				warned = true
				log.Warnw("when expression failed", "when", src, "key", e.String(), "error", err)
			})
			if !warned {
				log.Debugw("when expression failed", "when", src, "key", e.String(), "error", err)
			}
			return false
		}
		ok, _ := out.(bool)
		return ok
	}
}
