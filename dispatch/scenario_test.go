package dispatch

import (
	"bytes"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"go.uber.org/zap/zaptest"
	"golang.org/x/tools/txtar"

	"github.com/tmc/shellroute/input"
	"github.com/tmc/shellroute/ui/keymap"
)

var update = flag.Bool("update", false, "update golden files")

// TestScenarios replays the script in each testdata archive against a
// recording pane and compares the transcript with the archive's "want" file.
//
// Script commands:
//
//	state [job] [search] [autocomplete]   set the routing state
//	key <chord> [target text]             handle a key event
//	paste <quoted string>                 handle a paste event
//	tick                                  run deferred continuations
//
// An optional "keymap.yaml" file is appended to the default Linux table.
func TestScenarios(t *testing.T) {
	files, err := filepath.Glob(filepath.Join("testdata", "*.txtar"))
	if err != nil {
		t.Fatal(err)
	}
	if len(files) == 0 {
		t.Fatal("no scenarios found")
	}
	for _, file := range files {
		name := strings.TrimSuffix(filepath.Base(file), ".txtar")
		t.Run(name, func(t *testing.T) {
			ar, err := txtar.ParseFile(file)
			if err != nil {
				t.Fatal(err)
			}
			got := runScenario(t, ar)
			if *update {
				setFile(ar, "want", got)
				if err := os.WriteFile(file, txtar.Format(ar), 0o644); err != nil {
					t.Fatal(err)
				}
				return
			}
			if diff := cmp.Diff(string(getFile(ar, "want")), string(got)); diff != "" {
				t.Errorf("transcript mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func runScenario(t *testing.T, ar *txtar.Archive) []byte {
	t.Helper()
	table := keymap.Default(input.Linux)
	if src := getFile(ar, "keymap.yaml"); src != nil {
		rules, err := keymap.Load(bytes.NewReader(src))
		if err != nil {
			t.Fatalf("keymap.yaml: %v", err)
		}
		table = table.With(rules...)
	}

	f := newFixture(RoutingContext{})
	var out bytes.Buffer
	d := New(table, f.targets,
		WithLogger(zaptest.NewLogger(t).Sugar()),
		WithObserver(func(dec Decision) { fmt.Fprintln(&out, dec) }),
	)
	flush := func() {
		for _, c := range f.rec.take() {
			fmt.Fprintf(&out, "  %s\n", c)
		}
	}

	for i, line := range strings.Split(string(getFile(ar, "script")), "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		fmt.Fprintf(&out, "> %s\n", line)
		cmd, arg, _ := strings.Cut(line, " ")
		switch cmd {
		case "state":
			var ctx RoutingContext
			for _, w := range strings.Fields(arg) {
				switch w {
				case "job":
					ctx.JobInProgress = true
				case "search":
					ctx.SearchFocused = true
				case "autocomplete":
					ctx.AutocompleteShown = true
				default:
					t.Fatalf("script:%d: unknown state %q", i+1, w)
				}
			}
			f.set(ctx)
		case "key":
			chord, target, _ := strings.Cut(arg, " ")
			ev, err := input.Parse(chord)
			if err != nil {
				t.Fatalf("script:%d: %v", i+1, err)
			}
			ev.Target = target
			d.Handle(ev)
		case "paste":
			text, err := strconv.Unquote(arg)
			if err != nil {
				t.Fatalf("script:%d: paste wants a quoted string: %v", i+1, err)
			}
			d.Handle(input.PasteEvent{Text: text})
		case "tick":
			fmt.Fprintf(&out, "ran %d\n", d.RunDeferred())
		default:
			t.Fatalf("script:%d: unknown command %q", i+1, cmd)
		}
		flush()
	}
	return out.Bytes()
}

func getFile(ar *txtar.Archive, name string) []byte {
	for _, f := range ar.Files {
		if f.Name == name {
			return f.Data
		}
	}
	return nil
}

func setFile(ar *txtar.Archive, name string, data []byte) {
	for i, f := range ar.Files {
		if f.Name == name {
			ar.Files[i].Data = data
			return
		}
	}
	ar.Files = append(ar.Files, txtar.File{Name: name, Data: data})
}
