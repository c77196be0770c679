package debugger

import (
	"io"
	"strings"
	"testing"

	"fyne.io/fyne/v2/test"

	"github.com/lookbusy1344/ilvm-core/vm"
)

// newTestGUI builds a GUI against fyne's headless test driver instead of a
// real app, so assembling the view tree doesn't need a display (mirrors the
// teacher's own TestGUIWithTestDriver).
func newTestGUI() *GUI {
	pr, pw := io.Pipe()
	a := test.NewApp()
	g := &GUI{
		App:       a,
		Window:    a.NewWindow("test"),
		cmdWriter: pw,
	}
	g.ctl = NewController(pr, &guiWriter{gui: g})
	g.ctl.VM = vm.NewVM()
	g.initViews()
	g.setupToolbar()
	g.buildLayout()
	return g
}

func TestGUICreation(t *testing.T) {
	g := newTestGUI()
	defer g.App.Quit()

	if g.ConsoleOutput == nil {
		t.Error("ConsoleOutput not initialized")
	}
	if g.BreakpointsList == nil {
		t.Error("BreakpointsList not initialized")
	}
	if g.WatchpointsList == nil {
		t.Error("WatchpointsList not initialized")
	}
	if g.CommandEntry == nil {
		t.Error("CommandEntry not initialized")
	}
	if g.Toolbar == nil {
		t.Error("Toolbar not initialized")
	}
}

func TestGUIBreakpointListRefresh(t *testing.T) {
	g := newTestGUI()
	defer g.App.Quit()

	g.refreshLists()
	if len(g.breakpointRows) != 0 {
		t.Fatalf("expected 0 breakpoint rows, got %d", len(g.breakpointRows))
	}

	g.ctl.Breakpoints.Add(Loc{Function: "main", Block: "entry", IP: 0}, false, "")
	g.refreshLists()
	if len(g.breakpointRows) != 1 {
		t.Fatalf("expected 1 breakpoint row after Add, got %d", len(g.breakpointRows))
	}

	g.ctl.Breakpoints.Clear()
	g.refreshLists()
	if len(g.breakpointRows) != 0 {
		t.Fatalf("expected 0 breakpoint rows after Clear, got %d", len(g.breakpointRows))
	}
}

func TestGUIWatchpointListRefresh(t *testing.T) {
	g := newTestGUI()
	defer g.App.Quit()

	g.ctl.Watchpoints.Add("acc")
	g.refreshLists()
	if len(g.watchpointRows) != 1 {
		t.Fatalf("expected 1 watchpoint row, got %d", len(g.watchpointRows))
	}
	if !strings.Contains(g.watchpointRows[0], "acc") {
		t.Fatalf("expected watchpoint row to mention name, got %q", g.watchpointRows[0])
	}
}

func TestGUIConsoleWriterAppendsOutput(t *testing.T) {
	g := newTestGUI()
	defer g.App.Quit()

	w := &guiWriter{gui: g}
	if _, err := w.Write([]byte("breakpoint 1 hit\n")); err != nil {
		t.Fatalf("unexpected write error: %v", err)
	}
	if !strings.Contains(g.ConsoleOutput.Text(), "breakpoint 1 hit") {
		t.Fatalf("expected console to contain written text, got %q", g.ConsoleOutput.Text())
	}
}

func TestGUISendCommandWritesToPipe(t *testing.T) {
	g := newTestGUI()
	defer g.App.Quit()
	defer g.cmdWriter.Close()

	go g.sendCommand("continue")

	if !g.ctl.In.Scan() {
		t.Fatalf("expected a line on the controller's input, scan error: %v", g.ctl.In.Err())
	}
	if got := g.ctl.In.Text(); got != "continue" {
		t.Fatalf("expected %q, got %q", "continue", got)
	}
}
