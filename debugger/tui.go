package debugger

import (
	"fmt"
	"io"
	"sync"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"

	"github.com/lookbusy1344/ilvm-core/il"
	"github.com/lookbusy1344/ilvm-core/vm"
)

// TUI is a tview front end onto a Controller: the blocking command prompt
// the controller drives over plain io.Reader/io.Writer is fed from a pipe
// so the interactive loop can live behind a command input field instead of
// a terminal line editor, while the VM itself runs on its own goroutine
// (§4.6 debug front ends).
type TUI struct {
	App    *tview.Application
	Layout *tview.Flex

	LocationView    *tview.TextView
	BreakpointsView *tview.TextView
	OutputView      *tview.TextView
	CommandInput    *tview.InputField

	ctl        *Controller
	cmdWriter  io.WriteCloser
	mu         sync.Mutex
	lastLoc    string
	resultDone chan struct{}
}

// NewTUI builds a TUI wired to run machine's fnName function under an
// embedded Controller.
func NewTUI(machine *vm.VM, module *il.Module, fnName string, args []vm.Slot) *TUI {
	pr, pw := io.Pipe()

	t := &TUI{
		App:        tview.NewApplication(),
		resultDone: make(chan struct{}),
		cmdWriter:  pw,
	}

	outW := &tuiWriter{t: t}
	t.ctl = NewController(pr, outW)
	t.ctl.VM = machine
	t.ctl.mode = StepInto

	t.initViews()
	t.buildLayout()

	machine.Debug = t.ctl
	go func() {
		defer close(t.resultDone)
		_ = machine.BindModule(module)
		result, err := machine.RunFunction(fnName, args)
		t.App.QueueUpdateDraw(func() {
			if err != nil {
				fmt.Fprintf(t.OutputView, "[red]run failed: %v[-]\n", err)
				return
			}
			fmt.Fprintf(t.OutputView, "[green]finished, result=%d[-]\n", result.I64)
		})
	}()

	return t
}

func (t *TUI) initViews() {
	t.LocationView = tview.NewTextView().SetDynamicColors(true)
	t.LocationView.SetBorder(true).SetTitle(" Location ")

	t.BreakpointsView = tview.NewTextView().SetDynamicColors(true)
	t.BreakpointsView.SetBorder(true).SetTitle(" Breakpoints/Watchpoints ")

	t.OutputView = tview.NewTextView().SetDynamicColors(true).SetScrollable(true)
	t.OutputView.SetBorder(true).SetTitle(" Output ")

	t.CommandInput = tview.NewInputField().SetLabel("> ")
	t.CommandInput.SetBorder(true).SetTitle(" Command ")
	t.CommandInput.SetDoneFunc(func(key tcell.Key) {
		if key != tcell.KeyEnter {
			return
		}
		line := t.CommandInput.GetText()
		t.CommandInput.SetText("")
		fmt.Fprintln(t.cmdWriter, line)
	})
}

func (t *TUI) buildLayout() {
	left := tview.NewFlex().SetDirection(tview.FlexRow).
		AddItem(t.LocationView, 0, 1, false).
		AddItem(t.BreakpointsView, 0, 1, false)

	right := tview.NewFlex().SetDirection(tview.FlexRow).
		AddItem(t.OutputView, 0, 3, false).
		AddItem(t.CommandInput, 3, 0, true)

	t.Layout = tview.NewFlex().
		AddItem(left, 0, 1, false).
		AddItem(right, 0, 2, true)
}

// Run starts the tview event loop; it returns once the VM finishes and the
// user quits the view.
func (t *TUI) Run() error {
	return t.App.SetRoot(t.Layout, true).SetFocus(t.CommandInput).Run()
}

// tuiWriter redraws the output view on every write, since the VM and prompt
// run on a goroutine separate from tview's own event loop.
type tuiWriter struct {
	t *TUI
}

func (w *tuiWriter) Write(p []byte) (int, error) {
	w.t.App.QueueUpdateDraw(func() {
		fmt.Fprint(w.t.OutputView, string(p))
	})
	return len(p), nil
}
