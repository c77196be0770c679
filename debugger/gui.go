package debugger

import (
	"fmt"
	"io"
	"strings"
	"sync"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"

	"github.com/lookbusy1344/ilvm-core/il"
	"github.com/lookbusy1344/ilvm-core/vm"
)

// GUI is a fyne front end onto a Controller. Unlike a polling debugger that
// calls a single-step API from its own UI thread, this Controller is a
// blocking hook invoked synchronously from inside RunFunction's dispatch
// loop (§4.6), so the GUI bridges fyne's event loop into the Controller's
// command stream through an io.Pipe — the same technique debugger/tui.go
// uses to bridge tview, with fyne widgets standing in for tview's.
type GUI struct {
	App    fyne.App
	Window fyne.Window

	ConsoleOutput   *widget.TextGrid
	BreakpointsList *widget.List
	WatchpointsList *widget.List
	CommandEntry    *widget.Entry
	StatusLabel     *widget.Label
	Toolbar         *widget.Toolbar

	ctl       *Controller
	cmdWriter io.WriteCloser

	breakpointRows []string
	watchpointRows []string

	consoleMu     sync.Mutex
	consoleBuffer strings.Builder
}

// guiWriter redirects the Controller's prompt/output stream to the console
// view, mirroring the redirect a CLI front end gets for free from os.Stdout.
type guiWriter struct {
	gui *GUI
}

func (w *guiWriter) Write(p []byte) (int, error) {
	w.gui.consoleMu.Lock()
	defer w.gui.consoleMu.Unlock()
	w.gui.consoleBuffer.Write(p)
	w.gui.updateConsole()
	return len(p), nil
}

// RunGUI builds a GUI wired to run machine's fnName function under an
// embedded Controller, then blocks until the window is closed.
func RunGUI(machine *vm.VM, module *il.Module, fnName string, args []vm.Slot) error {
	g := newGUI(machine, module, fnName, args)
	g.Window.ShowAndRun()
	return nil
}

func newGUI(machine *vm.VM, module *il.Module, fnName string, args []vm.Slot) *GUI {
	pr, pw := io.Pipe()

	myApp := app.New()
	myWindow := myApp.NewWindow("ilvm-core debugger")

	g := &GUI{
		App:       myApp,
		Window:    myWindow,
		cmdWriter: pw,
	}

	g.ctl = NewController(pr, &guiWriter{gui: g})
	g.ctl.VM = machine
	g.ctl.mode = StepInto

	g.initViews()
	g.setupToolbar()
	g.buildLayout()

	machine.Debug = g.ctl
	go func() {
		if err := machine.BindModule(module); err != nil {
			fmt.Fprintf(g.cmdWriter, "bind module failed: %v\n", err)
			return
		}
		result, err := machine.RunFunction(fnName, args)
		if err != nil {
			g.StatusLabel.SetText(fmt.Sprintf("run failed: %v", err))
			return
		}
		g.StatusLabel.SetText(fmt.Sprintf("finished, result=%d", result.I64))
	}()

	myWindow.Resize(fyne.NewSize(900, 600))
	return g
}

func (g *GUI) initViews() {
	g.ConsoleOutput = widget.NewTextGrid()
	g.ConsoleOutput.SetText("")

	g.breakpointRows = []string{}
	g.BreakpointsList = widget.NewList(
		func() int { return len(g.breakpointRows) },
		func() fyne.CanvasObject { return widget.NewLabel("template") },
		func(id widget.ListItemID, obj fyne.CanvasObject) {
			obj.(*widget.Label).SetText(g.breakpointRows[id])
		},
	)

	g.watchpointRows = []string{}
	g.WatchpointsList = widget.NewList(
		func() int { return len(g.watchpointRows) },
		func() fyne.CanvasObject { return widget.NewLabel("template") },
		func(id widget.ListItemID, obj fyne.CanvasObject) {
			obj.(*widget.Label).SetText(g.watchpointRows[id])
		},
	)

	g.CommandEntry = widget.NewEntry()
	g.CommandEntry.SetPlaceHolder("continue | step | next | finish | break | watch <name> | print <name> | where")
	g.CommandEntry.OnSubmitted = func(text string) {
		fmt.Fprintln(g.cmdWriter, text)
		g.CommandEntry.SetText("")
	}

	g.StatusLabel = widget.NewLabel("Running...")
}

func (g *GUI) buildLayout() {
	consolePanel := container.NewBorder(
		widget.NewLabel("Console"),
		g.CommandEntry, nil, nil,
		container.NewScroll(g.ConsoleOutput),
	)

	breakpointsPanel := container.NewBorder(
		widget.NewLabel("Breakpoints"),
		nil, nil, nil,
		container.NewScroll(g.BreakpointsList),
	)

	watchpointsPanel := container.NewBorder(
		widget.NewLabel("Watchpoints"),
		nil, nil, nil,
		container.NewScroll(g.WatchpointsList),
	)

	sidePanel := container.NewVSplit(breakpointsPanel, watchpointsPanel)
	sidePanel.SetOffset(0.5)

	mainSplit := container.NewHSplit(consolePanel, sidePanel)
	mainSplit.SetOffset(0.7)

	content := container.NewBorder(
		g.Toolbar,
		container.NewBorder(nil, nil, nil, nil, g.StatusLabel),
		nil, nil,
		mainSplit,
	)

	g.Window.SetContent(content)
}

func (g *GUI) setupToolbar() {
	g.Toolbar = widget.NewToolbar(
		widget.NewToolbarAction(theme.MediaFastForwardIcon(), func() { g.sendCommand("continue") }),
		widget.NewToolbarAction(theme.MediaSkipNextIcon(), func() { g.sendCommand("step") }),
		widget.NewToolbarAction(theme.MediaPlayIcon(), func() { g.sendCommand("next") }),
		widget.NewToolbarAction(theme.MediaStopIcon(), func() { g.sendCommand("finish") }),
		widget.NewToolbarSeparator(),
		widget.NewToolbarAction(theme.ContentAddIcon(), func() { g.sendCommand("break") }),
		widget.NewToolbarAction(theme.ContentClearIcon(), func() {
			g.ctl.Breakpoints.Clear()
			g.ctl.Watchpoints.Clear()
			g.refreshLists()
		}),
		widget.NewToolbarSeparator(),
		widget.NewToolbarAction(theme.ViewRefreshIcon(), func() { g.refreshLists() }),
	)
}

// sendCommand writes a command line into the Controller's input pipe,
// exactly as if it had been typed into CommandEntry.
func (g *GUI) sendCommand(cmd string) {
	fmt.Fprintln(g.cmdWriter, cmd)
}

// refreshLists re-renders the breakpoint/watchpoint panels from the
// Controller's managers directly; both are safe to read from any
// goroutine while the VM runs on its own.
func (g *GUI) refreshLists() {
	bps := g.ctl.Breakpoints.All()
	g.breakpointRows = make([]string, 0, len(bps))
	for _, bp := range bps {
		status := "enabled"
		if !bp.Enabled {
			status = "disabled"
		}
		g.breakpointRows = append(g.breakpointRows, fmt.Sprintf("%d: %s (hits=%d, %s)", bp.ID, bp.At, bp.HitCount, status))
	}
	g.BreakpointsList.Refresh()

	wps := g.ctl.Watchpoints.All()
	g.watchpointRows = make([]string, 0, len(wps))
	for _, wp := range wps {
		g.watchpointRows = append(g.watchpointRows, fmt.Sprintf("%d: %s = %d (hits=%d)", wp.ID, wp.Name, wp.LastValue, wp.HitCount))
	}
	g.WatchpointsList.Refresh()
}

func (g *GUI) updateConsole() {
	g.ConsoleOutput.SetText(g.consoleBuffer.String())
}
