package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"
	"github.com/spf13/cobra"

	"github.com/ezrec/brainfuck/emulator"
	"github.com/ezrec/brainfuck/io"
	"github.com/ezrec/brainfuck/vm"
)

// debugStepLimit bounds a single 'run' so a non-terminating program cannot
// wedge the interface.
const debugStepLimit = 1_000_000

// debugTapeWindow is the number of cells shown either side of the cursor.
const debugTapeWindow = 8

var debugCmd = &cobra.Command{
	Use:   "debug <file>",
	Short: "Debug a brainfuck program interactively",
	Long: `Opens an interactive debugger on a brainfuck program.

The display shows the program with the current instruction highlighted,
a window of tape cells around the cursor, and the program output so far.
Program input is fed from the command line rather than the console.

Commands:
  step [n]          execute one (or n) instructions        (F10)
  run               run to breakpoint or halt              (F5)
  break <ip> [expr] set a breakpoint, optionally gated by an
                    expression over ip, cursor, value, cell(i)
  delete <ip>       clear a breakpoint
  feed <text>       append text and a newline to program input
  reset             reload the program from the start
  quit              leave the debugger`,
	Args: cobra.ExactArgs(1),
	Run:  runDebug,
}

func init() {
	rootCmd.AddCommand(debugCmd)
}

type debugSession struct {
	app *tview.Application
	emu *emulator.Emulator
	dbg *emulator.Debugger

	code  string
	input *io.Buffer
	steps int
	state string

	programView *tview.TextView
	tapeView    *tview.TextView
	outputView  *tview.TextView
	statusView  *tview.TextView
	console     *tview.InputField
}

func runDebug(cmd *cobra.Command, args []string) {
	code := loadSource(args, nil)

	ds := &debugSession{
		app:   tview.NewApplication(),
		emu:   emulator.NewEmulator(),
		code:  code,
		input: &io.Buffer{Capacity: 4096},
		state: "ready",
	}
	ds.input.Rewind()

	ds.programView = tview.NewTextView()
	ds.programView.SetDynamicColors(true)
	ds.programView.SetWrap(true)
	ds.programView.SetBorder(true)
	ds.programView.SetTitle(" Program ")

	ds.tapeView = tview.NewTextView()
	ds.tapeView.SetDynamicColors(true)
	ds.tapeView.SetBorder(true)
	ds.tapeView.SetTitle(" Tape ")

	ds.outputView = tview.NewTextView()
	ds.outputView.SetBorder(true)
	ds.outputView.SetTitle(" Output ")
	ds.outputView.SetChangedFunc(func() {
		ds.app.Draw()
	})

	ds.statusView = tview.NewTextView()
	ds.statusView.SetDynamicColors(true)

	ds.console = tview.NewInputField()
	ds.console.SetLabel("(bf) ")
	ds.console.SetDoneFunc(func(key tcell.Key) {
		if key != tcell.KeyEnter {
			return
		}
		ds.command(ds.console.GetText())
		ds.console.SetText("")
	})

	ds.emu.Config = machineConfig()
	ds.emu.In = ds.input
	ds.emu.Out = &io.Tape{Output: ds.outputView}
	ds.emu.Reset(code)
	ds.dbg = emulator.NewDebugger(ds.emu)

	middle := tview.NewFlex().
		AddItem(ds.programView, 0, 2, false).
		AddItem(ds.tapeView, 24, 0, false)

	root := tview.NewFlex().SetDirection(tview.FlexRow).
		AddItem(middle, 0, 2, false).
		AddItem(ds.outputView, 0, 1, false).
		AddItem(ds.statusView, 1, 0, false).
		AddItem(ds.console, 1, 0, true)

	ds.app.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		switch event.Key() {
		case tcell.KeyF10:
			ds.step(1)
			return nil
		case tcell.KeyF5:
			ds.run()
			return nil
		}
		return event
	})

	ds.refresh()

	if err := ds.app.SetRoot(root, true).SetFocus(ds.console).Run(); err != nil {
		fatal(f("debugger: %v", err))
	}
}

// command dispatches one console command line.
func (ds *debugSession) command(line string) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		ds.step(1)
		return
	}

	switch fields[0] {
	case "s", "step":
		count := 1
		if len(fields) > 1 {
			if n, err := strconv.Atoi(fields[1]); err == nil && n > 0 {
				count = n
			}
		}
		ds.step(count)
	case "r", "run":
		ds.run()
	case "b", "break":
		ds.breakpoint(fields[1:])
	case "d", "delete":
		if len(fields) > 1 {
			if position, err := strconv.Atoi(fields[1]); err == nil {
				ds.dbg.RemoveBreakpoint(position)
				ds.state = fmt.Sprintf("cleared breakpoint %d", position)
			}
		}
		ds.refresh()
	case "f", "feed":
		ds.feed(strings.Join(fields[1:], " "))
	case "reset":
		ds.reset()
	case "q", "quit":
		ds.app.Stop()
	default:
		ds.state = fmt.Sprintf("unknown command %q", fields[0])
		ds.refresh()
	}
}

func (ds *debugSession) step(count int) {
	for range count {
		result := ds.dbg.Step()
		if result.StopReason == emulator.StopHalted && result.StepsExecuted == 0 {
			ds.state = "halted"
			break
		}
		ds.steps += result.StepsExecuted
		ds.state = "paused"
	}
	ds.refresh()
}

func (ds *debugSession) run() {
	result := ds.dbg.Run(debugStepLimit)
	ds.steps += result.StepsExecuted

	ds.state = result.StopReason.String()
	if result.Err != nil {
		ds.state = result.Err.Error()
	}
	ds.refresh()
}

func (ds *debugSession) breakpoint(fields []string) {
	if len(fields) == 0 {
		ds.state = "break needs an instruction position"
		ds.refresh()
		return
	}

	position, err := strconv.Atoi(fields[0])
	if err != nil {
		ds.state = fmt.Sprintf("%q is not an instruction position", fields[0])
		ds.refresh()
		return
	}

	if len(fields) > 1 {
		_, err = ds.dbg.AddConditionalBreakpoint(position, strings.Join(fields[1:], " "))
		if err != nil {
			ds.state = err.Error()
			ds.refresh()
			return
		}
	} else {
		ds.dbg.AddBreakpoint(position)
	}

	ds.state = fmt.Sprintf("breakpoint at %d", position)
	ds.refresh()
}

func (ds *debugSession) feed(text string) {
	if err := ds.input.Print(text + "\n"); err != nil {
		ds.state = err.Error()
	} else {
		ds.state = fmt.Sprintf("fed %d bytes", len(text)+1)
	}
	ds.refresh()
}

func (ds *debugSession) reset() {
	ds.input.Rewind()
	ds.outputView.Clear()
	ds.emu.Reset(ds.code)
	ds.steps = 0
	ds.state = "ready"
	ds.refresh()
}

// refresh redraws the program, tape, and status panes from machine state.
func (ds *debugSession) refresh() {
	ds.programView.SetText(ds.renderProgram())
	ds.tapeView.SetText(ds.renderTape())
	ds.statusView.SetText(ds.renderStatus())
}

func (ds *debugSession) renderProgram() string {
	st := ds.emu.State()
	code := st.Code()
	ip := st.Ip()

	breaks := map[int]bool{}
	for _, bp := range ds.dbg.Breakpoints() {
		if bp.Enabled {
			breaks[bp.Position] = true
		}
	}

	var sb strings.Builder
	for i, value := range code {
		text := tview.Escape(string(code[i : i+1]))
		switch {
		case i == ip:
			sb.WriteString("[black:yellow]" + text + "[-:-]")
		case breaks[i]:
			sb.WriteString("[white:red]" + text + "[-:-]")
		case vm.IsOpcode(value):
			sb.WriteString(text)
		default:
			// Comment bytes render dimmed.
			sb.WriteString("[gray]" + text + "[-]")
		}
	}

	return sb.String()
}

func (ds *debugSession) renderTape() string {
	st := ds.emu.State()
	cursor := st.Cursor()

	var sb strings.Builder
	for index := cursor - debugTapeWindow; index <= cursor+debugTapeWindow; index++ {
		value := st.Tape().At(index)

		printable := '.'
		if value >= 0x20 && value < 0x7f {
			printable = rune(value)
		}

		line := fmt.Sprintf("%6d: %3d %c", index, value, printable)
		if index == cursor {
			line = "[black:green]" + line + "[-:-]"
		}
		sb.WriteString(line)
		sb.WriteByte('\n')
	}

	return sb.String()
}

func (ds *debugSession) renderStatus() string {
	st := ds.emu.State()

	return fmt.Sprintf(" ip=%d cursor=%d cell=%d steps=%d pending=%d | %s",
		st.Ip(), st.Cursor(), st.Tape().At(st.Cursor()),
		ds.steps, len(st.Pending()), ds.state)
}
