package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"unicode/utf8"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/ezrec/brainfuck/emulator"
)

var (
	runTrace    bool
	runMaxSteps int
)

var runCmd = &cobra.Command{
	Use:   "run [file]",
	Short: "Execute a brainfuck program",
	Long: `Loads and executes a brainfuck program.

With a file argument the program source is read from the file; a file that
cannot be read or is not UTF-8 text aborts with a diagnostic. Without an
argument, one line of program text is read from the console.

The program runs until it halts. Program input is consumed from the console
one byte per ',' instruction; decoded output is printed as soon as it is
available. There is no exit-code distinction for program outcome.

Example:
  bf run hello.bf
  echo '++.' | bf run --trace`,
	Args: cobra.MaximumNArgs(1),
	Run:  runRun,
}

func init() {
	rootCmd.AddCommand(runCmd)
	runCmd.Flags().BoolVarP(&runTrace, "trace", "t", false, "trace each instruction on stderr")
	runCmd.Flags().IntVarP(&runMaxSteps, "max-steps", "n", 0, "maximum steps to execute (0 = unlimited)")
}

// loadSource obtains program text from a named file, or one line of
// console input when no file is named. Loading failures are fatal; there
// is no partial execution.
func loadSource(args []string, console *bufio.Reader) (code string) {
	if len(args) > 0 {
		data, err := os.ReadFile(args[0])
		if err != nil {
			fatal(f("%v: %v", args[0], err))
		}
		if !utf8.Valid(data) {
			fatal(f("%v: not valid UTF-8 text", args[0]))
		}
		return string(data)
	}

	if console == nil {
		console = bufio.NewReader(os.Stdin)
	}

	line, err := console.ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		fatal(f("console: %v", err))
	}
	return line
}

func runRun(cmd *cobra.Command, args []string) {
	logger := newLogger()

	// The console carries both the one-line source form and program input,
	// so the same reader must serve both.
	console := bufio.NewReader(os.Stdin)
	code := loadSource(args, console)

	emu := emulator.NewEmulator()
	emu.Config = machineConfig()
	emu.Tape.Input = console
	emu.Tape.Output = os.Stdout
	emu.Log = logger
	emu.Reset(code)

	logger.Info("run",
		"program-bytes", len(code),
		"tape-size", emu.State().Tape().Len(),
		"wrap", emu.Config.Wrap,
	)

	if !runTrace && runMaxSteps == 0 {
		steps := emu.Run()
		logger.Info("halted", "steps", steps)
		return
	}

	dbg := emulator.NewDebugger(emu)
	if runTrace {
		dbg.SetEventCallback(traceCallback(emu))
	}

	result := dbg.Run(runMaxSteps)
	logger.Info("stopped", "reason", result.StopReason.String(), "steps", result.StepsExecuted)
	if result.StopReason != emulator.StopHalted {
		fmt.Fprintln(os.Stderr, f("stopped: %v after %v steps", result.StopReason, result.StepsExecuted))
	}
}

// Trace line colors.
var (
	traceIpColor     = color.New(color.FgCyan)
	traceOpColor     = color.New(color.FgYellow, color.Bold)
	traceCursorColor = color.New(color.FgGreen)
)

// traceCallback prints one line per executed instruction to stderr.
func traceCallback(emu *emulator.Emulator) emulator.EventCallback {
	step := 0

	return func(event emulator.ExecutionEvent, result *emulator.ExecutionResult) bool {
		if event != emulator.EventStep {
			return true
		}

		st := emu.State()
		fmt.Fprintf(os.Stderr, "[%6d] %s %s cursor=%s cell=%3d\n",
			step,
			traceIpColor.Sprintf("ip=%-6d", st.Ip()),
			traceOpColor.Sprintf("%c", st.Code()[st.Ip()]),
			traceCursorColor.Sprintf("%-6d", st.Cursor()),
			st.Tape().At(st.Cursor()),
		)
		step++

		return true
	}
}
