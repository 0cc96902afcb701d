package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/google/shlex"

	"robotcar/host/car"
)

// shell is the state one REPL session operates on
type shell struct {
	car      *car.Car
	watchdog *car.Watchdog
	out      io.Writer
}

type cliCommand struct {
	Name        string
	Usage       string
	Description string
	MinArgs     int
	MaxArgs     int
	Handler     func(ctx context.Context, sh *shell, args []int, raw []string) error
}

// errQuit ends the REPL
var errQuit = errors.New("quit")

var cliCommands = map[string]cliCommand{}

func init() {
	for _, c := range []cliCommand{
		{"stop", "stop", "brake all wheels", 0, 0, cmdStop},
		{"drive", "drive <speed>", "run all wheels at speed (-255..255)", 1, 1, cmdDrive},
		{"turn", "turn <left> <right>", "run left and right sides at different speeds", 2, 2, cmdTurn},
		{"wheels", "wheels <fl> <fr> <rl> <rr>", "set each wheel", 4, 4, cmdWheels},
		{"range", "range [angle] [attempts] [maxcm]", "measure distance (defaults 0 4 400)", 0, 3, cmdRange},
		{"watch", "watch on|off", "enable or pause the proximity watchdog", 1, 1, cmdWatch},
		{"raw", "raw <frame>", "send a command frame, e.g. raw 'C:0:TW:1:50;'", 1, 1, cmdRaw},
		{"help", "help", "list commands", 0, 0, cmdHelp},
		{"quit", "quit", "stop the car and exit", 0, 0, cmdQuit},
	} {
		cliCommands[c.Name] = c
	}
}

// commands that take words rather than numbers
var wordArgs = map[string]bool{"watch": true, "raw": true}

// run parses one input line and executes it
func (sh *shell) run(ctx context.Context, line string) error {
	tokens, err := shlex.Split(line)
	if err != nil {
		return fmt.Errorf("parse: %w", err)
	}
	if len(tokens) == 0 {
		return nil
	}

	name := strings.ToLower(tokens[0])
	if name == "exit" {
		name = "quit"
	}
	cmd, ok := cliCommands[name]
	if !ok {
		return fmt.Errorf("unknown command %q (type help)", tokens[0])
	}
	args := tokens[1:]
	if len(args) < cmd.MinArgs || len(args) > cmd.MaxArgs {
		return fmt.Errorf("usage: %s", cmd.Usage)
	}

	var nums []int
	if !wordArgs[name] {
		nums = make([]int, len(args))
		for i, a := range args {
			n, err := strconv.Atoi(a)
			if err != nil {
				return fmt.Errorf("usage: %s", cmd.Usage)
			}
			nums[i] = n
		}
	}
	return cmd.Handler(ctx, sh, nums, args)
}

func cmdStop(ctx context.Context, sh *shell, _ []int, _ []string) error {
	if err := sh.car.Stop(ctx); err != nil {
		return err
	}
	fmt.Fprintln(sh.out, "stopped")
	return nil
}

func cmdDrive(ctx context.Context, sh *shell, args []int, _ []string) error {
	speeds, err := sh.car.Drive(ctx, args[0])
	if err != nil {
		return err
	}
	printSpeeds(sh.out, speeds)
	return nil
}

func cmdTurn(ctx context.Context, sh *shell, args []int, _ []string) error {
	speeds, err := sh.car.Turn(ctx, args[0], args[1])
	if err != nil {
		return err
	}
	printSpeeds(sh.out, speeds)
	return nil
}

func cmdWheels(ctx context.Context, sh *shell, args []int, _ []string) error {
	speeds, err := sh.car.Wheels(ctx, [4]int{args[0], args[1], args[2], args[3]})
	if err != nil {
		return err
	}
	printSpeeds(sh.out, speeds)
	return nil
}

func cmdRange(ctx context.Context, sh *shell, args []int, _ []string) error {
	req := car.DefaultRangeRequest()
	if len(args) > 0 {
		req.Angle = args[0]
	}
	if len(args) > 1 {
		req.Attempts = args[1]
	}
	if len(args) > 2 {
		req.RangeCM = args[2]
	}

	reading, err := sh.car.FindRange(ctx, req)
	if err != nil {
		return err
	}
	if !reading.InRange() {
		fmt.Fprintf(sh.out, "nothing within %d cm at %d°\n", req.Normalize().RangeCM, reading.Angle)
		return nil
	}
	fmt.Fprintf(sh.out, "%d cm at %d°\n", reading.DistanceCM, reading.Angle)
	return nil
}

func cmdWatch(_ context.Context, sh *shell, _ []int, args []string) error {
	if sh.watchdog == nil {
		return errors.New("watchdog disabled in config")
	}
	switch strings.ToLower(args[0]) {
	case "on":
		sh.watchdog.SetEnabled(true)
	case "off":
		sh.watchdog.SetEnabled(false)
	default:
		return errors.New("usage: watch on|off")
	}
	fmt.Fprintf(sh.out, "watchdog %s\n", strings.ToLower(args[0]))
	return nil
}

func cmdRaw(ctx context.Context, sh *shell, _ []int, args []string) error {
	r, err := sh.car.Raw(ctx, args[0])
	if err != nil {
		return err
	}
	if rerr := r.Err(); rerr != nil {
		fmt.Fprintf(sh.out, "error: %v\n", rerr)
		return nil
	}
	fmt.Fprintf(sh.out, "%s #%d %s\n", r.Code, r.ID, strings.Join(r.Fields, " "))
	return nil
}

func cmdHelp(_ context.Context, sh *shell, _ []int, _ []string) error {
	names := make([]string, 0, len(cliCommands))
	for name := range cliCommands {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		c := cliCommands[name]
		fmt.Fprintf(sh.out, "  %-34s %s\n", c.Usage, c.Description)
	}
	return nil
}

func cmdQuit(context.Context, *shell, []int, []string) error {
	return errQuit
}

// complete offers command names for the line editor
func complete(line string) (c []string) {
	for name := range cliCommands {
		if strings.HasPrefix(name, strings.ToLower(line)) {
			c = append(c, name)
		}
	}
	sort.Strings(c)
	return
}

func printSpeeds(w io.Writer, s car.WheelSpeeds) {
	fmt.Fprintf(w, "FL %d  FR %d  RL %d  RR %d\n", s[0], s[1], s[2], s[3])
}
