// Package interactive provides the interactive command-line interface
// for the MSV device.
package interactive

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/chzyer/readline"

	"github.com/bacstack/msv-go/pkg/alarm"
	"github.com/bacstack/msv-go/pkg/bacnet"
	"github.com/bacstack/msv-go/pkg/inspect"
	"github.com/bacstack/msv-go/pkg/notification"
	"github.com/bacstack/msv-go/pkg/priority"
	"github.com/bacstack/msv-go/pkg/service"
)

// Shell handles interactive mode for msv-device.
type Shell struct {
	host      *service.Host
	inspector *inspect.Inspector
	formatter *inspect.Formatter
	rl        *readline.Instance
	out       io.Writer
}

// New creates a new shell. The readline instance is created first so the
// logger can write through it; Attach connects the host.
func New() (*Shell, error) {
	rl, err := readline.NewEx(&readline.Config{
		Prompt:          "msv> ",
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create readline: %w", err)
	}
	return &Shell{rl: rl, out: rl.Stdout(), formatter: inspect.NewFormatter()}, nil
}

// Attach connects the shell to host and prints routed notifications.
func (s *Shell) Attach(host *service.Host) {
	s.host = host
	s.inspector = inspect.NewInspector(host, host.PropertyLists())
	host.Router().OnNotification(s.handleNotification)
}

// Stdout returns a writer that properly coordinates with the readline input.
func (s *Shell) Stdout() io.Writer {
	return s.rl.Stdout()
}

// Stderr returns a writer that properly coordinates with the readline input.
// Use this for log output to avoid interfering with the command prompt.
func (s *Shell) Stderr() io.Writer {
	return s.rl.Stderr()
}

// Close releases the terminal.
func (s *Shell) Close() error {
	return s.rl.Close()
}

// Run starts the interactive command loop.
func (s *Shell) Run(ctx context.Context, cancel context.CancelFunc) {
	s.printHelp()

	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		line, err := s.rl.Readline()
		if err != nil {
			if errors.Is(err, readline.ErrInterrupt) {
				continue
			}
			fmt.Fprintln(s.out, "Exiting...")
			cancel()
			return
		}

		if !s.Exec(line) {
			fmt.Fprintln(s.out, "Exiting...")
			cancel()
			return
		}
	}
}

// Exec runs one command line. It returns false when the shell should exit.
func (s *Shell) Exec(line string) bool {
	parts := strings.Fields(line)
	if len(parts) == 0 {
		return true
	}
	cmd := strings.ToLower(parts[0])
	args := parts[1:]

	switch cmd {
	case "help", "?":
		s.printHelp()
	case "list", "ls":
		s.cmdList()
	case "inspect", "i":
		s.cmdInspect(args)
	case "read", "r":
		s.cmdRead(args)
	case "write", "w":
		s.cmdWrite(args)
	case "events", "ev":
		s.cmdEvents()
	case "alarms", "al":
		s.cmdAlarms()
	case "ack":
		s.cmdAck(args)
	case "tick":
		s.cmdTick()
	case "quit", "exit", "q":
		return false
	default:
		fmt.Fprintf(s.out, "Unknown command: %s (type 'help' for commands)\n", cmd)
	}
	return true
}

func (s *Shell) printHelp() {
	fmt.Fprintln(s.out, `
MSV Device Commands:
  Inspection:
    list                          - List objects with present value and event state
    inspect [instance]            - Show every property of an object (all objects if omitted)
    read <path>                   - Read a property
    write <path> <value> [prio]   - Write a property (priority 1-16, default 16)

  Alarms:
    events                        - Show event information (objects not NORMAL or unacknowledged)
    alarms                        - Show the alarm summary
    ack <instance> <state>        - Acknowledge the transition to state
    tick                          - Run the event state machine once

  General:
    help                          - Show this help
    quit                          - Exit device

  Path Format:
    instance/property[/index] - e.g., 0/present-value, 1/state-text/2, 0/85
    Write "null" to relinquish a priority slot.`)
}

func (s *Shell) cmdList() {
	objects := s.host.Objects()
	if len(objects) == 0 {
		fmt.Fprintln(s.out, "No objects")
		return
	}
	fmt.Fprintf(s.out, "%-24s %-20s %-16s %-4s %s\n", "Object", "Name", "Present Value", "OOS", "Event State")
	for _, o := range objects {
		pv := strconv.FormatUint(uint64(o.PresentValue), 10)
		if o.StateText != "" {
			pv = fmt.Sprintf("%s (%s)", pv, o.StateText)
		}
		oos := "-"
		if o.OutOfService {
			oos = "yes"
		}
		fmt.Fprintf(s.out, "%-24s %-20s %-16s %-4s %s\n", o.Object, o.Name, pv, oos, o.EventState)
	}
}

func (s *Shell) cmdInspect(args []string) {
	if len(args) == 0 {
		for _, o := range s.host.Objects() {
			s.inspectObject(o.Object.Instance)
		}
		return
	}
	path, err := inspect.ParsePath(args[0])
	if err != nil {
		fmt.Fprintf(s.out, "Invalid path: %v\n", err)
		return
	}
	if !path.IsPartial {
		s.cmdRead(args)
		return
	}
	s.inspectObject(path.Instance)
}

func (s *Shell) inspectObject(instance uint32) {
	info, err := s.inspector.InspectObject(instance, s.formatter)
	if err != nil {
		fmt.Fprintf(s.out, "Error: %v\n", err)
		return
	}
	fmt.Fprint(s.out, s.inspector.FormatObject(info, s.formatter))
}

func (s *Shell) cmdRead(args []string) {
	if len(args) < 1 {
		fmt.Fprintln(s.out, "Usage: read <path>")
		fmt.Fprintln(s.out, "  Example: read 0/present-value")
		return
	}
	path, err := inspect.ParsePath(args[0])
	if err != nil {
		fmt.Fprintf(s.out, "Invalid path: %v\n", err)
		return
	}
	value, err := s.inspector.ReadProperty(path, s.formatter)
	if err != nil {
		fmt.Fprintln(s.out, s.formatter.FormatError(err))
		return
	}
	fmt.Fprintf(s.out, "%s = %s\n", path, value)
}

func (s *Shell) cmdWrite(args []string) {
	if len(args) < 2 {
		fmt.Fprintln(s.out, "Usage: write <path> <value> [priority]")
		fmt.Fprintln(s.out, `  Example: write 0/present-value 2 8`)
		fmt.Fprintln(s.out, `  Example: write 0/object-name "Boiler pump"`)
		return
	}
	path, err := inspect.ParsePath(args[0])
	if err != nil {
		fmt.Fprintf(s.out, "Invalid path: %v\n", err)
		return
	}

	valueArgs := args[1:]
	prio := uint8(priority.MaxPriority)
	if len(valueArgs) > 1 {
		if p, err := strconv.ParseUint(valueArgs[len(valueArgs)-1], 10, 8); err == nil {
			if p < priority.MinPriority || p > priority.MaxPriority {
				fmt.Fprintf(s.out, "Priority must be %d-%d\n", priority.MinPriority, priority.MaxPriority)
				return
			}
			prio = uint8(p)
			valueArgs = valueArgs[:len(valueArgs)-1]
		}
	}

	if err := s.inspector.WriteProperty(path, strings.Join(valueArgs, " "), prio); err != nil {
		fmt.Fprintf(s.out, "Write failed: %v\n", err)
		return
	}
	fmt.Fprintln(s.out, "OK")
}

func (s *Shell) cmdEvents() {
	summaries := s.host.EventInformation()
	if len(summaries) == 0 {
		fmt.Fprintln(s.out, "No active events")
		return
	}
	for _, e := range summaries {
		fmt.Fprintf(s.out, "%s: %s (%s)\n", e.Object, e.EventState, e.NotifyType)
		fmt.Fprintf(s.out, "    acked:          %s\n", formatAcked(e.AcknowledgedTransitions))
		fmt.Fprintf(s.out, "    priorities:     %v\n", e.EventPriorities)
		for t, ts := range e.EventTimeStamps {
			fmt.Fprintf(s.out, "    %-14s %s\n", bacnet.Transition(t).String()+":", ts.DateTime)
		}
	}
}

func (s *Shell) cmdAlarms() {
	summaries := s.host.AlarmSummary()
	if len(summaries) == 0 {
		fmt.Fprintln(s.out, "No active alarms")
		return
	}
	for _, a := range summaries {
		fmt.Fprintf(s.out, "%s: %s acked %s\n", a.Object, a.AlarmState, formatAcked(a.AcknowledgedTransitions))
	}
}

func (s *Shell) cmdAck(args []string) {
	if len(args) < 2 {
		fmt.Fprintln(s.out, "Usage: ack <instance> <state>")
		fmt.Fprintln(s.out, "  Example: ack 0 offnormal")
		return
	}
	instance, err := strconv.ParseUint(args[0], 10, 32)
	if err != nil {
		fmt.Fprintf(s.out, "Invalid instance: %s\n", args[0])
		return
	}
	state, err := bacnet.ParseEventState(args[1])
	if err != nil {
		fmt.Fprintf(s.out, "Invalid state: %v\n", err)
		return
	}

	err = s.host.AcknowledgeAlarm(&alarm.AckRequest{
		Object:     bacnet.ObjectID{Type: bacnet.ObjectMultiStateValue, Instance: uint32(instance)},
		EventState: state,
		TimeStamp:  bacnet.DateTimeStamp(s.host.Device().DateTime()),
		Source:     "console",
	})
	if err != nil {
		fmt.Fprintf(s.out, "Ack failed: %v\n", err)
		return
	}
	fmt.Fprintln(s.out, "OK")
}

func (s *Shell) cmdTick() {
	notifications := s.host.Tick()
	if len(notifications) == 0 {
		fmt.Fprintln(s.out, "No transitions")
	}
}

func (s *Shell) handleNotification(d notification.Delivery) {
	n := d.Notification
	ack := ""
	if n.AckRequired {
		ack = " ack-required"
	}
	fmt.Fprintf(s.out, "[%s] %s %s -> %s priority %d%s\n",
		n.NotifyType, n.Object, n.FromState, n.ToState, n.Priority, ack)
}

func formatAcked(acked [bacnet.TransitionCount]bool) string {
	marks := make([]string, len(acked))
	for i, a := range acked {
		marks[i] = "F"
		if a {
			marks[i] = "T"
		}
	}
	return "{" + strings.Join(marks, ",") + "}"
}
