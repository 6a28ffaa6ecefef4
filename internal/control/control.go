// Package control implements the interaction state machine that sits
// between key input and the process table: browsing, prompting for a pid,
// and showing the result of an action.
package control

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math"
	"strconv"
	"strings"

	"github.com/7c/procmon/internal/collector"
	"github.com/7c/procmon/internal/model"
	"github.com/7c/procmon/internal/view"
)

// ErrInvalidInput is returned by SubmitTarget for input that is neither a
// cancel token nor a positive pid.
var ErrInvalidInput = errors.New("invalid pid")

// State is the controller's current mode.
type State int

const (
	Browsing State = iota
	AwaitingTarget
	ShowingMessage
	ShowingDetails
	Quit
)

func (s State) String() string {
	switch s {
	case Browsing:
		return "browsing"
	case AwaitingTarget:
		return "awaiting-target"
	case ShowingMessage:
		return "showing-message"
	case ShowingDetails:
		return "showing-details"
	case Quit:
		return "quit"
	}
	return "unknown"
}

// Action is what a pid prompt will do once submitted.
type Action int

const (
	NoAction Action = iota
	Kill
	Suspend
	Resume
	Details
)

func (a Action) String() string {
	switch a {
	case Kill:
		return "kill"
	case Suspend:
		return "suspend"
	case Resume:
		return "resume"
	case Details:
		return "details"
	}
	return "none"
}

func (a Action) signal() collector.SignalKind {
	switch a {
	case Suspend:
		return collector.Suspend
	case Resume:
		return collector.Resume
	default:
		return collector.Terminate
	}
}

// Key is a decoded key press. The renderer owns the mapping from raw keys.
type Key int

const (
	KeyOther Key = iota
	KeyQuit
	KeyUp
	KeyDown
	KeyPageUp
	KeyPageDown
	KeyHome
	KeyEnd
	KeySortCPU
	KeySortMemory
	KeySortPID
	KeyKill
	KeySuspend
	KeyResume
	KeyDetails
)

// Controller owns the view state and routes input to it. It is not safe for
// concurrent use; the event loop calls it from a single goroutine.
type Controller struct {
	state    State
	action   Action
	view     *view.State
	signaler collector.Signaler
	meta     collector.MetadataReader
	logger   *slog.Logger

	message string
	details []string
	status  string
}

// New creates a controller in the Browsing state.
func New(mode model.SortMode, signaler collector.Signaler, meta collector.MetadataReader, logger *slog.Logger) *Controller {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Controller{
		state:    Browsing,
		view:     view.NewState(mode),
		signaler: signaler,
		meta:     meta,
		logger:   logger,
	}
}

func (c *Controller) State() State       { return c.state }
func (c *Controller) Action() Action     { return c.action }
func (c *Controller) View() *view.State  { return c.view }
func (c *Controller) Message() string    { return c.message }
func (c *Controller) Details() []string  { return c.details }
func (c *Controller) Status() string     { return c.status }
func (c *Controller) ClearStatus()       { c.status = "" }
func (c *Controller) SetStatus(s string) { c.status = s }

// Sampling reports whether a sampling cycle may run. Only Browsing samples;
// a prompt, message or details screen freezes the table.
func (c *Controller) Sampling() bool { return c.state == Browsing }

// ApplySnapshot feeds a completed cycle into the view.
func (c *Controller) ApplySnapshot(views []model.ProcessView) {
	c.view.SetSnapshot(views)
}

// HandleKey applies one key press. Keys pressed while a prompt is open are
// ignored; the prompt consumes them and calls SubmitTarget.
func (c *Controller) HandleKey(k Key) {
	switch c.state {
	case ShowingMessage, ShowingDetails:
		c.toBrowsing()
		return
	case AwaitingTarget, Quit:
		return
	}

	switch k {
	case KeyQuit:
		c.state = Quit
	case KeyUp:
		c.view.ScrollUp()
	case KeyDown:
		c.view.ScrollDown()
	case KeyPageUp:
		c.view.PageUp()
	case KeyPageDown:
		c.view.PageDown()
	case KeyHome:
		c.view.Home()
	case KeyEnd:
		c.view.End()
	case KeySortCPU:
		c.view.SetSortMode(model.ByCPU)
	case KeySortMemory:
		c.view.SetSortMode(model.ByMemory)
	case KeySortPID:
		c.view.SetSortMode(model.ByPID)
	case KeyKill:
		c.prompt(Kill)
	case KeySuspend:
		c.prompt(Suspend)
	case KeyResume:
		c.prompt(Resume)
	case KeyDetails:
		c.prompt(Details)
	}
}

func (c *Controller) prompt(a Action) {
	c.state = AwaitingTarget
	c.action = a
	c.status = ""
}

func (c *Controller) toBrowsing() {
	c.state = Browsing
	c.action = NoAction
	c.message = ""
	c.details = nil
}

// IsCancel reports whether input is a prompt cancel token.
func IsCancel(input string) bool {
	s := strings.TrimSpace(input)
	return s == "" || s == "b" || s == "B"
}

// ParsePID parses a positive process id that fits in a pid_t.
func ParsePID(input string) (int, error) {
	pid, err := strconv.Atoi(strings.TrimSpace(input))
	if err != nil || pid <= 0 || pid > math.MaxInt32 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidInput, strings.TrimSpace(input))
	}
	return pid, nil
}

// SubmitTarget completes an open prompt. A cancel token returns to Browsing.
// Invalid input also returns to Browsing, leaves a status note and reports
// ErrInvalidInput. Signal failures are not returned; they become the message.
func (c *Controller) SubmitTarget(input string) error {
	if c.state != AwaitingTarget {
		return nil
	}
	action := c.action

	if IsCancel(input) {
		c.toBrowsing()
		return nil
	}
	pid, err := ParsePID(input)
	if err != nil {
		c.toBrowsing()
		c.status = fmt.Sprintf("Invalid PID %q, %s cancelled.", strings.TrimSpace(input), action)
		return err
	}

	if action == Details {
		c.showDetails(pid)
		return nil
	}
	c.sendSignal(pid, action.signal())
	return nil
}

func (c *Controller) showDetails(pid int) {
	if c.meta == nil {
		c.showMessage(fmt.Sprintf("Failed to read details for PID %d: not supported.", pid))
		return
	}
	lines, err := c.meta.RawMetadata(pid)
	if err != nil {
		c.logger.Debug("details read failed", "pid", pid, "error", err)
		c.showMessage(fmt.Sprintf("Failed to read details for PID %d: %v.", pid, err))
		return
	}
	c.action = NoAction
	c.details = lines
	c.state = ShowingDetails
}

func (c *Controller) sendSignal(pid int, kind collector.SignalKind) {
	if c.signaler == nil {
		c.showMessage(fmt.Sprintf("Failed to %s PID %d: not supported.", kind.Verb(), pid))
		return
	}
	if err := c.signaler.Signal(pid, kind); err != nil {
		reason := err.Error()
		var se *collector.SignalError
		if errors.As(err, &se) {
			reason = se.Reason()
		}
		c.logger.Info("signal failed", "pid", pid, "action", kind.Verb(), "error", err)
		c.showMessage(fmt.Sprintf("Failed to %s PID %d: %s.", kind.Verb(), pid, reason))
		return
	}
	c.logger.Info("signal sent", "pid", pid, "action", kind.Verb())
	c.showMessage(fmt.Sprintf("Process %d %s.", pid, kind.Past()))
}

func (c *Controller) showMessage(msg string) {
	c.action = NoAction
	c.message = msg
	c.state = ShowingMessage
}
