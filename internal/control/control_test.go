package control

import (
	"errors"
	"strings"
	"testing"

	"golang.org/x/sys/unix"

	"github.com/7c/procmon/internal/collector"
	"github.com/7c/procmon/internal/model"
)

type sentSignal struct {
	pid  int
	kind collector.SignalKind
}

type fakeSignaler struct {
	sent []sentSignal
	live map[int]bool
}

func (f *fakeSignaler) Signal(pid int, kind collector.SignalKind) error {
	f.sent = append(f.sent, sentSignal{pid, kind})
	if !f.live[pid] {
		return &collector.SignalError{PID: pid, Kind: kind, Err: unix.ESRCH}
	}
	return nil
}

type fakeMeta map[int][]string

func (f fakeMeta) RawMetadata(pid int) ([]string, error) {
	lines, ok := f[pid]
	if !ok {
		return nil, errors.New("no such process")
	}
	return lines, nil
}

func newTestController() (*Controller, *fakeSignaler) {
	sig := &fakeSignaler{live: map[int]bool{100: true}}
	meta := fakeMeta{100: {"Name: sleep", "State: S"}}
	return New(model.ByPID, sig, meta, nil), sig
}

func TestCancelTokensNeverSignal(t *testing.T) {
	actions := []Key{KeyKill, KeySuspend, KeyResume, KeyDetails}
	tokens := []string{"b", "B", "", "   ", " b "}

	for _, k := range actions {
		for _, tok := range tokens {
			c, sig := newTestController()
			c.HandleKey(k)
			if c.State() != AwaitingTarget {
				t.Fatalf("key %d: state = %s, want awaiting-target", k, c.State())
			}
			if err := c.SubmitTarget(tok); err != nil {
				t.Errorf("SubmitTarget(%q) error: %v", tok, err)
			}
			if c.State() != Browsing {
				t.Errorf("SubmitTarget(%q): state = %s, want browsing", tok, c.State())
			}
			if len(sig.sent) != 0 {
				t.Errorf("SubmitTarget(%q) sent %v", tok, sig.sent)
			}
		}
	}
}

func TestKillNonexistentPID(t *testing.T) {
	c, sig := newTestController()
	c.HandleKey(KeyKill)
	if err := c.SubmitTarget("99999"); err != nil {
		t.Fatalf("SubmitTarget: %v", err)
	}
	if len(sig.sent) != 1 || sig.sent[0].pid != 99999 || sig.sent[0].kind != collector.Terminate {
		t.Fatalf("sent = %v", sig.sent)
	}
	if c.State() != ShowingMessage {
		t.Fatalf("state = %s, want showing-message", c.State())
	}
	want := "Failed to kill PID 99999: no such process."
	if c.Message() != want {
		t.Errorf("Message = %q, want %q", c.Message(), want)
	}

	c.HandleKey(KeyOther)
	if c.State() != Browsing {
		t.Errorf("state after key = %s, want browsing", c.State())
	}
	if c.Message() != "" {
		t.Errorf("message not cleared: %q", c.Message())
	}
}

func TestSignalSuccessMessages(t *testing.T) {
	tests := []struct {
		key  Key
		kind collector.SignalKind
		want string
	}{
		{KeyKill, collector.Terminate, "Process 100 killed."},
		{KeySuspend, collector.Suspend, "Process 100 suspended."},
		{KeyResume, collector.Resume, "Process 100 resumed."},
	}
	for _, tt := range tests {
		c, sig := newTestController()
		c.HandleKey(tt.key)
		if err := c.SubmitTarget(" 100 "); err != nil {
			t.Fatal(err)
		}
		if len(sig.sent) != 1 || sig.sent[0].kind != tt.kind {
			t.Errorf("sent = %v, want kind %v", sig.sent, tt.kind)
		}
		if c.State() != ShowingMessage || c.Message() != tt.want {
			t.Errorf("state = %s, message = %q, want %q", c.State(), c.Message(), tt.want)
		}
	}
}

func TestInvalidInput(t *testing.T) {
	for _, in := range []string{"abc", "-5", "0", "12x", "3.5", "4294967295", "4294967297"} {
		c, sig := newTestController()
		c.HandleKey(KeyKill)
		err := c.SubmitTarget(in)
		if !errors.Is(err, ErrInvalidInput) {
			t.Errorf("SubmitTarget(%q) = %v, want ErrInvalidInput", in, err)
		}
		if c.State() != Browsing {
			t.Errorf("SubmitTarget(%q): state = %s, want browsing", in, c.State())
		}
		if len(sig.sent) != 0 {
			t.Errorf("SubmitTarget(%q) sent a signal", in)
		}
		if !strings.Contains(c.Status(), "Invalid PID") {
			t.Errorf("status = %q, want invalid note", c.Status())
		}
	}
}

func TestDetails(t *testing.T) {
	c, _ := newTestController()
	c.HandleKey(KeyDetails)
	if err := c.SubmitTarget("100"); err != nil {
		t.Fatal(err)
	}
	if c.State() != ShowingDetails {
		t.Fatalf("state = %s, want showing-details", c.State())
	}
	if got := c.Details(); len(got) != 2 || got[0] != "Name: sleep" {
		t.Errorf("Details = %v", got)
	}
	c.HandleKey(KeyQuit)
	if c.State() != Browsing {
		t.Errorf("any key from details should browse, got %s", c.State())
	}

	c.HandleKey(KeyDetails)
	c.SubmitTarget("4242")
	if c.State() != ShowingMessage || !strings.HasPrefix(c.Message(), "Failed to read details for PID 4242") {
		t.Errorf("state = %s, message = %q", c.State(), c.Message())
	}
}

func TestSamplingGate(t *testing.T) {
	c, _ := newTestController()
	if !c.Sampling() {
		t.Fatal("browsing must sample")
	}
	c.HandleKey(KeyKill)
	if c.Sampling() {
		t.Error("prompt must pause sampling")
	}
	c.SubmitTarget("100")
	if c.Sampling() {
		t.Error("message must pause sampling")
	}
	c.HandleKey(KeyOther)
	if !c.Sampling() {
		t.Error("sampling should resume in browsing")
	}
}

func TestBrowsingKeys(t *testing.T) {
	c, _ := newTestController()
	c.View().SetVisibleRows(2)
	c.ApplySnapshot([]model.ProcessView{
		{ProcessSample: model.ProcessSample{PID: 3}, CPUPercent: 1, MemoryMB: 30},
		{ProcessSample: model.ProcessSample{PID: 1}, CPUPercent: 9, MemoryMB: 10},
		{ProcessSample: model.ProcessSample{PID: 2}, CPUPercent: 5, MemoryMB: 20},
	})

	if c.View().Views[0].PID != 1 {
		t.Fatalf("initial order should be by pid, got %d first", c.View().Views[0].PID)
	}
	c.HandleKey(KeySortCPU)
	if c.View().Mode != model.ByCPU || c.View().Views[0].PID != 1 {
		t.Errorf("sort cpu: mode %s first %d", c.View().Mode, c.View().Views[0].PID)
	}
	c.HandleKey(KeySortMemory)
	if c.View().Views[0].PID != 3 {
		t.Errorf("sort mem: first %d, want 3", c.View().Views[0].PID)
	}
	c.HandleKey(KeyDown)
	c.HandleKey(KeyDown)
	if c.View().Scroll != 1 {
		t.Errorf("Scroll = %d, want 1", c.View().Scroll)
	}
	c.HandleKey(KeyHome)
	if c.View().Scroll != 0 {
		t.Errorf("Home: Scroll = %d", c.View().Scroll)
	}
	c.HandleKey(KeySortPID)
	if c.View().Mode != model.ByPID {
		t.Errorf("mode = %s, want pid", c.View().Mode)
	}
	if c.State() != Browsing {
		t.Errorf("state = %s", c.State())
	}

	c.HandleKey(KeyQuit)
	if c.State() != Quit {
		t.Errorf("state = %s, want quit", c.State())
	}
}

func TestPromptIgnoresKeys(t *testing.T) {
	c, _ := newTestController()
	c.HandleKey(KeySuspend)
	c.HandleKey(KeyQuit)
	if c.State() != AwaitingTarget || c.Action() != Suspend {
		t.Errorf("state = %s action = %s", c.State(), c.Action())
	}
}

func TestParsePID(t *testing.T) {
	tests := []struct {
		in   string
		want int
		ok   bool
	}{
		{"1", 1, true},
		{" 4711\n", 4711, true},
		{"0", 0, false},
		{"-1", 0, false},
		{"abc", 0, false},
		{"", 0, false},
		{"2147483647", 2147483647, true},
		{"2147483648", 0, false},
		{"4294967295", 0, false},
		{"4294967297", 0, false},
	}
	for _, tt := range tests {
		got, err := ParsePID(tt.in)
		if (err == nil) != tt.ok || got != tt.want {
			t.Errorf("ParsePID(%q) = %d, %v", tt.in, got, err)
		}
	}
}
