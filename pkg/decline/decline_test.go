package decline

import (
	"testing"

	"pgregory.net/rapid"
)

func pressN(m Machine, n int) (Machine, []Step) {
	var steps []Step
	for i := 0; i < n; i++ {
		var s Step
		m, s = m.Decline()
		steps = append(steps, s)
	}
	return m, steps
}

func TestNew_Idle(t *testing.T) {
	m := New(DefaultConfig())
	if m.Count() != 0 || m.Phase() != Idle {
		t.Fatalf("expected idle machine, got count=%d phase=%s", m.Count(), m.Phase())
	}
	if !m.DeclineAvailable() {
		t.Fatal("decline control should be available on a fresh mount")
	}
	if m.Message() != DefaultMessages[0] {
		t.Fatalf("unexpected first message %q", m.Message())
	}
	if m.Reaction() != "" {
		t.Fatalf("expected no reaction before first press, got %q", m.Reaction())
	}
	if m.YesScale() != 1 {
		t.Fatalf("expected YesScale 1, got %v", m.YesScale())
	}
}

func TestDecline_BelowThresholdNeverAutoConfirms(t *testing.T) {
	cfg := DefaultConfig()
	m, steps := pressN(New(cfg), cfg.Threshold-1)

	for i, s := range steps {
		if s != StepNone {
			t.Fatalf("press %d returned %v, want StepNone", i+1, s)
		}
	}
	if m.Phase() != Evading {
		t.Fatalf("expected Evading, got %s", m.Phase())
	}
	if !m.DeclineAvailable() {
		t.Fatal("decline should still be available one press short of threshold")
	}
	if m.Committed() {
		t.Fatal("machine should not be committed")
	}
}

func TestDecline_ThresholdRunsAutoConfirmSequence(t *testing.T) {
	cfg := DefaultConfig()
	m, steps := pressN(New(cfg), cfg.Threshold)

	if last := steps[len(steps)-1]; last != StepScheduleLoading {
		t.Fatalf("threshold press returned %v, want StepScheduleLoading", last)
	}
	if m.Phase() != AutoConfirming || m.DeclineAvailable() {
		t.Fatalf("expected AutoConfirming with decline hidden, got %s avail=%v", m.Phase(), m.DeclineAvailable())
	}
	if m.Message() != "I'll take that as a yes" {
		t.Fatalf("unexpected committed message %q", m.Message())
	}

	// Further presses are ignored.
	m2, s := m.Decline()
	if s != StepNone || m2.Count() != cfg.Threshold {
		t.Fatalf("press past threshold changed state: step=%v count=%d", s, m2.Count())
	}

	m, s = m.LoadingDue()
	if s != StepScheduleConfirm || !m.Loading() {
		t.Fatalf("LoadingDue: step=%v loading=%v", s, m.Loading())
	}
	m, s = m.ConfirmDue()
	if s != StepConfirm || m.Phase() != Confirmed {
		t.Fatalf("ConfirmDue: step=%v phase=%s", s, m.Phase())
	}

	// Late timer deliveries are harmless.
	if _, s := m.ConfirmDue(); s != StepNone {
		t.Fatalf("second ConfirmDue returned %v", s)
	}
	if _, s := m.LoadingDue(); s != StepNone {
		t.Fatalf("late LoadingDue returned %v", s)
	}
}

func TestLoadingDue_IgnoredBeforeThreshold(t *testing.T) {
	m, _ := pressN(New(DefaultConfig()), 2)
	if _, s := m.LoadingDue(); s != StepNone {
		t.Fatalf("LoadingDue before threshold returned %v", s)
	}
	if _, s := m.ConfirmDue(); s != StepNone {
		t.Fatalf("ConfirmDue before loading returned %v", s)
	}
}

func TestMessageAt_Clamps(t *testing.T) {
	list := []string{"a", "b", "c"}
	tests := []struct {
		count int
		want  string
	}{
		{-3, "a"},
		{0, "a"},
		{1, "b"},
		{2, "c"},
		{3, "c"},
		{100, "c"},
	}
	for _, tt := range tests {
		if got := MessageAt(list, tt.count); got != tt.want {
			t.Errorf("MessageAt(%d) = %q, want %q", tt.count, got, tt.want)
		}
	}
	if got := MessageAt(nil, 5); got != "" {
		t.Errorf("MessageAt(nil) = %q, want empty", got)
	}
}

func TestOffsetAt(t *testing.T) {
	if o := OffsetAt(DefaultOffsets, 0); o != (Offset{Scale: 1}) {
		t.Errorf("rest offset = %+v", o)
	}
	for i, want := range DefaultOffsets {
		if got := OffsetAt(DefaultOffsets, i+1); got != want {
			t.Errorf("OffsetAt(%d) = %+v, want %+v", i+1, got, want)
		}
	}
	last := DefaultOffsets[len(DefaultOffsets)-1]
	if got := OffsetAt(DefaultOffsets, 99); got != last {
		t.Errorf("OffsetAt(99) = %+v, want last %+v", got, last)
	}
}

func TestReaction_Cycles(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Threshold = 20
	m, _ := pressN(New(cfg), len(cfg.Reactions)+1)
	if m.Reaction() != cfg.Reactions[0] {
		t.Fatalf("expected reactions to cycle, got %q", m.Reaction())
	}
}

func TestDodge(t *testing.T) {
	m, _ := pressN(New(DefaultConfig()), 1)
	if m.CanDodge() {
		t.Fatal("dodge should need two presses")
	}
	same := m.Dodge(Offset{X: 3, Y: 1})
	if same.Offset() != m.Offset() {
		t.Fatal("dodge before two presses should not move the control")
	}

	m, _ = m.Decline()
	d := m.Dodge(Offset{X: -7, Y: 2})
	if d.Count() != m.Count() {
		t.Fatal("dodge must not count as a press")
	}
	o := d.Offset()
	if o.X != -7 || o.Y != 2 {
		t.Fatalf("unexpected dodge offset %+v", o)
	}
	if o.Scale <= 0 || o.Scale >= 1 {
		t.Fatalf("dodge scale out of range: %v", o.Scale)
	}

	// The next press snaps back to the fixed table.
	d, _ = d.Decline()
	if d.Offset() != OffsetAt(DefaultOffsets, 3) {
		t.Fatalf("press after dodge should use fixed offset, got %+v", d.Offset())
	}
}

func TestNew_ClampsThreshold(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Threshold = 0
	m, s := New(cfg).Decline()
	if s != StepScheduleLoading || !m.Committed() {
		t.Fatalf("threshold 0 should behave as 1: step=%v phase=%s", s, m.Phase())
	}
}

func TestMachine_Properties(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		cfg := DefaultConfig()
		cfg.Threshold = rapid.IntRange(1, 12).Draw(t, "threshold")
		cfg.Messages = rapid.SliceOfN(rapid.String(), 1, 10).Draw(t, "messages")

		m := New(cfg)
		presses := rapid.IntRange(0, 30).Draw(t, "presses")
		prevCount, prevScale := m.Count(), m.YesScale()
		scheduled := 0
		for i := 0; i < presses; i++ {
			var s Step
			m, s = m.Decline()
			if s == StepScheduleLoading {
				scheduled++
			}
			if m.Count() < prevCount {
				t.Fatalf("count decreased from %d to %d", prevCount, m.Count())
			}
			if m.YesScale() < prevScale {
				t.Fatalf("yes scale decreased")
			}
			if m.Count() > cfg.Threshold {
				t.Fatalf("count %d exceeded threshold %d", m.Count(), cfg.Threshold)
			}
			// Never panics, always clamps.
			_ = m.Message()
			prevCount, prevScale = m.Count(), m.YesScale()
		}

		if presses >= cfg.Threshold {
			if scheduled != 1 || !m.Committed() {
				t.Fatalf("%d presses with threshold %d: scheduled=%d committed=%v", presses, cfg.Threshold, scheduled, m.Committed())
			}
		} else if scheduled != 0 || m.Committed() {
			t.Fatalf("%d presses with threshold %d should not commit", presses, cfg.Threshold)
		}

		want := cfg.Messages[min(m.Count(), len(cfg.Messages)-1)]
		if m.Message() != want {
			t.Fatalf("Message() = %q, want %q", m.Message(), want)
		}
	})
}
