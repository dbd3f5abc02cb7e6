package spinner

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"
)

func TestSpinnerStartStop(t *testing.T) {
	var buf bytes.Buffer
	sp := New(context.Background(), &buf, "Collecting r/marathi...")

	if sp.IsActive() {
		t.Error("spinner should not be active before Start()")
	}

	sp.Start()
	if !sp.IsActive() {
		t.Error("spinner should be active after Start()")
	}

	// give the render goroutine a few frames
	time.Sleep(250 * time.Millisecond)
	sp.Stop()

	if sp.IsActive() {
		t.Error("spinner should not be active after Stop()")
	}

	output := buf.String()
	if !strings.Contains(output, "Collecting r/marathi...") {
		t.Error("output should carry the message")
	}

	hasFrame := false
	for _, frame := range sp.frames {
		if strings.Contains(output, frame) {
			hasFrame = true
			break
		}
	}
	if !hasFrame {
		t.Error("output should contain an animation frame")
	}

	// redirected output ends with a bare carriage return
	if !strings.HasSuffix(output, "\r") {
		t.Error("output should end with a carriage return")
	}
}

func TestSpinnerAdvanceShowsCount(t *testing.T) {
	var buf bytes.Buffer
	sp := New(context.Background(), &buf, "Classifying posts...")

	sp.Start()
	sp.Advance(3)
	sp.Advance(39)
	time.Sleep(250 * time.Millisecond)
	sp.Stop()

	if !strings.Contains(buf.String(), "(42 items)") {
		t.Errorf("output should show the live item count, got %q", buf.String())
	}
}

func TestSpinnerNoCountWhenZero(t *testing.T) {
	var buf bytes.Buffer
	sp := New(context.Background(), &buf, "Collecting content...")

	sp.Start()
	time.Sleep(250 * time.Millisecond)
	sp.Stop()

	if strings.Contains(buf.String(), "items)") {
		t.Errorf("output should omit the count until items arrive, got %q", buf.String())
	}
}

func TestSpinnerUpdateMessage(t *testing.T) {
	var buf bytes.Buffer
	sp := New(context.Background(), &buf, "Collecting r/marathi...")

	sp.UpdateMessage("Collecting r/mumbai...")
	if sp.message != "Collecting r/mumbai..." {
		t.Errorf("message = %q after UpdateMessage", sp.message)
	}
}

func TestSpinnerIdempotentStartStop(t *testing.T) {
	var buf bytes.Buffer
	sp := New(context.Background(), &buf, "Collecting content...")

	// stopping before starting is a no-op
	sp.Stop()
	if sp.IsActive() {
		t.Error("spinner should stay inactive after Stop() without Start()")
	}

	sp.Start()
	sp.Start() // second Start must not spawn a second goroutine
	if !sp.IsActive() {
		t.Error("spinner should be active after repeated Start()")
	}

	sp.Stop()
	sp.Stop() // second Stop must not block or panic
	if sp.IsActive() {
		t.Error("spinner should stay inactive after repeated Stop()")
	}
}
