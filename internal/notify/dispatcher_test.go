package notify

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/clinichq/portal-api/pkg/logging"
)

type fakeSender struct {
	mu       sync.Mutex
	sent     []EmailMessage
	failures int // fail this many sends before succeeding
	calls    int
}

func (f *fakeSender) Send(_ context.Context, msg EmailMessage) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.calls <= f.failures {
		return errors.New("smtp unavailable")
	}
	f.sent = append(f.sent, msg)
	return nil
}

func (f *fakeSender) sentCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.sent)
}

func (f *fakeSender) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

func testOpts() DispatcherOptions {
	return DispatcherOptions{
		Workers:     1,
		QueueSize:   4,
		MaxAttempts: 3,
		BaseDelay:   time.Millisecond,
		SendTimeout: time.Second,
	}
}

func TestDispatcherDelivers(t *testing.T) {
	sender := &fakeSender{}
	d := NewDispatcher(sender, nil, logging.Default(), testOpts())

	if !d.Enqueue(EmailMessage{To: "pat@example.com", Subject: "hello"}) {
		t.Fatal("expected enqueue to succeed")
	}
	d.Close()

	if sender.sentCount() != 1 {
		t.Fatalf("expected 1 delivery, got %d", sender.sentCount())
	}
}

func TestDispatcherRetriesThenSucceeds(t *testing.T) {
	sender := &fakeSender{failures: 2}
	d := NewDispatcher(sender, nil, logging.Default(), testOpts())

	d.Enqueue(EmailMessage{To: "pat@example.com"})
	d.Close()

	if sender.sentCount() != 1 {
		t.Fatalf("expected eventual delivery, got %d", sender.sentCount())
	}
	if sender.callCount() != 3 {
		t.Fatalf("expected 3 attempts, got %d", sender.callCount())
	}
}

func TestDispatcherGivesUpAfterMaxAttempts(t *testing.T) {
	sender := &fakeSender{failures: 100}
	d := NewDispatcher(sender, nil, logging.Default(), testOpts())

	d.Enqueue(EmailMessage{To: "pat@example.com"})
	d.Close()

	if sender.sentCount() != 0 {
		t.Fatalf("expected no delivery, got %d", sender.sentCount())
	}
	if sender.callCount() != 3 {
		t.Fatalf("expected exactly max attempts, got %d", sender.callCount())
	}
}

type blockingSender struct {
	release chan struct{}
}

func (b *blockingSender) Send(context.Context, EmailMessage) error {
	<-b.release
	return nil
}

func TestDispatcherDropsWhenFull(t *testing.T) {
	sender := &blockingSender{release: make(chan struct{})}
	opts := testOpts()
	opts.QueueSize = 1
	d := NewDispatcher(sender, nil, logging.Default(), opts)

	// First message occupies the worker, second fills the queue.
	d.Enqueue(EmailMessage{To: "a@example.com"})
	d.Enqueue(EmailMessage{To: "b@example.com"})

	// Queue may still have room depending on scheduling; saturate it.
	dropped := false
	for i := 0; i < 8; i++ {
		if !d.Enqueue(EmailMessage{To: "c@example.com"}) {
			dropped = true
			break
		}
	}
	if !dropped {
		t.Fatal("expected a drop once the queue was saturated")
	}

	close(sender.release)
	d.Close()
}

func TestDispatcherCloseDrains(t *testing.T) {
	sender := &fakeSender{}
	opts := testOpts()
	opts.QueueSize = 8
	d := NewDispatcher(sender, nil, logging.Default(), opts)

	for i := 0; i < 5; i++ {
		d.Enqueue(EmailMessage{To: "pat@example.com"})
	}
	d.Close()

	if sender.sentCount() != 5 {
		t.Fatalf("expected all queued messages delivered before close, got %d", sender.sentCount())
	}
}
