package task

import (
	"context"
	"errors"
	"reflect"
	"testing"
)

type recordingTask struct {
	name     string
	startErr error
	events   *[]string
}

func (r *recordingTask) Name() string { return r.name }

func (r *recordingTask) Start(ctx context.Context) error {
	if r.startErr != nil {
		return r.startErr
	}
	*r.events = append(*r.events, "start "+r.name)
	return nil
}

func (r *recordingTask) Stop() error {
	*r.events = append(*r.events, "stop "+r.name)
	return nil
}

func TestManagerStartStopOrder(t *testing.T) {
	var events []string
	m := NewManager()
	m.Register(&recordingTask{name: "a", events: &events})
	m.Register(nil)
	m.Register(&recordingTask{name: "b", events: &events})

	if err := m.StartAll(context.Background()); err != nil {
		t.Fatalf("StartAll() error = %v", err)
	}
	if err := m.StartAll(context.Background()); err != nil {
		t.Fatalf("second StartAll() error = %v", err)
	}
	m.StopAll()
	m.StopAll()

	want := []string{"start a", "start b", "stop b", "stop a"}
	if !reflect.DeepEqual(events, want) {
		t.Errorf("events = %v, want %v", events, want)
	}
	if got := m.Names(); !reflect.DeepEqual(got, []string{"a", "b"}) {
		t.Errorf("Names() = %v", got)
	}
}

func TestManagerStartFailureUnwinds(t *testing.T) {
	var events []string
	boom := errors.New("boom")
	m := NewManager()
	m.Register(&recordingTask{name: "a", events: &events})
	m.Register(&recordingTask{name: "b", startErr: boom, events: &events})

	if err := m.StartAll(context.Background()); !errors.Is(err, boom) {
		t.Fatalf("StartAll() error = %v, want %v", err, boom)
	}
	want := []string{"start a", "stop a"}
	if !reflect.DeepEqual(events, want) {
		t.Errorf("events = %v, want %v", events, want)
	}
}
