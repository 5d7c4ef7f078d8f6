package persistence

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/bacstack/msv-go/pkg/bacnet"
	"github.com/bacstack/msv-go/pkg/model"
)

func newStore(t *testing.T) *model.Store {
	t.Helper()
	store := model.NewStore(3, model.WithIntrinsicReporting())
	for i := 0; i < store.Count(); i++ {
		r := store.Record(model.Index(i))
		if err := r.SetStates([]string{"Off", "On", "Auto"}); err != nil {
			t.Fatalf("SetStates failed: %v", err)
		}
		r.TimeDelay = 5
		r.RemainingTimeDelay = 5
	}
	return store
}

func TestSnapshotRestore(t *testing.T) {
	at := bacnet.DateTimeFromTime(time.Date(2026, 3, 14, 9, 26, 53, 0, time.UTC))

	src := newStore(t)
	r := src.Record(1)
	r.PriorityArray[7] = 2
	r.PriorityArray[15] = 3
	r.OutOfService = true
	r.EventState = bacnet.EventStateFault
	r.RemainingTimeDelay = 2
	r.AckedTransitions[bacnet.TransitionToFault] = model.AckedTransition{Acked: false, TimeStamp: at}
	r.EventTimeStamps[bacnet.TransitionToFault] = at
	r.AckNotify = model.PendingAck{Pending: true, EventState: bacnet.EventStateFault}

	objects := Snapshot(src)
	if len(objects) != 3 {
		t.Fatalf("Snapshot() returned %d objects, want 3", len(objects))
	}
	if objects[1].PriorityArray[0] != 0 || objects[1].PriorityArray[7] != 2 {
		t.Errorf("PriorityArray = %v", objects[1].PriorityArray)
	}

	dst := newStore(t)
	n, err := Restore(dst, objects)
	if err != nil {
		t.Fatalf("Restore() error = %v", err)
	}
	if n != 3 {
		t.Errorf("Restore() = %d, want 3", n)
	}

	got := dst.Record(1)
	if got.PriorityArray != r.PriorityArray {
		t.Errorf("PriorityArray = %v, want %v", got.PriorityArray, r.PriorityArray)
	}
	if !got.OutOfService {
		t.Error("OutOfService not restored")
	}
	if got.EventState != bacnet.EventStateFault {
		t.Errorf("EventState = %v, want FAULT", got.EventState)
	}
	if got.RemainingTimeDelay != 2 {
		t.Errorf("RemainingTimeDelay = %d, want 2", got.RemainingTimeDelay)
	}
	if got.AckedTransitions != r.AckedTransitions {
		t.Errorf("AckedTransitions = %v, want %v", got.AckedTransitions, r.AckedTransitions)
	}
	if got.EventTimeStamps != r.EventTimeStamps {
		t.Errorf("EventTimeStamps = %v, want %v", got.EventTimeStamps, r.EventTimeStamps)
	}
	if got.AckNotify != r.AckNotify {
		t.Errorf("AckNotify = %v, want %v", got.AckNotify, r.AckNotify)
	}

	untouched := dst.Record(0)
	if untouched.PriorityArray[0] != model.StateNull || untouched.EventState != bacnet.EventStateNormal {
		t.Errorf("record 0 changed: %+v", untouched)
	}
}

func TestRestoreSkipsStaleEntries(t *testing.T) {
	store := newStore(t)
	objects := []ObjectState{
		{Instance: 9},
		{Instance: 0, PriorityArray: [bacnet.MaxPriority]uint32{7, 2}, RemainingTimeDelay: 99},
	}

	n, err := Restore(store, objects)
	if err != nil {
		t.Fatalf("Restore() error = %v", err)
	}
	if n != 1 {
		t.Errorf("Restore() = %d, want 1", n)
	}

	r := store.Record(0)
	// 7 names no state.
	if r.PriorityArray[0] != model.StateNull {
		t.Errorf("slot 1 = %d, want NULL", r.PriorityArray[0])
	}
	if r.PriorityArray[1] != 2 {
		t.Errorf("slot 2 = %d, want 2", r.PriorityArray[1])
	}
	if r.RemainingTimeDelay != 5 {
		t.Errorf("RemainingTimeDelay = %d, want clamp to 5", r.RemainingTimeDelay)
	}
}

func TestRestoreWrittenSettings(t *testing.T) {
	src := newStore(t)
	r := src.Record(2)
	r.PresentValue = 3
	r.RelinquishDefault = 2
	r.TimeDelay = 9
	r.RemainingTimeDelay = 4
	r.NotificationClass = 7
	r.EventEnable = bacnet.EventEnableToFault
	r.NotifyType = bacnet.NotifyEvent

	dst := newStore(t)
	if _, err := Restore(dst, Snapshot(src)); err != nil {
		t.Fatalf("Restore() error = %v", err)
	}

	got := dst.Record(2)
	if got.PresentValue != 3 {
		t.Errorf("PresentValue = %d, want 3", got.PresentValue)
	}
	if got.RelinquishDefault != 2 {
		t.Errorf("RelinquishDefault = %d, want 2", got.RelinquishDefault)
	}
	if got.TimeDelay != 9 || got.RemainingTimeDelay != 4 {
		t.Errorf("TimeDelay = %d, RemainingTimeDelay = %d, want 9, 4", got.TimeDelay, got.RemainingTimeDelay)
	}
	if got.NotificationClass != 7 {
		t.Errorf("NotificationClass = %d, want 7", got.NotificationClass)
	}
	if got.EventEnable != bacnet.EventEnableToFault {
		t.Errorf("EventEnable = %v, want TO_FAULT only", got.EventEnable)
	}
	if got.NotifyType != bacnet.NotifyEvent {
		t.Errorf("NotifyType = %v, want EVENT", got.NotifyType)
	}
	if dst.Record(0).PresentValue != 0 {
		t.Errorf("record 0 PresentValue = %d, want 0", dst.Record(0).PresentValue)
	}
}

func TestRestoreRejectsInvalidSettings(t *testing.T) {
	objects := Snapshot(newStore(t))
	objects[0].Settings.NotifyType = bacnet.NotifyAckNotification
	if _, err := Restore(newStore(t), objects); err == nil {
		t.Error("Restore() expected error for ack notification notify type")
	}
}

func TestRestoreRejectsInvalidEventState(t *testing.T) {
	_, err := Restore(newStore(t), []ObjectState{{Instance: 0, EventState: 42}})
	if err == nil {
		t.Error("Restore() expected error for invalid event state")
	}
}

func TestDeviceStateStore(t *testing.T) {
	t.Run("SaveAndLoad", func(t *testing.T) {
		dir := t.TempDir()
		store := NewDeviceStateStore(filepath.Join(dir, "sub", "state.json"))

		state := &DeviceState{
			DeviceInstance: 260001,
			Objects:        Snapshot(newStore(t)),
		}
		if err := store.Save(state); err != nil {
			t.Fatalf("Save() error = %v", err)
		}
		if state.SavedAt.IsZero() {
			t.Error("SavedAt not set")
		}

		got, err := store.Load()
		if err != nil {
			t.Fatalf("Load() error = %v", err)
		}
		if got.Version != StateVersion {
			t.Errorf("Version = %d, want %d", got.Version, StateVersion)
		}
		if got.DeviceInstance != 260001 {
			t.Errorf("DeviceInstance = %d, want 260001", got.DeviceInstance)
		}
		if len(got.Objects) != 3 {
			t.Fatalf("len(Objects) = %d, want 3", len(got.Objects))
		}
		if !got.Objects[2].AckedTransitions[0].AckedAt.IsWildcard() {
			t.Errorf("AckedAt = %v, want wildcard", got.Objects[2].AckedTransitions[0].AckedAt)
		}

		if _, err := os.Stat(store.Path() + ".tmp"); !os.IsNotExist(err) {
			t.Error("temporary file left behind")
		}
	})

	t.Run("LoadNonExistent", func(t *testing.T) {
		store := NewDeviceStateStore(filepath.Join(t.TempDir(), "nonexistent.json"))

		got, err := store.Load()
		if err != nil {
			t.Fatalf("Load() error = %v", err)
		}
		if got != nil {
			t.Errorf("Load() = %v, want nil for non-existent file", got)
		}
	})

	t.Run("LoadNewerVersion", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "state.json")
		if err := os.WriteFile(path, []byte(`{"version": 99}`), 0644); err != nil {
			t.Fatal(err)
		}
		if _, err := NewDeviceStateStore(path).Load(); err == nil {
			t.Error("Load() expected error for newer version")
		}
	})

	t.Run("LoadCorrupt", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "state.json")
		if err := os.WriteFile(path, []byte("{"), 0644); err != nil {
			t.Fatal(err)
		}
		if _, err := NewDeviceStateStore(path).Load(); err == nil {
			t.Error("Load() expected error for corrupt file")
		}
	})

	t.Run("Clear", func(t *testing.T) {
		store := NewDeviceStateStore(filepath.Join(t.TempDir(), "state.json"))
		if err := store.Clear(); err != nil {
			t.Errorf("Clear() on missing file error = %v", err)
		}
		if err := store.Save(&DeviceState{}); err != nil {
			t.Fatalf("Save() error = %v", err)
		}
		if err := store.Clear(); err != nil {
			t.Fatalf("Clear() error = %v", err)
		}
		got, err := store.Load()
		if err != nil || got != nil {
			t.Errorf("Load() after Clear = %v, %v", got, err)
		}
	})
}
