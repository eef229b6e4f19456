package live

import (
	"context"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/myday-app/myday/internal/record"
	"github.com/myday-app/myday/internal/store"
)

func testHub(t *testing.T) *Hub {
	t.Helper()
	s, err := store.Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("store.Open() failed: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return NewHub(s)
}

// recv pulls the next emission or fails the test.
func recv[T any](t *testing.T, sub *Subscription[T]) T {
	t.Helper()
	select {
	case v, ok := <-sub.Updates():
		if !ok {
			t.Fatal("subscription channel closed")
		}
		return v
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for emission")
		panic("unreachable")
	}
}

func TestSubscribeTaskLists_PrimesWithCurrent(t *testing.T) {
	h := testHub(t)
	ctx := context.Background()

	list := record.NewTaskList("General")
	if err := h.InsertTaskList(ctx, list); err != nil {
		t.Fatalf("InsertTaskList() failed: %v", err)
	}

	sub, err := h.SubscribeTaskLists(ctx)
	if err != nil {
		t.Fatalf("SubscribeTaskLists() failed: %v", err)
	}
	defer sub.Cancel()

	first := recv(t, sub)
	if len(first) != 1 || first[0].ID != list.ID {
		t.Errorf("initial emission = %+v, want the existing list", first)
	}
}

func TestWrite_EmitsToSubscribers(t *testing.T) {
	h := testHub(t)
	ctx := context.Background()

	list := record.NewTaskList("General")
	if err := h.InsertTaskList(ctx, list); err != nil {
		t.Fatalf("InsertTaskList() failed: %v", err)
	}

	sub, err := h.SubscribeTasks(ctx)
	if err != nil {
		t.Fatalf("SubscribeTasks() failed: %v", err)
	}
	defer sub.Cancel()

	if initial := recv(t, sub); len(initial) != 0 {
		t.Fatalf("initial emission = %+v, want empty", initial)
	}

	task := record.NewTask("water plants", "Someday", list.ID)
	if err := h.InsertTask(ctx, task); err != nil {
		t.Fatalf("InsertTask() failed: %v", err)
	}

	next := recv(t, sub)
	if len(next) != 1 || next[0].Description != "water plants" {
		t.Errorf("emission after write = %+v, want the new task", next)
	}
}

func TestSubscribeTasksForList_FiltersAndShares(t *testing.T) {
	h := testHub(t)
	ctx := context.Background()

	a := record.NewTaskList("A")
	b := record.NewTaskList("B")
	for _, l := range []record.TaskList{a, b} {
		if err := h.InsertTaskList(ctx, l); err != nil {
			t.Fatalf("InsertTaskList() failed: %v", err)
		}
	}

	subA, err := h.SubscribeTasksForList(ctx, a.ID)
	if err != nil {
		t.Fatalf("SubscribeTasksForList() failed: %v", err)
	}
	defer subA.Cancel()
	recv(t, subA)

	if err := h.InsertTask(ctx, record.NewTask("for B", "Someday", b.ID)); err != nil {
		t.Fatalf("InsertTask() failed: %v", err)
	}
	// The write to B republishes A's feed too (shared recompute), but
	// A's subset stays empty.
	if got := recv(t, subA); len(got) != 0 {
		t.Errorf("list A emission after write to B = %+v, want empty", got)
	}

	inA := record.NewTask("for A", "Someday", a.ID)
	if err := h.InsertTask(ctx, inA); err != nil {
		t.Fatalf("InsertTask() failed: %v", err)
	}
	got := recv(t, subA)
	if len(got) != 1 || got[0].ID != inA.ID {
		t.Errorf("list A emission = %+v, want its own task", got)
	}
}

func TestDeleteTaskList_CascadeEmitsTaskFeeds(t *testing.T) {
	h := testHub(t)
	ctx := context.Background()

	list := record.NewTaskList("Doomed")
	if err := h.InsertTaskList(ctx, list); err != nil {
		t.Fatalf("InsertTaskList() failed: %v", err)
	}
	if err := h.InsertTask(ctx, record.NewTask("t1", "Someday", list.ID)); err != nil {
		t.Fatalf("InsertTask() failed: %v", err)
	}

	sub, err := h.SubscribeTasks(ctx)
	if err != nil {
		t.Fatalf("SubscribeTasks() failed: %v", err)
	}
	defer sub.Cancel()
	if initial := recv(t, sub); len(initial) != 1 {
		t.Fatalf("initial emission = %+v, want one task", initial)
	}

	if err := h.DeleteTaskList(ctx, list.ID); err != nil {
		t.Fatalf("DeleteTaskList() failed: %v", err)
	}

	// A single emission reflects the whole cascade; no intermediate
	// state with orphaned tasks is observable.
	if after := recv(t, sub); len(after) != 0 {
		t.Errorf("emission after cascade = %+v, want empty", after)
	}
}

func TestSubscribeNote_TracksOneNote(t *testing.T) {
	h := testHub(t)
	ctx := context.Background()

	note := record.NewNote("T", "C")
	if err := h.InsertNote(ctx, note); err != nil {
		t.Fatalf("InsertNote() failed: %v", err)
	}

	sub, err := h.SubscribeNote(ctx, note.ID)
	if err != nil {
		t.Fatalf("SubscribeNote() failed: %v", err)
	}
	defer sub.Cancel()

	if first := recv(t, sub); first == nil || first.Title != "T" {
		t.Fatalf("initial emission = %+v", first)
	}

	note.Content = "C2"
	if err := h.UpdateNote(ctx, note); err != nil {
		t.Fatalf("UpdateNote() failed: %v", err)
	}
	if updated := recv(t, sub); updated == nil || updated.Content != "C2" {
		t.Errorf("emission after update = %+v", updated)
	}

	if err := h.DeleteNote(ctx, note.ID); err != nil {
		t.Fatalf("DeleteNote() failed: %v", err)
	}
	if gone := recv(t, sub); gone != nil {
		t.Errorf("emission after delete = %+v, want nil", gone)
	}
}

func TestSubscription_ConflatesToNewest(t *testing.T) {
	h := testHub(t)
	ctx := context.Background()

	list := record.NewTaskList("General")
	if err := h.InsertTaskList(ctx, list); err != nil {
		t.Fatalf("InsertTaskList() failed: %v", err)
	}

	sub, err := h.SubscribeTasks(ctx)
	if err != nil {
		t.Fatalf("SubscribeTasks() failed: %v", err)
	}
	defer sub.Cancel()

	// Don't consume anything; pile up writes.
	for i := 0; i < 5; i++ {
		if err := h.InsertTask(ctx, record.NewTask("task", "Someday", list.ID)); err != nil {
			t.Fatalf("InsertTask() failed: %v", err)
		}
	}

	// The single buffered emission is the newest snapshot.
	got := recv(t, sub)
	if len(got) != 5 {
		t.Errorf("conflated emission has %d tasks, want 5", len(got))
	}
}

func TestSubscription_Cancel(t *testing.T) {
	h := testHub(t)
	ctx := context.Background()

	sub, err := h.SubscribeTasks(ctx)
	if err != nil {
		t.Fatalf("SubscribeTasks() failed: %v", err)
	}
	recv(t, sub)
	sub.Cancel()

	if _, ok := <-sub.Updates(); ok {
		t.Error("channel still open after Cancel")
	}

	// Cancelling must not affect the store.
	list := record.NewTaskList("after cancel")
	if err := h.InsertTaskList(ctx, list); err != nil {
		t.Fatalf("InsertTaskList() after cancel failed: %v", err)
	}

	sub.Cancel() // double cancel is safe
}

type recordingListener struct {
	mu      sync.Mutex
	commits []string
}

func (l *recordingListener) OnCommit(kind record.Kind, action Action, id string) {
	l.mu.Lock()
	l.commits = append(l.commits, string(kind)+"/"+string(action))
	l.mu.Unlock()
}

func TestListener_SeesCommits(t *testing.T) {
	h := testHub(t)
	ctx := context.Background()

	ln := &recordingListener{}
	h.AddListener(ln)

	list := record.NewTaskList("General")
	if err := h.InsertTaskList(ctx, list); err != nil {
		t.Fatalf("InsertTaskList() failed: %v", err)
	}
	if err := h.DeleteTaskList(ctx, list.ID); err != nil {
		t.Fatalf("DeleteTaskList() failed: %v", err)
	}

	ln.mu.Lock()
	defer ln.mu.Unlock()
	want := []string{"task_list/inserted", "task_list/deleted"}
	if len(ln.commits) != len(want) {
		t.Fatalf("commits = %v, want %v", ln.commits, want)
	}
	for i := range want {
		if ln.commits[i] != want[i] {
			t.Errorf("commit[%d] = %s, want %s", i, ln.commits[i], want[i])
		}
	}
}

func TestFailedWrite_NoEmission(t *testing.T) {
	h := testHub(t)
	ctx := context.Background()

	sub, err := h.SubscribeTasks(ctx)
	if err != nil {
		t.Fatalf("SubscribeTasks() failed: %v", err)
	}
	defer sub.Cancel()
	recv(t, sub)

	// FK violation: the write fails and nothing is published.
	if err := h.InsertTask(ctx, record.NewTask("orphan", "Someday", "no-such-list")); err == nil {
		t.Fatal("InsertTask() accepted an orphan")
	}

	select {
	case got := <-sub.Updates():
		t.Errorf("emission after failed write: %+v", got)
	case <-time.After(100 * time.Millisecond):
	}
}
