// Package live exposes continuously updated views over the record
// store. Consumers subscribe once and are pushed a fresh result set
// after every committing write that touches their query; nothing in the
// application re-polls.
//
// All mutations flow through the Hub. A single writer lock orders each
// commit with its re-query and publish, so the emission following a
// write always reflects that write. There is no stale-read window.
package live

import (
	"context"
	"fmt"
	"sync"

	"github.com/myday-app/myday/internal/record"
	"github.com/myday-app/myday/internal/store"
)

// Action describes what a commit did to a record, for change listeners.
type Action string

const (
	ActionInserted Action = "inserted"
	ActionUpdated  Action = "updated"
	ActionDeleted  Action = "deleted"
)

// Listener observes committed changes. Listeners are invoked after the
// corresponding feeds have been published, outside the writer lock.
type Listener interface {
	OnCommit(kind record.Kind, action Action, id string)
}

// Hub is the reactive query layer over one Store.
type Hub struct {
	store *store.Store

	// writeMu serializes commit -> recompute -> publish so emissions
	// are totally ordered with writes.
	writeMu sync.Mutex

	taskLists *feed[[]record.TaskList]
	tasks     *feed[[]record.Task]
	notes     *feed[[]record.Note]

	listMu  sync.Mutex
	perList map[string]*feed[[]record.Task]
	noteMu  sync.Mutex
	perNote map[string]*feed[*record.Note]

	lnMu      sync.Mutex
	listeners []Listener
}

// NewHub wraps a store in a reactive layer. The hub must be the only
// writer to the store for the ordering guarantee to hold.
func NewHub(s *store.Store) *Hub {
	return &Hub{
		store:     s,
		taskLists: newFeed[[]record.TaskList](),
		tasks:     newFeed[[]record.Task](),
		notes:     newFeed[[]record.Note](),
		perList:   make(map[string]*feed[[]record.Task]),
		perNote:   make(map[string]*feed[*record.Note]),
	}
}

// Store returns the underlying record store for read-only lookups.
func (h *Hub) Store() *store.Store {
	return h.store
}

// AddListener registers a commit listener.
func (h *Hub) AddListener(l Listener) {
	h.lnMu.Lock()
	h.listeners = append(h.listeners, l)
	h.lnMu.Unlock()
}

// ---- subscriptions ----

// SubscribeTaskLists yields all task lists, now and on every change.
func (h *Hub) SubscribeTaskLists(ctx context.Context) (*Subscription[[]record.TaskList], error) {
	h.writeMu.Lock()
	defer h.writeMu.Unlock()
	current, err := h.store.TaskLists(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to prime task list feed: %w", err)
	}
	return h.taskLists.subscribe(current), nil
}

// SubscribeTasks yields all tasks across all lists.
func (h *Hub) SubscribeTasks(ctx context.Context) (*Subscription[[]record.Task], error) {
	h.writeMu.Lock()
	defer h.writeMu.Unlock()
	current, err := h.store.Tasks(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to prime task feed: %w", err)
	}
	return h.tasks.subscribe(current), nil
}

// SubscribeTasksForList yields the tasks of one list. All subscribers
// of the same list share one feed; the per-list result is derived from
// the single all-tasks recomputation, once per commit.
func (h *Hub) SubscribeTasksForList(ctx context.Context, listID string) (*Subscription[[]record.Task], error) {
	h.writeMu.Lock()
	defer h.writeMu.Unlock()
	current, err := h.store.TasksForList(ctx, listID)
	if err != nil {
		return nil, fmt.Errorf("failed to prime task feed for list %s: %w", listID, err)
	}

	h.listMu.Lock()
	f, ok := h.perList[listID]
	if !ok {
		f = newFeed[[]record.Task]()
		h.perList[listID] = f
	}
	h.listMu.Unlock()
	return f.subscribe(current), nil
}

// SubscribeNotes yields all notes.
func (h *Hub) SubscribeNotes(ctx context.Context) (*Subscription[[]record.Note], error) {
	h.writeMu.Lock()
	defer h.writeMu.Unlock()
	current, err := h.store.Notes(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to prime note feed: %w", err)
	}
	return h.notes.subscribe(current), nil
}

// SubscribeNote yields a single note by id; nil is emitted once the
// note is deleted.
func (h *Hub) SubscribeNote(ctx context.Context, id string) (*Subscription[*record.Note], error) {
	h.writeMu.Lock()
	defer h.writeMu.Unlock()
	current, err := h.store.NoteByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to prime note feed for %s: %w", id, err)
	}

	h.noteMu.Lock()
	f, ok := h.perNote[id]
	if !ok {
		f = newFeed[*record.Note]()
		h.perNote[id] = f
	}
	h.noteMu.Unlock()
	return f.subscribe(current), nil
}

// ---- mutations ----

// InsertTaskList writes a list and republishes the task list feed.
func (h *Hub) InsertTaskList(ctx context.Context, list record.TaskList) error {
	return h.commit(ctx, record.KindTaskList, ActionInserted, list.ID, func() error {
		return h.store.InsertTaskList(ctx, list)
	})
}

// UpdateTaskList updates a list and republishes the task list feed.
func (h *Hub) UpdateTaskList(ctx context.Context, list record.TaskList) error {
	return h.commit(ctx, record.KindTaskList, ActionUpdated, list.ID, func() error {
		return h.store.UpdateTaskList(ctx, list)
	})
}

// DeleteTaskList deletes a list. The cascade removes its tasks in the
// same commit, so the task feeds republish too.
func (h *Hub) DeleteTaskList(ctx context.Context, id string) error {
	return h.commit(ctx, record.KindTaskList, ActionDeleted, id, func() error {
		return h.store.DeleteTaskList(ctx, id)
	})
}

// InsertTask writes a task and republishes the task feeds.
func (h *Hub) InsertTask(ctx context.Context, task record.Task) error {
	return h.commit(ctx, record.KindTask, ActionInserted, task.ID, func() error {
		return h.store.InsertTask(ctx, task)
	})
}

// UpdateTask updates a task and republishes the task feeds.
func (h *Hub) UpdateTask(ctx context.Context, task record.Task) error {
	return h.commit(ctx, record.KindTask, ActionUpdated, task.ID, func() error {
		return h.store.UpdateTask(ctx, task)
	})
}

// DeleteTask deletes a task and republishes the task feeds.
func (h *Hub) DeleteTask(ctx context.Context, id string) error {
	return h.commit(ctx, record.KindTask, ActionDeleted, id, func() error {
		return h.store.DeleteTask(ctx, id)
	})
}

// InsertNote writes a note and republishes the note feeds.
func (h *Hub) InsertNote(ctx context.Context, note record.Note) error {
	return h.commit(ctx, record.KindNote, ActionInserted, note.ID, func() error {
		return h.store.InsertNote(ctx, note)
	})
}

// UpdateNote updates a note and republishes the note feeds.
func (h *Hub) UpdateNote(ctx context.Context, note record.Note) error {
	return h.commit(ctx, record.KindNote, ActionUpdated, note.ID, func() error {
		return h.store.UpdateNote(ctx, note)
	})
}

// DeleteNote deletes a note and republishes the note feeds.
func (h *Hub) DeleteNote(ctx context.Context, id string) error {
	return h.commit(ctx, record.KindNote, ActionDeleted, id, func() error {
		return h.store.DeleteNote(ctx, id)
	})
}

// commit runs one mutation under the writer lock, then recomputes and
// publishes every feed the record kind can affect. Listeners fire after
// the lock is released so they observe a fully published commit.
func (h *Hub) commit(ctx context.Context, kind record.Kind, action Action, id string, write func() error) error {
	h.writeMu.Lock()
	err := write()
	if err == nil {
		h.republish(ctx, kind)
	}
	h.writeMu.Unlock()

	if err != nil {
		return err
	}

	h.lnMu.Lock()
	listeners := make([]Listener, len(h.listeners))
	copy(listeners, h.listeners)
	h.lnMu.Unlock()
	for _, l := range listeners {
		l.OnCommit(kind, action, id)
	}
	return nil
}

// republish recomputes affected result sets once and fans them out.
// Deleting a task list cascades into tasks, so list commits refresh the
// task feeds as well.
func (h *Hub) republish(ctx context.Context, kind record.Kind) {
	switch kind {
	case record.KindTaskList:
		if lists, err := h.store.TaskLists(ctx); err == nil {
			h.taskLists.publish(lists)
		}
		h.republishTasks(ctx)
	case record.KindTask:
		h.republishTasks(ctx)
	case record.KindNote:
		h.republishNotes(ctx)
	}
}

func (h *Hub) republishTasks(ctx context.Context) {
	tasks, err := h.store.Tasks(ctx)
	if err != nil {
		return
	}
	h.tasks.publish(tasks)

	h.listMu.Lock()
	defer h.listMu.Unlock()
	for listID, f := range h.perList {
		if !f.active() {
			delete(h.perList, listID)
			continue
		}
		var subset []record.Task
		for _, t := range tasks {
			if t.ListID == listID {
				subset = append(subset, t)
			}
		}
		f.publish(subset)
	}
}

func (h *Hub) republishNotes(ctx context.Context) {
	notes, err := h.store.Notes(ctx)
	if err != nil {
		return
	}
	h.notes.publish(notes)

	h.noteMu.Lock()
	defer h.noteMu.Unlock()
	for id, f := range h.perNote {
		if !f.active() {
			delete(h.perNote, id)
			continue
		}
		var match *record.Note
		for i := range notes {
			if notes[i].ID == id {
				match = &notes[i]
				break
			}
		}
		f.publish(match)
	}
}
