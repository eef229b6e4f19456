// Package coordinator is the single choke point for mutations. Every
// state-changing request from a consumer is enqueued onto one mailbox
// goroutine and executed in order, so check-then-act sequences (the
// "General" list bootstrap, calendar de-duplication) never race.
//
// Callers are never blocked on storage I/O: each operation returns as
// soon as it is queued, and completion is observed through the reactive
// feeds, not through return values.
package coordinator

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/myday-app/myday/internal/calendar"
	"github.com/myday-app/myday/internal/live"
	"github.com/myday-app/myday/internal/parse"
	"github.com/myday-app/myday/internal/record"
	"github.com/myday-app/myday/internal/settings"
)

// opQueueSize bounds the mailbox. Enqueueing blocks once it fills,
// which only happens if the store has stalled.
const opQueueSize = 64

type op func(ctx context.Context)

// Coordinator serializes mutations against one Hub and derives
// secondary read state from its feeds.
type Coordinator struct {
	hub      *live.Hub
	settings *settings.Store
	parser   parse.TaskParser
	log      *zap.SugaredLogger

	ops    chan op
	runCtx context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	datesMu sync.RWMutex
	dates   []time.Time
}

// New wires a coordinator. The parser may be nil, in which case voice
// input is ignored.
func New(hub *live.Hub, prefs *settings.Store, parser parse.TaskParser, log *zap.SugaredLogger) *Coordinator {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &Coordinator{
		hub:      hub,
		settings: prefs,
		parser:   parser,
		log:      log,
		ops:      make(chan op, opQueueSize),
	}
}

// Start launches the mailbox and the derived-state watcher, then runs
// the startup bootstrap. It returns once the bootstrap has committed,
// so the "General" list exists before any caller-visible operation.
func (c *Coordinator) Start(ctx context.Context) error {
	runCtx, cancel := context.WithCancel(ctx)
	c.runCtx = runCtx
	c.cancel = cancel

	sub, err := c.hub.SubscribeTasks(runCtx)
	if err != nil {
		cancel()
		return err
	}

	c.wg.Add(2)
	go c.run(runCtx)
	go c.watchDates(runCtx, sub)

	c.enqueue(c.bootstrap)
	c.Flush()
	return nil
}

// Stop drains nothing: queued operations that have not run yet are
// dropped. Call Flush first if they must land.
func (c *Coordinator) Stop() {
	if c.cancel != nil {
		c.cancel()
	}
	c.wg.Wait()
}

// Flush blocks until every operation queued before the call has
// executed. Mainly for one-shot CLI invocations and tests. Once the
// run context is cancelled the mailbox no longer drains, so Flush
// returns immediately instead of waiting on it.
func (c *Coordinator) Flush() {
	done := make(chan struct{})
	select {
	case c.ops <- func(context.Context) { close(done) }:
	case <-c.runCtx.Done():
		return
	}
	select {
	case <-done:
	case <-c.runCtx.Done():
	}
}

// enqueue hands an operation to the mailbox. After shutdown the
// operation is dropped, matching Stop's contract.
func (c *Coordinator) enqueue(f op) {
	select {
	case c.ops <- f:
	case <-c.runCtx.Done():
	}
}

func (c *Coordinator) run(ctx context.Context) {
	defer c.wg.Done()
	for {
		select {
		case <-ctx.Done():
			return
		case f := <-c.ops:
			f(ctx)
		}
	}
}

// bootstrap guarantees the baseline list exists. Serialization through
// the mailbox makes the check-then-create race free; a restart against
// a populated store finds the list and does nothing.
func (c *Coordinator) bootstrap(ctx context.Context) {
	existing, err := c.hub.Store().TaskListByName(ctx, record.DefaultListName)
	if err != nil {
		c.log.Errorw("bootstrap lookup failed", "error", err)
		return
	}
	if existing != nil {
		return
	}

	list := record.NewTaskList(record.DefaultListName)
	if err := c.hub.InsertTaskList(ctx, list); err != nil {
		c.log.Errorw("failed to create default list", "error", err)
		return
	}
	c.log.Infow("created default list", "id", list.ID)
}

// ---- task list operations ----

// AddTaskList creates a list with the given name.
func (c *Coordinator) AddTaskList(name string) {
	c.enqueue(func(ctx context.Context) {
		list := record.NewTaskList(name)
		if err := c.hub.InsertTaskList(ctx, list); err != nil {
			c.log.Errorw("failed to add task list", "name", name, "error", err)
		}
	})
}

// RenameTaskList renames a list. Renaming an absent list is a no-op.
func (c *Coordinator) RenameTaskList(id, name string) {
	c.enqueue(func(ctx context.Context) {
		list, err := c.hub.Store().TaskListByID(ctx, id)
		if err != nil {
			c.log.Errorw("rename lookup failed", "id", id, "error", err)
			return
		}
		if list == nil {
			return
		}
		list.Name = name
		if err := c.hub.UpdateTaskList(ctx, *list); err != nil {
			c.log.Errorw("failed to rename task list", "id", id, "error", err)
		}
	})
}

// DeleteTaskList deletes a list and, through the store's cascade, every
// task it owns.
func (c *Coordinator) DeleteTaskList(id string) {
	c.enqueue(func(ctx context.Context) {
		if err := c.hub.DeleteTaskList(ctx, id); err != nil {
			c.log.Errorw("failed to delete task list", "id", id, "error", err)
		}
	})
}

// ---- task operations ----

// AddTask creates a task in the given list. A nil due date stores
// "Someday"; otherwise the normalized yyyy-MM-dd form.
func (c *Coordinator) AddTask(description, listID string, due *time.Time) {
	c.enqueue(func(ctx context.Context) {
		dateTime := record.DateTimeSomeday
		if due != nil {
			dateTime = record.FormatDate(*due)
		}
		task := record.NewTask(description, dateTime, listID)
		if err := c.hub.InsertTask(ctx, task); err != nil {
			c.log.Errorw("failed to add task", "description", description, "list", listID, "error", err)
		}
	})
}

// ToggleTaskCompleted flips a task's completion flag.
func (c *Coordinator) ToggleTaskCompleted(id string) {
	c.mutateTask(id, "toggle", func(t *record.Task) {
		t.IsCompleted = !t.IsCompleted
	})
}

// CycleTaskPriority advances the priority one step through
// NONE->LOW->MEDIUM->HIGH->NONE.
func (c *Coordinator) CycleTaskPriority(id string) {
	c.mutateTask(id, "cycle priority", func(t *record.Task) {
		t.Priority = t.Priority.Next()
	})
}

// RenameTask replaces a task's description.
func (c *Coordinator) RenameTask(id, description string) {
	c.mutateTask(id, "rename", func(t *record.Task) {
		t.Description = description
	})
}

// EditTask replaces a task's description and dateTime together.
func (c *Coordinator) EditTask(id, description, dateTime string) {
	c.mutateTask(id, "edit", func(t *record.Task) {
		t.Description = description
		t.DateTime = dateTime
	})
}

// MoveTask reassigns a task to another list. Moving to an absent list
// is a no-op.
func (c *Coordinator) MoveTask(id, listID string) {
	c.enqueue(func(ctx context.Context) {
		target, err := c.hub.Store().TaskListByID(ctx, listID)
		if err != nil || target == nil {
			return
		}
		task, err := c.hub.Store().TaskByID(ctx, id)
		if err != nil || task == nil {
			return
		}
		task.ListID = listID
		if err := c.hub.UpdateTask(ctx, *task); err != nil {
			c.log.Errorw("failed to move task", "id", id, "list", listID, "error", err)
		}
	})
}

// DeleteTask deletes a task.
func (c *Coordinator) DeleteTask(id string) {
	c.enqueue(func(ctx context.Context) {
		if err := c.hub.DeleteTask(ctx, id); err != nil {
			c.log.Errorw("failed to delete task", "id", id, "error", err)
		}
	})
}

// mutateTask looks up a task, applies the change, and writes it back.
// A missing id is silently skipped: the record was deleted between the
// caller's read and this operation, and there is nothing to do.
func (c *Coordinator) mutateTask(id, what string, apply func(*record.Task)) {
	c.enqueue(func(ctx context.Context) {
		task, err := c.hub.Store().TaskByID(ctx, id)
		if err != nil {
			c.log.Errorw("task lookup failed", "op", what, "id", id, "error", err)
			return
		}
		if task == nil {
			return
		}
		apply(task)
		if err := c.hub.UpdateTask(ctx, *task); err != nil {
			c.log.Errorw("task update failed", "op", what, "id", id, "error", err)
		}
	})
}

// ---- note operations ----

// AddNote persists a note unless both title and content are blank.
func (c *Coordinator) AddNote(title, content string) {
	c.enqueue(func(ctx context.Context) {
		note := record.NewNote(title, content)
		if note.IsBlank() {
			return
		}
		if err := c.hub.InsertNote(ctx, note); err != nil {
			c.log.Errorw("failed to add note", "error", err)
		}
	})
}

// UpdateNote rewrites a note's title and content in place. Blanking
// both fields or updating an absent id is a no-op.
func (c *Coordinator) UpdateNote(id, title, content string) {
	c.mutateNote(id, "update", func(n *record.Note) bool {
		n.Title = title
		n.Content = content
		return !n.IsBlank()
	})
}

// SetNoteColor assigns a palette color to a note.
func (c *Coordinator) SetNoteColor(id string, color int64) {
	c.mutateNote(id, "set color", func(n *record.Note) bool {
		n.Color = color
		return true
	})
}

// SetNoteSecured marks a note PIN-gated (or clears the flag). PIN
// storage and checking live in the settings store.
func (c *Coordinator) SetNoteSecured(id string, secured bool) {
	c.mutateNote(id, "set secured", func(n *record.Note) bool {
		n.IsSecured = secured
		return true
	})
}

// DeleteNote deletes a note. Notes have no dependents.
func (c *Coordinator) DeleteNote(id string) {
	c.enqueue(func(ctx context.Context) {
		if err := c.hub.DeleteNote(ctx, id); err != nil {
			c.log.Errorw("failed to delete note", "id", id, "error", err)
		}
	})
}

func (c *Coordinator) mutateNote(id, what string, apply func(*record.Note) bool) {
	c.enqueue(func(ctx context.Context) {
		note, err := c.hub.Store().NoteByID(ctx, id)
		if err != nil {
			c.log.Errorw("note lookup failed", "op", what, "id", id, "error", err)
			return
		}
		if note == nil {
			return
		}
		if !apply(note) {
			return
		}
		if err := c.hub.UpdateNote(ctx, *note); err != nil {
			c.log.Errorw("note update failed", "op", what, "id", id, "error", err)
		}
	})
}

// ---- external collaborators ----

// ImportCalendarEvent turns one externally sourced event into a task
// under the lazily created "Calendar Events" list.
//
// De-dup rule: if a task already exists with the same description and
// the same leading 10 dateTime characters (the date portion), the event
// is skipped. Two occurrences of a meeting on the same day therefore
// import once.
func (c *Coordinator) ImportCalendarEvent(ev calendar.Event) {
	c.enqueue(func(ctx context.Context) {
		description := ev.TaskDescription()
		dateTime := ev.TaskDateTime()

		existing, err := c.hub.Store().Tasks(ctx)
		if err != nil {
			c.log.Errorw("import lookup failed", "error", err)
			return
		}
		for _, t := range existing {
			if t.Description == description && datePrefix(t.DateTime) == datePrefix(dateTime) {
				return
			}
		}

		if err := c.ensureCalendarList(ctx); err != nil {
			c.log.Errorw("failed to create calendar list", "error", err)
			return
		}

		task := record.NewTask(description, dateTime, record.CalendarListID)
		if err := c.hub.InsertTask(ctx, task); err != nil {
			c.log.Errorw("failed to import event", "description", description, "error", err)
			return
		}
		c.log.Infow("imported calendar event", "description", description, "dateTime", dateTime)
	})
}

// ImportCalendar pulls upcoming events from a source and enqueues an
// import for each. Source failures degrade to an empty import.
func (c *Coordinator) ImportCalendar(ctx context.Context, src calendar.Source, daysAhead int) {
	events, err := src.UpcomingEvents(ctx, daysAhead)
	if err != nil {
		c.log.Warnw("calendar source failed", "error", err)
		return
	}
	for _, ev := range events {
		c.ImportCalendarEvent(ev)
	}
}

func (c *Coordinator) ensureCalendarList(ctx context.Context) error {
	list, err := c.hub.Store().TaskListByID(ctx, record.CalendarListID)
	if err != nil {
		return err
	}
	if list != nil {
		return nil
	}
	return c.hub.InsertTaskList(ctx, record.TaskList{
		ID:   record.CalendarListID,
		Name: record.CalendarListName,
	})
}

// ProcessVoiceInput hands free-form input to the task parser and
// inserts the result verbatim. Parse failures and empty replies insert
// nothing; the caller sees a no-op.
func (c *Coordinator) ProcessVoiceInput(input, listID string) {
	c.enqueue(func(ctx context.Context) {
		if c.parser == nil {
			return
		}
		result, err := c.parser.Parse(ctx, input)
		if err != nil {
			c.log.Warnw("voice input not parsed", "error", err)
			return
		}
		task := record.NewTask(result.Description, result.DateTime, listID)
		if err := c.hub.InsertTask(ctx, task); err != nil {
			c.log.Errorw("failed to add parsed task", "error", err)
		}
	})
}

func datePrefix(dateTime string) string {
	if len(dateTime) < 10 {
		return dateTime
	}
	return dateTime[:10]
}

// ---- derived state ----

// TasksWithDates returns the dates of all tasks whose dateTime parses
// as a strict yyyy-MM-dd value. "Someday", calendar timestamps, and
// free-form phrases are discarded; this is a best-effort view, not a
// constraint on tasks.
func (c *Coordinator) TasksWithDates() []time.Time {
	c.datesMu.RLock()
	defer c.datesMu.RUnlock()
	out := make([]time.Time, len(c.dates))
	copy(out, c.dates)
	return out
}

func (c *Coordinator) watchDates(ctx context.Context, sub *live.Subscription[[]record.Task]) {
	defer c.wg.Done()
	defer sub.Cancel()

	for {
		select {
		case <-ctx.Done():
			return
		case tasks, ok := <-sub.Updates():
			if !ok {
				return
			}
			var dates []time.Time
			for _, t := range tasks {
				if d, ok := t.Date(); ok {
					dates = append(dates, d)
				}
			}
			c.datesMu.Lock()
			c.dates = dates
			c.datesMu.Unlock()
		}
	}
}

// ---- settings pass-through ----

// Settings exposes the preferences collaborator. Keys are opaque to the
// record core; the coordinator only forwards them.
func (c *Coordinator) Settings() *settings.Store {
	return c.settings
}

// SetTheme persists the theme preference.
func (c *Coordinator) SetTheme(name string) {
	if err := c.settings.SetTheme(name); err != nil {
		c.log.Errorw("failed to set theme", "error", err)
	}
}

// SetSecureNotesPIN persists the secure-notes PIN.
func (c *Coordinator) SetSecureNotesPIN(pin string) {
	if err := c.settings.SetSecureNotesPIN(&pin); err != nil {
		c.log.Errorw("failed to set PIN", "error", err)
	}
}
