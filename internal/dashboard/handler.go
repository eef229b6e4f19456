package dashboard

import (
	"context"
	"encoding/json"
	"time"

	"go.uber.org/zap"

	"github.com/myday-app/myday/internal/live"
	"github.com/myday-app/myday/internal/record"
)

// Handler bridges hub commits to dashboard broadcasts. It implements
// live.Listener: each commit turns into a record_update message
// followed by refreshed stats.
type Handler struct {
	hub    *live.Hub
	server *Server
	log    *zap.SugaredLogger
}

// NewHandler creates a handler and registers it on the hub.
func NewHandler(hub *live.Hub, server *Server, log *zap.SugaredLogger) *Handler {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	h := &Handler{
		hub:    hub,
		server: server,
		log:    log,
	}
	hub.AddListener(h)
	return h
}

// OnCommit broadcasts the change and updated stats to all clients.
func (h *Handler) OnCommit(kind record.Kind, action live.Action, id string) {
	update := RecordUpdateData{
		Kind:   string(kind),
		Action: string(action),
		ID:     id,
	}
	h.send(MessageTypeRecordUpdate, update)

	stats, err := h.collectStats()
	if err != nil {
		h.log.Warnw("failed to collect stats", "error", err)
		return
	}
	h.send(MessageTypeStats, stats)
}

func (h *Handler) collectStats() (StatsData, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	var stats StatsData

	lists, err := h.hub.Store().TaskLists(ctx)
	if err != nil {
		return stats, err
	}
	stats.TaskLists = len(lists)

	tasks, err := h.hub.Store().Tasks(ctx)
	if err != nil {
		return stats, err
	}
	stats.Tasks = len(tasks)
	for _, t := range tasks {
		if t.IsCompleted {
			stats.TasksCompleted++
		}
	}

	notes, err := h.hub.Store().Notes(ctx)
	if err != nil {
		return stats, err
	}
	stats.Notes = len(notes)
	for _, n := range notes {
		if n.IsSecured {
			stats.NotesSecured++
		}
	}

	return stats, nil
}

func (h *Handler) send(typ MessageType, data any) {
	payload, err := json.Marshal(data)
	if err != nil {
		h.log.Errorw("failed to marshal dashboard data", "type", typ, "error", err)
		return
	}
	h.server.Broadcast(Message{
		Type:      typ,
		Timestamp: time.Now(),
		Data:      payload,
	})
}
