package dashboard

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"testing"
	"time"

	"github.com/coder/websocket"

	"github.com/myday-app/myday/internal/live"
	"github.com/myday-app/myday/internal/record"
	"github.com/myday-app/myday/internal/store"
)

func startServer(t *testing.T) *Server {
	t.Helper()

	server := NewServer(0, nil)
	if err := server.Start(); err != nil {
		t.Fatalf("failed to start server: %v", err)
	}
	t.Cleanup(func() {
		if err := server.Stop(); err != nil {
			t.Errorf("failed to stop server: %v", err)
		}
	})
	return server
}

func dial(t *testing.T, ctx context.Context, server *Server) *websocket.Conn {
	t.Helper()

	conn, _, err := websocket.Dial(ctx, "ws://"+server.Addr()+"/ws", nil)
	if err != nil {
		t.Fatalf("failed to connect websocket: %v", err)
	}
	t.Cleanup(func() { _ = conn.Close(websocket.StatusNormalClosure, "") })
	return conn
}

func TestServerStartStop(t *testing.T) {
	server := startServer(t)
	if server.Addr() == "" {
		t.Fatal("server address is empty")
	}
}

func TestBroadcastWithoutClients(t *testing.T) {
	server := startServer(t)

	// Must not block even when nothing is connected.
	for i := 0; i < 200; i++ {
		server.Broadcast(Message{Type: MessageTypeStats})
	}
}

func TestMessageBroadcast(t *testing.T) {
	server := startServer(t)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	conn := dial(t, ctx, server)

	update := RecordUpdateData{Kind: "task", Action: "inserted", ID: "t1"}
	payload, err := json.Marshal(update)
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}
	server.Broadcast(Message{Type: MessageTypeRecordUpdate, Data: payload})

	_, data, err := conn.Read(ctx)
	if err != nil {
		t.Fatalf("failed to read broadcast: %v", err)
	}

	var msg Message
	if err := json.Unmarshal(data, &msg); err != nil {
		t.Fatalf("failed to unmarshal message: %v", err)
	}
	if msg.Type != MessageTypeRecordUpdate {
		t.Errorf("message type = %s, want %s", msg.Type, MessageTypeRecordUpdate)
	}
	if msg.Timestamp.IsZero() {
		t.Error("broadcast did not stamp the message")
	}

	var got RecordUpdateData
	if err := json.Unmarshal(msg.Data, &got); err != nil {
		t.Fatalf("failed to unmarshal update data: %v", err)
	}
	if got != update {
		t.Errorf("update data = %+v, want %+v", got, update)
	}
}

func TestHealthEndpoint(t *testing.T) {
	server := startServer(t)

	resp, err := http.Get("http://" + server.Addr() + "/health")
	if err != nil {
		t.Fatalf("health request failed: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("health status = %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("failed to read body: %v", err)
	}

	var health struct {
		Status  string `json:"status"`
		Clients int    `json:"clients"`
	}
	if err := json.Unmarshal(body, &health); err != nil {
		t.Fatalf("failed to unmarshal health response: %v", err)
	}
	if health.Status != "ok" {
		t.Errorf("status = %q, want ok", health.Status)
	}
	if health.Clients != 0 {
		t.Errorf("clients = %d, want 0", health.Clients)
	}
}

func TestHandlerCommitEvents(t *testing.T) {
	st, err := store.Open(filepath.Join(t.TempDir(), "myday.db"))
	if err != nil {
		t.Fatalf("failed to open store: %v", err)
	}
	t.Cleanup(func() { _ = st.Close() })

	hub := live.NewHub(st)
	server := startServer(t)
	NewHandler(hub, server, nil)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	conn := dial(t, ctx, server)

	list := record.NewTaskList("Work")
	if err := hub.InsertTaskList(ctx, list); err != nil {
		t.Fatalf("failed to insert list: %v", err)
	}

	// The commit yields a record_update followed by a stats message.
	_, data, err := conn.Read(ctx)
	if err != nil {
		t.Fatalf("failed to read record update: %v", err)
	}
	var msg Message
	if err := json.Unmarshal(data, &msg); err != nil {
		t.Fatalf("failed to unmarshal message: %v", err)
	}
	if msg.Type != MessageTypeRecordUpdate {
		t.Fatalf("first message type = %s, want %s", msg.Type, MessageTypeRecordUpdate)
	}

	var update RecordUpdateData
	if err := json.Unmarshal(msg.Data, &update); err != nil {
		t.Fatalf("failed to unmarshal update data: %v", err)
	}
	want := RecordUpdateData{
		Kind:   string(record.KindTaskList),
		Action: string(live.ActionInserted),
		ID:     list.ID,
	}
	if update != want {
		t.Errorf("update = %+v, want %+v", update, want)
	}

	_, data, err = conn.Read(ctx)
	if err != nil {
		t.Fatalf("failed to read stats: %v", err)
	}
	if err := json.Unmarshal(data, &msg); err != nil {
		t.Fatalf("failed to unmarshal stats message: %v", err)
	}
	if msg.Type != MessageTypeStats {
		t.Fatalf("second message type = %s, want %s", msg.Type, MessageTypeStats)
	}

	var stats StatsData
	if err := json.Unmarshal(msg.Data, &stats); err != nil {
		t.Fatalf("failed to unmarshal stats data: %v", err)
	}
	if stats.TaskLists != 1 {
		t.Errorf("stats.TaskLists = %d, want 1", stats.TaskLists)
	}
}

func TestStatsAfterMixedRecords(t *testing.T) {
	st, err := store.Open(filepath.Join(t.TempDir(), "myday.db"))
	if err != nil {
		t.Fatalf("failed to open store: %v", err)
	}
	t.Cleanup(func() { _ = st.Close() })

	hub := live.NewHub(st)
	ctx := context.Background()

	list := record.NewTaskList("Home")
	if err := hub.InsertTaskList(ctx, list); err != nil {
		t.Fatalf("failed to insert list: %v", err)
	}
	for i := 0; i < 3; i++ {
		task := record.NewTask(fmt.Sprintf("chore %d", i), record.DateTimeSomeday, list.ID)
		if i == 0 {
			task.IsCompleted = true
		}
		if err := hub.InsertTask(ctx, task); err != nil {
			t.Fatalf("failed to insert task: %v", err)
		}
	}
	note := record.NewNote("pin", "1234")
	note.IsSecured = true
	if err := hub.InsertNote(ctx, note); err != nil {
		t.Fatalf("failed to insert note: %v", err)
	}

	server := startServer(t)
	h := NewHandler(hub, server, nil)

	stats, err := h.collectStats()
	if err != nil {
		t.Fatalf("collectStats() failed: %v", err)
	}
	want := StatsData{TaskLists: 1, Tasks: 3, TasksCompleted: 1, Notes: 1, NotesSecured: 1}
	if stats != want {
		t.Errorf("stats = %+v, want %+v", stats, want)
	}
}
