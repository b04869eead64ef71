package endpoints

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"collab-app-backend/internal/room"
)

type nullSender struct{}

func (nullSender) Send(event string, data any) bool { return true }

func newTestEndpoints(t *testing.T) (RoomEndpoints, *room.Registry) {
	t.Helper()
	registry := room.NewRegistry(room.Config{AutoCreateRooms: true}, nil)
	return NewRoomEndpoints(registry, RoomPaths{
		RoomsPrefix: "/api/rooms/",
		FilesPrefix: "/api/files/room/",
	}), registry
}

func TestRoomValidReportsExistingRoom(t *testing.T) {
	h, registry := newTestEndpoints(t)
	roomID := registry.CreateRoom()
	registry.Join(roomID, "sess-a", "Alice", nullSender{})
	registry.Join(roomID, "sess-b", "Bob", nullSender{})

	req := httptest.NewRequest(http.MethodGet, "/api/rooms/"+roomID+"/valid", nil)
	rec := httptest.NewRecorder()
	if err := h.RoomValid(rec, req); err != nil {
		t.Fatalf("handler error: %v", err)
	}

	var res RoomValidResponse
	if err := json.NewDecoder(rec.Body).Decode(&res); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !res.Valid || res.Participants != 2 {
		t.Fatalf("response = %+v, want valid with 2 participants", res)
	}
}

func TestRoomValidReportsMissingRoom(t *testing.T) {
	h, _ := newTestEndpoints(t)

	req := httptest.NewRequest(http.MethodGet, "/api/rooms/ghost/valid", nil)
	rec := httptest.NewRecorder()
	if err := h.RoomValid(rec, req); err != nil {
		t.Fatalf("handler error: %v", err)
	}

	var res RoomValidResponse
	if err := json.NewDecoder(rec.Body).Decode(&res); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if res.Valid {
		t.Fatal("missing room reported valid")
	}
}

func TestRoomValidRejectsOtherMethods(t *testing.T) {
	h, _ := newTestEndpoints(t)

	req := httptest.NewRequest(http.MethodDelete, "/api/rooms/r1/valid", nil)
	err := h.RoomValid(httptest.NewRecorder(), req)
	httpErr, ok := err.(*HTTPError)
	if !ok || httpErr.StatusCode != http.StatusMethodNotAllowed {
		t.Fatalf("err = %v, want 405 HTTPError", err)
	}
}

func TestRoomFilesListsSharedMetadata(t *testing.T) {
	h, registry := newTestEndpoints(t)
	roomID := registry.CreateRoom()
	registry.Join(roomID, "sess-a", "Alice", nullSender{})
	registry.ShareFile(roomID, "sess-a", room.SharedFile{ID: "f1", Name: "notes.pdf", Size: 512})

	req := httptest.NewRequest(http.MethodGet, "/api/files/room/"+roomID, nil)
	rec := httptest.NewRecorder()
	if err := h.RoomFiles(rec, req); err != nil {
		t.Fatalf("handler error: %v", err)
	}

	var res RoomFilesResponse
	if err := json.NewDecoder(rec.Body).Decode(&res); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(res.Files) != 1 || res.Files[0].Name != "notes.pdf" || res.Files[0].SharedBy != "Alice" {
		t.Fatalf("files = %+v", res.Files)
	}
}

func TestRoomFilesMissingRoomIs404(t *testing.T) {
	h, _ := newTestEndpoints(t)

	req := httptest.NewRequest(http.MethodGet, "/api/files/room/ghost", nil)
	err := h.RoomFiles(httptest.NewRecorder(), req)
	httpErr, ok := err.(*HTTPError)
	if !ok || httpErr.StatusCode != http.StatusNotFound {
		t.Fatalf("err = %v, want 404 HTTPError", err)
	}
}
