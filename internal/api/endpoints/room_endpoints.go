package endpoints

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"collab-app-backend/internal/room"
)

// RoomEndpoints serves the read-only HTTP views onto room state: the
// pre-join validity probe and the shared-file metadata listing. The file
// bytes themselves live behind the external upload service.
type RoomEndpoints interface {
	RoomValid(http.ResponseWriter, *http.Request) error
	RoomFiles(http.ResponseWriter, *http.Request) error
}

type roomEndpoints struct {
	registry *room.Registry

	roomsPrefix string
	filesPrefix string
}

type RoomPaths struct {
	RoomsPrefix string
	FilesPrefix string
}

func NewRoomEndpoints(registry *room.Registry, paths RoomPaths) RoomEndpoints {
	return &roomEndpoints{
		registry:    registry,
		roomsPrefix: paths.RoomsPrefix,
		filesPrefix: paths.FilesPrefix,
	}
}

type RoomValidResponse struct {
	Valid        bool `json:"valid"`
	Participants int  `json:"participants"`
}

type RoomFilesResponse struct {
	Files []room.FileSharedPayload `json:"files"`
}

// RoomValid handles GET {roomsPrefix}{roomId}/valid.
func (h *roomEndpoints) RoomValid(w http.ResponseWriter, r *http.Request) error {
	return MethodHandler(w, r, map[string]func(http.ResponseWriter, *http.Request) error{
		http.MethodGet: h.handleRoomValid,
	})
}

func (h *roomEndpoints) handleRoomValid(w http.ResponseWriter, r *http.Request) error {
	roomID, err := pathParam(r.URL.Path, h.roomsPrefix, "/valid")
	if err != nil {
		return err
	}

	participants, ok := h.registry.RoomInfo(roomID)
	return WriteJSON(w, http.StatusOK, RoomValidResponse{
		Valid:        ok,
		Participants: participants,
	})
}

// RoomFiles handles GET {filesPrefix}{roomId}.
func (h *roomEndpoints) RoomFiles(w http.ResponseWriter, r *http.Request) error {
	return MethodHandler(w, r, map[string]func(http.ResponseWriter, *http.Request) error{
		http.MethodGet: h.handleRoomFiles,
	})
}

func (h *roomEndpoints) handleRoomFiles(w http.ResponseWriter, r *http.Request) error {
	roomID, err := pathParam(r.URL.Path, h.filesPrefix, "")
	if err != nil {
		return err
	}

	files, err := h.registry.RoomFiles(roomID)
	if err != nil {
		if errors.Is(err, room.ErrRoomNotFound) {
			return &HTTPError{
				StatusCode: http.StatusNotFound,
				Message:    "Room not found.",
				ErrorLog:   fmt.Errorf("room files: %w", err),
			}
		}
		return err
	}
	if files == nil {
		files = []room.FileSharedPayload{}
	}
	return WriteJSON(w, http.StatusOK, RoomFilesResponse{Files: files})
}

func pathParam(path, prefix, suffix string) (string, error) {
	rest, ok := strings.CutPrefix(path, prefix)
	if ok && suffix != "" {
		rest, ok = strings.CutSuffix(rest, suffix)
	}
	if !ok || rest == "" || strings.Contains(rest, "/") {
		return "", &HTTPError{
			StatusCode: http.StatusBadRequest,
			Message:    "Invalid path.",
			ErrorLog:   fmt.Errorf("unparseable path %q", path),
		}
	}
	return rest, nil
}
