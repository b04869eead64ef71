package router

import (
	"net/http"
	"strings"

	"collab-app-backend/internal/api"
	"collab-app-backend/internal/api/endpoints"
)

func RoomRoutes(prefix string) api.RouteRegistrar {
	return func(mux *http.ServeMux, s *api.APIServer) {
		paths := endpoints.RoomPaths{
			RoomsPrefix: strings.TrimRight(prefix, "/") + "/rooms/",
			FilesPrefix: strings.TrimRight(prefix, "/") + "/files/room/",
		}
		roomEndpoints := endpoints.NewRoomEndpoints(s.Registry(), paths)

		mux.HandleFunc(paths.RoomsPrefix, s.MakeHTTPHandleFunc(roomEndpoints.RoomValid))
		mux.HandleFunc(paths.FilesPrefix, s.MakeHTTPHandleFunc(roomEndpoints.RoomFiles))
	}
}

func WebsocketRoutes(prefix string) api.RouteRegistrar {
	return func(mux *http.ServeMux, s *api.APIServer) {
		mux.HandleFunc(strings.TrimRight(prefix, "/")+"/ws", s.MakeWebsocketHandleFunc(func(w http.ResponseWriter, r *http.Request) error {
			return s.WSHandler().ServeWS(w, r)
		}))
	}
}
