package api

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/cs-24-sw-8-04/scheduling/internal/domain"
	"github.com/cs-24-sw-8-04/scheduling/internal/protocol"
)

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req protocol.RegisterOrLoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "malformed request body")
		return
	}
	if req.Username == "" || req.Password == "" {
		writeError(w, http.StatusBadRequest, "username and password are required")
		return
	}

	token, err := s.store.RegisterAccount(r.Context(), req.Username, req.Password)
	if err != nil {
		s.storeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, protocol.RegisterOrLoginResponse{AuthToken: token.String()})
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req protocol.RegisterOrLoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "malformed request body")
		return
	}

	token, err := s.store.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		s.storeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, protocol.RegisterOrLoginResponse{AuthToken: token.String()})
}

func (s *Server) handleGetDevices(w http.ResponseWriter, r *http.Request) {
	devices, err := s.store.DevicesForAccount(r.Context(), accountID(r))
	if err != nil {
		s.storeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, protocol.GetDevicesResponse{Devices: devices})
}

func (s *Server) handleCreateDevice(w http.ResponseWriter, r *http.Request) {
	var req protocol.CreateDeviceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "malformed request body")
		return
	}
	if req.Name == "" {
		writeError(w, http.StatusBadRequest, "device name is required")
		return
	}

	device, err := s.store.CreateDevice(r.Context(), accountID(r), req.Name, req.Effect)
	if err != nil {
		s.storeError(w, err)
		return
	}
	s.notifyChange()
	writeJSON(w, http.StatusOK, protocol.CreateDeviceResponse{Device: device})
}

func (s *Server) handleDeleteDevice(w http.ResponseWriter, r *http.Request) {
	id, err := queryID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "device id is required")
		return
	}
	if err := s.store.DeleteDevice(r.Context(), accountID(r), domain.DeviceID(id)); err != nil {
		s.storeError(w, err)
		return
	}
	s.notifyChange()
	writeJSON(w, http.StatusOK, struct{}{})
}

func (s *Server) handleGetTasks(w http.ResponseWriter, r *http.Request) {
	tasks, err := s.store.TasksForAccount(r.Context(), accountID(r))
	if err != nil {
		s.storeError(w, err)
		return
	}
	wire := make([]protocol.Task, 0, len(tasks))
	for _, t := range tasks {
		wire = append(wire, protocol.TaskFromDomain(t))
	}
	writeJSON(w, http.StatusOK, protocol.GetTasksResponse{Tasks: wire})
}

func (s *Server) handleCreateTask(w http.ResponseWriter, r *http.Request) {
	var req protocol.CreateTaskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "malformed request body")
		return
	}
	if req.Timespan.End.Before(req.Timespan.Start) {
		writeError(w, http.StatusBadRequest, "timespan end is before its start")
		return
	}
	duration := req.Duration.Duration()
	if duration <= 0 {
		writeError(w, http.StatusBadRequest, "duration must be positive")
		return
	}
	if duration > req.Timespan.End.Sub(req.Timespan.Start) {
		writeError(w, http.StatusBadRequest, "duration is longer than the timespan")
		return
	}

	task, err := s.store.CreateTask(r.Context(), accountID(r), req.Timespan, duration, req.DeviceID)
	if err != nil {
		s.storeError(w, err)
		return
	}
	s.notifyChange()
	writeJSON(w, http.StatusOK, protocol.TaskFromDomain(task))
}

func (s *Server) handleDeleteTask(w http.ResponseWriter, r *http.Request) {
	id, err := queryID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "task id is required")
		return
	}
	if err := s.store.DeleteTask(r.Context(), accountID(r), domain.TaskID(id)); err != nil {
		s.storeError(w, err)
		return
	}
	s.notifyChange()
	writeJSON(w, http.StatusOK, struct{}{})
}

func (s *Server) handleGetEvents(w http.ResponseWriter, r *http.Request) {
	events, err := s.store.EventsForAccount(r.Context(), accountID(r))
	if err != nil {
		s.storeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, protocol.GetEventsResponse{Events: events})
}

func (s *Server) handleGetDeviceEvents(w http.ResponseWriter, r *http.Request) {
	id, err := queryID(r, "device_id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "device id is required")
		return
	}
	events, err := s.store.EventsForDevice(r.Context(), accountID(r), domain.DeviceID(id))
	if err != nil {
		s.storeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, protocol.GetEventsResponse{Events: events})
}

func (s *Server) handleRunScheduler(w http.ResponseWriter, r *http.Request) {
	if s.runner == nil {
		writeError(w, http.StatusServiceUnavailable, "scheduler is not running")
		return
	}
	var req protocol.RunSchedulerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "malformed request body")
		return
	}
	if err := s.runner.RunNow(req.Algorithm); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, struct{}{})
}

func queryID(r *http.Request, key string) (int64, error) {
	return strconv.ParseInt(r.URL.Query().Get(key), 10, 64)
}
