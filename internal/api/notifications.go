package api

import (
	"encoding/json"
	"fmt"
	"net/http"
)

func (s *Server) handleListNotifications(w http.ResponseWriter, r *http.Request) {
	sess := sessionFrom(r)
	notifs, err := s.notifs.ListForRecipient(r.Context(), sess.UserID, sess.IsAdmin())
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, notifs)
}

func (s *Server) handleUnreadCount(w http.ResponseWriter, r *http.Request) {
	sess := sessionFrom(r)
	count, err := s.notifs.CountUnread(r.Context(), sess.UserID, sess.IsAdmin())
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, map[string]int{"count": count})
}

func (s *Server) handleMarkRead(w http.ResponseWriter, r *http.Request) {
	sess := sessionFrom(r)
	if err := s.notifs.MarkRead(r.Context(), r.PathValue("id"), sess.UserID, sess.IsAdmin()); err != nil {
		s.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleMarkAllRead(w http.ResponseWriter, r *http.Request) {
	sess := sessionFrom(r)
	if err := s.notifs.MarkAllRead(r.Context(), sess.UserID, sess.IsAdmin()); err != nil {
		s.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleStream pushes the caller's notification events over SSE. Each
// connection gets its own buffered channel off the shared subscription;
// the hub drops events for slow consumers rather than blocking the rest.
func (s *Server) handleStream(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		s.writeJSONStatus(w, http.StatusNotImplemented, map[string]string{"error": "streaming unsupported"})
		return
	}

	sess := sessionFrom(r)
	events, cancel := s.hub.Subscribe(sess.UserID)
	defer cancel()

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	for {
		select {
		case <-r.Context().Done():
			return
		case ev, open := <-events:
			if !open {
				return
			}
			payload, err := json.Marshal(ev)
			if err != nil {
				s.logger.WithError(err).Warn("encode stream event", nil)
				continue
			}
			fmt.Fprintf(w, "data: %s\n\n", payload)
			flusher.Flush()
		}
	}
}
