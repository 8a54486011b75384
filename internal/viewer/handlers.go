package viewer

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/vk/sweepview/internal/ctxlog"
	"github.com/vk/sweepview/internal/seqindex"
	"github.com/vk/sweepview/internal/session"
)

// handler applies a request and returns the animation it addressed.
type handler func(arg any) (string, error)

// LoadRequest starts loading an animation.
type LoadRequest struct {
	Animation string `json:"animation"`
}

// SetRequest assigns a parameter value.
type SetRequest struct {
	Animation string   `json:"animation"`
	Parameter string   `json:"parameter"`
	Value     *float64 `json:"value"`
}

// NudgeRequest moves a parameter by whole steps.
type NudgeRequest struct {
	Animation string `json:"animation"`
	Parameter string `json:"parameter"`
	Steps     int    `json:"steps"`
}

// InputRequest passes text typed into a slider's number field.
type InputRequest struct {
	Animation string `json:"animation"`
	Control   string `json:"control"`
	Text      string `json:"text"`
}

// ToggleRequest flips a checkbox.
type ToggleRequest struct {
	Animation string `json:"animation"`
	Control   string `json:"control"`
}

// PointRequest forwards a pointer position to a locator.
type PointRequest struct {
	Animation string `json:"animation"`
	Control   string `json:"control"`
	X         int    `json:"x"`
	Y         int    `json:"y"`
	Width     int    `json:"width"`
	Height    int    `json:"height"`
}

func (s *Server) handlers() map[string]handler {
	return map[string]handler{
		RequestLoad:   s.handleLoad,
		RequestSet:    s.handleSet,
		RequestNudge:  s.handleNudge,
		RequestInput:  s.handleInput,
		RequestToggle: s.handleToggle,
		RequestPoint:  s.handlePoint,
	}
}

// handleLoad returns once the load has started. Failures of the load itself
// reach clients as error events.
func (s *Server) handleLoad(arg any) (string, error) {
	var req LoadRequest
	if err := decodeRequest(arg, &req); err != nil {
		return "", err
	}
	if _, err := s.sess.Snapshot(req.Animation); err != nil {
		return "", err
	}
	s.background.Add(1)
	go func() {
		defer s.background.Done()
		err := s.sess.Load(s.ctx, req.Animation)
		switch {
		case err == nil:
		case errors.Is(err, seqindex.ErrAlreadyLoading), errors.Is(err, seqindex.ErrAlreadyLoaded):
		default:
			ctxlog.FromContext(s.ctx).Warn("Load failed.", "animation", req.Animation, "error", err)
		}
	}()
	return req.Animation, nil
}

func (s *Server) handleSet(arg any) (string, error) {
	var req SetRequest
	if err := decodeRequest(arg, &req); err != nil {
		return "", err
	}
	if req.Value == nil {
		return req.Animation, fmt.Errorf("set %q: missing value", req.Parameter)
	}
	return req.Animation, s.sess.Set(req.Animation, req.Parameter, *req.Value)
}

func (s *Server) handleNudge(arg any) (string, error) {
	var req NudgeRequest
	if err := decodeRequest(arg, &req); err != nil {
		return "", err
	}
	return req.Animation, s.sess.Nudge(req.Animation, req.Parameter, req.Steps)
}

func (s *Server) handleInput(arg any) (string, error) {
	var req InputRequest
	if err := decodeRequest(arg, &req); err != nil {
		return "", err
	}
	return req.Animation, s.sess.Input(req.Animation, req.Control, req.Text)
}

func (s *Server) handleToggle(arg any) (string, error) {
	var req ToggleRequest
	if err := decodeRequest(arg, &req); err != nil {
		return "", err
	}
	return req.Animation, s.sess.Toggle(req.Animation, req.Control)
}

func (s *Server) handlePoint(arg any) (string, error) {
	var req PointRequest
	if err := decodeRequest(arg, &req); err != nil {
		return "", err
	}
	_, err := s.sess.Point(req.Animation, req.Control, req.X, req.Y, req.Width, req.Height)
	return req.Animation, err
}

func thumbnailMessage(name string, data []byte) ThumbnailMessage {
	return ThumbnailMessage{
		Animation: name,
		MIME:      "image/png",
		Data:      base64.StdEncoding.EncodeToString(data),
	}
}

func (s *Server) healthHandler(w http.ResponseWriter, r *http.Request) {
	ctxlog.FromContext(s.ctx).Debug("Health check endpoint hit.", "remote_addr", r.RemoteAddr, "path", r.URL.Path)
	w.WriteHeader(http.StatusOK)
	fmt.Fprintln(w, "OK")
}

func (s *Server) animationsHandler(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(s.sess.Snapshots()); err != nil {
		ctxlog.FromContext(s.ctx).Warn("Failed to write animations.", "error", err)
	}
}

func (s *Server) frameHandler(w http.ResponseWriter, r *http.Request) {
	name := strings.TrimPrefix(r.URL.Path, "/frame/")
	f, err := s.sess.Frame(name)
	if err != nil {
		httpError(w, err)
		return
	}
	w.Header().Set("Content-Type", f.Entry.MIME)
	w.Header().Set("X-Frame-Key", f.Key)
	_, _ = w.Write(f.Entry.Data)
}

func (s *Server) thumbnailHandler(w http.ResponseWriter, r *http.Request) {
	name := strings.TrimPrefix(r.URL.Path, "/thumbnail/")
	data, err := s.sess.Thumbnail(r.Context(), name)
	if err != nil {
		httpError(w, err)
		return
	}
	w.Header().Set("Content-Type", "image/png")
	_, _ = w.Write(data)
}

func httpError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, session.ErrUnknownAnimation):
		status = http.StatusNotFound
	case errors.Is(err, seqindex.ErrNotFound):
		status = http.StatusConflict
	}
	http.Error(w, err.Error(), status)
}
