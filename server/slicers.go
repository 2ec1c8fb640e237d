package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/vdobler/vizcore/filter"
	"github.com/vdobler/vizcore/hierarchy"
	"github.com/vdobler/vizcore/slicer"
	"github.com/vdobler/vizcore/table"
)

type createSlicerRequest struct {
	Visual     string   `json:"visual"`
	Levels     []string `json:"levels"`
	Mode       string   `json:"mode"`
	SelfFilter *bool    `json:"selfFilter"`
}

type createSlicerResponse struct {
	ID     uuid.UUID `json:"id"`
	Visual string    `json:"visual"`
}

type nodeRequest struct {
	Node string `json:"node"`
}

type nodeView struct {
	ID       string `json:"id"`
	ParentID string `json:"parentId,omitempty"`
	Level    int    `json:"level"`
	Label    string `json:"label"`
	Leaf     bool   `json:"leaf"`
	Selected bool   `json:"selected"`
	Expanded bool   `json:"expanded"`
	Hidden   bool   `json:"hidden"`
}

type slicerView struct {
	ID         uuid.UUID       `json:"id"`
	Levels     int             `json:"levels"`
	Search     string          `json:"search,omitempty"`
	Changed    bool            `json:"changed"`
	Nodes      []nodeView      `json:"nodes"`
	Filter     json.RawMessage `json:"filter"`
	FilterText string          `json:"filterText,omitempty"`
	Stale      []string        `json:"stale,omitempty"`
}

func (s *Server) handleCreateSlicer(w http.ResponseWriter, r *http.Request) {
	var req createSlicerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, fmt.Errorf("%w: %v", errBadRequest, err))
		return
	}

	opts := slicer.Options{
		Visual:     req.Visual,
		Levels:     req.Levels,
		Mode:       s.defaults.Mode,
		SelfFilter: s.defaults.SelfFilter,
	}
	if req.Mode != "" {
		mode, err := hierarchy.ParseMode(req.Mode)
		if err != nil {
			s.writeError(w, fmt.Errorf("%w: %v", errBadRequest, err))
			return
		}
		opts.Mode = mode
	}
	if req.SelfFilter != nil {
		opts.SelfFilter = *req.SelfFilter
	}

	id := uuid.New()
	if opts.Visual == "" {
		opts.Visual = id.String()
	}
	sess, err := slicer.New(opts, s.store, s.log)
	if err != nil {
		s.writeError(w, err)
		return
	}

	s.mu.Lock()
	s.sessions[id] = sess
	s.mu.Unlock()

	s.log.Info("slicer created", "id", id, "visual", opts.Visual, "levels", opts.Levels, "mode", opts.Mode)
	writeJSON(w, http.StatusCreated, createSlicerResponse{ID: id, Visual: opts.Visual})
}

func (s *Server) session(r *http.Request) (uuid.UUID, *slicer.Session, error) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		return id, nil, fmt.Errorf("%w: slicer %q", errNotFound, chi.URLParam(r, "id"))
	}
	s.mu.RLock()
	sess, ok := s.sessions[id]
	s.mu.RUnlock()
	if !ok {
		return id, nil, fmt.Errorf("%w: slicer %s", errNotFound, id)
	}
	return id, sess, nil
}

// withSession runs f on the addressed session and responds with the
// resulting tree.
func (s *Server) withSession(w http.ResponseWriter, r *http.Request, f func(ctx context.Context, sess *slicer.Session) (bool, error)) {
	id, sess, err := s.session(r)
	if err != nil {
		s.writeError(w, err)
		return
	}
	changed, err := f(r.Context(), sess)
	if err != nil {
		s.writeError(w, err)
		return
	}
	view, err := s.view(id, sess)
	if err != nil {
		s.writeError(w, err)
		return
	}
	view.Changed = changed
	writeJSON(w, http.StatusOK, view)
}

func (s *Server) view(id uuid.UUID, sess *slicer.Session) (slicerView, error) {
	snap, err := sess.Snapshot()
	if err != nil {
		return slicerView{}, err
	}
	data, err := filter.Encode(snap.Filter)
	if err != nil {
		return slicerView{}, err
	}

	v := slicerView{
		ID:     id,
		Levels: snap.Levels,
		Search: snap.Search,
		Nodes:  make([]nodeView, len(snap.Nodes)),
		Filter: data,
		Stale:  snap.Stale,
	}
	if snap.Filter != nil {
		v.FilterText = snap.Filter.String()
	}
	for i, n := range snap.Nodes {
		v.Nodes[i] = nodeView{
			ID:       n.ID,
			ParentID: n.ParentID,
			Level:    n.Level,
			Label:    n.Label,
			Leaf:     n.Leaf,
			Selected: n.Selected,
			Expanded: n.Expanded,
			Hidden:   n.Hidden,
		}
	}
	return v, nil
}

func (s *Server) handleGetSlicer(w http.ResponseWriter, r *http.Request) {
	s.withSession(w, r, func(ctx context.Context, sess *slicer.Session) (bool, error) {
		if !r.URL.Query().Has("search") {
			return false, nil
		}
		return false, sess.Search(ctx, r.URL.Query().Get("search"))
	})
}

func (s *Server) handleSlicerData(w http.ResponseWriter, r *http.Request) {
	s.withSession(w, r, func(ctx context.Context, sess *slicer.Session) (bool, error) {
		t, err := table.ReadCSV(r.Body)
		if err != nil {
			return false, err
		}
		return true, sess.Update(ctx, t)
	})
}

func decodeNode(r *http.Request) (string, error) {
	var req nodeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return "", fmt.Errorf("%w: %v", errBadRequest, err)
	}
	return req.Node, nil
}

func (s *Server) handleToggle(w http.ResponseWriter, r *http.Request) {
	s.withSession(w, r, func(ctx context.Context, sess *slicer.Session) (bool, error) {
		node, err := decodeNode(r)
		if err != nil {
			return false, err
		}
		return sess.Toggle(ctx, node)
	})
}

func (s *Server) handleExpand(w http.ResponseWriter, r *http.Request) {
	s.withSession(w, r, func(ctx context.Context, sess *slicer.Session) (bool, error) {
		node, err := decodeNode(r)
		if err != nil {
			return false, err
		}
		return sess.ToggleExpanded(ctx, node)
	})
}

func (s *Server) handleExpandAll(w http.ResponseWriter, r *http.Request) {
	s.withSession(w, r, func(ctx context.Context, sess *slicer.Session) (bool, error) {
		return true, sess.ExpandAll(ctx)
	})
}

func (s *Server) handleCollapseAll(w http.ResponseWriter, r *http.Request) {
	s.withSession(w, r, func(ctx context.Context, sess *slicer.Session) (bool, error) {
		return true, sess.CollapseAll(ctx)
	})
}

func (s *Server) handleClear(w http.ResponseWriter, r *http.Request) {
	s.withSession(w, r, func(ctx context.Context, sess *slicer.Session) (bool, error) {
		return true, sess.Clear(ctx)
	})
}
