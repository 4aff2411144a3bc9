package api

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/matzehuels/drawgraph/pkg/command"
	"github.com/matzehuels/drawgraph/pkg/document"
	"github.com/matzehuels/drawgraph/pkg/editor"
	errs "github.com/matzehuels/drawgraph/pkg/errors"
	"github.com/matzehuels/drawgraph/pkg/geom"
	"github.com/matzehuels/drawgraph/pkg/history"
	"github.com/matzehuels/drawgraph/pkg/shape"
	"github.com/matzehuels/drawgraph/pkg/store"
)

// ShapeSummary is the list view of a shape.
type ShapeSummary struct {
	ID       string      `json:"id"`
	Type     shape.Type  `json:"type"`
	Bounds   geom.Bounds `json:"bounds"`
	Rotation float64     `json:"rotation"`
}

// HistoryView is the response of /history, /undo and /redo.
type HistoryView struct {
	State   string   `json:"state"`
	CanUndo bool     `json:"canUndo"`
	CanRedo bool     `json:"canRedo"`
	Undo    []string `json:"undo"`
	Redo    []string `json:"redo"`
}

type idResponse struct {
	ID string `json:"id"`
}

func summarize(s shape.Shape) ShapeSummary {
	return ShapeSummary{ID: s.ID(), Type: s.Type(), Bounds: s.Bounds(), Rotation: s.Rotation()}
}

func historyView(h *history.History) HistoryView {
	undo, redo := h.Entries()
	if undo == nil {
		undo = []string{}
	}
	if redo == nil {
		redo = []string{}
	}
	return HistoryView{
		State:   h.State().String(),
		CanUndo: h.CanUndo(),
		CanRedo: h.CanRedo(),
		Undo:    undo,
		Redo:    redo,
	}
}

// =============================================================================
// Document
// =============================================================================

func (s *Server) handleGetDocument(w http.ResponseWriter, r *http.Request) {
	var snap document.Snapshot
	_ = s.locked(func(ed *editor.Editor) error {
		snap = ed.Snapshot()
		return nil
	})
	writeJSON(w, http.StatusOK, snap)
}

func (s *Server) handlePutDocument(w http.ResponseWriter, r *http.Request) {
	var snap document.Snapshot
	if err := decode(r, &snap); err != nil {
		s.writeError(w, err)
		return
	}
	err := s.locked(func(ed *editor.Editor) error { return ed.Load(snap) })
	if err != nil {
		s.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// =============================================================================
// Shapes
// =============================================================================

func (s *Server) handleListShapes(w http.ResponseWriter, r *http.Request) {
	var out []ShapeSummary
	_ = s.locked(func(ed *editor.Editor) error {
		shapes := ed.Document().Shapes()
		out = make([]ShapeSummary, 0, len(shapes))
		for _, sh := range shapes {
			out = append(out, summarize(sh))
		}
		return nil
	})
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleGetShape(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	var rec shape.Record
	err := s.locked(func(ed *editor.Editor) error {
		sh, ok := ed.Shape(id)
		if !ok {
			return errs.New(errs.ErrCodeShapeNotFound, "shape %s not found", id)
		}
		rec = sh.Serialize()
		return nil
	})
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

// handleAddShape accepts a full record. Edges must go through /edges so
// their offset is assigned by the registry.
func (s *Server) handleAddShape(w http.ResponseWriter, r *http.Request) {
	var rec shape.Record
	if err := decode(r, &rec); err != nil {
		s.writeError(w, err)
		return
	}
	if rec.Type == shape.TypeEdge {
		s.writeError(w, errs.New(errs.ErrCodeInvalidInput, "edges are added with POST /edges"))
		return
	}
	if rec.ID == "" {
		rec.ID = shape.NewID()
	}
	var id string
	err := s.locked(func(ed *editor.Editor) error {
		sh, err := shape.FromRecord(rec, ed.Registry())
		if err != nil {
			return err
		}
		id, err = ed.AddShape(sh)
		return err
	})
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, idResponse{ID: id})
}

func (s *Server) handleDeleteShape(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	s.mutate(w, func(ed *editor.Editor) error { return ed.Delete(id) })
}

type moveRequest struct {
	DX float64 `json:"dx"`
	DY float64 `json:"dy"`
}

func (s *Server) handleMove(w http.ResponseWriter, r *http.Request) {
	var req moveRequest
	if err := decode(r, &req); err != nil {
		s.writeError(w, err)
		return
	}
	id := chi.URLParam(r, "id")
	s.mutate(w, func(ed *editor.Editor) error { return ed.Move([]string{id}, req.DX, req.DY) })
}

type rotateRequest struct {
	Degrees float64 `json:"degrees"`
}

func (s *Server) handleRotate(w http.ResponseWriter, r *http.Request) {
	var req rotateRequest
	if err := decode(r, &req); err != nil {
		s.writeError(w, err)
		return
	}
	id := chi.URLParam(r, "id")
	s.mutate(w, func(ed *editor.Editor) error { return ed.Rotate(id, req.Degrees) })
}

type resizeRequest struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

func (s *Server) handleResize(w http.ResponseWriter, r *http.Request) {
	var req resizeRequest
	if err := decode(r, &req); err != nil {
		s.writeError(w, err)
		return
	}
	id := chi.URLParam(r, "id")
	s.mutate(w, func(ed *editor.Editor) error { return ed.Resize(id, req.Width, req.Height) })
}

type labelRequest struct {
	Label string `json:"label"`
}

func (s *Server) handleLabel(w http.ResponseWriter, r *http.Request) {
	var req labelRequest
	if err := decode(r, &req); err != nil {
		s.writeError(w, err)
		return
	}
	id := chi.URLParam(r, "id")
	s.mutate(w, func(ed *editor.Editor) error { return ed.EditLabel(id, req.Label) })
}

// stylePatch changes only the fields that are present.
type stylePatch struct {
	Fill        *string   `json:"fill"`
	Stroke      *string   `json:"stroke"`
	StrokeWidth *float64  `json:"strokeWidth"`
	Opacity     *float64  `json:"opacity"`
	Dash        []float64 `json:"dash"`
	LineCap     *string   `json:"lineCap"`
}

func (p stylePatch) apply(st shape.Style) shape.Style {
	if p.Fill != nil {
		st.Fill = *p.Fill
	}
	if p.Stroke != nil {
		st.Stroke = *p.Stroke
	}
	if p.StrokeWidth != nil {
		st.StrokeWidth = *p.StrokeWidth
	}
	if p.Opacity != nil {
		st.Opacity = *p.Opacity
	}
	if p.Dash != nil {
		st.Dash = p.Dash
	}
	if p.LineCap != nil {
		st.LineCap = *p.LineCap
	}
	return st
}

func (s *Server) handleStyle(w http.ResponseWriter, r *http.Request) {
	var patch stylePatch
	if err := decode(r, &patch); err != nil {
		s.writeError(w, err)
		return
	}
	id := chi.URLParam(r, "id")
	s.mutate(w, func(ed *editor.Editor) error { return ed.SetStyle([]string{id}, patch.apply) })
}

func (s *Server) handleUngroup(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	s.mutate(w, func(ed *editor.Editor) error { return ed.Ungroup(id) })
}

// =============================================================================
// Graph
// =============================================================================

type nodeRequest struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Radius float64 `json:"radius"`
	Label  string  `json:"label"`
}

func (s *Server) handleAddNode(w http.ResponseWriter, r *http.Request) {
	var req nodeRequest
	if err := decode(r, &req); err != nil {
		s.writeError(w, err)
		return
	}
	s.create(w, func(ed *editor.Editor) (string, error) {
		return ed.AddNode(req.X, req.Y, req.Radius, req.Label)
	})
}

type edgeRequest struct {
	Source    string          `json:"source"`
	Target    string          `json:"target"`
	Direction shape.Direction `json:"direction"`
}

func (s *Server) handleAddEdge(w http.ResponseWriter, r *http.Request) {
	var req edgeRequest
	if err := decode(r, &req); err != nil {
		s.writeError(w, err)
		return
	}
	if req.Direction == "" {
		req.Direction = shape.DirectionForward
	}
	s.create(w, func(ed *editor.Editor) (string, error) {
		return ed.AddEdge(req.Source, req.Target, req.Direction)
	})
}

// =============================================================================
// Arrangement
// =============================================================================

type orderRequest struct {
	IDs []string `json:"ids"`
	Op  string   `json:"op"`
}

func (s *Server) handleOrder(w http.ResponseWriter, r *http.Request) {
	var req orderRequest
	if err := decode(r, &req); err != nil {
		s.writeError(w, err)
		return
	}
	op, err := command.ParseZOp(req.Op)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.mutate(w, func(ed *editor.Editor) error { return ed.Reorder(req.IDs, op) })
}

type distributeRequest struct {
	IDs  []string     `json:"ids"`
	Axis command.Axis `json:"axis"`
}

func (s *Server) handleDistribute(w http.ResponseWriter, r *http.Request) {
	var req distributeRequest
	if err := decode(r, &req); err != nil {
		s.writeError(w, err)
		return
	}
	s.mutate(w, func(ed *editor.Editor) error { return ed.Distribute(req.IDs, req.Axis) })
}

type groupRequest struct {
	IDs []string `json:"ids"`
}

func (s *Server) handleGroup(w http.ResponseWriter, r *http.Request) {
	var req groupRequest
	if err := decode(r, &req); err != nil {
		s.writeError(w, err)
		return
	}
	s.create(w, func(ed *editor.Editor) (string, error) { return ed.Group(req.IDs) })
}

type layoutRequest struct {
	Name string `json:"name"`
}

func (s *Server) handleLayout(w http.ResponseWriter, r *http.Request) {
	var req layoutRequest
	if err := decode(r, &req); err != nil {
		s.writeError(w, err)
		return
	}
	if req.Name == "" {
		req.Name = "neato"
	}
	s.mutate(w, func(ed *editor.Editor) error { return ed.ApplyLayout(r.Context(), req.Name) })
}

func (s *Server) handleHit(w http.ResponseWriter, r *http.Request) {
	x, errX := strconv.ParseFloat(r.URL.Query().Get("x"), 64)
	y, errY := strconv.ParseFloat(r.URL.Query().Get("y"), 64)
	if errX != nil || errY != nil {
		s.writeError(w, errs.New(errs.ErrCodeInvalidInput, "hit: x and y must be numbers"))
		return
	}
	var (
		hit shape.Shape
		ok  bool
	)
	_ = s.locked(func(ed *editor.Editor) error {
		hit, ok = ed.HitTest(geom.Pt(x, y))
		return nil
	})
	if !ok {
		s.writeError(w, errs.New(errs.ErrCodeNotFound, "no shape at %v,%v", x, y))
		return
	}
	writeJSON(w, http.StatusOK, summarize(hit))
}

// =============================================================================
// History
// =============================================================================

func (s *Server) handleUndo(w http.ResponseWriter, r *http.Request) {
	s.mutate(w, func(ed *editor.Editor) error { return ed.Undo() })
}

func (s *Server) handleRedo(w http.ResponseWriter, r *http.Request) {
	s.mutate(w, func(ed *editor.Editor) error { return ed.Redo() })
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	var view HistoryView
	_ = s.locked(func(ed *editor.Editor) error {
		view = historyView(ed.History())
		return nil
	})
	writeJSON(w, http.StatusOK, view)
}

// mutate runs fn and answers with the resulting history view.
func (s *Server) mutate(w http.ResponseWriter, fn func(ed *editor.Editor) error) {
	var view HistoryView
	err := s.locked(func(ed *editor.Editor) error {
		if err := fn(ed); err != nil {
			return err
		}
		view = historyView(ed.History())
		return nil
	})
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

// create runs fn and answers 201 with the new shape's id.
func (s *Server) create(w http.ResponseWriter, fn func(ed *editor.Editor) (string, error)) {
	var id string
	err := s.locked(func(ed *editor.Editor) error {
		var err error
		id, err = fn(ed)
		return err
	})
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, idResponse{ID: id})
}

// =============================================================================
// Store
// =============================================================================

func (s *Server) handleListDocuments(w http.ResponseWriter, r *http.Request) {
	lister, ok := s.st.(store.Lister)
	if !ok {
		s.writeError(w, errs.New(errs.ErrCodeUnsupported, "store cannot list documents"))
		return
	}
	keys, err := lister.Keys(r.Context())
	if err != nil {
		s.writeError(w, errs.Wrap(errs.ErrCodeStore, err, "list documents"))
		return
	}
	if keys == nil {
		keys = []string{}
	}
	writeJSON(w, http.StatusOK, map[string][]string{"keys": keys})
}

func (s *Server) handleSave(w http.ResponseWriter, r *http.Request) {
	key := chi.URLParam(r, "key")
	var snap document.Snapshot
	_ = s.locked(func(ed *editor.Editor) error {
		snap = ed.Snapshot()
		return nil
	})
	if err := store.Save(r.Context(), s.st, key, snap, s.ttl); err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"key": key, "shapes": len(snap.Shapes)})
}

func (s *Server) handleLoad(w http.ResponseWriter, r *http.Request) {
	key := chi.URLParam(r, "key")
	snap, err := store.Load(r.Context(), s.st, key)
	if err != nil {
		s.writeError(w, err)
		return
	}
	if err := s.locked(func(ed *editor.Editor) error { return ed.Load(snap) }); err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"key": key, "shapes": len(snap.Shapes)})
}
