package service

import (
	"bytes"
	"embed"
	"encoding/json"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/mmynk/giftdeed/internal/codec"
	"github.com/mmynk/giftdeed/internal/document"
	"github.com/mmynk/giftdeed/internal/form"
	"github.com/mmynk/giftdeed/internal/models"
)

// maxImportBytes bounds the size of an uploaded contract data file.
const maxImportBytes = 1 << 20

//go:embed static
var staticFiles embed.FS

// formView is the representation of a form returned by the API.
// Data uses the same shape as the exported file.
type formView struct {
	ID              string          `json:"id"`
	Data            json.RawMessage `json:"data"`
	ContractDateISO string          `json:"contractDateISO"`
}

type valueRequest struct {
	Value *string `json:"value"`
}

type draftSummaryView struct {
	ID           string `json:"id"`
	DonorName    string `json:"donorName"`
	DoneeName    string `json:"doneeName"`
	ContractDate string `json:"contractDate"`
	GiftCount    int    `json:"giftCount"`
	UpdatedAt    int64  `json:"updatedAt"`
}

// Routes returns the HTTP handler for the API, the metrics endpoint and the
// form page.
func (s *FormService) Routes() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("POST /api/forms", s.handleCreate)
	mux.HandleFunc("GET /api/forms", s.handleList)
	mux.HandleFunc("GET /api/forms/{id}", s.handleGet)
	mux.HandleFunc("DELETE /api/forms/{id}", s.handleDelete)
	mux.HandleFunc("PUT /api/forms/{id}/parties/{role}/{field}", s.handleSetParty)
	mux.HandleFunc("PUT /api/forms/{id}/contract-date", s.handleSetContractDate)
	mux.HandleFunc("PUT /api/forms/{id}/special-terms", s.handleSetSpecialTerms)
	mux.HandleFunc("POST /api/forms/{id}/gifts", s.handleAddGift)
	mux.HandleFunc("PUT /api/forms/{id}/gifts/{index}", s.handleSetGift)
	mux.HandleFunc("DELETE /api/forms/{id}/gifts/{index}", s.handleRemoveGift)
	mux.HandleFunc("GET /api/forms/{id}/export", s.handleExport)
	mux.HandleFunc("POST /api/forms/{id}/import", s.handleImport)
	mux.HandleFunc("GET /api/forms/{id}/preview", s.handlePreview)
	mux.HandleFunc("GET /api/forms/{id}/document.pdf", s.handlePDF)

	mux.Handle("GET /metrics", s.metrics.Handler())

	static, err := fs.Sub(staticFiles, "static")
	if err != nil {
		// The embedded directory is part of the binary.
		panic(err)
	}
	mux.Handle("GET /", http.FileServerFS(static))

	return mux
}

func viewOf(id string, ctl *form.Controller) (formView, error) {
	data, err := ctl.Export(codec.JSON{})
	if err != nil {
		return formView{}, err
	}
	return formView{ID: id, Data: data, ContractDateISO: ctl.ContractDateISO()}, nil
}

func (s *FormService) writeForm(w http.ResponseWriter, status int, id string, ctl *form.Controller) {
	view, err := viewOf(id, ctl)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, status, view)
}

// editAndRespond applies fn and replies with the form's state right after it,
// captured before any later edit can run.
func (s *FormService) editAndRespond(w http.ResponseWriter, r *http.Request, op string, fn func(ctl *form.Controller) error) {
	id := r.PathValue("id")
	var view formView
	err := s.Edit(r.Context(), id, op, func(ctl *form.Controller) error {
		if err := fn(ctl); err != nil {
			return err
		}
		var err error
		view, err = viewOf(id, ctl)
		return err
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

func readValue(w http.ResponseWriter, r *http.Request) (string, error) {
	var req valueRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxImportBytes))
	if err := dec.Decode(&req); err != nil {
		return "", fmt.Errorf("%w: %v", errBadRequest, err)
	}
	if req.Value == nil {
		return "", fmt.Errorf("%w: missing value", errBadRequest)
	}
	return *req.Value, nil
}

func giftIndex(r *http.Request) (int, error) {
	index, err := strconv.Atoi(r.PathValue("index"))
	if err != nil {
		return 0, fmt.Errorf("%w: gift index %q", errBadRequest, r.PathValue("index"))
	}
	return index, nil
}

func (s *FormService) handleCreate(w http.ResponseWriter, r *http.Request) {
	id, ctl, err := s.CreateForm(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	s.writeForm(w, http.StatusCreated, id, ctl)
}

func (s *FormService) handleList(w http.ResponseWriter, r *http.Request) {
	drafts, err := s.ListForms(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	views := make([]draftSummaryView, len(drafts))
	for i, d := range drafts {
		views[i] = draftSummaryView(d)
	}
	writeJSON(w, http.StatusOK, views)
}

func (s *FormService) handleGet(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	err := s.Read(r.Context(), id, func(ctl *form.Controller) error {
		s.writeForm(w, http.StatusOK, id, ctl)
		return nil
	})
	if err != nil {
		writeError(w, err)
	}
}

func (s *FormService) handleDelete(w http.ResponseWriter, r *http.Request) {
	if err := s.DeleteForm(r.Context(), r.PathValue("id")); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *FormService) handleSetParty(w http.ResponseWriter, r *http.Request) {
	value, err := readValue(w, r)
	if err != nil {
		writeError(w, err)
		return
	}
	role := models.Role(r.PathValue("role"))
	field := models.PartyField(r.PathValue("field"))
	s.editAndRespond(w, r, "set_party", func(ctl *form.Controller) error {
		return ctl.SetParty(role, field, value)
	})
}

func (s *FormService) handleSetContractDate(w http.ResponseWriter, r *http.Request) {
	value, err := readValue(w, r)
	if err != nil {
		writeError(w, err)
		return
	}
	s.editAndRespond(w, r, "set_contract_date", func(ctl *form.Controller) error {
		return ctl.SetContractDate(value)
	})
}

func (s *FormService) handleSetSpecialTerms(w http.ResponseWriter, r *http.Request) {
	value, err := readValue(w, r)
	if err != nil {
		writeError(w, err)
		return
	}
	s.editAndRespond(w, r, "set_special_terms", func(ctl *form.Controller) error {
		return ctl.SetSpecialTerms(value)
	})
}

func (s *FormService) handleAddGift(w http.ResponseWriter, r *http.Request) {
	s.editAndRespond(w, r, "add_gift", func(ctl *form.Controller) error {
		ctl.AddGift()
		return nil
	})
}

func (s *FormService) handleSetGift(w http.ResponseWriter, r *http.Request) {
	index, err := giftIndex(r)
	if err != nil {
		writeError(w, err)
		return
	}
	value, err := readValue(w, r)
	if err != nil {
		writeError(w, err)
		return
	}
	s.editAndRespond(w, r, "set_gift", func(ctl *form.Controller) error {
		return ctl.SetGift(index, value)
	})
}

func (s *FormService) handleRemoveGift(w http.ResponseWriter, r *http.Request) {
	index, err := giftIndex(r)
	if err != nil {
		writeError(w, err)
		return
	}
	s.editAndRespond(w, r, "remove_gift", func(ctl *form.Controller) error {
		return ctl.RemoveGift(index)
	})
}

func (s *FormService) handleExport(w http.ResponseWriter, r *http.Request) {
	cd, err := s.exportCodec(r.URL.Query().Get("format"))
	if err != nil {
		writeError(w, fmt.Errorf("%w: %v", errBadRequest, err))
		return
	}

	var data []byte
	err = s.Read(r.Context(), r.PathValue("id"), func(ctl *form.Controller) error {
		var err error
		data, err = ctl.Export(cd)
		return err
	})
	if err != nil {
		writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", cd.ContentType()+"; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", codec.ExportFilename(cd)))
	w.Write(data)
}

func (s *FormService) handleImport(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	cd := codec.ForFilename(q.Get("filename"))
	if format := q.Get("format"); format != "" {
		var err error
		if cd, err = codec.ForFormat(codec.Format(format)); err != nil {
			writeError(w, fmt.Errorf("%w: %v", errBadRequest, err))
			return
		}
	}

	b, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxImportBytes))
	if err != nil {
		writeError(w, fmt.Errorf("%w: %v", errBadRequest, err))
		return
	}

	id := r.PathValue("id")
	var view formView
	err = s.Import(r.Context(), id, b, cd, func(ctl *form.Controller) error {
		var err error
		view, err = viewOf(id, ctl)
		return err
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

func (s *FormService) render(r *http.Request) (document.Document, error) {
	var doc document.Document
	err := s.Read(r.Context(), r.PathValue("id"), func(ctl *form.Controller) error {
		doc = ctl.Render()
		return nil
	})
	return doc, err
}

func (s *FormService) handlePreview(w http.ResponseWriter, r *http.Request) {
	doc, err := s.render(r)
	if err != nil {
		writeError(w, err)
		return
	}
	var buf bytes.Buffer
	if err := document.WriteHTML(&buf, doc); err != nil {
		writeError(w, err)
		return
	}
	s.metrics.DocumentsRendered.WithLabelValues("html").Inc()

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	buf.WriteTo(w)
}

func (s *FormService) handlePDF(w http.ResponseWriter, r *http.Request) {
	doc, err := s.render(r)
	if err != nil {
		writeError(w, err)
		return
	}
	var buf bytes.Buffer
	if err := document.WritePDF(&buf, doc, s.cfg.PDF); err != nil {
		writeError(w, err)
		return
	}
	s.metrics.DocumentsRendered.WithLabelValues("pdf").Inc()
	slog.Info("Document generated", "form_id", r.PathValue("id"), "bytes", buf.Len())

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", document.PDFFilename))
	buf.WriteTo(w)
}
