package service

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/mmynk/giftdeed/internal/codec"
	"github.com/mmynk/giftdeed/internal/document"
	"github.com/mmynk/giftdeed/internal/form"
	"github.com/mmynk/giftdeed/internal/middleware"
	"github.com/mmynk/giftdeed/internal/models"
	"github.com/mmynk/giftdeed/internal/storage"
)

// Config holds the settings FormService needs beyond its store.
type Config struct {
	// PDF is passed to document.WritePDF.
	PDF document.PDFOptions
	// ExportFormat is used when an export request names no format.
	ExportFormat codec.Format
	// Clock supplies the default contract date of new forms.
	Clock func() time.Time
}

// session serializes the events of one form, so that each edit and the
// draft write that follows it happen as one step.
type session struct {
	mu  sync.Mutex
	ctl *form.Controller
}

// FormService serves contract forms over HTTP.
// Every form is a form.Controller whose state is written through to the
// draft store after each accepted edit.
type FormService struct {
	store   storage.Store
	metrics *middleware.Metrics
	cfg     Config

	mu       sync.Mutex
	sessions map[string]*session
}

// NewFormService creates a FormService with the given storage backend.
func NewFormService(store storage.Store, metrics *middleware.Metrics, cfg Config) (*FormService, error) {
	if cfg.Clock == nil {
		cfg.Clock = time.Now
	}
	if _, err := codec.ForFormat(cfg.ExportFormat); err != nil {
		return nil, err
	}
	if metrics == nil {
		metrics = middleware.NewMetrics()
	}
	return &FormService{
		store:    store,
		metrics:  metrics,
		cfg:      cfg,
		sessions: make(map[string]*session),
	}, nil
}

// CreateForm starts a new form in its default state.
func (s *FormService) CreateForm(ctx context.Context) (string, *form.Controller, error) {
	ctl := form.New(form.WithClock(s.cfg.Clock))

	draft := &models.Draft{Data: ctl.Snapshot()}
	if err := s.store.CreateDraft(ctx, draft); err != nil {
		slog.Error("CreateForm failed", "error", err)
		return "", nil, err
	}

	s.mu.Lock()
	s.sessions[draft.ID] = &session{ctl: ctl}
	s.mu.Unlock()

	slog.Info("Form created", "form_id", draft.ID, "contract_date", draft.Data.ContractDate)
	return draft.ID, ctl, nil
}

// session returns the live session for id, restoring it from the draft store
// when the server has not seen it since it started.
func (s *FormService) session(ctx context.Context, id string) (*session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if sess, ok := s.sessions[id]; ok {
		return sess, nil
	}

	draft, err := s.store.GetDraft(ctx, id)
	if err != nil {
		return nil, err
	}
	ctl, err := form.Restore(draft.Data)
	if err != nil {
		return nil, fmt.Errorf("draft %s: %w", id, err)
	}
	sess := &session{ctl: ctl}
	s.sessions[id] = sess

	slog.Info("Form restored from draft", "form_id", id, "gifts_count", len(draft.Data.Gifts))
	return sess, nil
}

// Read runs fn against the form without saving.
func (s *FormService) Read(ctx context.Context, id string, fn func(ctl *form.Controller) error) error {
	sess, err := s.session(ctx, id)
	if err != nil {
		return err
	}
	sess.mu.Lock()
	defer sess.mu.Unlock()
	return fn(sess.ctl)
}

// Edit runs fn against the form and saves the resulting state as the draft.
// A rejected edit leaves both the form and the draft unchanged, and so does a
// failed draft write. fn runs under the form's lock; anything it builds from
// ctl reflects exactly this edit.
func (s *FormService) Edit(ctx context.Context, id, op string, fn func(ctl *form.Controller) error) error {
	sess, err := s.session(ctx, id)
	if err != nil {
		return err
	}
	sess.mu.Lock()
	defer sess.mu.Unlock()

	prev := sess.ctl.Snapshot()
	if err := fn(sess.ctl); err != nil {
		s.metrics.RejectedEdits.WithLabelValues(rejectReason(err)).Inc()
		slog.Warn("Edit rejected", "form_id", id, "op", op, "error", err)
		return err
	}

	draft := &models.Draft{ID: id, Data: sess.ctl.Snapshot()}
	if err := s.store.UpdateDraft(ctx, draft); err != nil {
		slog.Error("Failed to save draft", "form_id", id, "op", op, "error", err)
		// prev came from a live controller, so Restore cannot fail.
		if ctl, rerr := form.Restore(prev); rerr == nil {
			sess.ctl = ctl
		}
		return err
	}
	slog.Debug("Edit applied", "form_id", id, "op", op)
	return nil
}

// Import replaces the form with the contract parsed from b. When then is not
// nil it runs on the imported form before the form is unlocked.
func (s *FormService) Import(ctx context.Context, id string, b []byte, cd codec.Codec, then func(ctl *form.Controller) error) error {
	err := s.Edit(ctx, id, "import", func(ctl *form.Controller) error {
		if err := ctl.Import(b, cd); err != nil {
			return err
		}
		if then != nil {
			return then(ctl)
		}
		return nil
	})
	result := "ok"
	if err != nil {
		result = "rejected"
	}
	s.metrics.Imports.WithLabelValues(result).Inc()
	return err
}

// DeleteForm discards a form and its draft.
func (s *FormService) DeleteForm(ctx context.Context, id string) error {
	if err := s.store.DeleteDraft(ctx, id); err != nil {
		return err
	}
	s.mu.Lock()
	delete(s.sessions, id)
	s.mu.Unlock()

	slog.Info("Form deleted", "form_id", id)
	return nil
}

// ListForms lists saved drafts.
func (s *FormService) ListForms(ctx context.Context) ([]models.DraftSummary, error) {
	return s.store.ListDrafts(ctx)
}

// exportCodec picks the codec for an export request.
func (s *FormService) exportCodec(format string) (codec.Codec, error) {
	if format == "" {
		return codec.ForFormat(s.cfg.ExportFormat)
	}
	return codec.ForFormat(codec.Format(format))
}
