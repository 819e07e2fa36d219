package chi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/kailas-cloud/retaildex/internal/domain/prompt"
	"github.com/kailas-cloud/retaildex/internal/logger"
	copyuc "github.com/kailas-cloud/retaildex/internal/usecase/copywriter"
)

// GetCopy handles GET /products/{id}/copy.
func (s *Server) GetCopy(w http.ResponseWriter, r *http.Request) {
	if s.copywriter == nil {
		notConfigured(w, "copy generation")
		return
	}
	c, err := s.copywriter.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, c)
}

// PutCopy handles PUT /products/{id}/copy.
func (s *Server) PutCopy(w http.ResponseWriter, r *http.Request) {
	if s.copywriter == nil {
		notConfigured(w, "copy generation")
		return
	}
	var req PutCopyRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	id := chi.URLParam(r, "id")
	ctx := logger.With(r.Context(), zap.String("product_id", id))
	c, err := s.copywriter.Save(ctx, id, req.Text, req.Model)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, c)
}

// GenerateCopy handles POST /products/{id}/copy:generate.
func (s *Server) GenerateCopy(w http.ResponseWriter, r *http.Request) {
	if s.copywriter == nil {
		notConfigured(w, "copy generation")
		return
	}
	var req GenerateCopyRequest
	if r.ContentLength != 0 && !decodeJSON(w, r, &req) {
		return
	}
	variants := req.Variants
	if variants == 0 {
		variants = 1
	}
	id := chi.URLParam(r, "id")
	ctx := logger.With(r.Context(), zap.String("product_id", id))
	gen, err := s.copywriter.GenerateVariants(ctx, copyuc.Request{
		ProductID: id,
		Model:     req.Model,
		Template:  req.Prompt,
	}, variants)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, gen)
}

// ListModels handles GET /models.
func (s *Server) ListModels(w http.ResponseWriter, _ *http.Request) {
	var models []prompt.Model
	if s.copywriter != nil {
		models = s.copywriter.Models()
	}
	if models == nil {
		models = []prompt.Model{}
	}
	writeJSON(w, http.StatusOK, ListResponse[prompt.Model]{Items: models, Total: len(models)})
}

// Chat handles POST /chat, streaming the completion as text/plain.
// Errors before the first chunk are answered as JSON; later ones end the stream.
func (s *Server) Chat(w http.ResponseWriter, r *http.Request) {
	if s.copywriter == nil {
		notConfigured(w, "chat")
		return
	}
	var req ChatRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	rc := http.NewResponseController(w)
	started := false
	err := s.copywriter.Chat(r.Context(), req.Model, req.Messages, func(delta string) error {
		if !started {
			w.Header().Set("Content-Type", "text/plain; charset=utf-8")
			w.Header().Set("X-Content-Type-Options", "nosniff")
			w.WriteHeader(http.StatusOK)
			started = true
		}
		if _, err := w.Write([]byte(delta)); err != nil {
			return err //nolint:wrapcheck // client went away
		}
		_ = rc.Flush()
		return nil
	})
	switch {
	case err != nil && !started:
		s.handleDomainError(w, err)
	case err != nil:
		logger.FromContext(r.Context()).Warn("chat stream interrupted", zap.Error(err))
	case !started:
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.WriteHeader(http.StatusOK)
	}
}
