package httpapi

import (
	"database/sql"
	"fmt"
	"mime"
	"net/http"
	"path/filepath"

	"easyapply-engine/internal/docgen"
	"easyapply-engine/internal/store"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type DocumentsHandler struct {
	DB        *sql.DB
	Documents Documents
	Log       *zap.Logger
}

func (h DocumentsHandler) Resume(w http.ResponseWriter, r *http.Request) {
	h.serve(w, r, docgen.Resume)
}

func (h DocumentsHandler) CoverLetter(w http.ResponseWriter, r *http.Request) {
	h.serve(w, r, docgen.CoverLetter)
}

func (h DocumentsHandler) serve(w http.ResponseWriter, r *http.Request, kind docgen.Kind) {
	format, err := docgen.ParseFormat(r.URL.Query().Get("format"))
	if err != nil {
		writeErr(w, r, h.Log, err)
		return
	}
	p, err := store.GetPosting(r.Context(), h.DB, chi.URLParam(r, "id"))
	if err != nil {
		writeErr(w, r, h.Log, err)
		return
	}

	path, err := h.Documents.Generate(r.Context(), p, kind, format)
	if err != nil {
		writeErr(w, r, h.Log, err)
		return
	}

	ext := filepath.Ext(path)
	ct := mime.TypeByExtension(ext)
	switch {
	case ext == ".tex":
		ct = "application/x-tex"
	case ct == "":
		ct = "application/octet-stream"
	}
	w.Header().Set("Content-Type", ct)
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s_%s%s"`, p.ID, kind, ext))
	http.ServeFile(w, r, path)
}
