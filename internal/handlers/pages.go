package handlers

import (
	"html/template"
	"net/http"
	"os"
	"path/filepath"

	"github.com/shopspring/decimal"

	"github.com/fundlens/fundlens/internal/common"
)

// pageFuncs exposes the shared display formatters to the templates.
func pageFuncs() template.FuncMap {
	return template.FuncMap{
		"money":     common.FormatMoney,
		"value":     common.FormatValue,
		"compact":   common.FormatCompactValue,
		"pct":       common.FormatPct,
		"signedpct": common.FormatSignedPct,
	}
}

// PageHandler serves HTML pages rendered with Go templates.
type PageHandler struct {
	logger    *common.Logger
	state     State
	templates *template.Template
	devMode   bool
}

// NewPageHandler creates a new page handler that loads templates from the pages directory.
func NewPageHandler(logger *common.Logger, state State, devMode bool) *PageHandler {
	pagesDir := FindPagesDir()

	templates := template.Must(template.New("pages").Funcs(pageFuncs()).
		ParseGlob(filepath.Join(pagesDir, "*.html")))

	return &PageHandler{
		logger:    logger,
		state:     state,
		templates: templates,
		devMode:   devMode,
	}
}

// FindPagesDir locates the pages directory.
func FindPagesDir() string {
	dirs := []string{
		"./pages",
		"../pages",
		"../../pages",
		".",
	}

	for _, dir := range dirs {
		if info, err := os.Stat(dir); err == nil && info.IsDir() {
			abs, _ := filepath.Abs(dir)
			return abs
		}
	}

	return "."
}

// pageData is the template context shared by all pages. The dataset
// facts are zero before the first load completes.
type pageData struct {
	Page         string
	DevMode      bool
	FundCount    int
	HoldingCount int
	TotalValue   decimal.Decimal
}

// ServePage creates a handler function for serving a specific page template.
func (h *PageHandler) ServePage(templateName string, pageName string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		data := pageData{
			Page:       pageName,
			DevMode:    h.devMode,
			TotalValue: decimal.Zero,
		}
		if h.state != nil {
			if snap := h.state.Snapshot(); snap != nil {
				data.FundCount = snap.FundCount()
				data.HoldingCount = snap.HoldingCount()
				data.TotalValue = snap.TotalValue()
			}
		}

		if err := h.templates.ExecuteTemplate(w, templateName, data); err != nil {
			if h.logger != nil {
				h.logger.Error().Str("template", templateName).Str("error", err.Error()).Msg("failed to render page")
			}
			http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		}
	}
}

// StaticFileHandler serves static files (CSS, JS, images).
func (h *PageHandler) StaticFileHandler(w http.ResponseWriter, r *http.Request) {
	pagesDir := FindPagesDir()
	staticDir := filepath.Join(pagesDir, "static")

	// Remove /static/ prefix from URL path
	path := r.URL.Path[len("/static/"):]
	fullPath := filepath.Join(staticDir, path)

	// Security: prevent directory traversal
	absStaticDir, _ := filepath.Abs(staticDir)
	absFullPath, _ := filepath.Abs(fullPath)
	if len(absFullPath) < len(absStaticDir) || absFullPath[:len(absStaticDir)] != absStaticDir {
		http.NotFound(w, r)
		return
	}

	http.ServeFile(w, r, fullPath)
}
