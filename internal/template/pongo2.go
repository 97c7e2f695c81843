package template

import (
	"bytes"
	"embed"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"net/http"
	"time"

	"github.com/flosch/pongo2/v6"
	"github.com/gin-gonic/gin"

	"github.com/gotrs-io/gotrs-console/internal/i18n"
)

//go:embed templates
var templatesFS embed.FS

// Options configures the renderer.
type Options struct {
	// Dir loads templates from disk instead of the embedded copy, which
	// makes template edits visible without a rebuild.
	Dir string
	// Debug disables the template cache.
	Debug  bool
	Logger *slog.Logger
	// Now feeds relative time helpers; defaults to time.Now.
	Now func() time.Time
}

// Pongo2Renderer renders page templates with the per-language helpers.
type Pongo2Renderer struct {
	set    *pongo2.TemplateSet
	i18n   *i18n.I18n
	logger *slog.Logger
	now    func() time.Time
}

// NewPongo2Renderer creates a renderer over the embedded templates or
// opts.Dir.
func NewPongo2Renderer(tr *i18n.I18n, opts Options) (*Pongo2Renderer, error) {
	var loader pongo2.TemplateLoader
	if opts.Dir != "" {
		l, err := pongo2.NewLocalFileSystemLoader(opts.Dir)
		if err != nil {
			return nil, fmt.Errorf("template dir %s: %w", opts.Dir, err)
		}
		loader = l
	} else {
		sub, err := fs.Sub(templatesFS, "templates")
		if err != nil {
			return nil, err
		}
		l, err := pongo2.NewHttpFileSystemLoader(http.FS(sub), "")
		if err != nil {
			return nil, fmt.Errorf("embedded templates: %w", err)
		}
		loader = l
	}

	set := pongo2.NewSet("console", loader)
	set.Debug = opts.Debug

	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Pongo2Renderer{set: set, i18n: tr, logger: opts.Logger, now: opts.Now}, nil
}

// Context builds the template context for lang on top of data.
func (r *Pongo2Renderer) Context(lang string, data pongo2.Context) pongo2.Context {
	ctx := pongo2.Context(r.i18n.TemplateFuncs(lang, r.now))
	ctx["Lang"] = lang
	ctx["Languages"] = r.i18n.GetSupportedLanguages()
	return ctx.Update(data)
}

// Render writes template name to w.
func (r *Pongo2Renderer) Render(w io.Writer, name, lang string, data pongo2.Context) error {
	tmpl, err := r.set.FromCache(name)
	if err != nil {
		return fmt.Errorf("load template %s: %w", name, err)
	}
	if err := tmpl.ExecuteWriter(r.Context(lang, data), w); err != nil {
		return fmt.Errorf("execute template %s: %w", name, err)
	}
	return nil
}

// HTML renders into a buffer first so a template failure never leaves a
// half-written page behind.
func (r *Pongo2Renderer) HTML(c *gin.Context, code int, name, lang string, data pongo2.Context) {
	var buf bytes.Buffer
	if err := r.Render(&buf, name, lang, data); err != nil {
		r.logger.Error("template render failed", slog.String("template", name), slog.Any("error", err))
		c.String(http.StatusInternalServerError, "template error")
		return
	}
	c.Data(code, "text/html; charset=utf-8", buf.Bytes())
}
