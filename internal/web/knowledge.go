package web

import (
	"context"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"

	"github.com/flosch/pongo2/v6"
	"github.com/gin-gonic/gin"

	"github.com/gotrs-io/gotrs-console/internal/apiclient"
	"github.com/gotrs-io/gotrs-console/internal/models"
	"github.com/gotrs-io/gotrs-console/internal/pages"
	"github.com/gotrs-io/gotrs-console/internal/validation"
)

const excerptLength = 120

// ArticleRow is a list entry with a plain text preview.
type ArticleRow struct {
	models.KnowledgeArticle
	Excerpt string
}

// categories returns the upstream category counts, or the bundled ones.
func (s *Server) categories(ctx context.Context) ([]models.Category, bool) {
	resp, err := s.deps.Services.KnowledgeBase.Categories(ctx)
	if err != nil {
		s.logger.Warn("category load failed, showing demo data",
			slog.String("kind", apiclient.Kind(err)),
			slog.Any("error", err))
		return s.deps.Mocks.Categories, false
	}
	return resp.Data, true
}

func (s *Server) handleKnowledgeBase(c *gin.Context) {
	ws := workspaceOf(c)
	filter := pages.ArticleFilter{Search: c.Query("search"), Category: c.Query("category")}
	if !load(c, ws.Pages.Articles, filter) {
		return
	}
	s.renderKnowledgeBase(c, http.StatusOK, formState{}, "")
}

func (s *Server) renderKnowledgeBase(c *gin.Context, code int, form formState, flash string) {
	v := workspaceOf(c).Pages.Articles.View()
	cats, live := s.categories(c.Request.Context())

	rows := make([]ArticleRow, 0, len(v.Items))
	for _, a := range v.Items {
		rows = append(rows, ArticleRow{KnowledgeArticle: a, Excerpt: s.deps.Markdown.Excerpt(a.Content, excerptLength)})
	}

	var body string
	if v.Selected != nil {
		html, err := s.deps.Markdown.Render(v.Selected.Content)
		if err != nil {
			s.logger.Warn("article render failed", slog.String("article", v.Selected.ID), slog.Any("error", err))
		}
		body = html
	}

	data := form.context()
	data.Update(pongo2.Context{
		"Demo":        v.Source == pages.SourceMock || !live,
		"Flash":       flash,
		"Filter":      pongo2.Context{"Search": v.Filter.Search, "Category": v.Filter.Category},
		"Categories":  cats,
		"Items":       rows,
		"Count":       len(rows),
		"Selected":    v.Selected,
		"SelectedID":  selectedID(v.Selected),
		"SelectBase":  selectBase("/knowledge-base", url.Values{"search": {v.Filter.Search}, "category": {v.Filter.Category}}),
		"ArticleHTML": body,
	})
	s.render(c, code, "pages/knowledge_base.pongo2", "kb.title", data)
}

func (s *Server) handleCreateArticle(c *gin.Context) {
	ctx := c.Request.Context()
	ws := workspaceOf(c)
	ensureLoaded(ctx, ws.Pages.Articles)

	values := postedForm(c, "title", "category", "content", "published")
	published, _ := strconv.ParseBool(values["published"])
	req := models.ArticleCreateRequest{
		Title:     values["title"],
		Category:  values["category"],
		Content:   values["content"],
		Published: &published,
	}
	if !published {
		values["published"] = ""
	}

	form := s.validate(c, validation.FormArticle, req, values)
	if form.failed() {
		s.renderKnowledgeBase(c, http.StatusUnprocessableEntity, form, "")
		return
	}

	created, err := s.deps.Services.KnowledgeBase.Create(ctx, req)
	if err != nil {
		s.explain(c, validation.FormArticle, err, &form)
		s.renderKnowledgeBase(c, http.StatusUnprocessableEntity, form, "")
		return
	}

	ws.Pages.Articles.Merge(*created)
	ws.UI.Articles.Add(*created)
	s.logger.Info("article created", slog.String("article", created.ID))
	s.renderKnowledgeBase(c, http.StatusCreated, formState{}, s.t(c, "common.saved"))
}
