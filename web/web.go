// Package web provides the embedded web UI: an expression form and the
// recent evaluation history.
package web

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"net/url"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/gofiber/fiber/v2"

	"github.com/lemonberrylabs/boolcalc/pkg/diag"
	"github.com/lemonberrylabs/boolcalc/pkg/expr"
	"github.com/lemonberrylabs/boolcalc/pkg/store"
)

//go:embed templates/*.html
var templateFS embed.FS

// Source labels evaluations submitted through the UI in the history.
const Source = "ui"

// Handler serves the web UI pages.
type Handler struct {
	store  *store.Store
	maxLen int
	tmpl   *template.Template
}

type pageData struct {
	Selected    *selectedView
	Evaluations []*store.Evaluation
	Succeeded   int
	Failed      int
	Notice      string
}

type selectedView struct {
	*store.Evaluation
	Input string // whitespace flattened so the caret lines up
	Caret string
}

// New creates a new web UI handler. It panics if the embedded templates do
// not parse.
func New(s *store.Store, maxExpressionLength int) *Handler {
	funcMap := template.FuncMap{
		"timeAgo":    timeAgo,
		"formatTime": formatTime,
		"stateClass": stateClass,
		"stateIcon":  stateIcon,
		"truncate":   truncate,
	}
	return &Handler{
		store:  s,
		maxLen: maxExpressionLength,
		tmpl:   template.Must(template.New("").Funcs(funcMap).ParseFS(templateFS, "templates/index.html")),
	}
}

// Register adds web UI routes to the Fiber app.
func (h *Handler) Register(app *fiber.App) {
	app.Get("/ui", h.index)
	app.Post("/ui", h.evaluate)

	// Redirect root to UI
	app.Get("/", func(c *fiber.Ctx) error {
		return c.Redirect("/ui")
	})
}

func (h *Handler) index(c *fiber.Ctx) error {
	pd := pageData{
		Evaluations: h.store.List(),
		Notice:      c.Query("notice"),
	}
	pd.Succeeded, pd.Failed = h.store.Counts()

	if id := c.Query("id"); id != "" {
		ev, err := h.store.Get(id)
		if err != nil {
			pd.Notice = err.Error()
		} else {
			pd.Selected = newSelectedView(ev)
		}
	}

	var buf bytes.Buffer
	if err := h.tmpl.ExecuteTemplate(&buf, "index.html", pd); err != nil {
		return c.Status(500).SendString(fmt.Sprintf("template error: %v", err))
	}

	c.Set("Content-Type", "text/html; charset=utf-8")
	return c.Send(buf.Bytes())
}

func (h *Handler) evaluate(c *fiber.Ctx) error {
	expression := c.FormValue("expression")
	if err := store.CheckLength(expression, h.maxLen); err != nil {
		return c.Redirect("/ui?notice=" + url.QueryEscape(err.Error()))
	}

	ev := h.store.Evaluate(Source, expression)
	return c.Redirect("/ui?id=" + url.QueryEscape(ev.ID))
}

func newSelectedView(ev *store.Evaluation) *selectedView {
	v := &selectedView{Evaluation: ev, Input: diag.Flatten(ev.Expression)}
	if ev.Error != nil && ev.Error.Span != nil {
		span := expr.Span{Start: ev.Error.Span.Start, End: ev.Error.Span.End}
		v.Caret = strings.Repeat(" ", span.Start) + diag.Underline(span)
	}
	return v
}

func timeAgo(t time.Time) string {
	if t.IsZero() {
		return "—"
	}
	d := time.Since(t)
	switch {
	case d < time.Minute:
		return "just now"
	case d < time.Hour:
		m := int(d.Minutes())
		if m == 1 {
			return "1 minute ago"
		}
		return fmt.Sprintf("%d minutes ago", m)
	case d < 24*time.Hour:
		h := int(d.Hours())
		if h == 1 {
			return "1 hour ago"
		}
		return fmt.Sprintf("%d hours ago", h)
	default:
		days := int(d.Hours() / 24)
		if days == 1 {
			return "1 day ago"
		}
		return fmt.Sprintf("%d days ago", days)
	}
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return "—"
	}
	return t.Format("2006-01-02 15:04:05")
}

func stateClass(state store.EvaluationState) string {
	switch state {
	case store.EvaluationSucceeded:
		return "state-succeeded"
	case store.EvaluationFailed:
		return "state-failed"
	default:
		return ""
	}
}

func stateIcon(state store.EvaluationState) template.HTML {
	switch state {
	case store.EvaluationSucceeded:
		return "&#10003;"
	case store.EvaluationFailed:
		return "&#10007;"
	default:
		return "&#8226;"
	}
}

// truncate shortens s to maxLen characters.
func truncate(s string, maxLen int) string {
	if utf8.RuneCountInString(s) <= maxLen {
		return s
	}
	return string([]rune(s)[:maxLen]) + "..."
}
