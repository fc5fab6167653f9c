package render

import (
	"bufio"
	"bytes"
	"html/template"
	"os"
	"path"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/yuin/goldmark"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/jkirker/Page-Exec-Timer/internal/config"
	"github.com/jkirker/Page-Exec-Timer/internal/errors"
)

// Page is one rendered content page.
type Page struct {
	Name      string
	Title     string
	SiteTitle string
	Body      template.HTML
}

type cachedPage struct {
	html    []byte
	modTime time.Time
}

// Renderer converts Markdown content files into full HTML pages, caching
// rendered output until the source file's modification time changes.
type Renderer struct {
	dir       string
	siteTitle string
	md        goldmark.Markdown
	shell     *template.Template
	titler    cases.Caser

	mu    sync.RWMutex
	cache map[string]cachedPage
}

// New builds a Renderer over the configured content directory.
func New(cfg config.ContentConfig) (*Renderer, error) {
	shell, err := template.New("page").Parse(pageShell)
	if err != nil {
		return nil, errors.InternalError("parse page shell template", err)
	}
	return &Renderer{
		dir:       cfg.Dir,
		siteTitle: cfg.Title,
		md:        goldmark.New(),
		shell:     shell,
		titler:    cases.Title(language.English),
		cache:     make(map[string]cachedPage),
	}, nil
}

// Render returns the full HTML document for the named page. Unknown pages
// yield a not-found error; Markdown or template failures yield a render
// error wrapping the cause.
func (r *Renderer) Render(name string) ([]byte, error) {
	filePath, err := r.pagePath(name)
	if err != nil {
		return nil, err
	}

	info, err := os.Stat(filePath)
	if err != nil || info.IsDir() {
		return nil, errors.PageNotFound(name)
	}

	r.mu.RLock()
	cached, ok := r.cache[name]
	r.mu.RUnlock()
	if ok && cached.modTime.Equal(info.ModTime()) {
		return cached.html, nil
	}

	source, err := os.ReadFile(filePath)
	if err != nil {
		return nil, errors.RenderFailed(name, err)
	}

	var body bytes.Buffer
	if err := r.md.Convert(source, &body); err != nil {
		return nil, errors.RenderFailed(name, err)
	}

	page := Page{
		Name:      name,
		Title:     r.pageTitle(name, source),
		SiteTitle: r.siteTitle,
		Body:      template.HTML(body.String()),
	}

	var out bytes.Buffer
	if err := r.shell.Execute(&out, page); err != nil {
		return nil, errors.RenderFailed(name, err)
	}

	html := out.Bytes()
	r.mu.Lock()
	r.cache[name] = cachedPage{html: html, modTime: info.ModTime()}
	r.mu.Unlock()

	return html, nil
}

// Pages lists the renderable page names under the content directory,
// relative paths without the .md extension.
func (r *Renderer) Pages() ([]string, error) {
	var names []string
	err := filepath.WalkDir(r.dir, func(p string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.HasSuffix(d.Name(), ".md") {
			return nil
		}
		rel, err := filepath.Rel(r.dir, p)
		if err != nil {
			return err
		}
		names = append(names, filepath.ToSlash(strings.TrimSuffix(rel, ".md")))
		return nil
	})
	if err != nil {
		return nil, errors.StorageError("list content pages", err)
	}
	return names, nil
}

// InvalidateAll drops every cached page. The content watcher calls this
// after a debounced change burst.
func (r *Renderer) InvalidateAll() {
	r.mu.Lock()
	r.cache = make(map[string]cachedPage)
	r.mu.Unlock()
}

// CachedPages reports how many rendered pages the cache currently holds.
func (r *Renderer) CachedPages() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.cache)
}

// pagePath maps a page name onto a content file, collapsing any traversal
// segments so names cannot escape the content directory.
func (r *Renderer) pagePath(name string) (string, error) {
	clean := strings.TrimPrefix(path.Clean("/"+name), "/")
	if clean == "" || clean == "." {
		return "", errors.PageNotFound(name)
	}
	return filepath.Join(r.dir, filepath.FromSlash(clean)+".md"), nil
}

// pageTitle prefers the page's first level-one heading, falling back to a
// title-cased form of the page name.
func (r *Renderer) pageTitle(name string, source []byte) string {
	scanner := bufio.NewScanner(bytes.NewReader(source))
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if title, ok := strings.CutPrefix(line, "# "); ok {
			return strings.TrimSpace(title)
		}
		break
	}
	base := path.Base(name)
	return r.titler.String(strings.ReplaceAll(base, "-", " "))
}

const pageShell = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>{{.Title}} | {{.SiteTitle}}</title>
<style>
body { font-family: system-ui, sans-serif; max-width: 48rem; margin: 2rem auto; padding: 0 1rem; line-height: 1.6; }
header { margin-bottom: 2rem; }
header a { font-weight: 600; text-decoration: none; color: inherit; }
pre { background: #f4f4f4; padding: 1rem; overflow-x: auto; }
</style>
</head>
<body>
<header><a href="/">{{.SiteTitle}}</a></header>
<main>
{{.Body}}
</main>
</body>
</html>
`
