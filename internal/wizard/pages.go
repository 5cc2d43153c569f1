package wizard

import (
	"bytes"
	"html/template"
	"net/http"

	"github.com/Masterminds/sprig/v3"

	"terrateam-setup/pkg/logging"
)

const devDisabledMessage = "Development mode is not enabled. Set TERRATEAM_DEV_MODE=true to enable."

const pageTemplates = `
{{define "layout"}}<!DOCTYPE html>
<html>
<head><meta charset="utf-8"><title>{{.Title}}</title></head>
<body style="font-family: Arial, sans-serif; padding: 2rem; max-width: 800px; margin: 0 auto;">
<h1>{{.Title}}</h1>
{{template "body" .}}
</body>
</html>{{end}}

{{define "index-body"}}
<p>The setup wizard is running. Active sessions: <strong>{{.Sessions}}</strong>.</p>
{{- with .GitHubOrg}}
<p>The GitHub App will be created in the <strong>{{. | trim}}</strong> organization.</p>
{{- end}}
<ul>
{{- range .Links}}
<li><a href="{{.Href}}">{{.Label}}</a>{{with .Note}} - {{.}}{{end}}</li>
{{- end}}
</ul>
{{end}}

{{define "dev-body"}}
<p>Development mode is <strong>{{"enabled" | upper}}</strong>. OAuth exchanges return mock credentials and still update the session store.</p>
<p>Active sessions: <strong>{{.Sessions}}</strong>, rendered {{now | date "2006-01-02 15:04:05"}}.</p>
<h2>Quick Links</h2>
<ul>
{{- range .Links}}
<li><a href="{{.Href}}">{{.Label}}</a>{{with .Note}} - {{.}}{{end}}</li>
{{- end}}
</ul>
<h2>How to use</h2>
<ol>
<li>Set <code>TERRATEAM_DEV_MODE=true</code> in your environment</li>
<li>POST any code to <code>/probot/oauth-exchange</code> with a <code>sessionId</code></li>
<li>POST the same <code>sessionId</code> to <code>/probot/api/finalize</code> to write {{.EnvFile | default ".env"}}</li>
</ol>
<p><strong>Note:</strong> Finalize still writes mock values to the env file.</p>
{{end}}
`

type link struct {
	Href  string
	Label string
	Note  string
}

type pageData struct {
	Title     string
	Sessions  int
	EnvFile   string
	GitHubOrg string
	Links     []link
}

var apiLinks = []link{
	{Href: "/probot/api/sessions", Label: "Sessions", Note: "active sessions without API keys"},
	{Href: "/probot/api/session-id", Label: "Session ID", Note: "resolve or generate a session id"},
	{Href: "/healthz", Label: "Health"},
}

type pages struct {
	index *template.Template
	dev   *template.Template
}

// newPages parses the page templates. Each page binds its own "body".
func newPages() *pages {
	base := template.Must(template.New("pages").Funcs(sprig.FuncMap()).Parse(pageTemplates))
	return &pages{
		index: template.Must(template.Must(base.Clone()).Parse(`{{define "body"}}{{template "index-body" .}}{{end}}`)),
		dev:   template.Must(template.Must(base.Clone()).Parse(`{{define "body"}}{{template "dev-body" .}}{{end}}`)),
	}
}

func (p *pages) render(w http.ResponseWriter, tmpl *template.Template, data pageData) {
	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, "layout", data); err != nil {
		logging.Error("Wizard", err, "Failed to render page %q", data.Title)
		http.Error(w, "Failed to render page", http.StatusInternalServerError)
		return
	}
	setSecurityHeaders(w)
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write(buf.Bytes())
}

func (h *Handler) handleIndex(w http.ResponseWriter, r *http.Request) {
	links := apiLinks
	if h.devMode {
		links = append([]link{{Href: "/probot/dev", Label: "Development Mode", Note: "mock flow helpers"}}, apiLinks...)
	}
	h.pages.render(w, h.pages.index, pageData{
		Title:     "Terrateam Setup",
		Sessions:  h.sessions.Len(),
		GitHubOrg: h.githubOrg,
		Links:     links,
	})
}

func (h *Handler) handleDev(w http.ResponseWriter, r *http.Request) {
	if !h.devMode {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(devDisabledMessage))
		return
	}

	envPath := ""
	if h.envFile != nil {
		envPath = h.envFile.Path
	}
	h.pages.render(w, h.pages.dev, pageData{
		Title:    "Terrateam Development Mode",
		Sessions: h.sessions.Len(),
		EnvFile:  envPath,
		Links: append([]link{
			{Href: "/probot", Label: "Start Setup Flow", Note: "normal setup flow"},
		}, apiLinks...),
	})
}
