package templates

import (
	"bytes"
	"embed"
	"encoding/json"
	"fmt"
	htmpl "html/template"
	"io"
	"strings"
	"sync"
	texttpl "text/template"
	"time"
)

//go:embed *.tmpl
var FS embed.FS

// Template names.
const (
	Welcome           = "welcome"
	LoginNotification = "login_notification"
)

// EmailData is the data shared by all templates.
type EmailData struct {
	Name      string    `json:"Name"`
	Email     string    `json:"Email"`
	AppName   string    `json:"AppName"`
	LoginURL  string    `json:"LoginURL"`
	IP        string    `json:"IP"`
	UserAgent string    `json:"UserAgent"`
	Time      string    `json:"Time"`
	TimeAt    time.Time `json:"TimeAt"`
}

// ToMap flattens d into the map carried by EmailJob.Data.
func ToMap(d EmailData) map[string]any {
	b, _ := json.Marshal(d)
	var m map[string]any
	_ = json.Unmarshal(b, &m)
	return m
}

// fallback backs the "default" pipe: {{ .Name | default "there" }}
func fallback(def, value any) any {
	if value == nil {
		return def
	}
	if s, ok := value.(string); ok && strings.TrimSpace(s) == "" {
		return def
	}
	return value
}

var funcs = map[string]any{"default": fallback}

// set holds the parsed parts of one template name.
type set struct {
	subject *texttpl.Template
	text    *texttpl.Template
	html    *htmpl.Template
}

var (
	loadOnce sync.Once
	sets     map[string]set
	loadErr  error
)

// load parses <name>.subject.tmpl, <name>.text.tmpl and <name>.html.tmpl
// for every known name, once.
func load() (map[string]set, error) {
	loadOnce.Do(func() {
		out := make(map[string]set, 2)
		for _, name := range []string{Welcome, LoginNotification} {
			var s set
			var err error
			if s.subject, err = texttpl.New(name).Funcs(funcs).ParseFS(FS, name+".subject.tmpl"); err != nil {
				loadErr = fmt.Errorf("parse %s subject: %w", name, err)
				return
			}
			if s.text, err = texttpl.New(name).Funcs(funcs).ParseFS(FS, name+".text.tmpl"); err != nil {
				loadErr = fmt.Errorf("parse %s text: %w", name, err)
				return
			}
			if s.html, err = htmpl.New(name).Funcs(funcs).ParseFS(FS, name+".html.tmpl"); err != nil {
				loadErr = fmt.Errorf("parse %s html: %w", name, err)
				return
			}
			out[name] = s
		}
		sets = out
	})
	return sets, loadErr
}

type executor interface {
	ExecuteTemplate(w io.Writer, name string, data any) error
}

func execute(t executor, file string, data any) (string, error) {
	var buf bytes.Buffer
	if err := t.ExecuteTemplate(&buf, file, data); err != nil {
		return "", fmt.Errorf("exec %q: %w", file, err)
	}
	return buf.String(), nil
}

// Render produces subject, plain text and HTML bodies for name.
func Render(name string, data any) (subject, text, html string, err error) {
	all, err := load()
	if err != nil {
		return "", "", "", err
	}
	s, ok := all[name]
	if !ok {
		return "", "", "", fmt.Errorf("unknown template %q", name)
	}
	if subject, err = execute(s.subject, name+".subject.tmpl", data); err != nil {
		return "", "", "", err
	}
	if text, err = execute(s.text, name+".text.tmpl", data); err != nil {
		return "", "", "", err
	}
	if html, err = execute(s.html, name+".html.tmpl", data); err != nil {
		return "", "", "", err
	}
	return strings.TrimSpace(subject), text, html, nil
}
