// Package webui exposes a minimal HTTP server with an HTML form that lets
// you paste a CSV sample, set the column options, and see the generated
// script without installing the CLI.
//
// Routes:
//
//	GET  /             → form
//	POST /convert      → runs the conversion with form inputs; renders output inline
//	POST /api/convert  → machine-friendly API, returns the script as text/plain
package webui

import (
	_ "embed"
	"html/template"
	"log"
	"net/http"
	"strings"

	"csv2opal/internal/colspec"
	"csv2opal/internal/opal"
	"csv2opal/internal/sanitize"
)

// Config controls server startup.
type Config struct {
	Addr string
}

// Server wraps http.ServeMux for convenience.
type Server struct {
	cfg  Config
	mux  *http.ServeMux
	tmpl *template.Template
}

// NewServer constructs a Server with routes and the embedded template.
func NewServer(cfg Config) *Server {
	s := &Server{
		cfg:  cfg,
		mux:  http.NewServeMux(),
		tmpl: template.Must(template.New("index").Parse(indexHTML)),
	}
	s.routes()
	return s
}

// Handler returns the route mux, for mounting under an http.Server.
func (s *Server) Handler() http.Handler { return s.mux }

// ListenAndServe starts the HTTP server.
func (s *Server) ListenAndServe() error {
	return http.ListenAndServe(s.cfg.Addr, s.mux)
}

func (s *Server) routes() {
	s.mux.HandleFunc("/", s.handleIndex)
	s.mux.HandleFunc("/convert", s.handleConvert)
	s.mux.HandleFunc("/api/convert", s.handleAPIConvert)
}

// handleIndex renders the input form.
func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}
	_ = s.tmpl.Execute(w, nil)
}

// formInput carries the form fields back into the rendered page.
type formInput struct {
	CSV      string
	Drop     string
	Dequote  string
	Labels   string
	Casts    string
	Sanitize bool

	Script string
	Error  string
}

// convertForm builds a column spec from the form values and runs the
// conversion over the pasted CSV text.
func convertForm(in formInput) (string, error) {
	b := colspec.NewBuilder()
	b.SetSanitizer(sanitize.Identifier)
	b.SanitizeLabels = in.Sanitize
	if in.Drop != "" {
		if err := b.SetDrop(in.Drop); err != nil {
			return "", err
		}
	}
	if in.Dequote != "" {
		if err := b.SetDequote(in.Dequote); err != nil {
			return "", err
		}
	}
	if in.Labels != "" {
		if err := b.SetLabels(in.Labels); err != nil {
			return "", err
		}
	}
	if in.Casts != "" {
		if err := b.SetCasts(in.Casts); err != nil {
			return "", err
		}
	}

	var out strings.Builder
	_, err := opal.Convert(&out, strings.NewReader(in.CSV), b, opal.Options{})
	if err != nil {
		return "", err
	}
	return out.String(), nil
}

func readForm(r *http.Request) formInput {
	return formInput{
		CSV:      r.FormValue("csv"),
		Drop:     strings.TrimSpace(r.FormValue("drop")),
		Dequote:  strings.TrimSpace(r.FormValue("dequote")),
		Labels:   strings.TrimSpace(r.FormValue("labels")),
		Casts:    strings.TrimSpace(r.FormValue("casts")),
		Sanitize: r.FormValue("sanitize") != "",
	}
}

// handleConvert processes the form and renders a results page.
func (s *Server) handleConvert(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "bad form: "+err.Error(), http.StatusBadRequest)
		return
	}
	in := readForm(r)
	script, err := convertForm(in)
	if err != nil {
		in.Error = err.Error()
	} else {
		in.Script = script
	}
	if err := s.tmpl.Execute(w, in); err != nil {
		log.Println("template error:", err)
	}
}

// handleAPIConvert returns text/plain so scripts can curl it easily.
func (s *Server) handleAPIConvert(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "POST a form with a csv field", http.StatusMethodNotAllowed)
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, "bad form: "+err.Error(), http.StatusBadRequest)
		return
	}
	script, err := convertForm(readForm(r))
	if err != nil {
		http.Error(w, "convert failed: "+err.Error(), http.StatusBadRequest)
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte(script))
}

// indexHTML is an embedded, minimal page with vanilla styling.
//
//go:embed index.tmpl.html
var indexHTML string
