package http

import (
	"net/http"
	"strings"
)

// RouterConfig lists the handlers to mount. Nil handlers leave their routes unregistered.
type RouterConfig struct {
	Screening  *ScreeningHandler
	Interviews *InterviewHandler
	Middleware []func(http.Handler) http.Handler
}

func NewRouter(cfg RouterConfig) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			methodNotAllowed(w, http.MethodGet)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	})

	if cfg.Screening != nil {
		mux.HandleFunc("/duplicates", func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodPost {
				methodNotAllowed(w, http.MethodPost)
				return
			}
			cfg.Screening.DetectDuplicates(w, r)
		})
		mux.HandleFunc("/jobs/", func(w http.ResponseWriter, r *http.Request) {
			id, action := splitResourcePath(r.URL.Path, "/jobs/")
			if id == "" || action != "rankings" {
				http.NotFound(w, r)
				return
			}
			if r.Method != http.MethodGet {
				methodNotAllowed(w, http.MethodGet)
				return
			}
			cfg.Screening.Rankings(w, r.WithContext(ContextWithJobID(r.Context(), id)))
		})
		mux.HandleFunc("/applications/", func(w http.ResponseWriter, r *http.Request) {
			id, action := splitResourcePath(r.URL.Path, "/applications/")
			if id == "" || action != "analysis" {
				http.NotFound(w, r)
				return
			}
			if r.Method != http.MethodPost {
				methodNotAllowed(w, http.MethodPost)
				return
			}
			cfg.Screening.Analyze(w, r.WithContext(ContextWithApplicationID(r.Context(), id)))
		})
	}

	if cfg.Interviews != nil {
		mux.HandleFunc("/slots", func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodGet {
				methodNotAllowed(w, http.MethodGet)
				return
			}
			cfg.Interviews.Slots(w, r)
		})
		mux.HandleFunc("/interviews", func(w http.ResponseWriter, r *http.Request) {
			switch r.Method {
			case http.MethodGet:
				cfg.Interviews.List(w, r)
			case http.MethodPost:
				cfg.Interviews.Create(w, r)
			default:
				methodNotAllowed(w, http.MethodGet, http.MethodPost)
			}
		})
		mux.HandleFunc("/interviews/", func(w http.ResponseWriter, r *http.Request) {
			id, action := splitResourcePath(r.URL.Path, "/interviews/")
			if id == "" {
				http.NotFound(w, r)
				return
			}
			if id == "upcoming" && action == "" {
				if r.Method != http.MethodGet {
					methodNotAllowed(w, http.MethodGet)
					return
				}
				cfg.Interviews.Upcoming(w, r)
				return
			}

			r = r.WithContext(ContextWithInterviewID(r.Context(), id))
			if action == "" {
				if r.Method != http.MethodGet {
					methodNotAllowed(w, http.MethodGet)
					return
				}
				cfg.Interviews.Get(w, r)
				return
			}

			transitions := map[string]http.HandlerFunc{
				"reschedule": cfg.Interviews.Reschedule,
				"cancel":     cfg.Interviews.Cancel,
				"confirm":    cfg.Interviews.Confirm,
				"complete":   cfg.Interviews.Complete,
			}
			handler, ok := transitions[action]
			if !ok {
				http.NotFound(w, r)
				return
			}
			if r.Method != http.MethodPost {
				methodNotAllowed(w, http.MethodPost)
				return
			}
			handler(w, r)
		})
	}

	var handler http.Handler = mux
	for i := len(cfg.Middleware) - 1; i >= 0; i-- {
		if cfg.Middleware[i] != nil {
			handler = cfg.Middleware[i](handler)
		}
	}

	return handler
}

// splitResourcePath turns "/prefix/{id}/{action}" into id and action. Deeper paths yield an
// empty id.
func splitResourcePath(path, prefix string) (string, string) {
	rest := strings.Trim(strings.TrimPrefix(path, prefix), "/")
	if rest == "" {
		return "", ""
	}
	parts := strings.Split(rest, "/")
	switch len(parts) {
	case 1:
		return parts[0], ""
	case 2:
		return parts[0], parts[1]
	default:
		return "", ""
	}
}

func methodNotAllowed(w http.ResponseWriter, allowed ...string) {
	if len(allowed) > 0 {
		w.Header().Set("Allow", strings.Join(allowed, ", "))
	}
	http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
}
