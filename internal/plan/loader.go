package plan

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Loader fetches a plan by identifier. Implementations only return plans
// that pass Validate; everything else comes back as a *LoadError.
type Loader interface {
	Load(ctx context.Context, id string) (*WorkoutPlan, error)
}

// LoaderFunc adapts a function to the Loader interface.
type LoaderFunc func(ctx context.Context, id string) (*WorkoutPlan, error)

// Load calls f(ctx, id).
func (f LoaderFunc) Load(ctx context.Context, id string) (*WorkoutPlan, error) {
	return f(ctx, id)
}

// Static returns a Loader that serves a single in-memory plan regardless of
// the requested id. The plan is validated on every load.
func Static(p *WorkoutPlan) Loader {
	return LoaderFunc(func(_ context.Context, id string) (*WorkoutPlan, error) {
		if err := p.Validate(); err != nil {
			return nil, &LoadError{ID: id, Err: err}
		}
		return p, nil
	})
}

// FirstOf tries each loader in turn and returns the first plan found. A
// loader reporting ErrPlanNotFound passes the id on to the next one; any
// other failure stops the search.
func FirstOf(loaders ...Loader) Loader {
	return LoaderFunc(func(ctx context.Context, id string) (*WorkoutPlan, error) {
		for _, l := range loaders {
			p, err := l.Load(ctx, id)
			if err == nil {
				return p, nil
			}
			if !errors.Is(err, ErrPlanNotFound) {
				return nil, err
			}
		}
		return nil, &LoadError{ID: id, Err: ErrPlanNotFound}
	})
}

// HTTPLoader reads plans from the plan store REST API.
type HTTPLoader struct {
	baseURL    string
	httpClient *http.Client
}

// Compile-time check: HTTPLoader satisfies Loader.
var _ Loader = (*HTTPLoader)(nil)

// NewHTTPLoader creates an HTTPLoader targeting the given base URL.
func NewHTTPLoader(baseURL string, timeout time.Duration) *HTTPLoader {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &HTTPLoader{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
	}
}

// Load issues GET /api/v1/workout-plans/get/{id}.
func (l *HTTPLoader) Load(ctx context.Context, id string) (*WorkoutPlan, error) {
	p, err := l.fetch(ctx, id)
	if err != nil {
		return nil, &LoadError{ID: id, Err: err}
	}
	if err := p.Validate(); err != nil {
		return nil, &LoadError{ID: id, Err: err}
	}
	return p, nil
}

func (l *HTTPLoader) fetch(ctx context.Context, id string) (*WorkoutPlan, error) {
	if strings.TrimSpace(id) == "" {
		return nil, fmt.Errorf("empty plan id")
	}
	u := l.baseURL + "/api/v1/workout-plans/get/" + url.PathEscape(id)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := l.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching plan: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusNotFound:
		return nil, ErrPlanNotFound
	default:
		return nil, fmt.Errorf("plan store returned %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	p, err := DecodeJSON(body)
	if err != nil {
		return nil, err
	}
	if p.ID == "" {
		p.ID = id
	}
	return p, nil
}
