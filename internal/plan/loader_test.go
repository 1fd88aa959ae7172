package plan

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTestStore serves plan documents keyed by id from the plan store path.
func newTestStore(t *testing.T, docs map[string]string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		const prefix = "/api/v1/workout-plans/get/"
		if len(r.URL.Path) <= len(prefix) || r.URL.Path[:len(prefix)] != prefix {
			t.Errorf("unexpected request path: %s", r.URL.Path)
			http.NotFound(w, r)
			return
		}
		doc, ok := docs[r.URL.Path[len(prefix):]]
		if !ok {
			http.NotFound(w, r)
			return
		}
		if doc == "500" {
			http.Error(w, "database unavailable", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(doc))
	}))
}

func TestHTTPLoader(t *testing.T) {
	ts := newTestStore(t, map[string]string{
		"abc":    `{"_id":"abc","title":"Core","exercises":[{"name":"Plank","duration":"30"},{"name":"Pushups","reps":"10"}]}`,
		"noid":   `{"title":"No id","exercises":[{"name":"Plank","duration":"30"}]}`,
		"empty":  `{"_id":"empty","title":"Empty","exercises":[]}`,
		"broken": `{"_id":`,
		"down":   "500",
	})
	defer ts.Close()

	loader := NewHTTPLoader(ts.URL+"/", 5*time.Second)
	ctx := context.Background()

	t.Run("ok", func(t *testing.T) {
		p, err := loader.Load(ctx, "abc")
		require.NoError(t, err)
		assert.Equal(t, "Core", p.Title)
		assert.Equal(t, []string{"Plank", "Pushups"}, p.Names())
	})

	t.Run("id defaults to requested id", func(t *testing.T) {
		p, err := loader.Load(ctx, "noid")
		require.NoError(t, err)
		assert.Equal(t, "noid", p.ID)
	})

	t.Run("not found", func(t *testing.T) {
		_, err := loader.Load(ctx, "missing")
		assert.ErrorIs(t, err, ErrPlanNotFound)

		var loadErr *LoadError
		require.ErrorAs(t, err, &loadErr)
		assert.Equal(t, "missing", loadErr.ID)
	})

	t.Run("empty exercise list rejected", func(t *testing.T) {
		_, err := loader.Load(ctx, "empty")
		assert.ErrorIs(t, err, ErrNoExercises)
	})

	t.Run("malformed body", func(t *testing.T) {
		_, err := loader.Load(ctx, "broken")
		assert.Error(t, err)
	})

	t.Run("server error", func(t *testing.T) {
		_, err := loader.Load(ctx, "down")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "returned 500")
		assert.Contains(t, err.Error(), "database unavailable")
	})

	t.Run("empty id", func(t *testing.T) {
		_, err := loader.Load(ctx, "")
		assert.Error(t, err)
	})
}

func TestHTTPLoader_ContextCanceled(t *testing.T) {
	ts := newTestStore(t, map[string]string{})
	defer ts.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewHTTPLoader(ts.URL, 0).Load(ctx, "abc")
	assert.True(t, errors.Is(err, context.Canceled), "expected context.Canceled, got %v", err)
}

func TestFileLoader(t *testing.T) {
	dir := t.TempDir()
	write := func(name, content string) {
		t.Helper()
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
	}
	write("core.yaml", "title: Core\nexercises:\n  - name: Plank\n    duration: 30\n")
	write("legs.json", `{"title":"Legs","exercises":[{"name":"Squats","sets":"3","reps":"12"}]}`)
	write("export.json", `{"_id":"65f0abc","createdBy":"alice","title":"Export","exercises":[{"name":"Plank","duration":"30"}]}`)
	write("empty.yml", "title: Empty\nexercises: []\n")

	loader := FileLoader{Dir: dir}
	ctx := context.Background()

	p, err := loader.Load(ctx, "core")
	require.NoError(t, err)
	assert.Equal(t, "core", p.ID)
	assert.Equal(t, 30, p.Exercises[0].Duration)

	p, err = loader.Load(ctx, "legs")
	require.NoError(t, err)
	assert.Equal(t, 3, p.Exercises[0].Sets)

	// Plans saved from the store keep its id and author.
	p, err = loader.Load(ctx, "export")
	require.NoError(t, err)
	assert.Equal(t, "65f0abc", p.ID)
	assert.Equal(t, "alice", p.CreatedBy)
	assert.Equal(t, 30, p.Exercises[0].Duration)

	_, err = loader.Load(ctx, "empty")
	assert.ErrorIs(t, err, ErrNoExercises)

	_, err = loader.Load(ctx, "nope")
	assert.ErrorIs(t, err, ErrPlanNotFound)

	_, err = loader.Load(ctx, "../core")
	assert.ErrorIs(t, err, ErrPlanNotFound)
}

func TestLoadFile_Missing(t *testing.T) {
	_, err := LoadFile(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.ErrorIs(t, err, ErrPlanNotFound)
}

func TestStatic(t *testing.T) {
	_, err := Static(&WorkoutPlan{Title: "x"}).Load(context.Background(), "x")
	assert.ErrorIs(t, err, ErrNoExercises)

	want := &WorkoutPlan{Title: "ok", Exercises: []Exercise{{Name: "Plank", Duration: 10}}}
	got, err := Static(want).Load(context.Background(), "ok")
	require.NoError(t, err)
	assert.Same(t, want, got)
}

func TestFirstOf(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "local.yaml"),
		[]byte("title: Local\nexercises:\n  - name: Plank\n    duration: 20\n"), 0o644))

	ts := newTestStore(t, map[string]string{
		"remote": `{"_id":"remote","title":"Remote","exercises":[{"name":"Burpees","reps":"8"}]}`,
		"down":   "500",
	})
	defer ts.Close()

	loader := FirstOf(FileLoader{Dir: dir}, NewHTTPLoader(ts.URL, time.Second))
	ctx := context.Background()

	p, err := loader.Load(ctx, "local")
	require.NoError(t, err)
	assert.Equal(t, "Local", p.Title)

	p, err = loader.Load(ctx, "remote")
	require.NoError(t, err)
	assert.Equal(t, "Remote", p.Title)

	_, err = loader.Load(ctx, "missing")
	assert.ErrorIs(t, err, ErrPlanNotFound)

	_, err = loader.Load(ctx, "down")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrPlanNotFound, "a failing store ends the search")
}
