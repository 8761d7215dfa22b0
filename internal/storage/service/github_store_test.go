package service

import (
	"context"
	"crypto/sha1" //nolint:gosec // git blob ids
	"encoding/base64"
	"encoding/hex"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"path"
	"sort"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	storageDomain "github.com/allisson/linkvault/internal/storage/domain"
)

// fakeGitHub serves the subset of the contents API the store uses.
type fakeGitHub struct {
	mu    sync.Mutex
	files map[string][]byte
	auth  string
	ref   string
}

func gitSHA(content []byte) string {
	sum := sha1.Sum(content) //nolint:gosec // git blob ids
	return hex.EncodeToString(sum[:])
}

func (f *fakeGitHub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.auth = r.Header.Get("Authorization")
	if ref := r.URL.Query().Get("ref"); ref != "" {
		f.ref = ref
	}

	const prefix = "/repos/acme/vault/contents/"
	if !strings.HasPrefix(r.URL.Path, prefix) {
		http.NotFound(w, r)
		return
	}
	p := strings.TrimPrefix(r.URL.Path, prefix)

	switch r.Method {
	case http.MethodGet:
		f.get(w, r, p)
	case http.MethodPut:
		f.put(w, r, p)
	case http.MethodDelete:
		f.delete(w, r, p)
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func (f *fakeGitHub) get(w http.ResponseWriter, r *http.Request, p string) {
	if content, ok := f.files[p]; ok {
		if strings.Contains(r.Header.Get("Accept"), "raw") {
			w.Header().Set("Content-Type", "application/vnd.github.raw")
			_, _ = w.Write(content)
			return
		}
		writeJSON(w, http.StatusOK, githubContent{
			Type: "file", Name: path.Base(p), Path: p, SHA: gitSHA(content), Size: int64(len(content)),
		})
		return
	}

	var children []githubContent
	seenDirs := map[string]bool{}
	for key, content := range f.files {
		rest, ok := strings.CutPrefix(key, p+"/")
		if !ok {
			continue
		}
		if dir, _, nested := strings.Cut(rest, "/"); nested {
			if !seenDirs[dir] {
				seenDirs[dir] = true
				children = append(children, githubContent{Type: "dir", Name: dir, Path: p + "/" + dir})
			}
			continue
		}
		children = append(children, githubContent{
			Type: "file", Name: rest, Path: key, SHA: gitSHA(content), Size: int64(len(content)),
		})
	}
	if len(children) == 0 {
		writeJSON(w, http.StatusNotFound, map[string]string{"message": "Not Found"})
		return
	}
	sort.Slice(children, func(i, j int) bool { return children[i].Name < children[j].Name })
	writeJSON(w, http.StatusOK, children)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func (f *fakeGitHub) put(w http.ResponseWriter, r *http.Request, p string) {
	var req githubWriteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		w.WriteHeader(http.StatusBadRequest)
		return
	}
	if existing, ok := f.files[p]; ok && req.SHA != gitSHA(existing) {
		w.WriteHeader(http.StatusConflict)
		return
	}
	content, err := base64.StdEncoding.DecodeString(req.Content)
	if err != nil {
		w.WriteHeader(http.StatusBadRequest)
		return
	}
	f.files[p] = content

	writeJSON(w, http.StatusCreated, githubWriteResponse{Content: githubContent{
		Type: "file", Name: path.Base(p), Path: p, SHA: gitSHA(content), Size: int64(len(content)),
	}})
}

func (f *fakeGitHub) delete(w http.ResponseWriter, r *http.Request, p string) {
	var req githubWriteRequest
	_ = json.NewDecoder(r.Body).Decode(&req)

	existing, ok := f.files[p]
	if !ok {
		w.WriteHeader(http.StatusNotFound)
		return
	}
	if req.SHA != gitSHA(existing) {
		w.WriteHeader(http.StatusConflict)
		return
	}
	delete(f.files, p)
	writeJSON(w, http.StatusOK, map[string]any{"content": nil})
}

func newGitHubStoreForTest(t *testing.T) (*GitHubStore, *fakeGitHub) {
	t.Helper()
	fake := &fakeGitHub{files: map[string][]byte{}}
	server := httptest.NewServer(fake)
	t.Cleanup(server.Close)

	store := NewGitHubStore(GitHubConfig{
		APIURL: server.URL,
		Token:  "ghp_test",
		Owner:  "acme",
		Repo:   "vault",
		Branch: "main",
	}, slog.New(slog.NewTextHandler(io.Discard, nil)))
	return store, fake
}

func TestGitHubStore_PutGetStat(t *testing.T) {
	ctx := context.Background()
	store, fake := newGitHubStoreForTest(t)

	rev, err := store.Put(ctx, "users/alice@example.com/notes.txt", []byte("hello"))
	require.NoError(t, err)
	assert.Equal(t, gitSHA([]byte("hello")), rev)
	assert.Equal(t, "Bearer ghp_test", fake.auth)

	content, err := store.Get(ctx, "users/alice@example.com/notes.txt")
	require.NoError(t, err)
	assert.Equal(t, "hello", string(content))
	assert.Equal(t, "main", fake.ref)

	entry, err := store.Stat(ctx, "users/alice@example.com/notes.txt")
	require.NoError(t, err)
	assert.Equal(t, rev, entry.RevisionID)
	assert.Equal(t, int64(5), entry.Size)

	rev2, err := store.Put(ctx, "users/alice@example.com/notes.txt", []byte("updated"))
	require.NoError(t, err, "update must send the current sha")
	assert.NotEqual(t, rev, rev2)
}

func TestGitHubStore_List(t *testing.T) {
	ctx := context.Background()
	store, _ := newGitHubStoreForTest(t)

	entries, err := store.List(ctx, "users/alice@example.com")
	require.NoError(t, err)
	assert.Empty(t, entries)

	_, err = store.Put(ctx, "users/alice@example.com/a.txt", []byte("a"))
	require.NoError(t, err)
	_, err = store.Put(ctx, "users/alice@example.com/docs/b.md", []byte("b"))
	require.NoError(t, err)

	entries, err = store.List(ctx, "users/alice@example.com")
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "a.txt", entries[0].Name)
	assert.False(t, entries[0].IsDir)
	assert.Equal(t, "docs", entries[1].Name)
	assert.True(t, entries[1].IsDir)

	_, err = store.List(ctx, "users/alice@example.com/a.txt")
	assert.ErrorIs(t, err, storageDomain.ErrInvalidPath)
}

func TestGitHubStore_Delete(t *testing.T) {
	ctx := context.Background()
	store, fake := newGitHubStoreForTest(t)

	_, err := store.Put(ctx, "users/alice@example.com/a.txt", []byte("a"))
	require.NoError(t, err)

	err = store.Delete(ctx, "users/alice@example.com/a.txt", "0000")
	assert.ErrorIs(t, err, storageDomain.ErrRevisionConflict)

	require.NoError(t, store.Delete(ctx, "users/alice@example.com/a.txt", ""))
	assert.Empty(t, fake.files)

	err = store.Delete(ctx, "users/alice@example.com/a.txt", "")
	assert.ErrorIs(t, err, storageDomain.ErrFileNotFound)
}

func TestGitHubStore_NotFoundAndFailures(t *testing.T) {
	ctx := context.Background()
	store, _ := newGitHubStoreForTest(t)

	_, err := store.Get(ctx, "users/alice@example.com/missing.txt")
	assert.ErrorIs(t, err, storageDomain.ErrFileNotFound)

	broken := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer broken.Close()

	brokenStore := NewGitHubStore(GitHubConfig{APIURL: broken.URL, Owner: "acme", Repo: "vault"}, nil)
	_, err = brokenStore.Get(ctx, "users/alice@example.com/a.txt")
	assert.Error(t, err)
	assert.NotErrorIs(t, err, storageDomain.ErrFileNotFound)
}

func TestGitHubStore_ContentsURL(t *testing.T) {
	store := NewGitHubStore(GitHubConfig{Owner: "acme", Repo: "vault"}, nil)
	assert.Equal(t,
		"/repos/acme/vault/contents/users/a%252Fb/my%20file.txt",
		store.contentsURL("/users/a%2Fb/my file.txt"),
	)
}

func TestGitHubStore_DirectoryPaths(t *testing.T) {
	ctx := context.Background()
	store, fake := newGitHubStoreForTest(t)

	_, err := store.Put(ctx, "users/alice@example.com/docs/b.md", []byte("b"))
	require.NoError(t, err)
	const dir = "users/alice@example.com/docs"

	content, err := store.Get(ctx, dir)
	assert.ErrorIs(t, err, storageDomain.ErrFileNotFound)
	assert.Nil(t, content)

	_, err = store.Stat(ctx, dir)
	assert.ErrorIs(t, err, storageDomain.ErrFileNotFound)

	err = store.Delete(ctx, dir, "")
	assert.ErrorIs(t, err, storageDomain.ErrFileNotFound)

	_, err = store.Put(ctx, dir, []byte("x"))
	assert.ErrorIs(t, err, storageDomain.ErrInvalidPath)

	assert.Len(t, fake.files, 1)
	assert.Equal(t, []byte("b"), fake.files["users/alice@example.com/docs/b.md"])
}

func TestGitHubStore_PutWithoutSHA(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodGet {
			writeJSON(w, http.StatusNotFound, map[string]string{"message": "Not Found"})
			return
		}
		// Unlabelled body with no sha.
		w.WriteHeader(http.StatusCreated)
		_, _ = io.WriteString(w, `{"content":{"type":"file"}}`)
	}))
	defer server.Close()

	store := NewGitHubStore(GitHubConfig{APIURL: server.URL, Owner: "acme", Repo: "vault"}, nil)

	rev, err := store.Put(context.Background(), "users/alice@example.com/a.txt", []byte("a"))
	assert.Error(t, err)
	assert.Empty(t, rev)
}

func TestGitHubStore_PutDecodesUnlabelledJSON(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodGet {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.WriteHeader(http.StatusCreated)
		_, _ = io.WriteString(w, `{"content":{"type":"file","sha":"abc123"}}`)
	}))
	defer server.Close()

	store := NewGitHubStore(GitHubConfig{APIURL: server.URL, Owner: "acme", Repo: "vault"}, nil)

	rev, err := store.Put(context.Background(), "users/alice@example.com/a.txt", []byte("a"))
	require.NoError(t, err)
	assert.Equal(t, "abc123", rev)
}
