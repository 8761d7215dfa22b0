// Package service provides ContentStore implementations: a GitHub repository via
// the contents API, and any gocloud.dev blob bucket.
package service

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	apperrors "github.com/allisson/linkvault/internal/errors"
	"github.com/allisson/linkvault/internal/httpclient"
	storageDomain "github.com/allisson/linkvault/internal/storage/domain"
)

// DefaultGitHubAPIURL is the public GitHub REST endpoint.
const DefaultGitHubAPIURL = "https://api.github.com"

// GitHubConfig configures a GitHubStore.
type GitHubConfig struct {
	APIURL         string
	Token          string
	Owner          string
	Repo           string
	Branch         string
	CommitterName  string
	CommitterEmail string
	Timeout        time.Duration
}

type githubContent struct {
	Type string `json:"type"`
	Name string `json:"name"`
	Path string `json:"path"`
	SHA  string `json:"sha"`
	Size int64  `json:"size"`
}

type githubCommitter struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

type githubWriteRequest struct {
	Message   string           `json:"message"`
	Content   string           `json:"content,omitempty"`
	SHA       string           `json:"sha,omitempty"`
	Branch    string           `json:"branch,omitempty"`
	Committer *githubCommitter `json:"committer,omitempty"`
}

type githubWriteResponse struct {
	Content githubContent `json:"content"`
}

// errIsDirectory is reported for a path that names a directory. It matches
// ErrFileNotFound so reads treat it like a missing file.
var errIsDirectory = fmt.Errorf("%w: path is a directory", storageDomain.ErrFileNotFound)

// GitHubStore keeps files in a GitHub repository. Every write is a commit and the
// blob SHA is the revision ID.
type GitHubStore struct {
	client    *resty.Client
	owner     string
	repo      string
	branch    string
	committer *githubCommitter
}

// NewGitHubStore creates a GitHubStore.
func NewGitHubStore(config GitHubConfig, logger *slog.Logger, opts ...httpclient.Option) *GitHubStore {
	apiURL := config.APIURL
	if apiURL == "" {
		apiURL = DefaultGitHubAPIURL
	}

	options := append([]httpclient.Option{
		httpclient.WithBaseURL(strings.TrimRight(apiURL, "/")),
		httpclient.WithTimeout(config.Timeout),
		httpclient.WithAuthToken(config.Token),
		httpclient.WithHeader("Accept", "application/vnd.github+json"),
		httpclient.WithHeader("X-GitHub-Api-Version", "2022-11-28"),
		httpclient.WithRequestLogging(logger, "github"),
	}, opts...)

	var committer *githubCommitter
	if config.CommitterName != "" && config.CommitterEmail != "" {
		committer = &githubCommitter{Name: config.CommitterName, Email: config.CommitterEmail}
	}

	return &GitHubStore{
		client:    httpclient.New(options...),
		owner:     config.Owner,
		repo:      config.Repo,
		branch:    config.Branch,
		committer: committer,
	}
}

// Put creates or updates the file at path.
func (g *GitHubStore) Put(ctx context.Context, path string, content []byte) (string, error) {
	body := githubWriteRequest{
		Message:   "Upload " + path,
		Content:   base64.StdEncoding.EncodeToString(content),
		Branch:    g.branch,
		Committer: g.committer,
	}

	existing, err := g.Stat(ctx, path)
	switch {
	case err == nil:
		body.SHA = existing.RevisionID
	case apperrors.Is(err, errIsDirectory):
		return "", fmt.Errorf("%w: %s is a directory", storageDomain.ErrInvalidPath, path)
	case !apperrors.Is(err, storageDomain.ErrFileNotFound):
		return "", err
	}

	var result githubWriteResponse
	resp, err := g.request(ctx).
		SetBody(body).
		SetResult(&result).
		ForceContentType("application/json").
		Put(g.contentsURL(path))
	if err != nil {
		return "", fmt.Errorf("github put %s: %w", path, err)
	}
	if err := statusError(resp, path); err != nil {
		return "", err
	}
	if result.Content.SHA == "" {
		return "", fmt.Errorf("github put %s: response carries no blob sha", path)
	}
	return result.Content.SHA, nil
}

// Get downloads the raw file content. The path is checked first since the raw
// media type would otherwise return a directory listing as content.
func (g *GitHubStore) Get(ctx context.Context, path string) ([]byte, error) {
	if _, err := g.Stat(ctx, path); err != nil {
		return nil, err
	}

	resp, err := g.read(ctx).
		SetHeader("Accept", "application/vnd.github.raw+json").
		Get(g.contentsURL(path))
	if err != nil {
		return nil, fmt.Errorf("github get %s: %w", path, err)
	}
	if err := statusError(resp, path); err != nil {
		return nil, err
	}
	return resp.Body(), nil
}

// List returns the children of dir. GitHub has no empty directories, so a
// missing directory is reported as empty.
func (g *GitHubStore) List(ctx context.Context, dir string) ([]storageDomain.FileEntry, error) {
	resp, err := g.read(ctx).Get(g.contentsURL(dir))
	if err != nil {
		return nil, fmt.Errorf("github list %s: %w", dir, err)
	}
	if resp.StatusCode() == http.StatusNotFound {
		return []storageDomain.FileEntry{}, nil
	}
	if err := statusError(resp, dir); err != nil {
		return nil, err
	}

	var contents []githubContent
	if err := json.Unmarshal(resp.Body(), &contents); err != nil {
		return nil, fmt.Errorf("%w: %s is not a directory", storageDomain.ErrInvalidPath, dir)
	}

	entries := make([]storageDomain.FileEntry, 0, len(contents))
	for _, c := range contents {
		entries = append(entries, c.toEntry())
	}
	return entries, nil
}

// Stat returns the metadata of the file at path.
func (g *GitHubStore) Stat(ctx context.Context, path string) (*storageDomain.FileEntry, error) {
	resp, err := g.read(ctx).Get(g.contentsURL(path))
	if err != nil {
		return nil, fmt.Errorf("github stat %s: %w", path, err)
	}
	if err := statusError(resp, path); err != nil {
		return nil, err
	}

	var raw json.RawMessage
	if err := json.Unmarshal(resp.Body(), &raw); err != nil {
		return nil, fmt.Errorf("github stat %s: %w", path, err)
	}
	if bytes.HasPrefix(bytes.TrimSpace(raw), []byte("[")) {
		return nil, errIsDirectory
	}

	var content githubContent
	if err := json.Unmarshal(raw, &content); err != nil {
		return nil, fmt.Errorf("github stat %s: %w", path, err)
	}
	switch content.Type {
	case "file":
	case "dir":
		return nil, errIsDirectory
	default:
		return nil, storageDomain.ErrFileNotFound
	}

	entry := content.toEntry()
	return &entry, nil
}

// Delete removes the file at path. Without a revisionID the current SHA is used.
func (g *GitHubStore) Delete(ctx context.Context, path, revisionID string) error {
	entry, err := g.Stat(ctx, path)
	if err != nil {
		return err
	}
	if revisionID == "" {
		revisionID = entry.RevisionID
	}

	resp, err := g.request(ctx).
		SetBody(githubWriteRequest{
			Message:   "Delete " + path,
			SHA:       revisionID,
			Branch:    g.branch,
			Committer: g.committer,
		}).
		Delete(g.contentsURL(path))
	if err != nil {
		return fmt.Errorf("github delete %s: %w", path, err)
	}
	return statusError(resp, path)
}

func (g *GitHubStore) request(ctx context.Context) *resty.Request {
	return g.client.R().SetContext(ctx)
}

// read pins reads to the configured branch.
func (g *GitHubStore) read(ctx context.Context) *resty.Request {
	req := g.request(ctx)
	if g.branch != "" {
		req.SetQueryParam("ref", g.branch)
	}
	return req
}

// contentsURL escapes every path segment; resty's path params would also escape
// the separators.
func (g *GitHubStore) contentsURL(path string) string {
	segments := strings.Split(strings.Trim(path, "/"), "/")
	for i, s := range segments {
		segments[i] = url.PathEscape(s)
	}
	return fmt.Sprintf("/repos/%s/%s/contents/%s",
		url.PathEscape(g.owner), url.PathEscape(g.repo), strings.Join(segments, "/"))
}

func (c githubContent) toEntry() storageDomain.FileEntry {
	return storageDomain.FileEntry{
		Name:       c.Name,
		Path:       c.Path,
		RevisionID: c.SHA,
		Size:       c.Size,
		IsDir:      c.Type == "dir",
	}
}

// statusError maps GitHub answers onto storage errors.
func statusError(resp *resty.Response, path string) error {
	switch code := resp.StatusCode(); {
	case code >= 200 && code < 300:
		return nil
	case code == http.StatusNotFound:
		return storageDomain.ErrFileNotFound
	case code == http.StatusConflict || code == http.StatusUnprocessableEntity:
		return storageDomain.ErrRevisionConflict
	default:
		return fmt.Errorf("github %s %s: unexpected status %d", resp.Request.Method, path, code)
	}
}
