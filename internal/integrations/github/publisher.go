package github

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	gh "github.com/google/go-github/v66/github"
)

var ErrNotConfigured = errors.New("github sync is not configured")

// Target is the file the README is committed to.
type Target struct {
	Owner  string
	Repo   string
	Branch string
	Path   string
}

func (t Target) Validate() error {
	if t.Owner == "" || t.Repo == "" {
		return ErrNotConfigured
	}
	return nil
}

type PushResult struct {
	Changed   bool   `json:"changed"`
	CommitSHA string `json:"commit_sha,omitempty"`
	HTMLURL   string `json:"html_url,omitempty"`
}

type Publisher struct {
	client *gh.Client
}

// NewPublisher authenticates with token. baseURL overrides the API root
// (GitHub Enterprise, tests).
func NewPublisher(token, baseURL string) (*Publisher, error) {
	if token == "" {
		return nil, ErrNotConfigured
	}
	client := gh.NewClient(nil).WithAuthToken(token)
	if baseURL != "" {
		if !strings.HasSuffix(baseURL, "/") {
			baseURL += "/"
		}
		u, err := url.Parse(baseURL)
		if err != nil {
			return nil, fmt.Errorf("github base url: %w", err)
		}
		client.BaseURL = u
	}
	return &Publisher{client: client}, nil
}

// Push commits content to the target file. Identical content is left alone.
func (p *Publisher) Push(ctx context.Context, t Target, content string) (PushResult, error) {
	if err := t.Validate(); err != nil {
		return PushResult{}, err
	}
	if t.Path == "" {
		t.Path = "README.md"
	}

	var getOpts *gh.RepositoryContentGetOptions
	if t.Branch != "" {
		getOpts = &gh.RepositoryContentGetOptions{Ref: t.Branch}
	}
	var sha *string
	existing, _, resp, err := p.client.Repositories.GetContents(ctx, t.Owner, t.Repo, t.Path, getOpts)
	switch {
	case err == nil && existing != nil:
		current, decodeErr := existing.GetContent()
		if decodeErr == nil && current == content {
			return PushResult{Changed: false, HTMLURL: existing.GetHTMLURL()}, nil
		}
		sha = existing.SHA
	case resp != nil && resp.StatusCode == http.StatusNotFound:
		// new file
	default:
		return PushResult{}, fmt.Errorf("read %s: %w", t.Path, err)
	}

	opts := &gh.RepositoryContentFileOptions{
		Message: gh.String("Update README from portfolio"),
		Content: []byte(content),
		SHA:     sha,
	}
	if t.Branch != "" {
		opts.Branch = gh.String(t.Branch)
	}

	var res *gh.RepositoryContentResponse
	if sha == nil {
		res, _, err = p.client.Repositories.CreateFile(ctx, t.Owner, t.Repo, t.Path, opts)
	} else {
		res, _, err = p.client.Repositories.UpdateFile(ctx, t.Owner, t.Repo, t.Path, opts)
	}
	if err != nil {
		return PushResult{}, fmt.Errorf("write %s: %w", t.Path, err)
	}
	out := PushResult{Changed: true, CommitSHA: res.Commit.GetSHA()}
	if res.Content != nil {
		out.HTMLURL = res.Content.GetHTMLURL()
	}
	return out, nil
}
