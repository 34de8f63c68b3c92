package discovery

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/codemine/ruffminer/internal/port"
)

const (
	defaultBaseURL = "https://api.github.com"

	// perPage matches the page size the GitHub search API allows per request.
	perPage = 50
)

// GitHubClient implements port.RepositoryDiscovery against the GitHub REST
// API.
type GitHubClient struct {
	token      string
	baseURL    string
	httpClient *http.Client
}

// NewGitHubClient creates a discovery client authenticated with token.
func NewGitHubClient(token string) *GitHubClient {
	return &GitHubClient{
		token:      token,
		baseURL:    defaultBaseURL,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

// ValidateToken checks the token against /user and returns the authenticated
// login. A missing token or a non-200 response is fatal to the run.
func (c *GitHubClient) ValidateToken(ctx context.Context) (string, error) {
	if c.token == "" {
		return "", fmt.Errorf("GITHUB_TOKEN is not set: %w", port.ErrTokenInvalid)
	}

	body, err := c.get(ctx, c.baseURL+"/user")
	if err != nil {
		return "", fmt.Errorf("validate token: %v: %w", err, port.ErrTokenInvalid)
	}

	var user struct {
		Login string `json:"login"`
	}
	if err := json.Unmarshal(body, &user); err != nil {
		return "", fmt.Errorf("decode /user response: %v: %w", err, port.ErrTokenInvalid)
	}
	return user.Login, nil
}

// SearchRepositories pages through the repository search endpoint and
// collects the clone URL of every hit. Any non-success response aborts the
// whole search.
func (c *GitHubClient) SearchRepositories(ctx context.Context, query string, maxPages int) ([]string, error) {
	if maxPages <= 0 {
		maxPages = 1
	}

	var cloneURLs []string
	for page := 1; page <= maxPages; page++ {
		u := fmt.Sprintf("%s/search/repositories?q=%s&per_page=%d&page=%d",
			c.baseURL, url.QueryEscape(query), perPage, page)

		body, err := c.get(ctx, u)
		if err != nil {
			return nil, fmt.Errorf("search repositories page %d: %v: %w", page, err, port.ErrDiscoveryFailed)
		}

		var result struct {
			Items []struct {
				CloneURL string `json:"clone_url"`
			} `json:"items"`
		}
		if err := json.Unmarshal(body, &result); err != nil {
			return nil, fmt.Errorf("decode search response page %d: %v: %w", page, err, port.ErrDiscoveryFailed)
		}

		for _, item := range result.Items {
			if item.CloneURL != "" {
				cloneURLs = append(cloneURLs, item.CloneURL)
			}
		}
	}
	return cloneURLs, nil
}

func (c *GitHubClient) get(ctx context.Context, u string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Authorization", "token "+c.token)
	req.Header.Set("Accept", "application/vnd.github+json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("status %d: %s", resp.StatusCode, truncateBody(body))
	}
	return body, nil
}

func truncateBody(b []byte) string {
	const max = 200
	if len(b) > max {
		return string(b[:max]) + "..."
	}
	return string(b)
}
