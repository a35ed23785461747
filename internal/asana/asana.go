// Package asana lists project tasks from the Asana REST API.
package asana

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"slices"
	"strings"
	"time"

	"github.com/rehman-1/git-asana-backend/internal/contract"
	"github.com/rehman-1/git-asana-backend/schema"
	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"
)

const (
	source    = "asana"
	optFields = "name,completed,assignee.name,assignee.email,permalink_url"

	// maxErrorBody caps how much of an error response ends up in the error text.
	maxErrorBody = 512
)

// ErrMissingToken is returned when no access token is configured.
var ErrMissingToken = errors.New("asana access token is not configured")

// Client is a rate-limited Asana API client.
type Client struct {
	baseURL  string
	token    string
	sections []string
	http     *http.Client
	limiter  *rate.Limiter
	log      logrus.FieldLogger
}

var _ contract.WorkItemSource = &Client{} // Compile-time check

// Options configure a Client. Zero values fall back to defaults.
type Options struct {
	BaseURL   string
	Token     string
	Sections  []string
	RateLimit float64 // requests per second
	Timeout   time.Duration
}

// NewClient returns a Client.
func NewClient(opts Options) *Client {
	if opts.BaseURL == "" {
		opts.BaseURL = contract.DefaultAsanaBaseURL
	}
	if len(opts.Sections) == 0 {
		opts.Sections = schema.DefaultTargetSections
	}
	if opts.RateLimit <= 0 {
		opts.RateLimit = contract.DefaultAsanaRateLimit
	}
	if opts.Timeout <= 0 {
		opts.Timeout = contract.DefaultRequestTimeout
	}
	return &Client{
		baseURL:  strings.TrimSuffix(opts.BaseURL, "/"),
		token:    opts.Token,
		sections: slices.Clone(opts.Sections),
		http:     &http.Client{Timeout: opts.Timeout},
		limiter:  rate.NewLimiter(rate.Limit(opts.RateLimit), 1),
		log:      contract.ComponentLogger("asana"),
	}
}

// NewClientFromConfig builds a Client from the validated configuration.
func NewClientFromConfig(cfg *contract.Config) *Client {
	return NewClient(Options{
		BaseURL:   cfg.AsanaBaseURL,
		Token:     cfg.AsanaToken,
		Sections:  cfg.AsanaSections,
		RateLimit: cfg.AsanaRateLimit,
		Timeout:   cfg.AsanaTimeout,
	})
}

type section struct {
	GID  string `json:"gid"`
	Name string `json:"name"`
}

type assignee struct {
	Name  *string `json:"name"`
	Email *string `json:"email"`
}

type task struct {
	GID          string    `json:"gid"`
	Name         *string   `json:"name"`
	Completed    bool      `json:"completed"`
	Assignee     *assignee `json:"assignee"`
	PermalinkURL *string   `json:"permalink_url"`
}

type envelope[T any] struct {
	Data *[]T `json:"data"`
}

// ListWorkItems returns the tasks of the target sections of a project, in
// section order as returned by the API.
func (c *Client) ListWorkItems(ctx context.Context, projectID string) ([]schema.WorkItem, error) {
	if c.token == "" {
		return nil, ErrMissingToken
	}
	if projectID == "" {
		return nil, errors.New("asana project id is not configured")
	}

	var sections []section
	if err := get(ctx, c, "projects/"+url.PathEscape(projectID)+"/sections", nil, &sections); err != nil {
		return nil, fmt.Errorf("list sections: %w", err)
	}

	items := []schema.WorkItem{}
	for i, s := range sections {
		if s.GID == "" {
			return nil, &schema.ParseError{Source: source, Field: fmt.Sprintf("sections[%d].gid", i), Err: errors.New("missing")}
		}
		if s.Name == "" {
			return nil, &schema.ParseError{Source: source, Field: fmt.Sprintf("sections[%d].name", i), Err: errors.New("missing")}
		}
		if !slices.Contains(c.sections, s.Name) {
			continue
		}

		var tasks []task
		params := url.Values{"opt_fields": {optFields}}
		if err := get(ctx, c, "sections/"+url.PathEscape(s.GID)+"/tasks", params, &tasks); err != nil {
			return nil, fmt.Errorf("list tasks of section %q: %w", s.Name, err)
		}
		for j, t := range tasks {
			if t.GID == "" {
				return nil, &schema.ParseError{Source: source, Field: fmt.Sprintf("sections[%s].tasks[%d].gid", s.Name, j), Err: errors.New("missing")}
			}
			items = append(items, toWorkItem(t, s.Name))
		}
		c.log.WithFields(logrus.Fields{"section": s.Name, "tasks": len(tasks)}).Debug("section fetched")
	}
	return items, nil
}

func toWorkItem(t task, sectionName string) schema.WorkItem {
	item := schema.WorkItem{
		ID:        t.GID,
		Name:      deref(t.Name, schema.NoNameLabel),
		Completed: t.Completed,
		Assignee:  schema.UnassignedLabel,
		Section:   sectionName,
		URL:       deref(t.PermalinkURL, schema.NoURLLabel),
	}
	if t.Assignee != nil {
		item.Assignee = deref(t.Assignee.Name, schema.UnassignedLabel)
		item.AssigneeEmail = deref(t.Assignee.Email, "")
	}
	return item
}

func deref(s *string, def string) string {
	if s == nil {
		return def
	}
	return *s
}

// get fetches one endpoint and decodes its "data" list into out.
func get[T any](ctx context.Context, c *Client, endpoint string, params url.Values, out *[]T) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limiter: %w", err)
	}

	u := c.baseURL + "/" + endpoint
	if len(params) > 0 {
		u += "?" + params.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return fmt.Errorf("GET %s: status %d: %s", endpoint, resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var env envelope[T]
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return &schema.ParseError{Source: source, Field: endpoint, Err: err}
	}
	if env.Data == nil {
		return &schema.ParseError{Source: source, Field: endpoint + ".data", Err: errors.New("missing")}
	}
	*out = *env.Data
	return nil
}
