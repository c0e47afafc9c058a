// Package phpreport is the HTTP client for the PHPReport web services:
// session login, the identity directory, and filtered task fetches.
package phpreport

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/dbarros/tally/internal/domain"
	"github.com/sethvargo/go-retry"
	"golang.org/x/sync/errgroup"
)

// ErrLogin means the login response carried no session id, which is how
// the service reports bad credentials.
var ErrLogin = errors.New("no session id in login response")

const (
	requestTimeout = 30 * time.Second

	// fetchConcurrency bounds parallel task fetches. Results stay
	// positional regardless of completion order.
	fetchConcurrency = 3
)

// Client talks to one PHPReport instance on behalf of one user. Login
// must succeed before anything else is called; after that the client is
// read-only and safe for concurrent use.
type Client struct {
	baseURL  string
	login    string
	password string

	httpc     *http.Client
	sessionID string
	dir       domain.Directory
}

// NewClient builds a client for the service rooted at baseURL.
func NewClient(baseURL, login, password string) *Client {
	return &Client{
		baseURL:  strings.TrimRight(baseURL, "/"),
		login:    login,
		password: password,
		httpc:    &http.Client{Timeout: requestTimeout},
	}
}

// Login opens a session and loads the identity directory. The directory
// requests are independent, so they are issued concurrently.
func (c *Client) Login(ctx context.Context) error {
	body, err := c.get(ctx, "loginService.php", url.Values{
		"login":    {c.login},
		"password": {c.password},
	})
	if err != nil {
		return err
	}

	sessionID, err := decodeSessionID(body)
	if err != nil {
		return err
	}
	c.sessionID = sessionID

	return c.loadDirectory(ctx)
}

func (c *Client) loadDirectory(ctx context.Context) error {
	dir := domain.NewDirectory()

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		body, err := c.get(ctx, "getCustomerProjectsService.php", url.Values{})
		if err != nil {
			return err
		}
		return decodeProjects(body, dir.Projects)
	})
	g.Go(func() error {
		body, err := c.get(ctx, "getAllUsersService.php", url.Values{})
		if err != nil {
			return err
		}
		return decodeUsers(body, dir.Users)
	})
	g.Go(func() error {
		body, err := c.get(ctx, "getUserCustomersService.php", url.Values{})
		if err != nil {
			return err
		}
		return decodeCustomers(body, dir.Customers)
	})
	if err := g.Wait(); err != nil {
		return err
	}

	c.dir = dir
	return nil
}

// Directory returns the users, projects and customers loaded at login.
func (c *Client) Directory() domain.Directory {
	return c.dir
}

// TasksForFilters fetches one task list per filter. Fetches run on a
// bounded pool; result i always answers filter i. Any failed fetch fails
// the whole call: reports are never built from partial data.
func (c *Client) TasksForFilters(ctx context.Context, filters []domain.TaskFilter) ([][]domain.Task, error) {
	results := make([][]domain.Task, len(filters))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(fetchConcurrency)
	for i, f := range filters {
		i, f := i, f
		g.Go(func() error {
			tasks, err := c.tasksFor(ctx, f)
			if err != nil {
				return err
			}
			results[i] = tasks
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

func (c *Client) tasksFor(ctx context.Context, f domain.TaskFilter) ([]domain.Task, error) {
	q := url.Values{"dateFormat": {"Y-m-d"}}
	if !f.Start.IsZero() {
		q.Set("filterStartDate", f.Start.Format("2006-01-02"))
		q.Set("filterEndDate", f.End.Format("2006-01-02"))
	}
	if f.Project != nil {
		q.Set("projectId", strconv.Itoa(f.Project.ID))
	}
	if f.Customer != nil {
		q.Set("customerId", strconv.Itoa(f.Customer.ID))
	}
	if f.User != nil {
		q.Set("userId", strconv.Itoa(f.User.ID))
	}
	if f.TaskType != "" {
		q.Set("type", f.TaskType)
	}

	body, err := c.get(ctx, "getTasksFiltered.php", q)
	if err != nil {
		return nil, err
	}
	return decodeTasks(body, c.dir)
}

// get performs one service request with retries on transient failures.
func (c *Client) get(ctx context.Context, service string, q url.Values) ([]byte, error) {
	if c.sessionID != "" {
		q.Set("sid", c.sessionID)
	}
	requestURL := c.baseURL + "/" + service + "?" + q.Encode()

	var body []byte
	backoff := retry.WithMaxRetries(3, retry.NewExponential(500*time.Millisecond))
	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, requestURL, nil)
		if err != nil {
			return err
		}
		req.SetBasicAuth(c.login, c.password)

		resp, err := c.httpc.Do(req)
		if err != nil {
			return retry.RetryableError(err)
		}
		defer resp.Body.Close()

		if resp.StatusCode >= http.StatusInternalServerError {
			return retry.RetryableError(fmt.Errorf("service returned %s", resp.Status))
		}
		if resp.StatusCode != http.StatusOK {
			return fmt.Errorf("service returned %s", resp.Status)
		}

		body, err = io.ReadAll(resp.Body)
		if err != nil {
			return retry.RetryableError(err)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("requesting %s: %w", c.sanitizeURL(requestURL), err)
	}
	return body, nil
}

// sanitizeURL hides the password before a URL ends up in errors or logs.
func (c *Client) sanitizeURL(u string) string {
	if c.password == "" {
		return u
	}
	u = strings.ReplaceAll(u, url.QueryEscape(c.password), "<password>")
	return strings.ReplaceAll(u, c.password, "<password>")
}
