// Package gateway provides a gateway to the GitHub API,
// abstracting away the underlying REST and GraphQL clients.
package gateway

import (
	"context"
	"errors"
	"fmt"
	"iter"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/google/go-github/v62/github"
	"github.com/shurcooL/githubv4"
	"golang.org/x/oauth2"

	"github.com/gofri/go-github-ratelimit/github_ratelimit"

	"github.com/naka-gawa/github-archiver/internal/domain"
)

const (
	// pageSize is the GraphQL maximum for a connection page.
	pageSize = 100
	// maxRateLimitSleep caps a single secondary rate limit wait; the run has its own timeout.
	maxRateLimitSleep = 5 * time.Minute
	labelColor        = "b60205"
)

// Gateway defines the GitHub operations a housekeeping run needs.
type Gateway interface {
	// Repositories lazily lists the non-archived repositories of org, each joined
	// with its open issues carrying label. Iteration stops at the first error.
	Repositories(ctx context.Context, org, label string) iter.Seq2[domain.RepositorySnapshot, error]
	CreateNotificationIssue(ctx context.Context, org, repo string, notice domain.Notice) error
	ArchiveRepository(ctx context.Context, org, repo string) error
}

// GitHubGateway is the concrete implementation of the Gateway interface.
type GitHubGateway struct {
	restClient    *github.Client
	graphqlClient *githubv4.Client
	logger        *slog.Logger
}

// repositoriesQuery lists one page of repositories together with the oldest open
// notification issue of each.
type repositoriesQuery struct {
	Organization struct {
		Repositories struct {
			PageInfo struct {
				HasNextPage bool
				EndCursor   githubv4.String
			}
			Nodes []*repositoryNode
		} `graphql:"repositories(first: $pageSize, isArchived: false, after: $cursor)"`
	} `graphql:"organization(login: $org)"`
}

type repositoryNode struct {
	Name      string
	UpdatedAt githubv4.DateTime
	Issues    struct {
		TotalCount int
		Nodes      []struct {
			CreatedAt githubv4.DateTime
		}
	} `graphql:"issues(first: 1, states: OPEN, filterBy: {labels: [$label]}, orderBy: {field: CREATED_AT, direction: ASC})"`
}

// NewGitHubGateway is a constructor that creates a new instance of GitHubGateway.
func NewGitHubGateway(token string, logger *slog.Logger) (Gateway, error) {
	rateLimitWaiter, err := github_ratelimit.NewRateLimitWaiter(nil, github_ratelimit.WithSingleSleepLimit(maxRateLimitSleep, nil))
	if err != nil {
		return nil, fmt.Errorf("failed to create rate limit waiter: %w", err)
	}
	ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token})
	httpClient := &http.Client{
		Transport: &oauth2.Transport{
			Base:   rateLimitWaiter,
			Source: ts,
		},
	}
	return &GitHubGateway{
		restClient:    github.NewClient(httpClient),
		graphqlClient: githubv4.NewClient(httpClient),
		logger:        logger,
	}, nil
}

func (g *GitHubGateway) Repositories(ctx context.Context, org, label string) iter.Seq2[domain.RepositorySnapshot, error] {
	return func(yield func(domain.RepositorySnapshot, error) bool) {
		variables := map[string]interface{}{
			"org":      githubv4.String(org),
			"label":    githubv4.String(label),
			"pageSize": githubv4.Int(pageSize),
			"cursor":   (*githubv4.String)(nil),
		}
		for page := 1; ; page++ {
			g.logger.Debug("Fetching repositories page", "org", org, "page", page)
			var q repositoriesQuery
			if err := g.graphqlClient.Query(ctx, &q, variables); err != nil {
				// GraphQL errors arrive alongside a decoded page when some nodes
				// were not accessible; those nodes are null and skipped below.
				if !pageDecoded(&q) {
					yield(domain.RepositorySnapshot{}, &domain.UpstreamError{
						Operation: "list repositories",
						Err:       fmt.Errorf("failed to execute GraphQL query for repositories (page %d): %w", page, err),
					})
					return
				}
				g.logger.Warn("GraphQL query returned partial data", "org", org, "page", page, "error", err)
			}
			for _, node := range q.Organization.Repositories.Nodes {
				// Repositories the app cannot see come back as null nodes.
				if node == nil || node.Name == "" {
					continue
				}
				if !yield(toSnapshot(node, label), nil) {
					return
				}
			}
			if !q.Organization.Repositories.PageInfo.HasNextPage {
				g.logger.Info("Completed fetching repositories", "org", org, "pages", page)
				return
			}
			variables["cursor"] = githubv4.NewString(q.Organization.Repositories.PageInfo.EndCursor)
		}
	}
}

func (g *GitHubGateway) CreateNotificationIssue(ctx context.Context, org, repo string, notice domain.Notice) error {
	if err := g.ensureLabel(ctx, org, repo, notice.Label); err != nil {
		return &domain.UpstreamError{Operation: "create notification label", Repository: repo, Err: err}
	}
	issue, _, err := g.restClient.Issues.Create(ctx, org, repo, &github.IssueRequest{
		Title:  github.String(notice.Title),
		Body:   github.String(notice.Body),
		Labels: &[]string{notice.Label},
	})
	if err != nil {
		return &domain.UpstreamError{Operation: "create notification issue", Repository: repo, Err: err}
	}
	g.logger.Debug("Created notification issue", "repo", repo, "number", issue.GetNumber(), "url", issue.GetHTMLURL())
	return nil
}

// ensureLabel creates the notification label in repo when it does not exist yet.
func (g *GitHubGateway) ensureLabel(ctx context.Context, org, repo, label string) error {
	// GetLabel does not escape the name; labels may contain '?', '#' or '/'.
	_, resp, err := g.restClient.Issues.GetLabel(ctx, org, repo, url.PathEscape(label))
	if err == nil {
		return nil
	}
	if resp == nil || resp.StatusCode != http.StatusNotFound {
		return fmt.Errorf("failed to look up label %q: %w", label, err)
	}
	g.logger.Info("Notification label missing, creating it", "repo", repo, "label", label)
	_, _, err = g.restClient.Issues.CreateLabel(ctx, org, repo, &github.Label{
		Name:        github.String(label),
		Color:       github.String(labelColor),
		Description: github.String("Repository is scheduled for archiving"),
	})
	if err != nil {
		if labelExists(err) {
			g.logger.Debug("Notification label already exists", "repo", repo, "label", label)
			return nil
		}
		return fmt.Errorf("failed to create label %q: %w", label, err)
	}
	return nil
}

// labelExists reports whether a CreateLabel failure is GitHub's 422 already_exists.
func labelExists(err error) bool {
	var errResp *github.ErrorResponse
	if !errors.As(err, &errResp) || errResp.Response == nil || errResp.Response.StatusCode != http.StatusUnprocessableEntity {
		return false
	}
	for _, e := range errResp.Errors {
		if e.Code == "already_exists" {
			return true
		}
	}
	return false
}

func (g *GitHubGateway) ArchiveRepository(ctx context.Context, org, repo string) error {
	_, _, err := g.restClient.Repositories.Edit(ctx, org, repo, &github.Repository{Archived: github.Bool(true)})
	if err != nil {
		return &domain.UpstreamError{Operation: "archive repository", Repository: repo, Err: err}
	}
	return nil
}

// pageDecoded reports whether a repositories page was decoded despite a query error.
func pageDecoded(q *repositoriesQuery) bool {
	repos := q.Organization.Repositories
	return len(repos.Nodes) > 0 || repos.PageInfo.EndCursor != ""
}

// toSnapshot translates a GraphQL repository node to our domain model.
func toSnapshot(node *repositoryNode, label string) domain.RepositorySnapshot {
	snapshot := domain.RepositorySnapshot{
		Name:                       node.Name,
		UpdatedAt:                  node.UpdatedAt.Time,
		OpenNotificationIssueCount: node.Issues.TotalCount,
	}
	if len(node.Issues.Nodes) > 0 {
		snapshot.OldestNotification = &domain.NotificationIssue{
			RepositoryName: node.Name,
			CreatedAt:      node.Issues.Nodes[0].CreatedAt.Time,
			Label:          label,
		}
		// totalCount is authoritative, but never report fewer issues than we hold.
		if snapshot.OpenNotificationIssueCount == 0 {
			snapshot.OpenNotificationIssueCount = len(node.Issues.Nodes)
		}
	}
	return snapshot
}
