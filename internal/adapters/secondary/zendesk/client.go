// Package zendesk implements the helpdesk provider ports against the Zendesk
// REST API.
package zendesk

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/vivla-tech/vivla-middleware/internal/core/domain"
	apperrors "github.com/vivla-tech/vivla-middleware/internal/core/errors"
	"github.com/vivla-tech/vivla-middleware/internal/core/ports"
)

// Config holds the connection settings for the helpdesk account.
type Config struct {
	BaseURL           string
	Email             string
	APIToken          string
	Timeout           time.Duration
	RequestsPerMinute int
}

// Client is an HTTP client for the helpdesk API. All requests pass through a
// client-side rate limiter so aggregation page loops stay inside the
// account's request budget.
type Client struct {
	baseURL    string
	email      string
	apiToken   string
	httpClient *http.Client
	limiter    *rate.Limiter
	logger     *slog.Logger
}

var (
	_ ports.TicketSearcher        = (*Client)(nil)
	_ ports.FieldMetadataProvider = (*Client)(nil)
	_ ports.UserLookup            = (*Client)(nil)
	_ ports.GroupLookup           = (*Client)(nil)
)

// NewClient creates a helpdesk client.
func NewClient(cfg Config, logger *slog.Logger) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	rpm := cfg.RequestsPerMinute
	if rpm <= 0 {
		rpm = 200
	}
	return &Client{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		email:      cfg.Email,
		apiToken:   cfg.APIToken,
		httpClient: &http.Client{Timeout: timeout},
		limiter:    rate.NewLimiter(rate.Limit(float64(rpm)/60.0), 5),
		logger:     logger.With("component", "zendesk_client"),
	}
}

type searchResponse struct {
	Results  []domain.Ticket `json:"results"`
	Count    int             `json:"count"`
	NextPage *string         `json:"next_page"`
}

// Search runs one page of the search API with the conjunctive query syntax.
func (c *Client) Search(ctx context.Context, params ports.TicketSearchParams) (*ports.TicketSearchResult, error) {
	q := url.Values{}
	q.Set("query", params.Query)
	q.Set("page", strconv.Itoa(params.Page))
	q.Set("per_page", strconv.Itoa(params.PerPage))
	if params.SortBy != "" {
		q.Set("sort_by", params.SortBy)
	}
	if params.SortOrder != "" {
		q.Set("sort_order", params.SortOrder)
	}

	var body searchResponse
	if err := c.get(ctx, "/api/v2/search.json", q, &body); err != nil {
		return nil, apperrors.NewUpstreamError("search tickets", err)
	}
	return &ports.TicketSearchResult{
		Results: body.Results,
		Count:   body.Count,
		HasMore: body.NextPage != nil && *body.NextPage != "",
	}, nil
}

type ticketListResponse struct {
	Tickets  []domain.Ticket `json:"tickets"`
	NextPage *string         `json:"next_page"`
}

// ListTickets fetches one page of the plain ticket listing.
func (c *Client) ListTickets(ctx context.Context, page, perPage int) (*ports.TicketListResult, error) {
	q := url.Values{}
	q.Set("page", strconv.Itoa(page))
	q.Set("per_page", strconv.Itoa(perPage))

	var body ticketListResponse
	if err := c.get(ctx, "/api/v2/tickets.json", q, &body); err != nil {
		return nil, apperrors.NewUpstreamError("list tickets", err)
	}
	return &ports.TicketListResult{
		Tickets: body.Tickets,
		HasMore: body.NextPage != nil && *body.NextPage != "",
	}, nil
}

type ticketFieldResponse struct {
	TicketField domain.FieldDefinition `json:"ticket_field"`
}

// GetTicketField fetches one custom-field definition, including its option
// table for dropdown fields. A field id the account does not know surfaces as
// the typed not-found, not as an upstream failure.
func (c *Client) GetTicketField(ctx context.Context, fieldID int64) (*domain.FieldDefinition, error) {
	var body ticketFieldResponse
	path := fmt.Sprintf("/api/v2/ticket_fields/%d.json", fieldID)
	if err := c.get(ctx, path, nil, &body); err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("field %d: %w", fieldID, apperrors.ErrFieldNotFound)
		}
		return nil, apperrors.NewUpstreamError("get ticket field", err)
	}
	return &body.TicketField, nil
}

type ticketFieldsResponse struct {
	TicketFields []domain.FieldDefinition `json:"ticket_fields"`
}

// ListTicketFields fetches every custom-field definition for the account.
func (c *Client) ListTicketFields(ctx context.Context) ([]domain.FieldDefinition, error) {
	var body ticketFieldsResponse
	if err := c.get(ctx, "/api/v2/ticket_fields.json", nil, &body); err != nil {
		return nil, apperrors.NewUpstreamError("list ticket fields", err)
	}
	return body.TicketFields, nil
}

type usersResponse struct {
	Users []domain.UserRecord `json:"users"`
}

// GetUsersByIDs fetches users in one batch via the show-many endpoint.
func (c *Client) GetUsersByIDs(ctx context.Context, ids []int64) ([]domain.UserRecord, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	q := url.Values{}
	q.Set("ids", joinIDs(ids))

	var body usersResponse
	if err := c.get(ctx, "/api/v2/users/show_many.json", q, &body); err != nil {
		return nil, apperrors.NewUpstreamError("show many users", err)
	}
	return body.Users, nil
}

type groupsResponse struct {
	Groups []domain.GroupRecord `json:"groups"`
}

// GetGroupsByIDs fetches groups in one batch via the show-many endpoint.
func (c *Client) GetGroupsByIDs(ctx context.Context, ids []int64) ([]domain.GroupRecord, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	q := url.Values{}
	q.Set("ids", joinIDs(ids))

	var body groupsResponse
	if err := c.get(ctx, "/api/v2/groups/show_many.json", q, &body); err != nil {
		return nil, apperrors.NewUpstreamError("show many groups", err)
	}
	return body.Groups, nil
}

type currentUserResponse struct {
	User struct {
		ID int64 `json:"id"`
	} `json:"user"`
}

// Ping verifies the account is reachable and the credentials are accepted. It
// serves the readiness probe.
func (c *Client) Ping(ctx context.Context) error {
	var body currentUserResponse
	if err := c.get(ctx, "/api/v2/users/me.json", nil, &body); err != nil {
		return apperrors.NewUpstreamError("ping helpdesk", err)
	}
	return nil
}

// get performs one rate-limited GET and decodes the JSON response.
func (c *Client) get(ctx context.Context, path string, query url.Values, out any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return err
	}

	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return err
	}
	// Zendesk API token auth: basic auth as "<email>/token".
	req.SetBasicAuth(c.email+"/token", c.apiToken)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		c.logger.Warn("helpdesk request failed",
			"path", path, "status", resp.StatusCode)
		return apperrors.ErrNotFound
	}
	if resp.StatusCode != http.StatusOK {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		c.logger.Warn("helpdesk request failed",
			"path", path, "status", resp.StatusCode)
		return fmt.Errorf("unexpected status %d: %s", resp.StatusCode, string(snippet))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func joinIDs(ids []int64) string {
	parts := make([]string, 0, len(ids))
	for _, id := range ids {
		parts = append(parts, strconv.FormatInt(id, 10))
	}
	return strings.Join(parts, ",")
}
