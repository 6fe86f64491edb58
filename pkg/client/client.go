package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/ankiiin/auction-house-sp2/pkg/domain"
)

// Client is the auction API client. Every method issues exactly one HTTP
// call, no retries, and surfaces failures directly to the caller.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client

	mu    sync.RWMutex
	token string
}

// New creates a new API client. token may be empty for unauthenticated use.
func New(baseURL, apiKey, token string) *Client {
	return &Client{
		baseURL: baseURL,
		apiKey:  apiKey,
		token:   token,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// SetToken replaces the bearer token used on subsequent requests. Safe to
// call while other goroutines issue requests.
func (c *Client) SetToken(token string) {
	c.mu.Lock()
	c.token = token
	c.mu.Unlock()
}

func (c *Client) bearer() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.token
}

// envelope is the response wrapper used by every endpoint.
type envelope struct {
	Data json.RawMessage `json:"data"`
	Meta pageMeta        `json:"meta"`
}

type pageMeta struct {
	CurrentPage int  `json:"currentPage"`
	PageCount   int  `json:"pageCount"`
	TotalCount  int  `json:"totalCount"`
	IsLastPage  bool `json:"isLastPage"`
}

// apiErrorBody is the error shape returned on non-2xx responses.
type apiErrorBody struct {
	Errors []struct {
		Message string `json:"message"`
	} `json:"errors"`
}

// LoginResult is the payload returned by a successful login.
type LoginResult struct {
	Name        string       `json:"name"`
	Email       string       `json:"email"`
	Bio         string       `json:"bio"`
	Avatar      domain.Media `json:"avatar"`
	Banner      domain.Media `json:"banner"`
	AccessToken string       `json:"accessToken"`
}

// Profile converts the login payload to a domain profile.
func (r LoginResult) Profile() domain.Profile {
	return domain.Profile{
		Name:   r.Name,
		Email:  r.Email,
		Bio:    r.Bio,
		Avatar: r.Avatar,
		Banner: r.Banner,
	}
}

// Login authenticates with email and password.
func (c *Client) Login(ctx context.Context, email, password string) (LoginResult, error) {
	var result LoginResult
	body := map[string]string{"email": email, "password": password}
	if err := c.post(ctx, "/auth/login", body, &result); err != nil {
		return LoginResult{}, fmt.Errorf("client.Login: %w", err)
	}
	return result, nil
}

// Register creates a new account. The caller logs in separately afterwards.
func (c *Client) Register(ctx context.Context, name, email, password string) error {
	body := map[string]string{"name": name, "email": email, "password": password}
	if err := c.post(ctx, "/auth/register", body, nil); err != nil {
		return fmt.Errorf("client.Register: %w", err)
	}
	return nil
}

// ListingPage is one page of the public listings collection.
type ListingPage struct {
	Items      []domain.Listing
	TotalCount int
	LastPage   bool
}

// ListListings fetches one page of listings with seller and bids embedded,
// sorted by creation time descending on the server.
func (c *Client) ListListings(ctx context.Context, page, limit int) (ListingPage, error) {
	params := url.Values{}
	params.Set("page", strconv.Itoa(page))
	params.Set("limit", strconv.Itoa(limit))
	params.Set("sort", "created")
	params.Set("sortOrder", "desc")
	params.Set("_seller", "true")
	params.Set("_bids", "true")

	var items []domain.Listing
	meta, err := c.getPaged(ctx, "/auction/listings?"+params.Encode(), &items)
	if err != nil {
		return ListingPage{}, fmt.Errorf("client.ListListings: %w", err)
	}
	return ListingPage{Items: items, TotalCount: meta.TotalCount, LastPage: meta.IsLastPage}, nil
}

// GetListing fetches a single listing with bids and seller embedded.
func (c *Client) GetListing(ctx context.Context, id uuid.UUID) (domain.Listing, error) {
	var listing domain.Listing
	if err := c.get(ctx, "/auction/listings/"+id.String()+"?_bids=true&_seller=true", &listing); err != nil {
		return domain.Listing{}, fmt.Errorf("client.GetListing: %w", err)
	}
	return listing, nil
}

// CreateListingRequest is the payload for creating or updating a listing.
type CreateListingRequest struct {
	Title       string         `json:"title"`
	Description string         `json:"description"`
	Media       []domain.Media `json:"media"`
	EndsAt      time.Time      `json:"endsAt"`
}

// CreateListing creates a new listing owned by the authenticated user.
func (c *Client) CreateListing(ctx context.Context, req CreateListingRequest) (domain.Listing, error) {
	var created domain.Listing
	if err := c.post(ctx, "/auction/listings", req, &created); err != nil {
		return domain.Listing{}, fmt.Errorf("client.CreateListing: %w", err)
	}
	return created, nil
}

// UpdateListingRequest is the payload for editing a listing. EndsAt is not
// editable after creation.
type UpdateListingRequest struct {
	Title       string         `json:"title"`
	Description string         `json:"description"`
	Media       []domain.Media `json:"media"`
}

// UpdateListing edits a listing owned by the authenticated user.
func (c *Client) UpdateListing(ctx context.Context, id uuid.UUID, req UpdateListingRequest) (domain.Listing, error) {
	var updated domain.Listing
	if err := c.doRequest(ctx, http.MethodPut, "/auction/listings/"+id.String(), req, &updated); err != nil {
		return domain.Listing{}, fmt.Errorf("client.UpdateListing: %w", err)
	}
	return updated, nil
}

// DeleteListing removes a listing owned by the authenticated user.
func (c *Client) DeleteListing(ctx context.Context, id uuid.UUID) error {
	if err := c.doRequest(ctx, http.MethodDelete, "/auction/listings/"+id.String(), nil, nil); err != nil {
		return fmt.Errorf("client.DeleteListing: %w", err)
	}
	return nil
}

// PlaceBid submits a bid against a listing and returns the updated listing
// with the accepted bid included.
func (c *Client) PlaceBid(ctx context.Context, id uuid.UUID, amount int) (domain.Listing, error) {
	var listing domain.Listing
	body := map[string]int{"amount": amount}
	if err := c.post(ctx, "/auction/listings/"+id.String()+"/bids", body, &listing); err != nil {
		return domain.Listing{}, fmt.Errorf("client.PlaceBid: %w", err)
	}
	return listing, nil
}

type creditsPayload struct {
	Credits int `json:"credits"`
}

// GetCredits returns the authoritative credit balance for a profile.
func (c *Client) GetCredits(ctx context.Context, name string) (int, error) {
	var payload creditsPayload
	if err := c.get(ctx, "/auction/profiles/"+url.PathEscape(name)+"/credits", &payload); err != nil {
		return 0, fmt.Errorf("client.GetCredits: %w", err)
	}
	return payload.Credits, nil
}

// SetCredits overwrites the remote credit balance. Administrative top-up,
// not part of the bidding flow.
func (c *Client) SetCredits(ctx context.Context, name string, amount int) (int, error) {
	var payload creditsPayload
	body := map[string]int{"credits": amount}
	if err := c.doRequest(ctx, http.MethodPut, "/auction/profiles/"+url.PathEscape(name)+"/credits", body, &payload); err != nil {
		return 0, fmt.Errorf("client.SetCredits: %w", err)
	}
	return payload.Credits, nil
}

// GetProfile fetches a profile with its listings embedded.
func (c *Client) GetProfile(ctx context.Context, name string) (domain.Profile, error) {
	var profile domain.Profile
	if err := c.get(ctx, "/auction/profiles/"+url.PathEscape(name)+"?_listings=true", &profile); err != nil {
		return domain.Profile{}, fmt.Errorf("client.GetProfile: %w", err)
	}
	return profile, nil
}

// UpdateProfileRequest is the payload for editing avatar, banner and bio.
type UpdateProfileRequest struct {
	Avatar domain.Media `json:"avatar"`
	Banner domain.Media `json:"banner"`
	Bio    string       `json:"bio"`
}

// UpdateProfile edits the authenticated user's profile.
func (c *Client) UpdateProfile(ctx context.Context, name string, req UpdateProfileRequest) (domain.Profile, error) {
	var profile domain.Profile
	if err := c.doRequest(ctx, http.MethodPut, "/auction/profiles/"+url.PathEscape(name), req, &profile); err != nil {
		return domain.Profile{}, fmt.Errorf("client.UpdateProfile: %w", err)
	}
	return profile, nil
}

// SearchListings searches listings by title and description.
func (c *Client) SearchListings(ctx context.Context, query string) ([]domain.Listing, error) {
	params := url.Values{}
	params.Set("q", query)

	var listings []domain.Listing
	if err := c.get(ctx, "/auction/listings/search?"+params.Encode(), &listings); err != nil {
		return nil, fmt.Errorf("client.SearchListings: %w", err)
	}
	return listings, nil
}

func (c *Client) get(ctx context.Context, path string, out any) error {
	return c.doRequest(ctx, http.MethodGet, path, nil, out)
}

func (c *Client) post(ctx context.Context, path string, body any, out any) error {
	return c.doRequest(ctx, http.MethodPost, path, body, out)
}

// getPaged is like get but also returns the response meta block.
func (c *Client) getPaged(ctx context.Context, path string, out any) (pageMeta, error) {
	env, err := c.roundTrip(ctx, http.MethodGet, path, nil)
	if err != nil {
		return pageMeta{}, err
	}
	if err := json.Unmarshal(env.Data, out); err != nil {
		return pageMeta{}, fmt.Errorf("decode response: %w", err)
	}
	return env.Meta, nil
}

func (c *Client) doRequest(ctx context.Context, method, path string, body, out any) error {
	env, err := c.roundTrip(ctx, method, path, body)
	if err != nil {
		return err
	}
	if out != nil {
		if err := json.Unmarshal(env.Data, out); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
	}
	return nil
}

// roundTrip performs one HTTP exchange and decodes the response envelope.
// Non-2xx responses become APIError with the server message when present.
func (c *Client) roundTrip(ctx context.Context, method, path string, body any) (*envelope, error) {
	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("marshal body: %w", err)
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("X-Noroff-API-Key", c.apiKey)
	if token := c.bearer(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close() //nolint:errcheck // best-effort close

	if resp.StatusCode >= 400 {
		respBody, readErr := io.ReadAll(io.LimitReader(resp.Body, 1<<20)) // 1 MB max error body
		if readErr != nil {
			return nil, &APIError{Status: resp.StatusCode, Message: fmt.Sprintf("failed to read body: %v", readErr)}
		}
		var apiErr apiErrorBody
		if json.Unmarshal(respBody, &apiErr) == nil && len(apiErr.Errors) > 0 && apiErr.Errors[0].Message != "" {
			return nil, &APIError{Status: resp.StatusCode, Message: apiErr.Errors[0].Message}
		}
		return nil, &APIError{Status: resp.StatusCode, Message: http.StatusText(resp.StatusCode)}
	}

	env := &envelope{}
	if resp.StatusCode == http.StatusNoContent {
		return env, nil
	}
	if err := json.NewDecoder(resp.Body).Decode(env); err != nil {
		return nil, fmt.Errorf("decode envelope: %w", err)
	}
	return env, nil
}
