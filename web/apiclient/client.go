// Package apiclient is the web front-end's typed client for the REST API.
// Every call carries the caller's session token and returns *APIError for
// non-2xx answers.
package apiclient

import (
	"context"
	"fmt"
	"mime"
	"net/http"
	"strconv"
	"time"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"

	"daily_report_app_go/dto"
)

// SessionCookieName matches the cookie set by the API on login.
const SessionCookieName = "access_token"

const apiPrefix = "/api/v1"

// Client talks to the API server. It is safe for concurrent use.
type Client struct {
	http *resty.Client
}

// New creates a client for the API at baseURL (scheme and host, no prefix).
func New(baseURL string) *Client {
	rc := resty.New().
		SetBaseURL(baseURL+apiPrefix).
		SetTimeout(15*time.Second).
		SetHeader("Accept", "application/json")
	return &Client{http: rc}
}

// ReportQuery holds the list and export filters of /reports.
type ReportQuery struct {
	DateFrom      string
	DateTo        string
	SalespersonID uint
	Status        string
	Sort          string
	Order         string
	Page          int
	PerPage       int
}

// Params renders the query, leaving out empty values.
func (q ReportQuery) Params() map[string]string {
	p := map[string]string{}
	setIf(p, "date_from", q.DateFrom)
	setIf(p, "date_to", q.DateTo)
	if q.SalespersonID > 0 {
		p["salesperson_id"] = strconv.FormatUint(uint64(q.SalespersonID), 10)
	}
	setIf(p, "status", q.Status)
	setIf(p, "sort", q.Sort)
	setIf(p, "order", q.Order)
	setPage(p, q.Page, q.PerPage)
	return p
}

// CustomerQuery holds the list filters of /customers.
type CustomerQuery struct {
	CompanyName string
	ContactName string
	Sort        string
	Order       string
	Page        int
	PerPage     int
}

func (q CustomerQuery) Params() map[string]string {
	p := map[string]string{}
	setIf(p, "company_name", q.CompanyName)
	setIf(p, "contact_name", q.ContactName)
	setIf(p, "sort", q.Sort)
	setIf(p, "order", q.Order)
	setPage(p, q.Page, q.PerPage)
	return p
}

func setIf(p map[string]string, key, value string) {
	if value != "" {
		p[key] = value
	}
}

func setPage(p map[string]string, page, perPage int) {
	if page > 0 {
		p["page"] = strconv.Itoa(page)
	}
	if perPage > 0 {
		p["per_page"] = strconv.Itoa(perPage)
	}
}

func (c *Client) request(ctx context.Context, token string) *resty.Request {
	r := c.http.R().SetContext(ctx)
	if token != "" {
		r.SetAuthToken(token)
	}
	return r
}

// do runs the request and decodes a success body into result when non-nil.
// Error bodies are decoded into the API's error envelope.
func (c *Client) do(r *resty.Request, method, path string, result interface{}) (*resty.Response, error) {
	r.SetError(&dto.ErrorResponse{})
	if result != nil {
		r.SetResult(result)
	}
	resp, err := r.Execute(method, path)
	if err != nil {
		zap.L().Warn("api request failed",
			zap.String("method", method),
			zap.String("path", path),
			zap.Error(err),
		)
		return nil, fmt.Errorf("%s %s: %w", method, path, err)
	}
	if resp.IsError() {
		return resp, decodeError(resp)
	}
	return resp, nil
}

func decodeError(resp *resty.Response) error {
	status := resp.StatusCode()
	apiErr := &APIError{Status: status, Code: CodeUnknown, Message: MsgUnknown}
	if status == http.StatusUnauthorized {
		apiErr.Code, apiErr.Message = CodeUnauthorized, msgUnauthorized
	}
	if env, ok := resp.Error().(*dto.ErrorResponse); ok && env != nil {
		if env.Error.Code != "" {
			apiErr.Code = env.Error.Code
		}
		if env.Error.Message != "" {
			apiErr.Message = env.Error.Message
		}
		apiErr.Details = env.Error.Details
	}
	return apiErr
}

// Login authenticates and returns the user and the session token taken
// from the API's cookie.
func (c *Client) Login(ctx context.Context, req dto.LoginRequest) (*dto.UserResponse, string, error) {
	var out dto.DataResponse[dto.LoginResponse]
	resp, err := c.do(c.request(ctx, "").SetBody(req), http.MethodPost, "/auth/login", &out)
	if err != nil {
		return nil, "", err
	}
	for _, ck := range resp.Cookies() {
		if ck.Name == SessionCookieName && ck.Value != "" {
			return &out.Data.User, ck.Value, nil
		}
	}
	return nil, "", fmt.Errorf("login: response carried no %s cookie", SessionCookieName)
}

func (c *Client) Logout(ctx context.Context, token string) error {
	_, err := c.do(c.request(ctx, token), http.MethodPost, "/auth/logout", nil)
	return err
}

// Me returns the user owning token.
func (c *Client) Me(ctx context.Context, token string) (*dto.UserResponse, error) {
	var out dto.DataResponse[dto.UserResponse]
	if _, err := c.do(c.request(ctx, token), http.MethodGet, "/auth/me", &out); err != nil {
		return nil, err
	}
	return &out.Data, nil
}

func (c *Client) ListUsers(ctx context.Context, token, role string) ([]dto.UserResponse, error) {
	r := c.request(ctx, token)
	if role != "" {
		r.SetQueryParam("role", role)
	}
	var out dto.DataResponse[[]dto.UserResponse]
	if _, err := c.do(r, http.MethodGet, "/users", &out); err != nil {
		return nil, err
	}
	return out.Data, nil
}

func (c *Client) ListCustomers(ctx context.Context, token string, q CustomerQuery) (*dto.PaginatedResponse[dto.CustomerListItem], error) {
	var out dto.PaginatedResponse[dto.CustomerListItem]
	if _, err := c.do(c.request(ctx, token).SetQueryParams(q.Params()), http.MethodGet, "/customers", &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) GetCustomer(ctx context.Context, token string, id uint) (*dto.CustomerResponse, error) {
	var out dto.DataResponse[dto.CustomerResponse]
	if _, err := c.do(c.request(ctx, token), http.MethodGet, customerPath(id), &out); err != nil {
		return nil, err
	}
	return &out.Data, nil
}

func (c *Client) CreateCustomer(ctx context.Context, token string, req dto.CustomerRequest) (*dto.CustomerResponse, error) {
	var out dto.DataResponse[dto.CustomerResponse]
	if _, err := c.do(c.request(ctx, token).SetBody(req), http.MethodPost, "/customers", &out); err != nil {
		return nil, err
	}
	return &out.Data, nil
}

func (c *Client) UpdateCustomer(ctx context.Context, token string, id uint, req dto.CustomerRequest) (*dto.CustomerResponse, error) {
	var out dto.DataResponse[dto.CustomerResponse]
	if _, err := c.do(c.request(ctx, token).SetBody(req), http.MethodPut, customerPath(id), &out); err != nil {
		return nil, err
	}
	return &out.Data, nil
}

func (c *Client) DeleteCustomer(ctx context.Context, token string, id uint) error {
	_, err := c.do(c.request(ctx, token), http.MethodDelete, customerPath(id), nil)
	return err
}

func (c *Client) ListReports(ctx context.Context, token string, q ReportQuery) (*dto.PaginatedResponse[dto.ReportListItem], error) {
	var out dto.PaginatedResponse[dto.ReportListItem]
	if _, err := c.do(c.request(ctx, token).SetQueryParams(q.Params()), http.MethodGet, "/reports", &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) GetReport(ctx context.Context, token string, id uint) (*dto.ReportDetail, error) {
	var out dto.DataResponse[dto.ReportDetail]
	if _, err := c.do(c.request(ctx, token), http.MethodGet, reportPath(id), &out); err != nil {
		return nil, err
	}
	return &out.Data, nil
}

func (c *Client) CreateReport(ctx context.Context, token string, req dto.ReportRequest) (*dto.ReportDetail, error) {
	var out dto.DataResponse[dto.ReportDetail]
	if _, err := c.do(c.request(ctx, token).SetBody(req), http.MethodPost, "/reports", &out); err != nil {
		return nil, err
	}
	return &out.Data, nil
}

func (c *Client) UpdateReport(ctx context.Context, token string, id uint, req dto.ReportRequest) (*dto.ReportDetail, error) {
	var out dto.DataResponse[dto.ReportDetail]
	if _, err := c.do(c.request(ctx, token).SetBody(req), http.MethodPut, reportPath(id), &out); err != nil {
		return nil, err
	}
	return &out.Data, nil
}

func (c *Client) DeleteReport(ctx context.Context, token string, id uint) error {
	_, err := c.do(c.request(ctx, token), http.MethodDelete, reportPath(id), nil)
	return err
}

func (c *Client) SubmitReport(ctx context.Context, token string, id uint) (*dto.ReportSubmitResponse, error) {
	var out dto.DataResponse[dto.ReportSubmitResponse]
	if _, err := c.do(c.request(ctx, token), http.MethodPatch, reportPath(id)+"/submit", &out); err != nil {
		return nil, err
	}
	return &out.Data, nil
}

func (c *Client) ReviewReport(ctx context.Context, token string, id uint) (*dto.ReportReviewResponse, error) {
	var out dto.DataResponse[dto.ReportReviewResponse]
	if _, err := c.do(c.request(ctx, token), http.MethodPatch, reportPath(id)+"/review", &out); err != nil {
		return nil, err
	}
	return &out.Data, nil
}

func (c *Client) CreateComment(ctx context.Context, token string, reportID uint, req dto.CommentRequest) (*dto.CommentResponse, error) {
	var out dto.DataResponse[dto.CommentResponse]
	if _, err := c.do(c.request(ctx, token).SetBody(req), http.MethodPost, reportPath(reportID)+"/comments", &out); err != nil {
		return nil, err
	}
	return &out.Data, nil
}

// Export is a downloaded workbook.
type Export struct {
	Filename    string
	ContentType string
	Body        []byte
}

// ExportReports downloads the report workbook for q. Paging fields are ignored.
func (c *Client) ExportReports(ctx context.Context, token string, q ReportQuery) (*Export, error) {
	q.Page, q.PerPage = 0, 0
	resp, err := c.do(c.request(ctx, token).SetQueryParams(q.Params()), http.MethodGet, "/reports/export", nil)
	if err != nil {
		return nil, err
	}
	out := &Export{
		Filename:    "reports.xlsx",
		ContentType: resp.Header().Get("Content-Type"),
		Body:        resp.Body(),
	}
	if _, params, err := mime.ParseMediaType(resp.Header().Get("Content-Disposition")); err == nil && params["filename"] != "" {
		out.Filename = params["filename"]
	}
	return out, nil
}

func customerPath(id uint) string {
	return "/customers/" + strconv.FormatUint(uint64(id), 10)
}

func reportPath(id uint) string {
	return "/reports/" + strconv.FormatUint(uint64(id), 10)
}
