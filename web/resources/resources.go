// Package resources exposes one cached read or invalidating mutation per
// API operation, bound to a session token and its query cache.
package resources

import (
	"context"
	"net/url"
	"strconv"
	"time"

	"daily_report_app_go/dto"
	"daily_report_app_go/web/apiclient"
	"daily_report_app_go/web/query"
)

// MeStaleTime is how long the signed-in user is trusted without refetching.
const MeStaleTime = 5 * time.Minute

var (
	KeyMe          = query.Key{"auth", "me"}
	KeyUsers       = query.Key{"users"}
	KeyReports     = query.Key{"reports"}
	KeyReportLists = query.Key{"reports", "list"}
	KeyCustomers   = query.Key{"customers"}
)

func encodeParams(p map[string]string) string {
	v := url.Values{}
	for k, val := range p {
		v.Set(k, val)
	}
	return v.Encode()
}

func ReportListKey(q apiclient.ReportQuery) query.Key {
	return query.Key{"reports", "list", encodeParams(q.Params())}
}

func ReportKey(id uint) query.Key {
	return query.Key{"reports", "detail", strconv.FormatUint(uint64(id), 10)}
}

func CustomerListKey(q apiclient.CustomerQuery) query.Key {
	return query.Key{"customers", "list", encodeParams(q.Params())}
}

func CustomerKey(id uint) query.Key {
	return query.Key{"customers", "detail", strconv.FormatUint(uint64(id), 10)}
}

func UsersKey(role string) query.Key {
	return query.Key{"users", role}
}

// Resources is bound to one session.
type Resources struct {
	api   *apiclient.Client
	cache *query.Client
	token string
}

func New(api *apiclient.Client, cache *query.Client, token string) *Resources {
	return &Resources{api: api, cache: cache, token: token}
}

// Me is the signed-in user. It is never retried: a failure means the
// session is gone.
func (r *Resources) Me(ctx context.Context) (*dto.UserResponse, error) {
	return query.Fetch(ctx, r.cache, KeyMe, func(ctx context.Context) (*dto.UserResponse, error) {
		return r.api.Me(ctx, r.token)
	}, query.WithStaleTime(MeStaleTime), query.WithRetry(query.NoRetry))
}

// SetMe primes the cache with the user returned by login.
func (r *Resources) SetMe(u *dto.UserResponse) {
	r.cache.SetData(KeyMe, u)
}

func (r *Resources) Users(ctx context.Context, role string) ([]dto.UserResponse, error) {
	return query.Fetch(ctx, r.cache, UsersKey(role), func(ctx context.Context) ([]dto.UserResponse, error) {
		return r.api.ListUsers(ctx, r.token, role)
	})
}

func (r *Resources) Reports(ctx context.Context, q apiclient.ReportQuery) (*dto.PaginatedResponse[dto.ReportListItem], error) {
	return query.Fetch(ctx, r.cache, ReportListKey(q), func(ctx context.Context) (*dto.PaginatedResponse[dto.ReportListItem], error) {
		return r.api.ListReports(ctx, r.token, q)
	})
}

func (r *Resources) Report(ctx context.Context, id uint) (*dto.ReportDetail, error) {
	return query.Fetch(ctx, r.cache, ReportKey(id), func(ctx context.Context) (*dto.ReportDetail, error) {
		return r.api.GetReport(ctx, r.token, id)
	})
}

func (r *Resources) Customers(ctx context.Context, q apiclient.CustomerQuery) (*dto.PaginatedResponse[dto.CustomerListItem], error) {
	return query.Fetch(ctx, r.cache, CustomerListKey(q), func(ctx context.Context) (*dto.PaginatedResponse[dto.CustomerListItem], error) {
		return r.api.ListCustomers(ctx, r.token, q)
	})
}

func (r *Resources) Customer(ctx context.Context, id uint) (*dto.CustomerResponse, error) {
	return query.Fetch(ctx, r.cache, CustomerKey(id), func(ctx context.Context) (*dto.CustomerResponse, error) {
		return r.api.GetCustomer(ctx, r.token, id)
	})
}

// ExportReports is not cached.
func (r *Resources) ExportReports(ctx context.Context, q apiclient.ReportQuery) (*apiclient.Export, error) {
	return r.api.ExportReports(ctx, r.token, q)
}

func (r *Resources) reportChanged(id uint) []query.Key {
	return []query.Key{ReportKey(id), KeyReportLists}
}

func (r *Resources) CreateReport(ctx context.Context, req dto.ReportRequest) (*dto.ReportDetail, error) {
	report, err := query.Mutate(ctx, r.cache, func(ctx context.Context) (*dto.ReportDetail, error) {
		return r.api.CreateReport(ctx, r.token, req)
	}, KeyReportLists)
	if err != nil {
		return nil, err
	}
	r.cache.Invalidate(ReportKey(report.ID))
	return report, nil
}

func (r *Resources) UpdateReport(ctx context.Context, id uint, req dto.ReportRequest) (*dto.ReportDetail, error) {
	return query.Mutate(ctx, r.cache, func(ctx context.Context) (*dto.ReportDetail, error) {
		return r.api.UpdateReport(ctx, r.token, id, req)
	}, r.reportChanged(id)...)
}

func (r *Resources) DeleteReport(ctx context.Context, id uint) error {
	_, err := query.Mutate(ctx, r.cache, func(ctx context.Context) (struct{}, error) {
		return struct{}{}, r.api.DeleteReport(ctx, r.token, id)
	}, r.reportChanged(id)...)
	return err
}

func (r *Resources) SubmitReport(ctx context.Context, id uint) (*dto.ReportSubmitResponse, error) {
	return query.Mutate(ctx, r.cache, func(ctx context.Context) (*dto.ReportSubmitResponse, error) {
		return r.api.SubmitReport(ctx, r.token, id)
	}, r.reportChanged(id)...)
}

func (r *Resources) ReviewReport(ctx context.Context, id uint) (*dto.ReportReviewResponse, error) {
	return query.Mutate(ctx, r.cache, func(ctx context.Context) (*dto.ReportReviewResponse, error) {
		return r.api.ReviewReport(ctx, r.token, id)
	}, r.reportChanged(id)...)
}

func (r *Resources) CreateComment(ctx context.Context, reportID uint, req dto.CommentRequest) (*dto.CommentResponse, error) {
	return query.Mutate(ctx, r.cache, func(ctx context.Context) (*dto.CommentResponse, error) {
		return r.api.CreateComment(ctx, r.token, reportID, req)
	}, r.reportChanged(reportID)...)
}

func (r *Resources) CreateCustomer(ctx context.Context, req dto.CustomerRequest) (*dto.CustomerResponse, error) {
	return query.Mutate(ctx, r.cache, func(ctx context.Context) (*dto.CustomerResponse, error) {
		return r.api.CreateCustomer(ctx, r.token, req)
	}, KeyCustomers)
}

func (r *Resources) UpdateCustomer(ctx context.Context, id uint, req dto.CustomerRequest) (*dto.CustomerResponse, error) {
	return query.Mutate(ctx, r.cache, func(ctx context.Context) (*dto.CustomerResponse, error) {
		return r.api.UpdateCustomer(ctx, r.token, id, req)
	}, KeyCustomers)
}

func (r *Resources) DeleteCustomer(ctx context.Context, id uint) error {
	_, err := query.Mutate(ctx, r.cache, func(ctx context.Context) (struct{}, error) {
		return struct{}{}, r.api.DeleteCustomer(ctx, r.token, id)
	}, KeyCustomers)
	return err
}

// Logout ends the session on the API and drops every cached read.
func (r *Resources) Logout(ctx context.Context) error {
	err := r.api.Logout(ctx, r.token)
	r.cache.Clear()
	return err
}
