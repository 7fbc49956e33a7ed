package handlers

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"daily_report_app_go/dto"
	"daily_report_app_go/templates/pages"
	"daily_report_app_go/web/apiclient"
	"daily_report_app_go/web/listing"
	webmw "daily_report_app_go/web/middleware"
	"daily_report_app_go/web/search"
	"daily_report_app_go/web/state"
	"daily_report_app_go/web/validation"
)

const (
	customersPath = "/customers"
	// lookupLimit caps the suggestions of the visit row customer lookup.
	lookupLimit = 10
)

// customerList loads the customer list for the query parameters of the
// request.
func (a *App) customerList(c echo.Context, viewer *dto.UserResponse) (pages.CustomerListView, error) {
	def := listing.Customers()
	view := pages.CustomerListView{Viewer: viewer, Def: def, List: def.FromQuery(c.QueryParams())}
	res := webmw.GetResources(c)
	var err error
	view.Result, err = res.Customers(c.Request().Context(), listing.CustomerQuery(view.List))
	if apiclient.IsUnauthorized(err) {
		return view, err
	}
	if err != nil {
		view.Error = apiclient.UserMessage(err)
	}
	return view, nil
}

func (a *App) CustomerList(c echo.Context) error {
	viewer, _, err := a.viewer(c)
	if err != nil {
		_, lerr := a.leave(c, err, webmw.LoginPath)
		return lerr
	}
	view, err := a.customerList(c, viewer)
	if err != nil {
		return a.signOut(c)
	}
	return a.page(c, http.StatusOK, "customers.title", viewer, pages.CustomerList(view))
}

// CustomerLookup answers the customer search of one visit row. Keystrokes
// of the same row are debounced; a superseded lookup answers 204 so htmx
// keeps the newer results.
func (a *App) CustomerLookup(c echo.Context) error {
	res := webmw.GetResources(c)
	if res == nil {
		return a.signOut(c)
	}
	q := strings.TrimSpace(c.QueryParam("customer_q"))
	if q == "" {
		return render(c, http.StatusOK, pages.CustomerLookup("", nil))
	}

	key := webmw.GetToken(c) + ":" + c.QueryParam("row")
	found, err := a.Lookups.Do(c.Request().Context(), key, func(ctx context.Context) ([]dto.CustomerListItem, error) {
		page, err := res.Customers(ctx, apiclient.CustomerQuery{CompanyName: q, PerPage: lookupLimit})
		if err != nil {
			return nil, err
		}
		return page.Data, nil
	})
	switch {
	case errors.Is(err, search.ErrSuperseded), errors.Is(err, context.Canceled):
		return c.NoContent(http.StatusNoContent)
	case apiclient.IsUnauthorized(err):
		return a.signOut(c)
	case err != nil:
		zap.L().Warn("customer lookup failed", zap.String("query", q), zap.Error(err))
		found = nil
	}

	options := make([]pages.CustomerOption, 0, len(found))
	for _, cu := range found {
		options = append(options, pages.CustomerOption{ID: cu.ID, CompanyName: cu.CompanyName, ContactName: cu.ContactName})
	}
	return render(c, http.StatusOK, pages.CustomerLookup(q, options))
}

func (a *App) showCustomerForm(c echo.Context, status int, view pages.CustomerFormView) error {
	title := "customers.new_title"
	if view.CustomerID != 0 {
		title = "customers.edit_title"
	}
	return a.page(c, status, title, view.Viewer, pages.CustomerFormPage(view))
}

func (a *App) NewCustomerPage(c echo.Context) error {
	viewer, _, err := a.viewer(c)
	if err != nil {
		_, lerr := a.leave(c, err, customersPath)
		return lerr
	}
	return a.showCustomerForm(c, http.StatusOK, pages.CustomerFormView{Viewer: viewer})
}

func (a *App) NewCustomer(c echo.Context) error {
	viewer, _, err := a.viewer(c)
	if err != nil {
		_, lerr := a.leave(c, err, customersPath)
		return lerr
	}
	return a.saveCustomer(c, pages.CustomerFormView{Viewer: viewer})
}

// editCustomer loads the customer behind the edit page. Missing customers
// send the viewer back to the list.
func (a *App) editCustomer(c echo.Context) (*dto.UserResponse, *dto.CustomerResponse, bool, error) {
	id, ok := paramID(c)
	if !ok {
		return nil, nil, false, webmw.Redirect(c, customersPath)
	}
	viewer, res, err := a.viewer(c)
	if err == nil {
		var cu *dto.CustomerResponse
		cu, err = res.Customer(c.Request().Context(), id)
		if err == nil {
			return viewer, cu, true, nil
		}
	}
	if left, lerr := a.leave(c, err, customersPath); left {
		return nil, nil, false, lerr
	}
	toast(c, state.ToastError, apiclient.UserMessage(err))
	return nil, nil, false, webmw.Redirect(c, customersPath)
}

func (a *App) EditCustomerPage(c echo.Context) error {
	viewer, cu, ok, err := a.editCustomer(c)
	if !ok {
		return err
	}
	return a.showCustomerForm(c, http.StatusOK, pages.CustomerFormView{
		Viewer:     viewer,
		CustomerID: cu.ID,
		Form:       validation.CustomerFormFrom(cu),
	})
}

func (a *App) EditCustomer(c echo.Context) error {
	viewer, cu, ok, err := a.editCustomer(c)
	if !ok {
		return err
	}
	return a.saveCustomer(c, pages.CustomerFormView{Viewer: viewer, CustomerID: cu.ID})
}

// saveCustomer validates the posted form and creates or updates the
// customer.
func (a *App) saveCustomer(c echo.Context, view pages.CustomerFormView) error {
	params, err := c.FormParams()
	if err != nil {
		return err
	}
	view.Form = validation.ParseCustomerForm(params)
	if view.Errors = view.Form.Validate(); view.Errors.Any() {
		return a.showCustomerForm(c, formStatus(c), view)
	}

	res := webmw.GetResources(c)
	ctx := c.Request().Context()
	msgKey := "toast.customer_created"
	if view.CustomerID == 0 {
		_, err = res.CreateCustomer(ctx, view.Form.Request())
	} else {
		msgKey = "toast.customer_updated"
		_, err = res.UpdateCustomer(ctx, view.CustomerID, view.Form.Request())
	}
	if err != nil {
		if left, lerr := a.leave(c, err, customersPath); left {
			return lerr
		}
		view.Errors = validation.FromAPIError(err)
		return a.showCustomerForm(c, formStatus(c), view)
	}
	toast(c, state.ToastSuccess, t(c, msgKey))
	return webmw.Redirect(c, customersPath)
}

// DeleteCustomerPage shows the list with the delete confirmation open.
func (a *App) DeleteCustomerPage(c echo.Context) error {
	viewer, cu, ok, err := a.editCustomer(c)
	if !ok {
		return err
	}
	view, err := a.customerList(c, viewer)
	if err != nil {
		return a.signOut(c)
	}
	view.ConfirmDelete = &dto.CustomerListItem{ID: cu.ID, CompanyName: cu.CompanyName, ContactName: cu.ContactName}
	return a.page(c, http.StatusOK, "customers.title", viewer, pages.CustomerList(view))
}

// DeleteCustomer deletes after confirmation and returns to the list the
// confirmation was opened from. Customers still referenced by visit
// records are kept and the API message is shown.
func (a *App) DeleteCustomer(c echo.Context) error {
	id, ok := paramID(c)
	if !ok {
		return webmw.Redirect(c, customersPath)
	}
	back := customersPath
	if q := c.QueryString(); q != "" {
		back += "?" + q
	}
	res := webmw.GetResources(c)
	if res == nil {
		return a.signOut(c)
	}
	if err := res.DeleteCustomer(c.Request().Context(), id); err != nil {
		if left, lerr := a.leave(c, err, back); left {
			return lerr
		}
		toast(c, state.ToastError, apiclient.UserMessage(err))
		return webmw.Redirect(c, back)
	}
	zap.L().Info("customer deleted", zap.Uint("customer_id", id))
	toast(c, state.ToastSuccess, t(c, "toast.customer_deleted"))
	return webmw.Redirect(c, back)
}
