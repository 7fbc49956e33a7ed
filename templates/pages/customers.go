package pages

import (
	"context"

	"daily_report_app_go/dto"
	"daily_report_app_go/templates/components"
	"daily_report_app_go/templates/partials"
)

var customerColumns = []column{
	{"company_name", "customers.columns.company_name"},
	{"contact_name", "customers.columns.contact_name"},
	{"", "customers.columns.phone"},
	{"", "customers.columns.email"},
	{"", "customers.columns.actions"},
}

func customerPath(id uint) string {
	return "/customers/" + formatID(id)
}

func (v CustomerListView) headers(ctx context.Context) []sortHeader {
	return sortHeaders(ctx, v.Def, v.List, customerColumns, v.URL)
}

func (v CustomerListView) pageURL(page int) string {
	return v.URL(v.Def.WithPage(v.List, page))
}

// deleteURL keeps the search state so the list comes back unchanged.
func (v CustomerListView) deleteURL(id uint) string {
	return customerPath(id) + "/delete?" + v.Def.Query(v.List).Encode()
}

func (v CustomerListView) deleteConfirm(ctx context.Context, c *dto.CustomerListItem) components.ConfirmProps {
	return components.ConfirmProps{
		Message:    partials.T(ctx, "confirm.delete_customer") + " (" + c.CompanyName + ")",
		Action:     v.deleteURL(c.ID),
		CancelHref: v.URL(v.List),
		Danger:     true,
	}
}

func orDash(ctx context.Context, s *string) string {
	if v := partials.Deref(s); v != "" {
		return v
	}
	return partials.T(ctx, "common.empty_value")
}

func (v CustomerFormView) titleKey() string {
	if v.CustomerID != 0 {
		return "customers.edit_title"
	}
	return "customers.new_title"
}
