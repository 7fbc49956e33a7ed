package pages

import (
	"context"
	"fmt"
	"strconv"

	"daily_report_app_go/templates/components"
	"daily_report_app_go/templates/partials"
)

// CustomerOption is one entry of the customer lookup.
type CustomerOption struct {
	ID          uint
	CompanyName string
	ContactName string
}

func (v ReportFormView) titleKey() string {
	if v.ReportID != 0 {
		return "report.edit_title"
	}
	return "report.new_title"
}

// confirmStep is the message of the open confirmation and the action its
// confirm button repeats; action is empty when nothing awaits confirmation.
func (v ReportFormView) confirmStep(ctx context.Context) (msg, action string) {
	switch v.Confirm {
	case ConfirmSubmit:
		return partials.T(ctx, "confirm.submit"), "submit"
	case ConfirmCancel:
		return partials.T(ctx, "confirm.discard"), "cancel"
	case ConfirmRemove:
		return partials.T(ctx, "confirm.remove_visit"), removeAction(v.ConfirmRow)
	}
	return "", ""
}

func (v ReportFormView) visitError(i int, field string) string {
	return v.Errors.Field(fmt.Sprintf("visit_records[%d].%s", i, field))
}

func removeAction(i int) string {
	return fmt.Sprintf("remove_visit:%d", i)
}

func lookupVals(i int) string {
	return components.JSON(map[string]string{"row": strconv.Itoa(i)})
}

func formatID(id uint) string {
	return strconv.FormatUint(uint64(id), 10)
}
