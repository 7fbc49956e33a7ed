package components

import (
	"strconv"

	"daily_report_app_go/web/state"
)

func dismissAfter() string {
	return strconv.FormatInt(state.SuccessToastTTL.Milliseconds(), 10)
}

func dismissPath(t state.Toast) string {
	return "/toasts/" + t.ID + "/dismiss"
}
