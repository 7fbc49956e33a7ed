package components

import (
	"bytes"
	"context"
	"strconv"
	"testing"

	"github.com/a-h/templ"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"daily_report_app_go/models"
	"daily_report_app_go/web/state"
)

func renderString(t *testing.T, c templ.Component) string {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, c.Render(context.Background(), &buf))
	return buf.String()
}

func TestToast_OnlySuccessDismissesItself(t *testing.T) {
	out := renderString(t, Toast(state.Toast{ID: "a1", Type: state.ToastSuccess, Message: "保存しました"}))
	assert.Contains(t, out, `class="toast toast-success"`)
	assert.Contains(t, out, `data-dismiss-after="5000"`)
	assert.Contains(t, out, `hx-target="#toast-a1"`)

	out = renderString(t, Toast(state.Toast{ID: "b2", Type: state.ToastError, Message: "<失敗>"}))
	assert.NotContains(t, out, "data-dismiss-after")
	assert.Contains(t, out, "&lt;失敗&gt;")
}

func TestPagination(t *testing.T) {
	href := func(p int) string { return "/reports?page=" + strconv.Itoa(p) }

	assert.Empty(t, renderString(t, Pagination(1, 1, href)))

	out := renderString(t, Pagination(2, 3, href))
	assert.Contains(t, out, `aria-current="page">2</span>`)
	assert.Contains(t, out, `href="/reports?page=1"`)
	assert.Contains(t, out, `href="/reports?page=3"`)
}

func TestStatusBadge(t *testing.T) {
	out := renderString(t, StatusBadge(models.ReportStatusReviewed))
	assert.Equal(t, `<span class="badge badge-REVIEWED">確認済み</span>`, out)
}
