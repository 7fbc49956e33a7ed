package partials

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatReportDate(t *testing.T) {
	assert.Equal(t, "10/17（土）", FormatReportDate("2026-10-17"))
	assert.Equal(t, "2026/10/05（月）", FormatReportDateLong("2026-10-05"))
	assert.Equal(t, "garbage", FormatReportDate("garbage"))
}

func TestFormatSubmittedAt(t *testing.T) {
	ctx := context.Background()
	assert.Equal(t, "—", FormatSubmittedAt(ctx, nil))

	ts := time.Date(2026, 10, 17, 18, 5, 0, 0, time.Local)
	assert.Equal(t, "10/17 18:05", FormatSubmittedAt(ctx, &ts))
}

func TestCSRFFieldEscapesToken(t *testing.T) {
	var buf bytes.Buffer
	ctx := WithCSRF(context.Background(), `a"><script>`)
	require.NoError(t, CSRFField().Render(ctx, &buf))

	assert.Equal(t, `<input type="hidden" name="_csrf" value="a&#34;&gt;&lt;script&gt;">`, buf.String())
}
