package handlers

import (
	"context"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"daily_report_app_go/config"
	"daily_report_app_go/db"
	"daily_report_app_go/dto"
	apihandlers "daily_report_app_go/handlers"
	"daily_report_app_go/models"
	"daily_report_app_go/services"
	"daily_report_app_go/templates/pages"
)

const e2ePassword = "password123"

var (
	csrfPattern  = regexp.MustCompile(`name="_csrf" value="([^"]+)"`)
	shellPattern = regexp.MustCompile(`id="` + pages.ReportPageID + `" hx-get="([^"]+)"`)
)

// stack runs the API and the web front-end against an isolated database.
type stack struct {
	t   *testing.T
	db  *gorm.DB
	web *httptest.Server
}

func newStack(t *testing.T) *stack {
	conn, err := db.OpenMemory("web_" + uuid.New().String())
	require.NoError(t, err)
	require.NoError(t, conn.AutoMigrate(models.All()...))
	db.DB = conn

	cfg := &config.Config{
		Environment:    "test",
		EmailTestMode:  true,
		SessionTTL:     time.Hour,
		LoginRateLimit: 100,
		SearchDebounce: time.Millisecond,
	}
	api := httptest.NewServer(apihandlers.NewServer(cfg))
	t.Cleanup(api.Close)

	webCfg := *cfg
	webCfg.APIURL = api.URL
	web := httptest.NewServer(NewServer(NewApp(&webCfg)))
	t.Cleanup(web.Close)

	return &stack{t: t, db: conn, web: web}
}

func (s *stack) user(name string, role models.Role) *models.User {
	s.t.Helper()
	u, err := services.CreateUser(s.db, services.CreateUserInput{
		Name: name, Email: name + "@example.com", Password: e2ePassword, Role: role,
	})
	require.NoError(s.t, err)
	return u
}

func (s *stack) customer(name string) *models.Customer {
	s.t.Helper()
	c := &models.Customer{CompanyName: name, ContactName: "田中 一郎"}
	require.NoError(s.t, s.db.Create(c).Error)
	return c
}

// browser is a cookie-keeping client that follows redirects.
type browser struct {
	s      *stack
	client *http.Client
	csrf   string
}

func (s *stack) browser() *browser {
	jar, err := cookiejar.New(nil)
	require.NoError(s.t, err)
	return &browser{s: s, client: &http.Client{Jar: jar}}
}

type page struct {
	status   int
	path     string
	body     string
	redirect string
}

func (b *browser) read(resp *http.Response, err error) page {
	b.s.t.Helper()
	require.NoError(b.s.t, err)
	defer resp.Body.Close()
	raw, err := io.ReadAll(resp.Body)
	require.NoError(b.s.t, err)
	body := string(raw)
	if m := csrfPattern.FindStringSubmatch(body); m != nil {
		b.csrf = m[1]
	}
	return page{status: resp.StatusCode, path: resp.Request.URL.Path, body: body}
}

// load reads a response and, like htmx, fills a report shell with the
// content it loads.
func (b *browser) load(resp *http.Response, err error) page {
	b.s.t.Helper()
	p := b.read(resp, err)
	m := shellPattern.FindStringSubmatch(p.body)
	if m == nil {
		return p
	}

	content := b.htmx(m[1], pages.ReportPageID)
	if content.redirect != "" {
		return b.get(content.redirect)
	}
	if content.status != http.StatusOK {
		return content
	}
	var shell strings.Builder
	require.NoError(b.s.t, pages.ReportShell(m[1]).Render(context.Background(), &shell))
	require.Contains(b.s.t, p.body, shell.String())
	p.body = strings.Replace(p.body, shell.String(), content.body, 1)
	return p
}

// htmx sends the GET an htmx element aimed at target would send.
func (b *browser) htmx(path, target string) page {
	b.s.t.Helper()
	req, err := http.NewRequest(http.MethodGet, b.s.web.URL+path, nil)
	require.NoError(b.s.t, err)
	req.Header.Set("HX-Request", "true")
	req.Header.Set("HX-Target", target)
	resp, err := b.client.Do(req)
	p := b.read(resp, err)
	p.redirect = resp.Header.Get("HX-Redirect")
	return p
}

func (b *browser) get(path string) page {
	return b.load(b.client.Get(b.s.web.URL + path))
}

func (b *browser) post(path string, form url.Values) page {
	b.s.t.Helper()
	if b.csrf == "" {
		b.get("/login")
	}
	form.Set("_csrf", b.csrf)
	return b.load(b.client.PostForm(b.s.web.URL+path, form))
}

func (b *browser) login(u *models.User) page {
	b.get("/login")
	return b.post("/login", url.Values{"email": {u.Email}, "password": {e2ePassword}})
}

func visitForm(date string, c *models.Customer, action string) url.Values {
	return url.Values{
		"report_date":         {date},
		"visit_customer_id":   {strconv.FormatUint(uint64(c.ID), 10)},
		"visit_customer_name": {c.CompanyName},
		"visit_content":       {"新商品の提案を行った。"},
		"visit_visited_at":    {"10:00"},
		"problem":             {"見積もりについて相談したい"},
		"plan":                {"提案書を送付する"},
		"action":              {action},
	}
}

func today() string {
	return time.Now().Format(models.DateLayout)
}

func TestLogin_RedirectsToReports(t *testing.T) {
	s := newStack(t)
	sales := s.user("yamada", models.RoleSales)

	p := s.browser().login(sales)
	assert.Equal(t, http.StatusOK, p.status)
	assert.Equal(t, "/reports", p.path)
	assert.Contains(t, p.body, "yamada")
	assert.Contains(t, p.body, "日報一覧")
}

func TestLogin_InvalidPasswordStaysOnLogin(t *testing.T) {
	s := newStack(t)
	sales := s.user("yamada", models.RoleSales)

	b := s.browser()
	b.get("/login")
	p := b.post("/login", url.Values{"email": {sales.Email}, "password": {"wrong-password"}})
	assert.Equal(t, http.StatusUnprocessableEntity, p.status)
	assert.Equal(t, "/login", p.path)
	assert.Contains(t, p.body, "メールアドレスまたはパスワードが正しくありません")
}

func TestRouteGuard_WithoutSessionGoesToLogin(t *testing.T) {
	s := newStack(t)
	b := s.browser()

	for _, path := range []string{"/reports", "/reports/1", "/customers"} {
		p := b.get(path)
		assert.Equal(t, "/login", p.path, path)
	}
}

func TestManagerComments(t *testing.T) {
	s := newStack(t)
	sales := s.user("yamada", models.RoleSales)
	manager := s.user("suzuki", models.RoleManager)
	customer := s.customer("株式会社ABC商事")

	visitedAt, err := models.ParseVisitTime("10:00")
	require.NoError(t, err)
	problem := "値引きについて相談したい"
	report, err := services.CreateReport(s.db, sales, &services.ReportInput{
		ReportDate: models.NormalizeDate(time.Now()),
		Problem:    &problem,
		Status:     models.ReportStatusSubmitted,
		Visits:     []services.VisitInput{{CustomerID: customer.ID, VisitContent: "定期訪問", VisitedAt: visitedAt}},
	})
	require.NoError(t, err)
	for _, content := range []string{"了解です", "詳細を教えてください"} {
		_, err := services.CreateComment(s.db, manager, report.ID, dto.CommentRequest{Target: models.CommentTargetProblem, Content: content})
		require.NoError(t, err)
	}

	b := s.browser()
	b.login(manager)
	detail := "/reports/" + strconv.FormatUint(uint64(report.ID), 10)

	p := b.get(detail)
	require.Equal(t, detail, p.path)
	assert.Contains(t, p.body, "コメント (2件)")

	p = b.post(detail+"/comments", url.Values{"target": {"PROBLEM"}, "content": {"対応完了"}})
	assert.Equal(t, detail, p.path)
	assert.Contains(t, p.body, "コメント (3件)")
	assert.Contains(t, p.body, "対応完了")
	assert.Contains(t, p.body, "コメントを投稿しました")
}

func TestManagerComment_BlankIsRejected(t *testing.T) {
	s := newStack(t)
	sales := s.user("yamada", models.RoleSales)
	manager := s.user("suzuki", models.RoleManager)

	report, err := services.CreateReport(s.db, sales, &services.ReportInput{
		ReportDate: models.NormalizeDate(time.Now()),
		Status:     models.ReportStatusSubmitted,
	})
	require.NoError(t, err)

	b := s.browser()
	b.login(manager)
	detail := "/reports/" + strconv.FormatUint(uint64(report.ID), 10)
	p := b.post(detail+"/comments", url.Values{"target": {"PLAN"}, "content": {"   "}})
	assert.Equal(t, http.StatusUnprocessableEntity, p.status)
	assert.Contains(t, p.body, "コメント (0件)")
}

func TestDraftThenSubmit(t *testing.T) {
	s := newStack(t)
	sales := s.user("yamada", models.RoleSales)
	customer := s.customer("株式会社ABC商事")

	b := s.browser()
	b.login(sales)
	p := b.get("/reports/new")
	require.Equal(t, "/reports/new", p.path)

	p = b.post("/reports/new", visitForm(today(), customer, "save_draft"))
	require.Regexp(t, `^/reports/\d+$`, p.path, p.body)
	assert.Contains(t, p.body, "下書き")
	assert.Contains(t, p.body, "日報を保存しました")
	detail := p.path

	p = b.get(detail + "/edit")
	require.Equal(t, detail+"/edit", p.path)
	assert.Contains(t, p.body, "新商品の提案を行った。")

	form := visitForm(today(), customer, "submit")
	form.Set("confirmed", "submit")
	p = b.post(detail+"/edit", form)
	assert.Equal(t, detail, p.path)
	assert.Contains(t, p.body, "提出済み")
	assert.Contains(t, p.body, "日報を提出しました")

	p = b.get(detail + "/edit")
	assert.Equal(t, detail, p.path)
	assert.NotContains(t, p.body, `name="action" value="save_draft"`)
}

func TestSubmit_AsksForConfirmation(t *testing.T) {
	s := newStack(t)
	sales := s.user("yamada", models.RoleSales)
	customer := s.customer("株式会社ABC商事")

	b := s.browser()
	b.login(sales)
	p := b.post("/reports/new", visitForm(today(), customer, "submit"))
	assert.Equal(t, http.StatusOK, p.status)
	assert.Equal(t, "/reports/new", p.path)
	assert.Contains(t, p.body, "日報を提出しますか？提出後は編集できなくなります。")
	assert.Contains(t, p.body, `name="confirmed" value="submit"`)

	var count int64
	require.NoError(t, s.db.Model(&models.DailyReport{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestReportForm_RowEdits(t *testing.T) {
	s := newStack(t)
	sales := s.user("yamada", models.RoleSales)
	customer := s.customer("株式会社ABC商事")

	b := s.browser()
	b.login(sales)

	p := b.post("/reports/new", visitForm(today(), customer, "add_visit"))
	assert.Equal(t, 2, strings.Count(p.body, `name="visit_content"`))

	p = b.post("/reports/new", visitForm(today(), customer, "remove_visit:0"))
	assert.Contains(t, p.body, "この訪問記録を削除しますか？")

	form := visitForm(today(), customer, "remove_visit:0")
	form.Set("confirmed", "remove_visit:0")
	p = b.post("/reports/new", form)
	assert.Equal(t, 0, strings.Count(p.body, `name="visit_content"`))

	form = visitForm(today(), customer, "remove_visit:0")
	form.Set("confirmed", "cancel")
	p = b.post("/reports/new", form)
	assert.Contains(t, p.body, "この訪問記録を削除しますか？")
}

func TestReportForm_CancelUnchangedLeaves(t *testing.T) {
	s := newStack(t)
	sales := s.user("yamada", models.RoleSales)

	b := s.browser()
	b.login(sales)
	p := b.post("/reports/new", url.Values{"report_date": {today()}, "action": {"cancel"}})
	assert.Equal(t, "/reports", p.path)

	p = b.post("/reports/new", url.Values{"report_date": {today()}, "plan": {"下書き中"}, "action": {"cancel"}})
	assert.Equal(t, "/reports/new", p.path)
	assert.Contains(t, p.body, "入力内容が破棄されますが、よろしいですか？")
}

func TestManagerCannotOpenNewReport(t *testing.T) {
	s := newStack(t)
	manager := s.user("suzuki", models.RoleManager)

	b := s.browser()
	b.login(manager)
	p := b.get("/reports/new")
	assert.Equal(t, "/reports", p.path)
}

func TestCustomerLookup(t *testing.T) {
	s := newStack(t)
	sales := s.user("yamada", models.RoleSales)
	s.customer("株式会社ABC商事")
	s.customer("XYZ工業株式会社")

	b := s.browser()
	b.login(sales)
	p := b.get("/customers/lookup?" + url.Values{"customer_q": {"ABC"}, "row": {"0"}}.Encode())
	assert.Equal(t, http.StatusOK, p.status)
	assert.Contains(t, p.body, "株式会社ABC商事")
	assert.NotContains(t, p.body, "XYZ工業株式会社")

	p = b.get("/customers/lookup?" + url.Values{"customer_q": {"該当なし"}, "row": {"0"}}.Encode())
	assert.Contains(t, p.body, "該当する顧客がありません")
}

func TestCustomerCreateAndDelete(t *testing.T) {
	s := newStack(t)
	sales := s.user("yamada", models.RoleSales)

	b := s.browser()
	b.login(sales)

	p := b.post("/customers/new", url.Values{"company_name": {""}, "contact_name": {"高橋"}})
	assert.Equal(t, http.StatusUnprocessableEntity, p.status)

	p = b.post("/customers/new", url.Values{"company_name": {"合同会社みらい"}, "contact_name": {"伊藤 三奈"}})
	assert.Equal(t, "/customers", p.path)
	assert.Contains(t, p.body, "合同会社みらい")
	assert.Contains(t, p.body, "顧客を登録しました")

	var c models.Customer
	require.NoError(t, s.db.Where("company_name = ?", "合同会社みらい").First(&c).Error)
	path := "/customers/" + strconv.FormatUint(uint64(c.ID), 10) + "/delete"

	p = b.get(path)
	assert.Contains(t, p.body, "この顧客を削除しますか？")

	p = b.post(path, url.Values{})
	assert.Equal(t, "/customers", p.path)
	assert.Contains(t, p.body, "顧客を削除しました")
}

func TestLogout(t *testing.T) {
	s := newStack(t)
	sales := s.user("yamada", models.RoleSales)

	b := s.browser()
	b.login(sales)
	p := b.post("/logout", url.Values{})
	assert.Equal(t, "/login", p.path)

	p = b.get("/reports")
	assert.Equal(t, "/login", p.path)
}

func TestReportDetail_ServesShellThenContent(t *testing.T) {
	s := newStack(t)
	sales := s.user("yamada", models.RoleSales)

	problem := "納期の調整が必要"
	report, err := services.CreateReport(s.db, sales, &services.ReportInput{
		ReportDate: models.NormalizeDate(time.Now()),
		Problem:    &problem,
		Status:     models.ReportStatusSubmitted,
	})
	require.NoError(t, err)

	b := s.browser()
	b.login(sales)
	detail := "/reports/" + strconv.FormatUint(uint64(report.ID), 10)

	shell := b.read(b.client.Get(b.s.web.URL + detail))
	assert.Equal(t, http.StatusOK, shell.status)
	assert.Contains(t, shell.body, `hx-get="`+detail+`" hx-trigger="load"`)
	assert.Contains(t, shell.body, `aria-busy="true"`)
	assert.NotContains(t, shell.body, problem)

	content := b.htmx(detail, pages.ReportPageID)
	assert.Equal(t, http.StatusOK, content.status)
	assert.Contains(t, content.body, problem)
	assert.NotContains(t, content.body, "<html")
	assert.NotContains(t, content.body, "hx-trigger")
}

func TestReportShell_GuardsBeforeAndAfterLoading(t *testing.T) {
	s := newStack(t)
	owner := s.user("yamada", models.RoleSales)
	other := s.user("sato", models.RoleSales)
	manager := s.user("suzuki", models.RoleManager)

	report, err := services.CreateReport(s.db, owner, &services.ReportInput{
		ReportDate: models.NormalizeDate(time.Now()),
		Status:     models.ReportStatusDraft,
	})
	require.NoError(t, err)
	detail := "/reports/" + strconv.FormatUint(uint64(report.ID), 10)

	t.Run("manager never gets the edit shell", func(t *testing.T) {
		b := s.browser()
		b.login(manager)
		p := b.read(b.client.Get(b.s.web.URL + detail + "/edit"))
		assert.Equal(t, "/reports", p.path)
		assert.NotContains(t, p.body, pages.ReportPageID)
	})

	t.Run("another salesperson is sent back once loaded", func(t *testing.T) {
		b := s.browser()
		b.login(other)
		content := b.htmx(detail, pages.ReportPageID)
		assert.Equal(t, http.StatusOK, content.status)
		assert.Equal(t, "/reports", content.redirect)
		assert.Empty(t, content.body)

		p := b.get(detail)
		assert.Equal(t, "/reports", p.path)
	})
}
