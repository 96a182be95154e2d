package httpserver

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/Skotchmaster/storefront/internal/cartstore"
	"github.com/Skotchmaster/storefront/internal/images"
	"github.com/Skotchmaster/storefront/internal/middleware/csrf"
	"github.com/Skotchmaster/storefront/internal/models"
	"github.com/Skotchmaster/storefront/internal/repo"
	"github.com/Skotchmaster/storefront/internal/service"
	"github.com/Skotchmaster/storefront/internal/session"
	"github.com/Skotchmaster/storefront/internal/testutil"
)

const testSecret = "http-test-secret"

type harness struct {
	srv    *httptest.Server
	db     *gorm.DB
	events *testutil.EventRecorder
	deps   *Deps
}

type option func(*Deps)

func withCSRF() option {
	return func(d *Deps) {
		cfg := csrf.DefaultConfig()
		d.CSRF = &cfg
	}
}

func withReady(name string, err error) option {
	return func(d *Deps) {
		d.Ready = append(d.Ready, ReadyCheck{Name: name, Check: func(context.Context) error { return err }})
	}
}

func newHarness(t *testing.T, opts ...option) *harness {
	t.Helper()

	db := testutil.NewDB(t)
	rdb, _ := testutil.NewRedis(t)
	r := repo.New(db)
	carts := cartstore.NewRedisStore(rdb, time.Hour)
	rec := &testutil.EventRecorder{}
	imgs, err := images.NewDiskStore(t.TempDir())
	require.NoError(t, err)

	cartSvc := service.NewCartService(carts, r)
	inbox := &service.InboxService{Repo: r, Events: rec}
	sess := session.Config{TTL: time.Hour}

	d := &Deps{
		Catalog:  &CatalogHTTP{Svc: &service.CatalogService{Repo: r, Images: imgs, Events: rec}},
		Images:   &ImagesHTTP{Store: imgs},
		Auth:     &AuthHTTP{Svc: &service.AuthService{Repo: r, Events: rec, Secret: []byte(testSecret), TTL: time.Hour}, Carts: cartSvc, Session: sess},
		Cart:     &CartHTTP{Svc: cartSvc},
		Checkout: &CheckoutHTTP{Svc: &service.CheckoutService{Repo: r, Carts: carts, Events: rec}},
		Contact:  &ContactHTTP{Svc: inbox},
		Admin:    &AdminHTTP{Svc: &service.AdminService{Repo: r, Events: rec}, Inbox: inbox},

		SessionSecret: []byte(testSecret),
		Session:       sess,
	}
	for _, o := range opts {
		o(d)
	}

	e := echo.New()
	Register(e, d)
	srv := httptest.NewServer(e)
	t.Cleanup(srv.Close)

	return &harness{srv: srv, db: db, events: rec, deps: d}
}

func (h *harness) product(t *testing.T, name, price string) models.Product {
	t.Helper()
	return testutil.SeedProduct(t, h.db, name, price, true, 0)
}

func (h *harness) user(t *testing.T, email, role string) models.User {
	t.Helper()
	return testutil.SeedUser(t, h.db, email, "secret1", role)
}

// client is one browser: it keeps its own cookies.
type client struct {
	t    *testing.T
	h    *harness
	http *http.Client
	csrf string
}

func (h *harness) client(t *testing.T) *client {
	t.Helper()
	jar, err := cookiejar.New(nil)
	require.NoError(t, err)
	return &client{t: t, h: h, http: &http.Client{Jar: jar}}
}

type response struct {
	Status int
	Header http.Header
	Raw    []byte
	Body   map[string]any
}

func (c *client) do(req *http.Request) response {
	c.t.Helper()
	if c.csrf != "" {
		req.Header.Set("X-CSRF-Token", c.csrf)
	}
	res, err := c.http.Do(req)
	require.NoError(c.t, err)
	defer res.Body.Close()

	raw, err := io.ReadAll(res.Body)
	require.NoError(c.t, err)

	out := response{Status: res.StatusCode, Header: res.Header, Raw: raw}
	if strings.HasPrefix(res.Header.Get(echo.HeaderContentType), echo.MIMEApplicationJSON) && len(raw) > 0 {
		_ = json.Unmarshal(raw, &out.Body)
	}
	return out
}

func (c *client) get(path string) response {
	c.t.Helper()
	req, err := http.NewRequest(http.MethodGet, c.h.srv.URL+path, nil)
	require.NoError(c.t, err)
	return c.do(req)
}

func (c *client) postJSON(path string, body any) response {
	c.t.Helper()
	b, err := json.Marshal(body)
	require.NoError(c.t, err)
	req, err := http.NewRequest(http.MethodPost, c.h.srv.URL+path, bytes.NewReader(b))
	require.NoError(c.t, err)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	return c.do(req)
}

func (c *client) postForm(path string, form url.Values) response {
	c.t.Helper()
	req, err := http.NewRequest(http.MethodPost, c.h.srv.URL+path, strings.NewReader(form.Encode()))
	require.NoError(c.t, err)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationForm)
	return c.do(req)
}

func (c *client) postMultipart(path string, fields url.Values, filename string, file []byte) response {
	c.t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for k, vs := range fields {
		for _, v := range vs {
			require.NoError(c.t, w.WriteField(k, v))
		}
	}
	if file != nil {
		fw, err := w.CreateFormFile("image", filename)
		require.NoError(c.t, err)
		_, err = fw.Write(file)
		require.NoError(c.t, err)
	}
	require.NoError(c.t, w.Close())

	req, err := http.NewRequest(http.MethodPost, c.h.srv.URL+path, &buf)
	require.NoError(c.t, err)
	req.Header.Set(echo.HeaderContentType, w.FormDataContentType())
	return c.do(req)
}

func (c *client) login(email, password string) response {
	c.t.Helper()
	res := c.postJSON("/login", map[string]any{"email": email, "password": password})
	require.Equal(c.t, http.StatusOK, res.Status, string(res.Raw))
	return res
}

func (c *client) cookie(name string) string {
	u, _ := url.Parse(c.h.srv.URL)
	for _, ck := range c.http.Jar.Cookies(u) {
		if ck.Name == name {
			return ck.Value
		}
	}
	return ""
}

func shippingForm() map[string]any {
	return map[string]any{
		"name":    "Jane Doe",
		"street":  "1 Main St",
		"city":    "Springfield",
		"state":   "IL",
		"zipCode": "62701",
		"country": "US",
		"phone":   "555-0100",
	}
}

func pngBytes() []byte {
	return append([]byte("\x89PNG\r\n\x1a\n"), bytes.Repeat([]byte{0}, 32)...)
}
