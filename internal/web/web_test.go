package web

import (
	"bytes"
	"context"
	"encoding/base64"
	"image"
	"image/color"
	"image/png"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/erazemk/najdeno/internal/db"
	"github.com/erazemk/najdeno/internal/model"
	"github.com/erazemk/najdeno/internal/service"
)

const testJWTSecret = "test-secret"

type site struct {
	*httptest.Server
	svc *service.Service
}

func setupTestSite(t *testing.T) *site {
	t.Helper()
	svc := service.New(db.NewTestDB(t), "https://najdeno.example")
	router, err := NewRouter(svc, testJWTSecret)
	require.NoError(t, err)

	server := httptest.NewServer(router)
	t.Cleanup(server.Close)
	return &site{Server: server, svc: svc}
}

// client keeps cookies and stops at the first redirect so tests can inspect
// it.
func client(t *testing.T) *http.Client {
	t.Helper()
	jar, err := cookiejar.New(nil)
	require.NoError(t, err)
	return &http.Client{
		Jar: jar,
		CheckRedirect: func(*http.Request, []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}
}

func (s *site) signup(t *testing.T, name, email string) *model.User {
	t.Helper()
	u, err := s.svc.Signup(context.Background(), service.SignupInput{FullName: name, Email: email, Password: "password123"})
	require.NoError(t, err)
	return u
}

// login returns a client holding a session for email.
func (s *site) login(t *testing.T, email string) *http.Client {
	t.Helper()
	c := client(t)
	resp := post(t, c, s.URL+"/login", url.Values{"email": {email}, "password": {"password123"}})
	require.Equal(t, http.StatusSeeOther, resp.StatusCode)
	require.Equal(t, "/dashboard", resp.Header.Get("Location"))
	return c
}

func post(t *testing.T, c *http.Client, target string, form url.Values) *http.Response {
	t.Helper()
	resp, err := c.PostForm(target, form)
	require.NoError(t, err)
	resp.Body.Close()
	return resp
}

func get(t *testing.T, c *http.Client, target string) (*http.Response, string) {
	t.Helper()
	resp, err := c.Get(target)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, string(body)
}

// flashOf decodes the flash cookie set by a redirect.
func flashOf(t *testing.T, resp *http.Response) Flash {
	t.Helper()
	for _, c := range resp.Cookies() {
		if c.Name != flashCookie || c.Value == "" {
			continue
		}
		raw, err := base64.RawURLEncoding.DecodeString(c.Value)
		require.NoError(t, err)
		kind, message, _ := strings.Cut(string(raw), "\n")
		return Flash{Kind: kind, Message: message}
	}
	t.Fatal("no flash cookie set")
	return Flash{}
}

func testPNG(t *testing.T) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 20, 20))
	for x := range 20 {
		for y := range 20 {
			img.Set(x, y, color.RGBA{200, 30, 30, 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

var finderForm = url.Values{
	"finder_name":   {"Bo"},
	"finder_email":  {"bo@x.com"},
	"message":       {"saw it"},
	"location_hint": {"library desk"},
}

func TestSignupStartsSession(t *testing.T) {
	s := setupTestSite(t)
	c := client(t)

	resp := post(t, c, s.URL+"/signup", url.Values{
		"full_name": {"Ana Novak"},
		"email":     {"ana@uni.si"},
		"password":  {"password123"},
	})
	require.Equal(t, http.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, "/dashboard", resp.Header.Get("Location"))

	var session *http.Cookie
	for _, ck := range resp.Cookies() {
		if ck.Name == sessionCookie {
			session = ck
		}
	}
	require.NotNil(t, session)
	assert.True(t, session.HttpOnly)
	assert.Equal(t, http.SameSiteStrictMode, session.SameSite)

	resp, body := get(t, c, s.URL+"/dashboard")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, "Ana Novak")
}

func TestSignupDuplicateEmail(t *testing.T) {
	s := setupTestSite(t)
	s.signup(t, "Ana Novak", "ana@uni.si")

	resp, err := client(t).PostForm(s.URL+"/signup", url.Values{
		"full_name": {"Ana Again"},
		"email":     {"ana@uni.si"},
		"password":  {"password123"},
	})
	require.NoError(t, err)
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)

	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.Contains(t, string(body), "already exists")
	assert.Contains(t, string(body), `value="Ana Again"`)
}

func TestLoginWrongPassword(t *testing.T) {
	s := setupTestSite(t)
	s.signup(t, "Ana Novak", "ana@uni.si")

	resp, err := client(t).PostForm(s.URL+"/login", url.Values{"email": {"ana@uni.si"}, "password": {"nope-nope"}})
	require.NoError(t, err)
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Contains(t, string(body), "Invalid email or password.")
}

func TestProtectedPagesRedirectToLogin(t *testing.T) {
	s := setupTestSite(t)
	c := client(t)

	for _, path := range []string{"/dashboard", "/account", "/download/abc"} {
		resp, _ := get(t, c, s.URL+path)
		assert.Equal(t, http.StatusSeeOther, resp.StatusCode, path)
		assert.Equal(t, "/login", resp.Header.Get("Location"), path)
	}

	resp := post(t, c, s.URL+"/report/1/resolve", nil)
	assert.Equal(t, http.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, "/login", resp.Header.Get("Location"))
}

func TestHomeRedirects(t *testing.T) {
	s := setupTestSite(t)
	s.signup(t, "Ana Novak", "ana@uni.si")

	resp, _ := get(t, client(t), s.URL+"/")
	assert.Equal(t, "/lost", resp.Header.Get("Location"))

	resp, _ = get(t, s.login(t, "ana@uni.si"), s.URL+"/")
	assert.Equal(t, "/dashboard", resp.Header.Get("Location"))
}

func TestRegisterItemAndDownloadQR(t *testing.T) {
	s := setupTestSite(t)
	ana := s.signup(t, "Ana Novak", "ana@uni.si")
	s.signup(t, "Eve Smith", "eve@uni.si")
	c := s.login(t, "ana@uni.si")

	resp := post(t, c, s.URL+"/dashboard", url.Values{"name": {"Laptop"}, "category": {"Electronics"}})
	require.Equal(t, http.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, "success", flashOf(t, resp).Kind)

	view, err := s.svc.Dashboard(context.Background(), ana.ID, service.Filter{})
	require.NoError(t, err)
	require.Len(t, view.Items, 1)
	item := view.Items[0]
	assert.Equal(t, model.ItemStatusActive, item.Status)

	resp, body := get(t, c, s.URL+"/download/"+item.RecoveryToken)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "image/png", resp.Header.Get("Content-Type"))
	assert.Contains(t, resp.Header.Get("Content-Disposition"), "attachment")
	assert.True(t, strings.HasPrefix(body, "\x89PNG"))

	resp, _ = get(t, s.login(t, "eve@uni.si"), s.URL+"/download/"+item.RecoveryToken)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}

func TestRegisterItemValidation(t *testing.T) {
	s := setupTestSite(t)
	s.signup(t, "Ana Novak", "ana@uni.si")
	c := s.login(t, "ana@uni.si")

	resp := post(t, c, s.URL+"/dashboard", url.Values{"name": {""}})
	require.Equal(t, http.StatusSeeOther, resp.StatusCode)
	f := flashOf(t, resp)
	assert.Equal(t, "error", f.Kind)
	assert.Contains(t, f.Message, "name")
}

func TestRegisterItemWithPhoto(t *testing.T) {
	s := setupTestSite(t)
	ana := s.signup(t, "Ana Novak", "ana@uni.si")
	c := s.login(t, "ana@uni.si")

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	require.NoError(t, mw.WriteField("name", "Backpack"))
	require.NoError(t, mw.WriteField("category", "Bags"))
	fw, err := mw.CreateFormFile("image", "bag.png")
	require.NoError(t, err)
	_, err = fw.Write(testPNG(t))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	resp, err := c.Post(s.URL+"/dashboard", mw.FormDataContentType(), &body)
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, http.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, "success", flashOf(t, resp).Kind)

	view, err := s.svc.Dashboard(context.Background(), ana.ID, service.Filter{})
	require.NoError(t, err)
	require.Len(t, view.Items, 1)
	require.NotEmpty(t, view.Items[0].ImageRef)

	resp, _ = get(t, client(t), s.URL+"/media/"+view.Items[0].ImageRef)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "image/jpeg", resp.Header.Get("Content-Type"))
}

func TestMediaHidesQRCodes(t *testing.T) {
	s := setupTestSite(t)
	ana := s.signup(t, "Ana Novak", "ana@uni.si")
	item, err := s.svc.RegisterItem(context.Background(), ana.ID, service.ItemInput{Name: "Keys"})
	require.NoError(t, err)

	resp, _ := get(t, client(t), s.URL+"/media/"+item.QRRef)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp, _ = get(t, client(t), s.URL+"/media/img/missing.jpg")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestFoundPageUnknownToken(t *testing.T) {
	s := setupTestSite(t)

	resp, body := get(t, client(t), s.URL+"/found/not-a-real-token")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Contains(t, body, "nothing here")

	resp = post(t, client(t), s.URL+"/found/not-a-real-token", finderForm)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestFinderReportFlow(t *testing.T) {
	s := setupTestSite(t)
	ana := s.signup(t, "Ana Novak", "ana@uni.si")
	item, err := s.svc.RegisterItem(context.Background(), ana.ID, service.ItemInput{Name: "Laptop"})
	require.NoError(t, err)

	finder := client(t)
	resp, body := get(t, finder, s.URL+"/found/"+item.RecoveryToken)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, "Laptop")
	assert.NotContains(t, body, "ana@uni.si")

	resp = post(t, finder, s.URL+"/found/"+item.RecoveryToken, finderForm)
	require.Equal(t, http.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, "/found/"+item.RecoveryToken, resp.Header.Get("Location"))
	assert.Equal(t, Flash{Kind: "success", Message: "Thanks! The owner has been notified."}, flashOf(t, resp))

	resp, body = get(t, s.login(t, "ana@uni.si"), s.URL+"/dashboard")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, "saw it")
	assert.Contains(t, body, "library desk")
	assert.Contains(t, body, "bo@x.com")
}

func TestFinderReportValidationKeepsForm(t *testing.T) {
	s := setupTestSite(t)
	ana := s.signup(t, "Ana Novak", "ana@uni.si")
	item, err := s.svc.RegisterItem(context.Background(), ana.ID, service.ItemInput{Name: "Laptop"})
	require.NoError(t, err)

	resp, err := client(t).PostForm(s.URL+"/found/"+item.RecoveryToken, url.Values{
		"finder_name":  {"Bo"},
		"finder_email": {"not-an-email"},
		"message":      {"saw it"},
	})
	require.NoError(t, err)
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Contains(t, string(body), `value="Bo"`)
	assert.Contains(t, string(body), "finder_email")

	view, err := s.svc.Dashboard(context.Background(), ana.ID, service.Filter{})
	require.NoError(t, err)
	assert.Empty(t, view.Reports)
}

func TestResolveReport(t *testing.T) {
	s := setupTestSite(t)
	ctx := context.Background()
	ana := s.signup(t, "Ana Novak", "ana@uni.si")
	s.signup(t, "Eve Smith", "eve@uni.si")
	item, err := s.svc.RegisterItem(ctx, ana.ID, service.ItemInput{Name: "Laptop"})
	require.NoError(t, err)
	report, err := s.svc.SubmitFinderReport(ctx, item.RecoveryToken, service.ReportInput{
		FinderName: "Bo", FinderEmail: "bo@x.com", Message: "saw it",
	})
	require.NoError(t, err)
	target := s.URL + "/report/" + strconvID(report.ID) + "/resolve"

	resp := post(t, s.login(t, "eve@uni.si"), target, nil)
	require.Equal(t, http.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, Flash{Kind: "error", Message: "You are not allowed to do that."}, flashOf(t, resp))

	owner := s.login(t, "ana@uni.si")
	resp = post(t, owner, target, nil)
	assert.Equal(t, Flash{Kind: "success", Message: "Report resolved."}, flashOf(t, resp))

	resp = post(t, owner, target, nil)
	assert.Equal(t, Flash{Kind: "error", Message: "That report was already resolved."}, flashOf(t, resp))
}

func TestItemStatusAndSighting(t *testing.T) {
	s := setupTestSite(t)
	ctx := context.Background()
	ana := s.signup(t, "Ana Novak", "ana@uni.si")
	item, err := s.svc.RegisterItem(ctx, ana.ID, service.ItemInput{Name: "Umbrella"})
	require.NoError(t, err)
	owner := s.login(t, "ana@uni.si")
	sighting := s.URL + "/lost/" + strconvID(item.ID) + "/sighting"

	resp := post(t, client(t), sighting, finderForm)
	assert.Equal(t, Flash{Kind: "error", Message: "That item is no longer marked as lost."}, flashOf(t, resp))

	resp = post(t, owner, s.URL+"/item/"+strconvID(item.ID)+"/status", url.Values{"status": {"banana"}})
	assert.Equal(t, "error", flashOf(t, resp).Kind)

	resp = post(t, owner, s.URL+"/item/"+strconvID(item.ID)+"/status", url.Values{"status": {"lost"}})
	assert.Equal(t, "success", flashOf(t, resp).Kind)

	resp, body := get(t, client(t), s.URL+"/lost")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, "Umbrella")

	resp = post(t, client(t), sighting, finderForm)
	assert.Equal(t, "success", flashOf(t, resp).Kind)
	assert.Equal(t, "/lost", resp.Header.Get("Location"))
}

func TestDeleteItemByOtherUser(t *testing.T) {
	s := setupTestSite(t)
	ana := s.signup(t, "Ana Novak", "ana@uni.si")
	s.signup(t, "Eve Smith", "eve@uni.si")
	item, err := s.svc.RegisterItem(context.Background(), ana.ID, service.ItemInput{Name: "Laptop"})
	require.NoError(t, err)
	target := s.URL + "/item/" + strconvID(item.ID) + "/delete"

	resp := post(t, s.login(t, "eve@uni.si"), target, nil)
	assert.Equal(t, "error", flashOf(t, resp).Kind)

	resp = post(t, s.login(t, "ana@uni.si"), target, nil)
	assert.Equal(t, Flash{Kind: "success", Message: "Item deleted."}, flashOf(t, resp))

	resp, _ = get(t, client(t), s.URL+"/found/"+item.RecoveryToken)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestFoundPostAndClaimOnce(t *testing.T) {
	s := setupTestSite(t)
	s.signup(t, "Ana Novak", "ana@uni.si")
	s.signup(t, "Eve Smith", "eve@uni.si")

	resp := post(t, client(t), s.URL+"/found-items", url.Values{
		"finder_name":    {"Bo"},
		"finder_email":   {"bo@x.com"},
		"item_name":      {"Blue scarf"},
		"category":       {"Clothing"},
		"location_found": {"Lecture hall 2"},
	})
	require.Equal(t, http.StatusSeeOther, resp.StatusCode)
	require.Equal(t, "success", flashOf(t, resp).Kind)

	posts, err := s.svc.FoundBoard(context.Background(), service.Filter{})
	require.NoError(t, err)
	require.Len(t, posts, 1)
	target := s.URL + "/found-items/" + strconvID(posts[0].ID) + "/claim"

	resp = post(t, s.login(t, "ana@uni.si"), target, nil)
	f := flashOf(t, resp)
	assert.Equal(t, "success", f.Kind)
	assert.Contains(t, f.Message, "bo@x.com")

	resp = post(t, s.login(t, "eve@uni.si"), target, nil)
	assert.Equal(t, Flash{Kind: "error", Message: "Someone has already claimed that item."}, flashOf(t, resp))

	resp = post(t, client(t), target, nil)
	assert.Equal(t, "/login", resp.Header.Get("Location"))

	resp, body := get(t, client(t), s.URL+"/found-items?status=claimed")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, "Blue scarf")
	assert.NotContains(t, body, "bo@x.com")
}

func TestLogoutRevokesSession(t *testing.T) {
	s := setupTestSite(t)
	s.signup(t, "Ana Novak", "ana@uni.si")
	c := s.login(t, "ana@uni.si")

	u, err := url.Parse(s.URL)
	require.NoError(t, err)
	var token string
	for _, ck := range c.Jar.Cookies(u) {
		if ck.Name == sessionCookie {
			token = ck.Value
		}
	}
	require.NotEmpty(t, token)

	resp, _ := get(t, c, s.URL+"/logout")
	assert.Equal(t, "/login", resp.Header.Get("Location"))

	req, err := http.NewRequest(http.MethodGet, s.URL+"/dashboard", nil)
	require.NoError(t, err)
	req.AddCookie(&http.Cookie{Name: sessionCookie, Value: token})
	resp, err = client(t).Do(req)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, "/login", resp.Header.Get("Location"))
}

func TestAccountUpdate(t *testing.T) {
	s := setupTestSite(t)
	ana := s.signup(t, "Ana Novak", "ana@uni.si")
	c := s.login(t, "ana@uni.si")

	resp := post(t, c, s.URL+"/account", url.Values{"full_name": {"Ana N."}, "phone": {"+386 1 234"}})
	assert.Equal(t, "success", flashOf(t, resp).Kind)

	_, body := get(t, c, s.URL+"/account")
	assert.Contains(t, body, "Ana N.")

	resp = post(t, c, s.URL+"/account/password", url.Values{
		"current_password": {"wrong-one"},
		"new_password":     {"newpassword1"},
		"confirm_password": {"newpassword1"},
	})
	assert.Equal(t, Flash{Kind: "error", Message: "Your current password is incorrect."}, flashOf(t, resp))

	resp = post(t, c, s.URL+"/account/password", url.Values{
		"current_password": {"password123"},
		"new_password":     {"newpassword1"},
		"confirm_password": {"newpassword1"},
	})
	assert.Equal(t, "success", flashOf(t, resp).Kind)

	_, err := s.svc.Login(context.Background(), ana.Email, "newpassword1")
	assert.NoError(t, err)
}

func TestUnknownRouteRendersNotFound(t *testing.T) {
	s := setupTestSite(t)
	resp, body := get(t, client(t), s.URL+"/nope")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Contains(t, body, "nothing here")
}

func strconvID(id int64) string {
	return strconv.FormatInt(id, 10)
}
