package main

import (
	"encoding/json"
	"net/http"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func adminLogin(t *testing.T, s *server) *http.Cookie {
	t.Helper()
	rec := postForm(t, s, "/admin/login", url.Values{"username": {"root"}, "password": {"s3cret"}})
	require.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/admin/dashboard", rec.Header().Get("Location"))
	for _, c := range rec.Result().Cookies() {
		if c.Name == adminCookie {
			return c
		}
	}
	t.Fatal("no admin cookie set")
	return nil
}

func adminGet(t *testing.T, s *server, target string, cookie *http.Cookie) *http.Response {
	t.Helper()
	req, err := http.NewRequest(http.MethodGet, target, nil)
	require.NoError(t, err)
	if cookie != nil {
		req.AddCookie(cookie)
	}
	return doRequest(s, req).Result()
}

func TestAdmin_Login(t *testing.T) {
	s := newTestServer(t)

	assert.Equal(t, http.StatusOK, get(t, s, "/admin/login").Code)

	testCases := []struct {
		name string
		user string
		pass string
	}{
		{name: "wrong password", user: "root", pass: "nope"},
		{name: "wrong user", user: "admin", pass: "s3cret"},
		{name: "empty", user: "", pass: ""},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			rec := postForm(t, s, "/admin/login", url.Values{"username": {tc.user}, "password": {tc.pass}})
			assert.Equal(t, http.StatusUnauthorized, rec.Code)
			assert.Contains(t, rec.Body.String(), "Invalid credentials")
			assert.Empty(t, rec.Result().Cookies())
		})
	}

	cookie := adminLogin(t, s)
	assert.True(t, cookie.HttpOnly)
	assert.Equal(t, "/admin", cookie.Path)
}

func TestAdmin_ProtectedRoutes(t *testing.T) {
	s := newTestServer(t)
	forged := &http.Cookie{Name: adminCookie, Value: "forged"}

	for _, target := range []string{"/admin/dashboard", "/admin/visitors", "/admin/api/stats", "/admin/export/stats"} {
		for _, cookie := range []*http.Cookie{nil, forged} {
			resp := adminGet(t, s, target, cookie)
			assert.Equal(t, http.StatusFound, resp.StatusCode, target)
			assert.Equal(t, "/admin/login", resp.Header.Get("Location"), target)
		}
	}
}

func TestAdmin_Dashboard(t *testing.T) {
	s := newTestServer(t)
	get(t, s, "/")
	get(t, s, "/")
	s.tracker.Wait()

	cookie := adminLogin(t, s)

	resp := adminGet(t, s, "/admin/dashboard", cookie)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	doc := parseHTML(t, resp.Body)
	total := findAll(doc, byID("stat-total"))
	require.Len(t, total, 1)
	assert.Equal(t, "2", strings.TrimSpace(textOf(total[0])))

	resp = adminGet(t, s, "/admin/visitors", cookie)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp = adminGet(t, s, "/admin/api/stats", cookie)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var stats AdminStats
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&stats))
	assert.Equal(t, int64(2), stats.TotalVisitors)
	assert.Equal(t, int64(1), stats.UniqueVisitors)
	assert.Equal(t, []PathStat{{Path: "/", Views: 2}}, stats.TopPaths)

	resp = adminGet(t, s, "/admin/export/stats", cookie)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "attachment; filename=admin-stats.json", resp.Header.Get("Content-Disposition"))
}

func TestAdmin_PrivacyCleanup(t *testing.T) {
	s := newTestServer(t)
	cookie := adminLogin(t, s)

	req, err := http.NewRequest(http.MethodPost, "/admin/privacy/cleanup", nil)
	require.NoError(t, err)
	req.AddCookie(cookie)
	rec := doRequest(s, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Message string `json:"message"`
		Removed int64  `json:"removed"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "Privacy cleanup done", body.Message)
	assert.Zero(t, body.Removed)
}

func TestAdmin_Logout(t *testing.T) {
	s := newTestServer(t)
	cookie := adminLogin(t, s)

	resp := adminGet(t, s, "/admin/logout", cookie)
	assert.Equal(t, http.StatusFound, resp.StatusCode)
	assert.Equal(t, "/admin/login", resp.Header.Get("Location"))
	var cleared bool
	for _, c := range resp.Cookies() {
		if c.Name == adminCookie && c.MaxAge < 0 {
			cleared = true
		}
	}
	assert.True(t, cleared)
}
