package http

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	httpapi "github.com/jesseg-dev/portfolio-site/internal/api/http"
	"github.com/jesseg-dev/portfolio-site/internal/auth"
	authdomain "github.com/jesseg-dev/portfolio-site/internal/auth/domain"
	"github.com/jesseg-dev/portfolio-site/internal/projects/domain"
	"github.com/jesseg-dev/portfolio-site/internal/projects/policy"
	"github.com/jesseg-dev/portfolio-site/internal/projects/repository"
	"github.com/jesseg-dev/portfolio-site/internal/projects/service"
)

const testToken = "test-session"

// fakeSession stands in for the session middleware: a request carrying
// testToken gets a live admin session.
func fakeSession() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.GetHeader("Authorization") == "Bearer "+testToken {
			c.Set(auth.CtxSession, &authdomain.Session{
				ID:        "sess-1",
				UserID:    "user-1",
				ExpiresAt: time.Now().Add(time.Hour),
			})
		}
		c.Next()
	}
}

func setupRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	svc := service.NewProjectService(repository.NewMemoryProjectRepository(), policy.SingleAdmin{})
	h := New(svc)

	r := gin.New()
	r.Use(fakeSession())
	h.RegisterPublic(r.Group("/api/projects"))
	h.Register(r.Group("/api/admin/projects"))
	return r
}

func do(t *testing.T, r *gin.Engine, method, path string, body interface{}, authed bool) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		if s, ok := body.(string); ok {
			buf.WriteString(s)
		} else {
			require.NoError(t, json.NewEncoder(&buf).Encode(body))
		}
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if authed {
		req.Header.Set("Authorization", "Bearer "+testToken)
	}
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)
	return rr
}

func decodeProject(t *testing.T, rr *httptest.ResponseRecorder) domain.Project {
	t.Helper()
	var p domain.Project
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &p))
	return p
}

func decodeError(t *testing.T, rr *httptest.ResponseRecorder) httpapi.ErrorBody {
	t.Helper()
	var e httpapi.ErrorBody
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &e))
	return e
}

func TestCreate(t *testing.T) {
	r := setupRouter(t)

	t.Run("created with defaults", func(t *testing.T) {
		rr := do(t, r, http.MethodPost, "/api/admin/projects", map[string]interface{}{"title": "X", "description": "Y"}, true)
		require.Equal(t, http.StatusCreated, rr.Code)

		p := decodeProject(t, rr)
		assert.NotEmpty(t, p.ID)
		assert.False(t, p.Featured)
		assert.True(t, p.Published)
		assert.False(t, p.CreatedAt.IsZero())

		var raw map[string]interface{}
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &raw))
		assert.Contains(t, raw, "imageUrl")
		assert.Contains(t, raw, "createdAt")
	})

	t.Run("validation failure lists fields", func(t *testing.T) {
		rr := do(t, r, http.MethodPost, "/api/admin/projects", map[string]interface{}{"title": " ", "description": ""}, true)
		require.Equal(t, http.StatusBadRequest, rr.Code)

		e := decodeError(t, rr)
		assert.False(t, e.OK)
		assert.Equal(t, httpapi.CodeValidation, e.Code)
		assert.Contains(t, e.Fields, "title")
		assert.Contains(t, e.Fields, "description")
	})

	t.Run("malformed json", func(t *testing.T) {
		rr := do(t, r, http.MethodPost, "/api/admin/projects", "{not json", true)
		require.Equal(t, http.StatusBadRequest, rr.Code)
		assert.Equal(t, httpapi.CodeInvalidBody, decodeError(t, rr).Code)
	})

	t.Run("no session wins over bad body", func(t *testing.T) {
		rr := do(t, r, http.MethodPost, "/api/admin/projects", "{not json", false)
		require.Equal(t, http.StatusUnauthorized, rr.Code)
		assert.Equal(t, httpapi.CodeUnauthorized, decodeError(t, rr).Code)
	})
}

func TestUnauthenticatedMutationsLeaveStoreUnchanged(t *testing.T) {
	r := setupRouter(t)

	rr := do(t, r, http.MethodPost, "/api/admin/projects", map[string]interface{}{"title": "Keep", "description": "me"}, true)
	require.Equal(t, http.StatusCreated, rr.Code)
	orig := decodeProject(t, rr)

	path := "/api/admin/projects/" + orig.ID
	for _, tc := range []struct {
		method, path string
		body         interface{}
	}{
		{http.MethodGet, "/api/admin/projects", nil},
		{http.MethodPost, "/api/admin/projects", map[string]interface{}{"title": "X", "description": "Y"}},
		{http.MethodPut, path, map[string]interface{}{"title": "X", "description": "Y"}},
		{http.MethodPatch, path, map[string]interface{}{"featured": true}},
		{http.MethodDelete, path, nil},
	} {
		rr := do(t, r, tc.method, tc.path, tc.body, false)
		assert.Equal(t, http.StatusUnauthorized, rr.Code, "%s %s", tc.method, tc.path)
	}

	rr = do(t, r, http.MethodGet, "/api/admin/projects", nil, true)
	require.Equal(t, http.StatusOK, rr.Code)
	var list []domain.Project
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &list))
	require.Len(t, list, 1)
	assert.Equal(t, orig.Title, list[0].Title)
	assert.Equal(t, orig.Featured, list[0].Featured)
	assert.True(t, orig.UpdatedAt.Equal(list[0].UpdatedAt))
}

func TestPatchAndReplace(t *testing.T) {
	r := setupRouter(t)

	rr := do(t, r, http.MethodPost, "/api/admin/projects", map[string]interface{}{
		"title": "Portfolio", "description": "Site", "tags": "Go, Gin", "githubUrl": "https://github.com/me/site",
	}, true)
	require.Equal(t, http.StatusCreated, rr.Code)
	orig := decodeProject(t, rr)
	path := "/api/admin/projects/" + orig.ID

	rr = do(t, r, http.MethodPatch, path, map[string]interface{}{"featured": true}, true)
	require.Equal(t, http.StatusOK, rr.Code)
	patched := decodeProject(t, rr)
	assert.True(t, patched.Featured)
	assert.Equal(t, orig.Title, patched.Title)
	assert.Equal(t, orig.Tags, patched.Tags)
	assert.Equal(t, orig.GithubURL, patched.GithubURL)
	assert.True(t, orig.CreatedAt.Equal(patched.CreatedAt))

	rr = do(t, r, http.MethodPatch, path, map[string]interface{}{}, true)
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	rr = do(t, r, http.MethodPut, path, map[string]interface{}{"title": "New", "description": "Desc", "published": false}, true)
	require.Equal(t, http.StatusOK, rr.Code)
	replaced := decodeProject(t, rr)
	assert.Equal(t, "New", replaced.Title)
	assert.Empty(t, replaced.Tags)
	assert.False(t, replaced.Published)

	rr = do(t, r, http.MethodGet, "/api/projects/"+orig.ID, nil, false)
	assert.Equal(t, http.StatusNotFound, rr.Code)

	rr = do(t, r, http.MethodGet, path, nil, true)
	assert.Equal(t, http.StatusOK, rr.Code)
}

func TestDelete(t *testing.T) {
	r := setupRouter(t)

	rr := do(t, r, http.MethodPost, "/api/admin/projects", map[string]interface{}{"title": "X", "description": "Y"}, true)
	require.Equal(t, http.StatusCreated, rr.Code)
	p := decodeProject(t, rr)

	rr = do(t, r, http.MethodDelete, "/api/admin/projects/"+p.ID, nil, true)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"ok":true}`, rr.Body.String())

	rr = do(t, r, http.MethodDelete, "/api/admin/projects/"+p.ID, nil, true)
	require.Equal(t, http.StatusNotFound, rr.Code)
	assert.Equal(t, httpapi.CodeNotFound, decodeError(t, rr).Code)

	rr = do(t, r, http.MethodDelete, "/api/admin/projects/"+uuid.NewString(), nil, true)
	assert.Equal(t, http.StatusNotFound, rr.Code)

	rr = do(t, r, http.MethodDelete, "/api/admin/projects/not-a-uuid", nil, true)
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestPublicListing(t *testing.T) {
	r := setupRouter(t)

	create := func(body map[string]interface{}) domain.Project {
		rr := do(t, r, http.MethodPost, "/api/admin/projects", body, true)
		require.Equal(t, http.StatusCreated, rr.Code)
		time.Sleep(2 * time.Millisecond)
		return decodeProject(t, rr)
	}

	plain := create(map[string]interface{}{"title": "plain", "description": "d"})
	draft := create(map[string]interface{}{"title": "draft", "description": "d", "published": false, "featured": true})
	featured := create(map[string]interface{}{"title": "featured", "description": "d", "featured": true})
	newest := create(map[string]interface{}{"title": "newest", "description": "d"})

	rr := do(t, r, http.MethodGet, "/api/projects", nil, false)
	require.Equal(t, http.StatusOK, rr.Code)

	var list []domain.Project
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &list))

	ids := make([]string, 0, len(list))
	for _, p := range list {
		ids = append(ids, p.ID)
	}
	assert.Equal(t, []string{featured.ID, newest.ID, plain.ID}, ids)
	assert.NotContains(t, ids, draft.ID)
}

func TestWriteError_HidesUnexpectedErrors(t *testing.T) {
	gin.SetMode(gin.TestMode)

	cases := []struct {
		err    error
		status int
		code   string
	}{
		{fmt.Errorf("list projects: %w", context.DeadlineExceeded), http.StatusServiceUnavailable, httpapi.CodeTimeout},
		{errors.New("pq: connection refused"), http.StatusInternalServerError, httpapi.CodeInternal},
		{service.ErrForbidden, http.StatusForbidden, httpapi.CodeForbidden},
	}
	for _, tc := range cases {
		rr := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(rr)
		c.Request = httptest.NewRequest(http.MethodGet, "/", nil)

		writeError(c, "projects.test", tc.err)

		assert.Equal(t, tc.status, rr.Code, tc.err.Error())
		body := decodeError(t, rr)
		assert.Equal(t, tc.code, body.Code)
		assert.NotContains(t, body.Error, "connection refused")
	}
}
