package handler

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/tutoria-api/internal/dto"
	"github.com/noah-isme/tutoria-api/internal/models"
	appErrors "github.com/noah-isme/tutoria-api/pkg/errors"
)

type authServiceMock struct {
	registerErr error
	loginSID    string
	loginErr    error
	unlockErr   error

	registered  models.LoginForm
	loggedOut   string
	unlockedPIN string
	lockedSID   string
}

func (m *authServiceMock) Register(ctx context.Context, form models.LoginForm) error {
	m.registered = form
	return m.registerErr
}

func (m *authServiceMock) Login(ctx context.Context, form models.LoginForm) (string, *models.User, error) {
	if m.loginErr != nil {
		return "", nil, m.loginErr
	}
	return m.loginSID, &models.User{ID: 7, Username: form.Username, Role: models.RoleProfessor}, nil
}

func (m *authServiceMock) Logout(ctx context.Context, sid string) error {
	m.loggedOut = sid
	return nil
}

func (m *authServiceMock) UnlockGestao(ctx context.Context, auth models.AuthContext, sid, pin string) error {
	m.unlockedPIN = pin
	return m.unlockErr
}

func (m *authServiceMock) LockGestao(ctx context.Context, sid string) error {
	m.lockedSID = sid
	return nil
}

type pageTutoriaMock struct {
	form      *dto.TutoriaForm
	formErr   error
	items     []models.Tutoria
	called    bool
	lastID    *int64
	duplicate bool
}

func (m *pageTutoriaMock) Form(ctx context.Context, auth models.AuthContext, id *int64, duplicate bool) (*dto.TutoriaForm, error) {
	m.called = true
	m.lastID = id
	m.duplicate = duplicate
	if m.formErr != nil {
		return nil, m.formErr
	}
	if m.form != nil {
		return m.form, nil
	}
	return &dto.TutoriaForm{}, nil
}

func (m *pageTutoriaMock) List(ctx context.Context, auth models.AuthContext) ([]models.Tutoria, error) {
	return m.items, nil
}

type pageFixture struct {
	router   *gin.Engine
	auth     *authServiceMock
	tutorias *pageTutoriaMock
	handler  *PageHandler
}

func newPageFixture(t *testing.T, auth models.AuthContext) *pageFixture {
	t.Helper()
	signer, cookies := newTestTransport(t)
	f := &pageFixture{
		router:   newTestRouter(t, auth),
		auth:     &authServiceMock{loginSID: testSessionID},
		tutorias: &pageTutoriaMock{},
	}
	f.handler = NewPageHandler(f.auth, f.tutorias, signer, cookies, nil)

	f.router.GET("/", f.handler.Home)
	f.router.GET("/cadastro", f.handler.RegisterPage)
	f.router.POST("/cadastro", f.handler.Register)
	f.router.GET("/login", f.handler.LoginPage)
	f.router.POST("/login", f.handler.Login)
	f.router.GET("/logout", f.handler.Logout)
	f.router.GET("/form", f.handler.Form)
	f.router.GET("/lista", f.handler.List)
	f.router.GET("/gestao", f.handler.GestaoPage)
	f.router.POST("/gestao", f.handler.UnlockGestao)
	f.router.POST("/gestao/bloquear", f.handler.LockGestao)
	return f
}

func (f *pageFixture) get(path string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
	return w
}

func (f *pageFixture) postForm(path string, values url.Values) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(values.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)
	return w
}

func TestHomeRedirects(t *testing.T) {
	w := newPageFixture(t, models.AuthContext{}).get("/")
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/login", w.Header().Get("Location"))

	w = newPageFixture(t, professor).get("/")
	assert.Equal(t, "/form", w.Header().Get("Location"))
}

func TestLoginPageRedirectsWhenLoggedIn(t *testing.T) {
	f := newPageFixture(t, professor)
	for _, path := range []string{"/login", "/cadastro"} {
		w := f.get(path)
		assert.Equal(t, http.StatusFound, w.Code, path)
		assert.Equal(t, "/form", w.Header().Get("Location"), path)
	}
}

func TestRegisterRendersLoginWithInfo(t *testing.T) {
	f := newPageFixture(t, models.AuthContext{})
	w := f.postForm("/cadastro", url.Values{"username": {"ana"}, "password": {"segredo"}})

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), MsgRegistered)
	assert.Equal(t, "ana", f.auth.registered.Username)
	assert.Empty(t, w.Header().Get("Set-Cookie"))
}

func TestRegisterDuplicateReRendersForm(t *testing.T) {
	f := newPageFixture(t, models.AuthContext{})
	f.auth.registerErr = appErrors.ErrDuplicateUsername

	w := f.postForm("/cadastro", url.Values{"username": {"ana"}, "password": {"x"}})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Usuário já existe.")
	assert.Contains(t, w.Body.String(), `action="/cadastro"`)
}

func TestRegisterInternalErrorRendersErrorPage(t *testing.T) {
	f := newPageFixture(t, models.AuthContext{})
	f.auth.registerErr = errors.New("db down")

	w := f.postForm("/cadastro", url.Values{"username": {"ana"}, "password": {"x"}})
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.NotContains(t, w.Body.String(), "db down")
}

func TestLoginSetsSignedCookie(t *testing.T) {
	f := newPageFixture(t, models.AuthContext{})
	w := f.postForm("/login", url.Values{"username": {"renato"}, "password": {"1234"}})

	require.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/form", w.Header().Get("Location"))

	cookie := findCookie(w.Result(), "tutorias_session")
	require.NotNil(t, cookie)
	assert.True(t, cookie.HttpOnly)

	claims, err := f.handler.signer.Parse(cookie.Value)
	require.NoError(t, err)
	assert.Equal(t, testSessionID, claims.SessionID)
	assert.Empty(t, f.auth.loggedOut)
}

func TestLoginEndsPreviousSession(t *testing.T) {
	f := newPageFixture(t, professor)
	f.auth.loginSID = "0e7d6a52-9a53-4a54-9a0f-7c5a1e0b3f20"

	w := f.postForm("/login", url.Values{"username": {"gestao"}, "password": {"x"}})
	require.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, testSessionID, f.auth.loggedOut)

	cookie := findCookie(w.Result(), "tutorias_session")
	require.NotNil(t, cookie)
	claims, err := f.handler.signer.Parse(cookie.Value)
	require.NoError(t, err)
	assert.Equal(t, f.auth.loginSID, claims.SessionID)
}

func TestLoginFailureShowsGenericMessage(t *testing.T) {
	f := newPageFixture(t, models.AuthContext{})
	f.auth.loginErr = appErrors.ErrInvalidCredentials

	w := f.postForm("/login", url.Values{"username": {"renato"}, "password": {"errada"}})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Usuário ou senha inválidos.")
	assert.Nil(t, findCookie(w.Result(), "tutorias_session"))
}

func TestLogoutClearsSession(t *testing.T) {
	f := newPageFixture(t, professor)
	w := f.get("/logout")

	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/login", w.Header().Get("Location"))
	assert.Equal(t, testSessionID, f.auth.loggedOut)

	cookie := findCookie(w.Result(), "tutorias_session")
	require.NotNil(t, cookie)
	assert.Empty(t, cookie.Value)
	assert.True(t, cookie.MaxAge < 0)
}

func TestFormRendersCatalog(t *testing.T) {
	f := newPageFixture(t, professor)
	w := f.get("/form")

	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, "Nova tutoria")
	for _, serie := range models.Series {
		assert.Contains(t, body, serie)
	}
	assert.Nil(t, f.tutorias.lastID)
}

func TestFormPassesIDAndDuplicate(t *testing.T) {
	f := newPageFixture(t, professor)
	f.tutorias.form = &dto.TutoriaForm{
		Draft:       models.TutoriaDraft{NomeAluno: "Bia", Serie: models.Series[0]},
		Duplicating: true,
	}

	w := f.get("/form?id=12&duplicar=1")
	require.Equal(t, http.StatusOK, w.Code)
	require.NotNil(t, f.tutorias.lastID)
	assert.Equal(t, int64(12), *f.tutorias.lastID)
	assert.True(t, f.tutorias.duplicate)
	assert.Contains(t, w.Body.String(), "Bia")
	assert.Contains(t, w.Body.String(), `data-id=""`)
}

func TestFormErrors(t *testing.T) {
	cases := []struct {
		name   string
		path   string
		err    error
		status int
		called bool
	}{
		{name: "non-numeric id", path: "/form?id=abc", status: http.StatusNotFound},
		{name: "unknown id", path: "/form?id=99", err: appErrors.ErrNotFound, status: http.StatusNotFound, called: true},
		{name: "not owner", path: "/form?id=5", err: appErrors.ErrForbidden, status: http.StatusForbidden, called: true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			f := newPageFixture(t, professor)
			f.tutorias.formErr = tc.err

			w := f.get(tc.path)
			assert.Equal(t, tc.status, w.Code)
			assert.Equal(t, tc.called, f.tutorias.called)
		})
	}
}

func TestListRendersRecords(t *testing.T) {
	f := newPageFixture(t, professor)
	f.tutorias.items = []models.Tutoria{{
		ID:           3,
		ProfessorID:  7,
		TutoriaDraft: models.TutoriaDraft{NomeAluno: "Caio", Ocorrencias: models.Tags{"Pessoal", "Familia"}},
		Carimbo:      models.Carimbo{Texto: models.DefaultCarimboTexto},
	}}

	w := f.get("/lista")
	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, "Caio")
	assert.Contains(t, body, "Pessoal, Familia")
	assert.Contains(t, body, models.DefaultCarimboTexto)
}

func TestGestaoPINFlow(t *testing.T) {
	f := newPageFixture(t, professor)
	f.auth.unlockErr = appErrors.ErrInvalidPIN

	w := f.postForm("/gestao", url.Values{"pin": {"000"}})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "PIN incorreto.")
	assert.Equal(t, "000", f.auth.unlockedPIN)

	f.auth.unlockErr = nil
	w = f.postForm("/gestao", url.Values{"pin": {"adm123"}})
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/gestao/painel", w.Header().Get("Location"))
}

func TestGestaoPageSkipsGateWhenUnlocked(t *testing.T) {
	w := newPageFixture(t, gestao).get("/gestao")
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/gestao/painel", w.Header().Get("Location"))
}

func TestLockGestaoRedirectsToGate(t *testing.T) {
	f := newPageFixture(t, gestao)
	w := f.postForm("/gestao/bloquear", url.Values{})

	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/gestao", w.Header().Get("Location"))
	assert.Equal(t, testSessionID, f.auth.lockedSID)
}
