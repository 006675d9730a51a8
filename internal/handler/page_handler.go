package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/noah-isme/tutoria-api/internal/dto"
	"github.com/noah-isme/tutoria-api/internal/models"
	"github.com/noah-isme/tutoria-api/internal/session"
	appErrors "github.com/noah-isme/tutoria-api/pkg/errors"
)

// Info shown on the login page after a successful registration.
const MsgRegistered = "Cadastro feito. Entre com suas credenciais."

type pageAuthService interface {
	Register(ctx context.Context, form models.LoginForm) error
	Login(ctx context.Context, form models.LoginForm) (string, *models.User, error)
	Logout(ctx context.Context, sid string) error
	UnlockGestao(ctx context.Context, auth models.AuthContext, sid, pin string) error
	LockGestao(ctx context.Context, sid string) error
}

type pageTutoriaService interface {
	Form(ctx context.Context, auth models.AuthContext, id *int64, duplicate bool) (*dto.TutoriaForm, error)
	List(ctx context.Context, auth models.AuthContext) ([]models.Tutoria, error)
}

var pageErrorMessages = map[int]string{
	http.StatusForbidden: "Você não tem permissão para acessar esta tutoria.",
	http.StatusNotFound:  "Tutoria não encontrada.",
}

// PageHandler serves the server-rendered pages.
type PageHandler struct {
	auth     pageAuthService
	tutorias pageTutoriaService
	signer   *session.Signer
	cookies  *session.Cookies
	catalog  models.Catalog
	logger   *zap.Logger
}

// NewPageHandler wires the page handler.
func NewPageHandler(auth pageAuthService, tutorias pageTutoriaService, signer *session.Signer, cookies *session.Cookies, logger *zap.Logger) *PageHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PageHandler{
		auth:     auth,
		tutorias: tutorias,
		signer:   signer,
		cookies:  cookies,
		catalog:  models.DefaultCatalog(),
		logger:   logger,
	}
}

// Home sends visitors to the form or the login page.
func (h *PageHandler) Home(c *gin.Context) {
	if authFromContext(c).Authenticated() {
		c.Redirect(http.StatusFound, "/form")
		return
	}
	c.Redirect(http.StatusFound, "/login")
}

// RegisterPage renders the registration form.
func (h *PageHandler) RegisterPage(c *gin.Context) {
	if h.redirectLoggedIn(c) {
		return
	}
	c.HTML(http.StatusOK, "cadastro.html", gin.H{})
}

// Register creates a professor account and sends the user to the login page.
func (h *PageHandler) Register(c *gin.Context) {
	var form models.LoginForm
	_ = c.ShouldBind(&form)

	if err := h.auth.Register(c.Request.Context(), form); err != nil {
		if h.isServerError(c, err) {
			return
		}
		c.HTML(http.StatusOK, "cadastro.html", gin.H{"Error": appErrors.FromError(err).Message})
		return
	}
	c.HTML(http.StatusOK, "login.html", gin.H{"Info": MsgRegistered})
}

// LoginPage renders the login form.
func (h *PageHandler) LoginPage(c *gin.Context) {
	if h.redirectLoggedIn(c) {
		return
	}
	c.HTML(http.StatusOK, "login.html", gin.H{})
}

// Login opens a session and sets the signed cookie. A session already held by
// the browser is ended.
func (h *PageHandler) Login(c *gin.Context) {
	var form models.LoginForm
	_ = c.ShouldBind(&form)

	sid, _, err := h.auth.Login(c.Request.Context(), form)
	if err != nil {
		if h.isServerError(c, err) {
			return
		}
		c.HTML(http.StatusOK, "login.html", gin.H{"Error": appErrors.FromError(err).Message})
		return
	}

	token, err := h.signer.Sign(sid)
	if err != nil {
		h.renderError(c, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to sign session"))
		return
	}
	if previous := sessionIDFromContext(c); previous != "" && previous != sid {
		if err := h.auth.Logout(c.Request.Context(), previous); err != nil {
			h.logger.Warn("drop previous session", zap.Error(err))
		}
	}
	h.cookies.Set(c, token)
	c.Redirect(http.StatusFound, "/form")
}

// Logout ends the session and clears the cookie.
func (h *PageHandler) Logout(c *gin.Context) {
	if err := h.auth.Logout(c.Request.Context(), sessionIDFromContext(c)); err != nil {
		h.logger.Error("logout", zap.Error(err))
	}
	h.cookies.Clear(c)
	c.Redirect(http.StatusFound, "/login")
}

// Form renders the create, edit or duplicate form.
func (h *PageHandler) Form(c *gin.Context) {
	auth := authFromContext(c)

	var id *int64
	if raw := c.Query("id"); raw != "" {
		parsed, err := parseID(raw)
		if err != nil {
			h.renderError(c, err)
			return
		}
		id = &parsed
	}

	form, err := h.tutorias.Form(c.Request.Context(), auth, id, c.Query("duplicar") == "1")
	if err != nil {
		h.renderError(c, err)
		return
	}
	c.HTML(http.StatusOK, "form.html", gin.H{
		"Auth":        auth,
		"Form":        form,
		"Series":      h.catalog.Series,
		"Ocorrencias": h.catalog.Ocorrencias,
	})
}

// List renders the records visible to the user.
func (h *PageHandler) List(c *gin.Context) {
	auth := authFromContext(c)
	items, err := h.tutorias.List(c.Request.Context(), auth)
	if err != nil {
		h.renderError(c, err)
		return
	}
	c.HTML(http.StatusOK, "lista.html", gin.H{"Auth": auth, "Tutorias": items})
}

// GestaoPage renders the PIN gate, or skips it when the mode is already on.
func (h *PageHandler) GestaoPage(c *gin.Context) {
	auth := authFromContext(c)
	if auth.GestaoMode {
		c.Redirect(http.StatusFound, "/gestao/painel")
		return
	}
	c.HTML(http.StatusOK, "gestao_pin.html", gin.H{"Auth": auth})
}

// UnlockGestao checks the PIN and turns gestão mode on.
func (h *PageHandler) UnlockGestao(c *gin.Context) {
	auth := authFromContext(c)
	err := h.auth.UnlockGestao(c.Request.Context(), auth, sessionIDFromContext(c), c.PostForm("pin"))
	if err != nil {
		if h.isServerError(c, err) {
			return
		}
		c.HTML(http.StatusOK, "gestao_pin.html", gin.H{"Auth": auth, "Error": appErrors.FromError(err).Message})
		return
	}
	c.Redirect(http.StatusFound, "/gestao/painel")
}

// GestaoPanel renders the management panel. Data is loaded by the page from
// the gestão API.
func (h *PageHandler) GestaoPanel(c *gin.Context) {
	c.HTML(http.StatusOK, "gestao.html", gin.H{"Auth": authFromContext(c)})
}

// LockGestao turns gestão mode off and keeps the user logged in.
func (h *PageHandler) LockGestao(c *gin.Context) {
	if err := h.auth.LockGestao(c.Request.Context(), sessionIDFromContext(c)); err != nil {
		h.logger.Error("lock gestao", zap.Error(err))
	}
	c.Redirect(http.StatusFound, "/gestao")
}

func (h *PageHandler) redirectLoggedIn(c *gin.Context) bool {
	if !authFromContext(c).Authenticated() {
		return false
	}
	c.Redirect(http.StatusFound, "/form")
	return true
}

// isServerError renders the error page for 5xx errors and reports whether it
// did so. Lesser errors are left to the caller's inline message.
func (h *PageHandler) isServerError(c *gin.Context, err error) bool {
	if appErrors.FromError(err).Status < http.StatusInternalServerError {
		return false
	}
	h.renderError(c, err)
	return true
}

func (h *PageHandler) renderError(c *gin.Context, err error) {
	appErr := appErrors.FromError(err)
	if appErr.Status == http.StatusUnauthorized {
		c.Redirect(http.StatusFound, "/login")
		return
	}
	message, ok := pageErrorMessages[appErr.Status]
	if !ok {
		h.logger.Error("page request failed", zap.String("path", c.FullPath()), zap.Error(err))
		message = "Erro inesperado. Tente novamente."
	}
	c.HTML(appErr.Status, "erro.html", gin.H{"Status": appErr.Status, "Message": message})
}
