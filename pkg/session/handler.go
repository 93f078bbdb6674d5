package session

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"assetdeck/pkg/response"
)

type SessionHandler struct {
	provider Provider
}

func NewSessionHandler(provider Provider) *SessionHandler {
	return &SessionHandler{provider: provider}
}

func (h *SessionHandler) RegisterRoutes(router gin.IRouter) {
	router.POST("/session/sign-in", h.signIn)
	router.POST("/session/sign-up", h.signUp)
	router.DELETE("/session", h.signOut)
	router.GET("/session", h.current)
	router.GET("/profile", h.getProfile)
	router.PUT("/profile", h.updateProfile)
}

type credentialsRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// @Summary      Sign in
// @Description  Opens a session for the email. Local stub: the password is not verified.
// @Tags         session
// @Accept       json
// @Produce      json
// @Param        request body credentialsRequest true "Credentials"
// @Success      200 {object} response.APIResponse{data=SignedIn}
// @Failure      400 {object} response.APIResponse
// @Router       /session/sign-in [post]
func (h *SessionHandler) signIn(c *gin.Context) {
	var req credentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.SendAPIResponse(c, http.StatusBadRequest, false, "invalid request payload", nil)
		return
	}

	out, err := h.provider.SignIn(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		h.sendError(c, err)
		return
	}
	response.SendAPIResponse(c, http.StatusOK, true, "signed in", out)
}

// @Summary      Sign up
// @Tags         session
// @Accept       json
// @Produce      json
// @Param        request body credentialsRequest true "Credentials"
// @Success      201 {object} response.APIResponse{data=SignedIn}
// @Failure      400 {object} response.APIResponse
// @Router       /session/sign-up [post]
func (h *SessionHandler) signUp(c *gin.Context) {
	var req credentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.SendAPIResponse(c, http.StatusBadRequest, false, "invalid request payload", nil)
		return
	}

	out, err := h.provider.SignUp(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		h.sendError(c, err)
		return
	}
	response.SendAPIResponse(c, http.StatusCreated, true, "account created", out)
}

// @Summary      Sign out
// @Description  Clears the session, the profile and the account's cached assets
// @Tags         session
// @Produce      json
// @Success      200 {object} response.APIResponse
// @Failure      500 {object} response.APIResponse
// @Router       /session [delete]
func (h *SessionHandler) signOut(c *gin.Context) {
	if err := h.provider.SignOut(c.Request.Context()); err != nil {
		h.sendError(c, err)
		return
	}
	response.SendAPIResponse(c, http.StatusOK, true, "signed out", nil)
}

// @Summary      Current session
// @Tags         session
// @Produce      json
// @Success      200 {object} response.APIResponse{data=Session}
// @Failure      401 {object} response.APIResponse
// @Router       /session [get]
func (h *SessionHandler) current(c *gin.Context) {
	sess, err := h.provider.Current(c.Request.Context())
	if err != nil {
		h.sendError(c, err)
		return
	}
	response.SendAPIResponse(c, http.StatusOK, true, "session fetched", sess)
}

// @Summary      Get profile
// @Tags         session
// @Produce      json
// @Success      200 {object} response.APIResponse{data=Profile}
// @Failure      401 {object} response.APIResponse
// @Router       /profile [get]
func (h *SessionHandler) getProfile(c *gin.Context) {
	prof, err := h.provider.Profile(c.Request.Context())
	if err != nil {
		h.sendError(c, err)
		return
	}
	response.SendAPIResponse(c, http.StatusOK, true, "profile fetched", prof)
}

// @Summary      Update profile
// @Tags         session
// @Accept       json
// @Produce      json
// @Param        request body ProfileUpdate true "Fields to change"
// @Success      200 {object} response.APIResponse{data=Profile}
// @Failure      400 {object} response.APIResponse
// @Failure      401 {object} response.APIResponse
// @Router       /profile [put]
func (h *SessionHandler) updateProfile(c *gin.Context) {
	var req ProfileUpdate
	if err := c.ShouldBindJSON(&req); err != nil {
		response.SendAPIResponse(c, http.StatusBadRequest, false, "invalid request payload", nil)
		return
	}

	prof, err := h.provider.UpdateProfile(c.Request.Context(), req)
	if err != nil {
		h.sendError(c, err)
		return
	}
	response.SendAPIResponse(c, http.StatusOK, true, "profile updated", prof)
}

func (h *SessionHandler) sendError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrNotAuthenticated):
		response.SendAPIResponse(c, http.StatusUnauthorized, false, "sign in required", nil)
	case errors.Is(err, ErrInvalidEmail), errors.Is(err, ErrEmptyPassword), errors.Is(err, ErrEmptyStructure):
		response.SendAPIResponse(c, http.StatusBadRequest, false, err.Error(), nil)
	default:
		response.SendAPIResponse(c, http.StatusInternalServerError, false, err.Error(), nil)
	}
}
