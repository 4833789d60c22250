package httpserver

import (
	"net/http"
	"net/mail"
	"net/url"

	"github.com/labstack/echo/v4"

	"github.com/dathuynh/watch-store-api/internal/middleware/auth"
	"github.com/dathuynh/watch-store-api/internal/service"
	"github.com/dathuynh/watch-store-api/internal/tokens"
	"github.com/dathuynh/watch-store-api/internal/transport"
)

type AuthHandler struct {
	Auth        *service.AuthService
	FrontendURL string
}

func loginPayload(res *service.LoginResult) map[string]any {
	return map[string]any{
		"user":          res.User,
		"access_token":  res.AccessToken,
		"refresh_token": res.RefreshToken,
		"token_type":    "Bearer",
		"expires_in":    int(tokens.AccessTTL.Seconds()),
	}
}

func validEmail(s string) bool {
	_, err := mail.ParseAddress(s)
	return err == nil
}

func (h *AuthHandler) Register(c echo.Context) error {
	var req transport.RegisterRequest
	if err := c.Bind(&req); err != nil {
		return fail(c, http.StatusBadRequest, "invalid request body")
	}

	fields := map[string][]string{}
	if req.Name == "" {
		fields["name"] = append(fields["name"], "name is required")
	}
	if !validEmail(req.Email) {
		fields["email"] = append(fields["email"], "a valid email is required")
	}
	if len(req.Password) < 8 {
		fields["password"] = append(fields["password"], "password must be at least 8 characters")
	}
	if req.Password != req.PasswordConfirmation {
		fields["password_confirmation"] = append(fields["password_confirmation"], "passwords do not match")
	}
	if len(fields) > 0 {
		return failFields(c, "validation failed", fields)
	}

	if err := h.Auth.SendRegisterOtp(c.Request().Context(), req.Name, req.Email, req.Password); err != nil {
		return serviceError(c, err)
	}
	return ok(c, http.StatusOK, "otp sent to your email", nil)
}

func (h *AuthHandler) VerifyRegister(c echo.Context) error {
	var req transport.VerifyRegisterRequest
	if err := c.Bind(&req); err != nil {
		return fail(c, http.StatusBadRequest, "invalid request body")
	}
	if req.Email == "" || req.Otp == "" {
		return fail(c, http.StatusUnprocessableEntity, "email and otp are required")
	}

	res, err := h.Auth.VerifyRegisterOtp(c.Request().Context(), req.Email, req.Otp)
	if err != nil {
		return serviceError(c, err)
	}
	return ok(c, http.StatusCreated, "registration complete", loginPayload(res))
}

func (h *AuthHandler) Login(c echo.Context) error {
	var req transport.LoginRequest
	if err := c.Bind(&req); err != nil {
		return fail(c, http.StatusBadRequest, "invalid request body")
	}
	if req.Email == "" || req.Password == "" {
		return fail(c, http.StatusUnprocessableEntity, "email and password are required")
	}

	res, err := h.Auth.Login(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		return serviceError(c, err)
	}
	return ok(c, http.StatusOK, "logged in", loginPayload(res))
}

func (h *AuthHandler) Logout(c echo.Context) error {
	var req transport.RefreshRequest
	if err := c.Bind(&req); err != nil {
		return fail(c, http.StatusBadRequest, "invalid request body")
	}

	if err := h.Auth.Logout(c.Request().Context(), req.RefreshToken); err != nil {
		return serviceError(c, err)
	}
	return ok(c, http.StatusOK, "logged out", nil)
}

func (h *AuthHandler) Refresh(c echo.Context) error {
	var req transport.RefreshRequest
	if err := c.Bind(&req); err != nil {
		return fail(c, http.StatusBadRequest, "invalid request body")
	}
	if req.RefreshToken == "" {
		return fail(c, http.StatusUnprocessableEntity, "refresh_token is required")
	}

	res, err := h.Auth.Refresh(c.Request().Context(), req.RefreshToken)
	if err != nil {
		return serviceError(c, err)
	}
	return ok(c, http.StatusOK, "token refreshed", loginPayload(res))
}

func (h *AuthHandler) Me(c echo.Context) error {
	user, err := h.Auth.Me(c.Request().Context(), auth.UserID(c))
	if err != nil {
		return serviceError(c, err)
	}
	return ok(c, http.StatusOK, "", map[string]any{"user": user})
}

func (h *AuthHandler) ForgotPassword(c echo.Context) error {
	var req transport.ForgotPasswordRequest
	if err := c.Bind(&req); err != nil {
		return fail(c, http.StatusBadRequest, "invalid request body")
	}
	if !validEmail(req.Email) {
		return fail(c, http.StatusUnprocessableEntity, "a valid email is required")
	}

	if err := h.Auth.SendForgotPasswordOtp(c.Request().Context(), req.Email); err != nil {
		return serviceError(c, err)
	}
	return ok(c, http.StatusOK, "otp sent to your email", nil)
}

func (h *AuthHandler) ResetPassword(c echo.Context) error {
	var req transport.ResetPasswordRequest
	if err := c.Bind(&req); err != nil {
		return fail(c, http.StatusBadRequest, "invalid request body")
	}

	fields := map[string][]string{}
	if !validEmail(req.Email) {
		fields["email"] = append(fields["email"], "a valid email is required")
	}
	if req.Otp == "" {
		fields["otp"] = append(fields["otp"], "otp is required")
	}
	if len(req.Password) < 8 {
		fields["password"] = append(fields["password"], "password must be at least 8 characters")
	}
	if req.Password != req.PasswordConfirmation {
		fields["password_confirmation"] = append(fields["password_confirmation"], "passwords do not match")
	}
	if len(fields) > 0 {
		return failFields(c, "validation failed", fields)
	}

	if err := h.Auth.ResetPassword(c.Request().Context(), req.Email, req.Otp, req.Password); err != nil {
		return serviceError(c, err)
	}
	return ok(c, http.StatusOK, "password reset, please log in again", nil)
}

func (h *AuthHandler) GoogleRedirect(c echo.Context) error {
	url, err := h.Auth.GoogleAuthURL(tokens.NewJTI())
	if err != nil {
		return serviceError(c, err)
	}
	return c.Redirect(http.StatusTemporaryRedirect, url)
}

// GoogleCallback finishes the OAuth flow and hands the tokens to the
// frontend via redirect query parameters.
func (h *AuthHandler) GoogleCallback(c echo.Context) error {
	code := c.QueryParam("code")
	if code == "" {
		return fail(c, http.StatusBadRequest, "missing code")
	}

	res, err := h.Auth.GoogleCallback(c.Request().Context(), code)
	if err != nil {
		return serviceError(c, err)
	}

	if h.FrontendURL != "" {
		q := url.Values{}
		q.Set("access_token", res.AccessToken)
		q.Set("refresh_token", res.RefreshToken)
		return c.Redirect(http.StatusTemporaryRedirect, h.FrontendURL+"/auth/callback?"+q.Encode())
	}
	return ok(c, http.StatusOK, "logged in", loginPayload(res))
}
