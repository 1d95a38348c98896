package handlers

import (
	"errors"
	"math"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/localnerve/jam-build-shoppinglist/internal/middleware"
	"github.com/localnerve/jam-build-shoppinglist/internal/services"
	"github.com/localnerve/jam-build-shoppinglist/internal/types"
	"github.com/localnerve/jam-build-shoppinglist/internal/utils"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// MsgLoggedOut is the logout response detail
const MsgLoggedOut = "Successfully logged out."

// AuthHandler handles account and token routes
type AuthHandler struct {
	DB      *gorm.DB
	Lockout *services.Lockout
	Reset   *services.PasswordReset
	Log     *zap.Logger
}

// nameField reads an optional profile name
func nameField(p *payload, name string) *string {
	return p.char(name, charField{allowBlank: true, trim: true, rules: "max=150"}).Value
}

// Register handles POST /api/auth/register/
// @Summary Register an account
// @Tags Auth
// @Accept json
// @Produce json
// @Param account body object true "email, password, first_name, last_name"
// @Success 201 {object} RegisterResponse
// @Failure 400 {object} utils.FieldErrorResponseStruct
// @Router /auth/register/ [post]
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	p, err := decodePayload(c, false)
	if err != nil {
		return err
	}
	in := services.RegisterInput{
		Email:    p.email("email"),
		Password: p.password("password"),
	}
	if s := nameField(p, "first_name"); s != nil {
		in.FirstName = *s
	}
	if s := nameField(p, "last_name"); s != nil {
		in.LastName = *s
	}
	if err := p.err(); err != nil {
		return err
	}

	user, err := services.Register(c.UserContext(), h.DB, in)
	if err != nil {
		return err
	}

	h.Log.Info("user registered", zap.Uint64("user_id", user.ID))
	return c.Status(fiber.StatusCreated).JSON(RegisterResponse{ID: user.ID, Email: user.Email})
}

// Login handles POST /api/auth/token/login/
// @Summary Log in
// @Description Exchanges credentials for the account's API token. Repeated failures lock the email out from the client address for a while.
// @Tags Auth
// @Accept json
// @Produce json
// @Param credentials body object true "email, password"
// @Success 200 {object} TokenResponse
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 403 {object} utils.FieldErrorResponseStruct
// @Failure 429 {object} utils.ErrorResponseStruct
// @Router /auth/token/login/ [post]
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	p, err := decodePayload(c, false)
	if err != nil {
		return loginRejected(c, err)
	}
	var email string
	if s := p.text("email", "max=254"); s != nil {
		email = *s
	}
	password := p.password("password")
	if err := p.err(); err != nil {
		return loginRejected(c, err)
	}

	ctx := c.UserContext()
	ip := c.IP()

	remaining, err := h.Lockout.Check(ctx, h.DB, email, ip)
	if errors.Is(err, services.ErrLockedOut) {
		return lockedOut(c, remaining.Seconds())
	}
	if err != nil {
		return err
	}

	user, err := services.Authenticate(ctx, h.DB, email, password)
	if errors.Is(err, services.ErrInvalidCredentials) {
		if err := h.Lockout.RecordFailure(ctx, h.DB, email, ip); err != nil {
			return err
		}
		h.Log.Warn("login failed", zap.String("email", services.NormalizeEmail(email)), zap.String("ip", ip))
		return c.Status(fiber.StatusForbidden).JSON(utils.FieldErrorResponseStruct{
			types.NonFieldErrors: {services.MsgIncorrectCreds},
		})
	}
	if err != nil {
		return err
	}

	if err := h.Lockout.Reset(ctx, h.DB, email, ip); err != nil {
		return err
	}
	key, err := services.GetOrCreateToken(ctx, h.DB, user)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusOK).JSON(TokenResponse{AuthToken: key})
}

// loginRejected renders login field errors with 403, like bad credentials.
// Other errors, such as malformed JSON, go to the error handler.
func loginRejected(c *fiber.Ctx, err error) error {
	var fieldErrs types.FieldErrors
	if errors.As(err, &fieldErrs) {
		return c.Status(fiber.StatusForbidden).JSON(fieldErrs)
	}
	return err
}

// lockedOut answers a login attempt during the cool-off
func lockedOut(c *fiber.Ctx, seconds float64) error {
	c.Set(fiber.HeaderRetryAfter, strconv.Itoa(int(math.Ceil(seconds))))
	return utils.DetailResponse(c, services.MsgLockedOut, fiber.StatusTooManyRequests)
}

// Logout handles POST /api/auth/token/logout/
// @Summary Log out
// @Description Revokes the API token the request was made with
// @Tags Auth
// @Produce json
// @Security TokenAuth
// @Success 200 {object} utils.ErrorResponseStruct
// @Failure 401 {object} utils.ErrorResponseStruct
// @Router /auth/token/logout/ [post]
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	if err := services.DeleteToken(c.UserContext(), h.DB, middleware.CurrentToken(c)); err != nil {
		return err
	}
	return utils.DetailResponse(c, MsgLoggedOut, fiber.StatusOK)
}

// Me handles GET /api/auth/users/me/
// @Summary Current user
// @Tags Auth
// @Produce json
// @Security TokenAuth
// @Success 200 {object} UserResponse
// @Failure 401 {object} utils.ErrorResponseStruct
// @Router /auth/users/me/ [get]
func (h *AuthHandler) Me(c *fiber.Ctx) error {
	return c.Status(fiber.StatusOK).JSON(newUserResponse(currentUser(c)))
}

// UpdateMe handles PUT and PATCH /api/auth/users/me/
// @Summary Update the current user
// @Tags Auth
// @Accept json
// @Produce json
// @Security TokenAuth
// @Param profile body object true "first_name, last_name"
// @Success 200 {object} UserResponse
// @Failure 400 {object} utils.FieldErrorResponseStruct
// @Failure 401 {object} utils.ErrorResponseStruct
// @Router /auth/users/me/ [patch]
func (h *AuthHandler) UpdateMe(c *fiber.Ctx) error {
	p, err := decodePayload(c, true)
	if err != nil {
		return err
	}
	in := services.ProfileInput{
		FirstName: nameField(p, "first_name"),
		LastName:  nameField(p, "last_name"),
	}
	if err := p.err(); err != nil {
		return err
	}

	user := currentUser(c)
	if err := services.UpdateProfile(c.UserContext(), h.DB, user, in); err != nil {
		return err
	}
	return c.Status(fiber.StatusOK).JSON(newUserResponse(user))
}

// DeleteMe handles DELETE /api/auth/users/me/
// @Summary Delete the current account
// @Description Removes the account, its tokens, its owned lists and its memberships in shared lists
// @Tags Auth
// @Security TokenAuth
// @Success 204
// @Failure 401 {object} utils.ErrorResponseStruct
// @Router /auth/users/me/ [delete]
func (h *AuthHandler) DeleteMe(c *fiber.Ctx) error {
	user := currentUser(c)
	if err := services.DeleteAccount(c.UserContext(), h.DB, user); err != nil {
		return err
	}

	h.Log.Info("account deleted", zap.Uint64("user_id", user.ID))
	return c.SendStatus(fiber.StatusNoContent)
}

// SetPassword handles POST /api/auth/users/set_password/
// @Summary Change password
// @Tags Auth
// @Accept json
// @Security TokenAuth
// @Param passwords body object true "current_password, new_password"
// @Success 204
// @Failure 400 {object} utils.FieldErrorResponseStruct
// @Failure 401 {object} utils.ErrorResponseStruct
// @Router /auth/users/set_password/ [post]
func (h *AuthHandler) SetPassword(c *fiber.Ctx) error {
	p, err := decodePayload(c, false)
	if err != nil {
		return err
	}
	current := p.password("current_password")
	next := p.password("new_password")
	if err := p.err(); err != nil {
		return err
	}

	if err := services.SetPassword(c.UserContext(), h.DB, currentUser(c), current, next); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// ResetPassword handles POST /api/auth/users/reset_password/
// @Summary Request a password reset
// @Description Mails a reset link when an active account uses the address. The response does not reveal whether it does.
// @Tags Auth
// @Accept json
// @Param email body object true "email"
// @Success 204
// @Failure 400 {object} utils.FieldErrorResponseStruct
// @Router /auth/users/reset_password/ [post]
func (h *AuthHandler) ResetPassword(c *fiber.Ctx) error {
	p, err := decodePayload(c, false)
	if err != nil {
		return err
	}
	email := p.email("email")
	if err := p.err(); err != nil {
		return err
	}

	if err := h.Reset.RequestPasswordReset(c.UserContext(), h.DB, email); err != nil {
		h.Log.Error("password reset request failed",
			zap.String("request_id", middleware.GetRequestID(c)),
			zap.Error(err),
		)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// ResetPasswordConfirm handles POST /api/auth/users/reset_password_confirm/
// @Summary Confirm a password reset
// @Description Sets a new password with the uid and token from the reset link and revokes the account's API tokens
// @Tags Auth
// @Accept json
// @Param reset body object true "uid, token, new_password"
// @Success 204
// @Failure 400 {object} utils.FieldErrorResponseStruct
// @Router /auth/users/reset_password_confirm/ [post]
func (h *AuthHandler) ResetPasswordConfirm(c *fiber.Ctx) error {
	p, err := decodePayload(c, false)
	if err != nil {
		return err
	}
	var uid, token string
	if s := p.text("uid", ""); s != nil {
		uid = *s
	}
	if s := p.text("token", ""); s != nil {
		token = *s
	}
	password := p.password("new_password")
	if err := p.err(); err != nil {
		return err
	}

	if err := h.Reset.ConfirmPasswordReset(c.UserContext(), h.DB, uid, token, password); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}
