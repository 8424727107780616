package handlers

import (

	"messpay/internal/core/domain"
	"messpay/internal/core/services"
	"messpay/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// SessionHandler handles login, role selection and logout
type SessionHandler struct {
	sessionService services.SessionManager
	active         *services.ActiveSession
}

// NewSessionHandler creates a new session handler
func NewSessionHandler(sessionService services.SessionManager, active *services.ActiveSession) *SessionHandler {
	return &SessionHandler{
		sessionService: sessionService,
		active:         active,
	}
}

// SessionResponse represents the active session view
type SessionResponse struct {
	User   domain.User    `json:"user"`
	Wallet *domain.Wallet `json:"wallet,omitempty"`
	Orders []domain.Order `json:"orders"`
}

// SetRoleRequest represents set role request body
type SetRoleRequest struct {
	Role domain.Role `json:"role"`
}

// Login handles user login
// @Summary Log in
// @Description Persist the user and role, load or seed the wallet and start the device session
// @Tags Session
// @Accept json
// @Produce json
// @Param body body services.LoginInput true "User details"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 500 {object} response.Response
// @Router /session/login [post]
func (h *SessionHandler) Login(c *fiber.Ctx) error {
	var input services.LoginInput
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	sess, err := h.sessionService.Login(c.Context(), &input)
	if err != nil {
		return writeError(c, err, "Failed to log in")
	}
	h.active.Set(sess)

	return response.Success(c, "Logged in successfully", toSessionResponse(sess))
}

// Me handles getting the active session
// @Summary Current session
// @Description Get the logged-in user with cached wallet and orders
// @Tags Session
// @Produce json
// @Success 200 {object} response.Response
// @Failure 401 {object} response.Response
// @Router /session [get]
func (h *SessionHandler) Me(c *fiber.Ctx) error {
	sess, err := currentSession(c)
	if err != nil {
		return writeError(c, err, "Failed to get session")
	}

	return response.Success(c, "Session retrieved successfully", toSessionResponse(sess))
}

// SetRole handles changing the role of the logged-in user
// @Summary Set role
// @Description Change the role of the logged-in user
// @Tags Session
// @Accept json
// @Produce json
// @Param body body SetRoleRequest true "New role"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 401 {object} response.Response
// @Router /session/role [put]
func (h *SessionHandler) SetRole(c *fiber.Ctx) error {
	sess, err := currentSession(c)
	if err != nil {
		return writeError(c, err, "Failed to set role")
	}

	var req SetRoleRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	user, err := h.sessionService.SetRole(c.Context(), sess, req.Role)
	if err != nil {
		return writeError(c, err, "Failed to set role")
	}

	return response.Success(c, "Role updated successfully", fiber.Map{
		"user": user,
	})
}

// Logout handles user logout
// @Summary Log out
// @Description Clear the persisted identity and end the device session
// @Tags Session
// @Produce json
// @Success 200 {object} response.Response
// @Failure 401 {object} response.Response
// @Router /session/logout [post]
func (h *SessionHandler) Logout(c *fiber.Ctx) error {
	sess, err := currentSession(c)
	if err != nil {
		return writeError(c, err, "Failed to log out")
	}

	if err := h.sessionService.Logout(c.Context(), sess); err != nil {
		return writeError(c, err, "Failed to log out")
	}
	h.active.Clear()

	return response.Success(c, "Logged out successfully", nil)
}

// Reset handles clearing all device data for the signed-in user
// @Summary Reset device
// @Description Remove user, wallet, orders and role from the device
// @Tags Session
// @Produce json
// @Success 200 {object} response.Response
// @Failure 401 {object} response.Response
// @Failure 500 {object} response.Response
// @Router /session/reset [post]
func (h *SessionHandler) Reset(c *fiber.Ctx) error {
	sess, err := currentSession(c)
	if err != nil {
		return writeError(c, err, "Failed to reset device")
	}

	if err := h.sessionService.Reset(c.Context(), sess); err != nil {
		return writeError(c, err, "Failed to reset device")
	}
	h.active.Clear()

	return response.Success(c, "Device data cleared", nil)
}

func toSessionResponse(sess *services.Session) SessionResponse {
	return SessionResponse{
		User:   sess.User(),
		Wallet: sess.Wallet(),
		Orders: sess.Orders(),
	}
}
