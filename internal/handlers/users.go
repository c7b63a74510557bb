package handlers

import (
	"net/http"
	"strings"

	"hoops_signup/internal/apperr"
	"hoops_signup/internal/authz"

	"github.com/gin-gonic/gin"
)

// PatchUserRequest changes one user. Nil fields are left alone. An empty
// name clears it.
type PatchUserRequest struct {
	UserID      uint    `json:"userId" binding:"required"`
	SetAdmin    *bool   `json:"setAdmin"`
	AdminNotify *bool   `json:"adminNotify"`
	Member      *bool   `json:"member"`
	Name        *string `json:"name"`
}

// @Summary		List users
// @Tags			admin
// @Produce		json
// @Security		BearerAuth
// @Success		200	{array}		UserDTO
// @Failure		403	{object}	response.ErrorResponse	"Admin only (FORBIDDEN)"
// @Router			/api/admin/users [get]
func (h *Handler) AdminListUsers(c *gin.Context) {
	users, err := h.Store.ListUsers(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}
	out := make([]UserDTO, 0, len(users))
	for _, u := range users {
		out = append(out, userDTO(u))
	}
	c.JSON(http.StatusOK, out)
}

// @Summary		Update a user
// @Description	setAdmin grants or revokes admin and admin_notify together; adminNotify toggles alert emails only
// @Tags			admin
// @Accept			json
// @Produce		json
// @Security		BearerAuth
// @Param			patch	body		PatchUserRequest	true	"Fields to change"
// @Success		200		{object}	UserDTO
// @Failure		400		{object}	response.ErrorResponse	"Validation error (VALIDATION_ERROR)"
// @Failure		404		{object}	response.ErrorResponse	"User not found (USER_NOT_FOUND)"
// @Router			/api/admin/users [patch]
func (h *Handler) AdminPatchUser(c *gin.Context) {
	var req PatchUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		validationError(c, err)
		return
	}
	if req.SetAdmin == nil && req.AdminNotify == nil && req.Member == nil && req.Name == nil {
		h.respondError(c, apperr.Validation("VALIDATION_ERROR", "nothing to update"))
		return
	}
	ctx := c.Request.Context()

	user, err := h.Store.GetUser(ctx, req.UserID)
	if err != nil {
		h.respondError(c, err)
		return
	}

	fields := map[string]any{}
	roles := user.RoleString()
	if req.SetAdmin != nil {
		if *req.SetAdmin {
			roles = authz.AddRole(authz.AddRole(roles, authz.RoleAdmin), authz.RoleAdminNotify)
		} else {
			roles = authz.RemoveRole(authz.RemoveRole(roles, authz.RoleAdmin), authz.RoleAdminNotify)
		}
	}
	if req.AdminNotify != nil {
		if *req.AdminNotify {
			roles = authz.AddRole(roles, authz.RoleAdminNotify)
		} else {
			roles = authz.RemoveRole(roles, authz.RoleAdminNotify)
		}
	}
	if roles != user.RoleString() {
		if roles == "" {
			fields["roles"] = nil
		} else {
			fields["roles"] = roles
		}
	}
	if req.Member != nil {
		fields["member"] = *req.Member
	}
	if req.Name != nil {
		if name := strings.TrimSpace(*req.Name); name == "" {
			fields["name"] = nil
		} else {
			fields["name"] = name
		}
	}

	if len(fields) == 0 {
		c.JSON(http.StatusOK, userDTO(user))
		return
	}
	updated, err := h.Store.UpdateUser(ctx, user.ID, fields)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, userDTO(updated))
}
