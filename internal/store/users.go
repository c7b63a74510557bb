package store

import (
	"context"
	"strings"

	"hoops_signup/internal/apperr"
	"hoops_signup/internal/authz"
	"hoops_signup/internal/models"
)

// CreateUser inserts u. A taken email is a Conflict.
func (s *Store) CreateUser(ctx context.Context, u *models.User) error {
	u.Email = strings.ToLower(strings.TrimSpace(u.Email))
	err := s.with(ctx).Create(u).Error
	if isDuplicate(err) {
		return apperr.Conflict("EMAIL_TAKEN", "email already registered")
	}
	if err != nil {
		return dbErr(err)
	}
	return nil
}

func (s *Store) GetUser(ctx context.Context, id uint) (models.User, error) {
	var u models.User
	err := s.with(ctx).First(&u, id).Error
	return u, notFound(err, "USER_NOT_FOUND", "user not found")
}

func (s *Store) FindUserByEmail(ctx context.Context, email string) (models.User, error) {
	var u models.User
	err := s.with(ctx).Where("email = ?", strings.ToLower(strings.TrimSpace(email))).First(&u).Error
	return u, notFound(err, "USER_NOT_FOUND", "user not found")
}

// ListUsers returns every user, newest first.
func (s *Store) ListUsers(ctx context.Context) ([]models.User, error) {
	var out []models.User
	if err := s.with(ctx).Order("created_at DESC").Find(&out).Error; err != nil {
		return nil, dbErr(err)
	}
	return out, nil
}

// UpdateUser writes the given columns and returns the fresh row.
func (s *Store) UpdateUser(ctx context.Context, id uint, fields map[string]any) (models.User, error) {
	res := s.with(ctx).Model(&models.User{}).Where("id = ?", id).Updates(fields)
	if res.Error != nil {
		return models.User{}, dbErr(res.Error)
	}
	return s.GetUser(ctx, id)
}

// AdminNotifyRecipients returns the emails of users holding both the admin
// and admin_notify roles.
func (s *Store) AdminNotifyRecipients(ctx context.Context) ([]string, error) {
	var candidates []models.User
	if err := s.with(ctx).Where("roles IS NOT NULL").Find(&candidates).Error; err != nil {
		return nil, dbErr(err)
	}
	var to []string
	for _, u := range candidates {
		if u.Email != "" && authz.ReceivesAdminAlerts(u.RoleString()) {
			to = append(to, u.Email)
		}
	}
	return to, nil
}

// Members returns users flagged for auto-enrollment, ordered by roles then
// signup date.
func (s *Store) Members(ctx context.Context) ([]models.User, error) {
	var out []models.User
	err := s.with(ctx).Where("member = ?", true).
		Order("roles ASC").Order("created_at ASC").
		Find(&out).Error
	if err != nil {
		return nil, dbErr(err)
	}
	return out, nil
}
