package store

import (
	"context"
	"time"

	"hoops_signup/internal/apperr"
	"hoops_signup/internal/models"
)

// ReplaceResetToken drops the user's outstanding tokens and stores a new one.
func (s *Store) ReplaceResetToken(ctx context.Context, userID uint, tokenHash string, expiresAt time.Time) error {
	return s.Transaction(ctx, func(tx *Store) error {
		if err := tx.with(ctx).Where("user_id = ?", userID).Delete(&models.PasswordResetToken{}).Error; err != nil {
			return dbErr(err)
		}
		row := models.PasswordResetToken{UserID: userID, TokenHash: tokenHash, ExpiresAt: expiresAt}
		if err := tx.with(ctx).Create(&row).Error; err != nil {
			return dbErr(err)
		}
		return nil
	})
}

// ConsumeResetToken checks tokenHash against the user's unexpired tokens and,
// on a match, sets the new password hash, clears MustResetPassword and deletes
// all of the user's tokens in one transaction.
func (s *Store) ConsumeResetToken(ctx context.Context, userID uint, tokenHash, passwordHash string, now time.Time) error {
	return s.Transaction(ctx, func(tx *Store) error {
		var n int64
		err := tx.with(ctx).Model(&models.PasswordResetToken{}).
			Where("user_id = ? AND token_hash = ? AND expires_at > ?", userID, tokenHash, now).
			Count(&n).Error
		if err != nil {
			return dbErr(err)
		}
		if n == 0 {
			return apperr.Validation("INVALID_RESET_TOKEN", "invalid or expired token")
		}
		err = tx.with(ctx).Model(&models.User{}).Where("id = ?", userID).Updates(map[string]any{
			"password_hash":       passwordHash,
			"must_reset_password": false,
		}).Error
		if err != nil {
			return dbErr(err)
		}
		if err := tx.with(ctx).Where("user_id = ?", userID).Delete(&models.PasswordResetToken{}).Error; err != nil {
			return dbErr(err)
		}
		return nil
	})
}

// PurgeExpiredResetTokens deletes tokens that expired before now.
func (s *Store) PurgeExpiredResetTokens(ctx context.Context, now time.Time) (int64, error) {
	res := s.with(ctx).Where("expires_at <= ?", now).Delete(&models.PasswordResetToken{})
	if res.Error != nil {
		return 0, dbErr(res.Error)
	}
	return res.RowsAffected, nil
}
