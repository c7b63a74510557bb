package store

import (
	"context"
	"errors"

	"hoops_signup/internal/apperr"
	"hoops_signup/internal/models"
	"hoops_signup/internal/roster"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// FindSignUp returns the user's signup for the schedule, or nil.
func (s *Store) FindSignUp(ctx context.Context, scheduleID, userID uint) (*models.SignUp, error) {
	var su models.SignUp
	err := s.with(ctx).Where("schedule_id = ? AND user_id = ?", scheduleID, userID).First(&su).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, dbErr(err)
	}
	return &su, nil
}

func (s *Store) GetSignUp(ctx context.Context, id uint) (models.SignUp, error) {
	var su models.SignUp
	err := s.with(ctx).First(&su, id).Error
	return su, notFound(err, "SIGNUP_NOT_FOUND", "signup not found")
}

// MaxPosition is the highest position held by a signup or guest of the
// schedule, 0 when empty.
func (s *Store) MaxPosition(ctx context.Context, scheduleID uint) (int, error) {
	var users, guests int
	if err := s.with(ctx).Model(&models.SignUp{}).
		Where("schedule_id = ?", scheduleID).
		Select("COALESCE(MAX(position),0)").Scan(&users).Error; err != nil {
		return 0, dbErr(err)
	}
	if err := s.with(ctx).Model(&models.GuestSignUp{}).
		Where("schedule_id = ?", scheduleID).
		Select("COALESCE(MAX(position),0)").Scan(&guests).Error; err != nil {
		return 0, dbErr(err)
	}
	return max(users, guests), nil
}

// CreateSignUpAtEnd appends the user to the roster. When the user already
// has a signup it is returned unchanged with created=false.
func (s *Store) CreateSignUpAtEnd(ctx context.Context, scheduleID, userID uint) (models.SignUp, bool, error) {
	var out models.SignUp
	created := false
	err := s.Transaction(ctx, func(tx *Store) error {
		existing, err := tx.FindSignUp(ctx, scheduleID, userID)
		if err != nil {
			return err
		}
		if existing != nil {
			out = *existing
			return nil
		}
		maxPos, err := tx.MaxPosition(ctx, scheduleID)
		if err != nil {
			return err
		}
		out = models.SignUp{
			ScheduleID:       scheduleID,
			UserID:           userID,
			Position:         roster.NextPosition(maxPos),
			AttendanceStatus: models.AttendanceFull,
		}
		if err := tx.with(ctx).Omit(clause.Associations).Create(&out).Error; err != nil {
			return err
		}
		created = true
		return nil
	})
	if isDuplicate(err) {
		// lost a race with a concurrent join of the same user
		existing, ferr := s.FindSignUp(ctx, scheduleID, userID)
		if ferr != nil {
			return models.SignUp{}, false, ferr
		}
		if existing != nil {
			return *existing, false, nil
		}
	}
	if err != nil {
		return models.SignUp{}, false, dbErr(err)
	}
	return out, created, nil
}

// DeleteSignUp removes the user's signup and returns the deleted row, or nil
// when there was nothing to delete.
func (s *Store) DeleteSignUp(ctx context.Context, scheduleID, userID uint) (*models.SignUp, error) {
	var deleted *models.SignUp
	err := s.Transaction(ctx, func(tx *Store) error {
		su, err := tx.FindSignUp(ctx, scheduleID, userID)
		if err != nil || su == nil {
			return err
		}
		if err := tx.with(ctx).Delete(&models.SignUp{}, su.ID).Error; err != nil {
			return dbErr(err)
		}
		deleted = su
		return nil
	})
	if err != nil {
		return nil, err
	}
	return deleted, nil
}

// SwapSignUpPositions exchanges the positions of two signups of the same
// schedule in one transaction.
func (s *Store) SwapSignUpPositions(ctx context.Context, scheduleID, id1, id2 uint) error {
	if id1 == id2 {
		return nil
	}
	return s.Transaction(ctx, func(tx *Store) error {
		var rows []models.SignUp
		if err := tx.with(ctx).Where("id IN ?", []uint{id1, id2}).Find(&rows).Error; err != nil {
			return dbErr(err)
		}
		if len(rows) != 2 {
			return apperr.NotFound("SIGNUP_NOT_FOUND", "signup not found")
		}
		a, b := rows[0], rows[1]
		if a.ScheduleID != scheduleID || b.ScheduleID != scheduleID {
			return apperr.Validation("SIGNUP_SCHEDULE_MISMATCH", "signups do not belong to this schedule")
		}
		if err := tx.with(ctx).Model(&models.SignUp{}).Where("id = ?", a.ID).Update("position", b.Position).Error; err != nil {
			return dbErr(err)
		}
		if err := tx.with(ctx).Model(&models.SignUp{}).Where("id = ?", b.ID).Update("position", a.Position).Error; err != nil {
			return dbErr(err)
		}
		return nil
	})
}

// Availability is the attendance detail a player sets on their signup.
type Availability struct {
	Status   models.AttendanceStatus
	Note     *string
	ArriveAt *string
	LeaveAt  *string
}

// UpdateAvailability overwrites the attendance columns of a signup.
func (s *Store) UpdateAvailability(ctx context.Context, signUpID uint, a Availability) (models.SignUp, error) {
	if _, err := s.GetSignUp(ctx, signUpID); err != nil {
		return models.SignUp{}, err
	}
	err := s.with(ctx).Model(&models.SignUp{}).Where("id = ?", signUpID).Updates(map[string]any{
		"attendance_status": a.Status,
		"attendance_note":   a.Note,
		"arrive_at":         a.ArriveAt,
		"leave_at":          a.LeaveAt,
	}).Error
	if err != nil {
		return models.SignUp{}, dbErr(err)
	}
	return s.GetSignUp(ctx, signUpID)
}

// EnrollMembers signs the given users up at positions 1..N in order.
func (s *Store) EnrollMembers(ctx context.Context, scheduleID uint, userIDs []uint) error {
	if len(userIDs) == 0 {
		return nil
	}
	rows := make([]models.SignUp, 0, len(userIDs))
	for i, id := range userIDs {
		rows = append(rows, models.SignUp{
			ScheduleID:       scheduleID,
			UserID:           id,
			Position:         i + 1,
			AttendanceStatus: models.AttendanceFull,
		})
	}
	if err := s.with(ctx).Omit(clause.Associations).Create(&rows).Error; err != nil {
		return dbErr(err)
	}
	return nil
}

// ListSignUps returns the schedule's signups with their users, in position order.
func (s *Store) ListSignUps(ctx context.Context, scheduleID uint) ([]models.SignUp, error) {
	var out []models.SignUp
	err := s.with(ctx).Preload("User").
		Where("schedule_id = ?", scheduleID).
		Order("position ASC").Order("created_at ASC").
		Find(&out).Error
	if err != nil {
		return nil, dbErr(err)
	}
	return out, nil
}
