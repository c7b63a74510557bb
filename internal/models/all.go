package models

// All lists every model in migration order.
func All() []any {
	return []any{
		&User{},
		&Schedule{},
		&SignUp{},
		&GuestSignUp{},
		&WaitlistNotification{},
		&PasswordResetToken{},
		&ScheduleEvent{},
	}
}
