// Command seed creates local test accounts: an admin, a member who is
// auto-enrolled into new active schedules, and a regular player.
package main

import (
	"context"
	"flag"
	"log"
	"time"

	"hoops_signup/internal/apperr"
	"hoops_signup/internal/authz"
	"hoops_signup/internal/config"
	"hoops_signup/internal/logger"
	"hoops_signup/internal/models"
	"hoops_signup/internal/storage"
	"hoops_signup/internal/store"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

type seedUser struct {
	email  string
	name   string
	roles  string
	member bool
}

func main() {
	password := flag.String("password", "password123", "password for every seeded account")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("config: ", err)
	}
	lg, err := logger.New(cfg.Env)
	if err != nil {
		log.Fatal("logger: ", err)
	}
	defer lg.Sync()

	db, err := storage.ConnectDatabase(cfg, lg)
	if err != nil {
		lg.Fatal("database connection failed", zap.Error(err))
	}
	if err := storage.Migrate(db); err != nil {
		lg.Fatal("migration failed", zap.Error(err))
	}
	st := store.New(db)

	hash, err := bcrypt.GenerateFromPassword([]byte(*password), 12)
	if err != nil {
		lg.Fatal("hash password", zap.Error(err))
	}

	adminEmail := "admin@example.com"
	if len(cfg.AdminEmails) > 0 {
		adminEmail = cfg.AdminEmails[0]
	}
	users := []seedUser{
		{email: adminEmail, name: "Admin", roles: authz.AddRole(authz.RoleAdmin, authz.RoleAdminNotify)},
		{email: "member@example.com", name: "Member Player", member: true},
		{email: "player@example.com", name: "Drop-in Player"},
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	for _, su := range users {
		if _, err := st.FindUserByEmail(ctx, su.email); err == nil {
			lg.Info("user exists, skipped", zap.String("email", su.email))
			continue
		} else if !apperr.Is(err, apperr.KindNotFound) {
			lg.Fatal("lookup user", zap.String("email", su.email), zap.Error(err))
		}

		name := su.name
		u := models.User{Email: su.email, Name: &name, PasswordHash: string(hash), Member: su.member}
		if su.roles != "" {
			roles := su.roles
			u.Roles = &roles
		}
		if err := st.CreateUser(ctx, &u); err != nil {
			lg.Fatal("create user", zap.String("email", su.email), zap.Error(err))
		}
		lg.Info("user created", zap.String("email", u.Email), zap.Uint("id", u.ID), zap.Bool("member", u.Member))
	}
}
