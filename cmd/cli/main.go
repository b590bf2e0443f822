package main

import (
	"context"
	"os"
	"strings"

	"github.com/yakirz/sales-gateway/internal/config"
	"github.com/yakirz/sales-gateway/internal/model"
	"github.com/yakirz/sales-gateway/internal/repository"
	"github.com/yakirz/sales-gateway/internal/services"
	"github.com/yakirz/sales-gateway/pkg/logger"
	"github.com/yakirz/sales-gateway/pkg/pg"
)

// cli runs the schema migrations and optionally seeds the first admin
// and group, so a fresh deployment can log in:
//
//	cli --env=.env --dir=./migrations
//	cli --env=.env --admin-email=root@example.com --admin-password=secret
//	cli --env=.env --group=Sales
func main() {
	err := config.Load(argValue("--env="))
	if err != nil {
		logger.Error("failed to load config", "error", err)
		return
	}

	pgConf := pg.Config{
		User:     config.Get().PostgresWriteUser,
		Host:     config.Get().PostgresWriteHost,
		Port:     config.Get().PostgresWritePort,
		Password: config.Get().PostgresWritePassword,
		Database: config.Get().PostgresWriteDatabase,
	}

	dir := argValue("--dir=")
	if dir == "" {
		dir = config.Get().MigrationsDir
	}
	err = pg.Migrate(pgConf, dir)
	if err != nil {
		logger.Error("migration: error running migrations", "error", err)
		return
	}
	logger.Info("migrations applied", "dir", dir)

	adminEmail := argValue("--admin-email=")
	groupName := argValue("--group=")
	if adminEmail == "" && groupName == "" {
		return
	}

	db, err := pg.CreateReadWrite(pgConf, pgConf, false)
	if err != nil {
		logger.Error("failed connecting to pg", "error", err)
		return
	}
	ctx := context.Background()

	if groupName != "" {
		groups := repository.NewGroupRepository(db)
		group, err := groups.Create(ctx, model.GroupCreateRequest{Name: groupName})
		if err != nil {
			logger.Error("failed to seed group", "error", err, "group", groupName)
			return
		}
		logger.Info("group seeded", "id", group.ID, "group", group.Name)
	}

	if adminEmail != "" {
		password := argValue("--admin-password=")
		if password == "" {
			logger.Error("--admin-email needs --admin-password")
			return
		}
		hash, err := services.HashPassword(password)
		if err != nil {
			logger.Error("failed to hash admin password", "error", err)
			return
		}
		admins := repository.NewAdminRepository(db)
		admin, err := admins.Create(ctx, adminEmail, hash, model.AdminPermissionFull)
		if err != nil {
			logger.Error("failed to seed admin", "error", err, "email", adminEmail)
			return
		}
		logger.Info("admin seeded", "id", admin.ID, "email", admin.Email)
	}
}

func argValue(prefix string) string {
	for _, v := range os.Args {
		if strings.HasPrefix(v, prefix) {
			return strings.TrimPrefix(v, prefix)
		}
	}
	return ""
}
