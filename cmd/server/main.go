package main

import (
	"github.com/reviewscope/backend/internal/db"
	"github.com/reviewscope/backend/internal/server"
	"github.com/reviewscope/backend/internal/util"
	"github.com/reviewscope/backend/pkg/logger"

	_ "github.com/lib/pq"
)

func main() {
	util.LoadEnv()

	debug := util.GetEnvBool("DEBUG", false)
	logger.Init(debug)

	migrations := util.GetEnvString("MIGRATIONS_URL", "file://internal/db/migrations")
	if err := db.Migrate(migrations, util.GetEnv("DATABASE_URL")); err != nil {
		logger.Fatal("Failed to run migrations", "err", err)
	}

	server.Init()
}
