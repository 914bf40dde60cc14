package main

import (
	"github.com/avelorn/blogward/config"
	"github.com/avelorn/blogward/models"
	"github.com/avelorn/blogward/routes"
	"github.com/avelorn/blogward/utils"
)

func main() {
	cfg := config.Load()

	// Initialize logger early
	if err := utils.InitLogger(cfg); err != nil {
		panic(err)
	}

	db := config.InitDatabase(
		&models.User{},
		&models.Category{},
		&models.Location{},
		&models.Post{},
		&models.Comment{},
		&models.Page{},
	)

	r := routes.SetupRouter(db)

	var err error
	if cfg.TLSCertFile != "" && cfg.TLSKeyFile != "" {
		utils.Sugar.Infof("Starting TLS server on port %s (graceful)", cfg.AppPort)
		err = utils.GraceServerTLS(":"+cfg.AppPort, cfg.TLSCertFile, cfg.TLSKeyFile, r)
	} else {
		utils.Sugar.Infof("Starting server on port %s (graceful)", cfg.AppPort)
		err = utils.GraceServer(":"+cfg.AppPort, r)
	}
	if err != nil {
		utils.Sugar.Fatalf("server stopped with error: %v", err)
	}
}
