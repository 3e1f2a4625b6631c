package main

import (
	"log"

	"github.com/hyeonlab/unihub/config"
	"github.com/hyeonlab/unihub/models"
	"github.com/hyeonlab/unihub/routes"
	"github.com/hyeonlab/unihub/storage"
	"github.com/hyeonlab/unihub/utils"
)

func main() {
	cfg := config.Load()

	if err := utils.InitLogger(cfg); err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer utils.Logger.Sync()

	db := config.InitDatabase(
		&models.User{},
		&models.Field{},
		&models.Post{},
		&models.Answer{},
		&models.Comment{},
		&models.University{},
		&models.College{},
		&models.Major{},
		&models.Semester{},
		&models.Lecture{},
		&models.Story{},
		&models.Directory{},
	)

	store, err := storage.New(cfg)
	if err != nil {
		utils.Sugar.Fatalf("failed to init object storage: %v", err)
	}
	if store == nil {
		utils.Sugar.Warn("object storage not configured, presigned uploads disabled")
	}

	r := routes.SetupRouter(db, store)

	utils.Sugar.Infof("listening on :%s", cfg.AppPort)
	if err := utils.GraceServer(":"+cfg.AppPort, r); err != nil {
		utils.Sugar.Fatalf("server exited: %v", err)
	}
}
