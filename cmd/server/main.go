package main

import (
	"context"

	"mailchat/internal/blob"
	"mailchat/internal/config"
	"mailchat/internal/db"
	clog "mailchat/internal/log"
	"mailchat/internal/notify"
	"mailchat/internal/server"
	"mailchat/internal/service"
	"mailchat/internal/store"

	"github.com/rs/zerolog/log"
)

func main() {
	// main 负责加载配置、初始化日志、连接数据库并启动 Gin 服务。
	cfg := config.Load()
	clog.Init(cfg.Env)
	if err := config.Validate(cfg); err != nil {
		log.Fatal().Err(err).Msg("config validate")
	}

	gdb, err := db.Connect(cfg.DatabaseDSN)
	if err != nil {
		log.Fatal().Err(err).Msg("db connect")
	}
	if err := db.Migrate(gdb); err != nil {
		log.Fatal().Err(err).Msg("db migrate")
	}

	maxBytes := int64(cfg.MaxUploadMB) << 20
	var blobs blob.Store
	if cfg.BlobBackend == "s3" {
		blobs, err = blob.NewS3(context.Background(), cfg, maxBytes)
	} else {
		blobs, err = blob.NewLocal(cfg.UploadDir, maxBytes)
	}
	if err != nil {
		log.Fatal().Err(err).Msg("blob store init")
	}

	creds := store.NewCredentialStore(gdb)
	msgs := store.NewMessageStore(gdb)
	verifySvc := service.NewVerifyService(gdb, creds, notify.FromConfig(cfg), cfg)
	chatSvc := service.NewChatService(creds, msgs, blobs)

	h := server.NewHandler(verifySvc, chatSvc)
	r := server.SetupRouter(cfg, gdb, h, blobs)
	if err := r.Run(":" + cfg.Port); err != nil {
		log.Fatal().Err(err).Msg("server run")
	}
}
