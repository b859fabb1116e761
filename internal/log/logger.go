package log

import (
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Init 根据运行环境初始化全局 logger：dev 输出彩色控制台格式，其余输出 JSON。
func Init(env string) {
	zerolog.TimeFieldFormat = time.RFC3339
	if env == "dev" {
		cw := zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339}
		log.Logger = zerolog.New(cw).With().Timestamp().Str("svc", "mailchat").Logger()
		return
	}
	log.Logger = zerolog.New(os.Stdout).With().Timestamp().Str("svc", "mailchat").Logger()
}
