package main

import (
	"os"

	"hotel/config"
	"hotel/helper"
	"hotel/shared/logger"

	"github.com/rs/zerolog/log"
)

const (
	argLength = 2
)

func main() {
	logger.InitLogger()

	if len(os.Args) < argLength {
		log.Fatal().Msg("Migration action is required: up, down, step-up, drop, version or force <version>")
	}

	action := os.Args[1]

	if err := helper.Runner(config.Get(), action, os.Args[argLength:]...); err != nil {
		log.Fatal().Err(err).Str("action", action).Msg("Migration failed")
	}
}
