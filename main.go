package main

import (
	"github.com/dexie-space/splash/cmd"
	"github.com/dexie-space/splash/internal/logger"
)

func main() {
	defer logger.Sync()
	cmd.Execute()
}
