package main

import (
	"github.com/samber/lo"
	"github.com/xtplay/xtplay/cmd"
	"github.com/xtplay/xtplay/config"
	"github.com/xtplay/xtplay/internal/cache"
	"github.com/xtplay/xtplay/log"
)

func main() {
	lo.Must0(config.Setup())
	lo.Must0(log.Setup())

	go cache.CollectGarbage()

	cmd.Execute()
}
