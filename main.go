package main

import (
	"github.com/samber/lo"
	"github.com/urlresolver/urlresolver/cmd"
	"github.com/urlresolver/urlresolver/config"
	"github.com/urlresolver/urlresolver/internal/cache"
	"github.com/urlresolver/urlresolver/log"
)

func main() {
	lo.Must0(config.Setup())
	lo.Must0(log.Setup())

	go cache.CollectGarbage()

	cmd.Execute()
}
