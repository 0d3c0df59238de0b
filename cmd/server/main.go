package main

import (
	_ "github.com/lib/pq"

	"github.com/lattice-hq/lattice/backend/internal/server"
	"github.com/lattice-hq/lattice/backend/internal/util"
	"github.com/lattice-hq/lattice/backend/pkg/logger"
	"github.com/lattice-hq/lattice/backend/pkg/logger/console"
)

func main() {
	util.LoadEnv()

	debug := util.GetEnvBool("DEBUG", false)

	logger.Init(console.New(console.Params{
		Debug: debug,
	}))

	server.Init()
}
