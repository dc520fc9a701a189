package infrastructure

import "arcadeportal.io/infrastructure/env"

type serverInterface interface {
	Start() error
}

func StartServer(cfg env.Config) error {
	var server serverInterface = &ginServer{cfg: cfg}
	return server.Start()
}
