package main

import (
	cfg "adminserv/src/configuration"
	server "adminserv/src/server"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

func main() {
	if err := godotenv.Load(); err != nil {
		logrus.Debug("no .env file found")
	}

	config, err := cfg.ReadProperties()
	if err != nil {
		logrus.WithError(err).Fatal("can not read configuration")
	}

	level, err := logrus.ParseLevel(config.LogLevel)
	if err != nil {
		level = logrus.InfoLevel
	}
	logrus.SetLevel(level)

	if err := server.RunServer(config); err != nil {
		logrus.WithError(err).Fatal("server stopped")
	}
}
