//go:build wireinject
// +build wireinject

package main

import (
	"github.com/google/wire"
	"recordstore/internal/app"
	"recordstore/internal/config"
	"recordstore/internal/http"
	"recordstore/internal/http/controller"
	"recordstore/internal/logging"
	"recordstore/internal/metrics"
	"recordstore/internal/queue/rabbitmq"
	"recordstore/internal/service/records"
	"recordstore/internal/sse"
	"recordstore/internal/store"
)

func InitializeApp() (*app.App, func(), error) {
	wire.Build(
		config.New,
		logging.New,
		metrics.NewDefault,
		store.NewStore,
		sse.NewHub,
		rabbitmq.NewPublisher,
		records.NewService,
		controller.NewHandler,
		http.NewRouter,
		rabbitmq.NewConsumer,
		app.NewApp,
	)
	return &app.App{}, nil, nil
}
