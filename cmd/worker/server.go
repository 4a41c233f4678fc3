package main

import (
	"context"
	"log"

	"github.com/hibiken/asynq"

	"talenthub-backend/internal/shared"
)

// asynqServer wraps asynq.Server with shutdown handling.
type asynqServer struct {
	*asynq.Server
}

func setupAsynqServer(cfg *Config, handlers *HandlerRegistry) *asynqServer {
	mux := asynq.NewServeMux()
	handlers.RegisterHandlers(mux)

	srv := asynq.NewServer(
		asynq.RedisClientOpt{Addr: cfg.RedisAddr},
		asynq.Config{
			Queues: map[string]int{
				shared.QueueNotifications: 10,
				shared.QueueDefault:       5,
			},
			Concurrency: 10,
			ErrorHandler: asynq.ErrorHandlerFunc(func(ctx context.Context, task *asynq.Task, err error) {
				log.Printf("task failed: type=%s error=%v", task.Type(), err)
			}),
		},
	)

	go func() {
		log.Println("worker starting")
		if err := srv.Run(mux); err != nil {
			log.Fatalf("worker failed: %v", err)
		}
	}()

	return &asynqServer{Server: srv}
}

// Shutdown stops the server, waiting for in-flight tasks to finish.
func (s *asynqServer) Shutdown() {
	log.Println("worker shutting down")
	s.Server.Shutdown()
}
