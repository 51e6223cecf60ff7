package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/beldeveloper/app-forge/internal/app"
	"github.com/beldeveloper/app-forge/internal/app/queue"
	"github.com/beldeveloper/app-forge/internal/app/svc"
	"github.com/hibiken/asynq"
	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/julienschmidt/httprouter"
)

func main() {
	// get the watcher, router, and queue consumer using DI wire
	c, err := initializeContainer()
	if err != nil {
		log.Fatalf("main: %v\n", err)
	}
	// re-drive interrupted fan-outs in background
	go c.watcher.Watch()
	// consume the out-of-band completion signals
	go runQueueServer(c.results, c.cfg)
	// run http server
	runHttpServer(c.router)
}

type container struct {
	watcher svc.Watcher
	router  *httprouter.Router
	results queue.Results
	cfg     app.DispatchConfig
}

func newContainer(watcher svc.Watcher, router *httprouter.Router, results queue.Results, cfg app.DispatchConfig) container {
	return container{
		watcher: watcher,
		router:  router,
		results: results,
		cfg:     cfg,
	}
}

func newAccessKey() app.ApiAccessKey {
	return app.ApiAccessKey(os.Getenv("APP_FORGE_ACCESS_KEY"))
}

func newSigningKey() app.SigningKey {
	return app.SigningKey(os.Getenv("APP_FORGE_SIGNING_KEY"))
}

func newDispatchConfig() app.DispatchConfig {
	cfg := app.DispatchConfig{
		BuildQueue:          os.Getenv("APP_FORGE_BUILD_QUEUE"),
		DeployQueue:         os.Getenv("APP_FORGE_DEPLOY_QUEUE"),
		StateQueue:          os.Getenv("APP_FORGE_STATE_QUEUE"),
		ImageFormat:         "qcow2",
		DefaultSourceFormat: "heroku",
		DefaultLanguagePack: "auto",
	}
	if cfg.BuildQueue == "" {
		cfg.BuildQueue = "forge-worker"
	}
	if cfg.DeployQueue == "" {
		cfg.DeployQueue = "forge-deployer"
	}
	if cfg.StateQueue == "" {
		cfg.StateQueue = "forge-state"
	}
	return cfg
}

func newWatcher(assemblySvc app.AssemblySvc) svc.Watcher {
	return svc.NewWatcher([]app.WatcherJob{
		{
			Name: "recoverAssembly",
			Do:   assemblySvc.RecoverJob,
		},
	})
}

func newPostgresConn() *pgxpool.Pool {
	pgs := fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		os.Getenv("APP_FORGE_DB_HOST"),
		os.Getenv("APP_FORGE_DB_PORT"),
		os.Getenv("APP_FORGE_DB_USER"),
		os.Getenv("APP_FORGE_DB_PASSWORD"),
		os.Getenv("APP_FORGE_DB_NAME"),
	)
	conn, err := pgxpool.Connect(context.Background(), pgs)
	if err != nil {
		log.Fatalf("main.newPostgresConn: %v\n", err)
	}
	return conn
}

func newAsynqClient() *asynq.Client {
	return asynq.NewClient(asynq.RedisClientOpt{Addr: os.Getenv("APP_FORGE_REDIS_ADDR")})
}

func runQueueServer(results queue.Results, cfg app.DispatchConfig) {
	srv := asynq.NewServer(
		asynq.RedisClientOpt{Addr: os.Getenv("APP_FORGE_REDIS_ADDR")},
		asynq.Config{Queues: map[string]int{cfg.StateQueue: 1}},
	)
	mux := asynq.NewServeMux()
	results.Register(mux)
	if err := srv.Run(mux); err != nil {
		log.Fatalf("main.runQueueServer: %v\n", err)
	}
}

func runHttpServer(router *httprouter.Router) {
	httpPort := os.Getenv("APP_FORGE_HTTP_PORT")
	crtFile := os.Getenv("APP_FORGE_HTTPS_CRT")
	keyFile := os.Getenv("APP_FORGE_HTTPS_KEY")
	srv := &http.Server{
		Addr:    ":" + httpPort,
		Handler: router,
	}
	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		var err error
		if len(crtFile) > 0 {
			err = srv.ListenAndServeTLS(crtFile, keyFile)
		} else {
			err = srv.ListenAndServe()
		}
		if err != nil && err != http.ErrServerClosed {
			log.Fatalf("main.runHttpServer: serve http: %v; port = %s\n", err, httpPort)
		}
	}()
	log.Printf("Listening :%s for HTTP connections...\n", httpPort)
	<-done
	log.Print("Stopping the application...\n")
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("main.runHttpServer: server shutdown: %v\n", err)
	}
}
