package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"runtime"
	"syscall"

	"github.com/tacusci/logging/v2"
	"github.com/takama/daemon"
	"github.com/tauraamui/offscreend/pkg/api"
	"github.com/tauraamui/offscreend/pkg/config"
	"github.com/tauraamui/offscreend/pkg/configdef"
	"github.com/tauraamui/offscreend/pkg/engine/enginebackend"
	"github.com/tauraamui/offscreend/pkg/log"
	"github.com/tauraamui/offscreend/pkg/sidecar"
)

const (
	name        = "offscreend"
	description = "Offscreen rendering sidecar which keeps engine frames ready for texture upload"
)

type Service struct {
	daemon.Daemon
}

// Setup writes the default config file if there isn't one already.
func (service *Service) Setup() (string, error) {
	log.Info("Setting up offscreend service...")

	err := config.DefaultCreator().Create()
	if err != nil {
		if !errors.Is(err, configdef.ErrConfigAlreadyExists) {
			return "", err
		}
		log.Error(err.Error())
	}

	return "Setup successful...", nil
}

func (service *Service) RemoveSetup() (string, error) {
	log.Info("Removing setup for offscreend service...")
	if err := config.DefaultDestroyer().Destroy(); err != nil {
		log.Error("unable to delete config file: %s", err.Error())
	}

	return "Removing setup successful...", nil
}

func (service *Service) Manage() (string, error) {
	usage := "Usage: offscreend setup | remove-setup | install | remove | start | stop | status"

	if len(os.Args) > 1 {
		command := os.Args[1]
		switch command {
		case "setup":
			return service.Setup()
		case "remove-setup":
			return service.RemoveSetup()
		case "install":
			return service.Install()
		case "remove":
			return service.Remove()
		case "start":
			return service.Start()
		case "stop":
			return service.Stop()
		case "status":
			return service.Status()
		default:
			return usage, nil
		}
	}

	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, os.Interrupt, syscall.SIGTERM)

	log.Info("Starting offscreen daemon...")

	cfg, err := config.DefaultResolver().Resolve()
	if err != nil {
		return "", err
	}
	if cfg.Debug {
		log.SetLevel("debug")
	}

	server, err := sidecar.NewServer(staticResolver{cfg}, enginebackend.Resolve(os.Getenv("OFFSCREEN_ENGINE_BACKEND")))
	if err != nil {
		return "", err
	}

	ctx, cancelStartup := context.WithCancel(context.Background())
	go startupServer(ctx, server)

	rpcServer := startAPI(interrupt, server, cfg)

	killSignal := <-interrupt
	fmt.Print("\r")
	log.Error("Received signal: %s", killSignal)

	cancelStartup()
	if rpcServer != nil {
		log.Info("Shutting down API server...")
		if err := api.ShutdownRPC(rpcServer); err != nil {
			log.Error(err.Error())
		}
	}

	log.Info("Shutting down server...")
	<-server.Shutdown()

	return "Shutdown successful... BYE! 👋", nil
}

// staticResolver hands the already loaded config to the server so the
// file is only read once per run.
type staticResolver struct {
	values configdef.Values
}

func (r staticResolver) Resolve() (configdef.Values, error) {
	return r.values, nil
}

func startAPI(interrupt chan os.Signal, server *sidecar.Server, cfg configdef.Values) *api.Sidecar {
	if !cfg.API.Enabled {
		return nil
	}

	rpcServer, err := api.New(interrupt, server, api.Options{
		ListenAddress: cfg.API.ListenAddress,
		SigningSecret: cfg.Secret,
		APIKey:        cfg.API.APIKey,
	})
	if err != nil {
		log.Error("unable to create API server: %v", err)
		return nil
	}

	if err := api.StartRPC(rpcServer); err != nil {
		log.Error("unable to start API server: %v", err)
		return nil
	}
	return rpcServer
}

func startupServer(ctx context.Context, server *sidecar.Server) {
	connectToSessions(ctx, server)
	server.SetupProcesses()
	server.RunProcesses()
}

func connectToSessions(ctx context.Context, server *sidecar.Server) {
	errs := server.ConnectWithCancel(ctx)
	for _, err := range errs {
		log.Error(err.Error())
	}
}

func init() {
	log.SetLevel(os.Getenv("OFFSCREEN_LOGGING_LEVEL"))
}

func main() {
	daemonType := daemon.SystemDaemon
	if runtime.GOOS == "darwin" {
		daemonType = daemon.UserAgent
	}

	srv, err := daemon.New(name, description, daemonType)
	if err != nil {
		logging.Error(err.Error()) //nolint
		os.Exit(1)
	}

	service := &Service{srv}
	status, err := service.Manage()
	if err != nil {
		logging.Error(err.Error()) //nolint
		os.Exit(1)
	}

	logging.Info(status) //nolint
}
