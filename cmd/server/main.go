package main

import (
	"context"
	"flag"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/shaban/rackless/internal/apiserver"
	"github.com/shaban/rackless/internal/config"
	"github.com/shaban/rackless/internal/logx"
	"github.com/shaban/rackless/pkg/chain"
	"github.com/shaban/rackless/pkg/dispatcher"
	"github.com/shaban/rackless/pkg/orchestrator"
	"github.com/shaban/rackless/pkg/transport"
)

func main() {
	dev := flag.Bool("dev", false, "Enable development mode (debug logging)")
	port := flag.String("port", "8080", "Port to serve the Core API on")
	configPath := flag.String("config", "rackless.yaml", "Path to the rack configuration file")
	hostPath := flag.String("host", "./plugin-host", "Path to the HOST executable")
	flag.Parse()

	level := logx.LevelInfo
	debugDepth := 0
	if *dev {
		level = logx.LevelDebug
		debugDepth = 4 // archivist.DEBUG_LEVEL_DUMP
	}
	log := logx.New(level, debugDepth)

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Warning("config: %v — starting with defaults", err)
		cfg = config.Default()
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	procCfg := transport.DefaultProcessConfig()
	procCfg.ExecutablePath = *hostPath
	t := transport.NewProcessTransport(procCfg, log)
	if err := t.Start(ctx); err != nil {
		log.Fatal("transport: failed to start HOST process: %v", err)
		return
	}
	defer t.Stop()

	d := dispatcher.New(log)
	orch := orchestrator.New(log, t, d, cfg.Catalog(), orchestrator.Config{
		Mode:             cfg.RoutingMode(),
		ExternalPolicy:   orchestrator.ParsePolicy(cfg.Rack.ExternalPolicy),
		RequestTimeout:   5 * time.Second,
		HardwareInputs:   cfg.Hardware.Inputs,
		HardwareOutputs:  cfg.Hardware.Outputs,
		JoinAudioInputs:  cfg.Hardware.JoinAudioInputs,
		JoinAudioOutputs: cfg.Hardware.JoinAudioOutputs,
	})
	d.SetReconciler(orch)

	orch.SetCallbacks(orchestrator.Callbacks{
		OnSlotAdded:    func(s orchestrator.SlotView) { log.Info("▶ slot added: %s (%s)", s.Label, s.URI) },
		OnSlotRemoved:  func(label string) { log.Info("▶ slot removed: %s", label) },
		OnParamChange:  func(label, symbol string, value float64) { log.Debug("param: %s.%s = %v", label, symbol, value) },
		OnBypassChange: func(label string, bypassed bool) { log.Info("bypass: %s = %v", label, bypassed) },
		OnError:        func(kind chain.ErrorKind, detail string) { log.Error("on_error: %s: %s", kind, detail) },
	})

	go d.Run(t.Events())
	defer d.Stop()

	srv := apiserver.New(orch, log)
	httpServer := &http.Server{Addr: ":" + *port, Handler: srv.Routes()}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		httpServer.Shutdown(shutdownCtx)
	}()

	log.Info("▶ Core API listening on :%s", *port)
	if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatal("server: %v", err)
	}
}
