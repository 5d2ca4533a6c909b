package main

import (
	"context"
	"log"
	"net/http"

	"github.com/pitabwire/frame"
	"github.com/pitabwire/frame/config"

	wcconfig "github.com/wavecap/wavecap/config"
	"github.com/wavecap/wavecap/internal/capture"
	"github.com/wavecap/wavecap/internal/httputil"
	"github.com/wavecap/wavecap/internal/recorder"
	recorderhandler "github.com/wavecap/wavecap/internal/recorder/handler"
	"github.com/wavecap/wavecap/internal/storage"
	"github.com/wavecap/wavecap/pkg/events"
	"github.com/wavecap/wavecap/pkg/profiles"
	"github.com/wavecap/wavecap/pkg/webhook"

	// Register speech backends via init().
	_ "github.com/wavecap/wavecap/internal/speech/backends/restsynth"
	_ "github.com/wavecap/wavecap/internal/speech/backends/whisperd"
)

func main() {
	ctx := context.Background()

	cfg, err := config.LoadWithOIDC[wcconfig.RecorderConfig](ctx)
	if err != nil {
		log.Fatalf("loading config: %v", err)
	}

	eventRef := cfg.GetEventsQueueName()
	eventURL := cfg.GetEventsQueueURL()

	ctx, srv := frame.NewService(
		frame.WithConfig(&cfg),
		frame.WithName("wavecap-recorder"),
		frame.WithRegisterPublisher(eventRef, eventURL),
	)
	defer srv.Stop(ctx)

	pool, err := srv.WorkManager().GetPool()
	if err != nil {
		log.Fatalf("getting worker pool: %v", err)
	}

	pub := events.NewPublisher(srv.QueueManager(), "recorder", eventRef)

	store, err := storage.NewFileStore(cfg.CacheDir)
	if err != nil {
		log.Fatalf("creating file store: %v", err)
	}

	loader := profiles.NewLoader(cfg.ProfilesDir)
	if _, err := loader.LoadAll(); err != nil {
		log.Printf("loading profiles: %v; using built-in default", err)
	} else {
		done := make(chan struct{})
		defer close(done)
		if err := pool.Submit(ctx, func() {
			if err := loader.WatchAndReload(done); err != nil {
				log.Printf("profile watcher stopped: %v", err)
			}
		}); err != nil {
			log.Printf("starting profile watcher: %v", err)
		}
	}

	// Chunks arrive over HTTP, so the streaming source is push-only. A
	// container recorder only exists on platforms with a native media
	// recorder; none is wired here.
	ctrl := capture.NewController(capture.Devices{
		Capabilities: capture.StaticCapabilities{
			Streaming: cfg.StreamingEnabled,
			Container: cfg.ContainerEnabled,
		},
		Stream: capture.PushSource{},
	}, store, pub)

	svc := recorder.NewService(ctrl, store, pub, loader, recorder.Options{
		TranscriberBackend: cfg.TranscriberBackend,
		SynthBackend:       cfg.SynthBackend,
		Pool:               pool,
		ServiceConfig: map[string]string{
			"whisperd_url": cfg.WhisperdURL,
			"language":     cfg.Language,
			"synth_url":    cfg.SynthURL,
			"synth_model":  cfg.SynthModel,
		},
	})

	mux := http.NewServeMux()
	recorderhandler.NewRecorderHandler(svc).Register(mux)

	endpoints, err := webhook.ParseEndpoints(cfg.WebhookEndpoints)
	if err != nil {
		log.Fatalf("parsing webhook endpoints: %v", err)
	}

	httpHandler := httputil.H2CHandler(mux)

	if len(endpoints) > 0 {
		whDeliverer := webhook.NewDeliverer(webhook.DelivererConfig{
			MaxRetries:        cfg.WebhookMaxRetries,
			TimeoutSec:        cfg.WebhookTimeoutSec,
			BackoffInitialSec: cfg.WebhookBackoffSec,
			BackoffMaxSec:     cfg.WebhookBackoffMax,
			CBFailThreshold:   cfg.CBFailThreshold,
			CBResetTimeoutSec: cfg.CBResetTimeoutSec,
		}, pool)
		whSubscriber := &webhook.Subscriber{
			Directory: webhook.NewDirectory(endpoints),
			Deliverer: whDeliverer,
			Pool:      pool,
		}
		srv.Init(ctx,
			frame.WithRegisterSubscriber(eventRef+".webhooks", eventURL, whSubscriber),
			frame.WithHTTPHandler(httpHandler),
		)
	} else {
		srv.Init(ctx, frame.WithHTTPHandler(httpHandler))
	}

	if err := srv.Run(ctx, ""); err != nil {
		log.Fatalf("service exited: %v", err)
	}
}
