package webhook

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/pitabwire/frame/workerpool"
	"github.com/pitabwire/util"

	"github.com/wavecap/wavecap/pkg/events"
)

// Subscriber implements queue.SubscribeWorker to route events to
// matching webhook endpoints.
type Subscriber struct {
	Directory *Directory
	Deliverer *Deliverer
	Pool      workerpool.WorkerPool
}

// Handle is called by the queue subsystem for each event message.
func (ws *Subscriber) Handle(ctx context.Context, _ map[string]string, message []byte) error {
	var env events.Envelope
	if err := json.Unmarshal(message, &env); err != nil {
		util.Log(ctx).WithError(err).Error("webhook subscriber: unmarshal envelope")
		return err
	}

	for _, ep := range ws.Directory.Matching(env.Type) {
		ep := ep
		env := env
		if ws.Pool != nil {
			if err := ws.Pool.Submit(ctx, func() {
				ws.Deliverer.Deliver(ctx, ep, env)
			}); err != nil {
				slog.WarnContext(ctx, "webhook pool full", slog.String("endpoint_id", ep.ID))
			}
		} else {
			go ws.Deliverer.Deliver(ctx, ep, env)
		}
	}
	return nil
}
