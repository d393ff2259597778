package notifier

import (
	"context"
	"time"

	"github.com/asynkron/protoactor-go/actor"
	"go.uber.org/zap"
)

const deliveryTimeout = 30 * time.Second

// deliverOrder is the message queued in the dispatcher mailbox.
type deliverOrder struct {
	Order OrderSnapshot
}

// notificationActor owns delivery through the wrapped notifier. Messages are
// handled one at a time in mailbox order.
type notificationActor struct {
	logger   *zap.Logger
	next     Notifier
	observer func(error)
}

func (a *notificationActor) Receive(ctx actor.Context) {
	switch msg := ctx.Message().(type) {
	case *deliverOrder:
		deliverCtx, cancel := context.WithTimeout(context.Background(), deliveryTimeout)
		err := a.next.Notify(deliverCtx, msg.Order)
		cancel()

		if err != nil {
			a.logger.Warn("Notification failed, order still saved",
				zap.Uint("order_id", msg.Order.ID),
				zap.Error(err))
		} else {
			a.logger.Info("Notification sent", zap.Uint("order_id", msg.Order.ID))
		}
		if a.observer != nil {
			a.observer(err)
		}

	case *actor.Started:
		a.logger.Info("Notification actor started")

	case *actor.Stopping:
		a.logger.Info("Notification actor stopping")
	}
}

// Dispatcher hands notifications to an actor and returns without waiting
// for delivery. A failed delivery is logged and reported to the observer,
// never retried.
type Dispatcher struct {
	system *actor.ActorSystem
	pid    *actor.PID
}

// NewDispatcher spawns the notification actor around next. observer may be
// nil; otherwise it receives the outcome of every delivery.
func NewDispatcher(logger *zap.Logger, next Notifier, observer func(error)) *Dispatcher {
	system := actor.NewActorSystem()
	props := actor.PropsFromProducer(func() actor.Actor {
		return &notificationActor{
			logger:   logger.Named("notification-actor"),
			next:     next,
			observer: observer,
		}
	})

	return &Dispatcher{
		system: system,
		pid:    system.Root.Spawn(props),
	}
}

// Notify implements Notifier. It only fails if ctx is already done.
func (d *Dispatcher) Notify(ctx context.Context, order OrderSnapshot) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	d.system.Root.Send(d.pid, &deliverOrder{Order: order})
	return nil
}

// Close stops the actor after the notifications already queued are handled.
func (d *Dispatcher) Close() error {
	return d.system.Root.PoisonFuture(d.pid).Wait()
}
