package trigger

import (
	"context"
	"sync"

	"doc-flow-backend/models"

	log "github.com/sirupsen/logrus"
)

// Event событие перехода документа, рассылается после фиксации в базе
type Event struct {
	Event        models.TriggerEvent
	SpaceID      string
	SubmissionID string
	StageID      string
	ActorUserID  string
	Comment      string
}

// Consumer обработчик события. Сбой обработчика логируется
// и не влияет ни на переход, ни на остальных обработчиков
type Consumer interface {
	GetName() string
	Handle(ctx context.Context, event Event)
}

type Provider interface {
	Register(event models.TriggerEvent, consumer Consumer)
	// Dispatch ставит события в очередь. При переполнении очереди
	// событие отбрасывается с записью в журнал, переход не блокируется
	Dispatch(events ...Event)
	Start(ctx context.Context)
	Stop()
}

var Instance Provider

func NewHandler(queueSize int) {
	if queueSize <= 0 {
		queueSize = 256
	}
	Instance = &impl{
		queue:     make(chan Event, queueSize),
		consumers: map[models.TriggerEvent][]Consumer{},
	}
}

type impl struct {
	queue     chan Event
	mx        sync.RWMutex
	consumers map[models.TriggerEvent][]Consumer
	stop      sync.Once
}

func (i *impl) Register(event models.TriggerEvent, consumer Consumer) {
	i.mx.Lock()
	defer i.mx.Unlock()
	i.consumers[event] = append(i.consumers[event], consumer)
}

func (i *impl) Dispatch(events ...Event) {
	for _, event := range events {
		select {
		case i.queue <- event:
		default:
			log.WithField("event", event.Event).
				WithField("submission_id", event.SubmissionID).
				Error("очередь событий переполнена, событие отброшено")
		}
	}
}

func (i *impl) Start(ctx context.Context) {
	go func() {
		log.Info("запущена рассылка событий согласования")
		for {
			select {
			case <-ctx.Done():
				return
			case event, ok := <-i.queue:
				if !ok {
					return
				}
				i.handle(ctx, event)
			}
		}
	}()
}

func (i *impl) Stop() {
	i.stop.Do(func() {
		close(i.queue)
	})
}

func (i *impl) handle(ctx context.Context, event Event) {
	i.mx.RLock()
	consumers := i.consumers[event.Event]
	i.mx.RUnlock()
	for _, consumer := range consumers {
		i.run(ctx, consumer, event)
	}
}

func (i *impl) run(ctx context.Context, consumer Consumer, event Event) {
	defer func() {
		if r := recover(); r != nil {
			log.WithField("consumer", consumer.GetName()).
				WithField("event", event.Event).
				Errorf("паника в обработчике события: %v", r)
		}
	}()
	consumer.Handle(ctx, event)
}
