// pkg/event/event.go
package event

import (
	"sync"

	"github.com/opd-ai/go-magball/pkg/physics"
)

// Type represents the type of event
type Type string

// Event types published by game sessions and chaos studies.
const (
	LevelLoaded   Type = "level_loaded"
	BallShot      Type = "ball_shot"
	WallCollision Type = "wall_collision"
	BallStopped   Type = "ball_stopped"
	BallPocketed  Type = "ball_pocketed"
	FieldChanged  Type = "field_changed"
	GameReset     Type = "game_reset"
	SectionSample Type = "section_sample"
)

// Event is the base interface for all events
type Event interface {
	GetType() Type
	GetSource() interface{}
}

// BaseEvent provides common functionality for all events
type BaseEvent struct {
	EventType Type
	Source    interface{}
}

// GetType returns the event type
func (e *BaseEvent) GetType() Type {
	return e.EventType
}

// GetSource returns the event source
func (e *BaseEvent) GetSource() interface{} {
	return e.Source
}

// Handler is a function that handles events
type Handler func(Event)

// SubscriptionID identifies a handler registered with Subscribe.
type SubscriptionID uint64

type subscription struct {
	id      SubscriptionID
	handler Handler
}

// Bus manages event subscriptions and dispatches synchronously on the
// publisher's goroutine.
type Bus struct {
	handlers map[Type][]subscription
	nextID   SubscriptionID
	mu       sync.RWMutex
}

// NewEventBus creates a new event bus
func NewEventBus() *Bus {
	return &Bus{
		handlers: make(map[Type][]subscription),
	}
}

// Subscribe registers a handler for a specific event type
func (b *Bus) Subscribe(eventType Type, handler Handler) SubscriptionID {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.nextID++
	b.handlers[eventType] = append(b.handlers[eventType], subscription{id: b.nextID, handler: handler})
	return b.nextID
}

// Unsubscribe removes the handler registered under id. It reports whether
// a handler was removed.
func (b *Bus) Unsubscribe(eventType Type, id SubscriptionID) bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	subs := b.handlers[eventType]
	for i, s := range subs {
		if s.id == id {
			b.handlers[eventType] = append(subs[:i:i], subs[i+1:]...)
			return true
		}
	}
	return false
}

// Publish sends an event to all subscribed handlers. A nil bus drops the
// event.
func (b *Bus) Publish(event Event) {
	if b == nil {
		return
	}

	b.mu.RLock()
	subs := append([]subscription(nil), b.handlers[event.GetType()]...)
	b.mu.RUnlock()

	for _, s := range subs {
		s.handler(event)
	}
}

// ShotEvent is published when the player strikes the ball.
type ShotEvent struct {
	BaseEvent
	Velocity physics.Vector2D
	Shot     int
}

// NewShotEvent creates a new shot event
func NewShotEvent(source interface{}, velocity physics.Vector2D, shot int) *ShotEvent {
	return &ShotEvent{
		BaseEvent: BaseEvent{EventType: BallShot, Source: source},
		Velocity:  velocity,
		Shot:      shot,
	}
}

// CollisionEvent describes a resolved ball/obstacle contact
type CollisionEvent struct {
	BaseEvent
	Obstacle int // index into the session's obstacle list, 0 is the boundary
	Edge     int
	Vertex   bool
	Point    physics.Vector2D
	Speed    float64
}

// NewCollisionEvent creates a new collision event
func NewCollisionEvent(source interface{}, obstacle int, res physics.CollisionResult, speed float64) *CollisionEvent {
	return &CollisionEvent{
		BaseEvent: BaseEvent{EventType: WallCollision, Source: source},
		Obstacle:  obstacle,
		Edge:      res.EdgeIndex,
		Vertex:    res.Vertex,
		Point:     res.Point,
		Speed:     speed,
	}
}

// FieldEvent carries the new field strength
type FieldEvent struct {
	BaseEvent
	Value float64
}

// NewFieldEvent creates a new field event
func NewFieldEvent(source interface{}, value float64) *FieldEvent {
	return &FieldEvent{
		BaseEvent: BaseEvent{EventType: FieldChanged, Source: source},
		Value:     value,
	}
}

// PocketEvent is published when the ball comes to rest in the pocket
type PocketEvent struct {
	BaseEvent
	Shots   int
	Elapsed float64
}

// NewPocketEvent creates a new pocket event
func NewPocketEvent(source interface{}, shots int, elapsed float64) *PocketEvent {
	return &PocketEvent{
		BaseEvent: BaseEvent{EventType: BallPocketed, Source: source},
		Shots:     shots,
		Elapsed:   elapsed,
	}
}

// SampleEvent is one Poincaré-section point recorded by a chaos study
type SampleEvent struct {
	BaseEvent
	Ball   int
	Length float64
	Angle  float64
}

// NewSampleEvent creates a new section sample event
func NewSampleEvent(source interface{}, ball int, length, angle float64) *SampleEvent {
	return &SampleEvent{
		BaseEvent: BaseEvent{EventType: SectionSample, Source: source},
		Ball:      ball,
		Length:    length,
		Angle:     angle,
	}
}
