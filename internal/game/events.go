package game

// EventType names a notification emitted by the simulation.
type EventType string

const (
	EventFired       EventType = "fired"         // a weapon was discharged
	EventDetonated   EventType = "detonated"     // a body detonated
	EventOutOfBounds EventType = "out_of_bounds" // a body left the world silently
	EventExplosion   EventType = "explosion"     // terrain carved at a blast
	EventDamage      EventType = "damage"        // a combatant was hurt
	EventTeleported  EventType = "teleported"    // a combatant relocated
)

// Event is one notification. Only the fields relevant to Type are set.
type Event struct {
	Type   EventType
	Tick   int
	X, Y   float64
	Radius float64
	Weapon *Weapon
	Source Combatant
	Target Combatant
	Amount int
}

// Listener receives notifications. Listeners are presentation only (sound,
// shake, flashes): nothing in the simulation reads back what they do.
type Listener interface {
	OnEvent(e Event)
}

// ListenerFunc adapts a function to Listener.
type ListenerFunc func(e Event)

func (f ListenerFunc) OnEvent(e Event) { f(e) }

// Dispatcher fans events out to subscribers.
type Dispatcher struct {
	listeners map[EventType][]Listener
}

func NewDispatcher() *Dispatcher {
	return &Dispatcher{listeners: make(map[EventType][]Listener)}
}

// Subscribe registers l for events of type et.
func (d *Dispatcher) Subscribe(et EventType, l Listener) {
	d.listeners[et] = append(d.listeners[et], l)
}

// SubscribeAll registers l for every event type.
func (d *Dispatcher) SubscribeAll(l Listener) {
	for _, et := range []EventType{EventFired, EventDetonated, EventOutOfBounds, EventExplosion, EventDamage, EventTeleported} {
		d.Subscribe(et, l)
	}
}

// Unsubscribe removes the first registration of l for et. l must be
// comparable, so ListenerFunc values cannot be removed.
func (d *Dispatcher) Unsubscribe(et EventType, l Listener) {
	ls := d.listeners[et]
	for i := range ls {
		if ls[i] == l {
			d.listeners[et] = append(ls[:i], ls[i+1:]...)
			return
		}
	}
}

// Dispatch delivers e to every subscriber of its type. A nil dispatcher
// drops the event.
func (d *Dispatcher) Dispatch(e Event) {
	if d == nil {
		return
	}
	for _, l := range d.listeners[e.Type] {
		l.OnEvent(e)
	}
}
