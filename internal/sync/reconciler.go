// Package sync owns the canonical client-side state: shipments,
// drivers, chat threads, typing flags, live positions, notifications
// and the session identity. It merges REST snapshots with push events
// and is the only component allowed to mutate that state; UI layers
// act through its exposed actions and read through its read models.
package sync

import (
	"context"
	"errors"
	"log"
	"sort"
	"sync"
	"time"

	"github.com/Steerify/Suretruqs-sub000/internal/backend"
	"github.com/Steerify/Suretruqs-sub000/internal/domain"
	"github.com/Steerify/Suretruqs-sub000/internal/interp"
	"github.com/Steerify/Suretruqs-sub000/internal/push"
)

const (
	// notificationCap bounds each notification list; oldest entries
	// are dropped beyond it.
	notificationCap = 30

	// typingExpiry clears a typing flag that the remote peer never
	// retracted (disconnect mid-type).
	typingExpiry = 6 * time.Second
)

// Channel is the push-channel surface the reconciler consumes.
type Channel interface {
	Subscribe(event string, handler push.Handler)
	Emit(event string, payload any) error
	State() push.State
	OnStateChange(fn func(push.State))
}

// APIs bundles the REST collaborators.
type APIs struct {
	Identity      backend.IdentityAPI
	Shipments     backend.ShipmentAPI
	Users         backend.UserAPI
	Chat          backend.ChatAPI
	Notifications backend.NotificationAPI
	Preferences   backend.PreferenceAPI
}

// AlertFunc surfaces a notification as a transient visual alert.
// adminFeed distinguishes the admin-broadcast channel.
type AlertFunc func(n domain.Notification, adminFeed bool)

// Reconciler is the client-side system of record.
type Reconciler struct {
	api     APIs
	channel Channel
	interp  *interp.Interpolator

	mu                 sync.RWMutex
	user               *domain.User
	shipments          map[string]*domain.Shipment
	drivers            map[string]*domain.Driver
	chats              map[string][]domain.ChatMessage
	seenMessages       map[string]struct{}
	typing             map[string]bool
	typingTimers       map[string]*time.Timer
	positions          map[string]domain.LivePosition
	notifications      []domain.Notification
	adminNotifications []domain.Notification
	savedLocations     []domain.SavedLocation
	settings           *domain.Settings
	chatLoaded         bool

	alertFn      AlertFunc
	onSessionEnd func()
}

// New creates a Reconciler, subscribes it to the push channel's events
// and arranges room joins on every reconnect.
func New(api APIs, channel Channel, ip *interp.Interpolator) *Reconciler {
	r := &Reconciler{
		api:          api,
		channel:      channel,
		interp:       ip,
		shipments:    make(map[string]*domain.Shipment),
		drivers:      make(map[string]*domain.Driver),
		chats:        make(map[string][]domain.ChatMessage),
		seenMessages: make(map[string]struct{}),
		typing:       make(map[string]bool),
		typingTimers: make(map[string]*time.Timer),
		positions:    make(map[string]domain.LivePosition),
	}

	if channel != nil {
		channel.Subscribe(push.EventNewMessage, r.onNewMessage)
		channel.Subscribe(push.EventUserTyping, r.onUserTyping)
		channel.Subscribe(push.EventLocationUpdated, r.onLocationUpdated)
		channel.Subscribe(push.EventGlobalLocationUpdated, r.onLocationUpdated)
		channel.Subscribe(push.EventNewNotification, r.onNotification)
		channel.Subscribe(push.EventAdminNotification, r.onAdminNotification)
		channel.OnStateChange(func(s push.State) {
			if s == push.StateConnected {
				r.JoinRooms()
			}
		})
	}

	return r
}

// OnAlert registers the transient-alert hook.
func (r *Reconciler) OnAlert(fn AlertFunc) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.alertFn = fn
}

// OnSessionEnd registers the hook invoked when an unauthorized REST
// response destroys the session (token teardown lives with the caller).
func (r *Reconciler) OnSessionEnd(fn func()) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.onSessionEnd = fn
}

// SetUser installs the authenticated identity.
func (r *Reconciler) SetUser(u *domain.User) {
	r.mu.Lock()
	r.user = u
	r.mu.Unlock()
	r.JoinRooms()
}

// User returns the current identity, or nil.
func (r *Reconciler) User() *domain.User {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.user == nil {
		return nil
	}
	u := *r.user
	return &u
}

// Reset clears all state. Used on logout and on an observed 401.
func (r *Reconciler) Reset() {
	r.mu.Lock()
	r.user = nil
	r.shipments = make(map[string]*domain.Shipment)
	r.drivers = make(map[string]*domain.Driver)
	r.chats = make(map[string][]domain.ChatMessage)
	r.seenMessages = make(map[string]struct{})
	r.typing = make(map[string]bool)
	for _, t := range r.typingTimers {
		t.Stop()
	}
	r.typingTimers = make(map[string]*time.Timer)
	r.positions = make(map[string]domain.LivePosition)
	r.notifications = nil
	r.adminNotifications = nil
	r.savedLocations = nil
	r.settings = nil
	r.chatLoaded = false
	r.mu.Unlock()

	if r.interp != nil {
		r.interp.StopAll()
	}
}

// observeError routes a REST error: an explicit unauthorized response
// ends the session; everything else stays with the caller.
func (r *Reconciler) observeError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, backend.ErrUnauthorized) {
		r.endSession()
	}
	return err
}

func (r *Reconciler) endSession() {
	log.Printf("sync: backend rejected token, ending session")
	r.mu.RLock()
	end := r.onSessionEnd
	r.mu.RUnlock()
	r.Reset()
	if end != nil {
		end()
	}
}

// ── Initial / secondary loads ──────────────────────────────

// LoadInitial runs every secondary fetch independently. Each failure is
// logged and swallowed: a broken driver list must not revert a
// validated identity. Only an unauthorized response ends the session.
func (r *Reconciler) LoadInitial(ctx context.Context) {
	r.LoadShipments(ctx)
	r.LoadDrivers(ctx)
	r.LoadChatHistory(ctx)
	r.LoadNotifications(ctx)
	r.LoadPreferences(ctx)
}

// LoadShipments replaces the shipment collection from a REST snapshot.
func (r *Reconciler) LoadShipments(ctx context.Context) {
	shipments, err := r.api.Shipments.List(ctx)
	if err != nil {
		log.Printf("sync: shipment snapshot failed: %v", err)
		_ = r.observeError(err)
		return
	}

	r.mu.Lock()
	r.shipments = make(map[string]*domain.Shipment, len(shipments))
	for _, s := range shipments {
		r.shipments[s.ID] = s
	}
	r.mu.Unlock()

	r.JoinRooms()
}

// LoadDrivers replaces the driver collection.
func (r *Reconciler) LoadDrivers(ctx context.Context) {
	drivers, err := r.api.Users.ListDrivers(ctx)
	if err != nil {
		log.Printf("sync: driver snapshot failed: %v", err)
		_ = r.observeError(err)
		return
	}

	r.mu.Lock()
	r.drivers = make(map[string]*domain.Driver, len(drivers))
	for _, d := range drivers {
		r.drivers[d.ID] = d
	}
	r.mu.Unlock()
}

// LoadChatHistory runs the one-time bulk history fetch. It is a no-op
// until the shipment collection is populated, and on repeat calls.
// History messages are inserted oldest-first ahead of any live messages
// already received; the server-assigned id is the dedupe key.
func (r *Reconciler) LoadChatHistory(ctx context.Context) {
	r.mu.RLock()
	skip := r.chatLoaded || len(r.shipments) == 0
	r.mu.RUnlock()
	if skip {
		return
	}

	history, err := r.api.Chat.History(ctx)
	if err != nil {
		log.Printf("sync: chat history fetch failed: %v", err)
		_ = r.observeError(err)
		return
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.chatLoaded = true

	byThread := make(map[string][]domain.ChatMessage)
	for _, m := range history {
		if _, dup := r.seenMessages[m.ID]; dup {
			continue
		}
		r.seenMessages[m.ID] = struct{}{}
		msg := *m
		msg.IsMe = r.user != nil && msg.SenderID == r.user.ID
		byThread[msg.ShipmentID] = append(byThread[msg.ShipmentID], msg)
	}

	for shipmentID, msgs := range byThread {
		sort.SliceStable(msgs, func(i, j int) bool {
			return msgs[i].SentAt.Before(msgs[j].SentAt)
		})
		// Live messages that raced the bulk fetch stay behind history.
		r.chats[shipmentID] = append(msgs, r.chats[shipmentID]...)
	}
}

// LoadNotifications replaces the persisted per-user notification list.
func (r *Reconciler) LoadNotifications(ctx context.Context) {
	notifications, err := r.api.Notifications.List(ctx)
	if err != nil {
		log.Printf("sync: notification fetch failed: %v", err)
		_ = r.observeError(err)
		return
	}

	r.mu.Lock()
	r.notifications = r.notifications[:0]
	for _, n := range notifications {
		r.notifications = appendBounded(r.notifications, *n)
	}
	r.mu.Unlock()
}

// LoadPreferences fetches saved locations and settings.
func (r *Reconciler) LoadPreferences(ctx context.Context) {
	locations, err := r.api.Preferences.SavedLocations(ctx)
	if err != nil {
		log.Printf("sync: saved locations fetch failed: %v", err)
		_ = r.observeError(err)
	} else {
		r.mu.Lock()
		r.savedLocations = make([]domain.SavedLocation, 0, len(locations))
		for _, l := range locations {
			r.savedLocations = append(r.savedLocations, *l)
		}
		r.mu.Unlock()
	}

	settings, err := r.api.Preferences.Settings(ctx)
	if err != nil {
		log.Printf("sync: settings fetch failed: %v", err)
		_ = r.observeError(err)
		return
	}
	r.mu.Lock()
	r.settings = settings
	r.mu.Unlock()
}

// ── Read models ────────────────────────────────────────────

// Shipments returns the shipment collection, newest first.
func (r *Reconciler) Shipments() []domain.Shipment {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]domain.Shipment, 0, len(r.shipments))
	for _, s := range r.shipments {
		out = append(out, *s)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out
}

// Shipment returns one shipment by id.
func (r *Reconciler) Shipment(id string) (domain.Shipment, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.shipments[id]
	if !ok {
		return domain.Shipment{}, false
	}
	return *s, true
}

// Drivers returns the driver collection with availability derived:
// a driver with any shipment in ASSIGNED, PICKED_UP or IN_TRANSIT is
// BUSY regardless of the stored flag. BUSY is never stored.
func (r *Reconciler) Drivers() []domain.Driver {
	r.mu.RLock()
	defer r.mu.RUnlock()

	busy := make(map[string]bool)
	for _, s := range r.shipments {
		if s.Active() && s.DriverID != "" {
			busy[s.DriverID] = true
		}
	}

	out := make([]domain.Driver, 0, len(r.drivers))
	for _, d := range r.drivers {
		driver := *d
		if busy[driver.ID] {
			driver.Availability = domain.DriverBusy
		}
		out = append(out, driver)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// ChatThread returns the messages of one shipment thread in render
// order.
func (r *Reconciler) ChatThread(shipmentID string) []domain.ChatMessage {
	r.mu.RLock()
	defer r.mu.RUnlock()
	msgs := r.chats[shipmentID]
	out := make([]domain.ChatMessage, len(msgs))
	copy(out, msgs)
	return out
}

// Typing reports whether the remote party of a thread is typing.
func (r *Reconciler) Typing(shipmentID string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.typing[shipmentID]
}

// Position returns the last observed live position for a shipment.
func (r *Reconciler) Position(shipmentID string) (domain.LivePosition, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.positions[shipmentID]
	return p, ok
}

// Positions returns all live positions.
func (r *Reconciler) Positions() []domain.LivePosition {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]domain.LivePosition, 0, len(r.positions))
	for _, p := range r.positions {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ShipmentID < out[j].ShipmentID })
	return out
}

// Notifications returns the per-user notification list, newest last.
func (r *Reconciler) Notifications() []domain.Notification {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]domain.Notification, len(r.notifications))
	copy(out, r.notifications)
	return out
}

// AdminNotifications returns the admin-broadcast feed. It is never
// merged with the per-user list.
func (r *Reconciler) AdminNotifications() []domain.Notification {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]domain.Notification, len(r.adminNotifications))
	copy(out, r.adminNotifications)
	return out
}

// SavedLocations returns the user's saved locations.
func (r *Reconciler) SavedLocations() []domain.SavedLocation {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]domain.SavedLocation, len(r.savedLocations))
	copy(out, r.savedLocations)
	return out
}

// Settings returns the user's settings, or zero values before load.
func (r *Reconciler) Settings() domain.Settings {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.settings == nil {
		return domain.Settings{}
	}
	return *r.settings
}

// applyShipment stores the server's representation of a shipment and
// re-runs room joins, since membership may have changed.
func (r *Reconciler) applyShipment(s *domain.Shipment) {
	r.mu.Lock()
	r.shipments[s.ID] = s
	r.mu.Unlock()
	r.JoinRooms()
}

// appendBounded appends keeping at most notificationCap entries,
// dropping the oldest.
func appendBounded(list []domain.Notification, n domain.Notification) []domain.Notification {
	list = append(list, n)
	if len(list) > notificationCap {
		list = list[len(list)-notificationCap:]
	}
	return list
}
