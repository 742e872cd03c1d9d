package tests

import (
	"context"
	"encoding/json"
	"strconv"
	"sync"
	"sync/atomic"

	"github.com/Steerify/Suretruqs-sub000/internal/backend"
	"github.com/Steerify/Suretruqs-sub000/internal/domain"
	"github.com/Steerify/Suretruqs-sub000/internal/push"
)

// ──────────────────────────────────────────────
// MOCK IDENTITY API
// ──────────────────────────────────────────────

// MockIdentityAPI is a mock implementation of backend.IdentityAPI.
type MockIdentityAPI struct {
	mu    sync.RWMutex
	user  *domain.User
	token string

	// Counters for verification
	MeCallCount    int32
	LoginCallCount int32

	// Error injection
	MeError    error
	LoginError error
}

// NewMockIdentityAPI creates a new mock identity API.
func NewMockIdentityAPI() *MockIdentityAPI {
	return &MockIdentityAPI{}
}

// SetIdentity sets the identity returned by Me and Login.
func (m *MockIdentityAPI) SetIdentity(user *domain.User, token string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.user = user
	m.token = token
}

func (m *MockIdentityAPI) Me(ctx context.Context) (*domain.User, error) {
	atomic.AddInt32(&m.MeCallCount, 1)
	if m.MeError != nil {
		return nil, m.MeError
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.user == nil {
		return nil, backend.ErrUnauthorized
	}
	copy := *m.user
	return &copy, nil
}

func (m *MockIdentityAPI) Login(ctx context.Context, email, password string) (*domain.User, string, error) {
	atomic.AddInt32(&m.LoginCallCount, 1)
	if m.LoginError != nil {
		return nil, "", m.LoginError
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.user == nil {
		return nil, "", backend.ErrUnauthorized
	}
	copy := *m.user
	return &copy, m.token, nil
}

// ──────────────────────────────────────────────
// MOCK SHIPMENT API
// ──────────────────────────────────────────────

// MockShipmentAPI is a mock implementation of backend.ShipmentAPI. It
// plays the authoritative server: every mutation returns the full
// post-mutation representation.
type MockShipmentAPI struct {
	mu        sync.RWMutex
	shipments map[string]*domain.Shipment
	nextID    int32

	// Counters for verification
	ListCallCount    int32
	CreateCallCount  int32
	AdvanceCallCount int32
	RespondCallCount int32

	// Error injection
	ListError    error
	CreateError  error
	PatchError   error
	DeleteError  error
	AdvanceError error
	CancelError  error
	IssueError   error
	AssignError  error
	RespondError error
	RateError    error
}

// NewMockShipmentAPI creates a new mock shipment API.
func NewMockShipmentAPI() *MockShipmentAPI {
	return &MockShipmentAPI{
		shipments: make(map[string]*domain.Shipment),
	}
}

// AddShipment seeds a shipment into the mock server.
func (m *MockShipmentAPI) AddShipment(s *domain.Shipment) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.shipments[s.ID] = s
}

// GetShipment returns the server-side copy of a shipment.
func (m *MockShipmentAPI) GetShipment(id string) *domain.Shipment {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.shipments[id]
	if !ok {
		return nil
	}
	copy := *s
	return &copy
}

func (m *MockShipmentAPI) List(ctx context.Context) ([]*domain.Shipment, error) {
	atomic.AddInt32(&m.ListCallCount, 1)
	if m.ListError != nil {
		return nil, m.ListError
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	result := make([]*domain.Shipment, 0, len(m.shipments))
	for _, s := range m.shipments {
		copy := *s
		result = append(result, &copy)
	}
	return result, nil
}

func (m *MockShipmentAPI) Create(ctx context.Context, req backend.CreateShipmentRequest) (*domain.Shipment, error) {
	atomic.AddInt32(&m.CreateCallCount, 1)
	if m.CreateError != nil {
		return nil, m.CreateError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	id := "shp-" + strconv.Itoa(int(atomic.AddInt32(&m.nextID, 1)))
	s := &domain.Shipment{
		ID:               id,
		TrackingCode:     "TRK-" + id,
		Pickup:           req.Pickup,
		Dropoff:          req.Dropoff,
		CargoDescription: req.CargoDescription,
		WeightKG:         req.WeightKG,
		Instructions:     req.Instructions,
		Status:           domain.StatusPendingReview,
	}
	m.shipments[id] = s
	copy := *s
	return &copy, nil
}

func (m *MockShipmentAPI) Patch(ctx context.Context, id string, patch backend.ShipmentPatch) (*domain.Shipment, error) {
	if m.PatchError != nil {
		return nil, m.PatchError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.shipments[id]
	if !ok {
		return nil, backend.ErrNotFound
	}
	if patch.Pickup != nil {
		s.Pickup = *patch.Pickup
	}
	if patch.Dropoff != nil {
		s.Dropoff = *patch.Dropoff
	}
	if patch.Instructions != nil {
		s.Instructions = *patch.Instructions
	}
	copy := *s
	return &copy, nil
}

func (m *MockShipmentAPI) Delete(ctx context.Context, id string) error {
	if m.DeleteError != nil {
		return m.DeleteError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.shipments[id]; !ok {
		return backend.ErrNotFound
	}
	delete(m.shipments, id)
	return nil
}

func (m *MockShipmentAPI) AdvanceStatus(ctx context.Context, id string) (*domain.Shipment, error) {
	atomic.AddInt32(&m.AdvanceCallCount, 1)
	if m.AdvanceError != nil {
		return nil, m.AdvanceError
	}
	return m.apply(id, domain.EventAdvance, nil)
}

func (m *MockShipmentAPI) Cancel(ctx context.Context, id, reason string) (*domain.Shipment, error) {
	if m.CancelError != nil {
		return nil, m.CancelError
	}
	return m.apply(id, domain.EventCancel, nil)
}

func (m *MockShipmentAPI) ReportIssue(ctx context.Context, id, description string) (*domain.Shipment, error) {
	if m.IssueError != nil {
		return nil, m.IssueError
	}
	return m.apply(id, domain.EventReportIssue, nil)
}

func (m *MockShipmentAPI) AssignDriver(ctx context.Context, id, driverID, notes string) (*domain.Shipment, error) {
	if m.AssignError != nil {
		return nil, m.AssignError
	}
	return m.apply(id, domain.EventAssignDriver, func(s *domain.Shipment) {
		s.DriverID = driverID
		s.AssignmentNotes = notes
	})
}

func (m *MockShipmentAPI) RespondAssignment(ctx context.Context, id string, accept bool) (*domain.Shipment, error) {
	atomic.AddInt32(&m.RespondCallCount, 1)
	if m.RespondError != nil {
		return nil, m.RespondError
	}
	event := domain.EventDriverAccept
	var after func(*domain.Shipment)
	if !accept {
		event = domain.EventDriverReject
		// A rejection releases the shipment: driver cleared in the
		// same logical operation.
		after = func(s *domain.Shipment) {
			s.DriverID = ""
			s.AssignmentNotes = ""
		}
	}
	return m.apply(id, event, after)
}

func (m *MockShipmentAPI) Rate(ctx context.Context, id string, rating int, review string) (*domain.Shipment, error) {
	if m.RateError != nil {
		return nil, m.RateError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.shipments[id]
	if !ok {
		return nil, backend.ErrNotFound
	}
	s.Rating = rating
	s.Review = review
	copy := *s
	return &copy, nil
}

// apply runs the lifecycle decision server-side and stores the result.
func (m *MockShipmentAPI) apply(id string, event domain.TransitionEvent, after func(*domain.Shipment)) (*domain.Shipment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.shipments[id]
	if !ok {
		return nil, backend.ErrNotFound
	}
	status, assignment, err := domain.Transition(s.Status, s.AssignmentStatus, event)
	if err != nil {
		return nil, err
	}
	s.Status = status
	s.AssignmentStatus = assignment
	if after != nil {
		after(s)
	}
	copy := *s
	return &copy, nil
}

// ──────────────────────────────────────────────
// MOCK USER API
// ──────────────────────────────────────────────

// MockUserAPI is a mock implementation of backend.UserAPI.
type MockUserAPI struct {
	mu      sync.RWMutex
	drivers []*domain.Driver
	users   []*domain.User

	// Counters for verification
	ListDriversCallCount int32

	// Error injection
	ListDriversError error
	ListUsersError   error
}

// NewMockUserAPI creates a new mock user API.
func NewMockUserAPI() *MockUserAPI {
	return &MockUserAPI{}
}

// AddDriver adds a driver to the roster.
func (m *MockUserAPI) AddDriver(d *domain.Driver) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.drivers = append(m.drivers, d)
}

func (m *MockUserAPI) ListDrivers(ctx context.Context) ([]*domain.Driver, error) {
	atomic.AddInt32(&m.ListDriversCallCount, 1)
	if m.ListDriversError != nil {
		return nil, m.ListDriversError
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	result := make([]*domain.Driver, 0, len(m.drivers))
	for _, d := range m.drivers {
		copy := *d
		result = append(result, &copy)
	}
	return result, nil
}

func (m *MockUserAPI) ListUsers(ctx context.Context) ([]*domain.User, error) {
	if m.ListUsersError != nil {
		return nil, m.ListUsersError
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	result := make([]*domain.User, 0, len(m.users))
	for _, u := range m.users {
		copy := *u
		result = append(result, &copy)
	}
	return result, nil
}

// ──────────────────────────────────────────────
// MOCK CHAT API
// ──────────────────────────────────────────────

// MockChatAPI is a mock implementation of backend.ChatAPI.
type MockChatAPI struct {
	mu      sync.RWMutex
	history []*domain.ChatMessage

	// Counters for verification
	HistoryCallCount int32

	// Error injection
	HistoryError error
}

// NewMockChatAPI creates a new mock chat API.
func NewMockChatAPI() *MockChatAPI {
	return &MockChatAPI{}
}

// AddHistory seeds a message into the bulk history.
func (m *MockChatAPI) AddHistory(msg *domain.ChatMessage) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.history = append(m.history, msg)
}

func (m *MockChatAPI) History(ctx context.Context) ([]*domain.ChatMessage, error) {
	atomic.AddInt32(&m.HistoryCallCount, 1)
	if m.HistoryError != nil {
		return nil, m.HistoryError
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	result := make([]*domain.ChatMessage, 0, len(m.history))
	for _, msg := range m.history {
		copy := *msg
		result = append(result, &copy)
	}
	return result, nil
}

// ──────────────────────────────────────────────
// MOCK NOTIFICATION API
// ──────────────────────────────────────────────

// MockNotificationAPI is a mock implementation of backend.NotificationAPI.
type MockNotificationAPI struct {
	mu            sync.RWMutex
	notifications []*domain.Notification

	// Error injection
	ListError        error
	MarkReadError    error
	MarkAllReadError error
}

// NewMockNotificationAPI creates a new mock notification API.
func NewMockNotificationAPI() *MockNotificationAPI {
	return &MockNotificationAPI{}
}

// AddNotification seeds a persisted notification.
func (m *MockNotificationAPI) AddNotification(n *domain.Notification) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.notifications = append(m.notifications, n)
}

func (m *MockNotificationAPI) List(ctx context.Context) ([]*domain.Notification, error) {
	if m.ListError != nil {
		return nil, m.ListError
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	result := make([]*domain.Notification, 0, len(m.notifications))
	for _, n := range m.notifications {
		copy := *n
		result = append(result, &copy)
	}
	return result, nil
}

func (m *MockNotificationAPI) MarkRead(ctx context.Context, id string) (*domain.Notification, error) {
	if m.MarkReadError != nil {
		return nil, m.MarkReadError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, n := range m.notifications {
		if n.ID == id {
			n.Read = true
			copy := *n
			return &copy, nil
		}
	}
	return nil, backend.ErrNotFound
}

func (m *MockNotificationAPI) MarkAllRead(ctx context.Context) error {
	if m.MarkAllReadError != nil {
		return m.MarkAllReadError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, n := range m.notifications {
		n.Read = true
	}
	return nil
}

// ──────────────────────────────────────────────
// MOCK PREFERENCE API
// ──────────────────────────────────────────────

// MockPreferenceAPI is a mock implementation of backend.PreferenceAPI.
type MockPreferenceAPI struct {
	mu        sync.RWMutex
	locations []*domain.SavedLocation
	settings  domain.Settings

	// Error injection
	SavedLocationsError error
	SettingsError       error
	UpdateError         error
}

// NewMockPreferenceAPI creates a new mock preference API.
func NewMockPreferenceAPI() *MockPreferenceAPI {
	return &MockPreferenceAPI{
		settings: domain.Settings{DistanceUnit: "km"},
	}
}

func (m *MockPreferenceAPI) SavedLocations(ctx context.Context) ([]*domain.SavedLocation, error) {
	if m.SavedLocationsError != nil {
		return nil, m.SavedLocationsError
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	result := make([]*domain.SavedLocation, 0, len(m.locations))
	for _, l := range m.locations {
		copy := *l
		result = append(result, &copy)
	}
	return result, nil
}

func (m *MockPreferenceAPI) Settings(ctx context.Context) (*domain.Settings, error) {
	if m.SettingsError != nil {
		return nil, m.SettingsError
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	copy := m.settings
	return &copy, nil
}

func (m *MockPreferenceAPI) UpdateSettings(ctx context.Context, s domain.Settings) (*domain.Settings, error) {
	if m.UpdateError != nil {
		return nil, m.UpdateError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.settings = s
	copy := m.settings
	return &copy, nil
}

// ──────────────────────────────────────────────
// MOCK PUSH CHANNEL
// ──────────────────────────────────────────────

// EmittedEvent is one recorded Emit call.
type EmittedEvent struct {
	Event   string
	Payload any
}

// MockChannel is a mock push channel. Tests drive server behavior with
// Fire and SetState; emitted client events are recorded for inspection.
type MockChannel struct {
	mu        sync.RWMutex
	state     push.State
	handlers  map[string][]push.Handler
	stateSubs []func(push.State)
	emitted   []EmittedEvent

	// Error injection
	EmitError error
}

// NewMockChannel creates a mock channel in the disconnected state.
func NewMockChannel() *MockChannel {
	return &MockChannel{
		state:    push.StateDisconnected,
		handlers: make(map[string][]push.Handler),
	}
}

func (m *MockChannel) Subscribe(event string, handler push.Handler) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.handlers[event] = append(m.handlers[event], handler)
}

func (m *MockChannel) Emit(event string, payload any) error {
	if m.EmitError != nil {
		return m.EmitError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.emitted = append(m.emitted, EmittedEvent{Event: event, Payload: payload})
	return nil
}

func (m *MockChannel) State() push.State {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.state
}

func (m *MockChannel) OnStateChange(fn func(push.State)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.stateSubs = append(m.stateSubs, fn)
}

// SetState moves the mock connection state and notifies subscribers,
// the way a real connect or drop would.
func (m *MockChannel) SetState(s push.State) {
	m.mu.Lock()
	m.state = s
	subs := make([]func(push.State), len(m.stateSubs))
	copy(subs, m.stateSubs)
	m.mu.Unlock()
	for _, fn := range subs {
		fn(s)
	}
}

// Fire delivers a server event to every subscribed handler, encoding
// the payload the way the wire would.
func (m *MockChannel) Fire(event string, payload any) {
	data, err := json.Marshal(payload)
	if err != nil {
		panic(err)
	}
	m.mu.RLock()
	handlers := make([]push.Handler, len(m.handlers[event]))
	copy(handlers, m.handlers[event])
	m.mu.RUnlock()
	for _, h := range handlers {
		h(data)
	}
}

// Emitted returns a copy of all recorded Emit calls.
func (m *MockChannel) Emitted() []EmittedEvent {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]EmittedEvent, len(m.emitted))
	copy(out, m.emitted)
	return out
}

// EmittedOf returns the recorded Emit calls for one event type.
func (m *MockChannel) EmittedOf(event string) []EmittedEvent {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []EmittedEvent
	for _, e := range m.emitted {
		if e.Event == event {
			out = append(out, e)
		}
	}
	return out
}

// ClearEmitted drops the recorded Emit calls.
func (m *MockChannel) ClearEmitted() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.emitted = nil
}

// ──────────────────────────────────────────────
// MOCK TOKEN STORE
// ──────────────────────────────────────────────

// MockTokenStore is an in-memory session.TokenStore.
type MockTokenStore struct {
	mu    sync.RWMutex
	token string

	// Counters for verification
	SaveCallCount  int32
	ClearCallCount int32

	// Error injection
	SaveError  error
	ClearError error
}

// NewMockTokenStore creates a mock token store holding the given token.
func NewMockTokenStore(token string) *MockTokenStore {
	return &MockTokenStore{token: token}
}

func (m *MockTokenStore) Token() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.token
}

func (m *MockTokenStore) Save(token string) error {
	atomic.AddInt32(&m.SaveCallCount, 1)
	if m.SaveError != nil {
		return m.SaveError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.token = token
	return nil
}

func (m *MockTokenStore) Clear() error {
	atomic.AddInt32(&m.ClearCallCount, 1)
	if m.ClearError != nil {
		return m.ClearError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.token = ""
	return nil
}

// ──────────────────────────────────────────────
// MOCK PUSH CONNECTION
// ──────────────────────────────────────────────

// MockPushConn is the connect/disconnect surface handed to the
// bootstrapper.
type MockPushConn struct {
	// Counters for verification
	ConnectCallCount    int32
	DisconnectCallCount int32

	// Error injection
	ConnectError error
}

// NewMockPushConn creates a new mock push connection.
func NewMockPushConn() *MockPushConn {
	return &MockPushConn{}
}

func (m *MockPushConn) Connect(ctx context.Context) error {
	atomic.AddInt32(&m.ConnectCallCount, 1)
	return m.ConnectError
}

func (m *MockPushConn) Disconnect() {
	atomic.AddInt32(&m.DisconnectCallCount, 1)
}
