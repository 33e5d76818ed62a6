package dbus

import (
	"fmt"
	"log/slog"
	"sync"

	"github.com/godbus/dbus/v5"
	"github.com/godbus/dbus/v5/introspect"
)

const (
	// DBusInterface is the settings interface name.
	DBusInterface = "io.github.jmylchreest.DaysUntil.Settings"
	// DBusPath is the settings object path.
	DBusPath = "/io/github/jmylchreest/DaysUntil"
	// DBusBusName is the bus name to claim.
	DBusBusName = "io.github.jmylchreest.DaysUntil"
)

// MessageHandler is called for every decoded Send call. It returns an error
// when the message could not be accepted; the call then fails and the
// message is reported as dropped.
type MessageHandler func(msg *SettingsMessage) error

// DropHandler is called when an inbound message is lost.
type DropHandler func(reason string)

// SettingsServer exports the companion settings channel.
type SettingsServer struct {
	conn   *dbus.Conn
	logger *slog.Logger

	messageHandler MessageHandler
	dropHandler    DropHandler

	mu         sync.RWMutex
	serverInfo ServerInfo
	running    bool
	received   uint64
}

// NewSettingsServer creates a new SettingsServer.
func NewSettingsServer(logger *slog.Logger) *SettingsServer {
	if logger == nil {
		logger = slog.Default()
	}
	return &SettingsServer{
		logger:     logger,
		serverInfo: DefaultServerInfo(),
	}
}

// SetMessageHandler sets the handler called for each inbound message.
func (s *SettingsServer) SetMessageHandler(handler MessageHandler) {
	s.messageHandler = handler
}

// SetDropHandler sets the handler called when a message is dropped.
func (s *SettingsServer) SetDropHandler(handler DropHandler) {
	s.dropHandler = handler
}

// SetServerInfo sets the information returned by GetServerInformation.
func (s *SettingsServer) SetServerInfo(info ServerInfo) {
	s.serverInfo = info
}

// Start connects to the session bus and exports the settings service.
func (s *SettingsServer) Start() error {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return fmt.Errorf("server already running")
	}
	s.mu.Unlock()

	conn, err := dbus.SessionBus()
	if err != nil {
		return fmt.Errorf("failed to connect to session bus: %w", err)
	}
	s.conn = conn

	if err := conn.Export(s, DBusPath, DBusInterface); err != nil {
		return fmt.Errorf("failed to export object: %w", err)
	}

	node := &introspect.Node{
		Name: DBusPath,
		Interfaces: []introspect.Interface{
			introspect.IntrospectData,
			{
				Name:    DBusInterface,
				Methods: settingsMethods(),
			},
		},
	}
	if err := conn.Export(introspect.NewIntrospectable(node), DBusPath,
		"org.freedesktop.DBus.Introspectable"); err != nil {
		return fmt.Errorf("failed to export introspectable: %w", err)
	}

	reply, err := conn.RequestName(DBusBusName, dbus.NameFlagDoNotQueue)
	if err != nil {
		return fmt.Errorf("failed to request bus name: %w", err)
	}
	if reply != dbus.RequestNameReplyPrimaryOwner {
		return fmt.Errorf("bus name %s already taken (is another face running?)", DBusBusName)
	}

	s.mu.Lock()
	s.running = true
	s.mu.Unlock()

	s.logger.Info("D-Bus settings server started", "interface", DBusInterface, "path", DBusPath)
	return nil
}

// Stop releases the bus name and unexports the object.
func (s *SettingsServer) Stop() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.running {
		return nil
	}
	s.running = false

	if s.conn != nil {
		if _, err := s.conn.ReleaseName(DBusBusName); err != nil {
			s.logger.Warn("failed to release bus name", "error", err)
		}
		_ = s.conn.Export(nil, DBusPath, DBusInterface)
		_ = s.conn.Export(nil, DBusPath, "org.freedesktop.DBus.Introspectable")
		// Don't close the connection as it's shared (SessionBus)
	}

	s.logger.Info("D-Bus settings server stopped", "received", s.received)
	return nil
}

// Send receives a settings message from the companion.
// D-Bus method: Send(a{sv}) -> s
func (s *SettingsServer) Send(entries map[string]dbus.Variant) (string, *dbus.Error) {
	msg, err := NewSettingsMessage(entries)
	if err != nil {
		s.drop(err.Error())
		return "", dbus.MakeFailedError(err)
	}

	s.mu.Lock()
	s.received++
	s.mu.Unlock()

	s.logger.Debug("Send called", "id", msg.ID, "keys", msg.Keys())

	if _, present, err := msg.EventTuple(); present && err != nil {
		s.logger.Warn("ignoring malformed event entry", "id", msg.ID, "error", err)
	}

	if s.messageHandler == nil {
		s.drop("no handler")
		return "", dbus.MakeFailedError(fmt.Errorf("face is not accepting settings"))
	}

	if err := s.messageHandler(msg); err != nil {
		s.drop(err.Error())
		return "", dbus.MakeFailedError(err)
	}

	return msg.ID, nil
}

func (s *SettingsServer) drop(reason string) {
	if s.dropHandler != nil {
		s.dropHandler(reason)
		return
	}
	s.logger.Debug("inbound message dropped", "reason", reason)
}

// GetServerInformation returns information about the settings service.
// D-Bus method: GetServerInformation() -> (sss)
func (s *SettingsServer) GetServerInformation() (string, string, string, *dbus.Error) {
	s.logger.Debug("GetServerInformation called")
	return s.serverInfo.Name, s.serverInfo.Vendor, s.serverInfo.Version, nil
}

// settingsMethods returns the D-Bus method introspection data.
func settingsMethods() []introspect.Method {
	return []introspect.Method{
		{
			Name: "Send",
			Args: []introspect.Arg{
				{Name: "settings", Type: "a{sv}", Direction: "in"},
				{Name: "id", Type: "s", Direction: "out"},
			},
		},
		{
			Name: "GetServerInformation",
			Args: []introspect.Arg{
				{Name: "name", Type: "s", Direction: "out"},
				{Name: "vendor", Type: "s", Direction: "out"},
				{Name: "version", Type: "s", Direction: "out"},
			},
		},
	}
}
