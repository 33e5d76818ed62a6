package dbus

import (
	"context"
	"fmt"

	"github.com/godbus/dbus/v5"

	"github.com/jmylchreest/daysuntil/internal/message"
)

// Client calls a running face over the session bus.
type Client struct {
	conn *dbus.Conn
	obj  dbus.BusObject
}

// NewClient connects to the session bus.
func NewClient() (*Client, error) {
	conn, err := dbus.SessionBus()
	if err != nil {
		return nil, fmt.Errorf("failed to connect to session bus: %w", err)
	}
	return &Client{
		conn: conn,
		obj:  conn.Object(DBusBusName, DBusPath),
	}, nil
}

// Running reports whether a face owns the bus name.
func (c *Client) Running(ctx context.Context) bool {
	var hasOwner bool
	err := c.conn.BusObject().CallWithContext(ctx, "org.freedesktop.DBus.NameHasOwner", 0, DBusBusName).Store(&hasOwner)
	return err == nil && hasOwner
}

// Send delivers s to the running face and returns the message id it assigned.
func (c *Client) Send(ctx context.Context, s message.Settings) (string, error) {
	if s.Empty() {
		return "", fmt.Errorf("nothing to send")
	}

	var id string
	call := c.obj.CallWithContext(ctx, DBusInterface+".Send", 0, EncodeSettings(s))
	if err := call.Store(&id); err != nil {
		return "", fmt.Errorf("failed to send settings: %w", err)
	}
	return id, nil
}

// ServerInformation queries the running face.
func (c *Client) ServerInformation(ctx context.Context) (ServerInfo, error) {
	var info ServerInfo
	call := c.obj.CallWithContext(ctx, DBusInterface+".GetServerInformation", 0)
	if err := call.Store(&info.Name, &info.Vendor, &info.Version); err != nil {
		return ServerInfo{}, fmt.Errorf("failed to query face: %w", err)
	}
	return info, nil
}
