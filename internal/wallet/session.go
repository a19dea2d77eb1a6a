// Package wallet exposes the connected wallet's state to the rest of the
// application and relays connect, select and disconnect actions to an
// injected Adapter.
package wallet

import (
	"context"
	"errors"
)

var (
	// ErrNoSession is returned when the session façade is requested from a
	// context that was never given one.
	ErrNoSession = errors.New("wallet session used outside of its provider scope")

	// ErrNoAdapter is returned when an action is requested before an adapter is attached
	ErrNoAdapter = errors.New("no wallet adapter configured")

	// ErrSuperseded is returned to a connection attempt that was replaced by a later one
	ErrSuperseded = errors.New("wallet connection attempt superseded")

	// ErrEmptyAccount is returned when an adapter reports success without an account
	ErrEmptyAccount = errors.New("wallet adapter returned an empty account")

	// ErrConnectFailed wraps every error an adapter returns from Connect
	ErrConnectFailed = errors.New("wallet connection failed")
)

// Status is the connection state of the session
type Status string

const (
	StatusDisconnected Status = "disconnected"
	StatusConnecting   Status = "connecting"
	StatusConnected    Status = "connected"
)

// gaugeValue maps a status onto the session status metric
func (s Status) gaugeValue() float64 {
	switch s {
	case StatusConnecting:
		return 1
	case StatusConnected:
		return 2
	}
	return 0
}

// ReadyState describes whether a wallet provider can be used right away
type ReadyState string

const (
	ReadyInstalled   ReadyState = "Installed"
	ReadyNotDetected ReadyState = "NotDetected"
	ReadyLoadable    ReadyState = "Loadable"
)

// Option is a selectable wallet provider
type Option struct {
	Name       string     `json:"name"`
	Icon       string     `json:"icon,omitempty"`
	ReadyState ReadyState `json:"readyState"`
}

// Account is the active account of a connected wallet
type Account struct {
	Address string `json:"address"`
	// Balance in SOL, set when the adapter verified the account on the cluster
	Balance *float64 `json:"balance,omitempty"`
}

// Session is a point-in-time view of the wallet connection
type Session struct {
	Status  Status   `json:"status"`
	Wallet  string   `json:"wallet,omitempty"`
	Account Account  `json:"account"`
	Wallets []Option `json:"wallets"`
}

// Connected reports whether the session has a connected account
func (s Session) Connected() bool {
	return s.Status == StatusConnected && s.Account.Address != ""
}

// AdapterState is what an adapter reports about itself
type AdapterState struct {
	Wallets   []Option
	Connected bool
	Wallet    string
	Account   Account
}

// Adapter is the external wallet collaborator. It owns the real connection;
// the Facade only mirrors what it reports.
type Adapter interface {
	// Snapshot returns the adapter's current wallets and connection.
	Snapshot() AdapterState

	// Connect opens a connection using the named wallet provider.
	Connect(ctx context.Context, name string) (Account, error)

	// Disconnect closes the active connection.
	Disconnect(ctx context.Context) error
}
