// Package session composes the per-invocation stack: an optional request signer, the
// JSON-RPC transport, the local history cache and the venue client on top of them.
package session

import (
	"context"
	"net/http"
	"sync"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/rpc"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/vadiminshakov/renexcli/internal/keystore"
	"github.com/vadiminshakov/renexcli/internal/renex"
	"github.com/vadiminshakov/renexcli/internal/storage/history"
)

var (
	// ErrAlreadyStarted is returned by Start on a session that was started before.
	ErrAlreadyStarted = errors.New("session already started")
	// ErrNotStarted is returned by Venue before Start or after Stop.
	ErrNotStarted = errors.New("session not started")
)

// Config is fixed for the lifetime of a session.
type Config struct {
	Network  string
	Endpoint string
	// Signer makes the session a signing one. Nil means read-only.
	Signer *keystore.Signer
	// Address is the trader of a read-only session. Ignored when Signer is set.
	Address       common.Address
	StorageDir    string
	AutoNormalize bool
}

// Transport is a dialed JSON-RPC connection.
type Transport interface {
	renex.Caller
	Close()
}

// Dialer opens a Transport to endpoint that sends its requests through httpClient.
type Dialer interface {
	Dial(ctx context.Context, endpoint string, httpClient *http.Client) (Transport, error)
}

// RPCDialer dials go-ethereum rpc clients.
type RPCDialer struct{}

// Dial implements Dialer.
func (RPCDialer) Dial(ctx context.Context, endpoint string, httpClient *http.Client) (Transport, error) {
	client, err := rpc.DialOptions(ctx, endpoint, rpc.WithHTTPClient(httpClient))
	if err != nil {
		return nil, err
	}
	return client, nil
}

// Option configures a Session.
type Option func(*Session)

// WithDialer replaces the default RPCDialer.
func WithDialer(d Dialer) Option {
	return func(s *Session) {
		s.dialer = d
	}
}

// WithRoundTripper sets the HTTP transport requests go through after signing.
func WithRoundTripper(rt http.RoundTripper) Option {
	return func(s *Session) {
		s.base = rt
	}
}

// WithLogger sets the session logger.
func WithLogger(l *zap.Logger) Option {
	return func(s *Session) {
		if l != nil {
			s.logger = l
		}
	}
}

// Session is started at most once and stopped at most once.
type Session struct {
	cfg    Config
	dialer Dialer
	base   http.RoundTripper
	logger *zap.Logger

	mu        sync.Mutex
	started   bool
	stopped   bool
	transport Transport
	history   *history.WALStore
	venue     *renex.Client
}

// Open prepares a session. Nothing is dialed until Start.
func Open(cfg Config, opts ...Option) *Session {
	s := &Session{
		cfg:    cfg,
		dialer: RPCDialer{},
		base:   http.DefaultTransport,
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Address is the trader the session acts for.
func (s *Session) Address() common.Address {
	if s.cfg.Signer != nil {
		return s.cfg.Signer.Address
	}
	return s.cfg.Address
}

// Start dials the endpoint, opens the history cache and builds the venue client.
func (s *Session) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return ErrAlreadyStarted
	}

	httpClient := &http.Client{Transport: s.base}
	if s.cfg.Signer != nil {
		httpClient.Transport = newSigningTransport(s.base, s.cfg.Signer)
	}

	transport, err := s.dialer.Dial(ctx, s.cfg.Endpoint, httpClient)
	if err != nil {
		return errors.Wrapf(renex.ErrRPCFailure, "dial %s: %v", s.cfg.Network, err)
	}

	var store *history.WALStore
	if s.cfg.StorageDir != "" {
		store, err = history.NewWALStore(s.cfg.StorageDir)
		if err != nil {
			transport.Close()
			return errors.Wrap(err, "open history")
		}
	}

	s.transport = transport
	s.history = store
	s.started = true

	var cache renex.History
	if store != nil {
		cache = store
	}
	s.venue = renex.NewClient(transport, cache, s.Address(), renex.Options{
		Network:       s.cfg.Network,
		AutoNormalize: s.cfg.AutoNormalize,
		CanSign:       s.cfg.Signer != nil,
	}, s.logger)

	s.logger.Debug("session started",
		zap.String("network", s.cfg.Network),
		zap.Bool("signing", s.cfg.Signer != nil))

	return nil
}

// Venue returns the venue client of a started session.
func (s *Session) Venue() (renex.SDK, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started || s.stopped {
		return nil, ErrNotStarted
	}
	return s.venue, nil
}

// Stop releases the history cache and the transport. Stopping twice, or stopping a
// session that never started, does nothing.
func (s *Session) Stop() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started || s.stopped {
		return nil
	}
	s.stopped = true

	var err error
	if s.history != nil {
		if cerr := s.history.Close(); cerr != nil {
			err = errors.Wrap(cerr, "close history")
		}
	}
	s.transport.Close()

	s.logger.Debug("session stopped")

	return err
}

// Run starts a session for cfg, hands it to fn and stops it afterwards whatever fn returns.
func Run(ctx context.Context, cfg Config, fn func(ctx context.Context, s *Session) error, opts ...Option) (err error) {
	s := Open(cfg, opts...)
	if err := s.Start(ctx); err != nil {
		return err
	}
	defer func() {
		if stopErr := s.Stop(); stopErr != nil && err == nil {
			err = stopErr
		}
	}()

	return fn(ctx, s)
}
