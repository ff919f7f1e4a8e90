// Package socket exposes a command executor over a Unix domain socket.
//
// Each message is a 4-byte big-endian length followed by that many bytes of
// JSON. Clients send commands and receive one response per command.
package socket

import (
	"errors"
	"fmt"
	"io"
	"net"
	"os"
	"sync"

	"github.com/pstuifzand/go-jsonhelper/internal/metrics"
	"github.com/rs/zerolog"
)

// Executor runs one JSON command and returns the JSON response.
type Executor interface {
	ExecuteCommand(cmdJSON string) string
}

// UpdateCallback is called after each command executed through the socket
type UpdateCallback func()

// Server manages the Unix domain socket interface for an Executor
type Server struct {
	socketPath string
	executor   Executor
	logger     zerolog.Logger

	listener  net.Listener
	mu        sync.Mutex
	conns     map[net.Conn]struct{}
	callbacks []UpdateCallback // called after each command to refresh UIs
	done      chan struct{}
	stopOnce  sync.Once
	wg        sync.WaitGroup
}

// NewServer creates a new socket server instance
func NewServer(socketPath string, executor Executor, logger zerolog.Logger) *Server {
	return &Server{
		socketPath: socketPath,
		executor:   executor,
		logger:     logger.With().Str("socket", socketPath).Logger(),
		conns:      make(map[net.Conn]struct{}),
		done:       make(chan struct{}),
	}
}

// SetUpdateCallback adds a callback to be called after each socket command
func (s *Server) SetUpdateCallback(callback UpdateCallback) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.callbacks = append(s.callbacks, callback)
}

// Path returns the socket file path.
func (s *Server) Path() string {
	return s.socketPath
}

// Start begins listening on the Unix domain socket
func (s *Server) Start() error {
	// Remove a stale socket file left by a previous run
	if err := os.Remove(s.socketPath); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove existing socket: %w", err)
	}

	listener, err := net.Listen("unix", s.socketPath)
	if err != nil {
		return fmt.Errorf("failed to listen on socket %s: %w", s.socketPath, err)
	}
	s.listener = listener

	s.wg.Add(1)
	go s.acceptConnections()

	s.logger.Info().Msg("socket server listening")
	return nil
}

// acceptConnections accepts incoming connections (multiple clients supported)
func (s *Server) acceptConnections() {
	defer s.wg.Done()

	for {
		conn, err := s.listener.Accept()
		if err != nil {
			select {
			case <-s.done:
				return
			default:
			}
			if errors.Is(err, net.ErrClosed) {
				return
			}
			s.logger.Warn().Err(err).Msg("accept failed")
			continue
		}

		if !s.track(conn) {
			conn.Close()
			return
		}

		s.wg.Add(1)
		go s.handleClient(conn)
	}
}

// track registers a live connection; it reports false once the server is stopping.
func (s *Server) track(conn net.Conn) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	select {
	case <-s.done:
		return false
	default:
	}
	s.conns[conn] = struct{}{}
	return true
}

func (s *Server) untrack(conn net.Conn) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.conns, conn)
}

// handleClient handles communication with a connected client
func (s *Server) handleClient(conn net.Conn) {
	defer s.wg.Done()
	defer s.untrack(conn)
	defer conn.Close()
	defer metrics.SocketClientConnected()()

	for {
		data, err := readMessage(conn)
		if err != nil {
			if errors.Is(err, io.EOF) || errors.Is(err, net.ErrClosed) {
				return
			}
			s.logger.Debug().Err(err).Msg("read from client failed")
			return
		}

		response := s.executor.ExecuteCommand(string(data))

		if err := writeMessage(conn, []byte(response)); err != nil {
			s.logger.Debug().Err(err).Msg("write to client failed")
			return
		}

		s.mu.Lock()
		callbacks := append([]UpdateCallback{}, s.callbacks...)
		s.mu.Unlock()
		for _, callback := range callbacks {
			callback()
		}
	}
}

// Stop shuts the server down: it closes the listener and every client
// connection, waits for their goroutines and removes the socket file.
func (s *Server) Stop() error {
	var err error
	s.stopOnce.Do(func() {
		s.mu.Lock()
		close(s.done)
		for conn := range s.conns {
			conn.Close()
		}
		s.mu.Unlock()

		if s.listener != nil {
			err = s.listener.Close()
		}
		s.wg.Wait()

		if rmErr := os.Remove(s.socketPath); rmErr != nil && !os.IsNotExist(rmErr) && err == nil {
			err = rmErr
		}
		s.logger.Info().Msg("socket server stopped")
	})
	return err
}

// Wait blocks until the server is fully shut down
func (s *Server) Wait() {
	<-s.done
	s.wg.Wait()
}
