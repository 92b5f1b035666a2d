// Package server exposes the database over TCP: statements arrive
// separated by semicolons and results stream back line by line.
package server

import (
	"bufio"
	"errors"
	"fmt"
	"net"
	"strings"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/joeandaverde/leafdb/engine"
	"github.com/joeandaverde/leafdb/internal/interpret"
)

// ErrServerClosed is returned by Serve after Shutdown.
var ErrServerClosed = errors.New("leafdb: server closed")

// Server accepts client connections and runs their statements against
// a single engine. The engine serializes operations; the server only
// fans in.
type Server struct {
	log        logrus.FieldLogger
	shutdownCh chan struct{}
}

// NewServer creates a Server.
func NewServer(log logrus.FieldLogger) *Server {
	return &Server{
		log:        log,
		shutdownCh: make(chan struct{}),
	}
}

// Serve accepts connections until the listener fails or Shutdown is called.
func (s *Server) Serve(ln net.Listener, e *engine.Engine) error {
	for {
		conn, err := ln.Accept()
		if err != nil {
			select {
			case <-s.shutdownCh:
				return ErrServerClosed
			default:
			}
			return fmt.Errorf("accept connection: %w", err)
		}

		select {
		case <-s.shutdownCh:
			conn.Close()
			return ErrServerClosed
		default:
		}

		go s.handle(conn, e)
	}
}

// Shutdown stops accepting connections.
func (s *Server) Shutdown() {
	close(s.shutdownCh)
}

// handle runs one client connection to completion.
func (s *Server) handle(conn net.Conn, e *engine.Engine) {
	connLog := s.log.WithFields(logrus.Fields{
		"conn":   uuid.New().String(),
		"remote": conn.RemoteAddr().String(),
	})
	connLog.Info("client connected")
	defer func() {
		connLog.Info("client disconnected")
		conn.Close()
	}()

	scanner := bufio.NewScanner(conn)
	scanner.Split(onSemicolon)
	writer := bufio.NewWriter(conn)

	for scanner.Scan() {
		select {
		case <-s.shutdownCh:
			return
		default:
		}

		text := strings.TrimSpace(scanner.Text())
		if text == "" {
			continue
		}

		result, err := interpret.Execute(e, text)
		if err != nil {
			connLog.WithError(err).Error("statement failed")
			fmt.Fprintf(writer, "error: %s\n", err)
			writer.Flush()
			continue
		}

		for _, row := range result.Rows {
			fmt.Fprintln(writer, interpret.FormatRow(row))
		}
		if result.Message != "" {
			fmt.Fprintln(writer, result.Message)
		}
		writer.Flush()
	}

	if err := scanner.Err(); err != nil {
		connLog.WithError(err).Error("connection error")
	}
}

// onSemicolon splits the input stream on statement terminators.
func onSemicolon(data []byte, atEOF bool) (advance int, token []byte, err error) {
	for i := 0; i < len(data); i++ {
		if data[i] == ';' {
			return i + 1, data[:i], nil
		}
	}

	if atEOF {
		return len(data), data, bufio.ErrFinalToken
	}

	return 0, nil, nil
}
