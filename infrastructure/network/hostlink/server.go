// Package hostlink carries the device protocol over TCP: every request and
// response travels as one length-prefixed frame. This is the same framing
// host-side wallet tooling speaks against emulated devices.
package hostlink

import (
	"net"
	"sync"
	"sync/atomic"

	"github.com/pkg/errors"
)

// FrameHandler turns one request payload into one response payload.
type FrameHandler func(request []byte) []byte

// Server accepts host connections on a TCP address and serves them one at
// a time. The device is a single-session peripheral, so a second
// connection waits until the first disconnects.
type Server struct {
	handler  FrameHandler
	listener net.Listener
	isClosed uint32

	connectionLock   sync.Mutex
	activeConnection net.Conn
}

// New creates a server that answers every frame received on
// listenAddress with the handler's response.
func New(listenAddress string, handler FrameHandler) (*Server, error) {
	listener, err := net.Listen("tcp", listenAddress)
	if err != nil {
		return nil, errors.Wrapf(err, "error listening on %s", listenAddress)
	}

	return &Server{handler: handler, listener: listener}, nil
}

// Address returns the address the server is listening on.
func (s *Server) Address() string {
	return s.listener.Addr().String()
}

// Start begins accepting host connections.
func (s *Server) Start() {
	spawn("hostlink.Server.acceptLoop", s.acceptLoop)
	log.Infof("Host link listening on %s", s.Address())
}

func (s *Server) acceptLoop() {
	for {
		connection, err := s.listener.Accept()
		if err != nil {
			if atomic.LoadUint32(&s.isClosed) == 1 {
				return
			}
			log.Warnf("Error accepting host connection: %s", err)
			continue
		}

		s.setActiveConnection(connection)
		s.serveConnection(connection)
		s.setActiveConnection(nil)
	}
}

func (s *Server) setActiveConnection(connection net.Conn) {
	s.connectionLock.Lock()
	defer s.connectionLock.Unlock()
	s.activeConnection = connection
}

func (s *Server) serveConnection(connection net.Conn) {
	defer connection.Close()
	log.Infof("Host connected from %s", connection.RemoteAddr())

	for {
		request, err := ReadFrame(connection)
		if err != nil {
			if atomic.LoadUint32(&s.isClosed) == 0 {
				log.Infof("Host connection closed: %s", err)
			}
			return
		}

		response := s.handler(request)
		err = WriteFrame(connection, response)
		if err != nil {
			log.Warnf("Error writing response frame: %s", err)
			return
		}
	}
}

// Stop closes the listener and any active host connection.
func (s *Server) Stop() error {
	if !atomic.CompareAndSwapUint32(&s.isClosed, 0, 1) {
		return errors.New("the host link server was already stopped")
	}

	s.connectionLock.Lock()
	if s.activeConnection != nil {
		s.activeConnection.Close()
	}
	s.connectionLock.Unlock()

	return errors.Wrap(s.listener.Close(), "error closing the host link listener")
}
