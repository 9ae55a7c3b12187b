package server

import (
	"net"
	"sync/atomic"

	"go.uber.org/zap"
)

// Server accepts TCP connections and spins up a Session per connection.
type Server struct {
	listener net.Listener
	nextID   atomic.Int64

	inbox chan Envelope

	newConns chan *Session

	ringCapacity int
	outSize      int

	log     *zap.Logger
	closeCh chan struct{}
}

func NewServer(bindAddr string, ringCapacity, inSize, outSize int, log *zap.Logger) (*Server, error) {
	ln, err := net.Listen("tcp", bindAddr)
	if err != nil {
		return nil, err
	}
	return &Server{
		listener:     ln,
		inbox:        make(chan Envelope, inSize),
		newConns:     make(chan *Session, 64),
		ringCapacity: ringCapacity,
		outSize:      outSize,
		log:          log,
		closeCh:      make(chan struct{}),
	}, nil
}

// AcceptLoop runs in its own goroutine, accepting connections until
// Shutdown is called.
func (s *Server) AcceptLoop() {
	for {
		conn, err := s.listener.Accept()
		if err != nil {
			select {
			case <-s.closeCh:
				return
			default:
			}
			s.log.Error("accept failed", zap.Error(err))
			continue
		}

		id := ConnID(s.nextID.Add(1))
		sess := newSession(conn, id, s.ringCapacity, s.outSize, s.log)
		go sess.readLoop(s.inbox)
		go sess.writeLoop()

		s.log.Info("connection accepted", zap.Int("conn", int(id)), zap.String("remote", conn.RemoteAddr().String()))

		select {
		case s.newConns <- sess:
		default:
			s.log.Warn("new-connection queue full, dropping session")
			sess.Close()
		}
	}
}

func (s *Server) Inbox() <-chan Envelope       { return s.inbox }
func (s *Server) NewSessions() <-chan *Session { return s.newConns }

func (s *Server) Shutdown() {
	close(s.closeCh)
	s.listener.Close()
}

func (s *Server) Addr() net.Addr { return s.listener.Addr() }
