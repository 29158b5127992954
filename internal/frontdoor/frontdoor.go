// Package frontdoor implements the TCP-facing half of the load balancer: a
// length-prefixed framing protocol over one connection per request.
package frontdoor

import (
	"context"
	"encoding/binary"
	"encoding/json"
	"errors"
	"io"
	"net"
	"sync/atomic"

	"wordgate/internal/logging"
	"wordgate/internal/wordcountpb"
)

// DefaultMaxFrameBytes bounds a single inbound request frame to guard
// against a malformed or hostile length prefix driving an unbounded
// allocation.
const DefaultMaxFrameBytes = 4 << 20 // 4 MiB

// Handler is the thing the front door forwards decoded frames to - in
// practice a *loadbalancer.LoadBalancer, kept as an interface here so the
// framing logic doesn't import the routing package.
type Handler interface {
	Handle(ctx context.Context, reqBytes []byte) ([]byte, error)
}

// Server accepts TCP connections and runs the framed request/response
// protocol once per connection: read one frame, hand it to Handler, write
// one frame back, close.
type Server struct {
	addr          string
	handler       Handler
	logger        logging.Logger
	maxFrameBytes uint32

	listener net.Listener
	running  atomic.Bool
}

func New(addr string, handler Handler, logger logging.Logger) *Server {
	return &Server{
		addr:          addr,
		handler:       handler,
		logger:        logger,
		maxFrameBytes: DefaultMaxFrameBytes,
	}
}

// Serve binds addr and runs the accept loop until Stop is called; an
// Accept error while still running is logged and the loop continues. It
// blocks until the loop exits.
func (s *Server) Serve() error {
	ln, err := net.Listen("tcp", s.addr)
	if err != nil {
		return err
	}
	s.listener = ln
	s.running.Store(true)

	for s.running.Load() {
		conn, err := ln.Accept()
		if err != nil {
			if !s.running.Load() {
				return nil
			}
			if s.logger != nil {
				s.logger.Warn("accept failed", "err", err)
			}
			continue
		}
		go s.handleConn(conn)
	}
	return nil
}

// Stop flips the running flag and closes the listener, which unblocks the
// in-flight Accept call. In-flight connection handlers are left to finish
// on their own; Stop does not wait for them.
func (s *Server) Stop() error {
	s.running.Store(false)
	if s.listener == nil {
		return nil
	}
	return s.listener.Close()
}

func (s *Server) handleConn(conn net.Conn) {
	defer conn.Close()

	reqBytes, err := readFrame(conn, s.maxFrameBytes)
	if err != nil {
		if s.logger != nil {
			s.logger.Warn("frame read failed", "remote", conn.RemoteAddr(), "err", err)
		}
		writeFrame(conn, failureFrame())
		return
	}

	respBytes, err := s.handler.Handle(context.Background(), reqBytes)
	if err != nil {
		if s.logger != nil {
			s.logger.Warn("request handling failed", "remote", conn.RemoteAddr(), "err", err)
		}
		writeFrame(conn, failureFrame())
		return
	}

	if err := writeFrame(conn, respBytes); err != nil && s.logger != nil {
		s.logger.Warn("frame write failed", "remote", conn.RemoteAddr(), "err", err)
	}
}

var errFrameTooLarge = errors.New("frontdoor: declared frame length exceeds configured ceiling")

func readFrame(r io.Reader, maxBytes uint32) ([]byte, error) {
	var lenBuf [4]byte
	if _, err := io.ReadFull(r, lenBuf[:]); err != nil {
		return nil, err
	}
	length := binary.BigEndian.Uint32(lenBuf[:])
	if length > maxBytes {
		return nil, errFrameTooLarge
	}

	buf := make([]byte, length)
	if _, err := io.ReadFull(r, buf); err != nil {
		return nil, err
	}
	return buf, nil
}

func writeFrame(w io.Writer, payload []byte) error {
	var lenBuf [4]byte
	binary.BigEndian.PutUint32(lenBuf[:], uint32(len(payload)))
	if _, err := w.Write(lenBuf[:]); err != nil {
		return err
	}
	_, err := w.Write(payload)
	return err
}

func failureFrame() []byte {
	out, _ := json.Marshal(wordcountpb.FailedResponse())
	return out
}
