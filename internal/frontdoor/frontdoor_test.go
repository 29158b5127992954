package frontdoor

import (
	"bytes"
	"context"
	"encoding/binary"
	"encoding/json"
	"net"
	"testing"
	"time"

	"wordgate/internal/wordcountpb"
)

type stubHandler struct {
	resp []byte
	err  error
}

func (s *stubHandler) Handle(ctx context.Context, reqBytes []byte) ([]byte, error) {
	return s.resp, s.err
}

func dial(t *testing.T, addr string) net.Conn {
	t.Helper()
	conn, err := net.DialTimeout("tcp", addr, time.Second)
	if err != nil {
		t.Fatalf("dial %s: %v", addr, err)
	}
	return conn
}

func readResponseFrame(t *testing.T, conn net.Conn) wordcountpb.WordCountResponse {
	t.Helper()
	conn.SetReadDeadline(time.Now().Add(2 * time.Second))

	var lenBuf [4]byte
	if _, err := conn.Read(lenBuf[:]); err != nil {
		t.Fatalf("read length prefix: %v", err)
	}
	length := binary.BigEndian.Uint32(lenBuf[:])
	body := make([]byte, length)
	total := 0
	for total < int(length) {
		n, err := conn.Read(body[total:])
		if err != nil {
			t.Fatalf("read body: %v", err)
		}
		total += n
	}

	var resp wordcountpb.WordCountResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		t.Fatalf("unmarshal response: %v", err)
	}
	return resp
}

func startServer(t *testing.T, handler Handler) (*Server, string) {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	addr := ln.Addr().String()
	ln.Close()

	srv := New(addr, handler, nil)
	go srv.Serve()
	time.Sleep(50 * time.Millisecond) // let the accept loop bind
	return srv, addr
}

func TestRoundTripSuccess(t *testing.T) {
	want := wordcountpb.WordCountResponse{Count: 3, StatusCode: 0, StatusMessage: "ok", LogID: "1"}
	respBytes, _ := json.Marshal(want)
	srv, addr := startServer(t, &stubHandler{resp: respBytes})
	defer srv.Stop()

	conn := dial(t, addr)
	defer conn.Close()

	req, _ := json.Marshal(wordcountpb.WordCountRequest{Word: "world", FileName: "text1.txt"})
	writeFrame(conn, req)

	got := readResponseFrame(t, conn)
	if got != want {
		t.Errorf("got %+v, want %+v", got, want)
	}
}

func TestHandlerErrorYieldsCannedFailure(t *testing.T) {
	srv, addr := startServer(t, &stubHandler{err: context.DeadlineExceeded})
	defer srv.Stop()

	conn := dial(t, addr)
	defer conn.Close()

	req, _ := json.Marshal(wordcountpb.WordCountRequest{Word: "x", FileName: "y.txt"})
	writeFrame(conn, req)

	got := readResponseFrame(t, conn)
	want := *wordcountpb.FailedResponse()
	if got != want {
		t.Errorf("got %+v, want %+v", got, want)
	}
}

func TestTruncatedLengthPrefixYieldsCannedFailureOrClose(t *testing.T) {
	srv, addr := startServer(t, &stubHandler{resp: []byte(`{}`)})
	defer srv.Stop()

	conn := dial(t, addr)
	defer conn.Close()

	conn.Write([]byte{0x00, 0x00, 0x01}) // 3 bytes, not 4: truncated prefix
	// Half-close so the server's read of the prefix ends early instead of
	// waiting for a fourth byte.
	conn.(*net.TCPConn).CloseWrite()

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	buf := make([]byte, 4096)
	n, err := conn.Read(buf)
	if err != nil {
		// A connection closed without a response frame is accepted as
		// well for a malformed prefix.
		return
	}
	if n < 4 {
		t.Fatalf("response shorter than a length prefix: %d bytes", n)
	}
}

func TestOversizedFrameRejected(t *testing.T) {
	srv, addr := startServer(t, &stubHandler{resp: []byte(`{}`)})
	srv.maxFrameBytes = 8
	defer srv.Stop()

	conn := dial(t, addr)
	defer conn.Close()

	var lenBuf [4]byte
	binary.BigEndian.PutUint32(lenBuf[:], 1024)
	conn.Write(lenBuf[:])
	conn.Write(bytes.Repeat([]byte{'a'}, 1024))

	got := readResponseFrame(t, conn)
	want := *wordcountpb.FailedResponse()
	if got != want {
		t.Errorf("got %+v, want %+v", got, want)
	}
}
