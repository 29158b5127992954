// Command wordcount is a thin CLI client for the load balancer's TCP
// front door: it sends one length-prefixed JSON request and prints the
// framed response. The client's internals are out of scope for this
// repo's core; this exists to make the system runnable end to end.
package main

import (
	"encoding/binary"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"net"
	"time"

	"wordgate/internal/wordcountpb"
)

func main() {
	addr := flag.String("addr", "127.0.0.1:8080", "load balancer address")
	word := flag.String("word", "", "word to count")
	fileName := flag.String("file", "", "file name, relative to the backend's text root")
	timeout := flag.Duration("timeout", 5*time.Second, "dial and round-trip timeout")
	flag.Parse()

	if *word == "" || *fileName == "" {
		log.Fatal("both -word and -file are required")
	}

	conn, err := net.DialTimeout("tcp", *addr, *timeout)
	if err != nil {
		log.Fatalf("dial %s: %v", *addr, err)
	}
	defer conn.Close()
	conn.SetDeadline(time.Now().Add(*timeout))

	reqBytes, err := json.Marshal(wordcountpb.WordCountRequest{Word: *word, FileName: *fileName})
	if err != nil {
		log.Fatalf("encode request: %v", err)
	}
	if err := writeFrame(conn, reqBytes); err != nil {
		log.Fatalf("send request: %v", err)
	}

	respBytes, err := readFrame(conn)
	if err != nil {
		log.Fatalf("read response: %v", err)
	}

	var resp wordcountpb.WordCountResponse
	if err := json.Unmarshal(respBytes, &resp); err != nil {
		log.Fatalf("decode response: %v", err)
	}

	fmt.Printf("count=%d status_code=%d status_message=%q log_id=%q\n",
		resp.Count, resp.StatusCode, resp.StatusMessage, resp.LogID)
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

func readFrame(r io.Reader) ([]byte, error) {
	var lenBuf [4]byte
	if _, err := io.ReadFull(r, lenBuf[:]); err != nil {
		return nil, err
	}
	buf := make([]byte, binary.BigEndian.Uint32(lenBuf[:]))
	if _, err := io.ReadFull(r, buf); err != nil {
		return nil, err
	}
	return buf, nil
}
