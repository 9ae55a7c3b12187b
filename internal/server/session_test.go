package server

import (
	"net"
	"testing"
	"time"

	"github.com/l1jgo/arena/internal/protocol"
	"go.uber.org/zap"
)

func pipeSession(t *testing.T) (*Session, net.Conn) {
	t.Helper()
	client, server := net.Pipe()
	t.Cleanup(func() { client.Close() })
	sess := newSession(server, 1, 4096, 8, zap.NewNop())
	return sess, client
}

func TestSessionReadLoopDecodesFrame(t *testing.T) {
	sess, client := pipeSession(t)
	inbox := make(chan Envelope, 4)
	go sess.readLoop(inbox)
	defer sess.Close()

	frame := protocol.LoginRequest{Username: "alice", Password: "hunter2"}.Encode(protocol.TagLoginReq)
	go client.Write(frame)

	select {
	case env := <-inbox:
		req, err := protocol.DecodeLoginRequest(env.Data)
		if err != nil {
			t.Fatalf("DecodeLoginRequest() error = %v", err)
		}
		if req.Username != "alice" || req.Password != "hunter2" {
			t.Fatalf("decoded = %+v, want alice/hunter2", req)
		}
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for envelope")
	}
}

func TestSessionSendThenClose(t *testing.T) {
	sess, client := pipeSession(t)
	go sess.writeLoop()

	payload := []byte("hello")
	sess.Send(payload)

	buf := make([]byte, len(payload))
	client.SetReadDeadline(time.Now().Add(time.Second))
	if _, err := readFull(client, buf); err != nil {
		t.Fatalf("read: %v", err)
	}
	if string(buf) != "hello" {
		t.Fatalf("read %q, want hello", buf)
	}

	sess.Close()
	if !sess.IsClosed() {
		t.Fatal("IsClosed() = false after Close()")
	}
	sess.Send([]byte("dropped")) // must not panic or block once closed
}

func TestSessionSendBackpressureCloses(t *testing.T) {
	sess, _ := pipeSession(t) // outQueue size 8, nothing draining it

	for i := 0; i < 16; i++ {
		sess.Send([]byte{byte(i)})
	}
	if !sess.IsClosed() {
		t.Fatal("IsClosed() = false, want a saturated output queue to disconnect the session")
	}
}

func readFull(conn net.Conn, buf []byte) (int, error) {
	total := 0
	for total < len(buf) {
		n, err := conn.Read(buf[total:])
		total += n
		if err != nil {
			return total, err
		}
	}
	return total, nil
}
