// Package ws exposes the running city over a WebSocket: schema-validated
// commands in, snapshots and results out. One session per connection;
// every session talks to the same single world runtime.
package ws

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/dzautner/megacity-sub002/internal/protocol"
	"github.com/dzautner/megacity-sub002/internal/sim/world"
)

// snapshotInterval throttles full-snapshot pushes per connection.
const snapshotInterval = 500 * time.Millisecond

type Server struct {
	rt  *world.Runtime
	log *log.Logger

	upgrader websocket.Upgrader
}

func NewServer(rt *world.Runtime, logger *log.Logger) *Server {
	return &Server{
		rt:  rt,
		log: logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  64 * 1024,
			WriteBufferSize: 64 * 1024,
			CheckOrigin:     func(r *http.Request) bool { return true }, // dev default
		},
	}
}

// resultMsg is the per-command reply frame.
type resultMsg struct {
	Type   string          `json:"type"`
	Seq    uint64          `json:"seq,omitempty"`
	Result protocol.Result `json:"result"`
}

// snapshotMsg wraps a full snapshot push.
type snapshotMsg struct {
	Type     string                 `json:"type"`
	Snapshot *protocol.ViewSnapshot `json:"snapshot"`
}

// inboundMsg is a client frame: a command plus an optional client sequence
// number echoed back on the result.
type inboundMsg struct {
	Seq uint64          `json:"seq,omitempty"`
	Cmd json.RawMessage `json:"cmd"`
}

func (s *Server) Handler() http.HandlerFunc {
	return func(rw http.ResponseWriter, r *http.Request) {
		conn, err := s.upgrader.Upgrade(rw, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()

		session := uuid.NewString()
		s.log.Printf("session %s connected from %s", session, r.RemoteAddr)

		ctx, cancel := context.WithCancel(r.Context())
		defer cancel()

		out := make(chan []byte, 32)

		// writer: command results and periodic snapshots
		go func() {
			ticker := time.NewTicker(snapshotInterval)
			defer ticker.Stop()
			var lastTick uint64
			for {
				select {
				case <-ctx.Done():
					return
				case b, ok := <-out:
					if !ok {
						return
					}
					_ = conn.SetWriteDeadline(time.Now().Add(5 * time.Second))
					if err := conn.WriteMessage(websocket.TextMessage, b); err != nil {
						cancel()
						return
					}
				case <-ticker.C:
					snap := s.rt.Snapshot()
					if snap == nil || snap.Tick == lastTick {
						continue
					}
					lastTick = snap.Tick
					b, err := json.Marshal(snapshotMsg{Type: "SNAPSHOT", Snapshot: snap})
					if err != nil {
						continue
					}
					_ = conn.SetWriteDeadline(time.Now().Add(5 * time.Second))
					if err := conn.WriteMessage(websocket.TextMessage, b); err != nil {
						cancel()
						return
					}
				}
			}
		}()

		// reader: validate, submit, reply
		for {
			_ = conn.SetReadDeadline(time.Now().Add(120 * time.Second))
			_, msg, err := conn.ReadMessage()
			if err != nil {
				cancel()
				break
			}
			var in inboundMsg
			if err := json.Unmarshal(msg, &in); err != nil || len(in.Cmd) == 0 {
				s.reply(out, in.Seq, protocol.Reject(protocol.ErrBadRequest, "malformed frame"))
				continue
			}
			cmd, err := protocol.ValidateCommand(in.Cmd)
			if err != nil {
				s.reply(out, in.Seq, protocol.Reject(protocol.ErrBadRequest, "%v", err))
				continue
			}
			res := s.rt.Submit(ctx, cmd)
			s.reply(out, in.Seq, res)
		}

		s.log.Printf("session %s disconnected", session)
	}
}

func (s *Server) reply(out chan []byte, seq uint64, res protocol.Result) {
	b, err := json.Marshal(resultMsg{Type: "RESULT", Seq: seq, Result: res})
	if err != nil {
		return
	}
	select {
	case out <- b:
	default:
		// slow consumer: drop the reply rather than stall the reader
	}
}
