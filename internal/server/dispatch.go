package server

import (
	"time"

	"github.com/l1jgo/arena/internal/account"
	"github.com/l1jgo/arena/internal/lobby"
	"github.com/l1jgo/arena/internal/protocol"
	"github.com/l1jgo/arena/internal/room"
	"go.uber.org/zap"
)

// Dispatcher is spec.md §5's single event-driven loop: it owns every
// session, the account registry, and the lobby/room registry, and is
// the only goroutine that ever touches them. All simulation work
// happens inside lobby.Registry.Tick, which this loop drives on a fixed
// cadence — no room logic runs on a session's reader/writer goroutines.
type Dispatcher struct {
	srv      *Server
	accounts *account.Registry
	lobby    *lobby.Registry
	tickRate time.Duration
	log      *zap.Logger

	sessions map[ConnID]*Session
	names    map[ConnID]string
}

func NewDispatcher(srv *Server, accounts *account.Registry, tickRate time.Duration, log *zap.Logger) *Dispatcher {
	return &Dispatcher{
		srv:      srv,
		accounts: accounts,
		tickRate: tickRate,
		log:      log,
		sessions: make(map[ConnID]*Session),
		names:    make(map[ConnID]string),
	}
}

// AttachLobby wires the lobby registry in after construction, since the
// registry itself needs this Dispatcher as its room.Sender.
func (d *Dispatcher) AttachLobby(l *lobby.Registry) { d.lobby = l }

// Send implements room.Sender by handing payload to the named
// connection's session, if it is still live.
func (d *Dispatcher) Send(conn room.ConnID, payload []byte) {
	if sess, ok := d.sessions[ConnID(conn)]; ok {
		sess.Send(payload)
	}
}

// Run is the dispatcher's event loop: new sessions, decoded frames, and
// the fixed-tick timer, all funneled through one select so no two of
// them ever run concurrently.
func (d *Dispatcher) Run(stop <-chan struct{}) {
	ticker := time.NewTicker(d.tickRate)
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case sess := <-d.srv.NewSessions():
			d.sessions[sess.ID] = sess
		case env := <-d.srv.Inbox():
			d.handle(env)
		case <-ticker.C:
			d.reapDead()
			d.lobby.Tick(d.tickRate)
		}
	}
}

func (d *Dispatcher) reapDead() {
	for id, sess := range d.sessions {
		if !sess.IsClosed() {
			continue
		}
		delete(d.sessions, id)
		delete(d.names, id)
		d.accounts.Logout(account.ConnID(id))
		d.lobby.OnDisconnect(room.ConnID(id))
	}
}

func (d *Dispatcher) handle(env Envelope) {
	switch env.Tag {
	case protocol.TagLoginReq, protocol.TagRegisterReq:
		d.handleAuth(env)
	case protocol.TagCreateRoom, protocol.TagJoinRoom, protocol.TagLeaveRoom,
		protocol.TagMatchReq, protocol.TagGameStart, protocol.TagRoomUpdate, protocol.TagRoomListReq:
		d.handleLobby(env)
	default:
		d.handleBattle(env)
	}
}

func (d *Dispatcher) handleAuth(env Envelope) {
	req, err := protocol.DecodeLoginRequest(env.Data)
	if err != nil {
		if sess, ok := d.sessions[env.Conn]; ok {
			sess.Close()
		}
		return
	}

	respTag := protocol.TagLoginResp
	var result int32
	if env.Tag == protocol.TagRegisterReq {
		respTag = protocol.TagRegisterResp
		result = int32(d.accounts.Register(req.Username, req.Password))
	} else {
		result = int32(d.accounts.Login(account.ConnID(env.Conn), req.Username, req.Password))
		if result == account.ResultSuccess {
			d.names[env.Conn] = req.Username
		}
	}

	resp := protocol.LoginResponse{Result: result, UserID: int32(env.Conn), Text: req.Username}
	d.Send(room.ConnID(env.Conn), resp.Encode(respTag))
}

func (d *Dispatcher) handleLobby(env Envelope) {
	conn := room.ConnID(env.Conn)
	name := d.names[env.Conn]

	switch env.Tag {
	case protocol.TagCreateRoom:
		r := d.lobby.CreateRoom(conn, name)
		d.sendRoomState(r)
	case protocol.TagJoinRoom:
		ctrl, err := protocol.DecodeRoomControl(env.Data)
		if err != nil {
			return
		}
		if r, ok := d.lobby.JoinRoom(conn, name, int(ctrl.RoomID)); ok {
			d.sendRoomState(r)
		}
	case protocol.TagLeaveRoom:
		d.lobby.LeaveRoom(conn)
	case protocol.TagMatchReq:
		d.lobby.Enqueue(conn, name)
	case protocol.TagGameStart:
		if r, ok := d.lobby.RoomOf(conn); ok && r.StartGame(conn) {
			d.sendRoomState(r)
		}
	case protocol.TagRoomUpdate:
		ctrl, err := protocol.DecodeRoomControl(env.Data)
		if err != nil {
			return
		}
		r, ok := d.lobby.RoomOf(conn)
		if !ok {
			return
		}
		if ctrl.Slot >= 0 {
			r.ChangeSlot(conn, int(ctrl.Slot))
		} else {
			r.SetReady(conn, ctrl.Extra != 0)
		}
		d.sendRoomState(r)
	case protocol.TagRoomListReq:
		// Room listing is an external-collaborator concern per spec.md's
		// "surrounding systems" list; only its interface (this no-op
		// handler slot) lives in the core dispatcher.
	}
}

func (d *Dispatcher) handleBattle(env Envelope) {
	conn := room.ConnID(env.Conn)
	r, ok := d.lobby.RoomOf(conn)
	if !ok {
		return
	}
	pkt, err := protocol.DecodeGamePacket(env.Tag, env.Data)
	if err != nil {
		return
	}

	if env.Tag == protocol.TagSelect {
		wasPicking := r.Status == room.StatusPicking
		r.Select(conn, room.HeroKind(pkt.Extra))
		d.sendRoomState(r)
		if wasPicking && r.Status == room.StatusPlaying {
			d.sendBattleStart(r)
		}
		return
	}

	playerID, ok := r.PlayerIDFor(conn)
	if !ok {
		return
	}
	r.Submit(room.Command{
		Conn: conn, PlayerID: playerID, Tag: int32(env.Tag),
		X: pkt.X, Y: pkt.Y, Input: pkt.Input, Extra: pkt.Extra,
	})
}

// sendBattleStart fires once per room, the instant picking completes, so
// each seated connection learns its own player id before the first snapshot
// arrives (spec.md §4.8, scenario S5).
func (d *Dispatcher) sendBattleStart(r *room.Room) {
	for i := range r.Slots {
		slot := &r.Slots[i]
		if !slot.Occupied {
			continue
		}
		payload := protocol.GamePacket{ID: int32(slot.PlayerID)}.Encode(protocol.TagBattleStart)
		d.Send(room.ConnID(slot.Conn), payload)
	}
}

func (d *Dispatcher) sendRoomState(r *room.Room) {
	state := protocol.RoomState{Status: int32(r.Status), RoomID: int32(r.ID)}
	for i, slot := range r.Slots {
		state.Slots[i] = protocol.SlotRecord{
			OwnerID: int32(slot.Conn), Team: int32(slot.Team),
			HeroID: int32(slot.HeroID), PlayerID: int32(slot.PlayerID),
		}
		if slot.Ready {
			state.Slots[i].Ready = 1
		}
	}
	payload := state.Encode()
	for i := range r.Slots {
		if r.Slots[i].Occupied {
			d.Send(room.ConnID(r.Slots[i].Conn), payload)
		}
	}
}
