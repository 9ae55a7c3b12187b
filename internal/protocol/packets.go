package protocol

import "errors"

// ErrShort is returned when a packet's payload is too small for the shape
// its tag declares — treated as a ProtocolError by the caller.
var ErrShort = errors.New("protocol: short packet")

// LoginRequest is the login/register request shape: two 32-byte ASCII
// fields.
type LoginRequest struct {
	Username string
	Password string
}

func DecodeLoginRequest(payload []byte) (LoginRequest, error) {
	r := NewReader(payload)
	u, err := r.ReadString(32)
	if err != nil {
		return LoginRequest{}, err
	}
	p, err := r.ReadString(32)
	if err != nil {
		return LoginRequest{}, err
	}
	return LoginRequest{Username: u, Password: p}, nil
}

func (req LoginRequest) Encode(tag Tag) []byte {
	return NewWriter(tag).WriteString(req.Username, 32).WriteString(req.Password, 32).Bytes()
}

// LoginResponse result codes.
const (
	ResultSuccess      int32 = 0
	ResultFailDup      int32 = 1
	ResultFailPassword int32 = 2
	ResultFailNoName   int32 = 3
)

type LoginResponse struct {
	Result int32
	UserID int32
	Text   string
}

func (resp LoginResponse) Encode(tag Tag) []byte {
	return NewWriter(tag).WriteI32(resp.Result).WriteI32(resp.UserID).WriteString(resp.Text, 64).Bytes()
}

// RoomControl is the 4-int32 room-control shape: room id, slot index
// (-1 = generic), and one extra field whose meaning depends on the tag
// (ready toggle, team switch, join target, ...).
type RoomControl struct {
	RoomID int32
	Slot   int32
	Extra  int32
}

func DecodeRoomControl(payload []byte) (RoomControl, error) {
	r := NewReader(payload)
	roomID, err := r.ReadI32()
	if err != nil {
		return RoomControl{}, err
	}
	slot, err := r.ReadI32()
	if err != nil {
		return RoomControl{}, err
	}
	extra, err := r.ReadI32()
	if err != nil {
		return RoomControl{}, err
	}
	return RoomControl{RoomID: roomID, Slot: slot, Extra: extra}, nil
}

func (c RoomControl) Encode(tag Tag) []byte {
	return NewWriter(tag).WriteI32(c.RoomID).WriteI32(c.Slot).WriteI32(c.Extra).Bytes()
}

// SlotRecord is one of a room's ten fixed seats.
type SlotRecord struct {
	OwnerID  int32
	Ready    int32
	Team     int32
	HeroID   int32
	PlayerID int32
}

// RoomState is the room-state snapshot: status, room id, and ten slots.
type RoomState struct {
	Status int32
	RoomID int32
	Slots  [10]SlotRecord
}

func (s RoomState) Encode() []byte {
	w := NewWriter(TagRoomState).WriteI32(s.Status).WriteI32(s.RoomID)
	for _, slot := range s.Slots {
		w.WriteI32(slot.OwnerID).WriteI32(slot.Ready).WriteI32(slot.Team).WriteI32(slot.HeroID).WriteI32(slot.PlayerID)
	}
	return w.Bytes()
}

// GamePacket is the shared 13-int32 shape used for player commands,
// entity snapshots, visual effects, and the frame-boundary marker.
// Different tags reinterpret the same fields (see spec.md §4.1).
type GamePacket struct {
	Type            int32
	ID              int32
	X               int32
	Y               int32
	Input           int32
	Extra           int32
	Color           int32
	HP              int32
	MaxHP           int32
	AttackRange     int32
	Effect          int32
	AttackTargetID  int32
	Gold            int32
}

func DecodeGamePacket(tag Tag, payload []byte) (GamePacket, error) {
	r := NewReader(payload)
	fields := make([]int32, gamePacketFields)
	for i := range fields {
		v, err := r.ReadI32()
		if err != nil {
			return GamePacket{}, err
		}
		fields[i] = v
	}
	return GamePacket{
		Type: int32(tag), ID: fields[0], X: fields[1], Y: fields[2], Input: fields[3],
		Extra: fields[4], Color: fields[5], HP: fields[6], MaxHP: fields[7],
		AttackRange: fields[8], Effect: fields[9], AttackTargetID: fields[10], Gold: fields[11],
	}, nil
}

func (p GamePacket) Encode(tag Tag) []byte {
	return NewWriter(tag).
		WriteI32(p.ID).WriteI32(p.X).WriteI32(p.Y).WriteI32(p.Input).
		WriteI32(p.Extra).WriteI32(p.Color).WriteI32(p.HP).WriteI32(p.MaxHP).
		WriteI32(p.AttackRange).WriteI32(p.Effect).WriteI32(p.AttackTargetID).WriteI32(p.Gold).
		Bytes()
}
