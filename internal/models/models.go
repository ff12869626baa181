package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"
)

// All ids are opaque strings assigned by the remote API. The API serializes
// them as "_id".

// User is a staff account. Password is only ever sent, never read back.
type User struct {
	ID        string    `json:"_id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Password  string    `json:"password,omitempty"`
	CreatedAt time.Time `json:"createdAt,omitzero"`
}

func (u User) GetID() string { return u.ID }

// Building is the top of the ownership chain: Building -> Room -> Tenant.
type Building struct {
	ID        string `json:"_id,omitempty"`
	OwnerName string `json:"ownerName"`
	Name      string `json:"name"`
	Address   string `json:"address"`
	LandMark  string `json:"landMark"`
}

func (b Building) GetID() string { return b.ID }

type RoomType string

const (
	RoomTypeAC    RoomType = "ac"
	RoomTypeNonAC RoomType = "non-ac"
)

func (t RoomType) Valid() bool {
	return t == RoomTypeAC || t == RoomTypeNonAC
}

// FlexString is a digits-only value the API may send either as a JSON
// string or as a JSON number. It always encodes as a string.
type FlexString string

func (s *FlexString) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		*s = ""
		return nil
	}
	if b[0] == '"' {
		var v string
		if err := json.Unmarshal(b, &v); err != nil {
			return err
		}
		*s = FlexString(v)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("models: want string or number, got %s", b)
	}
	*s = FlexString(n.String())
	return nil
}

func (s FlexString) String() string { return string(s) }

// Room belongs to exactly one Building.
//
// NumberSharedRoom is kept as the text the user typed; the form never
// parses it.
type Room struct {
	ID               string     `json:"_id,omitempty"`
	RoomName         string     `json:"roomName"`
	RoomType         RoomType   `json:"roomType"`
	NumberSharedRoom FlexString `json:"numberSharedRoom"`
	BuildingID       string     `json:"buildingId"`
}

func (r Room) GetID() string { return r.ID }

// Tenant occupies a Room. RoomID must belong to BuildingID.
type Tenant struct {
	ID         string     `json:"_id,omitempty"`
	Name       string     `json:"name"`
	Aadhar     FlexString `json:"aadhar"`
	Mobile     FlexString `json:"mobile"`
	RoomID     string     `json:"roomId"`
	BuildingID string     `json:"buildingId"`
}

func (t Tenant) GetID() string { return t.ID }

// LoginResult is the body of a successful login. Only Token is required.
type LoginResult struct {
	Token string `json:"token"`
	User  *User  `json:"user,omitempty"`
}
