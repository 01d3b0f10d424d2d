package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// IntList stores an ordered list of break values as a JSON text column so the
// same model works on postgres and the sqlite driver used in tests. The order
// is the order the breaks were played in; sorting happens at read time.
type IntList []int

func (l IntList) Value() (driver.Value, error) {
	if l == nil {
		return "[]", nil
	}
	b, err := json.Marshal(l)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

func (l *IntList) Scan(value interface{}) error {
	if value == nil {
		*l = IntList{}
		return nil
	}
	var data []byte
	switch v := value.(type) {
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return fmt.Errorf("cannot scan %T into IntList", value)
	}
	if len(data) == 0 {
		*l = IntList{}
		return nil
	}
	return json.Unmarshal(data, l)
}

// Match records one contest between the two scoreboard slots. Records are
// created by the scoreboard device and mutated in place by live-state updates
// carrying the same match id; they are never deleted.
type Match struct {
	ID            string    `gorm:"primaryKey" json:"id"`
	Player1Name   string    `gorm:"index;not null" json:"player1Name"`
	Player2Name   string    `gorm:"index;not null" json:"player2Name"`
	Player1Nation string    `json:"player1Nation"`
	Player2Nation string    `json:"player2Nation"`
	BestOf        int       `json:"bestOf"`
	FramesPlayer1 int       `gorm:"default:0" json:"framesPlayer1"`
	FramesPlayer2 int       `gorm:"default:0" json:"framesPlayer2"`
	BreaksPlayer1 IntList   `gorm:"type:text" json:"breaksPlayer1"`
	BreaksPlayer2 IntList   `gorm:"type:text" json:"breaksPlayer2"`
	Winner        *string   `json:"winner,omitempty"`
	Active        bool      `gorm:"index;default:false" json:"active"`
	TableNumber   *int      `json:"tableNumber,omitempty"`
	RawGameLog    string    `gorm:"type:text" json:"-"`
	CreatedAt     time.Time `gorm:"index;autoCreateTime" json:"createdAt"`
	UpdatedAt     time.Time `gorm:"autoUpdateTime" json:"updatedAt"`
}
