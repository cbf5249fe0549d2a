// Package favorite holds the client-side favorite set and the relay that
// mirrors favorite toggles to the external CRM webhook.
//
// The server never stores favorites. The client's Set is the source of truth
// and the relay is a one-way notification sink.
package favorite

import (
	"slices"
	"time"
)

// User is the locally registered identity attached to every event.
type User struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	TaxID string `json:"tax_id"`
	Phone string `json:"phone,omitempty"`
}

// Event is the one-shot notification produced by a toggle.
type Event struct {
	User           User      `json:"user"`
	RestaurantID   string    `json:"restaurant_id"`
	RestaurantName string    `json:"restaurant_name"`
	Favorited      bool      `json:"favorited"`
	CreatedAt      time.Time `json:"created_at"`
}

// Set is one user's favorite restaurant ids in insertion order. It is owned
// by a single browsing session and is not safe for concurrent use.
type Set struct {
	user User
	ids  []string
}

func NewSet(user User, ids ...string) *Set {
	s := &Set{user: user}
	for _, id := range ids {
		s.Add(id)
	}
	return s
}

func (s *Set) User() User { return s.user }

func (s *Set) Contains(id string) bool {
	return slices.Contains(s.ids, id)
}

// Add reports whether id was newly added.
func (s *Set) Add(id string) bool {
	if id == "" || s.Contains(id) {
		return false
	}
	s.ids = append(s.ids, id)
	return true
}

// Remove reports whether id was present.
func (s *Set) Remove(id string) bool {
	i := slices.Index(s.ids, id)
	if i < 0 {
		return false
	}
	s.ids = slices.Delete(s.ids, i, i+1)
	return true
}

func (s *Set) IDs() []string {
	return slices.Clone(s.ids)
}

func (s *Set) Len() int { return len(s.ids) }

// Toggle flips membership of id and returns the event describing the change.
// The mutation stands whether or not the event is ever delivered.
func (s *Set) Toggle(id, name string, at time.Time) Event {
	favorited := !s.Contains(id)
	if favorited {
		s.Add(id)
	} else {
		s.Remove(id)
	}
	return Event{
		User:           s.user,
		RestaurantID:   id,
		RestaurantName: name,
		Favorited:      favorited,
		CreatedAt:      at.UTC(),
	}
}
