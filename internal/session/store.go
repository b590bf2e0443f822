package session

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/yakirz/sales-gateway/pkg/redis"
)

// CookieName is the cookie that carries the admin session id.
const CookieName = "crm_session"

var ErrNotFound = errors.New("session not found")

// Session is what a logged-in admin carries between requests.
type Session struct {
	AdminID     int64  `json:"admin_id"`
	Email       string `json:"email"`
	Permissions int    `json:"permissions"`
}

// Store keeps admin sessions in Redis under an opaque uuid, so logout can
// revoke them server side.
type Store struct {
	adapter redis.RedisAdapter
	ttl     time.Duration
}

func NewStore(adapter redis.RedisAdapter, ttl time.Duration) *Store {
	return &Store{adapter: adapter, ttl: ttl}
}

func (s *Store) key(id string) string {
	return "session:" + id
}

// Create stores the session and returns its id.
func (s *Store) Create(sess Session) (string, error) {
	id := uuid.NewString()

	data, err := json.Marshal(sess)
	if err != nil {
		return "", errors.Wrap(err, "marshal session")
	}
	if err := s.adapter.Set(s.key(id), data, s.ttl); err != nil {
		return "", errors.Wrap(err, "store session")
	}
	return id, nil
}

// Get loads a session by id, extending its TTL on each hit.
func (s *Store) Get(id string) (*Session, error) {
	data, err := s.adapter.Get(s.key(id))
	if err != nil {
		if err == redis.NilError {
			return nil, ErrNotFound
		}
		return nil, errors.Wrap(err, "load session")
	}

	var sess Session
	if err := json.Unmarshal(data, &sess); err != nil {
		return nil, errors.Wrap(err, "decode session")
	}

	_ = s.adapter.Expire(s.key(id), s.ttl)
	return &sess, nil
}

// Delete revokes a session. Deleting an unknown id is not an error.
func (s *Store) Delete(id string) error {
	return s.adapter.Del(s.key(id))
}
