// Package session - состояние пользовательского потока в Redis.
// Выбор плана и согласие живут в сессии, а не в глобальных переменных:
// два параллельных пользователя не видят данных друг друга.
package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// CookieName - имя cookie с идентификатором сессии
const CookieName = "sh_session"

var ErrNotFound = errors.New("session not found")

// Session - один пользовательский поток: выбор плана -> оплата -> анализ
type Session struct {
	ID           string    `json:"id"`
	PlanCode     string    `json:"plan_code,omitempty"`
	ConsentGiven bool      `json:"consent_given"`
	OrderID      string    `json:"order_id,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}

// ConnectRedis устанавливает соединение и проверяет его ping-ом
func ConnectRedis(addr, password string, db int) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}
	return rdb, nil
}

// Store хранит сессии с TTL
type Store struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewStore(rdb *redis.Client, ttl time.Duration) *Store {
	return &Store{rdb: rdb, ttl: ttl}
}

func key(id string) string {
	return "session:" + id
}

// Create создает пустую сессию и сразу сохраняет её
func (s *Store) Create(ctx context.Context) (*Session, error) {
	sess := &Session{
		ID:        uuid.NewString(),
		CreatedAt: time.Now(),
	}
	if err := s.Save(ctx, sess); err != nil {
		return nil, err
	}
	return sess, nil
}

// Get возвращает сессию либо ErrNotFound
func (s *Store) Get(ctx context.Context, id string) (*Session, error) {
	raw, err := s.rdb.Get(ctx, key(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("redis get: %w", err)
	}

	var sess Session
	if err := json.Unmarshal(raw, &sess); err != nil {
		return nil, fmt.Errorf("corrupt session %s: %w", id, err)
	}
	return &sess, nil
}

// Save сериализует сессию и продлевает TTL
func (s *Store) Save(ctx context.Context, sess *Session) error {
	raw, err := json.Marshal(sess)
	if err != nil {
		return err
	}
	if err := s.rdb.Set(ctx, key(sess.ID), raw, s.ttl).Err(); err != nil {
		return fmt.Errorf("redis set: %w", err)
	}
	return nil
}

// Delete удаляет сессию; отсутствие ключа не ошибка
func (s *Store) Delete(ctx context.Context, id string) error {
	return s.rdb.Del(ctx, key(id)).Err()
}
