package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// OTPStore keeps one-time codes keyed by phone number with a TTL. It is
// injected rather than held as process state so every service instance
// behind a load balancer sees the same codes.
type OTPStore interface {
	// Set stores the code for the phone, replacing any previous one.
	Set(ctx context.Context, phone, code string) error
	// Consume reports whether code matches the stored value and, on a
	// match, removes it so it cannot be replayed.
	Consume(ctx context.Context, phone, code string) (bool, error)
}

func otpKey(phone string) string {
	return fmt.Sprintf("otp:%s", phone)
}

// RedisOTPStore is the production OTPStore.
type RedisOTPStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisOTPStore creates an OTP store over the given redis client.
func NewRedisOTPStore(client *redis.Client, ttl time.Duration) *RedisOTPStore {
	return &RedisOTPStore{client: client, ttl: ttl}
}

func (s *RedisOTPStore) Set(ctx context.Context, phone, code string) error {
	return s.client.Set(ctx, otpKey(phone), code, s.ttl).Err()
}

func (s *RedisOTPStore) Consume(ctx context.Context, phone, code string) (bool, error) {
	key := otpKey(phone)
	stored, err := s.client.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, err
	}

	// A wrong guess leaves the code in place until it expires.
	if stored != code {
		return false, nil
	}

	if err := s.client.Del(ctx, key).Err(); err != nil {
		return false, err
	}
	return true, nil
}

// MemoryOTPStore is a single-process OTPStore used in tests.
type MemoryOTPStore struct {
	mu    sync.Mutex
	ttl   time.Duration
	codes map[string]memoryOTP
}

type memoryOTP struct {
	code    string
	expires time.Time
}

// NewMemoryOTPStore creates an in-memory OTP store.
func NewMemoryOTPStore(ttl time.Duration) *MemoryOTPStore {
	return &MemoryOTPStore{ttl: ttl, codes: make(map[string]memoryOTP)}
}

func (s *MemoryOTPStore) Set(ctx context.Context, phone, code string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.codes[otpKey(phone)] = memoryOTP{code: code, expires: time.Now().Add(s.ttl)}
	return nil
}

func (s *MemoryOTPStore) Consume(ctx context.Context, phone, code string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := otpKey(phone)
	entry, ok := s.codes[key]
	if !ok || time.Now().After(entry.expires) {
		delete(s.codes, key)
		return false, nil
	}
	if entry.code != code {
		return false, nil
	}

	delete(s.codes, key)
	return true, nil
}
