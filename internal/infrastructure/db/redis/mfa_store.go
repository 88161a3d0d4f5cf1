package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/corpgpt/auth-service/internal/core/domain"
	"github.com/corpgpt/auth-service/internal/core/ports"
)

// ChallengeStore holds pending MFA challenges in Redis.
// Key format: mfa:<challenge_id>; the key TTL enforces challenge expiry and
// GETDEL enforces single use.
type ChallengeStore struct {
	client *redis.Client
}

func NewChallengeStore(client *redis.Client) *ChallengeStore {
	return &ChallengeStore{client: client}
}

func (s *ChallengeStore) Put(ctx context.Context, challenge *domain.MFAChallenge, ttl time.Duration) error {
	data, err := json.Marshal(challenge)
	if err != nil {
		return fmt.Errorf("marshal challenge: %w", err)
	}
	return s.client.Set(ctx, "mfa:"+challenge.ID, data, ttl).Err()
}

func (s *ChallengeStore) Take(ctx context.Context, id string) (*domain.MFAChallenge, error) {
	data, err := s.client.GetDel(ctx, "mfa:"+id).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, domain.ErrChallengeNotFound
		}
		return nil, fmt.Errorf("take challenge: %w", err)
	}

	var ch domain.MFAChallenge
	if err := json.Unmarshal(data, &ch); err != nil {
		return nil, domain.ErrChallengeNotFound
	}
	return &ch, nil
}

// otpExpiredGrace keeps an expired record around long enough to report
// "expired" rather than "invalid" before the key itself is evicted.
const otpExpiredGrace = time.Hour

// otpRecord is the stored OTP payload. The expiry lives in the record, not
// only on the key TTL, so an expired code stays distinguishable from an
// unknown one.
type otpRecord struct {
	Code      string    `json:"code"`
	ExpiresAt time.Time `json:"expires_at"`
}

// checkOTP is the consume decision: wrong code is invalid, right code past
// its expiry is expired.
func checkOTP(rec otpRecord, code string, now time.Time) error {
	if rec.Code != code {
		return ports.ErrCodeInvalid
	}
	if now.After(rec.ExpiresAt) {
		return ports.ErrCodeExpired
	}
	return nil
}

// OTPStore holds one-time verification codes in Redis.
// Key format: otp:<email>.
type OTPStore struct {
	client *redis.Client
}

func NewOTPStore(client *redis.Client) *OTPStore {
	return &OTPStore{client: client}
}

func (s *OTPStore) Save(ctx context.Context, email, code string, ttl time.Duration) error {
	data, err := json.Marshal(otpRecord{Code: code, ExpiresAt: time.Now().UTC().Add(ttl)})
	if err != nil {
		return fmt.Errorf("marshal otp: %w", err)
	}
	return s.client.Set(ctx, "otp:"+email, data, ttl+otpExpiredGrace).Err()
}

func (s *OTPStore) Consume(ctx context.Context, email, code string) error {
	key := "otp:" + email
	data, err := s.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return ports.ErrCodeInvalid
		}
		return fmt.Errorf("consume otp: %w", err)
	}

	var rec otpRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		_ = s.client.Del(ctx, key).Err()
		return ports.ErrCodeInvalid
	}
	if err := checkOTP(rec, code, time.Now().UTC()); err != nil {
		if errors.Is(err, ports.ErrCodeExpired) {
			_ = s.client.Del(ctx, key).Err()
		}
		return err
	}
	return s.client.Del(ctx, key).Err()
}
