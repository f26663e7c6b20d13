package customdict

import (
	"context"
	"errors"
	"strings"

	"github.com/redis/go-redis/v9"
)

// DefaultKey is the Redis set holding user words.
const DefaultKey = "keyfix:custom_words"

// ErrEmptyWord is returned for blank words.
var ErrEmptyWord = errors.New("customdict: empty word")

// CustomDict wraps a Redis client to store words that extend the built-in
// word lists.
type CustomDict struct {
	client *redis.Client
	key    string
}

// New creates a new CustomDict on the given set key. An empty key uses
// DefaultKey.
func New(client *redis.Client, key string) *CustomDict {
	if key == "" {
		key = DefaultKey
	}
	return &CustomDict{client: client, key: key}
}

// Normalize is the stored form of a word.
func Normalize(word string) (string, error) {
	w := strings.ToLower(strings.TrimSpace(word))
	if w == "" {
		return "", ErrEmptyWord
	}
	return w, nil
}

// Add inserts a word into the custom dictionary.
func (cd *CustomDict) Add(ctx context.Context, word string) error {
	w, err := Normalize(word)
	if err != nil {
		return err
	}
	return cd.client.SAdd(ctx, cd.key, w).Err()
}

// Remove deletes a word from the custom dictionary.
func (cd *CustomDict) Remove(ctx context.Context, word string) error {
	w, err := Normalize(word)
	if err != nil {
		return err
	}
	return cd.client.SRem(ctx, cd.key, w).Err()
}

// All returns all words stored in the custom dictionary.
func (cd *CustomDict) All(ctx context.Context) ([]string, error) {
	return cd.client.SMembers(ctx, cd.key).Result()
}

// Ping checks the connection.
func (cd *CustomDict) Ping(ctx context.Context) error {
	return cd.client.Ping(ctx).Err()
}

// Key returns the Redis set key.
func (cd *CustomDict) Key() string { return cd.key }
