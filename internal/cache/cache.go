// Package cache memoizes per-source fetch results between searches.
package cache

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
)

var (
	ErrNotFound     = errors.New("key not found in cache")
	ErrInvalidValue = errors.New("invalid value for cache")
	ErrClosed       = errors.New("cache is closed")
)

// Cache stores JSON-encodable values under string keys.
type Cache interface {
	Set(ctx context.Context, key string, value any, ttl time.Duration) error

	// Get decodes the stored value into value, which must be a pointer.
	Get(ctx context.Context, key string, value any) error

	Delete(ctx context.Context, key string) error

	Clear(ctx context.Context) error

	Close() error
}

type Options struct {
	DefaultTTL time.Duration

	CleanupInterval time.Duration

	RedisAddr string

	RedisPassword string

	RedisDB int
}

func DefaultOptions() Options {
	return Options{
		DefaultTTL:      15 * time.Minute,
		CleanupInterval: 5 * time.Minute,
	}
}

// SearchKey identifies the ranked result of one search.
func SearchKey(keywords, location string, max int) string {
	norm := func(s string) string {
		return strings.Join(strings.Fields(strings.ToLower(s)), " ")
	}
	return fmt.Sprintf("easyapply:search:%s:%s:%d", norm(keywords), norm(location), max)
}

// Nop never stores anything.
type Nop struct{}

func (Nop) Set(context.Context, string, any, time.Duration) error { return nil }
func (Nop) Get(context.Context, string, any) error                { return ErrNotFound }
func (Nop) Delete(context.Context, string) error                  { return nil }
func (Nop) Clear(context.Context) error                           { return nil }
func (Nop) Close() error                                          { return nil }
