package lock

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestWithDelay(t *testing.T) {
	ctx := context.Background()

	t.Run(`свободный ключ захватывается сразу`, func(t *testing.T) {
		called := false
		success, err := WithDelay(ctx, "doc1", time.Second, func() error {
			called = true
			return nil
		})
		require.NoError(t, err)
		require.True(t, success)
		require.True(t, called)
	})

	t.Run(`занятый ключ дожидается освобождения`, func(t *testing.T) {
		release := make(chan struct{})
		started := make(chan struct{})
		var wg sync.WaitGroup
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = WithDelay(ctx, "doc2", time.Second, func() error {
				close(started)
				<-release
				return nil
			})
		}()
		<-started

		go func() {
			time.Sleep(100 * time.Millisecond)
			close(release)
		}()
		success, err := WithDelay(ctx, "doc2", 2*time.Second, func() error { return nil })
		require.NoError(t, err)
		require.True(t, success)
		wg.Wait()
	})

	t.Run(`истечение ожидания без захвата`, func(t *testing.T) {
		release := make(chan struct{})
		started := make(chan struct{})
		var wg sync.WaitGroup
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = WithDelay(ctx, "doc3", time.Second, func() error {
				close(started)
				<-release
				return nil
			})
		}()
		<-started

		called := false
		success, err := WithDelay(ctx, "doc3", 100*time.Millisecond, func() error {
			called = true
			return nil
		})
		require.NoError(t, err)
		require.False(t, success)
		require.False(t, called)
		close(release)
		wg.Wait()
	})

	t.Run(`разные ключи не мешают друг другу`, func(t *testing.T) {
		release := make(chan struct{})
		started := make(chan struct{})
		go func() {
			_, _ = WithDelay(ctx, "doc4", time.Second, func() error {
				close(started)
				<-release
				return nil
			})
		}()
		<-started
		defer close(release)

		success, err := WithDelay(ctx, "doc5", 100*time.Millisecond, func() error { return nil })
		require.NoError(t, err)
		require.True(t, success)
	})
}
