package fanout

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"
)

func TestSend_AllReceiversObserveInOrder(t *testing.T) {
	sender := New[string]()
	defer sender.Close()

	receiver0 := sender.NewReceiver()
	receiver1 := sender.NewReceiver()
	defer receiver0.Close()
	defer receiver1.Close()

	sender.Send("0")
	sender.Send("1")

	clone := sender.Clone()
	clone.Send("2")
	clone.Send("3")
	clone.Send("4")
	clone.Close()

	for _, r := range []*Receiver[string]{receiver0, receiver1} {
		for _, want := range []string{"0", "1", "2", "3", "4"} {
			v, err := r.TryPop()
			require.NoError(t, err)
			require.Equal(t, want, v)
		}
		_, err := r.TryPop()
		require.ErrorIs(t, err, ErrEmpty)
	}
}

func TestSendTo_OnlyNamedReceiver(t *testing.T) {
	sender := New[string]()
	defer sender.Close()

	receiver0 := sender.NewReceiver()
	receiver1 := sender.NewReceiver()
	defer receiver0.Close()
	defer receiver1.Close()

	sender.SendTo("0", receiver0)
	sender.SendTo("1", receiver0)

	v, err := receiver0.TryPop()
	require.NoError(t, err)
	require.Equal(t, "0", v)
	v, err = receiver0.TryPop()
	require.NoError(t, err)
	require.Equal(t, "1", v)

	_, err = receiver1.TryPop()
	require.ErrorIs(t, err, ErrEmpty)
}

func TestStopResume(t *testing.T) {
	sender := New[string]()
	defer sender.Close()

	receiver := sender.NewReceiver()
	defer receiver.Close()

	sender.Send("0")
	sender.Send("1")

	receiver.Stop()
	sender.Send("2")
	sender.Send("3")

	receiver.Resume()
	sender.Send("4")

	// Messages sent while stopped are discarded, not buffered.
	for _, want := range []string{"0", "1", "4"} {
		v, err := receiver.TryPop()
		require.NoError(t, err)
		require.Equal(t, want, v)
	}
	_, err := receiver.TryPop()
	require.ErrorIs(t, err, ErrEmpty)
}

func TestReceiverClose_CleanupDeferredToNextSend(t *testing.T) {
	sender := New[string]()
	defer sender.Close()

	receiver := sender.NewReceiver()
	sender.Send("0")
	require.Equal(t, 1, sender.ReceiverCount())

	receiver.Close()
	receiver.Close() // idempotent

	// Still registered until the next send runs its cleanup pass.
	require.Equal(t, 1, sender.ReceiverCount())

	sender.Send("1")
	require.Zero(t, sender.ReceiverCount())
}

func TestNewReceiver_NoHistoryReplay(t *testing.T) {
	sender := New[string]()
	defer sender.Close()

	receiver0 := sender.NewReceiver()
	defer receiver0.Close()

	sender.Send("old")

	receiver1 := receiver0.NewReceiver()
	defer receiver1.Close()

	sender.Send("new")

	v, err := receiver0.TryPop()
	require.NoError(t, err)
	require.Equal(t, "old", v)
	v, err = receiver0.TryPop()
	require.NoError(t, err)
	require.Equal(t, "new", v)

	v, err = receiver1.TryPop()
	require.NoError(t, err)
	require.Equal(t, "new", v)
	_, err = receiver1.TryPop()
	require.ErrorIs(t, err, ErrEmpty)
}

func TestTryPop_DisconnectedAfterLastSenderCloses(t *testing.T) {
	sender := New[string]()
	receiver := sender.NewReceiver()
	defer receiver.Close()

	sender.Send("0")
	clone := sender.Clone()
	sender.Close()

	// One sender is still alive.
	v, err := receiver.TryPop()
	require.NoError(t, err)
	require.Equal(t, "0", v)
	_, err = receiver.TryPop()
	require.ErrorIs(t, err, ErrEmpty)

	clone.Send("1")
	clone.Close()

	// Buffered messages still drain after the disconnect...
	v, err = receiver.TryPop()
	require.NoError(t, err)
	require.Equal(t, "1", v)

	// ...and only then does the receiver observe it.
	_, err = receiver.TryPop()
	require.ErrorIs(t, err, ErrDisconnected)
}

func TestPop_WakesOnSend(t *testing.T) {
	sender := New[int]()
	defer sender.Close()

	receiver := sender.NewReceiver()
	defer receiver.Close()

	var g errgroup.Group
	g.Go(func() error {
		v, err := receiver.Pop(context.Background())
		if err != nil {
			return err
		}
		require.Equal(t, 7, v)
		return nil
	})

	time.Sleep(50 * time.Millisecond)
	sender.Send(7)

	require.NoError(t, g.Wait())
}

func TestPop_WakesOnDisconnect(t *testing.T) {
	sender := New[int]()
	receiver := sender.NewReceiver()
	defer receiver.Close()

	done := make(chan error, 1)
	go func() {
		_, err := receiver.Pop(context.Background())
		done <- err
	}()

	time.Sleep(50 * time.Millisecond)
	sender.Close()

	select {
	case err := <-done:
		require.ErrorIs(t, err, ErrDisconnected)
	case <-time.After(2 * time.Second):
		t.Fatal("Pop did not observe the disconnect")
	}
}

func TestPop_HonorsContext(t *testing.T) {
	sender := New[int]()
	defer sender.Close()

	receiver := sender.NewReceiver()
	defer receiver.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := receiver.Pop(ctx)
	require.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestConcurrentSendersAndReceivers(t *testing.T) {
	const (
		senders  = 4
		messages = 100
	)

	root := New[int]()
	receiver := root.NewReceiver()
	defer receiver.Close()

	var g errgroup.Group
	for i := 0; i < senders; i++ {
		s := root.Clone()
		g.Go(func() error {
			defer s.Close()
			for j := 0; j < messages; j++ {
				s.Send(j)
			}
			return nil
		})
	}
	root.Close()

	got := 0
	for {
		_, err := receiver.Pop(context.Background())
		if err != nil {
			require.ErrorIs(t, err, ErrDisconnected)
			break
		}
		got++
	}

	require.NoError(t, g.Wait())
	require.Equal(t, senders*messages, got)
}
