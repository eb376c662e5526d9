package comm

import (
	"context"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGobCodec(t *testing.T) {
	codec := gobCodec{}
	assert.Equal(t, codecName, codec.Name())

	data, err := codec.Marshal(&Envelope{Src: 3, Tag: 6, Payload: []byte{0, 9}})
	require.NoError(t, err)

	var env Envelope
	require.NoError(t, codec.Unmarshal(data, &env))
	assert.Equal(t, Envelope{Src: 3, Tag: 6, Payload: []byte{0, 9}}, env)
}

func TestDialGRPCWaitsForLatePeer(t *testing.T) {
	lis0, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	lis1, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	peers := []string{lis0.Addr().String(), lis1.Addr().String()}

	first := ListenGRPC(0, lis0, peers)
	defer first.Close()
	assert.Equal(t, peers[0], first.Addr())

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	sent := make(chan error, 1)
	go func() { sent <- first.Send(ctx, 1, 2, []byte("carry")) }()

	// Rank 1 starts serving only after the send was issued.
	time.Sleep(50 * time.Millisecond)
	second := ListenGRPC(1, lis1, peers)
	defer second.Close()

	got, err := second.Recv(ctx, 0, 2)
	require.NoError(t, err)
	assert.Equal(t, []byte("carry"), got)
	require.NoError(t, <-sent)
}

func TestDialGRPCRejectsBadRank(t *testing.T) {
	_, err := DialGRPC(2, []string{"127.0.0.1:0", "127.0.0.1:0"})
	assert.Error(t, err)
}

func TestGRPCSelfSend(t *testing.T) {
	comms, err := NewGRPCWorld(1)
	require.NoError(t, err)
	defer CloseAll(comms)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, comms[0].Send(ctx, 0, 1, []byte{5}))
	got, err := comms[0].Recv(ctx, 0, 1)
	require.NoError(t, err)
	assert.Equal(t, []byte{5}, got)
}
