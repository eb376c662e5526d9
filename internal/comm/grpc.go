package comm

import (
	"bytes"
	"context"
	"encoding/gob"
	"fmt"
	"net"
	"sync"

	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/encoding"
)

// codecName is the gRPC content subtype under which envelopes travel.
const codecName = "addcalc-gob"

// maxMessageBytes bounds a single chunk message.
const maxMessageBytes = 1 << 30

const deliverMethod = "/addcalc.comm.Mailbox/Deliver"

func init() {
	encoding.RegisterCodec(gobCodec{})
}

// gobCodec lets the mailbox service run over gRPC without generated
// protobuf types.
type gobCodec struct{}

func (gobCodec) Marshal(v any) ([]byte, error) {
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (gobCodec) Unmarshal(data []byte, v any) error {
	return gob.NewDecoder(bytes.NewReader(data)).Decode(v)
}

func (gobCodec) Name() string { return codecName }

// Envelope is one point-to-point message on the wire.
type Envelope struct {
	Src     int
	Tag     int
	Payload []byte
}

// Ack confirms that an envelope was queued at the receiver.
type Ack struct {
	Queued bool
}

type mailboxServer interface {
	Deliver(context.Context, *Envelope) (*Ack, error)
}

var mailboxServiceDesc = grpc.ServiceDesc{
	ServiceName: "addcalc.comm.Mailbox",
	HandlerType: (*mailboxServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "Deliver", Handler: deliverHandler},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "addcalc/comm/mailbox",
}

func deliverHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(Envelope)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(mailboxServer).Deliver(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: deliverMethod}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(mailboxServer).Deliver(ctx, req.(*Envelope))
	}
	return interceptor(ctx, in, info, handler)
}

// GRPCComm is a rank whose mailbox is served over gRPC. Peers are addressed
// by the listen addresses of all ranks, indexed by rank.
type GRPCComm struct {
	rank   int
	peers  []string
	box    *mailbox
	server *grpc.Server

	mu    sync.Mutex
	conns map[int]*grpc.ClientConn
}

// DialGRPC listens on peers[rank] and returns the endpoint for rank. The
// other ranks are dialed lazily on first send, waiting for them to come up.
func DialGRPC(rank int, peers []string) (*GRPCComm, error) {
	if err := checkRank(rank, len(peers)); err != nil {
		return nil, err
	}
	lis, err := net.Listen("tcp", peers[rank])
	if err != nil {
		return nil, fmt.Errorf("comm: listen on %s: %w", peers[rank], err)
	}
	return ListenGRPC(rank, lis, peers), nil
}

// ListenGRPC serves rank's mailbox on lis.
func ListenGRPC(rank int, lis net.Listener, peers []string) *GRPCComm {
	g := &GRPCComm{
		rank:   rank,
		peers:  append([]string(nil), peers...),
		box:    newMailbox(),
		server: grpc.NewServer(grpc.MaxRecvMsgSize(maxMessageBytes)),
		conns:  make(map[int]*grpc.ClientConn),
	}
	g.server.RegisterService(&mailboxServiceDesc, g)
	go func() { _ = g.server.Serve(lis) }()
	return g
}

// NewGRPCWorld starts size gRPC endpoints on loopback ports.
func NewGRPCWorld(size int) ([]Communicator, error) {
	if size < 1 {
		return nil, fmt.Errorf("comm: world size must be positive, got %d", size)
	}
	listeners := make([]net.Listener, size)
	peers := make([]string, size)
	for i := range listeners {
		lis, err := net.Listen("tcp", "127.0.0.1:0")
		if err != nil {
			for _, l := range listeners[:i] {
				l.Close()
			}
			return nil, fmt.Errorf("comm: listen: %w", err)
		}
		listeners[i] = lis
		peers[i] = lis.Addr().String()
	}
	comms := make([]Communicator, size)
	for i, lis := range listeners {
		comms[i] = ListenGRPC(i, lis, peers)
	}
	return comms, nil
}

// Deliver implements the mailbox service.
func (g *GRPCComm) Deliver(ctx context.Context, env *Envelope) (*Ack, error) {
	if err := checkRank(env.Src, len(g.peers)); err != nil {
		return nil, err
	}
	if err := g.box.deliver(ctx, env.Src, env.Tag, env.Payload); err != nil {
		return nil, err
	}
	return &Ack{Queued: true}, nil
}

func (g *GRPCComm) Rank() int { return g.rank }

func (g *GRPCComm) Size() int { return len(g.peers) }

// Addr returns the address this rank listens on.
func (g *GRPCComm) Addr() string { return g.peers[g.rank] }

func (g *GRPCComm) conn(dst int) (*grpc.ClientConn, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if cc, ok := g.conns[dst]; ok {
		return cc, nil
	}
	cc, err := grpc.NewClient(g.peers[dst],
		grpc.WithTransportCredentials(insecure.NewCredentials()),
		grpc.WithDefaultCallOptions(grpc.CallContentSubtype(codecName)),
	)
	if err != nil {
		return nil, fmt.Errorf("comm: dial rank %d at %s: %w", dst, g.peers[dst], err)
	}
	g.conns[dst] = cc
	return cc, nil
}

func (g *GRPCComm) Send(ctx context.Context, dst, tag int, payload []byte) error {
	if err := checkRank(dst, len(g.peers)); err != nil {
		return err
	}
	if dst == g.rank {
		return g.box.deliver(ctx, g.rank, tag, payload)
	}
	cc, err := g.conn(dst)
	if err != nil {
		return err
	}
	env := &Envelope{Src: g.rank, Tag: tag, Payload: payload}
	return cc.Invoke(ctx, deliverMethod, env, new(Ack), grpc.WaitForReady(true))
}

func (g *GRPCComm) Recv(ctx context.Context, src, tag int) ([]byte, error) {
	if err := checkRank(src, len(g.peers)); err != nil {
		return nil, err
	}
	return g.box.take(ctx, src, tag)
}

func (g *GRPCComm) Irecv(src, tag int) *Request {
	if err := checkRank(src, len(g.peers)); err != nil {
		return failedRequest(src, tag, err)
	}
	return newRequest(g.box, src, tag)
}

// Close stops serving and drops all client connections.
func (g *GRPCComm) Close() error {
	g.box.close()
	g.server.Stop()
	g.mu.Lock()
	defer g.mu.Unlock()
	var first error
	for dst, cc := range g.conns {
		if err := cc.Close(); err != nil && first == nil {
			first = err
		}
		delete(g.conns, dst)
	}
	return first
}
