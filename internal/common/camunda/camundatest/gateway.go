// Package camundatest provides a worker.JobClient that records the commands a job handler
// sends instead of talking to a broker.
package camundatest

import (
	"context"
	"sync"

	"github.com/camunda/zeebe/clients/go/v8/pkg/commands"
	"github.com/camunda/zeebe/clients/go/v8/pkg/pb"
	"google.golang.org/grpc"
)

// Command is one command as the gateway received it. CtxErr is the context error at the
// moment of the call; nil means the command went out with a live context.
type Command struct {
	Kind         string
	JobKey       int64
	Retries      int32
	ErrorCode    string
	ErrorMessage string
	Variables    string
	CtxErr       error
}

// Gateway implements the job commands of pb.GatewayClient. Any other gateway call panics.
type Gateway struct {
	pb.GatewayClient

	mu   sync.Mutex
	sent []Command
}

func (g *Gateway) record(ctx context.Context, s Command) {
	s.CtxErr = ctx.Err()
	g.mu.Lock()
	g.sent = append(g.sent, s)
	g.mu.Unlock()
}

func (g *Gateway) CompleteJob(ctx context.Context, in *pb.CompleteJobRequest, _ ...grpc.CallOption) (*pb.CompleteJobResponse, error) {
	g.record(ctx, Command{Kind: "complete", JobKey: in.JobKey, Variables: in.Variables})
	return &pb.CompleteJobResponse{}, ctx.Err()
}

func (g *Gateway) FailJob(ctx context.Context, in *pb.FailJobRequest, _ ...grpc.CallOption) (*pb.FailJobResponse, error) {
	g.record(ctx, Command{Kind: "fail", JobKey: in.JobKey, Retries: in.Retries, ErrorMessage: in.ErrorMessage, Variables: in.Variables})
	return &pb.FailJobResponse{}, ctx.Err()
}

func (g *Gateway) ThrowError(ctx context.Context, in *pb.ThrowErrorRequest, _ ...grpc.CallOption) (*pb.ThrowErrorResponse, error) {
	g.record(ctx, Command{Kind: "throw", JobKey: in.JobKey, ErrorCode: in.ErrorCode, ErrorMessage: in.ErrorMessage, Variables: in.Variables})
	return &pb.ThrowErrorResponse{}, ctx.Err()
}

// Sent returns a copy of everything recorded so far.
func (g *Gateway) Sent() []Command {
	g.mu.Lock()
	defer g.mu.Unlock()
	return append([]Command(nil), g.sent...)
}

// JobClient hands out commands bound to a Gateway.
type JobClient struct {
	Gateway *Gateway
}

func NewJobClient() *JobClient {
	return &JobClient{Gateway: &Gateway{}}
}

func noRetry(context.Context, error) bool { return false }

func (c *JobClient) NewCompleteJobCommand() commands.CompleteJobCommandStep1 {
	return commands.NewCompleteJobCommand(c.Gateway, noRetry)
}

func (c *JobClient) NewFailJobCommand() commands.FailJobCommandStep1 {
	return commands.NewFailJobCommand(c.Gateway, noRetry)
}

func (c *JobClient) NewThrowErrorCommand() commands.ThrowErrorCommandStep1 {
	return commands.NewThrowErrorCommand(c.Gateway, noRetry)
}
