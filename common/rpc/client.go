package rpc

import (
	"context"
	"fmt"

	"github.com/apache/thrift/lib/go/thrift"
)

// Client is the caller side of the queue service.
type Client struct {
	c        thrift.TClient
	lastMeta thrift.ResponseMeta
}

func NewClient(c thrift.TClient) *Client {
	return &Client{c: c}
}

// NewSocketClient dials addr with a framed binary protocol. The returned
// transport is open and owned by the caller.
func NewSocketClient(addr string, conf *thrift.TConfiguration) (*Client, thrift.TTransport, error) {
	socket := thrift.NewTSocketConf(addr, conf)
	trans := thrift.NewTFramedTransportConf(socket, conf)
	iprot := thrift.NewTBinaryProtocolConf(trans, conf)
	oprot := thrift.NewTBinaryProtocolConf(trans, conf)
	if err := trans.Open(); err != nil {
		return nil, nil, PrependRPCError(err)
	}
	return NewClient(thrift.NewTStandardClient(iprot, oprot)), trans, nil
}

func (p *Client) LastResponseMeta() thrift.ResponseMeta {
	return p.lastMeta
}

// Exec runs line in session on the server.
func (p *Client) Exec(ctx context.Context, session, line string) (*ExecReply, error) {
	var result execResult
	meta, err := p.c.Call(ctx, ExecMethod, &ExecRequest{Session: session, Line: line}, &result)
	p.lastMeta = meta
	if err != nil {
		return nil, fmt.Errorf("exec %q: %w", line, err)
	}
	if result.Success == nil {
		return nil, thrift.NewTApplicationException(thrift.MISSING_RESULT, "exec failed: unknown result")
	}
	return result.Success, nil
}

// ErrorText renders a call error for users.
func ErrorText(err error) string {
	return describe(err)
}
