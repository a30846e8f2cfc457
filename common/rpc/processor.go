package rpc

import (
	"context"
	"errors"
	"fmt"

	"github.com/apache/thrift/lib/go/thrift"
)

// Handler serves exec calls.
type Handler interface {
	Exec(ctx context.Context, req *ExecRequest) (*ExecReply, error)
}

type HandlerFunc func(ctx context.Context, req *ExecRequest) (*ExecReply, error)

func (f HandlerFunc) Exec(ctx context.Context, req *ExecRequest) (*ExecReply, error) {
	return f(ctx, req)
}

// Processor dispatches incoming messages by name, like a generated service
// processor.
type Processor struct {
	processorMap map[string]thrift.TProcessorFunction
	handler      Handler
}

var _ thrift.TProcessor = (*Processor)(nil)

func NewProcessor(handler Handler) *Processor {
	p := &Processor{
		processorMap: make(map[string]thrift.TProcessorFunction),
		handler:      handler,
	}
	p.processorMap[ExecMethod] = &execProcessor{handler: handler}
	return p
}

func (p *Processor) AddToProcessorMap(key string, processor thrift.TProcessorFunction) {
	p.processorMap[key] = processor
}

func (p *Processor) GetProcessorFunction(key string) (processor thrift.TProcessorFunction, ok bool) {
	processor, ok = p.processorMap[key]
	return processor, ok
}

func (p *Processor) ProcessorMap() map[string]thrift.TProcessorFunction {
	return p.processorMap
}

func (p *Processor) Process(ctx context.Context, iprot, oprot thrift.TProtocol) (success bool, err thrift.TException) {
	name, _, seqId, err2 := iprot.ReadMessageBegin(ctx)
	if err2 != nil {
		return false, thrift.WrapTException(err2)
	}
	if processor, ok := p.GetProcessorFunction(name); ok {
		return processor.Process(ctx, seqId, iprot, oprot)
	}
	iprot.Skip(ctx, thrift.STRUCT)
	iprot.ReadMessageEnd(ctx)
	x := thrift.NewTApplicationException(thrift.UNKNOWN_METHOD, "Unknown function "+name)
	writeException(ctx, oprot, name, seqId, x)
	return false, x
}

type execProcessor struct {
	handler Handler
}

func (p *execProcessor) Process(ctx context.Context, seqId int32, iprot, oprot thrift.TProtocol) (success bool, err thrift.TException) {
	args := NewExecRequest()
	if err2 := args.Read(ctx, iprot); err2 != nil {
		iprot.ReadMessageEnd(ctx)
		x := thrift.NewTApplicationException(thrift.PROTOCOL_ERROR, err2.Error())
		writeException(ctx, oprot, ExecMethod, seqId, x)
		return false, thrift.WrapTException(err2)
	}
	iprot.ReadMessageEnd(ctx)

	reply, err2 := p.handler.Exec(ctx, args)
	if err2 != nil {
		x := thrift.NewTApplicationException(thrift.INTERNAL_ERROR, "Internal error processing exec: "+err2.Error())
		writeException(ctx, oprot, ExecMethod, seqId, x)
		return true, thrift.WrapTException(err2)
	}
	result := &execResult{Success: reply}
	if err2 = writeReply(ctx, oprot, ExecMethod, seqId, result); err2 != nil {
		return false, thrift.WrapTException(err2)
	}
	return true, nil
}

func writeReply(ctx context.Context, oprot thrift.TProtocol, name string, seqId int32, result thrift.TStruct) error {
	if err := oprot.WriteMessageBegin(ctx, name, thrift.REPLY, seqId); err != nil {
		return err
	}
	if err := result.Write(ctx, oprot); err != nil {
		return err
	}
	if err := oprot.WriteMessageEnd(ctx); err != nil {
		return err
	}
	return oprot.Flush(ctx)
}

func writeException(ctx context.Context, oprot thrift.TProtocol, name string, seqId int32, x thrift.TApplicationException) error {
	if err := oprot.WriteMessageBegin(ctx, name, thrift.EXCEPTION, seqId); err != nil {
		return err
	}
	if err := x.Write(ctx, oprot); err != nil {
		return err
	}
	if err := oprot.WriteMessageEnd(ctx); err != nil {
		return err
	}
	return oprot.Flush(ctx)
}

// PrependRPCError tags err as coming from the queue service.
func PrependRPCError(err error) error {
	return thrift.PrependError("strqueue rpc: ", err)
}

// IsConnError reports transport level failures, after which a connection
// must not be reused.
func IsConnError(err error) bool {
	var te thrift.TTransportException
	return errors.As(err, &te)
}

func describe(err error) string {
	var ae thrift.TApplicationException
	if errors.As(err, &ae) {
		return fmt.Sprintf("application exception %d: %v", ae.TypeId(), ae.Error())
	}
	return err.Error()
}
